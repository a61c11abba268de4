// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import "github.com/gogpu/ciri/gfx/driver"

// object is a COM interface pointer. The zero object is NULL.
type object uintptr

// native is the part of ID3D11Device, its immediate context, the DXGI
// swap chain and d3dcompiler that the backend uses.
type native interface {
	AdapterName() string
	// FeatureLevel returns a D3D_FEATURE_LEVEL such as 0xb000.
	FeatureLevel() uint32

	CreateBuffer(desc *bufferDesc, data []byte) (object, error)
	CreateTexture2D(desc *texture2DDesc) (object, error)
	CreateTexture3D(desc *texture3DDesc) (object, error)
	CreateShaderResourceView(res object) (object, error)
	CreateRenderTargetView(res object) (object, error)
	CreateDepthStencilView(res object) (object, error)
	CreateInputLayout(elems []inputElement, vsCode []byte) (object, error)
	CreateShader(stage driver.ShaderStage, code []byte) (object, error)
	CreateSamplerState(desc *samplerDesc) (object, error)
	CreateRasterizerState(desc *rasterizerDesc) (object, error)
	CreateDepthStencilState(desc *depthStencilDesc) (object, error)
	CreateBlendState(desc *blendDesc) (object, error)

	// Compile compiles HLSL source. On failure log holds the compiler
	// output.
	Compile(src []byte, name, entry, target string) (code []byte, log string, err error)
	// ConstantBufferSlot reflects code for the register of the named
	// constant buffer.
	ConstantBufferSlot(code []byte, name string) (int, bool)

	SetShader(stage driver.ShaderStage, s object)
	SetConstantBuffer(stage driver.ShaderStage, slot int, b object)
	SetShaderResource(stage driver.ShaderStage, slot int, srv object)
	SetSampler(stage driver.ShaderStage, slot int, s object)
	SetInputLayout(l object)
	SetVertexBuffer(b object, stride uint32)
	SetIndexBuffer(b object, format uint32)
	SetPrimitiveTopology(t uint32)
	SetRasterizerState(s object)
	SetViewport(vp *viewport)
	SetDepthStencilState(s object, ref uint32)
	SetBlendState(s object, factor [4]float32)
	SetRenderTargets(rtvs []object, dsv object)

	ClearRenderTargetView(rtv object, color [4]float32)
	ClearDepthStencilView(dsv object, flags uint32, depth float32, stencil uint8)
	UpdateSubresource(res object, sub uint32, b *box, data []byte, rowPitch, depthPitch uint32)
	CopySubresource(dst object, dstSub uint32, src object, srcSub uint32)
	// MapWrite replaces the contents of a dynamic resource.
	MapWrite(res object, data []byte) error
	// MapRead copies rows of rowBytes from a staging resource into dst,
	// honouring the driver's row pitch.
	MapRead(res object, sub uint32, dst []byte, rowBytes, rows int) error
	GenerateMips(srv object)
	Draw(count, start uint32)
	DrawIndexed(count uint32)

	// BackBuffer returns a render target view of the swap chain buffer.
	BackBuffer() (object, error)
	Present(syncInterval uint32) error
	ResizeBuffers(width, height uint32) error

	Release(o object)
	Close()
}
