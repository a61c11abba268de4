// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"fmt"
	"math/bits"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ciri/gfx/driver"
)

func boolean(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func topology(t gputypes.PrimitiveTopology) uint32 {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return _PRIMITIVE_TOPOLOGY_POINTLIST
	case gputypes.PrimitiveTopologyLineList:
		return _PRIMITIVE_TOPOLOGY_LINELIST
	case gputypes.PrimitiveTopologyLineStrip:
		return _PRIMITIVE_TOPOLOGY_LINESTRIP
	case gputypes.PrimitiveTopologyTriangleStrip:
		return _PRIMITIVE_TOPOLOGY_TRIANGLESTRIP
	}
	return _PRIMITIVE_TOPOLOGY_TRIANGLELIST
}

func compareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return _COMPARISON_NEVER
	case gputypes.CompareFunctionLess:
		return _COMPARISON_LESS
	case gputypes.CompareFunctionEqual:
		return _COMPARISON_EQUAL
	case gputypes.CompareFunctionLessEqual:
		return _COMPARISON_LESS_EQUAL
	case gputypes.CompareFunctionGreater:
		return _COMPARISON_GREATER
	case gputypes.CompareFunctionNotEqual:
		return _COMPARISON_NOT_EQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return _COMPARISON_GREATER_EQUAL
	}
	return _COMPARISON_ALWAYS
}

func blendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return _BLEND_ZERO
	case gputypes.BlendFactorSrc:
		return _BLEND_SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return _BLEND_INV_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return _BLEND_SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return _BLEND_INV_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return _BLEND_DEST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return _BLEND_INV_DEST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return _BLEND_DEST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return _BLEND_INV_DEST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return _BLEND_SRC_ALPHA_SAT
	case gputypes.BlendFactorConstant:
		return _BLEND_BLEND_FACTOR
	case gputypes.BlendFactorOneMinusConstant:
		return _BLEND_INV_BLEND_FACTOR
	}
	return _BLEND_ONE
}

// alphaFactor maps f for the alpha channel, where D3D11 rejects the
// color factors.
func alphaFactor(f gputypes.BlendFactor) uint32 {
	switch b := blendFactor(f); b {
	case _BLEND_SRC_COLOR:
		return _BLEND_SRC_ALPHA
	case _BLEND_INV_SRC_COLOR:
		return _BLEND_INV_SRC_ALPHA
	case _BLEND_DEST_COLOR:
		return _BLEND_DEST_ALPHA
	case _BLEND_INV_DEST_COLOR:
		return _BLEND_INV_DEST_ALPHA
	default:
		return b
	}
}

func blendOp(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return _BLEND_OP_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return _BLEND_OP_REV_SUBTRACT
	case gputypes.BlendOperationMin:
		return _BLEND_OP_MIN
	case gputypes.BlendOperationMax:
		return _BLEND_OP_MAX
	}
	return _BLEND_OP_ADD
}

func stencilOp(op driver.StencilOperation) uint32 {
	switch op {
	case driver.StencilZero:
		return _STENCIL_OP_ZERO
	case driver.StencilReplace:
		return _STENCIL_OP_REPLACE
	case driver.StencilIncrementSaturate:
		return _STENCIL_OP_INCR_SAT
	case driver.StencilDecrementSaturate:
		return _STENCIL_OP_DECR_SAT
	case driver.StencilInvert:
		return _STENCIL_OP_INVERT
	case driver.StencilIncrement:
		return _STENCIL_OP_INCR
	case driver.StencilDecrement:
		return _STENCIL_OP_DECR
	}
	return _STENCIL_OP_KEEP
}

func stencilFace(f driver.StencilFace) depthStencilOpDesc {
	return depthStencilOpDesc{
		StencilFailOp:      stencilOp(f.Fail),
		StencilDepthFailOp: stencilOp(f.DepthFail),
		StencilPassOp:      stencilOp(f.Pass),
		StencilFunc:        compareFunc(f.Compare),
	}
}

func addressMode(w driver.SamplerWrap) uint32 {
	switch w {
	case driver.WrapMirror:
		return _TEXTURE_ADDRESS_MIRROR
	case driver.WrapClamp:
		return _TEXTURE_ADDRESS_CLAMP
	case driver.WrapBorder:
		return _TEXTURE_ADDRESS_BORDER
	case driver.WrapMirrorOnce:
		return _TEXTURE_ADDRESS_MIRROR_ONCE
	}
	return _TEXTURE_ADDRESS_WRAP
}

func filter(f driver.SamplerFilter) uint32 {
	switch f {
	case driver.FilterPoint:
		return _FILTER_MIN_MAG_MIP_POINT
	case driver.FilterPointLinear:
		return _FILTER_MIN_POINT_MAG_LINEAR_MIP_POINT
	case driver.FilterLinearPoint:
		return _FILTER_MIN_LINEAR_MAG_MIP_POINT
	case driver.FilterTrilinear:
		return _FILTER_MIN_MAG_MIP_LINEAR
	case driver.FilterAnisotropic:
		return _FILTER_ANISOTROPIC
	}
	return _FILTER_MIN_MAG_LINEAR_MIP_POINT
}

func samplerState(d driver.SamplerDesc) samplerDesc {
	desc := samplerDesc{
		Filter:         filter(d.Filter),
		AddressU:       addressMode(d.WrapU),
		AddressV:       addressMode(d.WrapV),
		AddressW:       addressMode(d.WrapW),
		MipLODBias:     d.LODBias,
		MaxAnisotropy:  uint32(min(max(d.MaxAnisotropy, 1), _MAX_ANISOTROPY)),
		ComparisonFunc: _COMPARISON_NEVER,
		BorderColor:    d.BorderColor,
		MinLOD:         d.MinLOD,
		MaxLOD:         d.MaxLOD,
	}
	var unset gputypes.CompareFunction
	if d.Compare != unset && d.Compare != gputypes.CompareFunctionNever {
		desc.Filter |= _FILTER_COMPARISON
		desc.ComparisonFunc = compareFunc(d.Compare)
	}
	return desc
}

func rasterizerState(d driver.RasterizerDesc) rasterizerDesc {
	desc := rasterizerDesc{
		FillMode:              _FILL_SOLID,
		CullMode:              _CULL_BACK,
		FrontCounterClockwise: boolean(d.FrontFace == gputypes.FrontFaceCCW),
		DepthBias:             int32(d.DepthBias),
		SlopeScaledDepthBias:  d.SlopeScaledDepthBias,
		DepthClipEnable:       boolean(d.DepthClip),
		ScissorEnable:         boolean(d.ScissorTest),
		MultisampleEnable:     boolean(d.Multisample),
	}
	if d.Fill == driver.FillWireframe {
		desc.FillMode = _FILL_WIREFRAME
	}
	switch d.CullMode {
	case gputypes.CullModeNone:
		desc.CullMode = _CULL_NONE
	case gputypes.CullModeFront:
		desc.CullMode = _CULL_FRONT
	}
	return desc
}

func depthStencilState(d driver.DepthStencilDesc) depthStencilDesc {
	desc := depthStencilDesc{
		DepthEnable:      boolean(d.DepthEnable),
		DepthWriteMask:   _DEPTH_WRITE_MASK_ZERO,
		DepthFunc:        compareFunc(d.DepthCompare),
		StencilEnable:    boolean(d.StencilEnable),
		StencilReadMask:  d.StencilReadMask,
		StencilWriteMask: d.StencilWriteMask,
		FrontFace:        stencilFace(d.Front),
		BackFace:         stencilFace(d.Front),
	}
	if d.DepthWrite {
		desc.DepthWriteMask = _DEPTH_WRITE_MASK_ALL
	}
	if d.TwoSided {
		desc.BackFace = stencilFace(d.Back)
	}
	return desc
}

func blendState(d driver.BlendDesc) blendDesc {
	var desc blendDesc
	desc.RenderTarget[0] = renderTargetBlendDesc{
		BlendEnable:    boolean(d.BlendingEnabled()),
		SrcBlend:       blendFactor(d.SrcColor),
		DestBlend:      blendFactor(d.DstColor),
		BlendOp:        blendOp(d.ColorOp),
		SrcBlendAlpha:  alphaFactor(d.SrcAlpha),
		DestBlendAlpha: alphaFactor(d.DstAlpha),
		BlendOpAlpha:   blendOp(d.AlphaOp),
		// The WebGPU write mask bits match D3D11_COLOR_WRITE_ENABLE.
		RenderTargetWriteMask: uint8(d.WriteMask & gputypes.ColorWriteMaskAll),
	}
	return desc
}

func viewportOf(vp driver.Viewport) viewport {
	return viewport{
		TopLeftX: float32(vp.X),
		TopLeftY: float32(vp.Y),
		Width:    float32(vp.Width),
		Height:   float32(vp.Height),
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}
}

// textureFormat returns the DXGI format of f, or 0.
func textureFormat(f driver.TextureFormat) uint32 {
	switch f {
	case driver.FormatColor:
		return _DXGI_FORMAT_R8G8B8A8_UNORM
	case driver.FormatR32Float:
		return _DXGI_FORMAT_R32_FLOAT
	case driver.FormatRGB32Float:
		return _DXGI_FORMAT_R32G32B32_FLOAT
	case driver.FormatRGBA32Float:
		return _DXGI_FORMAT_R32G32B32A32_FLOAT
	}
	return 0
}

// vertexFormat returns the DXGI format of a float element with n
// components, or 0.
func vertexFormat(n int) uint32 {
	switch n {
	case 1:
		return _DXGI_FORMAT_R32_FLOAT
	case 2:
		return _DXGI_FORMAT_R32G32_FLOAT
	case 3:
		return _DXGI_FORMAT_R32G32B32_FLOAT
	case 4:
		return _DXGI_FORMAT_R32G32B32A32_FLOAT
	}
	return 0
}

func inputLayout(l driver.VertexLayout) ([]inputElement, error) {
	offsets := l.Offsets()
	elems := make([]inputElement, len(l.Elements))
	for i, e := range l.Elements {
		format := vertexFormat(e.Components())
		if format == 0 {
			return nil, fmt.Errorf("%w: vertex format %v", driver.ErrUnsupported, e.Format)
		}
		elems[i] = inputElement{
			Semantic: e.Usage.Semantic(),
			Index:    uint32(e.Index),
			Format:   format,
			Offset:   uint32(offsets[i]),
		}
	}
	return elems, nil
}

// mipLevels returns the length of the full mip chain of a w x h texture.
func mipLevels(w, h int) uint32 {
	return uint32(bits.Len(uint(max(w, h, 1))))
}
