// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/ciri/gfx/driver"
)

type call struct {
	name string
	args []any
}

func (c call) String() string {
	return c.name + fmt.Sprint(c.args...)
}

var errFakeCreate = errors.New("fake: create failed")

// fakeNative records every call and hands out object handles. It tracks
// live objects so tests can check that everything created is released.
type fakeNative struct {
	calls []call
	next  object
	live  map[object]string
	kinds map[string]object

	compileLog  map[string]string // target -> failure log
	slots       map[string]int
	failCreate  map[string]bool
	presentErr  error
	reflections int

	tex2D   []texture2DDesc
	tex3D   []texture3DDesc
	buffers []bufferDesc
	layouts [][]inputElement
	raster  []rasterizerDesc
	depth   []depthStencilDesc
	blend   []blendDesc
	samp    []samplerDesc
	updates []box
	closed  bool
}

func newFakeNative() *fakeNative {
	return &fakeNative{
		live:       make(map[object]string),
		kinds:      make(map[string]object),
		compileLog: make(map[string]string),
		slots:      make(map[string]int),
		failCreate: make(map[string]bool),
	}
}

func (f *fakeNative) rec(name string, args ...any) {
	f.calls = append(f.calls, call{name, args})
}

func (f *fakeNative) create(kind string) (object, error) {
	f.rec(kind)
	if f.failCreate[kind] {
		return 0, errFakeCreate
	}
	f.next++
	f.live[f.next] = kind
	f.kinds[kind] = f.next
	return f.next, nil
}

func (f *fakeNative) called(name string, args ...any) bool {
	want := fmt.Sprint(args...)
	for _, c := range f.calls {
		if c.name == name && fmt.Sprint(c.args...) == want {
			return true
		}
	}
	return false
}

func (f *fakeNative) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (f *fakeNative) reset() { f.calls = nil }

func (f *fakeNative) dump() string {
	var b strings.Builder
	for _, c := range f.calls {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// lastCreated returns the newest object of kind, live or released.
func (f *fakeNative) lastCreated(kind string) object {
	return f.kinds[kind]
}

func (f *fakeNative) AdapterName() string  { return "Fake Adapter" }
func (f *fakeNative) FeatureLevel() uint32 { return 0xb000 }

func (f *fakeNative) CreateBuffer(desc *bufferDesc, data []byte) (object, error) {
	f.buffers = append(f.buffers, *desc)
	f.rec("InitialData", len(data))
	return f.create("Buffer")
}

func (f *fakeNative) CreateTexture2D(desc *texture2DDesc) (object, error) {
	f.tex2D = append(f.tex2D, *desc)
	return f.create("Texture2D")
}

func (f *fakeNative) CreateTexture3D(desc *texture3DDesc) (object, error) {
	f.tex3D = append(f.tex3D, *desc)
	return f.create("Texture3D")
}

func (f *fakeNative) CreateShaderResourceView(object) (object, error) { return f.create("SRV") }
func (f *fakeNative) CreateRenderTargetView(object) (object, error)   { return f.create("RTV") }
func (f *fakeNative) CreateDepthStencilView(object) (object, error)   { return f.create("DSV") }

func (f *fakeNative) CreateInputLayout(elems []inputElement, vsCode []byte) (object, error) {
	f.layouts = append(f.layouts, elems)
	return f.create("InputLayout")
}

func (f *fakeNative) CreateShader(stage driver.ShaderStage, code []byte) (object, error) {
	return f.create("Shader." + stage.String())
}

func (f *fakeNative) CreateSamplerState(desc *samplerDesc) (object, error) {
	f.samp = append(f.samp, *desc)
	return f.create("Sampler")
}

func (f *fakeNative) CreateRasterizerState(desc *rasterizerDesc) (object, error) {
	f.raster = append(f.raster, *desc)
	return f.create("Rasterizer")
}

func (f *fakeNative) CreateDepthStencilState(desc *depthStencilDesc) (object, error) {
	f.depth = append(f.depth, *desc)
	return f.create("DepthStencil")
}

func (f *fakeNative) CreateBlendState(desc *blendDesc) (object, error) {
	f.blend = append(f.blend, *desc)
	return f.create("Blend")
}

func (f *fakeNative) Compile(src []byte, name, entry, target string) ([]byte, string, error) {
	f.rec("Compile", name, entry, target)
	if log, ok := f.compileLog[target]; ok {
		return nil, log, ErrorCode{Name: "D3DCompile", Code: 0x80004005}
	}
	return append([]byte("DXBC"+target+":"), src...), "", nil
}

func (f *fakeNative) ConstantBufferSlot(code []byte, name string) (int, bool) {
	f.reflections++
	slot, ok := f.slots[name]
	return slot, ok
}

func (f *fakeNative) SetShader(stage driver.ShaderStage, s object) {
	f.rec("SetShader", stage, s)
}

func (f *fakeNative) SetConstantBuffer(stage driver.ShaderStage, slot int, b object) {
	f.rec("SetConstantBuffer", stage, slot, b)
}

func (f *fakeNative) SetShaderResource(stage driver.ShaderStage, slot int, srv object) {
	f.rec("SetShaderResource", stage, slot, srv)
}

func (f *fakeNative) SetSampler(stage driver.ShaderStage, slot int, s object) {
	f.rec("SetSampler", stage, slot, s)
}

func (f *fakeNative) SetInputLayout(l object)       { f.rec("SetInputLayout", l) }
func (f *fakeNative) SetPrimitiveTopology(t uint32) { f.rec("SetPrimitiveTopology", t) }
func (f *fakeNative) SetRasterizerState(s object)   { f.rec("SetRasterizerState", s) }

func (f *fakeNative) SetVertexBuffer(b object, stride uint32) {
	f.rec("SetVertexBuffer", b, stride)
}

func (f *fakeNative) SetIndexBuffer(b object, format uint32) {
	f.rec("SetIndexBuffer", b, format)
}

func (f *fakeNative) SetViewport(vp *viewport) {
	f.rec("SetViewport", vp.TopLeftX, vp.TopLeftY, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
}

func (f *fakeNative) SetDepthStencilState(s object, ref uint32) {
	f.rec("SetDepthStencilState", s, ref)
}

func (f *fakeNative) SetBlendState(s object, factor [4]float32) {
	f.rec("SetBlendState", s, factor)
}

func (f *fakeNative) SetRenderTargets(rtvs []object, dsv object) {
	f.rec("SetRenderTargets", append([]object(nil), rtvs...), dsv)
}

func (f *fakeNative) ClearRenderTargetView(rtv object, color [4]float32) {
	f.rec("ClearRenderTargetView", rtv, color)
}

func (f *fakeNative) ClearDepthStencilView(dsv object, flags uint32, depth float32, stencil uint8) {
	f.rec("ClearDepthStencilView", dsv, flags, depth, stencil)
}

func (f *fakeNative) UpdateSubresource(res object, sub uint32, b *box, data []byte, rowPitch, depthPitch uint32) {
	var region box
	if b != nil {
		region = *b
	}
	f.updates = append(f.updates, region)
	f.rec("UpdateSubresource", res, sub, len(data), rowPitch, depthPitch)
}

func (f *fakeNative) CopySubresource(dst object, dstSub uint32, src object, srcSub uint32) {
	f.rec("CopySubresource", dst, dstSub, src, srcSub)
}

func (f *fakeNative) MapWrite(res object, data []byte) error {
	f.rec("MapWrite", res, len(data))
	return nil
}

func (f *fakeNative) MapRead(res object, sub uint32, dst []byte, rowBytes, rows int) error {
	f.rec("MapRead", res, sub, rowBytes, rows)
	for i := range dst[:rowBytes*rows] {
		dst[i] = 0xab
	}
	return nil
}

func (f *fakeNative) GenerateMips(srv object)  { f.rec("GenerateMips", srv) }
func (f *fakeNative) Draw(count, start uint32) { f.rec("Draw", count, start) }
func (f *fakeNative) DrawIndexed(count uint32) { f.rec("DrawIndexed", count) }

func (f *fakeNative) BackBuffer() (object, error) { return f.create("BackBuffer") }

func (f *fakeNative) Present(syncInterval uint32) error {
	f.rec("Present", syncInterval)
	return f.presentErr
}

func (f *fakeNative) ResizeBuffers(width, height uint32) error {
	f.rec("ResizeBuffers", width, height)
	return nil
}

func (f *fakeNative) Release(o object) {
	f.rec("Release", o)
	delete(f.live, o)
}

func (f *fakeNative) Close() {
	f.rec("Close")
	f.closed = true
}

// fakeDriver opens devices over fakeNative so the gfx frontend runs on
// the real backend logic.
type fakeDriver struct {
	api *fakeNative
	dev *device
}

func (*fakeDriver) API() driver.API { return driver.Direct3D11 }

func (d *fakeDriver) Open(t driver.Target) (driver.Device, error) {
	dev, err := newDevice(d.api, t)
	if err != nil {
		return nil, err
	}
	d.dev = dev
	return dev, nil
}
