// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ciri/game"
	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/gfx/driver"
)

func newTestDevice(t *testing.T, depth driver.DepthStencilFormat) (*device, *fakeNative) {
	t.Helper()
	f := newFakeNative()
	d, err := newDevice(f, driver.Target{Width: 640, Height: 480, Handle: 1, DepthFormat: depth, VSync: true})
	if err != nil {
		t.Fatal(err)
	}
	f.reset()
	return d, f
}

func TestRegistration(t *testing.T) {
	registered := driver.IsRegistered(driver.Direct3D11.String())
	if want := runtime.GOOS == "windows"; registered != want {
		t.Errorf("registered = %v on %s", registered, runtime.GOOS)
	}
	if (Driver{}).API() != driver.Direct3D11 {
		t.Error("wrong API")
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := (Driver{}).Open(driver.Target{Width: 1, Height: 1}); !errors.Is(err, driver.ErrNoSurface) {
		t.Errorf("no handle: err = %v", err)
	}
	if runtime.GOOS == "windows" {
		return
	}
	if _, err := (Driver{}).Open(driver.Target{Width: 1, Height: 1, Handle: 1}); !errors.Is(err, driver.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestNewDevice(t *testing.T) {
	f := newFakeNative()
	d, err := newDevice(f, driver.Target{Width: 640, Height: 480, DepthFormat: driver.Depth24Stencil8})
	if err != nil {
		t.Fatal(err)
	}
	info := d.Info()
	if info.API != driver.Direct3D11 || info.GPUName != "Fake Adapter" || info.APIInfo != "Direct3D 11.0" {
		t.Errorf("info = %+v", info)
	}
	if len(f.tex2D) != 1 {
		t.Fatalf("created %d textures, want the depth buffer", len(f.tex2D))
	}
	depth := f.tex2D[0]
	if depth.Width != 640 || depth.Height != 480 || depth.Format != _DXGI_FORMAT_D24_UNORM_S8_UINT || depth.BindFlags != _BIND_DEPTH_STENCIL {
		t.Errorf("depth texture = %+v", depth)
	}
	if !f.called("SetRenderTargets", []object{d.backbuffer}, d.depthView) {
		t.Errorf("backbuffer not bound:\n%s", f.dump())
	}
	if len(f.raster) != 1 || len(f.depth) != 1 || len(f.blend) != 1 {
		t.Error("default states not created")
	}
}

func TestNewDeviceFailureReleases(t *testing.T) {
	f := newFakeNative()
	f.failCreate["BackBuffer"] = true
	if _, err := newDevice(f, driver.Target{Width: 8, Height: 8}); !errors.Is(err, errFakeCreate) {
		t.Fatalf("err = %v", err)
	}
	if len(f.live) != 0 {
		t.Errorf("leaked %v", f.live)
	}
}

func TestRasterizerConversion(t *testing.T) {
	tests := []struct {
		name string
		in   driver.RasterizerDesc
		want rasterizerDesc
	}{
		{
			name: "default",
			in:   driver.DefaultRasterizerDesc(),
			want: rasterizerDesc{FillMode: _FILL_SOLID, CullMode: _CULL_BACK, DepthClipEnable: 1},
		},
		{
			name: "wireframe",
			in: driver.RasterizerDesc{
				Fill:                 driver.FillWireframe,
				CullMode:             gputypes.CullModeNone,
				FrontFace:            gputypes.FrontFaceCCW,
				ScissorTest:          true,
				DepthBias:            2,
				SlopeScaledDepthBias: 1.5,
			},
			want: rasterizerDesc{
				FillMode:              _FILL_WIREFRAME,
				CullMode:              _CULL_NONE,
				FrontCounterClockwise: 1,
				DepthBias:             2,
				SlopeScaledDepthBias:  1.5,
				ScissorEnable:         1,
			},
		},
		{
			name: "front",
			in:   driver.RasterizerDesc{CullMode: gputypes.CullModeFront, FrontFace: gputypes.FrontFaceCW, Multisample: true, DepthClip: true},
			want: rasterizerDesc{FillMode: _FILL_SOLID, CullMode: _CULL_FRONT, DepthClipEnable: 1, MultisampleEnable: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rasterizerState(tt.in); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDepthStencilConversion(t *testing.T) {
	keep := depthStencilOpDesc{_STENCIL_OP_KEEP, _STENCIL_OP_KEEP, _STENCIL_OP_KEEP, _COMPARISON_ALWAYS}
	got := depthStencilState(driver.DefaultDepthStencilDesc())
	want := depthStencilDesc{
		DepthEnable:      1,
		DepthWriteMask:   _DEPTH_WRITE_MASK_ALL,
		DepthFunc:        _COMPARISON_LESS_EQUAL,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		FrontFace:        keep,
		BackFace:         keep,
	}
	if got != want {
		t.Errorf("default = %+v", got)
	}

	desc := driver.DepthStencilDesc{
		StencilEnable: true,
		Front:         driver.StencilFace{Pass: driver.StencilIncrement, Compare: gputypes.CompareFunctionEqual},
		Back:          driver.StencilFace{Pass: driver.StencilDecrement, Compare: gputypes.CompareFunctionNotEqual},
	}
	got = depthStencilState(desc)
	if got.DepthWriteMask != _DEPTH_WRITE_MASK_ZERO || got.StencilEnable != 1 {
		t.Errorf("flags = %+v", got)
	}
	if got.BackFace != got.FrontFace || got.FrontFace.StencilPassOp != _STENCIL_OP_INCR {
		t.Errorf("one-sided back face = %+v", got.BackFace)
	}
	desc.TwoSided = true
	got = depthStencilState(desc)
	if got.BackFace.StencilPassOp != _STENCIL_OP_DECR || got.BackFace.StencilFunc != _COMPARISON_NOT_EQUAL {
		t.Errorf("two-sided back face = %+v", got.BackFace)
	}
}

func TestBlendConversion(t *testing.T) {
	opaque := blendState(driver.DefaultBlendDesc()).RenderTarget[0]
	if opaque.BlendEnable != 0 || opaque.SrcBlend != _BLEND_ONE || opaque.DestBlend != _BLEND_ZERO || opaque.RenderTargetWriteMask != 0xf {
		t.Errorf("opaque = %+v", opaque)
	}

	desc := driver.DefaultBlendDesc()
	desc.SrcColor = gputypes.BlendFactorSrcAlpha
	desc.DstColor = gputypes.BlendFactorOneMinusSrcAlpha
	desc.SrcAlpha = gputypes.BlendFactorSrc
	desc.DstAlpha = gputypes.BlendFactorOneMinusDst
	desc.AlphaOp = gputypes.BlendOperationMax
	rt := blendState(desc).RenderTarget[0]
	want := renderTargetBlendDesc{
		BlendEnable:           1,
		SrcBlend:              _BLEND_SRC_ALPHA,
		DestBlend:             _BLEND_INV_SRC_ALPHA,
		BlendOp:               _BLEND_OP_ADD,
		SrcBlendAlpha:         _BLEND_SRC_ALPHA,
		DestBlendAlpha:        _BLEND_INV_DEST_ALPHA,
		BlendOpAlpha:          _BLEND_OP_MAX,
		RenderTargetWriteMask: 0xf,
	}
	if rt != want {
		t.Errorf("alpha blend = %+v, want %+v", rt, want)
	}
}

func TestSamplerConversion(t *testing.T) {
	got := samplerState(driver.DefaultSamplerDesc())
	if got.Filter != _FILTER_MIN_MAG_LINEAR_MIP_POINT || got.AddressU != _TEXTURE_ADDRESS_WRAP ||
		got.MaxAnisotropy != 1 || got.ComparisonFunc != _COMPARISON_NEVER {
		t.Errorf("default = %+v", got)
	}

	desc := driver.DefaultSamplerDesc()
	desc.Filter = driver.FilterAnisotropic
	desc.MaxAnisotropy = 32
	desc.Compare = gputypes.CompareFunctionLess
	desc.WrapU, desc.WrapV, desc.WrapW = driver.WrapClamp, driver.WrapBorder, driver.WrapMirrorOnce
	got = samplerState(desc)
	if got.Filter != _FILTER_ANISOTROPIC|_FILTER_COMPARISON || got.MaxAnisotropy != _MAX_ANISOTROPY || got.ComparisonFunc != _COMPARISON_LESS {
		t.Errorf("comparison sampler = %+v", got)
	}
	if got.AddressU != _TEXTURE_ADDRESS_CLAMP || got.AddressV != _TEXTURE_ADDRESS_BORDER || got.AddressW != _TEXTURE_ADDRESS_MIRROR_ONCE {
		t.Errorf("address modes = %+v", got)
	}
}

func TestStates(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	d.SetRasterizerState(nil)
	d.SetDepthStencilState(nil)
	d.SetBlendState(nil)
	if !f.called("SetRasterizerState", d.defaultRaster) ||
		!f.called("SetDepthStencilState", d.defaultDepth, uint32(0)) ||
		!f.called("SetBlendState", d.defaultBlend, [4]float32{}) {
		t.Errorf("nil states did not bind the defaults:\n%s", f.dump())
	}

	ds := driver.DefaultDepthStencilDesc()
	ds.StencilRef = 3
	dss, err := d.NewDepthStencilState(ds)
	if err != nil {
		t.Fatal(err)
	}
	bd := driver.DefaultBlendDesc()
	bd.BlendColor = [4]float32{0.5, 0.5, 0.5, 1}
	bs, err := d.NewBlendState(bd)
	if err != nil {
		t.Fatal(err)
	}
	d.SetDepthStencilState(dss)
	d.SetBlendState(bs)
	if !f.called("SetDepthStencilState", dss.(*state).obj, uint32(3)) {
		t.Error("stencil reference not applied")
	}
	if !f.called("SetBlendState", bs.(*state).obj, bd.BlendColor) {
		t.Error("blend factor not applied")
	}
	dss.Release()
	dss.Release()
	if f.count("Release") != 1 {
		t.Errorf("state released %d times", f.count("Release"))
	}

	d.SetViewport(driver.Viewport{X: 10, Y: 20, Width: 300, Height: 200, MaxDepth: 1})
	if !f.called("SetViewport", 10, 20, 300, 200, 0, 1) {
		t.Errorf("viewport:\n%s", f.dump())
	}
}

func TestBuffers(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	if _, err := d.NewBuffer(driver.BufferDesc{Kind: driver.VertexBuffer}, nil); err == nil {
		t.Error("zero sized buffer created")
	}

	cb, err := d.NewBuffer(driver.BufferDesc{Kind: driver.ConstantBuffer, Size: 20}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.buffers[0]; got.ByteWidth != 32 || got.BindFlags != _BIND_CONSTANT_BUFFER || got.Usage != _USAGE_DEFAULT {
		t.Errorf("constant buffer desc = %+v", got)
	}

	vb, err := d.NewBuffer(driver.BufferDesc{Kind: driver.VertexBuffer, Size: 64, Dynamic: true}, make([]byte, 10))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.buffers[1]; got.Usage != _USAGE_DYNAMIC || got.CPUAccessFlags != _CPU_ACCESS_WRITE || got.BindFlags != _BIND_VERTEX_BUFFER {
		t.Errorf("dynamic buffer desc = %+v", got)
	}
	if !f.called("InitialData", 64) {
		t.Error("initial data not padded to the buffer size")
	}

	if err := vb.Upload(make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
	if !f.called("MapWrite", vb.(*buffer).obj, 16) {
		t.Error("dynamic upload did not map")
	}
	if err := vb.Upload(make([]byte, 65)); err == nil {
		t.Error("oversized upload accepted")
	}

	if err := cb.Upload(make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if got := f.updates[len(f.updates)-1]; got != (box{Right: 8, Bottom: 1, Back: 1}) {
		t.Errorf("partial update box = %+v", got)
	}
	if err := cb.Upload(make([]byte, 32)); err != nil {
		t.Fatal(err)
	}
	if got := f.updates[len(f.updates)-1]; got != (box{}) {
		t.Errorf("full update used box %+v", got)
	}

	d.BindVertexBuffer(vb, driver.VertexLayout{Elements: []driver.VertexElement{{Format: gputypes.VertexFormatFloat32x3}}})
	d.BindIndexBuffer(nil)
	d.BindConstantBuffer(driver.StageVertex|driver.StagePixel, 1, cb)
	if !f.called("SetVertexBuffer", vb.(*buffer).obj, uint32(12)) || !f.called("SetIndexBuffer", object(0), uint32(_DXGI_FORMAT_R32_UINT)) {
		t.Errorf("buffer binding:\n%s", f.dump())
	}
	if !f.called("SetConstantBuffer", driver.StageVertex, 1, cb.(*buffer).obj) || !f.called("SetConstantBuffer", driver.StagePixel, 1, cb.(*buffer).obj) {
		t.Errorf("constant buffer binding:\n%s", f.dump())
	}
}

func TestTextures(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	tex, err := d.NewTexture(driver.TextureDesc{Width: 64, Height: 32, Format: driver.FormatColor, Mipmaps: true}, [][]byte{make([]byte, 64*32*4)})
	if err != nil {
		t.Fatal(err)
	}
	desc := f.tex2D[0]
	if desc.MipLevels != 7 || desc.BindFlags != _BIND_SHADER_RESOURCE|_BIND_RENDER_TARGET || desc.MiscFlags != _RESOURCE_MISC_GENERATE_MIPS {
		t.Errorf("mipmapped desc = %+v", desc)
	}
	t2 := tex.(*texture)
	if !f.called("UpdateSubresource", t2.obj, 0, 64*32*4, 64*4, 64*32*4) || !f.called("GenerateMips", t2.srv) {
		t.Errorf("initial upload:\n%s", f.dump())
	}

	faces := make([][]byte, driver.CubeFaces)
	for i := range faces {
		if i != 2 {
			faces[i] = make([]byte, 16*16*4)
		}
	}
	cube, err := d.NewTexture(driver.TextureDesc{Kind: driver.TextureCube, Width: 16, Height: 16, Format: driver.FormatColor}, faces)
	if err != nil {
		t.Fatal(err)
	}
	if desc := f.tex2D[1]; desc.ArraySize != 6 || desc.MiscFlags != _RESOURCE_MISC_TEXTURECUBE {
		t.Errorf("cube desc = %+v", desc)
	}
	if n := f.count("UpdateSubresource"); n != 1+5 {
		t.Errorf("%d uploads, want one per supplied face", n-1)
	}
	if !f.called("UpdateSubresource", cube.(*texture).obj, 3, 16*16*4, 64, 16*16*4) {
		t.Error("face 3 not uploaded to subresource 3")
	}

	vol, err := d.NewTexture(driver.TextureDesc{Kind: driver.Texture3D, Width: 8, Height: 8, Depth: 4, Format: driver.FormatR32Float},
		[][]byte{nil, make([]byte, 8*8*4)})
	if err != nil {
		t.Fatal(err)
	}
	if f.tex3D[0].Depth != 4 || f.tex3D[0].Format != _DXGI_FORMAT_R32_FLOAT {
		t.Errorf("3D desc = %+v", f.tex3D[0])
	}
	if got := f.updates[len(f.updates)-1]; got != (box{Right: 8, Bottom: 8, Front: 1, Back: 2}) {
		t.Errorf("slice 1 box = %+v", got)
	}

	bad := []struct {
		name       string
		x, y, z, w int
		pix        []byte
	}{
		{"outside", 60, 0, 0, 8, make([]byte, 8*8*4)},
		{"layer", 0, 0, 1, 8, make([]byte, 8*8*4)},
		{"short", 0, 0, 0, 8, make([]byte, 10)},
	}
	for _, b := range bad {
		if err := tex.Upload(b.x, b.y, b.z, b.w, 8, b.pix); err == nil {
			t.Errorf("%s: upload accepted", b.name)
		}
	}
	if err := vol.Upload(0, 0, 3, 8, 8, make([]byte, 8*8*4)); err != nil {
		t.Errorf("last slice: %v", err)
	}

	if _, err := d.NewTexture(driver.TextureDesc{Width: 4, Height: 4, Format: driver.TextureFormat(99)}, nil); !errors.Is(err, driver.ErrUnsupported) {
		t.Errorf("bad format: err = %v", err)
	}

	f.reset()
	dst := make([]byte, 16*16*4)
	if err := cube.ReadPixels(dst); err != nil {
		t.Fatal(err)
	}
	staging := f.tex2D[len(f.tex2D)-1]
	if staging.Usage != _USAGE_STAGING || staging.CPUAccessFlags != _CPU_ACCESS_READ || staging.BindFlags != 0 {
		t.Errorf("staging desc = %+v", staging)
	}
	stagingObj := f.lastCreated("Texture2D")
	if !f.called("CopySubresource", stagingObj, 0, cube.(*texture).obj, 0) || !f.called("MapRead", stagingObj, 0, 64, 16) {
		t.Errorf("readback:\n%s", f.dump())
	}
	if !f.called("Release", stagingObj) || !bytes.Equal(dst[:4], []byte{0xab, 0xab, 0xab, 0xab}) {
		t.Errorf("staging not released or data not copied:\n%s", f.dump())
	}
	if err := cube.ReadPixels(make([]byte, 10)); err == nil {
		t.Error("short read buffer accepted")
	}

	d.BindTexture(0, tex, driver.StagePixel)
	if !f.called("SetShaderResource", driver.StagePixel, 0, t2.srv) {
		t.Error("texture not bound")
	}
	srv := t2.srv
	tex.Release()
	tex.Release()
	if _, ok := f.live[srv]; ok {
		t.Error("view survived Release")
	}
}

var testLayout = driver.VertexLayout{Elements: []driver.VertexElement{
	{Format: gputypes.VertexFormatFloat32x3, Usage: driver.UsagePosition},
	{Format: gputypes.VertexFormatFloat32x4, Usage: driver.UsageColor},
	{Format: gputypes.VertexFormatFloat32x2, Usage: driver.UsageTexcoord},
}}

func testShaderDesc() driver.ShaderDesc {
	return driver.ShaderDesc{
		Vertex: driver.ShaderSource{Name: "test_vs.hlsl", Code: []byte("float4 main() : SV_POSITION { return 0; }")},
		Pixel:  driver.ShaderSource{Name: "test_ps.hlsl", Code: []byte("float4 main() : SV_TARGET { return 1; }")},
		Layout: testLayout,
	}
}

func TestShaders(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	s, err := d.NewShader(testShaderDesc())
	if err != nil {
		t.Fatal(err)
	}
	sh := s.(*shader)
	if !f.called("Compile", "test_vs.hlsl", "main", "vs_5_0") || !f.called("Compile", "test_ps.hlsl", "main", "ps_5_0") {
		t.Errorf("compiles:\n%s", f.dump())
	}
	if sh.gs != 0 || f.count("Compile") != 2 {
		t.Error("geometry stage built without source")
	}
	want := []inputElement{
		{Semantic: "POSITION", Format: _DXGI_FORMAT_R32G32B32_FLOAT, Offset: 0},
		{Semantic: "COLOR", Format: _DXGI_FORMAT_R32G32B32A32_FLOAT, Offset: 12},
		{Semantic: "TEXCOORD", Format: _DXGI_FORMAT_R32G32_FLOAT, Offset: 28},
	}
	if len(f.layouts) != 1 || len(f.layouts[0]) != 3 {
		t.Fatalf("layouts = %v", f.layouts)
	}
	for i, e := range want {
		if f.layouts[0][i] != e {
			t.Errorf("element %d = %+v, want %+v", i, f.layouts[0][i], e)
		}
	}

	f.reset()
	d.BindShader(s)
	if !f.called("SetShader", driver.StageVertex, sh.vs) || !f.called("SetShader", driver.StageGeometry, object(0)) ||
		!f.called("SetShader", driver.StagePixel, sh.ps) || !f.called("SetInputLayout", sh.layout) {
		t.Errorf("bind:\n%s", f.dump())
	}
	d.BindShader(nil)
	if !f.called("SetInputLayout", object(0)) {
		t.Error("nil shader kept the input layout")
	}

	s.Release()
	for o, kind := range f.live {
		if strings.HasPrefix(kind, "Shader") || kind == "InputLayout" {
			t.Errorf("%s %d survived Release", kind, o)
		}
	}
}

func TestShaderBytecodePassthrough(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)
	desc := testShaderDesc()
	desc.Vertex.Code = []byte("DXBC\x00\x01precompiled")
	if _, err := d.NewShader(desc); err != nil {
		t.Fatal(err)
	}
	if f.called("Compile", "test_vs.hlsl", "main", "vs_5_0") {
		t.Error("bytecode was recompiled")
	}
	if f.count("Compile") != 1 {
		t.Errorf("%d compiles, want the pixel stage only", f.count("Compile"))
	}
}

func TestShaderErrors(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	before := len(f.live)
	f.compileLog["ps_5_0"] = "test_ps.hlsl(1,1): error X3000: syntax error"
	_, err := d.NewShader(testShaderDesc())
	var ce *driver.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CompileError", err)
	}
	if ce.Stage != driver.StagePixel || ce.Name != "test_ps.hlsl" || !strings.Contains(ce.Log, "X3000") {
		t.Errorf("compile error = %+v", ce)
	}
	if len(f.live) != before {
		t.Errorf("failed shader leaked %v", f.live)
	}

	delete(f.compileLog, "ps_5_0")
	f.failCreate["InputLayout"] = true
	if _, err := d.NewShader(testShaderDesc()); !errors.Is(err, errFakeCreate) {
		t.Errorf("layout failure: err = %v", err)
	}
	if len(f.live) != before {
		t.Errorf("failed layout leaked %v", f.live)
	}

	desc := testShaderDesc()
	desc.Pixel = driver.ShaderSource{}
	if _, err := d.NewShader(desc); err == nil {
		t.Error("shader without a pixel stage accepted")
	}
}

func TestConstantSlot(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)
	f.slots["Globals"] = 2
	s, err := d.NewShader(testShaderDesc())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if slot, ok := s.ConstantSlot("Globals", driver.StageVertex); !ok || slot != 2 {
			t.Errorf("Globals = %d, %v", slot, ok)
		}
		if _, ok := s.ConstantSlot("Missing", driver.StageVertex); ok {
			t.Error("Missing resolved")
		}
	}
	if f.reflections != 2 {
		t.Errorf("%d reflections, want one per name", f.reflections)
	}
	if _, ok := s.ConstantSlot("Globals", driver.StageGeometry); ok || f.reflections != 2 {
		t.Error("absent stage was reflected")
	}
}

func TestRenderTargets(t *testing.T) {
	d, f := newTestDevice(t, driver.Depth24Stencil8)

	plain, _ := d.NewTexture(driver.TextureDesc{Width: 32, Height: 32, Format: driver.FormatColor}, nil)
	if _, err := d.NewRenderTarget(plain, driver.DepthNone); !errors.Is(err, driver.ErrUnsupported) {
		t.Errorf("plain texture: err = %v", err)
	}

	newRT := func(depth driver.DepthStencilFormat) *renderTarget {
		tex, err := d.NewTexture(driver.TextureDesc{Width: 32, Height: 32, Format: driver.FormatColor, RenderTarget: true}, nil)
		if err != nil {
			t.Fatal(err)
		}
		rt, err := d.NewRenderTarget(tex, depth)
		if err != nil {
			t.Fatal(err)
		}
		return rt.(*renderTarget)
	}
	rt1 := newRT(driver.Depth24Stencil8)
	rt2 := newRT(driver.DepthNone)
	if rt1.dsv == 0 || rt2.dsv != 0 {
		t.Errorf("depth views = %d, %d", rt1.dsv, rt2.dsv)
	}

	f.reset()
	d.SetRenderTargets([]driver.RenderTarget{rt1, rt2})
	if !f.called("SetRenderTargets", []object{rt1.rtv, rt2.rtv}, rt1.dsv) {
		t.Errorf("bind:\n%s", f.dump())
	}
	color := [4]float32{0.1, 0.2, 0.3, 1}
	d.Clear(driver.ClearColor|driver.ClearDepth, color, 1, 0)
	if !f.called("ClearRenderTargetView", rt1.rtv, color) || !f.called("ClearRenderTargetView", rt2.rtv, color) {
		t.Error("not every target cleared")
	}
	if !f.called("ClearDepthStencilView", rt1.dsv, uint32(_CLEAR_DEPTH), float32(1), uint8(0)) {
		t.Errorf("depth clear:\n%s", f.dump())
	}

	d.SetRenderTargets(nil)
	if !f.called("SetRenderTargets", []object{d.backbuffer}, d.depthView) {
		t.Error("backbuffer not restored")
	}
	f.reset()
	d.Clear(driver.ClearStencil, color, 1, 7)
	if !f.called("ClearDepthStencilView", d.depthView, uint32(_CLEAR_STENCIL), float32(1), uint8(7)) || f.count("ClearRenderTargetView") != 0 {
		t.Errorf("stencil clear:\n%s", f.dump())
	}

	rtv, dsv := rt1.rtv, rt1.dsv
	rt1.Release()
	_, liveRTV := f.live[rtv]
	_, liveDSV := f.live[dsv]
	if liveRTV || liveDSV {
		t.Error("render target views survived Release")
	}
}

func TestClearWithoutDepth(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)
	d.Clear(driver.ClearColor|driver.ClearDepth|driver.ClearStencil, [4]float32{}, 1, 0)
	if f.count("ClearDepthStencilView") != 0 || f.count("ClearRenderTargetView") != 1 {
		t.Errorf("clear:\n%s", f.dump())
	}
}

func TestDrawsAndPresent(t *testing.T) {
	d, f := newTestDevice(t, driver.DepthNone)

	d.DrawArrays(gputypes.PrimitiveTopologyTriangleStrip, 4, 2)
	d.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, 6)
	d.DrawArrays(gputypes.PrimitiveTopologyLineList, 2, 0)
	want := []call{
		{"SetPrimitiveTopology", []any{_PRIMITIVE_TOPOLOGY_TRIANGLESTRIP}}, {"Draw", []any{4, 2}},
		{"SetPrimitiveTopology", []any{_PRIMITIVE_TOPOLOGY_TRIANGLELIST}}, {"DrawIndexed", []any{6}},
		{"SetPrimitiveTopology", []any{_PRIMITIVE_TOPOLOGY_LINELIST}}, {"Draw", []any{2, 0}},
	}
	if len(f.calls) != len(want) {
		t.Fatalf("calls:\n%s", f.dump())
	}
	for i, c := range f.calls {
		if c.String() != want[i].String() {
			t.Errorf("call %d = %s, want %s", i, c, want[i])
		}
	}

	if err := d.Present(); err != nil || !f.called("Present", uint32(1)) {
		t.Errorf("Present = %v\n%s", err, f.dump())
	}
	f.presentErr = ErrorCode{Name: "Present", Code: 0x887a0005}
	var code ErrorCode
	if err := d.Present(); !errors.As(err, &code) || code.Code != 0x887a0005 {
		t.Errorf("device removed: err = %v", err)
	}
	if !strings.Contains(code.Error(), "0x887a0005") {
		t.Errorf("message %q", code.Error())
	}
}

func TestResize(t *testing.T) {
	d, f := newTestDevice(t, driver.Depth24Stencil8)
	oldBB, oldDepth := d.backbuffer, d.depthView

	if err := d.Resize(0, 0); err != nil || f.count("ResizeBuffers") != 0 {
		t.Error("zero size resized")
	}
	if err := d.Resize(640, 480); err != nil || f.count("ResizeBuffers") != 0 {
		t.Error("same size resized")
	}
	if err := d.Resize(800, 600); err != nil {
		t.Fatal(err)
	}
	if !f.called("ResizeBuffers", 800, 600) {
		t.Errorf("resize:\n%s", f.dump())
	}
	if _, ok := f.live[oldBB]; ok {
		t.Error("old backbuffer view survived")
	}
	if _, ok := f.live[oldDepth]; ok {
		t.Error("old depth view survived")
	}
	if depth := f.tex2D[len(f.tex2D)-1]; depth.Width != 800 || depth.Height != 600 {
		t.Errorf("depth buffer %dx%d", depth.Width, depth.Height)
	}
	if !f.called("SetRenderTargets", []object{d.backbuffer}, d.depthView) {
		t.Error("new backbuffer not bound")
	}
}

func TestReleaseFreesEverything(t *testing.T) {
	d, f := newTestDevice(t, driver.Depth24Stencil8)
	buf, _ := d.NewBuffer(driver.BufferDesc{Kind: driver.VertexBuffer, Size: 16}, nil)
	tex, _ := d.NewTexture(driver.TextureDesc{Width: 4, Height: 4, Format: driver.FormatColor}, nil)
	smp, _ := d.NewSampler(driver.DefaultSamplerDesc())
	sh, _ := d.NewShader(testShaderDesc())
	for _, r := range []interface{ Release() }{buf, tex, smp, sh} {
		r.Release()
	}
	d.Release()
	d.Release()
	if len(f.live) != 0 {
		t.Errorf("leaked %v", f.live)
	}
	if !f.closed || f.count("Close") != 1 {
		t.Error("native device not closed once")
	}
}

type testWindow struct{}

func (testWindow) Width() int            { return 320 }
func (testWindow) Height() int           { return 240 }
func (testWindow) NativeHandle() uintptr { return 1 }
func (testWindow) HasFocus() bool        { return true }

func TestSpriteBatchOnD3D11(t *testing.T) {
	f := newFakeNative()
	f.slots["SpriteConstants"] = 0
	drv := &fakeDriver{api: f}
	dev, err := gfx.NewDevice(gfx.Direct3D11, gfx.WithDriver(drv))
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Create(testWindow{}); err != nil {
		t.Fatal(err)
	}
	defer dev.Destroy()
	if dev.GPUName() != "Fake Adapter" {
		t.Errorf("GPUName = %q", dev.GPUName())
	}

	batch, err := game.NewSpriteBatch(dev)
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	defer batch.Clean()
	if f.count("Compile") != 2 {
		t.Errorf("sprite shaders:\n%s", f.dump())
	}
	tex, err := dev.CreateTexture2D(16, 16, gfx.FormatColor, 0, make([]byte, 16*16*4))
	if err != nil {
		t.Fatal(err)
	}

	f.reset()
	if err := batch.Begin(game.BatchState{Blend: dev.BlendAlpha()}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := batch.DrawAt(tex, game.V2(float32(i*20), 0), 0, game.Vec2{}, game.V2(1, 1), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := batch.End(); err != nil {
		t.Fatalf("End: %v\n%s", err, f.dump())
	}
	if !f.called("DrawIndexed", 18) || f.count("DrawIndexed") != 1 {
		t.Errorf("sprite draw:\n%s", f.dump())
	}
	if f.count("SetConstantBuffer") == 0 {
		t.Errorf("projection never bound:\n%s", f.dump())
	}
	if f.count("SetShaderResource") == 0 {
		t.Error("sprite texture never bound")
	}
	if err := dev.Present(); err != nil || f.count("Present") != 1 {
		t.Errorf("Present = %v", err)
	}
}
