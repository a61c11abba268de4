// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
)

type buffer struct {
	d       *device
	obj     object
	size    int
	dynamic bool
}

func (d *device) NewBuffer(desc driver.BufferDesc, data []byte) (driver.Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("d3d11: buffer size %d", desc.Size)
	}
	size := desc.Size
	bd := bufferDesc{Usage: _USAGE_DEFAULT}
	switch desc.Kind {
	case driver.VertexBuffer:
		bd.BindFlags = _BIND_VERTEX_BUFFER
	case driver.IndexBuffer:
		bd.BindFlags = _BIND_INDEX_BUFFER
	case driver.ConstantBuffer:
		bd.BindFlags = _BIND_CONSTANT_BUFFER
		// Constant buffers are sized in 16 byte registers.
		size = (size + 15) &^ 15
	}
	if desc.Dynamic {
		bd.Usage = _USAGE_DYNAMIC
		bd.CPUAccessFlags = _CPU_ACCESS_WRITE
	}
	bd.ByteWidth = uint32(size)
	if len(data) > 0 && len(data) < size {
		// The runtime reads ByteWidth bytes of initial data.
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	obj, err := d.api.CreateBuffer(&bd, data)
	if err != nil {
		return nil, err
	}
	return &buffer{d: d, obj: obj, size: size, dynamic: desc.Dynamic}, nil
}

func (b *buffer) Size() int { return b.size }

func (b *buffer) Upload(data []byte) error {
	if len(data) > b.size {
		return fmt.Errorf("d3d11: upload of %d bytes into a %d byte buffer", len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	if b.dynamic {
		return b.d.api.MapWrite(b.obj, data)
	}
	var region *box
	if len(data) < b.size {
		region = &box{Right: uint32(len(data)), Bottom: 1, Back: 1}
	}
	b.d.api.UpdateSubresource(b.obj, 0, region, data, 0, 0)
	return nil
}

func (b *buffer) Release() {
	if b.obj != 0 {
		b.d.api.Release(b.obj)
		b.obj = 0
	}
}

type texture struct {
	d      *device
	obj    object
	srv    object
	desc   driver.TextureDesc
	format uint32
	mips   uint32
}

func (d *device) NewTexture(desc driver.TextureDesc, data [][]byte) (driver.Texture, error) {
	format := textureFormat(desc.Format)
	if format == 0 || desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("d3d11: texture %dx%d format %v: %w", desc.Width, desc.Height, desc.Format, driver.ErrUnsupported)
	}
	t := &texture{d: d, desc: desc, format: format, mips: 1}
	if desc.Mipmaps {
		t.mips = mipLevels(desc.Width, desc.Height)
	}
	bind := uint32(_BIND_SHADER_RESOURCE)
	var misc uint32
	if desc.RenderTarget || desc.Mipmaps {
		bind |= _BIND_RENDER_TARGET
	}
	if desc.Mipmaps {
		misc |= _RESOURCE_MISC_GENERATE_MIPS
	}

	var err error
	switch desc.Kind {
	case driver.Texture3D:
		t.obj, err = d.api.CreateTexture3D(&texture3DDesc{
			Width:     uint32(desc.Width),
			Height:    uint32(desc.Height),
			Depth:     uint32(max(desc.Depth, 1)),
			MipLevels: t.mips,
			Format:    format,
			Usage:     _USAGE_DEFAULT,
			BindFlags: bind,
			MiscFlags: misc,
		})
	case driver.TextureCube:
		t.obj, err = d.api.CreateTexture2D(&texture2DDesc{
			Width:      uint32(desc.Width),
			Height:     uint32(desc.Height),
			MipLevels:  t.mips,
			ArraySize:  driver.CubeFaces,
			Format:     format,
			SampleDesc: sampleDesc{Count: 1},
			Usage:      _USAGE_DEFAULT,
			BindFlags:  bind,
			MiscFlags:  misc | _RESOURCE_MISC_TEXTURECUBE,
		})
	default:
		t.obj, err = d.api.CreateTexture2D(&texture2DDesc{
			Width:      uint32(desc.Width),
			Height:     uint32(desc.Height),
			MipLevels:  t.mips,
			ArraySize:  1,
			Format:     format,
			SampleDesc: sampleDesc{Count: 1},
			Usage:      _USAGE_DEFAULT,
			BindFlags:  bind,
			MiscFlags:  misc,
		})
	}
	if err != nil {
		return nil, err
	}
	if t.srv, err = d.api.CreateShaderResourceView(t.obj); err != nil {
		t.Release()
		return nil, err
	}
	for z, pix := range data {
		if pix == nil {
			continue
		}
		if err := t.upload(0, 0, z, desc.Width, desc.Height, pix); err != nil {
			t.Release()
			return nil, err
		}
	}
	if desc.Mipmaps {
		d.api.GenerateMips(t.srv)
	}
	return t, nil
}

func (t *texture) layers() int {
	switch t.desc.Kind {
	case driver.Texture3D:
		return max(t.desc.Depth, 1)
	case driver.TextureCube:
		return driver.CubeFaces
	}
	return 1
}

func (t *texture) Upload(x, y, z, w, h int, pix []byte) error {
	if err := t.upload(x, y, z, w, h, pix); err != nil {
		return err
	}
	if t.desc.Mipmaps {
		t.d.api.GenerateMips(t.srv)
	}
	return nil
}

// upload writes a w x h region of slice or face z of the top mip level.
func (t *texture) upload(x, y, z, w, h int, pix []byte) error {
	bpp := t.desc.Format.BytesPerPixel()
	switch {
	case x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.desc.Width || y+h > t.desc.Height:
		return fmt.Errorf("d3d11: region %d,%d %dx%d outside %dx%d texture", x, y, w, h, t.desc.Width, t.desc.Height)
	case z < 0 || z >= t.layers():
		return fmt.Errorf("d3d11: layer %d outside texture", z)
	case len(pix) < w*h*bpp:
		return fmt.Errorf("d3d11: %d bytes for a %dx%d region", len(pix), w, h)
	}
	region := box{
		Left:   uint32(x),
		Top:    uint32(y),
		Right:  uint32(x + w),
		Bottom: uint32(y + h),
		Back:   1,
	}
	var sub uint32
	switch t.desc.Kind {
	case driver.Texture3D:
		region.Front, region.Back = uint32(z), uint32(z+1)
	case driver.TextureCube:
		sub = uint32(z) * t.mips
	}
	t.d.api.UpdateSubresource(t.obj, sub, &region, pix, uint32(w*bpp), uint32(w*h*bpp))
	return nil
}

// ReadPixels copies the top level of the texture, or of its first slice
// or face, into dst through a staging copy.
func (t *texture) ReadPixels(dst []byte) error {
	rowBytes := t.desc.Width * t.desc.Format.BytesPerPixel()
	if len(dst) < rowBytes*t.desc.Height {
		return fmt.Errorf("d3d11: read buffer of %d bytes for a %dx%d texture", len(dst), t.desc.Width, t.desc.Height)
	}
	var (
		staging object
		err     error
	)
	if t.desc.Kind == driver.Texture3D {
		staging, err = t.d.api.CreateTexture3D(&texture3DDesc{
			Width:          uint32(t.desc.Width),
			Height:         uint32(t.desc.Height),
			Depth:          uint32(t.layers()),
			MipLevels:      1,
			Format:         t.format,
			Usage:          _USAGE_STAGING,
			CPUAccessFlags: _CPU_ACCESS_READ,
		})
	} else {
		staging, err = t.d.api.CreateTexture2D(&texture2DDesc{
			Width:          uint32(t.desc.Width),
			Height:         uint32(t.desc.Height),
			MipLevels:      1,
			ArraySize:      1,
			Format:         t.format,
			SampleDesc:     sampleDesc{Count: 1},
			Usage:          _USAGE_STAGING,
			CPUAccessFlags: _CPU_ACCESS_READ,
		})
	}
	if err != nil {
		return err
	}
	defer t.d.api.Release(staging)
	t.d.api.CopySubresource(staging, 0, t.obj, 0)
	return t.d.api.MapRead(staging, 0, dst, rowBytes, t.desc.Height)
}

func (t *texture) Release() {
	if t.srv != 0 {
		t.d.api.Release(t.srv)
		t.srv = 0
	}
	if t.obj != 0 {
		t.d.api.Release(t.obj)
		t.obj = 0
	}
}

type sampler struct {
	d   *device
	obj object
}

func (d *device) NewSampler(desc driver.SamplerDesc) (driver.Sampler, error) {
	sd := samplerState(desc)
	obj, err := d.api.CreateSamplerState(&sd)
	if err != nil {
		return nil, err
	}
	return &sampler{d: d, obj: obj}, nil
}

func (s *sampler) Release() {
	if s.obj != 0 {
		s.d.api.Release(s.obj)
		s.obj = 0
	}
}

// state is a rasterizer, depth-stencil or blend state object together
// with the values D3D11 sets at bind time.
type state struct {
	d          *device
	obj        object
	stencilRef uint32
	blendColor [4]float32
}

func (d *device) NewRasterizerState(desc driver.RasterizerDesc) (driver.State, error) {
	rd := rasterizerState(desc)
	obj, err := d.api.CreateRasterizerState(&rd)
	if err != nil {
		return nil, err
	}
	return &state{d: d, obj: obj}, nil
}

func (d *device) NewDepthStencilState(desc driver.DepthStencilDesc) (driver.State, error) {
	dd := depthStencilState(desc)
	obj, err := d.api.CreateDepthStencilState(&dd)
	if err != nil {
		return nil, err
	}
	return &state{d: d, obj: obj, stencilRef: uint32(desc.StencilRef)}, nil
}

func (d *device) NewBlendState(desc driver.BlendDesc) (driver.State, error) {
	bd := blendState(desc)
	obj, err := d.api.CreateBlendState(&bd)
	if err != nil {
		return nil, err
	}
	return &state{d: d, obj: obj, blendColor: desc.BlendColor}, nil
}

func (s *state) Release() {
	if s.obj != 0 {
		s.d.api.Release(s.obj)
		s.obj = 0
	}
}

// Shader model 5.0 compile targets.
const (
	targetVertex   = "vs_5_0"
	targetGeometry = "gs_5_0"
	targetPixel    = "ps_5_0"
	entryPoint     = "main"
)

// dxbcMagic starts compiled shader bytecode.
var dxbcMagic = []byte("DXBC")

type shader struct {
	d          *device
	vs, gs, ps object
	layout     object
	code       map[driver.ShaderStage][]byte
	slots      map[driver.ShaderStage]map[string]int
}

func (d *device) NewShader(desc driver.ShaderDesc) (driver.Shader, error) {
	if desc.Vertex.IsZero() || desc.Pixel.IsZero() {
		return nil, errors.New("d3d11: shader needs vertex and pixel stages")
	}
	s := &shader{
		d:     d,
		code:  make(map[driver.ShaderStage][]byte),
		slots: make(map[driver.ShaderStage]map[string]int),
	}
	stages := []struct {
		stage  driver.ShaderStage
		src    driver.ShaderSource
		target string
		obj    *object
	}{
		{driver.StageVertex, desc.Vertex, targetVertex, &s.vs},
		{driver.StageGeometry, desc.Geometry, targetGeometry, &s.gs},
		{driver.StagePixel, desc.Pixel, targetPixel, &s.ps},
	}
	for _, st := range stages {
		if st.src.IsZero() {
			continue
		}
		code, err := d.bytecode(st.stage, st.src, st.target)
		if err != nil {
			s.Release()
			return nil, err
		}
		if *st.obj, err = d.api.CreateShader(st.stage, code); err != nil {
			s.Release()
			return nil, fmt.Errorf("d3d11: create %s shader %q: %w", st.stage, st.src.Name, err)
		}
		s.code[st.stage] = code
	}

	elems, err := inputLayout(desc.Layout)
	if err != nil {
		s.Release()
		return nil, err
	}
	if len(elems) > 0 {
		if s.layout, err = d.api.CreateInputLayout(elems, s.code[driver.StageVertex]); err != nil {
			s.Release()
			return nil, fmt.Errorf("d3d11: input layout for %q: %w", desc.Vertex.Name, err)
		}
	}
	return s, nil
}

// bytecode compiles src for target, or returns it unchanged when it is
// already DXBC.
func (d *device) bytecode(stage driver.ShaderStage, src driver.ShaderSource, target string) ([]byte, error) {
	if bytes.HasPrefix(src.Code, dxbcMagic) {
		return src.Code, nil
	}
	code, log, err := d.api.Compile(src.Code, src.Name, entryPoint, target)
	if err != nil {
		if log == "" {
			log = err.Error()
		}
		return nil, &driver.CompileError{Stage: stage, Name: src.Name, Log: log}
	}
	if log != "" {
		ciri.Logger().Debug("d3d11: shader compiler output", "stage", stage.String(), "name", src.Name, "log", log)
	}
	return code, nil
}

// ConstantSlot returns the register of the named constant buffer in
// stage, reflecting the bytecode on first lookup.
func (s *shader) ConstantSlot(name string, stage driver.ShaderStage) (int, bool) {
	code, ok := s.code[stage]
	if !ok {
		return 0, false
	}
	slots := s.slots[stage]
	if slot, ok := slots[name]; ok {
		return slot, slot >= 0
	}
	if slots == nil {
		slots = make(map[string]int)
		s.slots[stage] = slots
	}
	slot, ok := s.d.api.ConstantBufferSlot(code, name)
	if !ok {
		slot = -1
	}
	slots[name] = slot
	return slot, ok
}

func (s *shader) Release() {
	for _, o := range []*object{&s.layout, &s.vs, &s.gs, &s.ps} {
		s.d.release(o)
	}
}

type renderTarget struct {
	d     *device
	rtv   object
	depth object
	dsv   object
}

func (d *device) NewRenderTarget(color driver.Texture, depth driver.DepthStencilFormat) (driver.RenderTarget, error) {
	tex, ok := color.(*texture)
	if !ok || tex == nil || tex.obj == 0 {
		return nil, errors.New("d3d11: render target needs a live texture")
	}
	if !tex.desc.RenderTarget || tex.desc.Kind != driver.Texture2D {
		return nil, fmt.Errorf("d3d11: texture is not a 2D render target: %w", driver.ErrUnsupported)
	}
	rtv, err := d.api.CreateRenderTargetView(tex.obj)
	if err != nil {
		return nil, err
	}
	rt := &renderTarget{d: d, rtv: rtv}
	if depth != driver.DepthNone {
		if rt.depth, rt.dsv, err = d.createDepth(tex.desc.Width, tex.desc.Height); err != nil {
			rt.Release()
			return nil, err
		}
	}
	return rt, nil
}

func (r *renderTarget) Release() {
	r.d.release(&r.dsv)
	r.d.release(&r.depth)
	r.d.release(&r.rtv)
}
