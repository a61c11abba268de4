// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"
	"strings"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
)

type buffer struct {
	d    *device
	id   uint32
	size int
}

func (d *device) NewBuffer(desc driver.BufferDesc, data []byte) (driver.Buffer, error) {
	if desc.Size <= 0 || len(data) > desc.Size {
		return nil, fmt.Errorf("gl: buffer of %d bytes with %d bytes of data", desc.Size, len(data))
	}
	usage := uint32(_STATIC_DRAW)
	if desc.Dynamic {
		usage = _DYNAMIC_DRAW
	}
	b := &buffer{d: d, id: d.gl.GenBuffer(), size: desc.Size}
	// Uploads go through the copy target so the vertex, index and uniform
	// bindings stay untouched.
	d.gl.BindBuffer(_COPY_WRITE_BUFFER, b.id)
	if len(data) == desc.Size {
		d.gl.BufferData(_COPY_WRITE_BUFFER, desc.Size, data, usage)
	} else {
		d.gl.BufferData(_COPY_WRITE_BUFFER, desc.Size, nil, usage)
		if len(data) > 0 {
			d.gl.BufferSubData(_COPY_WRITE_BUFFER, 0, data)
		}
	}
	d.gl.BindBuffer(_COPY_WRITE_BUFFER, 0)
	if err := d.check("create buffer"); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *buffer) Upload(data []byte) error {
	if len(data) > b.size {
		return fmt.Errorf("gl: upload of %d bytes into a %d byte buffer", len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	g := b.d.gl
	g.BindBuffer(_COPY_WRITE_BUFFER, b.id)
	g.BufferSubData(_COPY_WRITE_BUFFER, 0, data)
	g.BindBuffer(_COPY_WRITE_BUFFER, 0)
	return b.d.check("upload buffer")
}

func (b *buffer) Release() {
	if b.id == 0 {
		return
	}
	b.d.gl.DeleteBuffer(b.id)
	b.id = 0
}

type texture struct {
	d        *device
	id       uint32
	target   uint32
	desc     driver.TextureDesc
	internal int32
	format   uint32
	typ      uint32
}

func (d *device) NewTexture(desc driver.TextureDesc, data [][]byte) (driver.Texture, error) {
	internal, format, typ, ok := pixelFormat(desc.Format)
	if !ok {
		return nil, fmt.Errorf("gl: texture format %s: %w", desc.Format, driver.ErrUnsupported)
	}
	t := &texture{
		d:        d,
		id:       d.gl.GenTexture(),
		target:   textureTarget(desc.Kind),
		desc:     desc,
		internal: internal,
		format:   format,
		typ:      typ,
	}
	slice := func(i int) []byte {
		if i < len(data) {
			return data[i]
		}
		return nil
	}
	g := d.gl
	t.bind()
	w, h := int32(desc.Width), int32(desc.Height)
	switch desc.Kind {
	case driver.Texture2D:
		g.TexImage2D(_TEXTURE_2D, 0, internal, w, h, format, typ, slice(0))
	case driver.Texture3D:
		depth := max(desc.Depth, 1)
		g.TexImage3D(_TEXTURE_3D, 0, internal, w, h, int32(depth), format, typ, nil)
		for z := 0; z < depth; z++ {
			if pix := slice(z); pix != nil {
				g.TexSubImage3D(_TEXTURE_3D, 0, 0, 0, int32(z), w, h, 1, format, typ, pix)
			}
		}
	case driver.TextureCube:
		for face := 0; face < driver.CubeFaces; face++ {
			g.TexImage2D(_TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), 0, internal, w, h, format, typ, slice(face))
		}
	}
	if desc.Mipmaps {
		g.GenerateMipmap(t.target)
	} else {
		g.TexParameteri(t.target, _TEXTURE_MAX_LEVEL, 0)
	}
	g.BindTexture(t.target, 0)
	if err := d.check("create texture"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// bind binds t on the scratch unit.
func (t *texture) bind() {
	t.d.gl.ActiveTexture(_TEXTURE0 + scratchUnit)
	t.d.gl.BindTexture(t.target, t.id)
}

func (t *texture) Upload(x, y, z, w, h int, pixels []byte) error {
	g := t.d.gl
	t.bind()
	switch t.desc.Kind {
	case driver.Texture2D:
		g.TexSubImage2D(_TEXTURE_2D, 0, int32(x), int32(y), int32(w), int32(h), t.format, t.typ, pixels)
	case driver.Texture3D:
		g.TexSubImage3D(_TEXTURE_3D, 0, int32(x), int32(y), int32(z), int32(w), int32(h), 1, t.format, t.typ, pixels)
	case driver.TextureCube:
		g.TexSubImage2D(_TEXTURE_CUBE_MAP_POSITIVE_X+uint32(z), 0, int32(x), int32(y), int32(w), int32(h),
			t.format, t.typ, pixels)
	}
	if t.desc.Mipmaps {
		g.GenerateMipmap(t.target)
	}
	g.BindTexture(t.target, 0)
	return t.d.check("upload texture")
}

// ReadPixels reads mip 0 of the first slice or face.
func (t *texture) ReadPixels(dst []byte) error {
	g := t.d.gl
	t.bind()
	defer g.BindTexture(t.target, 0)
	switch t.desc.Kind {
	case driver.Texture3D:
		// The whole volume comes back at once.
		all := make([]byte, len(dst)*max(t.desc.Depth, 1))
		g.GetTexImage(_TEXTURE_3D, 0, t.format, t.typ, all)
		copy(dst, all)
	case driver.TextureCube:
		g.GetTexImage(_TEXTURE_CUBE_MAP_POSITIVE_X, 0, t.format, t.typ, dst)
	default:
		g.GetTexImage(_TEXTURE_2D, 0, t.format, t.typ, dst)
	}
	return t.d.check("read texture")
}

func (t *texture) Release() {
	if t.id == 0 {
		return
	}
	t.d.gl.DeleteTexture(t.id)
	t.id = 0
}

type sampler struct {
	d  *device
	id uint32
}

func (d *device) NewSampler(desc driver.SamplerDesc) (driver.Sampler, error) {
	g := d.gl
	s := &sampler{d: d, id: g.GenSampler()}
	g.SamplerParameteri(s.id, _TEXTURE_WRAP_S, wrapMode(desc.WrapU))
	g.SamplerParameteri(s.id, _TEXTURE_WRAP_T, wrapMode(desc.WrapV))
	g.SamplerParameteri(s.id, _TEXTURE_WRAP_R, wrapMode(desc.WrapW))
	minFilter, magFilter := filters(desc.Filter)
	g.SamplerParameteri(s.id, _TEXTURE_MIN_FILTER, minFilter)
	g.SamplerParameteri(s.id, _TEXTURE_MAG_FILTER, magFilter)
	g.SamplerParameterfv(s.id, _TEXTURE_MIN_LOD, []float32{desc.MinLOD})
	g.SamplerParameterfv(s.id, _TEXTURE_MAX_LOD, []float32{desc.MaxLOD})
	g.SamplerParameterfv(s.id, _TEXTURE_LOD_BIAS, []float32{desc.LODBias})
	border := desc.BorderColor
	g.SamplerParameterfv(s.id, _TEXTURE_BORDER_COLOR, border[:])
	g.SamplerParameteri(s.id, _TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.Compare)))
	if err := d.check("create sampler"); err != nil {
		s.Release()
		return nil, err
	}
	if desc.Filter == driver.FilterAnisotropic && desc.MaxAnisotropy > 1 {
		// Anisotropy is an extension before GL 4.6; drivers without it
		// keep plain trilinear filtering.
		g.SamplerParameterfv(s.id, _TEXTURE_MAX_ANISOTROPY, []float32{float32(desc.MaxAnisotropy)})
		if err := d.check("anisotropy"); err != nil {
			ciri.Logger().Debug("gl: anisotropic filtering unavailable", "err", err)
		}
	}
	return s, nil
}

func (s *sampler) Release() {
	if s.id == 0 {
		return
	}
	s.d.gl.DeleteSampler(s.id)
	s.id = 0
}

// GL has no state objects. The descriptors are applied call by call
// when a state is set.
type (
	rasterState       struct{ desc driver.RasterizerDesc }
	depthStencilState struct{ desc driver.DepthStencilDesc }
	blendState        struct{ desc driver.BlendDesc }
)

func (*rasterState) Release()       {}
func (*depthStencilState) Release() {}
func (*blendState) Release()        {}

func (d *device) NewRasterizerState(desc driver.RasterizerDesc) (driver.State, error) {
	return &rasterState{desc: desc}, nil
}

func (d *device) NewDepthStencilState(desc driver.DepthStencilDesc) (driver.State, error) {
	return &depthStencilState{desc: desc}, nil
}

func (d *device) NewBlendState(desc driver.BlendDesc) (driver.State, error) {
	return &blendState{desc: desc}, nil
}

type shader struct {
	d       *device
	program uint32
	// bindings maps resolved uniform block names to binding points.
	bindings map[string]uint32
}

func (d *device) NewShader(desc driver.ShaderDesc) (driver.Shader, error) {
	g := d.gl
	stages := []struct {
		stage driver.ShaderStage
		typ   uint32
		src   driver.ShaderSource
	}{
		{driver.StageVertex, _VERTEX_SHADER, desc.Vertex},
		{driver.StageGeometry, _GEOMETRY_SHADER, desc.Geometry},
		{driver.StagePixel, _FRAGMENT_SHADER, desc.Pixel},
	}
	var compiled []uint32
	defer func() {
		for _, s := range compiled {
			g.DeleteShader(s)
		}
	}()
	for _, st := range stages {
		if st.src.IsZero() {
			continue
		}
		s := g.CreateShader(st.typ)
		compiled = append(compiled, s)
		g.ShaderSource(s, string(st.src.Code))
		g.CompileShader(s)
		if g.GetShaderi(s, _COMPILE_STATUS) == 0 {
			return nil, &driver.CompileError{Stage: st.stage, Name: st.src.Name, Log: g.GetShaderInfoLog(s)}
		}
	}

	p := g.CreateProgram()
	for _, s := range compiled {
		g.AttachShader(p, s)
	}
	g.LinkProgram(p)
	if g.GetProgrami(p, _LINK_STATUS) == 0 {
		log := g.GetProgramInfoLog(p)
		g.DeleteProgram(p)
		return nil, &driver.CompileError{Stage: driver.StageAll, Name: linkName(desc), Log: log}
	}
	if err := d.check("link program"); err != nil {
		g.DeleteProgram(p)
		return nil, err
	}
	return &shader{d: d, program: p, bindings: make(map[string]uint32)}, nil
}

func linkName(desc driver.ShaderDesc) string {
	names := []string{desc.Vertex.Name}
	if desc.Geometry.Name != "" {
		names = append(names, desc.Geometry.Name)
	}
	return strings.Join(append(names, desc.Pixel.Name), "+")
}

// ConstantSlot binds the uniform block name to a binding point unique
// within the program. Blocks are shared by every stage.
func (s *shader) ConstantSlot(name string, _ driver.ShaderStage) (int, bool) {
	if b, ok := s.bindings[name]; ok {
		return int(b), true
	}
	idx := s.d.gl.GetUniformBlockIndex(s.program, name)
	if idx == _INVALID_INDEX {
		return 0, false
	}
	binding := uint32(len(s.bindings))
	s.d.gl.UniformBlockBinding(s.program, idx, binding)
	s.bindings[name] = binding
	return int(binding), true
}

func (s *shader) Release() {
	if s.program == 0 {
		return
	}
	if s.d.program == s {
		s.d.gl.UseProgram(0)
		s.d.program = nil
	}
	s.d.gl.DeleteProgram(s.program)
	s.program = 0
}

type renderTarget struct {
	d     *device
	fbo   uint32
	depth uint32
	color *texture
}

func (d *device) NewRenderTarget(color driver.Texture, depth driver.DepthStencilFormat) (driver.RenderTarget, error) {
	tex, ok := color.(*texture)
	if !ok || tex == nil || tex.desc.Kind != driver.Texture2D {
		return nil, fmt.Errorf("gl: render target needs a 2D texture: %w", driver.ErrUnsupported)
	}
	g := d.gl
	rt := &renderTarget{d: d, fbo: g.GenFramebuffer(), color: tex}
	g.BindFramebuffer(_FRAMEBUFFER, rt.fbo)
	g.FramebufferTexture2D(_FRAMEBUFFER, _COLOR_ATTACHMENT0, _TEXTURE_2D, tex.id, 0)
	if depth == driver.Depth24Stencil8 {
		rt.depth = g.GenRenderbuffer()
		g.BindRenderbuffer(_RENDERBUFFER, rt.depth)
		g.RenderbufferStorage(_RENDERBUFFER, _DEPTH24_STENCIL8, int32(tex.desc.Width), int32(tex.desc.Height))
		g.BindRenderbuffer(_RENDERBUFFER, 0)
		g.FramebufferRenderbuffer(_FRAMEBUFFER, _DEPTH_STENCIL_ATTACHMENT, _RENDERBUFFER, rt.depth)
	}
	status := g.CheckFramebufferStatus(_FRAMEBUFFER)
	g.BindFramebuffer(_FRAMEBUFFER, 0)
	if status != _FRAMEBUFFER_COMPLETE {
		rt.Release()
		return nil, FramebufferError(status)
	}
	if err := d.check("create render target"); err != nil {
		rt.Release()
		return nil, err
	}
	return rt, nil
}

func (rt *renderTarget) Release() {
	if rt.fbo == 0 {
		return
	}
	g := rt.d.gl
	g.DeleteFramebuffer(rt.fbo)
	if rt.depth != 0 {
		g.DeleteRenderbuffer(rt.depth)
	}
	rt.fbo, rt.depth = 0, 0
}
