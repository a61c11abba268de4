// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
)

func init() {
	driver.Register(driver.OpenGL.String(), Driver{})
}

// Driver opens OpenGL 4.2 devices.
type Driver struct{}

// API returns driver.OpenGL.
func (Driver) API() driver.API { return driver.OpenGL }

// Open creates or adopts a GL context for t and loads the entry points.
// The calling goroutine must stay locked to its OS thread for as long as
// the device is used.
func (Driver) Open(t driver.Target) (driver.Device, error) {
	ctx, err := openContext(t)
	if err != nil {
		return nil, err
	}
	if err := ctx.MakeCurrent(); err != nil {
		ctx.Release()
		return nil, fmt.Errorf("gl: make current: %w", err)
	}
	fns, err := loadProcs(ctx.ProcAddress)
	if err != nil {
		ctx.Release()
		return nil, err
	}
	interval := 0
	if t.VSync {
		interval = 1
	}
	ctx.SetSwapInterval(interval)
	return newDevice(fns, ctx, t), nil
}

// glContext owns or adopts the context a device renders with.
type glContext interface {
	MakeCurrent() error
	SwapBuffers() error
	ProcAddress(name string) uintptr
	SetSwapInterval(interval int)
	Release()
}

// surfaceContext adopts a context owned by the window.
type surfaceContext struct {
	surface driver.GLSurface
	// fallback resolves entry points the surface does not know about.
	fallback func(name string) uintptr
}

func (c *surfaceContext) MakeCurrent() error  { return c.surface.MakeCurrent() }
func (c *surfaceContext) SwapBuffers() error  { return c.surface.SwapBuffers() }
func (c *surfaceContext) SetSwapInterval(int) {}
func (c *surfaceContext) Release()            {}

func (c *surfaceContext) ProcAddress(name string) uintptr {
	if addr := c.surface.ProcAddress(name); addr != 0 {
		return addr
	}
	if c.fallback != nil {
		return c.fallback(name)
	}
	return 0
}

// device implements driver.Device on a current GL context.
type device struct {
	gl  functions
	ctx glContext

	info          driver.Info
	width, height int

	vao uint32
	// mrt is the framebuffer assembled for multiple render targets.
	mrt uint32
	// fbHeight is the height of the bound framebuffer, used to move the
	// top-left viewport origin to GL's bottom-left.
	fbHeight  int
	offscreen bool
	attribs   int

	vertexBuf *buffer
	layout    driver.VertexLayout
	indexBuf  *buffer
	program   *shader
}

// scratchUnit is the texture unit used for uploads, so creating or
// updating a texture never disturbs the bound slots.
const scratchUnit = 31

func newDevice(fns functions, ctx glContext, t driver.Target) *device {
	d := &device{
		gl:       fns,
		ctx:      ctx,
		width:    t.Width,
		height:   t.Height,
		fbHeight: t.Height,
	}
	d.info = driver.Info{
		API:     driver.OpenGL,
		GPUName: fns.GetString(_RENDERER),
		APIInfo: fmt.Sprintf("OpenGL %s, GLSL %s, %s", fns.GetString(_VERSION),
			fns.GetString(_SHADING_LANGUAGE_VERSION), fns.GetString(_VENDOR)),
	}
	fns.PixelStorei(_UNPACK_ALIGNMENT, 1)
	fns.PixelStorei(_PACK_ALIGNMENT, 1)
	d.vao = fns.GenVertexArray()
	fns.BindVertexArray(d.vao)
	d.mrt = fns.GenFramebuffer()
	return d
}

func (d *device) Info() driver.Info { return d.info }

// check drains the GL error queue and reports the first error.
func (d *device) check(op string) error {
	var first uint32
	for i := 0; i < 8; i++ {
		code := d.gl.GetError()
		if code == _NO_ERROR {
			break
		}
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return fmt.Errorf("gl: %s: %w", op, Error(first))
	}
	return nil
}

func (d *device) BindShader(s driver.Shader) {
	sh, _ := s.(*shader)
	d.program = sh
	if sh == nil {
		d.gl.UseProgram(0)
		return
	}
	d.gl.UseProgram(sh.program)
}

func (d *device) BindConstantBuffer(_ driver.ShaderStage, slot int, b driver.Buffer) {
	var id uint32
	if buf, ok := b.(*buffer); ok && buf != nil {
		id = buf.id
	}
	d.gl.BindBufferBase(_UNIFORM_BUFFER, uint32(slot), id)
}

// BindVertexBuffer points the attributes of the single VAO at b.
// Attribute i reads element i of layout.
func (d *device) BindVertexBuffer(b driver.Buffer, layout driver.VertexLayout) {
	buf, _ := b.(*buffer)
	if buf == nil {
		d.gl.BindBuffer(_ARRAY_BUFFER, 0)
		for i := 0; i < d.attribs; i++ {
			d.gl.DisableVertexAttribArray(uint32(i))
		}
		d.attribs = 0
		d.vertexBuf, d.layout = nil, driver.VertexLayout{}
		return
	}
	d.gl.BindBuffer(_ARRAY_BUFFER, buf.id)
	stride := int32(layout.Stride())
	offsets := layout.Offsets()
	for i, e := range layout.Elements {
		d.gl.EnableVertexAttribArray(uint32(i))
		d.gl.VertexAttribPointer(uint32(i), int32(e.Components()), _FLOAT, false, stride, offsets[i])
	}
	for i := len(layout.Elements); i < d.attribs; i++ {
		d.gl.DisableVertexAttribArray(uint32(i))
	}
	d.attribs = len(layout.Elements)
	d.vertexBuf, d.layout = buf, layout
}

func (d *device) BindIndexBuffer(b driver.Buffer) {
	buf, _ := b.(*buffer)
	d.indexBuf = buf
	if buf == nil {
		d.gl.BindBuffer(_ELEMENT_ARRAY_BUFFER, 0)
		return
	}
	d.gl.BindBuffer(_ELEMENT_ARRAY_BUFFER, buf.id)
}

// BindTexture binds t to texture unit slot. GL units are shared by every
// stage, so stages is ignored.
func (d *device) BindTexture(slot int, t driver.Texture, _ driver.ShaderStage) {
	d.gl.ActiveTexture(_TEXTURE0 + uint32(slot))
	tex, _ := t.(*texture)
	if tex == nil {
		d.gl.BindTexture(_TEXTURE_2D, 0)
		return
	}
	d.gl.BindTexture(tex.target, tex.id)
}

func (d *device) BindSampler(slot int, s driver.Sampler, _ driver.ShaderStage) {
	var id uint32
	if smp, ok := s.(*sampler); ok && smp != nil {
		id = smp.id
	}
	d.gl.BindSampler(uint32(slot), id)
}

func (d *device) SetRasterizerState(s driver.State) {
	desc := driver.DefaultRasterizerDesc()
	if st, ok := s.(*rasterState); ok && st != nil {
		desc = st.desc
	}
	g := d.gl
	switch desc.CullMode {
	case gputypes.CullModeNone:
		g.Disable(_CULL_FACE)
	case gputypes.CullModeFront:
		g.Enable(_CULL_FACE)
		g.CullFace(_FRONT)
	default:
		g.Enable(_CULL_FACE)
		g.CullFace(_BACK)
	}
	if desc.FrontFace == gputypes.FrontFaceCW {
		g.FrontFace(_CW)
	} else {
		g.FrontFace(_CCW)
	}
	if desc.Fill == driver.FillWireframe {
		g.PolygonMode(_FRONT_AND_BACK, _LINE)
	} else {
		g.PolygonMode(_FRONT_AND_BACK, _FILL)
	}
	enable(g, _SCISSOR_TEST, desc.ScissorTest)
	if desc.DepthBias != 0 || desc.SlopeScaledDepthBias != 0 {
		g.Enable(_POLYGON_OFFSET_FILL)
		g.PolygonOffset(desc.SlopeScaledDepthBias, desc.DepthBias)
	} else {
		g.Disable(_POLYGON_OFFSET_FILL)
	}
	enable(g, _DEPTH_CLAMP, !desc.DepthClip)
	enable(g, _MULTISAMPLE, desc.Multisample)
}

func (d *device) SetDepthStencilState(s driver.State) {
	desc := driver.DefaultDepthStencilDesc()
	if st, ok := s.(*depthStencilState); ok && st != nil {
		desc = st.desc
	}
	g := d.gl
	enable(g, _DEPTH_TEST, desc.DepthEnable)
	g.DepthFunc(compareFunc(desc.DepthCompare))
	g.DepthMask(desc.DepthWrite)

	enable(g, _STENCIL_TEST, desc.StencilEnable)
	ref, mask := int32(desc.StencilRef), uint32(desc.StencilReadMask)
	if desc.TwoSided {
		stencilFace(g, _FRONT, desc.Front, ref, mask)
		stencilFace(g, _BACK, desc.Back, ref, mask)
	} else {
		stencilFace(g, _FRONT_AND_BACK, desc.Front, ref, mask)
	}
	g.StencilMaskSeparate(_FRONT_AND_BACK, uint32(desc.StencilWriteMask))
}

func stencilFace(g functions, face uint32, f driver.StencilFace, ref int32, mask uint32) {
	g.StencilFuncSeparate(face, compareFunc(f.Compare), ref, mask)
	g.StencilOpSeparate(face, stencilOp(f.Fail), stencilOp(f.DepthFail), stencilOp(f.Pass))
}

func (d *device) SetBlendState(s driver.State) {
	desc := driver.DefaultBlendDesc()
	if st, ok := s.(*blendState); ok && st != nil {
		desc = st.desc
	}
	g := d.gl
	enable(g, _BLEND, desc.BlendingEnabled())
	g.BlendFuncSeparate(blendFactor(desc.SrcColor), blendFactor(desc.DstColor),
		blendFactor(desc.SrcAlpha), blendFactor(desc.DstAlpha))
	g.BlendEquationSeparate(blendOp(desc.ColorOp), blendOp(desc.AlphaOp))
	c := desc.BlendColor
	g.BlendColor(c[0], c[1], c[2], c[3])
	m := desc.WriteMask
	g.ColorMask(m&gputypes.ColorWriteMaskRed != 0, m&gputypes.ColorWriteMaskGreen != 0,
		m&gputypes.ColorWriteMaskBlue != 0, m&gputypes.ColorWriteMaskAlpha != 0)
}

func enable(g functions, cap uint32, on bool) {
	if on {
		g.Enable(cap)
	} else {
		g.Disable(cap)
	}
}

// SetViewport takes a top-left origin like the other backends.
func (d *device) SetViewport(vp driver.Viewport) {
	y := d.fbHeight - vp.Y - vp.Height
	d.gl.Viewport(int32(vp.X), int32(y), int32(vp.Width), int32(vp.Height))
	d.gl.DepthRange(float64(vp.MinDepth), float64(vp.MaxDepth))
}

func (d *device) SetRenderTargets(targets []driver.RenderTarget) {
	var rts []*renderTarget
	for _, t := range targets {
		if rt, ok := t.(*renderTarget); ok && rt != nil {
			rts = append(rts, rt)
		}
	}
	switch len(rts) {
	case 0:
		d.gl.BindFramebuffer(_FRAMEBUFFER, 0)
		d.fbHeight = d.height
		d.offscreen = false
		return
	case 1:
		d.gl.BindFramebuffer(_FRAMEBUFFER, rts[0].fbo)
		d.fbHeight = rts[0].color.desc.Height
	default:
		// Attach every color texture and the first depth buffer to the
		// shared framebuffer.
		d.gl.BindFramebuffer(_FRAMEBUFFER, d.mrt)
		bufs := make([]uint32, len(rts))
		for i, rt := range rts {
			bufs[i] = _COLOR_ATTACHMENT0 + uint32(i)
			d.gl.FramebufferTexture2D(_FRAMEBUFFER, bufs[i], _TEXTURE_2D, rt.color.id, 0)
		}
		for i := len(rts); i < driverMaxTargets; i++ {
			d.gl.FramebufferTexture2D(_FRAMEBUFFER, _COLOR_ATTACHMENT0+uint32(i), _TEXTURE_2D, 0, 0)
		}
		d.gl.FramebufferRenderbuffer(_FRAMEBUFFER, _DEPTH_STENCIL_ATTACHMENT, _RENDERBUFFER, rts[0].depth)
		d.gl.DrawBuffers(bufs)
		d.fbHeight = rts[0].color.desc.Height
		if status := d.gl.CheckFramebufferStatus(_FRAMEBUFFER); status != _FRAMEBUFFER_COMPLETE {
			ciri.Logger().Warn("gl: render target set incomplete", "targets", len(rts), "err", FramebufferError(status))
		}
	}
	d.offscreen = true
}

// driverMaxTargets is the number of color attachments the device clears
// from the shared framebuffer.
const driverMaxTargets = 8

func (d *device) Clear(flags driver.ClearFlags, color [4]float32, depth float32, stencil int) {
	var mask uint32
	if flags&driver.ClearColor != 0 {
		d.gl.ClearColor(color[0], color[1], color[2], color[3])
		mask |= _COLOR_BUFFER_BIT
	}
	if flags&driver.ClearDepth != 0 {
		d.gl.ClearDepth(float64(depth))
		mask |= _DEPTH_BUFFER_BIT
	}
	if flags&driver.ClearStencil != 0 {
		d.gl.ClearStencil(int32(stencil))
		mask |= _STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		d.gl.Clear(mask)
	}
}

func (d *device) DrawArrays(t gputypes.PrimitiveTopology, count, start int) {
	d.gl.DrawArrays(topology(t), int32(start), int32(count))
}

func (d *device) DrawIndexed(t gputypes.PrimitiveTopology, count int) {
	d.gl.DrawElements(topology(t), int32(count), _UNSIGNED_INT, 0)
}

func (d *device) Present() error {
	if err := d.ctx.SwapBuffers(); err != nil {
		return fmt.Errorf("gl: swap buffers: %w", err)
	}
	return d.check("present")
}

// Resize records the new backbuffer size. The default framebuffer
// follows the window, so there is nothing to reallocate.
func (d *device) Resize(width, height int) error {
	d.width, d.height = width, height
	if !d.offscreen {
		d.fbHeight = height
	}
	return nil
}

func (d *device) Release() {
	if d.gl == nil {
		return
	}
	d.gl.BindVertexArray(0)
	d.gl.DeleteVertexArray(d.vao)
	d.gl.BindFramebuffer(_FRAMEBUFFER, 0)
	d.gl.DeleteFramebuffer(d.mrt)
	d.gl.Flush()
	d.ctx.Release()
	d.gl = nil
}
