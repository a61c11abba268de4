// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
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

// fakeGL records every call and simulates just enough state for the
// backend: object names, compile and link status, uniform blocks and the
// error queue.
type fakeGL struct {
	calls []call
	next  uint32

	failCompile map[uint32]string // shader type -> log
	failLink    string
	blocks      map[string]uint32
	errs        []uint32
	errOn       map[string]uint32
	fbStatus    uint32

	shaderTypes map[uint32]uint32
	deleted     map[string]int
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		failCompile: make(map[uint32]string),
		blocks:      make(map[string]uint32),
		errOn:       make(map[string]uint32),
		fbStatus:    _FRAMEBUFFER_COMPLETE,
		shaderTypes: make(map[uint32]uint32),
		deleted:     make(map[string]int),
	}
}

func (f *fakeGL) rec(name string, args ...any) {
	f.calls = append(f.calls, call{name, args})
	if code, ok := f.errOn[name]; ok {
		f.errs = append(f.errs, code)
	}
}

func (f *fakeGL) gen(name string) uint32 {
	f.rec(name)
	f.next++
	return f.next
}

func (f *fakeGL) del(name string, id uint32) {
	f.rec(name, id)
	f.deleted[name]++
}

// called reports whether name was called with args.
func (f *fakeGL) called(name string, args ...any) bool {
	want := fmt.Sprint(args...)
	for _, c := range f.calls {
		if c.name == name && fmt.Sprint(c.args...) == want {
			return true
		}
	}
	return false
}

func (f *fakeGL) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (f *fakeGL) reset() { f.calls = nil }

func (f *fakeGL) dump() string {
	var b strings.Builder
	for _, c := range f.calls {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *fakeGL) GetError() uint32 {
	if len(f.errs) == 0 {
		return _NO_ERROR
	}
	code := f.errs[0]
	f.errs = f.errs[1:]
	return code
}

func (f *fakeGL) GetString(name uint32) string {
	switch name {
	case _RENDERER:
		return "Fake Renderer"
	case _VERSION:
		return "4.2.0"
	case _SHADING_LANGUAGE_VERSION:
		return "4.20"
	case _VENDOR:
		return "Fake Vendor"
	}
	return ""
}

func (f *fakeGL) Enable(c uint32)                     { f.rec("Enable", c) }
func (f *fakeGL) Disable(c uint32)                    { f.rec("Disable", c) }
func (f *fakeGL) CullFace(mode uint32)                { f.rec("CullFace", mode) }
func (f *fakeGL) FrontFace(mode uint32)               { f.rec("FrontFace", mode) }
func (f *fakeGL) PolygonMode(face, mode uint32)       { f.rec("PolygonMode", face, mode) }
func (f *fakeGL) PolygonOffset(factor, units float32) { f.rec("PolygonOffset", factor, units) }
func (f *fakeGL) DepthFunc(fn uint32)                 { f.rec("DepthFunc", fn) }
func (f *fakeGL) DepthMask(flag bool)                 { f.rec("DepthMask", flag) }
func (f *fakeGL) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) {
	f.rec("StencilFuncSeparate", face, fn, ref, mask)
}
func (f *fakeGL) StencilOpSeparate(face, sfail, dpfail, dppass uint32) {
	f.rec("StencilOpSeparate", face, sfail, dpfail, dppass)
}
func (f *fakeGL) StencilMaskSeparate(face, mask uint32) { f.rec("StencilMaskSeparate", face, mask) }
func (f *fakeGL) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	f.rec("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}
func (f *fakeGL) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	f.rec("BlendEquationSeparate", modeRGB, modeAlpha)
}
func (f *fakeGL) BlendColor(r, g, b, a float32)     { f.rec("BlendColor", r, g, b, a) }
func (f *fakeGL) ColorMask(r, g, b, a bool)         { f.rec("ColorMask", r, g, b, a) }
func (f *fakeGL) Viewport(x, y, w, h int32)         { f.rec("Viewport", x, y, w, h) }
func (f *fakeGL) DepthRange(near, far float64)      { f.rec("DepthRange", near, far) }
func (f *fakeGL) ClearColor(r, g, b, a float32)     { f.rec("ClearColor", r, g, b, a) }
func (f *fakeGL) ClearDepth(d float64)              { f.rec("ClearDepth", d) }
func (f *fakeGL) ClearStencil(s int32)              { f.rec("ClearStencil", s) }
func (f *fakeGL) Clear(mask uint32)                 { f.rec("Clear", mask) }
func (f *fakeGL) PixelStorei(pname uint32, v int32) { f.rec("PixelStorei", pname, v) }

func (f *fakeGL) GenBuffer() uint32           { return f.gen("GenBuffer") }
func (f *fakeGL) DeleteBuffer(b uint32)       { f.del("DeleteBuffer", b) }
func (f *fakeGL) BindBuffer(target, b uint32) { f.rec("BindBuffer", target, b) }
func (f *fakeGL) BufferData(target uint32, size int, data []byte, usage uint32) {
	f.rec("BufferData", target, size, len(data), usage)
}
func (f *fakeGL) BufferSubData(target uint32, offset int, data []byte) {
	f.rec("BufferSubData", target, offset, len(data))
}
func (f *fakeGL) BindBufferBase(target, index, b uint32) { f.rec("BindBufferBase", target, index, b) }

func (f *fakeGL) GenTexture() uint32           { return f.gen("GenTexture") }
func (f *fakeGL) DeleteTexture(t uint32)       { f.del("DeleteTexture", t) }
func (f *fakeGL) ActiveTexture(unit uint32)    { f.rec("ActiveTexture", unit) }
func (f *fakeGL) BindTexture(target, t uint32) { f.rec("BindTexture", target, t) }
func (f *fakeGL) GenerateMipmap(target uint32) { f.rec("GenerateMipmap", target) }
func (f *fakeGL) TexParameteri(target, pname uint32, v int32) {
	f.rec("TexParameteri", target, pname, v)
}
func (f *fakeGL) TexImage2D(target uint32, level, internal, w, h int32, format, typ uint32, pix []byte) {
	f.rec("TexImage2D", target, level, internal, w, h, format, typ, len(pix))
}
func (f *fakeGL) TexImage3D(target uint32, level, internal, w, h, d int32, format, typ uint32, pix []byte) {
	f.rec("TexImage3D", target, level, internal, w, h, d, format, typ, len(pix))
}
func (f *fakeGL) TexSubImage2D(target uint32, level, x, y, w, h int32, format, typ uint32, pix []byte) {
	f.rec("TexSubImage2D", target, level, x, y, w, h, format, typ, len(pix))
}
func (f *fakeGL) TexSubImage3D(target uint32, level, x, y, z, w, h, d int32, format, typ uint32, pix []byte) {
	f.rec("TexSubImage3D", target, level, x, y, z, w, h, d, format, typ, len(pix))
}
func (f *fakeGL) GetTexImage(target uint32, level int32, format, typ uint32, dst []byte) {
	f.rec("GetTexImage", target, level, format, typ, len(dst))
	for i := range dst {
		dst[i] = 0xab
	}
}

func (f *fakeGL) GenSampler() uint32         { return f.gen("GenSampler") }
func (f *fakeGL) DeleteSampler(s uint32)     { f.del("DeleteSampler", s) }
func (f *fakeGL) BindSampler(unit, s uint32) { f.rec("BindSampler", unit, s) }
func (f *fakeGL) SamplerParameteri(s, pname uint32, v int32) {
	f.rec("SamplerParameteri", s, pname, v)
}
func (f *fakeGL) SamplerParameterfv(s, pname uint32, v []float32) {
	f.rec("SamplerParameterfv", s, pname, v)
}

func (f *fakeGL) CreateShader(typ uint32) uint32 {
	id := f.gen("CreateShader")
	f.shaderTypes[id] = typ
	return id
}
func (f *fakeGL) ShaderSource(s uint32, src string) { f.rec("ShaderSource", s) }
func (f *fakeGL) CompileShader(s uint32)            { f.rec("CompileShader", s) }
func (f *fakeGL) GetShaderi(s, pname uint32) int32 {
	if _, fail := f.failCompile[f.shaderTypes[s]]; fail && pname == _COMPILE_STATUS {
		return 0
	}
	return 1
}
func (f *fakeGL) GetShaderInfoLog(s uint32) string { return f.failCompile[f.shaderTypes[s]] }
func (f *fakeGL) DeleteShader(s uint32)            { f.del("DeleteShader", s) }
func (f *fakeGL) CreateProgram() uint32            { return f.gen("CreateProgram") }
func (f *fakeGL) AttachShader(p, s uint32)         { f.rec("AttachShader", p, s) }
func (f *fakeGL) LinkProgram(p uint32)             { f.rec("LinkProgram", p) }
func (f *fakeGL) GetProgrami(p, pname uint32) int32 {
	if f.failLink != "" && pname == _LINK_STATUS {
		return 0
	}
	return 1
}
func (f *fakeGL) GetProgramInfoLog(p uint32) string { return f.failLink }
func (f *fakeGL) DeleteProgram(p uint32)            { f.del("DeleteProgram", p) }
func (f *fakeGL) UseProgram(p uint32)               { f.rec("UseProgram", p) }
func (f *fakeGL) GetUniformBlockIndex(p uint32, name string) uint32 {
	if idx, ok := f.blocks[name]; ok {
		return idx
	}
	return _INVALID_INDEX
}
func (f *fakeGL) UniformBlockBinding(p, index, binding uint32) {
	f.rec("UniformBlockBinding", p, index, binding)
}

func (f *fakeGL) GenVertexArray() uint32     { return f.gen("GenVertexArray") }
func (f *fakeGL) DeleteVertexArray(a uint32) { f.del("DeleteVertexArray", a) }
func (f *fakeGL) BindVertexArray(a uint32)   { f.rec("BindVertexArray", a) }
func (f *fakeGL) EnableVertexAttribArray(i uint32) {
	f.rec("EnableVertexAttribArray", i)
}
func (f *fakeGL) DisableVertexAttribArray(i uint32) {
	f.rec("DisableVertexAttribArray", i)
}
func (f *fakeGL) VertexAttribPointer(i uint32, size int32, typ uint32, normalized bool, stride int32, offset int) {
	f.rec("VertexAttribPointer", i, size, typ, normalized, stride, offset)
}

func (f *fakeGL) GenFramebuffer() uint32      { return f.gen("GenFramebuffer") }
func (f *fakeGL) DeleteFramebuffer(fb uint32) { f.del("DeleteFramebuffer", fb) }
func (f *fakeGL) BindFramebuffer(target, fb uint32) {
	f.rec("BindFramebuffer", target, fb)
}
func (f *fakeGL) FramebufferTexture2D(target, attachment, texTarget, t uint32, level int32) {
	f.rec("FramebufferTexture2D", target, attachment, texTarget, t, level)
}
func (f *fakeGL) CheckFramebufferStatus(target uint32) uint32 { return f.fbStatus }
func (f *fakeGL) DrawBuffers(bufs []uint32)                   { f.rec("DrawBuffers", bufs) }
func (f *fakeGL) GenRenderbuffer() uint32                     { return f.gen("GenRenderbuffer") }
func (f *fakeGL) DeleteRenderbuffer(rb uint32)                { f.del("DeleteRenderbuffer", rb) }
func (f *fakeGL) BindRenderbuffer(target, rb uint32)          { f.rec("BindRenderbuffer", target, rb) }
func (f *fakeGL) RenderbufferStorage(target, internal uint32, w, h int32) {
	f.rec("RenderbufferStorage", target, internal, w, h)
}
func (f *fakeGL) FramebufferRenderbuffer(target, attachment, rbTarget, rb uint32) {
	f.rec("FramebufferRenderbuffer", target, attachment, rbTarget, rb)
}

func (f *fakeGL) DrawArrays(mode uint32, first, count int32) { f.rec("DrawArrays", mode, first, count) }
func (f *fakeGL) DrawElements(mode uint32, count int32, typ uint32, offset int) {
	f.rec("DrawElements", mode, count, typ, offset)
}
func (f *fakeGL) Flush() { f.rec("Flush") }

// fakeContext stands in for a WGL context or a window surface.
type fakeContext struct {
	swaps    int
	interval int
	released bool
	swapErr  error
}

func (c *fakeContext) MakeCurrent() error         { return nil }
func (c *fakeContext) SwapBuffers() error         { c.swaps++; return c.swapErr }
func (c *fakeContext) ProcAddress(string) uintptr { return 0 }
func (c *fakeContext) SetSwapInterval(i int)      { c.interval = i }
func (c *fakeContext) Release()                   { c.released = true }

// fakeDriver opens backend devices over fakeGL, so the gfx frontend can
// run on top of the real GL logic.
type fakeDriver struct {
	gl  *fakeGL
	ctx *fakeContext
	dev *device
}

func (*fakeDriver) API() driver.API { return driver.OpenGL }

func (d *fakeDriver) Open(t driver.Target) (driver.Device, error) {
	d.dev = newDevice(d.gl, d.ctx, t)
	return d.dev, nil
}
