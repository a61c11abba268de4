// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"unsafe"
)

// functions is the subset of OpenGL 4.2 core the backend calls.
type functions interface {
	GetError() uint32
	GetString(name uint32) string

	Enable(cap uint32)
	Disable(cap uint32)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	PolygonMode(face, mode uint32)
	PolygonOffset(factor, units float32)
	DepthFunc(fn uint32)
	DepthMask(flag bool)
	StencilFuncSeparate(face, fn uint32, ref int32, mask uint32)
	StencilOpSeparate(face, sfail, dpfail, dppass uint32)
	StencilMaskSeparate(face, mask uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	BlendEquationSeparate(modeRGB, modeAlpha uint32)
	BlendColor(r, g, b, a float32)
	ColorMask(r, g, b, a bool)
	Viewport(x, y, w, h int32)
	DepthRange(near, far float64)
	ClearColor(r, g, b, a float32)
	ClearDepth(d float64)
	ClearStencil(s int32)
	Clear(mask uint32)
	PixelStorei(pname uint32, v int32)

	GenBuffer() uint32
	DeleteBuffer(b uint32)
	BindBuffer(target, b uint32)
	BufferData(target uint32, size int, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)
	BindBufferBase(target, index, b uint32)

	GenTexture() uint32
	DeleteTexture(t uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, t uint32)
	TexImage2D(target uint32, level, internal, w, h int32, format, typ uint32, pix []byte)
	TexImage3D(target uint32, level, internal, w, h, d int32, format, typ uint32, pix []byte)
	TexSubImage2D(target uint32, level, x, y, w, h int32, format, typ uint32, pix []byte)
	TexSubImage3D(target uint32, level, x, y, z, w, h, d int32, format, typ uint32, pix []byte)
	TexParameteri(target, pname uint32, v int32)
	GenerateMipmap(target uint32)
	GetTexImage(target uint32, level int32, format, typ uint32, dst []byte)

	GenSampler() uint32
	DeleteSampler(s uint32)
	BindSampler(unit, s uint32)
	SamplerParameteri(s, pname uint32, v int32)
	SamplerParameterfv(s, pname uint32, v []float32)

	CreateShader(typ uint32) uint32
	ShaderSource(s uint32, src string)
	CompileShader(s uint32)
	GetShaderi(s, pname uint32) int32
	GetShaderInfoLog(s uint32) string
	DeleteShader(s uint32)
	CreateProgram() uint32
	AttachShader(p, s uint32)
	LinkProgram(p uint32)
	GetProgrami(p, pname uint32) int32
	GetProgramInfoLog(p uint32) string
	DeleteProgram(p uint32)
	UseProgram(p uint32)
	GetUniformBlockIndex(p uint32, name string) uint32
	UniformBlockBinding(p, index, binding uint32)

	GenVertexArray() uint32
	DeleteVertexArray(a uint32)
	BindVertexArray(a uint32)
	EnableVertexAttribArray(i uint32)
	DisableVertexAttribArray(i uint32)
	VertexAttribPointer(i uint32, size int32, typ uint32, normalized bool, stride int32, offset int)

	GenFramebuffer() uint32
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(target, fb uint32)
	FramebufferTexture2D(target, attachment, texTarget, t uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32
	DrawBuffers(bufs []uint32)
	GenRenderbuffer() uint32
	DeleteRenderbuffer(rb uint32)
	BindRenderbuffer(target, rb uint32)
	RenderbufferStorage(target, internal uint32, w, h int32)
	FramebufferRenderbuffer(target, attachment, rbTarget, rb uint32)

	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, typ uint32, offset int)
	Flush()
}

type proc int

const (
	glActiveTexture proc = iota
	glAttachShader
	glBindBuffer
	glBindBufferBase
	glBindFramebuffer
	glBindRenderbuffer
	glBindSampler
	glBindTexture
	glBindVertexArray
	glBlendColor
	glBlendEquationSeparate
	glBlendFuncSeparate
	glBufferData
	glBufferSubData
	glCheckFramebufferStatus
	glClear
	glClearColor
	glClearDepth
	glClearStencil
	glColorMask
	glCompileShader
	glCreateProgram
	glCreateShader
	glCullFace
	glDeleteBuffers
	glDeleteFramebuffers
	glDeleteProgram
	glDeleteRenderbuffers
	glDeleteSamplers
	glDeleteShader
	glDeleteTextures
	glDeleteVertexArrays
	glDepthFunc
	glDepthMask
	glDepthRange
	glDisable
	glDisableVertexAttribArray
	glDrawArrays
	glDrawBuffers
	glDrawElements
	glEnable
	glEnableVertexAttribArray
	glFlush
	glFramebufferRenderbuffer
	glFramebufferTexture2D
	glFrontFace
	glGenBuffers
	glGenFramebuffers
	glGenRenderbuffers
	glGenSamplers
	glGenTextures
	glGenVertexArrays
	glGenerateMipmap
	glGetError
	glGetProgramInfoLog
	glGetProgramiv
	glGetShaderInfoLog
	glGetShaderiv
	glGetString
	glGetTexImage
	glGetUniformBlockIndex
	glLinkProgram
	glPixelStorei
	glPolygonMode
	glPolygonOffset
	glRenderbufferStorage
	glSamplerParameterfv
	glSamplerParameteri
	glShaderSource
	glStencilFuncSeparate
	glStencilMaskSeparate
	glStencilOpSeparate
	glTexImage2D
	glTexImage3D
	glTexParameteri
	glTexSubImage2D
	glTexSubImage3D
	glUniformBlockBinding
	glUseProgram
	glVertexAttribPointer
	glViewport
	procCount
)

var procNames = [procCount]string{
	"glActiveTexture", "glAttachShader", "glBindBuffer", "glBindBufferBase",
	"glBindFramebuffer", "glBindRenderbuffer", "glBindSampler", "glBindTexture",
	"glBindVertexArray", "glBlendColor", "glBlendEquationSeparate", "glBlendFuncSeparate",
	"glBufferData", "glBufferSubData", "glCheckFramebufferStatus", "glClear",
	"glClearColor", "glClearDepth", "glClearStencil", "glColorMask",
	"glCompileShader", "glCreateProgram", "glCreateShader", "glCullFace",
	"glDeleteBuffers", "glDeleteFramebuffers", "glDeleteProgram", "glDeleteRenderbuffers",
	"glDeleteSamplers", "glDeleteShader", "glDeleteTextures", "glDeleteVertexArrays",
	"glDepthFunc", "glDepthMask", "glDepthRange", "glDisable",
	"glDisableVertexAttribArray", "glDrawArrays", "glDrawBuffers", "glDrawElements",
	"glEnable", "glEnableVertexAttribArray", "glFlush", "glFramebufferRenderbuffer",
	"glFramebufferTexture2D", "glFrontFace", "glGenBuffers", "glGenFramebuffers",
	"glGenRenderbuffers", "glGenSamplers", "glGenTextures", "glGenVertexArrays",
	"glGenerateMipmap", "glGetError", "glGetProgramInfoLog", "glGetProgramiv",
	"glGetShaderInfoLog", "glGetShaderiv", "glGetString", "glGetTexImage",
	"glGetUniformBlockIndex", "glLinkProgram", "glPixelStorei", "glPolygonMode",
	"glPolygonOffset", "glRenderbufferStorage", "glSamplerParameterfv", "glSamplerParameteri",
	"glShaderSource", "glStencilFuncSeparate", "glStencilMaskSeparate", "glStencilOpSeparate",
	"glTexImage2D", "glTexImage3D", "glTexParameteri", "glTexSubImage2D",
	"glTexSubImage3D", "glUniformBlockBinding", "glUseProgram", "glVertexAttribPointer",
	"glViewport",
}

// errMissingProcs is wrapped by loadProcs when entry points are absent.
var errMissingProcs = errors.New("gl: missing entry points")

// procs calls GL entry points through their addresses. Arguments are
// passed as machine words; float arguments travel as their bit patterns,
// which the platform call mechanism places in the float registers too.
type procs struct {
	addr [procCount]uintptr
}

// loadProcs resolves every entry point with lookup.
func loadProcs(lookup func(name string) uintptr) (*procs, error) {
	p := new(procs)
	var missing []string
	for i, name := range procNames {
		p.addr[i] = lookup(name)
		if p.addr[i] == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errMissingProcs, strings.Join(missing, ", "))
	}
	return p, nil
}

// call invokes id. Pointers converted to uintptr in the argument list
// stay live for the duration of the call; slices passed through ptr are
// kept alive by their callers.
//
//go:uintptrescapes
func (p *procs) call(id proc, args ...uintptr) uintptr {
	return syscallN(p.addr[id], args...)
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func f32(v float32) uintptr { return uintptr(math.Float32bits(v)) }
func f64(v float64) uintptr { return uintptr(math.Float64bits(v)) }

func ptr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// cstr returns a NUL-terminated copy of s.
func cstr(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// goString copies a NUL-terminated string owned by the driver.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	base := unsafe.Pointer(p)
	n := 0
	for *(*byte)(unsafe.Add(base, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(base), n))
}

func (p *procs) GetError() uint32             { return uint32(p.call(glGetError)) }
func (p *procs) GetString(name uint32) string { return goString(p.call(glGetString, uintptr(name))) }

func (p *procs) Enable(c uint32)       { p.call(glEnable, uintptr(c)) }
func (p *procs) Disable(c uint32)      { p.call(glDisable, uintptr(c)) }
func (p *procs) CullFace(mode uint32)  { p.call(glCullFace, uintptr(mode)) }
func (p *procs) FrontFace(mode uint32) { p.call(glFrontFace, uintptr(mode)) }
func (p *procs) PolygonMode(face, mode uint32) {
	p.call(glPolygonMode, uintptr(face), uintptr(mode))
}
func (p *procs) PolygonOffset(factor, units float32) {
	p.call(glPolygonOffset, f32(factor), f32(units))
}
func (p *procs) DepthFunc(fn uint32) { p.call(glDepthFunc, uintptr(fn)) }
func (p *procs) DepthMask(flag bool) { p.call(glDepthMask, boolArg(flag)) }
func (p *procs) StencilFuncSeparate(face, fn uint32, ref int32, mask uint32) {
	p.call(glStencilFuncSeparate, uintptr(face), uintptr(fn), uintptr(ref), uintptr(mask))
}
func (p *procs) StencilOpSeparate(face, sfail, dpfail, dppass uint32) {
	p.call(glStencilOpSeparate, uintptr(face), uintptr(sfail), uintptr(dpfail), uintptr(dppass))
}
func (p *procs) StencilMaskSeparate(face, mask uint32) {
	p.call(glStencilMaskSeparate, uintptr(face), uintptr(mask))
}
func (p *procs) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	p.call(glBlendFuncSeparate, uintptr(srcRGB), uintptr(dstRGB), uintptr(srcAlpha), uintptr(dstAlpha))
}
func (p *procs) BlendEquationSeparate(modeRGB, modeAlpha uint32) {
	p.call(glBlendEquationSeparate, uintptr(modeRGB), uintptr(modeAlpha))
}
func (p *procs) BlendColor(r, g, b, a float32) {
	p.call(glBlendColor, f32(r), f32(g), f32(b), f32(a))
}
func (p *procs) ColorMask(r, g, b, a bool) {
	p.call(glColorMask, boolArg(r), boolArg(g), boolArg(b), boolArg(a))
}
func (p *procs) Viewport(x, y, w, h int32) {
	p.call(glViewport, uintptr(x), uintptr(y), uintptr(w), uintptr(h))
}
func (p *procs) DepthRange(near, far float64) { p.call(glDepthRange, f64(near), f64(far)) }
func (p *procs) ClearColor(r, g, b, a float32) {
	p.call(glClearColor, f32(r), f32(g), f32(b), f32(a))
}
func (p *procs) ClearDepth(d float64) { p.call(glClearDepth, f64(d)) }
func (p *procs) ClearStencil(s int32) { p.call(glClearStencil, uintptr(s)) }
func (p *procs) Clear(mask uint32)    { p.call(glClear, uintptr(mask)) }
func (p *procs) PixelStorei(pname uint32, v int32) {
	p.call(glPixelStorei, uintptr(pname), uintptr(v))
}

func (p *procs) gen(id proc) uint32 {
	var name uint32
	p.call(id, 1, uintptr(unsafe.Pointer(&name)))
	return name
}

func (p *procs) del(id proc, name uint32) {
	p.call(id, 1, uintptr(unsafe.Pointer(&name)))
}

func (p *procs) GenBuffer() uint32           { return p.gen(glGenBuffers) }
func (p *procs) DeleteBuffer(b uint32)       { p.del(glDeleteBuffers, b) }
func (p *procs) BindBuffer(target, b uint32) { p.call(glBindBuffer, uintptr(target), uintptr(b)) }
func (p *procs) BufferData(target uint32, size int, data []byte, usage uint32) {
	p.call(glBufferData, uintptr(target), uintptr(size), ptr(data), uintptr(usage))
	runtime.KeepAlive(data)
}
func (p *procs) BufferSubData(target uint32, offset int, data []byte) {
	p.call(glBufferSubData, uintptr(target), uintptr(offset), uintptr(len(data)), ptr(data))
	runtime.KeepAlive(data)
}
func (p *procs) BindBufferBase(target, index, b uint32) {
	p.call(glBindBufferBase, uintptr(target), uintptr(index), uintptr(b))
}

func (p *procs) GenTexture() uint32        { return p.gen(glGenTextures) }
func (p *procs) DeleteTexture(t uint32)    { p.del(glDeleteTextures, t) }
func (p *procs) ActiveTexture(unit uint32) { p.call(glActiveTexture, uintptr(unit)) }
func (p *procs) BindTexture(target, t uint32) {
	p.call(glBindTexture, uintptr(target), uintptr(t))
}
func (p *procs) TexImage2D(target uint32, level, internal, w, h int32, format, typ uint32, pix []byte) {
	p.call(glTexImage2D, uintptr(target), uintptr(level), uintptr(internal),
		uintptr(w), uintptr(h), 0, uintptr(format), uintptr(typ), ptr(pix))
	runtime.KeepAlive(pix)
}
func (p *procs) TexImage3D(target uint32, level, internal, w, h, d int32, format, typ uint32, pix []byte) {
	p.call(glTexImage3D, uintptr(target), uintptr(level), uintptr(internal),
		uintptr(w), uintptr(h), uintptr(d), 0, uintptr(format), uintptr(typ), ptr(pix))
	runtime.KeepAlive(pix)
}
func (p *procs) TexSubImage2D(target uint32, level, x, y, w, h int32, format, typ uint32, pix []byte) {
	p.call(glTexSubImage2D, uintptr(target), uintptr(level), uintptr(x), uintptr(y),
		uintptr(w), uintptr(h), uintptr(format), uintptr(typ), ptr(pix))
	runtime.KeepAlive(pix)
}
func (p *procs) TexSubImage3D(target uint32, level, x, y, z, w, h, d int32, format, typ uint32, pix []byte) {
	p.call(glTexSubImage3D, uintptr(target), uintptr(level), uintptr(x), uintptr(y), uintptr(z),
		uintptr(w), uintptr(h), uintptr(d), uintptr(format), uintptr(typ), ptr(pix))
	runtime.KeepAlive(pix)
}
func (p *procs) TexParameteri(target, pname uint32, v int32) {
	p.call(glTexParameteri, uintptr(target), uintptr(pname), uintptr(v))
}
func (p *procs) GenerateMipmap(target uint32) { p.call(glGenerateMipmap, uintptr(target)) }
func (p *procs) GetTexImage(target uint32, level int32, format, typ uint32, dst []byte) {
	p.call(glGetTexImage, uintptr(target), uintptr(level), uintptr(format), uintptr(typ), ptr(dst))
	runtime.KeepAlive(dst)
}

func (p *procs) GenSampler() uint32         { return p.gen(glGenSamplers) }
func (p *procs) DeleteSampler(s uint32)     { p.del(glDeleteSamplers, s) }
func (p *procs) BindSampler(unit, s uint32) { p.call(glBindSampler, uintptr(unit), uintptr(s)) }
func (p *procs) SamplerParameteri(s, pname uint32, v int32) {
	p.call(glSamplerParameteri, uintptr(s), uintptr(pname), uintptr(v))
}
func (p *procs) SamplerParameterfv(s, pname uint32, v []float32) {
	p.call(glSamplerParameterfv, uintptr(s), uintptr(pname), uintptr(unsafe.Pointer(&v[0])))
}

func (p *procs) CreateShader(typ uint32) uint32 { return uint32(p.call(glCreateShader, uintptr(typ))) }
func (p *procs) ShaderSource(s uint32, src string) {
	text := cstr(src)
	base := &text[0]
	p.call(glShaderSource, uintptr(s), 1, uintptr(unsafe.Pointer(&base)), 0)
}
func (p *procs) CompileShader(s uint32) { p.call(glCompileShader, uintptr(s)) }
func (p *procs) GetShaderi(s, pname uint32) int32 {
	var v int32
	p.call(glGetShaderiv, uintptr(s), uintptr(pname), uintptr(unsafe.Pointer(&v)))
	return v
}
func (p *procs) GetShaderInfoLog(s uint32) string {
	return p.infoLog(glGetShaderInfoLog, s)
}
func (p *procs) DeleteShader(s uint32)     { p.call(glDeleteShader, uintptr(s)) }
func (p *procs) CreateProgram() uint32     { return uint32(p.call(glCreateProgram)) }
func (p *procs) AttachShader(pr, s uint32) { p.call(glAttachShader, uintptr(pr), uintptr(s)) }
func (p *procs) LinkProgram(pr uint32)     { p.call(glLinkProgram, uintptr(pr)) }
func (p *procs) GetProgrami(pr, pname uint32) int32 {
	var v int32
	p.call(glGetProgramiv, uintptr(pr), uintptr(pname), uintptr(unsafe.Pointer(&v)))
	return v
}
func (p *procs) GetProgramInfoLog(pr uint32) string {
	return p.infoLog(glGetProgramInfoLog, pr)
}

const infoLogSize = 4096

func (p *procs) infoLog(id proc, obj uint32) string {
	buf := make([]byte, infoLogSize)
	var n int32
	p.call(id, uintptr(obj), uintptr(len(buf)), uintptr(unsafe.Pointer(&n)), ptr(buf))
	return strings.TrimSpace(string(buf[:max(0, min(int(n), len(buf)))]))
}

func (p *procs) DeleteProgram(pr uint32) { p.call(glDeleteProgram, uintptr(pr)) }
func (p *procs) UseProgram(pr uint32)    { p.call(glUseProgram, uintptr(pr)) }
func (p *procs) GetUniformBlockIndex(pr uint32, name string) uint32 {
	s := cstr(name)
	idx := uint32(p.call(glGetUniformBlockIndex, uintptr(pr), ptr(s)))
	runtime.KeepAlive(s)
	return idx
}
func (p *procs) UniformBlockBinding(pr, index, binding uint32) {
	p.call(glUniformBlockBinding, uintptr(pr), uintptr(index), uintptr(binding))
}

func (p *procs) GenVertexArray() uint32     { return p.gen(glGenVertexArrays) }
func (p *procs) DeleteVertexArray(a uint32) { p.del(glDeleteVertexArrays, a) }
func (p *procs) BindVertexArray(a uint32)   { p.call(glBindVertexArray, uintptr(a)) }
func (p *procs) EnableVertexAttribArray(i uint32) {
	p.call(glEnableVertexAttribArray, uintptr(i))
}
func (p *procs) DisableVertexAttribArray(i uint32) {
	p.call(glDisableVertexAttribArray, uintptr(i))
}
func (p *procs) VertexAttribPointer(i uint32, size int32, typ uint32, normalized bool, stride int32, offset int) {
	p.call(glVertexAttribPointer, uintptr(i), uintptr(size), uintptr(typ), boolArg(normalized),
		uintptr(stride), uintptr(offset))
}

func (p *procs) GenFramebuffer() uint32      { return p.gen(glGenFramebuffers) }
func (p *procs) DeleteFramebuffer(fb uint32) { p.del(glDeleteFramebuffers, fb) }
func (p *procs) BindFramebuffer(target, fb uint32) {
	p.call(glBindFramebuffer, uintptr(target), uintptr(fb))
}
func (p *procs) FramebufferTexture2D(target, attachment, texTarget, t uint32, level int32) {
	p.call(glFramebufferTexture2D, uintptr(target), uintptr(attachment), uintptr(texTarget),
		uintptr(t), uintptr(level))
}
func (p *procs) CheckFramebufferStatus(target uint32) uint32 {
	return uint32(p.call(glCheckFramebufferStatus, uintptr(target)))
}
func (p *procs) DrawBuffers(bufs []uint32) {
	p.call(glDrawBuffers, uintptr(len(bufs)), uintptr(unsafe.Pointer(&bufs[0])))
}
func (p *procs) GenRenderbuffer() uint32      { return p.gen(glGenRenderbuffers) }
func (p *procs) DeleteRenderbuffer(rb uint32) { p.del(glDeleteRenderbuffers, rb) }
func (p *procs) BindRenderbuffer(target, rb uint32) {
	p.call(glBindRenderbuffer, uintptr(target), uintptr(rb))
}
func (p *procs) RenderbufferStorage(target, internal uint32, w, h int32) {
	p.call(glRenderbufferStorage, uintptr(target), uintptr(internal), uintptr(w), uintptr(h))
}
func (p *procs) FramebufferRenderbuffer(target, attachment, rbTarget, rb uint32) {
	p.call(glFramebufferRenderbuffer, uintptr(target), uintptr(attachment), uintptr(rbTarget), uintptr(rb))
}

func (p *procs) DrawArrays(mode uint32, first, count int32) {
	p.call(glDrawArrays, uintptr(mode), uintptr(first), uintptr(count))
}
func (p *procs) DrawElements(mode uint32, count int32, typ uint32, offset int) {
	p.call(glDrawElements, uintptr(mode), uintptr(count), uintptr(typ), uintptr(offset))
}
func (p *procs) Flush() { p.call(glFlush) }
