// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Driver errors.
var (
	// ErrUnsupported is returned for operations a backend cannot perform on
	// the current platform or hardware.
	ErrUnsupported = errors.New("driver: unsupported")

	// ErrNoSurface is returned when a backend needs a platform surface the
	// target did not provide.
	ErrNoSurface = errors.New("driver: target has no usable surface")
)

// CompileError carries the compiler log of a failed shader stage.
type CompileError struct {
	Stage ShaderStage
	Name  string
	Log   string
}

func (e *CompileError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("driver: %s shader %q: %s", e.Stage, e.Name, e.Log)
	}
	return fmt.Sprintf("driver: %s shader: %s", e.Stage, e.Log)
}

// GLSurface is implemented by windows that own an OpenGL context.
type GLSurface interface {
	MakeCurrent() error
	SwapBuffers() error
	// ProcAddress returns the address of a GL entry point, or 0.
	ProcAddress(name string) uintptr
}

// Target describes the window a device renders into.
type Target struct {
	Width, Height int
	// Handle is the native window handle (an HWND on Windows).
	Handle uintptr
	// Surface is set when the window provides its own GL context.
	Surface     GLSurface
	DepthFormat DepthStencilFormat
	VSync       bool
}

// Info describes an opened native device.
type Info struct {
	API     API
	GPUName string
	APIInfo string
}

// Driver opens native devices for one API.
type Driver interface {
	API() API
	Open(t Target) (Device, error)
}

// Buffer is a native vertex, index or constant buffer.
type Buffer interface {
	// Upload replaces the buffer contents starting at offset 0.
	Upload(data []byte) error
	Release()
}

// Texture is a native 2D, 3D or cube texture.
type Texture interface {
	// Upload writes a w×h block at (x, y) of slice or face z.
	Upload(x, y, z, w, h int, pixels []byte) error
	// ReadPixels copies mip 0 of slice 0 into dst.
	ReadPixels(dst []byte) error
	Release()
}

// Shader is a built native shader program.
type Shader interface {
	// ConstantSlot resolves a named constant block at one stage.
	ConstantSlot(name string, stage ShaderStage) (int, bool)
	Release()
}

// Sampler is a native sampler state.
type Sampler interface{ Release() }

// State is a native rasterizer, depth-stencil or blend state.
type State interface{ Release() }

// RenderTarget is a native color target with optional depth-stencil.
type RenderTarget interface{ Release() }

// Device is an opened native device.
//
// Bind and Set methods never fail: the frontend validates arguments before
// calling them. A nil native object unbinds the slot or, for states,
// applies DefaultRasterizerDesc, DefaultDepthStencilDesc or
// DefaultBlendDesc.
type Device interface {
	Info() Info

	NewShader(desc ShaderDesc) (Shader, error)
	NewBuffer(desc BufferDesc, data []byte) (Buffer, error)
	// NewTexture creates a texture. data holds one entry per slice or cube
	// face; nil entries leave contents undefined.
	NewTexture(desc TextureDesc, data [][]byte) (Texture, error)
	NewSampler(desc SamplerDesc) (Sampler, error)
	NewRasterizerState(desc RasterizerDesc) (State, error)
	NewDepthStencilState(desc DepthStencilDesc) (State, error)
	NewBlendState(desc BlendDesc) (State, error)
	NewRenderTarget(color Texture, depth DepthStencilFormat) (RenderTarget, error)

	BindShader(s Shader)
	BindConstantBuffer(stage ShaderStage, slot int, b Buffer)
	BindVertexBuffer(b Buffer, layout VertexLayout)
	BindIndexBuffer(b Buffer)
	BindTexture(slot int, t Texture, stages ShaderStage)
	BindSampler(slot int, s Sampler, stages ShaderStage)
	SetRasterizerState(s State)
	SetDepthStencilState(s State)
	SetBlendState(s State)
	SetViewport(vp Viewport)
	// SetRenderTargets binds the given targets; an empty list restores the
	// backbuffer and default depth-stencil.
	SetRenderTargets(targets []RenderTarget)

	Clear(flags ClearFlags, color [4]float32, depth float32, stencil int)
	DrawArrays(topology gputypes.PrimitiveTopology, count, start int)
	DrawIndexed(topology gputypes.PrimitiveTopology, count int)
	Present() error
	// Resize resizes the backbuffer and default depth-stencil.
	Resize(width, height int) error
	Release()
}
