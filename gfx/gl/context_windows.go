// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/ciri/gfx/driver"
)

var (
	opengl32 = windows.NewLazySystemDLL("opengl32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	_wglCreateContext  = opengl32.NewProc("wglCreateContext")
	_wglDeleteContext  = opengl32.NewProc("wglDeleteContext")
	_wglGetProcAddress = opengl32.NewProc("wglGetProcAddress")
	_wglMakeCurrent    = opengl32.NewProc("wglMakeCurrent")

	_ChoosePixelFormat = gdi32.NewProc("ChoosePixelFormat")
	_SetPixelFormat    = gdi32.NewProc("SetPixelFormat")
	_SwapBuffers       = gdi32.NewProc("SwapBuffers")

	_GetDC     = user32.NewProc("GetDC")
	_ReleaseDC = user32.NewProc("ReleaseDC")
)

const (
	_PFD_DOUBLEBUFFER   = 0x00000001
	_PFD_DRAW_TO_WINDOW = 0x00000004
	_PFD_SUPPORT_OPENGL = 0x00000020
	_PFD_TYPE_RGBA      = 0
	_PFD_MAIN_PLANE     = 0

	_WGL_CONTEXT_MAJOR_VERSION_ARB             = 0x2091
	_WGL_CONTEXT_MINOR_VERSION_ARB             = 0x2092
	_WGL_CONTEXT_PROFILE_MASK_ARB              = 0x9126
	_WGL_CONTEXT_COMPATIBILITY_PROFILE_BIT_ARB = 0x00000002
)

type pixelFormatDescriptor struct {
	Size           uint16
	Version        uint16
	Flags          uint32
	PixelType      uint8
	ColorBits      uint8
	RedBits        uint8
	RedShift       uint8
	GreenBits      uint8
	GreenShift     uint8
	BlueBits       uint8
	BlueShift      uint8
	AlphaBits      uint8
	AlphaShift     uint8
	AccumBits      uint8
	AccumRedBits   uint8
	AccumGreenBits uint8
	AccumBlueBits  uint8
	AccumAlphaBits uint8
	DepthBits      uint8
	StencilBits    uint8
	AuxBuffers     uint8
	LayerType      uint8
	Reserved       uint8
	LayerMask      uint32
	VisibleMask    uint32
	DamageMask     uint32
}

func openContext(t driver.Target) (glContext, error) {
	if t.Surface != nil {
		return &surfaceContext{surface: t.Surface, fallback: procAddress}, nil
	}
	return newWGLContext(t.Handle, t.DepthFormat)
}

// wglContext is a context created on a window's device context.
type wglContext struct {
	hwnd, hdc, hglrc uintptr
	swapInterval     uintptr
}

func newWGLContext(hwnd uintptr, depth driver.DepthStencilFormat) (*wglContext, error) {
	if hwnd == 0 {
		return nil, driver.ErrNoSurface
	}
	c := &wglContext{hwnd: hwnd}
	hdc, _, err := _GetDC.Call(hwnd)
	if hdc == 0 {
		return nil, fmt.Errorf("gl: GetDC: %w", err)
	}
	c.hdc = hdc

	pfd := pixelFormatDescriptor{
		Version:   1,
		Flags:     _PFD_DRAW_TO_WINDOW | _PFD_SUPPORT_OPENGL | _PFD_DOUBLEBUFFER,
		PixelType: _PFD_TYPE_RGBA,
		ColorBits: 32,
		AlphaBits: 8,
		LayerType: _PFD_MAIN_PLANE,
	}
	if depth == driver.Depth24Stencil8 {
		pfd.DepthBits, pfd.StencilBits = 24, 8
	}
	pfd.Size = uint16(unsafe.Sizeof(pfd))
	format, _, err := _ChoosePixelFormat.Call(hdc, uintptr(unsafe.Pointer(&pfd)))
	if format == 0 {
		c.Release()
		return nil, fmt.Errorf("gl: ChoosePixelFormat: %w", err)
	}
	if ok, _, err := _SetPixelFormat.Call(hdc, format, uintptr(unsafe.Pointer(&pfd))); ok == 0 {
		c.Release()
		return nil, fmt.Errorf("gl: SetPixelFormat: %w", err)
	}

	legacy, _, err := _wglCreateContext.Call(hdc)
	if legacy == 0 {
		c.Release()
		return nil, fmt.Errorf("gl: wglCreateContext: %w", err)
	}
	c.hglrc = legacy
	if err := c.MakeCurrent(); err != nil {
		c.Release()
		return nil, err
	}

	// Upgrade to a 4.2 context when the driver can create one.
	if create := wglProc("wglCreateContextAttribsARB"); create != 0 {
		attribs := []int32{
			_WGL_CONTEXT_MAJOR_VERSION_ARB, 4,
			_WGL_CONTEXT_MINOR_VERSION_ARB, 2,
			_WGL_CONTEXT_PROFILE_MASK_ARB, _WGL_CONTEXT_COMPATIBILITY_PROFILE_BIT_ARB,
			0,
		}
		modern, _, _ := syscall.SyscallN(create, hdc, 0, uintptr(unsafe.Pointer(&attribs[0])))
		if modern != 0 {
			_wglMakeCurrent.Call(0, 0)
			_wglDeleteContext.Call(legacy)
			c.hglrc = modern
			if err := c.MakeCurrent(); err != nil {
				c.Release()
				return nil, err
			}
		}
	}
	c.swapInterval = wglProc("wglSwapIntervalEXT")
	return c, nil
}

func (c *wglContext) MakeCurrent() error {
	if ok, _, err := _wglMakeCurrent.Call(c.hdc, c.hglrc); ok == 0 {
		return fmt.Errorf("gl: wglMakeCurrent: %w", err)
	}
	return nil
}

func (c *wglContext) SwapBuffers() error {
	if ok, _, err := _SwapBuffers.Call(c.hdc); ok == 0 {
		return fmt.Errorf("gl: SwapBuffers: %w", err)
	}
	return nil
}

func (c *wglContext) ProcAddress(name string) uintptr { return procAddress(name) }

func (c *wglContext) SetSwapInterval(interval int) {
	if c.swapInterval != 0 {
		syscall.SyscallN(c.swapInterval, uintptr(interval))
	}
}

func (c *wglContext) Release() {
	if c.hglrc != 0 {
		_wglMakeCurrent.Call(0, 0)
		_wglDeleteContext.Call(c.hglrc)
		c.hglrc = 0
	}
	if c.hdc != 0 {
		_ReleaseDC.Call(c.hwnd, c.hdc)
		c.hdc = 0
	}
}

// wglProc returns an extension or post-1.1 entry point of the current
// context, or 0.
func wglProc(name string) uintptr {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	addr, _, _ := _wglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
	// Some drivers return small sentinels instead of NULL.
	switch addr {
	case 1, 2, 3, ^uintptr(0):
		return 0
	}
	return addr
}

// procAddress resolves GL 1.1 entry points from opengl32.dll and the rest
// through wglGetProcAddress.
func procAddress(name string) uintptr {
	if addr := wglProc(name); addr != 0 {
		return addr
	}
	p := opengl32.NewProc(name)
	if p.Find() != nil {
		return 0
	}
	return p.Addr()
}
