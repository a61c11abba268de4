// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux || freebsd || darwin

package gl

import (
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
)

func libGLName() string {
	if runtime.GOOS == "darwin" {
		return "/System/Library/Frameworks/OpenGL.framework/OpenGL"
	}
	return "libGL.so.1"
}

// libGL is opened on first use. Windows that resolve every entry point
// themselves never load it.
var libGL = sync.OnceValue(func() func(string) uintptr {
	lib, err := purego.Dlopen(libGLName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		ciri.Logger().Warn("gl: cannot open the GL library", "lib", libGLName(), "err", err)
		return func(string) uintptr { return 0 }
	}
	var getProcAddress func(name string) uintptr
	if sym, err := purego.Dlsym(lib, "glXGetProcAddressARB"); err == nil {
		purego.RegisterFunc(&getProcAddress, sym)
	}
	return func(name string) uintptr {
		if sym, err := purego.Dlsym(lib, name); err == nil && sym != 0 {
			return sym
		}
		if getProcAddress != nil {
			return getProcAddress(name)
		}
		return 0
	}
})

// openContext adopts the window's context. Only Windows can create a
// context from a bare window handle.
func openContext(t driver.Target) (glContext, error) {
	if t.Surface == nil {
		return nil, driver.ErrNoSurface
	}
	return &surfaceContext{surface: t.Surface, fallback: libGL()}, nil
}
