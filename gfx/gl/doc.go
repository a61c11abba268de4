// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gl is the OpenGL 4.2 backend. Importing it registers the driver
// under driver.OpenGL:
//
//	import _ "github.com/gogpu/ciri/gfx/gl"
//
// On Windows the backend creates a WGL context on the window handle. On
// other systems the window must implement driver.GLSurface; entry points
// it cannot resolve are looked up in the system GL library through purego.
//
// GL contexts are bound to an OS thread. Lock the rendering goroutine
// with runtime.LockOSThread before creating the device.
package gl
