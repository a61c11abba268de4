// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx is the backend-agnostic graphics device.
//
// A [Device] owns every resource it creates and the currently bound render
// state. It validates arguments, coalesces redundant state changes, rejects
// malformed draws without failing the frame, and tears resources down in
// dependency order. Native work is delegated to a backend from
// [github.com/gogpu/ciri/gfx/driver], chosen once by [NewDevice]:
//
//	import _ "github.com/gogpu/ciri/gfx/gl"
//
//	dev, err := gfx.NewDevice(gfx.OpenGL)
//	...
//	if err := dev.Create(window); err != nil {
//	    return err
//	}
//	defer dev.Destroy()
//
// # Resources
//
// Factories return (*T, error). Every resource has an idempotent Destroy.
// Destroying the device releases whatever is left: states first, then
// render targets, textures, buffers and shaders, then the native context.
// A destroyed resource can still be passed to the device; it is treated as
// absent.
//
// # Draw rejection
//
// DrawArrays and DrawIndexed never fail loudly. A draw without an active
// shader, vertex buffer or index buffer, or with an out-of-range count, is
// dropped, logged at debug level and reported through [Device.LastError].
//
// # Threading
//
// A Device and its resources must be used from the goroutine that owns the
// native context. The package does no internal locking.
package gfx
