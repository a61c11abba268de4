// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

// Window is the surface a Device renders into.
//
// A Device reads the size at Create and Resize and the native handle at
// Create. It never closes or otherwise manages the window. On platforms
// where the window owns the GL context, it also implements
// driver.GLSurface.
type Window interface {
	Width() int
	Height() int
	// NativeHandle returns the OS window handle (an HWND on Windows).
	NativeHandle() uintptr
	HasFocus() bool
}
