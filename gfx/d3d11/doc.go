// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d11 is the Direct3D 11 backend. On Windows, importing it
// registers the driver under driver.Direct3D11:
//
//	import _ "github.com/gogpu/ciri/gfx/d3d11"
//
// The device owns a DXGI swap chain on the target window handle. Shaders
// are HLSL compiled with d3dcompiler_47 for shader model 5.0, or DXBC
// bytecode passed through unchanged. Constant buffer slots are resolved
// by name through shader reflection.
//
// On other systems the package compiles but registers nothing.
package d3d11
