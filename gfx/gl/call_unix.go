// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux || freebsd || darwin

package gl

import "github.com/ebitengine/purego"

// syscallN calls fn through purego, which mirrors the leading arguments
// into the float registers.
func syscallN(fn uintptr, args ...uintptr) uintptr {
	r, _, _ := purego.SyscallN(fn, args...)
	return r
}
