// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import "syscall"

// syscallN calls fn. The first four arguments are also loaded into the
// float registers, so float bit patterns arrive intact.
func syscallN(fn uintptr, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(fn, args...)
	return r
}
