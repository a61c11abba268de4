// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import "fmt"

// Error is an error code reported by glGetError.
type Error uint32

func (e Error) Error() string {
	switch e {
	case _INVALID_ENUM:
		return "gl: GL_INVALID_ENUM"
	case _INVALID_VALUE:
		return "gl: GL_INVALID_VALUE"
	case _INVALID_OPERATION:
		return "gl: GL_INVALID_OPERATION"
	case _OUT_OF_MEMORY:
		return "gl: GL_OUT_OF_MEMORY"
	case _INVALID_FRAMEBUFFER_OPERATION:
		return "gl: GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("gl: error %#x", uint32(e))
}

// FramebufferError is an incomplete framebuffer status.
type FramebufferError uint32

func (e FramebufferError) Error() string {
	return fmt.Sprintf("gl: framebuffer incomplete, status %#x", uint32(e))
}
