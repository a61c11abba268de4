// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "errors"

// Errors returned by the device and its resources.
var (
	// ErrInvalidArgument is returned for nil data, non-positive sizes and
	// other malformed input. Nothing is allocated when it is returned.
	ErrInvalidArgument = errors.New("gfx: invalid argument")

	// ErrNotCreated is returned by factories called before Device.Create.
	ErrNotCreated = errors.New("gfx: device not created")

	// ErrAlreadyCreated is returned by a second Device.Create.
	ErrAlreadyCreated = errors.New("gfx: device already created")

	// ErrDestroyed is returned when using a destroyed device or resource.
	ErrDestroyed = errors.New("gfx: destroyed")

	// ErrBackend wraps native API failures.
	ErrBackend = errors.New("gfx: backend failure")

	// ErrBackendUnavailable is returned when no driver is registered for
	// the requested API.
	ErrBackendUnavailable = errors.New("gfx: backend unavailable")

	// ErrNotImplemented is returned for operations the resource does not
	// support in its current configuration, such as updating a static
	// buffer.
	ErrNotImplemented = errors.New("gfx: not implemented")

	// ErrUnsupported is returned for formats or features a path cannot
	// handle.
	ErrUnsupported = errors.New("gfx: unsupported")

	// ErrDrawRejected is recorded when a draw call is dropped.
	ErrDrawRejected = errors.New("gfx: draw rejected")

	// ErrShaderNotBuilt is returned when a built shader is required.
	ErrShaderNotBuilt = errors.New("gfx: shader not built")

	// ErrForeignResource is returned when a resource from another device is
	// passed in.
	ErrForeignResource = errors.New("gfx: resource belongs to another device")
)
