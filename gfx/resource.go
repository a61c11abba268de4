// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/ciri/internal/arena"

// resourceKind orders device teardown: higher kinds are released first.
type resourceKind uint8

const (
	kindShader resourceKind = iota
	kindBuffer
	kindTexture
	kindRenderTarget
	kindState
)

func (k resourceKind) String() string {
	switch k {
	case kindShader:
		return "shader"
	case kindBuffer:
		return "buffer"
	case kindTexture:
		return "texture"
	case kindRenderTarget:
		return "render target"
	case kindState:
		return "state"
	}
	return "resource"
}

// tracked is implemented by every resource type the device registers.
type tracked interface {
	base() *resource
	// release frees the native objects. It must tolerate being called on a
	// resource whose native objects were never created.
	release()
}

// resource is embedded in every device-owned resource.
type resource struct {
	dev       *Device
	handle    arena.Handle
	kind      resourceKind
	id        uint64
	destroyed bool
	// builtin resources are owned by the device and ignore Destroy.
	builtin bool
}

func (r *resource) base() *resource { return r }

// ID returns a device-unique identifier assigned at creation. IDs increase
// with creation order and are never reused.
func (r *resource) ID() uint64 { return r.id }

// IsDestroyed reports whether the resource has been destroyed, either
// directly or by destroying its device.
func (r *resource) IsDestroyed() bool { return r.destroyed }

// live reports whether r can be used with dev.
func (r *resource) live(dev *Device) bool {
	return !r.destroyed && r.dev == dev && dev.reg.Contains(r.handle)
}
