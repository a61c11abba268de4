// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/ciri/gfx/driver"
	"github.com/gogpu/ciri/internal/arena"
)

// RenderTarget2D is an off-screen color texture with an optional
// depth-stencil buffer.
type RenderTarget2D struct {
	resource
	native  driver.RenderTarget
	texture *Texture2D
	depth   DepthStencilFormat
}

// CreateRenderTarget2D creates a width×height render target.
func (d *Device) CreateRenderTarget2D(width, height int, format TextureFormat, depth DepthStencilFormat) (*RenderTarget2D, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	tex, err := d.CreateTexture2D(width, height, format, TextureRenderTarget, nil)
	if err != nil {
		return nil, err
	}
	native, err := d.native.NewRenderTarget(tex.native, depth)
	if err != nil {
		d.destroy(tex)
		return nil, d.fail(fmt.Errorf("%w: render target %dx%d: %w", ErrBackend, width, height, err))
	}
	rt := &RenderTarget2D{native: native, texture: tex, depth: depth}
	d.track(rt, kindRenderTarget)
	tex.owner = rt
	return rt, nil
}

// Texture returns the color texture. It can be bound like any other
// texture once the render target is no longer active.
func (rt *RenderTarget2D) Texture() *Texture2D { return rt.texture }

// DepthFormat returns the depth-stencil format, or DepthNone.
func (rt *RenderTarget2D) DepthFormat() DepthStencilFormat { return rt.depth }

// Width returns the width in pixels.
func (rt *RenderTarget2D) Width() int { return rt.texture.Width() }

// Height returns the height in pixels.
func (rt *RenderTarget2D) Height() int { return rt.texture.Height() }

// Destroy releases the render target and its color texture. It is safe to
// call more than once.
func (rt *RenderTarget2D) Destroy() {
	if rt == nil || rt.dev == nil {
		return
	}
	d := rt.dev
	d.destroy(rt)
	d.destroy(rt.texture)
}

func (rt *RenderTarget2D) release() {
	if rt.native != nil {
		rt.native.Release()
		rt.native = nil
	}
}

// ResizeRenderTarget2D recreates rt at w×h. Contents are lost. Resizing
// to the current size is a no-op.
func (d *Device) ResizeRenderTarget2D(rt *RenderTarget2D, w, h int) error {
	if err := d.ready(); err != nil {
		return err
	}
	if rt == nil || !rt.live(d) {
		return d.fail(fmt.Errorf("%w: render target not usable", ErrInvalidArgument))
	}
	if w == rt.Width() && h == rt.Height() {
		return nil
	}
	if err := d.resizeTexture(&rt.texture.texture, w, h); err != nil {
		return err
	}
	native, err := d.native.NewRenderTarget(rt.texture.native, rt.depth)
	if err != nil {
		return d.fail(fmt.Errorf("%w: render target %dx%d: %w", ErrBackend, w, h, err))
	}
	rt.release()
	rt.native = native
	if d.bound.targets != nil {
		d.rebindTargets()
	}
	return nil
}

// SetRenderTargets renders into targets instead of the backbuffer and sets
// the viewport to the first target. No targets restores the backbuffer.
func (d *Device) SetRenderTargets(targets ...*RenderTarget2D) {
	if d.ready() != nil {
		return
	}
	if len(targets) == 0 {
		d.RestoreDefaultRenderTargets()
		return
	}
	if len(targets) > MaxRenderTargets {
		d.fail(fmt.Errorf("%w: %d render targets, at most %d", ErrInvalidArgument, len(targets), MaxRenderTargets))
		return
	}
	for i, rt := range targets {
		if rt == nil || !rt.live(d) {
			d.fail(fmt.Errorf("%w: render target %d not usable", ErrInvalidArgument, i))
			return
		}
	}

	// A texture cannot be sampled while it is being rendered to.
	for _, rt := range targets {
		for slot, sb := range d.bound.textures {
			if sb.h == rt.texture.handle {
				d.native.BindTexture(slot, nil, sb.stages)
				delete(d.bound.textures, slot)
			}
		}
	}

	handles := make([]arena.Handle, len(targets))
	for i, rt := range targets {
		handles[i] = rt.handle
	}
	d.bound.targets = handles
	d.rebindTargets()
	d.SetViewport(Viewport{Width: targets[0].Width(), Height: targets[0].Height(), MaxDepth: 1})
}

func (d *Device) rebindTargets() {
	natives := make([]driver.RenderTarget, 0, len(d.bound.targets))
	for _, h := range d.bound.targets {
		if rt := lookup[*RenderTarget2D](d, h); rt != nil {
			natives = append(natives, rt.native)
		}
	}
	d.native.SetRenderTargets(natives)
}

// RenderTargets returns the active render targets, or nil when rendering
// to the backbuffer.
func (d *Device) RenderTargets() []*RenderTarget2D {
	var out []*RenderTarget2D
	for _, h := range d.bound.targets {
		if rt := lookup[*RenderTarget2D](d, h); rt != nil {
			out = append(out, rt)
		}
	}
	return out
}

// RestoreDefaultRenderTargets renders to the backbuffer again and resets
// the viewport to the window.
func (d *Device) RestoreDefaultRenderTargets() {
	if d.ready() != nil {
		return
	}
	d.bound.targets = nil
	d.native.SetRenderTargets(nil)
	d.SetViewport(Viewport{Width: d.width, Height: d.height, MaxDepth: 1})
}
