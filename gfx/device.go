// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
	"github.com/gogpu/ciri/internal/arena"
)

// Binding limits.
const (
	MaxTextureSlots  = 16
	MaxSamplerSlots  = 16
	MaxRenderTargets = 8
)

// Device is a graphics device bound to one window and one native API.
//
// Create a Device with NewDevice, initialize it with Create and release
// everything with Destroy. All methods must be called from the goroutine
// that owns the native context.
type Device struct {
	api    API
	drv    driver.Driver
	native driver.Device
	info   driver.Info
	window Window
	opts   options

	created   bool
	destroyed bool

	reg    arena.Arena[tracked]
	nextID uint64

	bound         bindings
	viewport      Viewport
	width, height int

	clearColor   [4]float32
	clearDepth   float32
	clearStencil int
	shaderExt    string

	presets presets
	lastErr error
}

// slotBinding is a resource bound to a numbered slot.
type slotBinding struct {
	h      arena.Handle
	stages ShaderStage
}

// bindings is the currently bound pipeline state, by handle.
type bindings struct {
	shader arena.Handle
	vertex arena.Handle
	index  arena.Handle

	raster arena.Handle
	depth  arena.Handle
	blend  arena.Handle

	textures map[int]slotBinding
	samplers map[int]slotBinding
	targets  []arena.Handle
}

func (b *bindings) reset() {
	*b = bindings{
		textures: make(map[int]slotBinding),
		samplers: make(map[int]slotBinding),
	}
}

// NewDevice returns an uncreated device for api.
//
// The backend is the driver registered for api unless WithDriver supplies
// one. Backends register themselves when their package is imported.
func NewDevice(api API, opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	drv := o.driver
	if drv == nil {
		drv = driver.ForAPI(api)
		if drv == nil {
			return nil, fmt.Errorf("%w: %s (registered: %v)", ErrBackendUnavailable, api, driver.Available())
		}
	}
	d := &Device{
		api:        drv.API(),
		drv:        drv,
		opts:       o,
		clearColor: o.clearColor,
		clearDepth: 1,
		shaderExt:  o.shaderExt,
	}
	if d.shaderExt == "" {
		d.shaderExt = defaultShaderExt(d.api)
	}
	d.bound.reset()
	return d, nil
}

func defaultShaderExt(api API) string {
	if api == Direct3D11 {
		return ".hlsl"
	}
	return ".glsl"
}

// Create opens the native context for win. It may be called once.
//
// On success the named preset states exist, the canonical default states
// are applied and the viewport covers the window.
func (d *Device) Create(win Window) error {
	switch {
	case d.destroyed:
		return ErrDestroyed
	case d.created:
		return ErrAlreadyCreated
	case win == nil:
		return d.fail(fmt.Errorf("%w: nil window", ErrInvalidArgument))
	}
	w, h := win.Width(), win.Height()
	if w <= 0 || h <= 0 {
		return d.fail(fmt.Errorf("%w: window size %dx%d", ErrInvalidArgument, w, h))
	}

	t := driver.Target{
		Width:       w,
		Height:      h,
		Handle:      win.NativeHandle(),
		DepthFormat: d.opts.depth,
		VSync:       d.opts.vsync,
	}
	if s, ok := win.(driver.GLSurface); ok {
		t.Surface = s
	}
	native, err := d.drv.Open(t)
	if err != nil {
		return d.fail(fmt.Errorf("%w: open %s: %w", ErrBackend, d.api, err))
	}

	d.native = native
	d.info = native.Info()
	d.window = win
	d.width, d.height = w, h
	d.created = true

	if err := d.createPresets(); err != nil {
		d.Destroy()
		return d.fail(err)
	}
	d.SetViewport(Viewport{Width: w, Height: h, MaxDepth: 1})
	d.RestoreDefaultStates()

	ciri.Logger().Info("gfx: device created",
		"api", d.api.String(),
		"gpu", d.info.GPUName,
		"info", d.info.APIInfo,
		"width", w,
		"height", h)
	return nil
}

// Destroy releases every resource created by the device and then the
// native context. Resources are released states first, then render
// targets, textures, buffers and shaders, each class in reverse creation
// order. Destroy is idempotent.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if !d.created {
		return
	}

	entries := d.reg.Entries()
	slices.SortStableFunc(entries, func(a, b arena.Entry[tracked]) int {
		if c := cmp.Compare(b.Value.base().kind, a.Value.base().kind); c != 0 {
			return c
		}
		return cmp.Compare(b.Seq, a.Seq)
	})
	for _, e := range entries {
		r := e.Value.base()
		if r.destroyed {
			continue
		}
		e.Value.release()
		r.destroyed = true
	}
	d.reg.Clear()
	d.bound.reset()
	d.presets = presets{}

	d.native.Release()
	d.native = nil
	ciri.Logger().Debug("gfx: device destroyed", "resources", len(entries))
}

// ready reports whether the device can create and bind resources.
func (d *Device) ready() error {
	if d.destroyed {
		return ErrDestroyed
	}
	if !d.created {
		return ErrNotCreated
	}
	return nil
}

// fail records err as the last error and returns it.
func (d *Device) fail(err error) error {
	d.lastErr = err
	return err
}

// track registers r with the device.
func (d *Device) track(r tracked, kind resourceKind) {
	b := r.base()
	d.nextID++
	b.dev = d
	b.kind = kind
	b.id = d.nextID
	b.handle = d.reg.Insert(r)
}

// destroy unbinds and releases r and drops it from the registry.
func (d *Device) destroy(r tracked) {
	b := r.base()
	if b.destroyed || b.builtin || b.dev != d {
		return
	}
	if d.created && !d.destroyed {
		d.unbind(b.handle)
	}
	r.release()
	d.reg.Remove(b.handle)
	b.destroyed = true
}

// unbind clears every binding that refers to h.
func (d *Device) unbind(h arena.Handle) {
	b := &d.bound
	var none arena.Handle
	if b.shader == h {
		d.native.BindShader(nil)
		b.shader = none
	}
	if b.vertex == h {
		d.native.BindVertexBuffer(nil, VertexLayout{})
		b.vertex = none
	}
	if b.index == h {
		d.native.BindIndexBuffer(nil)
		b.index = none
	}
	if b.raster == h {
		b.raster = none
	}
	if b.depth == h {
		b.depth = none
	}
	if b.blend == h {
		b.blend = none
	}
	for slot, sb := range b.textures {
		if sb.h == h {
			d.native.BindTexture(slot, nil, sb.stages)
			delete(b.textures, slot)
		}
	}
	for slot, sb := range b.samplers {
		if sb.h == h {
			d.native.BindSampler(slot, nil, sb.stages)
			delete(b.samplers, slot)
		}
	}
	if slices.Contains(b.targets, h) {
		d.native.SetRenderTargets(nil)
		b.targets = nil
	}
}

// lookup returns the live resource registered under h, or the zero T.
func lookup[T tracked](d *Device, h arena.Handle) T {
	var zero T
	if h.IsZero() {
		return zero
	}
	v, ok := d.reg.Get(h)
	if !ok {
		return zero
	}
	t, _ := v.(T)
	return t
}

// API returns the native API of the device.
func (d *Device) API() API { return d.api }

// Window returns the window passed to Create, or nil.
func (d *Device) Window() Window { return d.window }

// GPUName returns the adapter name reported by the backend.
func (d *Device) GPUName() string { return d.info.GPUName }

// APIInfo returns the API version string reported by the backend.
func (d *Device) APIInfo() string { return d.info.APIInfo }

// ShaderExt returns the extension of shader source files for this API.
func (d *Device) ShaderExt() string { return d.shaderExt }

// SetShaderExt overrides the shader file extension.
func (d *Device) SetShaderExt(ext string) { d.shaderExt = ext }

// LastError returns the most recent error recorded by the device,
// including rejected draws, or nil.
func (d *Device) LastError() error { return d.lastErr }

// ClearLastError resets LastError to nil.
func (d *Device) ClearLastError() { d.lastErr = nil }

// Size returns the backbuffer size.
func (d *Device) Size() (width, height int) { return d.width, d.height }

// ResourceCount returns the number of live resources owned by the device,
// including the preset states.
func (d *Device) ResourceCount() int { return d.reg.Len() }

// Present displays the backbuffer.
func (d *Device) Present() error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.native.Present(); err != nil {
		return d.fail(fmt.Errorf("%w: present: %w", ErrBackend, err))
	}
	return nil
}

// Resize matches the backbuffer to the current window size and resets the
// viewport. Resizing to the current size is a no-op.
func (d *Device) Resize() error {
	if err := d.ready(); err != nil {
		return err
	}
	w, h := d.window.Width(), d.window.Height()
	if w <= 0 || h <= 0 {
		return d.fail(fmt.Errorf("%w: window size %dx%d", ErrInvalidArgument, w, h))
	}
	if w == d.width && h == d.height {
		return nil
	}
	if err := d.native.Resize(w, h); err != nil {
		return d.fail(fmt.Errorf("%w: resize to %dx%d: %w", ErrBackend, w, h, err))
	}
	d.width, d.height = w, h
	d.SetViewport(Viewport{Width: w, Height: h, MaxDepth: 1})
	ciri.Logger().Debug("gfx: backbuffer resized", "width", w, "height", h)
	return nil
}

// SetClearColor sets the color used by Clear.
func (d *Device) SetClearColor(r, g, b, a float32) { d.clearColor = [4]float32{r, g, b, a} }

// SetClearDepth sets the depth used by Clear.
func (d *Device) SetClearDepth(depth float32) { d.clearDepth = depth }

// SetClearStencil sets the stencil value used by Clear.
func (d *Device) SetClearStencil(s int) { d.clearStencil = s }

// Clear clears the bound render targets.
func (d *Device) Clear(flags ClearFlags) {
	if d.ready() != nil || flags == 0 {
		return
	}
	d.native.Clear(flags, d.clearColor, d.clearDepth, d.clearStencil)
}

// SetViewport sets the render viewport.
func (d *Device) SetViewport(vp Viewport) {
	if d.ready() != nil {
		return
	}
	d.viewport = vp
	d.native.SetViewport(vp)
}

// Viewport returns the current viewport.
func (d *Device) Viewport() Viewport { return d.viewport }
