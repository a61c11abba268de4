// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package drivertest provides an in-memory driver that records every call
// made to it. It backs the tests of gfx and of the packages built on it.
package drivertest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/ciri/gfx/driver"
	"github.com/gogpu/gputypes"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("drivertest: injected failure")

// Driver opens recording devices.
type Driver struct {
	// Kind is the API the driver reports. Defaults to OpenGL.
	Kind driver.API
	// FailOpen makes Open fail.
	FailOpen bool
	// Last is the most recently opened device.
	Last *Device
}

// API returns the configured API.
func (d *Driver) API() driver.API {
	if d.Kind == driver.Unknown {
		return driver.OpenGL
	}
	return d.Kind
}

// Open returns a new recording device.
func (d *Driver) Open(t driver.Target) (driver.Device, error) {
	if d.FailOpen {
		return nil, ErrInjected
	}
	dev := &Device{
		Target: t,
		api:    d.API(),
		Fail:   make(map[string]error),
		Slots:  make(map[string]int),
	}
	d.Last = dev
	return dev, nil
}

// Draw is one recorded draw call.
type Draw struct {
	Topology gputypes.PrimitiveTopology
	Count    int
	Start    int
	Indexed  bool
	// Texture is the texture bound at slot 0 when the draw was issued.
	Texture *Texture
	// Vertices is a snapshot of the bound vertex buffer contents.
	Vertices []byte
	// Indices is a snapshot of the bound index buffer for indexed draws.
	Indices []byte
}

// Device records calls and tracks native object lifetimes.
type Device struct {
	Target driver.Target
	api    driver.API

	// Calls lists every call by name, in order.
	Calls []string
	// Draws lists every draw call.
	Draws []Draw
	// Fail maps an operation name ("NewTexture", "Present", ...) to the
	// error it returns.
	Fail map[string]error
	// Slots maps constant block names to the slot ConstantSlot reports.
	Slots map[string]int

	// Live counts native objects created and not yet released.
	Live int
	// DoubleReleases counts Release calls on already released objects.
	DoubleReleases int
	// Released is true once the device itself was released.
	Released bool

	shader   *Shader
	vertex   *Buffer
	index    *Buffer
	textures map[int]*Texture
	nextID   int
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) fail(op string) error {
	if err, ok := d.Fail[op]; ok {
		if err == nil {
			err = ErrInjected
		}
		return err
	}
	return nil
}

// object is embedded in every native object.
type object struct {
	dev      *Device
	ID       int
	released bool
}

func (d *Device) newObject() object {
	d.nextID++
	d.Live++
	return object{dev: d, ID: d.nextID}
}

// Release releases the object.
func (o *object) Release() {
	if o.released {
		o.dev.DoubleReleases++
		return
	}
	o.released = true
	o.dev.Live--
	o.dev.record("Release(%d)", o.ID)
}

// IsReleased reports whether Release was called.
func (o *object) IsReleased() bool { return o.released }

// Buffer is a recorded buffer.
type Buffer struct {
	object
	Desc driver.BufferDesc
	Data []byte
}

// Upload replaces the contents.
func (b *Buffer) Upload(data []byte) error {
	b.dev.record("Upload(buffer %d, %d bytes)", b.ID, len(data))
	if err := b.dev.fail("Upload"); err != nil {
		return err
	}
	if len(data) > b.Desc.Size {
		return fmt.Errorf("drivertest: upload of %d bytes into %d byte buffer", len(data), b.Desc.Size)
	}
	copy(b.Data, data)
	return nil
}

// Texture is a recorded texture.
type Texture struct {
	object
	Desc driver.TextureDesc
	Data [][]byte
}

// Upload writes a block of texels.
func (t *Texture) Upload(x, y, z, w, h int, pixels []byte) error {
	t.dev.record("UploadTexture(%d, %d,%d,%d %dx%d)", t.ID, x, y, z, w, h)
	bpp := t.Desc.Format.BytesPerPixel()
	if z < 0 || z >= len(t.Data) || x < 0 || y < 0 || x+w > t.Desc.Width || y+h > t.Desc.Height {
		return fmt.Errorf("drivertest: upload out of bounds")
	}
	if len(pixels) < w*h*bpp {
		return fmt.Errorf("drivertest: short pixel data")
	}
	dst := t.Data[z]
	for row := 0; row < h; row++ {
		copy(dst[((y+row)*t.Desc.Width+x)*bpp:], pixels[row*w*bpp:(row+1)*w*bpp])
	}
	return nil
}

// ReadPixels copies slice 0.
func (t *Texture) ReadPixels(dst []byte) error {
	t.dev.record("ReadPixels(%d)", t.ID)
	copy(dst, t.Data[0])
	return nil
}

// Shader is a recorded shader program.
type Shader struct {
	object
	Desc driver.ShaderDesc
}

// ConstantSlot resolves names through Device.Slots.
func (s *Shader) ConstantSlot(name string, stage driver.ShaderStage) (int, bool) {
	slot, ok := s.dev.Slots[name]
	return slot, ok
}

// Sampler is a recorded sampler.
type Sampler struct {
	object
	Desc driver.SamplerDesc
}

// State is a recorded render state. Exactly one of the descriptors is set.
type State struct {
	object
	Raster *driver.RasterizerDesc
	Depth  *driver.DepthStencilDesc
	Blend  *driver.BlendDesc
}

// RenderTarget is a recorded render target.
type RenderTarget struct {
	object
	Color *Texture
	Depth driver.DepthStencilFormat
}

// Info reports a fixed GPU name.
func (d *Device) Info() driver.Info {
	return driver.Info{API: d.api, GPUName: "drivertest", APIInfo: "recording 1.0"}
}

func (d *Device) NewShader(desc driver.ShaderDesc) (driver.Shader, error) {
	d.record("NewShader")
	if err := d.fail("NewShader"); err != nil {
		return nil, &driver.CompileError{Stage: driver.StageVertex, Name: desc.Vertex.Name, Log: err.Error()}
	}
	return &Shader{object: d.newObject(), Desc: desc}, nil
}

func (d *Device) NewBuffer(desc driver.BufferDesc, data []byte) (driver.Buffer, error) {
	d.record("NewBuffer(kind %d, %d bytes)", desc.Kind, desc.Size)
	if err := d.fail("NewBuffer"); err != nil {
		return nil, err
	}
	b := &Buffer{object: d.newObject(), Desc: desc, Data: make([]byte, desc.Size)}
	copy(b.Data, data)
	return b, nil
}

func (d *Device) NewTexture(desc driver.TextureDesc, data [][]byte) (driver.Texture, error) {
	d.record("NewTexture(%dx%dx%d)", desc.Width, desc.Height, desc.Depth)
	if err := d.fail("NewTexture"); err != nil {
		return nil, err
	}
	layers := desc.Depth
	if desc.Kind == driver.TextureCube {
		layers = driver.CubeFaces
	}
	if layers < 1 {
		layers = 1
	}
	t := &Texture{object: d.newObject(), Desc: desc, Data: make([][]byte, layers)}
	size := desc.Width * desc.Height * desc.Format.BytesPerPixel()
	for i := range t.Data {
		t.Data[i] = make([]byte, size)
		if i < len(data) {
			copy(t.Data[i], data[i])
		}
	}
	return t, nil
}

func (d *Device) NewSampler(desc driver.SamplerDesc) (driver.Sampler, error) {
	d.record("NewSampler")
	if err := d.fail("NewSampler"); err != nil {
		return nil, err
	}
	return &Sampler{object: d.newObject(), Desc: desc}, nil
}

func (d *Device) NewRasterizerState(desc driver.RasterizerDesc) (driver.State, error) {
	d.record("NewRasterizerState")
	if err := d.fail("NewRasterizerState"); err != nil {
		return nil, err
	}
	return &State{object: d.newObject(), Raster: &desc}, nil
}

func (d *Device) NewDepthStencilState(desc driver.DepthStencilDesc) (driver.State, error) {
	d.record("NewDepthStencilState")
	if err := d.fail("NewDepthStencilState"); err != nil {
		return nil, err
	}
	return &State{object: d.newObject(), Depth: &desc}, nil
}

func (d *Device) NewBlendState(desc driver.BlendDesc) (driver.State, error) {
	d.record("NewBlendState")
	if err := d.fail("NewBlendState"); err != nil {
		return nil, err
	}
	return &State{object: d.newObject(), Blend: &desc}, nil
}

func (d *Device) NewRenderTarget(color driver.Texture, depth driver.DepthStencilFormat) (driver.RenderTarget, error) {
	d.record("NewRenderTarget")
	if err := d.fail("NewRenderTarget"); err != nil {
		return nil, err
	}
	return &RenderTarget{object: d.newObject(), Color: color.(*Texture), Depth: depth}, nil
}

func (d *Device) BindShader(s driver.Shader) {
	if s == nil {
		d.shader = nil
		d.record("BindShader(nil)")
		return
	}
	d.shader = s.(*Shader)
	d.record("BindShader(%d)", d.shader.ID)
}

func (d *Device) BindConstantBuffer(stage driver.ShaderStage, slot int, b driver.Buffer) {
	d.record("BindConstantBuffer(%s, %d, %d)", stage, slot, b.(*Buffer).ID)
}

func (d *Device) BindVertexBuffer(b driver.Buffer, layout driver.VertexLayout) {
	if b == nil {
		d.vertex = nil
		d.record("BindVertexBuffer(nil)")
		return
	}
	d.vertex = b.(*Buffer)
	d.record("BindVertexBuffer(%d, stride %d)", d.vertex.ID, layout.Stride())
}

func (d *Device) BindIndexBuffer(b driver.Buffer) {
	if b == nil {
		d.index = nil
		d.record("BindIndexBuffer(nil)")
		return
	}
	d.index = b.(*Buffer)
	d.record("BindIndexBuffer(%d)", d.index.ID)
}

func (d *Device) BindTexture(slot int, t driver.Texture, stages driver.ShaderStage) {
	if d.textures == nil {
		d.textures = make(map[int]*Texture)
	}
	if t == nil {
		delete(d.textures, slot)
		d.record("BindTexture(%d, nil, %s)", slot, stages)
		return
	}
	tex := t.(*Texture)
	d.textures[slot] = tex
	d.record("BindTexture(%d, %d, %s)", slot, tex.ID, stages)
}

func (d *Device) BindSampler(slot int, s driver.Sampler, stages driver.ShaderStage) {
	if s == nil {
		d.record("BindSampler(%d, nil, %s)", slot, stages)
		return
	}
	d.record("BindSampler(%d, %d, %s)", slot, s.(*Sampler).ID, stages)
}

func stateID(s driver.State) int {
	if s == nil {
		return 0
	}
	return s.(*State).ID
}

func (d *Device) SetRasterizerState(s driver.State) {
	d.record("SetRasterizerState(%d)", stateID(s))
}

func (d *Device) SetDepthStencilState(s driver.State) {
	d.record("SetDepthStencilState(%d)", stateID(s))
}

func (d *Device) SetBlendState(s driver.State) {
	d.record("SetBlendState(%d)", stateID(s))
}

func (d *Device) SetViewport(vp driver.Viewport) {
	d.record("SetViewport(%d,%d %dx%d)", vp.X, vp.Y, vp.Width, vp.Height)
}

func (d *Device) SetRenderTargets(targets []driver.RenderTarget) {
	d.record("SetRenderTargets(%d)", len(targets))
}

func (d *Device) Clear(flags driver.ClearFlags, color [4]float32, depth float32, stencil int) {
	d.record("Clear(%d)", flags)
}

func (d *Device) draw(topology gputypes.PrimitiveTopology, count, start int, indexed bool) {
	dr := Draw{Topology: topology, Count: count, Start: start, Indexed: indexed, Texture: d.textures[0]}
	if d.vertex != nil {
		dr.Vertices = append([]byte(nil), d.vertex.Data...)
	}
	if indexed && d.index != nil {
		dr.Indices = append([]byte(nil), d.index.Data...)
	}
	d.Draws = append(d.Draws, dr)
}

func (d *Device) DrawArrays(topology gputypes.PrimitiveTopology, count, start int) {
	d.record("DrawArrays(%d, %d)", count, start)
	d.draw(topology, count, start, false)
}

func (d *Device) DrawIndexed(topology gputypes.PrimitiveTopology, count int) {
	d.record("DrawIndexed(%d)", count)
	d.draw(topology, count, 0, true)
}

func (d *Device) Present() error {
	d.record("Present")
	return d.fail("Present")
}

func (d *Device) Resize(width, height int) error {
	d.record("Resize(%dx%d)", width, height)
	if err := d.fail("Resize"); err != nil {
		return err
	}
	d.Target.Width, d.Target.Height = width, height
	return nil
}

func (d *Device) Release() {
	d.record("Release")
	d.Released = true
}

// Count returns how many recorded calls start with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Reset clears the call and draw logs.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
	d.Draws = d.Draws[:0]
}
