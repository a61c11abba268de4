// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/ciri/gfx/driver"
)

// VertexBuffer holds vertex data. It has no storage until Set is called.
type VertexBuffer struct {
	resource
	native   driver.Buffer
	stride   int
	count    int
	capacity int
	dynamic  bool
}

// CreateVertexBuffer returns an empty vertex buffer.
func (d *Device) CreateVertexBuffer() (*VertexBuffer, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	vb := &VertexBuffer{}
	d.track(vb, kindBuffer)
	return vb, nil
}

func checkOwned(r *resource) error {
	if r.dev == nil || r.destroyed {
		return ErrDestroyed
	}
	return r.dev.ready()
}

// Set replaces the storage with count vertices of stride bytes. data may
// be nil only for a dynamic buffer.
func (vb *VertexBuffer) Set(data []byte, stride, count int, dynamic bool) error {
	if vb == nil {
		return ErrDestroyed
	}
	if err := checkOwned(&vb.resource); err != nil {
		return err
	}
	d := vb.dev
	size := stride * count
	switch {
	case stride <= 0 || count <= 0:
		return d.fail(fmt.Errorf("%w: vertex buffer stride %d count %d", ErrInvalidArgument, stride, count))
	case data == nil && !dynamic:
		return d.fail(fmt.Errorf("%w: static vertex buffer without data", ErrInvalidArgument))
	case data != nil && len(data) < size:
		return d.fail(fmt.Errorf("%w: %d bytes for %d vertices of %d bytes", ErrInvalidArgument, len(data), count, stride))
	}
	if data != nil {
		data = data[:size]
	}
	native, err := d.native.NewBuffer(driver.BufferDesc{Kind: driver.VertexBuffer, Size: size, Dynamic: dynamic}, data)
	if err != nil {
		return d.fail(fmt.Errorf("%w: vertex buffer: %w", ErrBackend, err))
	}
	vb.replace(native)
	vb.stride, vb.count, vb.capacity, vb.dynamic = stride, count, count, dynamic
	return nil
}

// Update replaces the first count vertices of a dynamic buffer, growing
// it if needed. Static buffers return ErrNotImplemented.
func (vb *VertexBuffer) Update(data []byte, count int) error {
	if vb == nil {
		return ErrDestroyed
	}
	if err := checkOwned(&vb.resource); err != nil {
		return err
	}
	d := vb.dev
	switch {
	case vb.native == nil:
		return d.fail(fmt.Errorf("%w: vertex buffer has no storage", ErrInvalidArgument))
	case !vb.dynamic:
		return d.fail(fmt.Errorf("%w: update of a static vertex buffer", ErrNotImplemented))
	case count <= 0 || len(data) < count*vb.stride:
		return d.fail(fmt.Errorf("%w: %d bytes for %d vertices of %d bytes", ErrInvalidArgument, len(data), count, vb.stride))
	}
	data = data[:count*vb.stride]
	if count > vb.capacity {
		native, err := d.native.NewBuffer(driver.BufferDesc{Kind: driver.VertexBuffer, Size: len(data), Dynamic: true}, data)
		if err != nil {
			return d.fail(fmt.Errorf("%w: grow vertex buffer: %w", ErrBackend, err))
		}
		vb.replace(native)
		vb.count, vb.capacity = count, count
		return nil
	}
	if err := vb.native.Upload(data); err != nil {
		return d.fail(fmt.Errorf("%w: vertex upload: %w", ErrBackend, err))
	}
	vb.count = count
	return nil
}

// replace swaps in new storage and rebinds it if the buffer is active.
func (vb *VertexBuffer) replace(native driver.Buffer) {
	vb.release()
	vb.native = native
	d := vb.dev
	if d.bound.vertex != vb.handle {
		return
	}
	// Without a shader there is no layout to rebind with.
	if sh := d.activeShader(); sh != nil {
		d.native.BindVertexBuffer(native, sh.VertexLayout())
	} else {
		d.unbindVertexBuffer()
	}
}

// Stride returns the vertex size in bytes.
func (vb *VertexBuffer) Stride() int { return vb.stride }

// Count returns the number of vertices last written.
func (vb *VertexBuffer) Count() int { return vb.count }

// Capacity returns the number of vertices the storage can hold.
func (vb *VertexBuffer) Capacity() int { return vb.capacity }

// IsDynamic reports whether the buffer accepts Update.
func (vb *VertexBuffer) IsDynamic() bool { return vb.dynamic }

// Destroy releases the buffer. It is safe to call more than once.
func (vb *VertexBuffer) Destroy() {
	if vb == nil || vb.dev == nil {
		return
	}
	vb.dev.destroy(vb)
}

func (vb *VertexBuffer) release() {
	if vb.native != nil {
		vb.native.Release()
		vb.native = nil
	}
}

// IndexBuffer holds 32-bit indices.
type IndexBuffer struct {
	resource
	native   driver.Buffer
	count    int
	capacity int
	dynamic  bool
}

// CreateIndexBuffer returns an empty index buffer.
func (d *Device) CreateIndexBuffer() (*IndexBuffer, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	ib := &IndexBuffer{}
	d.track(ib, kindBuffer)
	return ib, nil
}

func indexBytes(indices []uint32) []byte {
	out := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		out = binary.LittleEndian.AppendUint32(out, i)
	}
	return out
}

// Set replaces the storage with indices.
func (ib *IndexBuffer) Set(indices []uint32, dynamic bool) error {
	if ib == nil {
		return ErrDestroyed
	}
	if err := checkOwned(&ib.resource); err != nil {
		return err
	}
	d := ib.dev
	if len(indices) == 0 {
		return d.fail(fmt.Errorf("%w: empty index buffer", ErrInvalidArgument))
	}
	data := indexBytes(indices)
	native, err := d.native.NewBuffer(driver.BufferDesc{Kind: driver.IndexBuffer, Size: len(data), Dynamic: dynamic}, data)
	if err != nil {
		return d.fail(fmt.Errorf("%w: index buffer: %w", ErrBackend, err))
	}
	ib.replace(native)
	ib.count, ib.capacity, ib.dynamic = len(indices), len(indices), dynamic
	return nil
}

// Update replaces the contents of a dynamic buffer, growing it if needed.
// Static buffers return ErrNotImplemented.
func (ib *IndexBuffer) Update(indices []uint32) error {
	if ib == nil {
		return ErrDestroyed
	}
	if err := checkOwned(&ib.resource); err != nil {
		return err
	}
	d := ib.dev
	switch {
	case ib.native == nil:
		return d.fail(fmt.Errorf("%w: index buffer has no storage", ErrInvalidArgument))
	case !ib.dynamic:
		return d.fail(fmt.Errorf("%w: update of a static index buffer", ErrNotImplemented))
	case len(indices) == 0:
		return d.fail(fmt.Errorf("%w: empty index update", ErrInvalidArgument))
	}
	data := indexBytes(indices)
	if len(indices) > ib.capacity {
		native, err := d.native.NewBuffer(driver.BufferDesc{Kind: driver.IndexBuffer, Size: len(data), Dynamic: true}, data)
		if err != nil {
			return d.fail(fmt.Errorf("%w: grow index buffer: %w", ErrBackend, err))
		}
		ib.replace(native)
		ib.count, ib.capacity = len(indices), len(indices)
		return nil
	}
	if err := ib.native.Upload(data); err != nil {
		return d.fail(fmt.Errorf("%w: index upload: %w", ErrBackend, err))
	}
	ib.count = len(indices)
	return nil
}

func (ib *IndexBuffer) replace(native driver.Buffer) {
	ib.release()
	ib.native = native
	if ib.dev.bound.index == ib.handle {
		ib.dev.native.BindIndexBuffer(native)
	}
}

// Count returns the number of indices last written.
func (ib *IndexBuffer) Count() int { return ib.count }

// IsDynamic reports whether the buffer accepts Update.
func (ib *IndexBuffer) IsDynamic() bool { return ib.dynamic }

// Destroy releases the buffer. It is safe to call more than once.
func (ib *IndexBuffer) Destroy() {
	if ib == nil || ib.dev == nil {
		return
	}
	ib.dev.destroy(ib)
}

func (ib *IndexBuffer) release() {
	if ib.native != nil {
		ib.native.Release()
		ib.native = nil
	}
}

// ConstantBuffer holds shader constants. Its size is rounded up to a
// multiple of 16 bytes.
type ConstantBuffer struct {
	resource
	native driver.Buffer
	size   int
}

// CreateConstantBuffer returns an empty constant buffer.
func (d *Device) CreateConstantBuffer() (*ConstantBuffer, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	cb := &ConstantBuffer{}
	d.track(cb, kindBuffer)
	return cb, nil
}

func align16(n int) int { return (n + 15) &^ 15 }

// SetData uploads data, reallocating when it no longer fits.
func (cb *ConstantBuffer) SetData(data []byte) error {
	if cb == nil {
		return ErrDestroyed
	}
	if err := checkOwned(&cb.resource); err != nil {
		return err
	}
	d := cb.dev
	if len(data) == 0 {
		return d.fail(fmt.Errorf("%w: empty constant data", ErrInvalidArgument))
	}
	if cb.native != nil && len(data) <= cb.size {
		if err := cb.native.Upload(data); err != nil {
			return d.fail(fmt.Errorf("%w: constant upload: %w", ErrBackend, err))
		}
		return nil
	}
	size := align16(len(data))
	padded := make([]byte, size)
	copy(padded, data)
	native, err := d.native.NewBuffer(driver.BufferDesc{Kind: driver.ConstantBuffer, Size: size, Dynamic: true}, padded)
	if err != nil {
		return d.fail(fmt.Errorf("%w: constant buffer: %w", ErrBackend, err))
	}
	cb.release()
	cb.native = native
	cb.size = size
	if sh := d.activeShader(); sh != nil && sh.uses(cb) {
		sh.bindConstants()
	}
	return nil
}

// Size returns the allocated size in bytes.
func (cb *ConstantBuffer) Size() int { return cb.size }

// Destroy releases the buffer. It is safe to call more than once.
func (cb *ConstantBuffer) Destroy() {
	if cb == nil || cb.dev == nil {
		return
	}
	cb.dev.destroy(cb)
}

func (cb *ConstantBuffer) release() {
	if cb.native != nil {
		cb.native.Release()
		cb.native = nil
	}
}
