// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/internal/arena"
	"github.com/gogpu/gputypes"
)

// activeShader returns the bound shader, or nil.
func (d *Device) activeShader() *Shader {
	s := lookup[*Shader](d, d.bound.shader)
	if s == nil || s.native == nil {
		return nil
	}
	return s
}

// ActiveShader returns the shader applied with ApplyShader, or nil.
func (d *Device) ActiveShader() *Shader { return d.activeShader() }

// VertexBuffer returns the bound vertex buffer, or nil.
func (d *Device) VertexBuffer() *VertexBuffer {
	vb := lookup[*VertexBuffer](d, d.bound.vertex)
	if vb == nil || vb.native == nil {
		return nil
	}
	return vb
}

// IndexBuffer returns the bound index buffer, or nil.
func (d *Device) IndexBuffer() *IndexBuffer {
	ib := lookup[*IndexBuffer](d, d.bound.index)
	if ib == nil || ib.native == nil {
		return nil
	}
	return ib
}

// ApplyShader binds s and every constant buffer associated with it. A
// nil, destroyed or unbuilt shader clears the active shader. Applying the
// active shader again is a no-op.
func (d *Device) ApplyShader(s *Shader) {
	if d.ready() != nil {
		return
	}
	if s == nil || !s.live(d) || s.native == nil {
		if !d.bound.shader.IsZero() {
			d.native.BindShader(nil)
			d.bound.shader = arena.Handle{}
		}
		if s != nil {
			d.fail(fmt.Errorf("%w: apply shader", ErrShaderNotBuilt))
		}
		return
	}
	if d.bound.shader == s.handle {
		return
	}
	d.native.BindShader(s.native)
	d.bound.shader = s.handle
	s.bindConstants()

	// The vertex layout belongs to the shader.
	if vb := lookup[*VertexBuffer](d, d.bound.vertex); vb != nil && vb.native != nil {
		if vb.stride != s.VertexLayout().Stride() {
			d.unbindVertexBuffer()
			return
		}
		d.native.BindVertexBuffer(vb.native, s.VertexLayout())
	}
}

func (d *Device) unbindVertexBuffer() {
	if !d.bound.vertex.IsZero() {
		d.native.BindVertexBuffer(nil, VertexLayout{})
		d.bound.vertex = arena.Handle{}
	}
}

// SetVertexBuffer binds vb using the input layout of the active shader.
// It does nothing when no shader is active. A nil vb unbinds.
func (d *Device) SetVertexBuffer(vb *VertexBuffer) {
	if d.ready() != nil {
		return
	}
	sh := d.activeShader()
	if sh == nil {
		ciri.Logger().Debug("gfx: vertex buffer ignored without an active shader")
		return
	}
	if vb == nil {
		d.unbindVertexBuffer()
		return
	}
	if !vb.live(d) || vb.native == nil {
		d.fail(fmt.Errorf("%w: vertex buffer not usable", ErrInvalidArgument))
		return
	}
	layout := sh.VertexLayout()
	if stride := layout.Stride(); stride != vb.stride {
		d.unbindVertexBuffer()
		d.fail(fmt.Errorf("%w: vertex stride %d, shader expects %d", ErrInvalidArgument, vb.stride, stride))
		return
	}
	d.native.BindVertexBuffer(vb.native, layout)
	d.bound.vertex = vb.handle
}

// SetIndexBuffer binds ib. A nil ib unbinds.
func (d *Device) SetIndexBuffer(ib *IndexBuffer) {
	if d.ready() != nil {
		return
	}
	if ib == nil {
		if !d.bound.index.IsZero() {
			d.native.BindIndexBuffer(nil)
			d.bound.index = arena.Handle{}
		}
		return
	}
	if !ib.live(d) || ib.native == nil {
		d.fail(fmt.Errorf("%w: index buffer not usable", ErrInvalidArgument))
		return
	}
	d.native.BindIndexBuffer(ib.native)
	d.bound.index = ib.handle
}

// bindTexture binds t to slot index. A nil t unbinds the slot.
func (d *Device) bindTexture(index int, t *texture, stages ShaderStage) {
	if d.ready() != nil {
		return
	}
	if index < 0 || index >= MaxTextureSlots {
		d.fail(fmt.Errorf("%w: texture slot %d", ErrInvalidArgument, index))
		return
	}
	stages &= StageAll
	if stages == 0 {
		d.fail(fmt.Errorf("%w: texture slot %d bound to no stage", ErrInvalidArgument, index))
		return
	}
	if t == nil {
		if prev, ok := d.bound.textures[index]; ok {
			d.native.BindTexture(index, nil, prev.stages|stages)
			delete(d.bound.textures, index)
		}
		return
	}
	if !t.live(d) {
		d.fail(fmt.Errorf("%w: texture not usable", ErrInvalidArgument))
		return
	}
	d.native.BindTexture(index, t.native, stages)
	d.bound.textures[index] = slotBinding{h: t.handle, stages: stages}
}

// SetTexture2D binds t to slot index at the given stages. A nil t unbinds
// the slot.
func (d *Device) SetTexture2D(index int, t *Texture2D, stages ShaderStage) {
	if t == nil {
		d.bindTexture(index, nil, stages)
		return
	}
	for _, h := range d.bound.targets {
		if t.owner != nil && t.owner.handle == h {
			d.fail(fmt.Errorf("%w: texture is an active render target", ErrInvalidArgument))
			return
		}
	}
	d.bindTexture(index, &t.texture, stages)
}

// SetTexture3D binds t to slot index at the given stages. A nil t unbinds
// the slot.
func (d *Device) SetTexture3D(index int, t *Texture3D, stages ShaderStage) {
	if t == nil {
		d.bindTexture(index, nil, stages)
		return
	}
	d.bindTexture(index, &t.texture, stages)
}

// SetTextureCube binds t to slot index at the given stages. A nil t
// unbinds the slot.
func (d *Device) SetTextureCube(index int, t *TextureCube, stages ShaderStage) {
	if t == nil {
		d.bindTexture(index, nil, stages)
		return
	}
	d.bindTexture(index, &t.texture, stages)
}

// SetSamplerState binds s to slot index at the given stages. A nil s
// unbinds the slot.
func (d *Device) SetSamplerState(index int, s *SamplerState, stages ShaderStage) {
	if d.ready() != nil {
		return
	}
	if index < 0 || index >= MaxSamplerSlots {
		d.fail(fmt.Errorf("%w: sampler slot %d", ErrInvalidArgument, index))
		return
	}
	stages &= StageAll
	if stages == 0 {
		d.fail(fmt.Errorf("%w: sampler slot %d bound to no stage", ErrInvalidArgument, index))
		return
	}
	if s == nil {
		if prev, ok := d.bound.samplers[index]; ok {
			d.native.BindSampler(index, nil, prev.stages|stages)
			delete(d.bound.samplers, index)
		}
		return
	}
	if !s.live(d) {
		d.fail(fmt.Errorf("%w: sampler not usable", ErrInvalidArgument))
		return
	}
	d.native.BindSampler(index, s.native, stages)
	d.bound.samplers[index] = slotBinding{h: s.handle, stages: stages}
}

// reject drops a draw call.
func (d *Device) reject(op, reason string) {
	ciri.Logger().Debug("gfx: draw rejected", "op", op, "reason", reason)
	d.lastErr = fmt.Errorf("%w: %s: %s", ErrDrawRejected, op, reason)
}

// DrawArrays draws vertexCount vertices starting at startIndex.
//
// The call is dropped unless a shader and a vertex buffer are active,
// vertexCount is positive, 0 <= startIndex < vertexCount and the range
// fits the buffer. Dropped calls are reported through LastError.
func (d *Device) DrawArrays(topology gputypes.PrimitiveTopology, vertexCount, startIndex int) {
	const op = "DrawArrays"
	if d.ready() != nil {
		return
	}
	vb := lookup[*VertexBuffer](d, d.bound.vertex)
	switch {
	case d.activeShader() == nil:
		d.reject(op, "no active shader")
	case vb == nil || vb.native == nil:
		d.reject(op, "no vertex buffer")
	case vertexCount <= 0:
		d.reject(op, fmt.Sprintf("vertex count %d", vertexCount))
	case startIndex < 0 || startIndex >= vertexCount:
		d.reject(op, fmt.Sprintf("start index %d outside [0, %d)", startIndex, vertexCount))
	case startIndex+vertexCount > vb.capacity:
		d.reject(op, fmt.Sprintf("range %d+%d exceeds %d vertices", startIndex, vertexCount, vb.capacity))
	default:
		d.native.DrawArrays(topology, vertexCount, startIndex)
	}
}

// DrawIndexed draws indexCount indices from the active index buffer.
//
// The call is dropped unless a shader, a vertex buffer and an index buffer
// are active and 0 < indexCount <= the index buffer size.
func (d *Device) DrawIndexed(topology gputypes.PrimitiveTopology, indexCount int) {
	const op = "DrawIndexed"
	if d.ready() != nil {
		return
	}
	vb := lookup[*VertexBuffer](d, d.bound.vertex)
	ib := lookup[*IndexBuffer](d, d.bound.index)
	switch {
	case d.activeShader() == nil:
		d.reject(op, "no active shader")
	case vb == nil || vb.native == nil:
		d.reject(op, "no vertex buffer")
	case ib == nil || ib.native == nil:
		d.reject(op, "no index buffer")
	case indexCount <= 0:
		d.reject(op, fmt.Sprintf("index count %d", indexCount))
	case indexCount > ib.capacity:
		d.reject(op, fmt.Sprintf("index count %d exceeds %d", indexCount, ib.capacity))
	default:
		d.native.DrawIndexed(topology, indexCount)
	}
}
