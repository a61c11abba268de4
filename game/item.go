// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/gputypes"
)

// spriteVertex is the vertex format of the sprite shader.
type spriteVertex struct {
	Position [3]float32
	TexCoord [2]float32
	Color    [4]float32
}

// vertexStride is the byte size of spriteVertex.
const vertexStride = (3 + 2 + 4) * 4

// spriteElements declares spriteVertex to the shader.
var spriteElements = []gfx.VertexElement{
	{Format: gputypes.VertexFormatFloat32x3, Usage: gfx.UsagePosition},
	{Format: gputypes.VertexFormatFloat32x2, Usage: gfx.UsageTexcoord},
	{Format: gputypes.VertexFormatFloat32x4, Usage: gfx.UsageColor},
}

// put encodes v at the start of dst.
func (v *spriteVertex) put(dst []byte) {
	off := 0
	put := func(f float32) {
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(f))
		off += 4
	}
	for _, f := range v.Position {
		put(f)
	}
	for _, f := range v.TexCoord {
		put(f)
	}
	for _, f := range v.Color {
		put(f)
	}
}

// spriteItem is one queued quad. Corners are top-left, top-right,
// bottom-left and bottom-right.
type spriteItem struct {
	tex   *gfx.Texture2D
	depth float32
	v     [4]spriteVertex
}

// set fills the corners of a w x h rectangle offset by (dx, dy) from the
// pivot (x, y) and rotated about it by rotation radians.
func (it *spriteItem) set(x, y, dx, dy, w, h, sin, cos, depth float32, uv Rect, c Color) {
	it.depth = depth
	col := [4]float32{c.R, c.G, c.B, c.A}
	corner := func(i int, ox, oy, u, v float32) {
		it.v[i] = spriteVertex{
			Position: [3]float32{x + ox*cos - oy*sin, y + ox*sin + oy*cos, depth},
			TexCoord: [2]float32{u, v},
			Color:    col,
		}
	}
	corner(0, dx, dy+h, uv.X, uv.Y+uv.H)
	corner(1, dx+w, dy+h, uv.X+uv.W, uv.Y+uv.H)
	corner(2, dx, dy, uv.X, uv.Y)
	corner(3, dx+w, dy, uv.X+uv.W, uv.Y)
}

// itemPool recycles spriteItems across batches.
type itemPool struct {
	free      []*spriteItem
	allocated int
}

func (p *itemPool) get() *spriteItem {
	if n := len(p.free); n > 0 {
		it := p.free[n-1]
		p.free = p.free[:n-1]
		return it
	}
	p.allocated++
	return &spriteItem{}
}

func (p *itemPool) put(items []*spriteItem) {
	for i, it := range items {
		it.tex = nil
		p.free = append(p.free, it)
		items[i] = nil
	}
}
