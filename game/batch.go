// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import (
	"embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/gputypes"
	"golang.org/x/text/unicode/norm"
)

//go:embed shaders
var shaderFS embed.FS

// constantsName is the constant block of the sprite shaders. Custom
// shaders that declare it receive the projection automatically.
const constantsName = "SpriteConstants"

// initialSprites sizes the buffers created by NewSpriteBatch.
const initialSprites = 256

// BatchState is the render state of one Begin/End pair. Nil fields select
// the device defaults, and a nil Shader selects the built-in sprite shader.
type BatchState struct {
	Blend        *gfx.BlendState
	Sampler      *gfx.SamplerState
	DepthStencil *gfx.DepthStencilState
	Rasterizer   *gfx.RasterizerState
	Shader       *gfx.Shader
	Sort         SortMode
	// Transform is applied to sprite positions before the projection.
	Transform *Mat4
}

// Stats describes the last End.
type Stats struct {
	Sprites   int
	DrawCalls int
}

// SpriteBatch draws textured quads with as few draw calls as the sort
// mode allows. It is not safe for concurrent use.
type SpriteBatch struct {
	dev *gfx.Device

	shader    *gfx.Shader
	constants *gfx.ConstantBuffer
	vertices  *gfx.VertexBuffer
	indices   *gfx.IndexBuffer
	sampler   *gfx.SamplerState

	state BatchState
	open  bool
	clean bool

	items   []*spriteItem
	pool    itemPool
	scratch []byte // vertex bytes, 4 per item
	quads   int    // quads covered by the index buffer
	// attached lists custom shaders already given the constants.
	attached map[*gfx.Shader]struct{}
	stats    Stats
}

// NewSpriteBatch creates the shader, sampler and buffers a batch draws
// with. The shader is chosen by dev.ShaderExt.
func NewSpriteBatch(dev *gfx.Device) (*SpriteBatch, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", gfx.ErrInvalidArgument)
	}
	b := &SpriteBatch{dev: dev}
	if err := b.init(); err != nil {
		b.Clean()
		return nil, err
	}
	return b, nil
}

func (b *SpriteBatch) init() error {
	var err error
	b.shader, err = b.dev.LoadShader(shaderFS, "shaders/sprite", spriteElements...)
	if err != nil {
		return fmt.Errorf("game: sprite shader: %w", err)
	}
	if b.constants, err = b.dev.CreateConstantBuffer(); err != nil {
		return err
	}
	if err = b.setProjection(Identity()); err != nil {
		return err
	}
	if err = b.shader.AddConstants(b.constants, constantsName, gfx.StageVertex); err != nil {
		return err
	}

	desc := gfx.DefaultSamplerDesc()
	desc.WrapU, desc.WrapV, desc.WrapW = gfx.WrapClamp, gfx.WrapClamp, gfx.WrapClamp
	if b.sampler, err = b.dev.CreateSamplerState(desc); err != nil {
		return err
	}

	if b.vertices, err = b.dev.CreateVertexBuffer(); err != nil {
		return err
	}
	if err = b.vertices.Set(nil, vertexStride, 4*initialSprites, true); err != nil {
		return err
	}
	b.scratch = make([]byte, 4*initialSprites*vertexStride)
	if b.indices, err = b.dev.CreateIndexBuffer(); err != nil {
		return err
	}
	return b.ensureQuads(initialSprites)
}

// quadIndices returns the indices of n quads with corners ordered TL, TR,
// BL, BR.
func quadIndices(n int) []uint32 {
	idx := make([]uint32, 0, 6*n)
	for q := uint32(0); q < uint32(n); q++ {
		v := 4 * q
		idx = append(idx, v, v+1, v+2, v+2, v+1, v+3)
	}
	return idx
}

func (b *SpriteBatch) ensureQuads(n int) error {
	if n <= b.quads {
		return nil
	}
	if err := b.indices.Set(quadIndices(n), false); err != nil {
		return err
	}
	b.quads = n
	return nil
}

// ensureCapacity grows the scratch array and the vertex buffer to hold n
// sprites, doubling when possible.
func (b *SpriteBatch) ensureCapacity(n int) error {
	need := 4 * n * vertexStride
	if need <= len(b.scratch) {
		return nil
	}
	size := max(2*len(b.scratch), need)
	b.scratch = make([]byte, size)
	ciri.Logger().Debug("game: sprite buffer grown", "sprites", size/(4*vertexStride))
	if err := b.vertices.Set(nil, vertexStride, size/vertexStride, true); err != nil {
		return err
	}
	return b.ensureQuads(size / (4 * vertexStride))
}

func (b *SpriteBatch) setProjection(m Mat4) error {
	var buf [64]byte
	for i, f := range m {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return b.constants.SetData(buf[:])
}

// Begin opens the batch with state.
func (b *SpriteBatch) Begin(state BatchState) error {
	switch {
	case b.clean:
		return ErrCleaned
	case b.open:
		return ErrBatchOpen
	}
	b.state = state
	b.open = true
	return nil
}

// IsOpen reports whether the batch is between Begin and End.
func (b *SpriteBatch) IsOpen() bool { return b.open }

func (b *SpriteBatch) push(tex *gfx.Texture2D) (*spriteItem, error) {
	if !b.open {
		return nil, ErrBatchClosed
	}
	if tex == nil {
		return nil, ErrNilTexture
	}
	it := b.pool.get()
	it.tex = tex
	b.items = append(b.items, it)
	return it, nil
}

var fullUV = Rect{W: 1, H: 1}

// Draw queues tex stretched over dst, rotated by rotation radians about
// the point dst.X, dst.Y. origin is the pivot within dst, measured from
// its bottom-left corner.
func (b *SpriteBatch) Draw(tex *gfx.Texture2D, dst Rect, rotation float32, origin Vec2, depth float32) error {
	it, err := b.push(tex)
	if err != nil {
		return err
	}
	sin, cos := sincos(rotation)
	it.set(dst.X, dst.Y, -origin.X, -origin.Y, dst.W, dst.H, sin, cos, depth, fullUV, White)
	return nil
}

// DrawAt queues tex at position, scaled by scale. origin is the pivot in
// texels from the bottom-left corner of the texture.
func (b *SpriteBatch) DrawAt(tex *gfx.Texture2D, position Vec2, rotation float32, origin, scale Vec2, depth float32) error {
	return b.DrawColored(tex, position, rotation, origin, scale, depth, White)
}

// DrawColored is DrawAt with a tint.
func (b *SpriteBatch) DrawColored(tex *gfx.Texture2D, position Vec2, rotation float32, origin, scale Vec2, depth float32, color Color) error {
	it, err := b.push(tex)
	if err != nil {
		return err
	}
	w := float32(tex.Width()) * scale.X
	h := float32(tex.Height()) * scale.Y
	sin, cos := sincos(rotation)
	it.set(position.X, position.Y, -origin.X*scale.X, -origin.Y*scale.Y, w, h, sin, cos, depth, fullUV, color)
	return nil
}

// DrawRegion queues the src rectangle of tex, in texels, stretched over
// dst.
func (b *SpriteBatch) DrawRegion(tex *gfx.Texture2D, src, dst Rect, rotation float32, origin Vec2, depth float32, color Color) error {
	it, err := b.push(tex)
	if err != nil {
		return err
	}
	sin, cos := sincos(rotation)
	it.set(dst.X, dst.Y, -origin.X, -origin.Y, dst.W, dst.H, sin, cos, depth, texelUV(tex, src), color)
	return nil
}

func texelUV(tex *gfx.Texture2D, src Rect) Rect {
	tw, th := float32(tex.Width()), float32(tex.Height())
	return Rect{X: src.X / tw, Y: src.Y / th, W: src.W / tw, H: src.H / th}
}

// DrawString queues one quad per visible glyph of text. position is the
// pen origin on the baseline of the first line; the string rotates about
// it. Lines advance downward by the font line spacing. If any glyph
// fails, nothing from text is queued.
func (b *SpriteBatch) DrawString(font SpriteFont, text string, position Vec2, color Color, scale, rotation, depth float32) error {
	if !b.open {
		return ErrBatchClosed
	}
	if font == nil {
		return fmt.Errorf("%w: nil font", gfx.ErrInvalidArgument)
	}
	queued := len(b.items)
	err := b.drawString(font, text, position, color, scale, rotation, depth)
	if err != nil {
		b.pool.put(b.items[queued:])
		b.items = b.items[:queued]
	}
	return err
}

func (b *SpriteBatch) drawString(font SpriteFont, text string, position Vec2, color Color, scale, rotation, depth float32) error {
	sin, cos := sincos(rotation)
	lineSpacing := float32(font.LineSpacing())
	var (
		penX, baseY float32
		prev        rune
		hasPrev     bool
	)
	for _, r := range norm.NFC.String(text) {
		if r == '\n' {
			penX = 0
			baseY -= lineSpacing
			hasPrev = false
			continue
		}
		g, err := font.Glyph(r)
		if err != nil {
			return fmt.Errorf("game: glyph %q: %w", r, err)
		}
		if hasPrev {
			penX += font.Kerning(prev, r)
		}
		prev, hasPrev = r, true
		if g.Texture != nil && g.Size.X > 0 && g.Size.Y > 0 {
			it, err := b.push(g.Texture)
			if err != nil {
				return err
			}
			dx := (penX + g.Bearing.X) * scale
			dy := (baseY + g.Bearing.Y - g.Size.Y) * scale
			it.set(position.X, position.Y, dx, dy, g.Size.X*scale, g.Size.Y*scale, sin, cos, depth, texelUV(g.Texture, g.Source), color)
		}
		penX += g.Advance
	}
	return nil
}

// End sorts and draws the queued sprites, then closes the batch. An empty
// batch draws nothing.
func (b *SpriteBatch) End() error {
	if !b.open {
		return ErrBatchClosed
	}
	b.open = false
	defer b.recycle()

	b.stats = Stats{Sprites: len(b.items)}
	if len(b.items) == 0 {
		return nil
	}
	sortItems(b.items, b.state.Sort)
	if err := b.ensureCapacity(len(b.items)); err != nil {
		return err
	}
	if err := b.apply(); err != nil {
		return err
	}

	start := 0
	for i := 1; i <= len(b.items); i++ {
		if i < len(b.items) && b.items[i].tex == b.items[start].tex {
			continue
		}
		if err := b.flush(b.items[start:i]); err != nil {
			return err
		}
		start = i
	}
	return nil
}

// apply binds the batch state once per End.
func (b *SpriteBatch) apply() error {
	d := b.dev
	d.SetBlendState(b.state.Blend)
	d.SetDepthStencilState(b.state.DepthStencil)
	d.SetRasterizerState(b.state.Rasterizer)
	sampler := b.state.Sampler
	if sampler == nil {
		sampler = b.sampler
	}
	d.SetSamplerState(0, sampler, gfx.StagePixel)

	vp := d.Viewport()
	proj := Ortho(float32(vp.Width), float32(vp.Height))
	if t := b.state.Transform; t != nil {
		proj = proj.Mul(*t)
	}
	if err := b.setProjection(proj); err != nil {
		return err
	}

	shader := b.state.Shader
	if shader == nil {
		shader = b.shader
	} else {
		b.attach(shader)
	}
	d.ApplyShader(shader)
	if d.ActiveShader() != shader {
		return fmt.Errorf("game: apply sprite shader: %w", d.LastError())
	}
	d.SetVertexBuffer(b.vertices)
	if d.VertexBuffer() != b.vertices {
		return fmt.Errorf("game: sprite vertex layout: %w", d.LastError())
	}
	d.SetIndexBuffer(b.indices)
	if d.IndexBuffer() != b.indices {
		return fmt.Errorf("game: sprite indices: %w", d.LastError())
	}
	return nil
}

// attach feeds the projection to a custom shader that declares the sprite
// constant block. Shaders without it are left alone.
func (b *SpriteBatch) attach(s *gfx.Shader) {
	if _, ok := b.attached[s]; ok {
		return
	}
	err := s.AddConstants(b.constants, constantsName, gfx.StageVertex)
	if err != nil {
		ciri.Logger().Debug("game: custom shader without sprite constants", "err", err)
	}
	if b.attached == nil {
		b.attached = make(map[*gfx.Shader]struct{})
	}
	b.attached[s] = struct{}{}
}

// flush uploads one same-texture run and draws it.
func (b *SpriteBatch) flush(run []*spriteItem) error {
	n := 0
	for _, it := range run {
		for i := range it.v {
			it.v[i].put(b.scratch[n*vertexStride:])
			n++
		}
	}
	if err := b.vertices.Update(b.scratch[:n*vertexStride], n); err != nil {
		return err
	}
	b.dev.SetTexture2D(0, run[0].tex, gfx.StagePixel)
	before := b.dev.LastError()
	b.dev.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, 6*len(run))
	// Rejected draws only surface through LastError.
	if err := b.dev.LastError(); err != nil && err != before {
		return fmt.Errorf("game: draw sprites: %w", err)
	}
	b.stats.DrawCalls++
	return nil
}

func (b *SpriteBatch) recycle() {
	b.pool.put(b.items)
	b.items = b.items[:0]
}

// Stats returns the counts of the last End.
func (b *SpriteBatch) Stats() Stats { return b.stats }

// Clean releases the batch resources. It is safe to call more than once,
// and the batch cannot be used afterwards.
func (b *SpriteBatch) Clean() {
	if b.clean {
		return
	}
	b.clean = true
	b.open = false
	b.recycle()
	// Destroy accepts nil receivers.
	b.vertices.Destroy()
	b.indices.Destroy()
	b.constants.Destroy()
	b.shader.Destroy()
	b.sampler.Destroy()
	b.vertices, b.indices, b.constants, b.shader, b.sampler = nil, nil, nil, nil, nil
	b.scratch = nil
	b.attached = nil
}

func sincos(angle float32) (sin, cos float32) {
	if angle == 0 {
		return 0, 1
	}
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
