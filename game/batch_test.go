// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/gfx/driver/drivertest"
	"github.com/gogpu/gputypes"
)

type testWindow struct{ w, h int }

func (w *testWindow) Width() int            { return w.w }
func (w *testWindow) Height() int           { return w.h }
func (w *testWindow) NativeHandle() uintptr { return 1 }
func (w *testWindow) HasFocus() bool        { return true }

func newTestDevice(t *testing.T, api gfx.API, opts ...gfx.Option) (*gfx.Device, *drivertest.Device) {
	t.Helper()
	drv := &drivertest.Driver{Kind: api}
	dev, err := gfx.NewDevice(api, append([]gfx.Option{gfx.WithDriver(drv)}, opts...)...)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	if err := dev.Create(&testWindow{800, 600}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(dev.Destroy)
	drv.Last.Slots[constantsName] = 0
	return dev, drv.Last
}

func newTestBatch(t *testing.T) (*gfx.Device, *drivertest.Device, *SpriteBatch) {
	t.Helper()
	dev, nd := newTestDevice(t, gfx.OpenGL)
	b, err := NewSpriteBatch(dev)
	if err != nil {
		t.Fatalf("NewSpriteBatch: %v", err)
	}
	t.Cleanup(b.Clean)
	return dev, nd, b
}

func newTestTexture(t *testing.T, dev *gfx.Device, w, h int) *gfx.Texture2D {
	t.Helper()
	tex, err := dev.CreateTexture2D(w, h, gfx.FormatColor, 0, make([]byte, w*h*4))
	if err != nil {
		t.Fatalf("CreateTexture2D: %v", err)
	}
	return tex
}

// vertexAt decodes vertex i of a vertex buffer snapshot.
func vertexAt(data []byte, i int) spriteVertex {
	f := func(k int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*vertexStride+4*k:]))
	}
	return spriteVertex{
		Position: [3]float32{f(0), f(1), f(2)},
		TexCoord: [2]float32{f(3), f(4)},
		Color:    [4]float32{f(5), f(6), f(7), f(8)},
	}
}

func approx(a, b float32) bool { return abs32(a-b) < 1e-4 }

func TestNewSpriteBatchPerAPI(t *testing.T) {
	for _, api := range []gfx.API{gfx.OpenGL, gfx.Direct3D11} {
		dev, _ := newTestDevice(t, api)
		b, err := NewSpriteBatch(dev)
		if err != nil {
			t.Fatalf("%s: NewSpriteBatch: %v", api, err)
		}
		if !b.shader.IsValid() {
			t.Errorf("%s: default shader not built", api)
		}
		b.Clean()
	}
}

func TestNewSpriteBatchUnknownShaderExt(t *testing.T) {
	dev, _ := newTestDevice(t, gfx.OpenGL, gfx.WithShaderExt(".spv"))
	before := dev.ResourceCount()
	if _, err := NewSpriteBatch(dev); err == nil {
		t.Fatal("NewSpriteBatch succeeded without shader sources")
	}
	if got := dev.ResourceCount(); got != before {
		t.Errorf("ResourceCount = %d, want %d after failed creation", got, before)
	}
}

func TestBatchStateMachine(t *testing.T) {
	dev, _, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 4, 4)

	if err := b.End(); !errors.Is(err, ErrBatchClosed) {
		t.Errorf("End while closed: err = %v", err)
	}
	if err := b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), 0); !errors.Is(err, ErrBatchClosed) {
		t.Errorf("DrawAt while closed: err = %v", err)
	}
	if err := b.Begin(BatchState{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Begin(BatchState{}); !errors.Is(err, ErrBatchOpen) {
		t.Errorf("second Begin: err = %v", err)
	}
	if err := b.DrawAt(nil, Vec2{}, 0, Vec2{}, V2(1, 1), 0); !errors.Is(err, ErrNilTexture) {
		t.Errorf("DrawAt(nil): err = %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}

	b.Clean()
	b.Clean()
	if err := b.Begin(BatchState{}); !errors.Is(err, ErrCleaned) {
		t.Errorf("Begin after Clean: err = %v", err)
	}
}

func TestEmptyBatchDrawsNothing(t *testing.T) {
	_, nd, b := newTestBatch(t)
	if err := b.Begin(BatchState{Sort: SortTexture}); err != nil {
		t.Fatal(err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if len(nd.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(nd.Draws))
	}
	if s := b.Stats(); s != (Stats{}) {
		t.Errorf("Stats = %+v", s)
	}
}

func TestSortModes(t *testing.T) {
	type run struct {
		width  int // identifies the texture
		depths []float32
	}
	const a, bw = 16, 32
	tests := []struct {
		mode SortMode
		want []run
	}{
		{SortDeferred, []run{{a, []float32{0.1}}, {bw, []float32{0.9}}, {a, []float32{0.5}}}},
		{SortTexture, []run{{a, []float32{0.1, 0.5}}, {bw, []float32{0.9}}}},
		{SortFrontToBack, []run{{a, []float32{0.1, 0.5}}, {bw, []float32{0.9}}}},
		// Equal-texture neighbours after sorting share one draw.
		{SortBackToFront, []run{{bw, []float32{0.9}}, {a, []float32{0.5, 0.1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dev, nd, b := newTestBatch(t)
			texA := newTestTexture(t, dev, a, a)
			texB := newTestTexture(t, dev, bw, bw)

			if err := b.Begin(BatchState{Sort: tt.mode}); err != nil {
				t.Fatal(err)
			}
			for _, s := range []struct {
				tex   *gfx.Texture2D
				depth float32
			}{{texA, 0.1}, {texB, 0.9}, {texA, 0.5}} {
				if err := b.DrawAt(s.tex, Vec2{}, 0, Vec2{}, V2(1, 1), s.depth); err != nil {
					t.Fatal(err)
				}
			}
			if err := b.End(); err != nil {
				t.Fatal(err)
			}

			if len(nd.Draws) != len(tt.want) {
				t.Fatalf("draws = %d, want %d", len(nd.Draws), len(tt.want))
			}
			for i, want := range tt.want {
				dr := nd.Draws[i]
				if !dr.Indexed || dr.Count != 6*len(want.depths) {
					t.Errorf("draw %d: indexed=%v count=%d, want %d indices", i, dr.Indexed, dr.Count, 6*len(want.depths))
				}
				if dr.Texture == nil || dr.Texture.Desc.Width != want.width {
					t.Errorf("draw %d: wrong texture", i)
				}
				for q, depth := range want.depths {
					if z := vertexAt(dr.Vertices, 4*q).Position[2]; z != depth {
						t.Errorf("draw %d quad %d: depth %v, want %v", i, q, z, depth)
					}
				}
			}
			if got := b.Stats(); got.DrawCalls != len(tt.want) || got.Sprites != 3 {
				t.Errorf("Stats = %+v", got)
			}
		})
	}
}

func TestTextureSortIsStable(t *testing.T) {
	dev, nd, b := newTestBatch(t)
	texA := newTestTexture(t, dev, 8, 8)
	texB := newTestTexture(t, dev, 16, 16)

	if err := b.Begin(BatchState{Sort: SortTexture}); err != nil {
		t.Fatal(err)
	}
	for i, tex := range []*gfx.Texture2D{texB, texA, texB, texA} {
		_ = b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), float32(i))
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if len(nd.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(nd.Draws))
	}
	// A sprites were submitted at depths 1 and 3, B at 0 and 2.
	for i, want := range [][2]float32{{1, 3}, {0, 2}} {
		v := nd.Draws[i].Vertices
		if vertexAt(v, 0).Position[2] != want[0] || vertexAt(v, 4).Position[2] != want[1] {
			t.Errorf("draw %d not in submission order", i)
		}
	}
}

func TestDrawGeometry(t *testing.T) {
	dev, nd, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 16, 16)

	red := RGB(1, 0, 0)
	if err := b.Begin(BatchState{}); err != nil {
		t.Fatal(err)
	}
	_ = b.DrawColored(tex, V2(100, 50), 0, Vec2{}, V2(2, 1), 0.25, red)
	_ = b.Draw(tex, R(10, 20, 30, 40), 0, V2(5, 5), 0)
	_ = b.DrawAt(tex, Vec2{}, math.Pi/2, V2(8, 8), V2(1, 1), 0)
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if len(nd.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(nd.Draws))
	}
	data := nd.Draws[0].Vertices

	tests := []struct {
		name   string
		vertex int
		pos    Vec2
		uv     Vec2
	}{
		{"scaled TL", 0, V2(100, 66), V2(0, 1)},
		{"scaled TR", 1, V2(132, 66), V2(1, 1)},
		{"scaled BL", 2, V2(100, 50), V2(0, 0)},
		{"scaled BR", 3, V2(132, 50), V2(1, 0)},
		{"rect BL", 6, V2(5, 15), V2(0, 0)},
		{"rect TR", 5, V2(35, 55), V2(1, 1)},
		// A quarter turn maps local (x, y) to (-y, x).
		{"rotated TL", 8, V2(-8, -8), V2(0, 1)},
		{"rotated BR", 11, V2(8, 8), V2(1, 0)},
	}
	for _, tt := range tests {
		v := vertexAt(data, tt.vertex)
		got := V2(v.Position[0], v.Position[1])
		if !got.Approx(tt.pos, 1e-3) {
			t.Errorf("%s: position %v, want %v", tt.name, got, tt.pos)
		}
		if uv := V2(v.TexCoord[0], v.TexCoord[1]); uv != tt.uv {
			t.Errorf("%s: uv %v, want %v", tt.name, uv, tt.uv)
		}
	}
	if v := vertexAt(data, 0); v.Position[2] != 0.25 || v.Color != [4]float32{1, 0, 0, 1} {
		t.Errorf("vertex 0 = %+v, want depth 0.25 and red", v)
	}
}

func TestDrawRegion(t *testing.T) {
	dev, nd, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 64, 32)

	if err := b.Begin(BatchState{}); err != nil {
		t.Fatal(err)
	}
	_ = b.DrawRegion(tex, R(16, 8, 16, 8), R(0, 0, 16, 8), 0, Vec2{}, 0, White)
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	data := nd.Draws[0].Vertices
	tl, br := vertexAt(data, 0), vertexAt(data, 3)
	if !approx(tl.TexCoord[0], 0.25) || !approx(tl.TexCoord[1], 0.5) {
		t.Errorf("TL uv = %v", tl.TexCoord)
	}
	if !approx(br.TexCoord[0], 0.5) || !approx(br.TexCoord[1], 0.25) {
		t.Errorf("BR uv = %v", br.TexCoord)
	}
}

func TestQuadIndices(t *testing.T) {
	got := quadIndices(2)
	want := []uint32{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("quadIndices(2) = %v, want %v", got, want)
		}
	}
}

func TestItemPoolRecycles(t *testing.T) {
	dev, _, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 4, 4)

	frame := func(n int) {
		t.Helper()
		if err := b.Begin(BatchState{}); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < n; i++ {
			_ = b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), 0)
		}
		if live := len(b.items); live+len(b.pool.free) != b.pool.allocated {
			t.Errorf("live %d + free %d != allocated %d", live, len(b.pool.free), b.pool.allocated)
		}
		if err := b.End(); err != nil {
			t.Fatal(err)
		}
	}
	frame(3)
	frame(2)
	frame(3)
	if b.pool.allocated != 3 || len(b.pool.free) != 3 || len(b.items) != 0 {
		t.Errorf("allocated %d free %d live %d, want 3 3 0", b.pool.allocated, len(b.pool.free), len(b.items))
	}
}

func TestCapacityGrowth(t *testing.T) {
	dev, nd, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 4, 4)

	n := initialSprites + 1
	if err := b.Begin(BatchState{}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		_ = b.DrawAt(tex, V2(float32(i), 0), 0, Vec2{}, V2(1, 1), 0)
	}
	if err := b.End(); err != nil {
		t.Fatal(err)
	}
	if len(nd.Draws) != 1 || nd.Draws[0].Count != 6*n {
		t.Fatalf("draws = %+v, want one draw of %d indices", len(nd.Draws), 6*n)
	}
	if got, want := len(b.scratch), 2*4*initialSprites*vertexStride; got != want {
		t.Errorf("scratch = %d bytes, want %d", got, want)
	}
	if got := b.vertices.Capacity(); got != 2*4*initialSprites {
		t.Errorf("vertex capacity = %d", got)
	}
	if last := vertexAt(nd.Draws[0].Vertices, 4*(n-1)+2); last.Position[0] != float32(n-1) {
		t.Errorf("last sprite at x=%v", last.Position[0])
	}
}

func TestEndAppliesState(t *testing.T) {
	dev, _, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 4, 4)

	custom, err := dev.LoadShader(shaderFS, "shaders/sprite", spriteElements...)
	if err != nil {
		t.Fatal(err)
	}
	state := BatchState{
		Blend:        dev.BlendAlpha(),
		DepthStencil: dev.DepthStencilNone(),
		Rasterizer:   dev.RasterNone(),
		Shader:       custom,
	}
	for frame := 0; frame < 2; frame++ {
		if err := b.Begin(state); err != nil {
			t.Fatal(err)
		}
		_ = b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), 0)
		if err := b.End(); err != nil {
			t.Fatal(err)
		}
	}
	if dev.BlendState() != dev.BlendAlpha() {
		t.Error("blend state not applied")
	}
	if dev.DepthStencilState() != dev.DepthStencilNone() {
		t.Error("depth state not applied")
	}
	if dev.RasterizerState() != dev.RasterNone() {
		t.Error("rasterizer state not applied")
	}
	if dev.ActiveShader() != custom {
		t.Error("custom shader not active")
	}
	if len(b.attached) != 1 {
		t.Errorf("attached = %d custom shaders, want 1", len(b.attached))
	}
}

func TestEndRejectsUnbuiltShader(t *testing.T) {
	dev, nd, b := newTestBatch(t)
	tex := newTestTexture(t, dev, 4, 4)
	unbuilt, err := dev.CreateShader()
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Begin(BatchState{Shader: unbuilt}); err != nil {
		t.Fatal(err)
	}
	_ = b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), 0)
	if err := b.End(); err == nil {
		t.Error("End succeeded with an unbuilt shader")
	}
	if len(nd.Draws) != 0 {
		t.Errorf("draws = %d, want 0", len(nd.Draws))
	}
	if b.IsOpen() || len(b.items) != 0 {
		t.Error("failed End left the batch open")
	}
}

func TestEndRejectsMismatchedShaderLayout(t *testing.T) {
	tests := []struct {
		name     string
		elements []gfx.VertexElement
	}{
		{"position only", []gfx.VertexElement{
			{Format: gputypes.VertexFormatFloat32x3, Usage: gfx.UsagePosition},
		}},
		{"extra color", append(append([]gfx.VertexElement(nil), spriteElements...),
			gfx.VertexElement{Format: gputypes.VertexFormatFloat32x4, Usage: gfx.UsageColor, Index: 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, nd, b := newTestBatch(t)
			tex := newTestTexture(t, dev, 4, 4)
			custom, err := dev.LoadShader(shaderFS, "shaders/sprite", tt.elements...)
			if err != nil {
				t.Fatal(err)
			}
			if err := b.Begin(BatchState{Shader: custom}); err != nil {
				t.Fatal(err)
			}
			_ = b.DrawAt(tex, Vec2{}, 0, Vec2{}, V2(1, 1), 0)
			err = b.End()
			if !errors.Is(err, gfx.ErrInvalidArgument) {
				t.Errorf("End = %v, want ErrInvalidArgument", err)
			}
			if len(nd.Draws) != 0 {
				t.Errorf("draws = %d, want 0", len(nd.Draws))
			}
			if got := b.Stats().DrawCalls; got != 0 {
				t.Errorf("DrawCalls = %d, want 0", got)
			}
			if b.IsOpen() || len(b.items) != 0 {
				t.Error("failed End left the batch open")
			}
		})
	}
}
