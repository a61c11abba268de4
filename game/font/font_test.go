// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package font

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/gfx/driver/drivertest"
)

type testWindow struct{}

func (testWindow) Width() int            { return 640 }
func (testWindow) Height() int           { return 480 }
func (testWindow) NativeHandle() uintptr { return 1 }
func (testWindow) HasFocus() bool        { return true }

func newTestDevice(t *testing.T) *gfx.Device {
	t.Helper()
	dev, err := gfx.NewDevice(gfx.OpenGL, gfx.WithDriver(&drivertest.Driver{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Create(testWindow{}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(dev.Destroy)
	return dev
}

func newTestFont(t *testing.T, opts ...Option) (*gfx.Device, *Font) {
	t.Helper()
	dev := newTestDevice(t)
	f, err := Default(dev, opts...)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	t.Cleanup(f.Destroy)
	return dev, f
}

func TestNewErrors(t *testing.T) {
	dev := newTestDevice(t)
	if _, err := New(dev, nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("empty data: err = %v", err)
	}
	if _, err := New(dev, []byte("not a font")); err == nil {
		t.Error("garbage data parsed")
	}
	if _, err := New(nil, goregular.TTF); !errors.Is(err, gfx.ErrInvalidArgument) {
		t.Errorf("nil device: err = %v", err)
	}
	if _, err := Default(dev, WithSize(0)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero size: err = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dev := newTestDevice(t)
	name := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(name, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Load(dev, name, WithSize(16))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer f.Destroy()
	if f.Size() != 16 {
		t.Errorf("Size = %d, want 16", f.Size())
	}
	if _, err := Load(dev, filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestMetrics(t *testing.T) {
	_, f := newTestFont(t)
	if f.Size() != 24 {
		t.Errorf("Size = %d, want 24", f.Size())
	}
	if f.LineSpacing() < f.Size() || f.Ascent() <= 0 || f.Ascent() > f.LineSpacing() {
		t.Errorf("line spacing %d, ascent %d", f.LineSpacing(), f.Ascent())
	}
	f.SetLineSpacing(40)
	if f.LineSpacing() != 40 {
		t.Errorf("LineSpacing = %d after override", f.LineSpacing())
	}
}

func TestGlyphRasterization(t *testing.T) {
	_, f := newTestFont(t)

	g, err := f.Glyph('A')
	if err != nil {
		t.Fatal(err)
	}
	if g.Texture == nil || g.Size.X <= 0 || g.Size.Y <= 0 || g.Advance <= 0 {
		t.Fatalf("glyph A = %+v", g)
	}
	if g.Bearing.Y <= 0 || g.Bearing.Y > float32(f.Ascent())+1 {
		t.Errorf("bearing %v outside the ascent", g.Bearing)
	}
	again, _ := f.Glyph('A')
	if again != g {
		t.Error("second lookup rasterized again")
	}
	if f.Pages() != 1 {
		t.Errorf("Pages = %d, want 1", f.Pages())
	}

	pix, err := g.Texture.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	inked := 0
	for i := 0; i < len(pix); i += 4 {
		if pix[i] != pix[i+3] || pix[i+1] != pix[i+3] || pix[i+2] != pix[i+3] {
			t.Fatalf("texel %d = %v, want premultiplied white", i/4, pix[i:i+4])
		}
		if pix[i+3] != 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("atlas page has no coverage")
	}

	space, err := f.Glyph(' ')
	if err != nil {
		t.Fatal(err)
	}
	if space.Texture != nil || space.Advance <= 0 {
		t.Errorf("space = %+v, want an advance without a bitmap", space)
	}
}

func TestPreloadAndLoadedGlyphs(t *testing.T) {
	_, f := newTestFont(t)
	if err := f.PreloadString("Hello\nworld"); err != nil {
		t.Fatal(err)
	}
	loaded := f.LoadedGlyphs()
	// H e l o w r d
	if len(loaded) != 7 {
		t.Errorf("loaded %d glyphs, want 7", len(loaded))
	}
	delete(loaded, 'H')
	if _, ok := f.LoadedGlyphs()['H']; !ok {
		t.Error("LoadedGlyphs exposed the cache")
	}
}

func TestSetSizeResets(t *testing.T) {
	_, f := newTestFont(t)
	small, _ := f.Glyph('M')
	page := small.Texture
	_ = f.Kerning('A', 'V')

	if err := f.SetSize(48); err != nil {
		t.Fatal(err)
	}
	if !page.IsDestroyed() {
		t.Error("old atlas page survived SetSize")
	}
	if len(f.LoadedGlyphs()) != 0 || f.kerning.Len() != 0 {
		t.Error("caches survived SetSize")
	}
	big, _ := f.Glyph('M')
	if big.Size.Y <= small.Size.Y || big.Advance <= small.Advance {
		t.Errorf("48px glyph %v not larger than 24px glyph %v", big.Size, small.Size)
	}
	if err := f.SetSize(-1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("SetSize(-1): err = %v", err)
	}
	if f.Size() != 48 {
		t.Errorf("failed SetSize changed size to %d", f.Size())
	}
}

func TestAtlasPages(t *testing.T) {
	_, f := newTestFont(t, WithPageSize(64))
	var ascii []rune
	for r := rune(33); r < 127; r++ {
		ascii = append(ascii, r)
	}
	if err := f.PreloadString(string(ascii)); err != nil {
		t.Fatal(err)
	}
	if f.Pages() < 2 {
		t.Errorf("Pages = %d, want several 64px pages", f.Pages())
	}
	for r, g := range f.LoadedGlyphs() {
		if g.Source.X+g.Source.W > 64 || g.Source.Y+g.Source.H > 64 {
			t.Errorf("glyph %q source %v outside its page", r, g.Source)
		}
	}
}

func TestGlyphTooLarge(t *testing.T) {
	_, f := newTestFont(t, WithPageSize(64), WithSize(200))
	if _, err := f.Glyph('W'); !errors.Is(err, ErrGlyphTooLarge) {
		t.Errorf("err = %v, want ErrGlyphTooLarge", err)
	}
	if f.Pages() != 0 {
		t.Errorf("Pages = %d after failed allocation", f.Pages())
	}
}

func TestKerningMemoized(t *testing.T) {
	_, f := newTestFont(t)
	k1 := f.Kerning('A', 'V')
	k2 := f.Kerning('A', 'V')
	if k1 != k2 {
		t.Errorf("kerning changed between calls: %v, %v", k1, k2)
	}
	st := f.kerning.Stats()
	if st.Misses != 1 || st.Hits != 1 {
		t.Errorf("cache stats = %+v, want one miss and one hit", st)
	}
}

func TestMeasureString(t *testing.T) {
	_, f := newTestFont(t)
	w1, h1 := f.MeasureString("Hello")
	if w1 <= 0 || h1 != f.LineSpacing() {
		t.Errorf("MeasureString(Hello) = %d, %d", w1, h1)
	}
	w2, h2 := f.MeasureString("Hello\nHi")
	if w2 != w1 || h2 != 2*f.LineSpacing() {
		t.Errorf("two lines = %d, %d, want %d, %d", w2, h2, w1, 2*f.LineSpacing())
	}
	if w, h := f.MeasureString(""); w != 0 || h != 0 {
		t.Errorf("empty = %d, %d", w, h)
	}
}

func TestDestroy(t *testing.T) {
	_, f := newTestFont(t)
	g, _ := f.Glyph('x')
	f.Destroy()
	f.Destroy()
	if !g.Texture.IsDestroyed() {
		t.Error("page survived Destroy")
	}
	if _, err := f.Glyph('x'); !errors.Is(err, ErrClosed) {
		t.Errorf("Glyph after Destroy: err = %v", err)
	}
}
