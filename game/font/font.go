// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package font implements game.SpriteFont for TrueType and OpenType
// fonts.
//
// Glyphs are rasterized on first use with golang.org/x/image and packed
// into atlas page textures. Kerning comes from shaping rune pairs with the
// go-text HarfBuzz port, so GPOS kerning is honoured as well as the
// legacy kern table.
//
// Page textures hold premultiplied white coverage. Draw text with
// gfx.Device.BlendAlpha and tint it with the color passed to
// game.SpriteBatch.DrawString.
package font

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/game"
	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/internal/atlas"
	"github.com/gogpu/ciri/internal/cache"
)

// page is one atlas texture.
type page struct {
	tex   *gfx.Texture2D
	alloc *atlas.Allocator
}

type runePair struct{ a, b rune }

// Font is a rasterized font at one pixel size. It is not safe for
// concurrent use.
type Font struct {
	dev  *gfx.Device
	opts options

	sfnt   *opentype.Font
	shaped *gtfont.Face
	hb     shaping.HarfbuzzShaper

	face        xfont.Face
	size        int
	lineSpacing int
	ascent      int

	glyphs  map[rune]game.Glyph
	pages   []*page
	kerning *cache.Cache[runePair, float32]
	closed  bool
}

var _ game.SpriteFont = (*Font)(nil)

// New parses a TrueType or OpenType font from data.
func New(dev *gfx.Device, data []byte, opts ...Option) (*Font, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", gfx.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	shaped, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse for shaping: %w", err)
	}
	f := &Font{
		dev:     dev,
		opts:    o,
		sfnt:    sf,
		shaped:  shaped,
		glyphs:  make(map[rune]game.Glyph),
		kerning: cache.New[runePair, float32](o.kerningSize),
	}
	if err := f.SetSize(o.size); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads a font file.
func Load(dev *gfx.Device, name string, opts ...Option) (*Font, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	return New(dev, data, opts...)
}

// Default returns the Go Regular font.
func Default(dev *gfx.Device, opts ...Option) (*Font, error) {
	return New(dev, goregular.TTF, opts...)
}

// Size returns the pixel size.
func (f *Font) Size() int { return f.size }

// SetSize changes the pixel size. It drops every rasterized glyph, the
// atlas pages and the kerning cache, and resets the line spacing to the
// font's natural line height.
func (f *Font) SetSize(px int) error {
	if f.closed {
		return ErrClosed
	}
	if px <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, px)
	}
	hinting := xfont.HintingNone
	if f.opts.hinting {
		hinting = xfont.HintingFull
	}
	face, err := opentype.NewFace(f.sfnt, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: hinting,
	})
	if err != nil {
		return fmt.Errorf("font: face at %dpx: %w", px, err)
	}
	f.reset()
	f.face = face
	f.size = px
	m := face.Metrics()
	f.lineSpacing = m.Height.Ceil()
	f.ascent = m.Ascent.Ceil()
	return nil
}

// reset releases the face, the pages and every cached result.
func (f *Font) reset() {
	if f.face != nil {
		_ = f.face.Close()
		f.face = nil
	}
	for _, p := range f.pages {
		p.tex.Destroy()
	}
	f.pages = nil
	clear(f.glyphs)
	f.kerning.Clear()
}

// LineSpacing returns the distance between baselines.
func (f *Font) LineSpacing() int { return f.lineSpacing }

// SetLineSpacing overrides the distance between baselines until the next
// SetSize.
func (f *Font) SetLineSpacing(px int) { f.lineSpacing = px }

// Ascent returns the distance from the baseline to the top of the tallest
// glyphs.
func (f *Font) Ascent() int { return f.ascent }

// Pages returns the number of atlas textures in use.
func (f *Font) Pages() int { return len(f.pages) }

// Glyph returns the glyph for r, rasterizing it on first use. Runes the
// font does not cover render as its missing-glyph shape.
func (f *Font) Glyph(r rune) (game.Glyph, error) {
	if f.closed {
		return game.Glyph{}, ErrClosed
	}
	if g, ok := f.glyphs[r]; ok {
		return g, nil
	}
	g, err := f.rasterize(r)
	if err != nil {
		return game.Glyph{}, err
	}
	f.glyphs[r] = g
	return g, nil
}

func (f *Font) rasterize(r rune) (game.Glyph, error) {
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return game.Glyph{}, fmt.Errorf("font: no glyph for %q", r)
	}
	g := game.Glyph{Advance: fixedToFloat(advance)}
	w, h := dr.Dx(), dr.Dy()
	if w == 0 || h == 0 {
		return g, nil
	}

	p, region, err := f.allocate(w, h)
	if err != nil {
		return game.Glyph{}, fmt.Errorf("font: glyph %q (%dx%d): %w", r, w, h, err)
	}
	if err := p.tex.SetData(region.X, region.Y, w, h, coverage(mask, maskp, w, h)); err != nil {
		return game.Glyph{}, fmt.Errorf("font: upload glyph %q: %w", r, err)
	}
	g.Texture = p.tex
	g.Source = game.R(float32(region.X), float32(region.Y), float32(w), float32(h))
	// dr is relative to the pen on the baseline, with Y down.
	g.Bearing = game.V2(float32(dr.Min.X), float32(-dr.Min.Y))
	g.Size = game.V2(float32(w), float32(h))
	return g, nil
}

// coverage expands the w x h alpha mask at maskp into premultiplied white
// RGBA rows ordered bottom-up.
func coverage(mask image.Image, maskp image.Point, w, h int) []byte {
	pix := make([]byte, w*h*4)
	alpha, isAlpha := mask.(*image.Alpha)
	for y := 0; y < h; y++ {
		row := pix[(h-1-y)*w*4:]
		for x := 0; x < w; x++ {
			var a uint8
			if isAlpha {
				a = alpha.AlphaAt(maskp.X+x, maskp.Y+y).A
			} else {
				_, _, _, a32 := mask.At(maskp.X+x, maskp.Y+y).RGBA()
				a = uint8(a32 >> 8)
			}
			row[4*x], row[4*x+1], row[4*x+2], row[4*x+3] = a, a, a, a
		}
	}
	return pix
}

// allocate reserves w x h texels, opening a new page when the last one is
// full.
func (f *Font) allocate(w, h int) (*page, atlas.Region, error) {
	if n := len(f.pages); n > 0 {
		p := f.pages[n-1]
		region, err := p.alloc.Allocate(w, h)
		switch {
		case err == nil:
			return p, region, nil
		case errors.Is(err, atlas.ErrTooLarge):
			return nil, atlas.Region{}, ErrGlyphTooLarge
		}
	}
	p, err := f.newPage()
	if err != nil {
		return nil, atlas.Region{}, err
	}
	region, err := p.alloc.Allocate(w, h)
	if err != nil {
		p.tex.Destroy()
		f.pages = f.pages[:len(f.pages)-1]
		if errors.Is(err, atlas.ErrTooLarge) {
			err = ErrGlyphTooLarge
		}
		return nil, atlas.Region{}, err
	}
	return p, region, nil
}

func (f *Font) newPage() (*page, error) {
	alloc := atlas.NewAllocator(f.opts.pageSize, f.opts.pageSize, f.opts.padding)
	w, h := alloc.Size()
	tex, err := f.dev.CreateTexture2D(w, h, gfx.FormatColor, 0, make([]byte, w*h*4))
	if err != nil {
		return nil, fmt.Errorf("font: atlas page: %w", err)
	}
	p := &page{tex: tex, alloc: alloc}
	f.pages = append(f.pages, p)
	ciri.Logger().Debug("font: atlas page added", "pages", len(f.pages), "size", w, "px", f.size)
	return p, nil
}

// Kerning returns the advance adjustment between a and b. The value is the
// shaped advance of a when followed by b minus its advance alone.
func (f *Font) Kerning(a, b rune) float32 {
	if f.closed {
		return 0
	}
	return f.kerning.GetOrCreate(runePair{a, b}, func() float32 {
		pair := f.shape([]rune{a, b})
		single := f.shape([]rune{a})
		// A ligature leaves nothing to kern.
		if len(pair) != 2 || len(single) != 1 {
			return 0
		}
		return fixedToFloat(pair[0].Advance - single[0].Advance)
	})
}

func (f *Font) shape(runes []rune) []shaping.Glyph {
	out := f.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      f.shaped,
		Size:      fixed.I(f.size),
		Script:    language.LookupScript(runes[0]),
		Language:  language.NewLanguage("en"),
	})
	return out.Glyphs
}

// MeasureString returns the size of s as SpriteBatch.DrawString lays it
// out at scale 1: the widest line by the number of lines times the line
// spacing.
func (f *Font) MeasureString(s string) (w, h int) {
	if s == "" {
		return 0, 0
	}
	lines := strings.Split(s, "\n")
	var widest float32
	for _, line := range lines {
		var x float32
		prev, hasPrev := rune(0), false
		for _, r := range line {
			g, err := f.Glyph(r)
			if err != nil {
				continue
			}
			if hasPrev {
				x += f.Kerning(prev, r)
			}
			x += g.Advance
			prev, hasPrev = r, true
		}
		widest = max(widest, x)
	}
	return int(widest + 0.999), len(lines) * f.lineSpacing
}

// PreloadString rasterizes every rune of s.
func (f *Font) PreloadString(s string) error {
	for _, r := range s {
		if r == '\n' {
			continue
		}
		if _, err := f.Glyph(r); err != nil {
			return err
		}
	}
	return nil
}

// LoadedGlyphs returns a copy of the rasterized glyphs.
func (f *Font) LoadedGlyphs() map[rune]game.Glyph {
	out := make(map[rune]game.Glyph, len(f.glyphs))
	for r, g := range f.glyphs {
		out[r] = g
	}
	return out
}

// Destroy releases the atlas pages. It is safe to call more than once.
func (f *Font) Destroy() {
	if f.closed {
		return
	}
	f.reset()
	f.closed = true
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
