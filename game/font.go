// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

import "github.com/gogpu/ciri/gfx"

// Glyph locates a rasterized character and its metrics. All distances are
// in pixels at the font's current size.
type Glyph struct {
	// Texture holds the glyph bitmap. It is nil for glyphs with no ink,
	// such as spaces.
	Texture *gfx.Texture2D
	// Source is the glyph's rectangle in Texture, in texels, with rows
	// stored bottom-up.
	Source Rect
	// Advance moves the pen to the next glyph.
	Advance float32
	// Bearing is the offset from the pen position on the baseline to the
	// top-left corner of the bitmap. Bearing.Y is positive above the
	// baseline.
	Bearing Vec2
	// Size is the bitmap size.
	Size Vec2
}

// SpriteFont supplies glyphs to SpriteBatch.DrawString. Glyphs are
// rasterized lazily on first request and cached by rune.
type SpriteFont interface {
	Glyph(r rune) (Glyph, error)
	// Kerning is the extra advance between a and b, usually negative.
	Kerning(a, b rune) float32
	// MeasureString returns the bounding size of s as DrawString lays it
	// out at scale 1.
	MeasureString(s string) (w, h int)
	LineSpacing() int
	SetLineSpacing(spacing int)
	Size() int
	SetSize(size int) error
	// PreloadString rasterizes every rune of s.
	PreloadString(s string) error
	// LoadedGlyphs returns a copy of the glyph cache.
	LoadedGlyphs() map[rune]Glyph
}
