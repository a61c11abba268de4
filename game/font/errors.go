// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package font

import "errors"

var (
	// ErrEmptyFontData is returned when New is given no font bytes.
	ErrEmptyFontData = errors.New("font: empty font data")

	// ErrInvalidSize is returned for a non-positive pixel size.
	ErrInvalidSize = errors.New("font: invalid size")

	// ErrGlyphTooLarge is returned when a glyph bitmap cannot fit in an
	// atlas page.
	ErrGlyphTooLarge = errors.New("font: glyph larger than atlas page")

	// ErrClosed is returned after Destroy.
	ErrClosed = errors.New("font: destroyed")
)
