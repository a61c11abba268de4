// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package font

// Option configures a Font.
type Option func(*options)

type options struct {
	size        int
	pageSize    int
	padding     int
	kerningSize int
	hinting     bool
}

func defaultOptions() options {
	return options{
		size:        24,
		pageSize:    512,
		padding:     1,
		kerningSize: 1024,
		hinting:     true,
	}
}

// WithSize sets the initial pixel size. The default is 24.
func WithSize(px int) Option {
	return func(o *options) {
		o.size = px
	}
}

// WithPageSize sets the width and height of each atlas page texture.
// The default is 512.
func WithPageSize(px int) Option {
	return func(o *options) {
		o.pageSize = px
	}
}

// WithPadding sets the empty texels kept between glyphs in a page so
// bilinear filtering does not bleed neighbours. The default is 1.
func WithPadding(px int) Option {
	return func(o *options) {
		o.padding = px
	}
}

// WithKerningCache sets how many kerning pairs are memoized.
// The default is 1024.
func WithKerningCache(pairs int) Option {
	return func(o *options) {
		o.kerningSize = pairs
	}
}

// WithHinting enables or disables full hinting during rasterization.
// Hinting is on by default.
func WithHinting(on bool) Option {
	return func(o *options) {
		o.hinting = on
	}
}
