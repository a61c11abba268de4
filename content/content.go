// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package content loads textures and fonts for a gfx.Device.
//
// Images are decoded with github.com/disintegration/imaging, except TGA
// files which use the tga package. Texture rows are uploaded bottom-up so
// that texture coordinate (0, 0) is the bottom-left of the image on every
// backend, matching the SpriteBatch convention.
package content

import (
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/tga"
)

// TextureOption configures texture loading.
type TextureOption func(*textureOptions)

type textureOptions struct {
	premultiply bool
	mipmaps     bool
	maxSize     int
	filter      imaging.ResampleFilter
}

func defaultTextureOptions() textureOptions {
	return textureOptions{filter: imaging.Lanczos}
}

// WithPremultiply scales color channels by alpha for use with
// gfx.Device.BlendAlpha.
func WithPremultiply() TextureOption {
	return func(o *textureOptions) {
		o.premultiply = true
	}
}

// WithMipmaps requests a full mipmap chain.
func WithMipmaps() TextureOption {
	return func(o *textureOptions) {
		o.mipmaps = true
	}
}

// WithMaxSize shrinks images larger than px in either dimension,
// preserving the aspect ratio.
func WithMaxSize(px int) TextureOption {
	return func(o *textureOptions) {
		o.maxSize = px
	}
}

// WithFilter sets the resampling filter used by WithMaxSize. The default
// is Lanczos.
func WithFilter(f imaging.ResampleFilter) TextureOption {
	return func(o *textureOptions) {
		o.filter = f
	}
}

// DecodeImage decodes an image from r. name selects the decoder by
// extension: ".tga" uses the tga package and anything else is left to
// imaging.
func DecodeImage(r io.Reader, name string) (*image.NRGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		m, err := tga.Decode(r, &tga.DecodeOptions{ForceRGBA: true})
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", name, err)
		}
		return m.NRGBA(), nil
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", name, err)
	}
	return imaging.Clone(img), nil
}

// LoadImage reads and decodes the image file called name.
func LoadImage(name string) (*image.NRGBA, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	defer f.Close()
	return DecodeImage(f, name)
}

// TexturePixels returns the RGBA8 rows of img ordered bottom-up, after
// applying opts.
func TexturePixels(img image.Image, opts ...TextureOption) (w, h int, pix []byte) {
	o := defaultTextureOptions()
	for _, opt := range opts {
		opt(&o)
	}
	var src image.Image = img
	if b := img.Bounds(); o.maxSize > 0 && (b.Dx() > o.maxSize || b.Dy() > o.maxSize) {
		src = imaging.Fit(img, o.maxSize, o.maxSize, o.filter)
	}
	flipped := imaging.FlipV(src)
	if o.premultiply {
		premultiply(flipped.Pix)
	}
	b := flipped.Bounds()
	return b.Dx(), b.Dy(), flipped.Pix
}

func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0xff {
			continue
		}
		pix[i] = uint8((uint32(pix[i])*a + 127) / 255)
		pix[i+1] = uint8((uint32(pix[i+1])*a + 127) / 255)
		pix[i+2] = uint8((uint32(pix[i+2])*a + 127) / 255)
	}
}

// TextureFromImage uploads img as an RGBA8 texture.
func TextureFromImage(dev *gfx.Device, img image.Image, opts ...TextureOption) (*gfx.Texture2D, error) {
	o := defaultTextureOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w, h, pix := TexturePixels(img, opts...)
	var flags gfx.TextureFlags
	if o.mipmaps {
		flags |= gfx.TextureMipmaps
	}
	return dev.CreateTexture2D(w, h, gfx.FormatColor, flags, pix)
}

// LoadTexture reads an image file and uploads it.
func LoadTexture(dev *gfx.Device, name string, opts ...TextureOption) (*gfx.Texture2D, error) {
	img, err := LoadImage(name)
	if err != nil {
		return nil, err
	}
	return TextureFromImage(dev, img, opts...)
}
