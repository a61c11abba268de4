// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tga reads and writes Truevision TGA images.
//
// Only true-color images are handled: 24-bit RGB and 32-bit RGBA, either
// uncompressed (image type 2) or run-length encoded (image type 10).
// Pixels are stored in the file as BGR(A) and exposed as RGB(A). Rows are
// kept in file order; Image.TopDown tells which row comes first.
package tga

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Errors returned by Decode and Encode.
var (
	// ErrFormat is returned for truncated or malformed files.
	ErrFormat = errors.New("tga: invalid format")
	// ErrUnsupported is returned for valid TGA files this package does
	// not handle, such as color-mapped or grayscale images.
	ErrUnsupported = errors.New("tga: unsupported image")
)

const headerSize = 18

// Image types.
const (
	typeTrueColor    = 2
	typeTrueColorRLE = 10
)

// Image descriptor bits.
const (
	descAlphaMask = 0x0f
	descTopDown   = 0x20
)

// maxPixels bounds allocations for hostile headers.
const maxPixels = 1 << 28

// Image is a decoded TGA image.
type Image struct {
	Width, Height int
	// Channels is 3 for RGB or 4 for RGBA.
	Channels int
	// Pix holds Height rows of Width pixels, Channels bytes each.
	Pix []byte
	// TopDown is true when the first row of Pix is the top of the image.
	// TGA files default to bottom-up.
	TopDown bool
}

// header is the fixed 18-byte TGA header.
type header struct {
	idLength          uint8
	colorMapType      uint8
	imageType         uint8
	firstEntryIndex   uint16
	colorMapLength    uint16
	colorMapEntrySize uint8
	xOrigin, yOrigin  uint16
	width, height     uint16
	pixelDepth        uint8
	imageDesc         uint8
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func put16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func parseHeader(b []byte) header {
	return header{
		idLength:          b[0],
		colorMapType:      b[1],
		imageType:         b[2],
		firstEntryIndex:   le16(b[3:]),
		colorMapLength:    le16(b[5:]),
		colorMapEntrySize: b[7],
		xOrigin:           le16(b[8:]),
		yOrigin:           le16(b[10:]),
		width:             le16(b[12:]),
		height:            le16(b[14:]),
		pixelDepth:        b[16],
		imageDesc:         b[17],
	}
}

func (h header) marshal() []byte {
	b := make([]byte, headerSize)
	b[0] = h.idLength
	b[1] = h.colorMapType
	b[2] = h.imageType
	put16(b[3:], h.firstEntryIndex)
	put16(b[5:], h.colorMapLength)
	b[7] = h.colorMapEntrySize
	put16(b[8:], h.xOrigin)
	put16(b[10:], h.yOrigin)
	put16(b[12:], h.width)
	put16(b[14:], h.height)
	b[16] = h.pixelDepth
	b[17] = h.imageDesc
	return b
}

// swapRB exchanges the first and third byte of every pixel in place.
func swapRB(pix []byte, channels int) {
	for i := 0; i+2 < len(pix); i += channels {
		tmp := pix[i]
		pix[i] = pix[i+2]
		pix[i+2] = tmp
	}
}

// NRGBA converts m to a top-down image.
func (m *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		srcRow := y
		if !m.TopDown {
			srcRow = m.Height - 1 - y
		}
		src := m.Pix[srcRow*m.Width*m.Channels:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < m.Width; x++ {
			s := src[x*m.Channels:]
			d := dst[x*4:]
			d[0], d[1], d[2] = s[0], s[1], s[2]
			if m.Channels == 4 {
				d[3] = s[3]
			} else {
				d[3] = 0xff
			}
		}
	}
	return out
}

// FromImage converts img into a bottom-up image with the given channel
// count. Colors are converted to non-premultiplied alpha.
func FromImage(img image.Image, channels int) (*Image, error) {
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := &Image{Width: w, Height: h, Channels: channels, Pix: make([]byte, w*h*channels)}
	for y := 0; y < h; y++ {
		row := m.Pix[(h-1-y)*w*channels:]
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			p := row[x*channels:]
			p[0], p[1], p[2] = c.R, c.G, c.B
			if channels == 4 {
				p[3] = c.A
			}
		}
	}
	return m, nil
}
