// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tga

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// ForceRGBA expands 24-bit images to RGBA with opaque alpha.
	ForceRGBA bool
}

// Decode reads a TGA image from r. A nil opts uses the zero options.
func Decode(r io.Reader, opts *DecodeOptions) (*Image, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	br := bufio.NewReader(r)

	var hb [headerSize]byte
	if _, err := io.ReadFull(br, hb[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrFormat, err)
	}
	h := parseHeader(hb[:])

	if h.imageType != typeTrueColor && h.imageType != typeTrueColorRLE {
		return nil, fmt.Errorf("%w: image type %d", ErrUnsupported, h.imageType)
	}
	if h.pixelDepth != 24 && h.pixelDepth != 32 {
		return nil, fmt.Errorf("%w: pixel depth %d", ErrUnsupported, h.pixelDepth)
	}
	if h.width == 0 || h.height == 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrFormat, h.width, h.height)
	}
	w, ht := int(h.width), int(h.height)
	if w*ht > maxPixels {
		return nil, fmt.Errorf("%w: image %dx%d too large", ErrUnsupported, w, ht)
	}

	// Skip the image ID and any color map.
	skip := int64(h.idLength)
	if h.colorMapType != 0 {
		skip += int64(h.colorMapLength) * int64((h.colorMapEntrySize+7)/8)
	}
	if skip > 0 {
		if _, err := io.CopyN(io.Discard, br, skip); err != nil {
			return nil, fmt.Errorf("%w: image id: %w", ErrFormat, err)
		}
	}

	channels := int(h.pixelDepth) / 8
	pix := make([]byte, w*ht*channels)
	var err error
	if h.imageType == typeTrueColorRLE {
		err = readRLE(br, pix, channels)
	} else {
		_, err = io.ReadFull(br, pix)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: pixel data: %w", ErrFormat, err)
	}
	swapRB(pix, channels)

	m := &Image{
		Width:    w,
		Height:   ht,
		Channels: channels,
		Pix:      pix,
		TopDown:  h.imageDesc&descTopDown != 0,
	}
	if opts.ForceRGBA && channels == 3 {
		m.Pix = expandRGBA(pix)
		m.Channels = 4
	}
	return m, nil
}

// readRLE fills pix from run-length packets. A packet header below 128
// is followed by header+1 literal pixels; otherwise the single following
// pixel repeats header-127 times.
func readRLE(r *bufio.Reader, pix []byte, channels int) error {
	var px [4]byte
	for off := 0; off < len(pix); {
		hdr, err := r.ReadByte()
		if err != nil {
			return err
		}
		if hdr < 128 {
			n := (int(hdr) + 1) * channels
			if off+n > len(pix) {
				return fmt.Errorf("raw packet overruns image")
			}
			if _, err := io.ReadFull(r, pix[off:off+n]); err != nil {
				return err
			}
			off += n
			continue
		}
		count := int(hdr) - 127
		if off+count*channels > len(pix) {
			return fmt.Errorf("run packet overruns image")
		}
		if _, err := io.ReadFull(r, px[:channels]); err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			off += copy(pix[off:], px[:channels])
		}
	}
	return nil
}

func expandRGBA(rgb []byte) []byte {
	out := make([]byte, len(rgb)/3*4)
	for i, j := 0, 0; i+2 < len(rgb); i, j = i+3, j+4 {
		out[j] = rgb[i]
		out[j+1] = rgb[i+1]
		out[j+2] = rgb[i+2]
		out[j+3] = 0xff
	}
	return out
}

// ReadFile decodes the TGA file called name.
func ReadFile(name string, forceRGBA bool) (*Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Decode(f, &DecodeOptions{ForceRGBA: forceRGBA})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}
