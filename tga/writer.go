// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tga

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	// Compress writes run-length encoded pixel data.
	Compress bool
}

// maxPacket is the pixel limit of one RLE packet.
const maxPacket = 128

// Encode writes m to w. A nil opts writes uncompressed data.
func Encode(w io.Writer, m *Image, opts *EncodeOptions) error {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: empty image", ErrFormat)
	}
	if m.Channels != 3 && m.Channels != 4 {
		return fmt.Errorf("%w: %d channels", ErrUnsupported, m.Channels)
	}
	if m.Width > 0xffff || m.Height > 0xffff {
		return fmt.Errorf("%w: image %dx%d too large", ErrUnsupported, m.Width, m.Height)
	}
	size := m.Width * m.Height * m.Channels
	if len(m.Pix) < size {
		return fmt.Errorf("%w: %d bytes of pixel data, need %d", ErrFormat, len(m.Pix), size)
	}

	h := header{
		imageType:  typeTrueColor,
		width:      uint16(m.Width),
		height:     uint16(m.Height),
		pixelDepth: uint8(m.Channels * 8),
	}
	if m.Channels == 4 {
		h.imageDesc = 8
	}
	if m.TopDown {
		h.imageDesc |= descTopDown
	}
	if opts.Compress {
		h.imageType = typeTrueColorRLE
	}

	bgr := make([]byte, size)
	copy(bgr, m.Pix[:size])
	swapRB(bgr, m.Channels)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h.marshal()); err != nil {
		return err
	}
	if opts.Compress {
		writeRLE(bw, bgr, m.Channels)
	} else if _, err := bw.Write(bgr); err != nil {
		return err
	}
	return bw.Flush()
}

// writeRLE emits run packets for repeated pixels and raw packets for the
// rest. Errors surface through the writer's Flush.
func writeRLE(w *bufio.Writer, pix []byte, channels int) {
	n := len(pix) / channels
	at := func(i int) []byte { return pix[i*channels : (i+1)*channels] }

	for i := 0; i < n; {
		run := 1
		for i+run < n && run < maxPacket && bytes.Equal(at(i), at(i+run)) {
			run++
		}
		if run > 1 {
			w.WriteByte(byte(run - 1 + 128))
			w.Write(at(i))
			i += run
			continue
		}
		// Collect literals until the next repeated pair.
		lit := 1
		for i+lit < n && lit < maxPacket {
			if i+lit+1 < n && bytes.Equal(at(i+lit), at(i+lit+1)) {
				break
			}
			lit++
		}
		w.WriteByte(byte(lit - 1))
		w.Write(pix[i*channels : (i+lit)*channels])
		i += lit
	}
}

// WriteFile encodes m into the file called name.
func WriteFile(name string, m *Image, compress bool) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Encode(f, m, &EncodeOptions{Compress: compress}); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
