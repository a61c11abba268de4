// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/disintegration/imaging"

	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/gfx/driver/drivertest"
	"github.com/gogpu/ciri/tga"
	"github.com/gogpu/gputypes"
)

type testWindow struct{}

func (testWindow) Width() int            { return 320 }
func (testWindow) Height() int           { return 240 }
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

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

// twoRows is 2x2 with a red top row and a blue bottom row.
func twoRows() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetNRGBA(x, 0, red)
		img.SetNRGBA(x, 1, blue)
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeTGA(t *testing.T, img image.Image) []byte {
	t.Helper()
	m, err := tga.FromImage(img, 4)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := tga.Encode(&buf, m, &tga.EncodeOptions{Compress: true}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTexturePixelsBottomUp(t *testing.T) {
	w, h, pix := TexturePixels(twoRows())
	if w != 2 || h != 2 {
		t.Fatalf("size %dx%d", w, h)
	}
	if got := (color.NRGBA{pix[0], pix[1], pix[2], pix[3]}); got != blue {
		t.Errorf("first texel = %v, want the bottom row (blue)", got)
	}
	if got := (color.NRGBA{pix[8], pix[9], pix[10], pix[11]}); got != red {
		t.Errorf("third texel = %v, want the top row (red)", got)
	}
}

func TestTextureOptions(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	w, h, _ := TexturePixels(img, WithMaxSize(4), WithFilter(imaging.NearestNeighbor))
	if w != 4 || h != 2 {
		t.Errorf("fit = %dx%d, want 4x2", w, h)
	}

	_, _, pix := TexturePixels(image.NewNRGBA(image.Rect(0, 0, 1, 1)), WithPremultiply())
	if len(pix) != 4 {
		t.Fatalf("pixels = %v", pix)
	}
	p := []byte{255, 64, 0, 128}
	premultiply(p)
	if want := []byte{128, 32, 0, 128}; !bytes.Equal(p, want) {
		t.Errorf("premultiply = %v, want %v", p, want)
	}
}

func TestDecodeImageFormats(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"rows.png", encodePNG(t, twoRows())},
		{"rows.TGA", encodeTGA(t, twoRows())},
	}
	for _, tt := range tests {
		img, err := DecodeImage(bytes.NewReader(tt.data), tt.name)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if img.NRGBAAt(0, 0) != red || img.NRGBAAt(1, 1) != blue {
			t.Errorf("%s: decoded top %v bottom %v", tt.name, img.NRGBAAt(0, 0), img.NRGBAAt(1, 1))
		}
	}
	if _, err := DecodeImage(bytes.NewReader([]byte("junk")), "x.png"); err == nil {
		t.Error("junk decoded")
	}
}

func TestLoadTexture(t *testing.T) {
	dev := newTestDevice(t)
	name := filepath.Join(t.TempDir(), "rows.png")
	if err := os.WriteFile(name, encodePNG(t, twoRows()), 0o600); err != nil {
		t.Fatal(err)
	}
	tex, err := LoadTexture(dev, name)
	if err != nil {
		t.Fatal(err)
	}
	pix, err := tex.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if got := (color.NRGBA{pix[0], pix[1], pix[2], pix[3]}); got != blue {
		t.Errorf("uploaded first row = %v, want blue", got)
	}
	if _, err := LoadTexture(dev, filepath.Join(t.TempDir(), "none.png")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestManager(t *testing.T) {
	dev := newTestDevice(t)
	fsys := fstest.MapFS{
		"sprites/ship.png":  {Data: encodePNG(t, twoRows())},
		"sprites/rock.tga":  {Data: encodeTGA(t, twoRows())},
		"shaders/x_vs.glsl": {Data: []byte("void main() {}")},
		"shaders/x_ps.glsl": {Data: []byte("void main() {}")},
	}
	m := NewManager(dev, fsys)

	ship, err := m.Texture("sprites/ship.png")
	if err != nil {
		t.Fatal(err)
	}
	again, _ := m.Texture("sprites/ship.png")
	if again != ship {
		t.Error("texture loaded twice")
	}
	if _, err := m.Texture("sprites/rock.tga", WithMipmaps()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Texture("sprites/missing.png"); err == nil {
		t.Error("missing texture loaded")
	}

	f, err := m.Font("", 12)
	if err != nil {
		t.Fatal(err)
	}
	if f2, _ := m.Font("", 12); f2 != f {
		t.Error("font loaded twice")
	}
	if _, err := m.Font("fonts/none.ttf", 12); err == nil {
		t.Error("missing font loaded")
	}

	pos := gfx.VertexElement{Format: gputypes.VertexFormatFloat32x3, Usage: gfx.UsagePosition}
	sh, err := m.Shader("shaders/x", pos)
	if err != nil {
		t.Fatal(err)
	}
	if sh2, _ := m.Shader("shaders/x", pos); sh2 != sh {
		t.Error("shader built twice")
	}

	m.Destroy()
	if !ship.IsDestroyed() {
		t.Error("Destroy kept the texture")
	}
	if reloaded, err := m.Texture("sprites/ship.png"); err != nil || reloaded == ship {
		t.Errorf("reload after Destroy = %v, %v", reloaded, err)
	}
}
