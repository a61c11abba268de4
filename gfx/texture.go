// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/ciri/gfx/driver"
	"github.com/gogpu/ciri/tga"
)

// texture is the state shared by every texture kind.
type texture struct {
	resource
	native driver.Texture
	desc   driver.TextureDesc
}

func (t *texture) release() {
	if t.native != nil {
		t.native.Release()
		t.native = nil
	}
}

// Width returns the width in texels.
func (t *texture) Width() int { return t.desc.Width }

// Height returns the height in texels.
func (t *texture) Height() int { return t.desc.Height }

// Format returns the pixel format.
func (t *texture) Format() TextureFormat { return t.desc.Format }

// replace swaps in new storage and rebinds every slot that referenced the
// old one.
func (t *texture) replace(native driver.Texture, desc driver.TextureDesc) {
	t.release()
	t.native = native
	t.desc = desc
	d := t.dev
	for slot, sb := range d.bound.textures {
		if sb.h == t.handle {
			d.native.BindTexture(slot, native, sb.stages)
		}
	}
}

func textureDesc(kind driver.TextureKind, w, h, depth int, format TextureFormat, flags TextureFlags) driver.TextureDesc {
	return driver.TextureDesc{
		Kind:         kind,
		Width:        w,
		Height:       h,
		Depth:        depth,
		Format:       format,
		Mipmaps:      flags&TextureMipmaps != 0,
		RenderTarget: flags&TextureRenderTarget != 0,
	}
}

// Texture2D is a two-dimensional texture.
type Texture2D struct {
	texture
	// owner is set for the color texture of a render target.
	owner *RenderTarget2D
}

// CreateTexture2D creates a width×height texture. pixels may be nil;
// otherwise it must hold at least width*height texels of format.
func (d *Device) CreateTexture2D(width, height int, format TextureFormat, flags TextureFlags, pixels []byte) (*Texture2D, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if err := checkTextureArgs(width, height, 1, format, pixels); err != nil {
		return nil, d.fail(err)
	}
	desc := textureDesc(driver.Texture2D, width, height, 1, format, flags)
	var data [][]byte
	if pixels != nil {
		data = [][]byte{pixels[:width*height*format.BytesPerPixel()]}
	}
	native, err := d.native.NewTexture(desc, data)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: texture %dx%d: %w", ErrBackend, width, height, err))
	}
	t := &Texture2D{texture: texture{native: native, desc: desc}}
	d.track(t, kindTexture)
	return t, nil
}

func checkTextureArgs(w, h, depth int, format TextureFormat, pixels []byte) error {
	if w <= 0 || h <= 0 || depth <= 0 {
		return fmt.Errorf("%w: texture size %dx%dx%d", ErrInvalidArgument, w, h, depth)
	}
	if !format.Valid() {
		return fmt.Errorf("%w: texture format %v", ErrInvalidArgument, format)
	}
	if need := w * h * depth * format.BytesPerPixel(); pixels != nil && len(pixels) < need {
		return fmt.Errorf("%w: %d bytes of pixel data, need %d", ErrInvalidArgument, len(pixels), need)
	}
	return nil
}

func (t *texture) check() error {
	if t.dev == nil || t.destroyed {
		return ErrDestroyed
	}
	return t.dev.ready()
}

// SetData replaces the w×h block at (x, y).
func (t *Texture2D) SetData(x, y, w, h int, pixels []byte) error {
	if t == nil {
		return ErrDestroyed
	}
	if err := t.check(); err != nil {
		return err
	}
	return t.upload(x, y, 0, w, h, pixels)
}

func (t *texture) upload(x, y, z, w, h int, pixels []byte) error {
	d := t.dev
	switch {
	case w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > t.desc.Width || y+h > t.desc.Height:
		return d.fail(fmt.Errorf("%w: region %d,%d %dx%d outside %dx%d texture",
			ErrInvalidArgument, x, y, w, h, t.desc.Width, t.desc.Height))
	case len(pixels) < w*h*t.desc.Format.BytesPerPixel():
		return d.fail(fmt.Errorf("%w: %d bytes for %dx%d region", ErrInvalidArgument, len(pixels), w, h))
	}
	if err := t.native.Upload(x, y, z, w, h, pixels); err != nil {
		return d.fail(fmt.Errorf("%w: texture upload: %w", ErrBackend, err))
	}
	return nil
}

// Pixels reads mip 0 back from the GPU.
func (t *Texture2D) Pixels() ([]byte, error) {
	if t == nil {
		return nil, ErrDestroyed
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	buf := make([]byte, t.desc.Width*t.desc.Height*t.desc.Format.BytesPerPixel())
	if err := t.native.ReadPixels(buf); err != nil {
		return nil, t.dev.fail(fmt.Errorf("%w: read pixels: %w", ErrBackend, err))
	}
	return buf, nil
}

// WriteToFile reads the texture back and writes it as an uncompressed
// 32-bit TGA file. Only FormatColor textures can be written.
func (t *Texture2D) WriteToFile(name string) error {
	return t.writeTGA(name, false)
}

// WriteToFileCompressed is WriteToFile with run-length encoding.
func (t *Texture2D) WriteToFileCompressed(name string) error {
	return t.writeTGA(name, true)
}

func (t *Texture2D) writeTGA(name string, compress bool) error {
	if t == nil {
		return ErrDestroyed
	}
	if t.desc.Format != FormatColor {
		return fmt.Errorf("%w: write %v texture", ErrUnsupported, t.desc.Format)
	}
	pix, err := t.Pixels()
	if err != nil {
		return err
	}
	m := &tga.Image{Width: t.desc.Width, Height: t.desc.Height, Channels: 4, Pix: pix}
	if err := tga.WriteFile(name, m, compress); err != nil {
		return t.dev.fail(fmt.Errorf("gfx: write texture: %w", err))
	}
	return nil
}

// RenderTarget returns the render target owning t, or nil.
func (t *Texture2D) RenderTarget() *RenderTarget2D { return t.owner }

// Destroy releases the texture. The color texture of a live render target
// is released with the render target instead.
func (t *Texture2D) Destroy() {
	if t == nil || t.dev == nil {
		return
	}
	if t.owner != nil && !t.owner.destroyed {
		return
	}
	t.dev.destroy(t)
}

// ResizeTexture2D recreates the storage of t at w×h. Contents are lost.
// Resizing to the current size is a no-op. The color texture of a render
// target is resized together with its render target.
func (d *Device) ResizeTexture2D(t *Texture2D, w, h int) error {
	if err := d.ready(); err != nil {
		return err
	}
	if t == nil || !t.live(d) {
		return d.fail(fmt.Errorf("%w: texture not usable", ErrInvalidArgument))
	}
	if t.owner != nil {
		return d.ResizeRenderTarget2D(t.owner, w, h)
	}
	return d.resizeTexture(&t.texture, w, h)
}

func (d *Device) resizeTexture(t *texture, w, h int) error {
	if w <= 0 || h <= 0 {
		return d.fail(fmt.Errorf("%w: texture size %dx%d", ErrInvalidArgument, w, h))
	}
	if w == t.desc.Width && h == t.desc.Height {
		return nil
	}
	desc := t.desc
	desc.Width, desc.Height = w, h
	native, err := d.native.NewTexture(desc, nil)
	if err != nil {
		return d.fail(fmt.Errorf("%w: resize texture to %dx%d: %w", ErrBackend, w, h, err))
	}
	t.replace(native, desc)
	return nil
}

// Texture3D is a volume texture.
type Texture3D struct {
	texture
}

// CreateTexture3D creates a width×height×depth texture. pixels holds the
// slices back to back and may be nil.
func (d *Device) CreateTexture3D(width, height, depth int, format TextureFormat, flags TextureFlags, pixels []byte) (*Texture3D, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if err := checkTextureArgs(width, height, depth, format, pixels); err != nil {
		return nil, d.fail(err)
	}
	flags &^= TextureRenderTarget
	desc := textureDesc(driver.Texture3D, width, height, depth, format, flags)
	var data [][]byte
	if pixels != nil {
		slice := width * height * format.BytesPerPixel()
		data = make([][]byte, depth)
		for z := range data {
			data[z] = pixels[z*slice : (z+1)*slice]
		}
	}
	native, err := d.native.NewTexture(desc, data)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: texture %dx%dx%d: %w", ErrBackend, width, height, depth, err))
	}
	t := &Texture3D{texture: texture{native: native, desc: desc}}
	d.track(t, kindTexture)
	return t, nil
}

// Depth returns the slice count.
func (t *Texture3D) Depth() int { return t.desc.Depth }

// SetData replaces the w×h block at (x, y) of slice z.
func (t *Texture3D) SetData(x, y, z, w, h int, pixels []byte) error {
	if t == nil {
		return ErrDestroyed
	}
	if err := t.check(); err != nil {
		return err
	}
	if z < 0 || z >= t.desc.Depth {
		return t.dev.fail(fmt.Errorf("%w: slice %d of %d", ErrInvalidArgument, z, t.desc.Depth))
	}
	return t.upload(x, y, z, w, h, pixels)
}

// Destroy releases the texture. It is safe to call more than once.
func (t *Texture3D) Destroy() {
	if t == nil || t.dev == nil {
		return
	}
	t.dev.destroy(t)
}

// CubeFace indexes the faces of a cube texture.
type CubeFace int

// Cube faces in native order.
const (
	CubePositiveX CubeFace = iota
	CubeNegativeX
	CubePositiveY
	CubeNegativeY
	CubePositiveZ
	CubeNegativeZ
)

// TextureCube is a six-faced RGBA8 cube map.
type TextureCube struct {
	texture
}

// CreateTextureCube creates a cube map from six width×height RGBA8 faces.
// Every face is required.
func (d *Device) CreateTextureCube(width, height int, posX, negX, posY, negY, posZ, negZ []byte) (*TextureCube, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	faces := [][]byte{posX, negX, posY, negY, posZ, negZ}
	for i, f := range faces {
		if f == nil {
			return nil, d.fail(fmt.Errorf("%w: cube face %d missing", ErrInvalidArgument, i))
		}
		if err := checkTextureArgs(width, height, 1, FormatColor, f); err != nil {
			return nil, d.fail(fmt.Errorf("cube face %d: %w", i, err))
		}
		faces[i] = f[:width*height*4]
	}
	desc := textureDesc(driver.TextureCube, width, height, 1, FormatColor, 0)
	native, err := d.native.NewTexture(desc, faces)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: cube texture %dx%d: %w", ErrBackend, width, height, err))
	}
	t := &TextureCube{texture: texture{native: native, desc: desc}}
	d.track(t, kindTexture)
	return t, nil
}

// SetData replaces the w×h block at (x, y) of one face.
func (t *TextureCube) SetData(face CubeFace, x, y, w, h int, pixels []byte) error {
	if t == nil {
		return ErrDestroyed
	}
	if err := t.check(); err != nil {
		return err
	}
	if face < CubePositiveX || face > CubeNegativeZ {
		return t.dev.fail(fmt.Errorf("%w: cube face %d", ErrInvalidArgument, face))
	}
	return t.upload(x, y, int(face), w, h, pixels)
}

// Destroy releases the texture. It is safe to call more than once.
func (t *TextureCube) Destroy() {
	if t == nil || t.dev == nil {
		return
	}
	t.dev.destroy(t)
}
