// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package content

import (
	"fmt"
	"io/fs"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/game/font"
	"github.com/gogpu/ciri/gfx"
)

type fontKey struct {
	name string
	size int
}

// Manager loads assets from a file system once and owns the resulting
// device resources. It is not safe for concurrent use.
type Manager struct {
	dev      *gfx.Device
	fsys     fs.FS
	textures map[string]*gfx.Texture2D
	fonts    map[fontKey]*font.Font
	shaders  map[string]*gfx.Shader
}

// NewManager returns a manager reading from fsys.
func NewManager(dev *gfx.Device, fsys fs.FS) *Manager {
	return &Manager{
		dev:      dev,
		fsys:     fsys,
		textures: make(map[string]*gfx.Texture2D),
		fonts:    make(map[fontKey]*font.Font),
		shaders:  make(map[string]*gfx.Shader),
	}
}

// Texture returns the texture stored at name, loading it on first use.
// Options apply only to the first load.
func (m *Manager) Texture(name string, opts ...TextureOption) (*gfx.Texture2D, error) {
	if t, ok := m.textures[name]; ok && !t.IsDestroyed() {
		return t, nil
	}
	f, err := m.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	defer f.Close()
	img, err := DecodeImage(f, name)
	if err != nil {
		return nil, err
	}
	t, err := TextureFromImage(m.dev, img, opts...)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", name, err)
	}
	ciri.Logger().Debug("content: texture loaded", "name", name, "width", t.Width(), "height", t.Height())
	m.textures[name] = t
	return t, nil
}

// Font returns the font stored at name at the given pixel size. An empty
// name selects the built-in Go Regular font.
func (m *Manager) Font(name string, size int) (*font.Font, error) {
	key := fontKey{name, size}
	if f, ok := m.fonts[key]; ok {
		return f, nil
	}
	var (
		f   *font.Font
		err error
	)
	if name == "" {
		f, err = font.Default(m.dev, font.WithSize(size))
	} else {
		var data []byte
		data, err = fs.ReadFile(m.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}
		f, err = font.New(m.dev, data, font.WithSize(size))
	}
	if err != nil {
		return nil, fmt.Errorf("content: font %q: %w", name, err)
	}
	m.fonts[key] = f
	return f, nil
}

// Shader returns the shader built from base with gfx.Device.LoadShader.
func (m *Manager) Shader(base string, elements ...gfx.VertexElement) (*gfx.Shader, error) {
	if s, ok := m.shaders[base]; ok && !s.IsDestroyed() {
		return s, nil
	}
	s, err := m.dev.LoadShader(m.fsys, base, elements...)
	if err != nil {
		return nil, fmt.Errorf("content: shader %q: %w", base, err)
	}
	m.shaders[base] = s
	return s, nil
}

// Destroy releases every loaded asset. The manager stays usable.
func (m *Manager) Destroy() {
	for name, t := range m.textures {
		t.Destroy()
		delete(m.textures, name)
	}
	for key, f := range m.fonts {
		f.Destroy()
		delete(m.fonts, key)
	}
	for base, s := range m.shaders {
		s.Destroy()
		delete(m.shaders, base)
	}
}
