// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ciri/game"
	"github.com/gogpu/ciri/gfx"
)

// maxConfigSize bounds the config file read.
const maxConfigSize = 1 << 20

// Config is the demo configuration, read from YAML.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// API is "gl" or "d3d11". Empty picks d3d11 on Windows and gl
	// elsewhere.
	API     string `yaml:"api"`
	Sprites int    `yaml:"sprites"`
	// VSync is a pointer to tell unset from false.
	VSync *bool `yaml:"vsync"`
	// Assets is the directory textures and fonts are read from.
	Assets string `yaml:"assets"`
	// Texture is the sprite image inside Assets. Empty draws a generated
	// ball.
	Texture    string `yaml:"texture"`
	Font       string `yaml:"font"`
	FontSize   int    `yaml:"font_size"`
	Sort       string `yaml:"sort"`
	Background string `yaml:"background"`
	Seed       uint64 `yaml:"seed"`
}

func defaultConfig() Config {
	return Config{
		Title:      "ciri sprites",
		Width:      1024,
		Height:     768,
		Sprites:    1000,
		Assets:     ".",
		FontSize:   18,
		Sort:       game.SortTexture.String(),
		Background: "#1e2433",
		Seed:       1,
	}
}

// loadConfig returns the defaults overlaid with the YAML file at name. An
// empty name returns the defaults.
func loadConfig(name string) (Config, error) {
	cfg := defaultConfig()
	if name == "" {
		return cfg, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return parseConfig(io.LimitReader(f, maxConfigSize), cfg)
}

func parseConfig(r io.Reader, cfg Config) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: invalid window size %dx%d", c.Width, c.Height)
	case c.Sprites < 0:
		return fmt.Errorf("config: negative sprite count %d", c.Sprites)
	case c.FontSize <= 0:
		return fmt.Errorf("config: invalid font size %d", c.FontSize)
	}
	if _, err := c.backend(); err != nil {
		return err
	}
	if _, ok := game.ParseSortMode(c.Sort); !ok {
		return fmt.Errorf("config: unknown sort mode %q", c.Sort)
	}
	return nil
}

// backend returns the graphics API named by c.API.
func (c Config) backend() (gfx.API, error) {
	switch strings.ToLower(c.API) {
	case "":
		if runtime.GOOS == "windows" {
			return gfx.Direct3D11, nil
		}
		return gfx.OpenGL, nil
	case "gl", "opengl":
		return gfx.OpenGL, nil
	case "d3d11", "direct3d11", "dx11":
		return gfx.Direct3D11, nil
	}
	return 0, fmt.Errorf("config: unknown api %q", c.API)
}

func (c Config) vsync() bool { return c.VSync == nil || *c.VSync }

func (c Config) sortMode() game.SortMode {
	m, _ := game.ParseSortMode(c.Sort)
	return m
}
