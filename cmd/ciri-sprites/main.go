// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command ciri-sprites bounces textured sprites around a window with
// game.SpriteBatch and prints the draw statistics with a sprite font.
//
// Usage:
//
//	ciri-sprites [-config demo.yaml] [-api gl|d3d11] [-sprites n] [-frames n] [-v]
//
// Space pauses, F1 cycles the sort mode, Up and Down change the sprite
// count and Escape quits.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/content"
	"github.com/gogpu/ciri/game"
	"github.com/gogpu/ciri/gfx"
	_ "github.com/gogpu/ciri/gfx/d3d11"
	_ "github.com/gogpu/ciri/gfx/gl"
	"github.com/gogpu/ciri/wnd"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		api        = flag.String("api", "", "graphics API: gl or d3d11")
		sprites    = flag.Int("sprites", -1, "sprite count")
		frames     = flag.Int("frames", 0, "exit after this many frames, 0 runs until closed")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, int(os.Stderr.Fd()), level)
	ciri.SetLogger(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *api != "" {
		cfg.API = *api
	}
	if *sprites >= 0 {
		cfg.Sprites = *sprites
	}
	if err := cfg.validate(); err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, *frames, logger); err != nil {
		logger.Error("ciri-sprites failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, frames int, logger *slog.Logger) error {
	api, err := cfg.backend()
	if err != nil {
		return err
	}
	bg := game.Hex(cfg.Background)

	win, err := wnd.New(wnd.Config{Title: cfg.Title, Width: cfg.Width, Height: cfg.Height, Resizable: true})
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := gfx.NewDevice(api, gfx.WithVSync(cfg.vsync()), gfx.WithClearColor(bg.R, bg.G, bg.B, 1))
	if err != nil {
		return err
	}
	if err := dev.Create(win); err != nil {
		return err
	}
	defer dev.Destroy()

	assets := content.NewManager(dev, os.DirFS(cfg.Assets))
	defer assets.Destroy()

	sc, err := newScene(dev, assets, cfg)
	if err != nil {
		return err
	}
	defer sc.Destroy()

	logger.Info("running", "api", dev.API().String(), "gpu", dev.GPUName(), "sprites", cfg.Sprites)
	last := time.Now()
	for n := 0; frames == 0 || n < frames; n++ {
		if !win.Poll() {
			return nil
		}
		for _, e := range win.Events() {
			switch e.Kind {
			case wnd.EventResize:
				if err := dev.Resize(); err != nil {
					logger.Warn("resize failed", "error", err)
				}
			case wnd.EventKeyDown:
				if e.Key == wnd.KeyEscape {
					return nil
				}
				if !e.Repeat {
					sc.HandleKey(e.Key)
				}
			case wnd.EventClose:
				return nil
			}
		}
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		w, h := dev.Size()
		sc.Update(dt, w, h)
		dev.Clear(gfx.ClearColor | gfx.ClearDepth)
		if err := sc.Draw(); err != nil {
			return err
		}
		if err := dev.Present(); err != nil {
			return err
		}
	}
	return nil
}
