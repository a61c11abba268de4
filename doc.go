// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ciri is a small real-time graphics layer with one object model
// over Direct3D 11 and OpenGL.
//
// # Overview
//
// The module is organized into:
//   - gfx: the graphics device, its resources and render states
//   - gfx/gl, gfx/d3d11: native backends, registered from init
//   - game: SpriteBatch and the SpriteFont contract
//   - game/font: TrueType sprite fonts rasterized on demand
//   - tga, content: texture loading and saving
//   - wnd: the window collaborator
//   - cmd/ciri-sprites: a bouncing sprites demo
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ciri/game"
//	    "github.com/gogpu/ciri/gfx"
//	    _ "github.com/gogpu/ciri/gfx/gl"
//	)
//
//	dev, err := gfx.NewDevice(gfx.OpenGL)
//	if err != nil {
//	    return err
//	}
//	if err := dev.Create(window); err != nil {
//	    return err
//	}
//	defer dev.Destroy()
//
//	sb, err := game.NewSpriteBatch(dev)
//	...
//	sb.Begin(game.BatchState{Blend: dev.BlendAlpha()})
//	sb.DrawAt(tex, pos, 0, game.Vec2{}, game.Vec2{X: 1, Y: 1}, 0)
//	sb.End()
//	dev.Present()
//
// # Logging
//
// ciri is silent by default. Call [SetLogger] to route diagnostics from
// every sub-package to an [log/slog.Logger].
package ciri
