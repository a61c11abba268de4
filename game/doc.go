// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package game provides 2D rendering helpers built on gfx.
//
// A SpriteBatch accumulates textured quads between Begin and End, sorts
// them, and draws each contiguous run of same-texture sprites with a
// single indexed draw call:
//
//	batch, err := game.NewSpriteBatch(dev)
//	if err != nil {
//	    return err
//	}
//	defer batch.Clean()
//
//	batch.Begin(game.BatchState{Blend: dev.BlendNonPremul(), Sort: game.SortTexture})
//	batch.DrawAt(ship, game.V2(100, 100), 0, game.Vec2{}, game.V2(1, 1), 0)
//	batch.DrawString(font, "score 100", game.V2(10, 580), game.White, 1, 0, 0)
//	batch.End()
//
// Screen coordinates are in pixels with the origin at the bottom-left of
// the viewport and Y growing upward.
package game
