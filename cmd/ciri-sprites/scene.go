// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/gogpu/ciri/content"
	"github.com/gogpu/ciri/game"
	"github.com/gogpu/ciri/gfx"
	"github.com/gogpu/ciri/wnd"
)

const (
	ballSize   = 32
	spriteStep = 100
	maxSprites = 100000
	margin     = 8
)

type sprite struct {
	pos, vel  game.Vec2
	rot, spin float32
	depth     float32
	tint      game.Color
}

// scene bounces sprites around the backbuffer and draws a status line.
type scene struct {
	dev   *gfx.Device
	batch *game.SpriteBatch
	font  game.SpriteFont
	tex   *gfx.Texture2D
	// ownTex is set when tex was generated rather than loaded by the
	// content manager.
	ownTex bool

	rng     *rand.Rand
	sprites []sprite
	sort    game.SortMode
	paused  bool
	fps     fpsCounter
	stats   game.Stats
}

func newScene(dev *gfx.Device, assets *content.Manager, cfg Config) (*scene, error) {
	s := &scene{
		dev:  dev,
		rng:  rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		sort: cfg.sortMode(),
	}
	var err error
	if s.batch, err = game.NewSpriteBatch(dev); err != nil {
		return nil, err
	}
	if cfg.Texture != "" {
		s.tex, err = assets.Texture(cfg.Texture, content.WithPremultiply())
	} else {
		s.tex, err = content.TextureFromImage(dev, ball(ballSize), content.WithPremultiply())
		s.ownTex = true
	}
	if err != nil {
		s.Destroy()
		return nil, err
	}
	f, err := assets.Font(cfg.Font, cfg.FontSize)
	if err != nil {
		s.Destroy()
		return nil, err
	}
	s.font = f
	w, h := dev.Size()
	s.add(cfg.Sprites, w, h)
	return s, nil
}

// ball returns a white disc with a soft edge.
func ball(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r)
			a := math.Max(0, math.Min(1, r-d))
			img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(a * 0xff)})
		}
	}
	return img
}

func (s *scene) add(n, w, h int) {
	for range n {
		angle := s.rng.Float64() * 2 * math.Pi
		speed := 60 + s.rng.Float64()*240
		s.sprites = append(s.sprites, sprite{
			pos:   game.V2(float32(s.rng.Float64()*float64(w)), float32(s.rng.Float64()*float64(h))),
			vel:   game.V2(float32(math.Cos(angle)*speed), float32(math.Sin(angle)*speed)),
			spin:  float32(s.rng.Float64()*4 - 2),
			depth: float32(s.rng.Float64()),
			tint:  game.RGB(0.4+0.6*s.rng.Float32(), 0.4+0.6*s.rng.Float32(), 0.4+0.6*s.rng.Float32()),
		})
	}
}

// HandleKey applies the demo controls: Space pauses, F1 cycles the sort
// mode and Up or Down change the sprite count.
func (s *scene) HandleKey(k wnd.Key) {
	switch k {
	case wnd.KeySpace:
		s.paused = !s.paused
	case wnd.KeyF1:
		s.sort = (s.sort + 1) % (game.SortBackToFront + 1)
	case wnd.KeyUp:
		w, h := s.dev.Size()
		s.add(min(spriteStep, maxSprites-len(s.sprites)), w, h)
	case wnd.KeyDown:
		s.sprites = s.sprites[:max(0, len(s.sprites)-spriteStep)]
	}
}

// Update advances the sprites by dt seconds inside a w x h area.
func (s *scene) Update(dt float64, w, h int) {
	s.fps.tick(dt)
	if s.paused {
		return
	}
	step := float32(dt)
	for i := range s.sprites {
		sp := &s.sprites[i]
		sp.pos = sp.pos.Add(sp.vel.Mul(step))
		sp.pos.X, sp.vel.X = bounce(sp.pos.X, sp.vel.X, float32(w))
		sp.pos.Y, sp.vel.Y = bounce(sp.pos.Y, sp.vel.Y, float32(h))
		sp.rot = float32(math.Mod(float64(sp.rot+sp.spin*step), 2*math.Pi))
	}
}

// bounce reflects p and v off the edges of [0, limit].
func bounce(p, v, limit float32) (float32, float32) {
	switch {
	case p < 0:
		return min(-p, limit), -v
	case p > limit:
		return max(2*limit-p, 0), -v
	}
	return p, v
}

// Draw renders the sprites and then the status line on top.
func (s *scene) Draw() error {
	if err := s.batch.Begin(game.BatchState{Blend: s.dev.BlendAlpha(), Sort: s.sort}); err != nil {
		return err
	}
	origin := game.V2(float32(s.tex.Width())/2, float32(s.tex.Height())/2)
	one := game.V2(1, 1)
	for _, sp := range s.sprites {
		if err := s.batch.DrawColored(s.tex, sp.pos, sp.rot, origin, one, sp.depth, sp.tint); err != nil {
			return err
		}
	}
	if err := s.batch.End(); err != nil {
		return err
	}
	s.stats = s.batch.Stats()

	_, h := s.dev.Size()
	if err := s.batch.Begin(game.BatchState{Blend: s.dev.BlendAlpha()}); err != nil {
		return err
	}
	pos := game.V2(margin, float32(h-margin-s.font.Size()))
	if err := s.batch.DrawString(s.font, s.status(), pos, game.White, 1, 0, 0); err != nil {
		return err
	}
	return s.batch.End()
}

func (s *scene) status() string {
	line := fmt.Sprintf("%d sprites  %d draws  %.0f fps  %s", s.stats.Sprites, s.stats.DrawCalls, s.fps.rate, s.sort)
	if s.paused {
		line += "  paused"
	}
	return fmt.Sprintf("%s  %s\n%s", s.dev.API(), s.dev.GPUName(), line)
}

// Destroy releases the batch and the generated texture. Loaded assets
// belong to the content manager.
func (s *scene) Destroy() {
	if s.batch != nil {
		s.batch.Clean()
	}
	if s.ownTex && s.tex != nil {
		s.tex.Destroy()
	}
}

// fpsCounter averages the frame rate over half second windows.
type fpsCounter struct {
	frames  int
	elapsed float64
	rate    float64
}

func (c *fpsCounter) tick(dt float64) {
	c.frames++
	c.elapsed += dt
	if c.elapsed >= 0.5 {
		c.rate = float64(c.frames) / c.elapsed
		c.frames, c.elapsed = 0, 0
	}
}
