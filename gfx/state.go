// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/ciri"
	"github.com/gogpu/ciri/gfx/driver"
	"github.com/gogpu/gputypes"
)

// SamplerState is an immutable texture sampler.
type SamplerState struct {
	resource
	native driver.Sampler
	desc   SamplerDesc
}

// Desc returns the descriptor the sampler was created from.
func (s *SamplerState) Desc() SamplerDesc { return s.desc }

// Destroy releases the sampler. It is safe to call more than once.
func (s *SamplerState) Destroy() {
	if s == nil || s.dev == nil {
		return
	}
	s.dev.destroy(s)
}

func (s *SamplerState) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}

// RasterizerState is an immutable rasterizer configuration.
type RasterizerState struct {
	resource
	native driver.State
	desc   RasterizerDesc
}

// Desc returns the descriptor the state was created from.
func (s *RasterizerState) Desc() RasterizerDesc { return s.desc }

// Destroy releases the state. Device presets ignore Destroy.
func (s *RasterizerState) Destroy() {
	if s == nil || s.dev == nil {
		return
	}
	s.dev.destroy(s)
}

func (s *RasterizerState) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}

// DepthStencilState is an immutable depth and stencil configuration.
type DepthStencilState struct {
	resource
	native driver.State
	desc   DepthStencilDesc
}

// Desc returns the descriptor the state was created from.
func (s *DepthStencilState) Desc() DepthStencilDesc { return s.desc }

// Destroy releases the state. Device presets ignore Destroy.
func (s *DepthStencilState) Destroy() {
	if s == nil || s.dev == nil {
		return
	}
	s.dev.destroy(s)
}

func (s *DepthStencilState) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}

// BlendState is an immutable blend configuration.
type BlendState struct {
	resource
	native driver.State
	desc   BlendDesc
}

// Desc returns the descriptor the state was created from.
func (s *BlendState) Desc() BlendDesc { return s.desc }

// Destroy releases the state. Device presets ignore Destroy.
func (s *BlendState) Destroy() {
	if s == nil || s.dev == nil {
		return
	}
	s.dev.destroy(s)
}

func (s *BlendState) release() {
	if s.native != nil {
		s.native.Release()
		s.native = nil
	}
}

// CreateSamplerState creates a sampler.
func (d *Device) CreateSamplerState(desc SamplerDesc) (*SamplerState, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if desc.MaxAnisotropy < 1 || desc.MaxAnisotropy > 16 {
		return nil, d.fail(fmt.Errorf("%w: max anisotropy %d outside [1, 16]", ErrInvalidArgument, desc.MaxAnisotropy))
	}
	if desc.MinLOD > desc.MaxLOD {
		return nil, d.fail(fmt.Errorf("%w: min LOD %g above max LOD %g", ErrInvalidArgument, desc.MinLOD, desc.MaxLOD))
	}
	native, err := d.native.NewSampler(desc)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: sampler: %w", ErrBackend, err))
	}
	s := &SamplerState{native: native, desc: desc}
	d.track(s, kindState)
	return s, nil
}

// CreateRasterizerState creates a rasterizer state.
func (d *Device) CreateRasterizerState(desc RasterizerDesc) (*RasterizerState, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	native, err := d.native.NewRasterizerState(desc)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: rasterizer state: %w", ErrBackend, err))
	}
	s := &RasterizerState{native: native, desc: desc}
	d.track(s, kindState)
	return s, nil
}

// CreateDepthStencilState creates a depth-stencil state.
func (d *Device) CreateDepthStencilState(desc DepthStencilDesc) (*DepthStencilState, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	native, err := d.native.NewDepthStencilState(desc)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: depth-stencil state: %w", ErrBackend, err))
	}
	s := &DepthStencilState{native: native, desc: desc}
	d.track(s, kindState)
	return s, nil
}

// CreateBlendState creates a blend state.
func (d *Device) CreateBlendState(desc BlendDesc) (*BlendState, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	native, err := d.native.NewBlendState(desc)
	if err != nil {
		return nil, d.fail(fmt.Errorf("%w: blend state: %w", ErrBackend, err))
	}
	s := &BlendState{native: native, desc: desc}
	d.track(s, kindState)
	return s, nil
}

// presets are the named states built by Create.
type presets struct {
	blendAdditive  *BlendState
	blendAlpha     *BlendState
	blendNonPremul *BlendState
	blendOpaque    *BlendState

	rasterNone *RasterizerState
	rasterCW   *RasterizerState
	rasterCCW  *RasterizerState

	depthDefault *DepthStencilState
	depthRead    *DepthStencilState
	depthNone    *DepthStencilState
}

func blendPreset(src, dst gputypes.BlendFactor) BlendDesc {
	desc := DefaultBlendDesc()
	desc.SrcColor, desc.DstColor = src, dst
	desc.SrcAlpha, desc.DstAlpha = src, dst
	return desc
}

func (d *Device) createPresets() error {
	var err error
	blend := func(desc BlendDesc) *BlendState {
		if err != nil {
			return nil
		}
		var s *BlendState
		s, err = d.CreateBlendState(desc)
		if s != nil {
			s.builtin = true
		}
		return s
	}
	raster := func(desc RasterizerDesc) *RasterizerState {
		if err != nil {
			return nil
		}
		var s *RasterizerState
		s, err = d.CreateRasterizerState(desc)
		if s != nil {
			s.builtin = true
		}
		return s
	}
	depth := func(desc DepthStencilDesc) *DepthStencilState {
		if err != nil {
			return nil
		}
		var s *DepthStencilState
		s, err = d.CreateDepthStencilState(desc)
		if s != nil {
			s.builtin = true
		}
		return s
	}

	p := &d.presets
	p.blendAdditive = blend(blendPreset(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOne))
	p.blendAlpha = blend(blendPreset(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha))
	p.blendNonPremul = blend(blendPreset(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha))
	p.blendOpaque = blend(DefaultBlendDesc())

	none := DefaultRasterizerDesc()
	none.CullMode = gputypes.CullModeNone
	cw := DefaultRasterizerDesc()
	cw.FrontFace = gputypes.FrontFaceCCW
	p.rasterNone = raster(none)
	p.rasterCW = raster(cw)
	p.rasterCCW = raster(DefaultRasterizerDesc())

	read := DefaultDepthStencilDesc()
	read.DepthWrite = false
	off := DefaultDepthStencilDesc()
	off.DepthEnable = false
	off.DepthWrite = false
	p.depthDefault = depth(DefaultDepthStencilDesc())
	p.depthRead = depth(read)
	p.depthNone = depth(off)

	if err != nil {
		return fmt.Errorf("gfx: default states: %w", err)
	}
	return nil
}

// BlendAdditive adds source to destination weighted by source alpha.
func (d *Device) BlendAdditive() *BlendState { return d.presets.blendAdditive }

// BlendAlpha blends premultiplied-alpha sources.
func (d *Device) BlendAlpha() *BlendState { return d.presets.blendAlpha }

// BlendNonPremul blends straight-alpha sources.
func (d *Device) BlendNonPremul() *BlendState { return d.presets.blendNonPremul }

// BlendOpaque replaces the destination.
func (d *Device) BlendOpaque() *BlendState { return d.presets.blendOpaque }

// RasterNone disables culling.
func (d *Device) RasterNone() *RasterizerState { return d.presets.rasterNone }

// RasterClockwise culls clockwise triangles.
func (d *Device) RasterClockwise() *RasterizerState { return d.presets.rasterCW }

// RasterCounterClockwise culls counter-clockwise triangles. It is the
// default rasterizer state.
func (d *Device) RasterCounterClockwise() *RasterizerState { return d.presets.rasterCCW }

// DepthStencilDefault tests and writes depth.
func (d *Device) DepthStencilDefault() *DepthStencilState { return d.presets.depthDefault }

// DepthStencilRead tests depth without writing it.
func (d *Device) DepthStencilRead() *DepthStencilState { return d.presets.depthRead }

// DepthStencilNone disables depth.
func (d *Device) DepthStencilNone() *DepthStencilState { return d.presets.depthNone }

// SetBlendState makes s the active blend state. A nil s applies
// BlendOpaque. Setting the active state again is a no-op.
func (d *Device) SetBlendState(s *BlendState) {
	if d.ready() != nil {
		return
	}
	if s == nil {
		s = d.presets.blendOpaque
	}
	if !s.live(d) {
		d.fail(fmt.Errorf("%w: blend state not usable", ErrInvalidArgument))
		return
	}
	if d.bound.blend == s.handle {
		ciri.Logger().Debug("gfx: blend state unchanged", "id", s.id)
		return
	}
	d.native.SetBlendState(s.native)
	d.bound.blend = s.handle
}

// SetRasterizerState makes s the active rasterizer state. A nil s applies
// RasterCounterClockwise. Setting the active state again is a no-op.
func (d *Device) SetRasterizerState(s *RasterizerState) {
	if d.ready() != nil {
		return
	}
	if s == nil {
		s = d.presets.rasterCCW
	}
	if !s.live(d) {
		d.fail(fmt.Errorf("%w: rasterizer state not usable", ErrInvalidArgument))
		return
	}
	if d.bound.raster == s.handle {
		ciri.Logger().Debug("gfx: rasterizer state unchanged", "id", s.id)
		return
	}
	d.native.SetRasterizerState(s.native)
	d.bound.raster = s.handle
}

// SetDepthStencilState makes s the active depth-stencil state. A nil s
// applies DepthStencilDefault. Setting the active state again is a no-op.
func (d *Device) SetDepthStencilState(s *DepthStencilState) {
	if d.ready() != nil {
		return
	}
	if s == nil {
		s = d.presets.depthDefault
	}
	if !s.live(d) {
		d.fail(fmt.Errorf("%w: depth-stencil state not usable", ErrInvalidArgument))
		return
	}
	if d.bound.depth == s.handle {
		ciri.Logger().Debug("gfx: depth-stencil state unchanged", "id", s.id)
		return
	}
	d.native.SetDepthStencilState(s.native)
	d.bound.depth = s.handle
}

// BlendState returns the active blend state.
func (d *Device) BlendState() *BlendState { return lookup[*BlendState](d, d.bound.blend) }

// RasterizerState returns the active rasterizer state.
func (d *Device) RasterizerState() *RasterizerState {
	return lookup[*RasterizerState](d, d.bound.raster)
}

// DepthStencilState returns the active depth-stencil state.
func (d *Device) DepthStencilState() *DepthStencilState {
	return lookup[*DepthStencilState](d, d.bound.depth)
}

// RestoreDefaultBlendState applies BlendOpaque.
func (d *Device) RestoreDefaultBlendState() { d.SetBlendState(nil) }

// RestoreDefaultRasterizerState applies RasterCounterClockwise.
func (d *Device) RestoreDefaultRasterizerState() { d.SetRasterizerState(nil) }

// RestoreDefaultDepthStencilState applies DepthStencilDefault.
func (d *Device) RestoreDefaultDepthStencilState() { d.SetDepthStencilState(nil) }

// RestoreDefaultStates applies the default blend, rasterizer and
// depth-stencil states.
func (d *Device) RestoreDefaultStates() {
	d.RestoreDefaultBlendState()
	d.RestoreDefaultRasterizerState()
	d.RestoreDefaultDepthStencilState()
}
