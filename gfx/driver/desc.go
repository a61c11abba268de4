// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"math"

	"github.com/gogpu/gputypes"
)

// SamplerWrap is the texture addressing mode outside [0, 1].
type SamplerWrap uint8

const (
	WrapRepeat SamplerWrap = iota
	WrapMirror
	WrapClamp
	WrapBorder
	WrapMirrorOnce
)

// SamplerFilter selects min, mag and mip filtering together.
type SamplerFilter uint8

const (
	// FilterPoint is point min, mag and mip.
	FilterPoint SamplerFilter = iota
	// FilterPointLinear is point min, linear mag, point mip.
	FilterPointLinear
	// FilterLinearPoint is linear min, point mag, point mip.
	FilterLinearPoint
	// FilterBilinear is linear min and mag, point mip.
	FilterBilinear
	// FilterTrilinear is linear min, mag and mip.
	FilterTrilinear
	// FilterAnisotropic uses anisotropic filtering.
	FilterAnisotropic
)

// SamplerDesc configures a sampler state.
type SamplerDesc struct {
	WrapU, WrapV, WrapW SamplerWrap
	Filter              SamplerFilter
	MaxAnisotropy       int
	BorderColor         [4]float32
	MinLOD, MaxLOD      float32
	LODBias             float32
	Compare             gputypes.CompareFunction
}

// DefaultSamplerDesc returns a repeating bilinear sampler.
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		WrapU:         WrapRepeat,
		WrapV:         WrapRepeat,
		WrapW:         WrapRepeat,
		Filter:        FilterBilinear,
		MaxAnisotropy: 1,
		MinLOD:        0,
		MaxLOD:        math.MaxFloat32,
		Compare:       gputypes.CompareFunctionNever,
	}
}

// FillMode selects polygon rasterization.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillWireframe
)

// RasterizerDesc configures a rasterizer state.
//
// CullMode and FrontFace together pick the culled winding: culling back
// faces with clockwise front faces culls counter-clockwise triangles.
type RasterizerDesc struct {
	Fill                 FillMode
	CullMode             gputypes.CullMode
	FrontFace            gputypes.FrontFace
	ScissorTest          bool
	DepthBias            float32
	SlopeScaledDepthBias float32
	DepthClip            bool
	Multisample          bool
}

// DefaultRasterizerDesc culls counter-clockwise triangles.
func DefaultRasterizerDesc() RasterizerDesc {
	return RasterizerDesc{
		Fill:      FillSolid,
		CullMode:  gputypes.CullModeBack,
		FrontFace: gputypes.FrontFaceCW,
		DepthClip: true,
	}
}

// StencilOperation is the action applied to the stencil buffer.
type StencilOperation uint8

const (
	StencilKeep StencilOperation = iota
	StencilZero
	StencilReplace
	StencilIncrementSaturate
	StencilDecrementSaturate
	StencilInvert
	StencilIncrement
	StencilDecrement
)

// StencilFace is the stencil configuration for one face.
type StencilFace struct {
	Fail      StencilOperation
	DepthFail StencilOperation
	Pass      StencilOperation
	Compare   gputypes.CompareFunction
}

// DepthStencilDesc configures a depth-stencil state.
type DepthStencilDesc struct {
	DepthEnable      bool
	DepthWrite       bool
	DepthCompare     gputypes.CompareFunction
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	StencilRef       int
	// TwoSided applies Back to back-facing triangles; otherwise Front is
	// used for both.
	TwoSided bool
	Front    StencilFace
	Back     StencilFace
}

func defaultStencilFace() StencilFace {
	return StencilFace{
		Fail:      StencilKeep,
		DepthFail: StencilKeep,
		Pass:      StencilKeep,
		Compare:   gputypes.CompareFunctionAlways,
	}
}

// DefaultDepthStencilDesc enables depth test and write with LessEqual.
func DefaultDepthStencilDesc() DepthStencilDesc {
	return DepthStencilDesc{
		DepthEnable:      true,
		DepthWrite:       true,
		DepthCompare:     gputypes.CompareFunctionLessEqual,
		StencilReadMask:  0xff,
		StencilWriteMask: 0xff,
		TwoSided:         true,
		Front:            defaultStencilFace(),
		Back:             defaultStencilFace(),
	}
}

// BlendDesc configures a blend state.
type BlendDesc struct {
	SrcColor   gputypes.BlendFactor
	DstColor   gputypes.BlendFactor
	ColorOp    gputypes.BlendOperation
	SrcAlpha   gputypes.BlendFactor
	DstAlpha   gputypes.BlendFactor
	AlphaOp    gputypes.BlendOperation
	WriteMask  gputypes.ColorWriteMask
	BlendColor [4]float32
}

// DefaultBlendDesc is opaque: source replaces destination.
func DefaultBlendDesc() BlendDesc {
	return BlendDesc{
		SrcColor:  gputypes.BlendFactorOne,
		DstColor:  gputypes.BlendFactorZero,
		ColorOp:   gputypes.BlendOperationAdd,
		SrcAlpha:  gputypes.BlendFactorOne,
		DstAlpha:  gputypes.BlendFactorZero,
		AlphaOp:   gputypes.BlendOperationAdd,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}

// BlendingEnabled reports whether d changes the destination in any way
// other than plain replacement.
func (d BlendDesc) BlendingEnabled() bool {
	return !(d.SrcColor == gputypes.BlendFactorOne && d.DstColor == gputypes.BlendFactorZero &&
		d.SrcAlpha == gputypes.BlendFactorOne && d.DstAlpha == gputypes.BlendFactorZero &&
		d.ColorOp == gputypes.BlendOperationAdd && d.AlphaOp == gputypes.BlendOperationAdd)
}
