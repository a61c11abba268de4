// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ciri/gfx/driver"
)

func topology(t gputypes.PrimitiveTopology) uint32 {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return _POINTS
	case gputypes.PrimitiveTopologyLineList:
		return _LINES
	case gputypes.PrimitiveTopologyLineStrip:
		return _LINE_STRIP
	case gputypes.PrimitiveTopologyTriangleStrip:
		return _TRIANGLE_STRIP
	}
	return _TRIANGLES
}

func compareFunc(f gputypes.CompareFunction) uint32 {
	switch f {
	case gputypes.CompareFunctionNever:
		return _NEVER
	case gputypes.CompareFunctionLess:
		return _LESS
	case gputypes.CompareFunctionEqual:
		return _EQUAL
	case gputypes.CompareFunctionLessEqual:
		return _LEQUAL
	case gputypes.CompareFunctionGreater:
		return _GREATER
	case gputypes.CompareFunctionNotEqual:
		return _NOTEQUAL
	case gputypes.CompareFunctionGreaterEqual:
		return _GEQUAL
	}
	return _ALWAYS
}

func blendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return _ZERO
	case gputypes.BlendFactorSrc:
		return _SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return _ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return _SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return _ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return _DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return _ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return _DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return _ONE_MINUS_DST_ALPHA
	case gputypes.BlendFactorSrcAlphaSaturated:
		return _SRC_ALPHA_SATURATE
	case gputypes.BlendFactorConstant:
		return _CONSTANT_COLOR
	case gputypes.BlendFactorOneMinusConstant:
		return _ONE_MINUS_CONSTANT_COLOR
	}
	return _ONE
}

func blendOp(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return _FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return _FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return _MIN
	case gputypes.BlendOperationMax:
		return _MAX
	}
	return _FUNC_ADD
}

func stencilOp(op driver.StencilOperation) uint32 {
	switch op {
	case driver.StencilZero:
		return _ZERO
	case driver.StencilReplace:
		return _REPLACE
	case driver.StencilIncrementSaturate:
		return _INCR
	case driver.StencilDecrementSaturate:
		return _DECR
	case driver.StencilInvert:
		return _INVERT
	case driver.StencilIncrement:
		return _INCR_WRAP
	case driver.StencilDecrement:
		return _DECR_WRAP
	}
	return _KEEP
}

func wrapMode(w driver.SamplerWrap) int32 {
	switch w {
	case driver.WrapMirror:
		return _MIRRORED_REPEAT
	case driver.WrapClamp:
		return _CLAMP_TO_EDGE
	case driver.WrapBorder:
		return _CLAMP_TO_BORDER
	case driver.WrapMirrorOnce:
		return _MIRROR_CLAMP_TO_EDGE
	}
	return _REPEAT
}

// filters returns the min and mag filters. Mip selection is part of the
// min filter; textures without mipmaps clamp their max level to 0.
func filters(f driver.SamplerFilter) (minFilter, magFilter int32) {
	switch f {
	case driver.FilterPoint:
		return _NEAREST_MIPMAP_NEAREST, _NEAREST
	case driver.FilterPointLinear:
		return _NEAREST_MIPMAP_NEAREST, _LINEAR
	case driver.FilterLinearPoint:
		return _LINEAR_MIPMAP_NEAREST, _NEAREST
	case driver.FilterBilinear:
		return _LINEAR_MIPMAP_NEAREST, _LINEAR
	}
	return _LINEAR_MIPMAP_LINEAR, _LINEAR
}

// pixelFormat returns the internal format, format and type of f.
func pixelFormat(f driver.TextureFormat) (internal int32, format, typ uint32, ok bool) {
	switch f {
	case driver.FormatColor:
		return _RGBA8, _RGBA, _UNSIGNED_BYTE, true
	case driver.FormatR32Float:
		return _R32F, _RED, _FLOAT, true
	case driver.FormatRGB32Float:
		return _RGB32F, _RGB, _FLOAT, true
	case driver.FormatRGBA32Float:
		return _RGBA32F, _RGBA, _FLOAT, true
	}
	return 0, 0, 0, false
}

func textureTarget(k driver.TextureKind) uint32 {
	switch k {
	case driver.Texture3D:
		return _TEXTURE_3D
	case driver.TextureCube:
		return _TEXTURE_CUBE_MAP
	}
	return _TEXTURE_2D
}
