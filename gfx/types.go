// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/ciri/gfx/driver"

// API identifies a native graphics API.
type API = driver.API

// Supported APIs.
const (
	OpenGL     = driver.OpenGL
	Direct3D11 = driver.Direct3D11
)

// ShaderStage is a bit set of shader stages.
type ShaderStage = driver.ShaderStage

// Shader stages.
const (
	StageVertex   = driver.StageVertex
	StageGeometry = driver.StageGeometry
	StagePixel    = driver.StagePixel
	StageAll      = driver.StageAll
)

// ClearFlags selects the buffers cleared by Device.Clear.
type ClearFlags = driver.ClearFlags

// Clear flags.
const (
	ClearColor   = driver.ClearColor
	ClearDepth   = driver.ClearDepth
	ClearStencil = driver.ClearStencil
)

// TextureFormat is the pixel format of a color texture.
type TextureFormat = driver.TextureFormat

// Texture formats.
const (
	FormatColor       = driver.FormatColor
	FormatR32Float    = driver.FormatR32Float
	FormatRGB32Float  = driver.FormatRGB32Float
	FormatRGBA32Float = driver.FormatRGBA32Float
)

// DepthStencilFormat is the format of a depth-stencil buffer.
type DepthStencilFormat = driver.DepthStencilFormat

// Depth-stencil formats.
const (
	DepthNone       = driver.DepthNone
	Depth24Stencil8 = driver.Depth24Stencil8
)

// TextureFlags are optional texture creation flags.
type TextureFlags uint8

const (
	// TextureMipmaps generates a full mip chain.
	TextureMipmaps TextureFlags = 1 << iota
	// TextureRenderTarget allows the texture to be rendered to.
	TextureRenderTarget
)

// VertexUsage is the semantic of a vertex element.
type VertexUsage = driver.VertexUsage

// Vertex usages.
const (
	UsagePosition = driver.UsagePosition
	UsageColor    = driver.UsageColor
	UsageTexcoord = driver.UsageTexcoord
	UsageNormal   = driver.UsageNormal
	UsageBinormal = driver.UsageBinormal
	UsageTangent  = driver.UsageTangent
)

// VertexElement is one vertex attribute.
type VertexElement = driver.VertexElement

// VertexLayout is an ordered vertex declaration.
type VertexLayout = driver.VertexLayout

// Viewport is the render viewport in pixels.
type Viewport = driver.Viewport

// ShaderSource is named shader text or bytecode.
type ShaderSource = driver.ShaderSource

// Render state descriptors.
type (
	SamplerDesc      = driver.SamplerDesc
	RasterizerDesc   = driver.RasterizerDesc
	DepthStencilDesc = driver.DepthStencilDesc
	BlendDesc        = driver.BlendDesc
	StencilFace      = driver.StencilFace
)

// Sampler modes.
const (
	WrapRepeat     = driver.WrapRepeat
	WrapMirror     = driver.WrapMirror
	WrapClamp      = driver.WrapClamp
	WrapBorder     = driver.WrapBorder
	WrapMirrorOnce = driver.WrapMirrorOnce

	FilterPoint       = driver.FilterPoint
	FilterPointLinear = driver.FilterPointLinear
	FilterLinearPoint = driver.FilterLinearPoint
	FilterBilinear    = driver.FilterBilinear
	FilterTrilinear   = driver.FilterTrilinear
	FilterAnisotropic = driver.FilterAnisotropic
)

// Fill modes.
const (
	FillSolid     = driver.FillSolid
	FillWireframe = driver.FillWireframe
)

// DefaultSamplerDesc returns a repeating bilinear sampler.
func DefaultSamplerDesc() SamplerDesc { return driver.DefaultSamplerDesc() }

// DefaultRasterizerDesc returns solid fill culling counter-clockwise
// triangles.
func DefaultRasterizerDesc() RasterizerDesc { return driver.DefaultRasterizerDesc() }

// DefaultDepthStencilDesc returns depth test and write with LessEqual and
// stencil disabled.
func DefaultDepthStencilDesc() DepthStencilDesc { return driver.DefaultDepthStencilDesc() }

// DefaultBlendDesc returns opaque blending.
func DefaultBlendDesc() BlendDesc { return driver.DefaultBlendDesc() }

// Descriptor enums.
type (
	SamplerWrap      = driver.SamplerWrap
	SamplerFilter    = driver.SamplerFilter
	FillMode         = driver.FillMode
	StencilOperation = driver.StencilOperation
)

// Stencil operations.
const (
	StencilKeep              = driver.StencilKeep
	StencilZero              = driver.StencilZero
	StencilReplace           = driver.StencilReplace
	StencilIncrementSaturate = driver.StencilIncrementSaturate
	StencilDecrementSaturate = driver.StencilDecrementSaturate
	StencilInvert            = driver.StencilInvert
	StencilIncrement         = driver.StencilIncrement
	StencilDecrement         = driver.StencilDecrement
)
