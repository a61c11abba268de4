// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// API identifies a native graphics API.
type API uint8

const (
	// Unknown is the zero API.
	Unknown API = iota
	// OpenGL is the OpenGL 4.2 backend.
	OpenGL
	// Direct3D11 is the Direct3D 11 backend.
	Direct3D11
)

// String returns the registry name of the API.
func (a API) String() string {
	switch a {
	case OpenGL:
		return "gl"
	case Direct3D11:
		return "d3d11"
	default:
		return "unknown"
	}
}

// ShaderStage is a bit set of programmable pipeline stages.
type ShaderStage uint8

const (
	StageVertex ShaderStage = 1 << iota
	StageGeometry
	StagePixel

	// StageAll selects every stage.
	StageAll = StageVertex | StageGeometry | StagePixel
)

// Has reports whether s includes every stage in other.
func (s ShaderStage) Has(other ShaderStage) bool { return s&other == other && other != 0 }

// String returns a readable stage list.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageGeometry:
		return "geometry"
	case StagePixel:
		return "pixel"
	case StageAll:
		return "all"
	case 0:
		return "none"
	}
	return fmt.Sprintf("ShaderStage(%#x)", uint8(s))
}

// Stages lists the individual stages in s in pipeline order.
func (s ShaderStage) Stages() []ShaderStage {
	var out []ShaderStage
	for _, st := range []ShaderStage{StageVertex, StageGeometry, StagePixel} {
		if s&st != 0 {
			out = append(out, st)
		}
	}
	return out
}

// ClearFlags selects which buffers Clear touches.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil
)

// TextureFormat is the pixel format of a color texture.
type TextureFormat uint8

const (
	// FormatColor is 8-bit RGBA, unsigned normalized.
	FormatColor TextureFormat = iota
	// FormatR32Float is a single 32-bit float channel.
	FormatR32Float
	// FormatRGB32Float is three 32-bit float channels.
	FormatRGB32Float
	// FormatRGBA32Float is four 32-bit float channels.
	FormatRGBA32Float
)

// BytesPerPixel returns the size of one texel, or 0 for unknown formats.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatColor, FormatR32Float:
		return 4
	case FormatRGB32Float:
		return 12
	case FormatRGBA32Float:
		return 16
	}
	return 0
}

// Valid reports whether f is a known format.
func (f TextureFormat) Valid() bool { return f.BytesPerPixel() != 0 }

// GPUType maps f to the shared WebGPU vocabulary. RGB32Float has no
// counterpart and maps to TextureFormatUndefined.
func (f TextureFormat) GPUType() gputypes.TextureFormat {
	switch f {
	case FormatColor:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatR32Float:
		return gputypes.TextureFormatR32Float
	case FormatRGBA32Float:
		return gputypes.TextureFormatRGBA32Float
	}
	return gputypes.TextureFormatUndefined
}

func (f TextureFormat) String() string {
	switch f {
	case FormatColor:
		return "Color"
	case FormatR32Float:
		return "R32Float"
	case FormatRGB32Float:
		return "RGB32Float"
	case FormatRGBA32Float:
		return "RGBA32Float"
	}
	return fmt.Sprintf("TextureFormat(%d)", uint8(f))
}

// DepthStencilFormat is the format of an optional depth-stencil buffer.
type DepthStencilFormat uint8

const (
	// DepthNone disables the depth-stencil buffer.
	DepthNone DepthStencilFormat = iota
	// Depth24Stencil8 is 24-bit depth with 8-bit stencil.
	Depth24Stencil8
)

// GPUType maps d to the shared WebGPU vocabulary.
func (d DepthStencilFormat) GPUType() gputypes.TextureFormat {
	if d == Depth24Stencil8 {
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	return gputypes.TextureFormatUndefined
}

// TextureKind is the dimensionality of a texture.
type TextureKind uint8

const (
	Texture2D TextureKind = iota
	Texture3D
	TextureCube
)

// TextureDesc describes a native texture.
type TextureDesc struct {
	Kind          TextureKind
	Width, Height int
	// Depth is the slice count of a 3D texture; 1 otherwise.
	Depth        int
	Format       TextureFormat
	Mipmaps      bool
	RenderTarget bool
}

// CubeFaces is the number of faces of a cube texture, ordered
// +X, -X, +Y, -Y, +Z, -Z.
const CubeFaces = 6

// BufferKind is the binding role of a native buffer.
type BufferKind uint8

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	ConstantBuffer
)

// BufferDesc describes a native buffer.
type BufferDesc struct {
	Kind    BufferKind
	Size    int
	Dynamic bool
}

// VertexUsage is the semantic of a vertex element.
type VertexUsage uint8

const (
	UsagePosition VertexUsage = iota
	UsageColor
	UsageTexcoord
	UsageNormal
	UsageBinormal
	UsageTangent
)

// Semantic returns the HLSL semantic name of u.
func (u VertexUsage) Semantic() string {
	switch u {
	case UsagePosition:
		return "POSITION"
	case UsageColor:
		return "COLOR"
	case UsageTexcoord:
		return "TEXCOORD"
	case UsageNormal:
		return "NORMAL"
	case UsageBinormal:
		return "BINORMAL"
	case UsageTangent:
		return "TANGENT"
	}
	return "UNKNOWN"
}

// VertexElement is one attribute of a vertex.
type VertexElement struct {
	Format gputypes.VertexFormat
	Usage  VertexUsage
	// Index distinguishes elements sharing a usage, e.g. TEXCOORD1.
	Index int
}

// Components returns the float count of the element, or 0 if the format
// is not a float format.
func (e VertexElement) Components() int {
	switch e.Format {
	case gputypes.VertexFormatFloat32:
		return 1
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x3:
		return 3
	case gputypes.VertexFormatFloat32x4:
		return 4
	}
	return 0
}

// Size returns the byte size of the element.
func (e VertexElement) Size() int { return e.Components() * 4 }

// VertexLayout is an ordered vertex declaration.
type VertexLayout struct {
	Elements []VertexElement
}

// Stride returns the byte size of one vertex.
func (l VertexLayout) Stride() int {
	n := 0
	for _, e := range l.Elements {
		n += e.Size()
	}
	return n
}

// Offsets returns the byte offset of each element.
func (l VertexLayout) Offsets() []int {
	out := make([]int, len(l.Elements))
	off := 0
	for i, e := range l.Elements {
		out[i] = off
		off += e.Size()
	}
	return out
}

// Viewport is the render viewport in pixels.
type Viewport struct {
	X, Y          int
	Width, Height int
	MinDepth      float32
	MaxDepth      float32
}

// ShaderSource is named shader text or bytecode.
type ShaderSource struct {
	Name string
	Code []byte
}

// IsZero reports whether no source was supplied.
func (s ShaderSource) IsZero() bool { return len(s.Code) == 0 }

// ShaderDesc holds everything needed to build a native shader program.
type ShaderDesc struct {
	Vertex   ShaderSource
	Geometry ShaderSource
	Pixel    ShaderSource
	Layout   VertexLayout
}
