// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d11

const (
	_USAGE_DEFAULT = 0
	_USAGE_DYNAMIC = 2
	_USAGE_STAGING = 3

	_BIND_VERTEX_BUFFER   = 0x1
	_BIND_INDEX_BUFFER    = 0x2
	_BIND_CONSTANT_BUFFER = 0x4
	_BIND_SHADER_RESOURCE = 0x8
	_BIND_RENDER_TARGET   = 0x20
	_BIND_DEPTH_STENCIL   = 0x40

	_CPU_ACCESS_WRITE = 0x10000
	_CPU_ACCESS_READ  = 0x20000

	_RESOURCE_MISC_GENERATE_MIPS = 0x1
	_RESOURCE_MISC_TEXTURECUBE   = 0x4

	_MAP_READ          = 1
	_MAP_WRITE_DISCARD = 4

	_CLEAR_DEPTH   = 0x1
	_CLEAR_STENCIL = 0x2

	_INPUT_PER_VERTEX_DATA = 0
)

const (
	_DXGI_FORMAT_R32G32B32A32_FLOAT = 2
	_DXGI_FORMAT_R32G32B32_FLOAT    = 6
	_DXGI_FORMAT_R32G32_FLOAT       = 16
	_DXGI_FORMAT_R8G8B8A8_UNORM     = 28
	_DXGI_FORMAT_R32_FLOAT          = 41
	_DXGI_FORMAT_R32_UINT           = 42
	_DXGI_FORMAT_D24_UNORM_S8_UINT  = 45
)

const (
	_PRIMITIVE_TOPOLOGY_POINTLIST     = 1
	_PRIMITIVE_TOPOLOGY_LINELIST      = 2
	_PRIMITIVE_TOPOLOGY_LINESTRIP     = 3
	_PRIMITIVE_TOPOLOGY_TRIANGLELIST  = 4
	_PRIMITIVE_TOPOLOGY_TRIANGLESTRIP = 5
)

const (
	_FILTER_MIN_MAG_MIP_POINT              = 0x0
	_FILTER_MIN_POINT_MAG_LINEAR_MIP_POINT = 0x4
	_FILTER_MIN_LINEAR_MAG_MIP_POINT       = 0x10
	_FILTER_MIN_MAG_LINEAR_MIP_POINT       = 0x14
	_FILTER_MIN_MAG_MIP_LINEAR             = 0x15
	_FILTER_ANISOTROPIC                    = 0x55
	_FILTER_COMPARISON                     = 0x80

	_TEXTURE_ADDRESS_WRAP        = 1
	_TEXTURE_ADDRESS_MIRROR      = 2
	_TEXTURE_ADDRESS_CLAMP       = 3
	_TEXTURE_ADDRESS_BORDER      = 4
	_TEXTURE_ADDRESS_MIRROR_ONCE = 5

	_MAX_ANISOTROPY = 16
)

const (
	_COMPARISON_NEVER         = 1
	_COMPARISON_LESS          = 2
	_COMPARISON_EQUAL         = 3
	_COMPARISON_LESS_EQUAL    = 4
	_COMPARISON_GREATER       = 5
	_COMPARISON_NOT_EQUAL     = 6
	_COMPARISON_GREATER_EQUAL = 7
	_COMPARISON_ALWAYS        = 8
)

const (
	_FILL_WIREFRAME = 2
	_FILL_SOLID     = 3

	_CULL_NONE  = 1
	_CULL_FRONT = 2
	_CULL_BACK  = 3

	_DEPTH_WRITE_MASK_ZERO = 0
	_DEPTH_WRITE_MASK_ALL  = 1

	_STENCIL_OP_KEEP     = 1
	_STENCIL_OP_ZERO     = 2
	_STENCIL_OP_REPLACE  = 3
	_STENCIL_OP_INCR_SAT = 4
	_STENCIL_OP_DECR_SAT = 5
	_STENCIL_OP_INVERT   = 6
	_STENCIL_OP_INCR     = 7
	_STENCIL_OP_DECR     = 8
)

const (
	_BLEND_ZERO             = 1
	_BLEND_ONE              = 2
	_BLEND_SRC_COLOR        = 3
	_BLEND_INV_SRC_COLOR    = 4
	_BLEND_SRC_ALPHA        = 5
	_BLEND_INV_SRC_ALPHA    = 6
	_BLEND_DEST_ALPHA       = 7
	_BLEND_INV_DEST_ALPHA   = 8
	_BLEND_DEST_COLOR       = 9
	_BLEND_INV_DEST_COLOR   = 10
	_BLEND_SRC_ALPHA_SAT    = 11
	_BLEND_BLEND_FACTOR     = 14
	_BLEND_INV_BLEND_FACTOR = 15

	_BLEND_OP_ADD          = 1
	_BLEND_OP_SUBTRACT     = 2
	_BLEND_OP_REV_SUBTRACT = 3
	_BLEND_OP_MIN          = 4
	_BLEND_OP_MAX          = 5
)

// The descriptor types below match the memory layout of their D3D11
// counterparts and are passed to the runtime by pointer.

type bufferDesc struct {
	ByteWidth           uint32
	Usage               uint32
	BindFlags           uint32
	CPUAccessFlags      uint32
	MiscFlags           uint32
	StructureByteStride uint32
}

type sampleDesc struct {
	Count   uint32
	Quality uint32
}

type texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     sampleDesc
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type texture3DDesc struct {
	Width          uint32
	Height         uint32
	Depth          uint32
	MipLevels      uint32
	Format         uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type samplerDesc struct {
	Filter         uint32
	AddressU       uint32
	AddressV       uint32
	AddressW       uint32
	MipLODBias     float32
	MaxAnisotropy  uint32
	ComparisonFunc uint32
	BorderColor    [4]float32
	MinLOD         float32
	MaxLOD         float32
}

type rasterizerDesc struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise uint32
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       uint32
	ScissorEnable         uint32
	MultisampleEnable     uint32
	AntialiasedLineEnable uint32
}

type depthStencilOpDesc struct {
	StencilFailOp      uint32
	StencilDepthFailOp uint32
	StencilPassOp      uint32
	StencilFunc        uint32
}

type depthStencilDesc struct {
	DepthEnable      uint32
	DepthWriteMask   uint32
	DepthFunc        uint32
	StencilEnable    uint32
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        depthStencilOpDesc
	BackFace         depthStencilOpDesc
}

type renderTargetBlendDesc struct {
	BlendEnable           uint32
	SrcBlend              uint32
	DestBlend             uint32
	BlendOp               uint32
	SrcBlendAlpha         uint32
	DestBlendAlpha        uint32
	BlendOpAlpha          uint32
	RenderTargetWriteMask uint8
}

type blendDesc struct {
	AlphaToCoverageEnable  uint32
	IndependentBlendEnable uint32
	RenderTarget           [8]renderTargetBlendDesc
}

type viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type box struct {
	Left   uint32
	Top    uint32
	Front  uint32
	Right  uint32
	Bottom uint32
	Back   uint32
}

// inputElement is a vertex element. The native binding converts it to
// D3D11_INPUT_ELEMENT_DESC.
type inputElement struct {
	Semantic string
	Index    uint32
	Format   uint32
	Offset   uint32
}
