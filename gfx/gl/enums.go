// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gl

// OpenGL 4.2 core enums used by the backend.
const (
	_DEPTH_BUFFER_BIT   = 0x00000100
	_STENCIL_BUFFER_BIT = 0x00000400
	_COLOR_BUFFER_BIT   = 0x00004000

	_POINTS         = 0x0000
	_LINES          = 0x0001
	_LINE_STRIP     = 0x0003
	_TRIANGLES      = 0x0004
	_TRIANGLE_STRIP = 0x0005

	_NEVER    = 0x0200
	_LESS     = 0x0201
	_EQUAL    = 0x0202
	_LEQUAL   = 0x0203
	_GREATER  = 0x0204
	_NOTEQUAL = 0x0205
	_GEQUAL   = 0x0206
	_ALWAYS   = 0x0207

	_ZERO                     = 0
	_ONE                      = 1
	_SRC_COLOR                = 0x0300
	_ONE_MINUS_SRC_COLOR      = 0x0301
	_SRC_ALPHA                = 0x0302
	_ONE_MINUS_SRC_ALPHA      = 0x0303
	_DST_ALPHA                = 0x0304
	_ONE_MINUS_DST_ALPHA      = 0x0305
	_DST_COLOR                = 0x0306
	_ONE_MINUS_DST_COLOR      = 0x0307
	_SRC_ALPHA_SATURATE       = 0x0308
	_CONSTANT_COLOR           = 0x8001
	_ONE_MINUS_CONSTANT_COLOR = 0x8002

	_FUNC_ADD              = 0x8006
	_MIN                   = 0x8007
	_MAX                   = 0x8008
	_FUNC_SUBTRACT         = 0x800A
	_FUNC_REVERSE_SUBTRACT = 0x800B

	_FRONT          = 0x0404
	_BACK           = 0x0405
	_FRONT_AND_BACK = 0x0408
	_CW             = 0x0900
	_CCW            = 0x0901
	_LINE           = 0x1B01
	_FILL           = 0x1B02

	_CULL_FACE           = 0x0B44
	_DEPTH_TEST          = 0x0B71
	_STENCIL_TEST        = 0x0B90
	_BLEND               = 0x0BE2
	_SCISSOR_TEST        = 0x0C11
	_POLYGON_OFFSET_FILL = 0x8037
	_MULTISAMPLE         = 0x809D
	_DEPTH_CLAMP         = 0x864F

	_KEEP      = 0x1E00
	_REPLACE   = 0x1E01
	_INCR      = 0x1E02
	_DECR      = 0x1E03
	_INVERT    = 0x150A
	_INCR_WRAP = 0x8507
	_DECR_WRAP = 0x8508

	_VENDOR                   = 0x1F00
	_RENDERER                 = 0x1F01
	_VERSION                  = 0x1F02
	_SHADING_LANGUAGE_VERSION = 0x8B8C

	_ARRAY_BUFFER         = 0x8892
	_ELEMENT_ARRAY_BUFFER = 0x8893
	_UNIFORM_BUFFER       = 0x8A11
	_COPY_WRITE_BUFFER    = 0x8F37
	_STATIC_DRAW          = 0x88E4
	_DYNAMIC_DRAW         = 0x88E8

	_TEXTURE0                    = 0x84C0
	_TEXTURE_2D                  = 0x0DE1
	_TEXTURE_3D                  = 0x806F
	_TEXTURE_CUBE_MAP            = 0x8513
	_TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515
	_TEXTURE_MAX_LEVEL           = 0x813D

	_TEXTURE_MAG_FILTER     = 0x2800
	_TEXTURE_MIN_FILTER     = 0x2801
	_TEXTURE_WRAP_S         = 0x2802
	_TEXTURE_WRAP_T         = 0x2803
	_TEXTURE_WRAP_R         = 0x8072
	_TEXTURE_BORDER_COLOR   = 0x1004
	_TEXTURE_MIN_LOD        = 0x813A
	_TEXTURE_MAX_LOD        = 0x813B
	_TEXTURE_LOD_BIAS       = 0x8501
	_TEXTURE_MAX_ANISOTROPY = 0x84FE
	_TEXTURE_COMPARE_MODE   = 0x884C
	_TEXTURE_COMPARE_FUNC   = 0x884D
	_COMPARE_REF_TO_TEXTURE = 0x884E

	_NEAREST                = 0x2600
	_LINEAR                 = 0x2601
	_NEAREST_MIPMAP_NEAREST = 0x2700
	_LINEAR_MIPMAP_NEAREST  = 0x2701
	_NEAREST_MIPMAP_LINEAR  = 0x2702
	_LINEAR_MIPMAP_LINEAR   = 0x2703

	_REPEAT               = 0x2901
	_CLAMP_TO_BORDER      = 0x812D
	_CLAMP_TO_EDGE        = 0x812F
	_MIRRORED_REPEAT      = 0x8370
	_MIRROR_CLAMP_TO_EDGE = 0x8743

	_RED           = 0x1903
	_RGB           = 0x1907
	_RGBA          = 0x1908
	_RGBA8         = 0x8058
	_R32F          = 0x822E
	_RGB32F        = 0x8815
	_RGBA32F       = 0x8814
	_UNSIGNED_BYTE = 0x1401
	_UNSIGNED_INT  = 0x1405
	_FLOAT         = 0x1406

	_UNPACK_ALIGNMENT = 0x0CF5
	_PACK_ALIGNMENT   = 0x0D05

	_FRAGMENT_SHADER = 0x8B30
	_VERTEX_SHADER   = 0x8B31
	_GEOMETRY_SHADER = 0x8DD9
	_COMPILE_STATUS  = 0x8B81
	_LINK_STATUS     = 0x8B82
	_INVALID_INDEX   = 0xFFFFFFFF

	_FRAMEBUFFER              = 0x8D40
	_RENDERBUFFER             = 0x8D41
	_COLOR_ATTACHMENT0        = 0x8CE0
	_DEPTH_STENCIL_ATTACHMENT = 0x821A
	_DEPTH24_STENCIL8         = 0x88F0
	_FRAMEBUFFER_COMPLETE     = 0x8CD5

	_NO_ERROR = 0
)

// Error codes returned by glGetError.
const (
	_INVALID_ENUM                  = 0x0500
	_INVALID_VALUE                 = 0x0501
	_INVALID_OPERATION             = 0x0502
	_OUT_OF_MEMORY                 = 0x0505
	_INVALID_FRAMEBUFFER_OPERATION = 0x0506
)
