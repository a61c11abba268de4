// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package game

// Mat4 is a column-major 4x4 matrix, laid out as shaders read a mat4 or a
// column_major float4x4.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho maps [0,w] x [0,h] onto clip space with Y up. Z passes through
// unchanged so sprite depths in [0, 1] stay inside the clip volume of both
// backends.
func Ortho(w, h float32) Mat4 {
	m := Identity()
	m[0] = 2 / w
	m[5] = 2 / h
	m[12] = -1
	m[13] = -1
	return m
}

// Translate returns a translation matrix.
func Translate(x, y float32) Mat4 {
	m := Identity()
	m[12] = x
	m[13] = y
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y float32) Mat4 {
	m := Identity()
	m[0] = x
	m[5] = y
	return m
}

// Mul returns m * n, so n is applied first.
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Apply transforms the point (x, y, z, 1).
func (m Mat4) Apply(x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}
