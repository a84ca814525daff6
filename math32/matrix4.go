// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix.
// This is the layout expected by a WGSL mat4x4<f32> uniform,
// so a Matrix4 can be copied directly into a uniform buffer.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() *Matrix4 {
	m := &Matrix4{}
	m.SetIdentity()
	return m
}

// Set sets all the elements of this matrix row by row starting at row1, column1,
// row1, column2, row1, column3 and so forth.
func (m *Matrix4) Set(n11, n12, n13, n14, n21, n22, n23, n24, n31, n32, n33, n34, n41, n42, n43, n44 float32) {
	m[0] = n11
	m[4] = n12
	m[8] = n13
	m[12] = n14
	m[1] = n21
	m[5] = n22
	m[9] = n23
	m[13] = n24
	m[2] = n31
	m[6] = n32
	m[10] = n33
	m[14] = n34
	m[3] = n41
	m[7] = n42
	m[11] = n43
	m[15] = n44
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	m.Set(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// IsIdentity returns true if this matrix is the identity matrix.
func (m *Matrix4) IsIdentity() bool {
	return *m == *Identity4()
}

// SetScale sets this matrix as a scale transformation
// with the given scale factors.
func (m *Matrix4) SetScale(x, y, z float32) {
	m.Set(
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	)
}

// MulVector4 returns the given vector multiplied by this matrix.
func (m *Matrix4) MulVector4(v Vector4) Vector4 {
	return Vector4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVector3AsPoint returns the given point (w = 1) transformed by this
// matrix, after the perspective divide.
func (m *Matrix4) MulVector3AsPoint(v Vector3) Vector3 {
	return m.MulVector4(Vector4FromVector3(v, 1)).PerspDiv()
}

// Rows returns the matrix as four rows of four values,
// which is how shader code typically spells out a matrix literal.
func (m *Matrix4) Rows() [4][4]float32 {
	var r [4][4]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[row][col] = m[col*4+row]
		}
	}
	return r
}
