// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Matrix4 is a 4x4 affine transform matrix stored in column-major
// order, so that translation lives in elements 12, 13, 14.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4].
func Identity4() Matrix4 {
	m := Matrix4{}
	m.SetIdentity()
	return m
}

// SetIdentity sets this matrix to the identity.
func (m *Matrix4) SetIdentity() {
	*m = Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// IsIdentity returns whether this matrix is the identity.
func (m *Matrix4) IsIdentity() bool {
	return *m == Identity4()
}

// Translation returns a new matrix translating by the given offsets.
func Translation(x, y, z float32) Matrix4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Scaling returns a new matrix scaling by the given factors.
func Scaling(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotationX returns a new matrix rotating around the X axis by the
// given angle in radians.
func RotationX(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m[5] = c
	m[6] = s
	m[9] = -s
	m[10] = c
	return m
}

// RotationY returns a new matrix rotating around the Y axis by the
// given angle in radians.
func RotationY(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m[0] = c
	m[2] = -s
	m[8] = s
	m[10] = c
	return m
}

// RotationZ returns a new matrix rotating around the Z axis by the
// given angle in radians.
func RotationZ(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Mul returns this matrix multiplied by other (this applied after other).
func (m *Matrix4) Mul(other *Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Compose returns the affine matrix for the given translation, euler
// rotation angles in degrees (applied in Z, Y, X order) and scale.
func Compose(pos, euler, scale Vector3) Matrix4 {
	m := Translation(pos.X, pos.Y, pos.Z)
	rx := RotationX(DegToRad(euler.X))
	ry := RotationY(DegToRad(euler.Y))
	rz := RotationZ(DegToRad(euler.Z))
	r := rx.Mul(&ry)
	r = r.Mul(&rz)
	m = m.Mul(&r)
	s := Scaling(scale.X, scale.Y, scale.Z)
	return m.Mul(&s)
}

// Pos returns the translation component of this matrix.
func (m *Matrix4) Pos() Vector3 {
	return Vec3(m[12], m[13], m[14])
}
