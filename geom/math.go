// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom provides the minimal 3D math used by the scene graph
// and exporter: float32 vectors and a 4x4 affine transform matrix.
package geom

import "github.com/chewxy/math32"

const (
	// Pi is the mathematical constant pi.
	Pi = math32.Pi

	// Infinity is positive infinity.
	Infinity = math32.MaxFloat32
)

// These are thin wrappers around chewxy/math32, which provides
// float32 versions of the standard math functions.

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// Sin returns the sine of the radian argument x.
func Sin(x float32) float32 {
	return math32.Sin(x)
}

// Cos returns the cosine of the radian argument x.
func Cos(x float32) float32 {
	return math32.Cos(x)
}

// DegToRad converts a number of degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * (Pi / 180)
}

// RadToDeg converts a number of radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * (180 / Pi)
}
