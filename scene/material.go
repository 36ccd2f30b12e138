// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image/color"
)

// MaterialTypes is the type of a [Material]: solid colored, textured,
// or a texture colorized by a color.
type MaterialTypes int32

const (
	// Colored is a solid color material without a texture.
	Colored MaterialTypes = iota

	// Textured is a material colored entirely by its texture.
	Textured

	// ColorizedTexture is a textured material shifted toward a color.
	ColorizedTexture
)

func (mt MaterialTypes) String() string {
	switch mt {
	case Colored:
		return "colored"
	case Textured:
		return "textured"
	case ColorizedTexture:
		return "colorized"
	}
	return fmt.Sprintf("MaterialTypes(%d)", int32(mt))
}

// MaterialTypeFromString returns the [MaterialTypes] value named by s,
// as used in scene documents.
func MaterialTypeFromString(s string) (MaterialTypes, error) {
	switch s {
	case "", "colored":
		return Colored, nil
	case "textured":
		return Textured, nil
	case "colorized":
		return ColorizedTexture, nil
	}
	return Colored, fmt.Errorf("material type %q not recognized", s)
}

// HasColor returns whether this material type carries a color.
func (mt MaterialTypes) HasColor() bool {
	return mt == Colored || mt == ColorizedTexture
}

// HasTexture returns whether this material type carries a texture.
func (mt MaterialTypes) HasTexture() bool {
	return mt == Textured || mt == ColorizedTexture
}

// Material describes the display properties of a surface: a color
// and/or a texture, plus optional opacity. Materials are owned by the
// [Scene] and referenced by name from layers, groups, instances,
// faces and edges.
type Material struct {

	// Name is the unique name of the material.
	Name string

	// Type determines whether the color, the texture, or both are used.
	Type MaterialTypes

	// Color is the display color. Only meaningful when Type carries a
	// color (see [MaterialTypes.HasColor]).
	Color color.RGBA

	// UseOpacity is whether Opacity overrides the color alpha.
	UseOpacity bool

	// Opacity is the opacity in 0..1, used when UseOpacity is set.
	Opacity float32

	// Texture is the optional texture image. Only meaningful when Type
	// carries a texture (see [MaterialTypes.HasTexture]).
	Texture *Texture
}

// NewMaterial returns a new colored material with the given name and
// a default mid-gray color.
func NewMaterial(name string) *Material {
	return &Material{Name: name, Color: color.RGBA{128, 128, 128, 255}}
}

// IsTransparent returns true if the material uses an opacity below 1
// or its color has alpha < 255.
func (mt *Material) IsTransparent() bool {
	if mt.UseOpacity {
		return mt.Opacity < 1
	}
	return mt.Type.HasColor() && mt.Color.A < 255
}
