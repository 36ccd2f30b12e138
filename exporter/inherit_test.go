// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sceneml/sceneml/scene"
)

func TestInheritance(t *testing.T) {
	ly0 := scene.NewLayer("Layer0")
	ly1 := scene.NewLayer("Walls")
	mt := scene.NewMaterial("Brick")
	mt.Color = color.RGBA{170, 68, 34, 255}

	ih := Inheritance{}
	assert.Equal(t, 0, ih.Depth())
	assert.Nil(t, ih.CurrentLayer())
	assert.Nil(t, ih.CurrentMaterial())

	ih.Push(ly0, nil)
	assert.Same(t, ly0, ih.CurrentLayer())
	assert.Nil(t, ih.CurrentMaterial())

	// nil overrides inherit the enclosing state
	ih.Push(nil, mt)
	assert.Same(t, ly0, ih.CurrentLayer())
	assert.Same(t, mt, ih.CurrentMaterial())

	ih.Push(ly1, nil)
	assert.Same(t, ly1, ih.CurrentLayer())
	assert.Same(t, mt, ih.CurrentMaterial())
	assert.Equal(t, 3, ih.Depth())

	ih.Pop()
	assert.Same(t, ly0, ih.CurrentLayer())
	ih.Pop()
	assert.Nil(t, ih.CurrentMaterial())
	ih.Pop()
	assert.Equal(t, 0, ih.Depth())

	assert.Panics(t, func() { ih.Pop() })
}

func TestCurrentEdgeColor(t *testing.T) {
	ih := Inheritance{}
	assert.Equal(t, defaultEdgeColor, ih.CurrentEdgeColor())

	colored := scene.NewMaterial("Red")
	colored.Color = color.RGBA{255, 0, 0, 255}
	ih.Push(nil, colored)
	assert.Equal(t, colored.Color, ih.CurrentEdgeColor())

	// a purely textured material carries no display color
	textured := scene.NewMaterial("Wood")
	textured.Type = scene.Textured
	ih.Push(nil, textured)
	assert.Equal(t, defaultEdgeColor, ih.CurrentEdgeColor())

	colorized := scene.NewMaterial("Tinted")
	colorized.Type = scene.ColorizedTexture
	colorized.Color = color.RGBA{0, 128, 0, 255}
	ih.Push(nil, colorized)
	assert.Equal(t, colorized.Color, ih.CurrentEdgeColor())

	ih.Pop()
	ih.Pop()
	assert.Equal(t, colored.Color, ih.CurrentEdgeColor())
}
