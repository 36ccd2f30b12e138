// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"image/color"

	"github.com/sceneml/sceneml/scene"
)

// defaultEdgeColor is the color written for edges when neither the
// edge nor anything above it carries a material.
var defaultEdgeColor = color.RGBA{0, 0, 0, 255}

// Inheritance tracks the current layer and material while the
// traversal descends through groups and elements. An element that
// does not set its own layer or material displays using the nearest
// enclosing one; pushing an element merges its overrides onto the
// current state, and popping restores the state on the way back up.
type Inheritance struct {
	stack []inheritFrame
}

type inheritFrame struct {
	layer    *scene.Layer
	material *scene.Material
}

// Push enters an element with the given overrides; nil values inherit
// the current state.
func (ih *Inheritance) Push(layer *scene.Layer, material *scene.Material) {
	top := ih.top()
	if layer == nil {
		layer = top.layer
	}
	if material == nil {
		material = top.material
	}
	ih.stack = append(ih.stack, inheritFrame{layer, material})
}

// Pop leaves the current element, restoring the enclosing state.
func (ih *Inheritance) Pop() {
	if len(ih.stack) == 0 {
		panic("exporter.Inheritance: unbalanced Pop")
	}
	ih.stack = ih.stack[:len(ih.stack)-1]
}

// Depth returns the current stack depth.
func (ih *Inheritance) Depth() int {
	return len(ih.stack)
}

// CurrentLayer returns the layer in effect, or nil if none.
func (ih *Inheritance) CurrentLayer() *scene.Layer {
	return ih.top().layer
}

// CurrentMaterial returns the material in effect, or nil if none.
func (ih *Inheritance) CurrentMaterial() *scene.Material {
	return ih.top().material
}

// CurrentEdgeColor returns the display color for an edge drawn under
// the current state: the material color if one is in effect and
// carries a color, otherwise the default edge color.
func (ih *Inheritance) CurrentEdgeColor() color.RGBA {
	mt := ih.top().material
	if mt != nil && mt.Type.HasColor() {
		return mt.Color
	}
	return defaultEdgeColor
}

func (ih *Inheritance) top() inheritFrame {
	if len(ih.stack) == 0 {
		return inheritFrame{}
	}
	return ih.stack[len(ih.stack)-1]
}
