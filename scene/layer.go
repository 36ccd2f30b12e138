// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Layer is a named drawing layer. Elements reference a layer to
// control visibility; a layer can carry its own material, which is
// used when exporting materials grouped by layer.
type Layer struct {

	// Name is the unique name of the layer.
	Name string

	// Visible is whether elements on this layer are shown.
	Visible bool

	// Material is the optional material associated with this layer.
	Material *Material
}

// NewLayer returns a new visible layer with the given name.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, Visible: true}
}
