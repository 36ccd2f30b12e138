// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements the in-memory CAD scene graph that the
// exporter walks: layers, materials with optional textures, component
// definitions and instances, groups, and polygonal face / edge
// geometry. Scenes are loaded from JSON or YAML scene documents, or
// imported from Wavefront OBJ files (see [Open]).
package scene

import "fmt"

// Version is the version of the modeler that produced a scene.
type Version struct {
	Major int
	Minor int
	Build int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// Scene is the root of the scene graph. It owns all layers, materials
// and component definitions, which the rest of the graph references by
// pointer. The geometry lives in the root Entities.
type Scene struct {

	// Version is the version of the modeler that produced this scene.
	Version Version

	// Layers are all the layers in the scene, in definition order.
	// The first layer is conventionally the default layer.
	Layers []*Layer

	// Materials are all the materials in the scene, in definition order.
	Materials []*Material

	// Definitions are the component definitions that instances refer to.
	Definitions []*ComponentDefinition

	// Entities is the top-level geometry of the scene.
	Entities Entities
}

// NewScene returns a new empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// LayerByName returns the layer with the given name, or nil if not found.
func (sc *Scene) LayerByName(name string) *Layer {
	for _, ly := range sc.Layers {
		if ly.Name == name {
			return ly
		}
	}
	return nil
}

// MaterialByName returns the material with the given name, or nil if
// not found.
func (sc *Scene) MaterialByName(name string) *Material {
	for _, mt := range sc.Materials {
		if mt.Name == name {
			return mt
		}
	}
	return nil
}

// DefinitionByName returns the component definition with the given
// name, or nil if not found.
func (sc *Scene) DefinitionByName(name string) *ComponentDefinition {
	for _, df := range sc.Definitions {
		if df.Name == name {
			return df
		}
	}
	return nil
}

// Validate checks the graph for dangling references: every layer,
// material and definition referenced from the geometry must be owned
// by the scene. It returns a joined error for everything found.
func (sc *Scene) Validate() error {
	v := &validator{sc: sc}
	for _, df := range sc.Definitions {
		v.entities(&df.Entities, "definition "+df.Name)
	}
	v.entities(&sc.Entities, "model")
	return v.err()
}

type validator struct {
	sc   *Scene
	errs []error
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("scene.Validate: %d invalid references, first: %w", len(v.errs), v.errs[0])
}

func (v *validator) check(ly *Layer, mt *Material, where string) {
	if ly != nil && v.sc.LayerByName(ly.Name) != ly {
		v.errs = append(v.errs, fmt.Errorf("%s: layer %q not owned by scene", where, ly.Name))
	}
	if mt != nil && v.sc.MaterialByName(mt.Name) != mt {
		v.errs = append(v.errs, fmt.Errorf("%s: material %q not owned by scene", where, mt.Name))
	}
}

func (v *validator) entities(root *Entities, where string) {
	root.Walk(func(path []*Group, es *Entities) {
		w := where
		for _, gp := range path {
			w += " group " + gp.Name
		}
		for _, in := range es.Instances {
			v.check(in.Layer, in.Material, w)
			if in.Definition == nil {
				v.errs = append(v.errs, fmt.Errorf("%s: instance without definition", w))
			} else if v.sc.DefinitionByName(in.Definition.Name) != in.Definition {
				v.errs = append(v.errs, fmt.Errorf("%s: definition %q not owned by scene", w, in.Definition.Name))
			}
		}
		for _, gp := range es.Groups {
			v.check(gp.Layer, gp.Material, w)
		}
		for _, fc := range es.Faces {
			v.check(fc.Layer, fc.Material, w)
		}
		for _, ed := range es.Edges {
			v.check(ed.Layer, ed.Material, w)
		}
		for _, cv := range es.Curves {
			for _, ed := range cv.Edges {
				v.check(ed.Layer, ed.Material, w)
			}
		}
	})
}
