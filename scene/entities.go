// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/sceneml/sceneml/geom"

// Entities is the collection of drawable elements at one level of the
// scene graph: the scene root, a group, or a component definition.
type Entities struct {

	// Instances are placements of component definitions.
	Instances []*ComponentInstance

	// Groups collect nested elements under a shared transform.
	Groups []*Group

	// Faces are the polygonal faces at this level.
	Faces []*Face

	// Edges are the standalone edges at this level, i.e. edges not
	// belonging to any face or curve.
	Edges []*Edge

	// Curves are runs of connected edges.
	Curves []*Curve
}

// IsEmpty returns whether this level holds no elements at all.
func (es *Entities) IsEmpty() bool {
	return len(es.Instances) == 0 && len(es.Groups) == 0 &&
		len(es.Faces) == 0 && len(es.Edges) == 0 && len(es.Curves) == 0
}

// Walk calls fn for this level and then, depth-first, for the entities
// of every nested group. path holds the chain of groups enclosing the
// level being visited, outermost first.
func (es *Entities) Walk(fn func(path []*Group, es *Entities)) {
	es.walk(nil, fn)
}

func (es *Entities) walk(path []*Group, fn func(path []*Group, es *Entities)) {
	fn(path, es)
	for _, gp := range es.Groups {
		gp.Entities.walk(append(path, gp), fn)
	}
}

// Group collects elements under a shared transform. A group can
// override the layer and material that its elements inherit.
type Group struct {

	// Name is the optional name of the group.
	Name string

	// Layer is the layer this group is on, inherited by elements
	// below that do not set their own. May be nil.
	Layer *Layer

	// Material is the material inherited by elements below that do
	// not set their own. May be nil.
	Material *Material

	// Transform positions the group's entities relative to the parent.
	Transform geom.Matrix4

	// Entities are the elements inside the group.
	Entities Entities
}

// NewGroup returns a new empty group with an identity transform.
func NewGroup(name string) *Group {
	return &Group{Name: name, Transform: geom.Identity4()}
}

// ComponentDefinition is a reusable named sub-graph of entities,
// placed into the scene by [ComponentInstance]s.
type ComponentDefinition struct {

	// Name is the unique name of the definition.
	Name string

	// GUID is the persistent unique identifier of the definition.
	GUID string

	// Entities are the elements making up the definition.
	Entities Entities
}

// ComponentInstance places a [ComponentDefinition] into the scene
// under a transform, optionally overriding layer and material.
type ComponentInstance struct {

	// Name is the optional name of this placement.
	Name string

	// Definition is the component definition being placed.
	Definition *ComponentDefinition

	// Layer is the layer this instance is on. May be nil.
	Layer *Layer

	// Material is the material override for the instance. May be nil.
	Material *Material

	// Transform positions the definition's entities in the parent.
	Transform geom.Matrix4
}
