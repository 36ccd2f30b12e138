// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/sceneml/sceneml/geom"

// Loop is a closed ring of vertices bounding a face (the vertices
// are implicitly connected back to the first).
type Loop []geom.Vector3

// Face is a planar polygon bounded by an outer loop and zero or more
// inner loops (holes).
type Face struct {

	// Layer is the layer the face is on. May be nil, in which case
	// the face inherits the enclosing group's layer.
	Layer *Layer

	// Material is the front material of the face. May be nil, in
	// which case the face inherits the enclosing group's material.
	Material *Material

	// Outer is the outer boundary loop of the face.
	Outer Loop

	// Inner are the hole loops of the face.
	Inner []Loop
}

// Normal returns the unit normal of the face computed from the first
// three vertices of the outer loop, or the zero vector for degenerate
// faces.
func (fc *Face) Normal() geom.Vector3 {
	if len(fc.Outer) < 3 {
		return geom.Vector3{}
	}
	a := fc.Outer[1].Sub(fc.Outer[0])
	b := fc.Outer[2].Sub(fc.Outer[0])
	return a.Cross(b).Normal()
}

// Edge is a line segment between two points. Standalone edges can
// carry their own layer and material; edges belonging to curves
// usually inherit both.
type Edge struct {

	// Start and End are the endpoints of the edge.
	Start geom.Vector3
	End   geom.Vector3

	// Layer is the layer the edge is on. May be nil (inherited).
	Layer *Layer

	// Material is the edge material. May be nil (inherited).
	Material *Material
}

// Length returns the length of the edge.
func (ed *Edge) Length() float32 {
	return ed.Start.DistanceTo(ed.End)
}

// Curve is a polyline: a run of connected edges treated as one
// element.
type Curve struct {

	// Edges are the edges making up the curve, in order.
	Edges []*Edge
}
