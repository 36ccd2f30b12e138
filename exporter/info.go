// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"image/color"

	"github.com/sceneml/sceneml/geom"
	"github.com/sceneml/sceneml/scene"
)

// The Info records are the plain values handed to the XML file writer:
// everything the writer needs, already looked up from the scene, with
// no references back into the graph.

// MaterialInfo is the output record for one material.
type MaterialInfo struct {
	Name       string
	HasColor   bool
	Color      color.RGBA
	HasAlpha   bool
	Alpha      float32
	HasTexture bool

	// TexturePath is the path of the extracted texture image,
	// relative to the XML document.
	TexturePath   string
	TextureSScale float32
	TextureTScale float32
}

// LayerInfo is the output record for one layer.
type LayerInfo struct {
	Name        string
	Visible     bool
	HasMaterial bool
	Material    MaterialInfo
}

// ComponentInstanceInfo is the output record for one component
// instance placement.
type ComponentInstanceInfo struct {
	Name           string
	DefinitionName string
	LayerName      string
	MaterialName   string
	Transform      geom.Matrix4
}

// FaceVertex is one vertex of a face loop.
type FaceVertex struct {
	Pos geom.Vector3
}

// FaceInfo is the output record for one face loop. A face with holes
// produces one record for its outer loop and one per inner loop.
type FaceInfo struct {
	HasLayer     bool
	LayerName    string
	HasMaterial  bool
	MaterialName string
	Vertices     []FaceVertex
}

// EdgeInfo is the output record for one edge.
type EdgeInfo struct {
	HasLayer  bool
	LayerName string
	HasColor  bool
	Color     color.RGBA
	Start     geom.Vector3
	End       geom.Vector3
}

// CurveInfo is the output record for a curve: its edges in order.
type CurveInfo struct {
	Edges []EdgeInfo
}

// materialInfo assembles the output record for a material.
func materialInfo(mt *scene.Material) MaterialInfo {
	info := MaterialInfo{Name: mt.Name}
	if mt.Type.HasColor() {
		info.HasColor = true
		info.Color = mt.Color
	}
	if mt.UseOpacity {
		info.HasAlpha = true
		info.Alpha = mt.Opacity
	}
	if mt.Type.HasTexture() && mt.Texture != nil {
		info.HasTexture = true
		info.TexturePath = mt.Texture.FileName
		info.TextureSScale = mt.Texture.Scale.X
		info.TextureTScale = mt.Texture.Scale.Y
	}
	return info
}

// layerInfo assembles the output record for a layer.
func layerInfo(ly *scene.Layer) LayerInfo {
	info := LayerInfo{Name: ly.Name, Visible: ly.Visible}
	if ly.Material != nil {
		info.HasMaterial = true
		info.Material = materialInfo(ly.Material)
	}
	return info
}
