// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"encoding/xml"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneml/sceneml/geom"
	"github.com/sceneml/sceneml/scene"
)

func newXMLFile(t *testing.T) (*XMLFile, string) {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "out.xml")
	xf, err := CreateXMLFile(fn)
	require.NoError(t, err)
	return xf, fn
}

// wellFormed runs the full token stream through a decoder.
func wellFormed(t *testing.T, b []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(b)))
	for {
		_, err := dec.Token()
		if err != nil {
			require.Contains(t, err.Error(), "EOF", "output: %s", b)
			return
		}
	}
}

func TestXMLFile(t *testing.T) {
	xf, fn := newXMLFile(t)

	require.NoError(t, xf.WriteHeader(scene.Version{Major: 23, Minor: 1, Build: 315}))
	require.NoError(t, xf.StartLayers(1))
	require.NoError(t, xf.WriteLayerInfo(LayerInfo{Name: "Layer0", Visible: true}))
	require.NoError(t, xf.PopParentNode())
	require.NoError(t, xf.StartGeometry())
	require.NoError(t, xf.WriteFaceInfo(FaceInfo{
		HasMaterial:  true,
		MaterialName: "Brick",
		Vertices: []FaceVertex{
			{Pos: geom.Vec3(0, 0, 0)},
			{Pos: geom.Vec3(1, 0, 0)},
			{Pos: geom.Vec3(0, 1, 0)},
		},
	}))
	require.NoError(t, xf.PopParentNode())
	require.NoError(t, xf.Close(false))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	wellFormed(t, b)

	s := string(b)
	assert.Contains(t, s, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, s, `<Model version="23.1.315">`)
	assert.Contains(t, s, `<Layer name="Layer0" visible="true">`)
	assert.Contains(t, s, `<Face material="Brick">`)
	assert.Contains(t, s, `<Vertex x="1" y="0" z="0">`)
	assert.NotContains(t, s, "incomplete")
}

func TestXMLFileCloseCancelled(t *testing.T) {
	xf, fn := newXMLFile(t)
	require.NoError(t, xf.WriteHeader(scene.Version{Major: 1}))
	require.NoError(t, xf.StartGeometry())
	require.NoError(t, xf.StartGroup("porch"))

	// open elements are closed so the document stays well-formed
	require.NoError(t, xf.Close(true))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	wellFormed(t, b)
	s := string(b)
	assert.Contains(t, s, "export incomplete: cancelled")
	assert.Contains(t, s, "</Model>")
}

func TestXMLFilePopEmpty(t *testing.T) {
	xf, _ := newXMLFile(t)
	assert.Error(t, xf.PopParentNode())
	require.NoError(t, xf.Close(false))
}

func TestWriteTransformation(t *testing.T) {
	xf, fn := newXMLFile(t)
	require.NoError(t, xf.WriteHeader(scene.Version{Major: 1}))
	m := geom.Translation(2, 0, 1)
	require.NoError(t, xf.WriteTransformation(m))
	require.NoError(t, xf.Close(false))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b),
		"<Transformation>1 0 0 0 0 1 0 0 0 0 1 0 2 0 1 1</Transformation>")
}

func TestWriteMaterialInfo(t *testing.T) {
	xf, fn := newXMLFile(t)
	require.NoError(t, xf.WriteHeader(scene.Version{Major: 1}))
	require.NoError(t, xf.WriteMaterialInfo(MaterialInfo{
		Name:          "Brick",
		HasColor:      true,
		Color:         color.RGBA{170, 68, 34, 255},
		HasAlpha:      true,
		Alpha:         0.25,
		HasTexture:    true,
		TexturePath:   "out_textures/bricks.png",
		TextureSScale: 2,
		TextureTScale: 3,
	}))
	require.NoError(t, xf.Close(false))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `<Material name="Brick" color="#aa4422" alpha="0.25">`)
	assert.Contains(t, s, `<Texture path="out_textures/bricks.png" sscale="2" tscale="3">`)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#aa4422", hexColor(color.RGBA{170, 68, 34, 255}))
	assert.Equal(t, "#00ff0080", hexColor(color.RGBA{0, 255, 0, 128}))
	assert.Equal(t, "#000000", hexColor(color.RGBA{0, 0, 0, 255}))
}

func TestFmtFloat(t *testing.T) {
	assert.Equal(t, "0", fmtFloat(0))
	assert.Equal(t, "1", fmtFloat(1))
	assert.Equal(t, "0.25", fmtFloat(0.25))
	assert.Equal(t, "-3.5", fmtFloat(-3.5))
}
