// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneml/sceneml/geom"
	"github.com/sceneml/sceneml/scene"
)

func TestOpen(t *testing.T) {
	sc, err := Open(filepath.Join("testdata", "shed.obj"))
	require.NoError(t, err)
	require.NoError(t, sc.Validate())

	plaster := sc.MaterialByName("Plaster")
	require.NotNil(t, plaster)
	assert.Equal(t, color.RGBA{230, 217, 204, 255}, plaster.Color)
	assert.True(t, plaster.UseOpacity)
	assert.Equal(t, float32(0.75), plaster.Opacity)

	require.Len(t, sc.Entities.Groups, 1)
	wall := sc.Entities.Groups[0]
	assert.Equal(t, "wall", wall.Name)
	require.Len(t, wall.Entities.Faces, 1)
	fc := wall.Entities.Faces[0]
	assert.Same(t, plaster, fc.Material)
	require.Len(t, fc.Outer, 4)
	assert.Equal(t, geom.Vec3(4, 3, 0), fc.Outer[2])

	// after "g default" geometry goes back to the root
	require.Len(t, sc.Entities.Edges, 1)
	assert.Equal(t, geom.Vec3(0, 0, 5), sc.Entities.Edges[0].Start)
	assert.Equal(t, geom.Vec3(4, 0, 5), sc.Entities.Edges[0].End)

	require.Len(t, sc.Entities.Curves, 1)
	assert.Len(t, sc.Entities.Curves[0].Edges, 3)
}

func TestOpenRegistered(t *testing.T) {
	// importing this package registers the .obj decoder
	sc, err := scene.Open(filepath.Join("testdata", "shed.obj"))
	require.NoError(t, err)
	assert.Len(t, sc.Entities.Groups, 1)
}

func TestNegativeIndices(t *testing.T) {
	src := writeTemp(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)
	sc, err := Open(src)
	require.NoError(t, err)
	require.Len(t, sc.Entities.Faces, 1)
	assert.Equal(t, geom.Vec3(0, 1, 0), sc.Entities.Faces[0].Outer[2])
}

func TestSlashRefs(t *testing.T) {
	src := writeTemp(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1/1/1 2/2/2 3/3/3
`)
	sc, err := Open(src)
	require.NoError(t, err)
	require.Len(t, sc.Entities.Faces, 1)
}

func TestBadInput(t *testing.T) {
	for _, src := range []string{
		"f 1 2 3",          // no vertices defined
		"v 0 0",            // short vertex
		"v 0 0 0\nf 1 2",   // short face
		"v 0 0 0\nf 0 1 1", // index zero
	} {
		_, err := Open(writeTemp(t, src))
		assert.Error(t, err, "input: %q", src)
	}
}

func TestMissingMaterialLib(t *testing.T) {
	_, err := Open(writeTemp(t, "mtllib nope.mtl\n"))
	assert.Error(t, err)
}

func TestUnknownMaterialSynthesized(t *testing.T) {
	src := writeTemp(t, `
v 0 0 0
v 1 0 0
v 0 1 0
usemtl Mystery
f 1 2 3
`)
	sc, err := Open(src)
	require.NoError(t, err)
	require.NotNil(t, sc.MaterialByName("Mystery"))
	assert.Same(t, sc.MaterialByName("Mystery"), sc.Entities.Faces[0].Material)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "test.obj")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o666))
	return fn
}
