// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package teximg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			im.Set(x, y, color.RGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	return im
}

func pngBytes(t *testing.T, im image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, im))
	return buf.Bytes()
}

func TestSniffDecode(t *testing.T) {
	data := pngBytes(t, testImage(8, 4))

	f, err := Sniff(data)
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	im, f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, image.Rect(0, 0, 8, 4), im.Bounds())

	_, err = Sniff([]byte("not an image"))
	assert.Error(t, err)
}

func TestSaveOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "tex.png")
	require.NoError(t, Save(testImage(4, 4), fn))

	im, f, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, image.Rect(0, 0, 4, 4), im.Bounds())

	assert.Error(t, Save(testImage(4, 4), filepath.Join(t.TempDir(), "tex.xyz")))
}

func TestExtToFormat(t *testing.T) {
	f, err := ExtToFormat(".JPG")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)
	assert.Equal(t, ".jpg", f.Ext())

	f, err = ExtToFormat("tiff")
	require.NoError(t, err)
	assert.Equal(t, TIFF, f)

	_, err = ExtToFormat("")
	assert.Error(t, err)
	_, err = ExtToFormat(".doc")
	assert.Error(t, err)
}

func TestDownscaleTo(t *testing.T) {
	im := testImage(100, 50)

	got := DownscaleTo(im, 0)
	assert.Equal(t, image.Image(im), got) // disabled

	got = DownscaleTo(im, 200)
	assert.Equal(t, image.Image(im), got) // already within bounds

	got = DownscaleTo(im, 10)
	assert.Equal(t, 10, got.Bounds().Dx())
	assert.Equal(t, 5, got.Bounds().Dy())

	// portrait orientation scales on height
	got = DownscaleTo(testImage(50, 100), 10)
	assert.Equal(t, 5, got.Bounds().Dx())
	assert.Equal(t, 10, got.Bounds().Dy())
}
