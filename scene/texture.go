// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/sceneml/sceneml/base/teximg"
	"github.com/sceneml/sceneml/geom"
)

// Texture is a texture image attached to a [Material]. The image
// bytes are either embedded in the scene document (Data) or read from
// an external file (Source); Image decodes whichever is present.
type Texture struct {

	// FileName is the base file name the texture is written under
	// when the exporter extracts textures (e.g. "bricks.png").
	FileName string

	// Width and Height are the pixel dimensions of the image.
	Width  int
	Height int

	// Scale is the world size in scene units that one repetition of
	// the texture covers, in the s and t directions.
	Scale geom.Vector2

	// Data is the embedded encoded image (png, jpeg, gif, bmp, tiff
	// or webp), if the document embeds it.
	Data []byte

	// Source is the path of an external image file, relative to the
	// scene document, if the image is not embedded.
	Source string

	img image.Image // decoded lazily by Image
}

// Image decodes and returns the texture image, caching the result.
// It also fills in Width and Height if they are zero.
func (tx *Texture) Image() (image.Image, error) {
	if tx.img != nil {
		return tx.img, nil
	}
	var (
		img image.Image
		err error
	)
	switch {
	case len(tx.Data) > 0:
		img, _, err = teximg.Decode(tx.Data)
	case tx.Source != "":
		img, _, err = teximg.Open(tx.Source)
	default:
		err = fmt.Errorf("texture %q has no image data", tx.FileName)
	}
	if err != nil {
		return nil, err
	}
	tx.img = img
	if tx.Width == 0 || tx.Height == 0 {
		b := img.Bounds()
		tx.Width = b.Dx()
		tx.Height = b.Dy()
	}
	return img, nil
}

// resolveSource makes a relative external Source path absolute with
// respect to the directory of the scene document.
func (tx *Texture) resolveSource(dir string) {
	if tx.Source == "" || filepath.IsAbs(tx.Source) {
		return
	}
	tx.Source = filepath.Join(dir, tx.Source)
}

// checkSource verifies that an external Source file exists.
func (tx *Texture) checkSource() error {
	if tx.Source == "" {
		return nil
	}
	if _, err := os.Stat(tx.Source); err != nil {
		return fmt.Errorf("texture %q: %w", tx.FileName, err)
	}
	return nil
}
