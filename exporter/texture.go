// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sceneml/sceneml/base/teximg"
	"github.com/sceneml/sceneml/scene"
)

// TextureWriter collects the textures reachable from the exported
// materials and extracts them as image files into the texture
// directory next to the XML document. File names are deduplicated,
// and formats that cannot be encoded are converted to png.
type TextureWriter struct {
	maxSize int
	relDir  string
	entries []*texEntry
	byTex   map[*scene.Texture]*texEntry
	names   map[string]bool
}

type texEntry struct {
	tex      *scene.Texture
	filename string
}

// NewTextureWriter returns a texture writer downscaling images to at
// most maxSize pixels per dimension (0 = no scaling).
func NewTextureWriter(maxSize int) *TextureWriter {
	return &TextureWriter{
		maxSize: maxSize,
		byTex:   map[*scene.Texture]*texEntry{},
		names:   map[string]bool{},
	}
}

// LoadAllTextures collects the textures to extract: from the layer
// materials when byLayer is set, otherwise from the scene's material
// table. It returns the number of distinct textures collected.
func (tw *TextureWriter) LoadAllTextures(sc *scene.Scene, byLayer bool) int {
	if byLayer {
		for _, ly := range sc.Layers {
			if ly.Material != nil {
				tw.add(ly.Material)
			}
		}
	} else {
		for _, mt := range sc.Materials {
			tw.add(mt)
		}
	}
	return len(tw.entries)
}

func (tw *TextureWriter) add(mt *scene.Material) {
	if !mt.Type.HasTexture() || mt.Texture == nil {
		return
	}
	tx := mt.Texture
	if _, ok := tw.byTex[tx]; ok {
		return
	}
	en := &texEntry{tex: tx, filename: tw.uniqueName(tx.FileName)}
	tw.byTex[tx] = en
	tw.entries = append(tw.entries, en)
}

// uniqueName picks an unused file name with an encodable extension.
func (tw *TextureWriter) uniqueName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "texture"
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if f, err := teximg.ExtToFormat(ext); err != nil || f == teximg.WebP {
		ext = ".png"
	}
	fn := stem + ext
	for n := 2; tw.names[fn]; n++ {
		fn = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	tw.names[fn] = true
	return fn
}

// WriteAllTextures writes every collected texture into dir, creating
// it only when there is something to write. The directory base name
// becomes the path prefix reported by [TextureWriter.PathFor].
func (tw *TextureWriter) WriteAllTextures(dir string) error {
	tw.relDir = filepath.Base(dir)
	if len(tw.entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	for _, en := range tw.entries {
		img, err := en.tex.Image()
		if err != nil {
			return fmt.Errorf("exporter: texture %s: %w", en.filename, err)
		}
		img = teximg.DownscaleTo(img, tw.maxSize)
		if err := teximg.Save(img, filepath.Join(dir, en.filename)); err != nil {
			return fmt.Errorf("exporter: texture %s: %w", en.filename, err)
		}
	}
	return nil
}

// PathFor returns the path of the extracted image for the given
// texture, relative to the XML document (slash-separated). Textures
// that were not collected report their original file name.
func (tw *TextureWriter) PathFor(tx *scene.Texture) string {
	if en, ok := tw.byTex[tx]; ok {
		return tw.relDir + "/" + en.filename
	}
	return tx.FileName
}

// Count returns the number of collected textures.
func (tw *TextureWriter) Count() int {
	return len(tw.entries)
}
