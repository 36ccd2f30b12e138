// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package exporter walks a scene graph and serializes it to an XML
// document: layers, materials (with extracted textures), component
// definitions and instances, groups, and face / edge geometry.
//
// The traversal is a single-threaded depth-first visit. Layer and
// material attributes inherit down the group hierarchy through a
// scope stack (see [Inheritance]): an element that does not set its
// own layer or material is written with the nearest enclosing one.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sceneml/sceneml/scene"
)

// ProgressFunc receives phase progress during a conversion: pct is a
// monotonically non-decreasing percentage in 0..100, and phase is a
// short label for the work being done.
type ProgressFunc func(pct float64, phase string)

// Exporter converts one scene file to an XML document per Convert
// call. The zero value is not usable; use [New].
type Exporter struct {

	// Options are the export toggles in effect.
	Options Options

	// Progress, if set, receives phase progress updates.
	Progress ProgressFunc

	sc       *scene.Scene
	file     *XMLFile
	textures *TextureWriter
	inherit  Inheritance
	stats    Stats
}

// New returns an exporter using the given options.
func New(opts Options) *Exporter {
	return &Exporter{Options: opts}
}

// Stats returns what the last Convert call wrote.
func (ex *Exporter) Stats() Stats {
	return ex.stats
}

// TextureDirectory returns the directory texture images are extracted
// into for the given output file: a sibling directory named after it.
func TextureDirectory(dst string) string {
	return strings.TrimSuffix(dst, filepath.Ext(dst)) + "_textures"
}

// Convert loads the scene from src and writes the XML document to
// dst, extracting texture images next to it when material export is
// enabled. Cancellation via ctx is checked between phases; on any
// failure the output file is closed in an incomplete state and the
// error returned.
func (ex *Exporter) Convert(ctx context.Context, src, dst string) (err error) {
	ex.stats = Stats{}
	ex.inherit = Inheritance{}
	ex.textures = NewTextureWriter(ex.Options.MaxTextureSize)

	slog.Info("exporting", "src", src, "dst", dst)

	ex.sc, err = scene.Open(src)
	if err != nil {
		return err
	}
	if err = ex.sc.Validate(); err != nil {
		return err
	}

	ex.file, err = CreateXMLFile(dst)
	if err != nil {
		return err
	}
	defer func() {
		if ex.file == nil {
			return
		}
		// error path: close the document marked incomplete
		if cerr := ex.file.Close(true); cerr != nil && err == nil {
			err = cerr
		}
		ex.file = nil
		ex.sc = nil
	}()

	if err = ex.step(ctx, 0, "Writing Texture Files..."); err != nil {
		return err
	}
	if err = ex.writeTextureFiles(dst); err != nil {
		return err
	}

	if err = ex.file.WriteHeader(ex.sc.Version); err != nil {
		return err
	}

	if err = ex.step(ctx, 10, "Writing Layers..."); err != nil {
		return err
	}
	if err = ex.writeLayers(); err != nil {
		return err
	}

	if err = ex.step(ctx, 20, "Writing Materials..."); err != nil {
		return err
	}
	if err = ex.writeMaterials(); err != nil {
		return err
	}

	if err = ex.step(ctx, 40, "Writing Definitions..."); err != nil {
		return err
	}
	if err = ex.writeComponentDefinitions(); err != nil {
		return err
	}

	if err = ex.step(ctx, 60, "Writing Geometry..."); err != nil {
		return err
	}
	if err = ex.writeGeometry(); err != nil {
		return err
	}

	file := ex.file
	ex.file = nil
	ex.sc = nil
	if err = file.Close(false); err != nil {
		return err
	}

	if ex.Progress != nil {
		ex.Progress(100, "Export Complete")
	}
	slog.Info("export complete", "dst", dst, "stats", ex.stats)
	return nil
}

// step checks for cancellation and reports phase progress.
func (ex *Exporter) step(ctx context.Context, pct float64, phase string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("exporter: cancelled: %w", err)
	}
	slog.Debug("export phase", "pct", pct, "phase", phase)
	if ex.Progress != nil {
		ex.Progress(pct, phase)
	}
	return nil
}

func (ex *Exporter) writeTextureFiles(dst string) error {
	if !ex.Options.Materials {
		return nil
	}
	n := ex.textures.LoadAllTextures(ex.sc, ex.Options.MaterialsByLayer)
	ex.stats.Textures = n
	if n == 0 {
		return nil
	}
	return ex.textures.WriteAllTextures(TextureDirectory(dst))
}

func (ex *Exporter) writeLayers() error {
	if !ex.Options.Layers {
		return nil
	}
	if err := ex.file.StartLayers(len(ex.sc.Layers)); err != nil {
		return err
	}
	for _, ly := range ex.sc.Layers {
		ex.stats.Layers++
		if err := ex.file.WriteLayerInfo(ex.layerInfo(ly)); err != nil {
			return err
		}
	}
	return ex.file.PopParentNode()
}

func (ex *Exporter) writeMaterials() error {
	if !ex.Options.Materials {
		return nil
	}
	var mts []*scene.Material
	if ex.Options.MaterialsByLayer {
		for _, ly := range ex.sc.Layers {
			if ly.Material != nil {
				mts = append(mts, ly.Material)
			}
		}
	} else {
		mts = ex.sc.Materials
	}
	if len(mts) == 0 {
		return nil
	}
	if err := ex.file.StartMaterials(len(mts)); err != nil {
		return err
	}
	for _, mt := range mts {
		ex.stats.Materials++
		if err := ex.file.WriteMaterialInfo(ex.materialInfo(mt)); err != nil {
			return err
		}
	}
	return ex.file.PopParentNode()
}

func (ex *Exporter) writeComponentDefinitions() error {
	if !ex.Options.Definitions || len(ex.sc.Definitions) == 0 {
		return nil
	}
	if err := ex.file.StartComponentDefinitions(len(ex.sc.Definitions)); err != nil {
		return err
	}
	for _, df := range ex.sc.Definitions {
		ex.stats.Definitions++
		if err := ex.file.StartComponentDefinition(df.Name, df.GUID); err != nil {
			return err
		}
		if err := ex.writeEntities(&df.Entities); err != nil {
			return err
		}
		if err := ex.file.PopParentNode(); err != nil {
			return err
		}
	}
	return ex.file.PopParentNode()
}

func (ex *Exporter) writeGeometry() error {
	if !ex.Options.Faces && !ex.Options.Edges {
		return nil
	}
	if err := ex.file.StartGeometry(); err != nil {
		return err
	}
	if err := ex.writeEntities(&ex.sc.Entities); err != nil {
		return err
	}
	return ex.file.PopParentNode()
}

// writeEntities writes one level of the graph: instances, then
// groups (recursively), then faces, standalone edges and curves.
func (ex *Exporter) writeEntities(es *scene.Entities) error {
	for _, in := range es.Instances {
		if in.Definition == nil {
			continue
		}
		info := ComponentInstanceInfo{
			Name:           in.Name,
			DefinitionName: in.Definition.Name,
			Transform:      in.Transform,
		}
		if in.Layer != nil {
			info.LayerName = in.Layer.Name
		}
		if in.Material != nil {
			info.MaterialName = in.Material.Name
		}
		ex.stats.Instances++
		if err := ex.file.WriteComponentInstanceInfo(info); err != nil {
			return err
		}
	}

	for _, gp := range es.Groups {
		if err := ex.writeGroup(gp); err != nil {
			return err
		}
	}

	if ex.Options.Faces {
		for _, fc := range es.Faces {
			ex.inherit.Push(fc.Layer, fc.Material)
			err := ex.writeFace(fc)
			ex.inherit.Pop()
			if err != nil {
				return err
			}
		}
	}

	if ex.Options.Edges {
		for _, ed := range es.Edges {
			ex.inherit.Push(ed.Layer, ed.Material)
			info := ex.edgeInfo(ed)
			ex.inherit.Pop()
			ex.stats.Edges++
			if err := ex.file.WriteEdgeInfo(info); err != nil {
				return err
			}
		}
		for _, cv := range es.Curves {
			info := CurveInfo{}
			for _, ed := range cv.Edges {
				ex.inherit.Push(ed.Layer, ed.Material)
				info.Edges = append(info.Edges, ex.edgeInfo(ed))
				ex.inherit.Pop()
			}
			ex.stats.Curves++
			ex.stats.Edges += len(info.Edges)
			if err := ex.file.WriteCurveInfo(info); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeGroup writes a group element with its entities and transform,
// keeping the inheritance stack balanced on error paths.
func (ex *Exporter) writeGroup(gp *scene.Group) error {
	ex.inherit.Push(gp.Layer, gp.Material)
	defer ex.inherit.Pop()
	ex.stats.Groups++
	if err := ex.file.StartGroup(gp.Name); err != nil {
		return err
	}
	if err := ex.writeEntities(&gp.Entities); err != nil {
		return err
	}
	if err := ex.file.WriteTransformation(gp.Transform); err != nil {
		return err
	}
	return ex.file.PopParentNode()
}

// writeFace writes the outer loop and then each inner loop of the
// face as separate face records. Empty loops are skipped.
func (ex *Exporter) writeFace(fc *scene.Face) error {
	write := func(lp scene.Loop) error {
		if len(lp) == 0 {
			return nil
		}
		info := FaceInfo{Vertices: make([]FaceVertex, len(lp))}
		for i, p := range lp {
			info.Vertices[i] = FaceVertex{Pos: p}
		}
		if ex.Options.Layers {
			if ly := ex.inherit.CurrentLayer(); ly != nil {
				info.HasLayer = true
				info.LayerName = ly.Name
			}
		}
		if ex.Options.Materials {
			if mt := ex.inherit.CurrentMaterial(); mt != nil {
				info.HasMaterial = true
				info.MaterialName = mt.Name
			}
		}
		ex.stats.Faces++
		return ex.file.WriteFaceInfo(info)
	}
	if err := write(fc.Outer); err != nil {
		return err
	}
	for _, lp := range fc.Inner {
		if err := write(lp); err != nil {
			return err
		}
	}
	return nil
}

// edgeInfo assembles the output record for an edge under the current
// inheritance state.
func (ex *Exporter) edgeInfo(ed *scene.Edge) EdgeInfo {
	info := EdgeInfo{Start: ed.Start, End: ed.End}
	if ex.Options.Layers {
		if ly := ex.inherit.CurrentLayer(); ly != nil {
			info.HasLayer = true
			info.LayerName = ly.Name
		}
	}
	if ex.Options.Materials {
		info.HasColor = true
		info.Color = ex.inherit.CurrentEdgeColor()
	}
	return info
}

// materialInfo assembles the record for a material, pointing its
// texture path at the extracted image.
func (ex *Exporter) materialInfo(mt *scene.Material) MaterialInfo {
	info := materialInfo(mt)
	if info.HasTexture {
		info.TexturePath = ex.textures.PathFor(mt.Texture)
	}
	return info
}

// layerInfo assembles the record for a layer, including its material
// if it has one.
func (ex *Exporter) layerInfo(ly *scene.Layer) LayerInfo {
	info := layerInfo(ly)
	if info.HasMaterial && info.Material.HasTexture {
		info.Material.TexturePath = ex.textures.PathFor(ly.Material.Texture)
	}
	return info
}
