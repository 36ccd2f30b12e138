// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/sceneml/sceneml/geom"
)

// DecoderFunc opens a scene from a file in some format. Importers for
// additional formats register themselves in [Decoders] (see scene/obj).
type DecoderFunc func(filename string) (*Scene, error)

// Decoders maps filename extensions (lowercase, with leading dot) to
// registered scene decoders for non-native formats.
var Decoders = map[string]DecoderFunc{}

// RegisterDecoder registers a decoder for the given extension.
// It is typically called from an importer package's init.
func RegisterDecoder(ext string, fn DecoderFunc) {
	Decoders[strings.ToLower(ext)] = fn
}

// Open opens a scene from the given file, dispatching on the filename
// extension: .json, .yaml and .yml are native scene documents; other
// extensions use decoders registered via [RegisterDecoder].
func Open(filename string) (*Scene, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json", ".yaml", ".yml":
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if ext == ".json" {
			return ReadJSON(f, filepath.Dir(filename))
		}
		return ReadYAML(f, filepath.Dir(filename))
	}
	if fn, ok := Decoders[ext]; ok {
		return fn(filename)
	}
	return nil, fmt.Errorf("scene.Open: no decoder for extension %q", ext)
}

// ReadJSON reads a JSON scene document from the given reader. dir is
// the directory external texture paths are resolved against.
func ReadJSON(r io.Reader, dir string) (*Scene, error) {
	var doc sceneDoc
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("scene: decoding document: %w", err)
	}
	return doc.resolve(dir)
}

// ReadYAML reads a YAML scene document from the given reader. dir is
// the directory external texture paths are resolved against.
func ReadYAML(r io.Reader, dir string) (*Scene, error) {
	var doc sceneDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("scene: decoding document: %w", err)
	}
	return doc.resolve(dir)
}

//////// document schema

// sceneDoc is the on-disk schema of a scene document. It is validated
// structurally and then resolved into the graph, turning name
// references into pointers.
type sceneDoc struct {
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Layers      []layerDoc      `json:"layers,omitempty" yaml:"layers,omitempty" validate:"dive"`
	Materials   []materialDoc   `json:"materials,omitempty" yaml:"materials,omitempty" validate:"dive"`
	Definitions []definitionDoc `json:"definitions,omitempty" yaml:"definitions,omitempty" validate:"dive"`
	Entities    entitiesDoc     `json:"entities,omitempty" yaml:"entities,omitempty"`
}

type layerDoc struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Visible  *bool  `json:"visible,omitempty" yaml:"visible,omitempty"`
	Material string `json:"material,omitempty" yaml:"material,omitempty"`
}

type materialDoc struct {
	Name    string      `json:"name" yaml:"name" validate:"required"`
	Type    string      `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=colored textured colorized"`
	Color   string      `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Opacity *float32    `json:"opacity,omitempty" yaml:"opacity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Texture *textureDoc `json:"texture,omitempty" yaml:"texture,omitempty"`
}

type textureDoc struct {
	File   string  `json:"file" yaml:"file" validate:"required"`
	SScale float32 `json:"sscale,omitempty" yaml:"sscale,omitempty" validate:"omitempty,gt=0"`
	TScale float32 `json:"tscale,omitempty" yaml:"tscale,omitempty" validate:"omitempty,gt=0"`
	Data   string  `json:"data,omitempty" yaml:"data,omitempty" validate:"omitempty,base64"`
	Source string  `json:"source,omitempty" yaml:"source,omitempty"`
}

type definitionDoc struct {
	Name     string      `json:"name" yaml:"name" validate:"required"`
	GUID     string      `json:"guid,omitempty" yaml:"guid,omitempty" validate:"omitempty,uuid"`
	Entities entitiesDoc `json:"entities,omitempty" yaml:"entities,omitempty"`
}

type entitiesDoc struct {
	Instances []instanceDoc `json:"instances,omitempty" yaml:"instances,omitempty" validate:"dive"`
	Groups    []groupDoc    `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
	Faces     []faceDoc     `json:"faces,omitempty" yaml:"faces,omitempty" validate:"dive"`
	Edges     []edgeDoc     `json:"edges,omitempty" yaml:"edges,omitempty" validate:"dive"`
	Curves    []curveDoc    `json:"curves,omitempty" yaml:"curves,omitempty" validate:"dive"`
}

type instanceDoc struct {
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	Definition string        `json:"definition" yaml:"definition" validate:"required"`
	Layer      string        `json:"layer,omitempty" yaml:"layer,omitempty"`
	Material   string        `json:"material,omitempty" yaml:"material,omitempty"`
	Transform  *transformDoc `json:"transform,omitempty" yaml:"transform,omitempty"`
}

type groupDoc struct {
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Layer     string        `json:"layer,omitempty" yaml:"layer,omitempty"`
	Material  string        `json:"material,omitempty" yaml:"material,omitempty"`
	Transform *transformDoc `json:"transform,omitempty" yaml:"transform,omitempty"`
	Entities  entitiesDoc   `json:"entities,omitempty" yaml:"entities,omitempty"`
}

type faceDoc struct {
	Layer    string         `json:"layer,omitempty" yaml:"layer,omitempty"`
	Material string         `json:"material,omitempty" yaml:"material,omitempty"`
	Outer    [][3]float32   `json:"outer" yaml:"outer" validate:"min=3"`
	Inner    [][][3]float32 `json:"inner,omitempty" yaml:"inner,omitempty" validate:"dive,min=3"`
}

type edgeDoc struct {
	Start    [3]float32 `json:"start" yaml:"start"`
	End      [3]float32 `json:"end" yaml:"end"`
	Layer    string     `json:"layer,omitempty" yaml:"layer,omitempty"`
	Material string     `json:"material,omitempty" yaml:"material,omitempty"`
}

type curveDoc struct {
	Edges []edgeDoc `json:"edges" yaml:"edges" validate:"min=1,dive"`
}

// transformDoc is either a full 16-element column-major matrix, or a
// translation / rotation (euler degrees) / scale composition.
type transformDoc struct {
	Matrix []float32   `json:"matrix,omitempty" yaml:"matrix,omitempty" validate:"omitempty,len=16"`
	Pos    *[3]float32 `json:"pos,omitempty" yaml:"pos,omitempty"`
	Rotate *[3]float32 `json:"rotate,omitempty" yaml:"rotate,omitempty"`
	Scale  *[3]float32 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

//////// resolution

var docValidator = validatorv10.New(validatorv10.WithRequiredStructEnabled())

// resolve validates the document and builds the scene graph from it.
func (doc *sceneDoc) resolve(dir string) (*Scene, error) {
	if err := docValidator.Struct(doc); err != nil {
		return nil, fmt.Errorf("scene: invalid document: %w", err)
	}

	sc := NewScene()
	if doc.Version != "" {
		if _, err := fmt.Sscanf(doc.Version, "%d.%d.%d",
			&sc.Version.Major, &sc.Version.Minor, &sc.Version.Build); err != nil {
			return nil, fmt.Errorf("scene: invalid version %q", doc.Version)
		}
	}

	for _, md := range doc.Materials {
		mt, err := md.resolve(dir)
		if err != nil {
			return nil, err
		}
		if sc.MaterialByName(mt.Name) != nil {
			return nil, fmt.Errorf("scene: duplicate material %q", mt.Name)
		}
		sc.Materials = append(sc.Materials, mt)
	}

	for _, ld := range doc.Layers {
		if sc.LayerByName(ld.Name) != nil {
			return nil, fmt.Errorf("scene: duplicate layer %q", ld.Name)
		}
		ly := NewLayer(ld.Name)
		if ld.Visible != nil {
			ly.Visible = *ld.Visible
		}
		if ld.Material != "" {
			if ly.Material = sc.MaterialByName(ld.Material); ly.Material == nil {
				return nil, fmt.Errorf("scene: layer %q: unknown material %q", ld.Name, ld.Material)
			}
		}
		sc.Layers = append(sc.Layers, ly)
	}

	// definitions first so instances anywhere can refer to them;
	// definition entities can instance earlier definitions only.
	for _, dd := range doc.Definitions {
		if sc.DefinitionByName(dd.Name) != nil {
			return nil, fmt.Errorf("scene: duplicate definition %q", dd.Name)
		}
		df := &ComponentDefinition{Name: dd.Name, GUID: dd.GUID}
		if df.GUID == "" {
			df.GUID = uuid.NewString()
		}
		sc.Definitions = append(sc.Definitions, df)
		es, err := dd.Entities.resolve(sc, "definition "+dd.Name)
		if err != nil {
			return nil, err
		}
		df.Entities = *es
	}

	es, err := doc.Entities.resolve(sc, "model")
	if err != nil {
		return nil, err
	}
	sc.Entities = *es
	return sc, nil
}

func (md *materialDoc) resolve(dir string) (*Material, error) {
	mt := NewMaterial(md.Name)
	typ, err := MaterialTypeFromString(md.Type)
	if err != nil {
		return nil, fmt.Errorf("scene: material %q: %w", md.Name, err)
	}
	mt.Type = typ
	if md.Color != "" {
		c, err := parseHexColor(md.Color)
		if err != nil {
			return nil, fmt.Errorf("scene: material %q: %w", md.Name, err)
		}
		mt.Color = c
	}
	if md.Opacity != nil {
		mt.UseOpacity = true
		mt.Opacity = *md.Opacity
	}
	if md.Texture != nil {
		if !typ.HasTexture() {
			return nil, fmt.Errorf("scene: material %q: texture on %v material", md.Name, typ)
		}
		tx := &Texture{
			FileName: md.Texture.File,
			Scale:    geom.Vec2(md.Texture.SScale, md.Texture.TScale),
			Source:   md.Texture.Source,
		}
		if tx.Scale.X == 0 {
			tx.Scale.X = 1
		}
		if tx.Scale.Y == 0 {
			tx.Scale.Y = 1
		}
		if md.Texture.Data != "" {
			b, err := base64.StdEncoding.DecodeString(md.Texture.Data)
			if err != nil {
				return nil, fmt.Errorf("scene: material %q: texture data: %w", md.Name, err)
			}
			tx.Data = b
		}
		tx.resolveSource(dir)
		if len(tx.Data) == 0 {
			if tx.Source == "" {
				return nil, fmt.Errorf("scene: material %q: texture has neither data nor source", md.Name)
			}
			if err := tx.checkSource(); err != nil {
				return nil, err
			}
		}
		mt.Texture = tx
	} else if typ.HasTexture() {
		return nil, fmt.Errorf("scene: material %q: %v material without texture", md.Name, typ)
	}
	return mt, nil
}

func (ed *entitiesDoc) resolve(sc *Scene, where string) (*Entities, error) {
	es := &Entities{}
	refs := func(layer, material string) (*Layer, *Material, error) {
		var (
			ly *Layer
			mt *Material
		)
		if layer != "" {
			if ly = sc.LayerByName(layer); ly == nil {
				return nil, nil, fmt.Errorf("scene: %s: unknown layer %q", where, layer)
			}
		}
		if material != "" {
			if mt = sc.MaterialByName(material); mt == nil {
				return nil, nil, fmt.Errorf("scene: %s: unknown material %q", where, material)
			}
		}
		return ly, mt, nil
	}

	for _, id := range ed.Instances {
		df := sc.DefinitionByName(id.Definition)
		if df == nil {
			return nil, fmt.Errorf("scene: %s: unknown definition %q", where, id.Definition)
		}
		ly, mt, err := refs(id.Layer, id.Material)
		if err != nil {
			return nil, err
		}
		es.Instances = append(es.Instances, &ComponentInstance{
			Name:       id.Name,
			Definition: df,
			Layer:      ly,
			Material:   mt,
			Transform:  id.Transform.resolve(),
		})
	}

	for _, gd := range ed.Groups {
		ly, mt, err := refs(gd.Layer, gd.Material)
		if err != nil {
			return nil, err
		}
		gp := NewGroup(gd.Name)
		gp.Layer = ly
		gp.Material = mt
		gp.Transform = gd.Transform.resolve()
		sub, err := gd.Entities.resolve(sc, where+" group "+gd.Name)
		if err != nil {
			return nil, err
		}
		gp.Entities = *sub
		es.Groups = append(es.Groups, gp)
	}

	for _, fd := range ed.Faces {
		ly, mt, err := refs(fd.Layer, fd.Material)
		if err != nil {
			return nil, err
		}
		fc := &Face{Layer: ly, Material: mt, Outer: loopOf(fd.Outer)}
		for _, in := range fd.Inner {
			fc.Inner = append(fc.Inner, loopOf(in))
		}
		es.Faces = append(es.Faces, fc)
	}

	for _, edd := range ed.Edges {
		e, err := edd.resolve(sc, where, refs)
		if err != nil {
			return nil, err
		}
		es.Edges = append(es.Edges, e)
	}

	for _, cd := range ed.Curves {
		cv := &Curve{}
		for _, edd := range cd.Edges {
			e, err := edd.resolve(sc, where, refs)
			if err != nil {
				return nil, err
			}
			cv.Edges = append(cv.Edges, e)
		}
		es.Curves = append(es.Curves, cv)
	}
	return es, nil
}

func (ed *edgeDoc) resolve(sc *Scene, where string, refs func(string, string) (*Layer, *Material, error)) (*Edge, error) {
	ly, mt, err := refs(ed.Layer, ed.Material)
	if err != nil {
		return nil, err
	}
	return &Edge{
		Start:    vec3Of(ed.Start),
		End:      vec3Of(ed.End),
		Layer:    ly,
		Material: mt,
	}, nil
}

// resolve returns the transform matrix: an explicit matrix wins,
// otherwise the pos / rotate / scale composition; nil means identity.
func (td *transformDoc) resolve() geom.Matrix4 {
	if td == nil {
		return geom.Identity4()
	}
	if len(td.Matrix) == 16 {
		var m geom.Matrix4
		copy(m[:], td.Matrix)
		return m
	}
	pos := geom.Vector3{}
	rot := geom.Vector3{}
	scl := geom.Vec3(1, 1, 1)
	if td.Pos != nil {
		pos = vec3Of(*td.Pos)
	}
	if td.Rotate != nil {
		rot = vec3Of(*td.Rotate)
	}
	if td.Scale != nil {
		scl = vec3Of(*td.Scale)
	}
	return geom.Compose(pos, rot, scl)
}

func vec3Of(a [3]float32) geom.Vector3 {
	return geom.Vec3(a[0], a[1], a[2])
}

func loopOf(pts [][3]float32) Loop {
	lp := make(Loop, len(pts))
	for i, p := range pts {
		lp[i] = vec3Of(p)
	}
	return lp
}

// parseHexColor parses #RGB, #RRGGBB and #RRGGBBAA hex colors.
func parseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	var c color.RGBA
	c.A = 255
	var err error
	switch len(h) {
	case 3:
		_, err = fmt.Sscanf(h, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(h, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(h, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("hex color %q has invalid length", s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	return c, nil
}
