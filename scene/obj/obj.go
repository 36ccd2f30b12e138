// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj imports Wavefront OBJ files (with optional MTL material
// libraries) as scenes. Importing this package registers the .obj
// decoder with [scene.RegisterDecoder]:
//
//	import _ "github.com/sceneml/sceneml/scene/obj"
package obj

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sceneml/sceneml/geom"
	"github.com/sceneml/sceneml/scene"
)

func init() {
	scene.RegisterDecoder(".obj", Open)
}

// Open reads the given OBJ file and returns it as a scene. Geometry
// groups ("g" / "o" statements) become scene groups; "usemtl"
// materials resolve through any "mtllib" libraries, with diffuse
// color, dissolve and diffuse texture maps carried over.
func Open(filename string) (*scene.Scene, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ld := &loader{
		sc:  scene.NewScene(),
		dir: filepath.Dir(filename),
	}
	if err := ld.read(f); err != nil {
		return nil, fmt.Errorf("obj: %s: %w", filepath.Base(filename), err)
	}
	return ld.sc, nil
}

type loader struct {
	sc    *scene.Scene
	dir   string
	verts []geom.Vector3
	group *scene.Group    // current group; nil = scene root
	mtl   *scene.Material // current material
	line  int
}

// cur returns the entities collection faces are added to.
func (ld *loader) cur() *scene.Entities {
	if ld.group != nil {
		return &ld.group.Entities
	}
	return &ld.sc.Entities
}

func (ld *loader) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: "+format, append([]any{ld.line}, args...)...)
}

func (ld *loader) read(f *os.File) error {
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ld.line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		kw, args := fields[0], fields[1:]
		var err error
		switch kw {
		case "v":
			err = ld.vertex(args)
		case "f":
			err = ld.face(args)
		case "l":
			err = ld.polyline(args)
		case "g", "o":
			ld.startGroup(strings.Join(args, " "))
		case "usemtl":
			err = ld.useMaterial(strings.Join(args, " "))
		case "mtllib":
			for _, lib := range args {
				if err = ld.readMaterialLib(lib); err != nil {
					break
				}
			}
		default:
			// vt, vn, s, and other statements carry no information
			// this scene model represents
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func (ld *loader) vertex(args []string) error {
	if len(args) < 3 {
		return ld.errf("vertex needs 3 coordinates")
	}
	var v geom.Vector3
	for i, p := range []*float32{&v.X, &v.Y, &v.Z} {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return ld.errf("bad coordinate %q", args[i])
		}
		*p = float32(f)
	}
	ld.verts = append(ld.verts, v)
	return nil
}

// vertexIndex resolves a (possibly negative, possibly v/vt/vn) face
// vertex reference to a position.
func (ld *loader) vertexIndex(ref string) (geom.Vector3, error) {
	s := ref
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx == 0 {
		return geom.Vector3{}, ld.errf("bad vertex reference %q", ref)
	}
	if idx < 0 {
		idx = len(ld.verts) + idx
	} else {
		idx--
	}
	if idx < 0 || idx >= len(ld.verts) {
		return geom.Vector3{}, ld.errf("vertex reference %q out of range", ref)
	}
	return ld.verts[idx], nil
}

func (ld *loader) face(args []string) error {
	if len(args) < 3 {
		return ld.errf("face needs at least 3 vertices")
	}
	lp := make(scene.Loop, len(args))
	for i, ref := range args {
		v, err := ld.vertexIndex(ref)
		if err != nil {
			return err
		}
		lp[i] = v
	}
	es := ld.cur()
	es.Faces = append(es.Faces, &scene.Face{Material: ld.mtl, Outer: lp})
	return nil
}

func (ld *loader) polyline(args []string) error {
	if len(args) < 2 {
		return ld.errf("line needs at least 2 vertices")
	}
	pts := make([]geom.Vector3, len(args))
	for i, ref := range args {
		v, err := ld.vertexIndex(ref)
		if err != nil {
			return err
		}
		pts[i] = v
	}
	es := ld.cur()
	if len(pts) == 2 {
		es.Edges = append(es.Edges, &scene.Edge{Start: pts[0], End: pts[1], Material: ld.mtl})
		return nil
	}
	cv := &scene.Curve{}
	for i := 1; i < len(pts); i++ {
		cv.Edges = append(cv.Edges, &scene.Edge{Start: pts[i-1], End: pts[i], Material: ld.mtl})
	}
	es.Curves = append(es.Curves, cv)
	return nil
}

func (ld *loader) startGroup(name string) {
	if name == "" || name == "default" {
		ld.group = nil
		return
	}
	gp := scene.NewGroup(name)
	ld.sc.Entities.Groups = append(ld.sc.Entities.Groups, gp)
	ld.group = gp
}

func (ld *loader) useMaterial(name string) error {
	if name == "" {
		ld.mtl = nil
		return nil
	}
	mt := ld.sc.MaterialByName(name)
	if mt == nil {
		// material libraries are optional in the wild; synthesize a
		// default-colored material so the reference survives
		mt = scene.NewMaterial(name)
		ld.sc.Materials = append(ld.sc.Materials, mt)
	}
	ld.mtl = mt
	return nil
}

func (ld *loader) readMaterialLib(lib string) error {
	path := lib
	if !filepath.IsAbs(path) {
		path = filepath.Join(ld.dir, lib)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mtllib %s: %w", lib, err)
	}
	defer f.Close()

	var mt *scene.Material
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		kw, args := fields[0], fields[1:]
		switch kw {
		case "newmtl":
			name := strings.Join(args, " ")
			mt = ld.sc.MaterialByName(name)
			if mt == nil {
				mt = scene.NewMaterial(name)
				ld.sc.Materials = append(ld.sc.Materials, mt)
			}
		case "Kd":
			if mt == nil || len(args) < 3 {
				continue
			}
			var rgb [3]float64
			ok := true
			for i := range rgb {
				if rgb[i], err = strconv.ParseFloat(args[i], 64); err != nil {
					ok = false
					break
				}
			}
			if ok {
				mt.Color = color.RGBA{
					R: uint8(rgb[0]*255 + 0.5),
					G: uint8(rgb[1]*255 + 0.5),
					B: uint8(rgb[2]*255 + 0.5),
					A: mt.Color.A,
				}
			}
		case "d", "Tr":
			if mt == nil || len(args) < 1 {
				continue
			}
			if v, err := strconv.ParseFloat(args[0], 32); err == nil {
				if kw == "Tr" { // transmission is inverse dissolve
					v = 1 - v
				}
				mt.UseOpacity = true
				mt.Opacity = float32(v)
			}
		case "map_Kd":
			if mt == nil || len(args) < 1 {
				continue
			}
			src := args[len(args)-1] // options precede the filename
			if !filepath.IsAbs(src) {
				src = filepath.Join(ld.dir, src)
			}
			mt.Texture = &scene.Texture{
				FileName: filepath.Base(src),
				Scale:    geom.Vec2(1, 1),
				Source:   src,
			}
			if mt.Type == scene.Colored {
				mt.Type = scene.ColorizedTexture
			}
		}
	}
	return sc.Err()
}
