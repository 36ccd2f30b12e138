// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/sceneml/sceneml/geom"
	"github.com/sceneml/sceneml/scene"
)

// XMLFile writes the output document through an element stack: Start*
// methods open a parent element that subsequent writes nest under,
// and PopParentNode closes it. Close ends every open element so the
// document is well-formed on all exit paths.
type XMLFile struct {
	file  *os.File
	bw    *bufio.Writer
	enc   *xml.Encoder
	stack []xml.Name
}

// CreateXMLFile creates the output file and writes the XML
// declaration.
func CreateXMLFile(filename string) (*XMLFile, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")
	xf := &XMLFile{file: f, bw: bw, enc: enc}
	err = enc.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8"`),
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return xf, nil
}

// WriteHeader opens the root Model element carrying the version of
// the modeler that produced the scene.
func (xf *XMLFile) WriteHeader(v scene.Version) error {
	return xf.push("Model", attr("version", v.String()))
}

// StartLayers opens the Layers element.
func (xf *XMLFile) StartLayers(count int) error {
	return xf.push("Layers", attr("count", strconv.Itoa(count)))
}

// StartMaterials opens the Materials element.
func (xf *XMLFile) StartMaterials(count int) error {
	return xf.push("Materials", attr("count", strconv.Itoa(count)))
}

// StartComponentDefinitions opens the ComponentDefinitions element.
func (xf *XMLFile) StartComponentDefinitions(count int) error {
	return xf.push("ComponentDefinitions", attr("count", strconv.Itoa(count)))
}

// StartComponentDefinition opens one ComponentDefinition element.
func (xf *XMLFile) StartComponentDefinition(name, guid string) error {
	return xf.push("ComponentDefinition", attr("name", name), attr("guid", guid))
}

// StartGeometry opens the Geometry element.
func (xf *XMLFile) StartGeometry() error {
	return xf.push("Geometry")
}

// StartGroup opens a Group element.
func (xf *XMLFile) StartGroup(name string) error {
	attrs := []xml.Attr{}
	if name != "" {
		attrs = append(attrs, attr("name", name))
	}
	return xf.push("Group", attrs...)
}

// PopParentNode closes the current parent element.
func (xf *XMLFile) PopParentNode() error {
	if len(xf.stack) == 0 {
		return fmt.Errorf("exporter.XMLFile: PopParentNode with no open element")
	}
	name := xf.stack[len(xf.stack)-1]
	xf.stack = xf.stack[:len(xf.stack)-1]
	return xf.enc.EncodeToken(xml.EndElement{Name: name})
}

// WriteLayerInfo writes one Layer element.
func (xf *XMLFile) WriteLayerInfo(info LayerInfo) error {
	err := xf.push("Layer",
		attr("name", info.Name),
		attr("visible", strconv.FormatBool(info.Visible)))
	if err != nil {
		return err
	}
	if info.HasMaterial {
		if err := xf.WriteMaterialInfo(info.Material); err != nil {
			return err
		}
	}
	return xf.PopParentNode()
}

// WriteMaterialInfo writes one Material element.
func (xf *XMLFile) WriteMaterialInfo(info MaterialInfo) error {
	attrs := []xml.Attr{attr("name", info.Name)}
	if info.HasColor {
		attrs = append(attrs, attr("color", hexColor(info.Color)))
	}
	if info.HasAlpha {
		attrs = append(attrs, attr("alpha", fmtFloat(info.Alpha)))
	}
	if err := xf.push("Material", attrs...); err != nil {
		return err
	}
	if info.HasTexture {
		err := xf.element("Texture",
			attr("path", info.TexturePath),
			attr("sscale", fmtFloat(info.TextureSScale)),
			attr("tscale", fmtFloat(info.TextureTScale)))
		if err != nil {
			return err
		}
	}
	return xf.PopParentNode()
}

// WriteComponentInstanceInfo writes one ComponentInstance element
// with its transformation.
func (xf *XMLFile) WriteComponentInstanceInfo(info ComponentInstanceInfo) error {
	attrs := []xml.Attr{}
	if info.Name != "" {
		attrs = append(attrs, attr("name", info.Name))
	}
	attrs = append(attrs, attr("definition", info.DefinitionName))
	if info.LayerName != "" {
		attrs = append(attrs, attr("layer", info.LayerName))
	}
	if info.MaterialName != "" {
		attrs = append(attrs, attr("material", info.MaterialName))
	}
	if err := xf.push("ComponentInstance", attrs...); err != nil {
		return err
	}
	if err := xf.WriteTransformation(info.Transform); err != nil {
		return err
	}
	return xf.PopParentNode()
}

// WriteTransformation writes a Transformation element holding the 16
// matrix values in column-major order.
func (xf *XMLFile) WriteTransformation(m geom.Matrix4) error {
	var sb strings.Builder
	for i, v := range m {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmtFloat(v))
	}
	if err := xf.push("Transformation"); err != nil {
		return err
	}
	if err := xf.enc.EncodeToken(xml.CharData(sb.String())); err != nil {
		return err
	}
	return xf.PopParentNode()
}

// WriteFaceInfo writes one Face element with its vertex ring.
func (xf *XMLFile) WriteFaceInfo(info FaceInfo) error {
	attrs := []xml.Attr{}
	if info.HasLayer {
		attrs = append(attrs, attr("layer", info.LayerName))
	}
	if info.HasMaterial {
		attrs = append(attrs, attr("material", info.MaterialName))
	}
	if err := xf.push("Face", attrs...); err != nil {
		return err
	}
	for _, v := range info.Vertices {
		if err := xf.vertex("Vertex", v.Pos); err != nil {
			return err
		}
	}
	return xf.PopParentNode()
}

// WriteEdgeInfo writes one Edge element.
func (xf *XMLFile) WriteEdgeInfo(info EdgeInfo) error {
	return xf.writeEdge(info)
}

// WriteCurveInfo writes a Curve element holding its edge run.
func (xf *XMLFile) WriteCurveInfo(info CurveInfo) error {
	if err := xf.push("Curve", attr("count", strconv.Itoa(len(info.Edges)))); err != nil {
		return err
	}
	for _, ed := range info.Edges {
		if err := xf.writeEdge(ed); err != nil {
			return err
		}
	}
	return xf.PopParentNode()
}

// Close ends every open element and closes the file. When cancelled,
// a comment marking the document incomplete is written first.
func (xf *XMLFile) Close(cancelled bool) error {
	var first error
	if cancelled {
		err := xf.enc.EncodeToken(xml.Comment(" export incomplete: cancelled "))
		if err != nil && first == nil {
			first = err
		}
	}
	for len(xf.stack) > 0 {
		if err := xf.PopParentNode(); err != nil && first == nil {
			first = err
		}
	}
	if err := xf.enc.Flush(); err != nil && first == nil {
		first = err
	}
	if err := xf.bw.Flush(); err != nil && first == nil {
		first = err
	}
	if err := xf.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

func (xf *XMLFile) writeEdge(info EdgeInfo) error {
	attrs := []xml.Attr{}
	if info.HasLayer {
		attrs = append(attrs, attr("layer", info.LayerName))
	}
	if info.HasColor {
		attrs = append(attrs, attr("color", hexColor(info.Color)))
	}
	if err := xf.push("Edge", attrs...); err != nil {
		return err
	}
	if err := xf.vertex("Start", info.Start); err != nil {
		return err
	}
	if err := xf.vertex("End", info.End); err != nil {
		return err
	}
	return xf.PopParentNode()
}

// vertex writes a self-closing point element with x, y, z attributes.
func (xf *XMLFile) vertex(name string, p geom.Vector3) error {
	return xf.element(name,
		attr("x", fmtFloat(p.X)),
		attr("y", fmtFloat(p.Y)),
		attr("z", fmtFloat(p.Z)))
}

// push opens an element and makes it the current parent.
func (xf *XMLFile) push(name string, attrs ...xml.Attr) error {
	se := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := xf.enc.EncodeToken(se); err != nil {
		return err
	}
	xf.stack = append(xf.stack, se.Name)
	return nil
}

// element writes a complete element with no children.
func (xf *XMLFile) element(name string, attrs ...xml.Attr) error {
	if err := xf.push(name, attrs...); err != nil {
		return err
	}
	return xf.PopParentNode()
}

func attr(name, val string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: val}
}

func fmtFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// hexColor formats a color as #rrggbb, with the alpha appended only
// when not fully opaque.
func hexColor(c color.RGBA) string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
