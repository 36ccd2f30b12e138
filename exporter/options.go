// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Options are the export toggles, settable from the command line or
// loaded from a TOML options file.
type Options struct {

	// Materials is whether to export materials (and extract their
	// textures next to the output file).
	Materials bool `toml:"materials"`

	// Layers is whether to export the layer table and per-element
	// layer attributes.
	Layers bool `toml:"layers"`

	// Faces is whether to export face geometry.
	Faces bool `toml:"faces"`

	// Edges is whether to export standalone edge and curve geometry.
	Edges bool `toml:"edges"`

	// Definitions is whether to export component definitions as a
	// separate section (instances always record their definition name).
	Definitions bool `toml:"definitions"`

	// MaterialsByLayer exports the materials attached to layers
	// instead of the scene's material table.
	MaterialsByLayer bool `toml:"materials-by-layer"`

	// MaxTextureSize downscales extracted textures so that neither
	// dimension exceeds this many pixels. 0 disables scaling.
	MaxTextureSize int `toml:"max-texture-size"`
}

// Defaults sets the default options: everything exported, materials
// from the scene material table, textures at full size.
func (op *Options) Defaults() {
	op.Materials = true
	op.Layers = true
	op.Faces = true
	op.Edges = true
	op.Definitions = true
	op.MaterialsByLayer = false
	op.MaxTextureSize = 0
}

// OpenOptions loads options from the given TOML file, on top of the
// defaults.
func OpenOptions(filename string) (*Options, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	op := &Options{}
	op.Defaults()
	if err := toml.Unmarshal(b, op); err != nil {
		return nil, fmt.Errorf("exporter: options file %s: %w", filename, err)
	}
	if op.MaxTextureSize < 0 {
		return nil, fmt.Errorf("exporter: options file %s: max-texture-size must be >= 0", filename)
	}
	return op, nil
}

// SaveOptions writes the options to the given TOML file.
func SaveOptions(op *Options, filename string) error {
	b, err := toml.Marshal(op)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o666)
}
