// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exporter

import "log/slog"

// Stats counts what one export pass wrote.
type Stats struct {
	Layers    int
	Materials int

	// Definitions is the number of component definitions written.
	Definitions int

	// Instances is the number of component instance placements.
	Instances int

	Groups int

	// Faces counts face records; a face with holes counts once per loop.
	Faces int

	Edges  int
	Curves int

	// Textures is the number of texture image files extracted.
	Textures int
}

// LogValue makes Stats loggable as a structured slog group.
func (st Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("layers", st.Layers),
		slog.Int("materials", st.Materials),
		slog.Int("definitions", st.Definitions),
		slog.Int("instances", st.Instances),
		slog.Int("groups", st.Groups),
		slog.Int("faces", st.Faces),
		slog.Int("edges", st.Edges),
		slog.Int("curves", st.Curves),
		slog.Int("textures", st.Textures),
	)
}
