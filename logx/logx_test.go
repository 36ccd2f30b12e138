// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(newHandler(&buf))

	lg.Info("exporting", "src", "house.json", "dst", "house.xml")
	s := buf.String()
	assert.Contains(t, s, "INFO")
	assert.Contains(t, s, "exporting")
	assert.Contains(t, s, "src=house.json")
	assert.Contains(t, s, "dst=house.xml")
}

func TestHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	lg := slog.New(newHandler(&buf)).WithGroup("stats").With("faces", 3)

	lg.Warn("short run", "edges", 0)
	s := buf.String()
	assert.Contains(t, s, "WARN")
	assert.Contains(t, s, "stats.faces=3")
	assert.Contains(t, s, "stats.edges=0")
}

func TestUserLevel(t *testing.T) {
	old := UserLevel
	defer func() { UserLevel = old }()

	var buf bytes.Buffer
	lg := slog.New(newHandler(&buf))

	UserLevel = slog.LevelWarn
	lg.Info("hidden")
	assert.Empty(t, buf.String())

	UserLevel = slog.LevelDebug
	lg.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
