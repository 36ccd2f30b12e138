// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the logging setup for sceneml, wrapping
// log/slog with a compact handler that colors level tags when the
// output is a terminal.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// UserLevel is the current user-facing logging level. It starts at
// the build's default level and is set from the command line
// (--verbose, --quiet) by [Init] callers.
var UserLevel = defaultUserLevel

// Init installs the sceneml handler writing to w as the slog default,
// at [UserLevel].
func Init(w io.Writer) {
	slog.SetDefault(slog.New(newHandler(w)))
}

// handler is a minimal slog handler: "LEVEL  message key=value ...",
// with the level tag colored when w supports it.
type handler struct {
	mu     sync.Mutex
	w      io.Writer
	out    *termenv.Output
	attrs  []slog.Attr
	groups []string
}

func newHandler(w io.Writer) *handler {
	return &handler{w: w, out: termenv.NewOutput(w)}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= UserLevel
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelTag(r.Level))
	sb.WriteByte('\t')
	sb.WriteString(r.Message)
	prefix := strings.Join(h.groups, ".")
	attr := func(a slog.Attr) {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, a.Value)
	}
	for _, a := range h.attrs {
		attr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		attr(a)
		return true
	})
	sb.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := &handler{w: h.w, out: h.out, groups: h.groups}
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return nh
}

func (h *handler) WithGroup(name string) slog.Handler {
	nh := &handler{w: h.w, out: h.out, attrs: h.attrs}
	nh.groups = append(append([]string{}, h.groups...), name)
	return nh
}

func (h *handler) levelTag(level slog.Level) string {
	s := h.out.String(level.String())
	switch {
	case level >= slog.LevelError:
		s = s.Foreground(termenv.ANSIRed)
	case level >= slog.LevelWarn:
		s = s.Foreground(termenv.ANSIYellow)
	case level >= slog.LevelInfo:
		s = s.Foreground(termenv.ANSIGreen)
	default:
		s = s.Faint()
	}
	return s.String()
}
