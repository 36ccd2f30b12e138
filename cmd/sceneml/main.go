// Copyright (c) 2025, The sceneml Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sceneml exports a 3D CAD scene file (JSON / YAML scene
// document, or Wavefront OBJ) to an XML document, extracting material
// textures into a sibling directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sceneml/sceneml/base/errors"
	"github.com/sceneml/sceneml/exporter"
	"github.com/sceneml/sceneml/logx"
	_ "github.com/sceneml/sceneml/scene/obj" // register the .obj decoder
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	opts        exporter.Options
	optionsFile string
	watch       bool
	verbose     bool
	quiet       bool
}

func newCommand() *cobra.Command {
	cf := &cliFlags{}
	cf.opts.Defaults()

	cmd := &cobra.Command{
		Use:           "sceneml SRC DST",
		Short:         "export a 3D scene file to XML",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, cf, args[0], args[1])
			if err != nil {
				slog.Error(err.Error())
			}
			return err
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&cf.opts.Materials, "materials", cf.opts.Materials, "export materials and extract textures")
	fs.BoolVar(&cf.opts.Layers, "layers", cf.opts.Layers, "export layers and per-element layer attributes")
	fs.BoolVar(&cf.opts.Faces, "faces", cf.opts.Faces, "export face geometry")
	fs.BoolVar(&cf.opts.Edges, "edges", cf.opts.Edges, "export standalone edges and curves")
	fs.BoolVar(&cf.opts.Definitions, "definitions", cf.opts.Definitions, "export component definitions")
	fs.BoolVar(&cf.opts.MaterialsByLayer, "materials-by-layer", cf.opts.MaterialsByLayer, "export the materials attached to layers instead of the material table")
	fs.IntVar(&cf.opts.MaxTextureSize, "max-texture-size", cf.opts.MaxTextureSize, "downscale extracted textures to at most this many pixels per side (0 = off)")
	fs.StringVar(&cf.optionsFile, "options", "", "load export options from a TOML file")
	fs.BoolVar(&cf.watch, "watch", false, "re-export whenever the source file changes")
	fs.BoolVarP(&cf.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVarP(&cf.quiet, "quiet", "q", false, "only log errors, no progress output")
	return cmd
}

func run(cmd *cobra.Command, cf *cliFlags, src, dst string) error {
	switch {
	case cf.verbose:
		logx.UserLevel = slog.LevelDebug
	case cf.quiet:
		logx.UserLevel = slog.LevelError
	}
	logx.Init(os.Stderr)

	opts, err := resolveOptions(cmd.Flags(), cf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ex := exporter.New(*opts)
	if !cf.quiet {
		ex.Progress = func(pct float64, phase string) {
			fmt.Fprintf(os.Stderr, "%3.0f%% %s\n", pct, phase)
		}
	}

	if err := ex.Convert(ctx, src, dst); err != nil {
		return err
	}
	if !cf.watch {
		return nil
	}
	return watch(ctx, ex, src, dst)
}

// resolveOptions layers the configuration: defaults, then the options
// file, then any toggles set explicitly on the command line.
func resolveOptions(fs *pflag.FlagSet, cf *cliFlags) (*exporter.Options, error) {
	if cf.optionsFile == "" {
		return &cf.opts, nil
	}
	opts, err := exporter.OpenOptions(cf.optionsFile)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "materials":
			opts.Materials = cf.opts.Materials
		case "layers":
			opts.Layers = cf.opts.Layers
		case "faces":
			opts.Faces = cf.opts.Faces
		case "edges":
			opts.Edges = cf.opts.Edges
		case "definitions":
			opts.Definitions = cf.opts.Definitions
		case "materials-by-layer":
			opts.MaterialsByLayer = cf.opts.MaterialsByLayer
		case "max-texture-size":
			opts.MaxTextureSize = cf.opts.MaxTextureSize
		}
	})
	return opts, nil
}

// watch re-runs the export whenever the source file is rewritten,
// until interrupted.
func watch(ctx context.Context, ex *exporter.Exporter, src, dst string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { errors.Log(w.Close()) }()

	// watch the directory: editors typically replace the file, which
	// drops a watch set on the file itself
	if err := w.Add(filepath.Dir(src)); err != nil {
		return err
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	slog.Info("watching for changes", "src", src)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			return err
		case ev := <-w.Events:
			evAbs := errors.Ignore1(filepath.Abs(ev.Name))
			if evAbs != abs || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := ex.Convert(ctx, src, dst); err != nil {
				if ctx.Err() != nil {
					return err
				}
				// keep watching after a bad intermediate save
				slog.Error(err.Error())
			}
		}
	}
}
