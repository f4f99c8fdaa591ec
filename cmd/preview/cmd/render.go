// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	outDir   string
	zoom     string
	viewport string
)

var renderCmd = &cobra.Command{
	Use:   "render FILE...",
	Short: "Render layout files to PNG files",
	Long: `Render every given layout file concurrently and write one PNG file per
layout into the output directory, named after the layout file.

The zoom is applied to the rendered image: fit and fit-into scale it to
the viewport, actual keeps the device size, and a percentage such as 150
sets the scale directly. Without --zoom, the last zoom of the file is kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	renderCmd.Flags().StringVar(&zoom, "zoom", "", "zoom: fit, fit-into, actual or a percentage")
	renderCmd.Flags().StringVar(&viewport, "viewport", "", "size of the viewport as WxH, such as 1280x800")
}

// applyViewportFlags applies the --zoom and --viewport flags to [cfg],
// and returns whether the zoom was given.
func applyViewportFlags(cmd *cobra.Command) (bool, error) {
	if viewport != "" {
		var w, h int
		if _, err := fmt.Sscanf(viewport, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
			return false, fmt.Errorf("invalid viewport %q: want WxH", viewport)
		}
		cfg.Viewport.Width, cfg.Viewport.Height = w, h
	}
	if !cmd.Flags().Changed("zoom") {
		return false, nil
	}
	cfg.Viewport.Zoom = zoom
	return true, cfg.Validate()
}

func runRender(cmd *cobra.Command, args []string) error {
	force, err := applyViewportFlags(cmd)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(cmd.Context())
	for _, file := range args {
		g.Go(func() error {
			p, err := newPreview(file)
			if err != nil {
				return err
			}
			defer p.Dispose()
			if err := p.render(ctx, force); err != nil {
				return err
			}
			out := pngName(outDir, file)
			if err := p.writePNG(p.models[0], out); err != nil {
				return err
			}
			slog.Info("rendered", "file", file, "out", out, "scale", p.surface.Viewport().Scale())
			return nil
		})
	}
	return g.Wait()
}
