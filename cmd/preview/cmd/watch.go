// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cogentcore.org/preview/manager"
	"cogentcore.org/preview/watch"
)

var watchOut string

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Render a layout file every time it changes",
	Long: `Render a layout file, write it as a PNG file and render it again
every time the file changes, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "output PNG file (default FILE with a .png extension)")
	watchCmd.Flags().StringVar(&zoom, "zoom", "", "zoom: fit, fit-into, actual or a percentage")
	watchCmd.Flags().StringVar(&viewport, "viewport", "", "size of the viewport as WxH, such as 1280x800")
}

func runWatch(cmd *cobra.Command, args []string) error {
	force, err := applyViewportFlags(cmd)
	if err != nil {
		return err
	}
	file := args[0]
	out := watchOut
	if out == "" {
		out = pngName(".", file)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := newPreview(file)
	if err != nil {
		return err
	}
	defer p.Dispose()
	m := p.models[0]
	sm := p.surface.SceneManager(m)

	rendered := make(chan struct{}, 1)
	sm.AddRenderListener(&manager.RenderFuncs{OnRenderCompleted: func() {
		select {
		case rendered <- struct{}{}:
		default:
		}
	}})

	if err := p.render(ctx, force); err != nil {
		return err
	}
	if err := p.writePNG(m, out); err != nil {
		return err
	}
	slog.Info("rendered", "file", file, "out", out)

	w, err := watch.New(m)
	if err != nil {
		return err
	}
	defer w.Close()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// drop the signal of the initial render
	select {
	case <-rendered:
	default:
	}
	for {
		select {
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-rendered:
			v := cfg.Viewport
			p.surface.Layout(v.Width, v.Height)
			if err := p.writePNG(m, out); err != nil {
				slog.Warn("unable to write", "out", out, "err", err)
				continue
			}
			slog.Info("rendered", "file", file, "out", out)
		}
	}
}
