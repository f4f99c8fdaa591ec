// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package softrender provides a software rendering engine that
// implements [render.Service]. It lays out markup as stacked boxes,
// measured in dp and converted to pixels with the device density,
// and paints every view as a filled rectangle in a color derived
// from its view class.
//
// The supported attributes are:
//
//	width, height    match_parent, wrap_content, N, Ndp or Npx
//	padding          N, Ndp or Npx
//	orientation      vertical (default) or horizontal
//	visibility       visible (default), invisible or gone
//	text             text content, which sizes wrap_content leaves
//	duration         length of the fade-in animation in milliseconds
//
// Attribute values of the form @name refer to the resources of
// the configuration.
package softrender

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"sync"

	"github.com/Masterminds/semver/v3"

	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/base/keycache"
	"cogentcore.org/preview/render"
)

// Version is the version of the engine.
const Version = "1.3.0"

var (
	// ErrNoContent is returned when building a session without markup.
	ErrNoContent = errors.New("softrender: no content")

	// ErrDisposed is returned by the operations of a disposed task.
	ErrDisposed = errors.New("softrender: task is disposed")

	// ErrNotInflated is returned when rendering a task that has
	// not been inflated.
	ErrNotInflated = errors.New("softrender: task is not inflated")
)

// Service is the software rendering engine.
type Service struct {

	// Pool is the image pool used by sessions that use an image pool.
	Pool *render.ImagePool

	version *semver.Version

	mu      sync.Mutex
	theme   string
	palette keycache.Cache[string, color.RGBA]
}

// New returns a new engine that uses [render.DefaultImagePool].
func New() *Service {
	return &Service{Pool: render.DefaultImagePool, version: semver.MustParse(Version)}
}

func (s *Service) Version() *semver.Version {
	return s.version
}

// Build builds a new session for the given source. It fails if there
// is no content or the device has no screen.
func (s *Service) Build(ctx context.Context, src render.Source, opts render.Options) *future.Future[render.Task] {
	if err := ctx.Err(); err != nil {
		return future.Failed[render.Task](err)
	}
	if src.Markup == nil {
		return future.Failed[render.Task](fmt.Errorf("%w: %s", ErrNoContent, src.File))
	}
	d := src.Config.Device
	if d.Width <= 0 || d.Height <= 0 {
		return future.Failed[render.Task](fmt.Errorf("softrender: device %q has no screen", d.Name))
	}
	if opts.Quality <= 0 || opts.Quality > 1 {
		opts.Quality = 1
	}
	s.setTheme(src.Config.Theme)
	t := &Task{svc: s, src: src, opts: opts}
	return future.Completed[render.Task](t)
}

// setTheme drops the class palette when the theme changes.
func (s *Service) setTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme != theme {
		s.theme = theme
		s.palette.Invalidate()
	}
}

// PaletteGeneration returns the number of times
// that the class palette has been dropped.
func (s *Service) PaletteGeneration() uint64 {
	return s.palette.Generation()
}

// classColor returns the fill color of the given view class.
func (s *Service) classColor(class, theme string) color.RGBA {
	return s.palette.Get(class, func(class string) color.RGBA {
		h := fnv.New32a()
		h.Write([]byte(class))
		v := h.Sum32()
		r, g, b := uint8(v), uint8(v>>8), uint8(v>>16)
		if theme == "dark" {
			return color.RGBA{r/2 + 16, g/2 + 16, b/2 + 16, 255}
		}
		return color.RGBA{r/2 + 120, g/2 + 120, b/2 + 120, 255}
	})
}

func background(theme string, transparent bool) color.RGBA {
	switch {
	case transparent:
		return color.RGBA{}
	case theme == "dark":
		return color.RGBA{0x20, 0x20, 0x20, 0xff}
	}
	return color.RGBA{0xff, 0xff, 0xff, 0xff}
}

var statusBarColor = color.RGBA{0x30, 0x30, 0x38, 0xff}
