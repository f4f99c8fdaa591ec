// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render defines the interface to an external rendering engine.
// A [Service] builds render sessions ([Task]) for a markup snapshot and a
// configuration. A task is first inflated, which constructs its view tree,
// and then rendered any number of times, producing a [Result] with an image,
// a tree of [ViewInfo] and diagnostics.
package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/markup"
)

// Service is a rendering engine.
type Service interface {

	// Version returns the version of the engine.
	Version() *semver.Version

	// Build builds a new render session for the given source.
	// The returned future fails if the session can not be built.
	Build(ctx context.Context, src Source, opts Options) *future.Future[Task]
}

// Task is a render session bound to one markup snapshot and one
// configuration. The futures returned by a task fail if the engine
// crashes; problems in the content are reported through [Result.Err]
// and [Result.Diagnostics] instead.
type Task interface {

	// Inflate constructs the view tree of the session.
	Inflate(ctx context.Context) *future.Future[*Result]

	// Render renders the inflated view tree.
	Render(ctx context.Context) *future.Future[*Result]

	// Layout measures and lays out the view tree again
	// without producing an image.
	Layout(ctx context.Context) *future.Future[*Result]

	// ExecuteCallbacks runs the pending engine callbacks (such as
	// animation frames) scheduled up to the given session time.
	// It returns whether there are callbacks left to run.
	ExecuteCallbacks(ctx context.Context, nanos int64) *future.Future[bool]

	// SetElapsedFrameTime sets the session time used by the next render.
	SetElapsedFrameTime(nanos int64)

	// Dispose releases the session. Using a task after it is disposed
	// returns failed futures.
	Dispose() error

	// IsDisposed returns whether the task has been disposed.
	IsDisposed() bool
}

// Source is the content that a session is built for.
type Source struct {

	// File is the file of the model.
	File string

	// Markup is the markup snapshot taken when the session is built.
	Markup *markup.Snapshot

	// Config is the configuration of the session.
	Config configuration.State
}

// Options are the options of a render session.
type Options struct {

	// UseImagePool is whether images are allocated from the [ImagePool].
	UseImagePool bool

	// Quality is the scale of the rendered image relative to the
	// device resolution, in (0, 1]. Zero means 1.
	Quality float32

	// ShowDecorations is whether the system decorations, such as
	// the status bar, are rendered around the content.
	ShowDecorations bool

	// Shrink is whether the image is cropped to the content
	// instead of the whole device screen.
	Shrink bool

	// Transparent is whether the background is left transparent.
	Transparent bool

	// Logger is used by the engine to report problems.
	// Nil means [slog.Default].
	Logger *slog.Logger
}

// Log returns the logger of the options.
func (o *Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// CheckCompatible returns an error if the version of the given
// service does not satisfy the given semantic version constraint,
// such as ">= 1.2, < 2". An empty constraint accepts any version.
func CheckCompatible(svc Service, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("render: invalid engine version constraint %q: %w", constraint, err)
	}
	v := svc.Version()
	if v == nil {
		return fmt.Errorf("render: engine has no version")
	}
	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("render: engine version %s is not supported: %w", v, errs[0])
		}
		return fmt.Errorf("render: engine version %s does not satisfy %q", v, constraint)
	}
	return nil
}
