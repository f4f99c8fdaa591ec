// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Severity is the severity of a [Diagnostic].
type Severity int32

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "info"
}

// Diagnostic is a problem found by the engine.
type Diagnostic struct {
	Severity Severity
	Message  string

	// Cookie is the cookie of the view the problem is about, if any.
	Cookie any
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// Result is a completed inflate, render or layout. A result is
// immutable once it has been returned by the engine, except for
// [Result.Dispose], which releases its image.
type Result struct {

	// File is the file of the model that was rendered.
	File string

	// Image is the rendered image, which is nil for
	// inflate and layout results and for error results.
	Image *image.RGBA

	// RootViews are the view infos of the content roots.
	RootViews []*ViewInfo

	// SystemRootViews are the view infos of the system decor,
	// which contain the content roots when decorations are shown.
	SystemRootViews []*ViewInfo

	// Diagnostics are the problems found by the engine.
	Diagnostics []Diagnostic

	// Err is the error of a failed operation.
	Err error

	// Duration is the time that the operation took.
	Duration time.Duration

	// Pool is the pool that the image is returned to on dispose.
	Pool *ImagePool

	once     sync.Once
	disposed atomic.Bool
}

// ErrorResult returns a synthetic result for the given file
// that reports the given error.
func ErrorResult(file string, err error) *Result {
	return &Result{File: file, Err: err, Diagnostics: []Diagnostic{{Severity: SeverityError, Message: err.Error()}}}
}

// Success returns whether the operation succeeded.
func (r *Result) Success() bool {
	return r != nil && r.Err == nil
}

// ImageBytes returns the size of the pixel data of the image.
func (r *Result) ImageBytes() int {
	if r == nil || r.Image == nil {
		return 0
	}
	return len(r.Image.Pix)
}

// Dispose returns the image to its pool. The image must not be used
// after the result is disposed. It is safe to call any number of
// times; only the first call has an effect.
func (r *Result) Dispose() {
	r.once.Do(func() {
		r.disposed.Store(true)
		if r.Pool != nil && r.Image != nil {
			r.Pool.Put(r.Image)
		}
	})
}

// IsDisposed returns whether the result has been disposed.
func (r *Result) IsDisposed() bool {
	return r.disposed.Load()
}

func (r *Result) String() string {
	if r == nil {
		return "<nil>"
	}
	if r.Err != nil {
		return fmt.Sprintf("%s: error: %v", r.File, r.Err)
	}
	if r.Image == nil {
		return fmt.Sprintf("%s: %d root views", r.File, len(r.RootViews))
	}
	return fmt.Sprintf("%s: %dx%d image, %d root views", r.File, r.Image.Rect.Dx(), r.Image.Rect.Dy(), len(r.RootViews))
}
