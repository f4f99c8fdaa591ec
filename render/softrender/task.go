// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softrender

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"

	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/render"
)

// Task is a render session of the software engine.
type Task struct {
	svc  *Service
	src  render.Source
	opts render.Options

	mu        sync.Mutex
	root      *node
	statusH   int
	diags     []render.Diagnostic
	frameTime int64

	disposed atomic.Bool
}

// run runs the given operation unless the task is disposed
// or the context is done.
func run[T any](ctx context.Context, t *Task, fun func() (T, error)) *future.Future[T] {
	if t.disposed.Load() {
		return future.Failed[T](ErrDisposed)
	}
	if err := ctx.Err(); err != nil {
		return future.Failed[T](err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	v, err := fun()
	if err != nil {
		return future.Failed[T](err)
	}
	return future.Completed(v)
}

// Inflate builds and lays out the view tree. Invalid attributes
// produce a result with an error.
func (t *Task) Inflate(ctx context.Context) *future.Future[*render.Result] {
	return run(ctx, t, func() (*render.Result, error) {
		start := time.Now()
		d := t.src.Config.Device
		in := &inflater{density: d.Density(), resources: t.src.Config.Resources}
		root, err := in.inflate(t.src.Markup)
		if err != nil {
			t.opts.Log().Warn("softrender: inflate failed", "file", t.src.File, "err", err)
			r := render.ErrorResult(t.src.File, err)
			r.Diagnostics = append(in.diags, r.Diagnostics...)
			return r, nil
		}
		t.statusH = 0
		if t.opts.ShowDecorations {
			t.statusH = in.dp(statusBarDp)
		}
		root.layout(in, d.Width, max(0, d.Height-t.statusH))
		t.root = root
		t.diags = in.diags
		for _, dg := range t.diags {
			t.opts.Log().Warn("softrender: "+dg.Message, "file", t.src.File)
		}
		return t.result(nil, time.Since(start)), nil
	})
}

// Render paints the inflated view tree.
func (t *Task) Render(ctx context.Context) *future.Future[*render.Result] {
	return run(ctx, t, func() (*render.Result, error) {
		if t.root == nil {
			return render.ErrorResult(t.src.File, ErrNotInflated), nil
		}
		start := time.Now()
		img := t.paint()
		return t.result(img, time.Since(start)), nil
	})
}

// Layout lays out the inflated view tree again for the current device.
func (t *Task) Layout(ctx context.Context) *future.Future[*render.Result] {
	return run(ctx, t, func() (*render.Result, error) {
		if t.root == nil {
			return render.ErrorResult(t.src.File, ErrNotInflated), nil
		}
		start := time.Now()
		d := t.src.Config.Device
		in := &inflater{density: d.Density()}
		t.root.layout(in, d.Width, max(0, d.Height-t.statusH))
		return t.result(nil, time.Since(start)), nil
	})
}

// ExecuteCallbacks reports whether any fade-in animation is still
// running at the given session time.
func (t *Task) ExecuteCallbacks(ctx context.Context, nanos int64) *future.Future[bool] {
	return run(ctx, t, func() (bool, error) {
		return t.root != nil && t.root.pendingAnimation(nanos), nil
	})
}

func (t *Task) SetElapsedFrameTime(nanos int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frameTime = nanos
}

// Dispose releases the task. Disposing a task twice is an error.
func (t *Task) Dispose() error {
	if t.disposed.Swap(true) {
		return ErrDisposed
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = nil
	return nil
}

func (t *Task) IsDisposed() bool {
	return t.disposed.Load()
}

// result returns a result with the current view tree and the given image.
func (t *Task) result(img *image.RGBA, d time.Duration) *render.Result {
	r := &render.Result{File: t.src.File, Image: img, Diagnostics: append([]render.Diagnostic(nil), t.diags...), Duration: d}
	if img != nil && t.opts.UseImagePool {
		r.Pool = t.svc.Pool
	}
	if !t.opts.ShowDecorations {
		r.RootViews = []*render.ViewInfo{t.root.viewInfo(0, 0)}
		return r
	}
	d0 := t.src.Config.Device
	content := t.root.viewInfo(0, 0)
	frame := &render.ViewInfo{ClassName: "ContentFrame", Top: t.statusH, Right: d0.Width, Bottom: d0.Height, Children: []*render.ViewInfo{content}}
	status := &render.ViewInfo{ClassName: "StatusBar", Right: d0.Width, Bottom: t.statusH}
	decor := &render.ViewInfo{ClassName: "DecorView", Right: d0.Width, Bottom: d0.Height, Children: []*render.ViewInfo{status, frame}}
	r.SystemRootViews = []*render.ViewInfo{decor}
	r.RootViews = []*render.ViewInfo{t.root.viewInfo(0, t.statusH)}
	return r
}

func (t *Task) newImage(w, h int) *image.RGBA {
	if t.opts.UseImagePool {
		return t.svc.Pool.Get(w, h)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// paint paints the view tree into a new image.
func (t *Task) paint() *image.RGBA {
	d := t.src.Config.Device
	w, h := d.Width, d.Height
	if t.opts.Shrink {
		w = max(1, t.root.x+t.root.w)
		h = max(1, t.statusH+t.root.y+t.root.h)
	}
	img := t.newImage(w, h)
	theme := t.src.Config.Theme
	draw.Draw(img, img.Bounds(), image.NewUniform(background(theme, t.opts.Transparent)), image.Point{}, draw.Src)
	if t.statusH > 0 {
		draw.Draw(img, image.Rect(0, 0, w, t.statusH), image.NewUniform(statusBarColor), image.Point{}, draw.Src)
	}
	t.paintNode(img, t.root, 0, t.statusH, theme)
	if t.opts.Quality >= 1 {
		return img
	}
	sw := max(1, int(math.Ceil(float64(w)*float64(t.opts.Quality))))
	sh := max(1, int(math.Ceil(float64(h)*float64(t.opts.Quality))))
	scaled := t.newImage(sw, sh)
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	if t.opts.UseImagePool {
		t.svc.Pool.Put(img)
	}
	return scaled
}

func (t *Task) paintNode(img *image.RGBA, n *node, ox, oy int, theme string) {
	if n.visibility == gone {
		return
	}
	x, y := ox+n.x, oy+n.y
	if n.visibility == visible {
		c := t.svc.classColor(n.class, theme)
		if n.duration > 0 && t.frameTime < n.duration {
			a := float64(max(0, t.frameTime)) / float64(n.duration)
			c = color.RGBA{uint8(float64(c.R) * a), uint8(float64(c.G) * a), uint8(float64(c.B) * a), uint8(255 * a)}
		}
		draw.Draw(img, image.Rect(x, y, x+n.w, y+n.h), image.NewUniform(c), image.Point{}, draw.Over)
	}
	for _, c := range n.children {
		t.paintNode(img, c, x, y, theme)
	}
}
