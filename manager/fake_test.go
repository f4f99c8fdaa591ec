// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"

	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/render"
)

// fakeService is a render engine whose sessions produce view infos that
// mirror the markup snapshot, with every view 10px high and stacked.
type fakeService struct {
	version   *semver.Version
	buildErr  error
	inflateFn func(src render.Source) (*render.Result, error)

	mu    sync.Mutex
	tasks []*fakeTask

	// gate, if non-nil, blocks renders until it is closed.
	gate chan struct{}

	// started, if non-nil, receives a value when a render starts.
	started chan struct{}

	renderErr error
}

func (s *fakeService) renderConfig() (gate, started chan struct{}, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate, s.started, s.renderErr
}

func (s *fakeService) setGate(gate, started chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate, s.started = gate, started
}

func (s *fakeService) setRenderErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderErr = err
}

func newFakeService() *fakeService {
	return &fakeService{version: semver.MustParse("1.0.0")}
}

func (s *fakeService) Version() *semver.Version { return s.version }

func (s *fakeService) Build(ctx context.Context, src render.Source, opts render.Options) *future.Future[render.Task] {
	if s.buildErr != nil {
		return future.Failed[render.Task](s.buildErr)
	}
	t := &fakeTask{svc: s, src: src}
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return future.Completed[render.Task](t)
}

func (s *fakeService) allTasks() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeTask(nil), s.tasks...)
}

func (s *fakeService) renderCount() int64 {
	var n int64
	for _, t := range s.allTasks() {
		n += t.renders.Load()
	}
	return n
}

type fakeTask struct {
	svc *fakeService
	src render.Source

	inflates  atomic.Int64
	renders   atomic.Int64
	layouts   atomic.Int64
	disposes  atomic.Int64
	frameTime atomic.Int64
	disposed  atomic.Bool
}

func snapshotViews(s *markup.Snapshot, y int) *render.ViewInfo {
	v := &render.ViewInfo{ClassName: s.View, Top: y, Right: 100, Bottom: y + 10, Cookie: s}
	for i, c := range s.Children {
		v.Children = append(v.Children, snapshotViews(c, i*10))
	}
	return v
}

func (t *fakeTask) result() *render.Result {
	return &render.Result{File: t.src.File, RootViews: []*render.ViewInfo{snapshotViews(t.src.Markup, 0)}}
}

func (t *fakeTask) Inflate(ctx context.Context) *future.Future[*render.Result] {
	t.inflates.Add(1)
	if t.svc.inflateFn != nil {
		r, err := t.svc.inflateFn(t.src)
		if err != nil {
			return future.Failed[*render.Result](err)
		}
		return future.Completed(r)
	}
	return future.Completed(t.result())
}

func (t *fakeTask) Render(ctx context.Context) *future.Future[*render.Result] {
	t.renders.Add(1)
	gate, started, err := t.svc.renderConfig()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return future.Failed[*render.Result](ctx.Err())
		}
	}
	if err != nil {
		return future.Failed[*render.Result](err)
	}
	return future.Completed(t.result())
}

func (t *fakeTask) Layout(ctx context.Context) *future.Future[*render.Result] {
	t.layouts.Add(1)
	return future.Completed(t.result())
}

func (t *fakeTask) ExecuteCallbacks(ctx context.Context, nanos int64) *future.Future[bool] {
	return future.Completed(nanos < 1000)
}

func (t *fakeTask) SetElapsedFrameTime(nanos int64) {
	t.frameTime.Store(nanos)
}

func (t *fakeTask) Dispose() error {
	t.disposes.Add(1)
	if t.disposed.Swap(true) {
		return errors.New("already disposed")
	}
	return nil
}

func (t *fakeTask) IsDisposed() bool {
	return t.disposed.Load()
}

// manualExecutor keeps updates until they are run explicitly,
// merging updates with the same name like [MergingQueue].
type manualExecutor struct {
	mu      sync.Mutex
	updates []Update
}

func (e *manualExecutor) Queue(u Update) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, q := range e.updates {
		if q.Name == u.Name {
			return
		}
	}
	e.updates = append(e.updates, u)
}

func (e *manualExecutor) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.updates)
}

// runAll runs the queued updates, including the ones queued while
// running, and returns how many ran.
func (e *manualExecutor) runAll() int {
	n := 0
	for {
		e.mu.Lock()
		if len(e.updates) == 0 {
			e.mu.Unlock()
			return n
		}
		u := e.updates[0]
		e.updates = e.updates[1:]
		e.mu.Unlock()
		u.Run()
		n++
	}
}
