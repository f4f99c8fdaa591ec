// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"context"
	"fmt"
	"time"

	"cogentcore.org/preview/base/errors"
	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/render"
)

// ForceReinflate invalidates the render session, so that the next
// render builds and inflates a new one.
func (sm *SceneManager) ForceReinflate() {
	sm.forceInflate.Store(true)
}

// Inflate builds and inflates a new render session, replacing the
// current one, if there is no session or force is true. The returned
// future yields nil if no inflate was needed or the manager is disposed.
// If the session can not be built or inflated, it yields an error result,
// which is also cached.
func (sm *SceneManager) Inflate(force bool) *future.Future[*render.Result] {
	sm.renderMu.Lock()
	defer sm.renderMu.Unlock()
	return future.Completed(sm.inflate(force))
}

// UpdateModel inflates a new session for the current content of the
// model and notifies the model that its derived data changed.
func (sm *SceneManager) UpdateModel() *future.Future[*render.Result] {
	if sm.disposed.Load() {
		return future.Completed[*render.Result](nil)
	}
	sm.renderMu.Lock()
	r := sm.inflate(true)
	if r.Success() {
		sm.forceInflate.Store(false)
	}
	sm.renderMu.Unlock()
	if r.Success() && !sm.disposed.Load() {
		sm.scene.Update()
		sm.model.NotifyDerivedDataChanged()
	}
	return future.Completed(r)
}

// inflate does [SceneManager.Inflate] and must be called with renderMu held.
func (sm *SceneManager) inflate(force bool) *render.Result {
	if sm.disposed.Load() {
		return nil
	}
	sm.taskMu.RLock()
	hasTask := sm.task != nil
	sm.taskMu.RUnlock()
	if hasTask && !force {
		return nil
	}

	sm.inflates.Add(1)
	sm.renderListeners.Each(func(l RenderListener) { l.InflateStarted() })
	defer sm.renderListeners.Each(func(l RenderListener) { l.InflateCompleted() })

	file := sm.model.File()
	task, err := sm.buildTask()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSessionBuild, err)
		sm.log().Warn("manager: build failed", "file", file, "err", err)
		sm.setTask(nil)
		return sm.setResult(render.ErrorResult(file, err))
	}

	r, err := task.Inflate(sm.ctx).Wait(sm.ctx)
	switch {
	case err != nil:
		r = render.ErrorResult(file, fmt.Errorf("%w: %w", ErrInflate, err))
	case r == nil:
		r = render.ErrorResult(file, fmt.Errorf("%w: no result", ErrInflate))
	case r.Err != nil:
		r.Err = fmt.Errorf("%w: %w", ErrInflate, r.Err)
	}
	if !r.Success() {
		sm.log().Warn("manager: inflate failed", "file", file, "err", r.Err)
	}
	if !r.Success() || sm.disposed.Load() {
		sm.disposeTaskLogged(task)
	} else {
		sm.setTask(task)
	}
	r = sm.setResult(r)
	if r.Success() {
		sm.updateHierarchy(r)
	}
	return r
}

// buildTask builds a new session for the current content and configuration.
func (sm *SceneManager) buildTask() (render.Task, error) {
	if err := render.CheckCompatible(sm.svc, sm.Options().EngineConstraint); err != nil {
		return nil, err
	}
	task, err := sm.svc.Build(sm.ctx, sm.model.Source(), sm.renderOptions()).Wait(sm.ctx)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("engine returned no session")
	}
	return task, nil
}

// setTask replaces the session with the given one and disposes the
// previous session after the swap.
func (sm *SceneManager) setTask(task render.Task) {
	sm.taskMu.Lock()
	old := sm.task
	sm.task = task
	sm.rendered = false
	sm.clock = newSessionClock(sm.clock.now)
	sm.taskMu.Unlock()
	if old != nil && old != task {
		sm.disposeTaskLogged(old)
	}
}

// setResult replaces the cached result, disposing the previous one,
// and returns the given result. Results arriving after the manager
// is disposed are disposed instead of cached.
func (sm *SceneManager) setResult(r *render.Result) *render.Result {
	sm.resultMu.Lock()
	defer sm.resultMu.Unlock()
	if r != nil && sm.disposed.Load() {
		r.Dispose()
		return r
	}
	if sm.result != nil && sm.result != r {
		sm.result.Dispose()
	}
	sm.result = r
	return r
}

// Render renders the model on the calling goroutine, inflating a session
// first if there is none or a re-inflate was forced, and completes the
// requests that are waiting for a render. The returned future yields nil
// if there is nothing to render.
func (sm *SceneManager) Render(trigger render.Trigger) *future.Future[*render.Result] {
	return future.Completed(sm.render(trigger))
}

func (sm *SceneManager) render(trigger render.Trigger) *render.Result {
	if sm.disposed.Load() {
		return nil
	}
	sm.futuresMu.Lock()
	sm.isRendering = true
	sm.inFlight = append(sm.inFlight, sm.pending...)
	sm.pending = nil
	sm.futuresMu.Unlock()
	defer sm.completeRender()

	var start time.Time
	rendered := false
	r := sm.renderImpl(trigger, func() {
		rendered = true
		start = time.Now()
		sm.renderListeners.Each(func(l RenderListener) { l.RenderStarted() })
	})
	if r != nil {
		r = sm.cacheRenderResult(r)
	}
	if !rendered {
		return r
	}
	if r.Success() {
		sm.renders.Add(1)
		sm.lastRenderTime.Store(int64(time.Since(start)))
		sm.lastImageBytes.Store(int64(r.ImageBytes()))
	}
	if !sm.disposed.Load() {
		sm.scene.Update()
	}
	sm.renderListeners.Each(func(l RenderListener) { l.RenderCompleted() })
	return r
}

// renderImpl inflates if needed and renders the session. It calls started
// right before the session renders, and returns nil without calling it
// if there is no session to render.
func (sm *SceneManager) renderImpl(trigger render.Trigger, started func()) (r *render.Result) {
	sm.renderMu.Lock()
	defer sm.renderMu.Unlock()
	file := sm.model.File()
	defer func() {
		if rec := recover(); rec != nil {
			r = render.ErrorResult(file, fmt.Errorf("%w: %w", ErrRender, errors.Recovered(rec)))
			sm.log().Error("manager: render panicked", "file", file, "err", r.Err)
		}
	}()

	ir := sm.inflate(sm.forceInflate.Swap(false))
	inflated := ir.Success()
	sm.taskMu.RLock()
	task := sm.task
	sm.taskMu.RUnlock()
	if task == nil || (ir != nil && !ir.Success()) {
		return nil
	}
	started()
	if ft := sm.frameTime.Load(); ft >= 0 {
		task.SetElapsedFrameTime(ft)
	}
	r, err := task.Render(sm.ctx).Wait(sm.ctx)
	switch {
	case err != nil:
		r = render.ErrorResult(file, fmt.Errorf("%w: %w", ErrRender, err))
	case r == nil:
		r = render.ErrorResult(file, fmt.Errorf("%w: no result", ErrRender))
	case r.Err != nil:
		r.Err = fmt.Errorf("%w: %w", ErrRender, r.Err)
	}
	if !r.Success() {
		sm.log().Warn("manager: render failed", "file", file, "trigger", trigger, "err", r.Err)
		return r
	}
	sm.taskMu.Lock()
	if sm.task == task {
		sm.rendered = true
	}
	sm.taskMu.Unlock()
	if !inflated {
		sm.updateHierarchy(r)
	}
	return r
}

// cacheRenderResult caches the result of a render. A failed render does
// not replace a successful result, so that the last good frame stays
// available.
func (sm *SceneManager) cacheRenderResult(r *render.Result) *render.Result {
	if !r.Success() {
		sm.resultMu.RLock()
		keep := sm.result != nil && sm.result.Success()
		sm.resultMu.RUnlock()
		if keep {
			return r
		}
	}
	return sm.setResult(r)
}

// ExecuteCallbacks runs the pending callbacks of the session up to the
// current session time. The returned future yields whether there are
// callbacks left.
func (sm *SceneManager) ExecuteCallbacks() *future.Future[bool] {
	if sm.disposed.Load() {
		sm.log().Warn("manager: callbacks executed after dispose", "file", sm.model.File())
		return future.Completed(false)
	}
	sm.taskMu.RLock()
	defer sm.taskMu.RUnlock()
	if sm.task == nil {
		return future.Completed(false)
	}
	return sm.task.ExecuteCallbacks(sm.ctx, int64(sm.clock.elapsed()))
}

// ExecuteCallbacksAndRequestRender runs the pending callbacks of the
// session and then requests a render.
func (sm *SceneManager) ExecuteCallbacksAndRequestRender() *future.Future[struct{}] {
	cb := sm.ExecuteCallbacks()
	done := future.New[struct{}]()
	go func() {
		_, err := cb.Wait(context.Background())
		if err != nil {
			sm.log().Debug("manager: unable to execute callbacks", "file", sm.model.File(), "err", err)
		}
		_, err = sm.RequestRender(sm.modelTrigger()).Wait(context.Background())
		if err != nil {
			done.Fail(err)
			return
		}
		done.Complete(struct{}{})
	}()
	return done
}

// PauseSessionClock stops the session time from advancing.
func (sm *SceneManager) PauseSessionClock() {
	sm.taskMu.Lock()
	defer sm.taskMu.Unlock()
	sm.clock.pause()
}

// ResumeSessionClock lets the session time advance again.
func (sm *SceneManager) ResumeSessionClock() {
	sm.taskMu.Lock()
	defer sm.taskMu.Unlock()
	sm.clock.resume()
}

// SessionTime returns the current session time.
func (sm *SceneManager) SessionTime() time.Duration {
	sm.taskMu.RLock()
	defer sm.taskMu.RUnlock()
	return sm.clock.elapsed()
}
