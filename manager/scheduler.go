// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
)

// names of the updates queued on the executor
const (
	updateModel  = "model.update"
	updateRender = "model.render"
)

// RequestRender requests a render and returns a future that completes
// when a render that starts after this call has completed. If no render
// is running, one is queued; otherwise the request is merged into the
// render that follows the running one. The future never fails: render
// errors are logged and reflected in [SceneManager.RenderResult].
// After dispose, the returned future is already complete.
func (sm *SceneManager) RequestRender(trigger render.Trigger) *future.Future[struct{}] {
	if sm.disposed.Load() {
		sm.log().Warn("manager: render requested after dispose", "file", sm.model.File())
		return future.Completed(struct{}{})
	}
	f := future.New[struct{}]()
	sm.futuresMu.Lock()
	sm.pending = append(sm.pending, f)
	sm.futuresMu.Unlock()
	sm.scheduleRender(trigger)
	return f
}

// RequestUserInitiatedRender forces a new session and requests a render
// on behalf of the user.
func (sm *SceneManager) RequestUserInitiatedRender() *future.Future[struct{}] {
	sm.ForceReinflate()
	return sm.RequestRender(render.TriggerUser)
}

// scheduleRender queues a render if there are waiting requests
// and no render is running or queued.
func (sm *SceneManager) scheduleRender(trigger render.Trigger) {
	sm.futuresMu.Lock()
	if sm.isRendering || len(sm.pending) == 0 {
		sm.futuresMu.Unlock()
		return
	}
	sm.isRendering = true
	sm.futuresMu.Unlock()
	sm.queue(Update{Name: updateRender, Priority: PriorityLow, Run: func() { sm.renderQueued(trigger) }})
}

// renderQueued runs a queued render, unless its requests were already
// taken by a synchronous render.
func (sm *SceneManager) renderQueued(trigger render.Trigger) {
	sm.futuresMu.Lock()
	waiting := len(sm.pending)
	sm.futuresMu.Unlock()
	if waiting == 0 {
		return
	}
	sm.render(trigger)
}

// completeRender completes the requests that were waiting for the
// render that just finished, and queues a new render for the
// requests that arrived in the meantime.
func (sm *SceneManager) completeRender() {
	sm.futuresMu.Lock()
	done := sm.inFlight
	sm.inFlight = nil
	sm.isRendering = false
	sm.futuresMu.Unlock()
	for _, f := range done {
		f.Complete(struct{}{})
	}
	if !sm.disposed.Load() {
		sm.scheduleRender(sm.modelTrigger())
	}
}

// IsRendering returns whether a render is queued or running.
func (sm *SceneManager) IsRendering() bool {
	sm.futuresMu.Lock()
	defer sm.futuresMu.Unlock()
	return sm.isRendering
}

// RequestModelUpdate queues a model update, which inflates a new
// session for the current content of the model. Model updates run
// before any queued render.
func (sm *SceneManager) RequestModelUpdate() {
	if sm.disposed.Load() {
		return
	}
	sm.queue(Update{Name: updateModel, Priority: PriorityHigh, Run: func() { sm.UpdateModel() }})
}

// RequestLayoutAndRender requests a render and notifies the model that
// its layout changed once the render completes.
func (sm *SceneManager) RequestLayoutAndRender(animate bool) *future.Future[struct{}] {
	trigger := sm.modelTrigger()
	if sm.Options().RenderSynchronously {
		sm.render(trigger)
		sm.notifyLayoutComplete(animate)
		return future.Completed(struct{}{})
	}
	return future.Then(sm.RequestRender(trigger), func(v struct{}, err error) (struct{}, error) {
		sm.notifyLayoutComplete(animate)
		return v, err
	})
}

func (sm *SceneManager) modelTrigger() render.Trigger {
	return model.TriggerFor(sm.model.LastChange())
}

// modelListener connects the notifications of the model to the manager.
type modelListener struct {
	sm *SceneManager
}

func (ml *modelListener) ModelChanged(m *model.Model) {
	ml.sm.RequestModelUpdate()
}

func (ml *modelListener) ModelDerivedDataChanged(m *model.Model) {
	if ml.sm.Options().RerenderOnDerivedData {
		ml.sm.RequestRender(model.TriggerFor(m.LastChange()))
	}
}

func (ml *modelListener) ModelChangedOnLayout(m *model.Model, animate bool) {
	if ml.sm.disposed.Load() {
		return
	}
	ml.sm.scene.SetAnimated(animate)
	ml.sm.scene.Update()
}

func (ml *modelListener) ModelLiveUpdate(m *model.Model, animate bool) {
	ml.sm.RequestLayoutAndRender(animate)
}
