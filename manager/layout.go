// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"context"

	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/render"
)

// RequestLayout lays out the current session again without rendering,
// updates the bounds of the components and notifies the model that its
// layout changed. The returned future completes immediately if there
// is no session.
func (sm *SceneManager) RequestLayout(animate bool) *future.Future[struct{}] {
	if sm.disposed.Load() {
		sm.log().Warn("manager: layout requested after dispose", "file", sm.model.File())
		return future.Completed(struct{}{})
	}
	sm.taskMu.RLock()
	task := sm.task
	sm.taskMu.RUnlock()
	if task == nil {
		return future.Completed(struct{}{})
	}
	return future.Then(task.Layout(sm.ctx), func(r *render.Result, err error) (struct{}, error) {
		if err == nil && r.Success() && !sm.disposed.Load() {
			sm.updateHierarchy(r)
			sm.notifyLayoutComplete(animate)
		}
		return struct{}{}, err
	})
}

// Layout does [SceneManager.RequestLayout] and waits for it for at most
// [LayoutTimeout]. Errors are logged and returned.
func (sm *SceneManager) Layout(animate bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), LayoutTimeout)
	defer cancel()
	_, err := sm.RequestLayout(animate).Wait(ctx)
	if err != nil {
		sm.log().Warn("manager: unable to run layout", "file", sm.model.File(), "err", err)
	}
	return err
}

func (sm *SceneManager) notifyLayoutComplete(animate bool) {
	if sm.disposed.Load() {
		return
	}
	sm.model.NotifyChangedOnLayout(animate)
}
