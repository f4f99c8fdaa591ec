// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package surface provides the [Surface], which shows the render results
// of a set of models through a zoomable and scrollable [Viewport].
package surface

import (
	"context"
	"image"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/preview/base/disposer"
	"cogentcore.org/preview/base/future"
	"cogentcore.org/preview/manager"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
)

// Gap is the space in pixels between the models of a surface.
const Gap = 20

// Surface attaches models, each with its own [manager.SceneManager], and
// lays them out vertically, separated by [Gap]. It is safe for
// concurrent use.
type Surface struct {
	svc      render.Service
	viewport *Viewport
	node     *disposer.Node

	mu          sync.Mutex
	opts        manager.Options
	logger      *slog.Logger
	store       ScaleStore
	models      []*model.Model
	managers    map[*model.Model]*manager.SceneManager
	nodes       map[*model.Model]*disposer.Node
	initialZoom bool
}

// New returns a new surface that renders with the given engine.
func New(svc render.Service, opts manager.Options) *Surface {
	s := &Surface{
		svc:      svc,
		viewport: NewViewport(),
		opts:     opts,
		logger:   slog.Default(),
		managers: map[*model.Model]*manager.SceneManager{},
		nodes:    map[*model.Model]*disposer.Node{},
	}
	s.node = disposer.New("surface", nil)
	s.node.NewChild("scale", s.viewport.AddScaleListener(s.scaleChanged))
	return s
}

// scaleChanged marks the scenes for a repaint at the new scale.
func (s *Surface) scaleChanged(prev, scale float32) {
	for _, sm := range s.SceneManagers() {
		sm.Scene().MarkNeedsRebuild()
	}
}

// SetLogger sets the logger given to the scene managers
// of the models added afterwards.
func (s *Surface) SetLogger(logger *slog.Logger) *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	return s
}

// SetScaleStore sets the store that the scale is saved to, keyed by the
// file of the first model.
func (s *Surface) SetScaleStore(store ScaleStore) *Surface {
	s.mu.Lock()
	s.store = store
	file := ""
	if len(s.models) > 0 {
		file = s.models[0].File()
	}
	s.mu.Unlock()
	s.viewport.SetScaleStore(store, file)
	return s
}

// Viewport returns the viewport of the surface.
func (s *Surface) Viewport() *Viewport {
	return s.viewport
}

// AddModel attaches the given model and returns its scene manager. If the
// model is already attached, its existing manager is returned. It returns
// nil if the surface is disposed.
func (s *Surface) AddModel(m *model.Model) *manager.SceneManager {
	if s.node.IsDisposed() {
		slog.Warn("surface: model added after dispose", "file", m.File())
		return nil
	}
	s.mu.Lock()
	if sm := s.managers[m]; sm != nil {
		s.mu.Unlock()
		return sm
	}
	sm := manager.New(m, s.svc, s.opts).SetLogger(s.logger)
	s.models = append(s.models, m)
	s.managers[m] = sm
	first, store := len(s.models) == 1, s.store
	s.mu.Unlock()

	n := s.node.NewChild(m.File(), func() {
		sm.Dispose()
		s.forget(m)
	})
	if !n.IsDisposed() {
		s.mu.Lock()
		s.nodes[m] = n
		s.mu.Unlock()
	}
	if first {
		s.viewport.SetScaleStore(store, m.File())
	}
	return sm
}

// RemoveModel detaches the given model and disposes its scene manager.
// It returns whether the model was attached.
func (s *Surface) RemoveModel(m *model.Model) bool {
	s.mu.Lock()
	n := s.nodes[m]
	s.mu.Unlock()
	if n == nil {
		return false
	}
	n.Dispose()
	return true
}

// forget removes the given model from the surface.
func (s *Surface) forget(m *model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.managers, m)
	delete(s.nodes, m)
	s.models = slices.DeleteFunc(s.models, func(e *model.Model) bool { return e == m })
}

// Dispose disposes the scene managers of all models and detaches them.
func (s *Surface) Dispose() {
	s.node.Dispose()
}

// IsDisposed returns whether the surface has been disposed.
func (s *Surface) IsDisposed() bool {
	return s.node.IsDisposed()
}

// Models returns the attached models, in the order they were added.
func (s *Surface) Models() []*model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.models)
}

// SceneManagers returns the scene managers of the attached models,
// in the order the models were added.
func (s *Surface) SceneManagers() []*manager.SceneManager {
	s.mu.Lock()
	defer s.mu.Unlock()
	sms := make([]*manager.SceneManager, len(s.models))
	for i, m := range s.models {
		sms[i] = s.managers[m]
	}
	return sms
}

// SceneManager returns the scene manager of the given model, or nil.
func (s *Surface) SceneManager(m *model.Model) *manager.SceneManager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.managers[m]
}

// modelSize returns the size of the content of the given manager: the
// size of its last rendered image, or else the screen size of the device.
func modelSize(sm *manager.SceneManager) image.Point {
	if r := sm.RenderResult(); r.Success() && r.Image != nil {
		return r.Image.Bounds().Size()
	}
	d := sm.Model().Configuration().State().Device
	return image.Pt(d.Width, d.Height)
}

// bounds returns the rectangle of each model in the content.
func (s *Surface) bounds() []image.Rectangle {
	sms := s.SceneManagers()
	rs := make([]image.Rectangle, len(sms))
	y := 0
	for i, sm := range sms {
		if i > 0 {
			y += Gap
		}
		sz := modelSize(sm)
		rs[i] = image.Rectangle{Min: image.Pt(0, y), Max: image.Pt(sz.X, y+sz.Y)}
		y += sz.Y
	}
	return rs
}

// ContentSize returns the size of the content, which holds all models.
func (s *Surface) ContentSize() image.Point {
	var r image.Rectangle
	for _, b := range s.bounds() {
		r = r.Union(b)
	}
	return r.Max
}

// ModelBounds returns the rectangle of the given model in the content.
func (s *Surface) ModelBounds(m *model.Model) (image.Rectangle, bool) {
	s.mu.Lock()
	i := slices.Index(s.models, m)
	s.mu.Unlock()
	bs := s.bounds()
	if i < 0 || i >= len(bs) {
		return image.Rectangle{}, false
	}
	return bs[i], true
}

// Layout updates the viewport for a visible window of the given size.
// The first time it runs with a non-empty window and a model, it
// restores the scale saved for the first model, or else zooms to fit.
// The scenes are then marked as needing a rebuild.
func (s *Surface) Layout(w, h int) {
	sz := s.ContentSize()
	s.viewport.SetExtent(w, h).SetContentSize(sz.X, sz.Y)

	s.mu.Lock()
	var first *model.Model
	if len(s.models) > 0 {
		first = s.models[0]
	}
	initial := !s.initialZoom && w > 0 && h > 0 && first != nil
	if initial {
		s.initialZoom = true
	}
	s.mu.Unlock()

	if initial && !s.viewport.RestorePreviousScale(first.File()) {
		s.viewport.ZoomToFit()
	}
	for _, sm := range s.SceneManagers() {
		sm.Scene().MarkNeedsRebuild()
	}
}

// ScrollToVisible scrolls so that the given model is visible. Unless
// force is set, nothing happens if it is already partly visible.
func (s *Surface) ScrollToVisible(m *model.Model, force bool) bool {
	r, ok := s.ModelBounds(m)
	if !ok {
		return false
	}
	return s.viewport.ScrollToVisible(r, force)
}

// RequestRender requests a render of every model. The returned future
// completes when all of them have rendered.
func (s *Surface) RequestRender(trigger render.Trigger) *future.Future[struct{}] {
	sms := s.SceneManagers()
	fs := make([]*future.Future[struct{}], len(sms))
	for i, sm := range sms {
		fs[i] = sm.RequestRender(trigger)
	}
	return future.Go(func() (struct{}, error) {
		for _, f := range fs {
			if _, err := f.Wait(context.Background()); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
}
