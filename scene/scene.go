// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the editor-side shadow tree of the rendered
// content. A [Scene] mirrors the component tree of a model, and its
// components carry the geometry of the model components converted
// from pixels to dp, which is the coordinate space of the surface.
package scene

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"

	"cogentcore.org/preview/base/plan"
	"cogentcore.org/preview/model"
)

// AnimationDuration is the duration of animated geometry changes.
var AnimationDuration = 350 * time.Millisecond

// Scene is the shadow tree of one model. It is safe for concurrent use.
type Scene struct {
	model *model.Model

	mu       sync.RWMutex
	root     *Component
	byModel  map[*model.Component]*Component
	animated bool
	now      func() time.Time

	needsRebuild atomic.Bool
	updates      atomic.Int64
}

// New returns a new scene for the given model. The scene is
// empty until it is first updated.
func New(m *model.Model) *Scene {
	return &Scene{model: m, now: time.Now, byModel: map[*model.Component]*Component{}}
}

// Model returns the model of the scene.
func (s *Scene) Model() *model.Model {
	return s.model
}

// SetClock sets the function that returns the current time, which is
// used for animations.
func (s *Scene) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetAnimated sets whether the next updates animate geometry changes.
func (s *Scene) SetAnimated(animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animated = animated
}

// IsAnimated returns whether geometry changes are animated.
func (s *Scene) IsAnimated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.animated
}

// Root returns the root component, which is nil before the first update
// and for an empty model.
func (s *Scene) Root() *Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Components returns all of the scene components in depth-first order.
func (s *Scene) Components() []*Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cs []*Component
	if s.root != nil {
		s.root.flatten(&cs)
	}
	return cs
}

// ComponentFor returns the scene component of the given model component.
func (s *Scene) ComponentFor(c *model.Component) *Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byModel[c]
}

// UpdateCount returns the number of times that the scene was updated.
func (s *Scene) UpdateCount() int64 {
	return s.updates.Load()
}

// MarkNeedsRebuild marks the scene as needing a repaint by the host.
func (s *Scene) MarkNeedsRebuild() {
	s.needsRebuild.Store(true)
}

// NeedsRebuild returns whether the scene needs a repaint and clears the flag.
func (s *Scene) NeedsRebuild() bool {
	return s.needsRebuild.Swap(false)
}

// Update brings the scene in line with the component tree of the model
// and copies the geometry of the model components.
func (s *Scene) Update() {
	density := s.model.Configuration().State().Device.Density()
	mroot := s.model.Root()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if mroot == nil {
		s.root = nil
		s.byModel = map[*model.Component]*Component{}
	} else {
		if s.root == nil || s.root.mc != mroot {
			s.root = &Component{scene: s, mc: mroot}
		}
		s.byModel = map[*model.Component]*Component{}
		s.sync(s.root, density, now)
	}
	s.updates.Add(1)
	s.needsRebuild.Store(true)
}

func (s *Scene) sync(c *Component, density float32, now time.Time) {
	s.byModel[c.mc] = c
	c.updateGeometry(density, s.animated, now)
	mkids := c.mc.Children()
	c.children, _ = plan.Update(c.children, len(mkids),
		func(i int) string { return mkids[i].PlanName() },
		func(name string, i int) *Component { return &Component{scene: s, mc: mkids[i], parent: c} },
		nil)
	for i, k := range c.children {
		if k.mc != mkids[i] {
			k = &Component{scene: s, mc: mkids[i], parent: c}
			c.children[i] = k
		}
		s.sync(k, density, now)
	}
}

// Component is a component of a [Scene]. Its geometry is in dp.
type Component struct {
	scene    *Scene
	mc       *model.Component
	parent   *Component
	children []*Component

	hasGeom   bool
	from, to  rect
	animStart time.Time
	animating bool
}

type rect struct {
	x, y, w, h float32
}

func (r rect) lerp(o rect, t float32) rect {
	return rect{r.x + (o.x-r.x)*t, r.y + (o.y-r.y)*t, r.w + (o.w-r.w)*t, r.h + (o.h-r.h)*t}
}

// PlanName returns the plan name of the model component.
func (c *Component) PlanName() string {
	return c.mc.PlanName()
}

// ModelComponent returns the model component of the scene component.
func (c *Component) ModelComponent() *model.Component {
	return c.mc
}

// Parent returns the parent scene component.
func (c *Component) Parent() *Component {
	return c.parent
}

// Children returns a copy of the child scene components.
func (c *Component) Children() []*Component {
	c.scene.mu.RLock()
	defer c.scene.mu.RUnlock()
	return append([]*Component(nil), c.children...)
}

func (c *Component) flatten(cs *[]*Component) {
	*cs = append(*cs, c)
	for _, k := range c.children {
		k.flatten(cs)
	}
}

func (c *Component) updateGeometry(density float32, animated bool, now time.Time) {
	x, y, w, h := c.mc.Bounds()
	if w == -1 && h == -1 {
		return
	}
	target := rect{
		x: math32.Round(float32(x) / density),
		y: math32.Round(float32(y) / density),
		w: math32.Round(float32(w) / density),
		h: math32.Round(float32(h) / density),
	}
	if animated && c.hasGeom && target != c.to {
		c.from = c.current(now)
		c.to = target
		c.animStart = now
		c.animating = true
		return
	}
	c.from, c.to = target, target
	c.hasGeom = true
	c.animating = false
}

func (c *Component) current(now time.Time) rect {
	if !c.animating {
		return c.to
	}
	t := float32(now.Sub(c.animStart)) / float32(AnimationDuration)
	if t >= 1 || AnimationDuration <= 0 {
		return c.to
	}
	return c.from.lerp(c.to, math32.Max(0, t))
}

// Bounds returns the current position and size of the component in dp,
// which is in between the previous and the new geometry while an
// animated change is running. ok is false if the component has
// no geometry yet.
func (c *Component) Bounds() (x, y, w, h int, ok bool) {
	c.scene.mu.RLock()
	defer c.scene.mu.RUnlock()
	if !c.hasGeom {
		return 0, 0, 0, 0, false
	}
	r := c.current(c.scene.now())
	return int(math32.Round(r.x)), int(math32.Round(r.y)), int(math32.Round(r.w)), int(math32.Round(r.h)), true
}

// Animating returns whether an animated change is still running.
func (c *Component) Animating() bool {
	c.scene.mu.RLock()
	defer c.scene.mu.RUnlock()
	return c.animating && c.scene.now().Sub(c.animStart) < AnimationDuration
}

func (c *Component) String() string {
	return c.mc.String()
}
