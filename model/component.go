// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"image"
	"sync"

	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/render"
)

// Component is the editor-side component for one markup tag.
// It carries the geometry of the view that was rendered for the tag,
// in pixels, relative to the device screen. A width and height of -1
// mean that the bounds have not been computed.
type Component struct {
	model    *Model
	tag      *markup.Tag
	parent   *Component
	children []*Component

	mu       sync.RWMutex
	x, y     int
	w, h     int
	viewInfo *render.ViewInfo
	snapshot *markup.Snapshot
}

func newComponent(m *Model, tag *markup.Tag, parent *Component) *Component {
	return &Component{model: m, tag: tag, parent: parent, x: 0, y: 0, w: -1, h: -1}
}

// PlanName returns the plan name of the tag of the component.
func (c *Component) PlanName() string {
	return c.tag.PlanName()
}

// Tag returns the markup tag of the component.
func (c *Component) Tag() *markup.Tag {
	return c.tag
}

// ID returns the id of the tag of the component.
func (c *Component) ID() string {
	return c.tag.ID
}

// ViewClass returns the view class of the tag of the component.
func (c *Component) ViewClass() string {
	return c.tag.View
}

// Model returns the model that the component belongs to.
func (c *Component) Model() *Model {
	return c.model
}

// Parent returns the parent component, or nil for the root.
func (c *Component) Parent() *Component {
	c.model.mu.RLock()
	defer c.model.mu.RUnlock()
	return c.parent
}

// Children returns a copy of the list of child components.
func (c *Component) Children() []*Component {
	c.model.mu.RLock()
	defer c.model.mu.RUnlock()
	return append([]*Component(nil), c.children...)
}

// Bounds returns the position and size of the component.
func (c *Component) Bounds() (x, y, w, h int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.x, c.y, c.w, c.h
}

// Rect returns the bounds of the component as a rectangle.
func (c *Component) Rect() image.Rectangle {
	x, y, w, h := c.Bounds()
	return image.Rect(x, y, x+w, y+h)
}

// SetBounds sets the position and size of the component.
func (c *Component) SetBounds(x, y, w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.x, c.y, c.w, c.h = x, y, w, h
}

// BoundsComputed returns whether the bounds have been set since
// they were last cleared.
func (c *Component) BoundsComputed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !(c.w == -1 && c.h == -1)
}

// ViewInfo returns the view info matched to the component
// by the last hierarchy update, if any.
func (c *Component) ViewInfo() *render.ViewInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewInfo
}

// SetViewInfo sets the view info of the component.
func (c *Component) SetViewInfo(v *render.ViewInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewInfo = v
}

// ClearGeometry marks the bounds as not computed and drops the view info.
func (c *Component) ClearGeometry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.x, c.y, c.w, c.h = 0, 0, -1, -1
	c.viewInfo = nil
}

// Snapshot returns the markup snapshot that the last rendered
// view of the component was created from, if any.
func (c *Component) Snapshot() *markup.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Component) setSnapshot(s *markup.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = s
}

func (c *Component) String() string {
	x, y, w, h := c.Bounds()
	return fmt.Sprintf("%s [%d,%d %dx%d]", c.tag, x, y, w, h)
}
