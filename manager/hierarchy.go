// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"image"
	"log/slog"

	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
)

// VisualEmptyComponentSize is the smallest size in pixels given to a
// component that has a view, so that empty views can still be seen.
const VisualEmptyComponentSize = 1

// updateHierarchy updates the model from the root views of the given
// result. Only one update runs at a time.
func (sm *SceneManager) updateHierarchy(r *render.Result) {
	if err := sm.hierarchy.Acquire(sm.ctx, 1); err != nil {
		return
	}
	defer sm.hierarchy.Release(1)
	if r.Success() {
		UpdateHierarchy(r.RootViews, sm.model)
	} else {
		UpdateHierarchy(nil, sm.model)
	}
}

// UpdateHierarchy syncs the components of the given model with its markup
// and the given root views, and then updates their bounds.
func UpdateHierarchy(rootViews []*render.ViewInfo, m *model.Model) {
	m.SyncWithMarkup(rootViews)
	UpdateBounds(rootViews, m)
}

// UpdateBounds sets the bounds of the components of the given model from
// the given root views. All bounds are cleared first. A view is matched
// to a component through its markup snapshot cookie, or else through the
// tag of the snapshot; the first view matched to a component determines
// its bounds. Components without a view then get the position of their
// parent and a zero size, and are grown to contain their children.
// Views that match no component are skipped.
func UpdateBounds(rootViews []*render.ViewInfo, m *model.Model) {
	components := m.Components()
	bySnapshot := map[*markup.Snapshot]*model.Component{}
	byTag := map[*markup.Tag]*model.Component{}
	for _, c := range components {
		c.ClearGeometry()
		if s := c.Snapshot(); s != nil {
			if _, has := bySnapshot[s]; !has {
				bySnapshot[s] = c
			}
		}
		byTag[c.Tag()] = c
	}

	for _, v := range rootViews {
		updateBounds(v, 0, 0, bySnapshot, byTag)
	}

	if root := m.Root(); root != nil {
		fixBounds(root)
	}
}

func updateBounds(v *render.ViewInfo, parentX, parentY int, bySnapshot map[*markup.Snapshot]*model.Component, byTag map[*markup.Tag]*model.Component) {
	b := v.SafeBounds()
	if s, ok := v.Cookie.(*markup.Snapshot); ok && s != nil {
		c := bySnapshot[s]
		if c == nil {
			c = byTag[s.Tag]
		}
		switch {
		case c == nil:
			slog.Debug("manager: no component for view", "view", v.ClassName, "tag", s)
		case c.ViewInfo() == nil:
			c.SetViewInfo(v)
			c.SetBounds(parentX+b.Min.X, parentY+b.Min.Y, max(b.Dx(), VisualEmptyComponentSize), max(b.Dy(), VisualEmptyComponentSize))
		}
	}
	parentX += b.Min.X
	parentY += b.Min.Y
	for _, child := range v.Children {
		updateBounds(child, parentX, parentY, bySnapshot, byTag)
	}
}

// fixBounds gives bounds to the components that have none: they take the
// position of their parent with a zero size, and grow to contain their
// children. A root without bounds starts at the origin.
func fixBounds(c *model.Component) {
	synthesized := !c.BoundsComputed()
	if synthesized {
		if p := c.Parent(); p != nil {
			px, py, pw, _ := p.Bounds()
			if pw >= 0 {
				c.SetBounds(px, py, 0, 0)
			}
		} else {
			c.SetBounds(0, 0, 0, 0)
		}
	}
	children := c.Children()
	if len(children) == 0 {
		return
	}
	for _, k := range children {
		fixBounds(k)
	}
	if !synthesized {
		return
	}
	x, y, w, h := c.Bounds()
	r := image.Rect(x, y, x+w, y+h)
	for _, k := range children {
		kx, ky, kw, kh := k.Bounds()
		if kw < 0 || kh < 0 {
			continue
		}
		r = union(r, image.Rect(kx, ky, kx+kw, ky+kh))
	}
	c.SetBounds(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

// union returns the smallest rectangle containing both rectangles,
// including empty ones as points.
func union(a, b image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{min(a.Min.X, b.Min.X), min(a.Min.Y, b.Min.Y)},
		Max: image.Point{max(a.Max.X, b.Max.X), max(a.Max.Y, b.Max.Y)},
	}
}
