// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
)

// view returns a view for the given snapshot with the given bounds.
func view(s *markup.Snapshot, l, t, r, b int, children ...*render.ViewInfo) *render.ViewInfo {
	return &render.ViewInfo{ClassName: s.View, Left: l, Top: t, Right: r, Bottom: b, Cookie: s, Children: children}
}

func bounds(m *model.Model, id string) []int {
	x, y, w, h := m.ComponentByID(id).Bounds()
	return []int{x, y, w, h}
}

func assertNonNegative(t *testing.T, m *model.Model) {
	for _, c := range m.Components() {
		_, _, w, h := c.Bounds()
		assert.GreaterOrEqual(t, w, 0, c.String())
		assert.GreaterOrEqual(t, h, 0, c.String())
	}
}

func TestUpdateHierarchy(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	title, ok := root.Children[0], root.Children[1]
	icon := ok.Children[0]
	views := []*render.ViewInfo{
		view(root, 0, 0, 200, 100,
			view(title, 10, 5, 30, 15),
			view(ok, 10, 20, 90, 60, view(icon, 5, 5, 25, 25))),
	}
	UpdateHierarchy(views, m)
	assert.Equal(t, []int{0, 0, 200, 100}, bounds(m, "root"))
	assert.Equal(t, []int{10, 5, 20, 10}, bounds(m, "title"))
	assert.Equal(t, []int{10, 20, 80, 40}, bounds(m, "ok"))
	assert.Equal(t, []int{15, 25, 20, 20}, bounds(m, "icon"))
	assert.Same(t, icon, m.ComponentByID("icon").Snapshot())
	assert.Same(t, views[0].Children[1], m.ComponentByID("ok").ViewInfo())
}

func TestUpdateHierarchyMissingViews(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	title := root.Children[0]
	UpdateHierarchy([]*render.ViewInfo{view(root, 0, 0, 200, 100, view(title, 10, 5, 30, 15))}, m)
	assert.Equal(t, []int{0, 0, 0, 0}, bounds(m, "ok"))
	assert.Equal(t, []int{0, 0, 0, 0}, bounds(m, "icon"))
	assert.Nil(t, m.ComponentByID("ok").ViewInfo())
	assertNonNegative(t, m)
}

func TestUpdateHierarchyMissingRoot(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	title, ok := root.Children[0], root.Children[1]
	UpdateHierarchy([]*render.ViewInfo{view(title, 10, 20, 30, 40), view(ok, 10, 50, 40, 60)}, m)
	assert.Equal(t, []int{0, 0, 40, 60}, bounds(m, "root"))
	assert.Equal(t, []int{10, 50, 0, 0}, bounds(m, "icon"))
	assertNonNegative(t, m)
}

func TestUpdateHierarchyNoViews(t *testing.T) {
	m := newTestModel(t, testMarkup)
	UpdateHierarchy([]*render.ViewInfo{view(m.Source().Markup, 0, 0, 50, 50)}, m)
	UpdateHierarchy(nil, m)
	for _, c := range m.Components() {
		x, y, w, h := c.Bounds()
		assert.Equal(t, []int{0, 0, 0, 0}, []int{x, y, w, h}, c.String())
		assert.Nil(t, c.ViewInfo())
	}
}

func TestUpdateBoundsFirstViewWins(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	title := root.Children[0]
	UpdateHierarchy([]*render.ViewInfo{
		view(root, 0, 0, 200, 100, view(title, 10, 5, 30, 15), view(title, 50, 50, 60, 60)),
	}, m)
	assert.Equal(t, []int{10, 5, 20, 10}, bounds(m, "title"))
}

func TestUpdateBoundsByTag(t *testing.T) {
	m := newTestModel(t, testMarkup)
	// a snapshot taken separately is matched through its tag
	other := m.Source().Markup
	UpdateBounds([]*render.ViewInfo{view(other, 0, 0, 200, 100, view(other.Children[0], 10, 5, 30, 15))}, m)
	assert.Nil(t, m.ComponentByID("title").Snapshot())
	assert.Equal(t, []int{10, 5, 20, 10}, bounds(m, "title"))
}

func TestUpdateBoundsEmptyAndHugeViews(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	title, ok := root.Children[0], root.Children[1]
	UpdateHierarchy([]*render.ViewInfo{
		view(root, 0, 0, 200, 100,
			view(title, 10, 5, 10, 5),
			view(ok, 0, 0, render.MaxMagnitude, 10)),
	}, m)
	assert.Equal(t, []int{10, 5, VisualEmptyComponentSize, VisualEmptyComponentSize}, bounds(m, "title"))
	assert.Equal(t, []int{0, 0, VisualEmptyComponentSize, VisualEmptyComponentSize}, bounds(m, "ok"))
	assertNonNegative(t, m)
}

func TestUpdateBoundsUnknownViews(t *testing.T) {
	m := newTestModel(t, testMarkup)
	root := m.Source().Markup
	stray := &render.ViewInfo{ClassName: "DecorView", Right: 300, Bottom: 300,
		Children: []*render.ViewInfo{view(root, 0, 24, 200, 124)}}
	require.NotPanics(t, func() { UpdateHierarchy([]*render.ViewInfo{stray}, m) })
	assert.Equal(t, []int{0, 24, 200, 100}, bounds(m, "root"))
}
