// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/manager"
	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
	"cogentcore.org/preview/render/softrender"
)

var testDevice = configuration.Device{Name: "test", Width: 200, Height: 400, DPI: 160}

func newTestModel(t *testing.T, file string) *model.Model {
	root, err := markup.Parse([]byte("view: LinearLayout\nid: root\nchildren:\n  - {view: TextView, id: title}\n"))
	require.NoError(t, err)
	cfg := configuration.New(configuration.State{Device: testDevice, Theme: "light"})
	return model.New(markup.NewDocument(file, root), cfg)
}

func newTestSurface(t *testing.T) *Surface {
	s := New(softrender.New(), manager.DefaultOptions())
	t.Cleanup(s.Dispose)
	return s
}

func TestAddRemoveModel(t *testing.T) {
	s := newTestSurface(t)
	a, b := newTestModel(t, "a.yaml"), newTestModel(t, "b.yaml")
	sma := s.AddModel(a)
	require.NotNil(t, sma)
	assert.Same(t, sma, s.AddModel(a))
	smb := s.AddModel(b)
	assert.Equal(t, []*manager.SceneManager{sma, smb}, s.SceneManagers())
	assert.Equal(t, []*model.Model{a, b}, s.Models())
	assert.Same(t, smb, s.SceneManager(b))

	assert.True(t, s.RemoveModel(a))
	assert.True(t, sma.IsDisposed())
	assert.False(t, s.RemoveModel(a))
	assert.Equal(t, []*model.Model{b}, s.Models())
	assert.Nil(t, s.SceneManager(a))

	s.Dispose()
	assert.True(t, s.IsDisposed())
	assert.True(t, smb.IsDisposed())
	assert.Empty(t, s.SceneManagers())
	assert.Nil(t, s.AddModel(a))
}

func TestContentSize(t *testing.T) {
	s := newTestSurface(t)
	assert.Equal(t, image.Point{}, s.ContentSize())
	a, b := newTestModel(t, "a.yaml"), newTestModel(t, "b.yaml")
	s.AddModel(a)
	s.AddModel(b)
	assert.Equal(t, image.Pt(200, 400+Gap+400), s.ContentSize())
	r, ok := s.ModelBounds(b)
	assert.True(t, ok)
	assert.Equal(t, image.Rect(0, 420, 200, 820), r)
}

func TestInitialZoom(t *testing.T) {
	s := newTestSurface(t)
	s.Layout(100, 100)
	assert.Equal(t, float32(1), s.Viewport().Scale())

	s.AddModel(newTestModel(t, "a.yaml"))
	s.Layout(0, 0)
	assert.Equal(t, float32(1), s.Viewport().Scale())
	s.Layout(100, 100)
	assert.Equal(t, float32(0.25), s.Viewport().Scale())
	assert.True(t, s.SceneManagers()[0].Scene().NeedsRebuild())

	// later layouts keep the zoom chosen by the user
	s.Viewport().SetScale(2, -1, -1)
	s.Layout(50, 50)
	assert.Equal(t, float32(2), s.Viewport().Scale())
}

func TestInitialZoomRestored(t *testing.T) {
	store := mapStore{"a.yaml": 0.75}
	s := newTestSurface(t).SetScaleStore(store)
	s.AddModel(newTestModel(t, "a.yaml"))
	s.Layout(100, 100)
	assert.Equal(t, float32(0.75), s.Viewport().Scale())

	s.Viewport().Zoom(ZoomIn, -1, -1)
	assert.InDelta(t, 0.9, store["a.yaml"], 1e-6)
}

func TestSurfaceScrollToVisible(t *testing.T) {
	s := newTestSurface(t)
	a, b := newTestModel(t, "a.yaml"), newTestModel(t, "b.yaml")
	s.AddModel(a)
	s.AddModel(b)
	sz := s.ContentSize()
	s.Viewport().SetExtent(100, 100).SetContentSize(sz.X, sz.Y)
	assert.False(t, s.ScrollToVisible(a, false))
	assert.True(t, s.ScrollToVisible(b, false))
	assert.Equal(t, image.Pt(0, 420), s.Viewport().ScrollPosition())
	assert.False(t, s.ScrollToVisible(newTestModel(t, "c.yaml"), true))
}

func TestSurfaceRender(t *testing.T) {
	s := newTestSurface(t)
	a, b := newTestModel(t, "a.yaml"), newTestModel(t, "b.yaml")
	s.AddModel(a)
	s.AddModel(b)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.RequestRender(render.TriggerUser).Wait(ctx)
	require.NoError(t, err)
	for _, sm := range s.SceneManagers() {
		r := sm.RenderResult()
		require.NotNil(t, r)
		assert.True(t, r.Success(), r.String())
		assert.Equal(t, manager.StateRendered, sm.State())
	}
	assert.Equal(t, image.Pt(200, 820), s.ContentSize())
}

func TestZoomMarksRebuild(t *testing.T) {
	s := newTestSurface(t)
	s.AddModel(newTestModel(t, "a.yaml"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.RequestRender(render.TriggerUser).Wait(ctx)
	require.NoError(t, err)
	s.Layout(100, 100)

	sc := s.SceneManagers()[0].Scene()
	sc.NeedsRebuild()
	require.True(t, s.Viewport().SetScale(2, -1, -1))
	assert.True(t, sc.NeedsRebuild())

	s.Dispose()
	sc.NeedsRebuild()
	require.True(t, s.Viewport().SetScale(1, -1, -1))
	assert.False(t, sc.NeedsRebuild())
}
