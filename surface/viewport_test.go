// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapStore map[string]float32

func (s mapStore) FileScale(file string) (float32, bool) {
	v, ok := s[file]
	return v, ok
}

func (s mapStore) SetFileScale(file string, scale float32) {
	s[file] = scale
}

func TestFitScale(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(200, 100)
	assert.Equal(t, float32(0.5), v.FitScale(true))
	assert.Equal(t, float32(0.5), v.FitScale(false))

	v.SetContentSize(50, 25)
	assert.Equal(t, float32(2), v.FitScale(false))
	assert.Equal(t, float32(1), v.FitScale(true))
	v.SetMaxFitIntoZoomLevel(1.5)
	assert.Equal(t, float32(1.5), v.FitScale(false))

	v = NewViewport().SetExtent(120, 120).SetPadding(20, 20).SetContentSize(0, 0)
	assert.Equal(t, float32(1), v.FitScale(false))
	v.SetContentSize(200, 400)
	assert.Equal(t, float32(0.25), v.FitScale(false))
}

func TestSetScale(t *testing.T) {
	store := mapStore{}
	v := NewViewport().SetScaleStore(store, "main.yaml")
	var changes [][2]float32
	remove := v.AddScaleListener(func(prev, scale float32) {
		changes = append(changes, [2]float32{prev, scale})
	})

	assert.False(t, v.SetScale(1.004, -1, -1))
	assert.True(t, v.SetScale(1.5, -1, -1))
	assert.Equal(t, float32(1.5), v.Scale())
	assert.Equal(t, float32(1.5), store["main.yaml"])
	assert.True(t, v.SetScale(100, -1, -1))
	assert.Equal(t, float32(10), v.Scale())
	assert.False(t, v.SetScale(20, -1, -1))
	assert.Equal(t, [][2]float32{{1, 1.5}, {1.5, 10}}, changes)

	remove()
	v.SetScale(1, -1, -1)
	assert.Len(t, changes, 2)

	v.SetScreenScaling(2)
	assert.True(t, v.SetScale(1.003, -1, -1))
}

func TestSetScaleNotFinite(t *testing.T) {
	store := mapStore{}
	v := NewViewport().SetExtent(100, 100).SetContentSize(400, 400).SetScaleStore(store, "main.yaml")
	v.SetScale(2, -1, -1)
	scroll := v.ScrollPosition()
	for _, s := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		assert.False(t, v.SetScale(s, 10, 10))
		assert.Equal(t, float32(2), v.Scale())
		assert.Equal(t, scroll, v.ScrollPosition())
	}
	assert.Equal(t, float32(2), store["main.yaml"])
	assert.True(t, v.SetScale(3, -1, -1))
}

func TestZoom(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(200, 100)
	assert.True(t, v.Zoom(ZoomIn, -1, -1))
	assert.InDelta(t, 1.1, v.Scale(), 1e-6)
	assert.True(t, v.Zoom(ZoomOut, -1, -1))
	assert.InDelta(t, 1.0, v.Scale(), 1e-6)
	assert.True(t, v.Zoom(ZoomOut, -1, -1))
	assert.InDelta(t, 0.9, v.Scale(), 1e-6)
	assert.True(t, v.CanZoomToActual())
	assert.True(t, v.Zoom(ZoomActual, -1, -1))
	assert.Equal(t, float32(1), v.Scale())
	assert.False(t, v.CanZoomToActual())
	assert.True(t, v.ZoomToFit())
	assert.Equal(t, float32(0.5), v.Scale())
	assert.False(t, v.Zoom(ZoomScreen, -1, -1))

	v.SetScaleBounds(0.5, 2)
	assert.False(t, v.CanZoomOut())
	assert.True(t, v.CanZoomIn())
	assert.False(t, v.Zoom(ZoomOut, -1, -1))
}

func TestScrollPosition(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(200, 200)
	v.SetScrollPosition(-5, 500)
	assert.Equal(t, image.Pt(0, 100), v.ScrollPosition())

	v.SetContentSize(50, 50)
	assert.Equal(t, image.Pt(0, 0), v.ScrollPosition())
	v.SetScrollPosition(10, 10)
	assert.Equal(t, image.Pt(0, 0), v.ScrollPosition())
}

func TestCoordinates(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(200, 200).SetPadding(20, 20)
	v.SetScale(2, -1, -1)
	v.SetScrollPosition(10, 10)
	assert.Equal(t, image.Pt(10, 10), v.ContentToView(image.Pt(5, 5)))
	assert.Equal(t, image.Pt(5, 5), v.ViewToContent(image.Pt(10, 10)))
	assert.Equal(t, image.Pt(420, 420), v.ViewSize())
}

func TestFocalPoint(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(1000, 1000)
	v.SetScrollPosition(100, 100)
	assert.True(t, v.SetScale(2, 0, 0))
	assert.Equal(t, image.Pt(200, 200), v.ScrollPosition())
	assert.Equal(t, image.Pt(100, 100), v.ViewToContent(image.Pt(0, 0)))

	// centered on the window when no focal point is given
	center := v.ViewToContent(image.Pt(50, 50))
	assert.True(t, v.SetScale(4, -1, -1))
	assert.Equal(t, center, v.ViewToContent(image.Pt(50, 50)))
}

func TestRestorePreviousScale(t *testing.T) {
	v := NewViewport()
	assert.False(t, v.RestorePreviousScale("main.yaml"))
	v.SetScaleStore(mapStore{"main.yaml": 0.75}, "main.yaml")
	assert.False(t, v.RestorePreviousScale("other.yaml"))
	assert.True(t, v.RestorePreviousScale("main.yaml"))
	assert.Equal(t, float32(0.75), v.Scale())

	v.SetScaleStore(mapStore{"main.yaml": float32(math.NaN())}, "main.yaml")
	assert.False(t, v.RestorePreviousScale("main.yaml"))
	assert.Equal(t, float32(0.75), v.Scale())
}

func TestViewportScrollToVisible(t *testing.T) {
	v := NewViewport().SetExtent(100, 100).SetContentSize(1000, 1000)
	assert.False(t, v.ScrollToVisible(image.Rect(50, 50, 150, 150), false))
	assert.True(t, v.ScrollToVisible(image.Rect(500, 600, 550, 650), false))
	assert.Equal(t, image.Pt(500, 600), v.ScrollPosition())
	assert.True(t, v.ScrollToVisible(image.Rect(510, 610, 520, 620), true))
	assert.Equal(t, image.Pt(510, 610), v.ScrollPosition())
}
