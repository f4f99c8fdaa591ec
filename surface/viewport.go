// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"image"
	"math"
	"sync"

	"github.com/chewxy/math32"

	"cogentcore.org/preview/events"
)

// ScalingThreshold is the smallest scale change that [Viewport.SetScale]
// applies, at a screen scaling factor of 1.
const ScalingThreshold = 0.005

// ScaleStore persists the scale of the viewport per file.
type ScaleStore interface {

	// FileScale returns the scale saved for the given file, if any.
	FileScale(file string) (scale float32, ok bool)

	// SetFileScale saves the scale for the given file.
	SetFileScale(file string, scale float32)
}

// ScaleListener is called with the previous and new scale
// when the scale of a [Viewport] changes.
type ScaleListener func(prev, scale float32)

// Viewport maps between the content, which is laid out in pixels at a
// scale of 1, and the view, which is the scaled content plus padding seen
// through a window of the extent size at the scroll position. It is safe
// for concurrent use.
type Viewport struct {
	mu sync.Mutex

	scale         float32
	minScale      float32
	maxScale      float32
	maxFitInto    float32
	screenScaling float32

	// padding is the total padding around the content in the view,
	// split evenly between both sides.
	padding image.Point
	extent  image.Point
	content image.Point
	scroll  image.Point

	store ScaleStore
	file  string

	listeners events.Listeners[ScaleListener]
}

// NewViewport returns a new viewport at a scale of 1.
func NewViewport() *Viewport {
	return &Viewport{scale: 1, minScale: 0.1, maxScale: 10, maxFitInto: math.MaxFloat32, screenScaling: 1}
}

// SetScaleBounds sets the minimum and maximum scale.
func (v *Viewport) SetScaleBounds(minScale, maxScale float32) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.minScale, v.maxScale = minScale, max(minScale, maxScale)
	v.scale = clamp(v.scale, v.minScale, v.maxScale)
	return v
}

// SetScreenScaling sets the scaling factor of the screen,
// which must be positive.
func (v *Viewport) SetScreenScaling(f float32) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	if f > 0 {
		v.screenScaling = f
	}
	return v
}

// SetMaxFitIntoZoomLevel sets the largest zoom level that zooming to fit
// can reach. By default there is no limit.
func (v *Viewport) SetMaxFitIntoZoomLevel(level float32) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxFitInto = level / v.screenScaling
	return v
}

// SetPadding sets the total padding around the content.
func (v *Viewport) SetPadding(w, h int) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.padding = image.Pt(max(w, 0), max(h, 0))
	return v
}

// SetExtent sets the size of the visible window of the view.
func (v *Viewport) SetExtent(w, h int) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.extent = image.Pt(max(w, 0), max(h, 0))
	v.clampScroll()
	return v
}

// SetContentSize sets the size of the content at a scale of 1.
func (v *Viewport) SetContentSize(w, h int) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content = image.Pt(max(w, 0), max(h, 0))
	v.clampScroll()
	return v
}

// SetScaleStore sets the store that the scale is saved to,
// under the given file, whenever it changes.
func (v *Viewport) SetScaleStore(store ScaleStore, file string) *Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.store, v.file = store, file
	return v
}

// AddScaleListener adds a listener for scale changes and
// returns a function that removes it.
func (v *Viewport) AddScaleListener(l ScaleListener) (remove func()) {
	return v.listeners.Add(l)
}

// Scale returns the current scale.
func (v *Viewport) Scale() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

// Extent returns the size of the visible window.
func (v *Viewport) Extent() image.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.extent
}

// ViewSize returns the size of the view, which is the scaled
// content plus padding.
func (v *Viewport) ViewSize() image.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewSize()
}

func (v *Viewport) viewSize() image.Point {
	return v.scaled(v.content).Add(v.padding)
}

// ScrollPosition returns the position of the visible window in the view.
func (v *Viewport) ScrollPosition() image.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scroll
}

// SetScrollPosition sets the position of the visible window in the view,
// clamped to [0, view size - extent].
func (v *Viewport) SetScrollPosition(x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scroll = image.Pt(x, y)
	v.clampScroll()
}

func (v *Viewport) clampScroll() {
	vs := v.viewSize()
	v.scroll.X = max(0, min(v.scroll.X, vs.X-v.extent.X))
	v.scroll.Y = max(0, min(v.scroll.Y, vs.Y-v.extent.Y))
}

// ContentToView converts a point of the content to a point of the
// visible window.
func (v *Viewport) ContentToView(p image.Point) image.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contentToView(p)
}

func (v *Viewport) contentToView(p image.Point) image.Point {
	return v.scaled(p).Add(v.padding.Div(2)).Sub(v.scroll)
}

// scaled returns the given content point at the current scale.
func (v *Viewport) scaled(p image.Point) image.Point {
	return image.Pt(int(math32.Round(float32(p.X)*v.scale)), int(math32.Round(float32(p.Y)*v.scale)))
}

// ViewToContent converts a point of the visible window to a point
// of the content.
func (v *Viewport) ViewToContent(p image.Point) image.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewToContent(p)
}

func (v *Viewport) viewToContent(p image.Point) image.Point {
	q := p.Add(v.scroll).Sub(v.padding.Div(2))
	return image.Pt(int(math32.Round(float32(q.X)/v.scale)), int(math32.Round(float32(q.Y)/v.scale)))
}

func clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(x, hi))
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// SetScale sets the scale, clamped to the scale bounds, keeping the
// content under the focal point x, y of the visible window in place.
// A negative x or y focuses on the center of the window. Changes smaller
// than [ScalingThreshold] are ignored. It returns whether the scale changed.
// The new scale is saved to the scale store, if any. A scale that is
// not a finite number is ignored.
func (v *Viewport) SetScale(scale float32, x, y int) bool {
	if !finite(scale) {
		return false
	}
	v.mu.Lock()
	ns := clamp(scale, v.minScale, v.maxScale)
	if math32.Abs(ns-v.scale) < ScalingThreshold/v.screenScaling {
		v.mu.Unlock()
		return false
	}
	focus := image.Pt(x, y)
	if x < 0 || y < 0 {
		focus = v.extent.Div(2)
	}
	anchor := v.viewToContent(focus)
	prev := v.scale
	v.scale = ns
	moved := v.contentToView(anchor)
	v.scroll = v.scroll.Add(moved.Sub(focus))
	v.clampScroll()
	store, file := v.store, v.file
	v.mu.Unlock()

	if store != nil && file != "" {
		store.SetFileScale(file, ns)
	}
	v.listeners.Each(func(l ScaleListener) { l(prev, ns) })
	return true
}

// FitScale returns the scale at which the content fits the visible window
// minus the padding, regardless of the scale bounds. With fitInto, the
// scale does not exceed the actual size. It never exceeds the maximum
// set by [Viewport.SetMaxFitIntoZoomLevel].
func (v *Viewport) FitScale(fitInto bool) float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	avail := v.extent.Sub(v.padding)
	sx, sy := float32(1), float32(1)
	if v.content.X != 0 {
		sx = float32(avail.X) / float32(v.content.X)
	}
	if v.content.Y != 0 {
		sy = float32(avail.Y) / float32(v.content.Y)
	}
	s := min(sx, sy)
	if fitInto {
		s = min(s, 1/v.screenScaling)
	}
	return min(s, v.maxFitInto)
}

// Zoom applies the given zoom action, focused on x, y for [ZoomIn]
// and [ZoomOut]. It returns whether the scale changed.
func (v *Viewport) Zoom(z ZoomType, x, y int) bool {
	v.mu.Lock()
	level := v.scale * v.screenScaling
	ss := v.screenScaling
	v.mu.Unlock()
	switch z {
	case ZoomIn:
		p := ZoomInPercent(int(math32.Round(level * 100)))
		return v.SetScale(float32(p)/100/ss, x, y)
	case ZoomOut:
		p := ZoomOutPercent(int(level * 100))
		return v.SetScale(float32(p)/100/ss, x, y)
	case ZoomActual:
		return v.SetScale(1/ss, -1, -1)
	case ZoomFit, ZoomFitInto:
		return v.SetScale(v.FitScale(z == ZoomFitInto), -1, -1)
	}
	return false
}

// ZoomToFit zooms so that the content fits the visible window.
func (v *Viewport) ZoomToFit() bool {
	return v.Zoom(ZoomFit, -1, -1)
}

// RestorePreviousScale sets the scale saved for the given file, and
// returns whether there was a valid one.
func (v *Viewport) RestorePreviousScale(file string) bool {
	v.mu.Lock()
	store := v.store
	v.mu.Unlock()
	if store == nil {
		return false
	}
	scale, ok := store.FileScale(file)
	if !ok || !finite(scale) {
		return false
	}
	v.SetScale(scale, -1, -1)
	return true
}

// CanZoomIn returns whether the scale is below the maximum.
func (v *Viewport) CanZoomIn() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale < v.maxScale
}

// CanZoomOut returns whether the scale is above the minimum.
func (v *Viewport) CanZoomOut() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale > v.minScale
}

// CanZoomToActual returns whether zooming to the actual size
// would change the scale.
func (v *Viewport) CanZoomToActual() bool {
	s := v.Scale()
	return (s > 1 && v.CanZoomOut()) || (s < 1 && v.CanZoomIn())
}

// ScrollToVisible scrolls so that the given rectangle of the content is
// visible. Unless force is set, nothing happens if the rectangle is
// already partly visible. It returns whether it scrolled.
func (v *Viewport) ScrollToVisible(r image.Rectangle, force bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	pad := v.padding.Div(2)
	vr := image.Rectangle{Min: v.scaled(r.Min), Max: v.scaled(r.Max)}.Add(pad)
	window := image.Rectangle{Min: v.scroll, Max: v.scroll.Add(v.extent)}
	if !force && vr.Overlaps(window) {
		return false
	}
	v.scroll = vr.Min.Sub(pad)
	v.clampScroll()
	return true
}
