// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
)

// MaxMagnitude is the largest coordinate magnitude that is considered
// valid in a view info. Engines use huge values for views that are
// scrolled or translated out of the way.
const MaxMagnitude = 1 << 25

// ViewInfo describes one view produced by the engine. Bounds are in
// pixels relative to the parent view.
type ViewInfo struct {

	// ClassName is the class of the view.
	ClassName string

	// Left, Top, Right and Bottom are the bounds of the view
	// relative to the parent view.
	Left, Top, Right, Bottom int

	// Cookie links the view back to the content it was created from.
	// It is typically a markup snapshot, but can be nil for views
	// added by the engine.
	Cookie any

	// Children are the child views.
	Children []*ViewInfo
}

// Width returns the width of the view.
func (v *ViewInfo) Width() int {
	return v.Right - v.Left
}

// Height returns the height of the view.
func (v *ViewInfo) Height() int {
	return v.Bottom - v.Top
}

// SafeBounds returns the bounds of the view, or an empty rectangle
// at the origin if any of the coordinates is out of range.
func (v *ViewInfo) SafeBounds() image.Rectangle {
	for _, c := range []int{v.Left, v.Top, v.Right, v.Bottom} {
		if c >= MaxMagnitude || c <= -MaxMagnitude {
			return image.Rectangle{}
		}
	}
	return image.Rectangle{Min: image.Point{v.Left, v.Top}, Max: image.Point{v.Right, v.Bottom}}
}

func (v *ViewInfo) String() string {
	return fmt.Sprintf("%s [%d,%d %dx%d]", v.ClassName, v.Left, v.Top, v.Width(), v.Height())
}

// WalkViews calls the given function on each of the given views and
// their children in depth-first order, with the absolute position of
// the parent of each view. It stops descending into a view when the
// function returns false.
func WalkViews(views []*ViewInfo, fun func(v *ViewInfo, parentX, parentY int) bool) {
	for _, v := range views {
		walkView(v, 0, 0, fun)
	}
}

func walkView(v *ViewInfo, px, py int, fun func(v *ViewInfo, parentX, parentY int) bool) {
	if !fun(v, px, py) {
		return
	}
	b := v.SafeBounds()
	for _, c := range v.Children {
		walkView(c, px+b.Min.X, py+b.Min.Y, fun)
	}
}
