// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"slices"

	"github.com/chewxy/math32"
)

// ZoomType is a kind of zoom action.
type ZoomType int32

const (
	// ZoomFit zooms so that the content fits the viewport.
	ZoomFit ZoomType = iota

	// ZoomFitInto zooms so that the content fits the viewport,
	// without zooming in beyond the actual size.
	ZoomFitInto

	// ZoomActual zooms to the actual size.
	ZoomActual

	// ZoomIn zooms in to the next zoom level.
	ZoomIn

	// ZoomOut zooms out to the previous zoom level.
	ZoomOut

	// ZoomScreen zooms to the physical size of the device.
	// It needs the density of the monitor, which is unknown, so it
	// is not supported by [Viewport.Zoom].
	ZoomScreen
)

var zoomLabels = [...]string{"Zoom to Fit Screen", "Zoom out to Fit Screen", "100%", "Zoom In", "Zoom Out", "Exact Device Size"}

func (z ZoomType) String() string {
	if z < 0 || int(z) >= len(zoomLabels) {
		return "Unknown Zoom"
	}
	return zoomLabels[z]
}

// ZoomPoints are the zoom levels, in percent, that [ZoomIn] and [ZoomOut]
// step through. Above the last level, zoom steps by 100%.
var ZoomPoints = []int{25, 33, 50, 67, 75, 90, 100, 110, 125, 150, 200}

// ZoomInPercent returns the zoom level, in percent, after zooming
// in from the given level.
func ZoomInPercent(percent int) int {
	i, found := slices.BinarySearch(ZoomPoints, percent)
	if found {
		if i < len(ZoomPoints)-1 {
			return ZoomPoints[i+1]
		}
		return percent + 100
	}
	// far below the first level, step by 20% instead of jumping
	if i == 0 && float32(percent) < float32(ZoomPoints[0])*0.75 {
		return min(int(math32.Ceil(float32(percent)*1.2)), ZoomPoints[0])
	}
	if i < len(ZoomPoints) {
		return ZoomPoints[i]
	}
	return (percent/100 + 1) * 100
}

// ZoomOutPercent returns the zoom level, in percent, after zooming
// out from the given level.
func ZoomOutPercent(percent int) int {
	i, found := slices.BinarySearch(ZoomPoints, percent)
	switch {
	case i == 0:
		return int(math32.Floor(float32(percent) / 1.1))
	case found || i < len(ZoomPoints):
		return ZoomPoints[i-1]
	case percent%100 == 0:
		return percent - 100
	}
	return percent / 100 * 100
}
