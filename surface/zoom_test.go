// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomInPercent(t *testing.T) {
	tests := map[int]int{1: 2, 20: 25, 25: 33, 100: 110, 105: 110, 150: 200, 200: 300, 250: 300, 300: 400}
	for in, want := range tests {
		assert.Equal(t, want, ZoomInPercent(in), "zoom in from %d", in)
	}
}

func TestZoomOutPercent(t *testing.T) {
	tests := map[int]int{25: 22, 20: 18, 33: 25, 100: 90, 105: 100, 200: 150, 250: 200, 300: 200, 400: 300}
	for in, want := range tests {
		assert.Equal(t, want, ZoomOutPercent(in), "zoom out from %d", in)
	}
}

func TestZoomTypeString(t *testing.T) {
	assert.Equal(t, "100%", ZoomActual.String())
	assert.Equal(t, "Unknown Zoom", ZoomType(42).String())
}
