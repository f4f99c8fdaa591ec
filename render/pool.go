// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool is a pool of reusable images, grouped by size.
// Images handed out by the pool are returned to it when the
// [Result] that holds them is disposed.
type ImagePool struct {
	mu    sync.Mutex
	pools map[image.Point]*sync.Pool

	gets atomic.Int64
	puts atomic.Int64
}

// NewImagePool returns a new empty image pool.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: map[image.Point]*sync.Pool{}}
}

// DefaultImagePool is the image pool shared by all sessions
// that do not have their own.
var DefaultImagePool = NewImagePool()

func (p *ImagePool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp := p.pools[size]
	if sp == nil {
		sp = &sync.Pool{New: func() any {
			return image.NewRGBA(image.Rectangle{Max: size})
		}}
		p.pools[size] = sp
	}
	return sp
}

// Get returns a cleared image of the given size.
func (p *ImagePool) Get(width, height int) *image.RGBA {
	p.gets.Add(1)
	img := p.pool(image.Point{width, height}).Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put returns the given image to the pool.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.puts.Add(1)
	p.pool(img.Rect.Size()).Put(img)
}

// Stats returns the number of images that were handed out
// by the pool and returned to it.
func (p *ImagePool) Stats() (gets, puts int64) {
	return p.gets.Load(), p.puts.Load()
}
