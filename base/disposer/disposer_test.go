// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disposer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposeOrder(t *testing.T) {
	var order []string
	root := New("root", func() { order = append(order, "root") })
	a := root.NewChild("a", func() { order = append(order, "a") })
	a.NewChild("a1", func() { order = append(order, "a1") })
	root.NewChild("b", func() { order = append(order, "b") })

	root.Dispose()
	assert.Equal(t, []string{"b", "a1", "a", "root"}, order)
	assert.True(t, root.IsDisposed())
	assert.True(t, a.IsDisposed())

	root.Dispose()
	assert.Len(t, order, 4)
}

func TestDisposeChild(t *testing.T) {
	n := 0
	root := New("root", nil)
	c := root.NewChild("c", func() { n++ })
	assert.Equal(t, 1, root.NumChildren())
	c.Dispose()
	assert.Equal(t, 0, root.NumChildren())
	root.Dispose()
	assert.Equal(t, 1, n)
}

func TestRegisterOnDisposed(t *testing.T) {
	root := New("root", nil)
	root.Dispose()
	n := 0
	root.Register(New("late", func() { n++ }))
	assert.Equal(t, 1, n)
}

func TestMove(t *testing.T) {
	a := New("a", nil)
	b := New("b", nil)
	c := New("c", nil)
	a.Register(c)
	b.Register(c)
	assert.Equal(t, 0, a.NumChildren())
	assert.Equal(t, 1, b.NumChildren())
	a.Dispose()
	assert.False(t, c.IsDisposed())
	b.Dispose()
	assert.True(t, c.IsDisposed())
}

func TestPanicRecovered(t *testing.T) {
	n := 0
	root := New("root", func() { n++ })
	root.NewChild("bad", func() { panic("boom") })
	assert.NotPanics(t, root.Dispose)
	assert.Equal(t, 1, n)
}

type counter struct{ n int }

func (c *counter) Dispose() { c.n++ }

func TestFor(t *testing.T) {
	c := &counter{}
	n := For("counter", c)
	n.Dispose()
	n.Dispose()
	assert.Equal(t, 1, c.n)
}
