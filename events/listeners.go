// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events provides listener lists used to fan out
// notifications from models, render sessions and viewports.
package events

import (
	"slices"
	"sync"
)

// Listeners is a list of listeners of type T, which is typically
// a function or interface type. Listeners is safe for concurrent use.
// Notification always works on a copy of the list, so no lock is held
// while listeners are being called, and listeners can add or remove
// listeners (including themselves) from within a callback.
// The zero value is ready to use.
type Listeners[T any] struct {
	mu    sync.Mutex
	items []entry[T]
	next  uint64
}

type entry[T any] struct {
	id  uint64
	fun T
}

// Add adds the given listener and returns a function that removes it.
// The returned function can be called any number of times.
func (ls *Listeners[T]) Add(fun T) (remove func()) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.next++
	id := ls.next
	ls.items = append(ls.items, entry[T]{id: id, fun: fun})
	return func() { ls.remove(id) }
}

func (ls *Listeners[T]) remove(id uint64) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.items = slices.DeleteFunc(ls.items, func(e entry[T]) bool { return e.id == id })
}

// Snapshot returns a copy of the current listeners, in the order
// in which they were added.
func (ls *Listeners[T]) Snapshot() []T {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	res := make([]T, len(ls.items))
	for i, e := range ls.items {
		res[i] = e.fun
	}
	return res
}

// Each calls the given function on a snapshot of the listeners,
// in the order in which they were added.
func (ls *Listeners[T]) Each(fun func(l T)) {
	for _, l := range ls.Snapshot() {
		fun(l)
	}
}

// Clear removes all of the listeners.
func (ls *Listeners[T]) Clear() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.items = nil
}

// Len returns the number of listeners.
func (ls *Listeners[T]) Len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.items)
}
