// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keycache provides a lazily populated, concurrency-safe
// cache keyed by comparable keys, with explicit invalidation.
// It is used for process-wide caches of derived values such as
// the colors and icons associated with view classes, which
// must be dropped whenever the theme changes.
package keycache

import "sync"

// Cache is a lazily populated cache. The zero value is ready to use.
type Cache[K comparable, V any] struct {
	mu         sync.RWMutex
	values     map[K]V
	generation uint64
}

// Get returns the value for the given key, calling create
// to make it if it is not in the cache yet.
func (c *Cache[K, V]) Get(key K, create func(key K) V) V {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v
	}
	if c.values == nil {
		c.values = make(map[K]V)
	}
	v = create(key)
	c.values[key] = v
	return v
}

// Lookup returns the cached value for the given key, if any.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Invalidate drops all of the cached values.
func (c *Cache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = nil
	c.generation++
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// Generation returns the number of times the cache has been invalidated.
func (c *Cache[K, V]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}
