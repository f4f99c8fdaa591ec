// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import (
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/preview/base/errors"
)

// Priority is the priority of an [Update]; lower values run first.
type Priority int

const (
	// PriorityHigh is used for model updates, which must run
	// before any queued render.
	PriorityHigh Priority = 0

	// PriorityLow is used for renders.
	PriorityLow Priority = 10
)

// Update is a named unit of work for an [Executor].
type Update struct {

	// Name identifies the update. An update is dropped if an update
	// with the same name is already waiting to run.
	Name string

	Priority Priority

	Run func()
}

// Executor runs updates.
type Executor interface {
	Queue(u Update)
}

// MergingQueue is an [Executor] that runs updates one at a time on its own
// goroutine, in order of priority and then of arrival. An update is
// merged into an update with the same name that is already waiting.
type MergingQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Update
	closed bool
	done   chan struct{}
}

// NewMergingQueue returns a new queue and starts its goroutine.
func NewMergingQueue() *MergingQueue {
	q := &MergingQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Queue adds the given update, unless an update with the same name
// is already waiting or the queue is closed.
func (q *MergingQueue) Queue(u Update) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if slices.ContainsFunc(q.items, func(e Update) bool { return e.Name == u.Name }) {
		return
	}
	i := len(q.items)
	for i > 0 && q.items[i-1].Priority > u.Priority {
		i--
	}
	q.items = slices.Insert(q.items, i, u)
	q.cond.Signal()
}

// Len returns the number of updates waiting to run.
func (q *MergingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue. Waiting updates are dropped; an update
// that is running is allowed to finish.
func (q *MergingQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}

// Done returns a channel that is closed when the goroutine of
// the queue has stopped.
func (q *MergingQueue) Done() <-chan struct{} {
	return q.done
}

func (q *MergingQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		u := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		q.exec(u)
	}
}

func (q *MergingQueue) exec(u Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("manager: update panicked", "update", u.Name, "err", errors.Recovered(r))
		}
	}()
	u.Run()
}
