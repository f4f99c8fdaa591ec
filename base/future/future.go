// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package future provides a write-once result slot that can be
// waited on from any number of goroutines. It is used for render
// and layout requests, which complete asynchronously on a worker.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is returned by [Future.Wait] when the future was
// canceled before it was completed.
var ErrCanceled = errors.New("future: canceled")

// Future is the result of an asynchronous operation.
// The zero value is not usable; use [New], [Completed] or [Failed].
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// New returns a new pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future that is already completed with v.
func Completed[T any](v T) *Future[T] {
	f := New[T]()
	f.Complete(v)
	return f
}

// Failed returns a future that has already failed with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Fail(err)
	return f
}

func (f *Future[T]) finish(v T, err error) bool {
	set := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
		set = true
	})
	return set
}

// Complete completes the future with the given value.
// It returns false if the future was already done.
func (f *Future[T]) Complete(v T) bool {
	return f.finish(v, nil)
}

// Fail completes the future with the given error.
// It returns false if the future was already done.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.finish(zero, err)
}

// Cancel completes the future with [ErrCanceled].
// It returns false if the future was already done.
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.finish(zero, ErrCanceled)
}

// Done returns a channel that is closed when the future is done.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone returns whether the future has been completed, failed or canceled.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// IsCanceled returns whether the future was canceled.
func (f *Future[T]) IsCanceled() bool {
	return f.IsDone() && errors.Is(f.err, ErrCanceled)
}

// Wait blocks until the future is done or the context ends,
// and returns the value and error of the future.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the future is done and returns its value and error.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

// Then returns a future that is completed with the result of fn, which
// is called on a new goroutine with the value and error of f once f is done.
func Then[T, U any](f *Future[T], fn func(v T, err error) (U, error)) *Future[U] {
	nf := New[U]()
	go func() {
		v, err := f.Result()
		u, err := fn(v, err)
		if err != nil {
			nf.Fail(err)
			return
		}
		nf.Complete(u)
	}()
	return nf
}

// Go runs fn on a new goroutine and returns a future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		v, err := fn()
		if err != nil {
			f.Fail(err)
			return
		}
		f.Complete(v)
	}()
	return f
}
