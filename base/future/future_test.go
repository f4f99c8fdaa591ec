// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	f := New[int]()
	assert.False(t, f.IsDone())
	assert.True(t, f.Complete(3))
	assert.False(t, f.Complete(4))
	assert.False(t, f.Cancel())
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.False(t, f.IsCanceled())
}

func TestFailAndCancel(t *testing.T) {
	boom := errors.New("boom")
	_, err := Failed[int](boom).Result()
	assert.ErrorIs(t, err, boom)

	f := New[string]()
	assert.True(t, f.Cancel())
	assert.True(t, f.IsCanceled())
	_, err = f.Result()
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestWaitContext(t *testing.T) {
	f := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.IsDone())
}

func TestConcurrentWaiters(t *testing.T) {
	f := New[int]()
	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = f.Result()
		}()
	}
	f.Complete(7)
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestThen(t *testing.T) {
	f := New[int]()
	g := Then(f, func(v int, err error) (string, error) {
		if err != nil {
			return "", err
		}
		return "ok", nil
	})
	f.Complete(1)
	v, err := g.Result()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	h := Then(Failed[int](errors.New("x")), func(v int, err error) (int, error) {
		return v, err
	})
	_, err = h.Result()
	assert.Error(t, err)
}

func TestGo(t *testing.T) {
	v, err := Go(func() (int, error) { return 5, nil }).Result()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}
