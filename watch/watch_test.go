// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/preview/model"
)

const original = "view: LinearLayout\nid: root\nchildren:\n  - {view: TextView, id: title}\n"

const edited = "view: LinearLayout\nid: root\nchildren:\n  - {view: TextView, id: title}\n  - {view: Button, id: ok}\n"

func setup(t *testing.T) (*model.Model, *Watcher, chan error) {
	fn := filepath.Join(t.TempDir(), "main.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(original), 0o666))
	m, err := model.Open(fn, nil)
	require.NoError(t, err)
	w, err := New(m)
	require.NoError(t, err)
	reloaded := make(chan error, 8)
	w.SetDebounce(10 * time.Millisecond).OnReload(func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return m, w, reloaded
}

// waitReload waits for a reload that fails if fail is set, or succeeds
// otherwise. A write can be seen half done, so other reloads are skipped.
func waitReload(t *testing.T, reloaded chan error, fail bool) error {
	timeout := time.After(5 * time.Second)
	for {
		select {
		case err := <-reloaded:
			if (err != nil) == fail {
				return err
			}
		case <-timeout:
			t.Fatal("file was not reloaded")
			return nil
		}
	}
}

func TestWatchReload(t *testing.T) {
	m, w, reloaded := setup(t)
	var changes int
	m.AddListener(&model.Funcs{Changed: func(*model.Model) { changes++ }})
	title := m.ComponentByID("title")

	require.NoError(t, os.WriteFile(w.File(), []byte(edited), 0o666))
	require.NoError(t, waitReload(t, reloaded, false))
	assert.NotNil(t, m.ComponentByID("ok"))
	assert.Same(t, title, m.ComponentByID("title"))
	assert.Equal(t, model.ChangeEdit, m.LastChange())
	assert.GreaterOrEqual(t, w.Reloads(), int64(1))
	assert.GreaterOrEqual(t, changes, 1)
}

func TestWatchInvalid(t *testing.T) {
	m, w, reloaded := setup(t)
	require.NoError(t, os.WriteFile(w.File(), []byte("children: [\n"), 0o666))
	assert.Error(t, waitReload(t, reloaded, true))
	assert.NotNil(t, m.ComponentByID("title"))
	assert.Equal(t, int64(0), w.Reloads())
}

func TestWatchReplace(t *testing.T) {
	m, w, reloaded := setup(t)
	tmp := filepath.Join(filepath.Dir(w.File()), "main.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(edited), 0o666))
	require.NoError(t, os.Rename(tmp, w.File()))
	require.NoError(t, waitReload(t, reloaded, false))
	assert.NotNil(t, m.ComponentByID("ok"))
}
