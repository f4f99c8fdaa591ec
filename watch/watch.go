// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch reloads models when their markup files change on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/model"
)

// DefaultDebounce is how long a [Watcher] waits after the last change
// of a file before reloading it.
var DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a model whenever its markup file is written, created or
// renamed. Editors often write a file in several steps, so changes are
// debounced. A file that can not be parsed leaves the model unchanged.
type Watcher struct {
	model    *model.Model
	file     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	onReload func(err error)
	reloads  atomic.Int64
}

// New returns a new watcher for the file of the given model. The
// directory of the file is watched, so that the file can be replaced.
func New(m *model.Model) (*Watcher, error) {
	file, err := filepath.Abs(m.File())
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(file)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{model: m, file: file, watcher: fw, debounce: DefaultDebounce, logger: slog.Default()}, nil
}

// SetDebounce sets how long to wait after the last change before reloading.
func (w *Watcher) SetDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// SetLogger sets the logger of the watcher.
func (w *Watcher) SetLogger(logger *slog.Logger) *Watcher {
	w.logger = logger
	return w
}

// OnReload sets a function that is called after each reload with
// the error of the reload, if any.
func (w *Watcher) OnReload(fun func(err error)) *Watcher {
	w.onReload = fun
	return w
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// File returns the absolute path of the watched file.
func (w *Watcher) File() string {
	return w.file
}

// Reload parses the file and merges it into the model.
func (w *Watcher) Reload() error {
	root, err := markup.ParseFile(w.file)
	if err != nil {
		return err
	}
	w.model.Reload(root)
	w.reloads.Add(1)
	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.file {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run watches the file until the context ends or the watcher is closed.
// It must be set up before Run is called.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			err := w.Reload()
			if err != nil {
				w.logger.Warn("watch: unable to reload", "file", w.file, "err", err)
			} else {
				w.logger.Info("watch: reloaded", "file", w.file)
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: watcher error", "file", w.file, "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
