// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"maps"
	"path/filepath"
	"sync"

	"cogentcore.org/preview/base/errors"
)

// SurfaceState is the state of the preview surface that is kept between
// runs: the last zoom scale of each file. It implements surface.ScaleStore,
// saving itself whenever a scale changes.
type SurfaceState struct {
	Base

	// Scales are the last zoom scales, keyed by absolute file path.
	Scales map[string]float32

	mu sync.Mutex

	// saveMu serializes writes of the file.
	saveMu sync.Mutex
}

// NewSurfaceState returns new surface state stored in surface.toml.
func NewSurfaceState() *SurfaceState {
	s := &SurfaceState{Base: Base{Name: "Surface", File: "surface.toml"}}
	s.Defaults()
	return s
}

func (s *SurfaceState) Defaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scales = map[string]float32{}
}

// Open opens the state, keeping any scales that are not in the file.
func (s *SurfaceState) Open() error {
	var f struct{ Scales map[string]float32 }
	if err := OpenFile(&f, s.Filename()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Scales == nil {
		s.Scales = map[string]float32{}
	}
	maps.Copy(s.Scales, f.Scales)
	return nil
}

// Save saves a copy of the state, so that it can be saved
// while scales are being set.
func (s *SurfaceState) Save() error {
	s.mu.Lock()
	f := struct{ Scales map[string]float32 }{maps.Clone(s.Scales)}
	s.mu.Unlock()
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return SaveFile(&f, s.Filename())
}

func key(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}

// FileScale returns the last zoom scale of the given file, if any.
func (s *SurfaceState) FileScale(file string) (float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scale, ok := s.Scales[key(file)]
	return scale, ok
}

// SetFileScale sets the zoom scale of the given file and saves the state.
func (s *SurfaceState) SetFileScale(file string, scale float32) {
	s.mu.Lock()
	if s.Scales == nil {
		s.Scales = map[string]float32{}
	}
	s.Scales[key(file)] = scale
	s.mu.Unlock()
	errors.Log(Save(s))
}
