// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Base
	Device  string
	Zoom    float32
	applied int
}

func (ts *testSettings) Defaults() {
	ts.Device = "phone"
	ts.Zoom = 1
}

func (ts *testSettings) Apply() {
	ts.applied++
}

func useTempDataDir(t *testing.T) string {
	old := DataDir()
	dir := t.TempDir()
	require.NoError(t, SetDataDir(dir))
	t.Cleanup(func() { SetDataDir(old) })
	return dir
}

func TestLoadSave(t *testing.T) {
	dir := useTempDataDir(t)
	ts := &testSettings{Base: Base{Name: "Test", File: "test.toml"}}
	require.NoError(t, Load(ts))
	assert.Equal(t, "phone", ts.Device)
	assert.Equal(t, 1, ts.applied)
	assert.Equal(t, "Test", ts.Label())
	assert.Equal(t, filepath.Join(dir, "test.toml"), ts.Filename())

	ts.Device = "tablet"
	ts.Zoom = 1.5
	require.NoError(t, Save(ts))

	loaded := &testSettings{Base: Base{File: "test.toml"}}
	require.NoError(t, Load(loaded))
	assert.Equal(t, "tablet", loaded.Device)
	assert.Equal(t, float32(1.5), loaded.Zoom)

	require.NoError(t, Reset(loaded))
	assert.Equal(t, "phone", loaded.Device)
	assert.NoFileExists(t, loaded.Filename())
	require.NoError(t, Reset(loaded))
}

func TestJSON(t *testing.T) {
	useTempDataDir(t)
	ts := &testSettings{Base: Base{File: "sub/test.json"}, Device: "watch"}
	require.NoError(t, Save(ts))
	b, err := os.ReadFile(ts.Filename())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Device": "watch"`)

	loaded := &testSettings{Base: Base{File: "sub/test.json"}}
	require.NoError(t, Open(loaded))
	assert.Equal(t, "watch", loaded.Device)
}

func TestLoadInvalid(t *testing.T) {
	dir := useTempDataDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("Device = "), 0o666))
	ts := &testSettings{Base: Base{File: "bad.toml"}}
	assert.Error(t, Load(ts))
	assert.Equal(t, 1, ts.applied)
}

func TestSurfaceState(t *testing.T) {
	useTempDataDir(t)
	s := NewSurfaceState()
	_, ok := s.FileScale("main.yaml")
	assert.False(t, ok)
	s.SetFileScale("main.yaml", 0.75)
	scale, ok := s.FileScale("main.yaml")
	assert.True(t, ok)
	assert.Equal(t, float32(0.75), scale)
	assert.FileExists(t, s.Filename())

	loaded := NewSurfaceState()
	require.NoError(t, Load(loaded))
	scale, ok = loaded.FileScale("main.yaml")
	assert.True(t, ok)
	assert.Equal(t, float32(0.75), scale)
}
