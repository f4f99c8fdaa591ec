// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings provides user settings that persist between runs,
// stored in the data directory.
package settings

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/preview/base/errors"
)

// Settings is the interface that describes the functionality
// common to all settings data types.
type Settings interface {

	// Label returns the label text for the settings.
	Label() string

	// Filename returns the full path at which the settings are stored.
	Filename() string

	// Defaults sets the default values for all of the settings.
	Defaults()

	// Apply does anything necessary to apply the settings.
	Apply()
}

// Opener is an optional interface that [Settings] can satisfy
// to customize the behavior of [Open].
type Opener interface {
	Settings
	Open() error
}

// Saver is an optional interface that [Settings] can satisfy
// to customize the behavior of [Save].
type Saver interface {
	Settings
	Save() error
}

// Base contains base settings logic that other settings
// data types can extend.
type Base struct {

	// Name is the name of the settings.
	Name string `toml:"-" json:"-"`

	// File is the path at which the settings are stored relative to [DataDir].
	File string `toml:"-" json:"-"`
}

// Label returns the label text for the settings.
func (b *Base) Label() string {
	return b.Name
}

// Filename returns the full path at which the settings are stored.
func (b *Base) Filename() string {
	return filepath.Join(DataDir(), b.File)
}

// Defaults does nothing by default and can be extended by other settings data types.
func (b *Base) Defaults() {}

// Apply does nothing by default and can be extended by other settings data types.
func (b *Base) Apply() {}

var (
	dataDirMu sync.Mutex
	dataDir   string
)

// DataDir returns the directory that settings are stored in, which is
// ~/.cogentcore/preview unless it has been set with [SetDataDir].
func DataDir() string {
	dataDirMu.Lock()
	defer dataDirMu.Unlock()
	if dataDir != "" {
		return dataDir
	}
	dir, err := homedir.Expand(filepath.Join("~", ".cogentcore", "preview"))
	if errors.Log(err) != nil {
		return filepath.Join(os.TempDir(), "cogentcore-preview")
	}
	return dir
}

// SetDataDir sets the directory that settings are stored in.
// The leading ~ of a path is expanded to the home directory.
func SetDataDir(dir string) error {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return err
	}
	dataDirMu.Lock()
	defer dataDirMu.Unlock()
	dataDir = dir
	return nil
}

// Open opens the given settings from their [Settings.Filename]. The
// settings are assumed to be in TOML unless they have a .json extension.
// If they satisfy [Opener], [Opener.Open] is used instead.
func Open(se Settings) error {
	if so, ok := se.(Opener); ok {
		return so.Open()
	}
	return OpenFile(se, se.Filename())
}

// OpenFile decodes the given file into v, as JSON if it has
// a .json extension and as TOML otherwise.
func OpenFile(v any, filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if filepath.Ext(filename) == ".json" {
		return json.Unmarshal(b, v)
	}
	return toml.Unmarshal(b, v)
}

// Save saves the given settings to their [Settings.Filename], in TOML
// unless they have a .json extension. If they satisfy [Saver],
// [Saver.Save] is used instead.
func Save(se Settings) error {
	if ss, ok := se.(Saver); ok {
		return ss.Save()
	}
	return SaveFile(se, se.Filename())
}

// SaveFile encodes v into the given file, as JSON if it has a .json
// extension and as TOML otherwise, creating its directory as needed.
func SaveFile(v any, filename string) error {
	var b []byte
	var err error
	if filepath.Ext(filename) == ".json" {
		b, err = json.MarshalIndent(v, "", "\t")
	} else {
		b, err = toml.Marshal(v)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o666)
}

// Load sets the defaults of, opens and applies the given settings.
// Settings that have not been saved yet keep their defaults.
func Load(se Settings) error {
	se.Defaults()
	err := Open(se)
	// applied even if they could not be opened
	se.Apply()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Reset removes the saved settings and resets them to their defaults.
func Reset(se Settings) error {
	err := os.Remove(se.Filename())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	se.Defaults()
	se.Apply()
	return nil
}
