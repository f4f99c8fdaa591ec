// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package configuration provides the render configuration of a model:
// the device, theme, locale and resources that a render session is
// bound to. Every change notifies the configuration listeners with
// the [Flags] of what changed.
package configuration

import (
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/jinzhu/copier"

	"cogentcore.org/preview/base/errors"
	"cogentcore.org/preview/events"
)

// BaselineDPI is the density at which one dp is one pixel.
const BaselineDPI = 160

// Device describes the screen that content is rendered for.
type Device struct {

	// Name is the name of the device.
	Name string

	// Width is the width of the screen in pixels.
	Width int

	// Height is the height of the screen in pixels.
	Height int

	// DPI is the density of the screen in dots per inch.
	DPI int
}

// Density returns the number of pixels per dp.
func (d Device) Density() float32 {
	if d.DPI <= 0 {
		return 1
	}
	return float32(d.DPI) / BaselineDPI
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%dx%d, %d dpi)", d.Name, d.Width, d.Height, d.DPI)
}

// Devices are the known devices, which can be looked up with [DeviceByName].
var Devices = []Device{
	{Name: "phone", Width: 1080, Height: 2400, DPI: 420},
	{Name: "small-phone", Width: 720, Height: 1280, DPI: 320},
	{Name: "tablet", Width: 2560, Height: 1600, DPI: 320},
	{Name: "desktop", Width: 1920, Height: 1080, DPI: 160},
	{Name: "watch", Width: 384, Height: 384, DPI: 320},
}

// DeviceByName returns the known device with the given name,
// ignoring case.
func DeviceByName(name string) (Device, error) {
	for _, d := range Devices {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("configuration: unknown device %q", name)
}

// Themes are the supported themes.
var Themes = []string{"light", "dark"}

// State is the plain value of a configuration, which is what
// render sessions are built against.
type State struct {
	Device Device

	// Theme is the name of the theme, one of [Themes].
	Theme string

	// Locale is the locale, such as en-US.
	Locale string

	// Resources are the values that markup attributes
	// can refer to with @name.
	Resources map[string]string
}

// Flags are the aspects of a configuration that changed.
type Flags int64

const (
	// FlagDevice is set when the device changed.
	FlagDevice Flags = 1 << iota

	// FlagDensity is set when the density of the device changed.
	FlagDensity

	// FlagTheme is set when the theme changed.
	FlagTheme

	// FlagLocale is set when the locale changed.
	FlagLocale

	// FlagResources is set when a resource changed.
	FlagResources
)

// Has returns whether any of the given flags are set.
func (f Flags) Has(g Flags) bool {
	return f&g != 0
}

func (f Flags) String() string {
	var s []string
	names := []string{"device", "density", "theme", "locale", "resources"}
	for i, nm := range names {
		if f.Has(1 << i) {
			s = append(s, nm)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

// Listener is called with the flags of what changed.
type Listener func(flags Flags)

// Configuration is the mutable configuration of a model.
// It is safe for concurrent use.
type Configuration struct {
	mu        sync.RWMutex
	state     State
	modCount  uint64
	listeners events.Listeners[Listener]
}

// New returns a new configuration with the given state.
func New(state State) *Configuration {
	c := &Configuration{}
	c.state = copyState(state)
	return c
}

// Default returns a new configuration for the first of the
// [Devices] with the light theme.
func Default() *Configuration {
	return New(State{Device: Devices[0], Theme: "light", Locale: "en-US"})
}

func copyState(s State) State {
	var r State
	errors.Log(copier.CopyWithOption(&r, &s, copier.Option{DeepCopy: true}))
	return r
}

// State returns a copy of the current state.
func (c *Configuration) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyState(c.state)
}

// ModificationCount returns the number of changes made to the configuration.
func (c *Configuration) ModificationCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modCount
}

// AddListener adds a listener that is called after every change.
// It returns a function that removes the listener.
func (c *Configuration) AddListener(fun Listener) (remove func()) {
	return c.listeners.Add(fun)
}

// update applies the given function to the state under the lock and
// notifies the listeners outside of it if any flags are returned.
func (c *Configuration) update(fun func(s *State) Flags) {
	c.mu.Lock()
	flags := fun(&c.state)
	if flags != 0 {
		c.modCount++
	}
	c.mu.Unlock()
	if flags == 0 {
		return
	}
	c.listeners.Each(func(l Listener) { l(flags) })
}

// SetDevice sets the device.
func (c *Configuration) SetDevice(d Device) {
	c.update(func(s *State) Flags {
		if s.Device == d {
			return 0
		}
		f := FlagDevice
		if s.Device.DPI != d.DPI {
			f |= FlagDensity
		}
		s.Device = d
		return f
	})
}

// SetTheme sets the theme.
func (c *Configuration) SetTheme(theme string) {
	c.update(func(s *State) Flags {
		if s.Theme == theme {
			return 0
		}
		s.Theme = theme
		return FlagTheme
	})
}

// SetLocale sets the locale.
func (c *Configuration) SetLocale(locale string) {
	c.update(func(s *State) Flags {
		if s.Locale == locale {
			return 0
		}
		s.Locale = locale
		return FlagLocale
	})
}

// SetResource sets the value of the given resource.
func (c *Configuration) SetResource(name, value string) {
	c.update(func(s *State) Flags {
		if v, ok := s.Resources[name]; ok && v == value {
			return 0
		}
		if s.Resources == nil {
			s.Resources = map[string]string{}
		}
		s.Resources[name] = value
		return FlagResources
	})
}

// SetResources replaces all of the resources.
func (c *Configuration) SetResources(res map[string]string) {
	c.update(func(s *State) Flags {
		if maps.Equal(s.Resources, res) {
			return 0
		}
		s.Resources = maps.Clone(res)
		return FlagResources
	})
}
