// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the run configuration of the preview tool,
// which is read from a TOML file and can be overridden by flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/manager"
	"cogentcore.org/preview/surface"
)

// Config is the run configuration of the preview tool.
type Config struct {

	// Device is the name of the device to render for.
	Device string

	// Theme is the theme to render with.
	Theme string

	// Locale is the locale to render with.
	Locale string

	// Resources are the string resources referenced from markup as @name.
	Resources map[string]string

	// Engine is the version constraint that the rendering engine must
	// satisfy, such as ">= 1.2". Empty accepts any engine.
	Engine string

	// LogLevel is the minimum level of log messages.
	LogLevel slog.Level

	// Render contains the render options.
	Render Render

	// Viewport contains the viewport options.
	Viewport Viewport
}

// Render contains the render options of [Config].
type Render struct {

	// ImagePool is whether rendered images are reused.
	ImagePool bool

	// Quality is the scale of the rendered images, in (0, 1].
	Quality float32

	// Decorations is whether the system decorations are rendered.
	Decorations bool

	// Shrink is whether images are cropped to the content.
	Shrink bool

	// Transparent is whether the background is left transparent.
	Transparent bool

	// LogErrors is whether problems in the content are logged.
	LogErrors bool
}

// Viewport contains the viewport options of [Config].
type Viewport struct {

	// Width and Height are the size of the visible window in pixels.
	Width, Height int

	// MinScale and MaxScale bound the zoom scale.
	MinScale, MaxScale float32

	// MaxFitZoom is the largest zoom level of a zoom to fit.
	// Zero means no limit.
	MaxFitZoom float32

	// Padding is the total padding around the content in pixels.
	Padding int

	// Zoom is the initial zoom: fit, fit-into, actual, or a percentage
	// such as 150 or 150%.
	Zoom string
}

// Default returns the default configuration.
func Default() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Defaults sets the default values of the configuration.
func (c *Config) Defaults() {
	*c = Config{
		Device:    configuration.Devices[0].Name,
		Theme:     "light",
		Locale:    "en-US",
		Resources: map[string]string{},
		LogLevel:  slog.LevelWarn,
		Render: Render{
			ImagePool: true,
			Quality:   1,
			LogErrors: true,
		},
		Viewport: Viewport{
			Width:    1024,
			Height:   768,
			MinScale: 0.1,
			MaxScale: 10,
			Padding:  40,
			Zoom:     "fit-into",
		},
	}
}

// Open returns the default configuration overridden by the given TOML
// file. A leading ~ in the path is expanded to the home directory.
// Unknown fields are an error.
func Open(filename string) (*Config, error) {
	c := Default()
	filename, err := homedir.Expand(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d := toml.NewDecoder(f).DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			return nil, fmt.Errorf("config: %s: %s", filename, sme.String())
		}
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	return c, c.Validate()
}

// Save saves the configuration as TOML to the given file.
func (c *Config) Save(filename string) error {
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o666)
}

// Validate returns an error if the configuration is not usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := configuration.DeviceByName(c.Device); err != nil {
		errs = append(errs, err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("config: invalid locale %q: %w", c.Locale, err))
	}
	if !(c.Render.Quality > 0 && c.Render.Quality <= 1) {
		errs = append(errs, fmt.Errorf("config: render quality %g is not in (0, 1]", c.Render.Quality))
	}
	if !(c.Viewport.MinScale > 0 && c.Viewport.MaxScale >= c.Viewport.MinScale) || math.IsInf(float64(c.Viewport.MaxScale), 1) {
		errs = append(errs, fmt.Errorf("config: invalid viewport scale bounds [%g, %g]", c.Viewport.MinScale, c.Viewport.MaxScale))
	}
	if _, _, err := ParseZoom(c.Viewport.Zoom); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// State returns the render configuration state.
func (c *Config) State() (configuration.State, error) {
	d, err := configuration.DeviceByName(c.Device)
	if err != nil {
		return configuration.State{}, err
	}
	return configuration.State{Device: d, Theme: c.Theme, Locale: c.Locale, Resources: c.Resources}, nil
}

// ManagerOptions returns the options of the scene managers.
func (c *Config) ManagerOptions() manager.Options {
	opts := manager.DefaultOptions()
	opts.UseImagePool = c.Render.ImagePool
	opts.Quality = c.Render.Quality
	opts.ShowDecorations = c.Render.Decorations
	opts.Shrink = c.Render.Shrink
	opts.Transparent = c.Render.Transparent
	opts.LogRenderErrors = c.Render.LogErrors
	opts.EngineConstraint = c.Engine
	return opts
}

// ApplyViewport configures the given viewport with the viewport options.
func (c *Config) ApplyViewport(v *surface.Viewport) {
	v.SetScaleBounds(c.Viewport.MinScale, c.Viewport.MaxScale).
		SetPadding(c.Viewport.Padding, c.Viewport.Padding).
		SetExtent(c.Viewport.Width, c.Viewport.Height)
	if c.Viewport.MaxFitZoom > 0 {
		v.SetMaxFitIntoZoomLevel(c.Viewport.MaxFitZoom)
	}
}

// ParseZoom parses a zoom option: fit, fit-into, actual or a percentage.
// For actual and percentages, the zoom type is [surface.ZoomActual] and
// scale is the scale to set.
func ParseZoom(s string) (z surface.ZoomType, scale float32, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit":
		return surface.ZoomFit, 0, nil
	case "", "fit-into":
		return surface.ZoomFitInto, 0, nil
	case "actual", "100%":
		return surface.ZoomActual, 1, nil
	}
	p, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 32)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, 0, fmt.Errorf("config: invalid zoom %q", s)
	}
	return surface.ZoomActual, float32(p) / 100, nil
}
