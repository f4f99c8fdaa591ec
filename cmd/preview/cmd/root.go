// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cogentcore.org/preview/config"
	"cogentcore.org/preview/settings"
)

var (
	configFile string
	device     string
	theme      string
	dataDir    string
	verbose    bool

	// cfg is the configuration of the current command,
	// set up before the command runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render previews of layout markup files",
	Long: `Preview renders layout markup files the way they look on a device,
and writes the rendered frames as PNG files.

Examples:
  # Render two layouts into the out directory
  preview render main.yaml detail.yaml -o out

  # Render at 150% on a tablet with the dark theme
  preview render main.yaml --zoom 150 --device tablet --theme dark

  # Print the components of a layout and their bounds
  preview tree main.yaml

  # Render again every time the file changes
  preview watch main.yaml -o main.png`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "configuration file (TOML)")
	pf.StringVar(&device, "device", "", "device to render for, overriding the configuration")
	pf.StringVar(&theme, "theme", "", "theme to render with, overriding the configuration")
	pf.StringVar(&dataDir, "data", "", "directory of the saved zoom state")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads the configuration, applies the global flags to it and
// installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if configFile != "" {
		var err error
		c, err = config.Open(configFile)
		if err != nil {
			return err
		}
	}
	if device != "" {
		c.Device = device
	}
	if theme != "" {
		c.Theme = theme
	}
	if verbose {
		c.LogLevel = slog.LevelDebug
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if dataDir != "" {
		if err := settings.SetDataDir(dataDir); err != nil {
			return err
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: c.LogLevel})))
	cfg = c
	return nil
}
