// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMarkup = `
view: LinearLayout
id: root
children:
  - {view: TextView, id: title}
  - view: Button
    id: ok
`

// resetFlags sets every flag back to its default value.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sc := range c.Commands() {
		resetFlags(sc)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeMarkup(t *testing.T, dir, name string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, []byte(testMarkup), 0o644))
	return file
}

func pngSize(t *testing.T, file string) (int, int) {
	t.Helper()
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	c, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return c.Width, c.Height
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkup(t, dir, "a.yaml")
	b := writeMarkup(t, dir, "b.yaml")
	out := filepath.Join(dir, "out")

	_, err := run(t, "render", a, b, "-o", out, "--device", "watch", "--zoom", "50", "--data", dir)
	require.NoError(t, err)
	for _, name := range []string{"a.png", "b.png"} {
		w, h := pngSize(t, filepath.Join(out, name))
		assert.Equal(t, 192, w, name)
		assert.Equal(t, 192, h, name)
	}
	assert.FileExists(t, filepath.Join(dir, "surface.toml"))
}

func TestRenderKeepsSavedZoom(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkup(t, dir, "a.yaml")

	_, err := run(t, "render", a, "-o", dir, "--device", "watch", "--zoom", "25%", "--data", dir)
	require.NoError(t, err)
	_, err = run(t, "render", a, "-o", dir, "--device", "watch", "--data", dir)
	require.NoError(t, err)
	w, h := pngSize(t, filepath.Join(dir, "a.png"))
	assert.Equal(t, 96, w)
	assert.Equal(t, 96, h)
}

func TestRenderActual(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkup(t, dir, "a.yaml")

	_, err := run(t, "render", a, "-o", dir, "--device", "watch", "--zoom", "actual", "--data", dir)
	require.NoError(t, err)
	w, h := pngSize(t, filepath.Join(dir, "a.png"))
	assert.Equal(t, 384, w)
	assert.Equal(t, 384, h)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkup(t, dir, "a.yaml")

	_, err := run(t, "render", a, "-o", dir, "--viewport", "wide", "--data", dir)
	assert.ErrorContains(t, err, "invalid viewport")
	_, err = run(t, "render", a, "-o", dir, "--zoom", "big", "--data", dir)
	assert.ErrorContains(t, err, "invalid zoom")
	_, err = run(t, "render", a, "--device", "toaster", "--data", dir)
	assert.ErrorContains(t, err, "unknown device")
	_, err = run(t, "render", filepath.Join(dir, "missing.yaml"), "-o", dir, "--data", dir)
	assert.Error(t, err)
	_, err = run(t, "render")
	assert.Error(t, err)
}

func TestTree(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkup(t, dir, "a.yaml")

	out, err := run(t, "tree", a, "--sort=-id", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "LinearLayout")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "ok")
	assert.Less(t, bytes.Index([]byte(out), []byte("title")), bytes.Index([]byte(out), []byte("root")))

	_, err = run(t, "tree", a, "--sort", "size", "--data", dir)
	assert.ErrorContains(t, err, "unknown sort column")
}

func TestPNGName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "main.png"), pngName("out", filepath.Join("res", "main.yaml")))
	assert.Equal(t, "main.png", pngName(".", "main"))
}
