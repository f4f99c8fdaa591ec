// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"

	"cogentcore.org/preview/base/errors"
	"cogentcore.org/preview/config"
	"cogentcore.org/preview/configuration"
	"cogentcore.org/preview/manager"
	"cogentcore.org/preview/model"
	"cogentcore.org/preview/render"
	"cogentcore.org/preview/render/softrender"
	"cogentcore.org/preview/settings"
	"cogentcore.org/preview/surface"
)

// state is the saved zoom state, shared by all previews.
var state = sync.OnceValue(func() *settings.SurfaceState {
	s := settings.NewSurfaceState()
	errors.Log(settings.Load(s))
	return s
})

// preview is a surface showing the models of some files.
type preview struct {
	surface *surface.Surface
	models  []*model.Model
}

// newPreview opens the given files on a new surface configured by [cfg].
func newPreview(files ...string) (*preview, error) {
	st, err := cfg.State()
	if err != nil {
		return nil, err
	}
	p := &preview{surface: surface.New(softrender.New(), cfg.ManagerOptions()).SetScaleStore(state())}
	cfg.ApplyViewport(p.surface.Viewport())
	for _, f := range files {
		m, err := model.Open(f, configuration.New(st))
		if err != nil {
			p.surface.Dispose()
			return nil, err
		}
		p.surface.AddModel(m)
		p.models = append(p.models, m)
	}
	return p, nil
}

// Dispose disposes the surface and its scene managers.
func (p *preview) Dispose() {
	p.surface.Dispose()
}

// render renders every model, lays out the surface and applies the zoom
// of the configuration. Unless force is set, a zoom scale saved for the
// first file is kept.
func (p *preview) render(ctx context.Context, force bool) error {
	if _, err := p.surface.RequestRender(render.TriggerBuild).Wait(ctx); err != nil {
		return err
	}
	for _, sm := range p.surface.SceneManagers() {
		if _, err := result(sm); err != nil {
			return err
		}
	}
	v := cfg.Viewport
	_, saved := state().FileScale(p.models[0].File())
	p.surface.Layout(v.Width, v.Height)
	if force || !saved {
		return applyZoom(p.surface.Viewport(), v.Zoom)
	}
	return nil
}

// applyZoom applies the given zoom option to the viewport.
func applyZoom(vp *surface.Viewport, zoom string) error {
	z, scale, err := config.ParseZoom(zoom)
	if err != nil {
		return err
	}
	if z == surface.ZoomActual {
		vp.SetScale(scale, -1, -1)
		return nil
	}
	vp.Zoom(z, -1, -1)
	return nil
}

// result returns the rendered result of the given scene manager,
// or an error if there is no rendered image.
func result(sm *manager.SceneManager) (*render.Result, error) {
	r := sm.RenderResult()
	switch {
	case r == nil:
		return nil, fmt.Errorf("%s: not rendered", sm.Model().File())
	case r.Err != nil:
		return nil, fmt.Errorf("%s: %w", sm.Model().File(), r.Err)
	case r.Image == nil:
		return nil, fmt.Errorf("%s: no image", sm.Model().File())
	}
	return r, nil
}

// scaledImage returns the rendered image of the given model at the scale of
// the viewport.
func (p *preview) scaledImage(m *model.Model) (image.Image, error) {
	r, err := result(p.surface.SceneManager(m))
	if err != nil {
		return nil, err
	}
	scale := p.surface.Viewport().Scale()
	src := r.Image
	b := src.Bounds()
	w := max(1, int(float32(b.Dx())*scale+0.5))
	h := max(1, int(float32(b.Dy())*scale+0.5))
	if w == b.Dx() && h == b.Dy() {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

// writePNG writes the rendered image of the given model to filename.
func (p *preview) writePNG(m *model.Model, filename string) error {
	img, err := p.scaledImage(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// pngName returns the name of the PNG file for the given markup file
// in the given directory.
func pngName(dir, file string) string {
	base := filepath.Base(file)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".png")
}
