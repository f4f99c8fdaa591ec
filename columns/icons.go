// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package columns

import (
	"strings"

	"github.com/muesli/termenv"

	"cogentcore.org/preview/base/keycache"
)

// icon is a glyph with the color it is shown in.
type icon struct {
	glyph string
	color string
}

var icons = map[string]icon{
	"error":   {"✖", "#e53935"},
	"warning": {"▲", "#fb8c00"},
	"info":    {"●", "#1e88e5"},
	"ok":      {"✔", "#43a047"},
	"layout":  {"▤", "#8e24aa"},
	"text":    {"T", "#3949ab"},
	"button":  {"▣", "#00897b"},
	"image":   {"▨", "#6d4c41"},
	"view":    {"▢", "#757575"},
}

var unknownIcon = icon{"•", "#9e9e9e"}

func lookup(name string) icon {
	if ic, ok := icons[strings.ToLower(name)]; ok {
		return ic
	}
	return unknownIcon
}

// Glyph returns the glyph of the icon with the given name.
func Glyph(name string) string {
	return lookup(name).glyph
}

type styledKey struct {
	name    string
	profile termenv.Profile
}

// styled caches the styled glyphs per icon and color profile.
var styled keycache.Cache[styledKey, string]

// StyledGlyph returns the glyph of the icon with the given name,
// colored for the given output.
func StyledGlyph(o *termenv.Output, name string) string {
	return styled.Get(styledKey{name, o.Profile}, func(k styledKey) string {
		ic := lookup(k.name)
		return o.String(ic.glyph).Foreground(k.profile.Color(ic.color)).String()
	})
}

// InvalidateIcons drops the styled glyphs, so that they are styled
// again the next time they are used.
func InvalidateIcons() {
	styled.Invalidate()
}

// ClassIcon returns the name of the icon for the given view class.
func ClassIcon(class string) string {
	c := strings.ToLower(class)
	switch {
	case strings.HasSuffix(c, "layout") || strings.Contains(c, "frame"):
		return "layout"
	case strings.Contains(c, "text"):
		return "text"
	case strings.Contains(c, "button"):
		return "button"
	case strings.Contains(c, "image"):
		return "image"
	}
	return "view"
}
