// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package softrender

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"cogentcore.org/preview/markup"
	"cogentcore.org/preview/render"
)

// text metrics in dp
const (
	glyphWidth  = 7
	lineHeight  = 20
	statusBarDp = 24
)

type sizeMode int

const (
	sizeWrap sizeMode = iota
	sizeMatch
	sizeFixed
)

type dimension struct {
	mode sizeMode
	px   int
}

// resolve returns the size in pixels for the given available size,
// or -1 if the size depends on the content.
func (d dimension) resolve(avail int) int {
	switch d.mode {
	case sizeMatch:
		return avail
	case sizeFixed:
		return d.px
	}
	return -1
}

type visibility int

const (
	visible visibility = iota
	invisible
	gone
)

// node is an inflated view. Positions are in pixels relative to the parent.
type node struct {
	snap       *markup.Snapshot
	class      string
	width      dimension
	height     dimension
	padding    int
	horizontal bool
	visibility visibility
	text       string
	duration   int64

	x, y, w, h int
	children   []*node
}

// inflater builds the node tree of a snapshot.
type inflater struct {
	density   float32
	resources map[string]string
	diags     []render.Diagnostic
}

func (in *inflater) warn(s *markup.Snapshot, format string, args ...any) {
	in.diags = append(in.diags, render.Diagnostic{Severity: render.SeverityWarning, Message: fmt.Sprintf(format, args...), Cookie: s})
}

// attr returns the attribute with the given name, resolving resource references.
func (in *inflater) attr(s *markup.Snapshot, name string) string {
	v := s.Attrs[name]
	if ref, ok := strings.CutPrefix(v, "@"); ok {
		rv, has := in.resources[ref]
		if !has {
			in.warn(s, "%s: unknown resource @%s", s, ref)
		}
		return rv
	}
	return v
}

func (in *inflater) dp(v float64) int {
	return int(math.Round(v * float64(in.density)))
}

func (in *inflater) length(v string) (int, error) {
	unit := in.dp
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
		unit = func(v float64) int { return int(math.Round(v)) }
	case strings.HasSuffix(v, "dp"):
		v = strings.TrimSuffix(v, "dp")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid length %q", v)
	}
	return unit(f), nil
}

func (in *inflater) dimension(v string) (dimension, error) {
	switch v {
	case "", "wrap_content":
		return dimension{mode: sizeWrap}, nil
	case "match_parent", "fill_parent":
		return dimension{mode: sizeMatch}, nil
	}
	px, err := in.length(v)
	if err != nil {
		return dimension{}, err
	}
	return dimension{mode: sizeFixed, px: px}, nil
}

func (in *inflater) inflate(s *markup.Snapshot) (*node, error) {
	n := &node{snap: s, class: s.View}
	if !knownClass(s.View) {
		if sug := suggestClass(s.View); sug != "" {
			in.warn(s, "%s: unknown view class %q, did you mean %q?", s, s.View, sug)
		} else {
			in.warn(s, "%s: unknown view class %q", s, s.View)
		}
	}
	var err error
	if n.width, err = in.dimension(in.attr(s, "width")); err != nil {
		return nil, fmt.Errorf("%s: width: %w", s, err)
	}
	if n.height, err = in.dimension(in.attr(s, "height")); err != nil {
		return nil, fmt.Errorf("%s: height: %w", s, err)
	}
	if p := in.attr(s, "padding"); p != "" {
		if n.padding, err = in.length(p); err != nil {
			return nil, fmt.Errorf("%s: padding: %w", s, err)
		}
	}
	switch o := in.attr(s, "orientation"); o {
	case "", "vertical":
	case "horizontal":
		n.horizontal = true
	default:
		return nil, fmt.Errorf("%s: invalid orientation %q", s, o)
	}
	switch v := in.attr(s, "visibility"); v {
	case "", "visible":
	case "invisible":
		n.visibility = invisible
	case "gone":
		n.visibility = gone
	default:
		return nil, fmt.Errorf("%s: invalid visibility %q", s, v)
	}
	if d := in.attr(s, "duration"); d != "" {
		ms, err := strconv.ParseInt(d, 10, 64)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("%s: invalid duration %q", s, d)
		}
		n.duration = ms * 1e6
	}
	n.text = in.attr(s, "text")
	for _, cs := range s.Children {
		c, err := in.inflate(cs)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}

// layout sizes the node for the given available space and
// positions its children.
func (n *node) layout(in *inflater, availW, availH int) {
	pad := n.padding
	w := n.width.resolve(availW)
	h := n.height.resolve(availH)
	innerW := max(0, availW-2*pad)
	if w >= 0 {
		innerW = max(0, w-2*pad)
	}
	innerH := max(0, availH-2*pad)
	if h >= 0 {
		innerH = max(0, h-2*pad)
	}
	contentW, contentH := 0, 0
	for _, c := range n.children {
		if c.visibility == gone {
			continue
		}
		if n.horizontal {
			c.layout(in, max(0, innerW-contentW), innerH)
			c.x, c.y = pad+contentW, pad
			contentW += c.w
			contentH = max(contentH, c.h)
		} else {
			c.layout(in, innerW, max(0, innerH-contentH))
			c.x, c.y = pad, pad+contentH
			contentH += c.h
			contentW = max(contentW, c.w)
		}
	}
	if len(n.children) == 0 && n.text != "" {
		contentW = in.dp(float64(glyphWidth * utf8.RuneCountInString(n.text)))
		contentH = in.dp(lineHeight)
	}
	if w < 0 {
		w = min(contentW+2*pad, availW)
	}
	if h < 0 {
		h = min(contentH+2*pad, availH)
	}
	n.w, n.h = w, h
}

// viewInfo returns the view info of the node and its children that are
// not gone, offset by the given amount.
func (n *node) viewInfo(dx, dy int) *render.ViewInfo {
	v := &render.ViewInfo{ClassName: n.class, Left: n.x + dx, Top: n.y + dy, Right: n.x + dx + n.w, Bottom: n.y + dy + n.h, Cookie: n.snap}
	for _, c := range n.children {
		if c.visibility != gone {
			v.Children = append(v.Children, c.viewInfo(0, 0))
		}
	}
	return v
}

// pendingAnimation returns whether any animation is still running
// at the given time.
func (n *node) pendingAnimation(nanos int64) bool {
	if n.visibility == gone {
		return false
	}
	if n.duration > nanos {
		return true
	}
	for _, c := range n.children {
		if c.pendingAnimation(nanos) {
			return true
		}
	}
	return false
}
