// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markup provides the source markup that describes the
// views to render. Markup is written in YAML, where each element
// has a view class, an optional id, string attributes and children:
//
//	view: LinearLayout
//	id: root
//	attrs:
//	  orientation: vertical
//	children:
//	  - view: TextView
//	    id: title
//	    attrs: {text: Hello, height: 40}
package markup

import (
	"fmt"
	"maps"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Tag is one element of the markup. The identity of a tag is its
// pointer: a [Document] keeps tags alive across updates as long as
// they match by [Tag.PlanName], so that anything keyed by tag
// survives edits of the markup file. View and ID never change
// once a tag is created; the rest of the fields may only be
// accessed through the [Document] that contains the tag.
type Tag struct {

	// View is the view class of the element, such as TextView.
	View string

	// ID is the optional unique id of the element.
	ID string

	// Attrs are the attributes of the element.
	Attrs map[string]string

	// Children are the child elements.
	Children []*Tag

	parent *Tag
	name   string
}

// PlanName returns the name of the tag among its siblings,
// which is view#id for tags with an id, and view@index otherwise.
func (t *Tag) PlanName() string {
	return t.name
}

// Parent returns the parent tag, or nil for the root.
func (t *Tag) Parent() *Tag {
	return t.parent
}

// String returns a short description of the tag.
func (t *Tag) String() string {
	if t.ID != "" {
		return t.View + "#" + t.ID
	}
	return t.View
}

// Attr returns the value of the given attribute.
func (t *Tag) Attr(name string) (string, bool) {
	v, ok := t.Attrs[name]
	return v, ok
}

// node is the YAML representation of a [Tag].
type node struct {
	View     string            `yaml:"view"`
	ID       string            `yaml:"id,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Children []*node           `yaml:"children,omitempty"`
}

// Parse parses the given YAML markup and returns its root tag.
func Parse(data []byte) (*Tag, error) {
	var n node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("markup: %w", err)
	}
	return fromNode(&n, nil, "root")
}

// ParseFile parses the YAML markup in the given file.
func ParseFile(filename string) (*Tag, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// New returns a new tag with the given view class and id,
// and adds it to the given parent if it is non-nil.
// It is mainly used to build markup in code.
func New(parent *Tag, view, id string, attrs map[string]string) *Tag {
	t := &Tag{View: view, ID: id, Attrs: attrs}
	if t.Attrs == nil {
		t.Attrs = map[string]string{}
	}
	if parent != nil {
		t.parent = parent
		parent.Children = append(parent.Children, t)
		nameChildren(parent)
	} else {
		t.name = baseName(t, 0)
	}
	return t
}

func fromNode(n *node, parent *Tag, path string) (*Tag, error) {
	if n.View == "" {
		return nil, fmt.Errorf("markup: element %s has no view class", path)
	}
	t := &Tag{View: n.View, ID: n.ID, Attrs: maps.Clone(n.Attrs), parent: parent}
	if t.Attrs == nil {
		t.Attrs = map[string]string{}
	}
	for i, cn := range n.Children {
		if cn == nil {
			return nil, fmt.Errorf("markup: element %s has an empty child at index %d", path, i)
		}
		c, err := fromNode(cn, t, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, c)
	}
	nameChildren(t)
	if parent == nil {
		t.name = baseName(t, 0)
	}
	return t, nil
}

func baseName(t *Tag, index int) string {
	if t.ID != "" {
		return t.View + "#" + t.ID
	}
	return t.View + "@" + strconv.Itoa(index)
}

// nameChildren sets the plan names of the children of the given tag,
// making duplicated ids unique among siblings.
func nameChildren(t *Tag) {
	seen := map[string]int{}
	for i, c := range t.Children {
		nm := baseName(c, i)
		if n := seen[nm]; n > 0 {
			seen[nm] = n + 1
			nm += "~" + strconv.Itoa(n)
		} else {
			seen[nm] = 1
		}
		c.name = nm
	}
}
