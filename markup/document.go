// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"maps"
	"sync"

	"cogentcore.org/preview/base/plan"
)

// Document is a markup file: a tree of tags together with the
// file that it comes from. All access to the tags of a document
// must go through its methods, which are safe for concurrent use.
type Document struct {
	mu      sync.RWMutex
	file    string
	root    *Tag
	version uint64
}

// NewDocument returns a new document for the given file and root tag.
func NewDocument(file string, root *Tag) *Document {
	return &Document{file: file, root: root}
}

// OpenDocument parses the given markup file into a new document.
func OpenDocument(filename string) (*Document, error) {
	root, err := ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return NewDocument(filename, root), nil
}

// File returns the file of the document, which is also its identity
// for anything that is stored per file.
func (d *Document) File() string {
	return d.file
}

// Version returns the number of updates made to the document.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Root returns the root tag of the document. The tag may only be
// used for its identity, View and ID outside of [Document.Read].
func (d *Document) Root() *Tag {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Read calls the given function with the root tag while holding
// the read lock of the document.
func (d *Document) Read(fun func(root *Tag)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fun(d.root)
}

// Snapshot returns a snapshot of the whole document,
// or nil if the document has no root.
func (d *Document) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.root == nil {
		return nil
	}
	return snapshot(d.root)
}

// Update merges the given freshly parsed tree into the document.
// Tags that match by [Tag.PlanName] at the same position keep their
// identity and take the attributes of the new tags; other tags are
// replaced. It returns whether the root tag itself was replaced.
func (d *Document) Update(root *Tag) (replaced bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version++
	if d.root == nil || root == nil || d.root.name != root.name {
		d.root = root
		if root != nil {
			root.parent = nil
		}
		return true
	}
	d.root.UpdateFrom(root)
	return false
}

// UpdateFrom merges the given source tree into the tree of t, keeping
// the identity of the tags that match by [Tag.PlanName]. Tags of the
// source that are not matched are moved into the tree of t. It must
// not be called on the tags of a [Document] directly; use
// [Document.Update] instead.
func (t *Tag) UpdateFrom(src *Tag) {
	t.Attrs = maps.Clone(src.Attrs)
	if t.Attrs == nil {
		t.Attrs = map[string]string{}
	}
	t.Children, _ = plan.Update(t.Children, len(src.Children),
		func(i int) string { return src.Children[i].name },
		func(name string, i int) *Tag { return src.Children[i] },
		func(e *Tag) { e.parent = nil })
	for i, c := range t.Children {
		c.parent = t
		if sc := src.Children[i]; sc != c {
			c.UpdateFrom(sc)
		}
	}
}

// Walk calls the given function on every tag of the document in
// depth-first order while holding the read lock of the document.
func (d *Document) Walk(fun func(t *Tag)) {
	d.Read(func(root *Tag) {
		if root != nil {
			walk(root, fun)
		}
	})
}

func walk(t *Tag, fun func(t *Tag)) {
	fun(t)
	for _, c := range t.Children {
		walk(c, fun)
	}
}
