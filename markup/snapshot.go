// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import "maps"

// Snapshot is an immutable copy of a [Tag] and its children, taken
// when a render session is inflated. Render engines use snapshots as
// the cookies of the views they produce, which link every view back
// to the tag it was created from.
type Snapshot struct {

	// Tag is the live tag that this is a snapshot of.
	Tag *Tag

	// View is the view class of the tag.
	View string

	// ID is the id of the tag.
	ID string

	// Attrs is a copy of the attributes of the tag.
	Attrs map[string]string

	// Children are the snapshots of the child tags.
	Children []*Snapshot
}

func snapshot(t *Tag) *Snapshot {
	s := &Snapshot{Tag: t, View: t.View, ID: t.ID, Attrs: maps.Clone(t.Attrs)}
	for _, c := range t.Children {
		s.Children = append(s.Children, snapshot(c))
	}
	return s
}

// Attr returns the value of the given attribute.
func (s *Snapshot) Attr(name string) (string, bool) {
	v, ok := s.Attrs[name]
	return v, ok
}

// String returns a short description of the snapshot.
func (s *Snapshot) String() string {
	if s.ID != "" {
		return s.View + "#" + s.ID
	}
	return s.View
}
