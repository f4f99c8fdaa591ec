// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	root, err := ParseFile("testdata/main.yaml")
	require.NoError(t, err)
	assert.Equal(t, "LinearLayout", root.View)
	assert.Equal(t, "LinearLayout#root", root.PlanName())
	require.Len(t, root.Children, 3)

	title := root.Children[0]
	assert.Equal(t, "TextView#title", title.PlanName())
	assert.Equal(t, root, title.Parent())
	v, ok := title.Attr("height")
	assert.True(t, ok)
	assert.Equal(t, "40", v)

	assert.Equal(t, "View@2", root.Children[2].PlanName())
	assert.Equal(t, "View", root.Children[2].String())
	assert.Equal(t, "Button#ok", root.Children[1].String())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("id: x\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("view: A\nchildren:\n  - id: b\n"))
	assert.ErrorContains(t, err, "root/0")

	_, err = Parse([]byte("view: [\n"))
	assert.Error(t, err)

	_, err = ParseFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestDuplicateNames(t *testing.T) {
	root, err := Parse([]byte(`
view: Frame
children:
  - {view: Text, id: a}
  - {view: Text, id: a}
  - {view: Text, id: a}
`))
	require.NoError(t, err)
	assert.Equal(t, "Text#a", root.Children[0].PlanName())
	assert.Equal(t, "Text#a~1", root.Children[1].PlanName())
	assert.Equal(t, "Text#a~2", root.Children[2].PlanName())
}

func TestNew(t *testing.T) {
	root := New(nil, "Frame", "root", nil)
	a := New(root, "Text", "", map[string]string{"text": "a"})
	b := New(root, "Text", "b", nil)
	assert.Equal(t, "Frame#root", root.PlanName())
	assert.Equal(t, "Text@0", a.PlanName())
	assert.Equal(t, "Text#b", b.PlanName())
	assert.Equal(t, root, b.Parent())
	assert.NotNil(t, b.Attrs)
}

func TestSnapshot(t *testing.T) {
	root, err := ParseFile("testdata/main.yaml")
	require.NoError(t, err)
	doc := NewDocument("main.yaml", root)
	s := doc.Snapshot()
	require.NotNil(t, s)
	assert.Same(t, root, s.Tag)
	require.Len(t, s.Children, 3)
	assert.Same(t, root.Children[1], s.Children[1].Tag)

	// snapshots are not affected by later edits
	next, err := Parse([]byte(`
view: LinearLayout
id: root
children:
  - view: TextView
    id: title
    attrs: {text: Changed}
`))
	require.NoError(t, err)
	doc.Update(next)
	v, _ := s.Children[0].Attr("text")
	assert.Equal(t, "Hello", v)
	assert.Len(t, s.Children, 3)

	assert.Nil(t, NewDocument("empty", nil).Snapshot())
}

func TestDocumentUpdate(t *testing.T) {
	root, err := ParseFile("testdata/main.yaml")
	require.NoError(t, err)
	doc := NewDocument("main.yaml", root)
	title := root.Children[0]
	ok := root.Children[1]

	next, err := Parse([]byte(`
view: LinearLayout
id: root
children:
  - view: Button
    id: ok
    attrs: {text: Fine}
  - view: TextView
    id: title
    attrs: {text: Bye}
  - view: ImageView
    id: logo
`))
	require.NoError(t, err)
	replaced := doc.Update(next)
	assert.False(t, replaced)
	assert.Same(t, root, doc.Root())
	assert.Equal(t, uint64(1), doc.Version())

	doc.Read(func(r *Tag) {
		require.Len(t, r.Children, 3)
		assert.Same(t, ok, r.Children[0])
		assert.Same(t, title, r.Children[1])
		assert.Equal(t, "Fine", r.Children[0].Attrs["text"])
		assert.Equal(t, "Bye", r.Children[1].Attrs["text"])
		assert.Equal(t, "ImageView#logo", r.Children[2].PlanName())
		assert.Same(t, r, r.Children[2].Parent())
	})

	other, err := Parse([]byte("view: FrameLayout\n"))
	require.NoError(t, err)
	assert.True(t, doc.Update(other))
	assert.Same(t, other, doc.Root())
}

func TestWalk(t *testing.T) {
	root, err := ParseFile("testdata/main.yaml")
	require.NoError(t, err)
	doc := NewDocument("main.yaml", root)
	var names []string
	doc.Walk(func(t *Tag) { names = append(names, t.PlanName()) })
	assert.Equal(t, []string{"LinearLayout#root", "TextView#title", "Button#ok", "View@2"}, names)
}
