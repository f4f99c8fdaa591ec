// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package columns provides tables of rows described by typed columns,
// rendered as text for terminals.
package columns

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"
)

// Kind is the kind of a [Column].
type Kind int32

const (
	// KindText is a column of text.
	KindText Kind = iota

	// KindIcon is a column of icons, whose values are icon names.
	KindIcon

	// KindAction is a column of actions, whose values are action labels.
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindIcon:
		return "icon"
	case KindAction:
		return "action"
	}
	return "text"
}

// Column describes one column of a [Table] of rows of type R.
type Column[R any] struct {

	// Name is the header of the column.
	Name string

	// Kind is the kind of the column.
	Kind Kind

	// Value returns the value of the column for the given row.
	Value func(row R) string

	// Compare optionally compares two rows for sorting.
	// By default, rows are compared by [Column.Value].
	Compare func(a, b R) int

	// Action is run by [Table.Activate] for action columns.
	Action func(row R)
}

func (c *Column[R]) compare(a, b R) int {
	if c.Compare != nil {
		return c.Compare(a, b)
	}
	return cmp.Compare(c.Value(a), c.Value(b))
}

// Table is a list of rows described by columns, which can be sorted
// by any column.
type Table[R any] struct {
	Columns []Column[R]
	Rows    []R

	// sortIndex is the index of the sort column, or -1.
	sortIndex int

	// descending is whether the current sort order is descending.
	descending bool
}

// NewTable returns a new table with the given columns.
func NewTable[R any](cols ...Column[R]) *Table[R] {
	return &Table[R]{Columns: cols, sortIndex: -1}
}

// SetRows sets the rows of the table and sorts them
// by the current sort column.
func (t *Table[R]) SetRows(rows []R) *Table[R] {
	t.Rows = rows
	t.Sort()
	return t
}

// SortIndex returns the index of the sort column, or -1,
// and whether the order is descending.
func (t *Table[R]) SortIndex() (int, bool) {
	return t.sortIndex, t.descending
}

// SortColumn sorts the rows by the given column. It toggles between
// ascending and descending if already sorting by this column.
func (t *Table[R]) SortColumn(i int) {
	if i == t.sortIndex {
		t.descending = !t.descending
	} else {
		t.descending = false
	}
	t.sortIndex = i
	t.Sort()
}

// Sort sorts the rows by the current sort column. Equal rows
// keep their order.
func (t *Table[R]) Sort() {
	if t.sortIndex < 0 || t.sortIndex >= len(t.Columns) {
		return
	}
	c := &t.Columns[t.sortIndex]
	slices.SortStableFunc(t.Rows, func(a, b R) int {
		if t.descending {
			return c.compare(b, a)
		}
		return c.compare(a, b)
	})
}

// Activate runs the action of the given action column on the given row.
// It returns whether there was an action to run.
func (t *Table[R]) Activate(row, col int) bool {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Columns) {
		return false
	}
	c := &t.Columns[col]
	if c.Kind != KindAction || c.Action == nil {
		return false
	}
	c.Action(t.Rows[row])
	return true
}

// header returns the header text of the given column.
func (t *Table[R]) header(i int) string {
	h := t.Columns[i].Name
	if i == t.sortIndex {
		if t.descending {
			h += " ↓"
		} else {
			h += " ↑"
		}
	}
	return h
}

// cell returns the plain text and the styled text of a cell.
func (t *Table[R]) cell(o *termenv.Output, row R, col int) (plain, styled string) {
	c := &t.Columns[col]
	v := c.Value(row)
	switch c.Kind {
	case KindIcon:
		return Glyph(v), StyledGlyph(o, v)
	case KindAction:
		plain = "[" + v + "]"
		return plain, o.String(plain).Underline().String()
	}
	return v, v
}

// Render writes the table as text with aligned columns to the given
// writer, styled for the given output.
func (t *Table[R]) Render(w io.Writer, o *termenv.Output) error {
	widths := make([]int, len(t.Columns))
	for i := range t.Columns {
		widths[i] = utf8.RuneCountInString(t.header(i))
	}
	plain := make([][]string, len(t.Rows))
	styled := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		plain[r] = make([]string, len(t.Columns))
		styled[r] = make([]string, len(t.Columns))
		for c := range t.Columns {
			plain[r][c], styled[r][c] = t.cell(o, row, c)
			widths[c] = max(widths[c], utf8.RuneCountInString(plain[r][c]))
		}
	}

	var b strings.Builder
	line := func(plain, styled func(i int) string) {
		for i := range t.Columns {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(styled(i))
			if i < len(t.Columns)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(plain(i))))
			}
		}
		b.WriteString("\n")
	}
	line(t.header, func(i int) string { return o.String(t.header(i)).Bold().String() })
	for r := range t.Rows {
		line(func(i int) string { return plain[r][i] }, func(i int) string { return styled[r][i] })
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the table rendered without styles.
func (t *Table[R]) String() string {
	var b strings.Builder
	if err := t.Render(&b, termenv.NewOutput(&b, termenv.WithProfile(termenv.Ascii))); err != nil {
		return fmt.Sprintf("columns: %v", err)
	}
	return b.String()
}
