// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"cogentcore.org/preview/columns"
	"cogentcore.org/preview/model"
)

var sortBy string

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Print the components of a layout file",
	Long: `Render a layout file once and print its components with their view
class and their bounds in pixels, followed by any problems found while
rendering.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVar(&sortBy, "sort", "", "column to sort by (id, class, bounds); prefix with - for descending")
}

// componentTable returns a table of components.
func componentTable() *columns.Table[*model.Component] {
	return columns.NewTable(
		columns.Column[*model.Component]{Name: "", Kind: columns.KindIcon, Value: func(c *model.Component) string {
			return columns.ClassIcon(c.ViewClass())
		}},
		columns.Column[*model.Component]{Name: "ID", Value: (*model.Component).ID},
		columns.Column[*model.Component]{Name: "Class", Value: (*model.Component).ViewClass},
		columns.Column[*model.Component]{Name: "Bounds", Value: func(c *model.Component) string {
			if !c.BoundsComputed() {
				return "-"
			}
			x, y, w, h := c.Bounds()
			return fmt.Sprintf("%d,%d %dx%d", x, y, w, h)
		}, Compare: func(a, b *model.Component) int {
			ax, ay, _, _ := a.Bounds()
			bx, by, _, _ := b.Bounds()
			if ay != by {
				return ay - by
			}
			return ax - bx
		}},
	)
}

// sortTable sorts the table by the column named by spec, such as "id"
// or "-bounds".
func sortTable[R any](t *columns.Table[R], spec string) error {
	if spec == "" {
		return nil
	}
	name, desc := strings.CutPrefix(spec, "-")
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			t.SortColumn(i)
			if desc {
				t.SortColumn(i)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown sort column %q", name)
}

func runTree(cmd *cobra.Command, args []string) error {
	p, err := newPreview(args[0])
	if err != nil {
		return err
	}
	defer p.Dispose()
	if err := p.render(cmd.Context(), false); err != nil {
		return err
	}
	m := p.models[0]
	t := componentTable().SetRows(m.Components())
	if err := sortTable(t, sortBy); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	o := termenv.NewOutput(w)
	if err := t.Render(w, o); err != nil {
		return err
	}
	r, err := result(p.surface.SceneManager(m))
	if err != nil {
		return err
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "%s %s\n", columns.StyledGlyph(o, d.Severity.String()), d.Message)
	}
	return nil
}
