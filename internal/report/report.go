// Package report builds the end-of-run summary of the final table: shape,
// column list, distinct counts of the key columns and a rendered preview.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"catalogetl/pkg/records"
)

// Defaults used by the binary.
var (
	UniqueColumns = []string{"title", "actor", "genre", "country_exploded"}
	PreviewRows   = 10
)

// maxCellWidth trims long cells (descriptions) in the preview.
const maxCellWidth = 40

// UniqueCount is the number of distinct non-empty values of one column.
// Present is false when the column is not in the table.
type UniqueCount struct {
	Column  string
	Count   int
	Present bool
}

// Summary describes the final table.
type Summary struct {
	Rows    int
	Cols    int
	Columns []string
	Unique  []UniqueCount
	Preview records.Table
}

// Summarize computes a Summary. nil and "" are excluded from unique counts;
// other values are compared by their text rendering.
func Summarize(t records.Table, uniqueCols []string, previewRows int) Summary {
	s := Summary{Columns: append([]string(nil), t.Columns...)}
	s.Rows, s.Cols = t.Shape()

	for _, c := range uniqueCols {
		uc := UniqueCount{Column: c, Present: t.HasColumn(c)}
		if uc.Present {
			seen := make(map[string]struct{})
			for _, v := range t.Values(c) {
				txt := records.Format(v)
				if txt == "" {
					continue
				}
				seen[txt] = struct{}{}
			}
			uc.Count = len(seen)
		}
		s.Unique = append(s.Unique, uc)
	}

	if previewRows > len(t.Rows) {
		previewRows = len(t.Rows)
	}
	if previewRows < 0 {
		previewRows = 0
	}
	s.Preview = records.Table{Columns: s.Columns, Rows: t.Rows[:previewRows]}
	return s
}

// Render writes the summary as plain text followed by the preview table.
func (s Summary) Render(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "final shape: rows=%d cols=%d\n", s.Rows, s.Cols)
	fmt.Fprintf(&sb, "columns: %s\n", strings.Join(s.Columns, ", "))
	for _, u := range s.Unique {
		if !u.Present {
			fmt.Fprintf(&sb, "unique %s: n/a (column missing)\n", u.Column)
			continue
		}
		fmt.Fprintf(&sb, "unique %s: %d\n", u.Column, u.Count)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	return RenderPreview(w, s.Preview)
}

// RenderPreview draws t as a box table. Long cells are trimmed.
func RenderPreview(w io.Writer, t records.Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	configs := make([]table.ColumnConfig, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
		configs[i] = table.ColumnConfig{Number: i + 1, WidthMax: maxCellWidth, WidthMaxEnforcer: text.Trim}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for i := range t.Rows {
		vals := t.Row(i)
		row := make(table.Row, len(vals))
		for j, v := range vals {
			row[j] = records.Format(v)
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
	return err
}
