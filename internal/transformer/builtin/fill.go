package builtin

import (
	"sort"

	"catalogetl/pkg/records"
)

// FillMissing replaces nil cells with a per-column constant. Columns absent
// from the table are ignored.
type FillMissing struct {
	// Values maps column -> replacement for nil cells.
	Values map[string]string
}

func (FillMissing) Name() string { return "fill_missing" }

func (f FillMissing) Apply(in records.Table) records.Table {
	out := in.Clone()

	cols := make([]string, 0, len(f.Values))
	for c := range f.Values {
		if out.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)

	for _, r := range out.Rows {
		for _, c := range cols {
			if r[c] == nil {
				r[c] = f.Values[c]
			}
		}
	}
	return out
}
