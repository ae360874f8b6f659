package builtin

import (
	"log"
	"sort"

	"catalogetl/pkg/records"
)

// Rename renames columns in place of their position. Missing source columns
// are skipped.
type Rename struct {
	Columns map[string]string // from -> to
}

func (Rename) Name() string { return "rename" }

func (r Rename) Apply(in records.Table) records.Table {
	out := in.Clone()
	from := make([]string, 0, len(r.Columns))
	for f := range r.Columns {
		from = append(from, f)
	}
	sort.Strings(from)
	for _, f := range from {
		if !out.RenameColumn(f, r.Columns[f]) {
			log.Printf("rename: column %q not found; skipping", f)
		}
	}
	return out
}

// CleanExploded coerces the given columns to trimmed strings and collapses
// null-like values to Unknown.
type CleanExploded struct {
	Columns []string
}

func (CleanExploded) Name() string { return "clean_exploded" }

func (c CleanExploded) Apply(in records.Table) records.Table {
	out := in.Clone()
	cols := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		if out.HasColumn(col) {
			cols = append(cols, col)
		}
	}
	for _, r := range out.Rows {
		for _, col := range cols {
			s := NormalizeText(toText(r[col]))
			if IsNullLike(s) {
				s = Unknown
			}
			r[col] = s
		}
	}
	return out
}
