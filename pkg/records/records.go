// Package records defines the in-memory row and table types shared by the
// parser, the transformer chain and the storage sinks.
//
// A Record maps column names to values. Values are one of: nil (missing),
// string, int, time.Time or []string (list columns before explode). A Table
// pairs the rows with an explicit column order, which is the order used for
// output headers and sink columns.
package records

import (
	"fmt"
	"strings"
	"time"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a copy of r. []string values are copied so list edits on the
// clone never leak back into the source row.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if l, ok := v.([]string); ok {
			cp := make([]string, len(l))
			copy(cp, l)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns plus the rows that carry them.
type Table struct {
	Columns []string
	Rows    []Record
}

// New returns an empty table with the given column order.
func New(columns ...string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{Columns: cols}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Shape returns (rows, columns).
func (t Table) Shape() (int, int) { return len(t.Rows), len(t.Columns) }

// Clone deep-copies the column list and every row.
func (t Table) Clone() Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Record, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether name is part of the column order.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// EnsureColumn appends name to the column order when it is not present yet.
// Rows are not touched; a missing key reads as nil.
func (t *Table) EnsureColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// RenameColumn renames from to to in place, keeping its position, and moves
// the value in every row. It reports false when from is not a column.
func (t *Table) RenameColumn(from, to string) bool {
	idx := t.ColumnIndex(from)
	if idx < 0 {
		return false
	}
	t.Columns[idx] = to
	for _, r := range t.Rows {
		v, ok := r[from]
		delete(r, from)
		if ok {
			r[to] = v
		}
	}
	return true
}

// Values returns the values of one column, index-aligned with Rows.
func (t Table) Values(col string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[col]
	}
	return out
}

// Row returns the values of row i in column order.
func (t Table) Row(i int) []any {
	r := t.Rows[i]
	out := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = r[c]
	}
	return out
}

// DateLayout is the layout used when a date value is rendered as text.
const DateLayout = "2006-01-02"

// Format renders a cell value as text: nil is empty, dates use DateLayout and
// lists are comma-joined.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(DateLayout)
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprint(t)
	}
}
