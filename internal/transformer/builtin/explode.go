package builtin

import (
	"errors"
	"fmt"
	"log"

	"catalogetl/pkg/records"
)

// ErrColumnMissing is wrapped by ExplodeError when the target column is not
// part of the table.
var ErrColumnMissing = errors.New("column not found")

// ExplodeError reports a column that could not be exploded. The table is
// left unchanged for that column.
type ExplodeError struct {
	Column string
	Err    error
}

func (e *ExplodeError) Error() string {
	return fmt.Sprintf("explode %s: %v", e.Column, e.Err)
}

func (e *ExplodeError) Unwrap() error { return e.Err }

// Explode modes.
const (
	// ModeCross explodes each column in turn, so lists multiply.
	ModeCross = "cross"
	// ModeZip aligns the lists of a row by position; shorter lists are
	// padded with Unknown.
	ModeZip = "zip"
)

// Explode turns list cells into one row per element. A nil, empty or
// non-list cell becomes a single Unknown element, so every input row yields
// at least one output row. Row order and element order are preserved.
type Explode struct {
	Columns []string
	Mode    string // ModeCross (default) or ModeZip

	// OnError, when set, receives each per-column failure.
	OnError func(error)
}

func (Explode) Name() string { return "explode" }

func (e Explode) Apply(in records.Table) records.Table {
	if e.Mode == ModeZip {
		return e.zip(in)
	}
	out := in.Clone()
	for _, col := range e.Columns {
		log.Printf("explode: exploding %s", col)
		next, err := ExplodeColumn(out, col)
		if err != nil {
			e.warn(err)
			continue
		}
		log.Printf("explode: %s rows %d -> %d", col, out.Len(), next.Len())
		out = next
	}
	return out
}

func (e Explode) warn(err error) {
	log.Printf("explode: warning: %v; column left unchanged", err)
	if e.OnError != nil {
		e.OnError(err)
	}
}

// ExplodeColumn explodes one list column. The input table is not modified;
// on error the returned table is a clone of the input.
func ExplodeColumn(in records.Table, col string) (records.Table, error) {
	if !in.HasColumn(col) {
		return in.Clone(), &ExplodeError{Column: col, Err: ErrColumnMissing}
	}
	out := records.New(in.Columns...)
	out.Rows = make([]records.Record, 0, in.Len())
	for _, r := range in.Rows {
		for _, item := range listOrUnknown(r[col]) {
			nr := r.Clone()
			nr[col] = item
			out.Rows = append(out.Rows, nr)
		}
	}
	return out, nil
}

// zip explodes all columns together: row i of the output for a source row
// takes element i of every list.
func (e Explode) zip(in records.Table) records.Table {
	cols := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		if !in.HasColumn(c) {
			e.warn(&ExplodeError{Column: c, Err: ErrColumnMissing})
			continue
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return in.Clone()
	}

	out := records.New(in.Columns...)
	out.Rows = make([]records.Record, 0, in.Len())
	for _, r := range in.Rows {
		lists := make([][]string, len(cols))
		width := 0
		for j, c := range cols {
			lists[j] = listOrUnknown(r[c])
			if len(lists[j]) > width {
				width = len(lists[j])
			}
		}
		for i := 0; i < width; i++ {
			nr := r.Clone()
			for j, c := range cols {
				if i < len(lists[j]) {
					nr[c] = lists[j][i]
				} else {
					nr[c] = Unknown
				}
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	log.Printf("explode: zipped %v rows %d -> %d", cols, in.Len(), out.Len())
	return out
}

// listOrUnknown returns the elements of a list cell, or [Unknown] when the
// cell is nil, empty or not a list.
func listOrUnknown(v any) []string {
	switch t := v.(type) {
	case []string:
		if len(t) > 0 {
			return t
		}
	case []any:
		if len(t) > 0 {
			out := make([]string, len(t))
			for i, x := range t {
				out[i] = toText(x)
			}
			return out
		}
	}
	return []string{Unknown}
}
