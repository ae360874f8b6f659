// Package csvfile implements a storage.Repository that writes the table to a
// delimited text file. DSN is the output path. Rows go to a temporary file in
// the same directory, which replaces DSN on Commit; closing without Commit
// removes it and leaves any previous file at DSN untouched.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalogetl/internal/storage"
	"catalogetl/pkg/records"
)

// Repository writes rows through encoding/csv.
type Repository struct {
	path    string
	f       *os.File
	w       *csv.Writer
	columns []string
	done    bool
}

var (
	_ storage.Repository = (*Repository)(nil)
	_ storage.Committer  = (*Repository)(nil)
)

func init() {
	storage.Register("csv", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}

// Open starts a temporary file next to cfg.DSN and writes the header row, so
// an empty table still commits a header-only file.
func Open(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("csvfile: output path must not be empty")
	}
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("csvfile: columns must not be empty")
	}
	dir, base := filepath.Split(cfg.DSN)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("csvfile: create %s: %w", cfg.DSN, err)
	}
	_ = f.Chmod(0o644)
	w := csv.NewWriter(f)
	if cfg.Comma != 0 {
		w.Comma = cfg.Comma
	}
	r := &Repository{path: cfg.DSN, f: f, w: w, columns: cfg.Columns}
	if err := w.Write(cfg.Columns); err != nil {
		r.discard()
		return nil, fmt.Errorf("csvfile: write header: %w", err)
	}
	return r, nil
}

// CopyFrom renders every value with records.Format and flushes once per batch.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if r.done {
		return 0, fmt.Errorf("csvfile: %s already closed", r.path)
	}
	if len(columns) != len(r.columns) {
		return 0, fmt.Errorf("csvfile: got %d columns, header has %d", len(columns), len(r.columns))
	}
	rec := make([]string, len(columns))
	var n int64
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if len(row) != len(columns) {
			return n, fmt.Errorf("csvfile: row length %d != columns length %d", len(row), len(columns))
		}
		for i, v := range row {
			rec[i] = records.Format(v)
		}
		if err := r.w.Write(rec); err != nil {
			return n, fmt.Errorf("csvfile: write: %w", err)
		}
		n++
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return n, fmt.Errorf("csvfile: flush: %w", err)
	}
	return n, nil
}

// Exec is a no-op; files have no DDL.
func (r *Repository) Exec(context.Context, string) error { return nil }

// Commit flushes the temporary file and renames it to the output path.
func (r *Repository) Commit() error {
	if r.done {
		return fmt.Errorf("csvfile: %s already closed", r.path)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.discard()
		return fmt.Errorf("csvfile: flush: %w", err)
	}
	if err := r.f.Sync(); err != nil {
		r.discard()
		return fmt.Errorf("csvfile: sync: %w", err)
	}
	if err := r.f.Close(); err != nil {
		r.done = true
		_ = os.Remove(r.f.Name())
		return fmt.Errorf("csvfile: close: %w", err)
	}
	r.done = true
	if err := os.Rename(r.f.Name(), r.path); err != nil {
		_ = os.Remove(r.f.Name())
		return fmt.Errorf("csvfile: rename to %s: %w", r.path, err)
	}
	return nil
}

// Close discards the output unless Commit already ran.
func (r *Repository) Close() {
	if !r.done {
		r.discard()
	}
}

func (r *Repository) discard() {
	r.done = true
	_ = r.f.Close()
	_ = os.Remove(r.f.Name())
}
