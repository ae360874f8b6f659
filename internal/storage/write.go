package storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"catalogetl/internal/ddl"
	"catalogetl/internal/metrics"
	"catalogetl/pkg/records"
)

// WriteOptions tunes Write.
type WriteOptions struct {
	BatchSize  int
	AutoCreate bool // run the kind's DDLBootstrapper before loading
}

// WriteStats summarizes one Write call.
type WriteStats struct {
	Rows    int64
	Batches int64
	Elapsed time.Duration
}

// Write opens the sink described by cfg, optionally creates its table, and
// loads t through LoadTable. When cfg.Columns is empty every column of t
// is written in table order.
func Write(ctx context.Context, cfg Config, t records.Table, opts WriteOptions) (WriteStats, error) {
	start := time.Now()
	var st WriteStats

	if len(cfg.Columns) == 0 {
		cfg.Columns = append([]string(nil), t.Columns...)
	}
	for _, c := range cfg.Columns {
		if !t.HasColumn(c) {
			return st, fmt.Errorf("storage %s: column %q not in table", cfg.Kind, c)
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = len(t.Rows) + 1
	}

	repo, err := New(ctx, cfg)
	if err != nil {
		return st, err
	}
	defer repo.Close()

	if opts.AutoCreate {
		def := ddl.Infer(cfg.Table, t, cfg.Columns)
		if err := EnsureTable(ctx, cfg.Kind, repo, def); err != nil {
			return st, fmt.Errorf("storage %s: %w", cfg.Kind, err)
		}
	}

	ls, err := LoadTable(ctx, cfg.Kind+":"+target(cfg), t, cfg.Columns, opts.BatchSize, repo.CopyFrom)
	st.Rows, st.Batches = ls.Rows, ls.Batches
	st.Elapsed = time.Since(start)
	metrics.RecordBatches(cfg.Job, cfg.Kind, st.Batches)
	if err != nil {
		return st, fmt.Errorf("storage %s: %w", cfg.Kind, err)
	}
	if c, ok := repo.(Committer); ok {
		if err := c.Commit(); err != nil {
			return st, fmt.Errorf("storage %s: commit: %w", cfg.Kind, err)
		}
	}
	log.Printf("storage: kind=%s target=%s rows=%d batches=%d elapsed=%s",
		cfg.Kind, target(cfg), st.Rows, st.Batches, st.Elapsed.Truncate(time.Millisecond))
	return st, nil
}

// SQLValue converts a cell value into a driver argument: list values are
// comma-joined, everything else passes through.
func SQLValue(v any) any {
	if l, ok := v.([]string); ok {
		return strings.Join(l, ", ")
	}
	return v
}

func target(cfg Config) string {
	if cfg.Table != "" {
		return cfg.Table
	}
	return cfg.DSN
}
