// Package storage contains storage-agnostic contracts and utilities. Backends
// register a Factory under a kind at init time; callers obtain a Repository
// via New without importing the backend package directly (see storage/all).
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Repository is the contract every sink implements.
type Repository interface {
	// CopyFrom writes rows aligned to columns and returns the number written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a backend statement, typically DDL. File sinks may no-op.
	Exec(ctx context.Context, sql string) error
	// Close releases the underlying handle and flushes pending output.
	Close()
}

// Committer is implemented by sinks whose output only becomes visible once
// every row was written. Write calls Commit after a successful load; a
// Repository closed without Commit discards what it wrote.
type Committer interface {
	Commit() error
}

// Config is the backend-agnostic sink configuration handed to a Factory.
type Config struct {
	Kind    string
	DSN     string   // connection string, or the output path for file sinks
	Table   string   // destination table for database sinks
	Columns []string // ordered columns to write
	Comma   rune     // field delimiter for file sinks; 0 means ','
	Job     string   // metrics label
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[strings.TrimSpace(cfg.Kind)]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
