package storage

import (
	"context"
	"fmt"
	"sync"

	"catalogetl/internal/ddl"
)

// DDLBootstrapper is a backend-specific function that applies the DDL for def
// via repo.Exec (typically CREATE TABLE IF NOT EXISTS).
//
// Backends register their implementation for a storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, def ddl.TableDef) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for kind and invokes it. If no
// bootstrapper has been registered for the kind, an error is returned.
func EnsureTable(ctx context.Context, kind string, repo Repository, def ddl.TableDef) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, def)
}

// ExecCreate renders def with d and runs it through repo.Exec. Backends use it
// as their DDLBootstrapper body.
func ExecCreate(ctx context.Context, repo Repository, def ddl.TableDef, d ddl.Dialect) error {
	stmt, err := ddl.BuildCreateTableSQL(def, d)
	if err != nil {
		return fmt.Errorf("build create table: %w", err)
	}
	if err := repo.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", def.FQN, err)
	}
	return nil
}
