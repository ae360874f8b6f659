package sqlite

import (
	"context"
	"fmt"
	"log"
	"strings"

	"catalogetl/internal/ddl"
	"catalogetl/internal/storage"
)

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("sqlite", open)
	storage.RegisterDDL("sqlite", ensureTable)
}

// open maps a sink config onto the SQLite repository.
func open(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	r, err := NewRepository(ctx, Config{
		DSN:     cfg.DSN,
		Table:   cfg.Table,
		Columns: cfg.Columns,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ensureTable creates def when the database does not have it yet. An
// existing table is reused as-is; its columns are not reconciled.
func ensureTable(ctx context.Context, repo storage.Repository, def ddl.TableDef) error {
	r, ok := repo.(*Repository)
	if !ok {
		return storage.ExecCreate(ctx, repo, def, Dialect)
	}
	exists, err := r.tableExists(ctx, def.FQN)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("sqlite: table=%s exists; appending", def.FQN)
		return nil
	}
	if err := storage.ExecCreate(ctx, r, def, Dialect); err != nil {
		return err
	}
	log.Printf("sqlite: table=%s created columns=%d", def.FQN, len(def.Columns))
	return nil
}

// tableExists looks name up in sqlite_master. A "schema.table" name is looked
// up in that schema's catalog.
func (r *Repository) tableExists(ctx context.Context, name string) (bool, error) {
	catalog := "sqlite_master"
	if schema, table, ok := strings.Cut(name, "."); ok {
		catalog = quoteIdent(schema) + ".sqlite_master"
		name = table
	}
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE type = 'table' AND name = ?", catalog)
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&n); err != nil {
		return false, fmt.Errorf("sqlite: lookup table %s: %w", name, err)
	}
	return n > 0, nil
}
