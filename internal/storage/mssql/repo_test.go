package mssql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalogetl/internal/ddl"
	"catalogetl/internal/storage"
)

func TestAdapterRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var got Config
	closed := false
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		got = cfg
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:    "mssql",
		DSN:     "sqlserver://sa:pw@localhost:1433?database=catalog",
		Table:   "dbo.titles",
		Columns: []string{"title"},
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if got.Table != "dbo.titles" || len(got.Columns) != 1 {
		t.Fatalf("cfg = %+v", got)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not call closeFn")
	}
}

func TestNewRepository_BadDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://%zz"}); err == nil || !strings.Contains(err.Error(), "mssql dsn") {
		t.Fatalf("err = %v, want dsn error", err)
	}
}

type execRecorder struct {
	sql []string
	err error
}

func (e *execRecorder) CopyFrom(context.Context, []string, [][]any) (int64, error) { return 0, nil }
func (e *execRecorder) Exec(_ context.Context, s string) error {
	e.sql = append(e.sql, s)
	return e.err
}
func (e *execRecorder) Close() {}

func TestDDLBootstrap(t *testing.T) {
	t.Parallel()

	def := ddl.TableDef{FQN: "dbo.titles", Columns: []ddl.ColumnDef{
		{Name: "title", Kind: ddl.KindText, Nullable: true},
		{Name: "date_added", Kind: ddl.KindDate, Nullable: true},
		{Name: "duration_int", Kind: ddl.KindInt, Nullable: true},
	}}
	rec := &execRecorder{}
	if err := storage.EnsureTable(context.Background(), "mssql", rec, def); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	want := "IF OBJECT_ID(N'[dbo].[titles]', N'U') IS NULL\n" +
		"CREATE TABLE [dbo].[titles] (\n" +
		"  [title] NVARCHAR(MAX),\n  [date_added] DATE,\n  [duration_int] BIGINT\n);"
	if len(rec.sql) != 1 || rec.sql[0] != want {
		t.Fatalf("sql = %q\nwant %q", rec.sql, want)
	}

	failing := &execRecorder{err: errors.New("permission denied")}
	if err := storage.EnsureTable(context.Background(), "mssql", failing, def); err == nil {
		t.Fatalf("want exec error")
	}
	if _, err := CreateTableSQL(ddl.TableDef{}); err == nil {
		t.Fatalf("want error for empty def")
	}
}

func TestMSIdent(t *testing.T) {
	t.Parallel()

	if got := msIdent("a]b"); got != "[a]]b]" {
		t.Fatalf("msIdent = %s", got)
	}
}
