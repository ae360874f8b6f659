package file

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogetl/internal/datasource"
)

var (
	_ datasource.Source = (*Local)(nil)
	_ datasource.Named  = (*Local)(nil)
)

// TestLocalOpen covers success, missing file, directory, and pre-canceled
// context.
func TestLocalOpen(t *testing.T) {
	t.Parallel()

	const catalog = "show_id,title\ns1,Dick Johnson Is Dead\n"

	writeCatalog := func(t *testing.T) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), "netflix_titles.csv")
		if err := os.WriteFile(p, []byte(catalog), 0o644); err != nil {
			t.Fatalf("write test file: %v", err)
		}
		return p
	}

	type tc struct {
		name            string
		prepare         func(t *testing.T) string
		makeCtx         func(t *testing.T) context.Context
		wantErrIs       error
		wantErrContains string
		wantContent     string
	}

	cases := []tc{
		{
			name:        "success_reads_content",
			prepare:     writeCatalog,
			makeCtx:     func(t *testing.T) context.Context { return context.Background() },
			wantContent: catalog,
		},
		{
			name: "missing_file_wraps_not_exist",
			prepare: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "missing.csv")
			},
			makeCtx:         func(t *testing.T) context.Context { return context.Background() },
			wantErrIs:       fs.ErrNotExist,
			wantErrContains: "missing.csv",
		},
		{
			name: "directory_rejected",
			prepare: func(t *testing.T) string {
				t.Helper()
				return t.TempDir()
			},
			makeCtx:         func(t *testing.T) context.Context { return context.Background() },
			wantErrContains: "is a directory",
		},
		{
			name:    "pre_canceled_context_short_circuits",
			prepare: writeCatalog,
			makeCtx: func(t *testing.T) context.Context {
				t.Helper()
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErrIs: context.Canceled,
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			path := c.prepare(t)
			rc, err := NewLocal(path).Open(c.makeCtx(t))

			if c.wantErrIs != nil || c.wantErrContains != "" {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if c.wantErrIs != nil && !errors.Is(err, c.wantErrIs) {
					t.Fatalf("errors.Is(%v, %v) = false", err, c.wantErrIs)
				}
				if c.wantErrContains != "" && !strings.Contains(err.Error(), c.wantErrContains) {
					t.Fatalf("error %q does not contain %q", err, c.wantErrContains)
				}
				if rc != nil {
					_ = rc.Close()
					t.Fatalf("got non-nil ReadCloser on error: %T", rc)
				}
				return
			}

			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer rc.Close()

			got, rerr := io.ReadAll(rc)
			if rerr != nil {
				t.Fatalf("reading: %v", rerr)
			}
			if string(got) != c.wantContent {
				t.Fatalf("content mismatch: got %q, want %q", string(got), c.wantContent)
			}
		})
	}
}

func TestLocalName(t *testing.T) {
	t.Parallel()
	if got := NewLocal("netflix_titles.csv").Name(); got != "netflix_titles.csv" {
		t.Fatalf("Name() = %q", got)
	}
}

// BenchmarkLocalOpen_Missing measures the cost of failing fast on missing files.
func BenchmarkLocalOpen_Missing(b *testing.B) {
	src := NewLocal(filepath.Join(b.TempDir(), "missing.csv"))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rc, err := src.Open(ctx)
		if err == nil {
			rc.Close()
			b.Fatal("expected error, got nil")
		}
	}
}
