package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"catalogetl/pkg/records"
)

func explodedTitles(n int) records.Table {
	t := records.New("show_id", "title", "actor", "cast_list")
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, records.Record{
			"show_id":   "s1",
			"title":     "Sankofa",
			"actor":     []string{"Kofi Ghanaba", "Oyafunmike Ogunlano", "Alexandra Duah"}[i%3],
			"cast_list": []string{"Kofi Ghanaba", "Oyafunmike Ogunlano"},
		})
	}
	return t
}

// TestLoadTable_BatchesInRowOrder checks batch sizes and that rows are
// projected onto the requested columns in their order.
func TestLoadTable_BatchesInRowOrder(t *testing.T) {
	t.Parallel()

	var sizes []int
	var actors []any
	copyFn := func(_ context.Context, columns []string, rows [][]any) (int64, error) {
		if !reflect.DeepEqual(columns, []string{"actor", "show_id"}) {
			t.Errorf("columns = %v", columns)
		}
		sizes = append(sizes, len(rows))
		for _, r := range rows {
			actors = append(actors, r[0])
		}
		return int64(len(rows)), nil
	}

	st, err := LoadTable(context.Background(), "test", explodedTitles(7), []string{"actor", "show_id"}, 3, copyFn)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if st.Rows != 7 || st.Batches != 3 {
		t.Fatalf("stats = %+v, want rows=7 batches=3", st)
	}
	if !reflect.DeepEqual(sizes, []int{3, 3, 1}) {
		t.Fatalf("batch sizes = %v, want [3 3 1]", sizes)
	}
	if actors[3] != "Kofi Ghanaba" || actors[4] != "Oyafunmike Ogunlano" {
		t.Fatalf("actors out of order: %v", actors)
	}
}

// TestLoadTable_ListValuesPassThrough checks that cells reach the sink
// unconverted; rendering is the backend's job.
func TestLoadTable_ListValuesPassThrough(t *testing.T) {
	t.Parallel()

	var got any
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		got = rows[0][0]
		return int64(len(rows)), nil
	}
	if _, err := LoadTable(context.Background(), "test", explodedTitles(1), []string{"cast_list"}, 10, copyFn); err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Kofi Ghanaba", "Oyafunmike Ogunlano"}) {
		t.Fatalf("cast_list = %#v", got)
	}
}

// TestLoadTable_StopsOnCopyError checks that the first error ends the load
// and that rows the failing batch reported are still counted.
func TestLoadTable_StopsOnCopyError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("disk full")
	calls := 0
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 1, wantErr
		}
		return int64(len(rows)), nil
	}

	st, err := LoadTable(context.Background(), "test", explodedTitles(6), []string{"title"}, 2, copyFn)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Fatalf("copyFn calls = %d, want 2", calls)
	}
	if st.Rows != 3 || st.Batches != 1 {
		t.Fatalf("stats = %+v, want rows=3 batches=1", st)
	}
}

func TestLoadTable_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	copyFn := func(context.Context, []string, [][]any) (int64, error) {
		called = true
		return 0, nil
	}
	if _, err := LoadTable(ctx, "test", explodedTitles(3), []string{"title"}, 2, copyFn); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if called {
		t.Fatalf("copyFn called after cancel")
	}
}

func TestLoadTable_EmptyTableAndBadArgs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	noop := func(context.Context, []string, [][]any) (int64, error) {
		t.Fatalf("copyFn called for empty table")
		return 0, nil
	}
	st, err := LoadTable(ctx, "test", records.New("title"), []string{"title"}, 5, noop)
	if err != nil || st.Batches != 0 || st.Rows != 0 {
		t.Fatalf("empty table = %+v, %v", st, err)
	}

	tbl := explodedTitles(1)
	if _, err := LoadTable(ctx, "test", tbl, []string{"title"}, 0, noop); err == nil {
		t.Fatalf("batchSize=0: want error")
	}
	if _, err := LoadTable(ctx, "test", tbl, []string{"title"}, 1, nil); err == nil {
		t.Fatalf("nil copyFn: want error")
	}
	if _, err := LoadTable(ctx, "test", tbl, nil, 1, noop); err == nil {
		t.Fatalf("no columns: want error")
	}
}
