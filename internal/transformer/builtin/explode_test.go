package builtin

import (
	"errors"
	"reflect"
	"testing"

	"catalogetl/pkg/records"
)

func listTable() records.Table {
	return records.Table{
		Columns: []string{"title", "cast_list", "genre_list", "country_list"},
		Rows: []records.Record{
			{"title": "T1", "cast_list": []string{"A", "B"}, "genre_list": []string{"Drama"}, "country_list": []string{}},
			{"title": "T2", "cast_list": []string{}, "genre_list": []string{"G1", "G2"}, "country_list": []string{"C1", "C2", "C3"}},
			{"title": "T3", "cast_list": nil, "genre_list": "Comedies", "country_list": []any{"US"}},
		},
	}
}

func titles(tbl records.Table) []string {
	out := make([]string, tbl.Len())
	for i, r := range tbl.Rows {
		out[i] = r["title"].(string)
	}
	return out
}

// TestExplode_Scenario: cast "A, B", country "", listed_in "Drama" yields
// two rows (A, Drama, Unknown) and (B, Drama, Unknown).
func TestExplode_Scenario(t *testing.T) {
	in := records.Table{
		Columns: []string{"title", "cast", "country", "listed_in"},
		Rows:    []records.Record{{"title": "T", "cast": "A, B", "country": "", "listed_in": "Drama"}},
	}
	split := SplitList{
		Sources: []string{"cast", "listed_in", "country"},
		Targets: []string{"cast_list", "genre_list", "country_list"},
	}.Apply(in)
	got := Explode{Columns: []string{"cast_list", "genre_list", "country_list"}}.Apply(split)

	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	for i, actor := range []string{"A", "B"} {
		r := got.Rows[i]
		if r["cast_list"] != actor || r["genre_list"] != "Drama" || r["country_list"] != Unknown {
			t.Fatalf("row %d = %#v", i, r)
		}
	}
}

func TestExplode_CrossProduct(t *testing.T) {
	in := listTable()
	snapshot := in.Clone()
	got := Explode{Columns: []string{"cast_list", "genre_list", "country_list"}}.Apply(in)

	// T1: 2*1*1, T2: 1*2*3, T3: 1*1*1
	want := []string{"T1", "T1", "T2", "T2", "T2", "T2", "T2", "T2", "T3"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}

	// Row floor: every input row yields at least one output row.
	if got.Len() < in.Len() {
		t.Fatalf("row floor violated: %d < %d", got.Len(), in.Len())
	}

	// Element order within T2 follows genre then country.
	var pairs [][2]any
	for _, r := range got.Rows[2:8] {
		pairs = append(pairs, [2]any{r["genre_list"], r["country_list"]})
	}
	wantPairs := [][2]any{
		{"G1", "C1"}, {"G1", "C2"}, {"G1", "C3"},
		{"G2", "C1"}, {"G2", "C2"}, {"G2", "C3"},
	}
	if !reflect.DeepEqual(pairs, wantPairs) {
		t.Fatalf("pairs = %v, want %v", pairs, wantPairs)
	}

	// T3: nil and non-list cells become the sentinel; []any is a list.
	last := got.Rows[8]
	if last["cast_list"] != Unknown || last["genre_list"] != Unknown || last["country_list"] != "US" {
		t.Fatalf("T3 row = %#v", last)
	}

	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input mutated")
	}
}

// TestExplode_ZipDivergesFromCross shows that zip mode aligns lists by
// position instead of multiplying them.
func TestExplode_ZipDivergesFromCross(t *testing.T) {
	cols := []string{"cast_list", "genre_list", "country_list"}
	cross := Explode{Columns: cols, Mode: ModeCross}.Apply(listTable())
	zip := Explode{Columns: cols, Mode: ModeZip}.Apply(listTable())

	// T1: max(2,1,1)=2, T2: max(1,2,3)=3, T3: 1
	want := []string{"T1", "T1", "T2", "T2", "T2", "T3"}
	if !reflect.DeepEqual(titles(zip), want) {
		t.Fatalf("zip titles = %v, want %v", titles(zip), want)
	}
	if cross.Len() == zip.Len() {
		t.Fatalf("cross and zip agree on %d rows; expected divergence", zip.Len())
	}

	// Shorter lists are padded with the sentinel.
	r := zip.Rows[1]
	if r["cast_list"] != "B" || r["genre_list"] != Unknown || r["country_list"] != Unknown {
		t.Fatalf("padded row = %#v", r)
	}
	r = zip.Rows[4]
	if r["cast_list"] != Unknown || r["genre_list"] != Unknown || r["country_list"] != "C3" {
		t.Fatalf("padded row = %#v", r)
	}
}

func TestExplode_MissingColumnIsNonFatal(t *testing.T) {
	in := listTable()
	var errs []error
	got := Explode{
		Columns: []string{"director_list", "cast_list"},
		OnError: func(err error) { errs = append(errs, err) },
	}.Apply(in)

	if len(errs) != 1 {
		t.Fatalf("errors = %v, want 1", errs)
	}
	var ee *ExplodeError
	if !errors.As(errs[0], &ee) || ee.Column != "director_list" || !errors.Is(errs[0], ErrColumnMissing) {
		t.Fatalf("error = %#v", errs[0])
	}
	// cast_list was still exploded: T1 -> 2 rows, T2 -> 1, T3 -> 1.
	if got.Len() != 4 {
		t.Fatalf("rows = %d, want 4", got.Len())
	}
}

func TestExplodeColumn_ErrorReturnsInput(t *testing.T) {
	in := listTable()
	got, err := ExplodeColumn(in, "nope")
	if err == nil {
		t.Fatalf("err = nil, want ExplodeError")
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("table changed on error")
	}
}
