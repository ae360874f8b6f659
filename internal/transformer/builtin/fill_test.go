package builtin

import (
	"reflect"
	"testing"

	"catalogetl/pkg/records"
)

func TestFillMissing(t *testing.T) {
	in := records.Table{
		Columns: []string{"title", "country", "listed_in"},
		Rows: []records.Record{
			{"title": "A", "country": nil, "listed_in": nil},
			{"title": "B", "country": "India", "listed_in": "Dramas"},
		},
	}
	snapshot := in.Clone()

	f := FillMissing{Values: map[string]string{
		"country":   Unknown,
		"listed_in": "",
		"director":  Unknown, // absent column: ignored
	}}
	got := f.Apply(in)

	want := []records.Record{
		{"title": "A", "country": Unknown, "listed_in": ""},
		{"title": "B", "country": "India", "listed_in": "Dramas"},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Fatalf("rows = %#v, want %#v", got.Rows, want)
	}
	if got.HasColumn("director") {
		t.Fatalf("absent column was added: %v", got.Columns)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input mutated")
	}
}

func TestCoerce(t *testing.T) {
	in := records.Table{
		Columns: []string{"release_year", "added", "title"},
		Rows: []records.Record{
			{"release_year": " 2020 ", "added": "2021-09-25", "title": "A"},
			{"release_year": "n/a", "added": nil, "title": "B"},
		},
	}
	got := Coerce{Types: map[string]string{"release_year": "int", "added": "date", "title": "string"}}.Apply(in)

	if got.Rows[0]["release_year"] != 2020 {
		t.Fatalf("release_year = %#v, want 2020", got.Rows[0]["release_year"])
	}
	if records.Format(got.Rows[0]["added"]) != "2021-09-25" {
		t.Fatalf("added = %#v", got.Rows[0]["added"])
	}
	if got.Rows[1]["release_year"] != "n/a" || got.Rows[1]["added"] != nil {
		t.Fatalf("unconvertible cells changed: %#v", got.Rows[1])
	}
}
