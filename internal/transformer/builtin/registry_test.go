package builtin

import (
	"strings"
	"testing"

	"catalogetl/internal/config"
	"catalogetl/pkg/records"
)

func TestFromConfig_Errors(t *testing.T) {
	cases := []struct {
		name string
		t    config.Transform
		want string
	}{
		{"unknown kind", config.Transform{Kind: "teleport"}, "unknown transform kind"},
		{"dates without column", config.Transform{Kind: "parse_dates", Options: config.Options{}}, "column is required"},
		{"bad policy", config.Transform{Kind: "dedup", Options: config.Options{"policy": "random"}}, "unknown policy"},
		{"bad mode", config.Transform{Kind: "explode", Options: config.Options{"mode": "diag"}}, "unknown mode"},
		{"split mismatch", config.Transform{Kind: "split_list", Options: config.Options{"sources": []string{"a"}}}, "mismatch"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FromConfig([]config.Transform{c.t}, Hooks{})
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want containing %q", err, c.want)
			}
		})
	}
}

// TestFromConfig_DefaultPipeline runs the default chain over a handful of
// catalog rows and checks the properties the output must hold.
func TestFromConfig_DefaultPipeline(t *testing.T) {
	var (
		rep     DateReport
		dups    int
		dropped int
	)
	chain, err := FromConfig(config.Default().Transform, Hooks{
		OnDates:      func(r DateReport) { rep = r },
		OnDuplicates: func(n int) { dups = n },
		OnDropped:    func(n int) { dropped = n },
	})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	in := records.Table{
		Columns: []string{"show_id", "type", "title", "director", "cast", "country", "date_added", "rating", "duration", "listed_in", "description"},
		Rows: []records.Record{
			{"show_id": "s1", "type": "Movie", "title": "T1", "director": nil, "cast": "A, B", "country": nil,
				"date_added": "25-Sep-21", "rating": "PG", "duration": "90 min", "listed_in": "Drama", "description": "d"},
			{"show_id": "s1", "type": "Movie", "title": "T1", "director": nil, "cast": "A, B", "country": nil,
				"date_added": "25-Sep-21", "rating": "PG", "duration": "90 min", "listed_in": "Drama", "description": "d"},
			{"show_id": "s2", "type": "TV Show", "title": "T2", "director": "D", "cast": nil, "country": nil,
				"date_added": "January 1, 2021", "rating": nil, "duration": "2 Seasons", "listed_in": nil, "description": "e"},
		},
	}
	out := chain.Apply(in)

	if dups != 1 {
		t.Fatalf("duplicates = %d, want 1", dups)
	}
	if rep.Resolved != 3 {
		t.Fatalf("dates resolved = %d, want 3", rep.Resolved)
	}
	// s2 has no cast, genre or country, so its only exploded row is dropped.
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2: %#v", out.Len(), out.Rows)
	}

	for _, c := range []string{"actor", "genre", "country_exploded", "duration_int", "duration_type", "duration_clean"} {
		if !out.HasColumn(c) {
			t.Fatalf("missing column %q in %v", c, out.Columns)
		}
	}
	for _, c := range []string{"cast_list", "genre_list", "country_list"} {
		if out.HasColumn(c) {
			t.Fatalf("list column %q survived rename", c)
		}
	}

	for i, actor := range []string{"A", "B"} {
		r := out.Rows[i]
		if r["actor"] != actor || r["genre"] != "Drama" || r["country_exploded"] != Unknown {
			t.Fatalf("row %d = %#v", i, r)
		}
		if r["director"] != Unknown || r["duration_int"] != 90 || r["duration_type"] != "min" {
			t.Fatalf("row %d derived fields = %#v", i, r)
		}
		if records.Format(r["date_added"]) != "2021-09-25" {
			t.Fatalf("row %d date = %#v", i, r["date_added"])
		}
	}
}
