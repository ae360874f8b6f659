package builtin

import (
	"reflect"
	"testing"
	"time"

	"catalogetl/internal/config"
	"catalogetl/pkg/records"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestParseDateSeries_Layouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"25-Sep-21", day(2021, time.September, 25)},
		{"25-Sep-2021", day(2021, time.September, 25)},
		{"January 1, 2021", day(2021, time.January, 1)},
		{"Jan 1, 2021", day(2021, time.January, 1)},
		{"2021-01-01", day(2021, time.January, 1)},
		// Month-first wins over day-first when both parse.
		{"1/2/2021", day(2021, time.January, 2)},
		// Only the day-first layout accepts a 13th month.
		{"13/2/2021", day(2021, time.February, 13)},
	}
	for _, c := range cases {
		out, _ := ParseDateSeries([]any{c.in}, config.DateLayouts, false)
		got, ok := out[0].(time.Time)
		if !ok || !got.Equal(c.want) {
			t.Fatalf("ParseDateSeries(%q) = %#v, want %v", c.in, out[0], c.want)
		}
	}
}

func TestParseDateSeries_FirstLayoutWins(t *testing.T) {
	// "25-Sep-21" is resolved by the first layout and counted there only.
	_, rep := ParseDateSeries([]any{"25-Sep-21", "January 1, 2021"}, config.DateLayouts, true)
	if rep.PerLayout[0].Count != 1 || rep.PerLayout[0].Layout != "2-Jan-06" {
		t.Fatalf("first layout count = %+v", rep.PerLayout[0])
	}
	if rep.PerLayout[2].Count != 1 {
		t.Fatalf("full month layout count = %+v", rep.PerLayout[2])
	}
	if rep.Fallback != 0 || rep.Resolved != 2 || rep.Unresolved != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestParseDateSeries_FallbackAndNulls(t *testing.T) {
	in := []any{nil, " August 4, 2017", "not a date", day(2020, time.May, 1)}
	out, rep := ParseDateSeries(in, config.DateLayouts, true)

	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	if out[0] != nil {
		t.Fatalf("nil input became %#v", out[0])
	}
	if got, ok := out[1].(time.Time); !ok || got.Format(records.DateLayout) != "2017-08-04" {
		t.Fatalf("fallback value = %#v", out[1])
	}
	if out[2] != nil {
		t.Fatalf("garbage parsed to %#v", out[2])
	}
	if got := out[3].(time.Time); !got.Equal(day(2020, time.May, 1)) {
		t.Fatalf("time.Time input changed to %v", got)
	}
	want := DateReport{Rows: 4, NonNull: 3, Fallback: 1, Unresolved: 1, Resolved: 2}
	rep.PerLayout = nil
	if !reflect.DeepEqual(rep, want) {
		t.Fatalf("report = %+v, want %+v", rep, want)
	}
}

func TestParseDateSeries_FallbackRejectsFragments(t *testing.T) {
	in := []any{"12:", "1/", "0000", "1.2."}
	got, rep := ParseDateSeries(in, config.DateLayouts, true)
	for i, v := range got {
		if v != nil {
			t.Fatalf("value %q resolved to %v, want nil", in[i], v)
		}
	}
	if rep.Fallback != 0 || rep.Unresolved != len(in) || rep.Resolved != 0 {
		t.Fatalf("report = %+v, want fallback=0 unresolved=%d", rep, len(in))
	}
}

func TestParseDateSeries_NoFallback(t *testing.T) {
	out, rep := ParseDateSeries([]any{" August 4, 2017"}, config.DateLayouts, false)
	if out[0] != nil || rep.Unresolved != 1 {
		t.Fatalf("out=%#v report=%+v, want unresolved", out[0], rep)
	}
}

func TestParseDates_Apply(t *testing.T) {
	in := records.Table{
		Columns: []string{"title", "date_added"},
		Rows: []records.Record{
			{"title": "A", "date_added": "25-Sep-21"},
			{"title": "B", "date_added": nil},
		},
	}
	var rep DateReport
	got := ParseDates{
		Column:   "date_added",
		Layouts:  config.DateLayouts,
		Fallback: true,
		OnReport: func(r DateReport) { rep = r },
	}.Apply(in)

	if records.Format(got.Rows[0]["date_added"]) != "2021-09-25" {
		t.Fatalf("row 0 = %#v", got.Rows[0]["date_added"])
	}
	if got.Rows[1]["date_added"] != nil {
		t.Fatalf("row 1 = %#v, want nil", got.Rows[1]["date_added"])
	}
	if rep.Resolved != 1 || rep.Rows != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if in.Rows[0]["date_added"] != "25-Sep-21" {
		t.Fatalf("input mutated")
	}
}

func TestParseDates_MissingColumn(t *testing.T) {
	in := records.Table{Columns: []string{"title"}, Rows: []records.Record{{"title": "A"}}}
	got := ParseDates{Column: "date_added", Layouts: config.DateLayouts}.Apply(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("table changed: %#v", got)
	}
}
