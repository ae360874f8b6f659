package builtin

import (
	"log"
	"strings"
	"time"

	"catalogetl/pkg/records"

	"github.com/araddon/dateparse"
)

// LayoutCount is how many values one layout resolved.
type LayoutCount struct {
	Layout string
	Count  int
}

// DateReport describes how a date column was resolved.
type DateReport struct {
	Rows       int           // values in the column
	NonNull    int           // values that were not nil
	PerLayout  []LayoutCount // in layout order
	Fallback   int           // resolved by generic inference
	Unresolved int           // non-null values that ended up nil
	Resolved   int           // total non-nil results
}

// ParseDateSeries resolves values against layouts in order. A layout is
// only tried on values no earlier layout resolved, so the first layout that
// parses a value wins. When fallback is set, the remaining values go through
// generic inference on their trimmed text. Anything still unresolved becomes
// nil. The result is index-aligned with values.
func ParseDateSeries(values []any, layouts []string, fallback bool) ([]any, DateReport) {
	out := make([]any, len(values))
	rep := DateReport{Rows: len(values), PerLayout: make([]LayoutCount, 0, len(layouts))}

	pending := make([]int, 0, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case time.Time:
			out[i] = t
			rep.NonNull++
			rep.Resolved++
			continue
		}
		rep.NonNull++
		pending = append(pending, i)
	}

	for _, layout := range layouts {
		if len(pending) == 0 {
			break
		}
		lc := LayoutCount{Layout: layout}
		next := pending[:0]
		for _, i := range pending {
			if t, err := time.Parse(layout, toText(values[i])); err == nil {
				out[i] = t
				lc.Count++
				continue
			}
			next = append(next, i)
		}
		pending = next
		rep.PerLayout = append(rep.PerLayout, lc)
		rep.Resolved += lc.Count
	}

	if fallback {
		next := pending[:0]
		for _, i := range pending {
			s := strings.TrimSpace(toText(values[i]))
			if s == "" {
				next = append(next, i)
				continue
			}
			if t, err := dateparse.ParseIn(s, time.UTC); err == nil && inDateRange(t) {
				out[i] = t
				rep.Fallback++
				continue
			}
			next = append(next, i)
		}
		pending = next
		rep.Resolved += rep.Fallback
	}

	rep.Unresolved = len(pending)
	return out, rep
}

// Generic inference accepts fragments such as "12:" or "0000" and returns
// dates in year 0. Results outside the nanosecond timestamp range are
// treated as unparsed.
const (
	minFallbackYear = 1677
	maxFallbackYear = 2262
)

func inDateRange(t time.Time) bool {
	y := t.Year()
	return y >= minFallbackYear && y <= maxFallbackYear
}

// ParseDates replaces Column with parsed time.Time values (or nil).
type ParseDates struct {
	Column   string
	Layouts  []string
	Fallback bool

	// OnReport, when set, receives the resolution report.
	OnReport func(DateReport)
}

func (ParseDates) Name() string { return "parse_dates" }

func (p ParseDates) Apply(in records.Table) records.Table {
	out := in.Clone()
	if !out.HasColumn(p.Column) {
		log.Printf("parse_dates: column %q not found; skipping", p.Column)
		return out
	}

	parsed, rep := ParseDateSeries(out.Values(p.Column), p.Layouts, p.Fallback)
	for i, r := range out.Rows {
		r[p.Column] = parsed[i]
	}

	for _, lc := range rep.PerLayout {
		if lc.Count > 0 {
			log.Printf("parse_dates: parsed %d dates with layout %q", lc.Count, lc.Layout)
		}
	}
	if rep.Fallback > 0 {
		log.Printf("parse_dates: fallback inference resolved %d remaining dates", rep.Fallback)
	}
	if rep.Unresolved > 0 {
		log.Printf("parse_dates: %d values could not be parsed and were set to null", rep.Unresolved)
	}
	log.Printf("parse_dates: parsed %d of %d rows", rep.Resolved, rep.Rows)

	if p.OnReport != nil {
		p.OnReport(rep)
	}
	return out
}
