package builtin

import (
	"regexp"
	"strconv"
	"strings"

	"catalogetl/pkg/records"
)

var durationRe = regexp.MustCompile(`(\d+)\s*([\pL\pN_]+)`)

// ParseDuration splits a duration such as "90 min" or "2 Seasons" into its
// number and unit. unit is empty when s has no number followed by a word.
// ok is false when the number does not fit an int; unit is still returned.
func ParseDuration(s string) (n int, unit string, ok bool) {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, "", false
	}
	unit = m[2]
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, unit, false
	}
	return n, unit, true
}

// SplitDuration derives clean, numeric and unit columns from a duration
// column. Unparseable or missing durations yield a nil number and Unknown as
// the unit. It never fails.
type SplitDuration struct {
	Column      string
	CleanColumn string
	IntColumn   string
	TypeColumn  string
}

func (SplitDuration) Name() string { return "split_duration" }

func (d SplitDuration) Apply(in records.Table) records.Table {
	out := in.Clone()
	if d.CleanColumn != "" {
		out.EnsureColumn(d.CleanColumn)
	}
	out.EnsureColumn(d.IntColumn)
	out.EnsureColumn(d.TypeColumn)

	for _, r := range out.Rows {
		clean := strings.TrimSpace(toText(r[d.Column]))
		if d.CleanColumn != "" {
			r[d.CleanColumn] = clean
		}
		n, unit, ok := ParseDuration(clean)
		if ok {
			r[d.IntColumn] = n
		} else {
			r[d.IntColumn] = nil
		}
		if unit == "" {
			unit = Unknown
		}
		r[d.TypeColumn] = unit
	}
	return out
}
