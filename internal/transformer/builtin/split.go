package builtin

import (
	"strings"

	"catalogetl/pkg/records"
)

// SplitText splits a comma-delimited value into trimmed, non-empty fragments.
// Null-like values and Unknown yield an empty list.
func SplitText(v any) []string {
	if IsNullLike(v) {
		return []string{}
	}
	s := toText(v)
	if s == Unknown {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitList derives list columns from comma-delimited source columns.
// Sources[i] feeds Targets[i]. A missing source column yields empty lists.
type SplitList struct {
	Sources []string
	Targets []string
}

func (SplitList) Name() string { return "split_list" }

func (s SplitList) Apply(in records.Table) records.Table {
	out := in.Clone()
	n := len(s.Sources)
	if len(s.Targets) < n {
		n = len(s.Targets)
	}
	for i := 0; i < n; i++ {
		out.EnsureColumn(s.Targets[i])
	}
	for _, r := range out.Rows {
		for i := 0; i < n; i++ {
			r[s.Targets[i]] = SplitText(r[s.Sources[i]])
		}
	}
	return out
}
