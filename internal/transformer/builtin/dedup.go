package builtin

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"catalogetl/pkg/records"

	"github.com/zeebo/xxh3"
)

// DeDup collapses duplicate rows and picks a winner per key according to a
// policy:
//
//   - "keep-first"   : keep the earliest occurrence (default)
//   - "keep-last"    : keep the latest occurrence
//   - "most-complete": keep the row with the most non-empty fields; ties
//     break by "keep-last"
//
// With no Keys every column of the table forms the key, which removes exact
// full-row duplicates. Rows that lack one of the Keys are passed through.
// Winners keep their input order. Keys are hashed with xxh3 and compared
// exactly, so hash collisions never merge distinct rows.
type DeDup struct {
	Keys   []string
	Policy string

	// PreferFields add weight to "most-complete" scoring when non-empty.
	PreferFields []string

	// OnRemoved, when set, receives the number of rows removed.
	OnRemoved func(int)
}

func (DeDup) Name() string { return "dedup" }

func (d DeDup) Apply(in records.Table) records.Table {
	if in.Len() == 0 {
		return in.Clone()
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-first"
	}
	keys := d.Keys
	if len(keys) == 0 {
		keys = in.Columns
	}
	prefer := make(map[string]struct{}, len(d.PreferFields))
	for _, f := range d.PreferFields {
		prefer[f] = struct{}{}
	}

	type slot struct {
		key   string
		index int
		score int
	}
	// Buckets by hash; each holds the distinct keys that share it.
	buckets := make(map[uint64][]*slot, in.Len())
	keep := make([]int, 0, in.Len())

	for i, r := range in.Rows {
		key, ok := rowKey(r, keys, len(d.Keys) == 0)
		if !ok {
			keep = append(keep, i)
			continue
		}
		h := xxh3.HashString(key)
		var cur *slot
		for _, s := range buckets[h] {
			if s.key == key {
				cur = s
				break
			}
		}
		if cur == nil {
			s := &slot{key: key, index: i}
			if policy == "most-complete" {
				s.score = completeness(r, prefer)
			}
			buckets[h] = append(buckets[h], s)
			continue
		}
		switch policy {
		case "keep-first":
		case "most-complete":
			if sc := completeness(r, prefer); sc >= cur.score {
				cur.index, cur.score = i, sc
			}
		default: // "keep-last"
			cur.index = i
		}
	}

	for _, b := range buckets {
		for _, s := range b {
			keep = append(keep, s.index)
		}
	}
	sort.Ints(keep)

	out := records.New(in.Columns...)
	out.Rows = make([]records.Record, 0, len(keep))
	for _, i := range keep {
		out.Rows = append(out.Rows, in.Rows[i].Clone())
	}

	removed := in.Len() - out.Len()
	log.Printf("dedup: removed %d duplicate rows", removed)
	if d.OnRemoved != nil {
		d.OnRemoved(removed)
	}
	return out
}

// rowKey encodes the values of keys with a type tag per value so that, for
// example, nil, "" and the int 0 never collide. When all is false a row that
// lacks a key column cannot be keyed.
func rowKey(r records.Record, keys []string, all bool) (string, bool) {
	var b strings.Builder
	for _, k := range keys {
		v, ok := r[k]
		if !ok && !all {
			return "", false
		}
		b.WriteByte('\x1f')
		switch t := v.(type) {
		case nil:
			b.WriteByte('n')
		case string:
			b.WriteByte('s')
			b.WriteString(t)
		case int:
			b.WriteByte('i')
			b.WriteString(strconv.Itoa(t))
		case time.Time:
			b.WriteByte('t')
			b.WriteString(t.UTC().Format(time.RFC3339Nano))
		case []string:
			b.WriteByte('l')
			b.WriteString(strings.Join(t, "\x1e"))
		default:
			b.WriteByte('v')
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String(), true
}

// completeness counts non-empty values; PreferFields add a bonus.
func completeness(r records.Record, prefer map[string]struct{}) int {
	score, bonus := 0, 0
	for k, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		score++
		if _, ok := prefer[k]; ok {
			bonus++
		}
	}
	return score*10 + bonus
}
