package builtin

import (
	"log"

	"catalogetl/pkg/records"
)

// RequireAny drops rows where every one of Columns holds Unknown (or is
// null-like). A row with information in at least one column survives.
type RequireAny struct {
	Columns []string

	// OnDropped, when set, receives the number of rows removed.
	OnDropped func(int)
}

func (RequireAny) Name() string { return "require_any" }

func (q RequireAny) Apply(in records.Table) records.Table {
	out := records.New(in.Columns...)
	if len(q.Columns) == 0 {
		return in.Clone()
	}
	out.Rows = make([]records.Record, 0, in.Len())
	for _, rec := range in.Rows {
		if allUnknown(rec, q.Columns) {
			continue
		}
		out.Rows = append(out.Rows, rec.Clone())
	}

	dropped := in.Len() - out.Len()
	log.Printf("require_any: removed %d rows with all unknown values in %v", dropped, q.Columns)
	if q.OnDropped != nil {
		q.OnDropped(dropped)
	}
	return out
}

func allUnknown(rec records.Record, cols []string) bool {
	for _, c := range cols {
		v := rec[c]
		if s, ok := v.(string); ok && s == Unknown {
			continue
		}
		if IsNullLike(v) {
			continue
		}
		return false
	}
	return true
}
