package ddl

import (
	"time"

	"catalogetl/pkg/records"
)

// Logical kinds produced by Infer.
const (
	KindInt  = "int"
	KindDate = "date"
	KindText = "text"
)

// Infer builds a TableDef for fqn from the values in t. columns selects and
// orders the columns; when empty every column of t is used.
//
// A column is KindInt when every non-nil value is an int, KindDate when every
// non-nil value is a time.Time, and KindText otherwise. A column with no
// non-nil values is KindText. Every column is nullable.
func Infer(fqn string, t records.Table, columns []string) TableDef {
	if len(columns) == 0 {
		columns = t.Columns
	}
	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, 0, len(columns))}
	for _, c := range columns {
		def.Columns = append(def.Columns, ColumnDef{
			Name:     c,
			Kind:     inferKind(t.Values(c)),
			Nullable: true,
		})
	}
	return def
}

func inferKind(values []any) string {
	kind := ""
	for _, v := range values {
		var k string
		switch v.(type) {
		case nil:
			continue
		case int, int64:
			k = KindInt
		case time.Time:
			k = KindDate
		default:
			return KindText
		}
		if kind != "" && kind != k {
			return KindText
		}
		kind = k
	}
	if kind == "" {
		return KindText
	}
	return kind
}
