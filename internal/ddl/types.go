package ddl

import "strings"

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - Kind: logical type inferred from the data ("int", "date", "text")
//   - SQLType: rendered SQL type; empty means "ask the dialect for Kind"
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	Kind       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds the table name (FQN) and an ordered list of columns. The FQN
// may be dotted ("schema.table"); dialects quote each part.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect adapts rendering to one SQL backend.
type Dialect struct {
	// Quote quotes a single identifier part.
	Quote func(string) string
	// MapType maps a logical Kind to a SQL type.
	MapType func(kind string) string
	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
}

// QuoteFQN quotes each dotted part of name with d.Quote.
func (d Dialect) QuoteFQN(name string) string {
	if d.Quote == nil {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.Quote(p)
	}
	return strings.Join(parts, ".")
}
