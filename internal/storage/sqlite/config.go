// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:catalog.db?cache=shared"
	//   ":memory:"
	DSN string

	// Table is the target table name, e.g. "titles". Dotted names such as
	// "main.titles" are quoted part by part.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
