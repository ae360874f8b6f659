// Package parser defines the contract between raw input bytes and the table
// the transform chain consumes.
package parser

import (
	"io"

	"catalogetl/pkg/records"
)

// Parser turns r into a table. skipped counts rows dropped as malformed.
type Parser interface {
	Parse(r io.Reader) (t records.Table, skipped int, err error)
}
