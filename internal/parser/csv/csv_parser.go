// Package csv parses a delimited catalog file into a records.Table. The whole
// input is held in memory; header order becomes the table's column order.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"catalogetl/internal/config"
	"catalogetl/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0 and HasHeader is false, names the columns
	// col_0..col_N-1 and enforces that width.
	ExpectedFields int

	// HeaderMap maps source header names to canonical keys. Only applies
	// when HasHeader is true.
	HeaderMap map[string]string

	// LazyQuotes relaxes quote handling in encoding/csv.
	LazyQuotes bool

	// MaxLoggedSkips caps how many skipped rows are logged. Zero means 400.
	MaxLoggedSkips int
}

// OptionsFromConfig maps a parser options bag onto Options.
func OptionsFromConfig(o config.Options) Options {
	return Options{
		HasHeader:      o.Bool("has_header", true),
		Comma:          o.Rune("comma", ','),
		TrimSpace:      o.Bool("trim_space", false),
		ExpectedFields: o.Int("expected_fields", 0),
		HeaderMap:      o.StringMap("header_map"),
		LazyQuotes:     o.Bool("lazy_quotes", false),
		MaxLoggedSkips: o.Int("max_logged_skips", 0),
	}
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// ErrEmptyInput is returned when the input has no header row.
var ErrEmptyInput = errors.New("csv: empty input")

// Parse consumes CSV records from r and returns the parsed table along with
// the number of rows that were skipped due to parse errors or extra fields.
// Empty cells become nil, as do the missing trailing cells of a short row.
func (p *Parser) Parse(r io.Reader) (records.Table, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	// Width is enforced below so mismatches are soft failures.
	cr.FieldsPerRecord = -1

	var headers []string
	if p.opt.HasHeader {
		h, err := cr.Read()
		if err == io.EOF {
			return records.Table{}, 0, ErrEmptyInput
		}
		if err != nil {
			return records.Table{}, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	limit := p.opt.MaxLoggedSkips
	if limit <= 0 {
		limit = 400
	}

	var rows []records.Record
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < limit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		if headers == nil {
			headers = make([]string, len(row))
			for i := range headers {
				headers[i] = fmt.Sprintf("col_%d", i)
			}
		}
		if len(row) > len(headers) {
			if skipped < limit {
				log.Printf("csv: skipping row %d: too many fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		// Short rows are kept; missing trailing cells are null.
		rec := make(records.Record, len(headers))
		for i, h := range headers {
			if i >= len(row) {
				rec[h] = nil
				continue
			}
			val := row[i]
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[h] = emptyToNil(val)
		}
		rows = append(rows, rec)
	}

	return records.Table{Columns: headers, Rows: rows}, skipped, nil
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell. Blank or repeated names are
// replaced with col_N so every column stays addressable.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	seen := make(map[string]struct{}, len(h))
	for i, col := range h {
		c := col
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		c = strings.TrimSpace(c)
		key := ""
		if m, ok := opt.HeaderMap[c]; ok {
			key = m
		} else {
			key = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		}
		if _, dup := seen[key]; key == "" || dup {
			key = fmt.Sprintf("col_%d", i)
		}
		seen[key] = struct{}{}
		res[i] = key
	}
	return res
}
