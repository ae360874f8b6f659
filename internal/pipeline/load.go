package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"catalogetl/internal/config"
	"catalogetl/internal/datasource"
	"catalogetl/internal/datasource/file"
	"catalogetl/internal/parser"
	csvparser "catalogetl/internal/parser/csv"
	"catalogetl/pkg/records"
)

// dateSampleSize is how many non-null date_added values Load logs.
const dateSampleSize = 10

// Load opens the configured source and parses it into a table. It returns the
// table and the number of rows skipped as malformed.
//
// A source that cannot be opened yields an error wrapping ErrSourceNotFound.
func Load(ctx context.Context, p config.Pipeline) (records.Table, int, error) {
	var src datasource.Source
	switch p.Source.Kind {
	case "file":
		src = file.NewLocal(p.Source.File.Path)
	default:
		return records.Table{}, 0, fmt.Errorf("unsupported source.kind=%s", p.Source.Kind)
	}

	name := p.Source.File.Path
	if n, ok := src.(datasource.Named); ok {
		name = n.Name()
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	defer rc.Close()

	prs, err := buildParser(p.Parser)
	if err != nil {
		return records.Table{}, 0, err
	}
	t, skipped, err := prs.Parse(rc)
	if err != nil {
		return records.Table{}, skipped, fmt.Errorf("parse %s: %w", name, err)
	}

	rows, cols := t.Shape()
	log.Printf("load: source=%s rows=%d cols=%d skipped=%d", name, rows, cols, skipped)
	for _, c := range config.ExpectedColumns {
		if !t.HasColumn(c) {
			log.Printf("load: warning: expected column %q missing from header", c)
		}
	}
	if t.HasColumn("date_added") {
		log.Printf("load: date_added sample: %s", strings.Join(dateSample(t, dateSampleSize), " | "))
	}
	return t, skipped, nil
}

// buildParser maps parser configuration into a concrete parser implementation.
func buildParser(p config.Parser) (parser.Parser, error) {
	switch p.Kind {
	case "csv", "":
		return csvparser.NewParser(csvparser.OptionsFromConfig(p.Options)), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}

func dateSample(t records.Table, n int) []string {
	out := make([]string, 0, n)
	for _, v := range t.Values("date_added") {
		if v == nil {
			continue
		}
		out = append(out, records.Format(v))
		if len(out) == n {
			break
		}
	}
	return out
}
