// Package transformer composes table stages. Every stage receives a table by
// value and returns a new one; stages clone before they mutate so an earlier
// table is never changed by a later stage.
package transformer

import (
	"fmt"
	"log"
	"strings"
	"time"

	"catalogetl/internal/metrics"
	"catalogetl/pkg/records"
)

// Transformer is one pipeline stage.
type Transformer interface{ Apply(records.Table) records.Table }

// Named is implemented by stages that report a stable name for logs and
// metrics. Other stages are named after their Go type.
type Named interface{ Name() string }

// Func adapts a plain function to Transformer.
type Func func(records.Table) records.Table

func (f Func) Apply(in records.Table) records.Table { return f(in) }

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every stage in order, feeding each the previous output.
func (c Chain) Apply(in records.Table) records.Table {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Run is Apply with per-stage logging and metrics under job.
func (c Chain) Run(job string, in records.Table) records.Table {
	out := in
	for _, t := range c {
		name := StageName(t)
		rowsIn := out.Len()
		start := time.Now()
		out = t.Apply(out)
		elapsed := time.Since(start)

		rows, cols := out.Shape()
		log.Printf("stage=%s rows_in=%d rows_out=%d cols=%d elapsed=%s", name, rowsIn, rows, cols, elapsed.Round(time.Microsecond))
		metrics.RecordStage(job, name, nil, elapsed)
		metrics.RecordShape(job, name, rows)
	}
	return out
}

// StageName returns t's Name, or its type name in snake-ish lower case.
func StageName(t Transformer) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	name := fmt.Sprintf("%T", t)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimPrefix(name, "*"))
}
