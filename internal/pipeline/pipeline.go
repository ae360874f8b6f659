// Package pipeline wires the catalog run together: load the source, apply the
// configured transform chain, write every sink and hand the final table back
// for the summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"catalogetl/internal/config"
	"catalogetl/internal/metrics"
	"catalogetl/internal/storage"
	"catalogetl/internal/transformer/builtin"
	"catalogetl/pkg/records"
)

// SinkResult is the outcome of one storage sink.
type SinkResult struct {
	Kind   string
	Target string
	Rows   int64
	Err    error // *WriteError when the sink failed
}

// Result summarizes one run.
type Result struct {
	RunID         string
	Loaded        int
	ParseSkipped  int
	Dates         builtin.DateReport
	Duplicates    int
	Dropped       int
	ExplodeErrors []error
	Final         records.Table
	Sinks         []SinkResult
	Elapsed       time.Duration
}

// Failed reports whether any sink failed.
func (r Result) Failed() bool {
	for _, s := range r.Sinks {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// Run executes p end to end under a fresh run id.
func Run(ctx context.Context, p config.Pipeline) (Result, error) {
	return RunWithID(ctx, p, NewRunID())
}

// RunWithID executes p end to end. Only load and configuration errors are
// returned; per-column explode failures and per-sink write failures are
// recorded in the Result and logged.
func RunWithID(ctx context.Context, p config.Pipeline, runID string) (Result, error) {
	start := time.Now()
	res := Result{RunID: runID}
	job := p.Job
	if job == "" {
		job = config.DefaultJob
	}
	log.Printf("run: run_id=%s job=%s source=%s", res.RunID, job, p.Source.File.Path)

	chain, err := builtin.FromConfig(p.Transform, builtin.Hooks{
		OnDates: func(r builtin.DateReport) {
			res.Dates = r
			metrics.RecordRows(job, "dates_unresolved", int64(r.Unresolved))
		},
		OnDuplicates: func(n int) {
			res.Duplicates += n
			metrics.RecordRows(job, "duplicates_removed", int64(n))
		},
		OnDropped: func(n int) {
			res.Dropped += n
			metrics.RecordRows(job, "unknown_removed", int64(n))
		},
		OnExplode: func(err error) { res.ExplodeErrors = append(res.ExplodeErrors, err) },
	})
	if err != nil {
		return res, fmt.Errorf("build transforms: %w", err)
	}

	loadStart := time.Now()
	t, skipped, err := Load(ctx, p)
	metrics.RecordStage(job, "load", err, time.Since(loadStart))
	if err != nil {
		return res, err
	}
	res.Loaded, res.ParseSkipped = t.Len(), skipped
	metrics.RecordRows(job, "loaded", int64(res.Loaded))
	metrics.RecordRows(job, "parse_skipped", int64(skipped))
	metrics.RecordShape(job, "load", res.Loaded)

	res.Final = chain.Run(job, t)

	res.Sinks = Write(ctx, p, job, res.Final)
	res.Elapsed = time.Since(start)
	log.Printf("run: run_id=%s rows_in=%d rows_out=%d duplicates=%d dropped=%d sinks=%d elapsed=%s",
		res.RunID, res.Loaded, res.Final.Len(), res.Duplicates, res.Dropped, len(res.Sinks),
		res.Elapsed.Truncate(time.Millisecond))
	return res, nil
}

// Write sends t to every configured sink in order. A failing sink is logged
// and reported as a *WriteError; the remaining sinks still run.
func Write(ctx context.Context, p config.Pipeline, job string, t records.Table) []SinkResult {
	batch := p.Runtime.BatchSize
	if batch <= 0 {
		batch = config.DefaultBatchSize
	}

	out := make([]SinkResult, 0, len(p.Storage))
	for _, s := range p.Storage {
		cfg := storage.Config{
			Kind:    s.Kind,
			DSN:     s.DB.DSN,
			Table:   s.DB.Table,
			Columns: s.DB.Columns,
			Comma:   firstRune(s.DB.Comma),
			Job:     job,
		}
		sr := SinkResult{Kind: s.Kind, Target: s.DB.DSN}
		if s.DB.Table != "" {
			sr.Target = s.DB.Table
		}

		st, err := storage.Write(ctx, cfg, t, storage.WriteOptions{BatchSize: batch, AutoCreate: s.DB.AutoCreateTable})
		metrics.RecordStage(job, "write_"+s.Kind, err, st.Elapsed)
		sr.Rows = st.Rows
		if err != nil {
			we := &WriteError{Sink: s.Kind, Target: sr.Target, Err: err}
			log.Printf("write: error: %v", we)
			sr.Err = we
		} else {
			metrics.RecordRows(job, "written", st.Rows)
		}
		out = append(out, sr)
	}
	return out
}

// SinkErrors collects the failed sinks' errors.
func SinkErrors(sinks []SinkResult) error {
	var errs []error
	for _, s := range sinks {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
