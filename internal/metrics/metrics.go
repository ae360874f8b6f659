// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the catalog pipeline.
//
// The package exposes a narrow interface (Backend) for counters, timings and
// gauges, and a global pluggable backend that defaults to a no-op
// implementation, so the helpers are always safe to call even when no real
// backend is configured. Concrete systems (Prometheus Pushgateway, Datadog)
// live in subpackages.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the helpers below.
const (
	StageTotal    = "catalog_stage_total"
	StageDuration = "catalog_stage_duration_seconds"
	RowsTotal     = "catalog_rows_total"
	BatchesTotal  = "catalog_batches_total"
	TableRows     = "catalog_table_rows"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge sets a point-in-time value.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) SetGauge(string, float64, Labels)         {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStage measures latency + success/failure for one pipeline stage.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"stage":  stage,
		"status": status,
	}
	b := current()
	b.IncCounter(StageTotal, 1, lbls)
	b.ObserveHistogram(StageDuration, d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given job and kind.
//
// Kinds used by the pipeline:
//   - "loaded"
//   - "parse_skipped"
//   - "duplicates_removed"
//   - "unknown_removed"
//   - "dates_unresolved"
//   - "written"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordBatches increments a batch-level counter for one sink.
func RecordBatches(job, sink string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{
		"job":  job,
		"sink": sink,
	})
}

// RecordShape reports the row count of the table after a stage.
func RecordShape(job, stage string, rows int) {
	current().SetGauge(TableRows, float64(rows), Labels{
		"job":   job,
		"stage": stage,
	})
}
