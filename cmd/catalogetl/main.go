package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"catalogetl/internal/config"
	"catalogetl/internal/metrics"
	"catalogetl/internal/metrics/datadog"
	"catalogetl/internal/metrics/prompush"
	"catalogetl/internal/pipeline"
	"catalogetl/internal/report"

	// register all backends with the storage factory.
	_ "catalogetl/internal/storage/all"
)

// options carries the parsed command line.
type options struct {
	cfgPath        string
	input          string
	output         string
	validate       bool
	metricsBackend string
	pushgatewayURL string
	datadogAddr    string
	verbose        bool
}

// main loads the pipeline (the built-in defaults unless -config is given),
// validates it, runs it and prints the summary.
func main() {
	var o options
	flag.StringVar(&o.cfgPath, "config", "", "pipeline config JSON path (default: built-in catalog pipeline)")
	flag.StringVar(&o.input, "input", "", "input CSV path (overrides source.file.path)")
	flag.StringVar(&o.output, "output", "", "output CSV path (overrides the first csv sink)")
	flag.BoolVar(&o.validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway, datadog (overrides env METRICS_BACKEND)")
	flag.StringVar(&o.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&o.datadogAddr, "datadog-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&o.verbose, "v", false, "enable verbose logs")
	flag.Parse()

	os.Exit(run(o))
}

func run(o options) int {
	p, err := loadPipeline(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityError || o.verbose {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		}
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %s", describe(o.cfgPath))
		return 1
	}
	if o.validate {
		log.Printf("Configuration is valid: %s", describe(o.cfgPath))
		return 0
	}

	runID := pipeline.NewRunID()
	flush := setupMetrics(o, p, runID)
	defer flush()

	if o.verbose {
		kinds := make([]string, 0, len(p.Storage))
		for _, s := range p.Storage {
			kinds = append(kinds, s.Kind)
		}
		log.Printf("pipeline: source=%s parser=%s transforms=%d storage=%s batch_size=%d",
			p.Source.File.Path, p.Parser.Kind, len(p.Transform), strings.Join(kinds, ","), p.Runtime.BatchSize)
	}

	start := time.Now()
	res, err := pipeline.RunWithID(context.Background(), p, runID)
	if err != nil {
		if errors.Is(err, pipeline.ErrSourceNotFound) {
			log.Printf("fatal: %v", err)
		} else {
			log.Printf("run failed: %v", err)
		}
		return 1
	}

	for _, s := range res.Sinks {
		if s.Err == nil {
			log.Printf("saved: kind=%s target=%s rows=%d", s.Kind, s.Target, s.Rows)
		}
	}
	if err := report.Summarize(res.Final, report.UniqueColumns, report.PreviewRows).Render(os.Stdout); err != nil {
		log.Printf("summary: %v", err)
	}
	if o.verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return 0
}

// loadPipeline resolves the pipeline: config file or defaults, then flag
// and environment overrides.
func loadPipeline(o options) (config.Pipeline, error) {
	p := config.Default()
	if o.cfgPath != "" {
		var err error
		if p, err = config.Load(o.cfgPath); err != nil {
			return config.Pipeline{}, err
		}
	}
	if o.input != "" {
		p.Source.Kind = "file"
		p.Source.File.Path = o.input
	}
	if o.output != "" {
		replaced := false
		for i := range p.Storage {
			if p.Storage[i].Kind == "csv" {
				p.Storage[i].DB.DSN = o.output
				replaced = true
				break
			}
		}
		if !replaced {
			p.Storage = append(p.Storage, config.Storage{Kind: "csv", DB: config.DBConfig{DSN: o.output}})
		}
	}
	p.Runtime.BatchSize = pickInt(getenvInt("ETL_BATCH_SIZE", 0), pickInt(p.Runtime.BatchSize, config.DefaultBatchSize))
	return p, nil
}

// setupMetrics installs the selected backend and returns its flush function.
// Selection order: flag, env, config file.
func setupMetrics(o options, p config.Pipeline, runID string) func() {
	backendName := firstNonEmpty(o.metricsBackend, os.Getenv("METRICS_BACKEND"), p.Metrics.Backend)
	jobName := firstNonEmpty(p.Job, config.DefaultJob)

	var (
		b   metrics.Backend
		err error
	)
	switch backendName {
	case "pushgateway":
		gwURL := firstNonEmpty(o.pushgatewayURL, os.Getenv("PUSHGATEWAY_URL"), p.Metrics.PushgatewayURL, "http://localhost:9091")
		b, err = prompush.NewBackend(jobName, gwURL, runID)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, jobName)
		}
	case "datadog":
		addr := firstNonEmpty(o.datadogAddr, os.Getenv("DD_AGENT_ADDR"), p.Metrics.DatadogAddr, "127.0.0.1:8125")
		tags := append([]string{"job:" + jobName, "run_id:" + runID}, p.Metrics.Tags...)
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			Namespace:  firstNonEmpty(p.Metrics.Namespace, "catalog."),
			GlobalTags: tags,
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v, job_name=%v", addr, backendName, jobName)
		}
	case "", "none":
		if o.verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", backendName, err)
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
		if c, ok := b.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}

func describe(cfgPath string) string {
	if cfgPath == "" {
		return "(built-in defaults)"
	}
	return cfgPath
}

// getenvInt reads an int from environment, returning def when unset/invalid.
func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// pickInt chooses the first positive value 'a', otherwise returns 'b'.
func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
