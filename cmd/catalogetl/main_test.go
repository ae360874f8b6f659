package main

import (
	"os"
	"path/filepath"
	"testing"

	"catalogetl/internal/config"
)

func TestLoadPipeline_Defaults(t *testing.T) {
	t.Setenv("ETL_BATCH_SIZE", "")

	p, err := loadPipeline(options{})
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if p.Source.File.Path != config.DefaultInputPath || p.Storage[0].DB.DSN != config.DefaultOutputPath {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.Runtime.BatchSize != config.DefaultBatchSize {
		t.Fatalf("batch size = %d", p.Runtime.BatchSize)
	}
}

func TestLoadPipeline_Overrides(t *testing.T) {
	t.Setenv("ETL_BATCH_SIZE", "77")

	p, err := loadPipeline(options{input: "in.csv", output: "out.csv"})
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if p.Source.File.Path != "in.csv" || p.Storage[0].DB.DSN != "out.csv" {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Runtime.BatchSize != 77 {
		t.Fatalf("batch size = %d, want 77 from env", p.Runtime.BatchSize)
	}
}

func TestLoadPipeline_ConfigFileAddsOutputSink(t *testing.T) {
	t.Setenv("ETL_BATCH_SIZE", "")

	path := filepath.Join(t.TempDir(), "p.json")
	js := `{"job":"j","source":{"kind":"file","file":{"path":"x.csv"}},"parser":{"kind":"csv"},
	        "storage":[{"kind":"sqlite","db":{"dsn":"c.db","table":"titles"}}]}`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := loadPipeline(options{cfgPath: path, output: "o.csv"})
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if len(p.Storage) != 2 || p.Storage[1].Kind != "csv" || p.Storage[1].DB.DSN != "o.csv" {
		t.Fatalf("storage = %+v", p.Storage)
	}

	if _, err := loadPipeline(options{cfgPath: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("want error for missing config")
	}
}

func TestRun_MissingSourceExitsOne(t *testing.T) {
	t.Setenv("METRICS_BACKEND", "")
	dir := t.TempDir()
	code := run(options{input: filepath.Join(dir, "absent.csv"), output: filepath.Join(dir, "out.csv")})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestRun_ValidateOnly(t *testing.T) {
	t.Setenv("METRICS_BACKEND", "")
	if code := run(options{validate: true}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestHelpers(t *testing.T) {
	if pickInt(0, 5) != 5 || pickInt(3, 5) != 3 {
		t.Fatalf("pickInt")
	}
	if firstNonEmpty("", "", "c") != "c" || firstNonEmpty() != "" {
		t.Fatalf("firstNonEmpty")
	}
	if describe("") != "(built-in defaults)" {
		t.Fatalf("describe")
	}
}
