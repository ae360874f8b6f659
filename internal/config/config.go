// Package config defines the canonical, JSON-serializable configuration model
// for the catalog cleaning pipeline. Pipelines can be loaded from disk and
// passed through the program without additional glue code; when no file is
// given, Default returns the fixed pipeline the binary runs with.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure of pipeline files.
//  3. Minimalism: decoding is performed by encoding/json, with a light Options
//     helper for typed access to per-transform settings.
//
// Example (trimmed):
//
//	{
//	  "job":      "catalog_clean",
//	  "source":   { "kind": "file", "file": { "path": "netflix_titles.csv" } },
//	  "parser":   { "kind": "csv", "options": { "has_header": true } },
//	  "transform":[
//	    { "kind": "fill_missing", "options": { "values": { "country": "Unknown" } } },
//	    { "kind": "parse_dates",  "options": { "column": "date_added" } }
//	  ],
//	  "storage":  [ { "kind": "csv", "db": { "dsn": "out.csv" } } ]
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline describes the full pipeline in JSON. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job names the run for logs and metrics.
	Job string `json:"job"`

	// Source describes where input data comes from (e.g., local file).
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into a table (e.g., CSV).
	Parser Parser `json:"parser"`

	// Transform lists the ordered transformations applied to the loaded
	// table. Each transform has a kind and an options bag. The options shape
	// is defined by the transform implementation.
	Transform []Transform `json:"transform"`

	// Storage lists the sinks the final table is written to, in order. A sink
	// failure never prevents the remaining sinks from running.
	Storage []Storage `json:"storage"`

	Metrics Metrics       `json:"metrics"`
	Runtime RuntimeConfig `json:"runtime"`
}

// RuntimeConfig controls sink batching.
type RuntimeConfig struct {
	BatchSize int `json:"batch_size"`
}

// Metrics selects the metrics backend. Backend is one of "none",
// "pushgateway" or "datadog".
type Metrics struct {
	Backend        string   `json:"backend"`
	PushgatewayURL string   `json:"pushgateway_url"`
	DatadogAddr    string   `json:"datadog_addr"`
	Namespace      string   `json:"namespace"`
	Tags           []string `json:"tags"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into a table.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys include:
	//   has_header (bool), comma (string), trim_space (bool),
	//   header_map (object)
	Options Options `json:"options"`
}

// Transform defines a single transformation step. The sequence of steps forms
// the transformation chain executed by the pipeline.
type Transform struct {
	// Kind selects the transform implementation (e.g., "fill_missing",
	// "parse_dates", "dedup", "explode"). Implementations define their own
	// options.
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected transform.
	Options Options `json:"options"`
}

// Storage selects one sink used to persist the final table.
type Storage struct {
	// Kind selects the storage implementation: "csv", "sqlite", "postgres",
	// "mssql" or "mysql".
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures a sink. For the "csv" kind DSN is the output file path
// and Table is unused.
type DBConfig struct {
	// DSN is the connection string (or the file path for "csv").
	DSN string `json:"dsn"`

	// Table is the destination table name (e.g., "public.titles").
	Table string `json:"table"`

	// Columns optionally restricts and orders the written columns. When empty
	// every column of the final table is written in table order.
	Columns []string `json:"columns"`

	// AutoCreateTable should the process automatically create the DB table
	AutoCreateTable bool `json:"auto_create_table"`

	// Comma is the field delimiter for the "csv" kind. Defaults to ','.
	Comma string `json:"comma"`
}

// Load decodes a pipeline file.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
//
// Options is used for parser/transform-specific configuration where the shape
// varies by implementation.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
// If the value is neither float64 nor int, def is returned.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such as
// a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of strings
// (or an array of interface values containing strings). Returns nil when the
// key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key (which may itself be a nested
// map[string]any, []any, or primitive).
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null "options"
// object in JSON decodes to a non-nil, empty Options map. This simplifies call
// sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
