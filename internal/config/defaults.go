package config

// Fixed constants of the default pipeline.
const (
	DefaultJob        = "catalog_clean"
	DefaultInputPath  = "netflix_titles.csv"
	DefaultOutputPath = "netflix_titles_fully_cleaned.csv"
	DefaultBatchSize  = 5000

	// Unknown is the sentinel substituted for missing category data.
	Unknown = "Unknown"
)

// ExpectedColumns are the input columns the default pipeline reads. Missing
// ones are reported by the loader but are not fatal.
var ExpectedColumns = []string{
	"type", "title", "director", "cast", "country",
	"date_added", "rating", "duration", "listed_in", "description",
}

// DateLayouts is the ordered fallback chain for date_added. Order is a
// tie-break: 2/1/2006 is only reached when 1/2/2006 failed.
var DateLayouts = []string{
	"2-Jan-06",        // 25-Sep-21
	"2-Jan-2006",      // 25-Sep-2021
	"January 2, 2006", // January 1, 2021
	"Jan 2, 2006",     // Jan 1, 2021
	"2006-1-2",        // 2021-01-01
	"1/2/2006",        // 1/31/2021 (month first)
	"2/1/2006",        // 31/1/2021 (day first)
}

// TextColumns are trimmed and coerced to string before de-duplication.
var TextColumns = []string{
	"title", "director", "cast", "country", "listed_in",
	"description", "rating", "duration_type",
}

// Default returns the fixed pipeline: read DefaultInputPath, clean and
// explode, write DefaultOutputPath.
func Default() Pipeline {
	return Pipeline{
		Job: DefaultJob,
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: DefaultInputPath},
		},
		Parser: Parser{
			Kind: "csv",
			Options: Options{
				"has_header": true,
				"comma":      ",",
				"trim_space": false,
			},
		},
		Transform: []Transform{
			{Kind: "fill_missing", Options: Options{
				"values": map[string]string{
					"country":   Unknown,
					"director":  Unknown,
					"cast":      Unknown,
					"rating":    Unknown,
					"listed_in": "",
					"duration":  "",
				},
			}},
			{Kind: "parse_dates", Options: Options{
				"column":   "date_added",
				"layouts":  DateLayouts,
				"fallback": true,
			}},
			{Kind: "split_duration", Options: Options{
				"column":       "duration",
				"clean_column": "duration_clean",
				"int_column":   "duration_int",
				"type_column":  "duration_type",
			}},
			{Kind: "normalize", Options: Options{
				"columns": TextColumns,
			}},
			{Kind: "dedup", Options: Options{
				"policy": "keep-first",
			}},
			{Kind: "split_list", Options: Options{
				"sources": []string{"cast", "listed_in", "country"},
				"targets": []string{"cast_list", "genre_list", "country_list"},
			}},
			{Kind: "explode", Options: Options{
				"columns": []string{"cast_list", "genre_list", "country_list"},
				"mode":    "cross",
			}},
			{Kind: "rename", Options: Options{
				"columns": map[string]string{
					"cast_list":    "actor",
					"genre_list":   "genre",
					"country_list": "country_exploded",
				},
			}},
			{Kind: "clean_exploded", Options: Options{
				"columns": []string{"actor", "genre", "country_exploded"},
			}},
			{Kind: "require_any", Options: Options{
				"columns": []string{"actor", "genre", "country_exploded"},
			}},
		},
		Storage: []Storage{
			{Kind: "csv", DB: DBConfig{DSN: DefaultOutputPath, Comma: ","}},
		},
		Metrics: Metrics{Backend: "none"},
		Runtime: RuntimeConfig{BatchSize: DefaultBatchSize},
	}
}
