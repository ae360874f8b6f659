package builtin

import (
	"fmt"

	"catalogetl/internal/config"
	"catalogetl/internal/transformer"
)

// Hooks receive per-stage diagnostics from stages built by FromConfig.
// Every field is optional.
type Hooks struct {
	OnDates      func(DateReport)
	OnDuplicates func(int)
	OnDropped    func(int)
	OnExplode    func(error)
}

// FromConfig builds the transform chain described by ts, in order.
func FromConfig(ts []config.Transform, h Hooks) (transformer.Chain, error) {
	chain := make(transformer.Chain, 0, len(ts))
	for i, t := range ts {
		st, err := build(t, h)
		if err != nil {
			return nil, fmt.Errorf("transform[%d] %s: %w", i, t.Kind, err)
		}
		chain = append(chain, st)
	}
	return chain, nil
}

func build(t config.Transform, h Hooks) (transformer.Transformer, error) {
	o := t.Options
	switch t.Kind {
	case "fill_missing":
		return FillMissing{Values: o.StringMap("values")}, nil
	case "coerce":
		return Coerce{Types: o.StringMap("types"), Layout: o.String("layout", "")}, nil
	case "parse_dates":
		col := o.String("column", "")
		if col == "" {
			return nil, fmt.Errorf("column is required")
		}
		layouts := o.StringSlice("layouts")
		if _, set := o["layouts"]; !set {
			layouts = config.DateLayouts
		}
		return ParseDates{
			Column:   col,
			Layouts:  layouts,
			Fallback: o.Bool("fallback", true),
			OnReport: h.OnDates,
		}, nil
	case "split_duration":
		return SplitDuration{
			Column:      o.String("column", "duration"),
			CleanColumn: o.String("clean_column", ""),
			IntColumn:   o.String("int_column", "duration_int"),
			TypeColumn:  o.String("type_column", "duration_type"),
		}, nil
	case "normalize":
		return Normalize{Columns: o.StringSlice("columns")}, nil
	case "dedup":
		switch p := o.String("policy", "keep-first"); p {
		case "keep-first", "keep-last", "most-complete":
			return DeDup{
				Keys:         o.StringSlice("keys"),
				Policy:       p,
				PreferFields: o.StringSlice("prefer_fields"),
				OnRemoved:    h.OnDuplicates,
			}, nil
		default:
			return nil, fmt.Errorf("unknown policy %q", p)
		}
	case "split_list":
		src, dst := o.StringSlice("sources"), o.StringSlice("targets")
		if len(src) == 0 || len(src) != len(dst) {
			return nil, fmt.Errorf("sources/targets mismatch (%d/%d)", len(src), len(dst))
		}
		return SplitList{Sources: src, Targets: dst}, nil
	case "explode":
		mode := o.String("mode", ModeCross)
		if mode != ModeCross && mode != ModeZip {
			return nil, fmt.Errorf("unknown mode %q", mode)
		}
		return Explode{Columns: o.StringSlice("columns"), Mode: mode, OnError: h.OnExplode}, nil
	case "rename":
		return Rename{Columns: o.StringMap("columns")}, nil
	case "clean_exploded":
		return CleanExploded{Columns: o.StringSlice("columns")}, nil
	case "require_any":
		return RequireAny{Columns: o.StringSlice("columns"), OnDropped: h.OnDropped}, nil
	default:
		return nil, fmt.Errorf("unknown transform kind")
	}
}
