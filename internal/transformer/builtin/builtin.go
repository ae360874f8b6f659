// Package builtin contains the catalog cleaning stages: missing-value fill,
// date parsing, duration decomposition, text normalization, de-duplication,
// list splitting, explode and post-explode cleanup.
//
// Every stage implements transformer.Transformer. Stages never mutate their
// input table; they clone it (or build a fresh one) and return the result.
package builtin

import (
	"fmt"
	"time"

	"catalogetl/pkg/records"
)

// Unknown is the sentinel for missing category data.
const Unknown = "Unknown"

// IsNullLike reports whether v carries no information: nil, or one of the
// textual null spellings "", "nan" and "None".
func IsNullLike(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "nan" || t == "None"
	}
	return false
}

// toText coerces a cell to its string form. nil becomes "".
func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(records.DateLayout)
	default:
		return fmt.Sprint(t)
	}
}
