package builtin

import (
	"strings"

	"catalogetl/pkg/records"

	"golang.org/x/text/unicode/norm"
)

const nbspace = "\u00a0"

// nbspFolder folds no-break spaces, including the mojibake form left by a
// Latin-1 round trip, into plain spaces.
var nbspFolder = strings.NewReplacer("\u00c2"+nbspace, " ", nbspace, " ")

// NormalizeText returns s in Unicode NFC with no-break spaces folded and
// surrounding whitespace trimmed.
func NormalizeText(s string) string {
	return strings.TrimSpace(nbspFolder.Replace(norm.NFC.String(s)))
}

// Normalize coerces the configured columns to strings (nil becomes "") and
// normalizes their text. Columns absent from the table are ignored.
type Normalize struct {
	Columns []string
}

func (Normalize) Name() string { return "normalize" }

func (n Normalize) Apply(in records.Table) records.Table {
	out := in.Clone()
	cols := make([]string, 0, len(n.Columns))
	for _, c := range n.Columns {
		if out.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	for _, r := range out.Rows {
		for _, c := range cols {
			r[c] = NormalizeText(toText(r[c]))
		}
	}
	return out
}
