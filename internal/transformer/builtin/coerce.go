package builtin

import (
	"strconv"
	"strings"
	"time"

	"catalogetl/pkg/records"
)

// Coerce converts string cells to typed values. Cells that fail to convert
// are left as they are.
type Coerce struct {
	Types  map[string]string // column -> one of: int, bool, date, string
	Layout string            // date layout; records.DateLayout when empty
}

func (Coerce) Name() string { return "coerce" }

func (c Coerce) Apply(in records.Table) records.Table {
	out := in.Clone()
	if len(c.Types) == 0 {
		return out
	}
	layout := c.Layout
	if layout == "" {
		layout = records.DateLayout
	}
	for _, r := range out.Rows {
		for field, typ := range c.Types {
			s, ok := r[field].(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			switch typ {
			case "int":
				if i, err := strconv.Atoi(s); err == nil {
					r[field] = i
				}
			case "bool":
				if b, err := strconv.ParseBool(s); err == nil {
					r[field] = b
				}
			case "date":
				if t, err := time.Parse(layout, s); err == nil {
					r[field] = t
				}
			case "string":
				// already string
			}
		}
	}
	return out
}
