package pipeline

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned when the input cannot be opened. The
// underlying os error stays in the chain, so errors.Is(err, fs.ErrNotExist)
// also holds for a missing file.
var ErrSourceNotFound = errors.New("source not found")

// WriteError reports a failed sink. It never aborts the run.
type WriteError struct {
	Sink   string // storage kind
	Target string // path or table
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s (%s): %v", e.Sink, e.Target, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
