// Package datasource defines where raw catalog bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens the raw input stream. Callers close the returned reader.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Named is implemented by sources that can describe themselves for logs.
type Named interface {
	Name() string
}
