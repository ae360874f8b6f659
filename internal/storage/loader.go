package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"catalogetl/pkg/records"
)

// CopyFn writes one batch of rows aligned to columns and returns how many it
// wrote. Repository.CopyFrom satisfies it.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadStats counts what LoadTable handed to its CopyFn.
type LoadStats struct {
	Rows    int64 // rows reported written, including a failed batch's partial count
	Batches int64 // batches that completed without error
}

// LoadTable projects t onto columns and passes it to copyFn in row order, at
// most batchSize rows per call. It stops at the first copy error or when ctx
// is done. sink only labels the progress log.
//
// The batch buffer is reused between calls; copyFn must not retain it.
func LoadTable(
	ctx context.Context,
	sink string,
	t records.Table,
	columns []string,
	batchSize int,
	copyFn CopyFn,
) (LoadStats, error) {
	var st LoadStats
	if batchSize <= 0 {
		return st, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return st, fmt.Errorf("copyFn must not be nil")
	}
	if len(columns) == 0 {
		return st, fmt.Errorf("columns must not be empty")
	}

	total := len(t.Rows)
	planned := (total + batchSize - 1) / batchSize
	batch := make([][]any, 0, min(batchSize, total))
	start := time.Now()

	for lo := 0; lo < total; lo += batchSize {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		hi := min(lo+batchSize, total)

		batch = batch[:0]
		for _, r := range t.Rows[lo:hi] {
			row := make([]any, len(columns))
			for j, c := range columns {
				row[j] = r[c]
			}
			batch = append(batch, row)
		}

		began := time.Now()
		n, err := copyFn(ctx, columns, batch)
		st.Rows += n
		if err != nil {
			log.Printf("loader: sink=%s batch=%d/%d failed rows=%d written=%d err=%v",
				sink, st.Batches+1, planned, len(batch), st.Rows, err)
			return st, err
		}
		st.Batches++

		took := time.Since(began)
		rps := float64(0)
		if took > 0 {
			rps = float64(n) / took.Seconds()
		}
		log.Printf("loader: sink=%s batch=%d/%d rows=%d cols=%d written=%d/%d rps=%.0f elapsed=%s",
			sink, st.Batches, planned, n, len(columns), st.Rows, total, rps,
			time.Since(start).Truncate(time.Millisecond))
	}
	return st, nil
}
