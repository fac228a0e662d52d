package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type BatchFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BatchReport captures per-item outcomes of a best-effort concurrent batch.
// There is no transaction around the batch: a partial failure leaves the
// succeeded items applied.
type BatchReport struct {
	Succeeded []uuid.UUID    `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

func (r *BatchReport) Ok() bool {
	return len(r.Failed) == 0
}

// runBatch fans out fn over ids concurrently and joins, collecting each
// result. Order of the report slices is not meaningful.
func runBatch(ctx context.Context, ids []uuid.UUID, fn func(context.Context, uuid.UUID) error) *BatchReport {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report BatchReport
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			err := fn(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, BatchFailure{ID: id, Error: err.Error()})
			} else {
				report.Succeeded = append(report.Succeeded, id)
			}
		}(id)
	}

	wg.Wait()
	return &report
}
