package lookup

import (
	"context"

	"go.uber.org/zap"

	"github.com/japaniel/nvlookup/pkg/format"
)

// Result is the outcome of one lookup in a batch.
type Result struct {
	Index   int
	Query   string
	Records []format.Record
	Err     error
}

// Batch looks up queries on a bounded pool of workers and passes each result
// to fn in input order, as soon as it and every result before it are done.
// A lookup that fails is still delivered, with Err set. Batch stops early if
// fn returns an error or ctx is canceled.
func (s *Service) Batch(ctx context.Context, queries []string, fn func(Result) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := newWorkerPool(s.workers, 0)
	pool.start(ctx)

	// Sized so workers never block on a consumer that has stopped reading.
	results := make(chan Result, len(queries))

	go func() {
		defer close(results)
		defer pool.close()
		for i, q := range queries {
			err := pool.submit(ctx, func(ctx context.Context) {
				records, err := s.Lookup(ctx, q)
				results <- Result{Index: i, Query: q, Records: records, Err: err}
			})
			if err != nil {
				s.log.Debug("batch submit stopped", zap.Int("index", i), zap.Error(err))
				return
			}
		}
	}()

	pending := make(map[int]Result)
	next := 0
	for r := range results {
		pending[r.Index] = r
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := fn(ready); err != nil {
				return err
			}
		}
	}
	if next < len(queries) {
		return ctx.Err()
	}
	return nil
}
