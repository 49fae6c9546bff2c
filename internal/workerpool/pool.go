package workerpool

import (
	"context"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the concurrency bound used when none is configured.
const DefaultWorkers = 4

// Map calls fn for every item with at most workers calls in flight and
// returns the results in input order. fn reports unit-level failures through
// its result, so one item never aborts its siblings. Map fails only when ctx
// is done, in which case items not yet started are skipped and their results
// are left as zero values.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) ([]R, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]R, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fn(gctx, item)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, errors.ErrCancelled.WithError(err)
	}
	if err := ctx.Err(); err != nil {
		return results, errors.ErrCancelled.WithError(err)
	}
	return results, nil
}
