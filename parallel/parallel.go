// Package parallel runs independent, index-addressed units of work on a
// bounded number of goroutines.
//
// Every unit writes only to its own index, so callers get results in index
// order no matter how the scheduler interleaves workers. The first failing
// unit cancels the shared context and its error is returned; no goroutine
// outlives the call.
package parallel

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrNegativeCount is returned when a negative number of units is requested.
var ErrNegativeCount = errors.New("parallel: negative unit count")

// Workers normalizes a worker count: w<=0 selects runtime.GOMAXPROCS(0), and
// the result never exceeds n (when n>0).
func Workers(w, n int) int {
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if n > 0 && w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}

	return w
}

// Map calls fn(ctx, i) for every i in [0, n) using at most workers goroutines.
//
// Behavior:
//   - n==0 returns nil immediately.
//   - The context passed to fn is cancelled when any unit fails or ctx is done.
//   - Units not yet started when ctx is cancelled are skipped.
//   - Returns the first unit error; a cancelled parent ctx yields ctx.Err().
func Map(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n < 0 {
		return ErrNegativeCount
	}
	if n == 0 {
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers, n))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// Collect is Map for units that produce a value; out[i] holds unit i's result.
// On error the partial results are discarded.
func Collect[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	out := make([]T, n)
	err := Map(ctx, n, workers, func(ctx context.Context, i int) error {
		v, err := fn(ctx, i)
		if err != nil {
			return err
		}
		out[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
