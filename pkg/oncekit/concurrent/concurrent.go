// Package concurrent runs a function from many goroutines at once, for
// exercising holders under contention.
package concurrent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Run starts n goroutines, parks them on a barrier until all have started,
// releases them together, and waits for every one to finish. fn receives the
// goroutine index. The first error is returned after all goroutines return;
// the context passed to fn is cancelled once any of them fails.
func Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n < 1 {
		return fmt.Errorf("concurrent: n must be positive, got %d", n)
	}

	g, gctx := errgroup.WithContext(ctx)
	ready := make(chan struct{}, n)
	start := make(chan struct{})

	for i := range n {
		g.Go(func() error {
			ready <- struct{}{}
			<-start
			return fn(gctx, i)
		})
	}

	for range n {
		<-ready
	}
	close(start)

	return g.Wait()
}

// Collect is Run for functions that return a value. Results are indexed by
// goroutine. On error the partially filled slice is returned with it.
func Collect[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	if n < 1 {
		return nil, fmt.Errorf("concurrent: n must be positive, got %d", n)
	}
	results := make([]T, n)
	err := Run(ctx, n, func(ctx context.Context, i int) error {
		v, err := fn(ctx, i)
		results[i] = v
		return err
	})
	return results, err
}
