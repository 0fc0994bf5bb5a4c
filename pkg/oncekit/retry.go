package oncekit

import (
	"context"
	"errors"

	"github.com/randalmurphal/oncekit/pkg/oncekit/retry"
)

// IsRetryable reports whether err came from a failed construction that a
// later call may fix. State contract violations are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConstructionFailed)
}

// GetOrInitRetry calls s.GetOrInitContext until construction succeeds or cfg
// gives up. Only construction failures are retried; cfg.Retryable is
// replaced by IsRetryable.
func GetOrInitRetry[T any](ctx context.Context, s *Singleton[T], cfg retry.Config, factory Factory[T]) (T, error) {
	cfg.Retryable = IsRetryable
	res := retry.Do(ctx, cfg, func(ctx context.Context) (T, error) {
		return s.GetOrInitContext(ctx, factory)
	})
	return res.Value, res.Err
}
