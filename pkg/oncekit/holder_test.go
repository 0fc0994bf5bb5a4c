package oncekit_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
	"github.com/randalmurphal/oncekit/pkg/oncekit/concurrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_LazyConstruction(t *testing.T) {
	var calls atomic.Int64
	h := oncekit.NewHolder(countingFactory(&calls), oncekit.WithLogger(discardLogger()))

	assert.Equal(t, int64(0), calls.Load(), "declaring a holder must not construct")
	assert.Equal(t, oncekit.StateUninitialized, h.State())

	w, err := h.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.ID)
	assert.Equal(t, oncekit.StateReady, h.State())

	again := h.MustGet()
	assert.Same(t, w, again)
}

func TestHolder_Concurrent(t *testing.T) {
	var calls atomic.Int64
	h := oncekit.NewHolder(countingFactory(&calls), oncekit.WithLogger(discardLogger()))

	results, err := concurrent.Collect(context.Background(), 64, func(ctx context.Context, _ int) (*widget, error) {
		return h.GetContext(ctx)
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load())
	for _, w := range results {
		assert.Same(t, results[0], w)
	}
}

func TestHolderContext(t *testing.T) {
	h := oncekit.NewHolderContext(func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "ready", nil
	}, oncekit.WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.GetContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, oncekit.StateUninitialized, h.State())

	v, err := h.GetContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}

func TestHolder_MustGetPanics(t *testing.T) {
	h := oncekit.NewHolder(func() (int, error) {
		return 0, errors.New("broken")
	}, oncekit.WithLogger(discardLogger()))

	assert.Panics(t, func() { h.MustGet() })
}
