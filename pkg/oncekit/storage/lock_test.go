package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randalmurphal/oncekit/pkg/oncekit/concurrent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_LockUnlock(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLocker()

	require.NoError(t, l.Lock(ctx, "ids"))
	require.NoError(t, l.Lock(ctx, "other"), "names are independent")
	require.NoError(t, l.Unlock(ctx, "ids"))
	require.NoError(t, l.Lock(ctx, "ids"), "lock is reusable after unlock")
}

func TestLocalLocker_UnlockNotHeld(t *testing.T) {
	l := NewLocalLocker()
	assert.ErrorIs(t, l.Unlock(context.Background(), "ids"), ErrNotLocked)
}

func TestLocalLocker_LockTimesOut(t *testing.T) {
	l := NewLocalLocker()
	require.NoError(t, l.Lock(context.Background(), "ids"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Lock(ctx, "ids")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	var inside, maxInside atomic.Int32

	err := concurrent.Run(context.Background(), 50, func(ctx context.Context, _ int) error {
		if err := l.Lock(ctx, "ids"); err != nil {
			return err
		}
		n := inside.Add(1)
		for {
			m := maxInside.Load()
			if n <= m || maxInside.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(100 * time.Microsecond)
		inside.Add(-1)
		return l.Unlock(ctx, "ids")
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), maxInside.Load())
}
