// Package cluster provides a singleton that is unique across processes.
//
// Ownership moves between processes through a storage.Locker and the
// instance's state travels through a storage.Store: Acquire takes the lock and
// loads the last saved instance (or constructs a fresh one), Release saves the
// instance and gives the lock up.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
	"github.com/randalmurphal/oncekit/pkg/oncekit/storage"
)

// ErrNotAcquired indicates Release was called without a successful Acquire.
var ErrNotAcquired = errors.New("cluster singleton not acquired")

// Singleton is a holder whose instance is owned by one process at a time.
type Singleton[T any] struct {
	name     string
	settings oncekit.Settings
	holder   *oncekit.Singleton[T]
	storage  *storage.Typed[T]
	locker   storage.Locker
	factory  oncekit.Factory[T]

	// mu serializes Acquire and Release within this process.
	mu   sync.Mutex
	held bool
}

// New creates a cluster singleton named name. A nil codec defaults to
// storage.JSONCodec. factory runs only when the store holds no instance.
func New[T any](
	name string,
	store storage.Store,
	locker storage.Locker,
	codec storage.Codec[T],
	factory oncekit.Factory[T],
	opts ...oncekit.Option,
) *Singleton[T] {
	opts = append([]oncekit.Option{oncekit.WithName(name)}, opts...)
	return &Singleton[T]{
		name:     name,
		settings: oncekit.ResolveOptions(opts...),
		holder:   oncekit.New[T](opts...),
		storage:  storage.NewTyped(store, name, codec),
		locker:   locker,
		factory:  factory,
	}
}

// Acquire takes the cluster lock and returns the instance, loading it from
// the store or constructing it. While this process holds the lock, further
// calls return the same instance without touching the lock or the store.
func (c *Singleton[T]) Acquire(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held {
		if v, ok := c.holder.Get(); ok {
			return v, nil
		}
	}

	var zero T
	if err := c.locker.Lock(ctx, c.name); err != nil {
		observability.LogStorageError(c.settings.Logger, c.name, "lock", err)
		return zero, fmt.Errorf("lock %s: %w", c.name, err)
	}

	v, err := c.holder.GetOrInitContext(ctx, c.loadOrConstruct)
	if err != nil {
		if uerr := c.locker.Unlock(ctx, c.name); uerr != nil {
			observability.LogStorageError(c.settings.Logger, c.name, "unlock", uerr)
			err = errors.Join(err, fmt.Errorf("unlock %s: %w", c.name, uerr))
		}
		return zero, err
	}

	c.held = true
	return v, nil
}

func (c *Singleton[T]) loadOrConstruct(ctx context.Context) (T, error) {
	v, found, err := c.storage.Load(ctx)
	if err != nil {
		observability.LogStorageError(c.settings.Logger, c.name, "load", err)
		var zero T
		return zero, fmt.Errorf("load: %w", err)
	}
	observability.LogStorageLoad(c.settings.Logger, c.name, found)
	if found {
		return v, nil
	}
	return c.factory(ctx)
}

// Release saves the instance, drops it locally and releases the cluster
// lock. If saving fails nothing is released, so the caller may retry.
func (c *Singleton[T]) Release(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.held {
		return ErrNotAcquired
	}

	if v, ok := c.holder.Get(); ok {
		if err := c.storage.Save(ctx, v); err != nil {
			observability.LogStorageError(c.settings.Logger, c.name, "save", err)
			return fmt.Errorf("save %s: %w", c.name, err)
		}
	}

	c.holder.Reset()
	c.held = false

	if err := c.locker.Unlock(ctx, c.name); err != nil {
		observability.LogStorageError(c.settings.Logger, c.name, "unlock", err)
		return fmt.Errorf("unlock %s: %w", c.name, err)
	}
	return nil
}

// Held reports whether this process currently owns the instance.
func (c *Singleton[T]) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}
