package storage

import (
	"context"
	"sync"
)

// Locker provides named mutual exclusion, typically across processes.
type Locker interface {
	// Lock blocks until name is acquired or ctx is done.
	Lock(ctx context.Context, name string) error

	// Unlock releases name. Returns ErrNotLocked if it is not held.
	Unlock(ctx context.Context, name string) error
}

// LocalLocker is an in-process Locker. Each name is a one-slot semaphore, so
// a blocked Lock can be abandoned through its context.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// Compile-time interface check.
var _ Locker = (*LocalLocker)(nil)

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		slots: make(map[string]chan struct{}),
	}
}

func (l *LocalLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[name] = ch
	}
	return ch
}

// Lock implements Locker.
func (l *LocalLocker) Lock(ctx context.Context, name string) error {
	select {
	case l.slot(name) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock implements Locker.
func (l *LocalLocker) Unlock(_ context.Context, name string) error {
	select {
	case <-l.slot(name):
		return nil
	default:
		return ErrNotLocked
	}
}
