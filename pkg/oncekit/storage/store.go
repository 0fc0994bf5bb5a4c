// Package storage provides the external capabilities a distributed-aware
// singleton depends on: a byte store for persisting instances between owners
// and a named lock for mutual exclusion.
//
// The interfaces are the seam for real coordination systems. The package ships
// an in-memory store, a SQLite store, and an in-process locker as reference
// implementations.
package storage

import (
	"context"
	"errors"
	"time"
)

// Store persists serialized instances by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data under name, replacing any previous value.
	Save(ctx context.Context, name string, data []byte) error

	// Load retrieves the data stored under name.
	// Returns ErrNotFound if nothing is stored.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns metadata for every stored name, ordered by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes name. Returns nil if it doesn't exist.
	Delete(ctx context.Context, name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the data.
type Info struct {
	Name      string
	Version   int
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for storage operations.
var (
	// ErrNotFound indicates nothing is stored under the name.
	ErrNotFound = errors.New("stored instance not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")

	// ErrNotLocked indicates Unlock was called on a lock that is not held.
	ErrNotLocked = errors.New("lock not held")
)
