package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
)

// Fixed is a registry whose population is set at construction and never
// changes, such as a pool of backend servers. Lookups of unknown keys fail
// instead of constructing new entries. It is safe for concurrent use without
// locking because nothing is written after construction.
type Fixed[K comparable, T any] struct {
	settings oncekit.Settings
	keys     []K
	entries  map[K]T
}

// NewFixed creates a fixed registry from already built instances.
func NewFixed[K comparable, T any](entries map[K]T, opts ...oncekit.Option) *Fixed[K, T] {
	f := &Fixed[K, T]{
		settings: oncekit.ResolveOptions(opts...),
		keys:     make([]K, 0, len(entries)),
		entries:  make(map[K]T, len(entries)),
	}
	for k, v := range entries {
		f.keys = append(f.keys, k)
		f.entries[k] = v
	}
	return f
}

// NewFixedFrom builds every instance eagerly from keys. Construction stops at
// the first failure, which is returned.
func NewFixedFrom[K comparable, T any](keys []K, factory func(K) (T, error), opts ...oncekit.Option) (*Fixed[K, T], error) {
	f := &Fixed[K, T]{
		settings: oncekit.ResolveOptions(opts...),
		keys:     make([]K, 0, len(keys)),
		entries:  make(map[K]T, len(keys)),
	}
	for _, k := range keys {
		if _, dup := f.entries[k]; dup {
			continue
		}
		s, err := oncekit.Eager(func() (T, error) { return factory(k) },
			append(slices.Clone(opts), oncekit.WithName(fmt.Sprintf("%s[%v]", f.settings.Name, k)))...)
		if err != nil {
			return nil, err
		}
		v, _ := s.Get()
		f.keys = append(f.keys, k)
		f.entries[k] = v
	}
	return f, nil
}

// Get returns the instance for key, or a *oncekit.KeyNotFoundError.
func (f *Fixed[K, T]) Get(key K) (T, error) {
	v, ok := f.entries[key]
	f.settings.Metrics.RecordLookup(context.Background(), f.settings.Name, ok)
	if !ok {
		var zero T
		return zero, &oncekit.KeyNotFoundError{Key: key}
	}
	return v, nil
}

// GetRandom returns a uniformly random member of the pool.
// Returns oncekit.ErrNotFound if the pool is empty.
func (f *Fixed[K, T]) GetRandom() (T, error) {
	values := make([]T, len(f.keys))
	for i, k := range f.keys {
		values[i] = f.entries[k]
	}
	return pick(values)
}

// Keys returns the pool keys in construction order.
func (f *Fixed[K, T]) Keys() []K {
	out := make([]K, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the pool size.
func (f *Fixed[K, T]) Len() int {
	return len(f.keys)
}
