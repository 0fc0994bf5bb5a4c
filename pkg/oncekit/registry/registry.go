package registry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
)

// Registry holds one lazily constructed instance per key.
// The map is guarded by a sync.RWMutex; each key's construction runs on its
// own oncekit.Singleton, outside the map lock.
type Registry[K comparable, T any] struct {
	settings oncekit.Settings
	opts     []oncekit.Option

	mu      sync.RWMutex
	entries map[K]*oncekit.Singleton[T]
}

// New creates an empty registry. Options apply to every per-key holder;
// each holder is named "<registry name>[<key>]".
func New[K comparable, T any](opts ...oncekit.Option) *Registry[K, T] {
	return &Registry[K, T]{
		settings: oncekit.ResolveOptions(opts...),
		opts:     opts,
		entries:  make(map[K]*oncekit.Singleton[T]),
	}
}

// Name returns the registry name.
func (r *Registry[K, T]) Name() string {
	return r.settings.Name
}

// entry returns the holder for key, creating an empty one if needed.
func (r *Registry[K, T]) entry(key K) *oncekit.Singleton[T] {
	// Fast path: holder already exists
	r.mu.RLock()
	s, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := r.entries[key]; ok {
		return s
	}

	opts := append(slices.Clone(r.opts), oncekit.WithName(fmt.Sprintf("%s[%v]", r.settings.Name, key)))
	s = oncekit.New[T](opts...)
	r.entries[key] = s
	return s
}

// lookup returns the holder for key without creating one.
func (r *Registry[K, T]) lookup(key K) (*oncekit.Singleton[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.entries[key]
	return s, ok
}

// Get returns the instance for key, constructing it with factory on first
// request. The factory runs at most once per key at a time and never again
// once it has succeeded, even under concurrent access.
func (r *Registry[K, T]) Get(key K, factory func(K) (T, error)) (T, error) {
	return r.GetContext(context.Background(), key, func(_ context.Context, k K) (T, error) {
		return factory(k)
	})
}

// GetContext is Get with a context for the factory and for waiting.
func (r *Registry[K, T]) GetContext(ctx context.Context, key K, factory func(context.Context, K) (T, error)) (T, error) {
	s := r.entry(key)
	if v, ok := s.Get(); ok {
		r.settings.Metrics.RecordLookup(ctx, r.settings.Name, true)
		return v, nil
	}
	r.settings.Metrics.RecordLookup(ctx, r.settings.Name, false)
	return s.GetOrInitContext(ctx, func(ctx context.Context) (T, error) {
		return factory(ctx, key)
	})
}

// Peek returns the instance for key if it has been constructed.
func (r *Registry[K, T]) Peek(key K) (T, bool) {
	if s, ok := r.lookup(key); ok {
		return s.Get()
	}
	var zero T
	return zero, false
}

// Has returns true if an instance for key has been constructed.
func (r *Registry[K, T]) Has(key K) bool {
	_, ok := r.Peek(key)
	return ok
}

// snapshot returns the constructed entries at the time of the call.
func (r *Registry[K, T]) snapshot() ([]K, []T) {
	r.mu.RLock()
	holders := make(map[K]*oncekit.Singleton[T], len(r.entries))
	for k, s := range r.entries {
		holders[k] = s
	}
	r.mu.RUnlock()

	keys := make([]K, 0, len(holders))
	values := make([]T, 0, len(holders))
	for k, s := range holders {
		if v, ok := s.Get(); ok {
			keys = append(keys, k)
			values = append(values, v)
		}
	}
	return keys, values
}

// Keys returns the keys with constructed instances.
// The order is not guaranteed.
func (r *Registry[K, T]) Keys() []K {
	keys, _ := r.snapshot()
	return keys
}

// Len returns the number of constructed instances.
func (r *Registry[K, T]) Len() int {
	keys, _ := r.snapshot()
	return len(keys)
}

// Range calls fn for each constructed instance until fn returns false.
// It iterates over a snapshot, so fn may call Get on the registry.
func (r *Registry[K, T]) Range(fn func(K, T) bool) {
	keys, values := r.snapshot()
	for i := range keys {
		if !fn(keys[i], values[i]) {
			return
		}
	}
}

// GetRandom returns a uniformly random constructed instance.
// Returns oncekit.ErrNotFound if the registry is empty.
func (r *Registry[K, T]) GetRandom() (T, error) {
	_, values := r.snapshot()
	return pick(values)
}

// GetRandomOf returns a uniformly random constructed instance among keys.
// Keys without an instance are skipped. Returns oncekit.ErrNotFound if none
// of keys has one.
func (r *Registry[K, T]) GetRandomOf(keys []K) (T, error) {
	values := make([]T, 0, len(keys))
	for _, k := range keys {
		if v, ok := r.Peek(k); ok {
			values = append(values, v)
		}
	}
	return pick(values)
}

func pick[T any](values []T) (T, error) {
	if len(values) == 0 {
		var zero T
		return zero, oncekit.ErrNotFound
	}
	return values[rand.IntN(len(values))], nil
}
