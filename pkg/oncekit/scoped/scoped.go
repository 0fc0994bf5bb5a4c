// Package scoped hands out one instance per scope of execution.
//
// Go does not expose goroutine identity, so a scope is an ID carried in a
// context.Context (see oncekit.WithScope). Each goroutine or request that
// wants its own instance starts a scope; everything called with that context
// shares the scope's instance.
//
//	ids := scoped.New[*IDGenerator]()
//
//	go func() {
//	    ctx := oncekit.WithScope(ctx)
//	    defer ids.Release(ctx)
//	    gen, err := ids.GetForCurrentContext(ctx, NewIDGenerator)
//	    ...
//	}()
package scoped

import (
	"context"
	"slices"
	"sync"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
)

// Registry maps scope IDs to instances.
type Registry[T any] struct {
	settings oncekit.Settings
	opts     []oncekit.Option

	mu      sync.RWMutex
	entries map[string]*oncekit.Singleton[T]
}

// New creates an empty scoped registry.
func New[T any](opts ...oncekit.Option) *Registry[T] {
	return &Registry[T]{
		settings: oncekit.ResolveOptions(opts...),
		opts:     opts,
		entries:  make(map[string]*oncekit.Singleton[T]),
	}
}

func (r *Registry[T]) entry(id string) *oncekit.Singleton[T] {
	r.mu.RLock()
	s, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.entries[id]; ok {
		return s
	}
	s = oncekit.New[T](append(slices.Clone(r.opts), oncekit.WithName(r.settings.Name+"@"+id))...)
	r.entries[id] = s
	return s
}

// GetForCurrentContext returns the instance for the scope carried by ctx,
// constructing it with factory on the scope's first request.
// Returns oncekit.ErrNoScope if ctx carries no scope.
func (r *Registry[T]) GetForCurrentContext(ctx context.Context, factory func() (T, error)) (T, error) {
	id, ok := oncekit.ScopeID(ctx)
	if !ok {
		var zero T
		return zero, oncekit.ErrNoScope
	}
	return r.entry(id).GetOrInitContext(ctx, func(context.Context) (T, error) {
		return factory()
	})
}

// Peek returns the instance for the scope carried by ctx, if constructed.
func (r *Registry[T]) Peek(ctx context.Context) (T, bool) {
	var zero T
	id, ok := oncekit.ScopeID(ctx)
	if !ok {
		return zero, false
	}
	r.mu.RLock()
	s, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return zero, false
	}
	return s.Get()
}

// Release drops the instance for the scope carried by ctx. It reports
// whether an entry existed. Callers still holding the instance keep it; the
// next request in the same scope constructs a new one.
func (r *Registry[T]) Release(ctx context.Context) bool {
	id, ok := oncekit.ScopeID(ctx)
	if !ok {
		return false
	}

	r.mu.Lock()
	_, ok = r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if ok {
		observability.LogReset(r.settings.Logger, r.settings.Name+"@"+id)
	}
	return ok
}

// Len returns the number of live scopes.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
