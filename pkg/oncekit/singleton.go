package oncekit

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
)

// State is the lifecycle state of a holder.
type State int

const (
	// StateUninitialized means no instance is stored and no construction is running.
	StateUninitialized State = iota
	// StateInitializing means a factory invocation is in flight.
	StateInitializing
	// StateReady means an instance is stored.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Factory constructs an instance. The context is the one passed by the
// caller that won the construction race.
type Factory[T any] func(ctx context.Context) (T, error)

// attempt is one in-flight construction. done is closed after value and err
// are written, so every waiter that observes the close also observes them.
type attempt[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Singleton holds at most one instance of T, constructed on first use.
//
// The zero value is not usable; create holders with New, Eager or MustEager.
type Singleton[T any] struct {
	cfg settings

	// instance is non-nil exactly when the state is StateReady.
	instance atomic.Pointer[T]

	mu       sync.Mutex
	state    State
	inflight *attempt[T]
}

// New creates an uninitialized holder.
func New[T any](opts ...Option) *Singleton[T] {
	return &Singleton[T]{cfg: newSettings(opts)}
}

// Eager creates a holder and runs factory immediately, before any caller can
// reach it. Later GetOrInit calls return the stored instance without calling
// their factory.
func Eager[T any](factory func() (T, error), opts ...Option) (*Singleton[T], error) {
	s := New[T](opts...)
	if _, err := s.GetOrInit(factory); err != nil {
		return nil, err
	}
	return s, nil
}

// MustEager is like Eager but panics if factory fails. It is intended for
// package-level constants:
//
//	var ids = oncekit.MustEager(func() (*Counter, error) { return &Counter{}, nil })
func MustEager[T any](factory func() (T, error), opts ...Option) *Singleton[T] {
	s, err := Eager(factory, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the holder name.
func (s *Singleton[T]) Name() string {
	return s.cfg.name
}

// GetOrInit returns the stored instance, constructing it with factory if
// the holder is uninitialized.
func (s *Singleton[T]) GetOrInit(factory func() (T, error)) (T, error) {
	return s.GetOrInitContext(context.Background(), func(context.Context) (T, error) {
		return factory()
	})
}

// GetOrInitContext returns the stored instance, constructing it with factory
// if the holder is uninitialized.
//
// Exactly one caller runs factory; concurrent callers block until it finishes
// and receive the same instance or the same error. A failed construction
// leaves the holder uninitialized so a later call retries. A waiting caller
// returns ctx.Err() if ctx is done first; the construction itself continues.
func (s *Singleton[T]) GetOrInitContext(ctx context.Context, factory Factory[T]) (T, error) {
	if s.cfg.policy == PolicyDoubleChecked {
		if p := s.instance.Load(); p != nil {
			return *p, nil
		}
	}

	s.mu.Lock()
	if p := s.instance.Load(); p != nil {
		s.mu.Unlock()
		return *p, nil
	}
	if a := s.inflight; a != nil {
		s.mu.Unlock()
		return s.wait(ctx, a)
	}
	a := &attempt[T]{done: make(chan struct{})}
	s.inflight = a
	s.state = StateInitializing
	s.mu.Unlock()

	value, err := construct(ctx, &s.cfg, factory)

	s.mu.Lock()
	if err != nil {
		s.state = StateUninitialized
	} else {
		s.instance.Store(&value)
		s.state = StateReady
	}
	s.inflight = nil
	a.value, a.err = value, err
	close(a.done)
	s.mu.Unlock()

	return value, err
}

func (s *Singleton[T]) wait(ctx context.Context, a *attempt[T]) (T, error) {
	start := time.Now()
	defer func() {
		s.cfg.metrics.RecordWait(ctx, s.cfg.name, time.Since(start))
	}()

	select {
	case <-a.done:
		return a.value, a.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get returns the stored instance without blocking or constructing.
func (s *Singleton[T]) Get() (T, bool) {
	if s.cfg.policy == PolicyLocked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if p := s.instance.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// State returns the current lifecycle state.
func (s *Singleton[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset releases the stored instance and returns the holder to
// StateUninitialized. It returns the released instance, or false if the
// holder was not ready. A construction in flight is not affected.
func (s *Singleton[T]) Reset() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.instance.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	s.instance.Store(nil)
	s.state = StateUninitialized
	observability.LogReset(s.cfg.logger, s.cfg.name)
	return *p, true
}

// construct runs factory with logging, metrics, tracing and panic recovery.
// Any failure is returned as a *ConstructionError.
func construct[T any](ctx context.Context, cfg *settings, factory Factory[T]) (value T, err error) {
	ctx, span := cfg.spans.StartConstructSpan(ctx, cfg.name)
	observability.LogConstructStart(cfg.logger, cfg.name)
	elapsed := observability.TimedOperation()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &ConstructionError{Name: cfg.name, PanicValue: r, Stack: string(debug.Stack())}
		}

		cfg.metrics.RecordConstruction(ctx, cfg.name, time.Since(start), err)
		cfg.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogConstructError(cfg.logger, cfg.name, err, elapsed())
		} else {
			observability.LogConstructComplete(cfg.logger, cfg.name, elapsed())
		}
	}()

	value, err = factory(ctx)
	if err != nil {
		var zero T
		return zero, &ConstructionError{Name: cfg.name, Err: err}
	}
	return value, nil
}
