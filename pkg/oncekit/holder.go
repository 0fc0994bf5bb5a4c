package oncekit

import "context"

// Holder binds a factory to a Singleton at declaration time. The instance is
// built on the first Get, behind the holder's own initialization barrier, so
// declaring a Holder costs nothing until it is used.
//
//	var config = oncekit.NewHolder(loadConfig, oncekit.WithName("config"))
//
//	func handler() {
//	    cfg, err := config.Get()
//	    ...
//	}
type Holder[T any] struct {
	s       *Singleton[T]
	factory Factory[T]
}

// NewHolder creates a Holder for factory.
func NewHolder[T any](factory func() (T, error), opts ...Option) *Holder[T] {
	return &Holder[T]{
		s: New[T](opts...),
		factory: func(context.Context) (T, error) {
			return factory()
		},
	}
}

// NewHolderContext creates a Holder for a context-aware factory.
func NewHolderContext[T any](factory Factory[T], opts ...Option) *Holder[T] {
	return &Holder[T]{
		s:       New[T](opts...),
		factory: factory,
	}
}

// Get returns the instance, constructing it on first use.
func (h *Holder[T]) Get() (T, error) {
	return h.s.GetOrInitContext(context.Background(), h.factory)
}

// GetContext is Get with a context for the factory and for waiting.
func (h *Holder[T]) GetContext(ctx context.Context) (T, error) {
	return h.s.GetOrInitContext(ctx, h.factory)
}

// MustGet is like Get but panics if construction fails.
func (h *Holder[T]) MustGet() T {
	v, err := h.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// State returns the current lifecycle state.
func (h *Holder[T]) State() State {
	return h.s.State()
}
