package oncekit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/oncekit/pkg/oncekit/config"
)

type paramInstance[T any, P comparable] struct {
	value  T
	params P
}

// ParamSingleton is a singleton whose constructor takes explicit parameters.
// It must be initialized with Init or InitGraceful before Get.
type ParamSingleton[T any, P comparable] struct {
	cfg     settings
	factory func(P) (T, error)

	instance atomic.Pointer[paramInstance[T, P]]
	mu       sync.Mutex
}

// NewParam creates an uninitialized parameterized singleton.
func NewParam[T any, P comparable](factory func(P) (T, error), opts ...Option) *ParamSingleton[T, P] {
	return &ParamSingleton[T, P]{
		cfg:     newSettings(opts),
		factory: factory,
	}
}

// Init constructs the instance from params. It fails with
// ErrAlreadyInitialized if the holder is already initialized, whatever the
// parameters.
func (p *ParamSingleton[T, P]) Init(params P) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.instance.Load() != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", p.cfg.name, ErrAlreadyInitialized)
	}
	return p.initLocked(params)
}

// InitGraceful constructs the instance from params. If the holder is already
// initialized with equal params it returns the existing instance; with
// different params it fails with a *ParameterConflictError.
func (p *ParamSingleton[T, P]) InitGraceful(params P) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if inst := p.instance.Load(); inst != nil {
		if inst.params != params {
			var zero T
			return zero, &ParameterConflictError{
				Name:      p.cfg.name,
				Existing:  inst.params,
				Requested: params,
			}
		}
		return inst.value, nil
	}
	return p.initLocked(params)
}

// InitFromConfig decodes parameters from cfg and calls InitGraceful.
func (p *ParamSingleton[T, P]) InitFromConfig(cfg config.Config, decode func(config.Config) (P, error)) (T, error) {
	params, err := decode(cfg)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: decode parameters: %w", p.cfg.name, err)
	}
	return p.InitGraceful(params)
}

func (p *ParamSingleton[T, P]) initLocked(params P) (T, error) {
	value, err := construct(context.Background(), &p.cfg, func(context.Context) (T, error) {
		return p.factory(params)
	})
	if err != nil {
		return value, err
	}
	p.instance.Store(&paramInstance[T, P]{value: value, params: params})
	return value, nil
}

// Get returns the instance, or ErrNotInitialized before a successful Init.
func (p *ParamSingleton[T, P]) Get() (T, error) {
	if inst := p.instance.Load(); inst != nil {
		return inst.value, nil
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", p.cfg.name, ErrNotInitialized)
}

// Params returns the parameters the instance was built with.
func (p *ParamSingleton[T, P]) Params() (P, bool) {
	if inst := p.instance.Load(); inst != nil {
		return inst.params, true
	}
	var zero P
	return zero, false
}
