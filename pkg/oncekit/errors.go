package oncekit

import (
	"errors"
	"fmt"
)

// Sentinel errors for holder state contracts.
var (
	// ErrNotInitialized indicates Get was called before Init.
	ErrNotInitialized = errors.New("instance not initialized")

	// ErrAlreadyInitialized indicates Init was called on an initialized holder.
	ErrAlreadyInitialized = errors.New("instance already initialized")

	// ErrParameterConflict indicates a second Init with different parameters.
	ErrParameterConflict = errors.New("instance initialized with different parameters")

	// ErrConstructionFailed indicates the factory returned an error or panicked.
	// The holder is left uninitialized, so a later call may retry.
	ErrConstructionFailed = errors.New("instance construction failed")
)

// Sentinel errors for lookups.
var (
	// ErrKeyNotFound indicates a lookup of a key outside a fixed population.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotFound indicates a random selection over an empty set.
	ErrNotFound = errors.New("no instances available")

	// ErrNoScope indicates the context carries no scope identity.
	ErrNoScope = errors.New("context has no scope")
)

// ConstructionError wraps a failed factory invocation.
type ConstructionError struct {
	// Name identifies the holder.
	Name string
	// Err is the error returned by the factory, nil if it panicked.
	Err error
	// PanicValue is the value passed to panic(), if the factory panicked.
	PanicValue any
	// Stack is the stack trace captured at the panic.
	Stack string
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.PanicValue != nil {
		return fmt.Sprintf("construct %s: factory panicked: %v", e.Name, e.PanicValue)
	}
	return fmt.Sprintf("construct %s: %v", e.Name, e.Err)
}

// Unwrap returns the factory error for errors.Is/As support.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Is reports ErrConstructionFailed as a match.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstructionFailed
}

// ParameterConflictError reports the parameters a holder was initialized with
// alongside the ones a later caller requested.
type ParameterConflictError struct {
	Name      string
	Existing  any
	Requested any
}

// Error implements the error interface.
func (e *ParameterConflictError) Error() string {
	return fmt.Sprintf("%s: initialized with %v, requested %v", e.Name, e.Existing, e.Requested)
}

// Unwrap returns ErrParameterConflict for errors.Is support.
func (e *ParameterConflictError) Unwrap() error {
	return ErrParameterConflict
}

// KeyNotFoundError reports a key missing from a fixed population.
type KeyNotFoundError struct {
	Key any
}

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %v not found", e.Key)
}

// Unwrap returns ErrKeyNotFound for errors.Is support.
func (e *KeyNotFoundError) Unwrap() error {
	return ErrKeyNotFound
}
