package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec converts instances to and from bytes.
type Codec[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// JSONCodec encodes instances as JSON.
type JSONCodec[T any] struct{}

// Marshal implements Codec.
func (JSONCodec[T]) Marshal(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec.
func (JSONCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// YAMLCodec encodes instances as YAML, for stores that humans inspect.
type YAMLCodec[T any] struct{}

// Marshal implements Codec.
func (YAMLCodec[T]) Marshal(v T) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal implements Codec.
func (YAMLCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := yaml.Unmarshal(data, &v)
	return v, err
}

// Typed binds a Store, a name and a Codec into the save/load capability a
// single holder needs.
type Typed[T any] struct {
	store Store
	name  string
	codec Codec[T]
}

// NewTyped creates a typed view of store under name.
// A nil codec defaults to JSONCodec.
func NewTyped[T any](store Store, name string, codec Codec[T]) *Typed[T] {
	if codec == nil {
		codec = JSONCodec[T]{}
	}
	return &Typed[T]{store: store, name: name, codec: codec}
}

// Name returns the storage name.
func (t *Typed[T]) Name() string {
	return t.name
}

// Save encodes and stores v.
func (t *Typed[T]) Save(ctx context.Context, v T) error {
	data, err := t.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.name, err)
	}
	return t.store.Save(ctx, t.name, data)
}

// Load returns the stored instance. The bool is false, with a nil error,
// when nothing is stored.
func (t *Typed[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	data, err := t.store.Load(ctx, t.name)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	v, err := t.codec.Unmarshal(data)
	if err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", t.name, err)
	}
	return v, true, nil
}
