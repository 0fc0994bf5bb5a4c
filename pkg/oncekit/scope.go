package oncekit

import (
	"context"

	"github.com/google/uuid"
)

type scopeKey struct{}

// WithScope returns a context carrying a new scope identity. A scope stands
// in for a thread of execution: per-scope registries hand out one instance
// per scope ID. Call it once at the top of each goroutine or request.
func WithScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey{}, uuid.New().String())
}

// WithScopeID returns a context carrying the given scope identity.
func WithScopeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, scopeKey{}, id)
}

// ScopeID returns the scope identity carried by ctx.
func ScopeID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(scopeKey{}).(string)
	return id, ok && id != ""
}
