package scope

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// ContextProvider reads per-call variables stored in the context under a key. The names it
// may return are declared up front, since the values only exist once a call is made.
type ContextProvider struct {
	contextKey ContextKey
	names      []string
}

// NewContextProvider creates a new ContextProvider with the given context key and the
// variable names callers will store.
func NewContextProvider(contextKey ContextKey, names ...string) *ContextProvider {
	return &ContextProvider{
		contextKey: contextKey,
		names:      slices.Clone(names),
	}
}

func (p *ContextProvider) Names() []string {
	return slices.Clone(p.names)
}

// GetData extracts the variables from the context. A context carrying no data yields an
// empty map; keys that were not declared are dropped.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, ErrEmptyContextKey
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}

	stored, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map[string]any, got %T", ErrInvalidData, value)
	}

	out := make(map[string]any, len(p.names))
	for _, name := range p.names {
		if v, ok := stored[name]; ok {
			out[name] = v
		}
	}
	return out, nil
}

// AddDataToContext stores variables in the context for later calls. Data already stored
// under the same key is kept, with new values winning. Every key must be declared.
//
// Example:
//
//	provider := NewContextProvider("request", "user", "now")
//	ctx, err := provider.AddDataToContext(ctx, map[string]any{"user": "admin"})
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrEmptyContextKey
	}

	for k := range data {
		if !slices.Contains(p.names, k) {
			return ctx, fmt.Errorf("%w: %q", ErrUndeclaredName, k)
		}
	}

	toStore := make(map[string]any, len(data))
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}
	maps.Copy(toStore, data)

	return context.WithValue(ctx, p.contextKey, toStore), nil
}
