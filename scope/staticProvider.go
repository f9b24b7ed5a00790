package scope

import (
	"context"
	"maps"
	"slices"
)

// StaticProvider returns the same variables on every call. It's useful for constants shared
// by many defaults, and in tests.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a new StaticProvider with the provided data map
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{
		data: maps.Clone(data),
	}
}

func (p *StaticProvider) Names() []string {
	return slices.Sorted(maps.Keys(p.data))
}

// GetData returns a clone of the static data so callers cannot modify the original.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}
