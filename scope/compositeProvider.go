package scope

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// CompositeProvider layers several providers. When two providers return the same name the
// later one wins.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider layers providers in the order given. Nil providers are skipped.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: slices.DeleteFunc(slices.Clone(providers), func(p Provider) bool { return p == nil }),
	}
}

// Names returns the sorted union of the names of every provider.
func (p *CompositeProvider) Names() []string {
	set := make(map[string]struct{})
	for _, provider := range p.providers {
		for _, name := range provider.Names() {
			set[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// GetData merges the variables of every layer.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, provider := range p.providers {
		layer, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		maps.Copy(merged, layer)
	}
	return merged, nil
}

// AddDataToContext stores each variable with every ContextProvider layer that declares it.
// A variable no such layer declares fails with ErrUndeclaredName and the context is returned
// unchanged.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data map[string]any,
) (context.Context, error) {
	routed := make(map[*ContextProvider]map[string]any)
	var errs []error
	for k, v := range data {
		claimed := false
		for _, provider := range p.providers {
			cp, ok := provider.(*ContextProvider)
			if !ok || !slices.Contains(cp.names, k) {
				continue
			}
			if routed[cp] == nil {
				routed[cp] = make(map[string]any)
			}
			routed[cp][k] = v
			claimed = true
		}
		if !claimed {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUndeclaredName, k))
		}
	}
	if len(errs) > 0 {
		return ctx, errors.Join(errs...)
	}

	next := ctx
	for _, provider := range p.providers {
		cp, ok := provider.(*ContextProvider)
		if !ok || routed[cp] == nil {
			continue
		}
		var err error
		if next, err = cp.AddDataToContext(next, routed[cp]); err != nil {
			return ctx, err
		}
		delete(routed, cp)
	}
	return next, nil
}
