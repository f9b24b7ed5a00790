// Package scope supplies the outer variables a default expression may read besides the
// invocant and earlier parameters.
package scope

import (
	"context"
	"errors"
)

var (
	ErrEmptyContextKey = errors.New("context key is empty")
	ErrInvalidData     = errors.New("invalid scope data")
	ErrUndeclaredName  = errors.New("name is not declared by the provider")
)

// ContextKey is the type of keys under which a ContextProvider stores its data.
type ContextKey string

// Provider is the source of outer variables for default expressions.
type Provider interface {
	// Names lists the variables the provider may return. Default expressions are checked
	// against these names when a signature is compiled.
	Names() []string

	// GetData returns the variables for one call.
	GetData(ctx context.Context) (map[string]any, error)
}
