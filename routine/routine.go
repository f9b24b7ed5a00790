// Package routine pairs a compiled signature with a body, so the body receives its
// parameters already bound.
package routine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/robbyt/go-sigil"
	"github.com/robbyt/go-sigil/options"
	"github.com/robbyt/go-sigil/plan"
)

// Body is the code of a routine. b holds its bound parameters.
type Body func(ctx context.Context, b *plan.Bindings) (any, error)

// Routine is a callable body with a signature. It is safe for concurrent use when its body is.
type Routine struct {
	name string
	plan *plan.Plan
	body Body
}

// New compiles signature for the routine called name. name appears in call errors.
func New(name, signature string, body Body, opts ...options.Option) (*Routine, error) {
	return build(sigil.Compile, name, signature, body, opts)
}

// NewMethod is New for a method whose first argument is its invocant.
func NewMethod(name, signature string, body Body, opts ...options.Option) (*Routine, error) {
	return build(sigil.CompileMethod, name, signature, body, opts)
}

func build(
	compile func(string, ...options.Option) (*plan.Plan, error),
	name, signature string,
	body Body,
	opts []options.Option,
) (*Routine, error) {
	if body == nil {
		return nil, errors.New("routine body cannot be nil")
	}
	opts = append(slices.Clone(opts), options.WithName(name))
	p, err := compile(signature, opts...)
	if err != nil {
		return nil, fmt.Errorf("routine %s: %w", name, err)
	}
	return &Routine{name: name, plan: p, body: body}, nil
}

func (r *Routine) Name() string { return r.name }

func (r *Routine) Plan() *plan.Plan { return r.plan }

func (r *Routine) String() string {
	return fmt.Sprintf("%s(%s)", r.name, r.plan.Model().String())
}

// Call binds args and runs the body. Binding errors are *plan.CallError values naming the
// line Call was made from.
func (r *Routine) Call(args ...any) (any, error) {
	return r.call(context.Background(), plan.CallSite(0), args)
}

// CallContext is Call with a context, passed to default expressions and the body.
func (r *Routine) CallContext(ctx context.Context, args ...any) (any, error) {
	return r.call(ctx, plan.CallSite(0), args)
}

func (r *Routine) call(ctx context.Context, site plan.Site, args []any) (any, error) {
	b, err := r.plan.BindAt(ctx, site, args)
	if err != nil {
		return nil, err
	}
	return r.body(ctx, b)
}
