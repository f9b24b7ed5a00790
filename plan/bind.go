package plan

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/robbyt/go-sigil/signature"
)

// Bind binds args for a call made by the function calling Bind. Call errors name that
// function and the file and line it was called from.
//
// Aliased parameters point into args, so a caller that spreads its own slice with args...
// sees writes made through them.
func (p *Plan) Bind(args ...any) (*Bindings, error) {
	return p.BindAt(context.Background(), CallSite(1), args)
}

// BindContext is Bind with a context for default expressions and the scope provider.
func (p *Plan) BindContext(ctx context.Context, args ...any) (*Bindings, error) {
	return p.BindAt(ctx, CallSite(1), args)
}

// BindAt binds args, attributing call errors to site. Binding is all or nothing: no default
// is evaluated unless every argument check passes.
func (p *Plan) BindAt(ctx context.Context, site Site, args []any) (*Bindings, error) {
	if p.name != "" {
		site.Routine = p.name
	}
	logger := p.logger.WithGroup("bind")
	logger.DebugContext(ctx, "Binding arguments", "routine", site.Routine, "count", len(args))

	call := &call{plan: p, ctx: ctx, site: site}
	if err := call.check(args); err != nil {
		logger.DebugContext(ctx, "Binding failed", "error", err)
		return nil, err
	}
	b, err := call.bind()
	if err != nil {
		logger.DebugContext(ctx, "Binding failed", "error", err)
		return nil, err
	}
	return b, nil
}

// call is the state of one Bind.
type call struct {
	plan *Plan
	ctx  context.Context
	site Site

	args []any
	rest []any
	// named maps each named key to its offset in rest. The value follows the key.
	named map[string]int
	vars  map[string]any
}

func (c *call) fail(kind error, param string, err error) *CallError {
	return &CallError{Kind: kind, Site: c.site, Param: param, Err: err}
}

// check validates the argument list against every step without binding anything.
func (c *call) check(args []any) error {
	c.args = args
	c.rest = args

	for _, step := range c.plan.steps {
		switch step.Kind {
		case BindInvocant:
			if len(args) == 0 {
				return c.fail(ErrMissingArgument, step.Param.Var(), nil)
			}
			c.rest = args[1:]

		case BindPositional:
			if step.Index >= len(c.rest) {
				if step.Required {
					return c.fail(ErrMissingArgument, step.Param.Display(), nil)
				}
				continue
			}
			if step.Param.RefAlias {
				if err := checkRef(step.Param, c.rest[step.Index]); err != nil {
					return c.fail(ErrNotAReference, step.Param.Display(), err)
				}
			}

		case BindSlurpy:
			if step.Param.Sigil == signature.Hash && step.Index < len(c.rest) {
				if _, err := pairs(c.rest[step.Index:]); err != nil {
					return c.fail(ErrMalformedNamedArguments, step.Param.Display(), err)
				}
			}

		case CollectNamed:
			tail := c.rest[min(step.Index, len(c.rest)):]
			offsets, err := pairs(tail)
			if err != nil {
				return c.fail(ErrMalformedNamedArguments, "", err)
			}
			c.named = make(map[string]int, len(offsets))
			for key, off := range offsets {
				c.named[key] = step.Index + off
			}

		case BindNamed:
			off, ok := c.named[step.Param.Name]
			if !ok {
				if step.Required {
					return c.fail(ErrMissingArgument, step.Param.Display(), nil)
				}
				continue
			}
			if step.Param.RefAlias {
				if err := checkRef(step.Param, c.rest[off+1]); err != nil {
					return c.fail(ErrNotAReference, step.Param.Display(), err)
				}
			}

		case RejectUnknown:
			if err := c.rejectUnknown(); err != nil {
				return err
			}
		}
	}

	if c.plan.strictArity && !c.plan.model.HasNamed() && c.plan.model.SlurpyCount() == 0 &&
		len(c.rest) > c.plan.positional {
		return c.fail(ErrTooManyArguments, "", fmt.Errorf(
			"expected at most %d, got %d", c.plan.positional, len(c.rest)))
	}
	return nil
}

// rejectUnknown reports named keys no parameter claimed, in the order they were passed.
func (c *call) rejectUnknown() error {
	var unknown []string
	for i := c.plan.positional; i+1 < len(c.rest); i += 2 {
		key := c.rest[i].(string)
		if slices.Contains(c.plan.named, key) || slices.Contains(unknown, key) {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) == 0 {
		return nil
	}

	err := c.fail(ErrUnexpectedNamedArgument, "", nil)
	err.Keys = unknown
	if len(unknown) == 1 {
		if match := closestName(unknown[0], c.plan.named); match != "" {
			err.Suggestion = ":" + match
		}
	}
	return err
}

// bind performs the bindings once check has passed.
func (c *call) bind() (*Bindings, error) {
	b := newBindings(c.rest, len(c.plan.steps))

	for _, step := range c.plan.steps {
		var (
			bnd *binding
			err error
		)
		switch step.Kind {
		case BindInvocant:
			b.invocant, b.hasInv = c.args[0], true
			bnd = &binding{param: step.Param, value: c.args[0], supplied: true}

		case BindPositional:
			bnd, err = c.bindScalar(step, step.Index, step.Index < len(c.rest), b)

		case BindSlurpy:
			bnd = c.bindSlurpy(step)

		case BindNamed:
			off, ok := c.named[step.Param.Name]
			bnd, err = c.bindScalar(step, off+1, ok, b)

		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		b.add(step.Param.Name, bnd)
	}
	return b, nil
}

// bindScalar binds the single argument at rest[i], or the default when present is false.
func (c *call) bindScalar(step Step, i int, present bool, b *Bindings) (*binding, error) {
	bnd := &binding{param: step.Param, mode: step.Mode, supplied: present}

	var value any
	switch {
	case present:
		value = c.rest[i]
	case step.Default != nil && !step.Param.Required:
		v, err := c.evalDefault(step, b)
		if err != nil {
			return nil, err
		}
		value = v
	}

	switch step.Mode {
	case Alias:
		switch {
		case present && step.Param.RefAlias:
			bnd.ref = reflect.ValueOf(value)
		case present:
			bnd.ref = reflect.ValueOf(&c.rest[i])
		default:
			bnd.ref = freshRef(value)
		}
	default:
		if present && step.Param.RefAlias {
			value = reflect.ValueOf(value).Elem().Interface()
		}
		bnd.value = cloneValue(value)
	}
	return bnd, nil
}

// bindSlurpy binds every argument from the step's index on.
func (c *call) bindSlurpy(step Step) *binding {
	var tail []any
	if step.Index < len(c.rest) {
		tail = c.rest[step.Index:]
	}
	bnd := &binding{param: step.Param, mode: step.Mode, supplied: len(tail) > 0}

	if step.Param.Sigil == signature.Hash {
		hash := make(map[string]any, len(tail)/2)
		for i := 0; i+1 < len(tail); i += 2 {
			hash[tail[i].(string)] = tail[i+1]
		}
		bnd.value = hash
		if bnd.mode == Alias {
			// Pairs are gathered into a new map, so there is no caller storage to share.
			bnd.mode = Copy
		}
		return bnd
	}

	switch step.Mode {
	case Alias:
		if tail == nil {
			tail = []any{}
		}
		bnd.value = tail
		bnd.shared = true
	default:
		list := make([]any, len(tail))
		copy(list, tail)
		bnd.value = list
	}
	return bnd
}

func (c *call) evalDefault(step Step, b *Bindings) (any, error) {
	if c.vars == nil {
		data, err := c.plan.scope.GetData(c.ctx)
		if err != nil {
			return nil, c.fail(ErrDefaultFailed, step.Param.Display(), fmt.Errorf("scope: %w", err))
		}
		c.vars = data
	}

	vars := make(map[string]any, len(c.vars)+len(b.order))
	for k, v := range c.vars {
		vars[k] = v
	}
	for _, name := range b.order {
		vars[name] = b.vals[name].get()
	}

	v, err := step.Default.Eval(c.ctx, vars)
	if err != nil {
		return nil, c.fail(ErrDefaultFailed, step.Param.Display(), err)
	}
	return v, nil
}

// pairs reads a key/value list. It returns the offset of each key's value, later
// duplicates winning.
func pairs(tail []any) (map[string]int, error) {
	if len(tail)%2 != 0 {
		return nil, fmt.Errorf("odd number of elements in key/value list (%d)", len(tail))
	}
	out := make(map[string]int, len(tail)/2)
	for i := 0; i < len(tail); i += 2 {
		key, ok := tail[i].(string)
		if !ok {
			return nil, fmt.Errorf("key at position %d is %T, not a string", i, tail[i])
		}
		out[key] = i
	}
	return out, nil
}

// checkRef verifies v can back a reference-alias parameter.
func checkRef(d signature.Descriptor, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("expected a non-nil pointer, got %T", v)
	}
	switch elem := rv.Elem().Kind(); d.Sigil {
	case signature.Array:
		if elem != reflect.Slice && elem != reflect.Array {
			return fmt.Errorf("expected a pointer to a slice, got %T", v)
		}
	case signature.Hash:
		if elem != reflect.Map {
			return fmt.Errorf("expected a pointer to a map, got %T", v)
		}
	}
	return nil
}
