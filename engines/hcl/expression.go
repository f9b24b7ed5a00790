package hcl

import (
	"context"
	"fmt"
	"log/slog"

	hclLib "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

type expression struct {
	src       string
	expr      hclsyntax.Expression
	visible   []string
	functions map[string]function.Function
	logger    *slog.Logger
}

func (e *expression) String() string {
	return e.src
}

// Eval evaluates the expression in a fresh EvalContext. Visible names missing from vars,
// or holding values cty cannot represent, are null.
func (e *expression) Eval(ctx context.Context, vars map[string]any) (any, error) {
	variables := make(map[string]cty.Value, len(e.visible))
	for _, name := range e.visible {
		v, err := toCtyValue(vars[name])
		if err != nil {
			e.logger.DebugContext(ctx, "unsupported variable, binding null", "name", name, "error", err)
			v = cty.NullVal(cty.DynamicPseudoType)
		}
		variables[name] = v
	}

	evalCtx := &hclLib.EvalContext{
		Variables: variables,
		Functions: e.functions,
	}
	val, diags := e.expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrExecutionFailed, diags.Error())
	}

	result, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return result, nil
}
