package plan

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/starlark"
	"github.com/robbyt/go-sigil/signature"
)

func testHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

// compilePlan parses text and compiles it with Starlark defaults.
func compilePlan(t *testing.T, text string, opts ...FunctionalOption) *Plan {
	t.Helper()
	model, err := signature.Parse(text, signature.Options{})
	require.NoError(t, err)

	engine, err := starlark.New(starlark.WithLogHandler(testHandler()))
	require.NoError(t, err)

	base := []FunctionalOption{WithDefaultCompiler(engine), WithLogHandler(testHandler())}
	p, err := Compile(model, append(base, opts...)...)
	require.NoError(t, err)
	return p
}

// countingCompiler compiles every default to a constant and counts evaluations.
type countingCompiler struct {
	evals atomic.Int64
}

type constExpr struct {
	src   string
	value any
	evals *atomic.Int64
}

func (e *constExpr) Eval(context.Context, map[string]any) (any, error) {
	e.evals.Add(1)
	return e.value, nil
}

func (e *constExpr) String() string { return e.src }

func (c *countingCompiler) Compile(src string, _ []string) (defaults.Expression, error) {
	return &constExpr{src: src, value: src, evals: &c.evals}, nil
}

// callDate stands in for a routine that binds its own arguments.
func callDate(p *Plan, args ...any) (*Bindings, error) {
	return p.Bind(args...)
}
