package hcl

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/robbyt/go-sigil/defaults"
)

func newTestCompiler(t *testing.T, opts ...FunctionalOption) *Compiler {
	t.Helper()
	opts = append([]FunctionalOption{WithLogHandler(slog.NewTextHandler(os.Stdout, nil))}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func TestCompileAndEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		visible []string
		vars    map[string]any
		want    any
	}{
		{name: "whole number", src: "23", want: int64(23)},
		{name: "fraction", src: "1.5", want: 1.5},
		{name: "string", src: `"Hello, world!"`, want: "Hello, world!"},
		{name: "tuple", src: `[1, "a", true]`, want: []any{int64(1), "a", true}},
		{name: "object", src: `{ this = 42, that = 23 }`, want: map[string]any{"this": int64(42), "that": int64(23)}},
		{name: "null", src: "null", want: nil},
		{
			name:    "earlier parameter",
			src:     "this * 2",
			visible: []string{"this"},
			vars:    map[string]any{"this": 21},
			want:    int64(42),
		},
		{
			name:    "template",
			src:     `"${greeting}, ${name}!"`,
			visible: []string{"greeting", "name"},
			vars:    map[string]any{"greeting": "Hello", "name": "world"},
			want:    "Hello, world!",
		},
		{
			name:    "function over a list",
			src:     "length(items) + max(1, 5)",
			visible: []string{"items"},
			vars:    map[string]any{"items": []any{1, "two"}},
			want:    int64(7),
		},
		{
			name:    "attribute access",
			src:     "opts.depth",
			visible: []string{"opts"},
			vars:    map[string]any{"opts": map[string]any{"depth": 3}},
			want:    int64(3),
		},
		{
			name:    "conditional on missing value",
			src:     `x == null ? "none" : x`,
			visible: []string{"x"},
			want:    "none",
		},
	}

	c := newTestCompiler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expr, err := c.Compile(tt.src, tt.visible)
			require.NoError(t, err)
			assert.Equal(t, tt.src, expr.String())

			got, err := expr.Eval(context.Background(), tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(t)
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "empty", src: "", wantErr: ErrContentNil},
		{name: "syntax error", src: "1 +", wantErr: ErrCompileFailed},
		{name: "undefined name", src: "missing + 1", wantErr: defaults.ErrUndefinedName},
		{name: "unknown function", src: "frobnicate(1)", wantErr: ErrUnknownFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Compile(tt.src, []string{"x"})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvalError(t *testing.T) {
	t.Parallel()

	expr, err := newTestCompiler(t).Compile(`x + 1`, []string{"x"})
	require.NoError(t, err)
	_, err = expr.Eval(context.Background(), map[string]any{"x": "not a number"})
	require.ErrorIs(t, err, ErrExecutionFailed)
}

func TestWithFunctions(t *testing.T) {
	t.Parallel()

	double := function.New(&function.Spec{
		Params: []function.Parameter{{Name: "n", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return args[0].Multiply(cty.NumberIntVal(2)), nil
		},
	})

	c := newTestCompiler(t, WithFunctions(map[string]function.Function{"double": double}))
	expr, err := c.Compile("double(n)", []string{"n"})
	require.NoError(t, err)

	got, err := expr.Eval(context.Background(), map[string]any{"n": 4})
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}

func TestConverters(t *testing.T) {
	t.Parallel()

	in := map[string]any{
		"list":  []any{int64(1), 2.5, "x", nil},
		"empty": []any{},
		"obj":   map[string]any{},
		"strs":  []string{"a"},
		"flag":  false,
	}
	v, err := toCtyValue(in)
	require.NoError(t, err)

	out, err := ctyToNative(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"list":  []any{int64(1), 2.5, "x", nil},
		"empty": []any{},
		"obj":   map[string]any{},
		"strs":  []any{"a"},
		"flag":  false,
	}, out)

	_, err = toCtyValue(struct{}{})
	require.ErrorIs(t, err, ErrUnsupportedValue)
}
