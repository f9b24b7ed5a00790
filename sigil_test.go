package sigil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/options"
	"github.com/robbyt/go-sigil/plan"
	"github.com/robbyt/go-sigil/scope"
	"github.com/robbyt/go-sigil/signature"
)

var quiet = options.WithLogHandler(slog.NewTextHandler(io.Discard, nil))

func TestSplit(t *testing.T) {
	t.Parallel()
	clauses, err := Split(`$a, $b = f(1, 2), :$c = "x,y"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"$a", "$b = f(1, 2)", `:$c = "x,y"`}, clauses)
}

func TestParse(t *testing.T) {
	t.Parallel()

	model, err := Parse("$a, $b = 1", quiet)
	require.NoError(t, err)
	assert.Len(t, model.Positional(), 2)

	_, err = Parse("$x! = 5", quiet, options.WithStrictRequired(true))
	require.ErrorIs(t, err, signature.ErrRequiredWithDefault)
}

func TestCompileEngines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine types.Type
		text   string
		want   any
	}{
		{types.Starlark, "$a, $b = $a * 2", int64(10)},
		{types.Risor, "$a, $b = $a * 2", int64(10)},
		{types.HCL, "$a, $b = $a * 2", int64(10)},
		{types.Starlark, `$a, $b = "n=" + str($a)`, "n=5"},
		{types.HCL, `$a, $b = "n=${a}"`, "n=5"},
	}
	for _, tt := range tests {
		t.Run(string(tt.engine)+" "+tt.text, func(t *testing.T) {
			p, err := Compile(tt.text, quiet, options.WithEngine(tt.engine))
			require.NoError(t, err)

			b, err := p.Bind(5)
			require.NoError(t, err)
			got, _ := b.Get("b")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileWithoutDefaultsSkipsEngine(t *testing.T) {
	t.Parallel()
	wasm, err := loader.NewFromBytes([]byte("not wasm"))
	require.NoError(t, err)

	p, err := Compile("$a, :$b", quiet, options.WithEngine(types.Extism), options.WithWasmLoader(wasm))
	require.NoError(t, err)
	assert.Len(t, p.Steps(), 4)

	_, err = Compile("$a = run", quiet, options.WithEngine(types.Extism), options.WithWasmLoader(wasm))
	require.Error(t, err)
}

func TestCompileOptions(t *testing.T) {
	t.Parallel()

	t.Run("scope and name", func(t *testing.T) {
		p, err := Compile("$port = default_port", quiet,
			options.WithScopeProvider(scope.NewStaticProvider(map[string]any{"default_port": 8080})),
			options.WithName("server.Listen"),
		)
		require.NoError(t, err)
		assert.Equal(t, "server.Listen", p.Name())

		b, err := p.Bind()
		require.NoError(t, err)
		port, _ := b.Get("port")
		assert.Equal(t, int64(8080), port)
	})

	t.Run("strict arity", func(t *testing.T) {
		p, err := Compile("$a", quiet, options.WithStrictArity(true))
		require.NoError(t, err)
		_, err = p.Bind(1, 2)
		require.ErrorIs(t, err, plan.ErrTooManyArguments)
	})

	t.Run("custom compiler", func(t *testing.T) {
		var seen string
		dc := defaults.CompilerFunc(func(src string, _ []string) (defaults.Expression, error) {
			seen = src
			return nil, assert.AnError
		})
		_, err := Compile("$a = @list", quiet, options.WithDefaultCompiler(dc))
		require.ErrorIs(t, err, signature.ErrInvalidDefault)
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, "list", seen)
	})

	t.Run("invalid signature", func(t *testing.T) {
		_, err := Compile("@a, @b", quiet)
		require.ErrorIs(t, err, signature.ErrMultipleSlurpy)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := Compile("$a", options.WithEngine("nope"))
		require.Error(t, err)
	})
}

func TestCompileMethod(t *testing.T) {
	t.Parallel()

	p, err := CompileMethod("$a", quiet)
	require.NoError(t, err)
	name, ok := p.Model().Invocant()
	require.True(t, ok)
	assert.Equal(t, DefaultInvocant, name)

	p, err = CompileMethod("$a", quiet, options.WithInvocant("this"))
	require.NoError(t, err)
	name, _ = p.Model().Invocant()
	assert.Equal(t, "this", name)

	p, err = CompileMethod("$class: $a", quiet)
	require.NoError(t, err)
	name, _ = p.Model().Invocant()
	assert.Equal(t, "class", name)
}

func TestCompileLoader(t *testing.T) {
	t.Parallel()

	l, err := loader.NewFromString(":$year!, :$month = 1")
	require.NoError(t, err)
	p, err := CompileLoader(context.Background(), quiet, options.WithLoader(l))
	require.NoError(t, err)
	b, err := p.Bind("year", 2024)
	require.NoError(t, err)
	month, _ := b.Get("month")
	assert.Equal(t, int64(1), month)

	_, err = CompileLoader(context.Background(), quiet)
	require.Error(t, err)
}

func TestCompileFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "listen.sig")
	require.NoError(t, os.WriteFile(path, []byte("$host, $port = 80\n"), 0o600))

	p, err := CompileFile(context.Background(), path, quiet)
	require.NoError(t, err)
	assert.Equal(t, "$host, $port = 80", p.Model().Text())

	_, err = CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.sig"), quiet)
	require.ErrorIs(t, err, loader.ErrSourceUnavailable)

	_, err = CompileFile(context.Background(), "https://example.com/x.sig", quiet)
	require.ErrorIs(t, err, loader.ErrSchemeUnsupported)
}
