package engines

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/options"
)

func TestNewDefaultCompiler(t *testing.T) {
	t.Parallel()
	handler := slog.NewTextHandler(io.Discard, nil)

	tests := []struct {
		engine types.Type
		want   string
	}{
		{types.Starlark, "starlark.Compiler"},
		{types.Risor, "risor.Compiler"},
		{types.HCL, "hcl.Compiler"},
	}
	for _, tt := range tests {
		t.Run(tt.engine.String(), func(t *testing.T) {
			cfg, err := options.Build(options.WithEngine(tt.engine), options.WithLogHandler(handler))
			require.NoError(t, err)

			dc, err := NewDefaultCompiler(context.Background(), cfg)
			require.NoError(t, err)
			require.Implements(t, (*interface{ String() string })(nil), dc)
			assert.Equal(t, tt.want, dc.(interface{ String() string }).String())

			expr, err := dc.Compile("1", nil)
			require.NoError(t, err)
			got, err := expr.Eval(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, int64(1), got)
		})
	}

	t.Run("configured compiler wins", func(t *testing.T) {
		custom := defaults.CompilerFunc(func(string, []string) (defaults.Expression, error) {
			return nil, nil
		})
		cfg, err := options.Build(options.WithDefaultCompiler(custom), options.WithEngine(types.Risor))
		require.NoError(t, err)

		dc, err := NewDefaultCompiler(context.Background(), cfg)
		require.NoError(t, err)
		_, isFunc := dc.(defaults.CompilerFunc)
		assert.True(t, isFunc)
	})

	t.Run("extism with an invalid module", func(t *testing.T) {
		wasm, err := loader.NewFromBytes([]byte("not wasm"))
		require.NoError(t, err)
		cfg, err := options.Build(
			options.WithEngine(types.Extism),
			options.WithWasmLoader(wasm),
			options.WithLogHandler(handler),
		)
		require.NoError(t, err)

		_, err = NewDefaultCompiler(context.Background(), cfg)
		require.Error(t, err)
	})
}
