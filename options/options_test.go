package options

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/scope"
)

// MockLoader is a testify mock implementation of loader.Loader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) GetReader() (io.ReadCloser, error) {
	args := m.Called()
	reader, _ := args.Get(0).(io.ReadCloser)
	return reader, args.Error(1)
}

func (m *MockLoader) GetSourceURL() *url.URL {
	args := m.Called()
	u, _ := args.Get(0).(*url.URL)
	return u
}

func TestWithOptions(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(os.Stdout, nil)
	provider := scope.NewStaticProvider(map[string]any{"base": 1})
	compiler := defaults.CompilerFunc(func(string, []string) (defaults.Expression, error) {
		return nil, nil
	})
	sigLoader := new(MockLoader)
	wasmLoader := new(MockLoader)

	cfg := &Config{}
	for _, opt := range []Option{
		WithLogHandler(handler),
		WithInvocant("this"),
		WithEngine(types.Risor),
		WithDefaultCompiler(compiler),
		WithScopeProvider(provider),
		WithName("pkg.Run"),
		WithStrictRequired(true),
		WithStrictArity(true),
		WithLoader(sigLoader),
		WithWasmLoader(wasmLoader),
	} {
		require.NoError(t, opt(cfg))
	}

	assert.Equal(t, handler, cfg.GetHandler())
	assert.Equal(t, "this", cfg.GetInvocant())
	assert.Equal(t, types.Risor, cfg.GetEngineType())
	assert.NotNil(t, cfg.GetDefaultCompiler())
	assert.Equal(t, provider, cfg.GetScopeProvider())
	assert.Equal(t, "pkg.Run", cfg.GetName())
	assert.True(t, cfg.GetStrictRequired())
	assert.True(t, cfg.GetStrictArity())
	assert.Equal(t, sigLoader, cfg.GetLoader())
	assert.Equal(t, wasmLoader, cfg.GetWasmLoader())
	require.NoError(t, cfg.Validate())
}

func TestNilOptionsKeepValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	handler := cfg.GetHandler()
	provider := cfg.GetScopeProvider()

	require.NoError(t, WithLogHandler(nil)(cfg))
	require.NoError(t, WithSlog(nil)(cfg))
	require.NoError(t, WithScopeProvider(nil)(cfg))
	require.NoError(t, WithLoader(nil)(cfg))
	require.NoError(t, WithDefaultCompiler(nil)(cfg))

	assert.Equal(t, handler, cfg.GetHandler())
	assert.Equal(t, provider, cfg.GetScopeProvider())
	assert.Nil(t, cfg.GetLoader())
	assert.Nil(t, cfg.GetDefaultCompiler())
}

func TestInvalidOptions(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.Error(t, WithInvocant("")(cfg))
	require.Error(t, WithEngine("cobol")(cfg))
}

func TestWithSlog(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{}
	require.NoError(t, WithSlog(logger)(cfg))
	assert.Equal(t, logger.Handler(), cfg.GetHandler())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, types.Starlark, cfg.GetEngineType())
	assert.NotNil(t, cfg.GetHandler())
	assert.Empty(t, cfg.GetScopeProvider().Names())
	require.NoError(t, cfg.Validate())
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	require.Error(t, cfg.Validate())
	require.NoError(t, WithDefaults()(cfg))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.Starlark, cfg.GetEngineType())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("extism needs a module", func(t *testing.T) {
		cfg, err := Build(WithEngine(types.Extism))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "wasm loader")

		_, err = Build(WithEngine(types.Extism), WithWasmLoader(new(MockLoader)))
		require.NoError(t, err)
	})

	t.Run("errors are joined", func(t *testing.T) {
		cfg := &Config{engineType: "bogus"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no logger specified")
		assert.Contains(t, err.Error(), "no engine or default compiler specified")
		assert.Contains(t, err.Error(), "no scope provider specified")
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cfg, err := Build(WithInvocant("self"), WithStrictArity(true))
	require.NoError(t, err)
	assert.Equal(t, "self", cfg.GetInvocant())
	assert.True(t, cfg.GetStrictArity())

	_, err = Build(WithEngine("nope"))
	require.Error(t, err)
}
