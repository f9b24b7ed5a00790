// Package extism evaluates defaults by calling functions exported from a WASM module. The
// default text names the function; visible variables are passed to it as a JSON object and
// its JSON output is the default value.
package extism

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/extism/adapters"
)

// Compiler resolves default expressions to functions of one compiled module.
type Compiler struct {
	wasm          []byte
	enableWASI    bool
	runtimeConfig wazero.RuntimeConfig
	hostFunctions []extismSDK.HostFunction
	plugin        adapters.CompiledPlugin
	logHandler    slog.Handler
	logger        *slog.Logger
}

// New compiles wasm and returns a compiler whose defaults call its exports. Call Close to
// release the module.
func New(ctx context.Context, wasm []byte, opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{wasm: wasm}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}
	c.setupLogger()

	if c.plugin != nil {
		return c, nil
	}

	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{
			extismSDK.WasmData{Data: c.wasm},
		},
	}
	config := extismSDK.PluginConfig{
		EnableWasi:    c.enableWASI,
		RuntimeConfig: c.runtimeConfig,
	}
	plugin, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, c.hostFunctions)
	if err != nil {
		c.logger.Warn("Compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	c.plugin = adapters.NewCompiledPluginAdapter(plugin)
	return c, nil
}

func (c *Compiler) String() string {
	return "extism.Compiler"
}

// Close releases the compiled module. Expressions from this compiler fail afterwards.
func (c *Compiler) Close(ctx context.Context) error {
	return c.plugin.Close(ctx)
}

// Compile checks that src names a function exported by the module.
func (c *Compiler) Compile(src string, visible []string) (defaults.Expression, error) {
	logger := c.logger.WithGroup("compile")
	fn := strings.TrimSpace(src)
	if !isFunctionName(fn) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFunction, src)
	}
	logger.Debug("Starting validation", "function", fn, "visible", visible)

	ctx := context.Background()
	instance, err := c.plugin.Instance(ctx, adapters.NewPluginInstanceConfig())
	if err != nil {
		logger.Warn("Instance creation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			logger.Warn("Failed to close instance", "error", err)
		}
	}()

	if !instance.FunctionExists(fn) {
		logger.Warn("Function not found", "function", fn)
		return nil, fmt.Errorf("%w: %s", ErrFunctionMissing, fn)
	}

	logger.Debug("Validation completed")
	return &expression{
		fn:      fn,
		plugin:  c.plugin,
		visible: visible,
		logger:  c.logger.WithGroup("eval"),
	}, nil
}

func isFunctionName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
