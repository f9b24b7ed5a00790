package extism

import (
	"fmt"
	"log/slog"
	"os"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"

	"github.com/robbyt/go-sigil/engines/extism/adapters"
	"github.com/robbyt/go-sigil/internal/helpers"
)

// FunctionalOption is a function that configures a Compiler instance
type FunctionalOption func(*Compiler) error

// WithWASIEnabled enables or disables WASI support in the plugin.
func WithWASIEnabled(enabled bool) FunctionalOption {
	return func(c *Compiler) error {
		c.enableWASI = enabled
		return nil
	}
}

// WithRuntimeConfig sets a custom wazero runtime configuration.
func WithRuntimeConfig(config wazero.RuntimeConfig) FunctionalOption {
	return func(c *Compiler) error {
		if config == nil {
			return fmt.Errorf("runtime config cannot be nil")
		}
		c.runtimeConfig = config
		return nil
	}
}

// WithHostFunctions registers host functions the module may import.
func WithHostFunctions(funcs ...extismSDK.HostFunction) FunctionalOption {
	return func(c *Compiler) error {
		c.hostFunctions = append(c.hostFunctions, funcs...)
		return nil
	}
}

// WithPlugin uses an already compiled plugin instead of compiling the module bytes.
func WithPlugin(plugin adapters.CompiledPlugin) FunctionalOption {
	return func(c *Compiler) error {
		if plugin == nil {
			return fmt.Errorf("plugin cannot be nil")
		}
		c.plugin = plugin
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the Extism compiler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *Compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the Extism compiler.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *Compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func (c *Compiler) setupLogger() {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "extism", "Compiler")
	}
}

func (c *Compiler) applyDefaults() {
	if c.logHandler == nil && c.logger == nil {
		c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	c.enableWASI = true
	c.runtimeConfig = wazero.NewRuntimeConfig()
}

func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	if c.plugin == nil && len(c.wasm) == 0 {
		return ErrContentNil
	}
	return nil
}
