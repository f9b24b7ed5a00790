// Package options configures how signatures are compiled into binding plans.
package options

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/scope"
)

// Config holds all configuration for compiling a signature.
type Config struct {
	handler slog.Handler
	// invocant is the implied invocant name; empty for plain routines
	invocant string
	// engineType selects the default-expression engine when no compiler is given
	engineType      types.Type
	defaultCompiler defaults.Compiler
	scopeProvider   scope.Provider
	name            string
	strictRequired  bool
	strictArity     bool
	// loader supplies the signature text for loader-driven compiles
	loader loader.Loader
	// wasmLoader supplies the module for the extism engine
	wasmLoader loader.Loader
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogHandler sets the log handler for compilation and binding.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithSlog sets the log handler from a logger.
func WithSlog(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger != nil {
			c.handler = logger.Handler()
		}
		return nil
	}
}

// WithInvocant declares an implied invocant. A "name:" prefix in the signature text still
// overrides it.
func WithInvocant(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return errors.New("invocant name cannot be empty")
		}
		c.invocant = name
		return nil
	}
}

// WithEngine selects the engine used to compile default expressions.
func WithEngine(engineType types.Type) Option {
	return func(c *Config) error {
		if !engineType.Valid() {
			return fmt.Errorf("unknown engine %q", engineType)
		}
		c.engineType = engineType
		return nil
	}
}

// WithDefaultCompiler sets the default-expression compiler directly, bypassing WithEngine.
func WithDefaultCompiler(compiler defaults.Compiler) Option {
	return func(c *Config) error {
		if compiler != nil {
			c.defaultCompiler = compiler
		}
		return nil
	}
}

// WithScopeProvider sets the outer variables visible to default expressions.
func WithScopeProvider(provider scope.Provider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.scopeProvider = provider
		}
		return nil
	}
}

// WithName sets the routine name used in call errors.
func WithName(name string) Option {
	return func(c *Config) error {
		c.name = name
		return nil
	}
}

// WithStrictRequired rejects parameters marked required that also declare a default.
func WithStrictRequired(strict bool) Option {
	return func(c *Config) error {
		c.strictRequired = strict
		return nil
	}
}

// WithStrictArity rejects surplus positional arguments.
func WithStrictArity(strict bool) Option {
	return func(c *Config) error {
		c.strictArity = strict
		return nil
	}
}

// WithLoader sets the source of the signature text.
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.loader = l
		}
		return nil
	}
}

// WithWasmLoader sets the source of the WASM module used by the extism engine.
func WithWasmLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.wasmLoader = l
		}
		return nil
	}
}

// Validate performs basic validation on the configuration. Engine-specific requirements are
// checked when the engine is created.
func (c *Config) Validate() error {
	var errz []error
	if c.handler == nil {
		errz = append(errz, errors.New("no logger specified"))
	}
	if c.defaultCompiler == nil && !c.engineType.Valid() {
		errz = append(errz, errors.New("no engine or default compiler specified"))
	}
	if c.scopeProvider == nil {
		errz = append(errz, errors.New("no scope provider specified"))
	}
	if c.engineType == types.Extism && c.defaultCompiler == nil && c.wasmLoader == nil {
		errz = append(errz, errors.New("extism engine requires a wasm loader"))
	}
	return errors.Join(errz...)
}

func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

func (c *Config) SetHandler(handler slog.Handler) {
	c.handler = handler
}

func (c *Config) GetInvocant() string {
	return c.invocant
}

func (c *Config) SetInvocant(name string) {
	c.invocant = name
}

func (c *Config) GetEngineType() types.Type {
	return c.engineType
}

func (c *Config) SetEngineType(engineType types.Type) {
	c.engineType = engineType
}

func (c *Config) GetDefaultCompiler() defaults.Compiler {
	return c.defaultCompiler
}

func (c *Config) GetScopeProvider() scope.Provider {
	return c.scopeProvider
}

func (c *Config) SetScopeProvider(provider scope.Provider) {
	c.scopeProvider = provider
}

func (c *Config) GetName() string {
	return c.name
}

func (c *Config) GetStrictRequired() bool {
	return c.strictRequired
}

func (c *Config) GetStrictArity() bool {
	return c.strictArity
}

func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

func (c *Config) GetWasmLoader() loader.Loader {
	return c.wasmLoader
}
