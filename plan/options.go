package plan

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/internal/helpers"
	"github.com/robbyt/go-sigil/scope"
)

// FunctionalOption configures a plan compiler.
type FunctionalOption func(*compiler) error

// WithDefaultCompiler sets the engine that compiles default expressions. It is required
// when the signature declares any default.
func WithDefaultCompiler(dc defaults.Compiler) FunctionalOption {
	return func(c *compiler) error {
		if dc == nil {
			return fmt.Errorf("default compiler cannot be nil")
		}
		c.defaults = dc
		return nil
	}
}

// WithScopeProvider sets the source of outer variables visible to default expressions.
func WithScopeProvider(provider scope.Provider) FunctionalOption {
	return func(c *compiler) error {
		if provider == nil {
			return fmt.Errorf("scope provider cannot be nil")
		}
		c.scope = provider
		return nil
	}
}

// WithName sets the routine name reported in call errors, overriding the name taken from
// the call stack.
func WithName(name string) FunctionalOption {
	return func(c *compiler) error {
		c.name = name
		return nil
	}
}

// WithStrictArity makes extra positional arguments an error when the signature has no
// slurpy and no named parameters.
func WithStrictArity(strict bool) FunctionalOption {
	return func(c *compiler) error {
		c.strictArity = strict
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the plan compiler and the
// plans it produces.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(c *compiler) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(c *compiler) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func (c *compiler) setupLogger() {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "plan", "Compiler")
	}
}

func (c *compiler) applyDefaults() {
	if c.logHandler == nil && c.logger == nil {
		c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if c.scope == nil {
		c.scope = scope.NewStaticProvider(nil)
	}
}

func (c *compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}
