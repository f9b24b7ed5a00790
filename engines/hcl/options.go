package hcl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zclconf/go-cty/cty/function"

	"github.com/robbyt/go-sigil/internal/helpers"
)

// FunctionalOption is a function that configures a Compiler instance
type FunctionalOption func(*Compiler) error

// WithFunctions adds functions callable from default expressions, replacing standard
// functions of the same name.
func WithFunctions(funcs map[string]function.Function) FunctionalOption {
	return func(c *Compiler) error {
		c.functions = mergeFunctions(c.functions, funcs)
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the HCL compiler.
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

// WithLogger creates an option to set a specific logger for the HCL compiler.
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
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "hcl", "Compiler")
	}
}

func (c *Compiler) validate() error {
	if c.logHandler == nil && c.logger == nil {
		return fmt.Errorf("either log handler or logger must be specified")
	}
	return nil
}

func (c *Compiler) applyDefaults() {
	if c.logHandler == nil && c.logger == nil {
		c.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if c.functions == nil {
		c.functions = standardFunctions()
	}
}
