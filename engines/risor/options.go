package risor

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-sigil/internal/helpers"
)

// FunctionalOption is a function that configures a Compiler instance
type FunctionalOption func(*Compiler) error

// WithGlobals declares extra global names, beyond the visible parameters, that defaults may
// reference. Their values are supplied with WithGlobalValues.
func WithGlobals(globals []string) FunctionalOption {
	return func(c *Compiler) error {
		c.globals = append(c.globals, globals...)
		return nil
	}
}

// WithGlobalValues sets globals available to every default expression.
func WithGlobalValues(values map[string]any) FunctionalOption {
	return func(c *Compiler) error {
		for name, v := range values {
			c.globals = append(c.globals, name)
			c.globalValues[name] = v
		}
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the Risor compiler.
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

// WithLogger creates an option to set a specific logger for the Risor compiler.
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
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "risor", "Compiler")
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
	if c.globals == nil {
		c.globals = []string{}
	}
	if c.globalValues == nil {
		c.globalValues = make(map[string]any)
	}
}
