// Package risor compiles default expressions written in Risor.
package risor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorParser "github.com/risor-io/risor/parser"

	"github.com/robbyt/go-sigil/defaults"
)

// Compiler compiles default expressions to Risor bytecode.
type Compiler struct {
	globals      []string
	globalValues map[string]any
	logHandler   slog.Handler
	logger       *slog.Logger
}

// New creates a Risor default-expression compiler.
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
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
	return c, nil
}

func (c *Compiler) String() string {
	return "risor.Compiler"
}

// Compile parses src and compiles it with visible, plus any configured globals, as the
// only names besides the Risor builtins.
func (c *Compiler) Compile(src string, visible []string) (defaults.Expression, error) {
	logger := c.logger.WithGroup("compile")
	if strings.TrimSpace(src) == "" {
		return nil, ErrContentNil
	}

	names := slices.Concat(c.globals, visible)
	logger.Debug("Starting validation", "source", src, "globals", names)

	code, err := compile(src, names)
	if err != nil {
		logger.Warn("Compilation failed", "error", err)
		return nil, err
	}

	instructionCount := code.InstructionCount()
	if instructionCount < 1 {
		return nil, ErrNoInstructions
	}
	logger.Debug("Compilation successful", "instructionCount", instructionCount)

	return &expression{
		src:     src,
		code:    code,
		names:   names,
		globals: maps.Clone(c.globalValues),
		logger:  c.logger.WithGroup("eval"),
	}, nil
}

// compile parses and compiles src into bytecode. The default global names are kept so
// builtins such as len resolve.
func compile(src string, globals []string) (*risorCompiler.Code, error) {
	ast, err := risorParser.Parse(context.Background(), src)
	if err != nil {
		// Create a better-looking error output when there's a syntax error
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		return nil, fmt.Errorf("%w: %s", ErrCompileFailed, errMsg)
	}

	cfg := risorLib.NewConfig()
	globalNames := append(cfg.GlobalNames(), globals...)

	code, err := risorCompiler.Compile(ast, risorCompiler.WithGlobalNames(globalNames))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return code, nil
}
