// Package starlark compiles default expressions written in Starlark.
package starlark

import (
	"fmt"
	"log/slog"
	"strings"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-sigil/defaults"
)

// Compiler compiles default expressions into Starlark programs.
type Compiler struct {
	maxSteps   uint64
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Starlark default-expression compiler.
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
	return "starlark.Compiler"
}

// Compile checks that src is a single Starlark expression referring only to the names in
// visible, the standard modules and the universe, and compiles it.
func (c *Compiler) Compile(src string, visible []string) (defaults.Expression, error) {
	logger := c.logger.WithGroup("compile")
	if strings.TrimSpace(src) == "" {
		return nil, ErrContentNil
	}
	logger.Debug("Starting validation", "source", src, "visible", visible)

	// Parsed in the same parentheses it is compiled in, so src may span lines but cannot
	// close them early.
	opts := &syntax.FileOptions{}
	if _, err := opts.ParseExpr("default", "(\n"+src+"\n)", 0); err != nil {
		logger.Warn("Parsing failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	predeclared := standardModules()
	for _, name := range visible {
		if !predeclared.Has(name) {
			predeclared[name] = starlarkLib.None
		}
	}

	code := fmt.Sprintf("%s = (\n%s\n)\n", resultName, src)
	f, err := opts.Parse("default", code, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	prog, err := starlarkLib.FileProgram(f, predeclared.Has)
	if err != nil {
		logger.Warn("Compilation failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	logger.Debug("Validation completed")
	return &expression{
		src:      src,
		prog:     prog,
		visible:  visible,
		maxSteps: c.maxSteps,
		logger:   c.logger.WithGroup("eval"),
	}, nil
}
