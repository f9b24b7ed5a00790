// Package hcl compiles default expressions written in the HCL native expression syntax.
package hcl

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	hclLib "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/robbyt/go-sigil/defaults"
)

// Compiler parses default expressions with hclsyntax.
type Compiler struct {
	functions  map[string]function.Function
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an HCL default-expression compiler.
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
	return "hcl.Compiler"
}

// Compile parses src as a single HCL expression. Every variable it references must be in
// visible and every function it calls must be configured.
func (c *Compiler) Compile(src string, visible []string) (defaults.Expression, error) {
	logger := c.logger.WithGroup("compile")
	if strings.TrimSpace(src) == "" {
		return nil, ErrContentNil
	}
	logger.Debug("Starting validation", "source", src, "visible", visible)

	expr, diags := hclsyntax.ParseExpression([]byte(src), "default", hclLib.InitialPos)
	if diags.HasErrors() {
		logger.Warn("Parsing failed", "error", diags.Error())
		return nil, fmt.Errorf("%w: %s", ErrCompileFailed, diags.Error())
	}

	for _, traversal := range expr.Variables() {
		if name := traversal.RootName(); !slices.Contains(visible, name) {
			return nil, fmt.Errorf("%w: %w %q", ErrCompileFailed, defaults.ErrUndefinedName, name)
		}
	}

	var unknown []string
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hclLib.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			if _, found := c.functions[call.Name]; !found {
				unknown = append(unknown, call.Name)
			}
		}
		return nil
	})
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrCompileFailed, ErrUnknownFunction, strings.Join(unknown, ", "))
	}

	logger.Debug("Validation completed")
	return &expression{
		src:       src,
		expr:      expr,
		visible:   slices.Clone(visible),
		functions: c.functions,
		logger:    c.logger.WithGroup("eval"),
	}, nil
}
