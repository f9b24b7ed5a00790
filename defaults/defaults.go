// Package defaults defines how default expressions of signature parameters are compiled
// and evaluated. Engines in the engines/ tree implement Compiler.
package defaults

import (
	"context"
	"errors"
)

var (
	ErrUndefinedName = errors.New("reference to undefined name")
	ErrEmptySource   = errors.New("default expression is empty")
	ErrEvalFailed    = errors.New("default expression failed")
)

// Compiler turns the verbatim default text of a parameter into an Expression. visible lists
// the bare names the expression may reference: the invocant, earlier parameters and the
// outer scope. Compile is called once per parameter when a signature is compiled.
type Compiler interface {
	Compile(src string, visible []string) (Expression, error)
}

// Expression is a compiled default. Eval is called on each call that omits the argument and
// must be safe for concurrent use.
type Expression interface {
	Eval(ctx context.Context, vars map[string]any) (any, error)
	String() string
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(src string, visible []string) (Expression, error)

func (f CompilerFunc) Compile(src string, visible []string) (Expression, error) {
	return f(src, visible)
}
