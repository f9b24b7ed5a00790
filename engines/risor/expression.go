package risor

import (
	"context"
	"fmt"
	"log/slog"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"
)

// expression is compiled Risor bytecode. Each Eval runs on a fresh VM.
type expression struct {
	src     string
	code    *risorCompiler.Code
	names   []string
	globals map[string]any
	logger  *slog.Logger
}

func (e *expression) String() string {
	return e.src
}

func (e *expression) Eval(ctx context.Context, vars map[string]any) (any, error) {
	options := convertToRisorOptions(e.names, e.globals, vars, e.logger)

	result, err := risorLib.EvalCode(ctx, e.code, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	if result == nil {
		return nil, nil
	}
	return normalize(result.Interface()), nil
}
