package starlark

import (
	"context"
	"fmt"
	"log/slog"

	starlarkLib "go.starlark.net/starlark"
)

// expression is a compiled default. The program is shared; every Eval runs it on its own
// thread with its own globals.
type expression struct {
	src      string
	prog     *starlarkLib.Program
	visible  []string
	maxSteps uint64
	logger   *slog.Logger
}

func (e *expression) String() string {
	return e.src
}

// Eval runs the expression with vars as its variables. Visible names missing from vars
// are None.
func (e *expression) Eval(ctx context.Context, vars map[string]any) (any, error) {
	predeclared := standardModules()
	for _, name := range e.visible {
		if !predeclared.Has(name) {
			predeclared[name] = starlarkLib.None
		}
	}
	for name, v := range vars {
		sv, err := convertToStarlarkValue(v)
		if err != nil {
			e.logger.DebugContext(ctx, "skipping variable", "name", name, "error", err)
			continue
		}
		predeclared[name] = sv
	}

	thread := &starlarkLib.Thread{
		Name: "default",
		Print: func(thread *starlarkLib.Thread, msg string) {
			e.logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	globals, err := e.prog.Init(thread, predeclared)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	result, err := convertStarlarkValueToInterface(globals[resultName])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return result, nil
}
