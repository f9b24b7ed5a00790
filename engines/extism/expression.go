package extism

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-sigil/engines/extism/adapters"
)

// expression calls fn on a fresh plugin instance for every Eval.
type expression struct {
	fn      string
	plugin  adapters.CompiledPlugin
	visible []string
	logger  *slog.Logger
}

func (e *expression) String() string {
	return e.fn
}

// Eval passes the visible entries of vars to the function as a JSON object.
func (e *expression) Eval(ctx context.Context, vars map[string]any) (any, error) {
	input, err := encodeInput(e.visible, vars, e.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	instance, err := e.plugin.Instance(ctx, adapters.NewPluginInstanceConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create instance: %w", ErrExecutionFailed, err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			e.logger.WarnContext(ctx, "Failed to close instance", "error", err)
		}
	}()

	exit, output, err := instance.CallWithContext(ctx, e.fn, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExecutionFailed, e.fn, err)
	}
	if exit != 0 {
		return nil, fmt.Errorf("%w: %s returned exit code %d", ErrExecutionFailed, e.fn, exit)
	}
	return decodeOutput(output), nil
}
