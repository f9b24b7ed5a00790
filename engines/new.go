// Package engines creates the default-expression compiler selected by a Config.
package engines

import (
	"context"
	"fmt"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/engines/extism"
	"github.com/robbyt/go-sigil/engines/hcl"
	"github.com/robbyt/go-sigil/engines/risor"
	"github.com/robbyt/go-sigil/engines/starlark"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/options"
)

// NewDefaultCompiler returns the compiler set with options.WithDefaultCompiler, or creates
// one for the configured engine.
func NewDefaultCompiler(ctx context.Context, cfg *options.Config) (defaults.Compiler, error) {
	if dc := cfg.GetDefaultCompiler(); dc != nil {
		return dc, nil
	}

	var (
		dc  defaults.Compiler
		err error
	)
	handler := cfg.GetHandler()
	switch cfg.GetEngineType() {
	case types.Starlark:
		dc, err = starlark.New(starlark.WithLogHandler(handler))
	case types.Risor:
		dc, err = risor.New(risor.WithLogHandler(handler))
	case types.HCL:
		dc, err = hcl.New(hcl.WithLogHandler(handler))
	case types.Extism:
		dc, err = newExtism(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.GetEngineType())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s engine: %w", cfg.GetEngineType(), err)
	}
	return dc, nil
}

func newExtism(ctx context.Context, cfg *options.Config) (*extism.Compiler, error) {
	wasmLoader := cfg.GetWasmLoader()
	if wasmLoader == nil {
		return nil, fmt.Errorf("extism engine requires a wasm loader")
	}
	wasm, err := loader.ReadBytes(wasmLoader)
	if err != nil {
		return nil, err
	}
	return extism.New(ctx, wasm, extism.WithLogHandler(cfg.GetHandler()))
}
