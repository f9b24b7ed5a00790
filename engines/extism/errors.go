package extism

import "errors"

var (
	ErrContentNil      = errors.New("wasm module is empty")
	ErrCompileFailed   = errors.New("failed to compile wasm module")
	ErrInvalidFunction = errors.New("default is not an exported function name")
	ErrFunctionMissing = errors.New("function not exported by wasm module")
	ErrExecutionFailed = errors.New("wasm default function failed")
)
