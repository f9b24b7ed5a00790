package starlark

import "errors"

var (
	ErrContentNil       = errors.New("starlark default expression is empty")
	ErrCompileFailed    = errors.New("failed to compile starlark default expression")
	ErrExecutionFailed  = errors.New("starlark default expression failed")
	ErrUnsupportedValue = errors.New("unsupported value type")
)
