package risor

import "errors"

var (
	ErrContentNil      = errors.New("risor default expression is empty")
	ErrCompileFailed   = errors.New("failed to compile risor default expression")
	ErrNoInstructions  = errors.New("risor bytecode has zero instructions")
	ErrExecutionFailed = errors.New("risor default expression failed")
)
