package hcl

import "errors"

var (
	ErrContentNil       = errors.New("hcl default expression is empty")
	ErrCompileFailed    = errors.New("failed to compile hcl default expression")
	ErrUnknownFunction  = errors.New("call to unknown function")
	ErrExecutionFailed  = errors.New("hcl default expression failed")
	ErrUnsupportedValue = errors.New("unsupported value type")
)
