package plan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingArgument         = errors.New("missing required argument")
	ErrUnexpectedNamedArgument = errors.New("unexpected named argument")
	ErrMalformedNamedArguments = errors.New("malformed named arguments")
	ErrNotAReference           = errors.New("argument is not a reference")
	ErrTooManyArguments        = errors.New("too many arguments")
	ErrDefaultFailed           = errors.New("default expression failed")

	ErrReadOnlyBinding = errors.New("binding is read-only")
	ErrUnknownBinding  = errors.New("no such binding")
	ErrNotAssignable   = errors.New("value is not assignable to binding")

	ErrModelNil          = errors.New("signature model is nil")
	ErrNoDefaultCompiler = errors.New("no default expression compiler configured")
)

// CallError is a call-time binding failure, attributed to the routine being called and the
// file and line it was called from.
type CallError struct {
	// Kind is one of the call-time sentinel errors.
	Kind error
	Site
	// Param is the offending parameter with its markers, e.g. "$name" or ":$year".
	Param string
	// Keys are the unexpected named argument keys in the order they were passed.
	Keys []string
	// Suggestion is the closest declared named parameter for a single unexpected key.
	Suggestion string
	// Err carries the detail or underlying cause.
	Err error
}

func (e *CallError) Error() string {
	var b strings.Builder
	routine := e.Routine
	if routine == "" {
		routine = "__ANON__"
	}
	fmt.Fprintf(&b, "In call to %s(), ", routine)

	switch {
	case errors.Is(e.Kind, ErrMissingArgument):
		fmt.Fprintf(&b, "missing required argument %s", e.Param)
	case errors.Is(e.Kind, ErrUnexpectedNamedArgument):
		fmt.Fprintf(&b, "does not take %s as named argument", strings.Join(e.Keys, ", "))
		if len(e.Keys) > 1 {
			b.WriteByte('s')
		}
		if e.Suggestion != "" {
			fmt.Fprintf(&b, " (did you mean %s?)", e.Suggestion)
		}
	default:
		b.WriteString(e.Kind.Error())
		if e.Param != "" {
			fmt.Fprintf(&b, " for %s", e.Param)
		}
		if e.Err != nil {
			fmt.Fprintf(&b, ": %s", e.Err)
		}
	}

	if e.File != "" {
		fmt.Fprintf(&b, " at %s line %d", e.File, e.Line)
	}
	return b.String()
}

func (e *CallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
