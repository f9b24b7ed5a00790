package signature

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSignature is wrapped by every definition-time failure.
	ErrSignature = errors.New("invalid signature")

	ErrMalformed            = errors.New("malformed signature")
	ErrUnbalanced           = errors.New("unbalanced delimiters")
	ErrMultipleSlurpy       = errors.New("multiple slurpy parameters")
	ErrNamedAfterOptional   = errors.New("named parameter mixed with optional positional")
	ErrPositionalAfterNamed = errors.New("positional parameter after named parameter")
	ErrNamedAfterSlurpy     = errors.New("named parameter after slurpy positional")
	// ErrDuplicateName also covers names that differ only by sigil, such as $a and @a:
	// bindings are looked up by bare name.
	ErrDuplicateName        = errors.New("duplicate parameter name")
	ErrRequiredWithDefault  = errors.New("required parameter with default")
	ErrInvalidDefault       = errors.New("invalid default expression")
)

// SignatureError is a definition-time failure. The routine carrying the signature never
// becomes callable.
type SignatureError struct {
	// Text is the signature source being compiled, if known.
	Text string
	// Param and Other name the offending parameters, with their sigils. Either may be empty.
	Param string
	Other string
	// Reason is one of the sentinel errors above.
	Reason error
	// Err is the underlying cause, such as an engine parse error for a default expression.
	Err error
}

func (e *SignatureError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSignature.Error())
	if e.Text != "" {
		fmt.Fprintf(&b, " (%s)", e.Text)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason.Error())
	switch {
	case e.Param != "" && e.Other != "":
		fmt.Fprintf(&b, ": %s and %s", e.Other, e.Param)
	case e.Param != "":
		fmt.Fprintf(&b, ": %s", e.Param)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *SignatureError) Unwrap() []error {
	errs := []error{ErrSignature, e.Reason}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func malformed(clause string, format string, args ...any) *SignatureError {
	return &SignatureError{
		Param:  clause,
		Reason: ErrMalformed,
		Err:    fmt.Errorf(format, args...),
	}
}

// withText attaches the full signature source to err if it is a *SignatureError.
func withText(err error, text string) error {
	var sigErr *SignatureError
	if errors.As(err, &sigErr) {
		sigErr.Text = text
	}
	return err
}
