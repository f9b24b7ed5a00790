package signature

import (
	"regexp"
)

// invocantPrefix matches a leading "self:" or "$self:" that is not the start of a named
// parameter or a "::" package separator.
var invocantPrefix = regexp.MustCompile(`^\s*\$?([\pL_][\pL\pN_]*)\s*:([^:]|$)`)

// SplitInvocant strips a leading invocant declaration from text. It returns the invocant
// name, or "" when there is none, and the remaining parameter list.
func SplitInvocant(text string) (string, string) {
	loc := invocantPrefix.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text
	}
	name := text[loc[2]:loc[3]]
	// loc[4] is the first character after the colon, which belongs to the parameter list.
	return name, text[loc[4]:]
}

// Parse compiles signature text into a validated Model. A leading "name:" prefix declares
// the invocant, overriding opts.Invocant.
func Parse(text string, opts Options) (*Model, error) {
	invocant, params := SplitInvocant(text)
	if invocant != "" {
		opts.Invocant = invocant
	}

	clauses, err := Split(params)
	if err != nil {
		return nil, withText(err, text)
	}

	asm := NewAssembler(opts)
	for _, clause := range clauses {
		d, err := ParseParam(clause)
		if err != nil {
			return nil, withText(err, text)
		}
		if err := asm.Add(d); err != nil {
			return nil, withText(err, text)
		}
	}

	asm.SetText(text)
	return asm.Model(), nil
}
