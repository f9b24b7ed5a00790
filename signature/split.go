package signature

import (
	"fmt"
	"strings"
)

var closers = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// Split breaks raw signature text into its top-level parameter clauses.
//
// Commas nested in (), [] or {} and commas inside single or double quoted strings do not
// split, so default expressions such as `"Hello, world!"` or `{ this => 42, that => 23 }`
// stay in one clause. Each clause is trimmed; empty input yields no clauses and a single
// trailing comma is ignored.
//
// Input that ends inside an open delimiter or quote fails with an error wrapping both
// ErrMalformed and ErrUnbalanced. A closer with no matching opener wraps ErrMalformed only.
func Split(text string) ([]string, error) {
	var (
		clauses []string
		stack   []byte
		start   int
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\'', '"':
			end, ok := skipQuoted(text, i)
			if !ok {
				return nil, &SignatureError{
					Text:   text,
					Reason: ErrMalformed,
					Err:    fmt.Errorf("%w: unterminated %c quote at offset %d", ErrUnbalanced, c, i),
				}
			}
			i = end
		case '(', '[', '{':
			stack = append(stack, closers[c])
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return nil, &SignatureError{
					Text:   text,
					Reason: ErrMalformed,
					Err:    fmt.Errorf("unexpected %q at offset %d", c, i),
				}
			}
			stack = stack[:len(stack)-1]
		case ',':
			if len(stack) == 0 {
				clauses = append(clauses, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}

	if len(stack) > 0 {
		return nil, &SignatureError{
			Text:   text,
			Reason: ErrMalformed,
			Err:    fmt.Errorf("%w: missing %q", ErrUnbalanced, stack[len(stack)-1]),
		}
	}

	last := strings.TrimSpace(text[start:])
	if last != "" {
		clauses = append(clauses, last)
	}
	return clauses, nil
}

// skipQuoted returns the offset of the quote closing the string that opens at text[open].
func skipQuoted(text string, open int) (int, bool) {
	quote := text[open]
	for j := open + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j, true
		}
	}
	return 0, false
}
