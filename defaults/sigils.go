package defaults

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StripSigils rewrites sigil-prefixed variable references such as $this, @list or %opts to
// their bare names so that an engine can resolve them as ordinary identifiers. Text inside
// single or double quotes is left alone.
//
// "$" is always a sigil when an identifier follows it. "@" and "%" are sigils only where an
// operand may start, so "a % b" and "n%m" keep their modulo operator.
func StripSigils(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	var prev rune // last non-space rune written
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case r == '\'' || r == '"':
			end := quoteEnd(src, i)
			b.WriteString(src[i:end])
			prev = r
			i = end
			continue
		case (r == '$' || r == '@' || r == '%') && identStartsAt(src, i+size):
			if r == '$' || !endsOperand(prev) {
				i += size
				continue
			}
		}

		b.WriteRune(r)
		if !unicode.IsSpace(r) {
			prev = r
		}
		i += size
	}
	return b.String()
}

// quoteEnd returns the offset just past the string literal opening at src[open]. An
// unterminated literal runs to the end of src.
func quoteEnd(src string, open int) int {
	quote := src[open]
	for j := open + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(src)
}

func identStartsAt(src string, i int) bool {
	if i >= len(src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(src[i:])
	return r == '_' || unicode.IsLetter(r)
}

// endsOperand reports whether r can end an operand, making a following "@" or "%" binary.
func endsOperand(r rune) bool {
	switch {
	case r == 0:
		return false
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return true
	}
	return strings.ContainsRune(`)]}'"`, r)
}
