package signature

import (
	"strings"
	"unicode"
)

// PassthroughParam is the raw argument list parameter. It binds nothing.
const PassthroughParam = "@_"

// ParseParam parses one clause into a Descriptor.
//
//	[:][\]<sigil><name>[?|!] [is <trait>]... [= <default>]
//
// A leading ":" makes the parameter named, a leading "\" makes it a reference alias.
// A trailing "?" marks it optional and a trailing "!" marks it required, overriding the
// optionality a default or a named role would otherwise imply. Traits sit between the name
// and the default; the default is everything after the first "=", kept verbatim.
func ParseParam(clause string) (Descriptor, error) {
	src := strings.TrimSpace(clause)
	if src == "" {
		return Descriptor{}, malformed(clause, "empty parameter")
	}

	d := Descriptor{Index: -1, Traits: Traits{}}
	rest := src
	if strings.HasPrefix(rest, ":") {
		d.Role = Named
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, `\`) {
		d.RefAlias = true
		rest = rest[1:]
	}

	head := rest
	if i := strings.IndexByte(rest, '='); i >= 0 {
		head = rest[:i]
		d.Default = strings.TrimSpace(rest[i+1:])
		if d.Default == "" {
			return Descriptor{}, malformed(src, "empty default expression")
		}
	}

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return Descriptor{}, malformed(src, "missing parameter name")
	}
	for j := 1; j < len(fields); j += 2 {
		if fields[j] != "is" || j+1 >= len(fields) {
			return Descriptor{}, malformed(src, "unexpected %q", fields[j])
		}
		trait := fields[j+1]
		if !isIdent(trait) {
			return Descriptor{}, malformed(src, "invalid trait %q", trait)
		}
		d.Traits[trait] = true
	}

	token := fields[0]
	if token == PassthroughParam {
		if d.Role == Named || d.RefAlias || len(d.Traits) > 0 || d.HasDefault() {
			return Descriptor{}, malformed(src, "%s takes no markers, traits or default", PassthroughParam)
		}
		d.Name = "_"
		d.Sigil = Array
		d.Passthrough = true
		return d, nil
	}

	sigil, ok := sigilFor(token[0])
	if !ok {
		return Descriptor{}, malformed(src, "unknown sigil %q", token[0])
	}
	d.Sigil = sigil

	name := token[1:]
	optional := false
	if n, found := strings.CutSuffix(name, "!"); found {
		d.Required = true
		name = n
	}
	if n, found := strings.CutSuffix(name, "?"); found {
		optional = true
		name = n
	}
	if optional && d.Required {
		return Descriptor{}, malformed(src, "parameter cannot be both optional and required")
	}
	if !isIdent(name) {
		return Descriptor{}, malformed(src, "invalid parameter name %q", name)
	}
	d.Name = name

	d.Optional = !d.Required && (optional || d.HasDefault() || d.Role == Named)
	d.Slurpy = d.Sigil != Scalar && !d.RefAlias
	return d, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
