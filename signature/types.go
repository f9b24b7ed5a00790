package signature

import (
	"maps"
	"slices"
	"strings"
)

// Sigil is the arity marker in front of a parameter name.
type Sigil uint8

const (
	Scalar Sigil = iota
	Array
	Hash
)

func (s Sigil) String() string {
	switch s {
	case Array:
		return "@"
	case Hash:
		return "%"
	default:
		return "$"
	}
}

func sigilFor(c byte) (Sigil, bool) {
	switch c {
	case '$':
		return Scalar, true
	case '@':
		return Array, true
	case '%':
		return Hash, true
	}
	return Scalar, false
}

// Role tells whether a parameter is taken by position or by key.
type Role uint8

const (
	Positional Role = iota
	Named
)

func (r Role) String() string {
	if r == Named {
		return "named"
	}
	return "positional"
}

// Well-known traits. Any other trait name is accepted and ignored.
const (
	TraitReadOnly = "ro"
	TraitAlias    = "alias"
)

// Traits is an open set of trait names.
type Traits map[string]bool

func (t Traits) Has(name string) bool {
	return t[name]
}

// Names returns the trait names in sorted order.
func (t Traits) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Descriptor is one parsed parameter.
type Descriptor struct {
	Name  string
	Sigil Sigil
	Role  Role
	// Index is the 0-based position of a positional parameter, -1 for named ones.
	Index    int
	Slurpy   bool
	RefAlias bool
	Traits   Traits
	// Default is the verbatim default expression, empty when there is none.
	Default  string
	Optional bool
	// Required is set by an explicit trailing "!".
	Required bool
	// Passthrough marks the raw argument list parameter "@_".
	Passthrough bool
}

// HasDefault reports whether a default expression was declared.
func (d Descriptor) HasDefault() bool {
	return d.Default != ""
}

// Var is the parameter as written in code, with its sigil, e.g. "$name" or "@list".
func (d Descriptor) Var() string {
	return d.Sigil.String() + d.Name
}

// Display is the parameter with its role and reference markers, e.g. ":$year" or "\@list".
func (d Descriptor) Display() string {
	var b strings.Builder
	if d.Role == Named {
		b.WriteByte(':')
	}
	if d.RefAlias {
		b.WriteByte('\\')
	}
	b.WriteString(d.Var())
	return b.String()
}

// clone returns a copy that shares no mutable state with d.
func (d Descriptor) clone() Descriptor {
	d.Traits = maps.Clone(d.Traits)
	if d.Traits == nil {
		d.Traits = Traits{}
	}
	return d
}
