// Package types names the default-expression engines.
package types

import (
	"fmt"
	"slices"
	"strings"
)

// Type is a default-expression engine.
type Type string

const (
	// Starlark engine: https://github.com/google/starlark-go
	Starlark Type = "starlark"
	// Risor engine: https://github.com/risor-io/risor
	Risor Type = "risor"
	// HCL expression engine: https://github.com/hashicorp/hcl
	HCL Type = "hcl"
	// Extism WASM engine: https://extism.org/
	Extism Type = "extism"
)

// All lists the engines in the order they are documented.
var All = []Type{Starlark, Risor, HCL, Extism}

func (t Type) String() string {
	return string(t)
}

// Valid reports whether t is a known engine.
func (t Type) Valid() bool {
	return slices.Contains(All, t)
}

// Parse reads an engine name, ignoring case.
func Parse(name string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown engine %q, expected one of %v", name, All)
	}
	return t, nil
}
