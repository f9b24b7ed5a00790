package signature

import (
	"strings"
)

// Options control how a signature is assembled.
type Options struct {
	// Invocant is the implied invocant name of a method-style signature. Empty means the
	// signature has no invocant unless the text declares one with a "name:" prefix.
	Invocant string
	// StrictRequired rejects parameters marked both "!" and given a default.
	StrictRequired bool
}

// Model is a validated signature. It is immutable: accessors return copies.
type Model struct {
	text        string
	invocant    string
	positional  []Descriptor
	named       []Descriptor
	passthrough bool
}

func (m *Model) Text() string { return m.text }

// Invocant returns the invocant name and whether the signature has one.
func (m *Model) Invocant() (string, bool) {
	return m.invocant, m.invocant != ""
}

func (m *Model) HasInvocant() bool { return m.invocant != "" }

// Passthrough reports whether the raw argument list parameter was declared.
func (m *Model) Passthrough() bool { return m.passthrough }

// Positional returns the positional parameters in index order.
func (m *Model) Positional() []Descriptor { return cloneAll(m.positional) }

// Named returns the named parameters in declaration order.
func (m *Model) Named() []Descriptor { return cloneAll(m.named) }

// Params returns the positional parameters followed by the named ones.
func (m *Model) Params() []Descriptor {
	return append(cloneAll(m.positional), cloneAll(m.named)...)
}

func (m *Model) HasNamed() bool      { return len(m.named) > 0 }
func (m *Model) HasPositional() bool { return len(m.positional) > 0 }

func (m *Model) HasOptionalPositional() bool {
	for _, d := range m.positional {
		if d.Optional {
			return true
		}
	}
	return false
}

func (m *Model) SlurpyCount() int {
	n := 0
	for _, d := range m.positional {
		if d.Slurpy {
			n++
		}
	}
	for _, d := range m.named {
		if d.Slurpy {
			n++
		}
	}
	return n
}

// String renders the signature in canonical form.
func (m *Model) String() string {
	parts := make([]string, 0, len(m.positional)+len(m.named)+1)
	if m.passthrough {
		parts = append(parts, PassthroughParam)
	}
	for _, d := range m.positional {
		parts = append(parts, d.String())
	}
	for _, d := range m.named {
		parts = append(parts, d.String())
	}
	out := strings.Join(parts, ", ")
	if m.invocant != "" {
		out = "$" + m.invocant + ": " + out
	}
	return strings.TrimSpace(out)
}

// String renders the descriptor so that ParseParam reads it back unchanged.
func (d Descriptor) String() string {
	if d.Passthrough {
		return PassthroughParam
	}
	var b strings.Builder
	b.WriteString(d.Display())
	switch {
	case d.Required:
		b.WriteByte('!')
	case d.Optional && !d.HasDefault() && d.Role == Positional:
		b.WriteByte('?')
	}
	for _, t := range d.Traits.Names() {
		b.WriteString(" is ")
		b.WriteString(t)
	}
	if d.HasDefault() {
		b.WriteString(" = ")
		b.WriteString(d.Default)
	}
	return b.String()
}

func cloneAll(in []Descriptor) []Descriptor {
	out := make([]Descriptor, len(in))
	for i, d := range in {
		out[i] = d.clone()
	}
	return out
}

// Assembler folds descriptors into a Model, checking each one against those already added.
type Assembler struct {
	opts  Options
	model Model
	// seen maps bare names to the display form of their first declaration.
	seen             map[string]string
	slurpy           string
	slurpyPositional string
	optional         string
	named            string
}

func NewAssembler(opts Options) *Assembler {
	a := &Assembler{
		opts: opts,
		seen: make(map[string]string),
	}
	if opts.Invocant != "" {
		a.model.invocant = opts.Invocant
		a.seen[opts.Invocant] = "$" + opts.Invocant
	}
	return a
}

// Add validates d against the accumulated state and appends it.
func (a *Assembler) Add(d Descriptor) error {
	if d.Passthrough {
		a.model.passthrough = true
		return nil
	}

	display := d.Display()
	if prev, ok := a.seen[d.Name]; ok {
		return &SignatureError{Param: display, Other: prev, Reason: ErrDuplicateName}
	}
	if a.opts.StrictRequired && d.Required && d.HasDefault() {
		return &SignatureError{Param: display, Reason: ErrRequiredWithDefault}
	}
	if d.Slurpy && a.slurpy != "" {
		return &SignatureError{Param: display, Other: a.slurpy, Reason: ErrMultipleSlurpy}
	}

	switch d.Role {
	case Named:
		if a.optional != "" {
			return &SignatureError{Param: display, Other: a.optional, Reason: ErrNamedAfterOptional}
		}
		if a.slurpyPositional != "" {
			return &SignatureError{Param: display, Other: a.slurpyPositional, Reason: ErrNamedAfterSlurpy}
		}
		d.Index = -1
		a.model.named = append(a.model.named, d.clone())
		if a.named == "" {
			a.named = display
		}
	default:
		if a.named != "" {
			return &SignatureError{Param: display, Other: a.named, Reason: ErrPositionalAfterNamed}
		}
		d.Index = len(a.model.positional)
		a.model.positional = append(a.model.positional, d.clone())
		if d.Optional && a.optional == "" {
			a.optional = display
		}
		if d.Slurpy {
			a.slurpyPositional = display
		}
	}

	if d.Slurpy {
		a.slurpy = display
	}
	a.seen[d.Name] = display
	return nil
}

// SetText records the source text the signature was assembled from.
func (a *Assembler) SetText(text string) {
	a.model.text = strings.TrimSpace(text)
}

// Model returns a snapshot of the signature assembled so far.
func (a *Assembler) Model() *Model {
	m := a.model
	m.positional = cloneAll(a.model.positional)
	m.named = cloneAll(a.model.named)
	return &m
}
