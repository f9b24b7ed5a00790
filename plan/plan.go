package plan

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/scope"
	"github.com/robbyt/go-sigil/signature"
)

// Kind is what a Step does.
type Kind uint8

const (
	// BindInvocant binds the first argument to the invocant.
	BindInvocant Kind = iota
	// BindPositional binds one positional argument.
	BindPositional
	// BindSlurpy binds every remaining positional argument.
	BindSlurpy
	// CollectNamed turns the argument tail into key/value pairs.
	CollectNamed
	// BindNamed takes one key out of the collected pairs.
	BindNamed
	// RejectUnknown fails when collected pairs are left over.
	RejectUnknown
)

func (k Kind) String() string {
	switch k {
	case BindInvocant:
		return "invocant"
	case BindPositional:
		return "positional"
	case BindSlurpy:
		return "slurpy"
	case CollectNamed:
		return "collect-named"
	case BindNamed:
		return "named"
	case RejectUnknown:
		return "reject-unknown"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Mode is how a bound value relates to the caller's argument.
type Mode uint8

const (
	// Copy binds an independent copy. Collections are cloned one level deep.
	Copy Mode = iota
	// Alias binds the caller's storage; writes are visible to the caller.
	Alias
	// ReadOnly binds a copy that refuses writes.
	ReadOnly
)

func (m Mode) String() string {
	switch m {
	case Alias:
		return "alias"
	case ReadOnly:
		return "ro"
	}
	return "copy"
}

func modeOf(d signature.Descriptor) Mode {
	switch {
	case d.Traits.Has(signature.TraitReadOnly):
		return ReadOnly
	case d.RefAlias || d.Traits.Has(signature.TraitAlias):
		return Alias
	}
	return Copy
}

// Step is one binding instruction.
type Step struct {
	Kind  Kind
	Param signature.Descriptor
	// Index is the argument offset, after the invocant, of a positional or slurpy step.
	Index    int
	Required bool
	Mode     Mode
	// Default is nil when the parameter has no default.
	Default defaults.Expression
}

func (s Step) String() string {
	var b strings.Builder
	switch s.Kind {
	case BindInvocant:
		fmt.Fprintf(&b, "%s <- invocant", s.Param.Var())
	case BindPositional:
		fmt.Fprintf(&b, "%s <- args[%d]", s.Param.Display(), s.Index)
	case BindSlurpy:
		fmt.Fprintf(&b, "%s <- args[%d:]", s.Param.Display(), s.Index)
	case CollectNamed:
		fmt.Fprintf(&b, "collect named pairs from args[%d:]", s.Index)
		return b.String()
	case BindNamed:
		fmt.Fprintf(&b, "%s <- named[%q]", s.Param.Display(), s.Param.Name)
	case RejectUnknown:
		return "reject unknown named keys"
	}

	var notes []string
	if s.Required {
		notes = append(notes, "required")
	}
	notes = append(notes, s.Mode.String())
	if s.Default != nil {
		notes = append(notes, "default "+s.Default.String())
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(notes, ", "))
	return b.String()
}

// Plan binds argument lists for one signature. It is immutable and safe for concurrent use.
type Plan struct {
	id          string
	name        string
	model       *signature.Model
	steps       []Step
	named       []string
	positional  int
	strictArity bool
	scope       scope.Provider
	logHandler  slog.Handler
	logger      *slog.Logger
}

// ID identifies the plan. Plans compiled from equal signatures share an ID.
func (p *Plan) ID() string { return p.id }

// Name is the routine name used in call errors, if one was configured.
func (p *Plan) Name() string { return p.name }

func (p *Plan) Model() *signature.Model { return p.model }

// Steps returns the binding steps in execution order.
func (p *Plan) Steps() []Step {
	steps := slices.Clone(p.steps)
	for i := range steps {
		steps[i].Param.Traits = maps.Clone(steps[i].Param.Traits)
	}
	return steps
}

// String renders the plan one step per line.
func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan %s for (%s)\n", p.id, p.model.String())
	for i, s := range p.steps {
		fmt.Fprintf(&b, "%3d  %s\n", i, s.String())
	}
	return b.String()
}
