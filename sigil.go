// Package sigil compiles routine signatures into binding plans.
//
// A signature such as "$self: $name, :$greeting = \"hello\", @rest" is parsed once into a
// plan; each call then binds its argument list against the plan:
//
//	p, err := sigil.Compile(`$name, :$greeting = "hello"`)
//	...
//	b, err := p.Bind("world", "greeting", "hi")
//	name, _ := b.Get("name")
package sigil

import (
	"context"
	"fmt"
	"slices"

	"github.com/robbyt/go-sigil/engines"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/options"
	"github.com/robbyt/go-sigil/plan"
	"github.com/robbyt/go-sigil/signature"
)

// DefaultInvocant is the invocant name CompileMethod uses unless one is configured.
const DefaultInvocant = "self"

// Split breaks a parameter list into trimmed clauses at top-level commas.
func Split(text string) ([]string, error) {
	return signature.Split(text)
}

// Parse validates signature text without compiling defaults.
func Parse(text string, opts ...options.Option) (*signature.Model, error) {
	cfg, err := options.Build(opts...)
	if err != nil {
		return nil, err
	}
	return parse(text, cfg)
}

// Compile parses text and compiles it into a binding plan.
func Compile(text string, opts ...options.Option) (*plan.Plan, error) {
	cfg, err := options.Build(opts...)
	if err != nil {
		return nil, err
	}
	return compile(context.Background(), text, cfg)
}

// CompileMethod compiles a method signature, whose first argument binds to an invocant named
// DefaultInvocant unless options.WithInvocant or a "name:" prefix says otherwise.
func CompileMethod(text string, opts ...options.Option) (*plan.Plan, error) {
	opts = append([]options.Option{options.WithInvocant(DefaultInvocant)}, opts...)
	return Compile(text, opts...)
}

// CompileLoader compiles the signature supplied by options.WithLoader.
func CompileLoader(ctx context.Context, opts ...options.Option) (*plan.Plan, error) {
	cfg, err := options.Build(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.GetLoader() == nil {
		return nil, fmt.Errorf("no loader specified")
	}

	text, err := loader.ReadString(cfg.GetLoader())
	if err != nil {
		return nil, err
	}
	return compile(ctx, text, cfg)
}

// CompileFile compiles the signature stored in the file at path.
func CompileFile(ctx context.Context, path string, opts ...options.Option) (*plan.Plan, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return CompileLoader(ctx, append(slices.Clone(opts), options.WithLoader(l))...)
}

func parse(text string, cfg *options.Config) (*signature.Model, error) {
	return signature.Parse(text, signature.Options{
		Invocant:       cfg.GetInvocant(),
		StrictRequired: cfg.GetStrictRequired(),
	})
}

func compile(ctx context.Context, text string, cfg *options.Config) (*plan.Plan, error) {
	model, err := parse(text, cfg)
	if err != nil {
		return nil, err
	}

	planOpts := []plan.FunctionalOption{
		plan.WithLogHandler(cfg.GetHandler()),
		plan.WithScopeProvider(cfg.GetScopeProvider()),
		plan.WithName(cfg.GetName()),
		plan.WithStrictArity(cfg.GetStrictArity()),
	}
	if hasDefaults(model) {
		dc, err := engines.NewDefaultCompiler(ctx, cfg)
		if err != nil {
			return nil, err
		}
		planOpts = append(planOpts, plan.WithDefaultCompiler(dc))
	}
	return plan.Compile(model, planOpts...)
}

func hasDefaults(model *signature.Model) bool {
	return slices.ContainsFunc(model.Params(), signature.Descriptor.HasDefault)
}
