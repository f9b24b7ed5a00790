package plan

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/robbyt/go-sigil/defaults"
	"github.com/robbyt/go-sigil/scope"
	"github.com/robbyt/go-sigil/sigfmt"
	"github.com/robbyt/go-sigil/signature"
)

const idLength = 16

type compiler struct {
	defaults    defaults.Compiler
	scope       scope.Provider
	name        string
	strictArity bool
	logHandler  slog.Handler
	logger      *slog.Logger
}

// Compile turns a validated signature into a binding plan. Default expressions are compiled
// here, so a default that does not compile is a definition-time *signature.SignatureError.
func Compile(model *signature.Model, opts ...FunctionalOption) (*Plan, error) {
	if model == nil {
		return nil, ErrModelNil
	}

	c := &compiler{}
	c.applyDefaults()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying plan option: %w", err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid plan configuration: %w", err)
	}
	c.setupLogger()

	return c.compile(model)
}

func (c *compiler) String() string {
	return "plan.Compiler"
}

func (c *compiler) compile(model *signature.Model) (*Plan, error) {
	logger := c.logger.WithGroup("compile")
	logger.Debug("Starting plan compilation", "signature", model.String())

	digest, err := sigfmt.Digest(model)
	if err != nil {
		return nil, fmt.Errorf("failed to digest signature: %w", err)
	}

	p := &Plan{
		id:          digest[:idLength],
		name:        c.name,
		model:       model,
		strictArity: c.strictArity,
		scope:       c.scope,
		logHandler:  c.logHandler,
		logger:      c.logger.With("planID", digest[:idLength]),
	}

	visible := c.scope.Names()
	if invocant, ok := model.Invocant(); ok {
		p.steps = append(p.steps, Step{
			Kind:     BindInvocant,
			Param:    signature.Descriptor{Name: invocant, Index: -1, Traits: signature.Traits{}},
			Required: true,
		})
		visible = append(visible, invocant)
	}

	positional := model.Positional()
	p.positional = len(positional)
	for _, d := range positional {
		step := Step{
			Kind:     BindPositional,
			Param:    d,
			Index:    d.Index,
			Required: !d.Optional && !d.Slurpy,
			Mode:     modeOf(d),
		}
		if d.Slurpy {
			step.Kind = BindSlurpy
		}
		if step.Default, err = c.compileDefault(model, d, visible); err != nil {
			logger.Warn("Default compilation failed", "param", d.Display(), "error", err)
			return nil, err
		}
		p.steps = append(p.steps, step)
		visible = append(visible, d.Name)
	}

	if model.HasNamed() {
		p.steps = append(p.steps, Step{Kind: CollectNamed, Index: len(positional)})
		for _, d := range model.Named() {
			step := Step{
				Kind:     BindNamed,
				Param:    d,
				Index:    -1,
				Required: !d.Optional,
				Mode:     modeOf(d),
			}
			if step.Default, err = c.compileDefault(model, d, visible); err != nil {
				logger.Warn("Default compilation failed", "param", d.Display(), "error", err)
				return nil, err
			}
			p.steps = append(p.steps, step)
			p.named = append(p.named, d.Name)
			visible = append(visible, d.Name)
		}
		p.steps = append(p.steps, Step{Kind: RejectUnknown})
	}

	logger.Debug("Plan compiled", "planID", p.id, "steps", len(p.steps))
	return p, nil
}

// compileDefault compiles the default of d, which may read every name in visible.
func (c *compiler) compileDefault(
	model *signature.Model,
	d signature.Descriptor,
	visible []string,
) (defaults.Expression, error) {
	if !d.HasDefault() {
		return nil, nil
	}

	fail := func(err error) error {
		return &signature.SignatureError{
			Text:   model.Text(),
			Param:  d.Display(),
			Reason: signature.ErrInvalidDefault,
			Err:    err,
		}
	}
	if c.defaults == nil {
		return nil, fail(ErrNoDefaultCompiler)
	}

	expr, err := c.defaults.Compile(defaults.StripSigils(d.Default), slices.Clone(visible))
	if err != nil {
		return nil, fail(err)
	}
	return expr, nil
}
