package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/scope"
)

// DefaultConfig initializes a Config using the Starlark engine, an empty scope and a text
// handler on stderr.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetEngineType(types.Starlark)
	cfg.SetHandler(DefaultHandler())
	cfg.SetScopeProvider(DefaultScopeProvider())
	return cfg
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, nil)
}

// DefaultScopeProvider returns a provider with no variables.
func DefaultScopeProvider() scope.Provider {
	return scope.NewStaticProvider(map[string]any{})
}

// WithDefaults fills in any config properties that are unset.
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.scopeProvider == nil {
			c.scopeProvider = DefaultScopeProvider()
		}
		if c.engineType == "" {
			c.engineType = types.Starlark
		}
		return nil
	}
}

// Build applies opts over DefaultConfig, fills in defaults and validates the result.
func Build(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := WithDefaults()(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
