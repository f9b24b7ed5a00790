package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-sigil"
	"github.com/robbyt/go-sigil/engines/types"
	"github.com/robbyt/go-sigil/loader"
	"github.com/robbyt/go-sigil/options"
	"github.com/robbyt/go-sigil/plan"
	"github.com/robbyt/go-sigil/scope"
)

// flags are shared by every subcommand.
type flags struct {
	file           string
	engine         string
	wasm           string
	invocant       string
	name           string
	vars           []string
	strictRequired bool
	strictArity    bool
	debug          bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "sigil",
		Short:         "Compile routine signatures and bind argument lists against them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.file, "file", "f", "", `Read the signature from a file ("-" for stdin)`)
	pf.StringVarP(&f.engine, "engine", "e", string(types.Starlark), "Default expression engine (starlark, risor, hcl, extism)")
	pf.StringVar(&f.wasm, "wasm", "", "WASM module for the extism engine")
	pf.StringVar(&f.invocant, "invocant", "", "Implied invocant name for method signatures")
	pf.StringVar(&f.name, "name", "", "Routine name used in call errors")
	pf.StringArrayVar(&f.vars, "var", nil, "Outer variable visible to defaults, as name=value (repeatable)")
	pf.BoolVar(&f.strictRequired, "strict-required", false, "Reject required parameters that declare a default")
	pf.BoolVar(&f.strictArity, "strict-arity", false, "Reject surplus positional arguments")
	pf.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSplitCmd(f),
		newCompileCmd(f),
		newBindCmd(f),
		newReplCmd(f),
	)
	return rootCmd
}

// options builds the compile options selected by the flags.
func (f *flags) options(cmd *cobra.Command) ([]options.Option, error) {
	level := slog.LevelWarn
	if f.debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})

	engine, err := types.Parse(f.engine)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]any, len(f.vars))
	for _, kv := range f.vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", kv)
		}
		vars[name] = parseValue(value)
	}

	opts := []options.Option{
		options.WithLogHandler(handler),
		options.WithEngine(engine),
		options.WithScopeProvider(scope.NewStaticProvider(vars)),
		options.WithStrictRequired(f.strictRequired),
		options.WithStrictArity(f.strictArity),
	}
	if f.invocant != "" {
		opts = append(opts, options.WithInvocant(f.invocant))
	}
	if f.name != "" {
		opts = append(opts, options.WithName(f.name))
	}
	if f.wasm != "" {
		l, err := loader.NewFromDisk(f.wasm)
		if err != nil {
			return nil, err
		}
		opts = append(opts, options.WithWasmLoader(l))
	}
	return opts, nil
}

// signature returns the signature text from --file, or from the first argument and the
// arguments that remain after it.
func (f *flags) signature(cmd *cobra.Command, args []string) (string, []string, error) {
	if f.file == "" {
		if len(args) == 0 {
			return "", nil, fmt.Errorf("no signature given, pass it as an argument or with --file")
		}
		return args[0], args[1:], nil
	}

	var (
		l   loader.Loader
		err error
	)
	if f.file == "-" {
		l, err = loader.NewFromIoReader(cmd.InOrStdin(), "stdin")
	} else {
		l, err = loader.NewFromDisk(f.file)
	}
	if err != nil {
		return "", nil, err
	}
	text, err := loader.ReadString(l)
	if err != nil {
		return "", nil, err
	}
	return text, args, nil
}

// compile compiles text with the flag options.
func (f *flags) compile(cmd *cobra.Command, text string) (*plan.Plan, error) {
	opts, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	return sigil.Compile(text, opts...)
}
