package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-sigil"
	"github.com/robbyt/go-sigil/plan"
	"github.com/robbyt/go-sigil/sigfmt"
)

func newSplitCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "split [signature]",
		Short: "Print the top-level parameter clauses of a signature, one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := f.signature(cmd, args)
			if err != nil {
				return err
			}
			clauses, err := sigil.Split(text)
			if err != nil {
				return err
			}
			for _, c := range clauses {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newCompileCmd(f *flags) *cobra.Command {
	var encode bool

	cmd := &cobra.Command{
		Use:   "compile [signature]",
		Short: "Compile a signature and print its binding plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := f.signature(cmd, args)
			if err != nil {
				return err
			}
			p, err := f.compile(cmd, text)
			if err != nil {
				return err
			}
			if !encode {
				fmt.Fprint(cmd.OutOrStdout(), p.String())
				return nil
			}
			data, err := sigfmt.Encode(p.Model())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&encode, "cbor", false, "Print the hex encoded CBOR form of the signature instead")
	return cmd
}

func newBindCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "bind [signature] [-- args...]",
		Short: "Bind an argument list against a signature and print the bindings",
		Long: "Bind an argument list against a signature and print the bindings.\n\n" +
			"Each argument is read as JSON when it parses, and as a string otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, rest, err := f.signature(cmd, args)
			if err != nil {
				return err
			}
			p, err := f.compile(cmd, text)
			if err != nil {
				return err
			}
			return bindAndPrint(cmd, p, parseArgs(rest), cmd.OutOrStdout())
		},
	}
}

func parseArgs(args []string) []any {
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = parseValue(a)
	}
	return values
}

func bindAndPrint(cmd *cobra.Command, p *plan.Plan, args []any, out io.Writer) error {
	b, err := p.BindAt(cmd.Context(), plan.Site{Routine: p.Name()}, args)
	if err != nil {
		return err
	}
	printBindings(out, p, b)
	return nil
}

// printBindings writes one line per bound parameter in plan order.
func printBindings(out io.Writer, p *plan.Plan, b *plan.Bindings) {
	for _, step := range p.Steps() {
		switch step.Kind {
		case plan.CollectNamed, plan.RejectUnknown:
			continue
		}
		v, _ := b.Get(step.Param.Name)
		note := ""
		if step.Kind != plan.BindInvocant && !b.Supplied(step.Param.Name) {
			note = "  # not supplied"
		}
		fmt.Fprintf(out, "%s = %s%s\n", step.Param.Display(), formatValue(v), note)
	}
}
