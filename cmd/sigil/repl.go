package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/robbyt/go-sigil/plan"
)

const (
	historyFile = ".sigil_history"
	promptSig   = "sig> "
	promptArgs  = "args> "
	replHelp    = `Commands:
  :sig TEXT   compile TEXT as the current signature
  :plan       print the binding plan of the current signature
  :help       show this help
  :quit       exit
Any other line is an argument list, either a JSON array or space separated values.`
)

// lineReader is the part of liner.State the REPL uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl [signature]",
		Short: "Interactively bind argument lists against a signature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer func() { _ = ln.Close() }()
			ln.SetCtrlCAborts(true)

			histPath := ""
			if home, err := os.UserHomeDir(); err == nil {
				histPath = filepath.Join(home, historyFile)
				if hf, err := os.Open(histPath); err == nil {
					_, _ = ln.ReadHistory(hf)
					_ = hf.Close()
				}
			}
			defer func() {
				if histPath == "" {
					return
				}
				if hf, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(hf)
					_ = hf.Close()
				}
			}()

			r := &repl{flags: f, cmd: cmd, in: ln, out: cmd.OutOrStdout()}
			if len(args) > 0 || f.file != "" {
				text, _, err := f.signature(cmd, args)
				if err != nil {
					return err
				}
				r.setSignature(text)
			}
			return r.run()
		},
	}
}

type repl struct {
	flags *flags
	cmd   *cobra.Command
	in    lineReader
	out   io.Writer
	plan  *plan.Plan
}

func (r *repl) run() error {
	fmt.Fprintln(r.out, "sigil repl, :help for commands")
	for {
		prompt := promptArgs
		if r.plan == nil {
			prompt = promptSig
		}
		line, err := r.in.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.in.AppendHistory(line)
		if !r.handle(line) {
			return nil
		}
	}
}

// handle runs one line and reports whether the loop should continue.
func (r *repl) handle(line string) bool {
	if cmd, rest, _ := strings.Cut(line, " "); strings.HasPrefix(cmd, ":") {
		switch cmd {
		case ":quit", ":q":
			return false
		case ":help":
			fmt.Fprintln(r.out, replHelp)
		case ":sig":
			r.setSignature(rest)
		case ":plan":
			if r.plan == nil {
				fmt.Fprintln(r.out, "no signature, use :sig TEXT")
				break
			}
			fmt.Fprint(r.out, r.plan.String())
		default:
			fmt.Fprintf(r.out, "unknown command %s, type :help\n", cmd)
		}
		return true
	}

	if r.plan == nil {
		r.setSignature(line)
		return true
	}

	args, err := parseArgLine(line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return true
	}
	if err := bindAndPrint(r.cmd, r.plan, args, r.out); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
	}
	return true
}

func (r *repl) setSignature(text string) {
	p, err := r.flags.compile(r.cmd, text)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	r.plan = p
	fmt.Fprintf(r.out, "signature (%s) compiled, plan %s\n", p.Model().String(), p.ID())
}

// parseArgLine reads a JSON array, or space separated values parsed like command line
// arguments.
func parseArgLine(line string) ([]any, error) {
	if !strings.HasPrefix(line, "[") {
		return parseArgs(strings.Fields(line)), nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("invalid argument list: %w", err)
	}
	args := make([]any, len(raw))
	for i, r := range raw {
		args[i] = parseValue(string(r))
	}
	return args, nil
}
