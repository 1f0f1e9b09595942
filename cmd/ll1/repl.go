package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	chars *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file path>",
		Short: "Parse lines interactively",
		Long: `repl parses every line you enter and prints the verdict. Lines starting with ':' are commands:
  :trace    toggle printing steps of the parser
  :tree     toggle printing a concrete syntax tree
  :symbols  toggle reading terminal names instead of running the lexer
  :quit     quit`,
		Example: `  ll1 repl grammar.ll1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.chars = cmd.Flags().Bool("chars", false, "treat every character of an unquoted RHS word as a symbol")
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	cgram, err := loadCompiledGrammar(args[0], *replFlags.chars)
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	rl, err := readline.New(cgram.Name + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println(fmt.Sprintf("Grammar %v is loaded. Quit with <ctrl>D", cgram.Name))
	r := &repl{
		cgram: cgram,
		opts: &parseOptions{
			pretty: true,
		},
	}
	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF or readline.ErrInterrupt
			break
		}
		if quit := r.eval(os.Stdout, line); quit {
			break
		}
	}
	return nil
}

type repl struct {
	cgram *gspec.CompiledGrammar
	opts  *parseOptions
}

// eval parses a line or runs a command. It returns true when the user quits.
func (r *repl) eval(w io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	switch line {
	case ":quit":
		return true
	case ":trace":
		r.opts.trace = !r.opts.trace
		pterm.Info.Println(fmt.Sprintf("trace: %v", r.opts.trace))
		return false
	case ":tree":
		r.opts.cst = !r.opts.cst
		pterm.Info.Println(fmt.Sprintf("tree: %v", r.opts.cst))
		return false
	case ":symbols":
		r.opts.symbols = !r.opts.symbols
		pterm.Info.Println(fmt.Sprintf("symbols: %v", r.opts.symbols))
		return false
	}
	if strings.HasPrefix(line, ":") {
		pterm.Error.Println(fmt.Sprintf("unknown command: %v", line))
		return false
	}

	err := parse(w, r.cgram, strings.NewReader(line), r.opts)
	if err != nil {
		pterm.Error.Println(err)
	}
	return false
}
