package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/nihei9/ll1/driver"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source  *string
	symbols *bool
	trace   *bool
	cst     *bool
	chars   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a text stream",
		Example: `  cat src | ll1 parse grammar.json
  echo 'a + a * a' | ll1 parse grammar.ll1 --trace
  echo '( a ) $' | ll1 parse grammar.ll1 --symbols`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.symbols = cmd.Flags().Bool("symbols", false, "read terminal names separated by white spaces instead of running the lexer; a trailing $ is optional")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print every step of the parser")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print a concrete syntax tree")
	parseFlags.chars = cmd.Flags().Bool("chars", false, "treat every character of an unquoted RHS word as a symbol")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		panicked := false
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}

			retErr = err
			panicked = true
		}

		if retErr != nil && panicked {
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	cgram, err := loadCompiledGrammar(args[0], *parseFlags.chars)
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *parseFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	return parse(os.Stdout, cgram, src, &parseOptions{
		symbols: *parseFlags.symbols,
		trace:   *parseFlags.trace,
		cst:     *parseFlags.cst,
	})
}

type parseOptions struct {
	symbols bool
	trace   bool
	cst     bool
	// pretty renders a tree with pterm instead of ruled lines.
	pretty bool
}

func parse(w io.Writer, cgram *gspec.CompiledGrammar, src io.Reader, opts *parseOptions) error {
	gram := driver.NewGrammar(cgram)

	var toks driver.TokenStream
	if opts.symbols {
		b, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		syms := strings.Fields(string(b))
		if len(syms) > 0 && syms[len(syms)-1] == "$" {
			syms = syms[:len(syms)-1]
		}
		toks = driver.NewSymbolStream(cgram, syms)
	} else {
		var err error
		toks, err = driver.NewTokenStream(cgram, src)
		if err != nil {
			return err
		}
	}

	var pOpts []driver.ParserOption
	var treeAct *driver.SyntaxTreeActionSet
	if opts.cst {
		treeAct = driver.NewSyntaxTreeActionSet(gram)
		pOpts = append(pOpts, driver.SemanticAction(treeAct))
	}
	if !opts.trace {
		pOpts = append(pOpts, driver.DisableTrace())
	}

	p, err := driver.NewParser(toks, gram, pOpts...)
	if err != nil {
		return err
	}
	err = p.Parse()
	if err != nil {
		return err
	}

	if opts.trace {
		err := writeTrace(w, gram, p.Trace())
		if err != nil {
			return err
		}
	}

	for _, synErr := range p.SyntaxErrors() {
		fmt.Fprintf(os.Stderr, "%v\n", synErr)
	}

	if treeAct != nil && treeAct.CST() != nil {
		if opts.pretty {
			err := writeTree(w, treeAct.CST())
			if err != nil {
				return err
			}
		} else {
			driver.PrintTree(w, treeAct.CST())
		}
	}

	fmt.Fprintf(w, "%v\n", p.Verdict())

	return nil
}
