package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/ll1/grammar"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	chars *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show <grammar file path>|<report file path>",
		Short: "Print FIRST and FOLLOW sets, a parsing table, and conflicts in a readable format",
		Example: `  ll1 show grammar.ll1
  ll1 show grammar-report.json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showFlags.chars = cmd.Flags().Bool("chars", false, "treat every character of an unquoted RHS word as a symbol")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	var report *gspec.Report
	if strings.HasSuffix(args[0], ".json") {
		r, err := readReport(args[0])
		if err != nil {
			return err
		}
		report = r
	} else {
		gram, err := readGrammar(args[0], *showFlags.chars)
		if err != nil {
			return err
		}
		a, err := grammar.Analyze(gram)
		if err != nil {
			return err
		}
		report = a.Report()
	}

	err := writeReport(os.Stdout, report)
	if err != nil {
		return err
	}

	return nil
}

func readReport(path string) (*gspec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &gspec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}
