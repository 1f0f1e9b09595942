package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/ll1/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	chars *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  ll1 test grammar.ll1 test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.chars = cmd.Flags().Bool("chars", false, "treat every character of an unquoted RHS word as a symbol")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cg, err := loadCompiledGrammar(args[0], *testFlags.chars)
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Grammar: cg,
		Cases:   cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if !r.Passed() {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
