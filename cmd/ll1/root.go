package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	traceLevel *string
}{}

var rootCmd = &cobra.Command{
	Use:   "ll1",
	Short: "Analyze an LL(1) grammar and run its predictive parser",
	Long: `ll1 provides two features:
- Computes FIRST and FOLLOW sets and an LL(1) parsing table of a grammar, and reports conflicts.
- Parses a text stream with the table-driven predictive parser and shows every step.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setTraceLevel(*rootFlags.traceLevel)
	},
}

func init() {
	rootFlags.traceLevel = rootCmd.PersistentFlags().String("trace-level", "Error", "trace level [Debug|Info|Error]")
}

var traceKeys = []string{
	"ll1.spec",
	"ll1.grammar",
	"ll1.driver",
	"ll1.tester",
}

func setTraceLevel(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
