package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/nihei9/ll1/error"
	"github.com/nihei9/ll1/grammar"
	"github.com/nihei9/ll1/spec"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output      *string
	compression *string
	fingerprint *bool
	chars       *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile grammar you defined into a parsing table",
		Example: `  ll1 compile grammar.ll1 -o grammar.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compression = cmd.Flags().String("compression", "max", "compression level of the parsing table [none|unique|max]")
	compileFlags.fingerprint = cmd.Flags().Bool("fingerprint", false, "print a fingerprint of the analysis")
	compileFlags.chars = cmd.Flags().Bool("chars", false, "treat every character of an unquoted RHS word as a symbol")
	rootCmd.AddCommand(cmd)
}

var compressionLevels = map[string]gspec.CompressionLevel{
	"none":   gspec.CompressionLevelNone,
	"unique": gspec.CompressionLevelUniqueEntries,
	"max":    gspec.CompressionLevelMax,
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	lv, ok := compressionLevels[*compileFlags.compression]
	if !ok {
		return fmt.Errorf("Unknown compression level: %v", *compileFlags.compression)
	}

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		if retErr == nil || len(args) > 0 {
			return
		}
		switch err := retErr.(type) {
		case *verr.SpecError:
			err.SourceName = "stdin"
		case verr.SpecErrors:
			for _, e := range err {
				e.SourceName = "stdin"
			}
		}
	}()

	if grmPath == "" {
		var err error
		tmpDirPath, err = os.MkdirTemp("", "ll1-compile-*")
		if err != nil {
			return err
		}

		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}

		grmPath = filepath.Join(tmpDirPath, "stdin.ll1")
		err = os.WriteFile(grmPath, src, 0600)
		if err != nil {
			return err
		}
	}

	gram, err := readGrammar(grmPath, *compileFlags.chars)
	if err != nil {
		return err
	}

	cgram, report, err := grammar.Compile(gram, grammar.EnableReporting(), grammar.Compression(lv))
	if err != nil {
		return err
	}

	err = writeCompiledGrammarAndReport(cgram, report, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	if len(report.Conflicts) == 1 {
		fmt.Fprintf(os.Stderr, "1 conflict\n")
	} else if len(report.Conflicts) > 1 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", len(report.Conflicts))
	}

	if *compileFlags.fingerprint {
		a, err := grammar.Analyze(gram)
		if err != nil {
			return err
		}
		fp, err := a.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "fingerprint: %v\n", fp)
	}

	return nil
}

// readGrammar reads a grammar written in the notation. Positions of errors are reported with the
// path and the erroneous line.
func readGrammar(path string, charSymbols bool) (grm *grammar.Grammar, retErr error) {
	defer func() {
		if retErr == nil {
			return
		}
		switch err := retErr.(type) {
		case *verr.SpecError:
			err.FilePath = path
			err.SourceName = path
		case verr.SpecErrors:
			for _, e := range err {
				e.FilePath = path
				e.SourceName = path
			}
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	var opts []spec.ParseOption
	if charSymbols {
		opts = append(opts, spec.CharSymbols())
	}
	ast, err := spec.Parse(f, opts...)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// loadCompiledGrammar reads a compiled grammar when the path has the extension `.json`. Otherwise,
// it compiles a grammar written in the notation.
func loadCompiledGrammar(path string, charSymbols bool) (*gspec.CompiledGrammar, error) {
	if strings.HasSuffix(path, ".json") {
		return readCompiledGrammar(path)
	}
	gram, err := readGrammar(path, charSymbols)
	if err != nil {
		return nil, err
	}
	cgram, _, err := grammar.Compile(gram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}

func readCompiledGrammar(path string) (*gspec.CompiledGrammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cgram := &gspec.CompiledGrammar{}
	err = json.Unmarshal(data, cgram)
	if err != nil {
		return nil, err
	}
	return cgram, nil
}

// writeCompiledGrammarAndReport writes a compiled grammar and a report to a files located at a specified path.
// This function selects one of the following output methods depending on how the path is specified.
//
//  1. When the path is a directory path, this function writes the compiled grammar and the report to
//     <path>/<grammar-name>.json and <path>/<grammar-name>-report.json files, respectively.
//  2. When the path is a file path or a non-existent path, this function assumes that the path represents a file
//     path for the compiled grammar. Then it also writes the report in the same directory as the compiled grammar.
//  3. When the path is an empty string, this function writes the compiled grammar to the stdout and writes
//     the report to a file named <current-directory>/<grammar-name>-report.json.
func writeCompiledGrammarAndReport(cgram *gspec.CompiledGrammar, report *gspec.Report, path string) error {
	cgramPath, reportPath, err := makeOutputFilePaths(cgram.Name, path)
	if err != nil {
		return err
	}

	{
		var cgramW io.Writer
		if cgramPath != "" {
			cgramFile, err := os.OpenFile(cgramPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer cgramFile.Close()
			cgramW = cgramFile
		} else {
			cgramW = os.Stdout
		}

		b, err := json.Marshal(cgram)
		if err != nil {
			return err
		}
		fmt.Fprintf(cgramW, "%v\n", string(b))
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func makeOutputFilePaths(gramName string, path string) (string, string, error) {
	reportFileName := gramName + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, gramName+".json"), filepath.Join(path, reportFileName), nil
}
