package tester

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/ll1/driver"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1.tester'.
func tracer() tracing.Trace {
	return tracing.Select("ll1.tester")
}

// TestCase is a line of a test file. A line `accept: a + a` expects the verdict Accept for the
// source `a + a`; `reject:` and `recover:` expect Reject and Reject (with error recovery).
type TestCase struct {
	Line    int
	Verdict driver.Verdict
	Source  string
}

var verdictLabels = map[string]driver.Verdict{
	"accept":  driver.VerdictAccept,
	"reject":  driver.VerdictReject,
	"recover": driver.VerdictRejectWithRecovery,
}

// ParseTestCases reads test cases. Empty lines and lines starting with `//` are ignored.
func ParseTestCases(r io.Reader) ([]*TestCase, error) {
	var cases []*TestCase
	s := bufio.NewScanner(r)
	row := 0
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		label, src, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%v: a test case needs a verdict label: %v", row, line)
		}
		v, ok := verdictLabels[strings.TrimSpace(label)]
		if !ok {
			return nil, fmt.Errorf("%v: unknown verdict label: %v", row, label)
		}
		cases = append(cases, &TestCase{
			Line:    row,
			Verdict: v,
			Source:  strings.TrimSpace(src),
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}

type TestResult struct {
	TestCasePath string
	Line         int
	Source       string
	Error        error
	Expected     driver.Verdict
	Actual       driver.Verdict
	SyntaxErrors []*driver.SyntaxError
}

func (r *TestResult) String() string {
	const indent = "    "

	if r.Error != nil {
		msgLines := strings.Split(r.Error.Error(), "\n")
		return fmt.Sprintf("Failed %v:%v:\n%v%v", r.TestCasePath, r.Line, indent, strings.Join(msgLines, "\n"+indent))
	}
	if r.Expected != r.Actual {
		msg := fmt.Sprintf("Failed %v:%v: %#v\n%vexpected: %v\n%vactual:   %v", r.TestCasePath, r.Line, r.Source, indent, r.Expected, indent, r.Actual)
		for _, synErr := range r.SyntaxErrors {
			msg += fmt.Sprintf("\n%v%v%v", indent, indent, synErr)
		}
		return msg
	}
	return fmt.Sprintf("Passed %v:%v", r.TestCasePath, r.Line)
}

func (r *TestResult) Passed() bool {
	return r.Error == nil && r.Expected == r.Actual
}

type TestCaseWithMetadata struct {
	TestCases []*TestCase
	FilePath  string
	Error     error
}

// ListTestCases reads a test file or every file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		cs, err := parseTestFile(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCases: cs,
				FilePath:  testPath,
				Error:     err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestFile(testCasePath string) ([]*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCases(f)
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		if c.Error != nil {
			rs = append(rs, &TestResult{
				TestCasePath: c.FilePath,
				Error:        c.Error,
			})
			continue
		}
		for _, tc := range c.TestCases {
			rs = append(rs, runTest(t.Grammar, c.FilePath, tc))
		}
	}
	return rs
}

func runTest(g *gspec.CompiledGrammar, path string, c *TestCase) *TestResult {
	r := &TestResult{
		TestCasePath: path,
		Line:         c.Line,
		Source:       c.Source,
		Expected:     c.Verdict,
	}

	toks, err := driver.NewTokenStream(g, strings.NewReader(c.Source))
	if err != nil {
		r.Error = err
		return r
	}
	p, err := driver.NewParser(toks, driver.NewGrammar(g), driver.DisableTrace())
	if err != nil {
		r.Error = err
		return r
	}
	err = p.Parse()
	if err != nil {
		r.Error = err
		return r
	}

	r.Actual = p.Verdict()
	r.SyntaxErrors = p.SyntaxErrors()
	tracer().Debugf("%v:%v: %v", path, c.Line, r.Actual)
	return r
}
