package driver

import (
	"strings"
	"testing"
)

func TestParserWithSyntaxErrors(t *testing.T) {
	type synErr struct {
		row      int
		col      int
		message  string
		expected []string
	}
	tests := []struct {
		caption string
		src     []string
		synErrs []synErr
	}{
		{
			caption: "the parser reports terminals expected by a non-terminal",
			src:     []string{")"},
			synErrs: []synErr{
				{
					row:      1,
					col:      1,
					message:  "unexpected token",
					expected: []string{"(", "a"},
				},
				{
					row:      1,
					col:      1,
					message:  "unexpected token",
					expected: []string{"$"},
				},
			},
		},
		{
			caption: "the parser reports a terminal missing at EOF",
			src:     strings.Split("(a", ""),
			synErrs: []synErr{
				{
					row:      1,
					col:      3,
					message:  "unexpected EOF",
					expected: []string{")"},
				},
			},
		},
		{
			caption: "the parser reports an invalid token every time it skips a stack symbol",
			src:     []string{"a", "?"},
			synErrs: []synErr{
				{
					row:      1,
					col:      2,
					message:  "invalid token",
					expected: []string{"$", "+", "*", ")"},
				},
				{
					row:      1,
					col:      2,
					message:  "invalid token",
					expected: []string{"$", "+", ")"},
				},
				{
					row:      1,
					col:      2,
					message:  "invalid token",
					expected: []string{"$"},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cg := compileTestGrammar(t, exprGrammarSrc)
			p, err := NewParser(NewSymbolStream(cg, tt.src), NewGrammar(cg), DisableTrace())
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err != nil {
				t.Fatal(err)
			}

			if len(p.Trace()) != 0 {
				t.Fatalf("a trace must be empty when tracing is disabled")
			}

			synErrs := p.SyntaxErrors()
			if len(synErrs) != len(tt.synErrs) {
				t.Fatalf("unexpected syntax error count; want: %v, got: %v", len(tt.synErrs), len(synErrs))
			}
			for i, e := range tt.synErrs {
				a := synErrs[i]
				if a.Row != e.row || a.Col != e.col {
					t.Fatalf("unexpected position; want: %v:%v, got: %v:%v", e.row, e.col, a.Row, a.Col)
				}
				if a.Message != e.message {
					t.Fatalf("unexpected message; want: %v, got: %v", e.message, a.Message)
				}
				if strings.Join(a.ExpectedTerminals, " ") != strings.Join(e.expected, " ") {
					t.Fatalf("unexpected expected terminals; want: %v, got: %v", e.expected, a.ExpectedTerminals)
				}
			}
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	cg := compileTestGrammar(t, exprGrammarSrc)
	p, err := NewParser(NewSymbolStream(cg, []string{"a", "?"}), NewGrammar(cg))
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	if err != nil {
		t.Fatal(err)
	}

	expected := `1:2: invalid token: "?"; expected: $, +, *, )`
	msg := p.SyntaxErrors()[0].Error()
	if msg != expected {
		t.Fatalf("unexpected message; want: %v, got: %v", expected, msg)
	}

	p, err = NewParser(NewSymbolStream(cg, strings.Split("(a", "")), NewGrammar(cg))
	if err != nil {
		t.Fatal(err)
	}
	err = p.Parse()
	if err != nil {
		t.Fatal(err)
	}

	expected = `1:3: unexpected EOF; expected: )`
	msg = p.SyntaxErrors()[0].Error()
	if msg != expected {
		t.Fatalf("unexpected message; want: %v, got: %v", expected, msg)
	}
}
