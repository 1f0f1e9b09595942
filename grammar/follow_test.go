package grammar

import (
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
)

type follow struct {
	nonTermText string
	symbols     []string
	eof         bool
}

func TestFollowSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		follow  []follow
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`,
			follow: []follow{
				{nonTermText: "E", symbols: []string{"+", ")"}, eof: true},
				{nonTermText: "T", symbols: []string{"+", "*", ")"}, eof: true},
				{nonTermText: "F", symbols: []string{"+", "*", ")"}, eof: true},
			},
		},
		{
			caption: "the expression grammar",
			src:     exprGrammarSrc,
			follow: []follow{
				{nonTermText: "E", symbols: []string{")"}, eof: true},
				{nonTermText: "X", symbols: []string{")"}, eof: true},
				{nonTermText: "T", symbols: []string{"+", ")"}, eof: true},
				{nonTermText: "Y", symbols: []string{"+", ")"}, eof: true},
				{nonTermText: "F", symbols: []string{"+", "*", ")"}, eof: true},
			},
		},
		{
			caption: "productions contain an empty start production",
			src:     `S -> ε`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "productions contain an empty production",
			src: `
S -> foo
foo -> ε
`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "foo", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "a non-terminal followed by nullable symbols inherits FOLLOW of LHS",
			src: `
S -> A B C d
A -> a | ε
B -> b | ε
C -> c | ε
`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "A", symbols: []string{"b", "c", "d"}},
				{nonTermText: "B", symbols: []string{"c", "d"}},
				{nonTermText: "C", symbols: []string{"d"}},
			},
		},
		{
			caption: "every occurrence of a symbol contributes",
			src: `
S -> A x A y | A
A -> a
`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "A", symbols: []string{"x", "y"}, eof: true},
			},
		},
		{
			caption: "a right-recursive symbol does not depend on itself",
			src: `
S -> a S | b
`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
			},
		},
		{
			caption: "a non-terminal that is not the start symbol can follow nothing",
			src: `
S -> a
U -> u
`,
			follow: []follow{
				{nonTermText: "S", symbols: []string{}, eof: true},
				{nonTermText: "U", symbols: []string{}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			flw, gram := genActualFollow(t, tt.src)
			symTab := gram.SymbolTable()

			for _, ttFollow := range tt.follow {
				sym, ok := symTab.ToSymbol(ttFollow.nonTermText)
				if !ok {
					t.Fatalf("a symbol '%v' was not found", ttFollow.nonTermText)
				}

				actualFollow, err := flw.find(sym)
				if err != nil {
					t.Fatalf("failed to get a FOLLOW entry; non-terminal symbol: %v (%v), error: %v", ttFollow.nonTermText, sym, err)
				}

				expectedFollow := genExpectedFollowEntry(t, ttFollow.symbols, ttFollow.eof, symTab)

				testFollow(t, actualFollow, expectedFollow)
			}
		})
	}
}

func genActualFollow(t *testing.T, src string) (*followSet, *Grammar) {
	gram := buildTestGrammar(t, src)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	flw, err := genFollowSet(gram.productionSet, fst, gram.startSymbol, gram.SymbolTable().NonTerminalSymbols())
	if flw == nil {
		t.Fatal("genFollowSet returned nil without any error")
	}
	if err != nil {
		t.Fatal(err)
	}

	return flw, gram
}

func genExpectedFollowEntry(t *testing.T, symbols []string, eof bool, symTab *symbol.SymbolTableReader) *followEntry {
	t.Helper()

	entry := newFollowEntry()
	if eof {
		entry.addEOF()
	}
	for _, sym := range symbols {
		symID, ok := symTab.ToSymbol(sym)
		if !ok {
			t.Fatalf("a symbol '%v' was not found", sym)
		}

		entry.add(symID)
	}

	return entry
}

func testFollow(t *testing.T, actual, expected *followEntry) {
	t.Helper()

	if actual.eof != expected.eof {
		t.Errorf("eof is mismatched; want: %v, got: %v", expected.eof, actual.eof)
	}

	if actual.symbols.size() != expected.symbols.size() {
		t.Fatalf("unexpected symbol count of a FOLLOW entry; want: %v, got: %v", expected.symbols.list(), actual.symbols.list())
	}

	for _, eSym := range expected.symbols.list() {
		if !actual.symbols.contains(eSym) {
			t.Fatalf("invalid FOLLOW entry; want: %v, got: %v", expected.symbols.list(), actual.symbols.list())
		}
	}
}
