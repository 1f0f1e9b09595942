package grammar

import (
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type first struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ll1.grammar")
	defer teardown()

	tests := []struct {
		caption string
		src     string
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`,
			first: []first{
				{lhs: "E", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "E", num: 0, dot: 1, symbols: []string{"+"}},
				{lhs: "E", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "E", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "T", num: 0, dot: 1, symbols: []string{"*"}},
				{lhs: "T", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "T", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "F", num: 0, dot: 0, symbols: []string{"("}},
				{lhs: "F", num: 0, dot: 1, symbols: []string{"(", "id"}},
				{lhs: "F", num: 0, dot: 2, symbols: []string{")"}},
				{lhs: "F", num: 1, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "productions contain the empty start production",
			src:     `S -> ε`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "productions contain an empty production",
			src: `
S -> foo bar
foo -> f
bar -> b |
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"f"}},
				{lhs: "S", num: 0, dot: 1, symbols: []string{"b"}, empty: true},
				{lhs: "S", num: 0, dot: 2, symbols: []string{}, empty: true},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{"f"}},
				{lhs: "bar", num: 0, dot: 0, symbols: []string{"b"}},
				{lhs: "bar", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production contains non-empty alternative and empty alternative",
			src: `
S -> foo
foo -> f | ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"f"}, empty: true},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{"f"}},
				{lhs: "foo", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production contains multiple non-empty alternatives and empty alternative",
			src: `
S -> foo
foo -> a | b | c | ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"a", "b", "c"}, empty: true},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{"a"}},
				{lhs: "foo", num: 1, dot: 0, symbols: []string{"b"}},
				{lhs: "foo", num: 2, dot: 0, symbols: []string{"c"}},
				{lhs: "foo", num: 3, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "terminal symbols are shared by a nullable prefix",
			src: `
S -> A B c
A -> a | ε
B -> b | ε
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"a", "b", "c"}},
				{lhs: "S", num: 0, dot: 1, symbols: []string{"b", "c"}},
				{lhs: "S", num: 0, dot: 2, symbols: []string{"c"}},
			},
		},
		{
			caption: "indirect recursion reaches a fixed point",
			src: `
S -> A b
A -> B c | ε
B -> S d | e
`,
			first: []first{
				{lhs: "S", num: 0, dot: 0, symbols: []string{"b", "e"}},
				{lhs: "A", num: 0, dot: 0, symbols: []string{"b", "e"}},
				{lhs: "A", num: 1, dot: 0, symbols: []string{}, empty: true},
				{lhs: "B", num: 0, dot: 0, symbols: []string{"b", "e"}},
				{lhs: "B", num: 1, dot: 0, symbols: []string{"e"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			fst, gram := genActualFirst(t, tt.src)
			symTab := gram.SymbolTable()

			for _, ttFirst := range tt.first {
				lhsSym, ok := symTab.ToSymbol(ttFirst.lhs)
				if !ok {
					t.Fatalf("a symbol was not found; symbol: %v", ttFirst.lhs)
				}

				prods, ok := gram.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v (%v)", ttFirst.lhs, lhsSym)
				}

				actualFirst, err := fst.find(prods[ttFirst.num], ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v (%v), num: %v, dot: %v, error: %v", ttFirst.lhs, lhsSym, ttFirst.num, ttFirst.dot, err)
				}

				expectedFirst := genExpectedFirstEntry(t, ttFirst.symbols, ttFirst.empty, symTab)

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

func TestFirstSet_FindBySequence(t *testing.T) {
	gram := buildTestGrammar(t, exprGrammarSrc)
	symTab := gram.SymbolTable()
	genSym := newTestSymbolGenerator(t, symTab)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption  string
		seq      []string
		expected []string
		empty    bool
	}{
		{
			caption: "the empty sequence yields ε",
			seq:     []string{},
			empty:   true,
		},
		{
			caption:  "a sequence of nullable symbols is nullable",
			seq:      []string{"X", "Y"},
			expected: []string{"+", "*"},
			empty:    true,
		},
		{
			caption:  "a terminal stops the chain",
			seq:      []string{"Y", "a", "X"},
			expected: []string{"*", "a"},
		},
		{
			caption:  "a non-nullable symbol stops the chain",
			seq:      []string{"X", "F", "Y"},
			expected: []string{"+", "(", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			e, err := fst.findBySequence(genSymbols(genSym, tt.seq...))
			if err != nil {
				t.Fatal(err)
			}
			testFirst(t, e, genExpectedFirstEntry(t, tt.expected, tt.empty, symTab))
		})
	}
}

func genActualFirst(t *testing.T, src string) (*firstSet, *Grammar) {
	gram := buildTestGrammar(t, src)
	fst, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	if fst == nil {
		t.Fatal("genFirstSet returned nil without any error")
	}

	return fst, gram
}

func genExpectedFirstEntry(t *testing.T, symbols []string, empty bool, symTab *symbol.SymbolTableReader) *firstEntry {
	t.Helper()

	entry := newFirstEntry()
	if empty {
		entry.addEmpty()
	}
	for _, sym := range symbols {
		symSym, ok := symTab.ToSymbol(sym)
		if !ok {
			t.Fatalf("a symbol was not found; symbol: %v", sym)
		}
		entry.add(symSym)
	}

	return entry
}

func testFirst(t *testing.T, actual, expected *firstEntry) {
	t.Helper()

	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if actual.symbols.size() != expected.symbols.size() {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols.list(), actual.symbols.list())
	}

	for _, eSym := range expected.symbols.list() {
		if !actual.symbols.contains(eSym) {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols.list(), actual.symbols.list())
		}
	}
}
