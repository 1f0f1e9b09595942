package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
	"github.com/nihei9/ll1/spec"
)

const exprGrammarSrc = `
%name expr

E -> T X
X -> + T X | ε
T -> F Y
Y -> * F Y | ε
F -> ( E ) | a
`

func buildTestGrammar(t *testing.T, src string, opts ...BuildOption) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return gram
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

func genSymbols(genSym testSymbolGenerator, texts ...string) []symbol.Symbol {
	syms := make([]symbol.Symbol, len(texts))
	for i, text := range texts {
		syms[i] = genSym(text)
	}
	return syms
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

func testSymbols(t *testing.T, actual, expected []symbol.Symbol, symTab *symbol.SymbolTableReader) {
	t.Helper()

	if len(actual) != len(expected) {
		t.Fatalf("unexpected symbols; want: %v, got: %v", symTab.ToTexts(expected), symTab.ToTexts(actual))
	}
	for i, sym := range expected {
		if actual[i] != sym {
			t.Fatalf("unexpected symbols; want: %v, got: %v", symTab.ToTexts(expected), symTab.ToTexts(actual))
		}
	}
}
