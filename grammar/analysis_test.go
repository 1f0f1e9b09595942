package grammar

import (
	"testing"

	"github.com/nihei9/ll1/grammar/symbol"
	spec "github.com/nihei9/ll1/spec/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ExpressionGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ll1.grammar")
	defer teardown()

	gram := buildTestGrammar(t, exprGrammarSrc)
	a, err := Analyze(gram)
	require.NoError(t, err)

	symTab := gram.SymbolTable()
	genSym := newTestSymbolGenerator(t, symTab)
	texts := func(syms []symbol.Symbol) []string {
		return symTab.ToTexts(syms)
	}

	first := func(text string) []string {
		syms, err := a.First(genSym(text))
		require.NoError(t, err)
		return texts(syms)
	}
	assert.Equal(t, []string{"(", "a"}, first("F"))
	assert.Equal(t, []string{"(", "a"}, first("T"))
	assert.Equal(t, []string{"(", "a"}, first("E"))
	assert.Equal(t, []string{"+", "ε"}, first("X"))
	assert.Equal(t, []string{"*", "ε"}, first("Y"))
	assert.Equal(t, []string{"a"}, first("a"))
	assert.Equal(t, []string{"$"}, first("$"))
	assert.Equal(t, []string{"ε"}, first("ε"))

	follow := func(text string) []string {
		syms, err := a.Follow(genSym(text))
		require.NoError(t, err)
		return texts(syms)
	}
	assert.Equal(t, []string{")", "$"}, follow("E"))
	assert.Equal(t, []string{")", "$"}, follow("X"))
	assert.Equal(t, []string{"+", ")", "$"}, follow("T"))
	assert.Equal(t, []string{"+", ")", "$"}, follow("Y"))
	assert.Equal(t, []string{"+", "*", ")", "$"}, follow("F"))

	_, err = a.Follow(genSym("a"))
	assert.Error(t, err)

	seq, err := a.FirstOfSequence(genSymbols(genSym, "X", "Y"))
	require.NoError(t, err)
	assert.Equal(t, []string{"+", "*", "ε"}, texts(seq))
	seq, err = a.FirstOfSequence(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ε"}, texts(seq))

	assert.True(t, a.IsNullable(genSym("X")))
	assert.False(t, a.IsNullable(genSym("E")))

	assert.Equal(t, []string{"+", "*", "(", ")", "a"}, texts(a.Terminals()))
	assert.Equal(t, []string{"E", "X", "T", "Y", "F"}, texts(a.NonTerminals()))

	assert.True(t, a.IsLL1())
	assert.Empty(t, a.Conflicts())

	prods := a.Productions()
	require.Len(t, prods, 8)
	assert.Equal(t, 3, prods[2].Num)
	assert.Equal(t, genSym("X"), prods[2].LHS)
	assert.Equal(t, []symbol.Symbol{symbol.SymbolEpsilon}, prods[2].RHS)

	prods[0].RHS[0] = symbol.SymbolNil
	p, ok := a.Production(1)
	require.True(t, ok)
	assert.Equal(t, genSymbols(genSym, "T", "X"), p.RHS, "a snapshot must not share its RHS")
	_, ok = a.Production(0)
	assert.False(t, ok)
	_, ok = a.Production(9)
	assert.False(t, ok)
}

func TestAnalyze_Conflicts(t *testing.T) {
	src := `
S -> i E t S L | a
L -> e S | ε
E -> b
`
	var fingerprint string
	var conflicts []*Conflict
	for i := 0; i < 3; i++ {
		a, err := Analyze(buildTestGrammar(t, src))
		require.NoError(t, err)
		assert.False(t, a.IsLL1())

		fp, err := a.Fingerprint()
		require.NoError(t, err)
		if i == 0 {
			fingerprint = fp
			conflicts = a.Conflicts()
			continue
		}
		assert.Equal(t, fingerprint, fp)
		assert.Equal(t, conflicts, a.Conflicts())
	}

	gram := buildTestGrammar(t, src)
	genSym := newTestSymbolGenerator(t, gram.SymbolTable())
	require.Len(t, conflicts, 1)
	assert.Equal(t, genSym("L"), conflicts[0].NonTerminal)
	assert.Equal(t, genSym("e"), conflicts[0].Terminal)
	assert.Equal(t, 3, conflicts[0].Existing)
	assert.Equal(t, 4, conflicts[0].Rejected)
}

func TestAnalyze_LeftRecursion(t *testing.T) {
	gram := buildTestGrammar(t, `
E -> E + T | T
T -> id
`)
	a, err := Analyze(gram)
	require.NoError(t, err)

	genSym := newTestSymbolGenerator(t, gram.SymbolTable())
	fst, err := a.First(genSym("E"))
	require.NoError(t, err)
	assert.Equal(t, genSymbols(genSym, "id"), fst)
	assert.False(t, a.IsLL1())
}

func TestAnalysis_Fingerprint(t *testing.T) {
	fp := func(src string) string {
		a, err := Analyze(buildTestGrammar(t, src))
		require.NoError(t, err)
		s, err := a.Fingerprint()
		require.NoError(t, err)
		return s
	}
	assert.Equal(t, fp(exprGrammarSrc), fp(exprGrammarSrc))
	assert.NotEqual(t, fp(exprGrammarSrc), fp(`S -> a`))
}

func TestAnalysis_Report(t *testing.T) {
	a, err := Analyze(buildTestGrammar(t, exprGrammarSrc))
	require.NoError(t, err)
	r := a.Report()

	assert.Equal(t, "expr", r.Name)
	assert.Equal(t, 1, r.StartSymbol)
	assert.True(t, r.LL1)
	assert.Empty(t, r.Conflicts)
	require.Len(t, r.Terminals, 5)
	assert.Equal(t, &spec.Terminal{Number: 2, Name: "+"}, r.Terminals[0])
	require.Len(t, r.NonTerminals, 5)
	assert.Equal(t, &spec.NonTerminal{Number: 5, Name: "F"}, r.NonTerminals[4])

	// X -> + T X and X -> ε
	assert.Equal(t, &spec.Production{Number: 2, LHS: -2, RHS: []int{2, -3, -2}}, r.Productions[1])
	assert.Equal(t, &spec.Production{Number: 3, LHS: -2, RHS: []int{spec.EpsilonSymbol}}, r.Productions[2])

	// FIRST(X) = {+, ε}, FOLLOW(X) = {), $}
	assert.Equal(t, &spec.SymbolSet{NonTerminal: 2, Symbols: []int{2}, Nullable: true}, r.First[1])
	assert.Equal(t, &spec.SymbolSet{NonTerminal: 2, Symbols: []int{5, spec.EOFSymbol}}, r.Follow[1])

	require.Len(t, r.Table, 5)
	assert.Equal(t, &spec.TableRow{
		NonTerminal: 2,
		Entries: []*spec.TableEntry{
			{Terminal: spec.EOFSymbol, Production: 3},
			{Terminal: 2, Production: 2},
			{Terminal: 5, Production: 3},
		},
	}, r.Table[1])
}
