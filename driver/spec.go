package driver

import spec "github.com/nihei9/ll1/spec/grammar"

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) Name() string {
	return g.g.Name
}

func (g *grammarImpl) StartSymbol() int {
	return g.g.Syntactic.StartSymbol
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Lookup(nonTerminal int, terminal int) int {
	return g.g.Syntactic.ParsingTable.Lookup(nonTerminal, terminal)
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) Alternative(prod int) []int {
	return g.g.Syntactic.Alternatives[prod]
}

func (g *grammarImpl) ProductionCount() int {
	return len(g.g.Syntactic.LHSSymbols)
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}

// SymbolText returns the name of an encoded symbol.
func SymbolText(g Grammar, sym int) string {
	switch {
	case sym > 0:
		return g.Terminal(sym)
	case sym < 0:
		return g.NonTerminal(-sym)
	}
	return spec.EpsilonText
}
