package grammar

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/nihei9/ll1/grammar/symbol"
	spec "github.com/nihei9/ll1/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("ll1.grammar")
}

// Production is a snapshot of a production. RHS of an epsilon production is [ε].
type Production struct {
	Num int
	LHS symbol.Symbol
	RHS []symbol.Symbol
}

// Analysis holds FIRST and FOLLOW sets and the parsing table of a grammar. It is read-only once
// Analyze returns, so it can be shared between goroutines.
type Analysis struct {
	gram      *Grammar
	first     *firstSet
	follow    *followSet
	table     *ParsingTable
	conflicts []*Conflict
}

func Analyze(gram *Grammar) (*Analysis, error) {
	symTab := gram.SymbolTable()

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, err
	}

	follow, err := genFollowSet(gram.productionSet, first, gram.startSymbol, symTab.NonTerminalSymbols())
	if err != nil {
		return nil, err
	}

	b := &ll1TableBuilder{
		prods:  gram.productionSet,
		first:  first,
		follow: follow,
		symTab: symTab,
	}
	tab, err := b.build()
	if err != nil {
		return nil, err
	}
	if len(b.conflicts) > 0 {
		tracer().Infof("grammar %v is not LL(1); %d conflicts", gram.name, len(b.conflicts))
	}

	return &Analysis{
		gram:      gram,
		first:     first,
		follow:    follow,
		table:     tab,
		conflicts: b.conflicts,
	}, nil
}

func (a *Analysis) Grammar() *Grammar {
	return a.gram
}

// First returns FIRST of a symbol. FIRST of a terminal, EOF, or ε is the symbol itself. ε appears
// last when the symbol is nullable.
func (a *Analysis) First(sym symbol.Symbol) ([]symbol.Symbol, error) {
	switch sym.Kind() {
	case symbol.KindTerminal, symbol.KindEOF, symbol.KindEpsilon:
		return []symbol.Symbol{sym}, nil
	case symbol.KindNonTerminal:
		e := a.first.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", sym)
		}
		return e.list(), nil
	}
	return nil, fmt.Errorf("FIRST of an invalid symbol was requested: %v", sym)
}

// FirstOfSequence returns FIRST of a sequence of symbols. The empty sequence yields [ε].
func (a *Analysis) FirstOfSequence(syms []symbol.Symbol) ([]symbol.Symbol, error) {
	e, err := a.first.findBySequence(syms)
	if err != nil {
		return nil, err
	}
	return e.list(), nil
}

// Follow returns FOLLOW of a non-terminal. EOF appears last when the set contains it.
func (a *Analysis) Follow(nonTerm symbol.Symbol) ([]symbol.Symbol, error) {
	if !nonTerm.IsNonTerminal() {
		return nil, fmt.Errorf("FOLLOW is defined only for non-terminals: %v", nonTerm)
	}
	e, err := a.follow.find(nonTerm)
	if err != nil {
		return nil, err
	}
	return e.list(), nil
}

// IsNullable reports whether the non-terminal derives the empty string.
func (a *Analysis) IsNullable(nonTerm symbol.Symbol) bool {
	e := a.first.findBySymbol(nonTerm)
	return e != nil && e.empty
}

// Terminals returns the ordinary terminals in the order they first appear.
func (a *Analysis) Terminals() []symbol.Symbol {
	return a.gram.SymbolTable().TerminalSymbols()
}

// NonTerminals returns the non-terminals in the order their productions are declared.
func (a *Analysis) NonTerminals() []symbol.Symbol {
	return a.gram.SymbolTable().NonTerminalSymbols()
}

func (a *Analysis) Productions() []*Production {
	prods := a.gram.productionSet.getAllProductions()
	ps := make([]*Production, len(prods))
	for i, prod := range prods {
		ps[i] = toProduction(prod)
	}
	return ps
}

func (a *Analysis) Production(num int) (*Production, bool) {
	if num < productionNumMin.Int() || num > int(^uint16(0)) {
		return nil, false
	}
	prod, ok := a.gram.productionSet.findByNum(productionNum(num))
	if !ok {
		return nil, false
	}
	return toProduction(prod), true
}

func toProduction(prod *production) *Production {
	rhs := make([]symbol.Symbol, len(prod.rhs))
	copy(rhs, prod.rhs)
	return &Production{
		Num: prod.num.Int(),
		LHS: prod.lhs,
		RHS: rhs,
	}
}

func (a *Analysis) Table() *ParsingTable {
	return a.table
}

// Conflicts returns the conflicts in the order they were detected.
func (a *Analysis) Conflicts() []*Conflict {
	cs := make([]*Conflict, len(a.conflicts))
	for i, c := range a.conflicts {
		cc := *c
		cs[i] = &cc
	}
	return cs
}

func (a *Analysis) IsLL1() bool {
	return len(a.conflicts) == 0
}

// Report describes the analysis with symbols encoded as integers. See spec/grammar.CompiledGrammar
// for the encoding.
func (a *Analysis) Report() *spec.Report {
	symTab := a.gram.SymbolTable()
	termTexts := symTab.TerminalTexts()
	nonTermTexts := symTab.NonTerminalTexts()

	var terms []*spec.Terminal
	for _, sym := range a.Terminals() {
		terms = append(terms, &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   termTexts[sym.Num()],
		})
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range a.NonTerminals() {
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   nonTermTexts[sym.Num()],
		})
	}

	var prods []*spec.Production
	for _, prod := range a.gram.productionSet.getAllProductions() {
		prods = append(prods, &spec.Production{
			Number: prod.num.Int(),
			LHS:    encodeSymbol(prod.lhs),
			RHS:    encodeSymbols(prod.rhs),
		})
	}

	var first []*spec.SymbolSet
	var follow []*spec.SymbolSet
	for _, sym := range a.NonTerminals() {
		fst := a.first.findBySymbol(sym)
		first = append(first, &spec.SymbolSet{
			NonTerminal: sym.Num().Int(),
			Symbols:     encodeSymbols(fst.symbols.list()),
			Nullable:    fst.empty,
		})

		flw, _ := a.follow.find(sym)
		follow = append(follow, &spec.SymbolSet{
			NonTerminal: sym.Num().Int(),
			Symbols:     encodeSymbols(flw.list()),
		})
	}

	var table []*spec.TableRow
	for _, row := range a.table.Rows() {
		r := &spec.TableRow{
			NonTerminal: row.NonTerminal.Num().Int(),
		}
		for _, cell := range row.Cells {
			r.Entries = append(r.Entries, &spec.TableEntry{
				Terminal:   encodeSymbol(cell.Terminal),
				Production: cell.Production,
			})
		}
		table = append(table, r)
	}

	var conflicts []*spec.Conflict
	for _, c := range a.conflicts {
		conflicts = append(conflicts, &spec.Conflict{
			NonTerminal:        c.NonTerminal.Num().Int(),
			Terminal:           encodeSymbol(c.Terminal),
			ExistingProduction: c.Existing,
			RejectedProduction: c.Rejected,
		})
	}

	return &spec.Report{
		Name:         a.gram.name,
		StartSymbol:  a.gram.startSymbol.Num().Int(),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		First:        first,
		Follow:       follow,
		Table:        table,
		Conflicts:    conflicts,
		LL1:          a.IsLL1(),
	}
}

// Fingerprint is a hash of the report. Analyses of the same grammar always have the same fingerprint.
func (a *Analysis) Fingerprint() (string, error) {
	return structhash.Hash(a.Report(), 1)
}

func encodeSymbol(sym symbol.Symbol) int {
	switch sym.Kind() {
	case symbol.KindNonTerminal:
		return -sym.Num().Int()
	case symbol.KindTerminal:
		return sym.Num().Int()
	case symbol.KindEOF:
		return spec.EOFSymbol
	}
	return spec.EpsilonSymbol
}

func encodeSymbols(syms []symbol.Symbol) []int {
	enc := make([]int, len(syms))
	for i, sym := range syms {
		enc[i] = encodeSymbol(sym)
	}
	return enc
}
