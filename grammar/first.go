package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/nihei9/ll1/grammar/symbol"
)

func symbolComparator(a, b interface{}) int {
	return utils.UInt16Comparator(uint16(a.(symbol.Symbol)), uint16(b.(symbol.Symbol)))
}

// symbolSet keeps symbols sorted by their values, so iterating over it is deterministic.
type symbolSet struct {
	set *treeset.Set
}

func newSymbolSet() *symbolSet {
	return &symbolSet{
		set: treeset.NewWith(symbolComparator),
	}
}

func (s *symbolSet) add(sym symbol.Symbol) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

func (s *symbolSet) contains(sym symbol.Symbol) bool {
	return s.set.Contains(sym)
}

func (s *symbolSet) size() int {
	return s.set.Size()
}

func (s *symbolSet) list() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, s.set.Size())
	it := s.set.Iterator()
	for it.Next() {
		syms = append(syms, it.Value().(symbol.Symbol))
	}
	return syms
}

type firstEntry struct {
	symbols *symbolSet
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newSymbolSet(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	return e.symbols.add(sym)
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, sym := range target.symbols.list() {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

// list returns the symbols of the entry followed by ε when the entry is nullable.
func (e *firstEntry) list() []symbol.Symbol {
	syms := e.symbols.list()
	if e.empty {
		syms = append(syms, symbol.SymbolEpsilon)
	}
	return syms
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of the RHS of the production starting from the position head.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if len(prod.rhs) <= head {
		entry := newFirstEntry()
		entry.addEmpty()
		return entry, nil
	}
	return fst.findBySequence(prod.rhs[head:])
}

// findBySequence chains FIRST of the symbols from left to right while they are nullable. The empty
// sequence yields {ε}.
func (fst *firstSet) findBySequence(syms []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		switch sym.Kind() {
		case symbol.KindEpsilon:
			continue
		case symbol.KindTerminal, symbol.KindEOF:
			entry.add(sym)
			return entry, nil
		case symbol.KindNonTerminal:
		default:
			return nil, fmt.Errorf("FIRST of an invalid symbol was requested: %v", sym)
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

type firstComContext struct {
	first *firstSet
}

func newFirstComContext(prods *productionSet) *firstComContext {
	return &firstComContext{
		first: newFirstSet(prods),
	}
}

// genFirstSet repeats over all productions until no entry changes. Any kind of recursion, including
// left recursion, terminates because entries only grow and the symbols are finite.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	cc := newFirstComContext(prods)
	pass := 0
	for {
		pass++
		more := false
		for _, prod := range prods.getAllProductions() {
			e := cc.first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(cc, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	tracer().Debugf("FIRST sets reached a fixed point after %d passes", pass)
	return cc.first, nil
}

func genProdFirstEntry(cc *firstComContext, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			if acc.add(sym) {
				changed = true
			}
			return changed, nil
		}

		e := cc.first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	if acc.addEmpty() {
		changed = true
	}
	return changed, nil
}
