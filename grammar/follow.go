package grammar

import (
	"fmt"

	"github.com/nihei9/ll1/grammar/symbol"
)

type followEntry struct {
	symbols *symbolSet
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: newSymbolSet(),
		eof:     false,
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	return e.symbols.add(sym)
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for _, sym := range fst.symbols.list() {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for _, sym := range flw.symbols.list() {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

// list returns the terminals of the entry followed by EOF when the entry contains it.
func (e *followEntry) list() []symbol.Symbol {
	syms := e.symbols.list()
	if e.eof {
		syms = append(syms, symbol.SymbolEOF)
	}
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

type followComContext struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
}

func newFollowComContext(prods *productionSet, first *firstSet) *followComContext {
	return &followComContext{
		prods:  prods,
		first:  first,
		follow: newFollow(prods),
	}
}

// genFollowSet needs a complete FIRST set. It repeats over all non-terminals in declaration order
// until no entry changes.
func genFollowSet(prods *productionSet, first *firstSet, start symbol.Symbol, nonTerms []symbol.Symbol) (*followSet, error) {
	cc := newFollowComContext(prods, first)
	pass := 0
	for {
		pass++
		more := false
		for _, ntsym := range nonTerms {
			e, err := cc.follow.find(ntsym)
			if err != nil {
				return nil, err
			}
			changed, err := genFollowEntry(cc, e, ntsym, start)
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
	tracer().Debugf("FOLLOW sets reached a fixed point after %d passes", pass)

	return cc.follow, nil
}

func genFollowEntry(cc *followComContext, acc *followEntry, ntsym symbol.Symbol, start symbol.Symbol) (bool, error) {
	changed := false

	if ntsym == start {
		added := acc.addEOF()
		if added {
			changed = true
		}
	}
	prods, _ := cc.prods.findByRHS(ntsym)
	for _, prod := range prods {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}
			fst, err := cc.first.find(prod, i+1)
			if err != nil {
				return false, err
			}
			added := acc.merge(fst, nil)
			if added {
				changed = true
			}
			// Merging FOLLOW of the symbol into itself is a no-op.
			if fst.empty && prod.lhs != ntsym {
				flw, err := cc.follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				added := acc.merge(nil, flw)
				if added {
					changed = true
				}
			}
		}
	}

	return changed, nil
}
