package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/nihei9/ll1/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return productionID(sha256.Sum256(seq))
}

type productionNum uint16

const (
	productionNumNil = productionNum(0)
	productionNumMin = productionNum(1)
)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	id  productionID
	num productionNum
	lhs symbol.Symbol
	// rhs of an epsilon production is [ε].
	rhs []symbol.Symbol
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() || sym.IsEOF() {
			return nil, fmt.Errorf("a symbol of RHS must be a terminal, a non-terminal, or ε; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	// `A -> ε` and `A ->` have the same ID because the ID is computed from the normalized RHS.
	norm := normalizeRHS(rhs)
	return &production{
		id:  genProductionID(lhs, norm),
		lhs: lhs,
		rhs: norm,
	}, nil
}

// normalizeRHS drops ε from a sequence containing other symbols and turns an empty sequence into [ε].
func normalizeRHS(rhs []symbol.Symbol) []symbol.Symbol {
	norm := make([]symbol.Symbol, 0, len(rhs))
	for _, sym := range rhs {
		if sym.IsEpsilon() {
			continue
		}
		norm = append(norm, sym)
	}
	if len(norm) == 0 {
		return []symbol.Symbol{symbol.SymbolEpsilon}
	}
	return norm
}

func (p *production) equals(q *production) bool {
	return q.id == p.id
}

func (p *production) isEmpty() bool {
	return len(p.rhs) == 1 && p.rhs[0].IsEpsilon()
}

type productionSet struct {
	prods     []*production
	lhs2Prods map[symbol.Symbol][]*production
	rhs2Prods map[symbol.Symbol][]*production
	id2Prod   map[productionID]*production
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		rhs2Prods: map[symbol.Symbol][]*production{},
		id2Prod:   map[productionID]*production{},
		num:       productionNumMin,
	}
}

func (ps *productionSet) append(prod *production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	prod.num = ps.num
	ps.num++

	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	seen := map[symbol.Symbol]struct{}{}
	for _, sym := range prod.rhs {
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		ps.rhs2Prods[sym] = append(ps.rhs2Prods[sym], prod)
	}
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByID(id productionID) (*production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num < productionNumMin || num.Int() > len(ps.prods) {
		return nil, false
	}
	return ps.prods[num.Int()-productionNumMin.Int()], true
}

// findByLHS returns the productions having the symbol as LHS in declaration order.
func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// findByRHS returns the productions containing the symbol in RHS in declaration order. A production
// appears once even when the symbol occurs in it more than once.
func (ps *productionSet) findByRHS(sym symbol.Symbol) ([]*production, bool) {
	if sym.IsNil() {
		return nil, false
	}

	prods, ok := ps.rhs2Prods[sym]
	return prods, ok
}

// getAllProductions returns all productions in declaration order.
func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}
