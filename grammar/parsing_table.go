package grammar

import (
	"fmt"

	"github.com/nihei9/ll1/grammar/symbol"
)

// Conflict means a parsing table cell claimed by two productions. The first production written to
// the cell is kept in the table.
type Conflict struct {
	NonTerminal symbol.Symbol
	// Terminal is an ordinary terminal or EOF.
	Terminal symbol.Symbol
	Existing int
	Rejected int
}

func (c *Conflict) String() string {
	return fmt.Sprintf("[%v, %v] production %v vs %v", c.NonTerminal, c.Terminal, c.Existing, c.Rejected)
}

type tableEntry uint16

const tableEntryEmpty = tableEntry(productionNumNil)

func (e tableEntry) isEmpty() bool {
	return e == tableEntryEmpty
}

// ParsingTable maps a pair of a non-terminal (row) and a terminal or EOF (column) to the number of
// the production to expand. It is read-only once built.
type ParsingTable struct {
	entries     []tableEntry
	rowCount    int
	columnCount int
	// rowSyms and colSyms map indexes back to symbols. Index 0 of both is symbol.SymbolNil.
	rowSyms []symbol.Symbol
	colSyms []symbol.Symbol
}

func newParsingTable(symTab *symbol.SymbolTableReader) *ParsingTable {
	rowCount := symTab.RowCount()
	columnCount := symTab.ColumnCount()
	rowSyms := make([]symbol.Symbol, rowCount)
	for _, sym := range symTab.NonTerminalSymbols() {
		row, _ := sym.Row()
		rowSyms[row] = sym
	}
	colSyms := make([]symbol.Symbol, columnCount)
	colSyms[1] = symbol.SymbolEOF
	for _, sym := range symTab.TerminalSymbols() {
		col, _ := sym.Column()
		colSyms[col] = sym
	}
	return &ParsingTable{
		entries:     make([]tableEntry, rowCount*columnCount),
		rowCount:    rowCount,
		columnCount: columnCount,
		rowSyms:     rowSyms,
		colSyms:     colSyms,
	}
}

type TableCell struct {
	// Terminal is an ordinary terminal or EOF.
	Terminal   symbol.Symbol
	Production int
}

type TableRow struct {
	NonTerminal symbol.Symbol
	Cells       []*TableCell
}

// Rows returns the non-empty cells of every non-terminal. Rows follow the declaration order of
// non-terminals, and cells follow the column order (EOF first).
func (t *ParsingTable) Rows() []*TableRow {
	rows := make([]*TableRow, 0, t.rowCount)
	for row := 1; row < t.rowCount; row++ {
		r := &TableRow{
			NonTerminal: t.rowSyms[row],
			Cells:       []*TableCell{},
		}
		for col := 1; col < t.columnCount; col++ {
			e := t.read(row, col)
			if e.isEmpty() {
				continue
			}
			r.Cells = append(r.Cells, &TableCell{
				Terminal:   t.colSyms[col],
				Production: int(e),
			})
		}
		rows = append(rows, r)
	}
	return rows
}

// Expected returns the terminals (including EOF) having a production in the row of the non-terminal.
func (t *ParsingTable) Expected(nonTerm symbol.Symbol) []symbol.Symbol {
	row, ok := nonTerm.Row()
	if !ok || row >= t.rowCount {
		return nil
	}
	var syms []symbol.Symbol
	for col := 1; col < t.columnCount; col++ {
		if t.read(row, col).isEmpty() {
			continue
		}
		syms = append(syms, t.colSyms[col])
	}
	return syms
}

// Lookup returns the production number for the pair. It returns false when the cell is empty or the
// pair cannot index the table.
func (t *ParsingTable) Lookup(nonTerm symbol.Symbol, term symbol.Symbol) (int, bool) {
	row, ok := nonTerm.Row()
	if !ok || row >= t.rowCount {
		return 0, false
	}
	col, ok := term.Column()
	if !ok || col >= t.columnCount {
		return 0, false
	}
	e := t.read(row, col)
	if e.isEmpty() {
		return 0, false
	}
	return int(e), true
}

// RowCount and ColumnCount include row 0 and column 0, which are never used.
func (t *ParsingTable) RowCount() int {
	return t.rowCount
}

func (t *ParsingTable) ColumnCount() int {
	return t.columnCount
}

// Entries returns a copy of the table in row-major order. An empty cell is 0.
func (t *ParsingTable) Entries() []int {
	entries := make([]int, len(t.entries))
	for i, e := range t.entries {
		entries[i] = int(e)
	}
	return entries
}

func (t *ParsingTable) read(row, col int) tableEntry {
	return t.entries[row*t.columnCount+col]
}

func (t *ParsingTable) write(row, col int, e tableEntry) {
	t.entries[row*t.columnCount+col] = e
}

type ll1TableBuilder struct {
	prods  *productionSet
	first  *firstSet
	follow *followSet
	symTab *symbol.SymbolTableReader

	conflicts []*Conflict
}

// build processes productions in declaration order. A production α of A is written to [A, t] for
// every t in FIRST(α), and to [A, b] for every b in FOLLOW(A) when α is nullable.
func (b *ll1TableBuilder) build() (*ParsingTable, error) {
	ptab := newParsingTable(b.symTab)

	for _, prod := range b.prods.getAllProductions() {
		fst, err := b.first.find(prod, 0)
		if err != nil {
			return nil, err
		}
		for _, sym := range fst.symbols.list() {
			err := b.writeEntry(ptab, prod.lhs, sym, prod.num)
			if err != nil {
				return nil, err
			}
		}
		if !fst.empty {
			continue
		}

		flw, err := b.follow.find(prod.lhs)
		if err != nil {
			return nil, err
		}
		for _, sym := range flw.list() {
			err := b.writeEntry(ptab, prod.lhs, sym, prod.num)
			if err != nil {
				return nil, err
			}
		}
	}

	return ptab, nil
}

// writeEntry writes a production to the parsing table. When the cell is already occupied by another
// production, the existing one stays and a conflict is recorded.
func (b *ll1TableBuilder) writeEntry(tab *ParsingTable, lhs symbol.Symbol, sym symbol.Symbol, prod productionNum) error {
	row, ok := lhs.Row()
	if !ok {
		return fmt.Errorf("a parsing table row was requested for an invalid symbol: %v", lhs)
	}
	col, ok := sym.Column()
	if !ok {
		return fmt.Errorf("a parsing table column was requested for an invalid symbol: %v", sym)
	}

	e := tab.read(row, col)
	if !e.isEmpty() {
		if productionNum(e) == prod {
			return nil
		}
		c := &Conflict{
			NonTerminal: lhs,
			Terminal:    sym,
			Existing:    int(e),
			Rejected:    prod.Int(),
		}
		b.conflicts = append(b.conflicts, c)
		tracer().Infof("LL(1) conflict: %v", c)
		return nil
	}
	tab.write(row, col, tableEntry(prod))
	return nil
}
