package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Production encodes RHS the same way as CompiledGrammar does.
type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

// SymbolSet is a FIRST or a FOLLOW set of a non-terminal. Symbols contains terminal numbers. The
// EOF symbol appears in Symbols too, whereas ε is expressed by Nullable.
type SymbolSet struct {
	NonTerminal int   `json:"non_terminal"`
	Symbols     []int `json:"symbols"`
	Nullable    bool  `json:"nullable"`
}

type TableEntry struct {
	Terminal   int `json:"terminal"`
	Production int `json:"production"`
}

type TableRow struct {
	NonTerminal int           `json:"non_terminal"`
	Entries     []*TableEntry `json:"entries"`
}

type Conflict struct {
	NonTerminal        int `json:"non_terminal"`
	Terminal           int `json:"terminal"`
	ExistingProduction int `json:"existing_production"`
	RejectedProduction int `json:"rejected_production"`
}

type Report struct {
	Name         string         `json:"name"`
	StartSymbol  int            `json:"start_symbol"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	First        []*SymbolSet   `json:"first"`
	Follow       []*SymbolSet   `json:"follow"`
	Table        []*TableRow    `json:"table"`
	Conflicts    []*Conflict    `json:"conflicts"`
	LL1          bool           `json:"ll1"`
}
