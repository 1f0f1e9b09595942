package grammar

import mlspec "github.com/nihei9/maleeni/spec"

// CompiledGrammar is the portable form of an analyzed grammar. Symbols are encoded as integers:
// a terminal is its positive number, a non-terminal is its negated number, and 0 is ε.
const (
	EpsilonSymbol = 0
	EOFSymbol     = 1

	EpsilonText = "ε"
)

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

type LexicalSpec struct {
	Maleeni *Maleeni `json:"maleeni"`
}

type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
}

type SyntacticSpec struct {
	StartSymbol      int      `json:"start_symbol"`
	EOFSymbol        int      `json:"eof_symbol"`
	Terminals        []string `json:"terminals"`
	TerminalCount    int      `json:"terminal_count"`
	NonTerminals     []string `json:"non_terminals"`
	NonTerminalCount int      `json:"non_terminal_count"`
	// LHSSymbols and Alternatives are indexed by production numbers. Index 0 is unused.
	LHSSymbols   []int         `json:"lhs_symbols"`
	Alternatives [][]int       `json:"alternatives"`
	ParsingTable *ParsingTable `json:"parsing_table"`
}

type CompressionLevel int

const (
	CompressionLevelNone          = CompressionLevel(0)
	CompressionLevelUniqueEntries = CompressionLevel(1)
	CompressionLevelMax           = CompressionLevel(2)
)

// ParsingTable holds exactly one of Entries (level 0) and UniqueEntries (level 1 and 2).
type ParsingTable struct {
	Compression   CompressionLevel    `json:"compression"`
	RowCount      int                 `json:"row_count"`
	ColCount      int                 `json:"col_count"`
	Entries       []int               `json:"entries,omitempty"`
	UniqueEntries *UniqueEntriesTable `json:"unique_entries,omitempty"`
}

type UniqueEntriesTable struct {
	UniqueEntries             *RowDisplacementTable `json:"unique_entries,omitempty"`
	UncompressedUniqueEntries []int                 `json:"uncompressed_unique_entries,omitempty"`
	RowNums                   []int                 `json:"row_nums"`
	OriginalRowCount          int                   `json:"original_row_count"`
	OriginalColCount          int                   `json:"original_col_count"`
}

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

// Lookup returns the production number stored in the cell, or 0 when the cell is empty or out of range.
func (t *ParsingTable) Lookup(row, col int) int {
	if row < 0 || row >= t.RowCount || col < 0 || col >= t.ColCount {
		return 0
	}
	if t.UniqueEntries == nil {
		return t.Entries[row*t.ColCount+col]
	}

	u := t.UniqueEntries
	rowNum := u.RowNums[row]
	if u.UniqueEntries == nil {
		return u.UncompressedUniqueEntries[rowNum*u.OriginalColCount+col]
	}

	rd := u.UniqueEntries
	d := rd.RowDisplacement[rowNum]
	if d+col >= len(rd.Bounds) || rd.Bounds[d+col] != rowNum {
		return rd.EmptyValue
	}
	return rd.Entries[d+col]
}
