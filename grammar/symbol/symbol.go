package symbol

import (
	"fmt"
	"sort"
)

// Kind classifies a symbol. Reserved symbols (EOF and epsilon) have their own kinds so that they are
// never mistaken for an ordinary terminal or non-terminal.
type Kind string

const (
	KindNil         = Kind("nil")
	KindNonTerminal = Kind("non-terminal")
	KindTerminal    = Kind("terminal")
	KindEOF         = Kind("eof")
	KindEpsilon     = Kind("epsilon")
)

func (k Kind) String() string {
	return string(k)
}

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

type Symbol uint16

func (s Symbol) String() string {
	var prefix string
	switch s.Kind() {
	case KindEOF:
		return TextEOF
	case KindEpsilon:
		return TextEpsilon
	case KindNonTerminal:
		prefix = "n"
	case KindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

const (
	maskKindPart    = uint16(0xc000) // 1100 0000 0000 0000
	maskNonTerminal = uint16(0x4000) // 0100 0000 0000 0000
	maskTerminal    = uint16(0x8000) // 1000 0000 0000 0000
	maskReserved    = uint16(0xc000) // 1100 0000 0000 0000

	maskNumberPart = uint16(0x3fff) // 0011 1111 1111 1111

	symbolNumEOF     = uint16(0x0001)
	symbolNumEpsilon = uint16(0x0002)

	SymbolNil     = Symbol(0)                               // 0000 0000 0000 0000
	SymbolEOF     = Symbol(maskReserved | symbolNumEOF)     // 1100 0000 0000 0001
	SymbolEpsilon = Symbol(maskReserved | symbolNumEpsilon) // 1100 0000 0000 0010

	TextEOF     = "$"
	TextEpsilon = "ε"

	nonTerminalNumMin = SymbolNum(1)
	// The number 1 is used by the EOF symbol so that terminal numbers can be used as column indexes
	// of a parsing table as they are.
	terminalNumMin = SymbolNum(2)
	symbolNumMax   = SymbolNum(maskNumberPart)
)

func newSymbol(kind Kind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	switch kind {
	case KindNonTerminal:
		return Symbol(maskNonTerminal | uint16(num)), nil
	case KindTerminal:
		return Symbol(maskTerminal | uint16(num)), nil
	}
	return SymbolNil, fmt.Errorf("cannot create a symbol of kind %v", kind)
}

func (s Symbol) Kind() Kind {
	switch uint16(s) & maskKindPart {
	case maskNonTerminal:
		return KindNonTerminal
	case maskTerminal:
		return KindTerminal
	case maskReserved:
		switch s {
		case SymbolEOF:
			return KindEOF
		case SymbolEpsilon:
			return KindEpsilon
		}
	}
	return KindNil
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNumberPart)
}

func (s Symbol) Byte() []byte {
	if s.IsNil() {
		return []byte{0, 0}
	}
	return []byte{byte(uint16(s) >> 8), byte(uint16(s) & 0x00ff)}
}

func (s Symbol) IsNil() bool {
	return s.Kind() == KindNil
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsEpsilon() bool {
	return s == SymbolEpsilon
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind() == KindNonTerminal
}

// IsTerminal reports whether the symbol is an ordinary terminal. EOF is not an ordinary terminal.
func (s Symbol) IsTerminal() bool {
	return s.Kind() == KindTerminal
}

// Column returns an index of a parsing table column. Only terminals and EOF have a column.
func (s Symbol) Column() (int, bool) {
	switch s.Kind() {
	case KindEOF:
		return int(symbolNumEOF), true
	case KindTerminal:
		return s.Num().Int(), true
	}
	return 0, false
}

// Row returns an index of a parsing table row. Only non-terminals have a row.
func (s Symbol) Row() (int, bool) {
	if s.Kind() != KindNonTerminal {
		return 0, false
	}
	return s.Num().Int(), true
}

type SymbolTable struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym: map[string]Symbol{
			TextEOF:     SymbolEOF,
			TextEpsilon: SymbolEpsilon,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF:     TextEOF,
			SymbolEpsilon: TextEpsilon,
		},
		termTexts: []string{
			"",      // Nil
			TextEOF, // EOF
		},
		nonTermTexts: []string{
			"", // Nil
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func IsReservedText(text string) bool {
	return text == TextEOF || text == TextEpsilon
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	return w.register(KindNonTerminal, text)
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	return w.register(KindTerminal, text)
}

func (w *SymbolTableWriter) register(kind Kind, text string) (Symbol, error) {
	if text == "" {
		return SymbolNil, fmt.Errorf("a symbol name must not be empty")
	}
	if IsReservedText(text) {
		return SymbolNil, fmt.Errorf("%v is a reserved symbol and cannot be registered as a %v", text, kind)
	}
	if sym, ok := w.text2Sym[text]; ok {
		if sym.Kind() != kind {
			return SymbolNil, fmt.Errorf("%v is already registered as a %v", text, sym.Kind())
		}
		return sym, nil
	}

	var num SymbolNum
	if kind == KindNonTerminal {
		num = w.nonTermNum
	} else {
		num = w.termNum
	}
	sym, err := newSymbol(kind, num)
	if err != nil {
		return SymbolNil, err
	}
	if kind == KindNonTerminal {
		w.nonTermNum++
		w.nonTermTexts = append(w.nonTermTexts, text)
	} else {
		w.termNum++
		w.termTexts = append(w.termTexts, text)
	}
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	return sym, nil
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	if sym, ok := r.text2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// ToTexts converts symbols to their names. Unknown symbols are rendered by Symbol.String.
func (r *SymbolTableReader) ToTexts(syms []Symbol) []string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		text, ok := r.sym2Text[sym]
		if !ok {
			text = sym.String()
		}
		texts[i] = text
	}
	return texts
}

// TerminalSymbols returns the ordinary terminals in registration order.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-terminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// TerminalTexts returns terminal names indexed by symbol number. Index 0 is empty and index 1 is EOF.
func (r *SymbolTableReader) TerminalTexts() []string {
	texts := make([]string, len(r.termTexts))
	copy(texts, r.termTexts)
	return texts
}

// NonTerminalSymbols returns the non-terminals in registration order.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// NonTerminalTexts returns non-terminal names indexed by symbol number. Index 0 is empty.
func (r *SymbolTableReader) NonTerminalTexts() []string {
	texts := make([]string, len(r.nonTermTexts))
	copy(texts, r.nonTermTexts)
	return texts
}

// ColumnCount is the number of parsing table columns including the unused column 0.
func (r *SymbolTableReader) ColumnCount() int {
	return r.termNum.Int()
}

// RowCount is the number of parsing table rows including the unused row 0.
func (r *SymbolTableReader) RowCount() int {
	return r.nonTermNum.Int()
}
