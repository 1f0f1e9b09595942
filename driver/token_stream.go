package driver

import (
	"io"

	spec "github.com/nihei9/ll1/spec/grammar"
	mldriver "github.com/nihei9/maleeni/driver"
)

type VToken interface {
	// TerminalID returns a terminal number, or 0 when the token is invalid.
	TerminalID() int

	Lexeme() []byte
	EOF() bool
	Invalid() bool

	// Position returns a 1-based (row, column).
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *mldriver.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

// maleeni counts rows and columns from 0.
func (t *vToken) Position() (int, int) {
	return t.tok.Row + 1, t.tok.Col + 1
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
}

// NewTokenStream tokenizes a source with the lexer compiled from the terminals of the grammar.
// White spaces are skipped.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.Lexical.Maleeni.Spec), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.Lexical.Maleeni.KindToTerminal,
		skip:           g.Lexical.Maleeni.Skip,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return &vToken{
				terminalID: spec.EOFSymbol,
				tok:        tok,
			}, nil
		}
		if l.skip[tok.KindID] > 0 {
			continue
		}
		return &vToken{
			terminalID: l.kindToTerminal[tok.KindID],
			tok:        tok,
		}, nil
	}
}

type symbolToken struct {
	terminalID int
	text       string
	eof        bool
	pos        int
}

func (t *symbolToken) TerminalID() int {
	return t.terminalID
}

func (t *symbolToken) Lexeme() []byte {
	return []byte(t.text)
}

func (t *symbolToken) EOF() bool {
	return t.eof
}

func (t *symbolToken) Invalid() bool {
	return !t.eof && t.terminalID == 0
}

// Position of a symbol token is (1, the index of the symbol + 1).
func (t *symbolToken) Position() (int, int) {
	return 1, t.pos + 1
}

type symbolStream struct {
	toks []*symbolToken
	next int
}

// NewSymbolStream makes a token stream from terminal names. A name that is not a terminal of the
// grammar becomes an invalid token. EOF must not be included; the stream appends it.
func NewSymbolStream(g *spec.CompiledGrammar, syms []string) TokenStream {
	text2Term := map[string]int{}
	for num := spec.EOFSymbol + 1; num < len(g.Syntactic.Terminals); num++ {
		text2Term[g.Syntactic.Terminals[num]] = num
	}

	toks := make([]*symbolToken, 0, len(syms)+1)
	for i, text := range syms {
		toks = append(toks, &symbolToken{
			terminalID: text2Term[text],
			text:       text,
			pos:        i,
		})
	}
	toks = append(toks, &symbolToken{
		terminalID: g.Syntactic.EOFSymbol,
		eof:        true,
		pos:        len(syms),
	})
	return &symbolStream{
		toks: toks,
	}
}

// Next keeps returning the EOF token once the symbols run out.
func (s *symbolStream) Next() (VToken, error) {
	tok := s.toks[s.next]
	if s.next < len(s.toks)-1 {
		s.next++
	}
	return tok, nil
}
