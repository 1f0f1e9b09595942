package spec

import (
	"io"
	"sync"

	verr "github.com/nihei9/ll1/error"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type tokenKind string

const (
	tokenKindID        = tokenKind("id")
	tokenKindTerminal  = tokenKind("quoted terminal")
	tokenKindEpsilon   = tokenKind("ε")
	tokenKindArrow     = tokenKind("->")
	tokenKindOr        = tokenKind("|")
	tokenKindDirective = tokenKind("directive")
	tokenKindNewline   = tokenKind("newline")
	tokenKindEOF       = tokenKind("eof")
)

// lexKinds is indexed by the token types lexmachine reports.
var lexKinds = []tokenKind{
	tokenKindID,
	tokenKindTerminal,
	tokenKindEpsilon,
	tokenKindArrow,
	tokenKindOr,
	tokenKindDirective,
	tokenKindNewline,
}

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newToken(kind tokenKind, text string, pos Position) *token {
	return &token{
		kind: kind,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

var (
	lexOnce sync.Once
	lexDFA  *lexmachine.Lexer
	lexErr  error
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(kind tokenKind) lexmachine.Action {
	id := -1
	for i, k := range lexKinds {
		if k == kind {
			id = i
			break
		}
	}
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// compiledLexer compiles the DFA once. When two patterns match the same length, the one added first
// wins, so the keyword-like patterns precede the catch-all symbol pattern.
func compiledLexer() (*lexmachine.Lexer, error) {
	lexOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`//[^\n]*`), skip)
		lex.Add([]byte(`( |\t|\r)+`), skip)
		lex.Add([]byte(`\r?\n`), makeToken(tokenKindNewline))
		lex.Add([]byte(`\-\>|→|::=`), makeToken(tokenKindArrow))
		lex.Add([]byte(`\|`), makeToken(tokenKindOr))
		lex.Add([]byte(`ε|%empty`), makeToken(tokenKindEpsilon))
		lex.Add([]byte(`%[a-z]+`), makeToken(tokenKindDirective))
		lex.Add([]byte(`'[^']*'`), makeToken(tokenKindTerminal))
		lex.Add([]byte(`[^ \t\r\n|']+`), makeToken(tokenKindID))
		lexErr = lex.Compile()
		if lexErr != nil {
			tracer().Errorf("failed to compile the notation lexer: %v", lexErr)
			return
		}
		lexDFA = lex
	})
	return lexDFA, lexErr
}

type lexer struct {
	s   *lexmachine.Scanner
	src []byte
	buf *token
	// last is the position of the last token and gives EOF a position.
	last Position
}

func newLexer(src io.Reader) (*lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	lex, err := compiledLexer()
	if err != nil {
		return nil, err
	}
	s, err := lex.Scanner(b)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s:   s,
		src: b,
	}, nil
}

// next combines consecutive newlines into one newline token.
func (l *lexer) next() (*token, error) {
	if l.buf != nil {
		tok := l.buf
		l.buf = nil
		return tok, nil
	}

	var newline *token
	for {
		tok, err := l.lex()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindNewline {
			if newline == nil {
				newline = tok
			}
			continue
		}

		if newline != nil {
			l.buf = tok
			return newline, nil
		}
		return tok, nil
	}
}

func (l *lexer) lex() (*token, error) {
	t, err, eof := l.s.Next()
	if err != nil {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			cause := synErrInvalidChar
			if ui.StartTC < len(l.src) && l.src[ui.StartTC] == '\'' {
				cause = synErrUnclosedTerminal
			}
			return nil, &verr.SpecError{
				Cause:  cause,
				Detail: string(ui.Text),
				Row:    ui.StartLine,
				Col:    ui.StartColumn,
			}
		}
		return nil, err
	}
	if eof {
		return newEOFToken(l.last), nil
	}

	mt := t.(*lexmachine.Token)
	kind := lexKinds[mt.Type]
	text := string(mt.Lexeme)
	pos := newPosition(mt.StartLine, mt.StartColumn)
	l.last = pos
	if kind == tokenKindTerminal {
		text = text[1 : len(text)-1]
		if text == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyTerminal,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
	}
	if kind == tokenKindDirective {
		text = text[1:]
	}
	return newToken(kind, text, pos), nil
}
