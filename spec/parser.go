package spec

import (
	"io"

	verr "github.com/nihei9/ll1/error"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1.spec'.
func tracer() tracing.Trace {
	return tracing.Select("ll1.spec")
}

type RootNode struct {
	Directives  []*DirectiveNode
	Productions []*ProductionNode
}

type DirectiveNode struct {
	Name      string
	Parameter string
	Pos       Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

// ElementNode is one RHS symbol. Quoted is true when the symbol was written in quotes and thus
// must be a terminal. Epsilon is true for the empty marker.
type ElementNode struct {
	ID      string
	Quoted  bool
	Epsilon bool
	Pos     Position
}

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

type parseConfig struct {
	charSymbols bool
}

type ParseOption func(config *parseConfig)

// CharSymbols makes every character of an unquoted RHS word a symbol of its own, so that `E -> TX`
// means E derives T followed by X. LHS names and quoted terminals are never split.
func CharSymbols() ParseOption {
	return func(config *parseConfig) {
		config.charSymbols = true
	}
}

// Parse reads grammar notation:
//
//	%name expr
//	E -> T X
//	X -> + T X
//	   | ε
//
// Errors are *error.SpecError values carrying a position.
func Parse(src io.Reader, opts ...ParseOption) (*RootNode, error) {
	config := &parseConfig{}
	for _, opt := range opts {
		opt(config)
	}
	p, err := newParser(src, config)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	config    *parseConfig
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader, config *parseConfig) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex:    lex,
		config: config,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}

	p.consume(tokenKindNewline)
	for {
		dir := p.parseDirective()
		if dir == nil {
			break
		}
		root.Directives = append(root.Directives, dir)
	}

	for {
		prod := p.parseProduction()
		if prod == nil {
			break
		}
		root.Productions = append(root.Productions, prod)
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(p.pos(), synErrNoProduction)
	}
	tracer().Debugf("parsed %d directives and %d productions", len(root.Directives), len(root.Productions))
	return root
}

func (p *parser) parseDirective() *DirectiveNode {
	if !p.consume(tokenKindDirective) {
		return nil
	}
	dir := &DirectiveNode{
		Name: p.lastTok.text,
		Pos:  p.lastTok.pos,
	}
	switch dir.Name {
	case "name", "start":
	default:
		raiseSyntaxError(dir.Pos, synErrUnknownDirective)
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos(), synErrDirectiveParam)
	}
	dir.Parameter = p.lastTok.text
	p.expectEndOfLine()
	return dir
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	if p.consume(tokenKindDirective) {
		raiseSyntaxError(p.lastTok.pos, synErrDirectiveAfterProd)
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos(), synErrNoProductionName)
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos
	if !p.consume(tokenKindArrow) {
		raiseSyntaxError(p.pos(), synErrNoArrow)
	}
	rhs := []*AlternativeNode{p.parseAlternative()}
	for {
		if p.consume(tokenKindOr) {
			rhs = append(rhs, p.parseAlternative())
			continue
		}
		// An alternative may continue on the next line when the line starts with `|`.
		if p.consume(tokenKindNewline) {
			if p.consume(tokenKindOr) {
				rhs = append(rhs, p.parseAlternative())
				continue
			}
			break
		}
		if p.consume(tokenKindEOF) {
			p.peekedTok = p.lastTok
			break
		}
		raiseSyntaxError(p.pos(), synErrNoNewline)
	}
	return &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: lhsPos,
	}
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      p.pos(),
	}
	for {
		elems := p.parseElement()
		if elems == nil {
			break
		}
		alt.Elements = append(alt.Elements, elems...)
	}
	return alt
}

func (p *parser) parseElement() []*ElementNode {
	switch {
	case p.consume(tokenKindID):
		tok := p.lastTok
		if !p.config.charSymbols {
			return []*ElementNode{
				{
					ID:  tok.text,
					Pos: tok.pos,
				},
			}
		}
		var elems []*ElementNode
		col := tok.pos.Col
		for _, r := range tok.text {
			c := string(r)
			elem := &ElementNode{
				ID:  c,
				Pos: newPosition(tok.pos.Row, col),
			}
			if c == "ε" {
				elem.ID = ""
				elem.Epsilon = true
			}
			elems = append(elems, elem)
			col += len(c)
		}
		return elems
	case p.consume(tokenKindTerminal):
		return []*ElementNode{
			{
				ID:     p.lastTok.text,
				Quoted: true,
				Pos:    p.lastTok.pos,
			},
		}
	case p.consume(tokenKindEpsilon):
		return []*ElementNode{
			{
				Epsilon: true,
				Pos:     p.lastTok.pos,
			},
		}
	}
	return nil
}

func (p *parser) expectEndOfLine() {
	if p.consume(tokenKindNewline) {
		return
	}
	if p.consume(tokenKindEOF) {
		p.peekedTok = p.lastTok
		return
	}
	raiseSyntaxError(p.pos(), synErrNoNewline)
}

// pos returns the position of the next token.
func (p *parser) pos() Position {
	if p.peekedTok == nil {
		p.peek()
	}
	return p.peekedTok.pos
}

func (p *parser) peek() {
	tok, err := p.lex.next()
	if err != nil {
		panic(err)
	}
	p.peekedTok = tok
}

func (p *parser) consume(expected tokenKind) bool {
	if p.peekedTok == nil {
		p.peek()
	}
	if p.peekedTok.kind != expected {
		return false
	}
	p.lastTok = p.peekedTok
	p.peekedTok = nil
	return true
}
