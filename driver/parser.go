package driver

import (
	"fmt"
	"strings"

	spec "github.com/nihei9/ll1/spec/grammar"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'll1.driver'.
func tracer() tracing.Trace {
	return tracing.Select("ll1.driver")
}

// Grammar encodes symbols as spec.CompiledGrammar does: a terminal is positive, a non-terminal is
// negative, and ε is 0.
type Grammar interface {
	// StartSymbol returns the encoded start symbol.
	StartSymbol() int

	// EOF returns the terminal number of EOF.
	EOF() int

	// Lookup returns the production to expand for a pair of a non-terminal number and a terminal
	// number. It returns 0 when the cell is empty.
	Lookup(nonTerminal int, terminal int) int

	// LHS returns the encoded LHS of a production.
	LHS(prod int) int

	// Alternative returns the encoded RHS of a production. RHS of an epsilon production is [0].
	Alternative(prod int) []int

	// TerminalCount returns the number of terminals including the unused number 0 and EOF.
	TerminalCount() int

	Terminal(terminal int) string
	NonTerminal(nonTerminal int) string
}

type Verdict int

const (
	VerdictReject = Verdict(iota)
	VerdictAccept
	// VerdictRejectWithRecovery means the input reached the accepting configuration only after
	// skipping erroneous stack symbols.
	VerdictRejectWithRecovery
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "Accept"
	case VerdictRejectWithRecovery:
		return "Reject (with error recovery)"
	}
	return "Reject"
}

type ActionKind string

const (
	ActionAccept    = ActionKind("Accept")
	ActionMatch     = ActionKind("Matched")
	ActionEpsilon   = ActionKind("Epsilon")
	ActionExpand    = ActionKind("Expand")
	ActionErrorSkip = ActionKind("Error-skip")
	// ActionStall ends a parse that would expand the same non-terminal forever without consuming input.
	ActionStall = ActionKind("Stalled")
)

type Action struct {
	Kind ActionKind

	// Production and RHS are set only for ActionExpand.
	Production int
	RHS        []int
}

// Label returns the text shown in a trace. An expansion is labeled by its RHS.
func (a *Action) Label(g Grammar) string {
	if a.Kind != ActionExpand {
		return string(a.Kind)
	}
	var b strings.Builder
	for i, sym := range a.RHS {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(SymbolText(g, sym))
	}
	return b.String()
}

// Step is a configuration of the parser after an action. Symbols are encoded the same way as Grammar.
type Step struct {
	Consumed []int
	// Stack lists the stack from the bottom to the top.
	Stack     []int
	Remaining []int
	Action    *Action
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: %v", e.Row, e.Col, e.Message)
	if !e.Token.EOF() {
		fmt.Fprintf(&b, ": %#v", string(e.Token.Lexeme()))
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

type ParserOption func(p *Parser) error

// SemanticAction registers a set of callbacks invoked on every action.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// DisableTrace stops recording steps. A verdict and syntax errors are still available.
func DisableTrace() ParserOption {
	return func(p *Parser) error {
		p.disableTrace = true
		return nil
	}
}

// Parser is a table-driven predictive parser. A Parser parses a single input; create a new one for
// each input. Parsers sharing a grammar can run concurrently.
type Parser struct {
	toks         TokenStream
	gram         Grammar
	semAct       SemanticActionSet
	disableTrace bool

	input   []VToken
	terms   []int
	pos     int
	stack   []int
	trace   []*Step
	synErrs []*SyntaxError
	verdict Verdict

	// onTop maps a non-terminal to the stack length when it last came to the top. An entry lives
	// until input is consumed or the stack gets shorter than the recorded length.
	onTop map[int]int
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:  toks,
		gram:  gram,
		onTop: map[int]int{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse runs the automaton until it accepts or the stack becomes empty. Syntax errors never make
// Parse fail; they are reported by SyntaxErrors and the verdict. Parse returns an error only when
// reading tokens fails.
func (p *Parser) Parse() error {
	err := p.readTokens()
	if err != nil {
		return err
	}

	eof := p.gram.EOF()
	p.stack = []int{eof, p.gram.StartSymbol()}
	accepted := false

	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		next := p.terms[p.pos]

		var act *Action
		switch {
		case len(p.stack) == 1 && top == eof && next == eof:
			act = &Action{
				Kind: ActionAccept,
			}
			accepted = true
		case top == spec.EpsilonSymbol:
			p.pop()
			act = &Action{
				Kind: ActionEpsilon,
			}
			if p.semAct != nil {
				p.semAct.Epsilon()
			}
		case top > 0:
			if top == next {
				p.pop()
				p.consume()
				act = &Action{
					Kind: ActionMatch,
				}
				break
			}
			act = p.skipError([]int{top})
		default:
			if h, ok := p.onTop[top]; ok {
				tracer().Infof("%v reached the top again without consuming input; stack length: %v -> %v", p.gram.NonTerminal(-top), h, len(p.stack))
				p.record(&Action{
					Kind: ActionStall,
				})
				p.verdict = VerdictReject
				return nil
			}
			p.onTop[top] = len(p.stack)

			prod := p.gram.Lookup(-top, next)
			if prod == 0 {
				act = p.skipError(p.expectedTerminals(-top))
				break
			}
			p.pop()
			rhs := p.gram.Alternative(prod)
			for i := len(rhs) - 1; i >= 0; i-- {
				p.stack = append(p.stack, rhs[i])
			}
			act = &Action{
				Kind:       ActionExpand,
				Production: prod,
				RHS:        rhs,
			}
			if p.semAct != nil {
				p.semAct.Expand(prod)
			}
		}

		for sym, h := range p.onTop {
			if len(p.stack) < h {
				delete(p.onTop, sym)
			}
		}

		p.record(act)
		if accepted {
			break
		}
	}

	switch {
	case accepted && len(p.synErrs) == 0:
		p.verdict = VerdictAccept
		if p.semAct != nil {
			p.semAct.Accept()
		}
	case accepted:
		p.verdict = VerdictRejectWithRecovery
		if p.semAct != nil {
			p.semAct.Accept()
		}
	default:
		p.verdict = VerdictReject
	}
	tracer().Debugf("verdict: %v; steps: %v, syntax errors: %v", p.verdict, len(p.trace), len(p.synErrs))

	return nil
}

func (p *Parser) readTokens() error {
	for {
		tok, err := p.toks.Next()
		if err != nil {
			return err
		}
		p.input = append(p.input, tok)
		if tok.EOF() {
			p.terms = append(p.terms, p.gram.EOF())
			return nil
		}
		p.terms = append(p.terms, tok.TerminalID())
	}
}

func (p *Parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Parser) consume() {
	tok := p.input[p.pos]
	p.pos++
	for sym := range p.onTop {
		delete(p.onTop, sym)
	}
	if p.semAct != nil {
		p.semAct.Match(tok)
	}
}

// skipError pops the top of the stack without consuming the look-ahead.
func (p *Parser) skipError(expected []int) *Action {
	tok := p.input[p.pos]
	row, col := tok.Position()
	msg := "unexpected token"
	switch {
	case tok.EOF():
		msg = "unexpected EOF"
	case tok.Invalid():
		msg = "invalid token"
	}
	texts := make([]string, len(expected))
	for i, term := range expected {
		texts[i] = p.gram.Terminal(term)
	}
	synErr := &SyntaxError{
		Row:               row,
		Col:               col,
		Message:           msg,
		Token:             tok,
		ExpectedTerminals: texts,
	}
	p.synErrs = append(p.synErrs, synErr)
	tracer().Debugf("error-skip %v: %v", SymbolText(p.gram, p.stack[len(p.stack)-1]), synErr)

	p.pop()
	if p.semAct != nil {
		p.semAct.ErrorSkip(tok)
	}

	return &Action{
		Kind: ActionErrorSkip,
	}
}

func (p *Parser) expectedTerminals(nonTerm int) []int {
	var terms []int
	for term := p.gram.EOF(); term < p.gram.TerminalCount(); term++ {
		if p.gram.Lookup(nonTerm, term) == 0 {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func (p *Parser) record(act *Action) {
	if p.disableTrace {
		return
	}
	stack := make([]int, len(p.stack))
	copy(stack, p.stack)
	step := &Step{
		Consumed:  p.terms[:p.pos:p.pos],
		Stack:     stack,
		Remaining: p.terms[p.pos:],
		Action:    act,
	}
	p.trace = append(p.trace, step)
	tracer().Debugf("%v | %v | %v", len(p.trace), stack, act.Label(p.gram))
}

func (p *Parser) Verdict() Verdict {
	return p.verdict
}

// Trace returns the steps in order. The last step of an accepted input has the stack [$] and the
// remaining input [$].
func (p *Parser) Trace() []*Step {
	return p.trace
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}
