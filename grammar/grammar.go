package grammar

import (
	"fmt"
	"unicode"

	verr "github.com/nihei9/ll1/error"
	"github.com/nihei9/ll1/grammar/symbol"
	"github.com/nihei9/ll1/spec"
)

// EpsilonText is the RHS element denoting the empty sequence.
const EpsilonText = symbol.TextEpsilon

const defaultGrammarName = "grammar"

// Grammar is a normalized context-free grammar. It never changes once built.
type Grammar struct {
	name          string
	productionSet *productionSet
	startSymbol   symbol.Symbol
	symbolTable   *symbol.SymbolTable
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) StartSymbol() symbol.Symbol {
	return g.startSymbol
}

func (g *Grammar) SymbolTable() *symbol.SymbolTableReader {
	return g.symbolTable.Reader()
}

// Rule is a production given in code. RHS holds symbol names; an empty RHS or EpsilonText denotes ε.
type Rule struct {
	LHS string
	RHS []string
}

type buildConfig struct {
	name  string
	start string
	// declaredTerms is nil unless terminals are declared explicitly.
	declaredTerms map[string]struct{}
	declaredOrder []string
	uppercase     bool
}

type BuildOption func(config *buildConfig)

// WithName names the grammar. The name overrides the %name directive.
func WithName(name string) BuildOption {
	return func(config *buildConfig) {
		config.name = name
	}
}

// WithStartSymbol overrides the %start directive. Without both, the LHS of the first production is
// the start symbol.
func WithStartSymbol(start string) BuildOption {
	return func(config *buildConfig) {
		config.start = start
	}
}

// DeclareTerminals makes an RHS symbol that is neither an LHS nor declared an undefined symbol.
func DeclareTerminals(texts ...string) BuildOption {
	return func(config *buildConfig) {
		if config.declaredTerms == nil {
			config.declaredTerms = map[string]struct{}{}
		}
		for _, text := range texts {
			if _, ok := config.declaredTerms[text]; ok {
				continue
			}
			config.declaredTerms[text] = struct{}{}
			config.declaredOrder = append(config.declaredOrder, text)
		}
	}
}

// UppercaseNonTerminals treats an unquoted symbol containing an upper-case letter as a non-terminal,
// so such a symbol without productions is undefined.
func UppercaseNonTerminals() BuildOption {
	return func(config *buildConfig) {
		config.uppercase = true
	}
}

// NewGrammar builds a grammar from rules given in code.
func NewGrammar(start string, rules []Rule, opts ...BuildOption) (*Grammar, error) {
	root := &spec.RootNode{}
	for _, r := range rules {
		alt := &spec.AlternativeNode{
			Elements: make([]*spec.ElementNode, 0, len(r.RHS)),
		}
		for _, text := range r.RHS {
			if text == EpsilonText {
				alt.Elements = append(alt.Elements, &spec.ElementNode{
					Epsilon: true,
				})
				continue
			}
			alt.Elements = append(alt.Elements, &spec.ElementNode{
				ID: text,
			})
		}
		root.Productions = append(root.Productions, &spec.ProductionNode{
			LHS: r.LHS,
			RHS: []*spec.AlternativeNode{alt},
		})
	}

	b := &GrammarBuilder{
		AST: root,
	}
	return b.Build(append([]BuildOption{WithStartSymbol(start)}, opts...)...)
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

// Build classifies symbols and normalizes productions. All problems found are returned together as
// error.SpecErrors.
func (b *GrammarBuilder) Build(opts ...BuildOption) (*Grammar, error) {
	config := &buildConfig{}
	b.applyDirectives(config)
	for _, opt := range opts {
		opt(config)
	}
	if config.name == "" {
		config.name = defaultGrammarName
	}
	if !isValidName(config.name) {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrInvalidName,
			Detail: config.name,
		})
	}

	if len(b.AST.Productions) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
		return nil, b.errs
	}

	symTab := symbol.NewSymbolTable()
	b.genSymbols(symTab, config)

	start := b.genStartSymbol(symTab, config)

	prods := b.genProductions(symTab)

	if len(b.errs) > 0 {
		return nil, b.errs
	}

	tracer().Infof("grammar %v: %d productions, %d non-terminals, %d terminals", config.name,
		len(prods.getAllProductions()), len(symTab.Reader().NonTerminalSymbols()), len(symTab.Reader().TerminalSymbols()))

	return &Grammar{
		name:          config.name,
		productionSet: prods,
		startSymbol:   start,
		symbolTable:   symTab,
	}, nil
}

func (b *GrammarBuilder) applyDirectives(config *buildConfig) {
	seen := map[string]struct{}{}
	for _, dir := range b.AST.Directives {
		if _, ok := seen[dir.Name]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateDir,
				Detail: dir.Name,
				Row:    dir.Pos.Row,
				Col:    dir.Pos.Col,
			})
			continue
		}
		seen[dir.Name] = struct{}{}

		switch dir.Name {
		case "name":
			config.name = dir.Parameter
		case "start":
			config.start = dir.Parameter
		}
	}
}

// genSymbols registers non-terminals in the order their productions appear, and then terminals in
// the order they first appear in RHSs.
func (b *GrammarBuilder) genSymbols(symTab *symbol.SymbolTable, config *buildConfig) {
	w := symTab.Writer()
	r := symTab.Reader()

	for _, prod := range b.AST.Productions {
		if symbol.IsReservedText(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedSym,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		_, err := w.RegisterNonTerminalSymbol(prod.LHS)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  err,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
		}
	}

	for _, prod := range b.AST.Productions {
		for _, alt := range prod.RHS {
			for _, elem := range alt.Elements {
				if elem.Epsilon {
					continue
				}
				if sym, ok := r.ToSymbol(elem.ID); ok {
					if elem.Quoted && sym.IsNonTerminal() {
						b.errs = append(b.errs, &verr.SpecError{
							Cause:  semErrDuplicateName,
							Detail: elem.ID,
							Row:    elem.Pos.Row,
							Col:    elem.Pos.Col,
						})
					}
					if sym.IsEOF() || sym.IsEpsilon() {
						b.errs = append(b.errs, &verr.SpecError{
							Cause:  semErrReservedSym,
							Detail: elem.ID,
							Row:    elem.Pos.Row,
							Col:    elem.Pos.Col,
						})
					}
					continue
				}

				if !b.isTerminal(elem, config) {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  semErrUndefinedSym,
						Detail: elem.ID,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
					continue
				}
				_, err := w.RegisterTerminalSymbol(elem.ID)
				if err != nil {
					b.errs = append(b.errs, &verr.SpecError{
						Cause:  err,
						Detail: elem.ID,
						Row:    elem.Pos.Row,
						Col:    elem.Pos.Col,
					})
				}
			}
		}
	}

	// Declared but unused terminals still get table columns so that inputs containing them are
	// classified as terminals instead of invalid tokens.
	for _, text := range config.declaredOrder {
		if _, ok := r.ToSymbol(text); ok {
			continue
		}
		_, err := w.RegisterTerminalSymbol(text)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedSym,
				Detail: text,
			})
		}
	}
}

// isTerminal decides a class of a symbol having no productions.
func (b *GrammarBuilder) isTerminal(elem *spec.ElementNode, config *buildConfig) bool {
	if elem.Quoted {
		return true
	}
	if config.declaredTerms != nil {
		_, ok := config.declaredTerms[elem.ID]
		return ok
	}
	if config.uppercase {
		for _, r := range elem.ID {
			if unicode.IsUpper(r) {
				return false
			}
		}
	}
	return true
}

func (b *GrammarBuilder) genStartSymbol(symTab *symbol.SymbolTable, config *buildConfig) symbol.Symbol {
	text := config.start
	if text == "" {
		text = b.AST.Productions[0].LHS
	}
	sym, ok := symTab.Reader().ToSymbol(text)
	if !ok || !sym.IsNonTerminal() {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUndefinedStart,
			Detail: text,
		})
		return symbol.SymbolNil
	}
	return sym
}

func (b *GrammarBuilder) genProductions(symTab *symbol.SymbolTable) *productionSet {
	r := symTab.Reader()
	prods := newProductionSet()
	for _, prod := range b.AST.Productions {
		lhs, ok := r.ToSymbol(prod.LHS)
		if !ok || !lhs.IsNonTerminal() {
			// The cause was already reported while registering symbols.
			continue
		}
		for _, alt := range prod.RHS {
			rhs := make([]symbol.Symbol, 0, len(alt.Elements))
			valid := true
			for _, elem := range alt.Elements {
				if elem.Epsilon {
					rhs = append(rhs, symbol.SymbolEpsilon)
					continue
				}
				sym, ok := r.ToSymbol(elem.ID)
				if !ok || sym.IsEOF() || sym.IsEpsilon() {
					valid = false
					break
				}
				rhs = append(rhs, sym)
			}
			if !valid {
				continue
			}

			p, err := newProduction(lhs, rhs)
			if err != nil {
				b.errs = append(b.errs, &verr.SpecError{
					Cause: err,
					Row:   alt.Pos.Row,
					Col:   alt.Pos.Col,
				})
				continue
			}
			if !prods.append(p) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: fmt.Sprintf("%v -> %v", prod.LHS, formatRHS(r, p.rhs)),
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
			}
		}
	}
	return prods
}

func formatRHS(r *symbol.SymbolTableReader, rhs []symbol.Symbol) string {
	var s string
	for i, text := range r.ToTexts(rhs) {
		if i > 0 {
			s += " "
		}
		s += text
	}
	return s
}

func isValidName(name string) bool {
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return name != ""
}
