package spec

import (
	"errors"
	"strings"
	"testing"

	verr "github.com/nihei9/ll1/error"
)

func TestParse(t *testing.T) {
	production := func(lhs string, alts ...*AlternativeNode) *ProductionNode {
		return &ProductionNode{
			LHS: lhs,
			RHS: alts,
		}
	}
	alternative := func(elems ...*ElementNode) *AlternativeNode {
		return &AlternativeNode{
			Elements: elems,
		}
	}
	id := func(id string) *ElementNode {
		return &ElementNode{
			ID: id,
		}
	}
	quoted := func(id string) *ElementNode {
		return &ElementNode{
			ID:     id,
			Quoted: true,
		}
	}
	epsilon := func() *ElementNode {
		return &ElementNode{
			Epsilon: true,
		}
	}

	tests := []struct {
		caption string
		src     string
		opts    []ParseOption
		ast     *RootNode
		synErr  *SyntaxError
	}{
		{
			caption: "single production is a valid grammar",
			src:     `S -> a`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("S", alternative(id("a"))),
				},
			},
		},
		{
			caption: "the expression grammar",
			src: `
// expression
E -> T X
X -> + T X | ε
T -> F Y
Y -> * F Y
   | %empty
F -> ( E ) | a
`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("E", alternative(id("T"), id("X"))),
					production("X", alternative(id("+"), id("T"), id("X")), alternative(epsilon())),
					production("T", alternative(id("F"), id("Y"))),
					production("Y", alternative(id("*"), id("F"), id("Y")), alternative(epsilon())),
					production("F", alternative(id("("), id("E"), id(")")), alternative(id("a"))),
				},
			},
		},
		{
			caption: "character symbols split words into single symbols",
			src: `E -> TX
X -> +TX | ε
F -> (E) | a`,
			opts: []ParseOption{CharSymbols()},
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("E", alternative(id("T"), id("X"))),
					production("X", alternative(id("+"), id("T"), id("X")), alternative(epsilon())),
					production("F", alternative(id("("), id("E"), id(")")), alternative(id("a"))),
				},
			},
		},
		{
			caption: "quoted terminals can contain characters having a special meaning",
			src:     `S -> '|' S '->' | 'a b'`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("S", alternative(quoted("|"), id("S"), quoted("->")), alternative(quoted("a b"))),
				},
			},
		},
		{
			caption: "an empty alternative is allowed",
			src:     `S -> a S |`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("S", alternative(id("a"), id("S")), alternative()),
				},
			},
		},
		{
			caption: "other arrows are allowed",
			src: `S → A
A ::= a`,
			ast: &RootNode{
				Productions: []*ProductionNode{
					production("S", alternative(id("A"))),
					production("A", alternative(id("a"))),
				},
			},
		},
		{
			caption: "directives precede productions",
			src: `%name expr
%start S
S -> a`,
			ast: &RootNode{
				Directives: []*DirectiveNode{
					{Name: "name", Parameter: "expr"},
					{Name: "start", Parameter: "S"},
				},
				Productions: []*ProductionNode{
					production("S", alternative(id("a"))),
				},
			},
		},
		{
			caption: "a grammar must have at least one production",
			src:     "// nothing\n",
			synErr:  synErrNoProduction,
		},
		{
			caption: "a production needs an arrow",
			src:     `S a`,
			synErr:  synErrNoArrow,
		},
		{
			caption: "a production cannot start with an alternative",
			src:     `| a`,
			synErr:  synErrNoProductionName,
		},
		{
			caption: "a directive cannot follow productions",
			src: `S -> a
%name s`,
			synErr: synErrDirectiveAfterProd,
		},
		{
			caption: "an unknown directive is an error",
			src:     `%foo bar`,
			synErr:  synErrUnknownDirective,
		},
		{
			caption: "a directive needs a parameter",
			src:     `%name`,
			synErr:  synErrDirectiveParam,
		},
		{
			caption: "a quoted terminal must be closed",
			src:     `S -> 'a`,
			synErr:  synErrUnclosedTerminal,
		},
		{
			caption: "a quoted terminal must not be empty",
			src:     `S -> ''`,
			synErr:  synErrEmptyTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ast, err := Parse(strings.NewReader(tt.src), tt.opts...)
			if tt.synErr != nil {
				var specErr *verr.SpecError
				if !errors.As(err, &specErr) {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
				}
				if specErr.Cause != tt.synErr {
					t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, specErr.Cause)
				}
				if ast != nil {
					t.Fatalf("AST must be nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ast == nil {
				t.Fatalf("AST must be non-nil")
			}
			testRootNode(t, ast, tt.ast)
		})
	}
}

func TestParse_Position(t *testing.T) {
	src := `S -> A b
A -> a`
	ast, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if row := ast.Productions[1].Pos.Row; row != 2 {
		t.Fatalf("unexpected row of A; want: 2, got: %v", row)
	}
	a := ast.Productions[0].RHS[0].Elements[0]
	b := ast.Productions[0].RHS[0].Elements[1]
	if a.Pos.Row != 1 || b.Pos.Row != 1 || b.Pos.Col-a.Pos.Col != 2 {
		t.Fatalf("unexpected positions; A: %+v, b: %+v", a.Pos, b.Pos)
	}
}

func testRootNode(t *testing.T, root, expected *RootNode) {
	t.Helper()
	if len(root.Directives) != len(expected.Directives) {
		t.Fatalf("unexpected length of directives; want: %v, got: %v", len(expected.Directives), len(root.Directives))
	}
	for i, dir := range root.Directives {
		if dir.Name != expected.Directives[i].Name || dir.Parameter != expected.Directives[i].Parameter {
			t.Fatalf("unexpected directive; want: %+v, got: %+v", expected.Directives[i], dir)
		}
	}
	if len(root.Productions) != len(expected.Productions) {
		t.Fatalf("unexpected length of productions; want: %v, got: %v", len(expected.Productions), len(root.Productions))
	}
	for i, prod := range root.Productions {
		testProductionNode(t, prod, expected.Productions[i])
	}
}

func testProductionNode(t *testing.T, prod, expected *ProductionNode) {
	t.Helper()
	if prod.LHS != expected.LHS {
		t.Fatalf("unexpected LHS; want: %v, got: %v", expected.LHS, prod.LHS)
	}
	if len(prod.RHS) != len(expected.RHS) {
		t.Fatalf("unexpected length of an RHS; want: %v, got: %v", len(expected.RHS), len(prod.RHS))
	}
	for i, alt := range prod.RHS {
		testAlternativeNode(t, alt, expected.RHS[i])
	}
}

func testAlternativeNode(t *testing.T, alt, expected *AlternativeNode) {
	t.Helper()
	if len(alt.Elements) != len(expected.Elements) {
		t.Fatalf("unexpected length of elements; want: %v, got: %v", len(expected.Elements), len(alt.Elements))
	}
	for i, elem := range alt.Elements {
		testElementNode(t, elem, expected.Elements[i])
	}
}

func testElementNode(t *testing.T, elem, expected *ElementNode) {
	t.Helper()
	if elem.ID != expected.ID || elem.Quoted != expected.Quoted || elem.Epsilon != expected.Epsilon {
		t.Fatalf("unexpected element; want: %+v, got: %+v", expected, elem)
	}
}
