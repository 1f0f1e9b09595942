package driver

import (
	"fmt"
	"io"

	spec "github.com/nihei9/ll1/spec/grammar"
)

type SemanticActionSet interface {
	// Expand runs when the driver replaces a non-terminal on the top of the stack with an RHS of the
	// production `prodNum`.
	Expand(prodNum int)

	// Match runs when a terminal on the top of the stack matches the look-ahead token `tok`.
	Match(tok VToken)

	// Epsilon runs when the driver pops ε.
	Epsilon()

	// ErrorSkip runs when the driver discards the top of the stack because of a syntax error. `cause`
	// is the look-ahead token, which the driver doesn't consume.
	ErrorSkip(cause VToken)

	// Accept runs when the driver reaches the accepting configuration, even after errors.
	Accept()
}

var _ SemanticActionSet = &SyntaxTreeActionSet{}

type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
	Error    bool
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	switch {
	case node.Error:
		fmt.Fprintf(w, "%v!%v\n", ruledLine, node.KindName)
	case node.Text != "":
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	default:
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// SyntaxTreeActionSet builds a concrete syntax tree top-down. It keeps a stack of nodes in step with
// the parser's stack; a node is created when its parent is expanded and completed when it's matched.
// A node discarded by error recovery is marked with Error.
type SyntaxTreeActionSet struct {
	gram     Grammar
	root     *Node
	cst      *Node
	semStack *semanticStack
}

func NewSyntaxTreeActionSet(gram Grammar) *SyntaxTreeActionSet {
	root := &Node{
		KindName: SymbolText(gram, gram.StartSymbol()),
	}
	semStack := newSemanticStack()
	// The bottom frame stands for EOF.
	semStack.push(nil)
	semStack.push(root)
	return &SyntaxTreeActionSet{
		gram:     gram,
		root:     root,
		semStack: semStack,
	}
}

func (a *SyntaxTreeActionSet) Expand(prodNum int) {
	parent := a.semStack.pop()
	rhs := a.gram.Alternative(prodNum)

	children := make([]*Node, 0, len(rhs))
	frames := make([]*Node, len(rhs))
	for i, sym := range rhs {
		if sym == spec.EpsilonSymbol {
			continue
		}
		child := &Node{
			KindName: SymbolText(a.gram, sym),
		}
		children = append(children, child)
		frames[i] = child
	}
	if parent != nil {
		parent.Children = children
	}

	for i := len(frames) - 1; i >= 0; i-- {
		a.semStack.push(frames[i])
	}
}

func (a *SyntaxTreeActionSet) Match(tok VToken) {
	n := a.semStack.pop()
	if n == nil {
		return
	}
	n.Text = string(tok.Lexeme())
	n.Row, n.Col = tok.Position()
}

func (a *SyntaxTreeActionSet) Epsilon() {
	a.semStack.pop()
}

func (a *SyntaxTreeActionSet) ErrorSkip(cause VToken) {
	n := a.semStack.pop()
	if n == nil {
		return
	}
	n.Error = true
}

func (a *SyntaxTreeActionSet) Accept() {
	a.cst = a.root
}

// CST returns nil unless the parser accepted an input.
func (a *SyntaxTreeActionSet) CST() *Node {
	return a.cst
}

type semanticStack struct {
	frames []*Node
}

func newSemanticStack() *semanticStack {
	return &semanticStack{}
}

func (s *semanticStack) push(f *Node) {
	s.frames = append(s.frames, f)
}

func (s *semanticStack) pop() *Node {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f
}
