package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/nihei9/ll1/driver"
	gspec "github.com/nihei9/ll1/spec/grammar"
	"github.com/pterm/pterm"
)

// reportSymbols resolves encoded symbols of a report.
type reportSymbols struct {
	terms    map[int]string
	nonTerms map[int]string
}

func newReportSymbols(report *gspec.Report) *reportSymbols {
	s := &reportSymbols{
		terms: map[int]string{
			gspec.EOFSymbol: "$",
		},
		nonTerms: map[int]string{},
	}
	for _, t := range report.Terminals {
		s.terms[t.Number] = t.Name
	}
	for _, n := range report.NonTerminals {
		s.nonTerms[n.Number] = n.Name
	}
	return s
}

func (s *reportSymbols) name(sym int) string {
	switch {
	case sym > 0:
		return s.terms[sym]
	case sym < 0:
		return s.nonTerms[-sym]
	}
	return gspec.EpsilonText
}

func (s *reportSymbols) names(syms []int) string {
	texts := make([]string, len(syms))
	for i, sym := range syms {
		texts[i] = s.name(sym)
	}
	return strings.Join(texts, " ")
}

func (s *reportSymbols) production(prod *gspec.Production) string {
	return fmt.Sprintf("%v → %v", s.name(prod.LHS), s.names(prod.RHS))
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}
{{ range .Conflicts -}}
{{ printConflict . }}
{{ end }}
# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}`

// writeReport writes a report in a readable format. FIRST and FOLLOW sets and the parsing table are
// rendered as tables.
func writeReport(w io.Writer, report *gspec.Report) error {
	syms := newReportSymbols(report)
	prods := map[int]*gspec.Production{}
	for _, prod := range report.Productions {
		prods[prod.Number] = prod
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *gspec.Report) string {
			switch len(report.Conflicts) {
			case 0:
				return "No conflict. The grammar is LL(1)."
			case 1:
				return "1 conflict was detected. The grammar is not LL(1)."
			}
			return fmt.Sprintf("%v conflicts were detected. The grammar is not LL(1).", len(report.Conflicts))
		},
		"printConflict": func(c *gspec.Conflict) string {
			return fmt.Sprintf("[%v, %v]: production %v adopted, production %v rejected", syms.nonTerms[c.NonTerminal], syms.terms[c.Terminal], c.ExistingProduction, c.RejectedProduction)
		},
		"printTerminal": func(t *gspec.Terminal) string {
			return fmt.Sprintf("%4v %v", t.Number, t.Name)
		},
		"printProduction": func(prod *gspec.Production) string {
			return fmt.Sprintf("%4v %v", prod.Number, syms.production(prod))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}
	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	sets := pterm.TableData{
		{"Non-terminal", "FIRST", "FOLLOW"},
	}
	for i, fst := range report.First {
		first := syms.names(fst.Symbols)
		if fst.Nullable {
			first = strings.TrimSpace(first + " " + gspec.EpsilonText)
		}
		var follow string
		if i < len(report.Follow) {
			follow = syms.names(report.Follow[i].Symbols)
		}
		sets = append(sets, []string{syms.nonTerms[fst.NonTerminal], first, follow})
	}
	fmt.Fprintf(w, "\n# FIRST and FOLLOW\n\n")
	err = renderTable(w, sets)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n# Parsing Table\n\n")
	return renderTable(w, parsingTableData(report, syms, prods))
}

// parsingTableData lays out terminals in the order they appear and EOF last.
func parsingTableData(report *gspec.Report, syms *reportSymbols, prods map[int]*gspec.Production) pterm.TableData {
	cols := make([]int, 0, len(report.Terminals)+1)
	for _, t := range report.Terminals {
		cols = append(cols, t.Number)
	}
	cols = append(cols, gspec.EOFSymbol)

	header := []string{""}
	for _, col := range cols {
		header = append(header, syms.terms[col])
	}
	data := pterm.TableData{header}

	rows := map[int]map[int]int{}
	for _, row := range report.Table {
		cells := map[int]int{}
		for _, e := range row.Entries {
			cells[e.Terminal] = e.Production
		}
		rows[row.NonTerminal] = cells
	}
	conflicted := map[[2]int]bool{}
	for _, c := range report.Conflicts {
		conflicted[[2]int{c.NonTerminal, c.Terminal}] = true
	}

	for _, n := range report.NonTerminals {
		line := []string{n.Name}
		for _, col := range cols {
			prod, ok := rows[n.Number][col]
			if !ok {
				line = append(line, "")
				continue
			}
			cell := syms.production(prods[prod])
			if conflicted[[2]int{n.Number, col}] {
				cell += " !"
			}
			line = append(line, cell)
		}
		data = append(data, line)
	}
	return data
}

// writeTrace writes steps of a parser as a table of consumed input, stack, remaining input, and action.
func writeTrace(w io.Writer, gram driver.Grammar, trace []*driver.Step) error {
	texts := func(syms []int) string {
		ts := make([]string, len(syms))
		for i, sym := range syms {
			ts[i] = driver.SymbolText(gram, sym)
		}
		return strings.Join(ts, " ")
	}

	data := pterm.TableData{
		{"#", "Matched", "Stack", "Input", "Action"},
	}
	for i, step := range trace {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			texts(step.Consumed),
			texts(step.Stack),
			texts(step.Remaining),
			step.Action.Label(gram),
		})
	}
	return renderTable(w, data)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

// writeTree renders a syntax tree with pterm.
func writeTree(w io.Writer, node *driver.Node) error {
	if node == nil {
		return nil
	}
	root := pterm.NewTreeFromLeveledList(leveledNodes(node, pterm.LeveledList{}, 0))
	s, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

func leveledNodes(node *driver.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := node.KindName
	switch {
	case node.Error:
		text = "!" + text
	case node.Text != "":
		text = fmt.Sprintf("%v %#v", text, node.Text)
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  text,
	})
	for _, child := range node.Children {
		ll = leveledNodes(child, ll, level+1)
	}
	return ll
}
