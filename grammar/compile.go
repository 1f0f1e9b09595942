package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/ll1/compressor"
	spec "github.com/nihei9/ll1/spec/grammar"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

const (
	lexKindWhiteSpace    = mlspec.LexKindName("ws")
	lexPatternWhiteSpace = mlspec.LexPattern(`[\u{0009}\u{000A}\u{000D}\u{0020}]+`)
)

type compileConfig struct {
	isReportingEnabled bool
	compression        spec.CompressionLevel
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compression selects how the parsing table is stored. The default is spec.CompressionLevelMax.
func Compression(lv spec.CompressionLevel) CompileOption {
	return func(config *compileConfig) {
		config.compression = lv
	}
}

// Compile analyzes a grammar and encodes the result. A grammar having conflicts is compiled anyway;
// the parsing table keeps the production written first, and the report lists the conflicts.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{
		compression: spec.CompressionLevelMax,
	}
	for _, opt := range opts {
		opt(config)
	}

	a, err := Analyze(gram)
	if err != nil {
		return nil, nil, err
	}

	symTab := gram.SymbolTable()

	lexical, err := compileLexicalSpec(gram)
	if err != nil {
		return nil, nil, err
	}

	prods := gram.productionSet.getAllProductions()
	lhsSyms := make([]int, len(prods)+1)
	alts := make([][]int, len(prods)+1)
	alts[productionNumNil] = []int{}
	for _, prod := range prods {
		lhsSyms[prod.num] = encodeSymbol(prod.lhs)
		alts[prod.num] = encodeSymbols(prod.rhs)
	}

	tab, err := compressParsingTable(a.Table(), config.compression)
	if err != nil {
		return nil, nil, err
	}

	var report *spec.Report
	if config.isReportingEnabled {
		report = a.Report()
	}

	terms := symTab.TerminalTexts()
	nonTerms := symTab.NonTerminalTexts()
	return &spec.CompiledGrammar{
		Name:    gram.name,
		Lexical: lexical,
		Syntactic: &spec.SyntacticSpec{
			StartSymbol:      encodeSymbol(gram.startSymbol),
			EOFSymbol:        spec.EOFSymbol,
			Terminals:        terms,
			TerminalCount:    len(terms),
			NonTerminals:     nonTerms,
			NonTerminalCount: len(nonTerms),
			LHSSymbols:       lhsSyms,
			Alternatives:     alts,
			ParsingTable:     tab,
		},
	}, report, nil
}

// compileLexicalSpec makes a lexer recognizing every terminal literally. White spaces separate
// tokens and are skipped.
func compileLexicalSpec(gram *Grammar) (*spec.LexicalSpec, error) {
	symTab := gram.SymbolTable()
	termTexts := symTab.TerminalTexts()

	entries := []*mlspec.LexEntry{}
	kind2Sym := map[mlspec.LexKindName]int{}
	for _, sym := range symTab.TerminalSymbols() {
		kind := mlspec.LexKindName(fmt.Sprintf("t_%v", sym.Num()))
		kind2Sym[kind] = sym.Num().Int()
		entries = append(entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(termTexts[sym.Num()])),
		})
	}
	entries = append(entries, &mlspec.LexEntry{
		Kind:    lexKindWhiteSpace,
		Pattern: lexPatternWhiteSpace,
	})

	lexSpec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, errors.New(b.String())
		}
		return nil, err
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, len(termTexts))
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = spec.EpsilonSymbol
			continue
		}
		if k == lexKindWhiteSpace {
			skip[i] = 1
			continue
		}

		num, ok := kind2Sym[k]
		if !ok {
			return nil, fmt.Errorf("a terminal symbol of lexical kind '%v' was not found in a symbol table", k)
		}
		kind2Term[i] = num
		term2Kind[num] = i
	}

	return &spec.LexicalSpec{
		Maleeni: &spec.Maleeni{
			Spec:           lexSpec,
			KindToTerminal: kind2Term,
			TerminalToKind: term2Kind,
			Skip:           skip,
		},
	}, nil
}

func compressParsingTable(tab *ParsingTable, lv spec.CompressionLevel) (*spec.ParsingTable, error) {
	entries := tab.Entries()
	if lv == spec.CompressionLevelNone {
		return &spec.ParsingTable{
			Compression: lv,
			RowCount:    tab.RowCount(),
			ColCount:    tab.ColumnCount(),
			Entries:     entries,
		}, nil
	}

	orig, err := compressor.NewOriginalTable(entries, tab.ColumnCount())
	if err != nil {
		return nil, err
	}
	ue := compressor.NewUniqueEntriesTable()
	err = ue.Compress(orig)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parsing table: %d rows shared as %d unique rows", tab.RowCount(), ue.UniqueRowCount())

	u := &spec.UniqueEntriesTable{
		RowNums:          ue.RowNums,
		OriginalRowCount: ue.OriginalRowCount,
		OriginalColCount: ue.OriginalColCount,
	}
	if lv == spec.CompressionLevelUniqueEntries {
		u.UncompressedUniqueEntries = ue.UniqueEntries
	} else {
		uniqueOrig, err := compressor.NewOriginalTable(ue.UniqueEntries, ue.OriginalColCount)
		if err != nil {
			return nil, err
		}
		rd := compressor.NewRowDisplacementTable(int(tableEntryEmpty))
		err = rd.Compress(uniqueOrig)
		if err != nil {
			return nil, err
		}
		u.UniqueEntries = &spec.RowDisplacementTable{
			OriginalRowCount: rd.OriginalRowCount,
			OriginalColCount: rd.OriginalColCount,
			EmptyValue:       rd.EmptyValue,
			Entries:          rd.Entries,
			Bounds:           rd.Bounds,
			RowDisplacement:  rd.RowDisplacement,
		}
	}

	return &spec.ParsingTable{
		Compression:   lv,
		RowCount:      tab.RowCount(),
		ColCount:      tab.ColumnCount(),
		UniqueEntries: u,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
