package features

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// FoldingRangeKind mirrors the LSP FoldingRangeKind strings the
// dispatcher serializes ("imports", "region"); left as a string so
// lspserver can pass it straight through.
type FoldingRangeKind string

const (
	FoldImports FoldingRangeKind = "imports"
	FoldRegion  FoldingRangeKind = "region"
)

// FoldingRange is one collapsible span.
type FoldingRange struct {
	StartLine int
	EndLine   int
	Kind      FoldingRangeKind
}

// ComputeFoldingRanges folds the imports block
// (when it spans two or more lines), every block statement's body, every
// object/array node spanning two or more lines, and every contiguous run
// of two or more trait applications.
func ComputeFoldingRanges(p *project.Project, path string) []FoldingRange {
	f, ok := p.File(path)
	if !ok {
		return nil
	}
	doc := f.Document()
	res := f.Parsed()

	var out []FoldingRange
	if r, ok := importsFoldingRange(doc, res); ok {
		out = append(out, r)
	}
	for _, st := range res.Statements {
		if b, ok := st.(*syntax.BlockStatement); ok {
			if r, ok := lineSpan(doc, b.Range(), FoldRegion); ok {
				out = append(out, r)
			}
		}
		walkNodeFoldingRanges(nodeValueOf(st), doc, &out)
	}
	out = append(out, traitRunFoldingRanges(res, doc)...)
	return out
}

func importsFoldingRange(doc *docmodel.Document, res *syntax.ParseResult) (FoldingRange, bool) {
	if len(res.Imports) < 2 {
		return FoldingRange{}, false
	}
	first, last := res.Imports[0], res.Imports[len(res.Imports)-1]
	r := syntax.ByteRange{Start: first.Range.Start, End: last.Range.End}
	return lineSpan(doc, r, FoldImports)
}

func lineSpan(doc *docmodel.Document, r syntax.ByteRange, kind FoldingRangeKind) (FoldingRange, bool) {
	start := doc.PositionOf(r.Start).Line
	end := doc.PositionOf(r.End).Line
	if end <= start {
		return FoldingRange{}, false
	}
	return FoldingRange{StartLine: start, EndLine: end, Kind: kind}, true
}

// nodeValueOf extracts the *syntax.Node a statement carries as its value,
// if any, so node-value folding can walk every statement uniformly.
func nodeValueOf(st syntax.Statement) *syntax.Node {
	switch s := st.(type) {
	case *syntax.ControlStatement:
		return s.Value
	case *syntax.MetadataStatement:
		return s.Value
	case *syntax.TraitApplicationStatement:
		return s.Value
	case *syntax.NodeMemberDefStatement:
		return s.Value
	default:
		return nil
	}
}

func walkNodeFoldingRanges(n *syntax.Node, doc *docmodel.Document, out *[]FoldingRange) {
	if n == nil {
		return
	}
	switch n.Kind {
	case syntax.NodeObject:
		if r, ok := lineSpan(doc, n.Range, FoldRegion); ok {
			*out = append(*out, r)
		}
		for _, kv := range n.Kvps {
			walkNodeFoldingRanges(kv.Value, doc, out)
		}
	case syntax.NodeArray:
		if r, ok := lineSpan(doc, n.Range, FoldRegion); ok {
			*out = append(*out, r)
		}
		for _, el := range n.Elements {
			walkNodeFoldingRanges(el, doc, out)
		}
	}
}

// traitRunFoldingRanges folds each maximal run of two or more consecutive
// TraitApplicationStatements into a single collapsible span, from the
// first trait's '@' to the last trait's value (or id, if it has none).
func traitRunFoldingRanges(res *syntax.ParseResult, doc *docmodel.Document) []FoldingRange {
	var out []FoldingRange
	i := 0
	for i < len(res.Statements) {
		first, ok := res.Statements[i].(*syntax.TraitApplicationStatement)
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < len(res.Statements) {
			if _, ok := res.Statements[j].(*syntax.TraitApplicationStatement); !ok {
				break
			}
			j++
		}
		if j-i >= 2 {
			last := res.Statements[j-1]
			span := syntax.ByteRange{Start: first.Range().Start, End: last.Range().End}
			if r, ok := lineSpan(doc, span, FoldRegion); ok {
				out = append(out, r)
			}
		}
		i = j
	}
	return out
}
