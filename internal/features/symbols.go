package features

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// SymbolKind tags a DocumentSymbol's role in the two-level outline: namespace and shape definitions at the top, members nested
// under their owning shape.
type SymbolKind int

const (
	SymbolNamespace SymbolKind = iota
	SymbolShape
	SymbolMember
)

// DocumentSymbol is one entry of the outline the editor renders.
type DocumentSymbol struct {
	Name           string
	Detail         string // the shape type, for SymbolShape
	Kind           SymbolKind
	Range          docmodel.Range // the full span, extended to cover the shape's block
	SelectionRange docmodel.Range // just the name token
	Children       []DocumentSymbol
}

// ComputeDocumentSymbols builds the outline: a namespace
// symbol (if declared) followed by one symbol per shape definition, each
// with its member definitions nested as children and its range widened
// to cover the shape's block.
func ComputeDocumentSymbols(p *project.Project, path string) []DocumentSymbol {
	f, ok := p.File(path)
	if !ok {
		return nil
	}
	doc := f.Document()
	res := f.Parsed()

	var out []DocumentSymbol
	if res.Namespace != nil {
		out = append(out, DocumentSymbol{
			Name:           res.Namespace.Name.Text,
			Kind:           SymbolNamespace,
			Range:          rangeOf(doc, res.Namespace.Range()),
			SelectionRange: rangeOf(doc, res.Namespace.Name.Range),
		})
	}

	for i, st := range res.Statements {
		sd, ok := st.(*syntax.ShapeDefStatement)
		if !ok {
			continue
		}
		full := sd.Range()
		block := followingBlock(res.Statements, i)
		var children []DocumentSymbol
		if block != nil {
			full = spanOf(full, block.Range())
			children = memberSymbols(res.Statements, block, doc)
		}
		out = append(out, DocumentSymbol{
			Name:           sd.ShapeName.Text,
			Detail:         sd.ShapeType.Text,
			Kind:           SymbolShape,
			Range:          rangeOf(doc, full),
			SelectionRange: rangeOf(doc, sd.ShapeName.Range),
			Children:       children,
		})
	}
	return out
}

// followingBlock finds the nearest BlockStatement after index i, stopping
// if another ShapeDefStatement is reached first (the next shape's own
// block, not this one's).
func followingBlock(stmts []syntax.Statement, i int) *syntax.BlockStatement {
	for j := i + 1; j < len(stmts); j++ {
		switch s := stmts[j].(type) {
		case *syntax.BlockStatement:
			return s
		case *syntax.ShapeDefStatement:
			return nil
		}
	}
	return nil
}

func memberSymbols(stmts []syntax.Statement, block *syntax.BlockStatement, doc *docmodel.Document) []DocumentSymbol {
	if block.FirstStatementIdx == -1 {
		return nil
	}
	var out []DocumentSymbol
	for k := block.FirstStatementIdx; k <= block.LastStatementIdx && k < len(stmts); k++ {
		var name syntax.Token
		switch m := stmts[k].(type) {
		case *syntax.MemberDefStatement:
			name = m.Name
		case *syntax.ElidedMemberDefStatement:
			name = m.Name
		case *syntax.EnumMemberDefStatement:
			name = m.Name
		case *syntax.NodeMemberDefStatement:
			name = m.Name
		case *syntax.InlineMemberDefStatement:
			name = m.Name
		default:
			continue
		}
		out = append(out, DocumentSymbol{
			Name:           name.Text,
			Kind:           SymbolMember,
			Range:          rangeOf(doc, stmts[k].Range()),
			SelectionRange: rangeOf(doc, name.Range),
		})
	}
	return out
}

func rangeOf(doc *docmodel.Document, r syntax.ByteRange) docmodel.Range {
	rr, _ := doc.RangeBetween(r.Start, r.End)
	return rr
}

func spanOf(a, b syntax.ByteRange) syntax.ByteRange {
	out := a
	if b.Start < out.Start {
		out.Start = b.Start
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}
