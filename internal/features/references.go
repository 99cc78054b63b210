package features

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	serrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/search"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// ReferenceLocation is one place shapeID is named, ready to become an LSP
// Location once joined with the owning file's URI.
type ReferenceLocation struct {
	Path  string
	Range docmodel.Range
}

// FindReferences collects every trait application,
// member target, use import, apply/for/mixin target, and id-ref-shaped
// node value across the project that resolves to shapeID, plus the
// shape's own defining token.
func FindReferences(p *project.Project, shapeID model.ShapeID) []ReferenceLocation {
	m, _ := p.Model()
	if m == nil {
		return nil
	}
	shape, ok := m.GetShape(shapeID)
	if !ok {
		return nil
	}

	var out []ReferenceLocation
	for _, path := range p.Files() {
		f, ok := p.File(path)
		if !ok {
			continue
		}
		doc := f.Document()
		res := f.Parsed()
		fc := FileContextOf(res, m)

		if shape.Source.Filename == path {
			out = append(out, definingTokenLocations(path, res, doc, shape)...)
		}
		out = append(out, fileReferences(path, res, doc, fc, m, shape.ID)...)
	}
	return out
}

// FindReferencesAt resolves the identifier under idx to a shape and
// returns every reference to it. A position that doesn't name a
// resolvable shape fails the request, so the dispatcher can answer
// with an RPC error rather than an empty list.
func FindReferencesAt(p *project.Project, path string, idx int) ([]ReferenceLocation, error) {
	shape, _, ok := resolveRenameTarget(p, path, idx)
	if !ok {
		return nil, serrors.NewRequestFailed("references", "no shape reference at this position", nil)
	}
	return FindReferences(p, shape.ID), nil
}

func definingTokenLocations(path string, res *syntax.ParseResult, doc *docmodel.Document, shape *model.Shape) []ReferenceLocation {
	var out []ReferenceLocation
	for _, st := range res.Statements {
		if sd, ok := st.(*syntax.ShapeDefStatement); ok && sd.ShapeName.Text == shape.ID.Name {
			out = append(out, loc(path, doc, sd.ShapeName.Range))
		}
	}
	return out
}

func fileReferences(path string, res *syntax.ParseResult, doc *docmodel.Document, fc search.FileContext, m *model.Model, target model.ShapeID) []ReferenceLocation {
	var out []ReferenceLocation
	add := func(text string, r syntax.ByteRange, resolve bool) {
		if resolve {
			if id, ok := search.ResolveToken(text, fc, m); !ok || id != target {
				return
			}
		} else if id, ok := model.ParseShapeID(text); !ok || id != target {
			return
		}
		out = append(out, loc(path, doc, r))
	}

	for _, st := range res.Statements {
		switch s := st.(type) {
		case *syntax.TraitApplicationStatement:
			add(s.ID.Text, s.ID.Range, true)
			collectNodeStringRefs(path, s.Value, fc, m, target, doc, &out)
		case *syntax.MetadataStatement:
			collectNodeStringRefs(path, s.Value, fc, m, target, doc, &out)
		case *syntax.MemberDefStatement:
			if s.Target != nil {
				add(s.Target.Text, s.Target.Range, true)
			}
		case *syntax.UseStatement:
			add(s.Target.Text, s.Target.Range, false)
		case *syntax.ApplyStatement:
			add(s.Target.Text, s.Target.Range, true)
		case *syntax.ForResourceStatement:
			add(s.Resource.Text, s.Resource.Range, true)
		case *syntax.MixinsStatement:
			for _, n := range s.Names {
				add(n.Text, n.Range, true)
			}
		}
	}
	return out
}

// collectNodeStringRefs approximates "node values resolved through
// ShapeSearch to the shape" (idRef-typed trait values, service rename
// maps) by resolving every string leaf in n as an identifier and keeping
// the ones that land on target. It doesn't consult the smithy.api#idRef
// trait on the field's own shape, so it can surface the occasional
// coincidental string match; callers treat references as a navigation
// aid, not a deletion-safety guarantee.
func collectNodeStringRefs(path string, n *syntax.Node, fc search.FileContext, m *model.Model, target model.ShapeID, doc *docmodel.Document, out *[]ReferenceLocation) {
	if n == nil {
		return
	}
	switch n.Kind {
	case syntax.NodeString:
		if id, ok := search.ResolveToken(n.Value, fc, m); ok && id == target {
			*out = append(*out, loc(path, doc, n.Range))
		}
	case syntax.NodeObject:
		for _, kv := range n.Kvps {
			collectNodeStringRefs(path, kv.Value, fc, m, target, doc, out)
		}
	case syntax.NodeArray:
		for _, el := range n.Elements {
			collectNodeStringRefs(path, el, fc, m, target, doc, out)
		}
	}
}

func loc(path string, doc *docmodel.Document, r syntax.ByteRange) ReferenceLocation {
	rr, _ := doc.RangeBetween(r.Start, r.End)
	return ReferenceLocation{Path: path, Range: rr}
}
