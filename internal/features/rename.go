package features

import (
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	serrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/position"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/search"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// RenameEdit is one file's worth of text edits produced by a rename.
type RenameEdit struct {
	Path  string
	Edits []CompletionEdit
}

// PrepareRename reports whether idx in path names a renameable shape, and
// the range of the identifier the editor should let the user overtype.
func PrepareRename(p *project.Project, path string, idx int) (docmodel.Range, bool) {
	_, r, ok := resolveRenameTarget(p, path, idx)
	return r, ok
}

// ComputeRename resolves the identifier under
// the cursor to a shape, rejects jar-sourced shapes outright, then for
// every file referencing the shape either narrows each reference to
// newName or, if newName collides with an existing import or sibling
// shape in that file, expands every reference to its fully-qualified
// form and drops the offending `use` line.
func ComputeRename(p *project.Project, path string, idx int, newName string) ([]RenameEdit, error) {
	shape, _, ok := resolveRenameTarget(p, path, idx)
	if !ok {
		return nil, serrors.NewRequestFailed("rename", "no renameable shape at this position", nil)
	}
	if isJarSource(shape) {
		return nil, serrors.NewRequestFailed("rename", "shape is defined in a dependency and cannot be renamed", nil)
	}

	m, _ := p.Model()
	newID := model.ShapeID{Namespace: shape.ID.Namespace, Name: newName}
	refs := FindReferences(p, shape.ID)

	byFile := map[string][]ReferenceLocation{}
	var order []string
	for _, r := range refs {
		if _, seen := byFile[r.Path]; !seen {
			order = append(order, r.Path)
		}
		byFile[r.Path] = append(byFile[r.Path], r)
	}

	var out []RenameEdit
	for _, filePath := range order {
		f, ok := p.File(filePath)
		if !ok {
			continue
		}
		doc := f.Document()
		fres := f.Parsed()
		fc := FileContextOf(fres, m)

		edits := renameEditsForFile(filePath, doc, fres, fc, m, newID, byFile[filePath])
		out = append(out, RenameEdit{Path: filePath, Edits: edits})
	}
	return out, nil
}

func resolveRenameTarget(p *project.Project, path string, idx int) (*model.Shape, docmodel.Range, bool) {
	f, ok := p.File(path)
	if !ok {
		return nil, docmodel.Range{}, false
	}
	doc := f.Document()
	res := f.Parsed()
	_, start, end, ok := doc.CopyDocumentID(idx)
	if !ok {
		return nil, docmodel.Range{}, false
	}
	r, _ := doc.RangeBetween(start, end)

	pos := position.Classify(res, idx)
	m, _ := p.Model()
	if m == nil {
		return nil, docmodel.Range{}, false
	}
	fc := FileContextOf(res, m)
	shape, ok := search.GetShapeReference(pos, fc, m)
	if !ok {
		return nil, docmodel.Range{}, false
	}
	return shape, r, true
}

// isJarSource reports whether shape was defined from a dependency archive
// rather than a project source file; such shapes cannot be renamed.
func isJarSource(shape *model.Shape) bool {
	return strings.Contains(shape.Source.Filename, ".jar")
}

func renameEditsForFile(path string, doc *docmodel.Document, res *syntax.ParseResult, fc search.FileContext, m *model.Model, newID model.ShapeID, refs []ReferenceLocation) []CompletionEdit {
	conflict := importCollides(fc, newID) || siblingShapeCollides(m, fc.Namespace, newID)

	var edits []CompletionEdit
	if !conflict {
		for _, r := range refs {
			edits = append(edits, CompletionEdit{Range: r.Range, NewText: newID.Name})
		}
		return edits
	}

	for _, r := range refs {
		edits = append(edits, CompletionEdit{Range: r.Range, NewText: newID.String()})
	}
	useRange, hasUse := findOffendingUse(doc, res, newID.Name)
	if hasUse {
		edits = append(edits, CompletionEdit{Range: useRange, NewText: ""})
	}
	// The shape the removed import named keeps its uses working by
	// expanding every bare reference to it to the fully-qualified id.
	if existing, ok := fc.Imports[newID.Name]; ok && existing != newID {
		for _, r := range fileReferences(path, res, doc, fc, m, existing) {
			if hasUse && rangeInside(r.Range, useRange) {
				continue
			}
			edits = append(edits, CompletionEdit{Range: r.Range, NewText: existing.String()})
		}
	}
	return edits
}

// rangeInside reports whether inner lies entirely within outer.
func rangeInside(inner, outer docmodel.Range) bool {
	after := func(a, b docmodel.Position) bool {
		return a.Line > b.Line || (a.Line == b.Line && a.Column >= b.Column)
	}
	return after(inner.Start, outer.Start) && after(outer.End, inner.End)
}

// importCollides reports whether the file already imports a different
// shape under newID's simple name.
func importCollides(fc search.FileContext, newID model.ShapeID) bool {
	existing, ok := fc.Imports[newID.Name]
	return ok && existing != newID
}

// siblingShapeCollides reports whether namespace already has a distinct
// shape with newID's simple name, which would shadow the rename target
// once its references are narrowed to the bare name.
func siblingShapeCollides(m *model.Model, namespace string, newID model.ShapeID) bool {
	if m == nil {
		return false
	}
	candidate := model.ShapeID{Namespace: namespace, Name: newID.Name}
	if candidate == newID {
		return false
	}
	_, ok := m.GetShape(candidate)
	return ok
}

// findOffendingUse locates the `use` statement importing a shape whose
// simple name equals name, so it can be removed once every reference to
// it in this file has been expanded to a fully-qualified id.
func findOffendingUse(doc *docmodel.Document, res *syntax.ParseResult, name string) (docmodel.Range, bool) {
	for _, st := range res.Statements {
		us, ok := st.(*syntax.UseStatement)
		if !ok {
			continue
		}
		id, ok := model.ParseShapeID(us.Target.Text)
		if !ok || id.Name != name {
			continue
		}
		r, ok := doc.RangeBetween(us.Range().Start, us.Range().End)
		if !ok {
			continue
		}
		return r, true
	}
	return docmodel.Range{}, false
}
