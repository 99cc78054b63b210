// Package features implements the editor-facing request handlers:
// Completion, Hover, Diagnostics, DocumentSymbols, FoldingRange,
// InlayHint, References, and Rename. Each takes a parsed
// file, its owning Project, and (where relevant) a cursor position, and
// produces the data an LSP dispatcher serializes into a response.
package features

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/search"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// FileContextOf builds the search.FileContext a file's namespace/use
// imports imply. Each use target is parsed into a ShapeID as written; m
// is not consulted, so an import naming a shape the model lacks is kept.
func FileContextOf(res *syntax.ParseResult, m *model.Model) search.FileContext {
	fc := search.FileContext{Imports: map[string]model.ShapeID{}}
	if res.Namespace != nil {
		fc.Namespace = res.Namespace.Name.Text
	}
	for _, use := range res.Imports {
		id, ok := model.ParseShapeID(use.Text)
		if !ok {
			continue
		}
		fc.Imports[id.Name] = id
	}
	return fc
}

// ProjectNamespaces returns every distinct namespace declared across the
// project's loaded files, used by Completion's Namespace candidate kind.
func ProjectNamespaces(p *project.Project) []string {
	seen := map[string]bool{}
	var out []string
	for _, path := range p.Files() {
		f, ok := p.File(path)
		if !ok {
			continue
		}
		res := f.Parsed()
		if res.Namespace == nil {
			continue
		}
		ns := res.Namespace.Name.Text
		if !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	return out
}
