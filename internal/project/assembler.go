package project

import (
	"sort"
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// Assembler is the facade over the external model assembler: it ingests
// file text keyed by path and returns a validated semantic model plus
// events. Project never assumes anything
// about how it resolves traits internally, only this contract.
type Assembler interface {
	// PutFile stages path's current text for the next Assemble call.
	PutFile(path, text string)
	// RemoveFile unstages path so the next Assemble call forgets it.
	RemoveFile(path string)
	// Assemble re-derives a Model from every currently staged file.
	Assemble() (*model.Model, []ValidationEvent, error)
}

// AssemblerFactory builds a fresh Assembler instance. Every Project,
// detached ones included, gets its own.
type AssemblerFactory func() Assembler

// localAssembler is the default Assembler: a from-scratch structural
// assembler that reparses every staged file's IDL text and resolves
// shape/member/trait references against the shapes declared across the
// staged set; a name neither imported nor declared in the file's
// namespace resolves to smithy.api without checking that the prelude
// has it. It has none of the real assembler's selector or
// constraint-validation logic; it only builds the Shape/Member/Trait
// graph the rest of this server depends on, and the only
// ValidationEvent it reports is ShapeConflict for a duplicate shape id.
// Rebuilding fresh from every staged
// file keeps its output a pure function of the staged set.
type localAssembler struct {
	files map[string]string
}

// NewLocalAssembler constructs the default Assembler.
func NewLocalAssembler() Assembler {
	return &localAssembler{files: map[string]string{}}
}

func (a *localAssembler) PutFile(path, text string) { a.files[path] = text }
func (a *localAssembler) RemoveFile(path string)    { delete(a.files, path) }

// fileCtx is the per-file resolution context assembly carries around:
// the declared namespace, the use-import table, and the parsed document.
type fileCtx struct {
	namespace string
	imports   map[string]model.ShapeID
	doc       *docmodel.Document
	res       *syntax.ParseResult
}

// pendingApply is one `apply Target @trait` application, deferred until
// every file's shape definitions are staged so applications never
// depend on file ordering.
type pendingApply struct {
	target model.ShapeID
	trait  model.Trait
}

func (a *localAssembler) Assemble() (*model.Model, []ValidationEvent, error) {
	b := model.NewBuilder()
	var events []ValidationEvent

	// Stable iteration order keeps Assemble's output (and therefore the
	// rebuild index) deterministic across calls with the same file set,
	// which update idempotence depends on.
	paths := make([]string, 0, len(a.files))
	for p := range a.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	ctxByFile := make(map[string]*fileCtx, len(paths))
	// defined collects every shape id declared anywhere in the staged
	// set before any reference is resolved, so an unqualified name only
	// binds to the current namespace when something there actually
	// declares it and falls through to the prelude otherwise.
	defined := map[model.ShapeID]bool{}
	for _, p := range paths {
		text := a.files[p]
		res := syntax.ParseIDL(text)
		fc := &fileCtx{doc: docmodel.Of(text), res: res, imports: map[string]model.ShapeID{}}
		if res.Namespace != nil {
			fc.namespace = res.Namespace.Name.Text
		}
		for _, use := range res.Imports {
			if id, ok := model.ParseShapeID(use.Text); ok {
				fc.imports[id.Name] = id
			}
		}
		ctxByFile[p] = fc

		if fc.namespace != "" {
			for _, st := range res.Statements {
				if sd, ok := st.(*syntax.ShapeDefStatement); ok {
					defined[model.ShapeID{Namespace: fc.namespace, Name: sd.ShapeName.Text}] = true
				}
			}
		}

		for key, val := range metadataOf(res) {
			b.PutMetadata(p, key, val)
		}
	}

	resolve := func(fc *fileCtx, token string) model.ShapeID {
		if id, ok := model.ParseShapeID(token); ok {
			return id
		}
		container, member := token, ""
		if i := strings.IndexByte(token, '$'); i >= 0 {
			container, member = token[:i], token[i+1:]
		}
		if id, ok := fc.imports[container]; ok {
			if member != "" {
				id = id.WithMember(member)
			}
			return id
		}
		if fc.namespace != "" && defined[model.ShapeID{Namespace: fc.namespace, Name: container}] {
			return model.ShapeID{Namespace: fc.namespace, Name: container, Member: member}
		}
		return model.ShapeID{Namespace: "smithy.api", Name: container, Member: member}
	}

	// Two passes: every file's definitions first, then every deferred
	// apply, so a file sorting before the one defining its target still
	// lands its traits.
	var applies []pendingApply
	for _, p := range paths {
		assembleFile(p, ctxByFile[p], resolve, b, &applies, &events)
	}
	for _, pa := range applies {
		b.AddTraitToShape(pa.target, pa.trait)
	}

	return b.Build(), events, nil
}

func metadataOf(res *syntax.ParseResult) map[string]*syntax.Node {
	out := map[string]*syntax.Node{}
	for _, s := range res.Statements {
		if m, ok := s.(*syntax.MetadataStatement); ok {
			out[m.Key.Text] = m.Value
		}
	}
	return out
}

// assembleFile walks one file's flat statement list, building shapes for
// every ShapeDefStatement it finds, accumulating leading trait
// applications onto the shape or member they precede, and resolving
// member targets/mixins/resource bindings via resolve. Apply statements
// are collected into applies rather than staged directly.
func assembleFile(
	path string,
	fc *fileCtx,
	resolve func(fc *fileCtx, token string) model.ShapeID,
	b *model.Builder,
	applies *[]pendingApply,
	events *[]ValidationEvent,
) {
	doc, res := fc.doc, fc.res
	loc := func(r syntax.ByteRange) model.SourceLocation {
		pos := doc.PositionOf(r.Start)
		return model.SourceLocation{Filename: path, Line: pos.Line + 1, Column: pos.Column + 1}
	}
	// mkTrait records, for array values, where each element was authored,
	// which is what lets merged cross-file array traits keep per-fragment
	// provenance in the rebuild index.
	mkTrait := func(id model.ShapeID, value *syntax.Node, r syntax.ByteRange) model.Trait {
		t := model.Trait{ID: id, Value: value, Source: loc(r)}
		if value != nil && value.Kind == syntax.NodeArray {
			for _, el := range value.Elements {
				if el != nil {
					t.ElementSources = append(t.ElementSources, loc(el.Range))
				}
			}
		}
		return t
	}

	stmts := res.Statements
	var pendingTraits []model.Trait

	i := 0
	for i < len(stmts) {
		switch s := stmts[i].(type) {
		case *syntax.TraitApplicationStatement:
			id := resolve(fc, s.ID.Text)
			pendingTraits = append(pendingTraits, mkTrait(id, s.Value, s.Range()))
			i++

		case *syntax.ApplyStatement:
			target := resolve(fc, s.Target.Text)
			i++ // past the ApplyStatement itself

			if i < len(stmts) {
				switch next := stmts[i].(type) {
				case *syntax.TraitApplicationStatement:
					id := resolve(fc, next.ID.Text)
					*applies = append(*applies, pendingApply{target: target, trait: mkTrait(id, next.Value, next.Range())})
					i++
				case *syntax.BlockStatement:
					for j := next.FirstStatementIdx; j != -1 && j <= next.LastStatementIdx && j < len(stmts); j++ {
						if ta, ok := stmts[j].(*syntax.TraitApplicationStatement); ok {
							id := resolve(fc, ta.ID.Text)
							*applies = append(*applies, pendingApply{target: target, trait: mkTrait(id, ta.Value, ta.Range())})
						}
					}
					i = blockEndIdx(next, i)
				}
			}

		case *syntax.ShapeDefStatement:
			id := model.ShapeID{Namespace: fc.namespace, Name: s.ShapeName.Text}
			shape := &model.Shape{ID: id, Type: s.ShapeType.Text, Traits: pendingTraits, Source: loc(s.Range())}
			pendingTraits = nil
			i++

			for i < len(stmts) {
				switch fr := stmts[i].(type) {
				case *syntax.ForResourceStatement:
					shape.Resource = resolve(fc, fr.Resource.Text)
					i++
					continue
				case *syntax.MixinsStatement:
					for _, n := range fr.Names {
						shape.Mixins = append(shape.Mixins, resolve(fc, n.Text))
					}
					i++
					continue
				}
				break
			}

			if i < len(stmts) {
				if block, ok := stmts[i].(*syntax.BlockStatement); ok {
					shape.Members = assembleMembers(block, stmts, resolve, fc, loc)
					i = blockEndIdx(block, i)
				}
			}

			if _, ok := b.GetShape(id); ok {
				*events = append(*events, ValidationEvent{
					Severity: SeverityError, ValidatorID: "ShapeConflict",
					Message: "duplicate shape definition: " + id.String(), ShapeID: id, HasShapeID: true,
					Source: shape.Source,
				})
			}
			b.AddShape(shape)

		default:
			i++
		}
	}
}

// blockEndIdx returns the statement index immediately after block, given
// block's own index blockIdx, skipping over every member statement
// nested inside it so the caller's flat-list walk doesn't revisit them.
func blockEndIdx(block *syntax.BlockStatement, blockIdx int) int {
	if block.LastStatementIdx == -1 {
		return blockIdx + 1
	}
	return block.LastStatementIdx + 1
}

// assembleMembers builds the Member slice for a shape's block body,
// attaching each member's own leading trait applications.
func assembleMembers(
	block *syntax.BlockStatement,
	stmts []syntax.Statement,
	resolve func(fc *fileCtx, token string) model.ShapeID,
	fc *fileCtx,
	loc func(syntax.ByteRange) model.SourceLocation,
) []model.Member {
	if block.FirstStatementIdx == -1 {
		return nil
	}
	var members []model.Member
	var pending []model.Trait

	for j := block.FirstStatementIdx; j <= block.LastStatementIdx && j < len(stmts); j++ {
		switch m := stmts[j].(type) {
		case *syntax.TraitApplicationStatement:
			id := resolve(fc, m.ID.Text)
			pending = append(pending, model.Trait{ID: id, Value: m.Value, Source: loc(m.Range())})

		case *syntax.MemberDefStatement:
			var target model.ShapeID
			if m.Target != nil {
				target = resolve(fc, m.Target.Text)
			}
			members = append(members, model.Member{Name: m.Name.Text, Target: target, Source: loc(m.Range()), Traits: pending})
			pending = nil

		case *syntax.NodeMemberDefStatement:
			members = append(members, model.Member{Name: m.Name.Text, Source: loc(m.Range()), Traits: pending})
			pending = nil

		case *syntax.EnumMemberDefStatement:
			members = append(members, model.Member{Name: m.Name.Text, Source: loc(m.Range()), Traits: pending})
			pending = nil

		case *syntax.ElidedMemberDefStatement:
			members = append(members, model.Member{Name: m.Name.Text, Source: loc(m.Range()), Traits: pending})
			pending = nil

		case *syntax.InlineMemberDefStatement:
			members = append(members, model.Member{Name: m.Name.Text, Source: loc(m.Range()), Traits: pending})
			pending = nil
		}
	}
	return members
}
