package features

import (
	"sort"
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/builtins"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/position"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/search"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// CompletionEdit is one text edit a completion item carries, either its
// primary replacement or an "additional" edit (an import line, a
// required-member scaffold).
type CompletionEdit struct {
	Range   docmodel.Range
	NewText string
}

// CompletionItem is one rendered candidate, ready for the dispatcher to
// serialize into an LSP CompletionItem.
type CompletionItem struct {
	Label         string
	Detail        string
	Documentation string
	Edit          CompletionEdit
	Additional    []CompletionEdit
}

// preludeID is a small convenience for building smithy.api# trait ids.
func preludeID(name string) model.ShapeID { return model.ShapeID{Namespace: preludeNamespace, Name: name} }

const preludeNamespace = "smithy.api"

// ComputeCompletion classifies the cursor, selects the
// candidate set the position implies, then filter by the typed prefix
// and the caller-supplied exclusion set (candidates already present in
// the same collection, e.g. already-imported namespaces).
func ComputeCompletion(p *project.Project, path string, idx int, exclude map[string]bool) []CompletionItem {
	f, ok := p.File(path)
	if !ok {
		return nil
	}
	doc := f.Document()
	res := f.Parsed()
	pos := position.Classify(res, idx)
	m, _ := p.Model()
	fc := FileContextOf(res, m)
	b := builtins.Get()

	prefix, prefixStart, prefixEnd := currentToken(doc, idx)
	// A control-key token includes its leading '$', but the candidate
	// labels don't; keep the dollar in place and replace only the key.
	if pos.Kind == position.KindControlKey && strings.HasPrefix(prefix, "$") {
		prefix = prefix[1:]
		prefixStart++
	}
	replaceRange, _ := doc.RangeBetween(prefixStart, prefixEnd)
	lowerPrefix := strings.ToLower(prefix)

	if exclude == nil {
		exclude = map[string]bool{}
	}

	var items []CompletionItem
	switch pos.Kind {
	case position.KindControlKey:
		for _, kd := range b.Controls {
			items = append(items, literalItem(kd.Key, kd.Doc, replaceRange))
		}
	case position.KindMetadataKey:
		for _, kd := range b.Metadata {
			items = append(items, literalItem(kd.Key, kd.Doc, replaceRange))
		}
	case position.KindStatementKeyword:
		for _, kw := range statementKeywords {
			items = append(items, literalItem(kw, "", replaceRange))
		}
	case position.KindNamespace:
		for _, ns := range ProjectNamespaces(p) {
			items = append(items, literalItem(ns, "", replaceRange))
		}
	case position.KindMetadataValue:
		items = metadataValueCandidates(pos, replaceRange)
	case position.KindNodeMemberTarget:
		items = nodeMemberTargetCandidates(pos, replaceRange)
	case position.KindTraitValue:
		items = traitValueCandidates(pos, fc, m, replaceRange)
	case position.KindElidedMember:
		items = elidedMemberCandidates(pos, fc, m, replaceRange)
	case position.KindMemberName:
		items = memberNameCandidates(pos, fc, m, b, replaceRange)
	case position.KindUseTarget, position.KindTraitID, position.KindMixin,
		position.KindForResource, position.KindMemberTarget, position.KindApplyTarget:
		items = shapeCandidates(pos, fc, m, b, res, doc, replaceRange)
	}

	return filterItems(items, lowerPrefix, exclude)
}

// statementKeywords is the fixed keyword list offered at
// StatementKeyword positions (shape types plus the block-level
// directives that can start a new statement).
var statementKeywords = []string{
	"structure", "union", "list", "map", "set", "enum", "intEnum", "service",
	"resource", "operation", "string", "blob", "boolean", "byte", "short",
	"integer", "long", "float", "double", "bigInteger", "bigDecimal",
	"timestamp", "document", "apply", "use", "metadata", "namespace",
}

func literalItem(label, doc string, r docmodel.Range) CompletionItem {
	return CompletionItem{Label: label, Documentation: doc, Edit: CompletionEdit{Range: r, NewText: label}}
}

// metadataValueCandidates walks the metadata value with NodeSearch
// against the Builtins model and, when the cursor sits on an object or
// one of its keys, offers the describing shape's member names.
func metadataValueCandidates(pos position.IdlPosition, r docmodel.Range) []CompletionItem {
	stmt, ok := pos.Statement.(*syntax.MetadataStatement)
	if !ok {
		return nil
	}
	res := search.SearchMetadataValue(stmt.Key.Text, pos.Value, pos.Index)
	return memberItemsFor(res, r)
}

// nodeMemberTargetCandidates is the same walk for `name: node` members
// inside service/resource/operation blocks, whose value structure the
// Builtins model describes per shape type.
func nodeMemberTargetCandidates(pos position.IdlPosition, r docmodel.Range) []CompletionItem {
	stmt, ok := pos.Statement.(*syntax.NodeMemberDefStatement)
	if !ok || pos.View == nil {
		return nil
	}
	sd := pos.View.NearestShapeDefBefore()
	if sd == nil {
		return nil
	}
	res := search.SearchNodeMemberTarget(sd.ShapeType.Text, stmt.Name.Text, pos.Value, pos.Index)
	return memberItemsFor(res, r)
}

// memberItemsFor renders a node-search result's object members as
// completion candidates; other result kinds offer nothing.
func memberItemsFor(res search.Result, r docmodel.Range) []CompletionItem {
	switch res.Kind {
	case search.ObjectKey, search.ObjectShape:
	default:
		return nil
	}
	if res.Shape == nil {
		return nil
	}
	var out []CompletionItem
	for _, mem := range res.Shape.Members {
		out = append(out, CompletionItem{
			Label:  mem.Name,
			Detail: mem.Target.String(),
			Edit:   CompletionEdit{Range: r, NewText: mem.Name},
		})
	}
	return out
}

// traitValueCandidates dispatches a TraitValue position to SearchTraitValue
// and, when the result selects an object shape, offers its member names.
func traitValueCandidates(pos position.IdlPosition, fc search.FileContext, m *model.Model, r docmodel.Range) []CompletionItem {
	if m == nil {
		return nil
	}
	stmt, ok := pos.Statement.(*syntax.TraitApplicationStatement)
	if !ok {
		return nil
	}
	traitID, ok := search.ResolveToken(stmt.ID.Text, fc, m)
	if !ok {
		return nil
	}
	owner, _ := search.OwnerShapeFor(pos, fc, m)
	result := search.SearchTraitValue(pos.Value, pos.Index, traitID, owner, fc, m)
	if result.Kind != search.ObjectShape {
		return nil
	}
	var out []CompletionItem
	for _, mem := range result.Shape.Members {
		out = append(out, literalItem(mem.Name, "", r))
	}
	return out
}

// elidedMemberCandidates derives elidable members from the nearest
// ForResource and Mixins statements, minus already-declared members.
// Both "name" and "$name" forms are considered.
func elidedMemberCandidates(pos position.IdlPosition, fc search.FileContext, m *model.Model, r docmodel.Range) []CompletionItem {
	if pos.View == nil || m == nil {
		return nil
	}
	declared := toSet(pos.View.OtherMemberNames())
	fr, mx := pos.View.NearestForResourceAndMixinsBefore()
	var out []CompletionItem
	add := func(name string) {
		if declared[name] {
			return
		}
		declared[name] = true
		out = append(out, literalItem("$"+name, "", r))
	}
	if fr != nil {
		if id, ok := search.ResolveToken(fr.Resource.Text, fc, m); ok {
			if res, ok := m.GetShape(id); ok {
				for _, mem := range res.Members {
					add(mem.Name)
				}
			}
		}
	}
	if mx != nil {
		for _, n := range mx.Names {
			id, ok := search.ResolveToken(n.Text, fc, m)
			if !ok {
				continue
			}
			shape, ok := m.GetShape(id)
			if !ok {
				continue
			}
			for _, mem := range shape.Members {
				add(mem.Name)
			}
		}
	}
	return out
}

// memberNameCandidates offers the builtin structural members of the
// enclosing shape type plus elidable members, minus already declared.
func memberNameCandidates(pos position.IdlPosition, fc search.FileContext, m *model.Model, b *builtins.Model, r docmodel.Range) []CompletionItem {
	if pos.View == nil {
		return nil
	}
	declared := toSet(pos.View.OtherMemberNames())
	var out []CompletionItem
	if sd := pos.View.NearestShapeDefBefore(); sd != nil {
		for _, mem := range b.StructuralMembers(sd.ShapeType.Text) {
			if declared[mem.Name] {
				continue
			}
			out = append(out, CompletionItem{
				Label:         mem.Name,
				Detail:        mem.Target,
				Documentation: mem.Doc,
				Edit:          CompletionEdit{Range: r, NewText: mem.Name},
			})
		}
	}
	out = append(out, elidedMemberCandidates(pos, fc, m, r)...)
	return out
}

// shapeCandidates implements the Shapes(selector) candidate kind for
// UseTarget/TraitID/Mixin/ForResource/MemberTarget/ApplyTarget positions.
// TraitID positions additionally draw from the Builtins trait table, since
// prelude traits aren't shapes in the assembled user model.
func shapeCandidates(pos position.IdlPosition, fc search.FileContext, m *model.Model, b *builtins.Model, res *syntax.ParseResult, doc *docmodel.Document, r docmodel.Range) []CompletionItem {
	var out []CompletionItem
	if pos.Kind == position.KindTraitID {
		out = append(out, builtinTraitCandidates(b, r)...)
	}
	if m == nil {
		return out
	}
	for _, shape := range m.Shapes() {
		if !shapeMatchesSelector(pos.Kind, shape) {
			continue
		}
		// Hide private shapes defined in other namespaces.
		if shape.HasTrait(preludeID("private")) && shape.ID.Namespace != fc.Namespace {
			continue
		}
		item := CompletionItem{Label: shape.ID.Name, Detail: shape.ID.String(), Edit: CompletionEdit{Range: r, NewText: shape.ID.Name}}
		if shape.ID.Namespace != fc.Namespace && shape.ID.Namespace != preludeNamespace {
			if _, imported := fc.Imports[shape.ID.Name]; !imported {
				item.Additional = append(item.Additional, importEdit(res, doc, shape.ID))
			}
		}
		out = append(out, item)
		if pos.Kind == position.KindTraitID {
			if fill, ok := requiredMembersFill(shape, m); ok {
				out = append(out, CompletionItem{
					Label:  shape.ID.Name + "(...)",
					Detail: "fill required members",
					Edit:   CompletionEdit{Range: r, NewText: shape.ID.Name + fill},
				})
			}
		}
	}
	return out
}

// builtinTraitCandidates renders the prelude traits Builtins documents,
// each with a plain item and, when the trait has required members, a
// second "fill required members" item.
func builtinTraitCandidates(b *builtins.Model, r docmodel.Range) []CompletionItem {
	names := make([]string, 0, len(b.Traits))
	for name := range b.Traits {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []CompletionItem
	for _, name := range names {
		td := b.Traits[name]
		out = append(out, CompletionItem{
			Label:         td.ID,
			Detail:        td.FullID,
			Documentation: td.Doc,
			Edit:          CompletionEdit{Range: r, NewText: td.ID},
		})
		if len(td.Required) == 0 {
			continue
		}
		parts := make([]string, 0, len(td.Required))
		for _, mem := range td.Required {
			parts = append(parts, mem.Name+": "+builtinDefaultValue(mem.Target))
		}
		out = append(out, CompletionItem{
			Label:  td.ID + "(...)",
			Detail: td.FullID,
			Edit:   CompletionEdit{Range: r, NewText: td.ID + "(" + strings.Join(parts, ", ") + ")"},
		})
	}
	return out
}

func builtinDefaultValue(target string) string {
	switch target {
	case "string":
		return `""`
	case "boolean":
		return "false"
	case "integer", "long", "short", "byte":
		return "0"
	case "list":
		return "[]"
	default:
		return "{}"
	}
}

func shapeMatchesSelector(kind position.Kind, shape *model.Shape) bool {
	switch kind {
	case position.KindTraitID:
		return shape.HasTrait(preludeID("trait"))
	case position.KindMixin:
		return shape.HasTrait(preludeID("mixin"))
	case position.KindForResource:
		return shape.Type == "resource"
	case position.KindApplyTarget, position.KindUseTarget, position.KindMemberTarget:
		return true
	default:
		return false
	}
}

// importEdit builds the "add a use statement" additional edit: appended
// after the existing imports, or after the namespace statement if none.
func importEdit(res *syntax.ParseResult, doc *docmodel.Document, id model.ShapeID) CompletionEdit {
	line := 0
	if res.Namespace != nil {
		line = doc.PositionOf(res.Namespace.Range().End).Line + 1
	}
	if len(res.Imports) > 0 {
		last := res.Imports[len(res.Imports)-1]
		line = doc.PositionOf(last.Range.End).Line + 1
	}
	at := docmodel.Position{Line: line, Column: 0}
	return CompletionEdit{
		Range:   docmodel.Range{Start: at, End: at},
		NewText: "use " + id.Namespace + "#" + id.Name + "\n",
	}
}

// requiredMembersFill computes the "{m1: default, m2: default}" scaffold
// for a trait-definition shape's required members. Outer braces
// are stripped for structure traits that already read as `@Trait{...}`
// via the caller's own parens. Recursion is bounded to guard the open
// question about recursive trait structures looping forever.
func requiredMembersFill(shape *model.Shape, m *model.Model) (string, bool) {
	if len(shape.Members) == 0 {
		return "", false
	}
	seen := map[model.ShapeID]bool{}
	text, ok := fillMembers(shape, m, seen, 0)
	if !ok {
		return "", false
	}
	// The outer braces come off for structure traits: the trait's own
	// parens already delimit the value, `@t(m: v)` not `@t({m: v})`.
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		text = text[1 : len(text)-1]
	}
	return "(" + text + ")", true
}

const maxFillDepth = 8

func fillMembers(shape *model.Shape, m *model.Model, seen map[model.ShapeID]bool, depth int) (string, bool) {
	if depth > maxFillDepth || seen[shape.ID] {
		return "", false
	}
	seen[shape.ID] = true
	defer delete(seen, shape.ID)

	var required []model.Member
	for _, mem := range shape.Members {
		if mem.HasRequiredTrait() {
			required = append(required, mem)
		}
	}
	if len(required) == 0 {
		return "{}", true
	}
	var parts []string
	for _, mem := range required {
		target, ok := m.GetShape(mem.Target)
		if !ok {
			parts = append(parts, mem.Name+": null")
			continue
		}
		parts = append(parts, mem.Name+": "+defaultValueFor(target, m, seen, depth))
	}
	return "{" + strings.Join(parts, ", ") + "}", true
}

func defaultValueFor(shape *model.Shape, m *model.Model, seen map[model.ShapeID]bool, depth int) string {
	switch shape.Type {
	case "string", "enum":
		return `""`
	case "boolean":
		return "false"
	case "byte", "short", "integer", "long", "bigInteger", "intEnum":
		return "0"
	case "float", "double", "bigDecimal":
		return "0.0"
	case "list", "set":
		return "[]"
	case "map":
		return "{}"
	case "structure":
		if text, ok := fillMembers(shape, m, seen, depth+1); ok {
			return text
		}
		return "{}"
	default:
		return "null"
	}
}

// currentToken finds the identifier (or empty) token under idx, the way
// Document.CopyDocumentID does, but always returns a usable [start,end)
// range even when the cursor sits on blank space (an empty insertion
// point for a brand-new identifier).
func currentToken(doc *docmodel.Document, idx int) (text string, start, end int) {
	if t, s, e, ok := doc.CopyDocumentID(idx); ok {
		return t, s, e
	}
	return "", idx, idx
}

// filterItems applies the lowercased-prefix match and exclusion-set
// rules every candidate collection shares. When the
// strict prefix match leaves nothing, the fuzzy fallback gets a chance
// before the caller gives up entirely.
func filterItems(items []CompletionItem, lowerPrefix string, exclude map[string]bool) []CompletionItem {
	matchPrefix := strings.TrimPrefix(lowerPrefix, "$")
	var out []CompletionItem
	for _, it := range items {
		key := it.Label
		if exclude[key] {
			continue
		}
		if matchPrefix != "" && !strings.HasPrefix(strings.ToLower(matchKey(it.Label)), matchPrefix) {
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 && matchPrefix != "" {
		return fuzzyFallback(items, matchPrefix, exclude)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// matchKey strips a leading '$' so elided-member candidates match against
// the bare prefix the user typed after (or without) the dollar sign.
func matchKey(label string) string {
	return strings.TrimPrefix(label, "$")
}

func toSet(ss []string) map[string]bool {
	out := make(map[string]bool, len(ss))
	for _, s := range ss {
		out[s] = true
	}
	return out
}
