// Package search implements ShapeSearch and NodeSearch: the
// rules for resolving an identifier token under the cursor to a shape,
// and for walking a node value down to the shape that describes a given
// position inside it.
package search

import (
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/builtins"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/cursor"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/position"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

const preludeNamespace = "smithy.api"

// FileContext carries the per-file facts ShapeSearch needs beyond the
// model itself: the declared namespace and the use-import table.
type FileContext struct {
	Namespace string
	// Imports maps a simple name (as written after `use`) to the shape it
	// names, e.g. "Widget" -> smithy.example#Widget.
	Imports map[string]model.ShapeID
}

// ResolveToken runs the three-stage lookup against token, which
// may be a bare name, a "Container$member" relative id, or an absolute
// "namespace#Name" id. It never errors: when the token names no shape in
// m, ok is false; the id is then the one an absolute or imported token
// named, and ShapeID{} otherwise.
func ResolveToken(token string, fc FileContext, m *model.Model) (model.ShapeID, bool) {
	if token == "" {
		return model.ShapeID{}, false
	}

	// Stage 1: absolute id.
	if id, ok := model.ParseShapeID(token); ok {
		if _, found := m.GetShape(id); found {
			return id, true
		}
		return id, false
	}

	container, member := token, ""
	if dollar := strings.IndexByte(token, '$'); dollar >= 0 {
		container, member = token[:dollar], token[dollar+1:]
	}

	// Stage 2: use imports, including relative member ids.
	if target, ok := fc.Imports[container]; ok {
		if member != "" {
			target = target.WithMember(member)
		}
		if _, found := m.GetShape(target); found {
			return target, true
		}
		return target, false
	}

	// Stage 3: current namespace, then the prelude.
	candidate := model.ShapeID{Namespace: fc.Namespace, Name: container, Member: member}
	if _, found := m.GetShape(candidate); found {
		return candidate, true
	}
	prelude := model.ShapeID{Namespace: preludeNamespace, Name: container, Member: member}
	if _, found := m.GetShape(prelude); found {
		return prelude, true
	}
	return model.ShapeID{}, false
}

// FindShapeDefinition resolves the defining shape for the cursor position:
// trait ids, member targets, mixins, use targets, apply targets, and
// elided-member parents all funnel through here.
func FindShapeDefinition(pos position.IdlPosition, fc FileContext, m *model.Model) (*model.Shape, bool) {
	switch pos.Kind {
	case position.KindTraitID, position.KindUseTarget, position.KindMixin,
		position.KindForResource, position.KindMemberTarget, position.KindApplyTarget:
		id, ok := ResolveToken(pos.Token.Text, fc, m)
		if !ok {
			return nil, false
		}
		return m.GetShape(id)

	case position.KindElidedMember:
		return FindElidedMemberParent(pos, fc, m)

	case position.KindShapeDef:
		id := model.ShapeID{Namespace: fc.Namespace, Name: pos.Token.Text}
		return m.GetShape(id)

	default:
		return nil, false
	}
}

// GetShapeReference is FindShapeDefinition narrowed for References/Rename:
// it never resolves to a member shape, and trait-value handling is
// limited to id-ref-typed values and service-rename keys (handled by the
// caller via NodeSearch before falling back here for identifier targets).
func GetShapeReference(pos position.IdlPosition, fc FileContext, m *model.Model) (*model.Shape, bool) {
	s, ok := FindShapeDefinition(pos, fc, m)
	if !ok {
		return nil, false
	}
	if s.ID.HasMember() {
		return nil, false
	}
	return s, true
}

// FindElidedMemberParent walks the nearest ForResource and Mixins
// statements preceding the cursor to determine which source shape
// contributes the elided member named at the cursor.
func FindElidedMemberParent(pos position.IdlPosition, fc FileContext, m *model.Model) (*model.Shape, bool) {
	if pos.View == nil {
		return nil, false
	}
	fr, mx := pos.View.NearestForResourceAndMixinsBefore()
	name := pos.Token.Text

	if fr != nil {
		if resID, ok := ResolveToken(fr.Resource.Text, fc, m); ok {
			if res, found := m.GetShape(resID); found {
				if _, has := res.MemberByName(name); has {
					return res, true
				}
			}
		}
	}
	if mx != nil {
		for _, n := range mx.Names {
			id, ok := ResolveToken(n.Text, fc, m)
			if !ok {
				continue
			}
			s, found := m.GetShape(id)
			if !found {
				continue
			}
			if _, has := s.MemberByName(name); has {
				return s, true
			}
		}
	}
	return nil, false
}

// startingShape resolves the shape a trait-value/metadata-value/node-
// member-target search should begin traversal from.
func startingShape(traitID model.ShapeID, m *model.Model) (*model.Shape, bool) {
	return m.GetShape(traitID)
}

// OwnerShapeFor resolves the shape a trait application decorates, used to
// seed OperationInput/OperationOutput dynamic-member-target resolution.
// Per the IDL grammar a trait application line precedes the shape
// definition (or member definition) it annotates, so the nearest
// following ShapeDef is the owner for the common top-level case (e.g.
// `@examples([...])` immediately above `operation Foo { ... }`).
func OwnerShapeFor(pos position.IdlPosition, fc FileContext, m *model.Model) (*model.Shape, bool) {
	if pos.View == nil {
		return nil, false
	}
	if sd := pos.View.NearestShapeDefAfter(); sd != nil {
		id := model.ShapeID{Namespace: fc.Namespace, Name: sd.ShapeName.Text}
		return m.GetShape(id)
	}
	return nil, false
}

// SearchTraitValue builds a NodeCursor from the trait's value node and the
// document index, then runs NodeSearch starting at the trait definition
// shape in the user model (so e.g. @http's "method"/"uri" keys resolve
// against the http trait's own shape structure). owner is the shape the
// trait decorates (see OwnerShapeFor), consulted only when the walk
// crosses a registered DynamicMemberTarget such as
// smithy.api#examples' Example$input/$output.
func SearchTraitValue(value *syntax.Node, idx int, traitID model.ShapeID, owner *model.Shape, fc FileContext, m *model.Model) Result {
	shape, ok := startingShape(traitID, m)
	if !ok {
		return Result{Kind: None}
	}
	c := cursor.BuildNodeCursor(value, idx)
	return runNodeSearch(c, shape, owner, fc, m)
}

// SearchMetadataValue is SearchTraitValue's counterpart for metadata
// values, which resolve against the embedded Builtins model instead of
// the user model; metadata keys aren't user-defined shapes. key is the
// metadata key being assigned (it selects the entry shape traversal
// starts from), and the walk honors the same dynamic-target registry as
// trait values, so `validators` entries route `configuration` through
// the validator-name mapping.
func SearchMetadataValue(key string, value *syntax.Node, idx int) Result {
	bm := builtins.SemanticModel()
	id, ok := builtins.MetadataValueShape(key)
	if !ok {
		return Result{Kind: None}
	}
	shape, ok := bm.GetShape(id)
	if !ok {
		return Result{Kind: None}
	}
	c := cursor.BuildNodeCursor(value, idx)
	return runNodeSearch(c, shape, nil, FileContext{}, bm)
}

// SearchNodeMemberTarget is the node-member-def analogue of
// SearchMetadataValue: the value of a `name: node` member inside a
// service/resource/operation block resolves against the Builtins
// description of that structural member.
func SearchNodeMemberTarget(shapeType, member string, value *syntax.Node, idx int) Result {
	bm := builtins.SemanticModel()
	id, ok := builtins.NodeMemberShape(shapeType, member)
	if !ok {
		return Result{Kind: None}
	}
	shape, ok := bm.GetShape(id)
	if !ok {
		return Result{Kind: None}
	}
	c := cursor.BuildNodeCursor(value, idx)
	return runNodeSearch(c, shape, nil, FileContext{}, bm)
}
