package search

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/cursor"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
)

// Kind tags a NodeSearch result variant.
type Kind int

const (
	None Kind = iota
	TerminalShape
	ObjectKey
	ObjectShape
	ArrayShape
)

// Result is the outcome of walking a NodeCursor against a starting shape.
type Result struct {
	Kind  Kind
	Shape *model.Shape
	Key   string
}

func isObjectLike(shape *model.Shape) bool {
	switch shape.Type {
	case "structure", "union", "map":
		return true
	default:
		return false
	}
}

// runNodeSearch walks cur's path alongside shape, descending into the
// member/element shape the edge kind implies, per the traversal rule in
// the per-edge traversal rules. owner is the shape the enclosing
// trait/metadata decorates (nil
// when not applicable), consulted only for registered dynamic targets.
func runNodeSearch(cur *cursor.NodeCursor, shape *model.Shape, owner *model.Shape, fc FileContext, m *model.Model) Result {
	path := cur.Path
	for i := 0; i < len(path); i++ {
		edge := path[i]
		switch edge.Kind {
		case cursor.EdgeObj:
			if i+1 >= len(path) {
				if isObjectLike(shape) {
					return Result{Kind: ObjectShape, Shape: shape}
				}
				return Result{Kind: None}
			}
			next := path[i+1]
			switch next.Kind {
			case cursor.EdgeKey:
				return Result{Kind: ObjectKey, Shape: shape, Key: next.Key}
			case cursor.EdgeValueForKey:
				if dyn, ok := lookupByEntryShape(shape.ID.Name, next.Key); ok {
					target, ok := resolveDynamicTarget(dyn, owner, next.Parent, m)
					if !ok {
						return Result{Kind: None}
					}
					shape = target
					i++
					continue
				}
				member, ok := resolveMember(shape, next.Key)
				if !ok {
					return Result{Kind: None}
				}
				target, ok := m.GetShape(member.Target)
				if !ok {
					return Result{Kind: None}
				}
				shape = target
				i++ // consumed the ValueForKey edge; the rest of the path continues the descent
				continue
			default: // trailing Terminal with no matching key: object itself
				if isObjectLike(shape) {
					return Result{Kind: ObjectShape, Shape: shape}
				}
				return Result{Kind: None}
			}

		case cursor.EdgeArr:
			if i+1 < len(path) && path[i+1].Kind == cursor.EdgeElem {
				member, ok := shape.MemberByName("member")
				if !ok {
					return Result{Kind: None}
				}
				target, ok := m.GetShape(member.Target)
				if !ok {
					return Result{Kind: None}
				}
				shape = target
				i++
				continue
			}
			return Result{Kind: ArrayShape, Shape: shape}

		case cursor.EdgeTerminal:
			return Result{Kind: TerminalShape, Shape: shape}
		}
	}
	return Result{Kind: None}
}

// resolveMember maps an object key to the member shape should descend
// into: for structures/unions that's the member literally named key; for
// maps every key resolves through the uniform "value" member.
func resolveMember(shape *model.Shape, key string) (model.Member, bool) {
	if shape.Type == "map" {
		return shape.MemberByName("value")
	}
	return shape.MemberByName(key)
}
