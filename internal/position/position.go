// Package position classifies a cursor byte offset into an IdlPosition
// variant describing what the user is editing.
package position

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/cursor"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// Kind tags the IdlPosition variant.
type Kind int

const (
	KindControlKey Kind = iota
	KindMetadataKey
	KindMetadataValue
	KindStatementKeyword
	KindNamespace
	KindUseTarget
	KindTraitID
	KindTraitValue
	KindApplyTarget
	KindShapeDef
	KindMixin
	KindForResource
	KindMemberTarget
	KindMemberName
	KindElidedMember
	KindNodeMemberTarget
	KindUnknown
)

// IdlPosition is the result of classifying a cursor position: which kind
// of construct it sits in, the identifier token under the cursor (if
// any), the owning statement, and, for value positions, the node value
// being edited so ShapeSearch/NodeSearch can descend into it.
type IdlPosition struct {
	Kind      Kind
	Token     syntax.Token
	Statement syntax.Statement
	Value     *syntax.Node
	Index     int
	View      *cursor.StatementView
}

// Classify maps a cursor to an IdlPosition. It is a pure function of a
// StatementView plus the byte offset; for whichever statement contains
// idx, the first field whose range contains the offset determines the
// variant (innermost-range-first precedence).
func Classify(res *syntax.ParseResult, idx int) IdlPosition {
	view := cursor.NewStatementView(res, idx)
	stmt, _ := view.Statement()

	if stmt == nil {
		return classifyBetweenStatements(res, idx, view)
	}

	switch s := stmt.(type) {
	case *syntax.ControlStatement:
		if s.Key.Range.Contains(idx) {
			return IdlPosition{Kind: KindControlKey, Token: s.Key, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.MetadataStatement:
		if s.Key.Range.Contains(idx) {
			return IdlPosition{Kind: KindMetadataKey, Token: s.Key, Statement: s, View: view}
		}
		if s.Value != nil && s.Value.Range.Contains(idx) {
			return IdlPosition{Kind: KindMetadataValue, Statement: s, Value: s.Value, Index: idx, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.NamespaceStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindNamespace, Token: s.Name, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.UseStatement:
		if s.Target.Range.Contains(idx) {
			return IdlPosition{Kind: KindUseTarget, Token: s.Target, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.ShapeDefStatement:
		if s.ShapeName.Range.Contains(idx) {
			return IdlPosition{Kind: KindShapeDef, Token: s.ShapeName, Statement: s, View: view}
		}
		if s.ShapeType.Range.Contains(idx) {
			return IdlPosition{Kind: KindStatementKeyword, Token: s.ShapeType, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.ForResourceStatement:
		if s.Resource.Range.Contains(idx) {
			return IdlPosition{Kind: KindForResource, Token: s.Resource, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.MixinsStatement:
		for _, name := range s.Names {
			if name.Range.Contains(idx) {
				return IdlPosition{Kind: KindMixin, Token: name, Statement: s, View: view}
			}
		}
		return IdlPosition{Kind: KindMixin, Statement: s, View: view}

	case *syntax.TraitApplicationStatement:
		if s.ID.Range.Contains(idx) {
			return IdlPosition{Kind: KindTraitID, Token: s.ID, Statement: s, View: view}
		}
		if s.Value != nil && s.Value.Range.Contains(idx) {
			return IdlPosition{Kind: KindTraitValue, Statement: s, Value: s.Value, Index: idx, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.ApplyStatement:
		if s.Target.Range.Contains(idx) {
			return IdlPosition{Kind: KindApplyTarget, Token: s.Target, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.MemberDefStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindMemberName, Token: s.Name, Statement: s, View: view}
		}
		if s.Target != nil && s.Target.Range.Contains(idx) {
			return IdlPosition{Kind: KindMemberTarget, Token: *s.Target, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.EnumMemberDefStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindMemberName, Token: s.Name, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.ElidedMemberDefStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindElidedMember, Token: s.Name, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.NodeMemberDefStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindMemberName, Token: s.Name, Statement: s, View: view}
		}
		if s.Value != nil && s.Value.Range.Contains(idx) {
			return IdlPosition{Kind: KindNodeMemberTarget, Statement: s, Value: s.Value, Index: idx, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.InlineMemberDefStatement:
		if s.Name.Range.Contains(idx) {
			return IdlPosition{Kind: KindMemberName, Token: s.Name, Statement: s, View: view}
		}
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}

	case *syntax.BlockStatement:
		return classifyInsideBlock(res, s, view)

	case *syntax.IncompleteStatement:
		return IdlPosition{Kind: KindStatementKeyword, Statement: s, View: view}

	default:
		return IdlPosition{Kind: KindUnknown, Statement: s, View: view}
	}
}

// classifyBetweenStatements handles offsets that fall inside whitespace
// between statements (e.g. a blank line where the user is about to type a
// new member or a new top-level shape).
func classifyBetweenStatements(res *syntax.ParseResult, idx int, view *cursor.StatementView) IdlPosition {
	var enclosing *syntax.BlockStatement
	for _, s := range res.Statements {
		if b, ok := s.(*syntax.BlockStatement); ok && b.Range().Contains(idx) {
			if enclosing == nil || enclosing.Range().Covers(b.Range()) {
				enclosing = b
			}
		}
	}
	if enclosing != nil {
		return IdlPosition{Kind: KindMemberName, Statement: enclosing, View: view}
	}
	return IdlPosition{Kind: KindStatementKeyword, View: view}
}

func classifyInsideBlock(res *syntax.ParseResult, b *syntax.BlockStatement, view *cursor.StatementView) IdlPosition {
	return IdlPosition{Kind: KindMemberName, Statement: b, View: view}
}
