package cursor

import (
	"testing"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

func TestStatementView_OtherMemberNames(t *testing.T) {
	text := "namespace com.a\n\nstructure Foo {\n  bar: String\n  baz: Integer\n}\n"
	res := syntax.ParseIDL(text)

	// Locate the cursor inside "baz: Integer".
	idx := -1
	for i, s := range res.Statements {
		if m, ok := s.(*syntax.MemberDefStatement); ok && m.Name.Text == "baz" {
			idx = m.Name.Range.Start
			_ = i
		}
	}
	if idx == -1 {
		t.Fatal("expected to find member baz")
	}

	view := NewStatementView(res, idx)
	names := view.OtherMemberNames()
	if len(names) != 2 || names[0] != "bar" || names[1] != "baz" {
		t.Fatalf("unexpected sibling names: %+v", names)
	}
}

func TestStatementView_NearestShapeDefBefore(t *testing.T) {
	text := "namespace com.a\n\nstructure Foo {\n  bar: String\n}\n"
	res := syntax.ParseIDL(text)

	var memberIdx int
	for i, s := range res.Statements {
		if m, ok := s.(*syntax.MemberDefStatement); ok && m.Name.Text == "bar" {
			memberIdx = m.Name.Range.Start
			_ = i
		}
	}

	view := NewStatementView(res, memberIdx)
	sd := view.NearestShapeDefBefore()
	if sd == nil || sd.ShapeName.Text != "Foo" {
		t.Fatalf("expected Foo, got %+v", sd)
	}
}

func TestNodeCursor_ObjectValueForKey(t *testing.T) {
	node := syntax.ParseJSONWithComments(`{"a": {"b": 1}}`)
	inner := node.Obj("a").Obj("b")
	c := BuildNodeCursor(node, inner.Range.Start)

	last := c.Last()
	if last.Kind != EdgeTerminal {
		t.Fatalf("expected terminal edge, got %+v", last)
	}

	var sawValueForKeyA, sawValueForKeyB bool
	for _, e := range c.Path {
		if e.Kind == EdgeValueForKey && e.Key == "a" {
			sawValueForKeyA = true
		}
		if e.Kind == EdgeValueForKey && e.Key == "b" {
			sawValueForKeyB = true
		}
	}
	if !sawValueForKeyA || !sawValueForKeyB {
		t.Fatalf("expected descent through both a and b, got path %+v", c.Path)
	}
}
