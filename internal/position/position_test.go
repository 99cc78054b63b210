package position

import (
	"strings"
	"testing"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

func idxOfSubstring(text, needle string, within int) int {
	base := 0
	for n := 0; n <= within; n++ {
		i := strings.Index(text[base:], needle)
		if i < 0 {
			return -1
		}
		base += i
		if n == within {
			return base
		}
		base += len(needle)
	}
	return -1
}

func TestClassify_TraitID(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n@doc\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "doc", 0) + 1 // middle of "doc"

	p := Classify(res, idx)
	if p.Kind != KindTraitID {
		t.Fatalf("expected TraitID, got %v", p.Kind)
	}
	if p.Token.Text != "doc" {
		t.Fatalf("expected token 'doc', got %q", p.Token.Text)
	}
}

func TestClassify_MemberTarget(t *testing.T) {
	text := "namespace com.a\n\nstructure Foo {\n  bar: String\n}\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "String", 0) + 2

	p := Classify(res, idx)
	if p.Kind != KindMemberTarget {
		t.Fatalf("expected MemberTarget, got %v", p.Kind)
	}
	if p.Token.Text != "String" {
		t.Fatalf("expected token String, got %q", p.Token.Text)
	}
}

func TestClassify_MemberName(t *testing.T) {
	text := "namespace com.a\n\nstructure Foo {\n  bar: String\n}\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "bar", 0) + 1

	p := Classify(res, idx)
	if p.Kind != KindMemberName {
		t.Fatalf("expected MemberName, got %v", p.Kind)
	}
}

func TestClassify_ElidedMember(t *testing.T) {
	text := "namespace com.a\n\nstructure Foo {\n  $bar\n}\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "bar", 0) + 1

	p := Classify(res, idx)
	if p.Kind != KindElidedMember {
		t.Fatalf("expected ElidedMember, got %v", p.Kind)
	}
}

func TestClassify_Namespace(t *testing.T) {
	text := "namespace com.a\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "com.a", 0) + 2

	p := Classify(res, idx)
	if p.Kind != KindNamespace {
		t.Fatalf("expected Namespace, got %v", p.Kind)
	}
}

func TestClassify_MetadataValue(t *testing.T) {
	text := "metadata foo = { bar: \"baz\" }\n"
	res := syntax.ParseIDL(text)
	idx := idxOfSubstring(text, "baz", 0) + 1

	p := Classify(res, idx)
	if p.Kind != KindMetadataValue {
		t.Fatalf("expected MetadataValue, got %v", p.Kind)
	}
	if p.Value == nil {
		t.Fatal("expected a node value to descend into")
	}
}

func TestClassify_EmptyFileIsStatementKeyword(t *testing.T) {
	res := syntax.ParseIDL("")
	p := Classify(res, 0)
	if p.Kind != KindStatementKeyword {
		t.Fatalf("expected StatementKeyword for an empty file, got %v", p.Kind)
	}
}
