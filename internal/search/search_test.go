package search

import (
	"strings"
	"testing"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

func buildTestModel() (*model.Model, model.ShapeID, model.ShapeID) {
	b := model.NewBuilder()
	widget := model.ShapeID{Namespace: "smithy.example", Name: "Widget"}
	name := model.ShapeID{Namespace: "smithy.example", Name: "WidgetName"}
	b.AddShape(&model.Shape{ID: name, Type: "string"})
	b.AddShape(&model.Shape{
		ID:   widget,
		Type: "structure",
		Members: []model.Member{
			{Name: "name", Target: name},
		},
	})
	return b.Build(), widget, name
}

func TestResolveToken_AbsoluteID(t *testing.T) {
	m, widget, _ := buildTestModel()
	id, ok := ResolveToken("smithy.example#Widget", FileContext{}, m)
	if !ok || id != widget {
		t.Fatalf("expected to resolve absolute id, got %+v ok=%v", id, ok)
	}
}

func TestResolveToken_UseImport(t *testing.T) {
	m, widget, _ := buildTestModel()
	fc := FileContext{Namespace: "com.other", Imports: map[string]model.ShapeID{"Widget": widget}}
	id, ok := ResolveToken("Widget", fc, m)
	if !ok || id != widget {
		t.Fatalf("expected to resolve via use import, got %+v ok=%v", id, ok)
	}
}

func TestResolveToken_CurrentNamespaceFallback(t *testing.T) {
	m, widget, _ := buildTestModel()
	fc := FileContext{Namespace: "smithy.example"}
	id, ok := ResolveToken("Widget", fc, m)
	if !ok || id != widget {
		t.Fatalf("expected to resolve via current namespace, got %+v ok=%v", id, ok)
	}
}

func TestResolveToken_Prelude(t *testing.T) {
	b := model.NewBuilder()
	str := model.ShapeID{Namespace: "smithy.api", Name: "String"}
	b.AddShape(&model.Shape{ID: str, Type: "string"})
	m := b.Build()

	id, ok := ResolveToken("String", FileContext{Namespace: "com.other"}, m)
	if !ok || id != str {
		t.Fatalf("expected prelude fallback, got %+v ok=%v", id, ok)
	}
}

func TestResolveToken_Unresolvable(t *testing.T) {
	m, _, _ := buildTestModel()
	_, ok := ResolveToken("DoesNotExist", FileContext{Namespace: "smithy.example"}, m)
	if ok {
		t.Fatal("expected an unresolvable token to fail quietly")
	}
}

func TestLookupDynamicTarget(t *testing.T) {
	d, ok := LookupDynamicTarget("smithy.api#examples", "input")
	if !ok || d.Kind != DynOperationInput {
		t.Fatalf("expected examples.input to be OperationInput, got %+v", d)
	}
	d, ok = LookupDynamicTarget("smithy.api#examples", "output")
	if !ok || d.Kind != DynOperationOutput {
		t.Fatalf("expected examples.output to be OperationOutput, got %+v", d)
	}
	if _, ok := LookupDynamicTarget("smithy.api#notRegistered", "input"); ok {
		t.Fatal("expected an unregistered trait id to miss")
	}
}

func TestLookupDynamicTarget_Validators(t *testing.T) {
	d, ok := LookupDynamicTarget("validators", "configuration")
	if !ok || d.Kind != DynMappedDependent || d.Sibling != "name" {
		t.Fatalf("expected validators.configuration to be MappedDependent on name, got %+v", d)
	}
}

func metadataStatementOf(t *testing.T, text string) *syntax.MetadataStatement {
	t.Helper()
	res := syntax.ParseIDL(text)
	for _, s := range res.Statements {
		if m, ok := s.(*syntax.MetadataStatement); ok {
			return m
		}
	}
	t.Fatal("no metadata statement parsed")
	return nil
}

func TestSearchMetadataValue_ObjectKey(t *testing.T) {
	text := "metadata validators = [{ name: \"EmitEachSelector\" }]\n"
	md := metadataStatementOf(t, text)
	idx := strings.Index(text, "name") + 1

	r := SearchMetadataValue(md.Key.Text, md.Value, idx)
	if r.Kind != ObjectKey {
		t.Fatalf("expected ObjectKey, got %v", r.Kind)
	}
	if r.Key != "name" {
		t.Fatalf("expected key 'name', got %q", r.Key)
	}
	if r.Shape == nil || r.Shape.ID.Name != "Validator" {
		t.Fatalf("expected the Validator entry shape, got %+v", r.Shape)
	}
}

func TestSearchMetadataValue_ObjectShapeInsideEntry(t *testing.T) {
	text := "metadata validators = [{ name: \"x\" }]\n"
	md := metadataStatementOf(t, text)
	idx := strings.Index(text, "{ name") // just inside the entry object

	r := SearchMetadataValue(md.Key.Text, md.Value, idx+1)
	if r.Kind != ObjectKey && r.Kind != ObjectShape {
		t.Fatalf("expected an object-flavored result, got %v", r.Kind)
	}
	if r.Shape == nil || r.Shape.ID.Name != "Validator" {
		t.Fatalf("expected the Validator entry shape, got %+v", r.Shape)
	}
}

func TestSearchMetadataValue_ValidatorConfigurationMapping(t *testing.T) {
	text := "metadata validators = [{ name: \"EmitEachSelector\", configuration: {  } }]\n"
	md := metadataStatementOf(t, text)
	idx := strings.Index(text, "{  }") + 1

	r := SearchMetadataValue(md.Key.Text, md.Value, idx)
	if r.Kind != ObjectShape {
		t.Fatalf("expected ObjectShape via the validator-name mapping, got %v", r.Kind)
	}
	want := model.ShapeID{Namespace: "smithy.api", Name: "Unit"}
	if r.Shape == nil || r.Shape.ID != want {
		t.Fatalf("expected configuration to resolve through the name mapping to %v, got %+v", want, r.Shape)
	}
}

func TestSearchMetadataValue_UnknownKey(t *testing.T) {
	text := "metadata custom = { a: 1 }\n"
	md := metadataStatementOf(t, text)

	r := SearchMetadataValue(md.Key.Text, md.Value, strings.Index(text, "a:")+1)
	if r.Kind != None {
		t.Fatalf("expected None for an undocumented metadata key, got %v", r.Kind)
	}
}

func TestSearchNodeMemberTarget_ServiceRename(t *testing.T) {
	text := "namespace com.a\n\nservice Foo {\n    rename: { \"com.a#X\": \"Y\" }\n}\n"
	res := syntax.ParseIDL(text)
	var nm *syntax.NodeMemberDefStatement
	for _, s := range res.Statements {
		if m, ok := s.(*syntax.NodeMemberDefStatement); ok && m.Name.Text == "rename" {
			nm = m
		}
	}
	if nm == nil {
		t.Fatal("no rename node member parsed")
	}

	idx := strings.Index(text, "com.a#X") + 1
	r := SearchNodeMemberTarget("service", "rename", nm.Value, idx)
	if r.Kind != ObjectKey {
		t.Fatalf("expected ObjectKey inside the rename map, got %v", r.Kind)
	}
	if r.Shape == nil || r.Shape.Type != "map" {
		t.Fatalf("expected the rename map shape, got %+v", r.Shape)
	}
}
