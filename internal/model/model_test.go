package model

import "testing"

func TestParseShapeID(t *testing.T) {
	id, ok := ParseShapeID("smithy.example#Widget$name")
	if !ok {
		t.Fatal("expected a valid id")
	}
	if id.Namespace != "smithy.example" || id.Name != "Widget" || id.Member != "name" {
		t.Fatalf("unexpected parse: %+v", id)
	}
	if id.RootID().String() != "smithy.example#Widget" {
		t.Fatalf("unexpected root id: %s", id.RootID())
	}
}

func TestParseShapeID_NoHash(t *testing.T) {
	if _, ok := ParseShapeID("Widget"); ok {
		t.Fatal("expected a relative token to be rejected")
	}
}

func TestBuilder_RoundTrip(t *testing.T) {
	b := NewBuilder()
	id := ShapeID{Namespace: "smithy.example", Name: "Widget"}
	b.AddShape(&Shape{ID: id, Type: "structure"})
	b.PutMetadata("a.smithy", "suppressions", nil)

	m := b.Build()
	s, ok := m.GetShape(id)
	if !ok || s.Type != "structure" {
		t.Fatalf("expected shape to round-trip, got %+v ok=%v", s, ok)
	}
	if _, ok := m.MetadataValue("suppressions"); !ok {
		t.Fatal("expected metadata to round-trip")
	}
}

func TestModel_ShapesWithTrait(t *testing.T) {
	b := NewBuilder()
	errTrait := ShapeID{Namespace: "smithy.api", Name: "error"}
	id := ShapeID{Namespace: "smithy.example", Name: "BadRequest"}
	b.AddShape(&Shape{ID: id, Type: "structure", Traits: []Trait{{ID: errTrait}}})
	m := b.Build()

	matches := m.ShapesWithTrait(errTrait)
	if len(matches) != 1 || matches[0].ID != id {
		t.Fatalf("expected one matching shape, got %+v", matches)
	}
}

func TestBuilder_RemoveTraitsFromFile(t *testing.T) {
	b := NewBuilder()
	id := ShapeID{Namespace: "smithy.example", Name: "Widget"}
	docTrait := ShapeID{Namespace: "smithy.api", Name: "documentation"}
	b.AddShape(&Shape{ID: id, Type: "structure", Traits: []Trait{
		{ID: docTrait, Source: SourceLocation{Filename: "other.smithy"}},
	}})
	b.RemoveTraitsFromFile("other.smithy")

	s, _ := b.GetShape(id)
	if len(s.Traits) != 0 {
		t.Fatalf("expected trait from other.smithy to be stripped, got %+v", s.Traits)
	}
}
