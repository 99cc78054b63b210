package builtins

import "testing"

func TestGet_IsSingleton(t *testing.T) {
	a := Get()
	b := Get()
	if a != b {
		t.Fatal("expected Get to return the same process-wide instance")
	}
}

func TestControlDoc(t *testing.T) {
	doc, ok := Get().ControlDoc("version")
	if !ok || doc == "" {
		t.Fatal("expected a doc string for the version control")
	}
	if _, ok := Get().ControlDoc("notAControl"); ok {
		t.Fatal("expected no match for an unknown control key")
	}
}

func TestMemberDoc_OperationInput(t *testing.T) {
	mem, ok := Get().MemberDoc("operation", "input")
	if !ok {
		t.Fatal("expected operation to define an input member")
	}
	if mem.Target != "Structure" {
		t.Fatalf("unexpected target: %q", mem.Target)
	}
}

func TestStructuralMembers_Resource(t *testing.T) {
	members := Get().StructuralMembers("resource")
	found := map[string]bool{}
	for _, m := range members {
		found[m.Name] = true
	}
	for _, want := range []string{"identifiers", "create", "read", "update", "delete", "list"} {
		if !found[want] {
			t.Fatalf("expected resource to declare member %q", want)
		}
	}
}

func TestTraits_HTTPRequiresMethodAndURI(t *testing.T) {
	tr, ok := Get().Traits["http"]
	if !ok {
		t.Fatal("expected http trait to be documented")
	}
	if len(tr.Required) != 2 {
		t.Fatalf("expected http trait to document 2 required members, got %d", len(tr.Required))
	}
}
