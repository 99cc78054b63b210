// Package model is the opaque Shape/Model facade consumed by search and
// the feature handlers. It stands in for the real Smithy model assembler
// collaborator: it knows nothing about selectors or the full
// validation rule set, only the shapes, members, traits, and metadata
// assembled from a project's IDL files, plus enough source-location
// bookkeeping to answer "where is this defined" queries.
package model

import "github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"

// SourceLocation pinpoints where a shape, member, or trait application was
// declared, for hover/definition/diagnostics range computation.
type SourceLocation struct {
	Filename string
	Line     int // 1-based, matching LSP convention at the presentation boundary
	Column   int
}

// Trait is one applied trait: its id, the node value it was given (nil for
// annotation traits with no value), and where the application appears.
type Trait struct {
	ID     ShapeID
	Value  *syntax.Node
	Source SourceLocation

	// ElementSources records, for array-valued traits, where each element
	// of Value was authored, index-aligned with Value.Elements. Merged
	// applications of the same array trait from several files interleave
	// here, which is what lets the rebuild index attribute individual
	// fragments to their files. Nil for non-array values.
	ElementSources []SourceLocation

	Synthetic bool // applied by the assembler itself rather than from source text
}

// IsArray reports whether the trait's value is an array node.
func (t Trait) IsArray() bool {
	return t.Value != nil && t.Value.Kind == syntax.NodeArray
}

// Member is a named member of an aggregate shape (structure/union/list
// element/map key or value/enum member), carrying its own traits.
type Member struct {
	Name   string
	Target ShapeID
	Source SourceLocation
	Traits []Trait
}

// Shape is one assembled shape: its kind, members in declaration order,
// traits applied to it (from any file), and where it was defined.
type Shape struct {
	ID      ShapeID
	Type    string // "structure", "operation", "service", ... matches builtins.ShapeType.Name
	Members []Member
	Traits  []Trait
	Source  SourceLocation

	// Mixins lists the shape ids this shape declared with `with [...]`.
	Mixins []ShapeID
	// Resource is set for operations/shapes bound `for` a resource.
	Resource ShapeID
}

// requiredTraitID is smithy.api#required, checked often enough by
// completion's "fill required members" scaffold to warrant its own
// constant rather than allocating a ShapeID at every call site.
var requiredTraitID = ShapeID{Namespace: "smithy.api", Name: "required"}

// HasTrait reports whether id is applied to m.
func (m *Member) HasTrait(id ShapeID) bool {
	for _, t := range m.Traits {
		if t.ID == id {
			return true
		}
	}
	return false
}

// HasRequiredTrait reports whether m carries @required.
func (m *Member) HasRequiredTrait() bool { return m.HasTrait(requiredTraitID) }

// MemberByName returns the named member, if present.
func (s *Shape) MemberByName(name string) (Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Trait returns the applied trait with the given id, if present.
func (s *Shape) Trait(id ShapeID) (Trait, bool) {
	for _, t := range s.Traits {
		if t.ID == id {
			return t, true
		}
	}
	return Trait{}, false
}

// HasTrait reports whether id is applied to s.
func (s *Shape) HasTrait(id ShapeID) bool {
	_, ok := s.Trait(id)
	return ok
}

// Model is the immutable, assembled view of every shape known to a
// project: the user's own shapes plus the prelude. It is produced by a
// Builder and is safe for concurrent readers once Build returns.
type Model struct {
	shapes   map[ShapeID]*Shape
	metadata map[string]map[string]*syntax.Node // file -> key -> value
}

// GetShape returns the shape for id, following a member id to its owner.
func (m *Model) GetShape(id ShapeID) (*Shape, bool) {
	s, ok := m.shapes[id.RootID()]
	return s, ok
}

// GetMember resolves a "namespace#Name$member" id straight to its Member.
func (m *Model) GetMember(id ShapeID) (Member, bool) {
	if !id.HasMember() {
		return Member{}, false
	}
	s, ok := m.GetShape(id)
	if !ok {
		return Member{}, false
	}
	return s.MemberByName(id.Member)
}

// Shapes returns every assembled shape, in no particular order.
func (m *Model) Shapes() []*Shape {
	out := make([]*Shape, 0, len(m.shapes))
	for _, s := range m.shapes {
		out = append(out, s)
	}
	return out
}

// ShapesWithTrait returns every shape with the given trait applied,
// powering Completion's Shapes(selector) candidate kind and References.
func (m *Model) ShapesWithTrait(trait ShapeID) []*Shape {
	var out []*Shape
	for _, s := range m.shapes {
		if s.HasTrait(trait) {
			out = append(out, s)
		}
	}
	return out
}

// MetadataValue looks up a metadata key across every file's metadata.
// When several files set key, which file's value is returned is not
// defined; callers needing the owning file use MetadataByFile directly.
func (m *Model) MetadataValue(key string) (*syntax.Node, bool) {
	for _, byKey := range m.metadata {
		if v, ok := byKey[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// MetadataByFile returns the metadata key/value map contributed by file.
func (m *Model) MetadataByFile(file string) map[string]*syntax.Node {
	return m.metadata[file]
}

// ToBuilder starts a mutation pass seeded with a deep-enough copy of m:
// the shape map is cloned (callers mutate the clone, not m's shapes) and
// metadata is cleared, ready for per-file re-adds (metadata merges
// non-destructively, so subtraction is never attempted).
func (m *Model) ToBuilder() *Builder {
	shapes := make(map[ShapeID]*Shape, len(m.shapes))
	for id, s := range m.shapes {
		shapes[id] = s
	}
	return &Builder{shapes: shapes, metadata: map[string]map[string]*syntax.Node{}}
}
