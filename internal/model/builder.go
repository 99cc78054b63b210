package model

import "github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"

// Builder accumulates shape and metadata mutations before being frozen
// into a new Model by Build. It implements the add_shape/remove_shape/
// put_metadata surface the incremental reassembly protocol drives
// directly.
type Builder struct {
	shapes   map[ShapeID]*Shape
	metadata map[string]map[string]*syntax.Node
}

// NewBuilder starts an empty builder, used for a project's first load.
func NewBuilder() *Builder {
	return &Builder{shapes: map[ShapeID]*Shape{}, metadata: map[string]map[string]*syntax.Node{}}
}

// AddShape inserts or replaces a shape.
func (b *Builder) AddShape(s *Shape) { b.shapes[s.ID] = s }

// RemoveShape deletes a shape by id; a no-op if absent.
func (b *Builder) RemoveShape(id ShapeID) { delete(b.shapes, id) }

// GetShape reads back a shape staged so far, for traits-from-other-files
// re-staging during removal.
func (b *Builder) GetShape(id ShapeID) (*Shape, bool) {
	s, ok := b.shapes[id]
	return s, ok
}

// AddTraitToShape stages a trait application onto an existing shape.
// Array-valued applications of a trait the shape already carries as an
// array are merged element-wise rather than appended, with each
// fragment's ElementSources preserved so the rebuild index can attribute
// elements to the files that authored them.
func (b *Builder) AddTraitToShape(id ShapeID, t Trait) {
	s, ok := b.shapes[id]
	if !ok {
		return
	}
	cp := *s
	cp.Traits = append([]Trait(nil), s.Traits...)
	if !mergeArrayTrait(cp.Traits, t) {
		cp.Traits = append(cp.Traits, t)
	}
	b.shapes[id] = &cp
}

// mergeArrayTrait folds an array-valued application of an already-present
// array trait into the existing application in place, concatenating
// elements and their per-element sources. Reports whether a merge
// happened.
func mergeArrayTrait(traits []Trait, t Trait) bool {
	if !t.IsArray() {
		return false
	}
	for i, existing := range traits {
		if existing.ID != t.ID || !existing.IsArray() {
			continue
		}
		merged := &syntax.Node{
			Kind:     syntax.NodeArray,
			Range:    existing.Value.Range,
			Elements: append(append([]*syntax.Node(nil), existing.Value.Elements...), t.Value.Elements...),
		}
		traits[i].Value = merged
		traits[i].ElementSources = append(
			append([]SourceLocation(nil), existing.ElementSources...), t.ElementSources...)
		return true
	}
	return false
}

// RemoveTraitsFromFile strips every trait application whose source file
// is file, from every shape.
func (b *Builder) RemoveTraitsFromFile(file string) {
	for id, s := range b.shapes {
		var kept []Trait
		changed := false
		for _, t := range s.Traits {
			if t.Source.Filename == file {
				changed = true
				continue
			}
			kept = append(kept, t)
		}
		if changed {
			cp := *s
			cp.Traits = kept
			b.shapes[id] = &cp
		}
	}
}

// PutMetadata records a metadata key contributed by file.
func (b *Builder) PutMetadata(file, key string, value *syntax.Node) {
	byKey, ok := b.metadata[file]
	if !ok {
		byKey = map[string]*syntax.Node{}
		b.metadata[file] = byKey
	}
	byKey[key] = value
}

// Build freezes the builder into an immutable Model.
func (b *Builder) Build() *Model {
	shapes := make(map[ShapeID]*Shape, len(b.shapes))
	for id, s := range b.shapes {
		shapes[id] = s
	}
	metadata := make(map[string]map[string]*syntax.Node, len(b.metadata))
	for file, byKey := range b.metadata {
		cp := make(map[string]*syntax.Node, len(byKey))
		for k, v := range byKey {
			cp[k] = v
		}
		metadata[file] = cp
	}
	return &Model{shapes: shapes, metadata: metadata}
}
