package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
)

const widgetFile = `$version: "2"
namespace smithy.example

structure Widget {
    name: String
}
`

func TestLocalAssembler_SingleFile(t *testing.T) {
	asm := NewLocalAssembler()
	asm.PutFile("widget.smithy", widgetFile)

	m, events, err := asm.Assemble()
	require.NoError(t, err)
	require.Empty(t, events)

	shape, ok := m.GetShape(model.ShapeID{Namespace: "smithy.example", Name: "Widget"})
	require.True(t, ok)
	require.Equal(t, "structure", shape.Type)
	member, ok := shape.MemberByName("name")
	require.True(t, ok)
	require.Equal(t, "smithy.api", member.Target.Namespace)
	require.Equal(t, "String", member.Target.Name)
}

func TestLocalAssembler_CrossFileApply(t *testing.T) {
	asm := NewLocalAssembler()
	asm.PutFile("widget.smithy", widgetFile)
	asm.PutFile("traits.smithy", `$version: "2"
namespace smithy.example

apply Widget @documentation("a widget")
`)

	m, _, err := asm.Assemble()
	require.NoError(t, err)

	shape, ok := m.GetShape(model.ShapeID{Namespace: "smithy.example", Name: "Widget"})
	require.True(t, ok)
	require.True(t, shape.HasTrait(model.ShapeID{Namespace: "smithy.api", Name: "documentation"}))
}

func TestLocalAssembler_DuplicateShapeReportsEvent(t *testing.T) {
	asm := NewLocalAssembler()
	asm.PutFile("a.smithy", widgetFile)
	asm.PutFile("b.smithy", widgetFile)

	_, events, err := asm.Assemble()
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "ShapeConflict", events[0].ValidatorID)
}

func TestRebuildIndex_TracksCrossFileAppliedTraits(t *testing.T) {
	asm := NewLocalAssembler()
	asm.PutFile("widget.smithy", widgetFile)
	asm.PutFile("traits.smithy", `$version: "2"
namespace smithy.example

apply Widget @documentation("a widget")
`)
	m, _, err := asm.Assemble()
	require.NoError(t, err)

	idx := BuildRebuildIndex(m)
	widget := model.ShapeID{Namespace: "smithy.example", Name: "Widget"}
	docTrait := model.ShapeID{Namespace: "smithy.api", Name: "documentation"}

	// Whichever side changes, the other must be refed.
	require.Contains(t, idx.DependentFilesOf("widget.smithy"), "traits.smithy")
	require.Contains(t, idx.DependentFilesOf("traits.smithy"), "widget.smithy")

	other := idx.OtherFileTraitsOf(widget)
	require.Len(t, other, 1)
	require.Equal(t, docTrait, other[0].ID)

	applied := idx.AppliedTraitsFrom("traits.smithy")
	require.Len(t, applied[widget], 1)
	require.Equal(t, docTrait, applied[widget][0].ID)

	// A non-array cross-file trait is not a fragment dependency.
	require.Empty(t, idx.DependencyFilesOf(widget))
}

func TestRebuildIndex_ArrayTraitFragments(t *testing.T) {
	asm := NewLocalAssembler()
	asm.PutFile("a.smithy", `$version: "2"
namespace smithy.example

@tags(["core"])
structure S {}
`)
	asm.PutFile("b.smithy", `$version: "2"
namespace smithy.example

apply S @tags(["extra"])
`)
	m, _, err := asm.Assemble()
	require.NoError(t, err)

	s := model.ShapeID{Namespace: "smithy.example", Name: "S"}
	shape, ok := m.GetShape(s)
	require.True(t, ok)

	// The two applications merged into one array trait whose elements
	// keep their authoring files.
	var tags model.Trait
	found := false
	for _, tr := range shape.Traits {
		if tr.ID.Name == "tags" {
			tags, found = tr, true
		}
	}
	require.True(t, found)
	require.Len(t, tags.Value.Elements, 2)
	require.Len(t, tags.ElementSources, 2)
	require.Equal(t, "a.smithy", tags.ElementSources[0].Filename)
	require.Equal(t, "b.smithy", tags.ElementSources[1].Filename)

	idx := BuildRebuildIndex(m)
	// Rebuild completeness, both directions: the fragment author is a
	// dependency of S, and each file is the other's dependent.
	require.Equal(t, []string{"b.smithy"}, idx.DependencyFilesOf(s))
	require.Equal(t, []string{"a.smithy"}, idx.FragmentDependentFilesOf("b.smithy"))
	require.Contains(t, idx.DependentFilesOf("a.smithy"), "b.smithy")
	require.Contains(t, idx.DependentFilesOf("b.smithy"), "a.smithy")

	// Same-file fragments are not cross-file dependencies.
	require.Empty(t, idx.FragmentDependentFilesOf("a.smithy"))
}

func TestRebuildIndex_SkipsSyntheticTraits(t *testing.T) {
	b := model.NewBuilder()
	s := model.ShapeID{Namespace: "smithy.example", Name: "S"}
	b.AddShape(&model.Shape{
		ID: s, Type: "structure",
		Source: model.SourceLocation{Filename: "a.smithy"},
		Traits: []model.Trait{{
			ID:        model.ShapeID{Namespace: "smithy.api", Name: "documentation"},
			Source:    model.SourceLocation{Filename: "b.smithy"},
			Synthetic: true,
		}},
	})

	idx := BuildRebuildIndex(b.Build())
	require.Empty(t, idx.DependentFilesOf("a.smithy"))
	require.Empty(t, idx.OtherFileTraitsOf(s))
}

func newLoadedTestProject(t *testing.T) (*Project, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "widget.smithy")
	require.NoError(t, os.WriteFile(path, []byte(widgetFile), 0o644))

	cfg := &ProjectConfig{Root: dir, ResolvedModelPaths: []string{path}}
	p := New(KindNormal, cfg, NewLocalAssembler)
	require.NoError(t, p.InitialLoad())
	return p, path
}

func TestProject_UpdateFiles_Idempotent(t *testing.T) {
	p, _ := newLoadedTestProject(t)
	m1, idx1 := p.Model()

	require.NoError(t, p.UpdateFiles(nil, nil, nil, nil))
	m2, idx2 := p.Model()

	require.Same(t, m1, m2)
	require.Same(t, idx1, idx2)
}

func TestProject_UpdateFiles_RemovalDropsShape(t *testing.T) {
	p, path := newLoadedTestProject(t)

	_, ok := p.File(path)
	require.True(t, ok)

	require.NoError(t, p.UpdateFiles(nil, []string{path}, nil, nil))
	m, _ := p.Model()
	_, ok = m.GetShape(model.ShapeID{Namespace: "smithy.example", Name: "Widget"})
	require.False(t, ok)

	_, ok = p.File(path)
	require.False(t, ok)
}

func TestProject_UpdateFiles_PreservesCrossFileTraits(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.smithy")
	bPath := filepath.Join(dir, "b.smithy")
	aText := "$version: \"2\"\nnamespace smithy.example\n\nstructure S {}\n"
	bText := "$version: \"2\"\nnamespace smithy.example\n\napply S @documentation(\"x\")\n"
	require.NoError(t, os.WriteFile(aPath, []byte(aText), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte(bText), 0o644))

	cfg := &ProjectConfig{Root: dir, ResolvedModelPaths: []string{aPath, bPath}}
	p := New(KindNormal, cfg, NewLocalAssembler)
	require.NoError(t, p.InitialLoad())

	// Touch only the defining file; the trait applied from b.smithy must
	// survive the reassembly.
	require.NoError(t, p.UpdateFiles(nil, nil, []string{aPath}, map[string]string{aPath: aText + "\n"}))

	m, _ := p.Model()
	shape, ok := m.GetShape(model.ShapeID{Namespace: "smithy.example", Name: "S"})
	require.True(t, ok)
	require.True(t, shape.HasTrait(model.ShapeID{Namespace: "smithy.api", Name: "documentation"}))
}

func TestNewDetached(t *testing.T) {
	p, err := NewDetached("/tmp/orphan.smithy", widgetFile, NewLocalAssembler)
	require.NoError(t, err)
	require.Equal(t, KindDetached, p.Kind)

	m, _ := p.Model()
	_, ok := m.GetShape(model.ShapeID{Namespace: "smithy.example", Name: "Widget"})
	require.True(t, ok)
}
