package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func TestManager_RoutesFileToLoadedRoot(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "model", "a.smithy")
	writeFile(t, path, "$version: \"2\"\nnamespace com.a\n\nstructure Foo {}\n")

	m := New(nil)
	loaded, err := m.LoadProject(root)
	require.NoError(t, err)
	require.Equal(t, project.KindNormal, loaded.Kind)

	p, err := m.ProjectFor(path, "")
	require.NoError(t, err)
	require.Same(t, loaded, p)
}

func TestManager_NewFileUnderRootAttaches(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "model", "a.smithy"), "$version: \"2\"\nnamespace com.a\n\nstructure Foo {}\n")

	m := New(nil)
	loaded, err := m.LoadProject(root)
	require.NoError(t, err)

	text := "$version: \"2\"\nnamespace com.a\n\nstructure Bar {}\n"
	newPath := filepath.Join(root, "model", "b.smithy")
	writeFile(t, newPath, text)

	p, err := m.ProjectFor(newPath, text)
	require.NoError(t, err)
	require.Same(t, loaded, p)

	mdl, _ := p.Model()
	_, ok := mdl.GetShape(model.ShapeID{Namespace: "com.a", Name: "Bar"})
	require.True(t, ok)
}

func TestManager_DetachedProjectsAreIsolated(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	pathA := filepath.Join(dirA, "a.smithy")
	pathB := filepath.Join(dirB, "b.smithy")
	textA := "$version: \"2\"\nnamespace com.a\n\nstructure A {}\n"
	textB := "$version: \"2\"\nnamespace com.b\n\nstructure B {}\n"
	writeFile(t, pathA, textA)
	writeFile(t, pathB, textB)

	m := New(nil)
	pa, err := m.ProjectFor(pathA, textA)
	require.NoError(t, err)
	pb, err := m.ProjectFor(pathB, textB)
	require.NoError(t, err)
	require.NotSame(t, pa, pb)
	require.Equal(t, project.KindDetached, pa.Kind)

	modelB1, _ := pb.Model()
	require.NoError(t, pa.UpdateFiles(nil, nil, []string{pathA}, map[string]string{pathA: textA + "\nstructure A2 {}\n"}))
	modelB2, _ := pb.Model()

	// Reassembling one detached project never touches the other's model.
	require.Same(t, modelB1, modelB2)
	_, ok := modelB2.GetShape(model.ShapeID{Namespace: "com.a", Name: "A2"})
	require.False(t, ok)
}

func TestManager_ManagedDocuments(t *testing.T) {
	m := New(nil)
	m.PutManagedDocument("/x/a.smithy", "one")
	m.PutManagedDocument("/x/b.smithy", "two")

	text, ok := m.ManagedText("/x/a.smithy")
	require.True(t, ok)
	require.Equal(t, "one", text)
	require.Len(t, m.ManagedURIs(), 2)

	m.RemoveManagedDocument("/x/a.smithy")
	_, ok = m.ManagedText("/x/a.smithy")
	require.False(t, ok)
}

func TestManager_CloseFileDropsDetached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.smithy")
	text := "$version: \"2\"\nnamespace com.a\n"
	writeFile(t, path, text)

	m := New(nil)
	first, err := m.ProjectFor(path, text)
	require.NoError(t, err)

	m.CloseFile(path)
	second, err := m.ProjectFor(path, text)
	require.NoError(t, err)
	require.NotSame(t, first, second)
}
