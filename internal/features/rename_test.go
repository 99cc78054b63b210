package features

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
)

func editsByPath(edits []RenameEdit, path string) ([]CompletionEdit, bool) {
	for _, e := range edits {
		if e.Path == path {
			return e.Edits, true
		}
	}
	return nil, false
}

func newTexts(edits []CompletionEdit) []string {
	out := make([]string, 0, len(edits))
	for _, e := range edits {
		out = append(out, e.NewText)
	}
	return out
}

func TestComputeRename_SimpleRename(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure Orig {}\n\nstructure Holder {\n    m: Orig\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a})

	edits, err := ComputeRename(p, paths["a.smithy"], cursorAt(t, a, "structure Orig", 12), "Renamed")
	require.NoError(t, err)

	fileEdits, ok := editsByPath(edits, paths["a.smithy"])
	require.True(t, ok)
	// The defining token and the member target both narrow to the new
	// simple name.
	require.Len(t, fileEdits, 2)
	for _, e := range fileEdits {
		require.Equal(t, "Renamed", e.NewText)
	}
}

func TestComputeRename_ImportConflictExpandsToFullyQualified(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure Orig {}\n"
	b := "$version: \"2\"\nnamespace com.b\n\nstructure Foo {}\n"
	c := "$version: \"2\"\nnamespace com.a\n\nuse com.b#Foo\n\nstructure UseC {\n    x: Orig\n    y: Foo\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a, "b.smithy": b, "c.smithy": c})

	edits, err := ComputeRename(p, paths["a.smithy"], cursorAt(t, a, "Orig", 2), "Foo")
	require.NoError(t, err)

	aEdits, ok := editsByPath(edits, paths["a.smithy"])
	require.True(t, ok)
	require.Contains(t, newTexts(aEdits), "Foo")

	cEdits, ok := editsByPath(edits, paths["c.smithy"])
	require.True(t, ok)
	texts := newTexts(cEdits)
	// x's target expands to the renamed shape's fully-qualified id, the
	// conflicting use line is removed, and y's reference to the shape it
	// imported is rewritten to com.b#Foo.
	require.Contains(t, texts, "com.a#Foo")
	require.Contains(t, texts, "")
	require.Contains(t, texts, "com.b#Foo")
}

func TestComputeRename_UnresolvablePositionFails(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure Orig {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a})

	_, err := ComputeRename(p, paths["a.smithy"], 0, "X")
	var reqFailed *serrors.RequestFailed
	require.True(t, goerrors.As(err, &reqFailed))
}

func TestPrepareRename(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure Orig {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a})

	r, ok := PrepareRename(p, paths["a.smithy"], cursorAt(t, a, "Orig", 2))
	require.True(t, ok)
	require.Equal(t, 3, r.Start.Line)
	require.Equal(t, 10, r.Start.Column)
	require.Equal(t, 14, r.End.Column)
}
