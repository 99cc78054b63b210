package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeCompletion_TraitIDOffersBuiltinTraits(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\n@doc\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "@doc", 2)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	it, ok := itemByLabel(items, "documentation")
	require.True(t, ok, "expected a 'documentation' candidate, got %v", items)
	require.Equal(t, "smithy.api#documentation", it.Detail)
	require.Equal(t, "documentation", it.Edit.NewText)
	require.Equal(t, 3, it.Edit.Range.Start.Line)
	require.Equal(t, 1, it.Edit.Range.Start.Column)
}

func TestComputeCompletion_TraitIDFillsRequiredMembers(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\n@htt\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "@htt", 2)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	it, ok := itemByLabel(items, "http(...)")
	require.True(t, ok)
	require.Equal(t, `http(method: "", uri: "")`, it.Edit.NewText)
}

func TestComputeCompletion_MemberTargetHidesForeignPrivate(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure WithMember {\n    m: B\n}\n"
	b := "$version: \"2\"\nnamespace com.b\n\n@private\nstructure Bar {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a, "b.smithy": b})
	idx := cursorAt(t, a, "m: B", 4)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	_, ok := itemByLabel(items, "Bar")
	require.False(t, ok, "private foreign shape must not be offered: %v", items)
}

func TestComputeCompletion_MemberTargetAddsImportEdit(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure WithMember {\n    m: Wid\n}\n"
	b := "$version: \"2\"\nnamespace com.b\n\nstructure Widget {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a, "b.smithy": b})
	idx := cursorAt(t, a, "Wid", 2)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	it, ok := itemByLabel(items, "Widget")
	require.True(t, ok)
	require.Len(t, it.Additional, 1)
	require.Equal(t, "use com.b#Widget\n", it.Additional[0].NewText)
	require.Equal(t, 2, it.Additional[0].Range.Start.Line)
}

func TestComputeCompletion_ExclusionSetRemovesCandidates(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\n@doc\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "@doc", 2)

	items := ComputeCompletion(p, paths["a.smithy"], idx, map[string]bool{"documentation": true})
	_, ok := itemByLabel(items, "documentation")
	require.False(t, ok)
}

func TestComputeCompletion_FuzzyFallbackCatchesNearMiss(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\n@documentaton\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "documentaton", 5)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	require.NotEmpty(t, items, "near-miss spelling should still rank candidates")
	require.Equal(t, "documentation", items[0].Label)
}

func TestComputeCompletion_ControlKey(t *testing.T) {
	text := "$ver\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "ver", 1)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	_, ok := itemByLabel(items, "version")
	require.True(t, ok, "got %v", items)
}

func TestDocStemMatch(t *testing.T) {
	require.True(t, docStemMatch("Configures additional model validators to run.", "validate"))
	require.False(t, docStemMatch("Adds documentation to a shape or member.", "validate"))
	require.False(t, docStemMatch("anything", "abc"))
}

func TestComputeCompletion_MetadataValueKeys(t *testing.T) {
	text := "metadata validators = [{ name: \"x\" }]\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})
	idx := cursorAt(t, text, "name", 2)

	items := ComputeCompletion(p, paths["a.smithy"], idx, nil)
	_, ok := itemByLabel(items, "name")
	require.True(t, ok, "got %v", items)
	_, ok = itemByLabel(items, "namespaces")
	require.True(t, ok, "got %v", items)
}
