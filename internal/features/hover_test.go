package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeHover_ControlKey(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	h := ComputeHover(p, paths["a.smithy"], cursorAt(t, text, "version", 3))
	require.Contains(t, h.Markdown, "version of the IDL")
}

func TestComputeHover_ShapeDefinition(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\nstructure Widget {\n    name: String\n}\n\nstructure Holder {\n    w: Widget\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	h := ComputeHover(p, paths["a.smithy"], cursorAt(t, text, "w: Widget", 6))
	require.Contains(t, h.Markdown, "```smithy")
	require.Contains(t, h.Markdown, "structure Widget")
	require.Contains(t, h.Markdown, "name: smithy.api#String")
}

func TestComputeHover_NothingUnderCursor(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\nstructure Widget {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	// The blank line between the namespace and the shape.
	idx := strings.Index(text, "\n\n") + 1
	h := ComputeHover(p, paths["a.smithy"], idx)
	require.Empty(t, h.Markdown)
}

func TestComputeHover_MetadataValueKey(t *testing.T) {
	text := "metadata validators = [{ name: \"x\" }]\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	h := ComputeHover(p, paths["a.smithy"], cursorAt(t, text, "name", 2))
	require.Contains(t, h.Markdown, "name")
	require.Contains(t, h.Markdown, "smithy.api#String")
}
