package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeDocumentSymbols_TwoLevelTree(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\nstructure Widget {\n    name: String\n    size: Integer\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	symbols := ComputeDocumentSymbols(p, paths["a.smithy"])
	require.Len(t, symbols, 2)

	require.Equal(t, "com.a", symbols[0].Name)
	require.Equal(t, SymbolNamespace, symbols[0].Kind)

	widget := symbols[1]
	require.Equal(t, "Widget", widget.Name)
	require.Equal(t, SymbolShape, widget.Kind)
	require.Equal(t, "structure", widget.Detail)
	require.Len(t, widget.Children, 2)
	require.Equal(t, "name", widget.Children[0].Name)
	require.Equal(t, "size", widget.Children[1].Name)

	// The shape's range is widened to cover its block.
	require.Equal(t, 3, widget.Range.Start.Line)
	require.GreaterOrEqual(t, widget.Range.End.Line, 6)
	// The selection range stays on the name token.
	require.Equal(t, 3, widget.SelectionRange.Start.Line)
	require.Equal(t, 10, widget.SelectionRange.Start.Column)
}
