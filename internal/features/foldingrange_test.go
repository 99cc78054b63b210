package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeFoldingRanges_ImportsAndBlocks(t *testing.T) {
	a := "$version: \"2\"\nnamespace com.a\n\nstructure A {}\nstructure B {}\n"
	b := "$version: \"2\"\nnamespace com.b\n\nuse com.a#A\nuse com.a#B\n\nstructure Holder {\n    x: A\n    y: B\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": a, "b.smithy": b})

	ranges := ComputeFoldingRanges(p, paths["b.smithy"])

	var imports, regions int
	for _, fr := range ranges {
		switch fr.Kind {
		case FoldImports:
			imports++
			require.Equal(t, 3, fr.StartLine)
			require.Equal(t, 4, fr.EndLine)
		case FoldRegion:
			regions++
		}
	}
	require.Equal(t, 1, imports)
	require.GreaterOrEqual(t, regions, 1, "the structure block should fold")
}

func TestComputeFoldingRanges_TraitRun(t *testing.T) {
	text := "$version: \"2\"\nnamespace com.a\n\n@deprecated\n@documentation(\"x\")\nstructure Widget {}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	ranges := ComputeFoldingRanges(p, paths["a.smithy"])
	found := false
	for _, fr := range ranges {
		if fr.StartLine == 3 && fr.EndLine == 4 {
			found = true
		}
	}
	require.True(t, found, "contiguous trait applications should fold: %v", ranges)
}
