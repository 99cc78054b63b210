package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const opText = "$version: \"2\"\nnamespace com.a\n\noperation GetThing {\n    input := {\n        id: String\n    }\n    output := {\n        thing: String\n    }\n}\n"

func TestComputeInlayHints_DefaultSuffixes(t *testing.T) {
	p, paths := newTestProject(t, map[string]string{"a.smithy": opText})

	hints := ComputeInlayHints(p, paths["a.smithy"])
	require.Len(t, hints, 2)
	require.Equal(t, "GetThingInput", hints[0].Label)
	require.Equal(t, "GetThingOutput", hints[1].Label)
	require.Equal(t, 4, hints[0].Position.Line)
}

func TestComputeInlayHints_SuffixOverride(t *testing.T) {
	text := "$version: \"2\"\n$operationInputSuffix: \"Request\"\n$operationOutputSuffix: \"Response\"\nnamespace com.a\n\noperation GetThing {\n    input := {\n        id: String\n    }\n    output := {\n        thing: String\n    }\n}\n"
	p, paths := newTestProject(t, map[string]string{"a.smithy": text})

	hints := ComputeInlayHints(p, paths["a.smithy"])
	require.Len(t, hints, 2)
	require.Equal(t, "GetThingRequest", hints[0].Label)
	require.Equal(t, "GetThingResponse", hints[1].Label)
}
