package lspserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/goleak"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/features"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/manager"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer() *Server {
	return NewServer(manager.New(nil), project.SeverityWarning)
}

func TestInitialize_Capabilities(t *testing.T) {
	s := newTestServer()
	result := s.initialize(&protocol.InitializeParams{})

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	body := string(raw)
	require.Contains(t, body, `"inlayHintProvider":true`)
	require.Contains(t, body, `"prepareProvider":true`)
	require.Contains(t, body, `"openClose":true`)
	require.Contains(t, body, serverName)
}

func TestInitialize_RecordsRoot(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer()
	s.initialize(&protocol.InitializeParams{RootURI: uri.File(dir)})
	require.Equal(t, dir, s.root)
}

func TestCompletion_CancelledTokenReturnsEmpty(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	params := &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri.File("/nowhere/a.smithy")},
		},
	}
	list := s.completion(ctx, params)
	require.NotNil(t, list)
	require.Empty(t, list.Items)
}

func TestConvert_RangeRoundtrip(t *testing.T) {
	r := docmodel.Range{
		Start: docmodel.Position{Line: 1, Column: 2},
		End:   docmodel.Position{Line: 3, Column: 4},
	}
	pr := toProtocolRange(r)
	require.Equal(t, uint32(1), pr.Start.Line)
	require.Equal(t, uint32(2), pr.Start.Character)
	require.Equal(t, r.Start, fromProtocolPosition(pr.Start))
	require.Equal(t, r.End, fromProtocolPosition(pr.End))
}

func TestConvert_DiagnosticsNeverNil(t *testing.T) {
	out := toProtocolDiagnostics(nil)
	require.NotNil(t, out)
	require.Empty(t, out)

	out = toProtocolDiagnostics([]features.Diagnostic{{
		Severity: features.SeverityWarning,
		Code:     "detached-file",
		Message:  "file isn't attached to a project",
	}})
	require.Len(t, out, 1)
	require.Equal(t, protocol.DiagnosticSeverity(2), out[0].Severity)
	require.Equal(t, "detached-file", out[0].Code)
}

func TestConvert_CompletionItems(t *testing.T) {
	items := toProtocolCompletionItems([]features.CompletionItem{{
		Label:         "documentation",
		Detail:        "smithy.api#documentation",
		Documentation: "Adds documentation to a shape or member.",
		Edit: features.CompletionEdit{
			Range:   docmodel.Range{Start: docmodel.Position{Line: 2, Column: 1}, End: docmodel.Position{Line: 2, Column: 4}},
			NewText: "documentation",
		},
		Additional: []features.CompletionEdit{{NewText: "use com.b#Widget\n"}},
	}})
	require.Len(t, items, 1)
	require.Equal(t, "documentation", items[0].Label)
	require.NotNil(t, items[0].TextEdit)
	require.Equal(t, "documentation", items[0].TextEdit.NewText)
	require.Len(t, items[0].AdditionalTextEdits, 1)
}

func TestConvert_WorkspaceEdit(t *testing.T) {
	we := toWorkspaceEdit([]features.RenameEdit{
		{Path: "/x/a.smithy", Edits: []features.CompletionEdit{{NewText: "Foo"}, {NewText: ""}}},
		{Path: "/x/b.smithy", Edits: []features.CompletionEdit{{NewText: "com.b#Foo"}}},
	})
	require.Len(t, we.Changes, 2)
	require.Len(t, we.Changes[uri.File("/x/a.smithy")], 2)
	require.Equal(t, "com.b#Foo", we.Changes[uri.File("/x/b.smithy")][0].NewText)
}

func TestConvert_Symbols(t *testing.T) {
	out := toProtocolSymbols([]features.DocumentSymbol{{
		Name: "Widget",
		Kind: features.SymbolShape,
		Children: []features.DocumentSymbol{
			{Name: "name", Kind: features.SymbolMember},
		},
	}})
	require.Len(t, out, 1)
	require.Equal(t, symbolKindClass, out[0].Kind)
	require.Len(t, out[0].Children, 1)
	require.Equal(t, symbolKindField, out[0].Children[0].Kind)
}
