package lspserver

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/features"
)

// serverCapabilities extends protocol.ServerCapabilities with the inlay
// hint capability; the protocol module predates LSP 3.17, so the field
// is declared here and flattened into the capabilities object by the
// JSON encoder.
type serverCapabilities struct {
	protocol.ServerCapabilities
	InlayHintProvider bool `json:"inlayHintProvider,omitempty"`
}

type initializeResult struct {
	Capabilities serverCapabilities   `json:"capabilities"`
	ServerInfo   *protocol.ServerInfo `json:"serverInfo,omitempty"`
}

// SymbolKind numeric values from the LSP specification; the handful the
// outline uses, pinned by value so they survive protocol-module renames.
const (
	symbolKindNamespace protocol.SymbolKind = 3
	symbolKindClass     protocol.SymbolKind = 5
	symbolKindField     protocol.SymbolKind = 8
)

func toProtocolPosition(p docmodel.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Column)}
}

func fromProtocolPosition(p protocol.Position) docmodel.Position {
	return docmodel.Position{Line: int(p.Line), Column: int(p.Character)}
}

func toProtocolRange(r docmodel.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func toProtocolDiagnostics(diags []features.Diagnostic) []protocol.Diagnostic {
	// Non-nil so a file whose problems were all fixed publishes an empty
	// list and the editor clears its markers.
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: protocol.DiagnosticSeverity(d.Severity),
			Code:     d.Code,
			Source:   serverName,
			Message:  d.Message,
		})
	}
	return out
}

func toProtocolCompletionItems(items []features.CompletionItem) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		pit := protocol.CompletionItem{
			Label:  it.Label,
			Detail: it.Detail,
			TextEdit: &protocol.TextEdit{
				Range:   toProtocolRange(it.Edit.Range),
				NewText: it.Edit.NewText,
			},
		}
		if it.Documentation != "" {
			pit.Documentation = protocol.MarkupContent{Kind: protocol.Markdown, Value: it.Documentation}
		}
		for _, extra := range it.Additional {
			pit.AdditionalTextEdits = append(pit.AdditionalTextEdits, protocol.TextEdit{
				Range:   toProtocolRange(extra.Range),
				NewText: extra.NewText,
			})
		}
		out = append(out, pit)
	}
	return out
}

func toProtocolSymbols(symbols []features.DocumentSymbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		kind := symbolKindClass
		switch sym.Kind {
		case features.SymbolNamespace:
			kind = symbolKindNamespace
		case features.SymbolMember:
			kind = symbolKindField
		}
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Detail,
			Kind:           kind,
			Range:          toProtocolRange(sym.Range),
			SelectionRange: toProtocolRange(sym.SelectionRange),
			Children:       toProtocolSymbols(sym.Children),
		})
	}
	return out
}

func toProtocolFoldingRanges(ranges []features.FoldingRange) []protocol.FoldingRange {
	out := make([]protocol.FoldingRange, 0, len(ranges))
	for _, fr := range ranges {
		out = append(out, protocol.FoldingRange{
			StartLine: uint32(fr.StartLine),
			EndLine:   uint32(fr.EndLine),
			Kind:      protocol.FoldingRangeKind(fr.Kind),
		})
	}
	return out
}

func toProtocolLocations(refs []features.ReferenceLocation) []protocol.Location {
	out := make([]protocol.Location, 0, len(refs))
	for _, r := range refs {
		out = append(out, protocol.Location{URI: uri.File(r.Path), Range: toProtocolRange(r.Range)})
	}
	return out
}

func toWorkspaceEdit(edits []features.RenameEdit) *protocol.WorkspaceEdit {
	changes := map[uri.URI][]protocol.TextEdit{}
	for _, fe := range edits {
		u := uri.File(fe.Path)
		for _, e := range fe.Edits {
			changes[u] = append(changes[u], protocol.TextEdit{
				Range:   toProtocolRange(e.Range),
				NewText: e.NewText,
			})
		}
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}
