package lspserver

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/features"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/rpcerrors"
)

// methodTextDocumentInlayHint and the wire types below are declared
// locally: the protocol module stops at LSP 3.16 and has no inlay hint
// support of its own.
const methodTextDocumentInlayHint = "textDocument/inlayHint"

type inlayHintParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Range        protocol.Range                  `json:"range"`
}

type inlayHint struct {
	Position     protocol.Position `json:"position"`
	Label        string            `json:"label"`
	PaddingRight bool              `json:"paddingRight,omitempty"`
}

// Every request handler checks cancellation before touching project
// state and returns its empty result on a cancelled token; no
// rollback is ever needed because handlers only read.

func (s *Server) completion(ctx context.Context, params *protocol.CompletionParams) *protocol.CompletionList {
	empty := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
	if ctx.Err() != nil {
		return empty
	}
	p, idx, ok := s.projectAndIndex(params.TextDocument.URI.Filename(), params.Position)
	if !ok {
		return empty
	}
	items := features.ComputeCompletion(p, params.TextDocument.URI.Filename(), idx, nil)
	return &protocol.CompletionList{IsIncomplete: false, Items: toProtocolCompletionItems(items)}
}

func (s *Server) hover(ctx context.Context, params *protocol.HoverParams) *protocol.Hover {
	if ctx.Err() != nil {
		return nil
	}
	p, idx, ok := s.projectAndIndex(params.TextDocument.URI.Filename(), params.Position)
	if !ok {
		return nil
	}
	h := features.ComputeHover(p, params.TextDocument.URI.Filename(), idx)
	if h.Markdown == "" {
		return nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: h.Markdown},
	}
}

func (s *Server) documentSymbols(ctx context.Context, params *protocol.DocumentSymbolParams) []protocol.DocumentSymbol {
	if ctx.Err() != nil {
		return []protocol.DocumentSymbol{}
	}
	path := params.TextDocument.URI.Filename()
	p, _, ok := s.projectAndIndex(path, protocol.Position{})
	if !ok {
		return []protocol.DocumentSymbol{}
	}
	return toProtocolSymbols(features.ComputeDocumentSymbols(p, path))
}

func (s *Server) foldingRanges(ctx context.Context, params *protocol.FoldingRangeParams) []protocol.FoldingRange {
	if ctx.Err() != nil {
		return []protocol.FoldingRange{}
	}
	path := params.TextDocument.URI.Filename()
	p, _, ok := s.projectAndIndex(path, protocol.Position{})
	if !ok {
		return []protocol.FoldingRange{}
	}
	return toProtocolFoldingRanges(features.ComputeFoldingRanges(p, path))
}

func (s *Server) inlayHints(ctx context.Context, params *inlayHintParams) []inlayHint {
	if ctx.Err() != nil {
		return []inlayHint{}
	}
	path := params.TextDocument.URI.Filename()
	p, _, ok := s.projectAndIndex(path, protocol.Position{})
	if !ok {
		return []inlayHint{}
	}
	hints := features.ComputeInlayHints(p, path)
	out := make([]inlayHint, 0, len(hints))
	for _, h := range hints {
		out = append(out, inlayHint{
			Position:     toProtocolPosition(h.Position),
			Label:        h.Label,
			PaddingRight: true,
		})
	}
	return out
}

func (s *Server) references(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	if ctx.Err() != nil {
		return []protocol.Location{}, nil
	}
	path := params.TextDocument.URI.Filename()
	p, idx, ok := s.projectAndIndex(path, params.Position)
	if !ok {
		return []protocol.Location{}, nil
	}
	refs, err := features.FindReferencesAt(p, path, idx)
	if err != nil {
		return nil, rpcerrors.ToRPCError(err)
	}
	return toProtocolLocations(refs), nil
}

func (s *Server) prepareRename(ctx context.Context, params *protocol.TextDocumentPositionParams) *protocol.Range {
	if ctx.Err() != nil {
		return nil
	}
	path := params.TextDocument.URI.Filename()
	p, idx, ok := s.projectAndIndex(path, params.Position)
	if !ok {
		return nil
	}
	r, ok := features.PrepareRename(p, path, idx)
	if !ok {
		return nil
	}
	pr := toProtocolRange(r)
	return &pr
}

func (s *Server) rename(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	if ctx.Err() != nil {
		return nil, nil
	}
	path := params.TextDocument.URI.Filename()
	p, idx, ok := s.projectAndIndex(path, params.Position)
	if !ok {
		return nil, nil
	}
	edits, err := features.ComputeRename(p, path, idx, params.NewName)
	if err != nil {
		return nil, rpcerrors.ToRPCError(err)
	}
	return toWorkspaceEdit(edits), nil
}
