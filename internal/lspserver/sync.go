package lspserver

import (
	"context"
	"log"
	"os"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/features"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

func (s *Server) didOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) {
	path := params.TextDocument.URI.Filename()
	text := params.TextDocument.Text
	s.manager.PutManagedDocument(path, text)

	p, err := s.manager.ProjectFor(path, text)
	if err != nil {
		log.Printf("lsp: didOpen %s: %v", path, err)
		return
	}
	// A file already loaded from disk may differ from the editor buffer.
	if f, ok := p.File(path); ok && f.Document().Text() != text {
		if err := p.UpdateFiles(nil, nil, []string{path}, map[string]string{path: text}); err != nil {
			log.Printf("lsp: didOpen reload %s: %v", path, err)
		}
	}
	s.publishDiagnostics(ctx, p, path)
}

func (s *Server) didChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) {
	path := params.TextDocument.URI.Filename()
	text, ok := s.manager.ManagedText(path)
	if !ok {
		log.Printf("lsp: didChange for unopened file %s", path)
		return
	}

	doc := docmodel.Of(text)
	for _, change := range params.ContentChanges {
		if change.Range == (protocol.Range{}) {
			doc = docmodel.Of(change.Text)
			continue
		}
		start := doc.IndexOf(fromProtocolPosition(change.Range.Start))
		end := doc.IndexOf(fromProtocolPosition(change.Range.End))
		doc.ApplyEdit(start, end, change.Text)
	}
	newText := doc.Text()
	s.manager.PutManagedDocument(path, newText)

	p, err := s.manager.ProjectFor(path, newText)
	if err != nil {
		log.Printf("lsp: didChange %s: %v", path, err)
		return
	}
	if err := p.UpdateFiles(nil, nil, []string{path}, map[string]string{path: newText}); err != nil {
		log.Printf("lsp: didChange reload %s: %v", path, err)
		return
	}
	s.publishDiagnostics(ctx, p, path)
}

func (s *Server) didClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) {
	path := params.TextDocument.URI.Filename()
	s.manager.RemoveManagedDocument(path)
	s.manager.CloseFile(path)
}

func (s *Server) didChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) {
	var added, changed, removed []string
	for _, ev := range params.Changes {
		path := ev.URI.Filename()
		switch int(ev.Type) {
		case 1: // created
			added = append(added, path)
		case 3: // deleted
			removed = append(removed, path)
		default:
			changed = append(changed, path)
		}
	}
	if err := s.manager.ApplyWatchedChanges(added, changed, removed); err != nil {
		log.Printf("lsp: watched-file update failed: %v", err)
	}
	s.republishOpenFiles(ctx)
}

// publishDiagnostics pushes path's current diagnostics: model events plus
// the version/detached checks for IDL files, or the config loader's
// structural events for build files.
func (s *Server) publishDiagnostics(ctx context.Context, p *project.Project, path string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	var diags []features.Diagnostic
	if _, ok := p.File(path); ok {
		diags = features.Diagnostics(p, path, s.minSeverity)
	} else if p.Config != nil {
		diags = features.BuildFileDiagnostics(p.Config.Events)
	}

	params := &protocol.PublishDiagnosticsParams{
		URI:         uri.File(path),
		Diagnostics: toProtocolDiagnostics(diags),
	}
	if err := conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params); err != nil {
		log.Printf("lsp: publish diagnostics for %s: %v", path, err)
	}
}

func (s *Server) republishOpenFiles(ctx context.Context) {
	for _, path := range s.manager.ManagedURIs() {
		text, _ := s.manager.ManagedText(path)
		p, err := s.manager.ProjectFor(path, text)
		if err != nil {
			continue
		}
		s.publishDiagnostics(ctx, p, path)
	}
}

// projectAndIndex resolves the project owning path and the byte offset
// pos names inside it, the common prologue of every positional request.
func (s *Server) projectAndIndex(path string, pos protocol.Position) (*project.Project, int, bool) {
	text, ok := s.manager.ManagedText(path)
	if !ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, false
		}
		text = string(raw)
	}
	p, err := s.manager.ProjectFor(path, text)
	if err != nil {
		return nil, 0, false
	}
	f, ok := p.File(path)
	if !ok {
		return nil, 0, false
	}
	return p, f.Document().IndexOf(fromProtocolPosition(pos)), true
}
