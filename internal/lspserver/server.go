// Package lspserver is the JSON-RPC dispatcher in front of the feature
// handlers: it decodes LSP requests, routes them to internal/features
// against the project state internal/manager owns, and serializes the
// results back onto the wire. Handlers run synchronously on the
// connection's dispatch loop;
// the only blocking work is reassembly and disk reads, both driven from
// notification handlers.
package lspserver

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/manager"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/watch"
)

const serverName = "smithy-language-server"

// watchDebounce is how long the filesystem watcher coalesces events
// before handing a batch to the project manager.
const watchDebounce = 200 * time.Millisecond

// Server owns one LSP session: a connection, the project manager, and
// the filesystem watcher for the workspace root.
type Server struct {
	manager     *manager.Manager
	minSeverity project.Severity

	mu       sync.Mutex
	conn     jsonrpc2.Conn
	watcher  *watch.Watcher
	watchWG  sync.WaitGroup
	root     string
	shutdown bool
}

// NewServer creates a Server around m. Diagnostics below minSeverity are
// suppressed.
func NewServer(m *manager.Manager, minSeverity project.Severity) *Server {
	return &Server{manager: m, minSeverity: minSeverity}
}

// Serve runs the session over stream until the client disconnects or
// sends exit. The returned error is nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, stream jsonrpc2.Stream) error {
	conn := jsonrpc2.NewConn(stream)
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	conn.Go(ctx, s.handle)
	<-conn.Done()
	s.stopWatcher()

	if err := conn.Err(); err != nil && ctx.Err() == nil && !s.didShutdown() {
		return err
	}
	return nil
}

func (s *Server) didShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// handle is the single dispatch point for every request and
// notification on the connection.
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.initialize(&params), nil)

	case protocol.MethodInitialized:
		s.initialized(ctx)
		return reply(ctx, nil, nil)

	case protocol.MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return reply(ctx, nil, nil)

	case protocol.MethodExit:
		err := reply(ctx, nil, nil)
		s.stopWatcher()
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return err

	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		s.didOpen(ctx, &params)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		s.didChange(ctx, &params)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		s.didClose(ctx, &params)
		return reply(ctx, nil, nil)

	case protocol.MethodWorkspaceDidChangeWatchedFiles:
		var params protocol.DidChangeWatchedFilesParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		s.didChangeWatchedFiles(ctx, &params)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentCompletion:
		var params protocol.CompletionParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.completion(ctx, &params), nil)

	case protocol.MethodTextDocumentHover:
		var params protocol.HoverParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.hover(ctx, &params), nil)

	case protocol.MethodTextDocumentDocumentSymbol:
		var params protocol.DocumentSymbolParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.documentSymbols(ctx, &params), nil)

	case protocol.MethodTextDocumentFoldingRange:
		var params protocol.FoldingRangeParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.foldingRanges(ctx, &params), nil)

	case methodTextDocumentInlayHint:
		var params inlayHintParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.inlayHints(ctx, &params), nil)

	case protocol.MethodTextDocumentReferences:
		var params protocol.ReferenceParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		locs, err := s.references(ctx, &params)
		return reply(ctx, locs, err)

	case protocol.MethodTextDocumentPrepareRename:
		var params protocol.TextDocumentPositionParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		return reply(ctx, s.prepareRename(ctx, &params), nil)

	case protocol.MethodTextDocumentRename:
		var params protocol.RenameParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, invalidParams(err))
		}
		edit, err := s.rename(ctx, &params)
		return reply(ctx, edit, err)

	case "$/cancelRequest":
		// Handlers are synchronous, so by the time a cancel arrives the
		// request it names has already been answered.
		return reply(ctx, nil, nil)

	default:
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "unsupported method: "+req.Method()))
	}
}

func invalidParams(err error) error {
	return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
}

// initialize records the workspace root and advertises capabilities.
// Project loading waits for the initialized notification so the
// response goes out promptly.
func (s *Server) initialize(params *protocol.InitializeParams) *initializeResult {
	root := ""
	if params.RootURI != "" {
		root = params.RootURI.Filename()
	} else if params.RootPath != "" {
		root = params.RootPath
	}
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()

	return &initializeResult{
		Capabilities: serverCapabilities{
			ServerCapabilities: protocol.ServerCapabilities{
				TextDocumentSync: protocol.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    protocol.TextDocumentSyncKindIncremental,
				},
				CompletionProvider: &protocol.CompletionOptions{
					TriggerCharacters: []string{"@", "$", "#", "."},
				},
				HoverProvider:          true,
				DocumentSymbolProvider: true,
				FoldingRangeProvider:   true,
				ReferencesProvider:     true,
				RenameProvider:         protocol.RenameOptions{PrepareProvider: true},
			},
			InlayHintProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{Name: serverName},
	}
}

// initialized performs the blocking part of startup: the workspace
// project load and the filesystem watcher.
func (s *Server) initialized(ctx context.Context) {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root == "" {
		return
	}

	if _, err := s.manager.LoadProject(root); err != nil {
		log.Printf("lsp: initial project load for %s failed: %v", root, err)
	}
	s.startWatcher(ctx, root)
}

// watchPatterns is every filename the server reacts to on disk: IDL
// sources, JSON models, and the build-file family.
var watchPatterns = []string{
	"**/*.smithy",
	"**/*.json",
	"smithy-build.json",
	".smithy-project.json",
	".smithy.json",
	"build/smithy-dependencies.json",
}

func (s *Server) startWatcher(ctx context.Context, root string) {
	w, err := watch.New(root, watchPatterns, watchDebounce)
	if err != nil {
		log.Printf("lsp: watcher setup failed: %v", err)
		return
	}
	batches, err := w.Start()
	if err != nil {
		log.Printf("lsp: watcher start failed: %v", err)
		_ = w.Close()
		return
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()

	s.watchWG.Add(1)
	go func() {
		defer s.watchWG.Done()
		for b := range batches {
			if err := s.manager.ApplyWatchedChanges(b.Added, b.Changed, b.Removed); err != nil {
				log.Printf("lsp: watched-file update failed: %v", err)
			}
			s.republishOpenFiles(ctx)
		}
	}()
}

func (s *Server) stopWatcher() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		_ = w.Close()
		s.watchWG.Wait()
	}
}
