package project

import (
	"sync"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// SmithyFile is one IDL file owned by a Project: its document, and the
// current ParseResult, reparsed under a file-local lock so a concurrent
// reader always sees one coherent snapshot.
type SmithyFile struct {
	Path string

	mu     sync.Mutex
	doc    *docmodel.Document
	parsed *syntax.ParseResult
}

// NewSmithyFile parses text once and returns the owning file.
func NewSmithyFile(path, text string) *SmithyFile {
	doc := docmodel.Of(text)
	return &SmithyFile{Path: path, doc: doc, parsed: syntax.ParseIDL(text)}
}

// Document returns the current document. The returned pointer is only
// valid until the next Reparse; callers within a single request don't
// race with Reparse because Document mutation happens only on the
// dispatcher thread.
func (f *SmithyFile) Document() *docmodel.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc
}

// Parsed returns the current ParseResult.
func (f *SmithyFile) Parsed() *syntax.ParseResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parsed
}

// Reparse replaces the document and ParseResult atomically under the
// file-local lock.
func (f *SmithyFile) Reparse(text string) {
	doc := docmodel.Of(text)
	parsed := syntax.ParseIDL(text)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = doc
	f.parsed = parsed
}
