// Package docmodel owns the in-editor text buffer for a single Smithy or
// JSON source file: a UTF-8 string plus a cached, monotone line-start
// index, and the byte-offset <-> (line, column) conversions every other
// package builds on.
package docmodel

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Position is an LSP-style zero-based (line, column) pair.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open [Start, End) span expressed as positions.
type Range struct {
	Start Position
	End   Position
}

// Document is an owned UTF-8 text buffer with a cached line-start index.
//
// Invariant: lineStarts is always consistent with text; it is fully
// rebuilt on every mutation (Of, ApplyEdit). Nothing outside this package
// mutates text directly.
type Document struct {
	text       string
	lineStarts []int // byte offset of the start of each line; lineStarts[0] == 0
	fastHash   uint64
}

// Of takes ownership of text and computes its line index in O(n).
func Of(text string) *Document {
	d := &Document{text: text}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(d.text); i++ {
		if d.text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	d.fastHash = xxhash.Sum64String(d.text)
}

// Text returns the full buffer.
func (d *Document) Text() string { return d.text }

// FastHash returns a cheap xxhash content hash of the current text,
// recomputed on every mutation.
func (d *Document) FastHash() uint64 { return d.fastHash }

func (d *Document) lineCount() int { return len(d.lineStarts) }

// lineEndIndex returns the byte offset of line's terminating '\n' (or the
// end of text for the last line). The '\r' of a CRLF terminator counts as
// part of the line, so every byte offset PositionOf returns maps back to
// itself.
func (d *Document) lineEndIndex(line int) int {
	if line+1 < d.lineCount() {
		return d.lineStarts[line+1] - 1 // position of '\n'
	}
	return len(d.text)
}

// IndexOf converts a (line, column) position to a byte offset. Out-of-range
// positions are clamped to the nearest valid offset; it never panics.
func (d *Document) IndexOf(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= d.lineCount() {
		return len(d.text)
	}
	lineStart := d.lineStarts[pos.Line]
	lineEnd := d.lineEndIndex(pos.Line)
	idx := lineStart + pos.Column
	if idx < lineStart {
		return lineStart
	}
	if idx > lineEnd {
		return lineEnd
	}
	return idx
}

// PositionOf converts a byte offset to a (line, column) position. An
// offset beyond the end of the text is clamped to (lastLine, lastCol).
func (d *Document) PositionOf(idx int) Position {
	if idx < 0 {
		idx = 0
	}
	if idx > len(d.text) {
		idx = len(d.text)
	}
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > idx
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line, Column: idx - d.lineStarts[line]}
}

// LineEnd returns the byte offset of line's terminator (or end-of-text for
// the last line). Returns 0 for an out-of-range line.
func (d *Document) LineEnd(line int) int {
	if line < 0 || line >= d.lineCount() {
		return 0
	}
	if line+1 < d.lineCount() {
		return d.lineStarts[line+1] - 1
	}
	return len(d.text)
}

// RangeBetween builds an LSP range spanning [a, b). Returns false (no
// range) iff a > b or either offset is out of [0, len(text)].
func (d *Document) RangeBetween(a, b int) (Range, bool) {
	if a > b || a < 0 || b > len(d.text) {
		return Range{}, false
	}
	return Range{Start: d.PositionOf(a), End: d.PositionOf(b)}, true
}

// ApplyEdit replaces the text in [start, end) with replacement, rebuilding
// the line index. start/end are byte offsets, already clamped by the
// caller via IndexOf on the pre-edit document.
func (d *Document) ApplyEdit(start, end int, replacement string) {
	if start < 0 {
		start = 0
	}
	if end > len(d.text) {
		end = len(d.text)
	}
	if start > end {
		start = end
	}
	d.text = d.text[:start] + replacement + d.text[end:]
	d.reindex()
}

// ApplyRangeEdit is the Range-typed counterpart of ApplyEdit, matching the
// spec's operation signature (range, replacement string).
func (d *Document) ApplyRangeEdit(r Range, replacement string) {
	start := d.IndexOf(r.Start)
	end := d.IndexOf(r.End)
	d.ApplyEdit(start, end, replacement)
}

// CopyDocumentID returns the maximal shape-id token under the cursor
// (namespace, '#', name, '$', member), along with the byte range it
// covers. ok is false if the cursor isn't inside an identifier token.
func (d *Document) CopyDocumentID(idx int) (text string, start, end int, ok bool) {
	if idx < 0 || idx > len(d.text) {
		return "", 0, 0, false
	}
	isIDByte := func(b byte) bool {
		return b == '_' || b == '.' || b == '#' || b == '$' ||
			(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
	}
	// If the cursor sits just past the token (common for "end of word"
	// completion positions) step back one byte before scanning.
	probe := idx
	if probe > 0 && (probe >= len(d.text) || !isIDByte(d.text[probe])) {
		probe--
	}
	if probe < 0 || probe >= len(d.text) || !isIDByte(d.text[probe]) {
		return "", 0, 0, false
	}
	s, e := probe, probe
	for s > 0 && isIDByte(d.text[s-1]) {
		s--
	}
	for e < len(d.text) && isIDByte(d.text[e]) {
		e++
	}
	return d.text[s:e], s, e, true
}
