package project

import "path/filepath"

// NewDetached builds a single-file project for an IDL file opened with
// no enclosing smithy-build.json: it gets
// its own assembler instance seeded with just that one file, so it
// still has working hover/completion/diagnostics, but its shapes never
// see any other file's definitions.
//
// path/text is the file's initial content; the caller typically has
// this already from the didOpen notification that triggered detachment.
func NewDetached(path, text string, factory AssemblerFactory) (*Project, error) {
	cfg := &ProjectConfig{
		Root:               filepath.Dir(path),
		ResolvedModelPaths: []string{path},
	}
	p := New(KindDetached, cfg, factory)
	p.files[path] = NewSmithyFile(path, text)

	asm := p.assemblerFactory()
	asm.PutFile(path, text)
	m, events, err := asm.Assemble()
	if err != nil {
		return nil, err
	}
	p.asm = asm
	p.modelResult = m
	p.rebuildIndex = BuildRebuildIndex(m)
	p.events = events
	return p, nil
}
