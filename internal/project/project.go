// Package project owns the reassembly protocol: given a set of IDL
// files and their build configuration, it keeps a Model and its
// RebuildIndex current as files are opened, edited, closed and removed.
package project

import (
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	smithyerrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
)

// Kind classifies how a Project came to exist.
type Kind int

const (
	// KindNormal is a project loaded from a real build configuration.
	KindNormal Kind = iota
	// KindDetached wraps a single file opened with no enclosing project
	// (no smithy-build.json found in any ancestor directory).
	KindDetached
	// KindEmpty is the degenerate project with no files at all, used
	// before the first successful load completes.
	KindEmpty
)

// Project is one loaded Smithy project: its resolved build
// configuration, the files it owns, and the assembled model those files
// produce. All reads go through RLock; InitialLoad and UpdateFiles are
// the writers and hold the write lock for their whole run.
type Project struct {
	Kind   Kind
	Config *ProjectConfig

	assemblerFactory AssemblerFactory

	mu           sync.RWMutex
	files        map[string]*SmithyFile
	asm          Assembler // created by the first load; retains staged text across updates
	modelResult  *model.Model
	rebuildIndex *RebuildIndex
	events       []ValidationEvent
}

// New constructs an unloaded Project. Call InitialLoad before using it.
func New(kind Kind, cfg *ProjectConfig, factory AssemblerFactory) *Project {
	if factory == nil {
		factory = NewLocalAssembler
	}
	return &Project{
		Kind:             kind,
		Config:           cfg,
		assemblerFactory: factory,
		files:            map[string]*SmithyFile{},
	}
}

// Model returns the current assembled model and rebuild index, safe to
// call from any goroutine.
func (p *Project) Model() (*model.Model, *RebuildIndex) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modelResult, p.rebuildIndex
}

// Events returns the validation events from the most recent assembly.
func (p *Project) Events() []ValidationEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.events
}

// File returns the SmithyFile for path, if loaded.
func (p *Project) File(path string) (*SmithyFile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.files[path]
	return f, ok
}

// Files returns every path currently loaded, in no particular order.
func (p *Project) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.files))
	for path := range p.files {
		out = append(out, path)
	}
	return out
}

// InitialLoad reads every resolved model path from disk, parses it, and
// runs the first assembly pass. Call once, before any UpdateFiles.
// Reads and parses fan out across files; assembly itself is sequential.
func (p *Project) InitialLoad() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	asm := p.assemblerFactory()

	var g errgroup.Group
	g.SetLimit(8)
	var stageMu sync.Mutex
	for _, path := range p.Config.ResolvedModelPaths {
		path := path
		g.Go(func() error {
			text, err := os.ReadFile(path)
			if err != nil {
				return smithyerrors.NewIOError("read", path, err)
			}
			f := NewSmithyFile(path, string(text))
			stageMu.Lock()
			p.files[path] = f
			asm.PutFile(path, string(text))
			stageMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m, events, err := asm.Assemble()
	if err != nil {
		return smithyerrors.NewRequestFailed("InitialLoad", "assembly failed", err)
	}
	p.asm = asm
	p.modelResult = m
	p.rebuildIndex = BuildRebuildIndex(m)
	p.events = events
	return nil
}

// UpdateFiles applies a batch of added/removed/changed files and
// reassembles the model. changedText supplies the new text for paths in
// changed or added (typically from the dispatcher's managed document);
// a path with no entry in changedText is read from disk. Calling with three empty slices is a no-op that leaves the
// published model and rebuild index untouched (idempotence).
//
// Only the visited closure is refed to the assembler: the batch itself,
// widened through the rebuild index so a file whose own text is
// unchanged but that shares a cross-file trait relationship with a
// changed file gets its text restaged too. Files outside the closure
// keep their previously staged text, which is also what preserves their
// cross-file trait applications across the reassembly; there is no
// separate trait-replay step to run against this Assembler contract.
func (p *Project) UpdateFiles(added, removed, changed []string, changedText map[string]string) error {
	if len(added) == 0 && len(removed) == 0 && len(changed) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.modelResult == nil {
		return nil // no initial load yet: nothing to incrementally update
	}

	removedSet := toSet(removed)
	visited := map[string]bool{}
	for _, path := range append(append([]string{}, removed...), changed...) {
		visited[path] = true
		if p.rebuildIndex == nil {
			continue
		}
		for _, dep := range p.rebuildIndex.DependentFilesOf(path) {
			if !removedSet[dep] {
				visited[dep] = true
			}
		}
	}

	for _, path := range removed {
		delete(p.files, path)
		p.asm.RemoveFile(path)
	}
	for _, path := range added {
		text, ok := changedText[path]
		if !ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return smithyerrors.NewIOError("read", path, err)
			}
			text = string(data)
		}
		p.files[path] = NewSmithyFile(path, text)
		visited[path] = true
	}
	for _, path := range changed {
		text, ok := changedText[path]
		if !ok {
			data, err := os.ReadFile(path)
			if err != nil {
				// Skip just this file; the rest of the batch proceeds.
				log.Printf("project: read %s: %v", path, err)
				delete(visited, path)
				continue
			}
			text = string(data)
		}
		if f, ok := p.files[path]; ok {
			f.Reparse(text)
		} else {
			p.files[path] = NewSmithyFile(path, text)
		}
	}

	for path := range visited {
		if removedSet[path] {
			continue
		}
		f, ok := p.files[path]
		if !ok {
			continue
		}
		p.asm.PutFile(path, f.Document().Text())
	}

	m, events, err := p.asm.Assemble()
	if err != nil {
		return smithyerrors.NewRequestFailed("UpdateFiles", "assembly failed", err)
	}
	p.modelResult = m
	p.rebuildIndex = BuildRebuildIndex(m)
	p.events = events
	return nil
}

func toSet(ss []string) map[string]bool {
	out := make(map[string]bool, len(ss))
	for _, s := range ss {
		out[s] = true
	}
	return out
}

