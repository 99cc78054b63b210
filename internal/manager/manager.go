// Package manager owns every loaded Project and routes an editor URI to
// the Project that owns it, creating ad-hoc detached projects for files
// that belong to none.
package manager

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

// ManagedDocument is the in-editor text for an open URI, kept
// independently of any Project so a detached project can be created (or
// a file looked up) before its owning Project is known.
type ManagedDocument struct {
	URI  string
	Text string
}

// Manager is the single owner of every Project; all other packages reach
// a Project only through it.
type Manager struct {
	mu sync.RWMutex

	roots    []string            // project roots, longest-prefix-first
	projects map[string]*project.Project // root -> Project
	byFile   map[string]string           // file path -> owning root (or a detached key)

	detached map[string]*project.Project // file path -> its own detached Project
	managed  map[string]*ManagedDocument // uri -> open buffer

	factory project.AssemblerFactory
}

// New creates an empty Manager. factory is used for every Project
// (normal and detached) it creates; nil selects the default local
// assembler.
func New(factory project.AssemblerFactory) *Manager {
	if factory == nil {
		factory = project.NewLocalAssembler
	}
	return &Manager{
		projects: map[string]*project.Project{},
		byFile:   map[string]string{},
		detached: map[string]*project.Project{},
		managed:  map[string]*ManagedDocument{},
		factory:  factory,
	}
}

// LoadProject resolves root's build configuration, performs its initial
// load, and registers it. Roots are tried longest-path-first when
// routing a file, so nested projects are supported.
func (m *Manager) LoadProject(root string) (*project.Project, error) {
	cfg, err := project.LoadProjectConfig(root)
	if err != nil {
		return nil, err
	}
	p := project.New(project.KindNormal, cfg, m.factory)
	if err := p.InitialLoad(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[root] = p
	m.roots = append(m.roots, root)
	sortRootsLongestFirst(m.roots)
	for _, path := range p.Files() {
		m.byFile[path] = root
	}
	return p, nil
}

func sortRootsLongestFirst(roots []string) {
	for i := 1; i < len(roots); i++ {
		for j := i; j > 0 && len(roots[j]) > len(roots[j-1]); j-- {
			roots[j], roots[j-1] = roots[j-1], roots[j]
		}
	}
}

// PutManagedDocument records/updates the in-editor text for uri.
func (m *Manager) PutManagedDocument(uri, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.managed[uri] = &ManagedDocument{URI: uri, Text: text}
}

// RemoveManagedDocument forgets uri's in-editor text (on didClose).
func (m *Manager) RemoveManagedDocument(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.managed, uri)
}

// ManagedURIs returns every URI with an open editor buffer.
func (m *Manager) ManagedURIs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.managed))
	for u := range m.managed {
		out = append(out, u)
	}
	return out
}

// ManagedText returns the current editor buffer for uri, if open.
func (m *Manager) ManagedText(uri string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.managed[uri]
	if !ok {
		return "", false
	}
	return d.Text, true
}

// ProjectFor returns the Project owning path, creating a detached
// project from text if path belongs to no configured root.
func (m *Manager) ProjectFor(path, text string) (*project.Project, error) {
	m.mu.RLock()
	if root, ok := m.byFile[path]; ok {
		p := m.projects[root]
		m.mu.RUnlock()
		return p, nil
	}
	for _, root := range m.roots {
		if isUnder(root, path) {
			m.mu.RUnlock()
			return m.attachToRoot(root, path, text)
		}
	}
	if p, ok := m.detached[path]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	p, err := project.NewDetached(path, text, m.factory)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.detached[path] = p
	m.mu.Unlock()
	return p, nil
}

func (m *Manager) attachToRoot(root, path, text string) (*project.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.projects[root]
	if err := p.UpdateFiles([]string{path}, nil, nil, map[string]string{path: text}); err != nil {
		return nil, err
	}
	m.byFile[path] = root
	return p, nil
}

// CloseFile drops path's detached project, if it had one; files that
// belong to a real Project stay loaded (closing an editor buffer
// doesn't remove the file from its project).
func (m *Manager) CloseFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.detached, path)
}

// ApplyWatchedChanges routes a filesystem watch batch to every Project
// whose root contains at least one of the changed paths.
func (m *Manager) ApplyWatchedChanges(added, changed, removed []string) error {
	m.mu.RLock()
	byRoot := map[string]*[3][]string{}
	classify := func(path string, slot int) {
		for _, root := range m.roots {
			if isUnder(root, path) {
				b, ok := byRoot[root]
				if !ok {
					b = &[3][]string{}
					byRoot[root] = b
				}
				b[slot] = append(b[slot], path)
				return
			}
		}
	}
	for _, p := range added {
		classify(p, 0)
	}
	for _, p := range changed {
		classify(p, 1)
	}
	for _, p := range removed {
		classify(p, 2)
	}
	m.mu.RUnlock()

	for root, batch := range byRoot {
		m.mu.RLock()
		p := m.projects[root]
		m.mu.RUnlock()
		if err := p.UpdateFiles(batch[0], batch[2], batch[1], nil); err != nil {
			return err
		}
		m.mu.Lock()
		for _, path := range batch[0] {
			m.byFile[path] = root
		}
		for _, path := range batch[2] {
			delete(m.byFile, path)
		}
		m.mu.Unlock()
	}
	return nil
}

func isUnder(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
