// Package watch turns raw filesystem notifications into the debounced
// (added, changed, removed) URI-set stream Project.UpdateFiles consumes.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Batch is one debounced round of filesystem changes, ready to hand to
// Project.update_files.
type Batch struct {
	Added   []string
	Changed []string
	Removed []string
}

// Watcher recursively watches root, filtering to glob patterns (typically
// "**/*.smithy" and the project's build-file names) and coalescing rapid
// successive events into a single Batch per debounce window.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	patterns []string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]fsnotify.Op
}

// New creates a Watcher rooted at root, matching any of patterns (glob,
// doublestar-style, evaluated against paths relative to root).
func New(root string, patterns []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		root:     root,
		patterns: patterns,
		debounce: debounce,
		pending:  map[string]fsnotify.Op{},
	}, nil
}

// Start walks root adding watches for every directory, then returns a
// channel emitting a Batch after each debounce window in which at least
// one matching event occurred. Call Close to stop.
func (w *Watcher) Start() (<-chan Batch, error) {
	if err := w.addDirs(w.root); err != nil {
		return nil, err
	}

	out := make(chan Batch)
	go w.loop(out)
	return out, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable subtrees rather than aborting the whole watch
		}
		if info.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				log.Printf("watch: failed to add %s: %v", path, err)
			}
		}
		return nil
	})
}

func (w *Watcher) loop(out chan<- Batch) {
	defer close(out)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(ev.Name)
					continue
				}
			}
			if !w.matches(ev.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[ev.Name] = w.pending[ev.Name] | ev.Op
			w.mu.Unlock()
			timer.Reset(w.debounce)

		case <-timer.C:
			if b := w.drain(); len(b.Added)+len(b.Changed)+len(b.Removed) > 0 {
				out <- b
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) drain() Batch {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b Batch
	for path, op := range w.pending {
		switch {
		case op&fsnotify.Remove != 0 || op&fsnotify.Rename != 0:
			b.Removed = append(b.Removed, path)
		case op&fsnotify.Create != 0:
			b.Added = append(b.Added, path)
		default:
			b.Changed = append(b.Changed, path)
		}
	}
	w.pending = map[string]fsnotify.Op{}
	return b
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
