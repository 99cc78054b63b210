package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/buildconfig"
)

// ProjectConfig is the resolved, filesystem-grounded view of a project's
// buildconfig.Config: every relative source/import glob expanded to
// concrete file paths, and every local dependency resolved to its own
// root, ready for ProjectLoader to hand to a Project.
type ProjectConfig struct {
	Root   string
	Raw    *buildconfig.Config
	Events []buildconfig.ValidationEvent

	// ResolvedModelPaths are every ".smithy"/".json" model file under
	// Root matched by Raw.Sources and Raw.Imports.
	ResolvedModelPaths []string

	// ResolvedDependencyRoots are the on-disk roots of Raw.Dependencies,
	// best-effort: a dependency whose Path doesn't exist under Root is
	// skipped rather than failing the whole load.
	ResolvedDependencyRoots []string
}

var modelFileExt = []string{".smithy", ".json"}

// LoadProjectConfig reads root's build files and resolves every source
// glob to concrete files on disk. Maven dependency resolution itself
// (downloading jars) is the external build orchestrator's job; this only
// records the configured coordinates and repositories for ProjectLoader
// to pass along, mirroring the env overrides the CLI documents
// (SMITHY_MAVEN_CACHE, SMITHY_MAVEN_REPOS).
func LoadProjectConfig(root string) (*ProjectConfig, error) {
	cfg, events, err := buildconfig.Load(root)
	if err != nil {
		return nil, err
	}

	pc := &ProjectConfig{Root: root, Raw: cfg, Events: events}

	patterns := append(append([]string{}, cfg.Sources...), cfg.Imports...)
	if len(patterns) == 0 {
		patterns = []string{"model"}
	}

	seen := map[string]bool{}
	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, pattern)
		}
		info, err := os.Stat(abs)
		if err == nil && info.IsDir() {
			err = filepath.Walk(abs, func(path string, fi os.FileInfo, err error) error {
				if err != nil || fi.IsDir() {
					return nil
				}
				if isModelFile(path) && !seen[path] {
					seen[path] = true
					pc.ResolvedModelPaths = append(pc.ResolvedModelPaths, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		rel := pattern
		if filepath.IsAbs(rel) {
			rel, _ = filepath.Rel(root, rel)
		}
		rel = filepath.ToSlash(rel)
		matches, _ := doublestar.Glob(os.DirFS(root), rel)
		for _, m := range matches {
			full := filepath.Join(root, m)
			if isModelFile(full) && !seen[full] {
				seen[full] = true
				pc.ResolvedModelPaths = append(pc.ResolvedModelPaths, full)
			}
		}
	}

	for _, dep := range cfg.Dependencies {
		depRoot := dep.Path
		if !filepath.IsAbs(depRoot) {
			depRoot = filepath.Join(root, dep.Path)
		}
		if _, err := os.Stat(depRoot); err == nil {
			pc.ResolvedDependencyRoots = append(pc.ResolvedDependencyRoots, depRoot)
		}
	}

	return pc, nil
}

func isModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range modelFileExt {
		if ext == e {
			return true
		}
	}
	return false
}

// MavenCacheDir returns the directory dependency jars should be cached
// under, honoring the SMITHY_MAVEN_CACHE override.
func MavenCacheDir() string {
	if v := os.Getenv("SMITHY_MAVEN_CACHE"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".smithy", "maven-cache")
}

// MavenRepositories returns the repository URLs to resolve dependencies
// against: SMITHY_MAVEN_REPOS (pipe-separated) if set, otherwise cfg's
// configured repositories, falling back to Maven Central.
func MavenRepositories(cfg *buildconfig.Config) []string {
	if v := os.Getenv("SMITHY_MAVEN_REPOS"); v != "" {
		return strings.Split(v, "|")
	}
	if len(cfg.Maven.Repositories) > 0 {
		return cfg.Maven.Repositories
	}
	return []string{"https://repo.maven.apache.org/maven2"}
}
