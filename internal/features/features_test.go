package features

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
)

// newTestProject writes files into a temp dir and loads them as one
// project, returning the project and the on-disk path of each name.
func newTestProject(t *testing.T, files map[string]string) (*project.Project, map[string]string) {
	t.Helper()
	dir := t.TempDir()
	paths := map[string]string{}
	var resolved []string
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
		paths[name] = path
		resolved = append(resolved, path)
	}
	sort.Strings(resolved)

	cfg := &project.ProjectConfig{Root: dir, ResolvedModelPaths: resolved}
	p := project.New(project.KindNormal, cfg, nil)
	require.NoError(t, p.InitialLoad())
	return p, paths
}

// cursorAt returns a byte offset inside text: the position of needle's
// first occurrence plus offset.
func cursorAt(t *testing.T, text, needle string, offset int) int {
	t.Helper()
	i := strings.Index(text, needle)
	require.GreaterOrEqual(t, i, 0, "needle %q not found", needle)
	return i + offset
}

func itemByLabel(items []CompletionItem, label string) (CompletionItem, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return CompletionItem{}, false
}
