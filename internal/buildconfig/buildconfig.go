// Package buildconfig loads and merges the build-file family:
// smithy-build.json plus its legacy extension files, and
// .smithy-project.json's additional local dependencies.
package buildconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"

	smithyerrors "github.com/smithy-lang/smithy-language-server-sub001/internal/errors"
)

// FileKind identifies one of the four recognized build-file types.
type FileKind string

const (
	KindSmithyBuild     FileKind = "SmithyBuild"
	KindSmithyProject   FileKind = "SmithyProject"
	KindSmithyBuildExt0 FileKind = "SmithyBuildExt0"
	KindSmithyBuildExt1 FileKind = "SmithyBuildExt1"
)

// filenames maps each kind to the relative path it's read from, in the
// fixed precedence order the merge rule assumes.
var filenames = []struct {
	Kind FileKind
	Path string
}{
	{KindSmithyBuild, "smithy-build.json"},
	{KindSmithyBuildExt0, filepath.Join("build", "smithy-dependencies.json")},
	{KindSmithyBuildExt1, ".smithy.json"},
	{KindSmithyProject, ".smithy-project.json"},
}

// IsLegacyExtension reports whether kind is one of the two deprecated
// extension files that should trigger a "use smithy-build.json"
// diagnostic.
func IsLegacyExtension(kind FileKind) bool {
	return kind == KindSmithyBuildExt0 || kind == KindSmithyBuildExt1
}

// MavenConfig is the `maven` section of smithy-build.json.
type MavenConfig struct {
	Dependencies []string `json:"dependencies,omitempty"`
	Repositories []string `json:"repositories,omitempty"`
}

// LocalDependency is one entry of .smithy-project.json's `dependencies`.
type LocalDependency struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Config is the fully merged build configuration for a project.
type Config struct {
	Sources      []string
	Imports      []string
	Maven        MavenConfig
	Dependencies []LocalDependency
}

// rawBuildFile mirrors the on-disk JSON shape of smithy-build.json and its
// extensions; Dependencies only appears in .smithy-project.json but is
// harmless to accept on every file (unknown fields are ignored).
type rawBuildFile struct {
	Version      string            `json:"version,omitempty"`
	Sources      []string          `json:"sources,omitempty"`
	Imports      []string          `json:"imports,omitempty"`
	Maven        *MavenConfig      `json:"maven,omitempty"`
	Dependencies []LocalDependency `json:"dependencies,omitempty"`
}

// Severity is the severity of a build-file ValidationEvent. It is a type
// of its own, separate from project.Severity (which has Danger and no
// Hint); Diagnostics maps each of the two to LSP levels separately.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
	SeverityHint
)

// ValidationEvent is a structural problem found while loading build
// files. Load pins every event at line 1, column 1 of the offending
// file; it does not locate the offending node within the file.
type ValidationEvent struct {
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
}

// buildFileSchema describes the JSON shape of smithy-build.json and its
// extensions as a jsonschema-go schema. Load does not validate against
// it: a value of the wrong type (e.g. `sources` as a string) surfaces as
// the "unexpected shape" event carrying json.Unmarshal's error.
var buildFileSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"version": {Type: "string"},
		"sources": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		"imports": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		"maven": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"dependencies": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"repositories": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
		"dependencies": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"name": {Type: "string"},
					"path": {Type: "string"},
				},
			},
		},
	},
}

// Load reads every recognized build file present under root and merges
// them: smithy-build.json is the base; the legacy extension files
// fill in only missing maven fields; .smithy-project.json appends to
// sources/imports and contributes dependencies. Missing files are
// skipped, not errors. Structural problems are returned as
// ValidationEvents rather than failing the load outright.
func Load(root string) (*Config, []ValidationEvent, error) {
	cfg := &Config{}
	var events []ValidationEvent
	sawMaven := false

	for _, f := range filenames {
		path := filepath.Join(root, f.Path)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, events, smithyerrors.NewIOError("read", path, err)
		}

		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			events = append(events, ValidationEvent{Severity: SeverityError, Message: "malformed JSON: " + err.Error(), File: path, Line: 1, Column: 1})
			continue
		}

		var raw rawBuildFile
		if err := json.Unmarshal(data, &raw); err != nil {
			events = append(events, ValidationEvent{Severity: SeverityError, Message: "unexpected shape: " + err.Error(), File: path, Line: 1, Column: 1})
			continue
		}

		if IsLegacyExtension(f.Kind) {
			events = append(events, ValidationEvent{Severity: SeverityWarning, Message: "use smithy-build.json", File: path, Line: 1, Column: 1})
		}

		switch f.Kind {
		case KindSmithyBuild:
			cfg.Sources = append(cfg.Sources, raw.Sources...)
			cfg.Imports = append(cfg.Imports, raw.Imports...)
			if raw.Maven != nil {
				cfg.Maven = *raw.Maven
				sawMaven = true
			}
		case KindSmithyBuildExt0, KindSmithyBuildExt1:
			if raw.Maven != nil {
				if !sawMaven {
					cfg.Maven = *raw.Maven
					sawMaven = true
				} else {
					if len(cfg.Maven.Dependencies) == 0 {
						cfg.Maven.Dependencies = raw.Maven.Dependencies
					}
					if len(cfg.Maven.Repositories) == 0 {
						cfg.Maven.Repositories = raw.Maven.Repositories
					}
				}
			}
		case KindSmithyProject:
			cfg.Sources = append(cfg.Sources, raw.Sources...)
			cfg.Imports = append(cfg.Imports, raw.Imports...)
			cfg.Dependencies = append(cfg.Dependencies, raw.Dependencies...)
		}
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"model"}
	}
	return cfg, events, nil
}
