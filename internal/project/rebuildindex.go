package project

import (
	"sort"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
)

// RebuildIndex is the set of maps Project keeps alongside a Model so
// incremental reassembly knows which files a change needs to revisit and
// which cross-file trait applications must survive it. Array traits get
// per-element bookkeeping: a merged array trait can carry fragments
// authored in several files, and those fragments are tracked separately
// from whole-trait "applied from another file" applications.
type RebuildIndex struct {
	// filesToDependentFiles maps a file to the files defining shapes
	// whose array traits carry fragments authored in it.
	filesToDependentFiles map[string]map[string]bool

	// shapeIDsToDependencyFiles maps a shape to every file that
	// contributes a fragment to one of its array traits.
	shapeIDsToDependencyFiles map[model.ShapeID]map[string]bool

	// filesToAppliedTraits maps a file to, per shape, the non-array
	// traits it applies to shapes defined elsewhere.
	filesToAppliedTraits map[string]map[model.ShapeID][]model.Trait

	// shapesToOtherFileTraits maps a shape to the non-array traits
	// applied to it from files other than its defining file.
	shapesToOtherFileTraits map[model.ShapeID][]model.Trait

	// dependents folds both directions of the maps above into one
	// file-to-files adjacency, which is what widening an update batch
	// actually consumes: whichever side of a cross-file relationship
	// changed, the other side must be refed to the assembler.
	dependents map[string]map[string]bool
}

// BuildRebuildIndex derives a RebuildIndex from an assembled Model. It is
// a pure function of the model's shapes, their traits' source files, and
// array traits' per-element sources, so two Assemble calls over the same
// file set always produce identical indexes (the idempotence property).
func BuildRebuildIndex(m *model.Model) *RebuildIndex {
	idx := &RebuildIndex{
		filesToDependentFiles:     map[string]map[string]bool{},
		shapeIDsToDependencyFiles: map[model.ShapeID]map[string]bool{},
		filesToAppliedTraits:      map[string]map[model.ShapeID][]model.Trait{},
		shapesToOtherFileTraits:   map[model.ShapeID][]model.Trait{},
		dependents:                map[string]map[string]bool{},
	}

	shapes := m.Shapes()
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].ID.String() < shapes[j].ID.String() })

	for _, s := range shapes {
		shapeFile := s.Source.Filename
		for _, t := range s.Traits {
			if t.Synthetic {
				continue
			}
			if t.IsArray() {
				for _, es := range t.ElementSources {
					if es.Filename == "" || es.Filename == shapeFile {
						continue
					}
					setAdd(idx.filesToDependentFiles, es.Filename, shapeFile)
					if idx.shapeIDsToDependencyFiles[s.ID] == nil {
						idx.shapeIDsToDependencyFiles[s.ID] = map[string]bool{}
					}
					idx.shapeIDsToDependencyFiles[s.ID][es.Filename] = true
					idx.link(es.Filename, shapeFile)
				}
				continue
			}
			tf := t.Source.Filename
			if tf == "" || tf == shapeFile {
				continue
			}
			idx.shapesToOtherFileTraits[s.ID] = append(idx.shapesToOtherFileTraits[s.ID], t)
			byShape := idx.filesToAppliedTraits[tf]
			if byShape == nil {
				byShape = map[model.ShapeID][]model.Trait{}
				idx.filesToAppliedTraits[tf] = byShape
			}
			byShape[s.ID] = append(byShape[s.ID], t)
			idx.link(tf, shapeFile)
		}
	}
	return idx
}

func setAdd(m map[string]map[string]bool, key, val string) {
	if m[key] == nil {
		m[key] = map[string]bool{}
	}
	m[key][val] = true
}

// link records a cross-file relationship in both directions: changing
// either file invalidates the other's contribution.
func (idx *RebuildIndex) link(a, b string) {
	setAdd(idx.dependents, a, b)
	setAdd(idx.dependents, b, a)
}

// DependentFilesOf returns every other file that must be refed to the
// assembler when file changes, sorted: files whose shapes depend on
// fragments or traits authored in file, and files authoring fragments or
// traits for shapes file defines.
func (idx *RebuildIndex) DependentFilesOf(file string) []string {
	return sortedKeys(idx.dependents[file])
}

// DependencyFilesOf returns, sorted, every file contributing an
// array-trait fragment to shape id.
func (idx *RebuildIndex) DependencyFilesOf(id model.ShapeID) []string {
	return sortedKeys(idx.shapeIDsToDependencyFiles[id])
}

// FragmentDependentFilesOf returns, sorted, the files defining shapes
// whose array traits carry fragments authored in file.
func (idx *RebuildIndex) FragmentDependentFilesOf(file string) []string {
	return sortedKeys(idx.filesToDependentFiles[file])
}

// AppliedTraitsFrom returns, per shape, the non-array traits file
// applies to shapes defined in other files.
func (idx *RebuildIndex) AppliedTraitsFrom(file string) map[model.ShapeID][]model.Trait {
	return idx.filesToAppliedTraits[file]
}

// OtherFileTraitsOf returns the non-array traits applied to shape id
// from files other than its defining file.
func (idx *RebuildIndex) OtherFileTraitsOf(id model.ShapeID) []model.Trait {
	return idx.shapesToOtherFileTraits[id]
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
