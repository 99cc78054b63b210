package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/builtins"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/model"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/position"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/search"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// Hover is the markdown payload returned for a hover request. An empty
// Markdown means no hover applies at the position.
type Hover struct {
	Markdown string
}

// minSeverityForHover is the floor applied when filtering
// validation events attached to the serialized shape.
const minSeverityForHover = project.SeverityNote

// ComputeHover resolves a hover in order of specificity: control and
// metadata keys, statement keywords, builtin member names, metadata
// values, then the model-sensitive shape-definition fallback.
func ComputeHover(p *project.Project, path string, idx int) Hover {
	f, ok := p.File(path)
	if !ok {
		return Hover{}
	}
	doc := f.Document()
	res := f.Parsed()

	if _, _, _, ok := doc.CopyDocumentID(idx); !ok {
		return Hover{}
	}

	pos := position.Classify(res, idx)
	m, _ := p.Model()
	fc := FileContextOf(res, m)
	b := builtins.Get()

	switch pos.Kind {
	case position.KindControlKey:
		if doc, ok := b.ControlDoc(pos.Token.Text); ok {
			return Hover{Markdown: doc}
		}
	case position.KindMetadataKey:
		if docStr, ok := b.MetadataDoc(pos.Token.Text); ok {
			return Hover{Markdown: docStr}
		}
	case position.KindStatementKeyword:
		if st, ok := b.ShapeTypes[pos.Token.Text]; ok {
			return Hover{Markdown: st.Doc}
		}
	case position.KindMemberName:
		if pos.View != nil {
			if sd := pos.View.NearestShapeDefBefore(); sd != nil {
				if mem, ok := b.MemberDoc(sd.ShapeType.Text, pos.Token.Text); ok {
					return Hover{Markdown: fmt.Sprintf("**%s**: %s\n\n%s", mem.Name, mem.Target, mem.Doc)}
				}
			}
		}

	case position.KindMetadataValue:
		if stmt, ok := pos.Statement.(*syntax.MetadataStatement); ok {
			r := search.SearchMetadataValue(stmt.Key.Text, pos.Value, pos.Index)
			switch r.Kind {
			case search.ObjectKey:
				if r.Shape != nil {
					if mem, found := r.Shape.MemberByName(r.Key); found {
						return Hover{Markdown: fmt.Sprintf("**%s**: %s", mem.Name, mem.Target.String())}
					}
				}
			case search.TerminalShape, search.ObjectShape:
				if r.Shape != nil {
					return Hover{Markdown: fmt.Sprintf("```smithy\n%s %s\n```", r.Shape.Type, r.Shape.ID.Name)}
				}
			}
		}
	}

	if m == nil {
		return Hover{}
	}
	shape, ok := search.FindShapeDefinition(pos, fc, m)
	if !ok {
		return Hover{}
	}
	return Hover{Markdown: serializeShapeHover(shape, hoverEventsFor(shape, p.Events()))}
}

// serializeShapeHover renders shape back to IDL-ish form inside a fenced
// code block, prefixed by events. Documentation traits stay on the
// serialized shape; stripping them would leave empty apply blocks on
// members that inherit docs through mixins.
func serializeShapeHover(shape *model.Shape, events []project.ValidationEvent) string {
	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "**%s**: %s\n\n", ev.ValidatorID, ev.Message)
	}
	b.WriteString("```smithy\n")
	for _, t := range shape.Traits {
		writeTrait(&b, t)
	}
	fmt.Fprintf(&b, "%s %s", shape.Type, shape.ID.Name)
	if shape.Resource.Name != "" {
		fmt.Fprintf(&b, " for %s", shape.Resource.String())
	}
	if len(shape.Members) == 0 {
		b.WriteString("\n")
	} else {
		b.WriteString(" {\n")
		for _, mem := range shape.Members {
			for _, t := range mem.Traits {
				b.WriteString("    ")
				writeTrait(&b, t)
			}
			fmt.Fprintf(&b, "    %s: %s\n", mem.Name, mem.Target.String())
		}
		b.WriteString("}\n")
	}
	b.WriteString("```")
	return b.String()
}

func writeTrait(b *strings.Builder, t model.Trait) {
	fmt.Fprintf(b, "@%s\n", t.ID.String())
}

// hoverEventsFor filters events to those pinned to shape's id at or above
// minSeverityForHover.
func hoverEventsFor(shape *model.Shape, events []project.ValidationEvent) []project.ValidationEvent {
	var out []project.ValidationEvent
	for _, ev := range events {
		if ev.HasShapeID && ev.ShapeID == shape.ID && ev.Severity <= minSeverityForHover {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Message < out[j].Message })
	return out
}
