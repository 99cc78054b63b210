package features

import (
	"strings"

	"github.com/smithy-lang/smithy-language-server-sub001/internal/buildconfig"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// DiagnosticSeverity mirrors the LSP severity levels, decoupled from
// project.Severity so this package owns the mapping table rather than
// scattering it across callers.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is one LSP-ready diagnostic for a single file.
type Diagnostic struct {
	Range    docmodel.Range
	Severity DiagnosticSeverity
	Code     string
	Message  string
}

// mapSeverity maps validation-event severities to LSP levels.
func mapSeverity(s project.Severity) DiagnosticSeverity {
	switch s {
	case project.SeverityError, project.SeverityDanger:
		return SeverityError
	case project.SeverityWarning:
		return SeverityWarning
	case project.SeverityNote:
		return SeverityInformation
	default:
		return SeverityHint
	}
}

// Diagnostics computes every diagnostic for path within p.
func Diagnostics(p *project.Project, path string, minSeverity project.Severity) []Diagnostic {
	f, ok := p.File(path)
	if !ok {
		return nil
	}
	doc := f.Document()
	res := f.Parsed()
	var out []Diagnostic

	for _, ev := range p.Events() {
		// Severity values are ordered most- to least-severe (Error=0,
		// ..., Note=3), so "at least as severe as the floor" means the
		// event's numeric severity must not exceed minSeverity.
		if ev.Source.Filename != path || ev.Severity > minSeverity {
			continue
		}
		out = append(out, Diagnostic{
			Range:    eventRange(doc, res, ev),
			Severity: mapSeverity(ev.Severity),
			Code:     ev.ValidatorID,
			Message:  ev.Message,
		})
	}

	out = append(out, versionDiagnostic(doc, res)...)

	if p.Kind == project.KindDetached {
		out = append(out, Diagnostic{
			Range:    docmodel.Range{Start: docmodel.Position{Line: 0}, End: docmodel.Position{Line: 0}},
			Severity: SeverityWarning,
			Code:     "detached-file",
			Message:  "file isn't attached to a project",
		})
	}

	return out
}

// versionDiagnostic flags a missing or IDL-1.x $version control
// statement, pointed at its range if present, else the first line.
func versionDiagnostic(doc *docmodel.Document, res *syntax.ParseResult) []Diagnostic {
	if !res.HasVersion() {
		r, _ := doc.RangeBetween(0, 0)
		return []Diagnostic{{Range: r, Severity: SeverityWarning, Code: "define-idl-version", Message: "define an IDL version with $version"}}
	}
	if strings.HasPrefix(res.Version.Text, "1") {
		r, _ := doc.RangeBetween(res.Version.Range.Start, res.Version.Range.End)
		return []Diagnostic{{Range: r, Severity: SeverityWarning, Code: "migrating-idl-1-to-2", Message: "migrate to IDL version 2"}}
	}
	return nil
}

// eventRange picks the most precise range for an event: prefer the target
// identifier of a member-def statement for "Target"-flavored messages,
// then a trait application's id (including its leading '@'), falling
// back to a contiguous-token probe at the event's reported line/column.
func eventRange(doc *docmodel.Document, res *syntax.ParseResult, ev project.ValidationEvent) docmodel.Range {
	if ev.HasShapeID {
		if stmt, idx := stmtAtLine(res, doc, ev.Source.Line-1); stmt != nil {
			_ = idx
			switch s := stmt.(type) {
			case *syntax.MemberDefStatement:
				if strings.Contains(ev.Message, "Target") && s.Target != nil {
					r, ok := doc.RangeBetween(s.Target.Range.Start, s.Target.Range.End)
					if ok {
						return r
					}
				}
			case *syntax.TraitApplicationStatement:
				start := s.ID.Range.Start
				if start > 0 {
					start--
				}
				r, ok := doc.RangeBetween(start, s.ID.Range.End)
				if ok {
					return r
				}
			}
		}
	}

	idx := doc.IndexOf(docmodel.Position{Line: ev.Source.Line - 1, Column: ev.Source.Column - 1})
	if _, start, end, ok := doc.CopyDocumentID(idx); ok {
		r, rOk := doc.RangeBetween(start, end)
		if rOk {
			return r
		}
	}
	r, _ := doc.RangeBetween(idx, idx)
	return r
}

// BuildFileDiagnostics maps a build-file loader's structural validation
// events to diagnostics, for one build file's worth of events.
func BuildFileDiagnostics(events []buildconfig.ValidationEvent) []Diagnostic {
	out := make([]Diagnostic, 0, len(events))
	for _, ev := range events {
		code := ""
		if strings.Contains(ev.Message, "use smithy-build.json") {
			code = "use-smithy-build"
		}
		out = append(out, Diagnostic{
			Range:    docmodel.Range{Start: docmodel.Position{Line: ev.Line - 1, Column: ev.Column - 1}, End: docmodel.Position{Line: ev.Line - 1, Column: ev.Column - 1}},
			Severity: mapBuildSeverity(ev.Severity),
			Code:     code,
			Message:  ev.Message,
		})
	}
	return out
}

func mapBuildSeverity(s buildconfig.Severity) DiagnosticSeverity {
	switch s {
	case buildconfig.SeverityError:
		return SeverityError
	case buildconfig.SeverityWarning:
		return SeverityWarning
	case buildconfig.SeverityNote:
		return SeverityInformation
	default:
		return SeverityHint
	}
}

func stmtAtLine(res *syntax.ParseResult, doc *docmodel.Document, line int) (syntax.Statement, int) {
	idx := doc.IndexOf(docmodel.Position{Line: line, Column: 0})
	end := doc.LineEnd(line)
	for i, s := range res.Statements {
		r := s.Range()
		if r.Start <= end && r.End >= idx {
			return s, i
		}
	}
	return nil, -1
}
