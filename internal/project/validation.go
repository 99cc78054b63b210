package project

import "github.com/smithy-lang/smithy-language-server-sub001/internal/model"

// Severity mirrors the validation-event severities the assembler
// produces, ordered most-severe-first.
type Severity int

const (
	SeverityError Severity = iota
	SeverityDanger
	SeverityWarning
	SeverityNote
)

// ValidationEvent is one model-validation event surfaced by the
// assembler: a diagnostic pinned to a shape (optionally) and a source
// location, with a stable validator id used as the LSP diagnostic code.
type ValidationEvent struct {
	Severity    Severity
	ValidatorID string
	Message     string
	ShapeID     model.ShapeID
	HasShapeID  bool
	Source      model.SourceLocation
}
