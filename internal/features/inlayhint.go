package features

import (
	"github.com/smithy-lang/smithy-language-server-sub001/internal/docmodel"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/project"
	"github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"
)

// InlayHint labels an inline input/output member with the synthesized
// structure name the assembler gives it.
type InlayHint struct {
	Position docmodel.Position
	Label    string
}

const (
	defaultInputSuffix  = "Input"
	defaultOutputSuffix = "Output"
)

// ComputeInlayHints labels inline operation members: every inline `input :=`/
// `output :=` member on an operation is labeled with
// "<OperationName><suffix>", where the suffix honors any
// $operationInputSuffix/$operationOutputSuffix control statement that
// appears before the file's first shape definition.
func ComputeInlayHints(p *project.Project, path string) []InlayHint {
	f, ok := p.File(path)
	if !ok {
		return nil
	}
	doc := f.Document()
	res := f.Parsed()

	inputSuffix, outputSuffix := operationSuffixes(res)

	var out []InlayHint
	currentOp := ""
	for _, st := range res.Statements {
		switch s := st.(type) {
		case *syntax.ShapeDefStatement:
			if s.ShapeType.Text == "operation" {
				currentOp = s.ShapeName.Text
			} else {
				currentOp = ""
			}
		case *syntax.InlineMemberDefStatement:
			if currentOp == "" {
				continue
			}
			var suffix string
			switch s.Name.Text {
			case "input":
				suffix = inputSuffix
			case "output":
				suffix = outputSuffix
			default:
				continue
			}
			out = append(out, InlayHint{
				Position: doc.PositionOf(s.Name.Range.End),
				Label:    currentOp + suffix,
			})
		}
	}
	return out
}

// operationSuffixes reads $operationInputSuffix/$operationOutputSuffix
// from the control statements preceding the file's first shape
// definition, the only place the grammar allows them to appear.
func operationSuffixes(res *syntax.ParseResult) (input, output string) {
	input, output = defaultInputSuffix, defaultOutputSuffix
	for _, st := range res.Statements {
		if _, ok := st.(*syntax.ShapeDefStatement); ok {
			break
		}
		cs, ok := st.(*syntax.ControlStatement)
		if !ok || cs.Value == nil || cs.Value.Kind != syntax.NodeString {
			continue
		}
		switch cs.Key.Text {
		case "operationInputSuffix":
			input = cs.Value.Value
		case "operationOutputSuffix":
			output = cs.Value.Value
		}
	}
	return input, output
}
