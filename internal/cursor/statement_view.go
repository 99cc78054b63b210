package cursor

import "github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"

// StatementView locates the statement whose range contains a document
// index and answers the ordered neighbor queries the position classifier
// and Completion need.
type StatementView struct {
	res *syntax.ParseResult
	idx int
	// stmt/stmtIdx identify the innermost statement containing idx, or
	// (nil, -1) if idx falls between statements.
	stmt    syntax.Statement
	stmtIdx int
}

// NewStatementView locates idx within res's flat statement list.
func NewStatementView(res *syntax.ParseResult, idx int) *StatementView {
	stmt, i := res.StatementAt(idx)
	return &StatementView{res: res, idx: idx, stmt: stmt, stmtIdx: i}
}

// Statement returns the innermost statement containing the cursor index,
// and its index in the flat list, or (nil, -1) if none contains it.
func (v *StatementView) Statement() (syntax.Statement, int) { return v.stmt, v.stmtIdx }

// NearestShapeDefBefore returns the closest ShapeDefStatement at or before
// the cursor's statement index.
func (v *StatementView) NearestShapeDefBefore() *syntax.ShapeDefStatement {
	start := v.stmtIdx
	if start < 0 {
		start = len(v.res.Statements) - 1
	}
	for i := start; i >= 0; i-- {
		if sd, ok := v.res.Statements[i].(*syntax.ShapeDefStatement); ok {
			return sd
		}
	}
	return nil
}

// NearestShapeDefAfter returns the closest ShapeDefStatement at or after
// the cursor's statement index.
func (v *StatementView) NearestShapeDefAfter() *syntax.ShapeDefStatement {
	start := v.stmtIdx
	if start < 0 {
		start = 0
	}
	for i := start; i < len(v.res.Statements); i++ {
		if sd, ok := v.res.Statements[i].(*syntax.ShapeDefStatement); ok {
			return sd
		}
	}
	return nil
}

// NearestForResourceAndMixinsBefore walks backward from the cursor to the
// nearest preceding ForResource and Mixins statements, stopping once a
// ShapeDef (the enclosing shape's own header) is reached. Either return
// value may be nil.
func (v *StatementView) NearestForResourceAndMixinsBefore() (*syntax.ForResourceStatement, *syntax.MixinsStatement) {
	start := v.stmtIdx
	if start < 0 {
		start = len(v.res.Statements) - 1
	}
	var fr *syntax.ForResourceStatement
	var mx *syntax.MixinsStatement
	for i := start; i >= 0; i-- {
		switch s := v.res.Statements[i].(type) {
		case *syntax.ForResourceStatement:
			if fr == nil {
				fr = s
			}
		case *syntax.MixinsStatement:
			if mx == nil {
				mx = s
			}
		case *syntax.ShapeDefStatement:
			return fr, mx
		}
		if fr != nil && mx != nil {
			return fr, mx
		}
	}
	return fr, mx
}

// OtherMemberNames returns the names of sibling member definitions in the
// same block as the cursor's statement, used to exclude already-declared
// members from completion candidates.
func (v *StatementView) OtherMemberNames() []string {
	block := v.enclosingBlock()
	if block == nil {
		return nil
	}
	var names []string
	for i := block.FirstStatementIdx; i >= 0 && i <= block.LastStatementIdx && i < len(v.res.Statements); i++ {
		switch m := v.res.Statements[i].(type) {
		case *syntax.MemberDefStatement:
			names = append(names, m.Name.Text)
		case *syntax.ElidedMemberDefStatement:
			names = append(names, m.Name.Text)
		case *syntax.EnumMemberDefStatement:
			names = append(names, m.Name.Text)
		case *syntax.InlineMemberDefStatement:
			names = append(names, m.Name.Text)
		case *syntax.NodeMemberDefStatement:
			names = append(names, m.Name.Text)
		}
	}
	return names
}

// enclosingBlock finds the BlockStatement whose [FirstStatementIdx,
// LastStatementIdx] range contains the cursor's statement index.
func (v *StatementView) enclosingBlock() *syntax.BlockStatement {
	if v.stmtIdx < 0 {
		return nil
	}
	var best *syntax.BlockStatement
	for _, s := range v.res.Statements {
		if b, ok := s.(*syntax.BlockStatement); ok {
			if b.FirstStatementIdx != -1 && b.FirstStatementIdx <= v.stmtIdx && v.stmtIdx <= b.LastStatementIdx {
				if best == nil || (b.LastStatementIdx-b.FirstStatementIdx) < (best.LastStatementIdx-best.FirstStatementIdx) {
					best = b
				}
			}
		}
	}
	return best
}
