package syntax

// Statement is the sealed interface every statement variant implements.
// Consumers exhaustively type-switch on the concrete pointer types below
// rather than on an open trait-object hierarchy.
type Statement interface {
	Range() ByteRange
	isStatement()
}

// ControlStatement is `$key: value` ($version, $operationInputSuffix, ...).
type ControlStatement struct {
	StmtRange ByteRange
	Key       Token
	Value     *Node
}

func (s *ControlStatement) Range() ByteRange { return s.StmtRange }
func (*ControlStatement) isStatement()       {}

// MetadataStatement is `metadata key = value`.
type MetadataStatement struct {
	StmtRange ByteRange
	Key       Token
	Value     *Node
}

func (s *MetadataStatement) Range() ByteRange { return s.StmtRange }
func (*MetadataStatement) isStatement()       {}

// NamespaceStatement is `namespace com.example`.
type NamespaceStatement struct {
	StmtRange ByteRange
	Name      Token
}

func (s *NamespaceStatement) Range() ByteRange { return s.StmtRange }
func (*NamespaceStatement) isStatement()       {}

// UseStatement is `use com.example#Shape`.
type UseStatement struct {
	StmtRange ByteRange
	Target    Token
}

func (s *UseStatement) Range() ByteRange { return s.StmtRange }
func (*UseStatement) isStatement()       {}

// ShapeDefStatement introduces a shape: `structure Foo`, `string Bar`, ...
type ShapeDefStatement struct {
	StmtRange ByteRange
	ShapeType Token
	ShapeName Token
}

func (s *ShapeDefStatement) Range() ByteRange { return s.StmtRange }
func (*ShapeDefStatement) isStatement()       {}

// BlockStatement brackets a `{ ... }` body and records, as indices into
// the flat ParseResult.Statements slice, the first and last statement it
// encloses (both -1 if the block is empty).
type BlockStatement struct {
	StmtRange          ByteRange
	OpenBrace          ByteRange
	CloseBrace         ByteRange
	FirstStatementIdx  int
	LastStatementIdx   int
}

func (s *BlockStatement) Range() ByteRange { return s.StmtRange }
func (*BlockStatement) isStatement()       {}

// ForResourceStatement is `for ResourceName` inside an operation/resource
// structure body.
type ForResourceStatement struct {
	StmtRange ByteRange
	Resource  Token
}

func (s *ForResourceStatement) Range() ByteRange { return s.StmtRange }
func (*ForResourceStatement) isStatement()       {}

// MixinsStatement is `with [A, B]`.
type MixinsStatement struct {
	StmtRange ByteRange
	Names     []Token
}

func (s *MixinsStatement) Range() ByteRange { return s.StmtRange }
func (*MixinsStatement) isStatement()       {}

// TraitApplicationStatement is `@trait` or `@trait(value)`.
type TraitApplicationStatement struct {
	StmtRange ByteRange
	ID        Token
	Value     *Node // nil if the trait has no parenthesized value
}

func (s *TraitApplicationStatement) Range() ByteRange { return s.StmtRange }
func (*TraitApplicationStatement) isStatement()       {}

// ApplyStatement is `apply Target @trait` (or the block form).
type ApplyStatement struct {
	StmtRange ByteRange
	Target    Token
}

func (s *ApplyStatement) Range() ByteRange { return s.StmtRange }
func (*ApplyStatement) isStatement()       {}

// MemberDefStatement is `name: Target` inside a structure/union/resource
// body. Target is nil only for malformed input (tolerant recovery).
type MemberDefStatement struct {
	StmtRange ByteRange
	Name      Token
	Target    *Token
}

func (s *MemberDefStatement) Range() ByteRange { return s.StmtRange }
func (*MemberDefStatement) isStatement()       {}

// EnumMemberDefStatement is a bare or `= "value"` enum member.
type EnumMemberDefStatement struct {
	StmtRange ByteRange
	Name      Token
}

func (s *EnumMemberDefStatement) Range() ByteRange { return s.StmtRange }
func (*EnumMemberDefStatement) isStatement()       {}

// ElidedMemberDefStatement is `$name`, inheriting its target from a mixin
// or a resource identifier/property.
type ElidedMemberDefStatement struct {
	StmtRange ByteRange
	Name      Token
}

func (s *ElidedMemberDefStatement) Range() ByteRange { return s.StmtRange }
func (*ElidedMemberDefStatement) isStatement()       {}

// NodeMemberDefStatement is `key: <node value>` inside a shape block,
// where the value is a node rather than a target shape name (e.g. a
// service's `version: "1"` or `rename: { ... }`).
type NodeMemberDefStatement struct {
	StmtRange ByteRange
	Name      Token
	Value     *Node
}

func (s *NodeMemberDefStatement) Range() ByteRange { return s.StmtRange }
func (*NodeMemberDefStatement) isStatement()       {}

// InlineMemberDefStatement is an inline `input := { ... }` / `output :=
// { ... }` member on an operation shape.
type InlineMemberDefStatement struct {
	StmtRange ByteRange
	Name      Token
}

func (s *InlineMemberDefStatement) Range() ByteRange { return s.StmtRange }
func (*InlineMemberDefStatement) isStatement()       {}

// IncompleteStatement is the tolerant-parser's fallback: an unexpected
// token sequence that couldn't be classified as any other variant.
type IncompleteStatement struct {
	StmtRange ByteRange
	Ident     string
}

func (s *IncompleteStatement) Range() ByteRange { return s.StmtRange }
func (*IncompleteStatement) isStatement()       {}
