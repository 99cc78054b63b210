package syntax

// shapeTypeKeywords are the leading keywords that introduce a ShapeDef.
var shapeTypeKeywords = map[string]bool{
	"structure": true, "union": true, "list": true, "set": true, "map": true,
	"enum": true, "intEnum": true, "service": true, "resource": true, "operation": true,
	"string": true, "blob": true, "boolean": true, "byte": true, "short": true,
	"integer": true, "long": true, "float": true, "double": true,
	"bigInteger": true, "bigDecimal": true, "timestamp": true, "document": true,
}

// StatementKeywords lists the fixed keyword set Completion offers for
// IdlPosition.StatementKeyword.
var StatementKeywords = buildStatementKeywords()

func buildStatementKeywords() []string {
	kws := []string{"namespace", "use", "apply", "metadata", "with", "for"}
	for k := range shapeTypeKeywords {
		kws = append(kws, k)
	}
	return kws
}

type parser struct {
	l     *lexer
	stmts []Statement
	diags []Diagnostic

	version   Token
	namespace *NamespaceStatement
	imports   []Token
}

// ParseIDL is the tolerant Smithy IDL parser. It never fails
// fatally: unexpected tokens become Err nodes or Incomplete statements and
// the parser resynchronizes at the next statement-starting keyword (top
// level) or the next member-starting token (inside a block).
func ParseIDL(text string) *ParseResult {
	p := &parser{l: newLexer(text)}
	p.parseControls()
	p.parseNamespace()
	p.parseLeadingUses()
	p.parseTopLevelBody()

	return &ParseResult{
		Version:    p.version,
		Namespace:  p.namespace,
		Imports:    p.imports,
		Statements: p.stmts,
		Errors:     p.diags,
	}
}

func (p *parser) append(s Statement) int {
	p.stmts = append(p.stmts, s)
	return len(p.stmts) - 1
}

func (p *parser) diag(r ByteRange, msg string) {
	p.diags = append(p.diags, Diagnostic{Range: r, Message: msg, Severity: SeverityError})
}

func tokRange(t rawToken) ByteRange { return ByteRange{t.start, t.end} }

func isPunct(t rawToken, s string) bool { return t.kind == tokPunct && t.text == s }
func isKw(t rawToken, s string) bool    { return t.kind == tokIdent && t.text == s }

// expectIdent consumes and returns the next token as an identifier Token.
// If the next token isn't an identifier, it records a diagnostic and still
// consumes one token (unless at EOF) to guarantee the caller makes
// progress; tolerant parsing never gets stuck.
func (p *parser) expectIdent(what string) Token {
	tok := p.l.peek()
	if tok.kind == tokIdent {
		p.l.next()
		return Token{Text: tok.text, Range: tokRange(tok)}
	}
	p.diag(tokRange(tok), "expected "+what)
	if tok.kind != tokEOF {
		p.l.next()
	}
	return Token{Text: "", Range: ByteRange{tok.start, tok.start}}
}

func (p *parser) expectPunct(s string) (ByteRange, bool) {
	tok := p.l.peek()
	if isPunct(tok, s) {
		p.l.next()
		return tokRange(tok), true
	}
	p.diag(tokRange(tok), "expected '"+s+"'")
	return ByteRange{tok.start, tok.start}, false
}

// --- preamble: controls, namespace, leading use statements ---

func (p *parser) parseControls() {
	for isPunct(p.l.peek(), "$") {
		p.parseControl()
	}
}

func (p *parser) parseControl() {
	dollar := p.l.next()
	key := p.expectIdent("control key")
	p.expectPunct(":")
	value := parseNode(p.l)
	stmt := &ControlStatement{StmtRange: ByteRange{dollar.start, value.Range.End}, Key: key, Value: value}
	p.append(stmt)
	if key.Text == "version" && p.version.Text == "" {
		p.version = Token{Text: value.Value, Range: value.Range}
	}
}

func (p *parser) parseNamespace() {
	if !isKw(p.l.peek(), "namespace") {
		return
	}
	kw := p.l.next()
	name := p.expectIdent("namespace name")
	stmt := &NamespaceStatement{StmtRange: ByteRange{kw.start, name.Range.End}, Name: name}
	p.namespace = stmt
	p.append(stmt)
}

func (p *parser) parseLeadingUses() {
	for isKw(p.l.peek(), "use") {
		p.parseUse()
	}
}

func (p *parser) parseUse() {
	kw := p.l.next()
	target := p.expectIdent("use target")
	stmt := &UseStatement{StmtRange: ByteRange{kw.start, target.Range.End}, Target: target}
	p.imports = append(p.imports, target)
	p.append(stmt)
}

// --- top-level shape/apply/metadata statements ---

func (p *parser) parseTopLevelBody() {
	for {
		tok := p.l.peek()
		switch {
		case tok.kind == tokEOF:
			return
		case isPunct(tok, "@"):
			p.parseTraitApplication()
		case isKw(tok, "metadata"):
			p.parseMetadata()
		case isKw(tok, "use"):
			p.parseUse()
		case isKw(tok, "apply"):
			p.parseApply()
		case tok.kind == tokIdent && shapeTypeKeywords[tok.text]:
			p.parseShapeDef()
		default:
			p.recordIncomplete()
		}
	}
}

func (p *parser) recordIncomplete() {
	tok := p.l.next()
	p.append(&IncompleteStatement{StmtRange: tokRange(tok), Ident: tok.text})
}

func (p *parser) parseMetadata() {
	kw := p.l.next()
	key := p.expectIdent("metadata key")
	p.expectPunct("=")
	value := parseNode(p.l)
	p.append(&MetadataStatement{StmtRange: ByteRange{kw.start, value.Range.End}, Key: key, Value: value})
}

func (p *parser) parseApply() {
	kw := p.l.next()
	target := p.expectIdent("apply target")
	p.append(&ApplyStatement{StmtRange: ByteRange{kw.start, target.Range.End}, Target: target})

	switch {
	case isPunct(p.l.peek(), "@"):
		p.parseTraitApplication()
	case isPunct(p.l.peek(), "{"):
		p.parseBlock("apply")
	}
}

func (p *parser) parseTraitApplication() {
	at := p.l.next()
	id := p.expectIdent("trait id")
	stmt := &TraitApplicationStatement{StmtRange: ByteRange{at.start, id.Range.End}, ID: id}
	if isPunct(p.l.peek(), "(") {
		open := p.l.next()
		value := p.parseTraitValueBody()
		closeRange, _ := p.expectPunct(")")
		value.Range = ByteRange{open.start, closeRange.End}
		stmt.Value = value
		stmt.StmtRange.End = value.Range.End
	}
	p.append(stmt)
}

// parseTraitValueBody parses the contents between a trait's parens: an
// object-shorthand key:value list (@length(min: 1, max: 10)), or a single
// bare node value (@documentation("x"), @tags(["a","b"])).
func (p *parser) parseTraitValueBody() *Node {
	if isPunct(p.l.peek(), ")") {
		return &Node{Kind: NodeObject}
	}
	// Lookahead: ident/string followed by ':' means key:value shorthand.
	save := p.l.pos
	first := p.l.next()
	sep := p.l.peek()
	isKeyed := (first.kind == tokIdent || first.kind == tokString) && isPunct(sep, ":")
	p.l.pos = save
	if !isKeyed {
		return parseNode(p.l)
	}

	var kvps []Kvp
	for {
		tok := p.l.peek()
		if tok.kind == tokEOF || isPunct(tok, ")") {
			break
		}
		var key *Node
		switch tok.kind {
		case tokIdent:
			p.l.next()
			key = &Node{Kind: NodeString, Value: tok.text, Range: tokRange(tok)}
		case tokString:
			p.l.next()
			key = &Node{Kind: NodeString, Value: unquote(tok.text, false), Range: tokRange(tok)}
		default:
			p.l.next()
			continue
		}
		p.expectPunct(":")
		value := parseNode(p.l)
		kvps = append(kvps, Kvp{Key: key, Value: value})
		if isPunct(p.l.peek(), ")") {
			break
		}
	}
	return &Node{Kind: NodeObject, Kvps: kvps}
}

func (p *parser) parseShapeDef() {
	typeTok := p.l.next()
	// A shape keyword directly followed by another one has no name: record
	// it as Incomplete and resynchronize at the second keyword.
	if next := p.l.peek(); next.kind == tokIdent && shapeTypeKeywords[next.text] {
		p.diag(tokRange(typeTok), "expected shape name")
		p.append(&IncompleteStatement{StmtRange: tokRange(typeTok), Ident: typeTok.text})
		return
	}
	nameTok := p.expectIdent("shape name")
	stmt := &ShapeDefStatement{
		StmtRange: ByteRange{typeTok.start, nameTok.Range.End},
		ShapeType: Token{Text: typeTok.text, Range: tokRange(typeTok)},
		ShapeName: nameTok,
	}
	p.append(stmt)

	if isKw(p.l.peek(), "for") {
		p.parseForResource()
	}
	if isKw(p.l.peek(), "with") {
		p.parseMixins()
	}
	if isPunct(p.l.peek(), "{") {
		p.parseBlock(typeTok.text)
	}
}

func (p *parser) parseForResource() {
	kw := p.l.next()
	resource := p.expectIdent("resource name")
	p.append(&ForResourceStatement{StmtRange: ByteRange{kw.start, resource.Range.End}, Resource: resource})
}

func (p *parser) parseMixins() {
	kw := p.l.next()
	openRange, _ := p.expectPunct("[")
	var names []Token
	for {
		tok := p.l.peek()
		if tok.kind == tokEOF || isPunct(tok, "]") {
			break
		}
		if tok.kind == tokIdent {
			p.l.next()
			names = append(names, Token{Text: tok.text, Range: tokRange(tok)})
			continue
		}
		p.l.next()
	}
	closeRange, _ := p.expectPunct("]")
	end := closeRange.End
	if end == closeRange.Start {
		end = openRange.End
	}
	p.append(&MixinsStatement{StmtRange: ByteRange{kw.start, end}, Names: names})
}

// --- block bodies (members) ---

func (p *parser) parseBlock(shapeKind string) {
	open := p.l.next() // "{"
	block := &BlockStatement{OpenBrace: tokRange(open), FirstStatementIdx: -1, LastStatementIdx: -1}
	p.append(block)

	first, last := -1, -1
	for {
		tok := p.l.peek()
		if isPunct(tok, "}") {
			close := p.l.next()
			block.CloseBrace = tokRange(close)
			block.StmtRange = ByteRange{open.start, close.end}
			block.FirstStatementIdx = first
			block.LastStatementIdx = last
			return
		}
		if tok.kind == tokEOF {
			block.StmtRange = ByteRange{open.start, tok.start}
			block.FirstStatementIdx = first
			block.LastStatementIdx = last
			return
		}

		before := len(p.stmts)
		p.parseMemberLevelStatement(shapeKind)
		after := len(p.stmts)
		if after > before {
			if first == -1 {
				first = before
			}
			last = after - 1
		}
	}
}

func (p *parser) parseMemberLevelStatement(shapeKind string) {
	tok := p.l.peek()
	switch {
	case isPunct(tok, "@"):
		p.parseTraitApplication()
	case isPunct(tok, "$"):
		p.parseElidedMember()
	case isKw(tok, "for"):
		p.parseForResource()
	case isKw(tok, "with"):
		p.parseMixins()
	case tok.kind == tokIdent:
		p.parseMemberOrEnumMember(shapeKind)
	default:
		p.recordIncomplete()
	}
}

func (p *parser) parseElidedMember() {
	dollar := p.l.next()
	name := p.expectIdent("elided member name")
	p.append(&ElidedMemberDefStatement{StmtRange: ByteRange{dollar.start, name.Range.End}, Name: name})
}

func (p *parser) parseMemberOrEnumMember(shapeKind string) {
	name := p.l.next()
	nameTok := Token{Text: name.text, Range: tokRange(name)}
	next := p.l.peek()

	switch {
	case isPunct(next, ":"):
		colon := p.l.next()
		if maybeEq := p.l.peek(); isPunct(maybeEq, "=") && maybeEq.start == colon.end {
			eq := p.l.next()
			p.append(&InlineMemberDefStatement{StmtRange: ByteRange{nameTok.Range.Start, eq.end}, Name: nameTok})
			if isPunct(p.l.peek(), "{") {
				p.parseBlock("structure")
			}
			return
		}

		valuePeek := p.l.peek()
		if valuePeek.kind == tokIdent {
			target := p.l.next()
			targetTok := Token{Text: target.text, Range: tokRange(target)}
			stmt := &MemberDefStatement{StmtRange: ByteRange{nameTok.Range.Start, targetTok.Range.End}, Name: nameTok, Target: &targetTok}
			p.append(stmt)
			if isPunct(p.l.peek(), "=") {
				p.l.next()
				_ = parseNode(p.l) // default value; not part of the Statement variants
			}
			return
		}

		value := parseNode(p.l)
		p.append(&NodeMemberDefStatement{StmtRange: ByteRange{nameTok.Range.Start, value.Range.End}, Name: nameTok, Value: value})

	case isPunct(next, "="):
		p.l.next()
		value := parseNode(p.l)
		p.append(&EnumMemberDefStatement{StmtRange: ByteRange{nameTok.Range.Start, value.Range.End}, Name: nameTok})

	default:
		p.append(&EnumMemberDefStatement{StmtRange: nameTok.Range, Name: nameTok})
	}
}
