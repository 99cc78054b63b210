package syntax

// parseNode parses one node value (object, array, string, number, or a
// bare identifier used as true/false/null/an enum-like constant) starting
// at the lexer's current position. It is shared by the IDL grammar (trait
// values, control/metadata values) and by parse_json_with_comments.
//
// On malformed input it returns an Err node covering whatever was
// consumed and does not advance past a point it can't make sense of,
// so the caller's resynchronization loop can recover.
func parseNode(l *lexer) *Node {
	tok := l.peek()
	switch tok.kind {
	case tokPunct:
		switch tok.text {
		case "{":
			return parseObject(l)
		case "[":
			return parseArray(l)
		}
		l.next()
		return &Node{Kind: NodeErr, Message: "unexpected token " + tok.text, Range: ByteRange{tok.start, tok.end}}

	case tokString:
		l.next()
		return &Node{Kind: NodeString, Value: unquote(tok.text, false), Range: ByteRange{tok.start, tok.end}}

	case tokTextBlock:
		l.next()
		return &Node{Kind: NodeString, Value: unquote(tok.text, true), Range: ByteRange{tok.start, tok.end}}

	case tokNumber:
		l.next()
		return &Node{Kind: NodeNumber, Value: tok.text, Range: ByteRange{tok.start, tok.end}}

	case tokIdent:
		l.next()
		return &Node{Kind: NodeIdent, Value: tok.text, Range: ByteRange{tok.start, tok.end}}

	case tokEOF:
		return &Node{Kind: NodeErr, Message: "unexpected end of input", Range: ByteRange{tok.start, tok.end}}

	default:
		l.next()
		return &Node{Kind: NodeErr, Message: "unrecognized token", Range: ByteRange{tok.start, tok.end}}
	}
}

func parseObject(l *lexer) *Node {
	open := l.next() // "{"
	var kvps []Kvp
	for {
		tok := l.peek()
		if tok.kind == tokPunct && tok.text == "}" {
			l.next()
			return &Node{Kind: NodeObject, Kvps: kvps, Range: ByteRange{open.start, tok.end}}
		}
		if tok.kind == tokEOF {
			return &Node{Kind: NodeObject, Kvps: kvps, Range: ByteRange{open.start, tok.start}}
		}

		var key *Node
		switch tok.kind {
		case tokString:
			l.next()
			key = &Node{Kind: NodeString, Value: unquote(tok.text, false), Range: ByteRange{tok.start, tok.end}}
		case tokIdent:
			l.next()
			key = &Node{Kind: NodeString, Value: tok.text, Range: ByteRange{tok.start, tok.end}}
		default:
			// Resynchronize: skip the bad token and keep scanning for the
			// next plausible key rather than aborting the whole object.
			l.next()
			continue
		}

		colon := l.peek()
		if colon.kind == tokPunct && (colon.text == ":" || colon.text == "=") {
			l.next()
		}

		value := parseNode(l)
		kvps = append(kvps, Kvp{Key: key, Value: value})

		sep := l.peek()
		if sep.kind == tokPunct && sep.text == "}" {
			continue // loop will consume the close brace
		}
	}
}

func parseArray(l *lexer) *Node {
	open := l.next() // "["
	var elements []*Node
	for {
		tok := l.peek()
		if tok.kind == tokPunct && tok.text == "]" {
			l.next()
			return &Node{Kind: NodeArray, Elements: elements, Range: ByteRange{open.start, tok.end}}
		}
		if tok.kind == tokEOF {
			return &Node{Kind: NodeArray, Elements: elements, Range: ByteRange{open.start, tok.start}}
		}
		elements = append(elements, parseNode(l))
	}
}

// ParseJSONWithComments parses the shared node grammar used for build
// config files: objects, arrays, strings, numbers, and booleans/null
// represented as identifier nodes. `//` line comments are skipped as
// trivia by the lexer; malformed constructs become Err nodes and parsing
// continues rather than aborting.
func ParseJSONWithComments(text string) *Node {
	l := newLexer(text)
	if l.peek().kind == tokEOF {
		return &Node{Kind: NodeObject, Range: ByteRange{0, len(text)}}
	}
	return parseNode(l)
}
