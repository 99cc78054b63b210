package syntax

// NodeKind tags the variant of Node, the shared AST used for Smithy node
// values (trait values, metadata values, apply-trait bodies) and for the
// JSON-with-comments grammar parsed out of build config files.
type NodeKind int

const (
	NodeObject NodeKind = iota
	NodeArray
	NodeString
	NodeNumber
	NodeIdent // true/false/null, and bare identifiers used as node values
	NodeErr
)

// Kvp is a single object member: (key, value).
type Kvp struct {
	Key   *Node
	Value *Node
}

// Node is the tagged-union AST for both the IDL's node-value grammar and
// parse_json_with_comments. Every node carries its own byte range;
// exactly the fields relevant to Kind are populated.
type Node struct {
	Kind  NodeKind
	Range ByteRange

	Kvps     []Kvp   // NodeObject
	Elements []*Node // NodeArray
	Value    string  // NodeString / NodeNumber (raw) / NodeIdent
	Message  string  // NodeErr
}

// Str builds a NodeString leaf.
func Str(value string, r ByteRange) *Node {
	return &Node{Kind: NodeString, Value: value, Range: r}
}

// Obj looks up the value for key among n's Kvps, or nil if n isn't an
// object or has no member named key.
func (n *Node) Obj(key string) *Node {
	if n == nil || n.Kind != NodeObject {
		return nil
	}
	for _, kv := range n.Kvps {
		if kv.Key != nil && kv.Key.Value == key {
			return kv.Value
		}
	}
	return nil
}

// KeyNode is like Obj but returns the key token instead of the value.
func (n *Node) KeyNode(key string) *Node {
	if n == nil || n.Kind != NodeObject {
		return nil
	}
	for _, kv := range n.Kvps {
		if kv.Key != nil && kv.Key.Value == key {
			return kv.Key
		}
	}
	return nil
}

// IsObjectLike reports whether n is a non-nil object node; used by
// NodeSearch when deciding whether a bare Obj cursor edge can terminate.
func (n *Node) IsObjectLike() bool { return n != nil && n.Kind == NodeObject }
