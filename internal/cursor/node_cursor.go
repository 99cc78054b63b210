// Package cursor locates a byte offset inside a statement list and inside
// a node tree, recording the descent as a path of edges.
package cursor

import "github.com/smithy-lang/smithy-language-server-sub001/internal/syntax"

// EdgeKind tags one step of a NodeCursor's descent path.
type EdgeKind int

const (
	EdgeObj EdgeKind = iota
	EdgeArr
	EdgeKey
	EdgeValueForKey
	EdgeElem
	EdgeTerminal
)

// Edge is one step of the path a NodeCursor records while descending a
// Node tree toward a target byte offset.
type Edge struct {
	Kind   EdgeKind
	Node   *syntax.Node // the container node for Obj/Arr/Terminal edges
	Key    string       // set for Key/ValueForKey edges
	Parent *syntax.Node // set for ValueForKey/Elem edges (the object/array)
}

// NodeCursor is the path of edges produced by descending a Node tree to a
// target offset, plus bounded backtracking support for dynamic-target
// computation.
type NodeCursor struct {
	Path       []Edge
	checkpoint int
}

// BuildNodeCursor descends root to the innermost node/edge containing idx.
// The path ends in an EdgeKey edge when idx falls on an object key, and in
// an EdgeTerminal edge otherwise (including when root is nil or idx falls
// outside every node, in which case Terminal wraps root itself).
func BuildNodeCursor(root *syntax.Node, idx int) *NodeCursor {
	c := &NodeCursor{}
	c.descend(root, idx)
	return c
}

func (c *NodeCursor) descend(n *syntax.Node, idx int) {
	if n == nil || !n.Range.Contains(idx) {
		c.Path = append(c.Path, Edge{Kind: EdgeTerminal, Node: n})
		return
	}

	switch n.Kind {
	case syntax.NodeObject:
		for _, kv := range n.Kvps {
			if kv.Key != nil && kv.Key.Range.Contains(idx) {
				c.Path = append(c.Path, Edge{Kind: EdgeObj, Node: n})
				c.Path = append(c.Path, Edge{Kind: EdgeKey, Key: kv.Key.Value, Parent: n})
				return
			}
			if kv.Value != nil && kv.Value.Range.Contains(idx) {
				c.Path = append(c.Path, Edge{Kind: EdgeObj, Node: n})
				c.Path = append(c.Path, Edge{Kind: EdgeValueForKey, Key: keyOf(kv), Parent: n})
				c.descend(kv.Value, idx)
				return
			}
		}
		c.Path = append(c.Path, Edge{Kind: EdgeObj, Node: n})
		c.Path = append(c.Path, Edge{Kind: EdgeTerminal, Node: n})

	case syntax.NodeArray:
		for _, el := range n.Elements {
			if el != nil && el.Range.Contains(idx) {
				c.Path = append(c.Path, Edge{Kind: EdgeArr, Node: n})
				c.Path = append(c.Path, Edge{Kind: EdgeElem, Parent: n})
				c.descend(el, idx)
				return
			}
		}
		c.Path = append(c.Path, Edge{Kind: EdgeArr, Node: n})
		c.Path = append(c.Path, Edge{Kind: EdgeTerminal, Node: n})

	default:
		c.Path = append(c.Path, Edge{Kind: EdgeTerminal, Node: n})
	}
}

func keyOf(kv syntax.Kvp) string {
	if kv.Key == nil {
		return ""
	}
	return kv.Key.Value
}

// SetCheckpoint marks the current path length for a later ReturnToCheckpoint.
func (c *NodeCursor) SetCheckpoint() { c.checkpoint = len(c.Path) }

// ReturnToCheckpoint truncates the path back to the last checkpoint,
// enabling bounded backtracking when a DynamicMemberTarget lookup needs to
// retry against a different starting node.
func (c *NodeCursor) ReturnToCheckpoint() { c.Path = c.Path[:c.checkpoint] }

// Last returns the final edge of the path (EdgeKey or EdgeTerminal, see
// BuildNodeCursor), or the zero Edge if the path is empty.
func (c *NodeCursor) Last() Edge {
	if len(c.Path) == 0 {
		return Edge{}
	}
	return c.Path[len(c.Path)-1]
}
