// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"fmt"
	"strings"

	"github.com/tilelisp/tilelisp/parser/token"
)

// NodeKind classifies AST nodes.
type NodeKind uint8

// NodeKind constants
const (
	NodeInvalid NodeKind = iota
	NodeList
	NodeIdentifier
	NodeString
)

var nodeKindStrings = []string{
	NodeInvalid:    "INVALID",
	NodeList:       "list",
	NodeIdentifier: "identifier",
	NodeString:     "string",
}

func (k NodeKind) String() string {
	if int(k) >= len(nodeKindStrings) {
		return nodeKindStrings[NodeInvalid]
	}
	return nodeKindStrings[k]
}

// NodeID addresses a Node within a Tree.
type NodeID int32

// NoNode is the NodeID of a missing node (the parent of a root, or the root
// of an empty statement).
const NoNode NodeID = -1

// Node is a node in a parsed statement.  Parent and child links are indices
// into the owning Tree.  The Parent index is bookkeeping for the parser and is
// never consulted during evaluation.
type Node struct {
	Kind     NodeKind
	Token    *token.Token
	Children []NodeID
	Parent   NodeID

	// Value holds the literal value of a NodeString.
	Value *Value
}

// Tree is an arena holding the nodes of one parsed statement.  Every node
// other than the root has exactly one parent.
type Tree struct {
	Nodes []Node
	Root  NodeID
}

// NodeRef identifies a node in a specific Tree.  Function bodies are
// referenced this way because they may live in a tree other than the one
// being evaluated.
type NodeRef struct {
	Tree *Tree
	ID   NodeID
}

// Valid returns true if ref names an existing node.
func (ref NodeRef) Valid() bool {
	return ref.Tree != nil && ref.ID >= 0 && int(ref.ID) < len(ref.Tree.Nodes)
}

// Node returns the referenced node.
func (ref NodeRef) Node() *Node {
	return ref.Tree.Node(ref.ID)
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{Root: NoNode}
}

// Add appends a node to t and links it as the last child of parent.  When
// parent is NoNode the node becomes the root.
func (t *Tree) Add(kind NodeKind, tok *token.Token, parent NodeID) NodeID {
	id := NodeID(len(t.Nodes))
	node := Node{
		Kind:   kind,
		Token:  tok,
		Parent: parent,
	}
	if kind == NodeString && tok != nil {
		node.Value = String(tok.Text)
	}
	t.Nodes = append(t.Nodes, node)
	if parent == NoNode {
		t.Root = id
	} else {
		p := &t.Nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Ref returns a reference to the node with the given id.
func (t *Tree) Ref(id NodeID) NodeRef {
	return NodeRef{Tree: t, ID: id}
}

// Empty returns true if t holds no statement.
func (t *Tree) Empty() bool {
	return t == nil || t.Root == NoNode
}

// CountLeaves returns the number of identifier and string nodes in t.
func (t *Tree) CountLeaves() int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].Kind != NodeList {
			n++
		}
	}
	return n
}

// CountLists returns the number of list nodes in t.
func (t *Tree) CountLists() int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].Kind == NodeList {
			n++
		}
	}
	return n
}

// maxOutlineIndent is the deepest level String indents.  Deeper nodes are
// prefixed with their depth.
const maxOutlineIndent = 32

var outlineIndent = strings.Repeat("  ", maxOutlineIndent)

// String renders t as an indented outline, one node per line.
func (t *Tree) String() string {
	if t.Empty() {
		return "<empty>"
	}
	var buf strings.Builder
	type item struct {
		id    NodeID
		depth int
	}
	work := []item{{t.Root, 0}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		node := t.Node(it.id)
		if it.depth <= maxOutlineIndent {
			buf.WriteString(outlineIndent[:2*it.depth])
		} else {
			buf.WriteString(outlineIndent)
			fmt.Fprintf(&buf, "[%d] ", it.depth)
		}
		switch node.Kind {
		case NodeList:
			fmt.Fprintf(&buf, "list[%d]\n", len(node.Children))
		case NodeString:
			fmt.Fprintf(&buf, "string %s\n", node.Value)
		default:
			fmt.Fprintf(&buf, "%s %s\n", node.Kind, node.Token.Text)
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			work = append(work, item{node.Children[i], it.depth + 1})
		}
	}
	return buf.String()
}

// Source renders the subtree rooted at id in surface syntax.
func (t *Tree) Source(id NodeID) string {
	var buf strings.Builder
	type item struct {
		id  NodeID
		lit string
	}
	work := []item{{id: id}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.id == NoNode {
			buf.WriteString(it.lit)
			continue
		}
		node := t.Node(it.id)
		switch node.Kind {
		case NodeList:
			buf.WriteString("(")
			work = append(work, item{id: NoNode, lit: ")"})
			for i := len(node.Children) - 1; i >= 0; i-- {
				work = append(work, item{id: node.Children[i]})
				if i > 0 {
					work = append(work, item{id: NoNode, lit: " "})
				}
			}
		case NodeString:
			buf.WriteString(node.Value.String())
		default:
			buf.WriteString(node.Token.Text)
		}
	}
	return buf.String()
}
