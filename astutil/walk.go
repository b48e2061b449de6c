// Copyright © 2026 The Tilelisp authors

// Package astutil provides shared walking helpers for parsed statements.
//
// These helpers are used by the lint and lsp packages to inspect statements
// without evaluating them.
package astutil

import "github.com/tilelisp/tilelisp/lisp"

// Walk calls fn for every node of tree in source order, parents before their
// children.  parent is lisp.NoNode for the root.  Walk does not recurse on
// the Go stack.
func Walk(tree *lisp.Tree, fn func(id, parent lisp.NodeID, depth int)) {
	if tree.Empty() {
		return
	}
	type item struct {
		id, parent lisp.NodeID
		depth      int
	}
	work := []item{{tree.Root, lisp.NoNode, 0}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		fn(it.id, it.parent, it.depth)
		children := tree.Node(it.id).Children
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, item{children[i], it.id, it.depth + 1})
		}
	}
}

// WalkApplications calls fn for every non-empty list in tree, that is, every
// function application.
func WalkApplications(tree *lisp.Tree, fn func(id lisp.NodeID, depth int)) {
	Walk(tree, func(id, _ lisp.NodeID, depth int) {
		node := tree.Node(id)
		if node.Kind == lisp.NodeList && len(node.Children) > 0 {
			fn(id, depth)
		}
	})
}

// Head returns the first child of the list id, or nil.
func Head(tree *lisp.Tree, id lisp.NodeID) *lisp.Node {
	node := tree.Node(id)
	if node.Kind != lisp.NodeList || len(node.Children) == 0 {
		return nil
	}
	return tree.Node(node.Children[0])
}

// HeadIdentifier returns the identifier at the head of the list id, or "".
func HeadIdentifier(tree *lisp.Tree, id lisp.NodeID) string {
	head := Head(tree, id)
	if head == nil || head.Kind != lisp.NodeIdentifier {
		return ""
	}
	return head.Token.Text
}

// ArgCount returns the number of operands of the list id, excluding its head.
func ArgCount(tree *lisp.Tree, id lisp.NodeID) int {
	n := len(tree.Node(id).Children)
	if n <= 1 {
		return 0
	}
	return n - 1
}

// Identifiers returns the identifier nodes of tree in source order.
func Identifiers(tree *lisp.Tree) []*lisp.Node {
	var idents []*lisp.Node
	Walk(tree, func(id, _ lisp.NodeID, _ int) {
		if node := tree.Node(id); node.Kind == lisp.NodeIdentifier {
			idents = append(idents, node)
		}
	})
	return idents
}
