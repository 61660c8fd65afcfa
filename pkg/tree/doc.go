// Package tree provides the binary tree model that twintree analyzes.
//
// # Overview
//
// A [Node] holds a comparable value and optional left and right children.
// Children are ordinary pointers, so one subtree may be referenced from
// several places at once: from its parent, from a duplicate report, or (in
// test fixtures) from two parent positions. The garbage collector keeps a
// node alive for as long as any holder references it.
//
// Nothing in this package mutates a tree after it is built. Analysis code
// treats the structure as read-only, which makes a finished tree safe for
// concurrent readers.
//
// # Canonical Serialization
//
// [Serialize] renders a subtree as a nested, in-order string:
//
//	serialize(n) = "(" + serialize(n.Left) + repr(n.Value) + serialize(n.Right) + ")"
//
// An absent child contributes nothing, and every present child starts with
// "(", so presence and position are never ambiguous as long as the value
// representation itself contains no parentheses. The tree 2(left=1, right=3)
// serializes to "((1)2(3))".
//
// # Arena Construction
//
// [Arena] stores nodes in a slice and addresses children by [Index]. A child
// index must refer to an earlier slot, so every arena-built tree is acyclic
// by construction. [Arena.Tree] materializes the pointer-based form; a slot
// referenced twice becomes one shared *Node.
//
//	a := tree.NewArena[int](3)
//	l, _ := a.Add(1, tree.NoChild, tree.NoChild)
//	r, _ := a.Add(3, tree.NoChild, tree.NoChild)
//	root, _ := a.Add(2, l, r)
//	t, _ := a.Tree(root)
//
// # Traversal
//
// All walks in this package ([Serialize], [PostOrder], [Size], [Height],
// [Equal], [Mirror]) use explicit stacks, so near-linear trees of any height
// do not grow the goroutine stack.
package tree
