package dupes

import (
	"github.com/matzehuels/twintree/pkg/tree"
)

// FindDuplicateSubtrees returns one representative per duplicate group in
// detection order, using exact string keys and the iterative traversal.
// A nil root yields an empty slice. If repr is nil, fmt.Sprint is used.
// Reprs must be non-empty and free of parentheses; call [Detect] to have
// them checked.
func FindDuplicateSubtrees[T comparable](root *tree.Node[T], repr tree.Repr[T]) []*tree.Node[T] {
	return Find(root, Strings(repr), Options{}).Nodes()
}

// SerializeSubtree returns the canonical key of the subtree rooted at root
// under the string scheme. It is the same string as [tree.Serialize].
func SerializeSubtree[T comparable](root *tree.Node[T], repr tree.Repr[T]) string {
	return tree.Serialize(root, repr)
}

// Find runs one post-order pass over root with an explicit work list.
//
// Each node is expanded once to push its children and finished once after
// both children have pushed their keys onto the key stack; only then is
// its own key computed and recorded. Call depth stays constant regardless
// of tree height.
func Find[T comparable, K comparable](root *tree.Node[T], s Scheme[T, K], opts Options) *Report[T, K] {
	ix := newIndex[T, K](opts)
	if root == nil {
		return ix.report
	}

	type frame struct {
		node     *tree.Node[T]
		expanded bool
	}
	stack := []frame{{node: root}}
	var keys []K

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.expanded {
			stack[len(stack)-1].expanded = true
			// right first so the left subtree finishes first
			if r := top.node.Right; r != nil {
				stack = append(stack, frame{node: r})
			}
			if l := top.node.Left; l != nil {
				stack = append(stack, frame{node: l})
			}
			continue
		}
		stack = stack[:len(stack)-1]

		keys = ix.finish(top.node, s, keys)
	}
	return ix.report
}

// finish pops the child keys of n off keys, records n and pushes its key.
func (ix *index[T, K]) finish(n *tree.Node[T], s Scheme[T, K], keys []K) []K {
	left, right := s.Absent(), s.Absent()
	if n.Right != nil {
		right = keys[len(keys)-1]
		keys = keys[:len(keys)-1]
	}
	if n.Left != nil {
		left = keys[len(keys)-1]
		keys = keys[:len(keys)-1]
	}
	k := s.Combine(n.Value, left, right)
	ix.observe(n, k)
	return append(keys, k)
}

// FindRecursive is the recursive form of [Find]. It produces the same
// report but uses one call frame per tree level.
func FindRecursive[T comparable, K comparable](root *tree.Node[T], s Scheme[T, K], opts Options) *Report[T, K] {
	ix := newIndex[T, K](opts)

	var visit func(n *tree.Node[T]) K
	visit = func(n *tree.Node[T]) K {
		if n == nil {
			return s.Absent()
		}
		left := visit(n.Left)
		right := visit(n.Right)
		k := s.Combine(n.Value, left, right)
		ix.observe(n, k)
		return k
	}

	visit(root)
	return ix.report
}
