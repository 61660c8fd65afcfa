package tree

import (
	errs "github.com/matzehuels/twintree/pkg/errors"
)

// Index addresses a slot in an [Arena].
type Index int

// NoChild marks an absent child in [Arena.Add].
const NoChild Index = -1

type slot[T comparable] struct {
	value       T
	left, right Index
}

// Arena stores tree nodes in insertion order and addresses children by
// index. A child must be added before any parent that references it, so a
// cycle can never be expressed.
//
// The zero value is an empty arena ready for use.
// Arena is not safe for concurrent use without external synchronization.
type Arena[T comparable] struct {
	slots []slot[T]
}

// NewArena returns an empty arena with room for capacity nodes.
func NewArena[T comparable](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

// Add appends a node and returns its index. left and right must each be
// [NoChild] or the index of an existing slot; anything else returns an
// INVALID_TREE error and leaves the arena unchanged.
//
// The same child index may be passed for both positions or reused by
// several parents; [Arena.Tree] then shares the resulting *Node.
func (a *Arena[T]) Add(v T, left, right Index) (Index, error) {
	if err := a.checkChild(left, "left"); err != nil {
		return NoChild, err
	}
	if err := a.checkChild(right, "right"); err != nil {
		return NoChild, err
	}
	a.slots = append(a.slots, slot[T]{value: v, left: left, right: right})
	return Index(len(a.slots) - 1), nil
}

func (a *Arena[T]) checkChild(i Index, side string) error {
	if i == NoChild {
		return nil
	}
	if i < 0 || int(i) >= len(a.slots) {
		return errs.New(errs.ErrCodeInvalidTree, "%s child index %d does not refer to an earlier node (have %d)", side, i, len(a.slots))
	}
	return nil
}

// Len returns the number of slots in the arena.
func (a *Arena[T]) Len() int { return len(a.slots) }

// Value returns the value stored at i. It panics if i is out of range.
func (a *Arena[T]) Value(i Index) T { return a.slots[i].value }

// Children returns the child indices stored at i. It panics if i is out of range.
func (a *Arena[T]) Children(i Index) (left, right Index) {
	s := a.slots[i]
	return s.left, s.right
}

// Tree materializes the subtree rooted at root as linked [Node] values.
// Every slot maps to exactly one *Node, so slots referenced more than once
// are shared. Returns an INVALID_TREE error if root is out of range;
// [NoChild] yields a nil tree.
func (a *Arena[T]) Tree(root Index) (*Node[T], error) {
	if root == NoChild {
		return nil, nil
	}
	if root < 0 || int(root) >= len(a.slots) {
		return nil, errs.New(errs.ErrCodeInvalidTree, "root index %d out of range (have %d)", root, len(a.slots))
	}

	nodes := make([]*Node[T], root+1)
	for i := Index(0); i <= root; i++ {
		s := a.slots[i]
		n := &Node[T]{Value: s.value}
		if s.left != NoChild {
			n.Left = nodes[s.left]
		}
		if s.right != NoChild {
			n.Right = nodes[s.right]
		}
		nodes[i] = n
	}
	return nodes[root], nil
}
