package tree

import (
	"fmt"
	"iter"
	"strconv"
)

// Node is one vertex of a binary tree.
//
// A nil Left or Right means the child is absent. The zero value is a leaf
// holding the zero value of T.
type Node[T comparable] struct {
	Value T
	Left  *Node[T]
	Right *Node[T]
}

// Repr renders a node value as text for the canonical serialization.
// It must be injective over the values a tree can hold and must not
// produce parentheses.
type Repr[T any] func(T) string

// Sprint is the default [Repr]; it formats the value with fmt.Sprint.
func Sprint[T any](v T) string { return fmt.Sprint(v) }

// IntRepr renders an int in base 10.
func IntRepr(v int) string { return strconv.Itoa(v) }

// StringRepr renders a string value as itself.
func StringRepr(v string) string { return v }

// Leaf returns a node with no children.
func Leaf[T comparable](v T) *Node[T] {
	return &Node[T]{Value: v}
}

// New returns a node with the given children. Either child may be nil.
func New[T comparable](v T, left, right *Node[T]) *Node[T] {
	return &Node[T]{Value: v, Left: left, Right: right}
}

// IsLeaf reports whether the node has no children.
func (n *Node[T]) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// String returns the canonical serialization of the subtree rooted at n,
// formatting values with fmt.Sprint.
func (n *Node[T]) String() string { return Serialize(n, Sprint[T]) }

// PostOrder yields every node of the subtree rooted at n, children before
// parents and left before right. A node reachable through two parent
// positions is yielded once per position.
func PostOrder[T comparable](n *Node[T]) iter.Seq[*Node[T]] {
	return func(yield func(*Node[T]) bool) {
		if n == nil {
			return
		}
		type frame struct {
			node *Node[T]
			done bool
		}
		stack := []frame{{node: n}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.done {
				stack = stack[:len(stack)-1]
				if !yield(top.node) {
					return
				}
				continue
			}
			stack[len(stack)-1].done = true
			if top.node.Right != nil {
				stack = append(stack, frame{node: top.node.Right})
			}
			if top.node.Left != nil {
				stack = append(stack, frame{node: top.node.Left})
			}
		}
	}
}

// Size returns the number of node positions in the subtree rooted at n.
func Size[T comparable](n *Node[T]) int {
	count := 0
	for range PostOrder(n) {
		count++
	}
	return count
}

// Height returns the number of nodes on the longest root-to-leaf path.
// A nil tree has height 0 and a single leaf has height 1.
func Height[T comparable](n *Node[T]) int {
	if n == nil {
		return 0
	}
	level := []*Node[T]{n}
	height := 0
	for len(level) > 0 {
		height++
		var next []*Node[T]
		for _, cur := range level {
			if cur.Left != nil {
				next = append(next, cur.Left)
			}
			if cur.Right != nil {
				next = append(next, cur.Right)
			}
		}
		level = next
	}
	return height
}

// Equal reports whether a and b have the same shape and the same values in
// the same positions. Two nil trees are equal.
func Equal[T comparable](a, b *Node[T]) bool {
	type pair struct{ a, b *Node[T] }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a == p.b {
			continue
		}
		if p.a == nil || p.b == nil || p.a.Value != p.b.Value {
			return false
		}
		stack = append(stack, pair{p.a.Right, p.b.Right}, pair{p.a.Left, p.b.Left})
	}
	return true
}

// Mirror returns a deep copy of n with every left and right child swapped.
// The input tree is not modified.
func Mirror[T comparable](n *Node[T]) *Node[T] {
	if n == nil {
		return nil
	}
	type pair struct{ src, dst *Node[T] }
	root := &Node[T]{Value: n.Value}
	stack := []pair{{n, root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.src.Left != nil {
			p.dst.Right = &Node[T]{Value: p.src.Left.Value}
			stack = append(stack, pair{p.src.Left, p.dst.Right})
		}
		if p.src.Right != nil {
			p.dst.Left = &Node[T]{Value: p.src.Right.Value}
			stack = append(stack, pair{p.src.Right, p.dst.Left})
		}
	}
	return root
}
