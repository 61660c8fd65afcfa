package tree

import "strings"

// Serialize returns the canonical nested serialization of the subtree
// rooted at n:
//
//	"(" + Serialize(n.Left) + repr(n.Value) + Serialize(n.Right) + ")"
//
// An absent child contributes the empty string. A nil n yields "".
// If repr is nil, [Sprint] is used.
//
// The output is deterministic: serializing an unmodified tree twice yields
// identical strings. Two subtrees serialize equally if and only if they
// have the same shape and values, provided repr is injective and never
// emits parentheses or the empty string.
func Serialize[T comparable](n *Node[T], repr Repr[T]) string {
	if n == nil {
		return ""
	}
	if repr == nil {
		repr = Sprint[T]
	}

	// stage 0: open and descend left, 1: value and descend right, 2: close
	type frame struct {
		node  *Node[T]
		stage uint8
	}

	var b strings.Builder
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		switch top.stage {
		case 0:
			b.WriteByte('(')
			top.stage = 1
			if left := top.node.Left; left != nil {
				stack = append(stack, frame{node: left})
			}
		case 1:
			b.WriteString(repr(top.node.Value))
			top.stage = 2
			if right := top.node.Right; right != nil {
				stack = append(stack, frame{node: right})
			}
		default:
			b.WriteByte(')')
			stack = stack[:len(stack)-1]
		}
	}
	return b.String()
}
