package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/twintree/pkg/tree"
)

// WriteJSON encodes root as nested JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON[T comparable](root *tree.Node[T], w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toJSON[T comparable](root *tree.Node[T]) *node[T] {
	if root == nil {
		return nil
	}
	type pair struct {
		src *tree.Node[T]
		dst *node[T]
	}
	out := &node[T]{Value: root.Value}
	stack := []pair{{root, out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.src.Left != nil {
			p.dst.Left = &node[T]{Value: p.src.Left.Value}
			stack = append(stack, pair{p.src.Left, p.dst.Left})
		}
		if p.src.Right != nil {
			p.dst.Right = &node[T]{Value: p.src.Right.Value}
			stack = append(stack, pair{p.src.Right, p.dst.Right})
		}
	}
	return out
}

// FormatLevelOrder renders root in level-order form with trailing nulls
// trimmed. A nil root yields "[]".
func FormatLevelOrder(root *tree.Node[int]) []byte {
	var vals []*int
	queue := []*tree.Node[int]{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil {
			vals = append(vals, nil)
			continue
		}
		v := cur.Value
		vals = append(vals, &v)
		queue = append(queue, cur.Left, cur.Right)
	}
	for len(vals) > 0 && vals[len(vals)-1] == nil {
		vals = vals[:len(vals)-1]
	}
	if len(vals) == 0 {
		return []byte("[]")
	}
	data, _ := json.Marshal(vals)
	return data
}

// ExportJSON writes root to a nested JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON[T comparable](root *tree.Node[T], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(root, f)
}
