package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/twintree/pkg/errors"
	"github.com/matzehuels/twintree/pkg/tree"
)

// node is the nested JSON shape of one tree vertex.
type node[T comparable] struct {
	Value T        `json:"value"`
	Left  *node[T] `json:"left,omitempty"`
	Right *node[T] `json:"right,omitempty"`
}

// ReadJSON decodes a nested JSON tree from r. A JSON null yields a nil tree.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed or a
// value does not decode into T. ReadJSON does not close r.
func ReadJSON[T comparable](r io.Reader) (*tree.Node[T], error) {
	var data *node[T]
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode tree")
	}
	return fromJSON(data), nil
}

// fromJSON converts the decoded shape without recursion.
func fromJSON[T comparable](root *node[T]) *tree.Node[T] {
	if root == nil {
		return nil
	}
	type pair struct {
		src *node[T]
		dst *tree.Node[T]
	}
	out := &tree.Node[T]{Value: root.Value}
	stack := []pair{{root, out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.src.Left != nil {
			p.dst.Left = &tree.Node[T]{Value: p.src.Left.Value}
			stack = append(stack, pair{p.src.Left, p.dst.Left})
		}
		if p.src.Right != nil {
			p.dst.Right = &tree.Node[T]{Value: p.src.Right.Value}
			stack = append(stack, pair{p.src.Right, p.dst.Right})
		}
	}
	return out
}

// ParseLevelOrder builds an int tree from its level-order form, e.g.
// "[2,15,15]" or "[42,5,3,1,2,null,5]". "[]" and "[null]" yield a nil tree.
func ParseLevelOrder(data []byte) (*tree.Node[int], error) {
	var vals []*int
	if err := json.Unmarshal(data, &vals); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode level-order list")
	}
	if len(vals) == 0 || vals[0] == nil {
		if len(vals) > 1 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "level-order list has a null root but %d more entries", len(vals)-1)
		}
		return nil, nil
	}

	root := tree.Leaf(*vals[0])
	queue := []*tree.Node[int]{root}
	i := 1
	for len(queue) > 0 && i < len(vals) {
		cur := queue[0]
		queue = queue[1:]
		if v := vals[i]; v != nil {
			cur.Left = tree.Leaf(*v)
			queue = append(queue, cur.Left)
		}
		i++
		if i < len(vals) {
			if v := vals[i]; v != nil {
				cur.Right = tree.Leaf(*v)
				queue = append(queue, cur.Right)
			}
			i++
		}
	}
	if i < len(vals) {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "level-order list has %d entries with no parent", len(vals)-i)
	}
	return root, nil
}

// Read decodes an int tree from r, choosing the format from the first
// non-space byte.
func Read(r io.Reader) (*tree.Node[int], error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "empty input")
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read tree")
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			_ = br.UnreadByte()
			data, err := io.ReadAll(br)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read tree")
			}
			return ParseLevelOrder(bytes.TrimSpace(data))
		case '{', 'n':
			_ = br.UnreadByte()
			return ReadJSON[int](br)
		default:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unrecognized tree format starting with %q", b)
		}
	}
}

// ImportFile reads the file at path and decodes it with [Read].
// A missing file returns a FILE_NOT_FOUND error.
func ImportFile(path string) (*tree.Node[int], error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	root, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
