package dupes

import (
	"context"
	"strings"

	errs "github.com/matzehuels/twintree/pkg/errors"
	"github.com/matzehuels/twintree/pkg/tree"
)

// Scheme and traversal names accepted by [Strategy].
const (
	SchemeString = "string"
	SchemeHash   = "hash"

	TraversalIterative = "iterative"
	TraversalRecursive = "recursive"
	TraversalParallel  = "parallel"
)

// Strategy selects a key scheme and traversal by name, for callers that
// pick them at runtime (CLI flags, config files, HTTP requests).
// Empty fields default to SchemeString and TraversalIterative.
type Strategy struct {
	Scheme    string
	Traversal string
}

// Normalize lowercases the names and fills in defaults.
func (s Strategy) Normalize() Strategy {
	s.Scheme = strings.ToLower(s.Scheme)
	s.Traversal = strings.ToLower(s.Traversal)
	if s.Scheme == "" {
		s.Scheme = SchemeString
	}
	if s.Traversal == "" {
		s.Traversal = TraversalIterative
	}
	return s
}

// Validate returns an INVALID_SCHEME or INVALID_TRAVERSAL error for unknown
// names.
func (s Strategy) Validate() error {
	s = s.Normalize()
	if err := errs.ValidateScheme(s.Scheme); err != nil {
		return err
	}
	return errs.ValidateTraversal(s.Traversal)
}

// Duplicate is a [Group] with its key rendered by [Group.KeyString].
type Duplicate[T comparable] struct {
	Key            string
	Representative *tree.Node[T]
	Count          int
}

// Result is the key-erased outcome of [Detect].
type Result[T comparable] struct {
	Duplicates []Duplicate[T]
	Subtrees   int
	Distinct   int
}

// Nodes returns the representatives in detection order, never nil.
func (r *Result[T]) Nodes() []*tree.Node[T] {
	nodes := make([]*tree.Node[T], len(r.Duplicates))
	for i, d := range r.Duplicates {
		nodes[i] = d.Representative
	}
	return nodes
}

// Detect runs the pass described by st over root.
//
// Under the string scheme every value representation is checked first and
// an INVALID_INPUT error is returned when one is empty or holds a key
// delimiter, since either makes the serialization ambiguous.
func Detect[T comparable](ctx context.Context, root *tree.Node[T], repr tree.Repr[T], st Strategy, opts Options) (*Result[T], error) {
	st = st.Normalize()
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if repr == nil {
		repr = tree.Sprint[T]
	}

	switch st.Scheme {
	case SchemeHash:
		r, err := run(ctx, root, Hashes(repr), st.Traversal, opts)
		if err != nil {
			return nil, err
		}
		return erase(r), nil
	default:
		if err := checkReprs(root, repr); err != nil {
			return nil, err
		}
		r, err := run(ctx, root, Strings(repr), st.Traversal, opts)
		if err != nil {
			return nil, err
		}
		return erase(r), nil
	}
}

func run[T comparable, K comparable](ctx context.Context, root *tree.Node[T], s Scheme[T, K], traversal string, opts Options) (*Report[T, K], error) {
	switch traversal {
	case TraversalRecursive:
		return FindRecursive(root, s, opts), nil
	case TraversalParallel:
		return FindParallel(ctx, root, s, opts)
	default:
		return Find(root, s, opts), nil
	}
}

func erase[T comparable, K comparable](r *Report[T, K]) *Result[T] {
	out := &Result[T]{
		Duplicates: make([]Duplicate[T], len(r.Groups)),
		Subtrees:   r.Subtrees,
		Distinct:   r.Distinct,
	}
	for i, g := range r.Groups {
		out.Duplicates[i] = Duplicate[T]{
			Key:            g.KeyString(),
			Representative: g.Representative,
			Count:          g.Count,
		}
	}
	return out
}

func checkReprs[T comparable](root *tree.Node[T], repr tree.Repr[T]) error {
	seen := make(map[T]struct{})
	for n := range tree.PostOrder(root) {
		if _, ok := seen[n.Value]; ok {
			continue
		}
		seen[n.Value] = struct{}{}
		if err := errs.ValidateRepr(repr(n.Value)); err != nil {
			return err
		}
	}
	return nil
}
