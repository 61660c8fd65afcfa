package dupes

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twintree/pkg/tree"
)

// Group is one set of structurally equal subtrees with at least two members.
type Group[T comparable, K comparable] struct {
	// Key is the canonical key shared by every member.
	Key K
	// Representative is the member whose discovery made the count reach 2.
	Representative *tree.Node[T]
	// Count is the number of occurrences seen by the end of the pass.
	Count int

	exemplar *tree.Node[T] // first occurrence, compared against under Verify
}

// KeyString formats the key for display: strings as-is, hashes as 16 hex
// digits.
func (g *Group[T, K]) KeyString() string { return formatKey(g.Key) }

func formatKey[K comparable](k K) string {
	switch v := any(k).(type) {
	case string:
		return v
	case uint64:
		return fmt.Sprintf("%016x", v)
	}
	return fmt.Sprint(k)
}

// Report is the outcome of one duplicate-detection pass.
type Report[T comparable, K comparable] struct {
	// Groups lists duplicate groups in detection order.
	Groups []*Group[T, K]
	// Subtrees is the number of subtree positions visited.
	Subtrees int
	// Distinct is the number of distinct canonical subtrees seen.
	Distinct int
}

// Nodes returns the representatives in detection order. The result is
// never nil.
func (r *Report[T, K]) Nodes() []*tree.Node[T] {
	nodes := make([]*tree.Node[T], len(r.Groups))
	for i, g := range r.Groups {
		nodes[i] = g.Representative
	}
	return nodes
}

// Len returns the number of duplicate groups.
func (r *Report[T, K]) Len() int { return len(r.Groups) }

// Options tunes a detection pass. The zero value is valid.
type Options struct {
	// Verify compares every key match structurally with [tree.Equal] before
	// counting it, so a hash collision opens a new group instead of merging
	// unequal subtrees. Costs a subtree comparison per match.
	Verify bool

	// Logger receives a debug line per detected group. Nil disables logging.
	Logger *log.Logger

	// Workers bounds the goroutines used by [FindParallel].
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	// SplitDepth is the depth at which [FindParallel] hands subtrees to
	// workers (the root is depth 0). Zero means DefaultSplitDepth.
	SplitDepth int
}

// index is the DuplicateIndex: canonical key to occurrence bucket.
// It only grows during a pass and is dropped when the pass returns.
type index[T comparable, K comparable] struct {
	buckets map[K][]*Group[T, K]
	opts    Options
	report  *Report[T, K]
}

func newIndex[T comparable, K comparable](opts Options) *index[T, K] {
	return &index[T, K]{
		buckets: make(map[K][]*Group[T, K]),
		opts:    opts,
		report:  &Report[T, K]{Groups: []*Group[T, K]{}},
	}
}

// observe records one occurrence of n under key k. It appends n as the
// representative when its group's count goes from 1 to 2.
func (ix *index[T, K]) observe(n *tree.Node[T], k K) {
	ix.report.Subtrees++

	bucket := ix.buckets[k]
	var g *Group[T, K]
	if ix.opts.Verify {
		for _, cand := range bucket {
			if tree.Equal(cand.exemplar, n) {
				g = cand
				break
			}
		}
	} else if len(bucket) > 0 {
		g = bucket[0]
	}

	if g == nil {
		ix.buckets[k] = append(bucket, &Group[T, K]{Key: k, Count: 1, exemplar: n})
		ix.report.Distinct++
		return
	}

	g.Count++
	if g.Count == 2 {
		g.Representative = n
		ix.report.Groups = append(ix.report.Groups, g)
		if ix.opts.Logger != nil {
			ix.opts.Logger.Debug("duplicate subtree", "value", n.Value, "group", len(ix.report.Groups), "key", truncate(formatKey(k), 48))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
