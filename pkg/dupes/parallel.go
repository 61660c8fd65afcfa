package dupes

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/twintree/pkg/tree"
)

// DefaultSplitDepth is the depth at which [FindParallel] hands subtrees to
// workers when [Options.SplitDepth] is zero. Depth 4 yields up to 16 tasks.
const DefaultSplitDepth = 4

// ctxCheckInterval is how many nodes a worker keys between context checks.
const ctxCheckInterval = 1024

// entry is one keyed subtree produced by a worker.
type entry[T comparable, K comparable] struct {
	node *tree.Node[T]
	key  K
}

// FindParallel produces the same report as [Find], computing keys for the
// subtrees rooted at [Options.SplitDepth] on up to [Options.Workers]
// goroutines.
//
// Key computation is pure, so workers share nothing. The index is updated
// afterwards by the calling goroutine alone: it walks the top of the tree in
// post-order and replays each worker's keys in place, which keeps detection
// order identical to the sequential pass.
//
// Returns ctx.Err() if ctx is cancelled before keying finishes.
func FindParallel[T comparable, K comparable](ctx context.Context, root *tree.Node[T], s Scheme[T, K], opts Options) (*Report[T, K], error) {
	split := opts.SplitDepth
	if split <= 0 {
		split = DefaultSplitDepth
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	frontier := frontierOf(root, split)
	if len(frontier) == 0 {
		return Find(root, s, opts), nil
	}

	results := make([][]entry[T, K], len(frontier))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range frontier {
		g.Go(func() error {
			keyed, err := keySubtreeCtx(gctx, n, s)
			if err != nil {
				return err
			}
			results[i] = keyed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Logger != nil {
		opts.Logger.Debug("keyed subtrees in parallel", "tasks", len(frontier), "workers", workers, "split", split)
	}
	return merge(root, s, opts, split, results), nil
}

// frontierOf returns the nodes at depth split, left to right.
func frontierOf[T comparable](root *tree.Node[T], split int) []*tree.Node[T] {
	if root == nil {
		return nil
	}
	type frame struct {
		node  *tree.Node[T]
		depth int
	}
	var frontier []*tree.Node[T]
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth == split {
			frontier = append(frontier, f.node)
			continue
		}
		if r := f.node.Right; r != nil {
			stack = append(stack, frame{r, f.depth + 1})
		}
		if l := f.node.Left; l != nil {
			stack = append(stack, frame{l, f.depth + 1})
		}
	}
	return frontier
}

// merge walks the nodes above the split depth in post-order on the calling
// goroutine. Each frontier node it reaches is replaced by the replay of its
// precomputed entries, in the order frontierOf produced them.
func merge[T comparable, K comparable](root *tree.Node[T], s Scheme[T, K], opts Options, split int, results [][]entry[T, K]) *Report[T, K] {
	ix := newIndex[T, K](opts)

	type frame struct {
		node     *tree.Node[T]
		depth    int
		expanded bool
	}
	stack := []frame{{node: root}}
	var keys []K
	next := 0

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.depth == split {
			stack = stack[:len(stack)-1]
			keyed := results[next]
			next++
			for _, e := range keyed {
				ix.observe(e.node, e.key)
			}
			keys = append(keys, keyed[len(keyed)-1].key)
			continue
		}
		if !top.expanded {
			stack[len(stack)-1].expanded = true
			if r := top.node.Right; r != nil {
				stack = append(stack, frame{node: r, depth: top.depth + 1})
			}
			if l := top.node.Left; l != nil {
				stack = append(stack, frame{node: l, depth: top.depth + 1})
			}
			continue
		}
		stack = stack[:len(stack)-1]
		keys = ix.finish(top.node, s, keys)
	}
	return ix.report
}

// keySubtree keys every node under n in post-order without recording
// anything. The last entry holds n's key.
func keySubtree[T comparable, K comparable](n *tree.Node[T], s Scheme[T, K]) []entry[T, K] {
	entries, _ := keySubtreeCtx(context.Background(), n, s)
	return entries
}

func keySubtreeCtx[T comparable, K comparable](ctx context.Context, n *tree.Node[T], s Scheme[T, K]) ([]entry[T, K], error) {
	var entries []entry[T, K]
	if n == nil {
		return entries, nil
	}

	var keys []K
	for node := range tree.PostOrder(n) {
		if len(entries)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		left, right := s.Absent(), s.Absent()
		if node.Right != nil {
			right = keys[len(keys)-1]
			keys = keys[:len(keys)-1]
		}
		if node.Left != nil {
			left = keys[len(keys)-1]
			keys = keys[:len(keys)-1]
		}
		k := s.Combine(node.Value, left, right)
		keys = append(keys, k)
		entries = append(entries, entry[T, K]{node: node, key: k})
	}
	return entries, nil
}
