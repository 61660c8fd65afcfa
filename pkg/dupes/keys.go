package dupes

import "github.com/matzehuels/twintree/pkg/tree"

// Keys returns the canonical key of every distinct node reachable from
// root. A node shared between two positions appears once. The walk is
// iterative.
func Keys[T comparable, K comparable](root *tree.Node[T], s Scheme[T, K]) map[*tree.Node[T]]K {
	entries := keySubtree(root, s)
	keys := make(map[*tree.Node[T]]K, len(entries))
	for _, e := range entries {
		keys[e.node] = e.key
	}
	return keys
}

// Members groups every node reachable from root by the report group it
// belongs to, indexed like r.Groups. Nodes outside any group are omitted.
// Within a group, nodes appear in post-order of first visit.
func Members[T comparable, K comparable](root *tree.Node[T], s Scheme[T, K], r *Report[T, K]) [][]*tree.Node[T] {
	out := make([][]*tree.Node[T], len(r.Groups))
	if len(r.Groups) == 0 {
		return out
	}
	byKey := make(map[K][]int, len(r.Groups))
	for i, g := range r.Groups {
		byKey[g.Key] = append(byKey[g.Key], i)
	}

	seen := make(map[*tree.Node[T]]bool)
	for _, e := range keySubtree(root, s) {
		if seen[e.node] {
			continue
		}
		seen[e.node] = true
		for _, i := range byKey[e.key] {
			// More than one group per key only happens under Verify.
			if len(byKey[e.key]) > 1 && !tree.Equal(r.Groups[i].Representative, e.node) {
				continue
			}
			out[i] = append(out[i], e.node)
			break
		}
	}
	return out
}
