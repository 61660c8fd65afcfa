// Package dupes finds duplicate subtrees in a binary tree.
//
// # Overview
//
// Two subtrees are duplicates when they have the same shape and the same
// values in the same left/right positions. The package walks the tree once
// in post-order, derives a canonical key for every subtree from its value
// and its children's keys, counts how often each key occurs, and reports a
// representative for every key seen at least twice.
//
// # Reporting Policy
//
// A group is reported exactly once, at the moment its count goes from 1 to
// 2. The representative is the node that caused that transition, i.e. the
// second occurrence in post-order, never the first. Groups appear in the
// order they were detected. Later occurrences only raise [Group.Count].
//
// # Key Schemes
//
// A [Scheme] turns (value, left key, right key) into a key:
//
//   - [StringScheme] builds the nested serialization of [tree.Serialize].
//     Keys are exact but each one is as long as its subtree.
//   - [HashScheme] folds the value and child hashes into a 64-bit xxhash
//     digest with distinct mixing for the left and right slot. Keys are
//     fixed-width; set [Options.Verify] to rule out hash collisions with a
//     structural comparison.
//
// # Traversals
//
// [Find] uses an explicit work list and is the default. [FindRecursive]
// recurses and is only suitable when the tree height is bounded.
// [FindParallel] keys disjoint subtrees concurrently and then replays their
// keys into the index on a single goroutine, so it produces exactly the
// same report as [Find].
//
// # Usage
//
//	root := tree.New(2, tree.Leaf(15), tree.Leaf(15))
//	dups := dupes.FindDuplicateSubtrees(root, tree.IntRepr)
//	// dups == []*tree.Node[int]{root.Right}
//
// # Concurrency
//
// The input tree is never modified. Reports hold pointers into it and are
// safe for concurrent readers once returned.
package dupes
