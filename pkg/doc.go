// Package pkg provides the core libraries for twintree duplicate-subtree
// detection.
//
// # Overview
//
// Twintree finds every subtree that occurs at least twice in a binary tree.
// Two subtrees are duplicates when they have the same shape and the same
// values at corresponding positions. Each group of duplicates is reported
// once, through one representative occurrence.
//
// The pkg directory is organized into three areas:
//
//  1. Domain logic: [tree], [dupes], [render]
//  2. Infrastructure: [cache], [config], [observability], [errors]
//  3. Orchestration: [io], [pipeline], [server]
//
// # Architecture
//
// The typical data flow:
//
//	tree file / API request
//	         ↓
//	    [io] package (level-order list or nested JSON → tree)
//	         ↓
//	    [pipeline] package (fingerprint, cache lookup)
//	         ↓
//	    [dupes] package (post-order keying, grouping)
//	         ↓
//	    summary JSON / table / SVG
//
// # Quick Start
//
// Find the duplicate subtrees of a small tree:
//
//	import (
//	    "github.com/matzehuels/twintree/pkg/dupes"
//	    "github.com/matzehuels/twintree/pkg/tree"
//	)
//
//	root := tree.New(2, tree.Leaf(15), tree.Leaf(15))
//	for _, n := range dupes.FindDuplicateSubtrees(root, tree.IntRepr) {
//	    fmt.Println(n) // (15)
//	}
//
// Large or adversarial trees should use the hash scheme, which keys each
// subtree with a fixed-size 64-bit digest instead of its full serialization:
//
//	report := dupes.Find(root, dupes.Hashes(tree.IntRepr), dupes.Options{Verify: true})
//
// # Main Packages
//
// [tree] - The generic binary tree node, canonical serialization, structural
// equality and an arena builder for index-linked input.
//
// [dupes] - Duplicate detection. Key schemes (string and hash) are combined
// with three traversals: iterative, recursive and parallel. All of them
// produce the same groups in the same order.
//
// [render] - Node-link diagrams through Graphviz, with duplicate groups
// highlighted.
//
// [pipeline] - Cached analysis and rendering shared by the CLI and the API.
//
// [server] - The HTTP API.
//
// [cache] - File, redis and no-op cache backends with content-addressed keys.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/tree
// [dupes]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/dupes
// [render]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/twintree/pkg/server
package pkg
