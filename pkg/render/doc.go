// Package render draws binary trees as Graphviz diagrams with duplicate
// subtrees highlighted.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := render.ToDOT(root, tree.IntRepr, render.Options{Highlight: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Layout
//
// Nodes are drawn top to bottom with left children left of right children.
// When a node has only one child, an invisible placeholder takes the other
// side so the position stays readable. A node shared between two parents
// is drawn once with two incoming edges.
//
// # Highlighting
//
// With [Options.Highlight], every member of a duplicate group is filled
// with the group's color and the reported representative gets a thick
// border. Colors cycle through a fixed palette in detection order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz install is needed.
package render
