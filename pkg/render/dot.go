package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/twintree/pkg/dupes"
	"github.com/matzehuels/twintree/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Highlight colors duplicate groups.
	Highlight bool

	// Detailed adds the occurrence count to the labels of duplicate
	// members, e.g. "5\n×2".
	Detailed bool
}

// palette holds group fill colors, cycled in detection order.
var palette = []string{
	"#fde68a", "#a7f3d0", "#bfdbfe", "#fbcfe8", "#ddd6fe",
	"#fed7aa", "#bbf7d0", "#c7d2fe", "#fecaca", "#99f6e4",
}

// style is the highlight of one node.
type style struct {
	fill           string
	count          int
	representative bool
}

// ToDOT converts a tree to Graphviz DOT source. A nil root produces an
// empty graph.
func ToDOT[T comparable](root *tree.Node[T], repr tree.Repr[T], opts Options) string {
	if repr == nil {
		repr = tree.Sprint[T]
	}

	var styles map[*tree.Node[T]]style
	if opts.Highlight {
		styles = highlight(root, repr)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	ids := make(map[*tree.Node[T]]string)
	var edges []string
	holes := 0

	// Preorder, left first, so ids read naturally in the output.
	stack := []*tree.Node[T]{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if _, ok := ids[n]; ok {
			continue
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(repr(n.Value), styles[n], opts.Detailed), ", "))
		stack = append(stack, n.Right, n.Left)
	}

	// Edges are emitted after all ids exist so shared nodes get one id.
	stack = append(stack[:0], root)
	visited := make(map[*tree.Node[T]]bool)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true
		if n.IsLeaf() {
			continue
		}
		for _, child := range []*tree.Node[T]{n.Left, n.Right} {
			if child == nil {
				hole := fmt.Sprintf("h%d", holes)
				holes++
				fmt.Fprintf(&buf, "  %s [style=invis, label=\"\", width=0.1];\n", hole)
				edges = append(edges, fmt.Sprintf("  %s -> %s [style=invis];", ids[n], hole))
				continue
			}
			edges = append(edges, fmt.Sprintf("  %s -> %s;", ids[n], ids[child]))
		}
		stack = append(stack, n.Right, n.Left)
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
		buf.WriteString(strings.Join(edges, "\n"))
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

// highlight assigns a palette color to every member of a duplicate group.
func highlight[T comparable](root *tree.Node[T], repr tree.Repr[T]) map[*tree.Node[T]]style {
	s := dupes.Hashes(repr)
	report := dupes.Find(root, s, dupes.Options{Verify: true})
	styles := make(map[*tree.Node[T]]style)
	for i, members := range dupes.Members(root, s, report) {
		g := report.Groups[i]
		for _, n := range members {
			styles[n] = style{
				fill:           palette[i%len(palette)],
				count:          g.Count,
				representative: n == g.Representative,
			}
		}
	}
	return styles
}

func fmtAttrs(value string, st style, detailed bool) []string {
	label := value
	if detailed && st.count > 1 {
		label = fmt.Sprintf("%s\n×%d", value, st.count)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if st.fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", st.fill))
	}
	if st.representative {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}
