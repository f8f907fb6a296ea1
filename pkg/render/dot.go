package render

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/matzehuels/stackmap/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Labels names each domain number; missing entries fall back to "d<num>".
	Labels []string

	// Cluster groups the vertices of each domain into a subgraph.
	Cluster bool

	// EdgeLoads writes edge loads greater than one as edge labels.
	EdgeLoads bool
}

// palette is cycled through by domain number.
var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Color returns the fill colour used for domain num.
func Color(num int) string {
	if num < 0 {
		return "white"
	}
	return palette[num%len(palette)]
}

// ToDOT renders g as an undirected DOT graph. parts holds the domain number
// of every vertex, or a negative value for unassigned vertices; a nil parts
// draws the bare graph. Vertex names use the graph's base.
func ToDOT(g *graph.Graph, parts []int, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	part := func(v int) int {
		if parts == nil || v >= len(parts) {
			return -1
		}
		return parts[v]
	}

	if opts.Cluster && parts != nil {
		for _, num := range domainsOf(parts) {
			fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", num)
			fmt.Fprintf(&buf, "    label=%q;\n", label(opts.Labels, num))
			for v := 0; v < g.VertNbr; v++ {
				if part(v) == num {
					writeVertex(&buf, g, v, num, "    ")
				}
			}
			buf.WriteString("  }\n")
		}
		for v := 0; v < g.VertNbr; v++ {
			if part(v) < 0 {
				writeVertex(&buf, g, v, -1, "  ")
			}
		}
	} else {
		for v := 0; v < g.VertNbr; v++ {
			writeVertex(&buf, g, v, part(v), "  ")
		}
	}

	buf.WriteString("\n")
	for v := 0; v < g.VertNbr; v++ {
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			u := g.Edgetab[e]
			if u < v {
				continue
			}
			var attrs []string
			if pu, pv := part(u), part(v); parts != nil && pu != pv {
				attrs = append(attrs, "style=dashed", "color=red")
			}
			if w := g.EdgeLoad(e); opts.EdgeLoads && w > 1 {
				attrs = append(attrs, fmt.Sprintf("label=\"%d\"", w))
			}
			fmt.Fprintf(&buf, "  %d -- %d", g.Based(v), g.Based(u))
			if len(attrs) > 0 {
				fmt.Fprintf(&buf, " [%s]", joinAttrs(attrs))
			}
			buf.WriteString(";\n")
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeVertex(buf *bytes.Buffer, g *graph.Graph, v, num int, indent string) {
	fmt.Fprintf(buf, "%s%d [fillcolor=%q", indent, g.Based(v), Color(num))
	if w := g.VertexLoad(v); w > 1 {
		fmt.Fprintf(buf, ", xlabel=\"%d\"", w)
	}
	buf.WriteString("];\n")
}

func domainsOf(parts []int) []int {
	var nums []int
	for _, p := range parts {
		if p >= 0 {
			nums = append(nums, p)
		}
	}
	slices.Sort(nums)
	return slices.Compact(nums)
}

func label(labels []string, num int) string {
	if num < len(labels) && labels[num] != "" {
		return labels[num]
	}
	return fmt.Sprintf("d%d", num)
}

func joinAttrs(attrs []string) string {
	var b bytes.Buffer
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
	}
	return b.String()
}
