// Package render draws mapped graphs with Graphviz.
//
// [ToDOT] turns a graph and the domain number of each vertex into DOT
// source. Vertices are filled with one colour per domain and, when
// [Options.Cluster] is set, grouped into one subgraph per domain. Edges
// whose endpoints sit in different domains are drawn dashed and red, so
// the cut is visible at a glance.
//
//	dot := render.ToDOT(g, res.Parts, render.Options{Labels: res.Domains})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [RenderSVG] runs Graphviz in-process through [github.com/goccy/go-graphviz]
// and needs no external binaries.
package render
