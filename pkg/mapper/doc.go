// Package mapper maps a source graph onto a target architecture by dual
// recursive bipartitioning.
//
// [Map] walks the domain tree of the architecture. Each recursion frame
// holds a domain and the vertices routed to it. A frame on a terminal domain
// assigns its vertices to a new domain slot of the result. Any other frame
// splits its domain in two, bipartitions its subgraph with the configured
// [bipart.Method] so that part loads follow the subdomain weights, and hands
// each part to a child frame. The two children run through
// [exec.Context.Fork], concurrently when threads remain.
//
// # Degenerate Bipartitions
//
// A bipartition that leaves one part empty is not an error. On a fixed
// architecture the frame keeps its subgraph and retries against the
// subdomain that received the vertices. Since every split of a fixed
// architecture yields two non-empty subdomains, the retry loop reaches a
// terminal domain after at most the depth of the domain tree. On a variable
// architecture the frame assigns its vertices to the unsplit domain instead.
//
// # Induced Subgraphs
//
// Child frames receive their parent's graph and part array. A child that
// holds only part of its parent's vertices induces its own subgraph before
// splitting; terminal children assign their vertices straight from the
// parent's part array without copying the graph.
//
// # Results
//
// The mapping content does not depend on the number of threads: all random
// choices come from per-frame streams of the [exec.Context]. Domain numbers
// are handed out in completion order and can differ between runs with
// different thread counts.
package mapper
