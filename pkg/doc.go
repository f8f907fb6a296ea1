// Package pkg provides the libraries behind stackmap, a static graph mapper.
//
// # Overview
//
// Stackmap assigns every vertex of a weighted source graph to a processor of
// a target architecture so that processor loads stay balanced and the
// communication cost (edge load times architecture distance) stays low. It
// does this by dual recursive bipartitioning: the architecture and the graph
// are split in two together, and both halves are mapped recursively and
// concurrently.
//
// The pkg directory is organized into three areas:
//
//  1. Mapping core: [graph], [coarsen], [bipart], [exec], [arch], [mapping]
//     and [mapper]
//  2. Infrastructure: [cache], [runs], [config], [observability], [errors]
//  3. Surfaces: [pipeline], [render], [api]
//
// # Architecture
//
// The typical data flow through stackmap:
//
//	Graph document (JSON)
//	         ↓
//	    [graph] package (CSR graph, validation)
//	         ↓
//	    [mapper] package (recursive bipartitioning over an [arch.Arch])
//	         ↓
//	    [bipart] methods (multilevel via [coarsen], genetic, greedy)
//	         ↓
//	    [mapping] accumulator → cost, JSON/DOT/SVG output
//
// # Quick Start
//
//	g := graph.Grid(16, 16)
//	a, _ := arch.Parse("hcub:3")
//	strat, _ := bipart.Parse("ml{ga,greedy}")
//	ec := exec.New(4, 42, nil)
//	res, err := mapper.Map(ctx, ec, g, a, mapper.Options{Strategy: strat})
//
// The [pipeline] package wraps these steps with caching and run recording,
// and is shared by the command-line tool and the HTTP [api].
package pkg
