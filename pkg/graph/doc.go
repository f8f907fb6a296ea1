// Package graph provides the immutable source graph used by every stage of
// stackmap: a compressed sparse row (CSR) adjacency with optional vertex and
// edge loads.
//
// # Indexing
//
// Graph files and callers may number vertices from 0 or from 1. This package
// keeps that choice as the [Graph.Base] attribute only: every slice held by a
// [Graph] is indexed from zero and stores zero-based vertex numbers. Use
// [Graph.Based] and [Graph.Unbased] to convert at the boundary. No code in the
// module offsets slices by the base.
//
// # Adjacency
//
// For vertex v, its neighbours are Edgetab[Verttab[v]:Verttab[v+1]], and the
// matching edge loads, when present, sit at the same positions in Edlotab.
// Graphs are undirected: every arc u→v has a twin v→u with the same load.
// [Graph.Check] verifies this.
//
// # Induced Subgraphs
//
// Recursive mapping works on induced subgraphs. [Graph.Induce] and
// [Graph.InducePart] build them from an explicit vertex list or a part
// predicate. The child's Vnumtab always refers to the root graph, so a vertex
// of a deeply induced subgraph can be traced back with [Graph.Origin].
//
// # Serialization
//
// [MarshalGraph] and [ReadGraph] use a small edge-list JSON document:
//
//	{
//	  "base": 0,
//	  "vertices": 4,
//	  "loads": [1, 1, 2, 1],
//	  "edges": [[0, 1, 3], [1, 2], [2, 3]]
//	}
//
// Each edge is [u, v] or [u, v, load], numbered from base.
//
// # Concurrency
//
// A Graph is never modified after construction and is safe for concurrent
// reads by any number of goroutines.
package graph
