// Package coarsen builds reduced ("coarse") graphs by matching pairs of
// adjacent vertices, the building block of multilevel bipartitioning.
//
// # Overview
//
// A coarsening step has two halves:
//
//  1. [ComputeMatching] pairs each vertex with at most one neighbour. The
//     result is a symmetric mate array: Mate[v] == u implies Mate[u] == v,
//     and unmatched vertices are their own mate.
//  2. [BuildCoarseGraph] merges every matched pair into one multinode. The
//     coarse vertex load is the sum of the pair's loads, and arcs leading to
//     the same coarse neighbour are merged with summed loads. Arcs internal
//     to a multinode disappear.
//
// [Coarsen] composes both halves. Repeating it until the graph is small
// enough, or until a step stops paying off, is the caller's business;
// [Hierarchy] is a convenience loop for that.
//
// # Matching Heuristic
//
// Vertices are visited in index order. An unmatched vertex takes its first
// unmatched neighbour as mate. A vertex without neighbours is paired with
// the next unmatched isolated vertex, or failing that with the next
// unmatched vertex of any kind. A vertex that finds nobody mates with
// itself. Merging stops as soon as the coarse graph would drop below the
// requested minimum size. [FlagNoMerge] turns every vertex into a singleton,
// which yields a coarse graph isomorphic to the fine one.
//
// # Projection
//
// A [Level] keeps the multinode array and the fine-to-coarse map, so a
// bipartition computed on the coarse graph can be projected back with
// [Level.Project], and a fine assignment restricted to the coarse graph with
// [Level.Restrict].
package coarsen
