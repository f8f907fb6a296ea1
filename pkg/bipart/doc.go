// Package bipart computes two-way partitions of a graph under load
// constraints.
//
// # Active Graph
//
// A [Graph] wraps a source graph with a part array, the frontier, and the
// aggregates a bipartitioner optimizes: the load of each part, the
// communication load of the cut, and the load window part 0 must fall into.
// Methods mutate the part array and keep the aggregates current with
// [Graph.Compute].
//
// Solutions are ranked by [Fitness]: a part 0 load inside the window first
// (or nearer to it), then lower communication load, then lower distance of
// the part 0 load from its target average.
//
// # Methods
//
// A [Method] improves the partition of an active graph in place:
//
//   - [GA] runs a genetic algorithm over a population spread across the
//     threads of the execution context.
//   - [Greedy] moves single vertices while that lowers the fitness.
//   - [Multilevel] coarsens the graph, partitions the coarsest graph with
//     one method and refines every projected level with another.
//   - [Zero] puts every vertex in part 0.
//   - [Sequence] runs several methods one after the other.
//
// [Parse] builds a method from a strategy string such as "ml{ga,greedy}".
//
// Methods never worsen the fitness of the partition they are given, except
// [Zero], which resets it.
package bipart
