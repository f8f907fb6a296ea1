// Package arch describes target architectures: the processor topologies
// that graphs are mapped onto.
//
// An [Arch] exposes its topology through domains. A [Domain] is a value
// naming a set of processors; the root domain holds all of them, and
// [Arch.Bipart] splits a domain into two. Repeated splitting forms a binary
// tree whose leaves are terminal domains, i.e. single processors. The
// mapper only ever talks to an architecture through this query contract:
//
//	d0, d1, err := a.Bipart(dom)
//	w0, w1 := a.Weight(d0), a.Weight(d1)
//	hops := a.Distance(d0, d1)
//
// # Fixed and Variable Architectures
//
// Fixed architectures ([Complete], [CompleteWeighted], [Hypercube],
// [Mesh], [Torus], [Deco]) have a known set of processors. Their domain tree
// has a fixed shape and the mapper balances the graph against subdomain
// weights.
//
// Variable architectures ([VariableComplete], [VariableHypercube]) have no
// fixed size: every domain can be split again, and the mapper stops when a
// subgraph has at most one vertex. They are used to compute partitions with
// as many parts as the graph naturally yields.
//
// # Parsing
//
// [Parse] builds an architecture from a short description such as
// "cmplt:8", "hcub:3", "mesh2d:4x4" or "vcmplt". [Deco] architectures are
// built from a processor graph with [NewDeco].
package arch
