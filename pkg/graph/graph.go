package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase is returned when a base other than 0 or 1 is requested.
	ErrInvalidBase = errors.New("base must be 0 or 1")

	// ErrVertexRange is returned when a vertex number falls outside the graph.
	ErrVertexRange = errors.New("vertex out of range")

	// ErrAsymmetric is returned by [Graph.Check] when an arc has no twin, or
	// when twin arcs carry different loads.
	ErrAsymmetric = errors.New("adjacency is not symmetric")

	// ErrSelfLoop is returned by [Graph.Check] when a vertex is its own neighbour.
	ErrSelfLoop = errors.New("self loop")

	// ErrBadLoad is returned when a vertex or edge load is not positive.
	ErrBadLoad = errors.New("loads must be positive")

	// ErrBadVnum is returned when Vnumtab is not strictly increasing.
	ErrBadVnum = errors.New("vertex number array must be strictly increasing")

	// ErrMalformed is returned when the CSR arrays have inconsistent lengths.
	ErrMalformed = errors.New("malformed adjacency arrays")
)

// Graph is an undirected graph in compressed sparse row form.
//
// All slices are zero-based. Velotab, Edlotab and Vnumtab may be nil, meaning
// unit vertex loads, unit edge loads and identity numbering respectively.
//
// The zero value is an empty graph with base 0.
type Graph struct {
	Base    int // External numbering base (0 or 1)
	VertNbr int // Number of vertices
	EdgeNbr int // Number of arcs (twice the number of edges)

	Verttab []int // Adjacency start offsets, len VertNbr+1
	Edgetab []int // Neighbour indices, len EdgeNbr
	Velotab []int // Vertex loads or nil
	Edlotab []int // Edge loads, parallel to Edgetab, or nil
	Vnumtab []int // Root-graph vertex numbers or nil

	VeloSum int // Sum of vertex loads
	EdloSum int // Sum of arc loads (twice the edge load sum)
}

// New creates a graph from CSR arrays and computes the load sums.
// Verttab must have n+1 entries; velotab and edlotab may be nil.
// The arrays are adopted, not copied. New only checks array shapes;
// call [Graph.Check] for a full consistency check.
func New(base int, verttab, edgetab, velotab, edlotab []int) (*Graph, error) {
	if base != 0 && base != 1 {
		return nil, ErrInvalidBase
	}
	if len(verttab) == 0 {
		return nil, fmt.Errorf("%w: empty vertex array", ErrMalformed)
	}
	n := len(verttab) - 1
	if verttab[0] != 0 || verttab[n] != len(edgetab) {
		return nil, fmt.Errorf("%w: offsets do not span edge array", ErrMalformed)
	}
	if velotab != nil && len(velotab) != n {
		return nil, fmt.Errorf("%w: %d vertex loads for %d vertices", ErrMalformed, len(velotab), n)
	}
	if edlotab != nil && len(edlotab) != len(edgetab) {
		return nil, fmt.Errorf("%w: %d edge loads for %d arcs", ErrMalformed, len(edlotab), len(edgetab))
	}
	for v := 0; v < n; v++ {
		if verttab[v] > verttab[v+1] {
			return nil, fmt.Errorf("%w: decreasing offset at vertex %d", ErrMalformed, v+base)
		}
	}

	g := &Graph{
		Base:    base,
		VertNbr: n,
		EdgeNbr: len(edgetab),
		Verttab: verttab,
		Edgetab: edgetab,
		Velotab: velotab,
		Edlotab: edlotab,
	}
	g.computeSums()
	return g, nil
}

func (g *Graph) computeSums() {
	g.VeloSum = g.VertNbr
	if g.Velotab != nil {
		g.VeloSum = 0
		for _, l := range g.Velotab {
			g.VeloSum += l
		}
	}
	g.EdloSum = g.EdgeNbr
	if g.Edlotab != nil {
		g.EdloSum = 0
		for _, l := range g.Edlotab {
			g.EdloSum += l
		}
	}
}

// Edge is an undirected edge between two based vertex numbers.
// A zero Load means unit load.
type Edge struct {
	U, V int
	Load int
}

// FromEdges builds a graph with n vertices from an edge list numbered from
// base. Each edge is stored in both directions; duplicate edges are merged
// by summing their loads. Edge loads are kept only if some edge has a load
// other than 1. velo may be nil for unit vertex loads.
func FromEdges(n, base int, edges []Edge, velo []int) (*Graph, error) {
	if base != 0 && base != 1 {
		return nil, ErrInvalidBase
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative vertex count", ErrMalformed)
	}

	type arc struct{ to, load int }
	adj := make([][]arc, n)
	weighted := false
	for _, e := range edges {
		u, v := e.U-base, e.V-base
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf("%w: edge (%d,%d)", ErrVertexRange, e.U, e.V)
		}
		if u == v {
			return nil, fmt.Errorf("%w: vertex %d", ErrSelfLoop, e.U)
		}
		load := e.Load
		if load == 0 {
			load = 1
		}
		if load < 0 {
			return nil, fmt.Errorf("%w: edge (%d,%d)", ErrBadLoad, e.U, e.V)
		}
		if load != 1 {
			weighted = true
		}
		merged := false
		for i := range adj[u] {
			if adj[u][i].to == v {
				adj[u][i].load += load
				merged = true
				weighted = true
				break
			}
		}
		if merged {
			for i := range adj[v] {
				if adj[v][i].to == u {
					adj[v][i].load += load
					break
				}
			}
			continue
		}
		adj[u] = append(adj[u], arc{v, load})
		adj[v] = append(adj[v], arc{u, load})
	}

	verttab := make([]int, n+1)
	for v := 0; v < n; v++ {
		verttab[v+1] = verttab[v] + len(adj[v])
	}
	edgetab := make([]int, verttab[n])
	var edlotab []int
	if weighted {
		edlotab = make([]int, verttab[n])
	}
	for v := 0; v < n; v++ {
		for i, a := range adj[v] {
			edgetab[verttab[v]+i] = a.to
			if weighted {
				edlotab[verttab[v]+i] = a.load
			}
		}
	}

	var velotab []int
	if velo != nil {
		if len(velo) != n {
			return nil, fmt.Errorf("%w: %d vertex loads for %d vertices", ErrMalformed, len(velo), n)
		}
		velotab = append([]int(nil), velo...)
	}
	return New(base, verttab, edgetab, velotab, edlotab)
}

// Degree returns the number of neighbours of v.
func (g *Graph) Degree(v int) int { return g.Verttab[v+1] - g.Verttab[v] }

// Neighbors returns the neighbours of v as a read-only view.
func (g *Graph) Neighbors(v int) []int { return g.Edgetab[g.Verttab[v]:g.Verttab[v+1]] }

// VertexLoad returns the load of v.
func (g *Graph) VertexLoad(v int) int {
	if g.Velotab == nil {
		return 1
	}
	return g.Velotab[v]
}

// EdgeLoad returns the load of the arc stored at position e of Edgetab.
func (g *Graph) EdgeLoad(e int) int {
	if g.Edlotab == nil {
		return 1
	}
	return g.Edlotab[e]
}

// Origin returns the zero-based number of v in the root graph this graph was
// induced from. For a root graph it returns v.
func (g *Graph) Origin(v int) int {
	if g.Vnumtab == nil {
		return v
	}
	return g.Vnumtab[v]
}

// Based converts a zero-based vertex index to the graph's external numbering.
func (g *Graph) Based(v int) int { return v + g.Base }

// Unbased converts an external vertex number to a zero-based index.
func (g *Graph) Unbased(v int) (int, error) {
	u := v - g.Base
	if u < 0 || u >= g.VertNbr {
		return 0, fmt.Errorf("%w: %d not in [%d,%d)", ErrVertexRange, v, g.Base, g.Base+g.VertNbr)
	}
	return u, nil
}

// MaxVertexLoad returns the largest vertex load, or 0 for an empty graph.
func (g *Graph) MaxVertexLoad() int {
	if g.VertNbr == 0 {
		return 0
	}
	if g.Velotab == nil {
		return 1
	}
	m := 0
	for _, l := range g.Velotab {
		m = max(m, l)
	}
	return m
}

// Check verifies the structural invariants of g: offsets, neighbour ranges,
// absence of self loops, symmetry of adjacency and edge loads, positive
// loads, and a strictly increasing Vnumtab.
func (g *Graph) Check() error {
	if g.Base != 0 && g.Base != 1 {
		return ErrInvalidBase
	}
	if g.VertNbr == 0 && g.EdgeNbr == 0 && len(g.Verttab) == 0 && len(g.Edgetab) == 0 {
		return nil
	}
	if g.VertNbr < 0 || len(g.Verttab) != g.VertNbr+1 || len(g.Edgetab) != g.EdgeNbr {
		return fmt.Errorf("%w: array lengths", ErrMalformed)
	}
	if g.Verttab[0] != 0 || g.Verttab[g.VertNbr] != g.EdgeNbr {
		return fmt.Errorf("%w: offsets do not span edge array", ErrMalformed)
	}
	for v := 0; v < g.VertNbr; v++ {
		if g.Verttab[v] > g.Verttab[v+1] {
			return fmt.Errorf("%w: decreasing offset at vertex %d", ErrMalformed, g.Based(v))
		}
	}
	if g.Velotab != nil && len(g.Velotab) != g.VertNbr {
		return fmt.Errorf("%w: %d vertex loads for %d vertices", ErrMalformed, len(g.Velotab), g.VertNbr)
	}
	if g.Edlotab != nil && len(g.Edlotab) != g.EdgeNbr {
		return fmt.Errorf("%w: %d edge loads for %d arcs", ErrMalformed, len(g.Edlotab), g.EdgeNbr)
	}
	if g.Vnumtab != nil {
		if len(g.Vnumtab) != g.VertNbr {
			return fmt.Errorf("%w: vertex number array length", ErrMalformed)
		}
		for v := 1; v < g.VertNbr; v++ {
			if g.Vnumtab[v] <= g.Vnumtab[v-1] {
				return fmt.Errorf("%w: at vertex %d", ErrBadVnum, g.Based(v))
			}
		}
	}

	velosum := 0
	for v := 0; v < g.VertNbr; v++ {
		l := g.VertexLoad(v)
		if l <= 0 {
			return fmt.Errorf("%w: vertex %d", ErrBadLoad, g.Based(v))
		}
		velosum += l
	}
	if velosum != g.VeloSum {
		return fmt.Errorf("%w: vertex load sum %d, recorded %d", ErrMalformed, velosum, g.VeloSum)
	}

	edlosum := 0
	for v := 0; v < g.VertNbr; v++ {
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			w := g.Edgetab[e]
			if w < 0 || w >= g.VertNbr {
				return fmt.Errorf("%w: arc %d->%d", ErrVertexRange, g.Based(v), w+g.Base)
			}
			if w == v {
				return fmt.Errorf("%w: vertex %d", ErrSelfLoop, g.Based(v))
			}
			load := g.EdgeLoad(e)
			if load <= 0 {
				return fmt.Errorf("%w: arc %d->%d", ErrBadLoad, g.Based(v), g.Based(w))
			}
			edlosum += load
			if !g.hasArc(w, v, load) {
				return fmt.Errorf("%w: arc %d->%d", ErrAsymmetric, g.Based(v), g.Based(w))
			}
		}
	}
	if edlosum != g.EdloSum {
		return fmt.Errorf("%w: edge load sum %d, recorded %d", ErrMalformed, edlosum, g.EdloSum)
	}
	return nil
}

func (g *Graph) hasArc(from, to, load int) bool {
	for e := g.Verttab[from]; e < g.Verttab[from+1]; e++ {
		if g.Edgetab[e] == to {
			return g.EdgeLoad(e) == load
		}
	}
	return false
}
