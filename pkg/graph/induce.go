package graph

import "fmt"

// Induce returns the subgraph of g induced by list, a strictly increasing
// list of zero-based vertices of g. Vertex i of the result corresponds to
// list[i]; its Vnumtab entry is the root-graph number of list[i], so the
// child's Vnumtab is strictly increasing whenever the parent's is.
//
// Arcs to vertices outside list are dropped. Loads are copied only when the
// parent carries them.
func (g *Graph) Induce(list []int) (*Graph, error) {
	index := make([]int, g.VertNbr)
	for i := range index {
		index[i] = -1
	}
	for i, v := range list {
		if v < 0 || v >= g.VertNbr {
			return nil, fmt.Errorf("%w: induce list entry %d", ErrVertexRange, v)
		}
		if i > 0 && v <= list[i-1] {
			return nil, fmt.Errorf("%w: induce list not strictly increasing at %d", ErrMalformed, i)
		}
		index[v] = i
	}
	return g.induce(list, index), nil
}

// InducePart returns the subgraph induced by the vertices v with
// parts[v] == part, together with the list of those vertices.
func (g *Graph) InducePart(parts []uint8, part uint8) (*Graph, []int, error) {
	if len(parts) != g.VertNbr {
		return nil, nil, fmt.Errorf("%w: %d part entries for %d vertices", ErrMalformed, len(parts), g.VertNbr)
	}
	index := make([]int, g.VertNbr)
	list := make([]int, 0, g.VertNbr)
	for v, p := range parts {
		if p == part {
			index[v] = len(list)
			list = append(list, v)
		} else {
			index[v] = -1
		}
	}
	return g.induce(list, index), list, nil
}

func (g *Graph) induce(list, index []int) *Graph {
	n := len(list)
	verttab := make([]int, n+1)
	edgetab := make([]int, 0, g.EdgeNbr*n/max(g.VertNbr, 1))
	var velotab, edlotab []int
	if g.Velotab != nil {
		velotab = make([]int, n)
	}
	if g.Edlotab != nil {
		edlotab = make([]int, 0, cap(edgetab))
	}
	vnumtab := make([]int, n)

	for i, v := range list {
		verttab[i] = len(edgetab)
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			w := index[g.Edgetab[e]]
			if w < 0 {
				continue
			}
			edgetab = append(edgetab, w)
			if edlotab != nil {
				edlotab = append(edlotab, g.Edlotab[e])
			}
		}
		if velotab != nil {
			velotab[i] = g.Velotab[v]
		}
		vnumtab[i] = g.Origin(v)
	}
	verttab[n] = len(edgetab)

	sub := &Graph{
		Base:    g.Base,
		VertNbr: n,
		EdgeNbr: len(edgetab),
		Verttab: verttab,
		Edgetab: edgetab,
		Velotab: velotab,
		Edlotab: edlotab,
		Vnumtab: vnumtab,
	}
	sub.computeSums()
	return sub
}
