package arch

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/matzehuels/stackmap/pkg/graph"
)

// Deco is an architecture described by an arbitrary processor graph.
//
// Vertex loads of the processor graph are processor weights and edge loads
// are link costs. Processors are ordered by hop distance from processor 0
// and domains are ranges of that order, so both halves of a split tend to
// be connected. Distances are shortest-path lengths,
// computed once when the architecture is built.
type Deco struct {
	order  []int   // Processor at each position
	prefix []int   // prefix[i] is the weight of positions [0, i)
	dist   [][]int // Shortest-path distance between processors
}

// NewDeco builds an architecture from a connected processor graph.
func NewDeco(g *graph.Graph) (*Deco, error) {
	n := g.VertNbr
	if n < 1 {
		return nil, fmt.Errorf("%w: processor graph is empty", ErrInvalidArch)
	}
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArch, err)
	}

	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for v := 0; v < n; v++ {
		wg.AddNode(simple.Node(v))
	}
	for v := 0; v < n; v++ {
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			if u := g.Edgetab[e]; v < u {
				wg.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(v),
					T: simple.Node(u),
					W: float64(g.EdgeLoad(e)),
				})
			}
		}
	}

	// Neighbour iteration order of gonum graphs is not stable, so the walk
	// only provides hop depths; the order is then fixed by (depth, vertex).
	depth := make([]int, n)
	order := make([]int, 0, n)
	var bf traverse.BreadthFirst
	bf.Walk(wg, simple.Node(0), func(node gonum.Node, d int) bool {
		depth[node.ID()] = d
		order = append(order, int(node.ID()))
		return false
	})
	if len(order) != n {
		return nil, fmt.Errorf("%w: processor graph is not connected", ErrInvalidArch)
	}
	slices.SortFunc(order, func(u, v int) int {
		if c := cmp.Compare(depth[u], depth[v]); c != 0 {
			return c
		}
		return cmp.Compare(u, v)
	})

	prefix := make([]int, n+1)
	for i, v := range order {
		prefix[i+1] = prefix[i] + g.VertexLoad(v)
	}

	paths := path.DijkstraAllPaths(wg)
	dist := make([][]int, n)
	for u := range dist {
		dist[u] = make([]int, n)
		for v := range dist[u] {
			if u != v {
				dist[u][v] = int(paths.Weight(int64(u), int64(v)))
			}
		}
	}

	return &Deco{order: order, prefix: prefix, dist: dist}, nil
}

func (a *Deco) Name() string           { return "deco" }
func (a *Deco) Root() Domain           { return root1D(len(a.order)) }
func (a *Deco) Terminal(d Domain) bool { return span(d) <= 1 }
func (a *Deco) Variable() bool         { return false }
func (a *Deco) Size(d Domain) int      { return span(d) }

// TerminalNum returns the processor-graph vertex of the first processor of d.
func (a *Deco) TerminalNum(d Domain) int { return a.order[d.Lo[0]] }

func (a *Deco) Weight(d Domain) int {
	return a.prefix[d.Hi[0]] - a.prefix[d.Lo[0]]
}

// Bipart cuts d where the two halves have the closest weights.
func (a *Deco) Bipart(d Domain) (Domain, Domain, error) {
	if a.Terminal(d) {
		return Domain{}, Domain{}, ErrTerminal
	}
	d0, d1 := split1D(d, balancedCut(a.prefix, d.Lo[0], d.Hi[0]))
	return d0, d1, nil
}

// Distance is the mean shortest-path distance between the processors of
// the two domains, rounded to the nearest integer.
func (a *Deco) Distance(d0, d1 Domain) int {
	sum, cnt := 0, 0
	for i := d0.Lo[0]; i < d0.Hi[0]; i++ {
		for j := d1.Lo[0]; j < d1.Hi[0]; j++ {
			sum += a.dist[a.order[i]][a.order[j]]
			cnt++
		}
	}
	if cnt == 0 {
		return 0
	}
	return (sum + cnt/2) / cnt
}
