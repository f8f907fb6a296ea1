package bipart

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/stackmap/pkg/graph"
)

var (
	// ErrInconsistent is returned by [Graph.Check] when the aggregates do
	// not match the part array.
	ErrInconsistent = errors.New("bipartition graph is inconsistent")

	// ErrBadPart is returned when a part value is neither 0 nor 1.
	ErrBadPart = errors.New("part must be 0 or 1")
)

// imbalancePenalty is added to the communication load of solutions whose
// part 0 load falls outside the window.
const imbalancePenalty = 1 << 30

// Window bounds the load of part 0.
type Window struct {
	Avg int // Target load
	Min int // Smallest acceptable load
	Max int // Largest acceptable load
}

// NewWindow returns the part 0 window of a graph with total load loadSum
// split between two domains of weights w0 and w1. The target is the load
// proportional to w0, and the window extends by imbalance times the target
// on each side.
func NewWindow(loadSum, w0, w1 int, imbalance float64) Window {
	if w0+w1 <= 0 {
		return Unbounded(loadSum)
	}
	avg := int(math.Round(float64(loadSum) * float64(w0) / float64(w0+w1)))
	dev := int(math.Floor(float64(avg) * imbalance))
	return Window{Avg: avg, Min: max(avg-dev, 0), Max: min(avg+dev, loadSum)}
}

// Unbounded returns a window accepting any load, targeting an even split.
func Unbounded(loadSum int) Window {
	return Window{Avg: loadSum / 2, Min: 0, Max: loadSum}
}

// Contains reports whether load lies in the window.
func (w Window) Contains(load int) bool { return load >= w.Min && load <= w.Max }

// Excess returns how far load lies outside the window, or 0.
func (w Window) Excess(load int) int {
	switch {
	case load < w.Min:
		return w.Min - load
	case load > w.Max:
		return load - w.Max
	}
	return 0
}

// Fitness ranks partitions. Lower is better: solutions closer to the load
// window come first, then lower cost, then smaller imbalance. Every
// solution inside the window has Over 0, so among those the order is by
// (Cost, Imbal) alone.
type Fitness struct {
	Over  int // Distance of the part 0 load from the window
	Cost  int // Communication load, plus imbalancePenalty outside the window
	Imbal int // |part 0 load - target|
}

// Less reports whether f is strictly better than o.
func (f Fitness) Less(o Fitness) bool {
	if f.Over != o.Over {
		return f.Over < o.Over
	}
	if f.Cost != o.Cost {
		return f.Cost < o.Cost
	}
	return f.Imbal < o.Imbal
}

// Compare orders fitness values for sorting.
func (f Fitness) Compare(o Fitness) int {
	switch {
	case f.Less(o):
		return -1
	case o.Less(f):
		return 1
	}
	return 0
}

// Graph is a source graph together with a bipartition of its vertices.
//
// CommLoad is the cut load times DomDist, plus CommLoadExtn0, plus the
// external gain Veextab[v] of every vertex v in part 1.
type Graph struct {
	Source   *graph.Graph
	Parts    []uint8 // Part of each vertex
	Frontier []int   // Vertices with a neighbour in the other part, ascending

	CompLoad     [2]int // Vertex load of each part
	CompLoad0Avg int    // Target load of part 0
	CompLoad0Min int    // Smallest acceptable load of part 0
	CompLoad0Max int    // Largest acceptable load of part 0
	CompLoad0Dlt int    // CompLoad[0] - CompLoad0Avg

	CommLoad      int   // Communication load of the current partition
	CommLoadExtn0 int   // External load when every vertex is in part 0
	Veextab       []int // External gain of moving each vertex to part 1, or nil

	DomDist int    // Distance between the two target domains
	DomWght [2]int // Weights of the two target domains
}

// New returns an active graph over src with every vertex in part 0.
// domDist values below 1 are raised to 1.
func New(src *graph.Graph, w Window, domDist int, domWght [2]int) *Graph {
	g := &Graph{
		Source:       src,
		Parts:        make([]uint8, src.VertNbr),
		CompLoad0Avg: w.Avg,
		CompLoad0Min: w.Min,
		CompLoad0Max: w.Max,
		DomDist:      max(domDist, 1),
		DomWght:      domWght,
	}
	g.Compute()
	return g
}

// Window returns the load window of part 0.
func (g *Graph) Window() Window {
	return Window{Avg: g.CompLoad0Avg, Min: g.CompLoad0Min, Max: g.CompLoad0Max}
}

// SetParts replaces the part array with a copy of parts and recomputes the
// aggregates.
func (g *Graph) SetParts(parts []uint8) error {
	if len(parts) != len(g.Parts) {
		return fmt.Errorf("%w: %d parts for %d vertices", ErrInconsistent, len(parts), len(g.Parts))
	}
	for v, p := range parts {
		if p > 1 {
			return fmt.Errorf("%w: vertex %d has part %d", ErrBadPart, g.Source.Based(v), p)
		}
	}
	copy(g.Parts, parts)
	g.Compute()
	return nil
}

// Compute recomputes the frontier, part loads and communication load from
// the part array.
func (g *Graph) Compute() {
	src := g.Source
	g.Frontier = g.Frontier[:0]
	g.CompLoad = [2]int{}
	cut, extn := 0, g.CommLoadExtn0
	for v := 0; v < src.VertNbr; v++ {
		p := g.Parts[v]
		g.CompLoad[p] += src.VertexLoad(v)
		if p == 1 && g.Veextab != nil {
			extn += g.Veextab[v]
		}
		frontier := false
		for e := src.Verttab[v]; e < src.Verttab[v+1]; e++ {
			if g.Parts[src.Edgetab[e]] != p {
				cut += src.EdgeLoad(e)
				frontier = true
			}
		}
		if frontier {
			g.Frontier = append(g.Frontier, v)
		}
	}
	g.CommLoad = g.DomDist*(cut/2) + extn
	g.CompLoad0Dlt = g.CompLoad[0] - g.CompLoad0Avg
}

// Fitness returns the fitness of the current partition.
func (g *Graph) Fitness() Fitness {
	return g.fitnessOf(g.CommLoad, g.CompLoad[0])
}

func (g *Graph) fitnessOf(comm, load0 int) Fitness {
	f := Fitness{Cost: comm, Imbal: abs(load0 - g.CompLoad0Avg)}
	if f.Over = g.Window().Excess(load0); f.Over > 0 {
		f.Cost += imbalancePenalty
	}
	return f
}

// evaluate computes the fitness of an arbitrary part array over g.
func (g *Graph) evaluate(parts []uint8) Fitness {
	src := g.Source
	cut, extn, load0 := 0, g.CommLoadExtn0, 0
	for v := 0; v < src.VertNbr; v++ {
		p := parts[v]
		if p == 0 {
			load0 += src.VertexLoad(v)
		} else if g.Veextab != nil {
			extn += g.Veextab[v]
		}
		for e := src.Verttab[v]; e < src.Verttab[v+1]; e++ {
			if parts[src.Edgetab[e]] != p {
				cut += src.EdgeLoad(e)
			}
		}
	}
	return g.fitnessOf(g.DomDist*(cut/2)+extn, load0)
}

// Counts returns the number of vertices in each part.
func (g *Graph) Counts() [2]int {
	var c [2]int
	for _, p := range g.Parts {
		c[p]++
	}
	return c
}

// Degenerate reports whether one part is empty.
func (g *Graph) Degenerate() bool {
	c := g.Counts()
	return c[0] == 0 || c[1] == 0
}

// Check verifies that the aggregates match the part array.
func (g *Graph) Check() error {
	if len(g.Parts) != g.Source.VertNbr {
		return fmt.Errorf("%w: %d parts for %d vertices", ErrInconsistent, len(g.Parts), g.Source.VertNbr)
	}
	for v, p := range g.Parts {
		if p > 1 {
			return fmt.Errorf("%w: vertex %d has part %d", ErrBadPart, g.Source.Based(v), p)
		}
	}
	want := *g
	want.Frontier = nil
	want.Compute()
	switch {
	case want.CompLoad != g.CompLoad:
		return fmt.Errorf("%w: part loads %v, want %v", ErrInconsistent, g.CompLoad, want.CompLoad)
	case want.CommLoad != g.CommLoad:
		return fmt.Errorf("%w: communication load %d, want %d", ErrInconsistent, g.CommLoad, want.CommLoad)
	case want.CompLoad0Dlt != g.CompLoad0Dlt:
		return fmt.Errorf("%w: load delta %d, want %d", ErrInconsistent, g.CompLoad0Dlt, want.CompLoad0Dlt)
	case len(want.Frontier) != len(g.Frontier):
		return fmt.Errorf("%w: %d frontier vertices, want %d", ErrInconsistent, len(g.Frontier), len(want.Frontier))
	}
	for i, v := range want.Frontier {
		if g.Frontier[i] != v {
			return fmt.Errorf("%w: frontier differs at vertex %d", ErrInconsistent, g.Source.Based(v))
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
