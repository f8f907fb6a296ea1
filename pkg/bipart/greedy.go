package bipart

import "github.com/matzehuels/stackmap/pkg/exec"

// DefaultGreedyPasses is the pass limit of a zero [Greedy].
const DefaultGreedyPasses = 4

// Greedy refines a partition by moving single vertices to the other part
// whenever that strictly improves the fitness. Vertices are visited in
// index order; refinement stops after a pass without moves.
type Greedy struct {
	Passes int // Maximum number of passes; 0 means DefaultGreedyPasses
}

func (m Greedy) Bipart(_ *exec.Context, g *Graph) error {
	passes := m.Passes
	if passes <= 0 {
		passes = DefaultGreedyPasses
	}
	src := g.Source
	comm, load0 := g.CommLoad, g.CompLoad[0]
	cur := g.fitnessOf(comm, load0)

	for pass := 0; pass < passes; pass++ {
		moved := false
		for v := 0; v < src.VertNbr; v++ {
			p := g.Parts[v]
			same, other := 0, 0
			for e := src.Verttab[v]; e < src.Verttab[v+1]; e++ {
				if g.Parts[src.Edgetab[e]] == p {
					same += src.EdgeLoad(e)
				} else {
					other += src.EdgeLoad(e)
				}
			}

			dcomm := g.DomDist * (same - other)
			dload := src.VertexLoad(v)
			if p == 0 {
				dload = -dload
				if g.Veextab != nil {
					dcomm += g.Veextab[v]
				}
			} else if g.Veextab != nil {
				dcomm -= g.Veextab[v]
			}

			f := g.fitnessOf(comm+dcomm, load0+dload)
			if !f.Less(cur) {
				continue
			}
			g.Parts[v] = p ^ 1
			comm += dcomm
			load0 += dload
			cur = f
			moved = true
		}
		if !moved {
			break
		}
	}

	g.Compute()
	return nil
}
