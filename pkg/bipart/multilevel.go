package bipart

import (
	"github.com/matzehuels/stackmap/pkg/coarsen"
	"github.com/matzehuels/stackmap/pkg/exec"
	"github.com/matzehuels/stackmap/pkg/graph"
)

const (
	DefaultCoarseVertices = 30
	DefaultCoarseRatio    = 0.8
)

// Multilevel coarsens the graph until it has at most MinVertices vertices
// or stops shrinking, bipartitions the coarsest graph with Coarse, then
// projects the partition back level by level, applying Refine at each
// level. The result replaces the graph's partition only if it is strictly
// better.
type Multilevel struct {
	MinVertices int           // 0 means DefaultCoarseVertices
	Ratio       float64       // 0 means DefaultCoarseRatio
	Flags       coarsen.Flags // Matching flags
	Coarse      Method        // Method for the coarsest graph; nil means GA{}
	Refine      Method        // Method for every finer level; nil means none
}

func (m Multilevel) Bipart(ec *exec.Context, g *Graph) error {
	minV, ratio := m.MinVertices, m.Ratio
	if minV <= 0 {
		minV = DefaultCoarseVertices
	}
	if ratio <= 0 {
		ratio = DefaultCoarseRatio
	}
	coarse := m.Coarse
	if coarse == nil {
		coarse = GA{}
	}

	levels, err := coarsen.Hierarchy(g.Source, minV, ratio, m.Flags, 0)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		if err := coarse.Bipart(ec, g); err != nil {
			return err
		}
		if m.Refine != nil {
			return m.Refine.Bipart(ec, g)
		}
		return nil
	}
	ec.Logger().Debug("multilevel bipartition", "vertices", g.Source.VertNbr, "levels", len(levels),
		"coarsest", levels[len(levels)-1].Coarse.VertNbr)

	// veex[i] and parts[i] live on the fine graph of level i.
	veex := make([][]int, len(levels)+1)
	parts := make([][]uint8, len(levels)+1)
	veex[0], parts[0] = g.Veextab, g.Parts
	for i, lvl := range levels {
		veex[i+1] = lvl.RestrictSum(veex[i])
		parts[i+1] = lvl.Restrict(parts[i])
	}

	cur := g.derive(levels[len(levels)-1].Coarse, veex[len(levels)])
	if err := cur.SetParts(parts[len(levels)]); err != nil {
		return err
	}
	if err := coarse.Bipart(ec, cur); err != nil {
		return err
	}

	for i := len(levels) - 1; i >= 0; i-- {
		fine := g.derive(levels[i].Fine, veex[i])
		if err := fine.SetParts(levels[i].Project(cur.Parts)); err != nil {
			return err
		}
		if m.Refine != nil {
			if err := m.Refine.Bipart(ec, fine); err != nil {
				return err
			}
		}
		cur = fine
	}

	if cur.Fitness().Less(g.Fitness()) {
		return g.SetParts(cur.Parts)
	}
	return nil
}

// derive returns an active graph over src with g's window, domains and
// external loads, all vertices in part 0.
func (g *Graph) derive(src *graph.Graph, veex []int) *Graph {
	d := New(src, g.Window(), g.DomDist, g.DomWght)
	d.CommLoadExtn0 = g.CommLoadExtn0
	d.Veextab = veex
	d.Compute()
	return d
}
