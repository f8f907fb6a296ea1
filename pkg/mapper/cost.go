package mapper

import (
	"github.com/matzehuels/stackmap/pkg/arch"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/mapping"
)

// Cost summarizes the quality of a mapping.
type Cost struct {
	Comm      int     `json:"comm"`      // Sum of edge load times domain distance
	Cut       int     `json:"cut"`       // Load of edges between different domains
	Loads     []int   `json:"loads"`     // Vertex load per domain number
	MaxLoad   int     `json:"max_load"`  // Largest domain load
	MinLoad   int     `json:"min_load"`  // Smallest domain load
	Imbalance float64 `json:"imbalance"` // Largest load relative to its target, minus one
}

// ComputeCost evaluates m, a complete mapping of g.
//
// Targets are proportional to domain weights on fixed architectures and
// uniform on variable ones.
func ComputeCost(g *graph.Graph, m *mapping.Mapping) (*Cost, error) {
	if err := m.Check(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMapping, err, "evaluate mapping")
	}
	a := m.Arch()
	parts := m.Parts()
	domains := make([]arch.Domain, m.DomainCount())
	for i := range domains {
		domains[i], _ = m.Domain(i)
	}

	c := &Cost{Loads: m.Loads(g)}
	for v := 0; v < g.VertNbr; v++ {
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			u := g.Edgetab[e]
			if u < v || parts[u] == parts[v] {
				continue
			}
			load := g.EdgeLoad(e)
			c.Cut += load
			c.Comm += load * a.Distance(domains[parts[v]], domains[parts[u]])
		}
	}

	rootWeight := a.Weight(a.Root())
	for i, load := range c.Loads {
		if i == 0 || load > c.MaxLoad {
			c.MaxLoad = load
		}
		if i == 0 || load < c.MinLoad {
			c.MinLoad = load
		}
		target := float64(g.VeloSum) / float64(len(c.Loads))
		if !a.Variable() && rootWeight > 0 {
			target = float64(g.VeloSum) * float64(a.Weight(domains[i])) / float64(rootWeight)
		}
		if target > 0 {
			c.Imbalance = max(c.Imbalance, float64(load)/target-1)
		}
	}
	return c, nil
}
