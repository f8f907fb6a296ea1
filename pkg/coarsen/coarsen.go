package coarsen

import (
	"errors"
	"fmt"

	"github.com/matzehuels/stackmap/pkg/graph"
)

// ErrNotCoarsened is returned by [Coarsen] when a step would keep more than
// the requested ratio of the vertices, i.e. further coarsening is not useful.
var ErrNotCoarsened = errors.New("graph not coarsened enough")

// Multinode holds the zero-based fine vertices merged into one coarse
// vertex. Both entries are equal for a singleton.
type Multinode [2]int

// Level is one coarsening step: a fine graph, its coarse graph, and the
// maps between them.
type Level struct {
	Fine       *graph.Graph
	Coarse     *graph.Graph
	Multinodes []Multinode // Fine vertices of each coarse vertex
	CoarseOf   []int       // Coarse vertex of each fine vertex
}

// BuildCoarseGraph builds the coarse graph defined by matching m of g,
// which must define exactly coarseN multinodes.
//
// Coarse vertices are numbered in the order of their first fine vertex. The
// coarse graph always carries vertex and edge loads, keeps g's base, and has
// no Vnumtab. Building twice from the same inputs yields identical graphs.
func BuildCoarseGraph(g *graph.Graph, coarseN int, m *Matching) (*Level, error) {
	n := g.VertNbr
	if len(m.Mate) != n {
		return nil, fmt.Errorf("%w: %d mates for %d vertices", ErrCoarseCount, len(m.Mate), n)
	}

	coarseOf := make([]int, n)
	multinodes := make([]Multinode, 0, coarseN)
	for v, u := range m.Mate {
		if u < 0 || u >= n {
			return nil, fmt.Errorf("%w: mate %d of vertex %d not in [%d,%d)",
				ErrMateRange, u+g.Base, g.Based(v), g.Base, g.Base+n)
		}
		if m.Mate[u] != v {
			return nil, fmt.Errorf("%w: vertex %d", ErrAsymmetricMatching, g.Based(v))
		}
		if u < v {
			continue
		}
		c := len(multinodes)
		multinodes = append(multinodes, Multinode{v, u})
		coarseOf[v] = c
		coarseOf[u] = c
	}
	if len(multinodes) != coarseN {
		return nil, fmt.Errorf("%w: %d declared, %d found", ErrCoarseCount, coarseN, len(multinodes))
	}

	verttab := make([]int, coarseN+1)
	velotab := make([]int, coarseN)
	edgetab := make([]int, 0, g.EdgeNbr)
	edlotab := make([]int, 0, g.EdgeNbr)

	// stamp[c] == current coarse vertex when c is already a neighbour;
	// pos[c] is then the arc holding it.
	stamp := make([]int, coarseN)
	pos := make([]int, coarseN)
	for c := range stamp {
		stamp[c] = -1
	}

	for c, mn := range multinodes {
		verttab[c] = len(edgetab)
		velotab[c] = g.VertexLoad(mn[0])
		if mn[1] != mn[0] {
			velotab[c] += g.VertexLoad(mn[1])
		}
		for i, v := range mn {
			if i == 1 && v == mn[0] {
				break
			}
			for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
				cc := coarseOf[g.Edgetab[e]]
				if cc == c {
					continue
				}
				if stamp[cc] == c {
					edlotab[pos[cc]] += g.EdgeLoad(e)
					continue
				}
				stamp[cc] = c
				pos[cc] = len(edgetab)
				edgetab = append(edgetab, cc)
				edlotab = append(edlotab, g.EdgeLoad(e))
			}
		}
	}
	verttab[coarseN] = len(edgetab)

	coarse, err := graph.New(g.Base, verttab, edgetab, velotab, edlotab)
	if err != nil {
		return nil, err
	}
	return &Level{
		Fine:       g,
		Coarse:     coarse,
		Multinodes: multinodes,
		CoarseOf:   coarseOf,
	}, nil
}

// Coarsen matches and merges g in one call.
//
// minCoarse is the smallest coarse graph the matching may produce. ratio is
// the largest acceptable coarse/fine vertex ratio: when the step keeps more
// than ratio*n vertices, Coarsen returns [ErrNotCoarsened]. [FlagNoMerge]
// skips the ratio test and returns an identity level.
func Coarsen(g *graph.Graph, minCoarse int, ratio float64, flags Flags) (*Level, error) {
	m, err := ComputeMatching(g, minCoarse, flags)
	if err != nil {
		return nil, err
	}
	if flags&FlagNoMerge == 0 && float64(m.CoarseVertNbr) > ratio*float64(g.VertNbr) {
		return nil, ErrNotCoarsened
	}
	return BuildCoarseGraph(g, m.CoarseVertNbr, m)
}

// Hierarchy coarsens g repeatedly until the graph has at most minCoarse
// vertices, a step returns [ErrNotCoarsened], or maxLevels steps were made
// (maxLevels <= 0 means no limit). Levels are returned finest first; the
// result is empty when g cannot be coarsened at all.
func Hierarchy(g *graph.Graph, minCoarse int, ratio float64, flags Flags, maxLevels int) ([]*Level, error) {
	var levels []*Level
	for cur := g; cur.VertNbr > minCoarse; {
		if maxLevels > 0 && len(levels) >= maxLevels {
			break
		}
		lvl, err := Coarsen(cur, minCoarse, ratio, flags)
		if errors.Is(err, ErrNotCoarsened) {
			break
		}
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
		if flags&FlagNoMerge != 0 {
			break
		}
		cur = lvl.Coarse
	}
	return levels, nil
}

// Project maps a part assignment of the coarse graph onto the fine graph:
// both fine vertices of a multinode receive the multinode's part.
func (l *Level) Project(coarseParts []uint8) []uint8 {
	fine := make([]uint8, len(l.CoarseOf))
	for v, c := range l.CoarseOf {
		fine[v] = coarseParts[c]
	}
	return fine
}

// Restrict maps a fine part assignment onto the coarse graph, taking each
// multinode's part from its first fine vertex.
func (l *Level) Restrict(fineParts []uint8) []uint8 {
	coarse := make([]uint8, len(l.Multinodes))
	for c, mn := range l.Multinodes {
		coarse[c] = fineParts[mn[0]]
	}
	return coarse
}

// RestrictSum folds a per-fine-vertex quantity onto the coarse graph by
// summing over each multinode. A nil input yields nil.
func (l *Level) RestrictSum(fine []int) []int {
	if fine == nil {
		return nil
	}
	coarse := make([]int, len(l.Multinodes))
	for c, mn := range l.Multinodes {
		coarse[c] = fine[mn[0]]
		if mn[1] != mn[0] {
			coarse[c] += fine[mn[1]]
		}
	}
	return coarse
}
