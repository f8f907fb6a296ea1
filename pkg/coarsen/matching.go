package coarsen

import (
	"errors"
	"fmt"

	"github.com/matzehuels/stackmap/pkg/graph"
)

// Flags tune the matching heuristic.
type Flags uint

const (
	// FlagNoMerge disables merging: every vertex mates with itself.
	FlagNoMerge Flags = 1 << iota
)

var (
	// ErrMateRange is returned when a mate lies outside the fine graph.
	ErrMateRange = errors.New("mate out of range")

	// ErrAsymmetricMatching is returned when Mate[Mate[v]] != v for some v.
	ErrAsymmetricMatching = errors.New("matching is not symmetric")

	// ErrCoarseCount is returned when the declared coarse vertex count does
	// not match the number of multinodes the matching defines.
	ErrCoarseCount = errors.New("coarse vertex count does not match matching")
)

// Matching pairs fine vertices. Mate holds zero-based vertex indices.
type Matching struct {
	Mate          []int // Mate of each fine vertex; itself when unmatched
	CoarseVertNbr int   // Number of multinodes the matching defines
}

// Merges returns the number of matched pairs.
func (m *Matching) Merges() int { return len(m.Mate) - m.CoarseVertNbr }

// ComputeMatching computes a greedy matching of g that leaves at least
// minCoarse coarse vertices (or all vertices when g is smaller).
//
// See the package documentation for the heuristic. The result always
// satisfies [ValidateMatching].
func ComputeMatching(g *graph.Graph, minCoarse int, flags Flags) (*Matching, error) {
	n := g.VertNbr
	mate := make([]int, n)
	for v := range mate {
		mate[v] = -1
	}

	budget := n - max(minCoarse, 0)
	if flags&FlagNoMerge != 0 || budget < 0 {
		budget = 0
	}

	merges := 0
	for v := 0; v < n; v++ {
		if mate[v] >= 0 {
			continue
		}
		if merges >= budget {
			mate[v] = v
			continue
		}

		u := -1
		if g.Degree(v) > 0 {
			for _, w := range g.Neighbors(v) {
				if mate[w] < 0 {
					u = w
					break
				}
			}
		} else {
			u = nextFree(g, mate, v)
		}
		if u < 0 {
			mate[v] = v
			continue
		}
		mate[v] = u
		mate[u] = v
		merges++
	}

	return &Matching{Mate: mate, CoarseVertNbr: n - merges}, nil
}

// nextFree finds a partner for the isolated vertex v: the next unmatched
// isolated vertex after v, else the next unmatched vertex after v, else -1.
// The scan is linear in the number of vertices after v.
func nextFree(g *graph.Graph, mate []int, v int) int {
	free := -1
	for w := v + 1; w < g.VertNbr; w++ {
		if mate[w] >= 0 {
			continue
		}
		if g.Degree(w) == 0 {
			return w
		}
		if free < 0 {
			free = w
		}
	}
	return free
}

// ValidateMatching checks that m is a matching of g: every mate lies in the
// graph, the relation is symmetric, and CoarseVertNbr equals the number of
// multinodes. Errors report vertices in g's external numbering.
func ValidateMatching(g *graph.Graph, m *Matching) error {
	n := g.VertNbr
	if len(m.Mate) != n {
		return fmt.Errorf("%w: %d mates for %d vertices", ErrCoarseCount, len(m.Mate), n)
	}
	pairs := 0
	for v, u := range m.Mate {
		if u < 0 || u >= n {
			return fmt.Errorf("%w: mate %d of vertex %d not in [%d,%d)",
				ErrMateRange, u+g.Base, g.Based(v), g.Base, g.Base+n)
		}
		if m.Mate[u] != v {
			return fmt.Errorf("%w: vertex %d", ErrAsymmetricMatching, g.Based(v))
		}
		if v < u {
			pairs++
		}
	}
	if n-pairs != m.CoarseVertNbr {
		return fmt.Errorf("%w: %d declared, %d found", ErrCoarseCount, m.CoarseVertNbr, n-pairs)
	}
	return nil
}
