package coarsen

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/stackmap/pkg/graph"
)

func mustEdges(t *testing.T, n int, edges []graph.Edge, velo []int) *graph.Graph {
	t.Helper()
	g, err := graph.FromEdges(n, 0, edges, velo)
	if err != nil {
		t.Fatalf("FromEdges: %v", err)
	}
	return g
}

func TestMatchingProperties(t *testing.T) {
	tests := []struct {
		name      string
		g         *graph.Graph
		minCoarse int
		flags     Flags
	}{
		{"Cycle8", graph.Cycle(8), 1, 0},
		{"Cycle7", graph.Cycle(7), 1, 0},
		{"Grid5x4", graph.Grid(5, 4), 1, 0},
		{"Grid5x4Min15", graph.Grid(5, 4), 15, 0},
		{"NoMerge", graph.Grid(3, 3), 1, FlagNoMerge},
		{"Isolated", mustEdges(t, 6, []graph.Edge{{U: 1, V: 2}}, nil), 1, 0},
		{"Empty", mustEdges(t, 0, nil, nil), 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeMatching(tt.g, tt.minCoarse, tt.flags)
			if err != nil {
				t.Fatalf("ComputeMatching: %v", err)
			}
			if err := ValidateMatching(tt.g, m); err != nil {
				t.Fatalf("ValidateMatching: %v", err)
			}

			pairs := 0
			for v, u := range m.Mate {
				if m.Mate[u] != v {
					t.Errorf("mate[mate[%d]] = %d, want %d", v, m.Mate[u], v)
				}
				if u != v && v < u {
					pairs++
				}
			}
			if pairs != tt.g.VertNbr-m.CoarseVertNbr {
				t.Errorf("pairs = %d, want %d", pairs, tt.g.VertNbr-m.CoarseVertNbr)
			}
			if tt.g.VertNbr > 0 && m.CoarseVertNbr < min(tt.minCoarse, tt.g.VertNbr) {
				t.Errorf("CoarseVertNbr = %d, below minimum %d", m.CoarseVertNbr, tt.minCoarse)
			}
		})
	}
}

func TestMatchingGreedyOrder(t *testing.T) {
	// Path 0-1-2-3: 0 takes 1, 2 takes 3.
	g := mustEdges(t, 4, []graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}}, nil)
	m, err := ComputeMatching(g, 1, 0)
	if err != nil {
		t.Fatalf("ComputeMatching: %v", err)
	}
	if want := []int{1, 0, 3, 2}; !slices.Equal(m.Mate, want) {
		t.Errorf("Mate = %v, want %v", m.Mate, want)
	}
	if m.CoarseVertNbr != 2 {
		t.Errorf("CoarseVertNbr = %d, want 2", m.CoarseVertNbr)
	}
}

func TestMatchingIsolatedVertices(t *testing.T) {
	// 0 and 3 are isolated, 1-2 is an edge, 4 is isolated.
	g := mustEdges(t, 5, []graph.Edge{{U: 1, V: 2}}, nil)
	m, err := ComputeMatching(g, 1, 0)
	if err != nil {
		t.Fatalf("ComputeMatching: %v", err)
	}
	// 0 pairs with the next isolated vertex (3), 1 with 2, and 4 is left alone.
	if want := []int{3, 2, 1, 0, 4}; !slices.Equal(m.Mate, want) {
		t.Errorf("Mate = %v, want %v", m.Mate, want)
	}
}

func TestMatchingIsolatedFallsBackToFreeVertex(t *testing.T) {
	// 0 is isolated and no other isolated vertex exists: it takes vertex 1.
	g := mustEdges(t, 3, []graph.Edge{{U: 1, V: 2}}, nil)
	m, err := ComputeMatching(g, 1, 0)
	if err != nil {
		t.Fatalf("ComputeMatching: %v", err)
	}
	if want := []int{1, 0, 2}; !slices.Equal(m.Mate, want) {
		t.Errorf("Mate = %v, want %v", m.Mate, want)
	}
}

func TestValidateMatchingErrors(t *testing.T) {
	g := graph.Cycle(4)
	g.Base = 1

	tests := []struct {
		name string
		m    *Matching
		want error
	}{
		{"Range", &Matching{Mate: []int{4, 1, 2, 3}, CoarseVertNbr: 4}, ErrMateRange},
		{"Negative", &Matching{Mate: []int{-1, 1, 2, 3}, CoarseVertNbr: 4}, ErrMateRange},
		{"Asymmetric", &Matching{Mate: []int{1, 2, 2, 3}, CoarseVertNbr: 3}, ErrAsymmetricMatching},
		{"Count", &Matching{Mate: []int{1, 0, 2, 3}, CoarseVertNbr: 4}, ErrCoarseCount},
		{"Length", &Matching{Mate: []int{0}, CoarseVertNbr: 1}, ErrCoarseCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMatching(g, tt.m); !errors.Is(err, tt.want) {
				t.Errorf("ValidateMatching() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildCoarseGraph(t *testing.T) {
	// Weighted path 0-1-2-3 with loads 1,2,3,4.
	g := mustEdges(t, 4, []graph.Edge{{U: 0, V: 1, Load: 5}, {U: 1, V: 2, Load: 6}, {U: 2, V: 3, Load: 7}}, []int{1, 2, 3, 4})
	m := &Matching{Mate: []int{1, 0, 3, 2}, CoarseVertNbr: 2}

	lvl, err := BuildCoarseGraph(g, 2, m)
	if err != nil {
		t.Fatalf("BuildCoarseGraph: %v", err)
	}
	c := lvl.Coarse
	if err := c.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if c.VertNbr != 2 || c.EdgeNbr != 2 {
		t.Fatalf("coarse = %d vertices %d arcs, want 2 and 2", c.VertNbr, c.EdgeNbr)
	}
	if !slices.Equal(c.Velotab, []int{3, 7}) {
		t.Errorf("Velotab = %v, want [3 7]", c.Velotab)
	}
	// Only the middle edge crosses the two multinodes.
	if !slices.Equal(c.Edlotab, []int{6, 6}) {
		t.Errorf("Edlotab = %v, want [6 6]", c.Edlotab)
	}
	if want := []Multinode{{0, 1}, {2, 3}}; !slices.Equal(lvl.Multinodes, want) {
		t.Errorf("Multinodes = %v, want %v", lvl.Multinodes, want)
	}
	if want := []int{0, 0, 1, 1}; !slices.Equal(lvl.CoarseOf, want) {
		t.Errorf("CoarseOf = %v, want %v", lvl.CoarseOf, want)
	}
}

func TestBuildCoarseGraphMergesParallelEdges(t *testing.T) {
	// 4-cycle matched as {0,1},{2,3}: edges 1-2 and 3-0 both join the multinodes.
	g := graph.Cycle(4)
	m := &Matching{Mate: []int{1, 0, 3, 2}, CoarseVertNbr: 2}
	lvl, err := BuildCoarseGraph(g, 2, m)
	if err != nil {
		t.Fatalf("BuildCoarseGraph: %v", err)
	}
	if lvl.Coarse.EdgeNbr != 2 {
		t.Errorf("EdgeNbr = %d, want 2", lvl.Coarse.EdgeNbr)
	}
	if !slices.Equal(lvl.Coarse.Edlotab, []int{2, 2}) {
		t.Errorf("Edlotab = %v, want [2 2]", lvl.Coarse.Edlotab)
	}
}

func TestBuildCoarseGraphRejectsBadMatching(t *testing.T) {
	g := graph.Cycle(4)
	if _, err := BuildCoarseGraph(g, 3, &Matching{Mate: []int{1, 0, 3, 2}, CoarseVertNbr: 2}); !errors.Is(err, ErrCoarseCount) {
		t.Errorf("err = %v, want %v", err, ErrCoarseCount)
	}
	if _, err := BuildCoarseGraph(g, 2, &Matching{Mate: []int{1, 2, 3, 0}, CoarseVertNbr: 2}); !errors.Is(err, ErrAsymmetricMatching) {
		t.Errorf("err = %v, want %v", err, ErrAsymmetricMatching)
	}
	if _, err := BuildCoarseGraph(g, 2, &Matching{Mate: []int{9, 0, 3, 2}, CoarseVertNbr: 2}); !errors.Is(err, ErrMateRange) {
		t.Errorf("err = %v, want %v", err, ErrMateRange)
	}
}

func TestCoarseGraphInvariants(t *testing.T) {
	g := graph.Grid(6, 5)
	m, err := ComputeMatching(g, 1, 0)
	if err != nil {
		t.Fatalf("ComputeMatching: %v", err)
	}
	lvl, err := BuildCoarseGraph(g, m.CoarseVertNbr, m)
	if err != nil {
		t.Fatalf("BuildCoarseGraph: %v", err)
	}
	if err := lvl.Coarse.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}

	singletons := 0
	for _, mn := range lvl.Multinodes {
		for _, v := range mn {
			if v < 0 || v >= g.VertNbr {
				t.Errorf("multinode %v out of range", mn)
			}
		}
		if mn[0] == mn[1] {
			singletons++
		}
	}
	if pairs := len(lvl.Multinodes) - singletons; pairs != m.Merges() {
		t.Errorf("pairs = %d, want %d", pairs, m.Merges())
	}
	if lvl.Coarse.VeloSum != g.VeloSum {
		t.Errorf("coarse VeloSum = %d, want %d", lvl.Coarse.VeloSum, g.VeloSum)
	}

	// Arc loads lost in coarsening are exactly the matched edges.
	internal := 0
	for v, u := range m.Mate {
		if u != v {
			internal++ // counted once per endpoint, i.e. once per arc
		}
	}
	if lvl.Coarse.EdloSum != g.EdloSum-internal {
		t.Errorf("coarse EdloSum = %d, want %d", lvl.Coarse.EdloSum, g.EdloSum-internal)
	}
}

func TestBuildCoarseGraphIdempotent(t *testing.T) {
	g := graph.Grid(7, 3)
	m, err := ComputeMatching(g, 1, 0)
	if err != nil {
		t.Fatalf("ComputeMatching: %v", err)
	}
	a, err := BuildCoarseGraph(g, m.CoarseVertNbr, m)
	if err != nil {
		t.Fatalf("BuildCoarseGraph: %v", err)
	}
	b, err := BuildCoarseGraph(g, m.CoarseVertNbr, m)
	if err != nil {
		t.Fatalf("BuildCoarseGraph: %v", err)
	}
	if a.Coarse.VertNbr != b.Coarse.VertNbr || a.Coarse.EdgeNbr != b.Coarse.EdgeNbr {
		t.Errorf("builds differ: %d/%d vs %d/%d", a.Coarse.VertNbr, a.Coarse.EdgeNbr, b.Coarse.VertNbr, b.Coarse.EdgeNbr)
	}
	if !slices.Equal(a.Coarse.Edgetab, b.Coarse.Edgetab) || !slices.Equal(a.Coarse.Edlotab, b.Coarse.Edlotab) {
		t.Error("builds have different adjacency")
	}
}

func TestCoarsenNoMergeSingleVertex(t *testing.T) {
	g := mustEdges(t, 1, nil, nil)
	lvl, err := Coarsen(g, 1, 0.8, FlagNoMerge)
	if err != nil {
		t.Fatalf("Coarsen: %v", err)
	}
	if lvl.Coarse.VertNbr != g.VertNbr {
		t.Errorf("coarse VertNbr = %d, want %d", lvl.Coarse.VertNbr, g.VertNbr)
	}
}

func TestCoarsenNoMergeKeepsShape(t *testing.T) {
	g := graph.Grid(4, 4)
	lvl, err := Coarsen(g, 1, 0.8, FlagNoMerge)
	if err != nil {
		t.Fatalf("Coarsen: %v", err)
	}
	if lvl.Coarse.VertNbr != g.VertNbr || lvl.Coarse.EdgeNbr != g.EdgeNbr {
		t.Errorf("coarse = %d/%d, want %d/%d", lvl.Coarse.VertNbr, lvl.Coarse.EdgeNbr, g.VertNbr, g.EdgeNbr)
	}
}

func TestCoarsenNotCoarsened(t *testing.T) {
	// A star cannot shrink by much: only one leaf can pair with the centre.
	var edges []graph.Edge
	for v := 1; v < 10; v++ {
		edges = append(edges, graph.Edge{U: 0, V: v})
	}
	g := mustEdges(t, 10, edges, nil)
	if _, err := Coarsen(g, 1, 0.8, 0); !errors.Is(err, ErrNotCoarsened) {
		t.Errorf("Coarsen() = %v, want %v", err, ErrNotCoarsened)
	}
}

func TestHierarchy(t *testing.T) {
	g := graph.Grid(16, 16)
	levels, err := Hierarchy(g, 10, 0.8, 0, 0)
	if err != nil {
		t.Fatalf("Hierarchy: %v", err)
	}
	if len(levels) == 0 {
		t.Fatal("Hierarchy produced no levels")
	}
	prev := g
	for i, lvl := range levels {
		if lvl.Fine != prev {
			t.Errorf("level %d fine graph is not the previous coarse graph", i)
		}
		if lvl.Coarse.VertNbr >= lvl.Fine.VertNbr {
			t.Errorf("level %d did not shrink: %d -> %d", i, lvl.Fine.VertNbr, lvl.Coarse.VertNbr)
		}
		if lvl.Coarse.VeloSum != g.VeloSum {
			t.Errorf("level %d VeloSum = %d, want %d", i, lvl.Coarse.VeloSum, g.VeloSum)
		}
		prev = lvl.Coarse
	}

	limited, err := Hierarchy(g, 10, 0.8, 0, 2)
	if err != nil {
		t.Fatalf("Hierarchy: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestProjectAndRestrict(t *testing.T) {
	g := graph.Cycle(6)
	lvl, err := Coarsen(g, 1, 0.8, 0)
	if err != nil {
		t.Fatalf("Coarsen: %v", err)
	}
	coarse := make([]uint8, lvl.Coarse.VertNbr)
	coarse[0] = 1
	fine := lvl.Project(coarse)
	mn := lvl.Multinodes[0]
	if fine[mn[0]] != 1 || fine[mn[1]] != 1 {
		t.Errorf("multinode %v not projected to part 1: %v", mn, fine)
	}
	if back := lvl.Restrict(fine); !slices.Equal(back, coarse) {
		t.Errorf("Restrict(Project(x)) = %v, want %v", back, coarse)
	}

	sums := lvl.RestrictSum([]int{1, 2, 3, 4, 5, 6})
	total := 0
	for _, s := range sums {
		total += s
	}
	if total != 21 {
		t.Errorf("RestrictSum total = %d, want 21", total)
	}
	if lvl.RestrictSum(nil) != nil {
		t.Error("RestrictSum(nil) != nil")
	}
}
