package mapper

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/stackmap/pkg/arch"
	"github.com/matzehuels/stackmap/pkg/bipart"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/exec"
	"github.com/matzehuels/stackmap/pkg/graph"
)

// randomHalves splits a graph into two random halves of equal vertex count,
// drawing only from the frame's random stream.
type randomHalves struct{}

func (randomHalves) Bipart(ec *exec.Context, g *bipart.Graph) error {
	n := g.Source.VertNbr
	for i, v := range ec.Rand().Perm(n) {
		g.Parts[v] = 0
		if i < n/2 {
			g.Parts[v] = 1
		}
	}
	g.Compute()
	return nil
}

type failing struct{ err error }

func (f failing) Bipart(*exec.Context, *bipart.Graph) error { return f.err }

func mustArch(t *testing.T, s string) arch.Arch {
	t.Helper()
	a, err := arch.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestMapCompleteness(t *testing.T) {
	tests := []struct {
		name  string
		g     *graph.Graph
		arch  string
		leafs int
	}{
		{"Grid8x8Cmplt4", graph.Grid(8, 8), "cmplt:4", 4},
		{"Grid8x8Hcub3", graph.Grid(8, 8), "hcub:3", 8},
		{"Cycle30Mesh", graph.Cycle(30), "mesh2d:3x2", 6},
		{"Grid6x6Cmplt5", graph.Grid(6, 6), "cmplt:5", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Map(context.Background(), exec.New(2, 1, nil), tt.g, mustArch(t, tt.arch), Options{})
			if err != nil {
				t.Fatalf("Map: %v", err)
			}
			if err := res.Mapping.Check(); err != nil {
				t.Fatalf("Check: %v", err)
			}
			if n := res.Mapping.DomainCount(); n != tt.leafs {
				t.Errorf("DomainCount() = %d, want %d", n, tt.leafs)
			}
			used := map[int]bool{}
			for v, term := range res.Mapping.Terminals() {
				if term < 0 || term >= tt.leafs {
					t.Errorf("vertex %d on terminal %d", v, term)
				}
				used[term] = true
			}
			if len(used) != tt.leafs {
				t.Errorf("%d terminals used, want %d", len(used), tt.leafs)
			}
			if res.Stats.Fallbacks != 0 {
				t.Errorf("Fallbacks = %d, want 0", res.Stats.Fallbacks)
			}
		})
	}
}

func TestMapDefaultStrategyBalancesGrid(t *testing.T) {
	tests := []struct {
		arch         string
		leafs        int
		maxImbalance float64
		maxCut       int
	}{
		{"cmplt:2", 2, 0.05, 128},
		{"cmplt:4", 4, 0.1, 200},
		{"hcub:3", 8, 0.16, 300},
	}
	g := graph.Grid(16, 16)
	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			for _, threads := range []int{1, 4} {
				res, err := Map(context.Background(), exec.New(threads, 42, nil), g, mustArch(t, tt.arch), Options{})
				if err != nil {
					t.Fatalf("threads=%d: Map: %v", threads, err)
				}
				if res.Stats.Fallbacks != 0 || res.Mapping.DomainCount() != tt.leafs {
					t.Errorf("threads=%d: stats %+v, want %d domains and no fallbacks", threads, res.Stats, tt.leafs)
				}
				cost, err := ComputeCost(g, res.Mapping)
				if err != nil {
					t.Fatal(err)
				}
				if cost.MinLoad == 0 || cost.Imbalance > tt.maxImbalance {
					t.Errorf("threads=%d: loads %v, imbalance %.3f > %.3f", threads, cost.Loads, cost.Imbalance, tt.maxImbalance)
				}
				// A random balanced split of the 480 grid edges cuts about
				// (1 - 1/leafs) of them.
				if cost.Cut < 16 || cost.Cut > tt.maxCut {
					t.Errorf("threads=%d: cut %d", threads, cost.Cut)
				}
			}
		})
	}
}

func TestMapCycleOnTwoDomains(t *testing.T) {
	opts := Options{Strategy: bipart.GA{Generations: 300, Population: 200}, Imbalance: 0.25}
	res, err := Map(context.Background(), exec.New(1, 12345, nil), graph.Cycle(8), mustArch(t, "cmplt:2"), opts)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if res.Mapping.DomainCount() != 2 {
		t.Fatalf("DomainCount() = %d, want 2", res.Mapping.DomainCount())
	}
	cost, err := ComputeCost(graph.Cycle(8), res.Mapping)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(cost.Loads, []int{4, 4}) {
		t.Errorf("Loads = %v, want [4 4]", cost.Loads)
	}
	if cost.Cut != 2 || cost.Comm != 2 {
		t.Errorf("cut %d comm %d, want 2 and 2", cost.Cut, cost.Comm)
	}
}

func TestMapDegenerateFallbackTerminates(t *testing.T) {
	tests := []struct {
		arch      string
		fallbacks int
	}{
		{"cmplt:8", 3},
		{"cmplt:7", 2},
		{"hcub:4", 4},
		{"mesh2d:4x4", 4},
	}
	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			g := graph.Grid(4, 4)
			res, err := Map(context.Background(), exec.New(4, 1, nil), g, mustArch(t, tt.arch), Options{Strategy: bipart.Zero{}})
			if err != nil {
				t.Fatalf("Map: %v", err)
			}
			if res.Stats.Fallbacks != tt.fallbacks {
				t.Errorf("Fallbacks = %d, want %d", res.Stats.Fallbacks, tt.fallbacks)
			}
			if res.Stats.Domains != 1 {
				t.Errorf("Domains = %d, want 1", res.Stats.Domains)
			}
			for v, term := range res.Mapping.Terminals() {
				if term != 0 {
					t.Fatalf("vertex %d on terminal %d, want 0", v, term)
				}
			}
		})
	}
}

func TestMapVariableArchitecture(t *testing.T) {
	// Two disjoint 4-cycles.
	var edges []graph.Edge
	for c := 0; c < 2; c++ {
		for i := 0; i < 4; i++ {
			edges = append(edges, graph.Edge{U: 4*c + i, V: 4*c + (i+1)%4})
		}
	}
	g, err := graph.FromEdges(8, 0, edges, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, desc := range []string{"vcmplt", "vhcub"} {
		t.Run(desc, func(t *testing.T) {
			opts := Options{Strategy: bipart.GA{Generations: 200, Population: 100}}
			res, err := Map(context.Background(), exec.New(1, 3, nil), g, mustArch(t, desc), opts)
			if err != nil {
				t.Fatalf("Map: %v", err)
			}
			parts := res.Mapping.Parts()
			if res.Mapping.DomainCount() != 2 {
				t.Fatalf("DomainCount() = %d, want 2 (parts %v)", res.Mapping.DomainCount(), parts)
			}
			for v := 1; v < 4; v++ {
				if parts[v] != parts[0] || parts[4+v] != parts[4] {
					t.Fatalf("components split: %v", parts)
				}
			}
			if parts[0] == parts[4] {
				t.Errorf("components share a domain: %v", parts)
			}
			if res.Stats.Fallbacks != 2 {
				t.Errorf("Fallbacks = %d, want 2", res.Stats.Fallbacks)
			}
		})
	}
}

func TestMapVariableSplitsToSingletons(t *testing.T) {
	g, err := graph.FromEdges(4, 0, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Map(context.Background(), exec.New(1, 1, nil), g, arch.VariableComplete{}, Options{Strategy: randomHalves{}})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if res.Mapping.DomainCount() != 4 {
		t.Errorf("DomainCount() = %d, want 4", res.Mapping.DomainCount())
	}
	if res.Stats.MaxDepth != 2 || res.Stats.Bipartitions != 3 {
		t.Errorf("stats = %+v, want depth 2 and 3 bipartitions", res.Stats)
	}
}

func TestMapSameResultAnyThreadCount(t *testing.T) {
	g := graph.Grid(16, 16)
	a := mustArch(t, "cmplt:8")
	var want []int
	for _, threads := range []int{1, 2, 3, 8} {
		res, err := Map(context.Background(), exec.New(threads, 42, nil), g, a, Options{Strategy: randomHalves{}})
		if err != nil {
			t.Fatalf("threads=%d: Map: %v", threads, err)
		}
		if res.Stats.Bipartitions != 7 || res.Stats.MaxDepth != 3 {
			t.Errorf("threads=%d: stats %+v", threads, res.Stats)
		}
		got := res.Mapping.Terminals()
		if want == nil {
			want = got
			continue
		}
		if !slices.Equal(got, want) {
			t.Errorf("threads=%d: terminals differ from sequential run", threads)
		}
	}
}

func TestMapErrors(t *testing.T) {
	ctx := context.Background()
	a := mustArch(t, "cmplt:4")
	g := graph.Grid(4, 4)
	boom := errors.New("boom")

	bad := graph.Cycle(4)
	bad.Edgetab = []int{1, 3, 0, 2, 1, 3, 2, 1}
	if _, err := Map(ctx, exec.New(1, 1, nil), bad, a, Options{}); !errs.Is(err, errs.ErrCodeInvalidGraph) {
		t.Errorf("asymmetric graph: err = %v", err)
	}

	if _, err := Map(ctx, exec.New(1, 1, nil), g, a, Options{Imbalance: -1}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative imbalance: err = %v", err)
	}

	_, err := Map(ctx, exec.New(4, 1, nil), g, a, Options{Strategy: failing{boom}})
	if !errs.Is(err, errs.ErrCodeBipartition) || !errors.Is(err, boom) {
		t.Errorf("failing strategy: err = %v", err)
	}

	_, err = Map(ctx, exec.New(2, 1, nil), g, a, Options{Strategy: bipart.GA{MaxWorkspace: 1}})
	if !errs.Is(err, errs.ErrCodeOutOfMemory) {
		t.Errorf("workspace limit: err = %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Map(cctx, exec.New(1, 1, nil), g, a, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: err = %v", err)
	}
}

func TestMapEmptyGraph(t *testing.T) {
	g, _ := graph.FromEdges(0, 0, nil, nil)
	res, err := Map(context.Background(), exec.New(1, 1, nil), g, mustArch(t, "cmplt:4"), Options{})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if res.Stats.Domains != 0 {
		t.Errorf("Domains = %d, want 0", res.Stats.Domains)
	}
}

func TestComputeCost(t *testing.T) {
	g := graph.Cycle(8)
	a := mustArch(t, "cmplt:2")
	res, err := Map(context.Background(), exec.New(1, 9, nil), g, a, Options{Strategy: randomHalves{}})
	if err != nil {
		t.Fatal(err)
	}
	parts := res.Mapping.Parts()
	cut := 0
	for v := 0; v < 8; v++ {
		if parts[v] != parts[(v+1)%8] {
			cut++
		}
	}
	cost, err := ComputeCost(g, res.Mapping)
	if err != nil {
		t.Fatal(err)
	}
	if cost.Cut != cut || cost.Comm != cut {
		t.Errorf("cost = %+v, want cut %d", cost, cut)
	}
	if cost.MaxLoad != 4 || cost.MinLoad != 4 || cost.Imbalance != 0 {
		t.Errorf("cost = %+v, want balanced loads", cost)
	}
}
