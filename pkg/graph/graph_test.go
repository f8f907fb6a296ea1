package graph

import (
	"errors"
	"slices"
	"testing"
)

func TestFromEdges(t *testing.T) {
	tests := []struct {
		name     string
		n, base  int
		edges    []Edge
		velo     []int
		wantArcs int
		wantVelo int
		wantEdlo int
		wantErr  error
		weighted bool
	}{
		{
			name:     "Empty",
			n:        0,
			wantArcs: 0,
		},
		{
			name:     "Path",
			n:        3,
			edges:    []Edge{{U: 0, V: 1}, {U: 1, V: 2}},
			wantArcs: 4,
			wantVelo: 3,
			wantEdlo: 4,
		},
		{
			name:     "BaseOne",
			n:        2,
			base:     1,
			edges:    []Edge{{U: 1, V: 2, Load: 5}},
			velo:     []int{2, 3},
			wantArcs: 2,
			wantVelo: 5,
			wantEdlo: 10,
			weighted: true,
		},
		{
			name:     "DuplicatesMerged",
			n:        2,
			edges:    []Edge{{U: 0, V: 1}, {U: 1, V: 0}},
			wantArcs: 2,
			wantVelo: 2,
			wantEdlo: 4,
			weighted: true,
		},
		{
			name:    "OutOfRange",
			n:       2,
			edges:   []Edge{{U: 0, V: 2}},
			wantErr: ErrVertexRange,
		},
		{
			name:    "SelfLoop",
			n:       2,
			edges:   []Edge{{U: 1, V: 1}},
			wantErr: ErrSelfLoop,
		},
		{
			name:    "BadBase",
			n:       2,
			base:    2,
			wantErr: ErrInvalidBase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromEdges(tt.n, tt.base, tt.edges, tt.velo)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromEdges: %v", err)
			}
			if err := g.Check(); err != nil {
				t.Fatalf("Check: %v", err)
			}
			if g.EdgeNbr != tt.wantArcs {
				t.Errorf("EdgeNbr = %d, want %d", g.EdgeNbr, tt.wantArcs)
			}
			if g.VeloSum != tt.wantVelo {
				t.Errorf("VeloSum = %d, want %d", g.VeloSum, tt.wantVelo)
			}
			if g.EdloSum != tt.wantEdlo {
				t.Errorf("EdloSum = %d, want %d", g.EdloSum, tt.wantEdlo)
			}
			if (g.Edlotab != nil) != tt.weighted {
				t.Errorf("weighted = %v, want %v", g.Edlotab != nil, tt.weighted)
			}
		})
	}
}

func TestCheckDetectsAsymmetry(t *testing.T) {
	// 0 -> 1 without 1 -> 0
	g, err := New(0, []int{0, 1, 1}, []int{1}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Check(); !errors.Is(err, ErrAsymmetric) {
		t.Errorf("Check() = %v, want %v", err, ErrAsymmetric)
	}
}

func TestCheckDetectsLoadMismatch(t *testing.T) {
	g, err := New(0, []int{0, 1, 2}, []int{1, 0}, nil, []int{2, 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Check(); !errors.Is(err, ErrAsymmetric) {
		t.Errorf("Check() = %v, want %v", err, ErrAsymmetric)
	}
}

func TestCheckRejectsBadOffsets(t *testing.T) {
	tests := []struct {
		name string
		g    Graph
	}{
		{"decreasing", Graph{VertNbr: 3, EdgeNbr: 2, Verttab: []int{0, 2, 0, 2}, Edgetab: []int{1, 0}, VeloSum: 3, EdloSum: 2}},
		{"past edge array", Graph{VertNbr: 2, EdgeNbr: 2, Verttab: []int{0, 5, 2}, Edgetab: []int{1, 0}, VeloSum: 2, EdloSum: 2}},
		{"negative", Graph{VertNbr: 2, EdgeNbr: 2, Verttab: []int{0, -1, 2}, Edgetab: []int{1, 0}, VeloSum: 2, EdloSum: 2}},
		{"short verttab", Graph{VertNbr: 3, EdgeNbr: 2, Verttab: []int{0, 1, 2}, Edgetab: []int{1, 0}, VeloSum: 3, EdloSum: 2}},
		{"short velotab", Graph{VertNbr: 2, EdgeNbr: 2, Verttab: []int{0, 1, 2}, Edgetab: []int{1, 0}, Velotab: []int{1}, VeloSum: 1, EdloSum: 2}},
		{"short edlotab", Graph{VertNbr: 2, EdgeNbr: 2, Verttab: []int{0, 1, 2}, Edgetab: []int{1, 0}, Edlotab: []int{1}, VeloSum: 2, EdloSum: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.g.Check(); !errors.Is(err, ErrMalformed) {
				t.Errorf("Check() = %v, want %v", err, ErrMalformed)
			}
		})
	}
}

func TestCheckZeroValue(t *testing.T) {
	var g Graph
	if err := g.Check(); err != nil {
		t.Errorf("Check() on zero value = %v, want nil", err)
	}
	empty, err := FromEdges(0, 1, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := empty.Check(); err != nil {
		t.Errorf("Check() on empty graph = %v, want nil", err)
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	if _, err := New(0, []int{0, 2}, []int{1}, nil, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("New() = %v, want %v", err, ErrMalformed)
	}
	if _, err := New(0, []int{0, 1}, []int{0}, []int{1, 1}, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("New() = %v, want %v", err, ErrMalformed)
	}
}

func TestBasedConversion(t *testing.T) {
	g := Cycle(4)
	g.Base = 1

	if got := g.Based(0); got != 1 {
		t.Errorf("Based(0) = %d, want 1", got)
	}
	if got, err := g.Unbased(4); err != nil || got != 3 {
		t.Errorf("Unbased(4) = %d, %v, want 3, nil", got, err)
	}
	if _, err := g.Unbased(0); !errors.Is(err, ErrVertexRange) {
		t.Errorf("Unbased(0) error = %v, want %v", err, ErrVertexRange)
	}
	if _, err := g.Unbased(5); !errors.Is(err, ErrVertexRange) {
		t.Errorf("Unbased(5) error = %v, want %v", err, ErrVertexRange)
	}
}

func TestInduce(t *testing.T) {
	g := Grid(3, 3)

	sub, err := g.Induce([]int{0, 1, 3, 4})
	if err != nil {
		t.Fatalf("Induce: %v", err)
	}
	if err := sub.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if sub.VertNbr != 4 {
		t.Errorf("VertNbr = %d, want 4", sub.VertNbr)
	}
	// The 2x2 corner block is a 4-cycle.
	if sub.EdgeNbr != 8 {
		t.Errorf("EdgeNbr = %d, want 8", sub.EdgeNbr)
	}
	if !slices.Equal(sub.Vnumtab, []int{0, 1, 3, 4}) {
		t.Errorf("Vnumtab = %v, want [0 1 3 4]", sub.Vnumtab)
	}

	// Inducing again composes vertex numbers with the root graph.
	subsub, err := sub.Induce([]int{1, 3})
	if err != nil {
		t.Fatalf("Induce: %v", err)
	}
	if !slices.Equal(subsub.Vnumtab, []int{1, 4}) {
		t.Errorf("Vnumtab = %v, want [1 4]", subsub.Vnumtab)
	}
	if subsub.Origin(1) != 4 {
		t.Errorf("Origin(1) = %d, want 4", subsub.Origin(1))
	}
	if err := subsub.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestInduceRejectsUnsorted(t *testing.T) {
	g := Cycle(5)
	if _, err := g.Induce([]int{2, 1}); !errors.Is(err, ErrMalformed) {
		t.Errorf("Induce() = %v, want %v", err, ErrMalformed)
	}
	if _, err := g.Induce([]int{7}); !errors.Is(err, ErrVertexRange) {
		t.Errorf("Induce() = %v, want %v", err, ErrVertexRange)
	}
}

func TestInducePart(t *testing.T) {
	g, err := FromEdges(4, 0, []Edge{{U: 0, V: 1, Load: 2}, {U: 1, V: 2}, {U: 2, V: 3, Load: 4}}, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("FromEdges: %v", err)
	}
	parts := []uint8{1, 0, 1, 1}

	sub, list, err := g.InducePart(parts, 1)
	if err != nil {
		t.Fatalf("InducePart: %v", err)
	}
	if !slices.Equal(list, []int{0, 2, 3}) {
		t.Errorf("list = %v, want [0 2 3]", list)
	}
	if sub.VeloSum != 8 {
		t.Errorf("VeloSum = %d, want 8", sub.VeloSum)
	}
	// Only the 2-3 edge survives.
	if sub.EdloSum != 8 {
		t.Errorf("EdloSum = %d, want 8", sub.EdloSum)
	}
	if err := sub.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestGenerators(t *testing.T) {
	c := Cycle(8)
	if c.VertNbr != 8 || c.EdgeNbr != 16 {
		t.Errorf("Cycle(8) = %d vertices %d arcs, want 8 and 16", c.VertNbr, c.EdgeNbr)
	}
	for v := 0; v < c.VertNbr; v++ {
		if c.Degree(v) != 2 {
			t.Errorf("Cycle degree(%d) = %d, want 2", v, c.Degree(v))
		}
	}

	g := Grid(4, 3)
	if g.VertNbr != 12 || g.EdgeNbr != 2*(3*3+4*2) {
		t.Errorf("Grid(4,3) = %d vertices %d arcs", g.VertNbr, g.EdgeNbr)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}
