package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/stackmap/pkg/graph"
)

func TestToDOTBare(t *testing.T) {
	g := graph.Cycle(3)
	dot := ToDOT(g, nil, Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("unexpected header:\n%s", dot)
	}
	for _, e := range []string{"0 -- 1;", "0 -- 2;", "1 -- 2;"} {
		if !strings.Contains(dot, e) {
			t.Errorf("missing edge %q in:\n%s", e, dot)
		}
	}
	if strings.Contains(dot, "dashed") {
		t.Error("bare graph should have no cut edges")
	}
}

func TestToDOTParts(t *testing.T) {
	g := graph.Cycle(4)
	dot := ToDOT(g, []int{0, 0, 1, 1}, Options{})

	if got := strings.Count(dot, "style=dashed"); got != 2 {
		t.Errorf("cut edges = %d, want 2\n%s", got, dot)
	}
	if !strings.Contains(dot, `0 [fillcolor="`+Color(0)+`"]`) {
		t.Errorf("vertex 0 not coloured with domain 0:\n%s", dot)
	}
	if !strings.Contains(dot, `3 [fillcolor="`+Color(1)+`"]`) {
		t.Errorf("vertex 3 not coloured with domain 1:\n%s", dot)
	}
}

func TestToDOTCluster(t *testing.T) {
	g := graph.Cycle(4)
	dot := ToDOT(g, []int{1, 1, 0, -1}, Options{Cluster: true, Labels: []string{"left"}})

	for _, want := range []string{`subgraph "cluster_0"`, `subgraph "cluster_1"`, `label="left"`, `label="d1"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, "  3 [fillcolor=\"white\"]") {
		t.Errorf("unassigned vertex should be drawn outside clusters:\n%s", dot)
	}
}

func TestToDOTBaseAndLoads(t *testing.T) {
	g, err := graph.FromEdges(2, 1, []graph.Edge{{U: 1, V: 2, Load: 3}}, []int{5, 1})
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g, nil, Options{EdgeLoads: true})
	for _, want := range []string{`1 -- 2 [label="3"]`, `xlabel="5"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %q in:\n%s", want, dot)
		}
	}
}

func TestColor(t *testing.T) {
	if Color(-1) != "white" {
		t.Errorf("Color(-1) = %q", Color(-1))
	}
	if Color(0) != Color(len(palette)) {
		t.Error("palette does not wrap")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="62" height="116"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should be unchanged, got %s", got)
	}
}
