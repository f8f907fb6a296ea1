package graph

// Cycle returns the n-vertex cycle with unit loads, numbered from 0.
// For n < 3 it returns a path (n == 2) or isolated vertices.
func Cycle(n int) *Graph {
	var edges []Edge
	for v := 0; v+1 < n; v++ {
		edges = append(edges, Edge{U: v, V: v + 1})
	}
	if n >= 3 {
		edges = append(edges, Edge{U: n - 1, V: 0})
	}
	g, _ := FromEdges(n, 0, edges, nil)
	return g
}

// Grid returns the x by y 2D grid graph with unit loads, numbered row by row
// from 0.
func Grid(x, y int) *Graph {
	var edges []Edge
	for j := 0; j < y; j++ {
		for i := 0; i < x; i++ {
			v := j*x + i
			if i+1 < x {
				edges = append(edges, Edge{U: v, V: v + 1})
			}
			if j+1 < y {
				edges = append(edges, Edge{U: v, V: v + x})
			}
		}
	}
	g, _ := FromEdges(x*y, 0, edges, nil)
	return g
}
