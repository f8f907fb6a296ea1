package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the JSON wire format of a graph: an edge list numbered from
// Base. Each entry of Edges is [u, v] or [u, v, load].
type Document struct {
	Base     int     `json:"base"`
	Vertices int     `json:"vertices"`
	Loads    []int   `json:"loads,omitempty"`
	Edges    [][]int `json:"edges"`
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes. Each undirected edge is
// written once, from its lower-numbered endpoint, in vertex order, so the
// output is deterministic.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes produced by [MarshalGraph].
func UnmarshalGraph(data []byte) (*Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes g as JSON to w.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes g to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from r and checks it.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDocument(doc)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ToDocument converts g to its wire form.
func ToDocument(g *Graph) Document {
	doc := Document{
		Base:     g.Base,
		Vertices: g.VertNbr,
		Edges:    make([][]int, 0, g.EdgeNbr/2),
	}
	if g.Velotab != nil {
		doc.Loads = append([]int(nil), g.Velotab...)
	}
	for v := 0; v < g.VertNbr; v++ {
		for e := g.Verttab[v]; e < g.Verttab[v+1]; e++ {
			w := g.Edgetab[e]
			if w < v {
				continue
			}
			if g.Edlotab != nil {
				doc.Edges = append(doc.Edges, []int{g.Based(v), g.Based(w), g.Edlotab[e]})
			} else {
				doc.Edges = append(doc.Edges, []int{g.Based(v), g.Based(w)})
			}
		}
	}
	return doc
}

// FromDocument builds and checks a graph from its wire form.
func FromDocument(doc Document) (*Graph, error) {
	edges := make([]Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		switch len(e) {
		case 2:
			edges[i] = Edge{U: e[0], V: e[1]}
		case 3:
			if e[2] <= 0 {
				return nil, fmt.Errorf("%w: edge %d", ErrBadLoad, i)
			}
			edges[i] = Edge{U: e[0], V: e[1], Load: e[2]}
		default:
			return nil, fmt.Errorf("%w: edge %d has %d fields", ErrMalformed, i, len(e))
		}
	}
	g, err := FromEdges(doc.Vertices, doc.Base, edges, doc.Loads)
	if err != nil {
		return nil, err
	}
	if err := g.Check(); err != nil {
		return nil, err
	}
	return g, nil
}
