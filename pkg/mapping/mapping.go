// Package mapping records the result of a mapping run: which architecture
// domain each vertex of the source graph ends up on.
//
// A [Mapping] is shared by all branches of a concurrent run. Domain slots
// are handed out under a mutex by [Mapping.Allocate]; vertex assignments
// written by [Mapping.Assign] need no lock because concurrent branches
// always own disjoint vertex sets.
package mapping

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/stackmap/pkg/arch"
	"github.com/matzehuels/stackmap/pkg/graph"
)

var (
	// ErrUnassigned is returned by [Mapping.Check] when a vertex has no domain.
	ErrUnassigned = errors.New("vertex not assigned")

	// ErrDuplicate is returned by [Mapping.Check] when more assignments than
	// vertices were made.
	ErrDuplicate = errors.New("vertex assigned more than once")

	// ErrDomainRange is returned when a domain number was never allocated.
	ErrDomainRange = errors.New("domain number out of range")
)

// Unassigned marks a vertex without a domain in [Mapping.Parts].
const Unassigned = -1

const minGrowth = 8

// Mapping maps the vertices of a source graph to domain numbers, and domain
// numbers to architecture domains.
type Mapping struct {
	arch    arch.Arch
	parttab []int // Domain number of each vertex
	written atomic.Int64

	mu      sync.Mutex
	domains []arch.Domain
}

// New returns an empty mapping of g onto a.
func New(g *graph.Graph, a arch.Arch) *Mapping {
	parttab := make([]int, g.VertNbr)
	for v := range parttab {
		parttab[v] = Unassigned
	}
	return &Mapping{
		arch:    a,
		parttab: parttab,
		domains: make([]arch.Domain, 0, minGrowth),
	}
}

// Arch returns the architecture the mapping targets.
func (m *Mapping) Arch() arch.Arch { return m.arch }

// Allocate stores dom in a new slot and returns its domain number. Numbers
// are handed out in increasing order. Safe for concurrent use.
func (m *Mapping) Allocate(dom arch.Domain) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.domains) == cap(m.domains) {
		grown := make([]arch.Domain, len(m.domains), cap(m.domains)+max(cap(m.domains)/4, minGrowth))
		copy(grown, m.domains)
		m.domains = grown
	}
	m.domains = append(m.domains, dom)
	return len(m.domains) - 1
}

// Assign maps the given vertices of the source graph to domain number num.
// Concurrent calls must use disjoint vertex sets.
func (m *Mapping) Assign(num int, vertices []int) {
	for _, v := range vertices {
		m.parttab[v] = num
	}
	m.written.Add(int64(len(vertices)))
}

// AssignGraph maps every vertex of g, a subgraph induced from the source
// graph, to domain number num.
func (m *Mapping) AssignGraph(num int, g *graph.Graph) {
	for v := 0; v < g.VertNbr; v++ {
		m.parttab[g.Origin(v)] = num
	}
	m.written.Add(int64(g.VertNbr))
}

// Domain returns the domain stored under num.
func (m *Mapping) Domain(num int) (arch.Domain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if num < 0 || num >= len(m.domains) {
		return arch.Domain{}, fmt.Errorf("%w: %d", ErrDomainRange, num)
	}
	return m.domains[num], nil
}

// DomainCount returns the number of allocated domain numbers.
func (m *Mapping) DomainCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.domains)
}

// Parts returns a copy of the domain number of every vertex.
func (m *Mapping) Parts() []int {
	return append([]int(nil), m.parttab...)
}

// Terminals returns the terminal number of the domain of every vertex,
// or [Unassigned].
func (m *Mapping) Terminals() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.parttab))
	for v, num := range m.parttab {
		if num < 0 || num >= len(m.domains) {
			out[v] = Unassigned
			continue
		}
		out[v] = m.arch.TerminalNum(m.domains[num])
	}
	return out
}

// Check verifies that every vertex was assigned exactly once, to an
// allocated domain number.
func (m *Mapping) Check() error {
	count := m.DomainCount()
	for v, num := range m.parttab {
		if num == Unassigned {
			return fmt.Errorf("%w: vertex %d", ErrUnassigned, v)
		}
		if num < 0 || num >= count {
			return fmt.Errorf("%w: vertex %d has domain %d of %d", ErrDomainRange, v, num, count)
		}
	}
	if n := m.written.Load(); n != int64(len(m.parttab)) {
		return fmt.Errorf("%w: %d assignments for %d vertices", ErrDuplicate, n, len(m.parttab))
	}
	return nil
}

// Loads returns the total vertex load of g placed on each domain number.
// g must be the source graph of the mapping.
func (m *Mapping) Loads(g *graph.Graph) []int {
	loads := make([]int, m.DomainCount())
	for v, num := range m.parttab {
		if num >= 0 && num < len(loads) {
			loads[num] += g.VertexLoad(v)
		}
	}
	return loads
}
