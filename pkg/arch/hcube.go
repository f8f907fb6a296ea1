package arch

import (
	"fmt"
	"math/bits"
)

// Hypercube is a binary hypercube of dimension dim with 2^dim processors.
// Processors are adjacent when their numbers differ in one bit.
type Hypercube struct {
	dim int
}

// NewHypercube returns a hypercube of the given dimension, at most 30.
func NewHypercube(dim int) (*Hypercube, error) {
	if dim < 0 || dim > 30 {
		return nil, fmt.Errorf("%w: hypercube dimension %d not in [0,30]", ErrInvalidArch, dim)
	}
	return &Hypercube{dim: dim}, nil
}

func (a *Hypercube) Name() string             { return "hcub" }
func (a *Hypercube) Root() Domain             { return root1D(1 << a.dim) }
func (a *Hypercube) Terminal(d Domain) bool   { return span(d) <= 1 }
func (a *Hypercube) Weight(d Domain) int      { return span(d) }
func (a *Hypercube) Variable() bool           { return false }
func (a *Hypercube) Size(d Domain) int        { return span(d) }
func (a *Hypercube) TerminalNum(d Domain) int { return d.Lo[0] }

// Bipart fixes the highest free bit of d.
func (a *Hypercube) Bipart(d Domain) (Domain, Domain, error) {
	if a.Terminal(d) {
		return Domain{}, Domain{}, ErrTerminal
	}
	d0, d1 := split1D(d, d.Lo[0]+span(d)/2)
	return d0, d1, nil
}

// Distance counts the differing bits both domains fix, plus half the free
// bits of the larger domain as the average cost of reaching inside it.
func (a *Hypercube) Distance(d0, d1 Domain) int {
	free := max(bits.Len(uint(span(d0)))-1, bits.Len(uint(span(d1)))-1)
	diff := uint(d0.Lo[0]^d1.Lo[0]) >> free
	return bits.OnesCount(diff) + free/2
}
