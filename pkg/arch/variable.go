package arch

import "math/bits"

// VariableComplete is a complete graph without a fixed number of
// processors. Every domain splits into two equal halves.
type VariableComplete struct{}

func (VariableComplete) Name() string             { return "vcmplt" }
func (VariableComplete) Root() Domain             { return Domain{Num: 1} }
func (VariableComplete) Terminal(Domain) bool     { return false }
func (VariableComplete) Weight(Domain) int        { return 1 }
func (VariableComplete) Variable() bool           { return true }
func (VariableComplete) Size(Domain) int          { return 0 }
func (VariableComplete) TerminalNum(d Domain) int { return d.Num }

func (VariableComplete) Bipart(d Domain) (Domain, Domain, error) {
	d0, d1 := children(d)
	return d0, d1, nil
}

func (VariableComplete) Distance(d0, d1 Domain) int {
	if d0.Num == d1.Num {
		return 0
	}
	return 1
}

// VariableHypercube is a hypercube whose dimension grows with every split.
// The domain tree number encodes the fixed bits of a domain.
type VariableHypercube struct{}

func (VariableHypercube) Name() string             { return "vhcub" }
func (VariableHypercube) Root() Domain             { return Domain{Num: 1} }
func (VariableHypercube) Terminal(Domain) bool     { return false }
func (VariableHypercube) Weight(Domain) int        { return 1 }
func (VariableHypercube) Variable() bool           { return true }
func (VariableHypercube) Size(Domain) int          { return 0 }
func (VariableHypercube) TerminalNum(d Domain) int { return d.Num }

func (VariableHypercube) Bipart(d Domain) (Domain, Domain, error) {
	d0, d1 := children(d)
	return d0, d1, nil
}

// Distance counts the differing bits of the common prefix plus half the
// depth difference. Tree numbers wrap beyond depth 62, so distances between
// deeper domains are approximate.
func (VariableHypercube) Distance(d0, d1 Domain) int {
	n0, n1 := uint64(d0.Num), uint64(d1.Num)
	l0, l1 := d0.Level, d1.Level
	if l0 < l1 {
		n0, n1, l0, l1 = n1, n0, l1, l0
	}
	shift := min(l0-l1, 63)
	return bits.OnesCount64((n0>>shift)^n1) + (l0-l1)/2
}
