package arch

import "fmt"

// Complete is a complete graph of identical processors: every pair of
// processors is one hop apart.
type Complete struct {
	n int
}

// NewComplete returns a complete graph of n processors.
func NewComplete(n int) (*Complete, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: complete graph needs at least one processor, got %d", ErrInvalidArch, n)
	}
	return &Complete{n: n}, nil
}

func (a *Complete) Name() string             { return "cmplt" }
func (a *Complete) Root() Domain             { return root1D(a.n) }
func (a *Complete) Terminal(d Domain) bool   { return span(d) <= 1 }
func (a *Complete) Weight(d Domain) int      { return span(d) }
func (a *Complete) Variable() bool           { return false }
func (a *Complete) Size(d Domain) int        { return span(d) }
func (a *Complete) TerminalNum(d Domain) int { return d.Lo[0] }

// Bipart splits d into two halves; the second half gets the extra processor
// when the size is odd.
func (a *Complete) Bipart(d Domain) (Domain, Domain, error) {
	if a.Terminal(d) {
		return Domain{}, Domain{}, ErrTerminal
	}
	d0, d1 := split1D(d, d.Lo[0]+span(d)/2)
	return d0, d1, nil
}

// Distance is 0 within the same domain and 1 otherwise.
func (a *Complete) Distance(d0, d1 Domain) int {
	if d0.Lo == d1.Lo && d0.Hi == d1.Hi {
		return 0
	}
	return 1
}

// CompleteWeighted is a complete graph of processors with individual
// processing weights.
type CompleteWeighted struct {
	weights []int
	prefix  []int // prefix[i] is the weight of processors [0, i)
}

// NewCompleteWeighted returns a weighted complete graph. Every weight must
// be positive.
func NewCompleteWeighted(weights []int) (*CompleteWeighted, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: weighted complete graph needs at least one processor", ErrInvalidArch)
	}
	prefix := make([]int, len(weights)+1)
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("%w: processor %d has weight %d", ErrInvalidArch, i, w)
		}
		prefix[i+1] = prefix[i] + w
	}
	return &CompleteWeighted{weights: append([]int(nil), weights...), prefix: prefix}, nil
}

func (a *CompleteWeighted) Name() string             { return "cmpltw" }
func (a *CompleteWeighted) Root() Domain             { return root1D(len(a.weights)) }
func (a *CompleteWeighted) Terminal(d Domain) bool   { return span(d) <= 1 }
func (a *CompleteWeighted) Variable() bool           { return false }
func (a *CompleteWeighted) Size(d Domain) int        { return span(d) }
func (a *CompleteWeighted) TerminalNum(d Domain) int { return d.Lo[0] }

func (a *CompleteWeighted) Weight(d Domain) int {
	return a.prefix[d.Hi[0]] - a.prefix[d.Lo[0]]
}

// Bipart cuts d where the two halves have the closest weights, keeping at
// least one processor on each side.
func (a *CompleteWeighted) Bipart(d Domain) (Domain, Domain, error) {
	if a.Terminal(d) {
		return Domain{}, Domain{}, ErrTerminal
	}
	cut := balancedCut(a.prefix, d.Lo[0], d.Hi[0])
	d0, d1 := split1D(d, cut)
	return d0, d1, nil
}

func (a *CompleteWeighted) Distance(d0, d1 Domain) int {
	if d0.Lo == d1.Lo && d0.Hi == d1.Hi {
		return 0
	}
	return 1
}

// balancedCut returns the cut in (lo, hi) that best balances the prefix
// weights of [lo, cut) and [cut, hi).
func balancedCut(prefix []int, lo, hi int) int {
	total := prefix[hi] - prefix[lo]
	best, bestDiff := lo+1, -1
	for cut := lo + 1; cut < hi; cut++ {
		diff := abs(2*(prefix[cut]-prefix[lo]) - total)
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = cut, diff
		}
	}
	return best
}
