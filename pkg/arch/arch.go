package arch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidArch is returned when an architecture cannot be built from
	// the given parameters.
	ErrInvalidArch = errors.New("invalid architecture")

	// ErrTerminal is returned by [Arch.Bipart] for a terminal domain.
	ErrTerminal = errors.New("domain is terminal")
)

// Arch is a target architecture. Implementations are immutable and safe for
// concurrent use.
type Arch interface {
	// Name returns the short architecture name used by [Parse].
	Name() string
	// Root returns the domain holding the whole architecture.
	Root() Domain
	// Terminal reports whether d cannot be split further. Variable
	// architectures never report terminal domains.
	Terminal(d Domain) bool
	// Bipart splits d into two non-empty subdomains.
	Bipart(d Domain) (Domain, Domain, error)
	// Weight returns the processing weight of d.
	Weight(d Domain) int
	// Distance returns the communication distance between two domains.
	Distance(d0, d1 Domain) int
	// Variable reports whether the architecture has no fixed size.
	Variable() bool
	// Size returns the number of processors in d, or 0 for variable
	// architectures.
	Size(d Domain) int
	// TerminalNum returns the number of the first processor of d. For a
	// terminal domain this is its processor number.
	TerminalNum(d Domain) int
}

// Domain names a set of processors of an architecture. Domains are
// comparable values; only the architecture that produced a domain can
// interpret it.
type Domain struct {
	Lo, Hi [2]int // Half-open processor extents; one-dimensional architectures use index 0
	Num    int    // Tree number: 1 for the root, 2k and 2k+1 for the halves of k
	Level  int    // Depth in the bipartition tree
}

// String formats d for logs.
func (d Domain) String() string {
	if d.Hi[1] > 0 {
		return fmt.Sprintf("#%d[%d:%d,%d:%d]", d.Num, d.Lo[0], d.Hi[0], d.Lo[1], d.Hi[1])
	}
	if d.Hi[0] > 0 {
		return fmt.Sprintf("#%d[%d:%d]", d.Num, d.Lo[0], d.Hi[0])
	}
	return fmt.Sprintf("#%d", d.Num)
}

func root1D(n int) Domain { return Domain{Hi: [2]int{n, 0}, Num: 1} }

func children(d Domain) (Domain, Domain) {
	d0 := Domain{Lo: d.Lo, Hi: d.Hi, Num: 2 * d.Num, Level: d.Level + 1}
	d1 := d0
	d1.Num++
	return d0, d1
}

// split1D cuts the processor range of d at position cut.
func split1D(d Domain, cut int) (Domain, Domain) {
	d0, d1 := children(d)
	d0.Hi[0] = cut
	d1.Lo[0] = cut
	return d0, d1
}

func span(d Domain) int { return d.Hi[0] - d.Lo[0] }

// Parse builds an architecture from a description of the form
// "name" or "name:params":
//
//	cmplt:N          complete graph of N processors
//	cmpltw:W1,W2,... weighted complete graph
//	hcub:D           hypercube of dimension D
//	mesh2d:XxY       X by Y mesh
//	torus2d:XxY      X by Y torus
//	vcmplt           variable-sized complete graph
//	vhcub            variable-sized hypercube
func Parse(s string) (Arch, error) {
	name, params, _ := strings.Cut(strings.TrimSpace(s), ":")
	switch name {
	case "cmplt":
		n, err := atoi(params)
		if err != nil {
			return nil, err
		}
		return NewComplete(n)
	case "cmpltw":
		var weights []int
		for _, f := range strings.Split(params, ",") {
			w, err := atoi(f)
			if err != nil {
				return nil, err
			}
			weights = append(weights, w)
		}
		return NewCompleteWeighted(weights)
	case "hcub":
		d, err := atoi(params)
		if err != nil {
			return nil, err
		}
		return NewHypercube(d)
	case "mesh2d", "torus2d":
		xs, ys, ok := strings.Cut(params, "x")
		if !ok {
			return nil, fmt.Errorf("%w: %q: want XxY", ErrInvalidArch, s)
		}
		x, err := atoi(xs)
		if err != nil {
			return nil, err
		}
		y, err := atoi(ys)
		if err != nil {
			return nil, err
		}
		if name == "mesh2d" {
			return NewMesh(x, y)
		}
		return NewTorus(x, y)
	case "vcmplt":
		return VariableComplete{}, nil
	case "vhcub":
		return VariableHypercube{}, nil
	}
	return nil, fmt.Errorf("%w: unknown architecture %q", ErrInvalidArch, name)
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidArch, s)
	}
	return n, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
