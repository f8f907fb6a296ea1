package bipart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/stackmap/pkg/exec"
)

// ErrInvalidStrategy is returned by [Parse] for malformed strategy strings.
var ErrInvalidStrategy = errors.New("invalid strategy")

// Method improves the bipartition of an active graph in place.
type Method interface {
	Bipart(ec *exec.Context, g *Graph) error
}

// Zero puts every vertex in part 0.
type Zero struct{}

func (Zero) Bipart(_ *exec.Context, g *Graph) error {
	clear(g.Parts)
	g.Compute()
	return nil
}

// Sequence runs its methods in order, stopping at the first error.
type Sequence []Method

func (s Sequence) Bipart(ec *exec.Context, g *Graph) error {
	for _, m := range s {
		if err := m.Bipart(ec, g); err != nil {
			return err
		}
	}
	return nil
}

// Parse builds a method from a strategy string:
//
//	zero                  every vertex in part 0
//	greedy[:passes]       frontier refinement
//	ga[:gens,pop]         genetic algorithm
//	ml{coarse,refine}     multilevel with the given methods
//	a+b                   run a, then b
//
// Parameters left out take their defaults, e.g. "ml{ga:50,32,greedy}".
func Parse(s string) (Method, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty strategy", ErrInvalidStrategy)
	}
	if parts := splitTop(s, '+'); len(parts) > 1 {
		seq := make(Sequence, 0, len(parts))
		for _, p := range parts {
			m, err := Parse(p)
			if err != nil {
				return nil, err
			}
			seq = append(seq, m)
		}
		return seq, nil
	}

	if inner, ok := strings.CutPrefix(s, "ml{"); ok {
		inner, ok = strings.CutSuffix(inner, "}")
		if !ok {
			return nil, fmt.Errorf("%w: unbalanced braces in %q", ErrInvalidStrategy, s)
		}
		args := splitTop(inner, ',')
		// Method parameters also use commas: re-join "ga:50" with "32".
		args = joinParams(args)
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w: ml takes one or two methods, got %q", ErrInvalidStrategy, inner)
		}
		ml := Multilevel{}
		var err error
		if ml.Coarse, err = Parse(args[0]); err != nil {
			return nil, err
		}
		if len(args) == 2 {
			if ml.Refine, err = Parse(args[1]); err != nil {
				return nil, err
			}
		}
		return ml, nil
	}

	name, params, _ := strings.Cut(s, ":")
	nums, err := parseInts(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidStrategy, s, err)
	}
	switch name {
	case "zero":
		if len(nums) > 0 {
			return nil, fmt.Errorf("%w: zero takes no parameters", ErrInvalidStrategy)
		}
		return Zero{}, nil
	case "greedy":
		if len(nums) > 1 {
			return nil, fmt.Errorf("%w: greedy takes at most one parameter", ErrInvalidStrategy)
		}
		gr := Greedy{}
		if len(nums) == 1 {
			gr.Passes = nums[0]
		}
		return gr, nil
	case "ga":
		if len(nums) > 2 {
			return nil, fmt.Errorf("%w: ga takes at most two parameters", ErrInvalidStrategy)
		}
		ga := GA{}
		if len(nums) > 0 {
			ga.Generations = nums[0]
		}
		if len(nums) > 1 {
			ga.Population = nums[1]
		}
		return ga, nil
	}
	return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidStrategy, name)
}

// splitTop splits s at sep outside braces.
func splitTop(s string, sep byte) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// joinParams glues purely numeric fields back onto the preceding method.
func joinParams(fields []string) []string {
	var out []string
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err == nil && len(out) > 0 {
			out[len(out)-1] += "," + f
			continue
		}
		out = append(out, f)
	}
	return out
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative parameter %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
