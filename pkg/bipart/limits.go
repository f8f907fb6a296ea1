package bipart

import "fmt"

// Limits bounds the resources a parsed strategy may ask for. Zero fields
// are not enforced.
type Limits struct {
	MaxGenerations int // Largest GA generation count
	MaxPopulation  int // Largest GA population
	MaxWorkspace   int // GA buffer bytes per thread, see [GA.MaxWorkspace]
}

// Limit checks every GA inside m against l and returns a copy of m whose
// GA methods carry l.MaxWorkspace. GA defaults count as explicit values.
func Limit(m Method, l Limits) (Method, error) {
	switch m := m.(type) {
	case GA:
		gens, pop := m.Generations, m.Population
		if gens <= 0 {
			gens = DefaultGenerations
		}
		if pop <= 0 {
			pop = DefaultPopulation
		}
		if l.MaxGenerations > 0 && gens > l.MaxGenerations {
			return nil, fmt.Errorf("%w: ga generations %d exceed limit %d", ErrInvalidStrategy, gens, l.MaxGenerations)
		}
		if l.MaxPopulation > 0 && pop > l.MaxPopulation {
			return nil, fmt.Errorf("%w: ga population %d exceeds limit %d", ErrInvalidStrategy, pop, l.MaxPopulation)
		}
		if l.MaxWorkspace > 0 && (m.MaxWorkspace <= 0 || m.MaxWorkspace > l.MaxWorkspace) {
			m.MaxWorkspace = l.MaxWorkspace
		}
		return m, nil
	case Multilevel:
		coarse := m.Coarse
		if coarse == nil {
			coarse = GA{}
		}
		var err error
		if m.Coarse, err = Limit(coarse, l); err != nil {
			return nil, err
		}
		if m.Refine != nil {
			if m.Refine, err = Limit(m.Refine, l); err != nil {
				return nil, err
			}
		}
		return m, nil
	case Sequence:
		out := make(Sequence, len(m))
		for i, sub := range m {
			lim, err := Limit(sub, l)
			if err != nil {
				return nil, err
			}
			out[i] = lim
		}
		return out, nil
	}
	return m, nil
}
