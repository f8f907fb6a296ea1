package bipart

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/matzehuels/stackmap/pkg/exec"
)

// ErrWorkspace is returned by [GA] when a thread's population buffers would
// exceed [GA.MaxWorkspace].
var ErrWorkspace = errors.New("genetic algorithm workspace exceeds limit")

const (
	DefaultGenerations = 50
	DefaultPopulation  = 40
)

// GA is a genetic-algorithm bipartitioner.
//
// The population is spread over the threads of the execution context. Each
// thread owns a deme of individuals stored in two generation buffers. Every
// generation, all individuals are evaluated, sorted by fitness, the best
// quarter replaces the worst quarter in the mating pool, and random pairs
// produce two offspring by single-point crossover, one of which gets a
// single bit flipped. The best individual seen in any generation replaces
// the graph's partition only if it is strictly better.
type GA struct {
	Generations  int // Number of generations; 0 means DefaultGenerations
	Population   int // Population size; 0 means DefaultPopulation
	MaxWorkspace int // Buffer bytes allowed per thread; 0 means unlimited
}

// scored is one entry of the fitness pool.
type scored struct {
	Fitness
	idx int // Individual in the current generation buffer
}

type gaRun struct {
	g      *Graph
	n      int
	deme   int
	total  int
	budget int

	bufs  [2][][]uint8 // Generation buffers, indexed by individual
	pool  []scored
	mates []int // Parents of each offspring slot, in pairs

	bar   *exec.Barrier
	lead  *rand.Rand // Used only by the barrier leader
	abort atomic.Bool

	best    []uint8 // Champion over all generations, written by the leader
	bestFit Fitness
	hasBest bool
}

// Bipart runs the genetic algorithm on g. Graphs with fewer than two
// vertices are left untouched.
func (m GA) Bipart(ec *exec.Context, g *Graph) error {
	n := g.Source.VertNbr
	if n < 2 {
		return nil
	}
	gens, pop := m.Generations, m.Population
	if gens <= 0 {
		gens = DefaultGenerations
	}
	if pop <= 0 {
		pop = DefaultPopulation
	}

	threads := ec.Threads()
	deme := (pop + 2*threads - 1) / (2 * threads) * 2
	total := deme * threads
	r := &gaRun{
		g:      g,
		n:      n,
		deme:   deme,
		total:  total,
		budget: m.MaxWorkspace,
		bufs:   [2][][]uint8{make([][]uint8, total), make([][]uint8, total)},
		pool:   make([]scored, total),
		mates:  make([]int, total),
		bar:    exec.NewBarrier(threads),
		lead:   ec.Rand(),
		best:   make([]uint8, n),
	}

	ec.Logger().Debug("genetic bipartition", "vertices", n, "threads", threads, "population", total, "generations", gens)
	return ec.Parallel(func(tid int, tc *exec.Context) error {
		return r.run(tid, tc.Rand(), gens)
	})
}

// run is the per-thread routine. Serial steps are done by the barrier
// leader between two barriers.
func (r *gaRun) run(tid int, rng *rand.Rand, gens int) error {
	lo, hi := tid*r.deme, (tid+1)*r.deme

	if r.budget > 0 && 2*r.deme*r.n > r.budget {
		r.abort.Store(true)
	} else {
		buf := make([]uint8, 2*r.deme*r.n)
		for i := lo; i < hi; i++ {
			off := 2 * (i - lo) * r.n
			r.bufs[0][i] = buf[off : off+r.n : off+r.n]
			r.bufs[1][i] = buf[off+r.n : off+2*r.n : off+2*r.n]
		}
	}
	r.bar.Wait()
	if r.abort.Load() {
		return fmt.Errorf("%w: %d bytes per thread", ErrWorkspace, 2*r.deme*r.n)
	}

	for i := lo; i < hi; i++ {
		ind := r.bufs[0][i]
		if i == 0 {
			copy(ind, r.g.Parts)
			continue
		}
		for v := range ind {
			ind[v] = uint8(rng.Uint32() & 1)
		}
	}

	c := 0
	for gen := 0; gen < gens; gen++ {
		r.evaluate(c, lo, hi)
		if r.bar.Wait() {
			r.sort()
			r.keepBest(c)
		}
		if r.bar.Wait() {
			r.selectMates()
		}
		r.bar.Wait()
		r.reproduce(c, lo, hi, rng)
		r.bar.Wait()
		c ^= 1
	}

	r.evaluate(c, lo, hi)
	if r.bar.Wait() {
		r.sort()
		r.keepBest(c)
		r.accept()
	}
	return nil
}

func (r *gaRun) evaluate(c, lo, hi int) {
	for i := lo; i < hi; i++ {
		r.pool[i] = scored{Fitness: r.g.evaluate(r.bufs[c][i]), idx: i}
	}
}

func (r *gaRun) sort() {
	slices.SortStableFunc(r.pool, func(a, b scored) int { return a.Compare(b.Fitness) })
}

// selectMates copies the best quarter of the pool over the worst quarter
// and pairs the pool at random. Each pair lists its lower pool index first.
func (r *gaRun) selectMates() {
	q := r.total / 4
	for i := 0; i < q; i++ {
		r.pool[r.total-1-i] = r.pool[i]
	}
	perm := r.lead.Perm(r.total)
	for k := 0; k < r.total; k += 2 {
		a, b := perm[k], perm[k+1]
		if a > b {
			a, b = b, a
		}
		r.mates[k] = r.pool[a].idx
		r.mates[k+1] = r.pool[b].idx
	}
}

// reproduce fills offspring slots [lo, hi) of the next buffer.
func (r *gaRun) reproduce(c, lo, hi int, rng *rand.Rand) {
	cur, next := r.bufs[c], r.bufs[c^1]
	for k := lo; k < hi; k += 2 {
		p0, p1 := cur[r.mates[k]], cur[r.mates[k+1]]
		c0, c1 := next[k], next[k+1]
		cut := 1 + rng.IntN(r.n-1)
		copy(c0[:cut], p0[:cut])
		copy(c0[cut:], p1[cut:])
		copy(c1[:cut], p1[:cut])
		copy(c1[cut:], p0[cut:])

		child := c0
		if rng.IntN(2) == 1 {
			child = c1
		}
		child[rng.IntN(r.n)] ^= 1
	}
}

// keepBest records the head of the sorted pool if it beats every
// individual seen so far.
func (r *gaRun) keepBest(c int) {
	head := r.pool[0]
	if r.hasBest && !head.Less(r.bestFit) {
		return
	}
	copy(r.best, r.bufs[c][head.idx])
	r.bestFit = head.Fitness
	r.hasBest = true
}

// accept installs the champion if it beats the graph's partition.
func (r *gaRun) accept() {
	if r.hasBest && r.bestFit.Less(r.g.evaluate(r.g.Parts)) {
		copy(r.g.Parts, r.best)
		r.g.Compute()
	}
}
