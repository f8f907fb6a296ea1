package mapper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/matzehuels/stackmap/pkg/arch"
	"github.com/matzehuels/stackmap/pkg/bipart"
	errs "github.com/matzehuels/stackmap/pkg/errors"
	"github.com/matzehuels/stackmap/pkg/exec"
	"github.com/matzehuels/stackmap/pkg/graph"
	"github.com/matzehuels/stackmap/pkg/mapping"
	"github.com/matzehuels/stackmap/pkg/observability"
)

// DefaultImbalance is the load imbalance tolerated when Options leaves it unset.
const DefaultImbalance = 0.05

// Options configures a mapping run.
type Options struct {
	// Strategy bipartitions every frame. Nil selects DefaultStrategy().
	Strategy bipart.Method

	// Imbalance is the tolerated relative deviation of a part's load from
	// its target. Zero selects DefaultImbalance; negative values are invalid.
	Imbalance float64
}

// DefaultStrategy returns the strategy used when Options.Strategy is nil:
// multilevel bipartitioning with a genetic algorithm on the coarsest graph
// and greedy refinement on every level.
func DefaultStrategy() bipart.Method {
	return bipart.Multilevel{Coarse: bipart.GA{}, Refine: bipart.Greedy{}}
}

// Stats describes a completed run.
type Stats struct {
	Domains      int           // Domain slots allocated
	Bipartitions int           // Bipartition method calls
	Fallbacks    int           // Degenerate bipartitions
	MaxDepth     int           // Deepest frame, the root being 0
	Duration     time.Duration // Wall time of the run
}

// Result is a completed mapping with its statistics.
type Result struct {
	Mapping *mapping.Mapping
	Stats   Stats
}

// run holds state shared by all frames of one Map call.
type run struct {
	ctx       context.Context
	arch      arch.Arch
	method    bipart.Method
	imbalance float64
	m         *mapping.Mapping

	bipartitions atomic.Int64
	fallbacks    atomic.Int64
	maxDepth     atomic.Int64
}

// frame is one recursion step: the vertices of parent whose part is part,
// or all of parent when parts is nil, routed to dom.
type frame struct {
	parent  *graph.Graph
	parts   []uint8
	part    uint8
	vertnbr int
	dom     arch.Domain
	depth   int
}

// Map maps g onto a. On error no mapping is returned; the error carries an
// [errs.Code] unless it comes from ctx.
func Map(ctx context.Context, ec *exec.Context, g *graph.Graph, a arch.Arch, opts Options) (*Result, error) {
	if err := g.Check(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "source graph")
	}
	if opts.Imbalance < 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "negative imbalance %g", opts.Imbalance)
	}
	if opts.Imbalance == 0 {
		opts.Imbalance = DefaultImbalance
	}
	if opts.Strategy == nil {
		opts.Strategy = DefaultStrategy()
	}

	start := time.Now()
	observability.Map().OnMapStart(ctx, a.Name(), g.VertNbr)
	logger := ec.Logger()
	logger.Debug("mapping started", "arch", a.Name(), "vertices", g.VertNbr, "threads", ec.Threads())

	r := &run{
		ctx:       ctx,
		arch:      a,
		method:    opts.Strategy,
		imbalance: opts.Imbalance,
		m:         mapping.New(g, a),
	}
	var err error
	if g.VertNbr > 0 {
		err = r.frame(ec, frame{parent: g, vertnbr: g.VertNbr, dom: a.Root()})
	}
	if err == nil {
		if cerr := r.m.Check(); cerr != nil {
			err = errs.Wrap(errs.ErrCodeInternal, cerr, "incomplete mapping")
		}
	}

	stats := Stats{
		Domains:      r.m.DomainCount(),
		Bipartitions: int(r.bipartitions.Load()),
		Fallbacks:    int(r.fallbacks.Load()),
		MaxDepth:     int(r.maxDepth.Load()),
		Duration:     time.Since(start),
	}
	observability.Map().OnMapComplete(ctx, a.Name(), stats.Domains, stats.Duration, err)
	if err != nil {
		return nil, err
	}
	logger.Debug("mapping complete", "domains", stats.Domains, "fallbacks", stats.Fallbacks,
		"depth", stats.MaxDepth, "duration", stats.Duration)
	return &Result{Mapping: r.m, Stats: stats}, nil
}

func (r *run) frame(ec *exec.Context, f frame) error {
	variable := r.arch.Variable()
	for {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		r.noteDepth(f.depth)

		if r.arch.Terminal(f.dom) || (variable && f.vertnbr <= 1) {
			r.assign(f)
			return nil
		}

		d0, d1, err := r.arch.Bipart(f.dom)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidArch, err, "split domain %s", f.dom)
		}

		g := f.parent
		if f.parts != nil && f.vertnbr < f.parent.VertNbr {
			if g, _, err = f.parent.InducePart(f.parts, f.part); err != nil {
				return errs.Wrap(errs.ErrCodeMapping, err, "induce subgraph of domain %s", f.dom)
			}
		}

		w0, w1 := r.arch.Weight(d0), r.arch.Weight(d1)
		win := bipart.Unbounded(g.VeloSum)
		if !variable {
			win = bipart.NewWindow(g.VeloSum, w0, w1, r.imbalance)
		}
		bg := bipart.New(g, win, r.arch.Distance(d0, d1), [2]int{w0, w1})

		start := time.Now()
		if err := r.method.Bipart(ec, bg); err != nil {
			code := errs.ErrCodeBipartition
			if errors.Is(err, bipart.ErrWorkspace) {
				code = errs.ErrCodeOutOfMemory
			}
			return errs.Wrap(code, err, "bipartition domain %s", f.dom)
		}
		r.bipartitions.Add(1)
		counts := bg.Counts()
		observability.Map().OnBipartition(r.ctx, f.depth, g.VertNbr, counts, time.Since(start))

		if counts[0] == 0 || counts[1] == 0 {
			r.fallbacks.Add(1)
			ec.Logger().Debug("degenerate bipartition", "domain", f.dom, "vertices", g.VertNbr)
			if variable {
				r.assign(frame{parent: g, vertnbr: g.VertNbr, dom: f.dom, depth: f.depth})
				return nil
			}
			dom := d0
			if counts[0] == 0 {
				dom = d1
			}
			f = frame{parent: g, vertnbr: g.VertNbr, dom: dom, depth: f.depth + 1}
			continue
		}

		parts := bg.Parts
		return ec.Fork(
			func(c0 *exec.Context) error {
				return r.frame(c0, frame{parent: g, parts: parts, part: 0, vertnbr: counts[0], dom: d0, depth: f.depth + 1})
			},
			func(c1 *exec.Context) error {
				return r.frame(c1, frame{parent: g, parts: parts, part: 1, vertnbr: counts[1], dom: d1, depth: f.depth + 1})
			},
		)
	}
}

// assign gives all vertices of f a new domain slot.
func (r *run) assign(f frame) {
	num := r.m.Allocate(f.dom)
	if f.parts == nil {
		r.m.AssignGraph(num, f.parent)
		return
	}
	vertices := make([]int, 0, f.vertnbr)
	for v, p := range f.parts {
		if p == f.part {
			vertices = append(vertices, f.parent.Origin(v))
		}
	}
	r.m.Assign(num, vertices)
}

func (r *run) noteDepth(depth int) {
	d := int64(depth)
	for {
		cur := r.maxDepth.Load()
		if d <= cur || r.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

// String formats s for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d domains, %d bipartitions, %d fallbacks, depth %d, %s",
		s.Domains, s.Bipartitions, s.Fallbacks, s.MaxDepth, s.Duration.Round(time.Millisecond))
}
