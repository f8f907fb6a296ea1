package exec

import (
	"io"
	"math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Context holds the thread budget, random stream and logger of one branch
// of a run. A Context is not safe for concurrent use: goroutines started by
// [Context.Fork] and [Context.Parallel] each receive their own.
type Context struct {
	threads int
	rng     *rand.Rand
	logger  *log.Logger
}

// New creates a root context. threads <= 0 selects runtime.GOMAXPROCS(0).
// A nil logger discards all output.
func New(threads int, seed uint64, logger *log.Logger) *Context {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Context{
		threads: threads,
		rng:     newRand(seed),
		logger:  logger,
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Threads returns the number of threads this context may use.
func (c *Context) Threads() int { return c.threads }

// Rand returns the context's random generator.
func (c *Context) Rand() *rand.Rand { return c.rng }

// Logger returns the context's logger.
func (c *Context) Logger() *log.Logger { return c.logger }

// Derive returns a child context with the given thread budget and a fresh
// random stream seeded from c.
func (c *Context) Derive(threads int) *Context {
	return &Context{
		threads: max(threads, 1),
		rng:     newRand(c.rng.Uint64()),
		logger:  c.logger,
	}
}

// Fork runs f0 and f1 on two child contexts and waits for both.
//
// With two or more threads the children run concurrently, f0 with half of
// the budget and f1 with the rest. Otherwise f0 runs first and f1 second,
// on the calling goroutine. Both functions always run. The returned error
// is the first one reported.
func (c *Context) Fork(f0, f1 func(*Context) error) error {
	if c.threads < 2 {
		c0, c1 := c.Derive(1), c.Derive(1)
		err0 := f0(c0)
		err1 := f1(c1)
		if err0 != nil {
			return err0
		}
		return err1
	}

	t0 := c.threads / 2
	c0, c1 := c.Derive(t0), c.Derive(c.threads-t0)
	var g errgroup.Group
	g.Go(func() error { return f0(c0) })
	g.Go(func() error { return f1(c1) })
	return g.Wait()
}

// Parallel runs fn on Threads() goroutines, each with a single-threaded
// child context, and waits for all of them. tid ranges over [0, Threads()).
// The returned error is the first one reported.
func (c *Context) Parallel(fn func(tid int, c *Context) error) error {
	children := make([]*Context, c.threads)
	for i := range children {
		children[i] = c.Derive(1)
	}
	if len(children) == 1 {
		return fn(0, children[0])
	}

	var g errgroup.Group
	for tid, child := range children {
		g.Go(func() error { return fn(tid, child) })
	}
	return g.Wait()
}
