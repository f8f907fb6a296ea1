package exec

import "sync"

// Barrier blocks a fixed number of goroutines until all of them have called
// [Barrier.Wait], then releases them together. It can be reused for any
// number of phases.
type Barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	n     int
	count int
	phase uint64
}

// NewBarrier returns a barrier for n goroutines. n must be positive.
func NewBarrier(n int) *Barrier {
	if n < 1 {
		panic("exec: barrier needs at least one participant")
	}
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all participants of the current phase have arrived.
// It returns true for exactly one of them, the last to arrive.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	phase := b.phase
	b.count++
	if b.count == b.n {
		b.count = 0
		b.phase++
		b.cond.Broadcast()
		return true
	}
	for phase == b.phase {
		b.cond.Wait()
	}
	return false
}
