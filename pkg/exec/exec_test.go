package exec

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	c := New(0, 1, nil)
	if c.Threads() < 1 {
		t.Errorf("Threads() = %d, want >= 1", c.Threads())
	}
	if c.Logger() == nil {
		t.Error("Logger() = nil")
	}
	if c.Rand() == nil {
		t.Error("Rand() = nil")
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(1, 42, nil), New(1, 42, nil)
	for i := 0; i < 10; i++ {
		if x, y := a.Rand().Uint64(), b.Rand().Uint64(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}
}

func TestForkRunsBoth(t *testing.T) {
	for _, threads := range []int{1, 2, 8} {
		c := New(threads, 7, nil)
		var ran [2]bool
		err := c.Fork(
			func(*Context) error { ran[0] = true; return nil },
			func(*Context) error { ran[1] = true; return nil },
		)
		if err != nil {
			t.Fatalf("threads=%d: Fork: %v", threads, err)
		}
		if !ran[0] || !ran[1] {
			t.Errorf("threads=%d: ran = %v, want both", threads, ran)
		}
	}
}

func TestForkSplitsThreads(t *testing.T) {
	tests := []struct {
		threads int
		want    [2]int
	}{
		{1, [2]int{1, 1}},
		{2, [2]int{1, 1}},
		{5, [2]int{2, 3}},
		{8, [2]int{4, 4}},
	}
	for _, tt := range tests {
		var got [2]int
		var mu sync.Mutex
		err := New(tt.threads, 1, nil).Fork(
			func(c *Context) error { mu.Lock(); got[0] = c.Threads(); mu.Unlock(); return nil },
			func(c *Context) error { mu.Lock(); got[1] = c.Threads(); mu.Unlock(); return nil },
		)
		if err != nil {
			t.Fatalf("Fork: %v", err)
		}
		if got != tt.want {
			t.Errorf("threads=%d: children = %v, want %v", tt.threads, got, tt.want)
		}
	}
}

func TestForkErrorStillRunsSibling(t *testing.T) {
	boom := errors.New("boom")
	for _, threads := range []int{1, 4} {
		var second atomic.Bool
		err := New(threads, 1, nil).Fork(
			func(*Context) error { return boom },
			func(*Context) error { second.Store(true); return nil },
		)
		if !errors.Is(err, boom) {
			t.Errorf("threads=%d: err = %v, want %v", threads, err, boom)
		}
		if !second.Load() {
			t.Errorf("threads=%d: second child did not run", threads)
		}
	}
}

// draws records the random values drawn by every frame of a fixed recursion.
func draws(c *Context, depth int, path string, out map[string]uint64, mu *sync.Mutex) error {
	mu.Lock()
	out[path] = c.Rand().Uint64()
	mu.Unlock()
	if depth == 0 {
		return nil
	}
	return c.Fork(
		func(c0 *Context) error { return draws(c0, depth-1, path+"0", out, mu) },
		func(c1 *Context) error { return draws(c1, depth-1, path+"1", out, mu) },
	)
}

func TestForkDeterministicAcrossThreadCounts(t *testing.T) {
	var mu sync.Mutex
	seq := map[string]uint64{}
	if err := draws(New(1, 99, nil), 4, "", seq, &mu); err != nil {
		t.Fatal(err)
	}
	par := map[string]uint64{}
	if err := draws(New(8, 99, nil), 4, "", par, &mu); err != nil {
		t.Fatal(err)
	}
	if len(seq) != 31 {
		t.Fatalf("len(seq) = %d, want 31", len(seq))
	}
	for k, v := range seq {
		if par[k] != v {
			t.Errorf("frame %q: parallel draw %d, sequential %d", k, par[k], v)
		}
	}
}

func TestParallel(t *testing.T) {
	c := New(4, 3, nil)
	seen := make([]int, 4)
	err := c.Parallel(func(tid int, child *Context) error {
		seen[tid]++
		if child.Threads() != 1 {
			t.Errorf("child threads = %d, want 1", child.Threads())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Parallel: %v", err)
	}
	if !slices.Equal(seen, []int{1, 1, 1, 1}) {
		t.Errorf("seen = %v, want each tid once", seen)
	}

	boom := errors.New("boom")
	err = c.Parallel(func(tid int, _ *Context) error {
		if tid == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestBarrierSingleLeaderPerPhase(t *testing.T) {
	const workers, phases = 6, 50
	b := NewBarrier(workers)

	var leaders [phases]atomic.Int32
	var arrived [phases]atomic.Int32
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := 0; p < phases; p++ {
				arrived[p].Add(1)
				if b.Wait() {
					leaders[p].Add(1)
				}
				// Nobody leaves phase p before everyone arrived.
				if n := arrived[p].Load(); n != workers {
					t.Errorf("phase %d: left with %d arrivals", p, n)
				}
			}
		}()
	}
	wg.Wait()

	for p := range leaders {
		if n := leaders[p].Load(); n != 1 {
			t.Errorf("phase %d: %d leaders, want 1", p, n)
		}
	}
}

func TestBarrierSingleParticipant(t *testing.T) {
	b := NewBarrier(1)
	for i := 0; i < 3; i++ {
		if !b.Wait() {
			t.Fatal("single participant must lead every phase")
		}
	}
}
