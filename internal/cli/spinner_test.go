package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndStops(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Mapping")
	s.out = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Mapping") {
		t.Errorf("output %q does not contain the message", out.String())
	}
	// Stop cancels the spinner's own context.
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Waiting")
	s.out = &syncBuffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerHooks(t *testing.T) {
	s := newSpinner("Mapping 8 vertices")
	s.out = &syncBuffer{}
	h := s.hooks()

	ctx := context.Background()
	h.OnBipartition(ctx, 0, 8, [2]int{4, 4}, time.Millisecond)
	h.OnBipartition(ctx, 1, 4, [2]int{2, 2}, time.Millisecond)
	h.OnBipartition(ctx, 1, 4, [2]int{2, 2}, time.Millisecond)

	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()
	if want := "Mapping 8 vertices · 3 bipartitions, depth 1"; msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}
