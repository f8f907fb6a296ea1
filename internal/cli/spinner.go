package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/stackmap/pkg/observability"
)

// Spinner shows progress on stderr while a long operation runs. The
// message can be updated from any goroutine.
type Spinner struct {
	out     io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
	width   int // Longest line written, for clearing
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, len(s.message)+4)
	fmt.Fprintf(s.out, "\r%s", line)
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Cancelled reports whether the spinner has stopped, by Stop or by
// cancellation of the context it was created with.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// hooks returns mapping hooks that report bipartition progress through the
// spinner's message.
func (s *Spinner) hooks() observability.MapHooks {
	return &spinnerHooks{spin: s, base: s.message}
}

type spinnerHooks struct {
	observability.NoopMapHooks
	spin     *Spinner
	base     string
	count    atomic.Int64
	maxDepth atomic.Int64
}

func (h *spinnerHooks) OnBipartition(_ context.Context, depth, _ int, _ [2]int, _ time.Duration) {
	n := h.count.Add(1)
	for {
		d := h.maxDepth.Load()
		if int64(depth) <= d || h.maxDepth.CompareAndSwap(d, int64(depth)) {
			break
		}
	}
	h.spin.SetMessage(fmt.Sprintf("%s · %d bipartitions, depth %d", h.base, n, h.maxDepth.Load()))
}
