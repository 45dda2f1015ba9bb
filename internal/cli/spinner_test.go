package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
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

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Solving...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Solving...") {
		t.Errorf("spinner output %q does not contain its message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}
