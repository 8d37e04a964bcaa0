package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/hydronet/pkg/pipeline"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
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
	s := newSpinner(context.Background(), &out, "Loading records...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Loading records...") {
		t.Errorf("output %q lacks message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerStage(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Starting...")
	s.Stage(pipeline.StageBuild)
	if got := s.Message(); got != "Assembling network..." {
		t.Errorf("Message() = %q", got)
	}
	s.Stage("unknown")
	if got := s.Message(); got != "Assembling network..." {
		t.Errorf("unknown stage changed message to %q", got)
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, io.Discard, "Loading records...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report parent cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Loading records...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner(context.Background(), io.Discard, "Loading records...")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without Start")
	}
}
