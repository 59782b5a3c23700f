package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct{ calls atomic.Int32 }

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestStartIntentSweeper_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &countingSweeper{}
	done := StartIntentSweeper(ctx, s, 5*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for s.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
	if s.calls.Load() < 2 {
		t.Errorf("sweep calls = %d, want >= 2", s.calls.Load())
	}
}

func TestStartIntentSweeper_DisabledInterval(t *testing.T) {
	done := StartIntentSweeper(context.Background(), &countingSweeper{}, 0, nil)
	select {
	case <-done:
	default:
		t.Fatal("disabled sweeper should report done immediately")
	}
}
