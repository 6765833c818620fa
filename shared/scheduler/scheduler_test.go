package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"trendforge/shared/config"
)

// blockingAgent holds its run open until released so tests can observe
// what happens when a second run request arrives mid-run.
type blockingAgent struct {
	started chan struct{}
	release chan struct{}
	runs    int32
}

func (a *blockingAgent) Name() string      { return "Blocking Agent" }
func (a *blockingAgent) Initialize() error { return nil }

func (a *blockingAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	atomic.AddInt32(&a.runs, 1)
	close(a.started)
	<-a.release
	return nil
}

func TestRunOnceSkipsOverlappingRun(t *testing.T) {
	agent := &blockingAgent{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(&config.Config{}, agent)

	done := make(chan error, 1)
	go func() { done <- s.RunOnce(context.Background()) }()
	<-agent.started

	// A manual trigger landing mid-run is skipped, not queued or run twice.
	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("overlapping run should be skipped without error, got: %v", err)
	}
	if got := atomic.LoadInt32(&agent.runs); got != 1 {
		t.Errorf("agent ran %d times during overlap, expected 1", got)
	}

	close(agent.release)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}
}
