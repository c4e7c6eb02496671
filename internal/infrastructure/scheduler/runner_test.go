package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStartRunsImmediatelyAndOnTicks(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(Config{
		Name:     "count",
		Interval: 5 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Job: func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}

	if got := calls.Load(); got < 3 {
		t.Fatalf("expected at least 3 runs, got %d", got)
	}
}

func TestStartKeepsRunningAfterJobError(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRunner(Config{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Job: func(context.Context) error {
			if calls.Add(1) >= 2 {
				cancel()
			}
			return errors.New("boom")
		},
	})

	if err := r.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("job error must not stop the runner")
	}
}

func TestNewRunnerDefaultInterval(t *testing.T) {
	r := NewRunner(Config{Name: "default", Job: func(context.Context) error { return nil }})
	if r.interval != time.Minute {
		t.Fatalf("expected 1m default, got %s", r.interval)
	}
}
