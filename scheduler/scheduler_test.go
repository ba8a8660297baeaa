package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) RunCycle(context.Context) {
	r.runs.Add(1)
}

func TestStartRejectsDoubleStart(t *testing.T) {
	s := New(context.Background(), &countingRunner{})
	defer s.Shutdown()

	if err := s.Start(60); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := s.Start(60); err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("scheduler should report running")
	}
}

func TestStopRejectsWhenNotRunning(t *testing.T) {
	s := New(context.Background(), &countingRunner{})
	defer s.Shutdown()

	if err := s.Stop(); err != ErrNotRunning {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	r := &countingRunner{}
	s := New(context.Background(), r)
	defer s.Shutdown()

	if err := s.Start(60); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The first run fires immediately, not at the first interval tick.
	deadline := time.Now().Add(2 * time.Second)
	for r.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if r.runs.Load() == 0 {
		t.Fatal("immediate first run did not fire")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if s.IsRunning() {
		t.Fatal("scheduler should report stopped")
	}

	// Restart is allowed after a stop.
	if err := s.Start(30); err != nil {
		t.Fatalf("restart: %v", err)
	}
}

func TestStartRejectsInvalidInterval(t *testing.T) {
	s := New(context.Background(), &countingRunner{})
	defer s.Shutdown()

	if err := s.Start(0); err == nil {
		t.Fatal("zero interval should be rejected")
	}
	if s.IsRunning() {
		t.Fatal("failed start must not mark scheduler running")
	}
}
