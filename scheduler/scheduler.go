package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

var (
	ErrAlreadyRunning = errors.New("bot sudah berjalan")
	ErrNotRunning     = errors.New("bot sedang tidak berjalan")
)

// Runner is the job driven by the schedule.
type Runner interface {
	RunCycle(ctx context.Context)
}

// Scheduler owns the single recurring cycle job. Starting schedules an
// immediate first run plus fixed-interval repeats; a delayed tick is executed
// late rather than skipped, and scheduled cycles never overlap.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
	runner  Runner
	ctx     context.Context
}

func New(ctx context.Context, runner Runner) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.DelayIfStillRunning(cron.DiscardLogger),
	))
	c.Start()

	return &Scheduler{
		cron:   c,
		runner: runner,
		ctx:    ctx,
	}
}

// Start begins the schedule at the given interval in minutes. Rejected when
// already running.
func (s *Scheduler) Start(minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if minutes <= 0 {
		return fmt.Errorf("invalid interval: %d minutes", minutes)
	}

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", minutes), func() {
		s.runner.RunCycle(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	s.entryID = id
	s.running = true

	// Immediate first run; subsequent runs come from the cron entry.
	go s.runner.RunCycle(s.ctx)

	return nil
}

// Stop removes the scheduled job. Rejected when not running.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}

	s.cron.Remove(s.entryID)
	s.running = false
	return nil
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Shutdown stops the underlying cron runner. Used on process exit.
func (s *Scheduler) Shutdown() {
	s.cron.Stop()
}
