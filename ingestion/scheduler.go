package ingestion

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the pause between pipeline cycles.
const DefaultInterval = 5000 * time.Millisecond

// Clock suspends the scheduler between cycles.
type Clock interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on wall time.
type RealClock struct{}

var _ Clock = RealClock{}

// Sleep waits for d or until ctx is done.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// cycleRunner is the part of Pipeline the scheduler drives.
type cycleRunner interface {
	RunCycle(ctx context.Context) (CycleStats, error)
}

// Scheduler runs pipeline cycles forever with a fixed pause between them.
type Scheduler struct {
	pipeline cycleRunner
	interval time.Duration
	clock    Clock
	logger   *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler) error

// WithInterval sets the pause between cycles.
// Default is DefaultInterval.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) error {
		if d <= 0 {
			return ErrInvalidInterval
		}
		s.interval = d
		return nil
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) error {
		if c != nil {
			s.clock = c
		}
		return nil
	}
}

// WithSchedulerLogger sets a custom logger.
// Default is slog.Default().
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// NewScheduler creates a scheduler for p.
func NewScheduler(p *Pipeline, opts ...SchedulerOption) (*Scheduler, error) {
	if p == nil {
		return nil, ErrPipelineRequired
	}
	return newScheduler(p, opts...)
}

func newScheduler(p cycleRunner, opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		pipeline: p,
		interval: DefaultInterval,
		clock:    RealClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run executes cycles until ctx is canceled or a cycle fails. Cancellation
// returns nil, even when it interrupted a store call; any other cycle
// failure is returned as is.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)
	for cycle := 1; ; cycle++ {
		stats, err := s.pipeline.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("scheduler stopped", "cycles", cycle-1)
				return nil
			}
			s.logger.Error("cycle failed", "cycle", cycle, "err", err)
			return err
		}

		if stats.Idle() {
			s.logger.Debug("cycle idle", "cycle", cycle)
		} else {
			s.logger.Info("cycle complete",
				"cycle", cycle,
				"documents_chunked", stats.DocumentsChunked,
				"documents_failed", stats.DocumentsFailed,
				"chunks_created", stats.ChunksCreated,
				"chunks_embedded", stats.ChunksEmbedded,
				"chunks_skipped", stats.ChunksSkipped,
				"duration", stats.Duration)
		}

		if err := s.clock.Sleep(ctx, s.interval); err != nil {
			s.logger.Info("scheduler stopped", "cycles", cycle)
			return nil
		}
	}
}
