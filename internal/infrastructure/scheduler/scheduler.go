package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/usecase"
)

// Runner executes batch runs.
type Runner interface {
	RunDue(ctx context.Context) (*usecase.RunReport, error)
	RunRetry(ctx context.Context) (*usecase.RunReport, error)
}

// Config for Scheduler.
type Config struct {
	Runner   Runner
	Logger   zerolog.Logger
	Location *time.Location
	DueHour  int // local hour of the daily due run

	// RunTimeout bounds a single run.
	RunTimeout time.Duration
}

// Scheduler fires the due run once a day and the retry run at the top of
// every hour. Runs never overlap with themselves; the due and retry timers
// are independent.
type Scheduler struct {
	runner     Runner
	logger     zerolog.Logger
	location   *time.Location
	dueHour    int
	runTimeout time.Duration
	now        func() time.Time
}

// New creates a new Scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.RunTimeout == 0 {
		cfg.RunTimeout = 30 * time.Minute
	}

	return &Scheduler{
		runner:     cfg.Runner,
		logger:     cfg.Logger.With().Str("component", "scheduler").Logger(),
		location:   cfg.Location,
		dueHour:    cfg.DueHour,
		runTimeout: cfg.RunTimeout,
		now:        time.Now,
	}
}

// Start runs both timers until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().
		Int("due_hour", s.dueHour).
		Str("location", s.location.String()).
		Msg("scheduler started")

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.loop(ctx, usecase.RunDue, s.nextDue, s.runner.RunDue)
	}()

	go func() {
		defer wg.Done()
		s.loop(ctx, usecase.RunRetry, nextHour, s.runner.RunRetry)
	}()

	wg.Wait()
	s.logger.Info().Msg("scheduler shutting down")

	return ctx.Err()
}

func (s *Scheduler) loop(
	ctx context.Context,
	name string,
	next func(time.Time) time.Time,
	run func(context.Context) (*usecase.RunReport, error),
) {
	for {
		now := s.now().In(s.location)
		fireAt := next(now)

		s.logger.Debug().Str("run", name).Time("next", fireAt).Msg("run scheduled")

		timer := time.NewTimer(fireAt.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.fire(ctx, name, run)
	}
}

func (s *Scheduler) fire(ctx context.Context, name string, run func(context.Context) (*usecase.RunReport, error)) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if _, err := run(runCtx); err != nil {
		s.logger.Error().Err(err).Str("run", name).Msg("auto-transfer run failed")
	}
}

// nextDue returns the next dueHour:00 strictly after now.
func (s *Scheduler) nextDue(now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), s.dueHour, 0, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

// nextHour returns the next local top of the hour strictly after now.
func nextHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
}
