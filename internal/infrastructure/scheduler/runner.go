// Package scheduler runs a job on a fixed interval until its context ends.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Runner calls a Job on every tick.
type Runner struct {
	name     string
	job      Job
	interval time.Duration
	logger   zerolog.Logger
}

// Config for Runner.
type Config struct {
	Name     string
	Job      Job
	Interval time.Duration // Tick interval, default 1m
	Logger   zerolog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	return &Runner{
		name:     cfg.Name,
		job:      cfg.Job,
		interval: cfg.Interval,
		logger:   cfg.Logger.With().Str("job", cfg.Name).Logger(),
	}
}

// Start runs the job once and then on every tick. It blocks until ctx is
// cancelled and returns ctx.Err(). Job errors are logged, not returned.
func (r *Runner) Start(ctx context.Context) error {
	r.logger.Info().Dur("interval", r.interval).Msg("job runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.run(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("job runner shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

func (r *Runner) run(ctx context.Context) {
	if err := r.job(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Error().Err(err).Msg("job failed")
	}
}
