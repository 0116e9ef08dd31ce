// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// Job is a named unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler wraps a cron runner. Overlapping runs of the same job are
// skipped, and panics inside a job are recovered and logged.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates an idle Scheduler.
func New(logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		logger: logger,
	}
}

// Register schedules job on spec (standard 5-field cron or descriptors such
// as "@every 1h"). Each run gets its own timeout derived from ctx.
func (scheduler *Scheduler) Register(ctx context.Context, spec string, job Job) error {
	_, err := scheduler.cron.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		started := time.Now()
		if err := job.Run(runCtx); err != nil {
			scheduler.logger.ErrorContext(runCtx, "job_failed",
				slog.String("job", job.Name()),
				slog.Any("error", err),
			)
			return
		}

		scheduler.logger.InfoContext(runCtx, "job_finished",
			slog.String("job", job.Name()),
			slog.Int64("duration_ms", time.Since(started).Milliseconds()),
		)
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q for %s: %w", spec, job.Name(), err)
	}

	scheduler.logger.Info("job_registered", slog.String("job", job.Name()), slog.String("schedule", spec))
	return nil
}

// Start runs the scheduler in the background.
func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
}

// Stop stops scheduling new runs and waits for running jobs, up to ctx.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	select {
	case <-scheduler.cron.Stop().Done():
	case <-ctx.Done():
		scheduler.logger.Warn("scheduler_stop_timeout")
	}
}
