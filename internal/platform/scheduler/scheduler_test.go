// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package scheduler_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pixelpulse/internal/platform/scheduler"
)

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler_RunsJob(t *testing.T) {
	s := scheduler.New(slog.Default())
	job := &countingJob{}

	assert.NoError(t, s.Register(context.Background(), "@every 1s", job))
	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := scheduler.New(slog.Default())
	assert.Error(t, s.Register(context.Background(), "every hour please", &countingJob{}))
}
