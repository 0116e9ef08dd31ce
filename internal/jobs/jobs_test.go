// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/pixelpulse/internal/jobs"
)

type stubPurger struct {
	deleted int64
	err     error
	calls   int
}

func (purger *stubPurger) PurgeStaleResetCodes(context.Context) (int64, error) {
	purger.calls++
	return purger.deleted, purger.err
}

func TestResetCodeCleanup(t *testing.T) {
	var logs bytes.Buffer
	purger := &stubPurger{deleted: 3}
	job := jobs.NewResetCodeCleanup(purger, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Equal(t, "reset_code_cleanup", job.Name())
	assert.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, purger.calls)
	assert.Contains(t, logs.String(), "deleted=3")
}

func TestResetCodeCleanup_Error(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	job := jobs.NewResetCodeCleanup(purger, slog.Default())

	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "db down")
}
