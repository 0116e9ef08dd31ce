// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package jobs holds the maintenance jobs run by the scheduler.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// ResetCodePurger deletes unusable password-reset codes.
type ResetCodePurger interface {
	PurgeStaleResetCodes(ctx context.Context) (int64, error)
}

// ResetCodeCleanup removes used or long-expired reset codes.
type ResetCodeCleanup struct {
	purger ResetCodePurger
	logger *slog.Logger
}

func NewResetCodeCleanup(purger ResetCodePurger, logger *slog.Logger) *ResetCodeCleanup {
	return &ResetCodeCleanup{purger: purger, logger: logger}
}

func (job *ResetCodeCleanup) Name() string {
	return "reset_code_cleanup"
}

func (job *ResetCodeCleanup) Run(ctx context.Context) error {
	deleted, err := job.purger.PurgeStaleResetCodes(ctx)
	if err != nil {
		return fmt.Errorf("reset_code_cleanup_failed: %w", err)
	}

	if deleted > 0 {
		job.logger.InfoContext(ctx, "reset_codes_purged", slog.Int64("deleted", deleted))
	}
	return nil
}
