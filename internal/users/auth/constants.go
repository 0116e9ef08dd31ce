// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Password Recovery

const (
	// ResetCodeTTL is how long a reset code stays valid after creation.
	ResetCodeTTL = 10 * time.Minute

	// ResetCodeRetention is how long used or expired codes are kept before
	// the cleanup job deletes them.
	ResetCodeRetention = 24 * time.Hour

	// MaxResetAttempts is how many verify or reset calls one email may make
	// within [ResetCodeTTL]. A guesser gets this many tries at a million codes.
	MaxResetAttempts = 5
)

// # Client Messages

const (
	// MsgResetRequested is returned for every forgot-password request, whether
	// or not the account exists.
	MsgResetRequested = "If an account exists for that email, a reset code has been sent."

	MsgResetCodeValid   = "Reset code verified."
	MsgPasswordReset    = "Password has been reset. Please log in again."
	MsgInvalidResetCode = "Invalid or expired code"
)

// # Input Limits

const (
	MaxNameLength = 100
	MaxBioLength  = 500
)
