// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
)

var (
	// ErrInvalidCredentials never says which half of the login was wrong.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid login credentials")

	// ErrInvalidResetCode covers unknown, used and expired codes alike.
	ErrInvalidResetCode = apperr.BadRequest("INVALID_RESET_CODE", MsgInvalidResetCode)

	// ErrTooManyResetAttempts is returned once an email has spent its
	// [MaxResetAttempts] for the current window.
	ErrTooManyResetAttempts = apperr.RateLimited(int(ResetCodeTTL / time.Second))

	// ErrWrongPassword is returned by change-password when the current
	// password does not match.
	ErrWrongPassword = apperr.BadRequest("WRONG_PASSWORD", "Current password is incorrect")

	ErrEmailTaken    = apperr.Conflict("Email is already registered")
	ErrUsernameTaken = apperr.Conflict("Username is already taken")
)
