// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for the identity fields of
// user accounts. Profile editing lives in the account package.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username (case-insensitive).
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: ErrEmailTaken, ErrUsernameTaken or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Reset Code Data Access

// ResetCodeRepository stores password-reset codes.
//
// Consumption is atomic: of two concurrent callers presenting the same code,
// at most one observes success.
type ResetCodeRepository interface {

	/*
		Create persists a new unused code.
	*/
	Create(context context.Context, code *PasswordResetCode) error

	/*
		Consume marks the most recent unused code matching email and code as
		used, provided it has not expired at now.

		Returns:
		  - *PasswordResetCode: the consumed code
		  - error: ErrInvalidResetCode when nothing matched
	*/
	Consume(context context.Context, email, code string, now time.Time) (*PasswordResetCode, error)

	/*
		ConsumeAndSetPassword consumes the code exactly like Consume and, in the
		same transaction, overwrites the password hash of the account owning
		email. Nothing changes unless both succeed.

		Returns:
		  - string: the ID of the updated account
		  - error: ErrInvalidResetCode or storage failures
	*/
	ConsumeAndSetPassword(context context.Context, email, code, passwordHash string, now time.Time) (string, error)

	/*
		DeleteStale removes codes that were used, or expired, before cutoff.

		Returns:
		  - int64: rows deleted
	*/
	DeleteStale(context context.Context, cutoff time.Time) (int64, error)
}

// # Session Revocation

// RevocationStore records revoked sessions. Entries expire on their own once
// the sessions they revoke could no longer verify anyway.
type RevocationStore interface {

	/*
		Revoke blacklists a single session by its token ID.
	*/
	Revoke(context context.Context, claims *sec.AuthClaims) error

	/*
		RevokeAllBefore rejects every session of userID issued before at.
		ttl should be the maximum session age.
	*/
	RevokeAllBefore(context context.Context, userID string, at time.Time, ttl time.Duration) error

	/*
		IsRevoked reports whether the session was revoked by either mechanism.
	*/
	IsRevoked(context context.Context, claims *sec.AuthClaims) (bool, error)
}

// # Reset Attempts

// AttemptCounter budgets reset-code guesses per email across instances.
type AttemptCounter interface {

	/*
		Hit records one attempt for key and returns the number of attempts in
		the current window. The window starts with the first attempt.
	*/
	Hit(context context.Context, key string, window time.Duration) (int64, error)

	/*
		Clear forgets the attempts of key.
	*/
	Clear(context context.Context, key string) error
}
