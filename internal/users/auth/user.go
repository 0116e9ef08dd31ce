// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identity, sessions and password recovery.

# Architecture

  - Service: signup, login, logout, change-password and the reset-code flow.
  - Repositories: Postgres for accounts and reset codes, Redis for revocations.
  - Handler: JSON endpoints under /api/v1/auth and the session cookie.

Sessions are stateless HS256 tokens ([sec.TokenService]). Logging out or
resetting a password records a revocation in Redis that the authentication
middleware consults on every request.
*/
package auth

import (
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the PixelPulse platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionPayload returns the token payload for the user.
func (user *User) SessionPayload() sec.SessionPayload {
	return sec.SessionPayload{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}
}

// PasswordResetCode is a single-use, time-boxed numeric code.
//
// Once Used is true the code never validates again, whatever its expiry.
// Expired codes are never updated, only rejected and eventually deleted by
// the retention job.
type PasswordResetCode struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at now.
func (code *PasswordResetCode) Expired(now time.Time) bool {
	return now.After(code.ExpiresAt)
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldLogin           = "login"
	FieldCode            = "code"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
)
