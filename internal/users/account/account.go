// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile self-service and administrative user management.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Self-service: /me endpoints for the authenticated member.
  - Administration: /admin/users endpoints, including role changes.
  - Security: role changes and deletions revoke the sessions of the affected
    user, so a demotion takes effect on the next request rather than at token
    expiry.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
	"github.com/taibuivan/pixelpulse/pkg/pagination"
)

// # Filters & Inputs

// ListFilter narrows the admin user listing.
type ListFilter struct {
	Role sec.Role // empty means every role
	pagination.Params
}

// UpdateProfileInput defines the fields a member may change on their own account.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	Name     *string
	Username *string
	Bio      *string
}

// AdminUpdateInput defines the fields an administrator may change on any account.
type AdminUpdateInput struct {
	Name  *string
	Email *string
	Bio   *string
	Role  *sec.Role
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List returns one page of accounts, newest first, and the total count
		matching filter.
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	/*
		Update writes the mutable fields (name, username, email, bio, role).

		Returns:
		  - error: auth.ErrEmailTaken, auth.ErrUsernameTaken, apperr.NotFound
		    or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account. Articles, comments and likes go with it.
	*/
	Delete(context context.Context, id string) error
}

// SessionRevoker ends every session of a user. Satisfied by auth.RevocationStore.
type SessionRevoker interface {
	RevokeAllBefore(context context.Context, userID string, at time.Time, ttl time.Duration) error
}

// # Field Identifiers

const (
	FieldBio  = "bio"
	FieldRole = "role"
)
