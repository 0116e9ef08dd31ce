// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

var (
	// ErrSelfDemotion blocks an administrator from removing their own admin role.
	ErrSelfDemotion = apperr.Forbidden("You cannot remove your own admin role")

	// ErrSelfDeletion blocks an administrator from deleting their own account
	// through the admin endpoint.
	ErrSelfDeletion = apperr.Forbidden("You cannot delete your own account from the admin panel")

	// ErrRoleChangeForbidden is returned when the actor lacks change_role.
	ErrRoleChangeForbidden = apperr.Forbidden("Changing roles requires the change_role permission")
)

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	accountRepository AccountRepository
	sessions          SessionRevoker
	sessionTTL        time.Duration
	logger            *slog.Logger
	now               func() time.Time
}

// NewService constructs a new [Service]. sessionTTL bounds how long session
// revocations are kept.
func NewService(accountRepo AccountRepository, sessions SessionRevoker, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessions:          sessions,
		sessionTTL:        sessionTTL,
		logger:            logger,
		now:               time.Now,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	if !uuid.Valid(userID) {
		return nil, apperr.NotFound("User")
	}
	return service.accountRepository.FindByID(context, userID)
}

/*
UpdateProfile applies a partial set of changes to the caller's account.

Email and role are not editable here: email is the password-recovery
identity and role belongs to administrators.
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		validator.Required(auth.FieldName, user.Name).MaxLen(auth.FieldName, user.Name, auth.MaxNameLength)
	}
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
		validator.Username(auth.FieldUsername, user.Username)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
		validator.MaxLen(FieldBio, user.Bio, auth.MaxBioLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
DeleteAccount removes the caller's account and ends all of its sessions.
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	service.revokeSessions(context, userID)

	ctxutil.GetLogger(context).WarnContext(context, "user_account_deleted", slog.String("user_id", userID))
	return nil
}

// # Administration

/*
ListUsers returns a page of accounts for the admin panel.
*/
func (service *Service) ListUsers(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, validate.RequiredError(FieldRole, "Must be one of admin, publisher, reader")
	}

	users, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_list_users_failed: %w", err)
	}
	return users, total, nil
}

/*
UpdateUser applies an administrative change to any account.

Rules:
  - A role change requires change_role.
  - An administrator may not change their own role to anything but admin.
  - A role change revokes the target's sessions so the new role applies at
    once; their next login carries it.
*/
func (service *Service) UpdateUser(context context.Context, actor *sec.AuthClaims, userID string, input AdminUpdateInput) (*auth.User, error) {
	user, err := service.GetProfile(context, userID)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.Valid() {
			return nil, validate.RequiredError(FieldRole, "Must be one of admin, publisher, reader")
		}
		if !sec.HasPermission(actor, sec.PermChangeRole) {
			return nil, ErrRoleChangeForbidden
		}
		if actor.UserID == user.ID && *input.Role != sec.RoleAdmin {
			return nil, ErrSelfDemotion
		}
		user.Role = *input.Role
		roleChanged = true
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		validator.Required(auth.FieldName, user.Name).MaxLen(auth.FieldName, user.Name, auth.MaxNameLength)
	}
	if input.Email != nil {
		user.Email = validate.NormalizeEmail(*input.Email)
		validator.Email(auth.FieldEmail, user.Email)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
		validator.MaxLen(FieldBio, user.Bio, auth.MaxBioLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)
	if roleChanged {
		service.revokeSessions(context, user.ID)
		logger.WarnContext(context, "user_role_changed",
			slog.String("target_id", user.ID),
			slog.String("role", user.Role.String()),
		)
	}
	logger.InfoContext(context, "admin_user_updated", slog.String("target_id", user.ID))

	return user, nil
}

/*
DeleteUser removes another account. Administrators delete their own account
through DeleteAccount.
*/
func (service *Service) DeleteUser(context context.Context, actor *sec.AuthClaims, userID string) error {
	if actor.UserID == userID {
		return ErrSelfDeletion
	}
	if !uuid.Valid(userID) {
		return apperr.NotFound("User")
	}

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	service.revokeSessions(context, userID)

	ctxutil.GetLogger(context).WarnContext(context, "admin_user_deleted", slog.String("target_id", userID))
	return nil
}

// revokeSessions is best-effort: the account change has already happened.
func (service *Service) revokeSessions(context context.Context, userID string) {
	if err := service.sessions.RevokeAllBefore(context, userID, service.now(), service.sessionTTL); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "session_revocation_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}
