// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/mail"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

// # Password Recovery
//
// NoCode ── Request ──▶ CodeIssued ── Verify or Reset ──▶ Consumed
//
// Expiry is not a transition: an expired code stays unused and is simply
// rejected. Verify and Reset both consume, so one issued code serves exactly
// one of them.

/*
RequestPasswordReset issues a reset code for email if an account exists.

The caller receives the same outcome either way. Delivery is asynchronous and
its failure is only logged; the code stays usable.

Returns:
  - string: the generated code when [Options.ExposeResetCode] is set and an
    account exists, otherwise ""
  - error: validation error for a malformed email, or storage failures
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	email = validate.NormalizeEmail(email)

	validator := &validate.Validator{}
	validator.Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return "", err
	}

	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if isNotFound(err) {
			logger.InfoContext(context, "password_reset_unknown_email")
			return "", nil
		}
		return "", fmt.Errorf("auth_reset_lookup_failed: %w", err)
	}

	code, err := sec.GenerateResetCode()
	if err != nil {
		return "", fmt.Errorf("auth_reset_generate_failed: %w", err)
	}

	now := service.now().UTC()
	resetCode := &PasswordResetCode{
		ID:        uuid.New(),
		Email:     user.Email,
		Code:      code,
		ExpiresAt: now.Add(ResetCodeTTL),
		CreatedAt: now,
	}

	if err := service.resetCodeRepository.Create(context, resetCode); err != nil {
		return "", fmt.Errorf("auth_reset_store_failed: %w", err)
	}

	mail.SendAsync(context, service.mailer, resetCodeMessage(user, code), service.logger)

	logger.InfoContext(context, "password_reset_code_issued", slog.String("user_id", user.ID))

	if service.options.ExposeResetCode {
		return code, nil
	}
	return "", nil
}

/*
VerifyResetCode checks a code and consumes it on success.

A verified code cannot be reused by ResetPassword.
*/
func (service *Service) VerifyResetCode(context context.Context, email, code string) error {
	email = validate.NormalizeEmail(email)

	validator := &validate.Validator{}
	validator.Email(FieldEmail, email).ResetCode(FieldCode, code)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.spendResetAttempt(context, email); err != nil {
		return err
	}

	if _, err := service.resetCodeRepository.Consume(context, email, code, service.now().UTC()); err != nil {
		return err
	}

	service.clearResetAttempts(context, email)
	ctxutil.GetLogger(context).InfoContext(context, "password_reset_code_verified")
	return nil
}

/*
ResetPassword sets a new password using an unused, unexpired code.

The password policy is checked before the code is looked at, so a weak
password never burns a code or an attempt. On success every session of the account issued
before now is revoked.
*/
func (service *Service) ResetPassword(context context.Context, email, code, newPassword string) error {
	validator := &validate.Validator{}
	validator.Password(FieldPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	email = validate.NormalizeEmail(email)
	validator.Email(FieldEmail, email).ResetCode(FieldCode, code)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.spendResetAttempt(context, email); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_reset_hash_failed: %w", err)
	}

	now := service.now().UTC()
	userID, err := service.resetCodeRepository.ConsumeAndSetPassword(context, email, code, hashedPassword, now)
	if err != nil {
		return err
	}

	// The password is already changed; a revocation failure must not turn
	// the response into an error the user would retry with a dead code.
	if err := service.revocationStore.RevokeAllBefore(context, userID, now, service.tokens.TTL()); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "password_reset_revoke_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	service.clearResetAttempts(context, email)
	ctxutil.GetLogger(context).InfoContext(context, "password_reset_completed", slog.String("user_id", userID))
	return nil
}

/*
spendResetAttempt charges one guess to email. Past [MaxResetAttempts] within
[ResetCodeTTL] every code is refused, the right one included. An unreachable
counter refuses too.
*/
func (service *Service) spendResetAttempt(context context.Context, email string) error {
	count, err := service.resetAttempts.Hit(context, email, ResetCodeTTL)
	if err != nil {
		return fmt.Errorf("auth_reset_attempts_failed: %w", err)
	}

	if count > MaxResetAttempts {
		ctxutil.GetLogger(context).WarnContext(context, "password_reset_attempts_exceeded",
			slog.Int64("attempts", count),
		)
		return ErrTooManyResetAttempts
	}
	return nil
}

func (service *Service) clearResetAttempts(context context.Context, email string) {
	if err := service.resetAttempts.Clear(context, email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "password_reset_attempts_clear_failed", slog.Any("error", err))
	}
}

/*
PurgeStaleResetCodes deletes codes that have been used or expired for longer
than [ResetCodeRetention]. Unused, unexpired codes are never touched.
*/
func (service *Service) PurgeStaleResetCodes(context context.Context) (int64, error) {
	return service.resetCodeRepository.DeleteStale(context, service.now().UTC().Add(-ResetCodeRetention))
}

func resetCodeMessage(user *User, code string) mail.Message {
	return mail.Message{
		To:      []string{user.Email},
		Subject: "Your PixelPulse password reset code",
		Text: fmt.Sprintf(
			"Hi %s,\n\n"+
				"Your password reset code is: %s\n\n"+
				"It expires in %d minutes and can be used once. "+
				"If you did not ask to reset your password you can ignore this email.\n\n"+
				"PixelPulse",
			user.Name, code, int(ResetCodeTTL.Minutes()),
		),
	}
}
