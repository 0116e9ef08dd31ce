// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/mail"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/validate"
	"github.com/taibuivan/pixelpulse/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs session tokens. Satisfied by [*sec.TokenService].
type TokenIssuer interface {
	Issue(payload sec.SessionPayload) (string, error)
	TTL() time.Duration
}

// Session is a freshly issued session token and the user it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Options tunes a [Service].
type Options struct {
	// ExposeResetCode makes RequestPasswordReset return the generated code so
	// the handler can echo it. Never enable in production.
	ExposeResetCode bool
}

// Service implements the authentication use cases.
type Service struct {
	userRepository      UserRepository
	resetCodeRepository ResetCodeRepository
	revocationStore     RevocationStore
	resetAttempts       AttemptCounter
	tokens              TokenIssuer
	mailer              mail.Mailer
	logger              *slog.Logger
	options             Options
	now                 func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetCodeRepository,
	revocations RevocationStore,
	attempts AttemptCounter,
	tokens TokenIssuer,
	mailer mail.Mailer,
	logger *slog.Logger,
	options Options,
) *Service {
	return &Service{
		userRepository:      userRepo,
		resetCodeRepository: resetRepo,
		revocationStore:     revocations,
		resetAttempts:       attempts,
		tokens:              tokens,
		mailer:              mailer,
		logger:              logger,
		options:             options,
		now:                 time.Now,
	}
}

// dummyHash is compared against when a login names an unknown account, so
// both failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword("pixelpulse-timing-equalizer")
	return hash
})

// # Registration Flow

// SignupInput holds the data required to enroll a new member.
type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

/*
Signup validates, hashes and persists a new reader account, then opens a
session for it.

Returns:
  - *Session: token and created user
  - error: validation error, ErrEmailTaken, ErrUsernameTaken or storage failures
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = validate.NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Username(FieldUsername, input.Username).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Friendly early conflicts; the unique indexes still decide races.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth_signup_lookup_failed: %w", err)
	}
	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("auth_signup_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_signup_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleReader,
		CreatedAt:    service.now().UTC(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_signed_up", slog.String("user_id", user.ID))

	return service.openSession(user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // email or username
	Password string
}

/*
Login verifies credentials and opens a session.

Every failure, unknown account or wrong password, returns the same
[ErrInvalidCredentials] after the same amount of hashing work.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	login := strings.TrimSpace(input.Login)

	validator := &validate.Validator{}
	validator.Required(FieldLogin, login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var user *User
	var err error
	if strings.Contains(login, "@") {
		user, err = service.userRepository.FindByEmail(context, validate.NormalizeEmail(login))
	} else {
		user, err = service.userRepository.FindByUsername(context, login)
	}

	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("auth_login_lookup_failed: %w", err)
		}
		sec.CheckPasswordHash(input.Password, dummyHash())
		return nil, ErrInvalidCredentials
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		ctxutil.GetLogger(context).WarnContext(context, "login_failed_wrong_password", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	return service.openSession(user)
}

/*
Logout revokes the presented session. The remaining lifetime of the token
bounds how long the revocation is kept.
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if err := service.revocationStore.Revoke(context, claims); err != nil {
		return fmt.Errorf("auth_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

// SessionView is the public description of the current session.
type SessionView struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        sec.Role  `json:"role"`
	Permissions []string  `json:"permissions"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// DescribeSession builds the [SessionView] of verified claims. It reads no storage.
func DescribeSession(claims *sec.AuthClaims) SessionView {
	view := SessionView{
		UserID:      claims.UserID,
		Email:       claims.Email,
		Username:    claims.Username,
		Role:        claims.UserRole(),
		Permissions: claims.UserRole().Permissions().Names(),
	}
	if claims.IssuedAt != nil {
		view.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		view.ExpiresAt = claims.ExpiresAt.Time
	}
	return view
}

/*
ChangePassword verifies the current password, stores the new one and ends
every other session of the user. A fresh session is returned for the caller.
*/
func (service *Service) ChangePassword(context context.Context, claims *sec.AuthClaims, currentPassword, newPassword string) (*Session, error) {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, currentPassword).
		Password(FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, fmt.Errorf("auth_change_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return nil, ErrWrongPassword
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("auth_change_password_update_failed: %w", err)
	}

	if err := service.revocationStore.RevokeAllBefore(context, user.ID, service.now(), service.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("auth_change_password_revoke_failed: %w", err)
	}

	return service.openSession(user)
}

func (service *Service) openSession(user *User) (*Session, error) {
	token, err := service.tokens.Issue(user.SessionPayload())
	if err != nil {
		return nil, fmt.Errorf("auth_issue_token_failed: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: service.now().Add(service.tokens.TTL()),
		User:      user,
	}, nil
}

// isNotFound reports whether err is a NOT_FOUND application error.
func isNotFound(err error) bool {
	return apperr.IsCode(err, "NOT_FOUND")
}
