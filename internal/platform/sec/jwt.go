// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, session tokens and the
// role/permission policy.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, reset
// codes, authorization policy) from the domain logic. Nothing here performs
// I/O; stateful concerns such as token revocation live next to their stores.
package sec

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/taibuivan/pixelpulse/internal/platform/constants"
)

// # Errors

var (
	// ErrMissingSecret is returned by [NewTokenService] when no signing secret
	// is configured. The process must not start without one.
	ErrMissingSecret = errors.New("sec: JWT signing secret is not configured")

	// ErrTokenMalformed means the string is not a parseable JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenExpired means the token passed its expiry or the maximum session age.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrTokenInvalid covers bad signatures, algorithms, issuers and audiences.
	ErrTokenInvalid = errors.New("sec: token is invalid")
)

// # Claims

// SessionPayload is the identity a session token is issued for.
type SessionPayload struct {
	UserID   string
	Email    string
	Username string
	Role     Role
}

// AuthClaims represents the payload embedded inside a session token.
//
// Embedding identity and role lets [middleware.Authenticate] rebuild the
// caller without a database round trip. Claim names are abbreviated to keep
// the cookie small.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Email    string `json:"eml"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// UserRole returns the role claim as a [Role].
func (c *AuthClaims) UserRole() Role {
	if c == nil {
		return ""
	}
	return Role(c.Role)
}

// TokenID returns the unique token identifier (jti).
func (c *AuthClaims) TokenID() string {
	return c.ID
}

// RemainingLifetime returns how long the token stays valid after now.
func (c *AuthClaims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// # Token Service

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

/*
NewTokenService creates a TokenService.

Parameters:
  - secret: HMAC signing secret. Empty secrets are rejected with [ErrMissingSecret].
  - ttl: session lifetime, also used as the maximum session age.
  - logger: receives a warning when the secret is shorter than recommended.

Returns:
  - *TokenService
  - error: [ErrMissingSecret]
*/
func NewTokenService(secret string, ttl time.Duration, logger *slog.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	if len(secret) < constants.RecommendedSecretLength {
		logger.Warn("jwt_secret_too_short",
			slog.Int("length", len(secret)),
			slog.Int("recommended", constants.RecommendedSecretLength),
		)
	}

	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   constants.AuthIssuer,
		audience: constants.AuthAudience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// TTL returns the configured session lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Issue signs a new session token for payload.
func (service *TokenService) Issue(payload SessionPayload) (string, error) {
	currentTime := service.now()

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   payload.UserID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID:   payload.UserID,
		Email:    payload.Email,
		Username: payload.Username,
		Role:     string(payload.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

/*
Verify checks a session token and returns its claims.

Signature, algorithm (HS256 only), issuer, audience and expiry are checked by
the parser. The issued-at claim is then checked against the maximum session
age, so a token whose exp was pushed out still dies on schedule.

Returns:
  - *AuthClaims on success
  - error: [ErrTokenMalformed], [ErrTokenExpired] or [ErrTokenInvalid], each
    wrapping the parser's reason for logging
*/
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrTokenInvalid)
	}

	if service.now().Sub(claims.IssuedAt.Time) > service.ttl {
		return nil, fmt.Errorf("%w: session older than %s", ErrTokenExpired, service.ttl)
	}

	if claims.ID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing jti or uid", ErrTokenInvalid)
	}

	return claims, nil
}
