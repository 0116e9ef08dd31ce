// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/constants"
	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// ErrInvalidSession is the only authentication failure clients ever see.
var ErrInvalidSession = apperr.Unauthorized("Invalid or expired session")

// TokenVerifier verifies a session token. Satisfied by [*sec.TokenService].
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// RevocationChecker reports whether a verified session has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *sec.AuthClaims) (bool, error)
}

/*
Authenticate resolves the session of the request, if any.

Flow:
 1. Read the token from the session cookie, then from 'Authorization: Bearer'.
 2. No token: the request proceeds anonymously.
 3. Verify signature, claims and age via [TokenVerifier].
 4. Reject revoked sessions via [RevocationChecker].
 5. Inject [*sec.AuthClaims] into the context.

A presented but unusable token is rejected with 401 rather than downgraded to
anonymous, so a client never silently loses its identity. secureCookie is the
Secure flag of the cookie that clears a rejected session and must match the
one the session was set with.
*/
func Authenticate(verifier TokenVerifier, revocations RevocationChecker, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			// ── 1. Token Extraction ───────────────────────────────────────────
			token, source := SessionToken(request)

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "session_rejected",
					slog.String("source", source),
					slog.String("reason", rejectionReason(err)),
				)
				rejectSession(writer, request, source, secureCookie)
				return
			}

			// ── 4. Revocation ─────────────────────────────────────────────────
			revoked, err := revocations.IsRevoked(ctx, claims)
			if err != nil {
				// Fail closed: an unreachable revocation store must not
				// resurrect logged-out sessions.
				respond.Error(writer, request, apperr.ServiceUnavailable("Session store unavailable").WithCause(err))
				return
			}
			if revoked {
				logger.WarnContext(ctx, "session_rejected",
					slog.String("source", source),
					slog.String("reason", "revoked"),
					slog.String("user_id", claims.UserID),
				)
				rejectSession(writer, request, source, secureCookie)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx = ctxutil.WithAuthUser(ctx, claims)
			ctx = ctxutil.WithLogger(ctx, logger.With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// SessionToken returns the raw session token and where it came from
// ("cookie" or "header"). It returns "" when the request carries none.
func SessionToken(request *http.Request) (token, source string) {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, "cookie"
	}

	scheme, value, found := strings.Cut(request.Header.Get(constants.HeaderAuthorization), " ")
	if found && strings.EqualFold(scheme, "bearer") && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), "header"
	}

	return "", ""
}

// rejectSession answers 401. A rejected cookie is also cleared, otherwise the
// browser would keep sending it and could never reach the login endpoint.
func rejectSession(writer http.ResponseWriter, request *http.Request, source string, secureCookie bool) {
	if source == "cookie" {
		ClearSessionCookie(writer, secureCookie)
	}
	respond.Error(writer, request, ErrInvalidSession)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return "expired"
	case errors.Is(err, sec.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}

// RequireAuth blocks anonymous requests. Mount it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose role is below role. It implies [RequireAuth].
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !claims.UserRole().Valid() || !claims.UserRole().AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermission blocks requests that lack any of perms. It implies [RequireAuth].
func RequirePermission(perms ...sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.HasAllPermissions(claims, perms...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
