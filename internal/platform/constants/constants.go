// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer/audience and session cookie configuration.
  - Redis key taxonomy.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "pixelpulse-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Uploads need more than a JSON body, hence the generous value.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 20 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP across the API.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the global limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often idle IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of every session token.
	AuthIssuer = "pixelpulse"

	// AuthAudience is the 'aud' claim of every session token.
	AuthAudience = "pixelpulse-web"

	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "token"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// DefaultSessionTTL is the session lifetime when JWT_TTL is unset.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// RecommendedSecretLength is the minimum signing secret length that does
	// not trigger a startup warning.
	RecommendedSecretLength = 32
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaUsers = "users"
	SchemaBlog  = "blog"
	SchemaSite  = "site"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixRevokedToken holds one key per revoked token id (jti).
	RedisPrefixRevokedToken = "auth:revoked:"

	// RedisPrefixRevokedBefore holds a unix timestamp per user; tokens issued
	// earlier than it are rejected.
	RedisPrefixRevokedBefore = "auth:revoked_before:"

	// RedisPrefixResetAttempts counts reset-code guesses per email.
	RedisPrefixResetAttempts = "auth:reset_attempts:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderRetryAfter    = "Retry-After"
)
