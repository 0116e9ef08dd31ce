// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/pixelpulse/internal/platform/constants"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// RedisRevocationStore implements [RevocationStore] using Redis.
//
// Keys:
//   - auth:revoked:<jti> = "1", TTL = remaining lifetime of the token.
//   - auth:revoked_before:<userID> = unix seconds, TTL = maximum session age.
type RedisRevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client redis.Cmdable) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, now: time.Now}
}

func revokedTokenKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

func revokedBeforeKey(userID string) string {
	return constants.RedisPrefixRevokedBefore + userID
}

/*
Revoke blacklists a single session.

A token that has already expired needs no entry and is skipped.
*/
func (repository *RedisRevocationStore) Revoke(context context.Context, claims *sec.AuthClaims) error {
	ttl := claims.RemainingLifetime(repository.now())
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedTokenKey(claims.TokenID()), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoke_token_failed: %w", err)
	}
	return nil
}

/*
RevokeAllBefore rejects every session of userID issued before at.

Token iat has one-second resolution, so the cutoff is stored in whole seconds
and compared with "<": a session issued in the same second as a password
cutoff remains valid. Change-password relies on this for the session it
reissues.
*/
func (repository *RedisRevocationStore) RevokeAllBefore(context context.Context, userID string, at time.Time, ttl time.Duration) error {
	value := strconv.FormatInt(at.Unix(), 10)
	if err := repository.client.Set(context, revokedBeforeKey(userID), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoke_before_failed: %w", err)
	}
	return nil
}

// IsRevoked checks both the per-token and the per-user entries in one round trip.
func (repository *RedisRevocationStore) IsRevoked(context context.Context, claims *sec.AuthClaims) (bool, error) {
	values, err := repository.client.MGet(context,
		revokedTokenKey(claims.TokenID()),
		revokedBeforeKey(claims.UserID),
	).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("redis_is_revoked_failed: %w", err)
	}

	if len(values) > 0 && values[0] != nil {
		return true, nil
	}

	if len(values) > 1 && values[1] != nil && claims.IssuedAt != nil {
		raw, _ := values[1].(string)
		cutoff, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return false, fmt.Errorf("redis_is_revoked_parse_failed: %w", err)
		}
		if claims.IssuedAt.Unix() < cutoff {
			return true, nil
		}
	}

	return false, nil
}

// RedisAttemptCounter implements [AttemptCounter] with INCR and a window TTL.
type RedisAttemptCounter struct {
	client redis.Cmdable
}

// NewAttemptCounter creates a new Redis-backed AttemptCounter.
func NewAttemptCounter(client redis.Cmdable) *RedisAttemptCounter {
	return &RedisAttemptCounter{client: client}
}

func resetAttemptsKey(key string) string {
	return constants.RedisPrefixResetAttempts + key
}

/*
Hit increments the counter of key. The first hit of a window sets its expiry;
if that fails the counter is dropped, so a key can never outlive its window.
*/
func (repository *RedisAttemptCounter) Hit(context context.Context, key string, window time.Duration) (int64, error) {
	redisKey := resetAttemptsKey(key)

	count, err := repository.client.Incr(context, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_attempt_incr_failed: %w", err)
	}

	if count == 1 {
		if err := repository.client.Expire(context, redisKey, window).Err(); err != nil {
			_ = repository.client.Del(context, redisKey).Err()
			return 0, fmt.Errorf("redis_attempt_expire_failed: %w", err)
		}
	}

	return count, nil
}

// Clear deletes the counter of key.
func (repository *RedisAttemptCounter) Clear(context context.Context, key string) error {
	if err := repository.client.Del(context, resetAttemptsKey(key)).Err(); err != nil {
		return fmt.Errorf("redis_attempt_clear_failed: %w", err)
	}
	return nil
}
