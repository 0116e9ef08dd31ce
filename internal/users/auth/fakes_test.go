// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/mail"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

// # In-memory Users

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*User{}}
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if user, ok := store.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) find(match func(*User) bool) (*User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	return store.find(func(user *User) bool { return strings.EqualFold(user.Email, email) })
}

func (store *memoryUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	return store.find(func(user *User) bool { return strings.EqualFold(user.Username, username) })
}

func (store *memoryUsers) Create(_ context.Context, user *User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	clone := *user
	store.users[user.ID] = &clone
	return nil
}

func (store *memoryUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (store *memoryUsers) hashOf(id string) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.users[id].PasswordHash
}

// # In-memory Reset Codes

// memoryCodes mirrors the conditional update of the Postgres store: the most
// recent unused match is picked, then its expiry is checked.
type memoryCodes struct {
	mu    sync.Mutex
	codes []*PasswordResetCode
	users *memoryUsers
	calls int
}

func (store *memoryCodes) Create(_ context.Context, code *PasswordResetCode) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	clone := *code
	store.codes = append(store.codes, &clone)
	return nil
}

func (store *memoryCodes) Consume(_ context.Context, email, code string, now time.Time) (*PasswordResetCode, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.calls++

	var latest *PasswordResetCode
	for _, candidate := range store.codes {
		if candidate.Used || candidate.Email != email || candidate.Code != code {
			continue
		}
		if latest == nil || candidate.CreatedAt.After(latest.CreatedAt) {
			latest = candidate
		}
	}

	if latest == nil || latest.Expired(now) {
		return nil, ErrInvalidResetCode
	}

	latest.Used = true
	usedAt := now
	latest.UsedAt = &usedAt
	clone := *latest
	return &clone, nil
}

func (store *memoryCodes) ConsumeAndSetPassword(ctx context.Context, email, code, passwordHash string, now time.Time) (string, error) {
	if _, err := store.Consume(ctx, email, code, now); err != nil {
		return "", err
	}
	user, err := store.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.ID, store.users.UpdatePassword(ctx, user.ID, passwordHash)
}

func (store *memoryCodes) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	kept := store.codes[:0]
	var deleted int64
	for _, code := range store.codes {
		stale := (code.Used && code.UsedAt != nil && code.UsedAt.Before(cutoff)) || code.ExpiresAt.Before(cutoff)
		if stale {
			deleted++
			continue
		}
		kept = append(kept, code)
	}
	store.codes = kept
	return deleted, nil
}

func (store *memoryCodes) all() []PasswordResetCode {
	store.mu.Lock()
	defer store.mu.Unlock()
	out := make([]PasswordResetCode, len(store.codes))
	for i, code := range store.codes {
		out[i] = *code
	}
	return out
}

func (store *memoryCodes) lookups() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.calls
}

// # Recording Revocations

type revokeAllCall struct {
	userID string
	at     time.Time
	ttl    time.Duration
}

type recordingRevocations struct {
	mu        sync.Mutex
	revoked   []string
	revokeAll []revokeAllCall
}

func (store *recordingRevocations) Revoke(_ context.Context, claims *sec.AuthClaims) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.revoked = append(store.revoked, claims.TokenID())
	return nil
}

func (store *recordingRevocations) RevokeAllBefore(_ context.Context, userID string, at time.Time, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.revokeAll = append(store.revokeAll, revokeAllCall{userID: userID, at: at, ttl: ttl})
	return nil
}

func (store *recordingRevocations) IsRevoked(context.Context, *sec.AuthClaims) (bool, error) {
	return false, nil
}

// # Capturing Mailer

type capturingMailer struct {
	sent chan mail.Message
}

func newCapturingMailer() *capturingMailer {
	return &capturingMailer{sent: make(chan mail.Message, 8)}
}

func (mailer *capturingMailer) Send(_ context.Context, message mail.Message) error {
	mailer.sent <- message
	return nil
}

// # In-memory Attempt Counter

type attemptWindow struct {
	count   int64
	expires time.Time
}

type memoryAttempts struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*attemptWindow
	err     error
}

func newMemoryAttempts(now func() time.Time) *memoryAttempts {
	return &memoryAttempts{now: now, windows: map[string]*attemptWindow{}}
}

func (store *memoryAttempts) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return 0, store.err
	}

	now := store.now()
	current, ok := store.windows[key]
	if !ok || !now.Before(current.expires) {
		current = &attemptWindow{expires: now.Add(window)}
		store.windows[key] = current
	}
	current.count++
	return current.count, nil
}

func (store *memoryAttempts) Clear(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.windows, key)
	return nil
}
