// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/apperr"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

const (
	testSecret   = "auth-test-secret-at-least-32-bytes!!"
	testPassword = "correct horse"
)

type testEnv struct {
	service     *Service
	users       *memoryUsers
	codes       *memoryCodes
	revocations *recordingRevocations
	attempts    *memoryAttempts
	mailer      *capturingMailer
	tokens      *sec.TokenService
	clock       time.Time
	user        *User
}

func newTestEnv(t *testing.T, options Options) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens, err := sec.NewTokenService(testSecret, time.Hour, logger)
	require.NoError(t, err)

	users := newMemoryUsers()
	env := &testEnv{
		users:       users,
		codes:       &memoryCodes{users: users},
		revocations: &recordingRevocations{},
		mailer:      newCapturingMailer(),
		tokens:      tokens,
		clock:       time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}

	env.attempts = newMemoryAttempts(func() time.Time { return env.clock })
	env.service = NewService(users, env.codes, env.revocations, env.attempts, tokens, env.mailer, logger, options)
	env.service.now = func() time.Time { return env.clock }

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)
	env.user = &User{
		ID:           "0192f5a4-0000-7000-8000-000000000001",
		Name:         "Ann",
		Username:     "ann",
		Email:        "ann@example.com",
		PasswordHash: hash,
		Role:         sec.RolePublisher,
	}
	require.NoError(t, users.Create(context.Background(), env.user))

	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.clock = env.clock.Add(d)
}

func requireAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperr.As(err).Code, "error: %v", err)
}

// # Password Recovery

/*
TestRequestPasswordReset_PersistsCode checks the stored code, its expiry and
the delivered email.
*/
func TestRequestPasswordReset_PersistsCode(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})

	code, err := env.service.RequestPasswordReset(context.Background(), "  Ann@Example.com ")
	require.NoError(t, err)
	assert.True(t, sec.IsResetCode(code))

	stored := env.codes.all()
	require.Len(t, stored, 1)
	assert.Equal(t, "ann@example.com", stored[0].Email)
	assert.Equal(t, code, stored[0].Code)
	assert.False(t, stored[0].Used)
	assert.Equal(t, env.clock.Add(10*time.Minute), stored[0].ExpiresAt)

	select {
	case message := <-env.mailer.sent:
		assert.Equal(t, []string{"ann@example.com"}, message.To)
		assert.Contains(t, message.Text, code)
	case <-time.After(time.Second):
		t.Fatal("reset email was not sent")
	}
}

/*
TestRequestPasswordReset_UnknownEmail verifies nothing is stored or sent, and
the caller sees the same success.
*/
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})

	code, err := env.service.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Empty(t, env.codes.all())

	select {
	case message := <-env.mailer.sent:
		t.Fatalf("unexpected email to %v", message.To)
	case <-time.After(50 * time.Millisecond):
	}
}

/*
TestRequestPasswordReset_HiddenCode verifies the code is not returned when
exposure is off, although it is still stored.
*/
func TestRequestPasswordReset_HiddenCode(t *testing.T) {
	env := newTestEnv(t, Options{})

	code, err := env.service.RequestPasswordReset(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Len(t, env.codes.all(), 1)
}

func TestRequestPasswordReset_MalformedEmail(t *testing.T) {
	env := newTestEnv(t, Options{})

	_, err := env.service.RequestPasswordReset(context.Background(), "not-an-email")
	requireAppCode(t, err, "VALIDATION_ERROR")
}

/*
TestResetPassword_Success changes the hash, consumes the code and revokes
every earlier session.
*/
func TestResetPassword_Success(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	env.advance(3 * time.Minute)
	require.NoError(t, env.service.ResetPassword(ctx, "ann@example.com", code, "brand new secret"))

	assert.True(t, sec.CheckPasswordHash("brand new secret", env.users.hashOf(env.user.ID)))
	assert.True(t, env.codes.all()[0].Used)

	require.Len(t, env.revocations.revokeAll, 1)
	call := env.revocations.revokeAll[0]
	assert.Equal(t, env.user.ID, call.userID)
	assert.Equal(t, env.clock, call.at)
	assert.Equal(t, time.Hour, call.ttl)
}

/*
TestResetPassword_UsedCode verifies a consumed code is rejected and the
password it would have set is never applied.
*/
func TestResetPassword_UsedCode(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NoError(t, env.service.ResetPassword(ctx, "ann@example.com", code, "first new secret"))

	err = env.service.ResetPassword(ctx, "ann@example.com", code, "second new secret")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
	assert.True(t, sec.CheckPasswordHash("first new secret", env.users.hashOf(env.user.ID)))
}

/*
TestResetPassword_WeakPasswordChecksFirst verifies a short password fails
before any code lookup, so the code survives.
*/
func TestResetPassword_WeakPasswordChecksFirst(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	err = env.service.ResetPassword(ctx, "ann@example.com", code, "7 chars")
	requireAppCode(t, err, "VALIDATION_ERROR")
	assert.Equal(t, 0, env.codes.lookups())
	assert.False(t, env.codes.all()[0].Used)

	// Even a malformed code reports the password first.
	err = env.service.ResetPassword(ctx, "ann@example.com", "12ab", "short")
	details := apperr.As(err).Details
	require.Len(t, details, 1)
	assert.Equal(t, FieldPassword, details[0].Field)
}

/*
TestVerifyThenReset_SameCode keeps the documented behaviour: verification
consumes the code, so the reset that follows fails.
*/
func TestVerifyThenReset_SameCode(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, env.service.VerifyResetCode(ctx, "ann@example.com", code))

	err = env.service.ResetPassword(ctx, "ann@example.com", code, "brand new secret")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
	assert.True(t, sec.CheckPasswordHash(testPassword, env.users.hashOf(env.user.ID)))
}

/*
TestResetCode_Expiry walks the clock to the boundary and past it.
*/
func TestResetCode_Expiry(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	env.advance(ResetCodeTTL + time.Second)
	assert.ErrorIs(t, env.service.VerifyResetCode(ctx, "ann@example.com", code), ErrInvalidResetCode)
	assert.ErrorIs(t, env.service.ResetPassword(ctx, "ann@example.com", code, "brand new secret"), ErrInvalidResetCode)

	// A new request issues a code that works again.
	env.advance(time.Minute)
	fresh, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)
	env.advance(ResetCodeTTL)
	assert.NoError(t, env.service.VerifyResetCode(ctx, "ann@example.com", fresh))
}

func TestVerifyResetCode_Malformed(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "12a456", " 123456"} {
		err := env.service.VerifyResetCode(ctx, "ann@example.com", code)
		requireAppCode(t, err, "VALIDATION_ERROR")
	}
	assert.Equal(t, 0, env.codes.lookups())
}

/*
TestVerifyResetCode_WrongEmail verifies codes are bound to the address they
were issued for.
*/
func TestVerifyResetCode_WrongEmail(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, env.service.VerifyResetCode(ctx, "bob@example.com", code), ErrInvalidResetCode)
	assert.NoError(t, env.service.VerifyResetCode(ctx, "ANN@example.com", code))
}

/*
TestResetAttempts_Budget verifies an email gets MaxResetAttempts guesses per
window; after that even the right code is refused until the window ends.
*/
func TestResetAttempts_Budget(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := range MaxResetAttempts {
		err := env.service.VerifyResetCode(ctx, "ann@example.com", wrong)
		assert.ErrorIs(t, err, ErrInvalidResetCode, "attempt %d", i+1)
	}

	err = env.service.VerifyResetCode(ctx, "ann@example.com", code)
	requireAppCode(t, err, "RATE_LIMITED")
	err = env.service.ResetPassword(ctx, "ANN@example.com", code, "brand new secret")
	requireAppCode(t, err, "RATE_LIMITED")

	assert.Equal(t, MaxResetAttempts, env.codes.lookups())
	assert.False(t, env.codes.all()[0].Used)
	assert.True(t, sec.CheckPasswordHash(testPassword, env.users.hashOf(env.user.ID)))

	// Another address keeps its own budget.
	assert.ErrorIs(t, env.service.VerifyResetCode(ctx, "bob@example.com", wrong), ErrInvalidResetCode)

	// A new window and a new code work again.
	env.advance(ResetCodeTTL)
	fresh, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NoError(t, env.service.ResetPassword(ctx, "ann@example.com", fresh, "brand new secret"))
}

/*
TestResetAttempts_ClearedOnSuccess verifies a successful verification resets
the budget.
*/
func TestResetAttempts_ClearedOnSuccess(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, env.service.VerifyResetCode(ctx, "ann@example.com", code))
	assert.Empty(t, env.attempts.windows)
}

/*
TestResetAttempts_CounterDown verifies the flow refuses when the budget cannot
be checked.
*/
func TestResetAttempts_CounterDown(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	code, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	env.attempts.err = errors.New("redis down")
	assert.Error(t, env.service.VerifyResetCode(ctx, "ann@example.com", code))
	assert.Zero(t, env.codes.lookups())
}

func TestPurgeStaleResetCodes(t *testing.T) {
	env := newTestEnv(t, Options{ExposeResetCode: true})
	ctx := context.Background()

	_, err := env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	env.advance(time.Hour)
	_, err = env.service.RequestPasswordReset(ctx, "ann@example.com")
	require.NoError(t, err)

	deleted, err := env.service.PurgeStaleResetCodes(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	env.advance(ResetCodeRetention)
	deleted, err = env.service.PurgeStaleResetCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, env.codes.all(), 1)
}

// # Sessions

func TestLogin(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	for _, login := range []string{"ann@example.com", "ANN@example.com", "ann", "Ann"} {
		session, err := env.service.Login(ctx, LoginInput{Login: login, Password: testPassword})
		require.NoError(t, err, login)

		claims, err := env.tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, env.user.ID, claims.UserID)
		assert.Equal(t, sec.RolePublisher, claims.UserRole())
	}
}

/*
TestLogin_Failures verifies unknown accounts and wrong passwords are
indistinguishable to the caller.
*/
func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	_, wrongPassword := env.service.Login(ctx, LoginInput{Login: "ann", Password: "wrong password"})
	_, unknownUser := env.service.Login(ctx, LoginInput{Login: "nobody", Password: testPassword})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())

	_, err := env.service.Login(ctx, LoginInput{Login: "", Password: ""})
	requireAppCode(t, err, "VALIDATION_ERROR")
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	session, err := env.service.Signup(ctx, SignupInput{
		Name:     " Bob ",
		Username: "bob_writes",
		Email:    "Bob@Example.com",
		Password: "long enough",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob", session.User.Name)
	assert.Equal(t, "bob@example.com", session.User.Email)
	assert.Equal(t, sec.RoleReader, session.User.Role)
	assert.NotEmpty(t, session.User.ID)
	assert.Equal(t, env.clock.Add(time.Hour), session.ExpiresAt)

	stored, err := env.users.FindByUsername(ctx, "bob_writes")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("long enough", stored.PasswordHash))
}

func TestSignup_Rejections(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input SignupInput
		want  error
		code  string
	}{
		{"email_taken", SignupInput{Name: "A", Username: "other", Email: "ANN@example.com", Password: "long enough"}, ErrEmailTaken, ""},
		{"username_taken", SignupInput{Name: "A", Username: "ANN", Email: "a2@example.com", Password: "long enough"}, ErrUsernameTaken, ""},
		{"weak_password", SignupInput{Name: "A", Username: "other", Email: "a2@example.com", Password: "short"}, nil, "VALIDATION_ERROR"},
		{"bad_username", SignupInput{Name: "A", Username: "no spaces", Email: "a2@example.com", Password: "long enough"}, nil, "VALIDATION_ERROR"},
		{"missing_name", SignupInput{Username: "other", Email: "a2@example.com", Password: "long enough"}, nil, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Signup(ctx, tt.input)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			requireAppCode(t, err, tt.code)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	session, err := env.service.Login(ctx, LoginInput{Login: "ann", Password: testPassword})
	require.NoError(t, err)
	claims, err := env.tokens.Verify(session.Token)
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(ctx, claims))
	assert.Equal(t, []string{claims.TokenID()}, env.revocations.revoked)
}

/*
TestChangePassword verifies the current password gate, the revocation cutoff
and the replacement session.
*/
func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	session, err := env.service.Login(ctx, LoginInput{Login: "ann", Password: testPassword})
	require.NoError(t, err)
	claims, err := env.tokens.Verify(session.Token)
	require.NoError(t, err)

	_, err = env.service.ChangePassword(ctx, claims, "wrong password", "another secret")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, env.revocations.revokeAll)

	_, err = env.service.ChangePassword(ctx, claims, testPassword, "short")
	requireAppCode(t, err, "VALIDATION_ERROR")

	fresh, err := env.service.ChangePassword(ctx, claims, testPassword, "another secret")
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, fresh.Token)
	assert.True(t, sec.CheckPasswordHash("another secret", env.users.hashOf(env.user.ID)))

	require.Len(t, env.revocations.revokeAll, 1)
	assert.Equal(t, env.user.ID, env.revocations.revokeAll[0].userID)
}

func TestDescribeSession(t *testing.T) {
	env := newTestEnv(t, Options{})

	token, err := env.tokens.Issue(env.user.SessionPayload())
	require.NoError(t, err)
	claims, err := env.tokens.Verify(token)
	require.NoError(t, err)

	view := DescribeSession(claims)
	assert.Equal(t, env.user.ID, view.UserID)
	assert.Equal(t, sec.RolePublisher, view.Role)
	assert.Contains(t, view.Permissions, "publish_article")
	assert.NotContains(t, view.Permissions, "manage_users")
	assert.Equal(t, time.Hour, view.ExpiresAt.Sub(view.IssuedAt))
}
