// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pixelpulse/internal/platform/ctxutil"
	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
)

type stubVerifier map[string]*sec.AuthClaims

func (v stubVerifier) Verify(token string) (*sec.AuthClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	if token == "expired" {
		return nil, sec.ErrTokenExpired
	}
	return nil, sec.ErrTokenInvalid
}

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (r stubRevocations) IsRevoked(_ context.Context, claims *sec.AuthClaims) (bool, error) {
	return r.revoked[claims.ID], r.err
}

func claimsFor(id string, role sec.Role) *sec.AuthClaims {
	claims := &sec.AuthClaims{UserID: "user-" + id, Role: string(role)}
	claims.ID = id
	return claims
}

// echoUser writes the authenticated user id, or "anonymous".
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

/*
TestAuthenticate covers token sources and rejection paths.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{
		"good":    claimsFor("jti-1", sec.RoleReader),
		"revoked": claimsFor("jti-2", sec.RoleReader),
	}
	revocations := stubRevocations{revoked: map[string]bool{"jti-2": true}}
	handler := middleware.Authenticate(verifier, revocations, false)(echoUser)

	tests := []struct {
		name       string
		prepare    func(request *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "anonymous",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name: "cookie",
			prepare: func(request *http.Request) {
				request.AddCookie(&http.Cookie{Name: "token", Value: "good"})
			},
			wantStatus: http.StatusOK,
			wantBody:   "user-jti-1",
		},
		{
			name: "bearer_header",
			prepare: func(request *http.Request) {
				request.Header.Set("Authorization", "Bearer good")
			},
			wantStatus: http.StatusOK,
			wantBody:   "user-jti-1",
		},
		{
			name: "cookie_wins_over_header",
			prepare: func(request *http.Request) {
				request.AddCookie(&http.Cookie{Name: "token", Value: "good"})
				request.Header.Set("Authorization", "Bearer forged")
			},
			wantStatus: http.StatusOK,
			wantBody:   "user-jti-1",
		},
		{
			name: "expired",
			prepare: func(request *http.Request) {
				request.AddCookie(&http.Cookie{Name: "token", Value: "expired"})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "forged",
			prepare: func(request *http.Request) {
				request.Header.Set("Authorization", "Bearer forged")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "revoked",
			prepare: func(request *http.Request) {
				request.AddCookie(&http.Cookie{Name: "token", Value: "revoked"})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non_bearer_scheme_is_anonymous",
			prepare: func(request *http.Request) {
				request.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
			},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(request)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
				return
			}

			envelope := decodeError(t, recorder)
			assert.Equal(t, "UNAUTHORIZED", envelope.Code)
			assert.Equal(t, "Invalid or expired session", envelope.Error)
		})
	}
}

/*
TestAuthenticate_RevocationStoreDown verifies the middleware fails closed.
*/
func TestAuthenticate_RevocationStoreDown(t *testing.T) {
	verifier := stubVerifier{"good": claimsFor("jti-1", sec.RoleReader)}
	handler := middleware.Authenticate(verifier, stubRevocations{err: errors.New("redis down")}, false)(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "good"})
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

/*
TestAuthenticate_ClearsRejectedCookie verifies a stale cookie is dropped so the
client can log in again, while a rejected header token leaves cookies alone.
*/
func TestAuthenticate_ClearsRejectedCookie(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{}, stubRevocations{}, false)(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "expired"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer expired")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestAuthenticate_ClearedCookieKeepsSecureFlag verifies the clearing cookie
carries the configured Secure flag even when TLS ends at a proxy in front of
the server.
*/
func TestAuthenticate_ClearedCookieKeepsSecureFlag(t *testing.T) {
	handler := middleware.Authenticate(stubVerifier{}, stubRevocations{}, true)(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "expired"})
	require.Nil(t, request.TLS)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Less(t, cookies[0].MaxAge, 0)
}

/*
TestRequireRole verifies 401 for anonymous and 403 for insufficient roles.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(echoUser)

	tests := []struct {
		name       string
		claims     *sec.AuthClaims
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"reader", claimsFor("r", sec.RoleReader), http.StatusForbidden},
		{"publisher", claimsFor("p", sec.RolePublisher), http.StatusForbidden},
		{"unknown_role", claimsFor("x", sec.Role("superuser")), http.StatusForbidden},
		{"admin", claimsFor("a", sec.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequirePermission verifies the permission gate.
*/
func TestRequirePermission(t *testing.T) {
	handler := middleware.RequirePermission(sec.PermCreateArticle)(echoUser)

	serve := func(claims *sec.AuthClaims) int {
		request := httptest.NewRequest(http.MethodPost, "/articles", nil)
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(claimsFor("r", sec.RoleReader)))
	assert.Equal(t, http.StatusOK, serve(claimsFor("p", sec.RolePublisher)))
	assert.Equal(t, http.StatusOK, serve(claimsFor("a", sec.RoleAdmin)))
}
