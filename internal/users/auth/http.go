// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	requestutil "github.com/taibuivan/pixelpulse/internal/platform/request"
	"github.com/taibuivan/pixelpulse/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Registration, login, the session cookie and password recovery. Every
// endpoint that accepts a secret or creates state sits behind the strict
// rate limiter passed to [Handler.Routes].
type Handler struct {
	authService  *Service
	sessionTTL   time.Duration
	secureCookie bool
}

// NewHandler constructs a new [Handler]. sessionTTL is the Max-Age of the
// session cookie and matches the token lifetime. secureCookie sets the Secure
// flag and should only be false for plain-HTTP development.
func NewHandler(service *Service, sessionTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{
		authService:  service,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup, /login                   : open a session
//   - POST /logout, GET /session             : session management
//   - POST /change-password                  : authenticated password change
//   - POST /forgot-password, /verify-reset-code, /reset-password
func (handler *Handler) Routes(strict func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public, rate limited
	router.Group(func(r chi.Router) {
		r.Use(strict)
		r.Post("/signup", handler.signup)
		r.Post("/login", handler.login)
		r.Post("/forgot-password", handler.forgotPassword)
		r.Post("/verify-reset-code", handler.verifyResetCode)
		r.Post("/reset-password", handler.resetPassword)
	})

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/session", handler.session)
		r.With(strict).Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// # Responses

type sessionResponse struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type forgotPasswordResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ResetCode string `json:"reset_code,omitempty"`
}

/*
Signup creates a reader account and logs it in.

POST /api/v1/auth/signup

Response:
  - 201: sessionResponse, session cookie set
  - 400: validation failure
  - 409: email or username already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Signup(request.Context(), SignupInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.startSession(writer, session)
	respond.Created(writer, newSessionResponse(session))
}

/*
Login authenticates by email or username and sets the session cookie.

POST /api/v1/auth/login

Response:
  - 200: sessionResponse
  - 401: invalid credentials, whichever half was wrong
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.startSession(writer, session)
	respond.OK(writer, newSessionResponse(session))
}

/*
Logout revokes the current token and clears the cookie.

POST /api/v1/auth/logout

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.ClearSessionCookie(writer, handler.secureCookie)
	respond.NoContent(writer)
}

// session returns the identity, role and permissions of the caller.
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, DescribeSession(claims))
}

/*
ChangePassword updates the password of the caller.

POST /api/v1/auth/change-password

Description: Every other session of the account is revoked; the caller gets
a fresh session cookie.

Response:
  - 200: sessionResponse
  - 400: weak new password or wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.ChangePassword(request.Context(), claims, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.startSession(writer, session)
	respond.OK(writer, newSessionResponse(session))
}

/*
ForgotPassword issues a reset code.

POST /api/v1/auth/forgot-password

Description: The response is identical whether or not the email belongs to
an account. In development the code is echoed as reset_code.

Response:
  - 200: forgotPasswordResponse
  - 400: malformed email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	code, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, forgotPasswordResponse{
		Success:   true,
		Message:   MsgResetRequested,
		ResetCode: code,
	})
}

/*
VerifyResetCode checks, and consumes, a reset code.

POST /api/v1/auth/verify-reset-code

Response:
  - 200: success message
  - 400: INVALID_RESET_CODE or malformed input
*/
func (handler *Handler) verifyResetCode(writer http.ResponseWriter, request *http.Request) {
	var input verifyResetCodeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyResetCode(request.Context(), input.Email, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgResetCodeValid)
}

/*
ResetPassword sets a new password with a reset code.

POST /api/v1/auth/reset-password

Response:
  - 200: success message; existing sessions are revoked
  - 400: weak password, INVALID_RESET_CODE or malformed input
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Email, input.Code, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	middleware.ClearSessionCookie(writer, handler.secureCookie)
	respond.Message(writer, MsgPasswordReset)
}

func (handler *Handler) startSession(writer http.ResponseWriter, session *Session) {
	middleware.SetSessionCookie(writer, session.Token, handler.sessionTTL, handler.secureCookie)
}

func newSessionResponse(session *Session) sessionResponse {
	return sessionResponse{User: session.User, Token: session.Token, ExpiresAt: session.ExpiresAt}
}
