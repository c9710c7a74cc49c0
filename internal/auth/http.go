// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

// Package auth implements the account and authentication domain: registration,
// login, token refresh, password reset, and email verification.
//
// # Architecture
//
// The package follows the layered split used across the codebase:
//   - user.go           : the domain entity.
//   - store.go          : repository contracts.
//   - store_postgres.go : pgx-backed user persistence.
//   - store_redis.go    : Redis-backed short-lived token storage.
//   - service.go        : use cases and business rules.
//   - http.go           : the HTTP delivery layer (this file).
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitalink-health/api/internal/platform/apperr"
	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/respond"
	"github.com/vitalink-health/api/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (registration, login, token refresh, password reset, email
// verification) plus the authenticated profile endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// The caller supplies the middleware so the handler stays free of token
// plumbing:
//   - authenticate      : strict access-token gate for protected endpoints.
//   - validateRefresh   : refresh-token validator for POST /refresh.
//
// # Endpoints
//   - POST /register            : Creates a new account.
//   - POST /login               : Authenticates and returns a token pair.
//   - POST /refresh             : Exchanges a refresh token for a new pair.
//   - POST /logout              : Acknowledges client-side token discard.
//   - GET  /me                  : Returns the authenticated profile.
//   - PUT  /profile             : Updates mutable profile fields.
//   - POST /forgot-password     : Issues a password reset token.
//   - POST /reset-password      : Consumes a reset token.
//   - POST /resend-verification : Re-issues an email verification token.
//   - POST /verify-email        : Consumes a verification token.
func (handler *Handler) Routes(authenticate, validateRefresh func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public entry points.
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)
	router.Post("/resend-verification", handler.resendVerification)
	router.Post("/verify-email", handler.verifyEmail)

	// Refresh carries its own credential.
	router.Group(func(group chi.Router) {
		group.Use(validateRefresh)
		group.Post("/refresh", handler.refresh)
	})

	// Access-token protected.
	router.Group(func(group chi.Router) {
		group.Use(authenticate)
		group.Post("/logout", handler.logout)
		group.Get("/me", handler.me)
		group.Put("/profile", handler.updateProfile)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// register handles POST /api/v1/auth/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the profile and token pair.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is already registered.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := (&validate.Validator{}).
		Required("email", input.Email).
		Email("email", input.Email).
		MinLen("password", input.Password, MinPasswordLength).
		Custom("name", input.Name == "" && input.FirstName == "",
			"Either name or first_name is required")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		Name:      input.Name,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, result)
}

// loginRequest represents the JSON payload for credential authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/v1/auth/login requests.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("credentials",
			"Email and password are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, result)
}

// refresh handles POST /api/v1/auth/refresh requests.
//
// The refresh-token middleware already verified the token and resolved the
// identity into the request context before this handler runs.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetRefreshIdentity(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Invalid or expired refresh token"))
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

// logoutRequest optionally carries the refresh token being discarded.
type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// logout handles POST /api/v1/auth/logout requests.
//
// Logout always succeeds: token discard happens on the client, and the
// server only acknowledges it.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input logoutRequest
	// A missing or malformed body is fine; the token field is optional.
	_ = json.NewDecoder(request.Body).Decode(&input)

	handler.authService.Logout(request.Context(), input.RefreshToken)

	respond.Message(writer, "Logged out successfully")
}

// me handles GET /api/v1/auth/me requests.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Access token required"))
		return
	}

	user, err := handler.authService.GetProfile(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateProfileRequest carries the mutable profile fields.
//
// Pointer fields distinguish "absent" from "set to empty". Email, role, and
// status flags are intentionally not representable here.
type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// updateProfile handles PUT /api/v1/auth/profile requests.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		respond.Error(writer, request, apperr.Unauthorized("Access token required"))
		return
	}

	var input updateProfileRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	if input.FirstName != nil {
		validator.Required("first_name", *input.FirstName).
			MaxLen("first_name", *input.FirstName, 100)
	}
	if input.LastName != nil {
		validator.MaxLen("last_name", *input.LastName, 100)
	}
	if input.Phone != nil {
		validator.MaxLen("phone", *input.Phone, 32)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, err := handler.authService.UpdateProfile(request.Context(), identity.ID, UpdateProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.OK(writer, user)
}

// emailRequest carries a bare email address (forgot-password, resend flows).
type emailRequest struct {
	Email string `json:"email"`
}

// forgotPassword handles POST /api/v1/auth/forgot-password requests.
//
// # Security
//
// The response is identical whether or not the email exists, preventing
// account enumeration.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError("email", "is required"))
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "If that email is registered, a reset link has been sent")
}

// resetPasswordRequest carries a reset token and the replacement password.
type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// resetPassword handles POST /api/v1/auth/reset-password requests.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := (&validate.Validator{}).
		Required("token", input.Token).
		MinLen("new_password", input.NewPassword, MinPasswordLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password has been reset successfully")
}

// resendVerification handles POST /api/v1/auth/resend-verification requests.
//
// Mirrors forgot-password: the response never reveals account existence.
func (handler *Handler) resendVerification(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Email == "" {
		respond.Error(writer, request, validate.RequiredError("email", "is required"))
		return
	}

	if err := handler.authService.ResendVerification(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "If that email is registered, a verification link has been sent")
}

// verifyEmailRequest carries an email verification token.
type verifyEmailRequest struct {
	Token string `json:"token"`
}

// verifyEmail handles POST /api/v1/auth/verify-email requests.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Token == "" {
		respond.Error(writer, request, validate.RequiredError("token", "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Email verified successfully")
}
