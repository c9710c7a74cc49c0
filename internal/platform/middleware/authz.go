// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vitalink-health/api/internal/platform/apperr"
	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/respond"
	"github.com/vitalink-health/api/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.AuthClaims, error)
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// IdentityResolver loads the live account behind a verified token.
//
// # Why re-resolve on every request?
//
// JWTs are stateless: a deactivated account still holds a cryptographically
// valid token until it expires. Resolving against the store on each request
// enforces the invariant that a deactivated user never passes authentication.
type IdentityResolver interface {
	// ResolveActive returns the identity for the given account ID (decimal
	// string, as carried in the uid claim) only when the account exists and
	// is active. Any other outcome is an error.
	ResolveActive(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate requires a valid bearer token and an active account.
//
// # Flow
//  1. Missing/malformed 'Authorization: Bearer <token>' header → 401 (token required).
//  2. Token fails verification → 401 (invalid token).
//  3. Account lookup fails or the account is inactive → the SAME generic 401,
//     so the response never reveals whether the account exists.
//  4. Success → the resolved [*sec.Identity] (credential hash stripped by
//     construction) is attached to the request context.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenString, err := bearerToken(request)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Access token required"))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Account Resolution ─────────────────────────────────────────
			identity, err := resolver.ResolveActive(request.Context(), claims.UserID)
			if err != nil {
				// Same message as a bad token: do not leak account existence.
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate performs the same resolution as [Authenticate] but
// never rejects. Requests with a missing or invalid token simply proceed
// anonymously, enabling routes that behave differently for authenticated
// callers.
func OptionalAuthenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString, err := bearerToken(request)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyAccessToken(tokenString)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			identity, err := resolver.ResolveActive(request.Context(), claims.UserID)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Role Gating

// RequireRole blocks requests whose identity does not meet the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// Authorization failures DO name the required role — unlike authentication
// failures, that leaks no secret.
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions: requires "+string(role)+" role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAnyRole blocks requests unless the identity satisfies at least one
// of the given roles.
func RequireAnyRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !identity.Role.AtLeastAny(roles...) {
				names := make([]string, len(roles))
				for i, role := range roles {
					names[i] = string(role)
				}
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions: requires one of: "+strings.Join(names, ", ")))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireModerator is a convenience wrapper for moderator-or-higher routes.
func RequireModerator() func(http.Handler) http.Handler {
	return RequireRole(sec.RoleModerator)
}

// RequireAdmin is a convenience wrapper for admin-only routes.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(sec.RoleAdmin)
}

// # Ownership

// RequireOwnershipOrAdmin compares a resource's owning-user ID against the
// authenticated identity. The owner ID is drawn from the named URL parameter,
// falling back to a "user_id" field in a JSON body.
//
// Admins bypass the ownership check.
func RequireOwnershipOrAdmin(paramName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if identity.Role.AtLeast(sec.RoleAdmin) {
				next.ServeHTTP(writer, request)
				return
			}

			ownerID := chi.URLParam(request, paramName)
			if ownerID == "" {
				ownerID = ownerIDFromBody(request)
			}

			if ownerID == "" || ownerID != identity.StringID() {
				respond.Error(writer, request, apperr.Forbidden("You do not own this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// ownerIDFromBody peeks at a JSON body for a "user_id" field, restoring the
// body so downstream handlers can still decode it.
func ownerIDFromBody(request *http.Request) string {
	if request.Body == nil {
		return ""
	}

	bodyBytes, err := io.ReadAll(request.Body)
	request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err != nil {
		return ""
	}

	var payload struct {
		UserID json.Number `json:"user_id"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return ""
	}
	return payload.UserID.String()
}

// # Refresh Tokens

// refreshRequest is the JSON body expected by refresh-token protected routes.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateRefreshToken requires a refresh token in the request body, verifies
// it, and re-checks that the account behind it is still active.
//
// The resolved identity is forwarded to the next stage via the context
// (see [ctxutil.GetRefreshIdentity]) so the token-refresh handler can mint
// fresh tokens without re-parsing the body.
func ValidateRefreshToken(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Body Extraction ────────────────────────────────────────────
			var input refreshRequest
			if err := json.NewDecoder(request.Body).Decode(&input); err != nil || input.RefreshToken == "" {
				respond.Error(writer, request, apperr.Unauthorized("Refresh token required"))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyRefreshToken(input.RefreshToken)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired refresh token"))
				return
			}

			// ── 3. Account Re-check ───────────────────────────────────────────
			identity, err := resolver.ResolveActive(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired refresh token"))
				return
			}

			ctx := ctxutil.WithRefreshIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Helpers

// bearerToken extracts the token from an 'Authorization: Bearer <token>' header.
func bearerToken(request *http.Request) (string, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.Unauthorized("Access token required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", apperr.Unauthorized("Access token required")
	}

	return parts[1], nil
}
