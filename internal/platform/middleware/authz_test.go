// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/middleware"
	"github.com/vitalink-health/api/internal/platform/sec"
)

// stubVerifier maps literal token strings to claims.
type stubVerifier struct {
	access  map[string]*sec.AuthClaims
	refresh map[string]*sec.AuthClaims
}

func (s *stubVerifier) VerifyAccessToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := s.access[token]; ok {
		return claims, nil
	}
	return nil, sec.ErrInvalidToken
}

func (s *stubVerifier) VerifyRefreshToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := s.refresh[token]; ok {
		return claims, nil
	}
	return nil, sec.ErrInvalidToken
}

// stubResolver maps user IDs to identities; absent IDs behave like missing
// or deactivated accounts.
type stubResolver struct {
	active map[string]*sec.Identity
}

func (s *stubResolver) ResolveActive(_ context.Context, userID string) (*sec.Identity, error) {
	if identity, ok := s.active[userID]; ok {
		return identity, nil
	}
	return nil, sec.ErrInvalidToken
}

func activeUserFixtures() (*stubVerifier, *stubResolver) {
	verifier := &stubVerifier{
		access: map[string]*sec.AuthClaims{
			"good-token":        {UserID: "1", Email: "a@b.com", Role: "user"},
			"admin-token":       {UserID: "2", Email: "root@b.com", Role: "admin"},
			"deactivated-token": {UserID: "9", Email: "gone@b.com", Role: "user"},
		},
		refresh: map[string]*sec.AuthClaims{
			"good-refresh":        {UserID: "1", Email: "a@b.com", Role: "user"},
			"deactivated-refresh": {UserID: "9", Email: "gone@b.com", Role: "user"},
		},
	}
	resolver := &stubResolver{
		active: map[string]*sec.Identity{
			"1": {ID: 1, Email: "a@b.com", Role: sec.RoleUser},
			"2": {ID: 2, Email: "root@b.com", Role: sec.RoleAdmin},
			// "9" deliberately absent: token valid, account deactivated.
		},
	}
	return verifier, resolver
}

// echoIdentity records whether the handler ran and with which identity.
func echoIdentity(captured **sec.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_StateMachine(t *testing.T) {
	verifier, resolver := activeUserFixtures()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantError  string
	}{
		{"missing_token", "", http.StatusUnauthorized, "Access token required"},
		{"malformed_header", "NotBearer xyz", http.StatusUnauthorized, "Access token required"},
		{"invalid_token", "Bearer garbage", http.StatusUnauthorized, "Invalid or expired token"},
		{"deactivated_account_same_message", "Bearer deactivated-token", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid", "Bearer good-token", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *sec.Identity
			handler := middleware.Authenticate(verifier, resolver)(echoIdentity(&captured))

			request := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantError != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantError, body["error"])
				assert.Nil(t, captured)
			} else {
				require.NotNil(t, captured)
				assert.Equal(t, int64(1), captured.ID)
			}
		})
	}
}

func TestOptionalAuthenticate_NeverRejects(t *testing.T) {
	verifier, resolver := activeUserFixtures()

	tests := []struct {
		name         string
		authHeader   string
		wantIdentity bool
	}{
		{"anonymous", "", false},
		{"invalid_token", "Bearer garbage", false},
		{"deactivated_account", "Bearer deactivated-token", false},
		{"valid_token", "Bearer good-token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *sec.Identity
			handler := middleware.OptionalAuthenticate(verifier, resolver)(echoIdentity(&captured))

			request := httptest.NewRequest(http.MethodGet, "/posts", nil)
			if tt.authHeader != "" {
				request.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Equal(t, tt.wantIdentity, captured != nil)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *sec.Identity
		required   sec.Role
		wantStatus int
	}{
		{"anonymous_gets_401", nil, sec.RoleUser, http.StatusUnauthorized},
		{"insufficient_gets_403", &sec.Identity{ID: 1, Role: sec.RoleUser}, sec.RoleAdmin, http.StatusForbidden},
		{"exact_role_passes", &sec.Identity{ID: 1, Role: sec.RoleModerator}, sec.RoleModerator, http.StatusOK},
		{"higher_role_passes", &sec.Identity{ID: 2, Role: sec.RoleAdmin}, sec.RoleUser, http.StatusOK},
		{"unknown_role_fails_everything", &sec.Identity{ID: 3, Role: sec.Role("ghost")}, sec.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequireRole(tt.required)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestRequireRole_ForbiddenNamesRequiredRole(t *testing.T) {
	handler := middleware.RequireAdmin()(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/admin", nil)
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: 1, Role: sec.RoleUser}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "admin")
}

func TestRequireAnyRole(t *testing.T) {
	handler := middleware.RequireAnyRole(sec.RoleModerator, sec.RoleAdmin)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	moderator := httptest.NewRequest(http.MethodPost, "/posts", nil)
	moderator = moderator.WithContext(ctxutil.WithIdentity(moderator.Context(), &sec.Identity{ID: 1, Role: sec.RoleModerator}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, moderator)
	assert.Equal(t, http.StatusOK, recorder.Code)

	user := httptest.NewRequest(http.MethodPost, "/posts", nil)
	user = user.WithContext(ctxutil.WithIdentity(user.Context(), &sec.Identity{ID: 2, Role: sec.RoleUser}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, user)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "moderator")
}

func TestRequireOwnershipOrAdmin(t *testing.T) {
	tests := []struct {
		name       string
		identity   *sec.Identity
		paramValue string
		wantStatus int
	}{
		{"owner_passes", &sec.Identity{ID: 5, Role: sec.RoleUser}, "5", http.StatusOK},
		{"other_user_forbidden", &sec.Identity{ID: 5, Role: sec.RoleUser}, "6", http.StatusForbidden},
		{"admin_bypasses", &sec.Identity{ID: 1, Role: sec.RoleAdmin}, "6", http.StatusOK},
		{"anonymous_401", nil, "5", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := chi.NewRouter()
			router.With(middleware.RequireOwnershipOrAdmin("userID")).
				Delete("/users/{userID}", func(writer http.ResponseWriter, _ *http.Request) {
					writer.WriteHeader(http.StatusOK)
				})

			request := httptest.NewRequest(http.MethodDelete, "/users/"+tt.paramValue, nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestRequireOwnershipOrAdmin_BodyFallback(t *testing.T) {
	var sawBody string
	handler := middleware.RequireOwnershipOrAdmin("userID")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var payload struct {
			UserID int64 `json:"user_id"`
		}
		_ = json.NewDecoder(request.Body).Decode(&payload)
		sawBody = "decoded"
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "/transfer", strings.NewReader(`{"user_id": 5}`))
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: 5, Role: sec.RoleUser}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	// The middleware must restore the body for the handler.
	assert.Equal(t, "decoded", sawBody)
}

func TestValidateRefreshToken(t *testing.T) {
	verifier, resolver := activeUserFixtures()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing_body", ``, http.StatusUnauthorized},
		{"empty_token", `{"refresh_token": ""}`, http.StatusUnauthorized},
		{"invalid_token", `{"refresh_token": "garbage"}`, http.StatusUnauthorized},
		{"deactivated_account", `{"refresh_token": "deactivated-refresh"}`, http.StatusUnauthorized},
		{"valid", `{"refresh_token": "good-refresh"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *sec.Identity
			handler := middleware.ValidateRefreshToken(verifier, resolver)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				captured = ctxutil.GetRefreshIdentity(request.Context())
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, captured)
				assert.Equal(t, int64(1), captured.ID)
			}
		})
	}
}
