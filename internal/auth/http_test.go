// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/sec"
)

// seedIdentity injects an access-token identity into the request context,
// standing in for the Authenticate middleware.
func seedIdentity(identity *sec.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithIdentity(request.Context(), identity)))
		})
	}
}

// seedRefreshIdentity injects a refresh-token identity, standing in for the
// ValidateRefresh middleware.
func seedRefreshIdentity(identity *sec.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithRefreshIdentity(request.Context(), identity)))
		})
	}
}

// passthrough leaves the context untouched, so the handler sees an anonymous
// request even on a route the real middleware would have guarded.
func passthrough(next http.Handler) http.Handler { return next }

func serveAuth(t *testing.T, fixture *serviceFixture, authenticate, validateRefresh func(http.Handler) http.Handler, request *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	router := NewHandler(fixture.service).Routes(authenticate, validateRefresh)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	body := decodeBody(t, recorder)
	return recorder, body
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	}
	return body
}

func TestHandlerMe(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.register(t, "ada@example.com")

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	recorder, body := serveAuth(t, fixture,
		seedIdentity(registered.User.Identity()), passthrough, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", data["email"])
}

func TestHandlerMeAnonymous(t *testing.T) {
	fixture := newServiceFixture()

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	recorder, body := serveAuth(t, fixture, passthrough, passthrough, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Access token required", body["error"])
}

func TestHandlerRefresh(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.register(t, "ada@example.com")

	request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	recorder, body := serveAuth(t, fixture,
		passthrough, seedRefreshIdentity(registered.User.Identity()), request)

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
}

func TestHandlerRefreshAnonymous(t *testing.T) {
	fixture := newServiceFixture()

	request := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	recorder, body := serveAuth(t, fixture, passthrough, passthrough, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Invalid or expired refresh token", body["error"])
}

func TestHandlerUpdateProfile(t *testing.T) {
	fixture := newServiceFixture()
	registered := fixture.register(t, "ada@example.com")

	payload := `{"first_name": "Augusta", "phone": "+44 20 0000 0000"}`
	request := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(payload))
	recorder, body := serveAuth(t, fixture,
		seedIdentity(registered.User.Identity()), passthrough, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Augusta", data["first_name"])
	assert.Equal(t, "+44 20 0000 0000", data["phone"])
}

func TestHandlerUpdateProfileAnonymous(t *testing.T) {
	fixture := newServiceFixture()

	request := httptest.NewRequest(http.MethodPut, "/profile",
		strings.NewReader(`{"first_name": "Augusta"}`))
	recorder, body := serveAuth(t, fixture, passthrough, passthrough, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Access token required", body["error"])
}
