// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/sec"
)

// seedIdentity injects an identity into the request context, standing in for
// the authentication middleware.
func seedIdentity(identity *sec.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			next.ServeHTTP(writer, request.WithContext(
				ctxutil.WithIdentity(request.Context(), identity)))
		})
	}
}

// passthrough leaves the context untouched; read endpoints then see an
// anonymous visitor.
func passthrough(next http.Handler) http.Handler { return next }

func serveContent(t *testing.T, service *Service, identity *sec.Identity, request *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	seed := passthrough
	if identity != nil {
		seed = seedIdentity(identity)
	}
	router := NewHandler(service).Routes(seed, seed, passthrough)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var body map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	}
	return recorder, body
}

func seedPosts(t *testing.T, service *Service) (published, draft *Post) {
	t.Helper()

	published, err := service.Create(context.Background(), moderator, CreateInput{
		Title:   "Flu Season Checklist",
		Body:    "<p>Wash hands often.</p>",
		Publish: true,
	})
	require.NoError(t, err)

	draft, err = service.Create(context.Background(), moderator, CreateInput{
		Title: "Upcoming Device Recall Notes",
		Body:  "<p>Internal draft.</p>",
	})
	require.NoError(t, err)

	return published, draft
}

func TestHandlerListVisibility(t *testing.T) {
	service, _ := newTestService()
	seedPosts(t, service)

	tests := []struct {
		name      string
		viewer    *sec.Identity
		wantPosts int
	}{
		{"anonymous_sees_published_only", nil, 1},
		{"reader_sees_published_only", reader, 1},
		{"moderator_sees_drafts", moderator, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			recorder, body := serveContent(t, service, tt.viewer, request)

			require.Equal(t, http.StatusOK, recorder.Code)
			data, ok := body["data"].([]any)
			require.True(t, ok)
			assert.Len(t, data, tt.wantPosts)
		})
	}
}

func TestHandlerGetBySlugHidesDraftsFromAnonymous(t *testing.T) {
	service, _ := newTestService()
	_, draft := seedPosts(t, service)

	request := httptest.NewRequest(http.MethodGet, "/"+draft.Slug, nil)
	recorder, body := serveContent(t, service, nil, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, false, body["success"])

	request = httptest.NewRequest(http.MethodGet, "/"+draft.Slug, nil)
	recorder, body = serveContent(t, service, moderator, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, draft.Slug, data["slug"])
}

func TestHandlerCreateStampsAuthor(t *testing.T) {
	service, _ := newTestService()

	payload := `{"title": "Hydration Basics", "body": "<p>Drink water.</p>", "publish": true}`
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	recorder, body := serveContent(t, service, moderator, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(moderator.ID), data["author_id"])
	assert.Equal(t, "hydration-basics", data["slug"])
}

func TestHandlerUpdateRejectsNonOwner(t *testing.T) {
	service, _ := newTestService()
	published, _ := seedPosts(t, service)

	payload := `{"title": "Flu Season Checklist, Revised"}`
	target := "/" + strconv.FormatInt(published.ID, 10)

	request := httptest.NewRequest(http.MethodPut, target, strings.NewReader(payload))
	recorder, body := serveContent(t, service, reader, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "You can only modify your own posts", body["error"])

	request = httptest.NewRequest(http.MethodPut, target, strings.NewReader(payload))
	recorder, body = serveContent(t, service, moderator, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Flu Season Checklist, Revised", data["title"])
}

func TestHandlerDelete(t *testing.T) {
	service, repository := newTestService()
	published, _ := seedPosts(t, service)

	request := httptest.NewRequest(http.MethodDelete, "/"+strconv.FormatInt(published.ID, 10), nil)
	recorder, _ := serveContent(t, service, admin, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	_, ok := repository.byID[published.ID]
	assert.False(t, ok)
}
