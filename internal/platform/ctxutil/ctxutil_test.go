// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalink-health/api/internal/platform/ctxutil"
	"github.com/vitalink-health/api/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.Default().With(slog.String("test", "true"))
	ctx := ctxutil.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, ctxutil.GetLogger(context.Background()))
}

func TestIdentity_RoundTrip(t *testing.T) {
	identity := &sec.Identity{ID: 42, Email: "a@b.com", Role: sec.RoleAdmin}
	ctx := ctxutil.WithIdentity(context.Background(), identity)

	got := ctxutil.GetIdentity(ctx)
	assert.Same(t, identity, got)
	assert.Equal(t, "42", got.StringID())
}

func TestIdentity_Anonymous(t *testing.T) {
	assert.Nil(t, ctxutil.GetIdentity(context.Background()))
}

func TestRefreshIdentity_SeparateFromIdentity(t *testing.T) {
	refresh := &sec.Identity{ID: 7, Email: "r@b.com"}
	ctx := ctxutil.WithRefreshIdentity(context.Background(), refresh)

	assert.Same(t, refresh, ctxutil.GetRefreshIdentity(ctx))
	// The refresh slot must not leak into the main identity slot.
	assert.Nil(t, ctxutil.GetIdentity(ctx))
}
