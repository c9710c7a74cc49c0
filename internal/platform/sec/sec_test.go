// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalink-health/api/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour, "vitalink.test")
	require.NoError(t, err)
	return service
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh-secret", time.Hour, time.Hour, "vitalink.test")
	assert.Error(t, err)
}

func TestNewTokenService_RefreshSecretFallback(t *testing.T) {
	// With no distinct refresh secret, both verifiers share the access secret,
	// so an access token is also a valid refresh token.
	service, err := sec.NewTokenService("only-secret", "", time.Hour, time.Hour, "vitalink.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken("42", "a@b.com", "user")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("42", "a@b.com", "moderator")
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenService_EmptyRoleDefaultsToUser(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("7", "a@b.com", "")
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenService_SecretsAreNotInterchangeable(t *testing.T) {
	service := newTestTokenService(t)

	accessToken, err := service.GenerateAccessToken("42", "a@b.com", "user")
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken("42", "a@b.com", "user")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_ExpiredTokenFails(t *testing.T) {
	// Hand-construct a token with a past expiry but an otherwise valid signature.
	currentTime := time.Now()
	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(currentTime.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(-1 * time.Hour)),
		},
		UserID: "42",
		Email:  "a@b.com",
		Role:   "user",
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	service := newTestTokenService(t)
	_, err = service.VerifyAccessToken(expired)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

func TestTokenService_MalformedTokenFails(t *testing.T) {
	service := newTestTokenService(t)

	for _, garbage := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(garbage)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	}
}

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		target   sec.Role
		expected bool
	}{
		{"admin_satisfies_user", sec.RoleAdmin, sec.RoleUser, true},
		{"admin_satisfies_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"moderator_satisfies_moderator", sec.RoleModerator, sec.RoleModerator, true},
		{"moderator_satisfies_user", sec.RoleModerator, sec.RoleUser, true},
		{"user_fails_admin", sec.RoleUser, sec.RoleAdmin, false},
		{"user_fails_moderator", sec.RoleUser, sec.RoleModerator, false},
		{"unknown_fails_user", sec.Role("superuser"), sec.RoleUser, false},
		{"unknown_satisfies_unknown", sec.Role("x"), sec.Role("y"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}

func TestRole_AtLeastAny(t *testing.T) {
	assert.True(t, sec.RoleModerator.AtLeastAny(sec.RoleAdmin, sec.RoleModerator))
	assert.False(t, sec.RoleUser.AtLeastAny(sec.RoleAdmin, sec.RoleModerator))
	assert.False(t, sec.RoleUser.AtLeastAny())
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := sec.GenerateRandomToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 32)

	for _, character := range token {
		isAlnum := (character >= 'a' && character <= 'z') ||
			(character >= 'A' && character <= 'Z') ||
			(character >= '0' && character <= '9')
		assert.True(t, isAlnum, "unexpected character %q", character)
	}

	// Two draws colliding would be astronomically unlikely.
	other, err := sec.GenerateRandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
