// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing, Role
// comparison) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via the [TokenService].
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the JWT,
// the [middleware.Authenticate] chain can decide authorization questions
// WITHOUT an extra role lookup on every single API request. The user row is
// still consulted to enforce the isActive invariant.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// ErrInvalidToken is the uniform failure signal for token verification.
//
// # Security
//
// Verification never reports WHY a token failed (bad signature, expired,
// malformed, wrong signing algorithm). Distinguishing the causes would give
// an attacker an oracle to probe against.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// TokenService handles generation and verification of JWT tokens using HS256.
//
// Access and refresh tokens are signed with separate secrets so that a
// refresh token can never be replayed as an access token (and vice versa).
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService creates a new TokenService.
//
// An empty accessSecret is a configuration error and fails construction —
// the caller is expected to treat this as fatal at startup, never as a
// per-request condition. An empty refreshSecret falls back to accessSecret.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" {
		return nil, errors.New("sec: access token secret is not configured")
	}
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken creates a signed short-lived JWT for a user.
//
// An empty role defaults to [RoleUser], mirroring the storage default for
// freshly registered accounts.
func (service *TokenService) GenerateAccessToken(userID, email, role string) (string, error) {
	return service.generate(userID, email, role, service.accessSecret, service.accessTTL)
}

// GenerateRefreshToken creates a signed long-lived JWT for a user, signed
// with the distinct refresh secret.
func (service *TokenService) GenerateRefreshToken(userID, email, role string) (string, error) {
	return service.generate(userID, email, role, service.refreshSecret, service.refreshTTL)
}

// VerifyAccessToken checks the signature and validity of an access token.
// Any failure yields [ErrInvalidToken].
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefreshToken checks the signature and validity of a refresh token.
// Any failure yields [ErrInvalidToken].
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

// generate builds the claim set and signs it with the given secret.
func (service *TokenService) generate(userID, email, role string, secret []byte, timeToLive time.Duration) (string, error) {
	if role == "" {
		role = string(RoleUser)
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// verify parses a token against the given secret and validates its claims.
func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})

	// Collapse every parse/signature/expiry failure into the uniform error.
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
