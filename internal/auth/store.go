// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new account.
	//
	// The store's unique constraint on email is the authoritative duplicate
	// guard; a violation surfaces as [apperr.Conflict].
	Create(ctx context.Context, user *User) error

	// UpdateProfile persists changes to mutable profile fields (FirstName,
	// LastName, Phone). Email, role, status flags, and the password hash are
	// deliberately outside this method's reach.
	UpdateProfile(ctx context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	// Separate from [UpdateProfile] to prevent accidental overwrites during
	// unrelated profile updates.
	UpdatePassword(ctx context.Context, userID int64, newHash string) error

	// SetEmailVerified marks the account's email address as confirmed.
	SetEmailVerified(ctx context.Context, userID int64) error
}

// TokenStore defines the contract for volatile token-to-user mappings
// (password reset, email verification).
//
// # Why a store at all?
//
// Reset and verification tokens must be resolvable back to an account when
// the user clicks the emailed link. Persisting them with a TTL is what makes
// the flows implementable; expiry is the store's responsibility, so no
// cleanup job is needed.
type TokenStore interface {
	// Set stores a token associated with a userID for a limited duration.
	Set(ctx context.Context, token string, userID int64, ttl time.Duration) error

	// Get retrieves the userID associated with a given token.
	//
	// Returns [apperr.NotFound] if the token is absent or expired.
	Get(ctx context.Context, token string) (int64, error)

	// Delete removes a token after successful use.
	Delete(ctx context.Context, token string) error
}
