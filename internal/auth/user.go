// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import (
	"strings"
	"time"

	"github.com/vitalink-health/api/internal/platform/sec"
)

// User represents a registered account.
//
// # Rules
//   - Email is unique (enforced by the store's unique constraint; the
//     service-level existence check is best-effort only).
//   - PasswordHash is generated via bcrypt exclusively by the Service and is
//     never serialized.
//   - A deactivated account (IsActive=false) never passes authentication,
//     regardless of how valid its tokens still are.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"` // Explicitly omitted from JSON for security.
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone,omitempty"`
	Role          sec.Role  `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Identity projects the user onto the request-context principal.
// The credential hash is dropped by construction.
func (u *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}

// SplitName divides a combined display name into first and last parts on the
// first whitespace run. "Ada  Lovelace King" → ("Ada", "Lovelace King").
func SplitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
