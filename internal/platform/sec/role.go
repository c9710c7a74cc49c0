// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage marketing content (blog posts, careers listings)
	RoleModerator Role = "moderator"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
//
// The hierarchy is monotonic: a higher role satisfies any lower requirement.
// An unrecognized role string maps to level 0 and fails every check.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// AtLeastAny checks if the current role satisfies any of the target roles.
func (r Role) AtLeastAny(targets ...Role) bool {
	for _, target := range targets {
		if r.AtLeast(target) {
			return true
		}
	}
	return false
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}
