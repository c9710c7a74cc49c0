// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package sec

import "strconv"

// Identity is the authenticated principal attached to a request context.
//
// # Why a dedicated type?
//
// Handlers downstream of [middleware.Authenticate] must never see the
// credential hash of the resolved account. Identity carries everything a
// handler may need and omits the hash by construction, so there is no
// field to forget to strip.
type Identity struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

// StringID returns the decimal string form of the account ID, the shape
// used for the uid claim inside JWTs.
func (i *Identity) StringID() string {
	return strconv.FormatInt(i.ID, 10)
}
