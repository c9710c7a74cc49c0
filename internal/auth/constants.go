// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the character length of the random reset token.
	ResetTokenLength = 48

	// VerificationTokenTTL is the duration an email verification token
	// remains valid. Long-lived (24 hours) as users might not check email
	// immediately.
	VerificationTokenTTL = 24 * time.Hour

	// VerificationTokenLength is the character length of the random
	// verification token.
	VerificationTokenLength = 48

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)
