// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/vitalink-health/api/internal/platform/apperr"
	"github.com/vitalink-health/api/internal/platform/sec"
)

// TokenProvider defines the contract for minting and verifying JWT pairs.
//
// # Why an interface?
//
// It decouples the service from [sec.TokenService] so unit tests can inject
// deterministic token fakes.
type TokenProvider interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	GenerateRefreshToken(userID, email, role string) (string, error)
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users              UserRepository
	resetTokens        TokenStore
	verificationTokens TokenStore
	tokens             TokenProvider
	logger             *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users UserRepository,
	resetTokens TokenStore,
	verificationTokens TokenStore,
	tokens TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:              users,
		resetTokens:        resetTokens,
		verificationTokens: verificationTokens,
		tokens:             tokens,
		logger:             logger,
	}
}

// TokenPair holds a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User *User `json:"user"`
	TokenPair
}

// RegisterInput holds the data required to enroll a new account.
//
// Either Name (a combined display name) or FirstName/LastName may be
// provided; Name is split on the first whitespace run when the separate
// fields are absent.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	FirstName string
	LastName  string
	Phone     string
}

// Register validates, hashes, and persists a brand new account, then issues
// its first token pair.
//
// # Business Rules
//   - Emails must be unique. The FindByEmail pre-check is a best-effort
//     fast path; the database unique constraint is authoritative and its
//     violation also surfaces as [apperr.Conflict].
//   - Default role is always 'user', active, email unverified.
//
// Email-verification dispatch is deliberately deferred: the token is minted
// and stored, but no mail is sent from this code path yet.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// ── 1. Name Normalization ─────────────────────────────────────────────

	firstName, lastName := input.FirstName, input.LastName
	if firstName == "" && lastName == "" {
		firstName, lastName = SplitName(input.Name)
	}

	// ── 2. Uniqueness Pre-check (best effort) ─────────────────────────────

	if _, err := service.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	user := &User{
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		FirstName:     firstName,
		LastName:      lastName,
		Phone:         input.Phone,
		Role:          sec.RoleUser, // Rule: default role is always user
		IsActive:      true,
		EmailVerified: false,
	}

	// A concurrent duplicate slips past the pre-check; the store maps the
	// unique violation to Conflict, which passes through untouched.
	if err := service.users.Create(ctx, user); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// ── 5. Verification Token ─────────────────────────────────────────────

	if err := service.issueVerificationToken(ctx, user.ID); err != nil {
		// Not fatal to registration; the user can request a resend.
		service.logger.WarnContext(ctx, "verification_token_issue_failed",
			slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	// ── 6. Token Issuance ─────────────────────────────────────────────────

	pair, err := service.mintPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: *pair}, nil
}

// Login validates credentials and issues a fresh token pair.
//
// # Security
//
// Unknown email, wrong password, and deactivated account all produce the
// identical [apperr.Unauthorized] message to prevent account enumeration.
func (service *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalidCredentials := apperr.Unauthorized("Invalid email or password")

	// ── 1. Fetch Account ──────────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, invalidCredentials
	}

	// ── 2. Status & Credential Verification ───────────────────────────────

	if !user.IsActive {
		return nil, invalidCredentials
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalidCredentials
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	pair, err := service.mintPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: *pair}, nil
}

// Refresh issues a brand-new token pair for an identity that already passed
// the refresh-token validator middleware.
//
// Rotation is a fresh mint: no server-side state is updated, and the previous
// refresh token remains technically valid until its natural expiry.
func (service *Service) Refresh(ctx context.Context, identity *sec.Identity) (*TokenPair, error) {
	user, err := service.users.FindByID(ctx, identity.ID)
	if err != nil || !user.IsActive {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return service.mintPair(user)
}

// Logout performs a best-effort verification of the supplied refresh token.
//
// There is no denylist: a previously issued token stays technically valid
// until expiry. Clients must treat logout as local token discard, not
// server-side revocation.
func (service *Service) Logout(ctx context.Context, refreshToken string) {
	if _, err := service.tokens.VerifyRefreshToken(refreshToken); err != nil {
		service.logger.DebugContext(ctx, "logout_with_invalid_refresh_token")
	}
}

// GetProfile retrieves the full profile of an account.
func (service *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return service.users.FindByID(ctx, userID)
}

// UpdateProfileInput carries the ONLY fields mutable through the profile
// endpoint. Email, role, active flag, verification flag, and the password
// hash have no representation here — stripping by construction.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile applies a partial update to the mutable profile fields.
func (service *Service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := service.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPassword issues a reset token for the account, if one exists.
//
// # Security
//
// The outcome is identical whether or not the email exists — callers learn
// nothing about account existence. Mail dispatch is handled out-of-band; the
// token is stored with a TTL so the reset link can be resolved later.
func (service *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil || !user.IsActive {
		// Swallow silently: uniform response regardless of existence.
		return nil
	}

	token, err := sec.GenerateRandomToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_reset_token_store_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "password_reset_token_issued",
		slog.Int64("user_id", user.ID))

	return nil
}

// ResetPassword consumes a reset token and replaces the account's password.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := service.resetTokens.Get(ctx, token)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired reset token")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	// Single use: the token is gone once the password changes.
	if err := service.resetTokens.Delete(ctx, token); err != nil {
		service.logger.WarnContext(ctx, "reset_token_delete_failed", slog.Any("error", err))
	}

	return nil
}

// ResendVerification issues a fresh verification token for an unverified
// account. The response is identical whether or not the email exists.
func (service *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := service.users.FindByEmail(ctx, email)
	if err != nil || !user.IsActive || user.EmailVerified {
		return nil
	}

	return service.issueVerificationToken(ctx, user.ID)
}

// VerifyEmail consumes a verification token and marks the account verified.
func (service *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := service.verificationTokens.Get(ctx, token)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired verification token")
	}

	if err := service.users.SetEmailVerified(ctx, userID); err != nil {
		return err
	}

	if err := service.verificationTokens.Delete(ctx, token); err != nil {
		service.logger.WarnContext(ctx, "verification_token_delete_failed", slog.Any("error", err))
	}

	return nil
}

// ResolveActive implements [middleware.IdentityResolver].
//
// It enforces the invariant that a deactivated account never authenticates:
// the live row is consulted on every request, so flipping is_active takes
// effect immediately even for unexpired tokens.
func (service *Service) ResolveActive(ctx context.Context, userID string) (*sec.Identity, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := service.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	return user.Identity(), nil
}

// # Internals

// mintPair issues both tokens for a user record.
func (service *Service) mintPair(user *User) (*TokenPair, error) {
	userID := strconv.FormatInt(user.ID, 10)

	accessToken, err := service.tokens.GenerateAccessToken(userID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokens.GenerateRefreshToken(userID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// issueVerificationToken mints and stores a fresh email-verification token.
func (service *Service) issueVerificationToken(ctx context.Context, userID int64) error {
	token, err := sec.GenerateRandomToken(VerificationTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	if err := service.verificationTokens.Set(ctx, token, userID, VerificationTokenTTL); err != nil {
		return fmt.Errorf("auth_service_verification_token_store_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "verification_token_issued",
		slog.Int64("user_id", userID))

	return nil
}
