// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Why classify here?
//
// The application-level existence checks (e.g. "is this email taken?") are
// best-effort optimizations with an unavoidable race window. The authoritative
// duplicate guard is the database's unique constraint, so its violation must
// surface as a client-facing Conflict rather than a 500.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vitalink-health/api/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the
// error type.
//
//   - pgx.ErrNoRows            → 404 NotFound for the named resource.
//   - SQLSTATE 23505 (unique)  → 409 Conflict naming the duplicate resource.
//   - anything else            → 500 Internal (cause kept for logging only).
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if IsUniqueViolation(err) {
		return apperr.Conflict(resource + " already exists")
	}

	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}
