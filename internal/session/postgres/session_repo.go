// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package postgres implements the session repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/session"
)

// poolIface is the subset of pgxpool.Pool used by repositories. It lets
// tests substitute pgxmock without a live database.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionRepository implements session.SessionRepository using
// PostgreSQL.
type SessionRepository struct {
	pool poolIface
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session record.
func (r *SessionRepository) Create(ctx context.Context, record session.SessionRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, refresh_token, fingerprint, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.UserID, string(record.RefreshToken), record.Fingerprint, record.ExpiresAt, record.CreatedAt)
	if err != nil {
		return oops.Code("STORE_SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("session_id", record.ID).
			With("user_id", record.UserID).
			Wrap(err)
	}
	return nil
}

// GetByToken returns the record holding the given refresh token.
func (r *SessionRepository) GetByToken(ctx context.Context, token session.RefreshToken) (*session.SessionRecord, error) {
	var (
		record  session.SessionRecord
		refresh string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, refresh_token, fingerprint, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1
	`, string(token)).Scan(
		&record.ID, &record.UserID, &refresh, &record.Fingerprint,
		&record.ExpiresAt, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("STORE_SESSION_NOT_FOUND").Wrap(session.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("STORE_SESSION_GET_FAILED").
			With("operation", "get session by token").
			Wrap(err)
	}

	record.RefreshToken = session.RefreshToken(refresh)
	return &record, nil
}

// DeleteByToken removes the record holding the given refresh token.
// Deleting an absent token is not an error.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token session.RefreshToken) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE refresh_token = $1
	`, string(token))
	if err != nil {
		return oops.Code("STORE_SESSION_DELETE_FAILED").
			With("operation", "delete session by token").
			Wrap(err)
	}
	return nil
}

// DeleteExpired removes every record whose expiry is before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1
	`, now)
	if err != nil {
		return 0, oops.Code("STORE_SESSION_PURGE_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return tag.RowsAffected(), nil
}

// Compile-time interface check.
var _ session.SessionRepository = (*SessionRepository)(nil)
