// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"context"
	"time"
)

// SessionRecord is the server-side half of an issued session. The
// refresh token presented by a client is only honored while a matching
// unexpired record exists.
type SessionRecord struct {
	ID           string
	UserID       int64
	RefreshToken RefreshToken
	Fingerprint  string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the record is past its expiry at the given
// instant.
func (r *SessionRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// SessionRepository persists session records.
type SessionRepository interface {
	// Create stores a new session record.
	Create(ctx context.Context, record SessionRecord) error

	// GetByToken returns the record holding the given refresh token, or
	// ErrNotFound if no such record exists.
	GetByToken(ctx context.Context, token RefreshToken) (*SessionRecord, error)

	// DeleteByToken removes the record holding the given refresh token.
	// Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token RefreshToken) error

	// DeleteExpired removes every record whose expiry is before now and
	// returns how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
