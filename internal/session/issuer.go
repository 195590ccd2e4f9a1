// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// Default token lifetimes. Access tokens are short-lived because they
// cannot be revoked; refresh tokens carry the week-long session.
const (
	DefaultAccessLifetime  = 30 * time.Minute
	DefaultRefreshLifetime = 7 * 24 * time.Hour
)

// Session is the token pair handed to a client after sign-in.
type Session struct {
	AccessToken     AccessToken
	RefreshToken    RefreshToken
	AccessExpiresAt time.Time
}

// UserGetter loads a user by primary key. The session package needs
// exactly this slice of the user store to rebuild claims on refresh.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// Issuer creates sessions and rotates them on refresh.
type Issuer struct {
	codec      *TokenCodec
	sessions   SessionRepository
	users      UserGetter
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// IssuerOption customizes an Issuer.
type IssuerOption func(*Issuer)

// WithAccessLifetime overrides the access-token lifetime.
func WithAccessLifetime(d time.Duration) IssuerOption {
	return func(i *Issuer) { i.accessTTL = d }
}

// WithRefreshLifetime overrides the refresh-token lifetime.
func WithRefreshLifetime(d time.Duration) IssuerOption {
	return func(i *Issuer) { i.refreshTTL = d }
}

// WithIssuerLogger overrides the issuer's logger.
func WithIssuerLogger(logger *slog.Logger) IssuerOption {
	return func(i *Issuer) { i.logger = logger }
}

// NewIssuer creates an Issuer with the default lifetimes unless
// overridden by options.
func NewIssuer(codec *TokenCodec, sessions SessionRepository, users UserGetter, opts ...IssuerOption) (*Issuer, error) {
	if codec == nil {
		return nil, oops.Code("SESSION_NIL_DEPENDENCY").Errorf("token codec is required")
	}
	if sessions == nil {
		return nil, oops.Code("SESSION_NIL_DEPENDENCY").Errorf("session repository is required")
	}
	if users == nil {
		return nil, oops.Code("SESSION_NIL_DEPENDENCY").Errorf("user getter is required")
	}

	issuer := &Issuer{
		codec:      codec,
		sessions:   sessions,
		users:      users,
		accessTTL:  DefaultAccessLifetime,
		refreshTTL: DefaultRefreshLifetime,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}

	if issuer.accessTTL <= 0 || issuer.refreshTTL <= 0 {
		return nil, oops.Code("SESSION_BAD_LIFETIME").
			With("access_lifetime", issuer.accessTTL).
			With("refresh_lifetime", issuer.refreshTTL).
			Errorf("token lifetimes must be positive")
	}
	return issuer, nil
}

// CreateSession issues a fresh token pair for the user and persists the
// refresh half. The fingerprint identifies the client the session was
// issued to and is checked again on refresh.
func (i *Issuer) CreateSession(ctx context.Context, user *auth.User, fingerprint string) (*Session, error) {
	now := i.now()

	refresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	accessExpiry := now.Add(i.accessTTL)
	access, err := i.codec.Issue(user, accessExpiry)
	if err != nil {
		return nil, err
	}

	record := SessionRecord{
		ID:           ulid.Make().String(),
		UserID:       user.ID,
		RefreshToken: refresh,
		Fingerprint:  fingerprint,
		ExpiresAt:    now.Add(i.refreshTTL),
		CreatedAt:    now,
	}
	if err := i.sessions.Create(ctx, record); err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("user_id", user.ID).
			Wrap(err)
	}

	i.logger.Info("session created",
		"session_id", record.ID,
		"user_id", user.ID,
		"expires_at", record.ExpiresAt)

	return &Session{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: accessExpiry,
	}, nil
}

// Refresh exchanges a refresh token for a new session. The presented
// token is consumed whether or not the exchange succeeds so a stolen
// token cannot be replayed.
func (i *Issuer) Refresh(ctx context.Context, token RefreshToken, fingerprint string) (*Session, error) {
	now := i.now()

	record, err := i.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_UNKNOWN_TOKEN").Wrap(ErrNotFound)
		}
		return nil, oops.Code("SESSION_LOOKUP_FAILED").Wrap(err)
	}

	if err := i.sessions.DeleteByToken(ctx, token); err != nil {
		return nil, oops.Code("SESSION_ROTATE_FAILED").
			With("session_id", record.ID).
			Wrap(err)
	}

	if record.Expired(now) {
		i.logger.Info("refresh rejected", "session_id", record.ID, "reason", "expired")
		return nil, oops.Code("SESSION_EXPIRED").
			With("session_id", record.ID).
			Wrap(ErrSessionExpired)
	}
	if record.Fingerprint != fingerprint {
		i.logger.Warn("refresh rejected", "session_id", record.ID, "reason", "fingerprint mismatch")
		return nil, oops.Code("SESSION_FINGERPRINT_MISMATCH").
			With("session_id", record.ID).
			Wrap(ErrFingerprintMismatch)
	}

	user, err := i.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, oops.Code("SESSION_USER_LOOKUP_FAILED").
			With("user_id", record.UserID).
			Wrap(err)
	}

	return i.CreateSession(ctx, user, fingerprint)
}

// Revoke deletes the session holding the refresh token. Revoking an
// unknown token succeeds; the end state is the same.
func (i *Issuer) Revoke(ctx context.Context, token RefreshToken) error {
	if err := i.sessions.DeleteByToken(ctx, token); err != nil {
		return oops.Code("SESSION_REVOKE_FAILED").Wrap(err)
	}
	return nil
}

// PurgeExpired removes session records past their expiry.
func (i *Issuer) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := i.sessions.DeleteExpired(ctx, i.now())
	if err != nil {
		return 0, oops.Code("SESSION_PURGE_FAILED").Wrap(err)
	}
	if deleted > 0 {
		i.logger.Info("expired sessions purged", "count", deleted)
	}
	return deleted, nil
}
