// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// ErrInvalidToken is the single outcome for every access-token
// verification failure. Expired, tampered, and malformed tokens are
// indistinguishable to callers so the codec cannot be used as an
// oracle; the specific reason is logged internally.
var ErrInvalidToken = errors.New("invalid access token")

// AccessToken is the signed wire form of an access token.
type AccessToken string

func (t AccessToken) String() string {
	return string(t)
}

// AccessClaims are the identity claims carried by an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Login  string `json:"login"`
}

// TokenCodec issues and verifies access tokens signed with the key from
// an injected KeyProvider.
type TokenCodec struct {
	keys   KeyProvider
	logger *slog.Logger
}

// NewTokenCodec creates a TokenCodec using the default logger.
func NewTokenCodec(keys KeyProvider) (*TokenCodec, error) {
	return NewTokenCodecWithLogger(keys, slog.Default())
}

// NewTokenCodecWithLogger creates a TokenCodec with an explicit logger.
func NewTokenCodecWithLogger(keys KeyProvider, logger *slog.Logger) (*TokenCodec, error) {
	if keys == nil {
		return nil, oops.Code("TOKEN_NIL_DEPENDENCY").Errorf("key provider is required")
	}
	if logger == nil {
		return nil, oops.Code("TOKEN_NIL_DEPENDENCY").Errorf("logger is required")
	}
	return &TokenCodec{keys: keys, logger: logger}, nil
}

// Issue builds and signs an access token for the user. Signing only
// fails for malformed keys, which indicates a corrupted deployment.
func (c *TokenCodec) Issue(user *auth.User, expiresAt time.Time) (AccessToken, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        ulid.Make().String(),
		},
		UserID: user.ID,
		Login:  user.Login,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.keys.Key())
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").
			With("operation", "sign access token").
			With("user_id", user.ID).
			Wrap(err)
	}
	return AccessToken(signed), nil
}

// Verify checks the signature and expiry of an access token and returns
// its claims. All failures collapse to ErrInvalidToken.
func (c *TokenCodec) Verify(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.keys.Key(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		c.logger.Debug("access token rejected", "reason", err.Error())
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrInvalidToken)
	}
	if !parsed.Valid {
		c.logger.Debug("access token rejected", "reason", "claims invalid")
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrInvalidToken)
	}
	return claims, nil
}
