// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"crypto/rand"

	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/cryptoutil"
)

// RefreshTokenLen is the wire length of a refresh token in characters.
const RefreshTokenLen = 8

// refreshAlphabet is the 64-symbol URL-safe alphabet refresh tokens are
// drawn from. Indexing by byte mod 64 is exactly uniform because 256 is
// a multiple of 64; changing the alphabet size would introduce modulo
// bias.
const refreshAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// RefreshToken is a long-lived opaque credential. It carries no claims;
// the server-side SessionRecord is the source of truth.
type RefreshToken string

// GenerateRefreshToken draws a new high-entropy refresh token.
func GenerateRefreshToken() (RefreshToken, error) {
	var buf [RefreshTokenLen]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}

	for i, b := range buf {
		buf[i] = refreshAlphabet[b%64]
	}
	return RefreshToken(buf[:]), nil
}

// Equal compares two refresh tokens in constant time. A short-circuit
// comparison would leak prefix-match information through timing.
func (t RefreshToken) Equal(other RefreshToken) bool {
	return cryptoutil.ConstantTimeEquals(string(t), string(other))
}

func (t RefreshToken) String() string {
	return string(t)
}
