// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import "errors"

var (
	// ErrNotFound indicates no session record holds the given refresh
	// token.
	ErrNotFound = errors.New("session not found")

	// ErrSessionExpired indicates the refresh token matched a record
	// whose lifetime has run out.
	ErrSessionExpired = errors.New("session expired")

	// ErrFingerprintMismatch indicates the refresh token was presented
	// from a client that does not match the one the session was issued
	// to.
	ErrFingerprintMismatch = errors.New("session fingerprint mismatch")
)
