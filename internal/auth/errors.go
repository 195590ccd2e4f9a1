// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateLogin is returned when a login is already taken.
	ErrDuplicateLogin = errors.New("login already taken")

	// ErrUnknownLogin is returned by SignIn when no user has the given
	// login. Kept distinct from ErrIncorrectPassword for telemetry;
	// transports must report both identically.
	ErrUnknownLogin = errors.New("unknown login")

	// ErrIncorrectPassword is returned by SignIn when the user exists
	// but the candidate password does not verify.
	ErrIncorrectPassword = errors.New("incorrect password")
)
