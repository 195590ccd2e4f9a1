// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package cryptoutil provides small cryptographic helpers shared by the
// credential and token layers.
package cryptoutil

import "crypto/subtle"

// ConstantTimeEquals reports whether a and b are equal without leaking
// the position of the first differing byte through timing. Inputs of
// different lengths return false immediately; length is not treated as
// secret, only content is.
func ConstantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
