// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"encoding/json"
	"log/slog"

	"github.com/samber/oops"
)

// ErrRawPassword is returned when a raw password reaches a sink that
// only accepts the hashed form (storage, serialization).
var ErrRawPassword = oops.Code("AUTH_RAW_PASSWORD").Errorf("raw password must be hashed before use")

// Password is a credential in one of two states: raw plaintext as
// supplied by a user, or the one-way hashed form produced by a
// PasswordHasher. The zero value is an empty raw password.
//
// Raw values must never be persisted, serialized outward, or compared
// directly; replace them with the hashed form first. Comparison of two
// Passwords with == is meaningless and unsupported — verification goes
// through PasswordHasher.Verify.
type Password struct {
	value  string
	hashed bool
}

// RawPassword wraps user-supplied plaintext.
func RawPassword(plaintext string) Password {
	return Password{value: plaintext}
}

// HashedFromStorage wraps a hash string loaded from storage.
func HashedFromStorage(hash string) Password {
	return Password{value: hash, hashed: true}
}

// IsHashed reports whether the password is in hashed form.
func (p Password) IsHashed() bool {
	return p.hashed
}

// Hash returns the storage form. It fails on a raw password: callers
// must hash through a PasswordHasher first.
func (p Password) Hash() (string, error) {
	if !p.hashed {
		return "", ErrRawPassword
	}
	return p.value, nil
}

// plaintext exposes the raw value to the hasher in this package.
func (p Password) plaintext() string {
	return p.value
}

// String redacts the raw form. The hashed form is safe to print: it is
// exactly what storage holds.
func (p Password) String() string {
	if !p.hashed {
		return ".."
	}
	return p.value
}

// LogValue keeps raw passwords out of structured logs.
func (p Password) LogValue() slog.Value {
	return slog.StringValue(p.String())
}

// MarshalJSON serializes the hashed form only; marshaling a raw
// password is an error, never a silent plaintext leak.
func (p Password) MarshalJSON() ([]byte, error) {
	if !p.hashed {
		return nil, ErrRawPassword
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON always produces a raw password: anything arriving over
// the wire is plaintext until a hasher says otherwise.
func (p *Password) UnmarshalJSON(data []byte) error {
	var plaintext string
	if err := json.Unmarshal(data, &plaintext); err != nil {
		return oops.Code("AUTH_PASSWORD_DECODE_FAILED").Wrap(err)
	}
	*p = RawPassword(plaintext)
	return nil
}
