// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"crypto/rand"

	"github.com/samber/oops"
)

// secretKeyLen is the size of the HS256 signing key in bytes.
const secretKeyLen = 32

// KeyProvider supplies the symmetric key used to sign and verify access
// tokens. The returned slice must be stable for the provider's lifetime
// and is read concurrently without locking.
type KeyProvider interface {
	Key() []byte
}

// EphemeralKey is a KeyProvider holding a random key generated at
// construction. It lives as long as the process; nothing is persisted.
type EphemeralKey struct {
	key []byte
}

// NewEphemeralKey generates a fresh random signing key.
func NewEphemeralKey() (*EphemeralKey, error) {
	key := make([]byte, secretKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, oops.Code("SESSION_KEY_FAILED").
			With("operation", "generate secret key").
			Wrap(err)
	}
	return &EphemeralKey{key: key}, nil
}

// Key returns the signing key.
func (k *EphemeralKey) Key() []byte {
	return k.key
}

// StaticKey is a KeyProvider wrapping a caller-supplied key: fixed keys
// in tests, durable keys in deployments that must survive restarts.
type StaticKey []byte

// Key returns the signing key.
func (k StaticKey) Key() []byte {
	return k
}
