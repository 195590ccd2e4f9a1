// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// testParams keeps test runs fast; production defaults come from
// auth.RecommendedParams.
var testParams = auth.Params{LogN: 10, R: 8, P: 1}

func newTestHasher(t *testing.T) *auth.ScryptHasher {
	t.Helper()
	hasher, err := auth.NewScryptHasher(testParams)
	require.NoError(t, err)
	return hasher
}

func TestNewScryptHasher_ValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		params auth.Params
	}{
		{name: "log_n too small", params: auth.Params{LogN: 5, R: 8, P: 1}},
		{name: "zero r", params: auth.Params{LogN: 15, R: 0, P: 1}},
		{name: "zero p", params: auth.Params{LogN: 15, R: 8, P: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.NewScryptHasher(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestScryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher(t)

	t.Run("produces self-describing hash", func(t *testing.T) {
		hashed, err := hasher.Hash(auth.RawPassword("password123"))
		require.NoError(t, err)
		require.True(t, hashed.IsHashed())

		hash, err := hashed.Hash()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$scrypt$ln=10,r=8,p=1$"))
	})

	t.Run("same password hashes differently by salt", func(t *testing.T) {
		h1, err := hasher.Hash(auth.RawPassword("samepassword"))
		require.NoError(t, err)
		h2, err := hasher.Hash(auth.RawPassword("samepassword"))
		require.NoError(t, err)
		assert.NotEqual(t, h1.String(), h2.String())
	})

	t.Run("rejects an already-hashed value", func(t *testing.T) {
		hashed, err := hasher.Hash(auth.RawPassword("password123"))
		require.NoError(t, err)

		_, err = hasher.Hash(hashed)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already hashed")
	})
}

func TestScryptHasher_Verify(t *testing.T) {
	hasher := newTestHasher(t)

	t.Run("correct password verifies", func(t *testing.T) {
		hashed, err := hasher.Hash(auth.RawPassword("correctpassword"))
		require.NoError(t, err)
		stored, err := hashed.Hash()
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", stored)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails cleanly", func(t *testing.T) {
		hashed, err := hasher.Hash(auth.RawPassword("correctpassword"))
		require.NoError(t, err)
		stored, err := hashed.Hash()
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", stored)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("verification uses the stored parameters", func(t *testing.T) {
		// Hash with one parameter set, verify with a hasher configured
		// differently: the embedded parameters must win.
		other, err := auth.NewScryptHasher(auth.Params{LogN: 11, R: 4, P: 2})
		require.NoError(t, err)
		hashed, err := other.Hash(auth.RawPassword("migrated"))
		require.NoError(t, err)
		stored, err := hashed.Hash()
		require.NoError(t, err)

		ok, err := hasher.Verify("migrated", stored)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("malformed stored hash is an error, not a mismatch", func(t *testing.T) {
		tests := []struct {
			name   string
			stored string
		}{
			{name: "not a hash at all", stored: "not-a-valid-hash"},
			{name: "wrong algorithm", stored: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
			{name: "garbled parameters", stored: "$scrypt$lnXX$c2FsdA$aGFzaA"},
			{name: "bad salt encoding", stored: "$scrypt$ln=10,r=8,p=1$!!!$aGFzaA"},
			{name: "bad key encoding", stored: "$scrypt$ln=10,r=8,p=1$c2FsdA$!!!"},
			{name: "missing segments", stored: "$scrypt$ln=10,r=8,p=1$c2FsdA"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := hasher.Verify("password", tt.stored)
				assert.Error(t, err)
			})
		}
	})
}

func TestScryptHasher_RoundTripVariedPasswords(t *testing.T) {
	hasher := newTestHasher(t)

	for _, password := range []string{"a", "pa55word!", "пароль", "with spaces and €", strings.Repeat("x", 200)} {
		hashed, err := hasher.Hash(auth.RawPassword(password))
		require.NoError(t, err)
		stored, err := hashed.Hash()
		require.NoError(t, err)

		ok, err := hasher.Verify(password, stored)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify against its own hash", password)

		ok, err = hasher.Verify(password+"-", stored)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}
