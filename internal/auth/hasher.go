// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/scrypt"

	"github.com/gatehouse/gatehouse/internal/cryptoutil"
)

const (
	scryptSaltLen = 16 // salt length in bytes
	scryptKeyLen  = 32 // derived key length in bytes
)

// Params are the scrypt work-factor parameters. The cost of a single
// hash is deliberate: it is what slows brute-force.
type Params struct {
	LogN uint8 // CPU/memory cost exponent, N = 1 << LogN
	R    int   // block size
	P    int   // parallelism
}

// RecommendedParams returns the vetted default parameter set used when
// no configuration is supplied.
func RecommendedParams() Params {
	return Params{LogN: 15, R: 8, P: 1}
}

// Validate checks that the parameters are usable by scrypt.
func (p Params) Validate() error {
	if p.LogN < 10 || p.LogN > 31 {
		return oops.Code("AUTH_INVALID_PARAMS").With("log_n", p.LogN).Errorf("scrypt log_n must be in [10, 31]")
	}
	if p.R <= 0 || p.P <= 0 {
		return oops.Code("AUTH_INVALID_PARAMS").With("r", p.R).With("p", p.P).Errorf("scrypt r and p must be positive")
	}
	return nil
}

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash derives the hashed form of a raw password. Passing an
	// already-hashed value is a programming error and fails.
	Hash(password Password) (Password, error)

	// Verify checks a raw candidate against a stored hash string.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an
	// error when the stored hash is malformed.
	Verify(candidate, stored string) (bool, error)
}

// ScryptHasher implements PasswordHasher using scrypt. The output embeds
// the algorithm parameters and salt, so verification is self-describing:
//
//	$scrypt$ln=15,r=8,p=1$<b64 salt>$<b64 key>
type ScryptHasher struct {
	params Params
}

// NewScryptHasher creates a ScryptHasher with the given work factors.
func NewScryptHasher(params Params) (*ScryptHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ScryptHasher{params: params}, nil
}

// Hash derives the hashed form of a raw password.
func (h *ScryptHasher) Hash(password Password) (Password, error) {
	if password.IsHashed() {
		return Password{}, oops.Code("AUTH_ALREADY_HASHED").Errorf("password is already hashed")
	}

	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return Password{}, oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key, err := scrypt.Key([]byte(password.plaintext()), salt, 1<<h.params.LogN, h.params.R, h.params.P, scryptKeyLen)
	if err != nil {
		return Password{}, oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}

	encoded := fmt.Sprintf(
		"$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		h.params.LogN,
		h.params.R,
		h.params.P,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return HashedFromStorage(encoded), nil
}

// Verify checks a raw candidate against a stored hash string. The work
// factors embedded in the stored value take precedence over the
// hasher's own configuration, so old hashes keep verifying after a
// parameter change.
func (h *ScryptHasher) Verify(candidate, stored string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 5 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash format")
	}
	if parts[1] != "scrypt" {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var logN uint8
	var r, p int
	if _, err := fmt.Sscanf(parts[2], "ln=%d,r=%d,p=%d", &logN, &r, &p); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(expected) == 0 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("empty derived key")
	}

	computed, err := scrypt.Key([]byte(candidate), salt, 1<<logN, r, p, len(expected))
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}

	return cryptoutil.ConstantTimeEquals(string(computed), string(expected)), nil
}
