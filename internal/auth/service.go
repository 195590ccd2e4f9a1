// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service provides sign-up and sign-in orchestration.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger
}

// dummyPasswordHash is verified when a login is unknown so that the
// response time of sign-in does not reveal whether the login exists.
// This is NOT a real credential: the all-zero salt and key never match
// any password.
const dummyPasswordHash = "$scrypt$ln=15,r=8,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// NewService creates a Service using the default logger.
func NewService(users UserRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, hasher, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("logger is required")
	}
	return &Service{users: users, hasher: hasher, logger: logger}, nil
}

// SignUp validates the proposal, hashes its password, and stores the
// user. Returns ConstraintError for out-of-bounds fields and
// ErrDuplicateLogin when the login is taken.
func (s *Service) SignUp(ctx context.Context, proposal NewUser) (*User, error) {
	if err := proposal.Validate(); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(proposal.Password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			With("login", proposal.Login).
			Wrap(err)
	}
	proposal.Password = hashed

	user, err := s.users.Create(ctx, proposal)
	if err != nil {
		if errors.Is(err, ErrDuplicateLogin) {
			return nil, err
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "insert user").
			With("login", proposal.Login).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "login", user.Login)
	return user, nil
}

// SignIn authenticates a user by login and raw password. The failure
// taxonomy is kept internally: ErrUnknownLogin when no user has the
// login, ErrIncorrectPassword when verification fails. Callers must
// present both to clients identically.
func (s *Service) SignIn(ctx context.Context, login, password string) (*User, error) {
	user, lookupErr := s.users.GetByLogin(ctx, login)

	// Verify against a dummy hash when the login is unknown so the
	// derivation cost is paid on both paths.
	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		hash, err := user.Password.Hash()
		if err != nil {
			return nil, oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "read stored hash").
				Wrap(err)
		}
		targetHash = hash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// fall through to dummy verification
	default:
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "get user by login").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		// A stored hash that cannot be parsed is a data integrity
		// violation, not an ordinary mismatch.
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			With("user_id", user.ID).
			Wrap(verifyErr)
	}

	if !userExists {
		s.logger.InfoContext(ctx, "sign-in failed", "reason", "unknown_login")
		return nil, oops.Code("AUTH_UNKNOWN_LOGIN").Wrap(ErrUnknownLogin)
	}
	if !valid {
		s.logger.InfoContext(ctx, "sign-in failed", "reason", "incorrect_password", "user_id", user.ID)
		return nil, oops.Code("AUTH_INCORRECT_PASSWORD").With("user_id", user.ID).Wrap(ErrIncorrectPassword)
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID, "login", user.Login)
	return user, nil
}
