// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"fmt"
	"time"
)

// MaxFieldLen bounds login and email lengths.
const MaxFieldLen = 250

// User is an identity record. The password is carried in hashed form
// once stored and is excluded from JSON: clients never see it.
type User struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser is a sign-up proposal. Password unmarshals from the wire as
// raw plaintext and must be hashed before the record reaches storage.
type NewUser struct {
	Login    string   `json:"login"`
	Email    string   `json:"email"`
	Password Password `json:"password"`
}

// ConstraintError reports a field whose length is out of bounds.
type ConstraintError struct {
	Field string
	Len   int
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s length %d out of bounds [1, %d]", e.Field, e.Len, MaxFieldLen)
}

// Validate rejects empty or overlong login and email.
func (u NewUser) Validate() error {
	if n := len(u.Login); n < 1 || n > MaxFieldLen {
		return &ConstraintError{Field: "login", Len: n}
	}
	if n := len(u.Email); n < 1 || n > MaxFieldLen {
		return &ConstraintError{Field: "email", Len: n}
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and returns it with the storage-assigned
	// ID. The proposal's password must already be hashed. Returns
	// ErrDuplicateLogin when the login is taken.
	Create(ctx context.Context, user NewUser) (*User, error)

	// GetByLogin retrieves a user by exact login.
	// Returns ErrNotFound when no such user exists.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*User, error)
}
