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

func TestNewUser_Validate(t *testing.T) {
	valid := auth.NewUser{
		Login:    "alice",
		Email:    "alice@example.com",
		Password: auth.RawPassword("hunter2"),
	}

	t.Run("valid proposal passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("boundary lengths pass", func(t *testing.T) {
		u := valid
		u.Login = "a"
		u.Email = strings.Repeat("e", auth.MaxFieldLen)
		assert.NoError(t, u.Validate())
	})

	tests := []struct {
		name  string
		mod   func(u *auth.NewUser)
		field string
	}{
		{name: "empty login", mod: func(u *auth.NewUser) { u.Login = "" }, field: "login"},
		{name: "overlong login", mod: func(u *auth.NewUser) { u.Login = strings.Repeat("l", auth.MaxFieldLen+1) }, field: "login"},
		{name: "empty email", mod: func(u *auth.NewUser) { u.Email = "" }, field: "email"},
		{name: "overlong email", mod: func(u *auth.NewUser) { u.Email = strings.Repeat("e", 1000) }, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mod(&u)

			err := u.Validate()
			require.Error(t, err)

			var constraintErr *auth.ConstraintError
			require.ErrorAs(t, err, &constraintErr)
			assert.Equal(t, tt.field, constraintErr.Field)
		})
	}
}
