// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package cryptoutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gatehouse/gatehouse/internal/cryptoutil"
)

func TestConstantTimeEquals(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "equal strings", a: "Ab3-_xYz", b: "Ab3-_xYz", want: true},
		{name: "empty strings", a: "", b: "", want: true},
		{name: "differ in first byte", a: "Xb3-_xYz", b: "Ab3-_xYz", want: false},
		{name: "differ in last byte", a: "Ab3-_xYa", b: "Ab3-_xYz", want: false},
		{name: "different lengths", a: "short", b: "longer value", want: false},
		{name: "prefix of the other", a: "abc", b: "abcdef", want: false},
		{name: "long equal strings", a: strings.Repeat("k", 1024), b: strings.Repeat("k", 1024), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cryptoutil.ConstantTimeEquals(tt.a, tt.b))
		})
	}
}

func TestConstantTimeEquals_Symmetric(t *testing.T) {
	a, b := "AAAAAAAA", "AAAAAAAB"
	assert.Equal(t, cryptoutil.ConstantTimeEquals(a, b), cryptoutil.ConstantTimeEquals(b, a))
}
