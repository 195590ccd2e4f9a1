// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRefreshToken(t *testing.T) {
	t.Run("every token is exactly eight alphabet characters", func(t *testing.T) {
		for range 10000 {
			token, err := GenerateRefreshToken()
			require.NoError(t, err)
			require.Len(t, string(token), RefreshTokenLen)
			for _, ch := range string(token) {
				require.True(t, strings.ContainsRune(refreshAlphabet, ch),
					"unexpected character %q in token %q", ch, token)
			}
		}
	})

	t.Run("consecutive tokens differ", func(t *testing.T) {
		seen := make(map[RefreshToken]bool)
		for range 100 {
			token, err := GenerateRefreshToken()
			require.NoError(t, err)
			require.False(t, seen[token], "token %q repeated", token)
			seen[token] = true
		}
	})
}

func TestRefreshToken_Equal(t *testing.T) {
	assert.True(t, RefreshToken("aB3-_9xZ").Equal(RefreshToken("aB3-_9xZ")))
	assert.False(t, RefreshToken("aB3-_9xZ").Equal(RefreshToken("aB3-_9xY")))
	assert.False(t, RefreshToken("aB3-_9xZ").Equal(RefreshToken("aB3-_9x")))
	assert.True(t, RefreshToken("").Equal(RefreshToken("")))
}
