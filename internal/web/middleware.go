// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/session"
)

// claimsKey is the gin context key the middleware stores verified
// claims under.
const claimsKey = "gatehouse.claims"

// RequireAuth validates the Bearer access token on the request and
// stores its claims in the context. Requests without a valid token are
// rejected with 401.
func RequireAuth(codec *session.TokenCodec, metrics *observability.Metrics) gin.HandlerFunc {
	countVerification := func(outcome string) {
		if metrics != nil {
			metrics.TokenVerificationsTotal.WithLabelValues(outcome).Inc()
		}
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			countVerification("missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			countVerification("invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		countVerification("valid")
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the access claims stored by RequireAuth.
func ClaimsFromContext(c *gin.Context) (*session.AccessClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*session.AccessClaims)
	return claims, ok
}
