// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/session"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// Handlers contains the HTTP handlers for the API endpoints.
type Handlers struct {
	auth    *auth.Service
	issuer  *session.Issuer
	users   auth.UserRepository
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandlers creates the API handlers from the router configuration.
func NewHandlers(cfg RouterConfig) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		auth:    cfg.Auth,
		issuer:  cfg.Issuer,
		users:   cfg.Users,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// sessionResponse is the token pair returned by sign-in and refresh.
type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func newSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		AccessToken:  s.AccessToken.String(),
		RefreshToken: s.RefreshToken.String(),
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(s.AccessExpiresAt).Round(time.Second).Seconds()),
	}
}

// SignUp handles POST /api/users.
func (h *Handlers) SignUp(c *gin.Context) {
	var req auth.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		var constraint *auth.ConstraintError
		switch {
		case errors.As(err, &constraint):
			h.countSignup("constraint_violation")
			c.JSON(http.StatusBadRequest, gin.H{"error": constraint.Error()})
		case errors.Is(err, auth.ErrDuplicateLogin):
			h.countSignup("duplicate_login")
			c.JSON(http.StatusConflict, gin.H{"error": "login already taken"})
		default:
			h.countSignup("error")
			errutil.LogError(h.logger, "sign-up failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.countSignup("success")
	c.JSON(http.StatusCreated, user)
}

// SignIn handles POST /api/sessions. Unknown logins and wrong passwords
// get the same response so the endpoint does not reveal which logins
// exist.
func (h *Handlers) SignIn(c *gin.Context) {
	var req struct {
		Login       string `json:"login" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownLogin):
			h.countSignin("unknown_login")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login or password"})
		case errors.Is(err, auth.ErrIncorrectPassword):
			h.countSignin("incorrect_password")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid login or password"})
		default:
			h.countSignin("error")
			errutil.LogError(h.logger, "sign-in failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	sess, err := h.issuer.CreateSession(c.Request.Context(), user, h.fingerprint(c, req.Fingerprint))
	if err != nil {
		h.countSignin("error")
		errutil.LogError(h.logger, "session creation failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.countSignin("success")
	if h.metrics != nil {
		h.metrics.SessionsIssuedTotal.Inc()
	}
	c.JSON(http.StatusOK, newSessionResponse(sess))
}

// Refresh handles POST /api/sessions/refresh. All rejections look the
// same to the client; the reason is logged server-side.
func (h *Handlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
		Fingerprint  string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.issuer.Refresh(c.Request.Context(), session.RefreshToken(req.RefreshToken), h.fingerprint(c, req.Fingerprint))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound),
			errors.Is(err, session.ErrSessionExpired),
			errors.Is(err, session.ErrFingerprintMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		default:
			errutil.LogError(h.logger, "session refresh failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsIssuedTotal.Inc()
	}
	c.JSON(http.StatusOK, newSessionResponse(sess))
}

// Logout handles DELETE /api/sessions.
func (h *Handlers) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.issuer.Revoke(c.Request.Context(), session.RefreshToken(req.RefreshToken)); err != nil {
		errutil.LogError(h.logger, "logout failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		errutil.LogError(h.logger, "user listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if users == nil {
		users = []*auth.User{}
	}
	c.JSON(http.StatusOK, users)
}

// Me handles GET /api/me, returning the identity of the caller's access
// token.
func (h *Handlers) Me(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"login":   claims.Login,
	})
}

// fingerprint resolves the client fingerprint: an explicit value from
// the request body wins, the User-Agent header is the fallback.
func (h *Handlers) fingerprint(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return c.Request.UserAgent()
}

func (h *Handlers) countSignup(outcome string) {
	if h.metrics != nil {
		h.metrics.SignupsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handlers) countSignin(outcome string) {
	if h.metrics != nil {
		h.metrics.SigninsTotal.WithLabelValues(outcome).Inc()
	}
}
