// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package web exposes the HTTP API: sign-up, sign-in, session refresh,
// and the authenticated user endpoints.
package web

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/session"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Auth   *auth.Service
	Issuer *session.Issuer
	Codec  *session.TokenCodec
	Users  auth.UserRepository

	// Metrics is optional; nil disables instrumentation.
	Metrics *observability.Metrics

	// Logger is optional; nil falls back to slog.Default.
	Logger *slog.Logger
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	handlers := NewHandlers(cfg)

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/users", handlers.SignUp)
		api.POST("/sessions", handlers.SignIn)
		api.POST("/sessions/refresh", handlers.Refresh)
		api.DELETE("/sessions", handlers.Logout)
	}

	protected := api.Group("")
	protected.Use(RequireAuth(cfg.Codec, cfg.Metrics))
	{
		protected.GET("/users", handlers.ListUsers)
		protected.GET("/me", handlers.Me)
	}

	return router
}
