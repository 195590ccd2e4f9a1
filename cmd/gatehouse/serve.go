// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse/gatehouse/internal/auth"
	authpg "github.com/gatehouse/gatehouse/internal/auth/postgres"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/logging"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/internal/session"
	sessionpg "github.com/gatehouse/gatehouse/internal/session/postgres"
	"github.com/gatehouse/gatehouse/internal/store"
	"github.com/gatehouse/gatehouse/internal/web"
)

// purgeInterval is how often expired session records are removed.
const purgeInterval = time.Hour

// newServeCmd creates the serve subcommand with all flags configured.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server which handles sign-up, sign-in, and
session management requests.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd)
		},
	}

	// Flag names mirror config keys so flags override the config file.
	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("observability.addr", "", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", "", "log format (json or text)")

	return cmd
}

// runServe starts the API server process.
func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("gatehouse", version, cfg.Log.Format)

	slog.Info("starting gatehouse",
		"server_addr", cfg.Server.Addr,
		"observability_addr", cfg.Observability.Addr,
		"log_format", cfg.Log.Format,
	)

	pool, err := store.NewPool(ctx, store.PoolConfig{
		URL:         cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		PingRetries: cfg.Database.PingRetries,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("database pool ready")

	users := authpg.NewUserRepository(pool)
	sessions := sessionpg.NewSessionRepository(pool)

	hasher, err := auth.NewScryptHasher(cfg.Scrypt.Params())
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(users, hasher)
	if err != nil {
		return err
	}

	// A fresh signing key per process: access tokens die with the
	// process, refresh tokens survive in the database.
	key, err := session.NewEphemeralKey()
	if err != nil {
		return err
	}
	codec, err := session.NewTokenCodec(key)
	if err != nil {
		return err
	}
	issuer, err := session.NewIssuer(codec, sessions, users,
		session.WithAccessLifetime(cfg.Session.AccessLifetime),
		session.WithRefreshLifetime(cfg.Session.RefreshLifetime),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Observability.Addr != "" {
		obsServer = observability.NewServer(cfg.Observability.Addr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("SERVE_FAILED").With("operation", "start observability server").Wrap(err)
		}
		metrics = obsServer.Metrics()
		go func() {
			if obsErr := <-obsErrCh; obsErr != nil {
				slog.Error("observability server error", "error", obsErr)
			}
		}()
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	router := web.NewRouter(web.RouterConfig{
		Auth:    authSvc,
		Issuer:  issuer,
		Codec:   codec,
		Users:   users,
		Metrics: metrics,
		Logger:  slog.Default(),
	})

	apiServer := web.NewServer(cfg.Server.Addr, router)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return oops.Code("SERVE_FAILED").With("operation", "start api server").Wrap(err)
	}
	go func() {
		if apiErr := <-apiErrCh; apiErr != nil {
			slog.Error("api server error", "error", apiErr)
			cancel()
		}
	}()

	// Periodically remove expired session records.
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, purgeErr := issuer.PurgeExpired(ctx); purgeErr != nil {
					slog.Warn("session purge failed", "error", purgeErr)
				}
			}
		}
	}()

	cmd.Println("Gatehouse started")
	slog.Info("gatehouse ready", "api_addr", apiServer.Addr())

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}
