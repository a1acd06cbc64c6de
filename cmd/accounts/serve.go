// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/auth/postgres"
	"github.com/calcuzon/accounts/internal/config"
	"github.com/calcuzon/accounts/internal/logging"
	"github.com/calcuzon/accounts/internal/observability"
	"github.com/calcuzon/accounts/internal/store"
	"github.com/calcuzon/accounts/internal/tokencache"
	"github.com/calcuzon/accounts/internal/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the accounts API server",
		Long: `Start the HTTP API together with the metrics and health endpoints.
Configuration comes from the config file, ACCOUNTS_* environment
variables and the flags below, in increasing order of precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// tokenCache is the token cache the service runs with, plus its readiness probe.
type tokenCache struct {
	auth.TokenCache
	ping  observability.ReadinessCheck
	close func() error
}

// runServeWithDeps starts the API with injectable dependencies and blocks
// until a signal arrives, ctx is cancelled or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.SetDefault("accounts", version, cfg.Log.Format, cfg.Log.Level)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("starting accounts service",
		"http_addr", cfg.HTTP.Addr,
		"cache_backend", cfg.Cache.Backend,
		"hasher", cfg.Auth.Hasher,
	)

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(cfg.Database.URL, deps); err != nil {
			return err
		}
	}

	connectOpts := store.DefaultConnectOptions()
	connectOpts.MaxConns = cfg.Database.MaxConns
	connectOpts.Logger = logger
	db, err := deps.DatabaseFactory(ctx, cfg.Database.URL, connectOpts)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer db.Close()
	logger.Info("connected to database")

	hasher, err := auth.NewPasswordHasher(cfg.Auth.Hasher)
	if err != nil {
		return err
	}
	issuer, err := auth.NewTokenIssuer([]byte(cfg.Auth.Secret),
		auth.WithTokenValidity(cfg.Auth.TokenValidity),
		auth.WithTokenLeeway(cfg.Auth.Leeway),
	)
	if err != nil {
		return err
	}

	cache, err := buildTokenCache(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cache.close(); closeErr != nil {
			logger.Debug("error closing token cache", "error", closeErr)
		}
	}()

	checks := map[string]observability.ReadinessCheck{"postgres": db.Ping}
	if cache.ping != nil {
		checks["redis"] = cache.ping
	}
	obsServer := deps.ObservabilityServerFactory(cfg.Metrics.Addr, checks)
	metrics := obsServer.Metrics()

	svc, err := auth.NewService(postgres.NewUserRepository(db), hasher, issuer, cache.TokenCache,
		auth.WithLogger(logger),
		auth.WithRecorder(metrics),
		auth.WithFreshnessMargin(cfg.Auth.FreshnessMargin),
	)
	if err != nil {
		return err
	}

	api := web.NewHandler(svc, issuer,
		web.WithLogger(logger),
		web.WithObserver(metrics),
		web.WithAllowedOrigins(cfg.HTTP.AllowedOrigins...),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Metrics.Addr != "" {
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
	}

	listener, err := deps.ListenerFactory("tcp", cfg.HTTP.Addr)
	if err != nil {
		stopObservability(obsServer)
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}

	httpServer := &http.Server{
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		if serveErr := httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Accounts service started")
	logger.Info("accounts service ready", "http_addr", listener.Addr().String())

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case err, ok := <-errChan:
		if ok {
			serveErr = oops.Code("HTTP_SERVE_FAILED").Wrap(err)
		}
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping API server", "error", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}

	logger.Info("shutdown complete")
	return serveErr
}

// buildTokenCache creates the configured token cache backend. The redis
// backend is pinged once so a bad address fails fast at startup.
func buildTokenCache(ctx context.Context, cfg *config.Config, deps *ServeDeps) (*tokenCache, error) {
	opts := []tokencache.Option{
		tokencache.WithKeyPrefix(cfg.Cache.KeyPrefix),
		tokencache.WithTimeout(cfg.Cache.Timeout),
		tokencache.WithLogger(slog.Default()),
	}

	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client := deps.RedisFactory(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := tokencache.NewRedis(client, opts...)
		if err := cache.Ping(ctx); err != nil {
			_ = client.Close() //nolint:errcheck // ping error takes precedence
			return nil, oops.Code("CACHE_CONNECT_FAILED").With("addr", cfg.Redis.Addr).Wrap(err)
		}
		slog.Info("token cache ready", "backend", config.CacheRedis, "addr", cfg.Redis.Addr)
		return &tokenCache{TokenCache: cache, ping: cache.Ping, close: client.Close}, nil
	default:
		slog.Info("token cache ready", "backend", config.CacheMemory)
		return &tokenCache{TokenCache: tokencache.NewMemory(opts...), close: func() error { return nil }}, nil
	}
}

func applyMigrations(dsn string, deps *ServeDeps) error {
	migrator, err := deps.MigratorFactory(dsn)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Debug("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}
	slog.Info("database schema is up to date")
	return nil
}

func stopObservability(s ObservabilityServer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("failed to stop observability server during cleanup", "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
