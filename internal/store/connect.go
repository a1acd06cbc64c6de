// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package store owns the PostgreSQL connection pool and schema migrations.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// ConnectOptions controls how Connect waits for the database.
type ConnectOptions struct {
	// MaxRetries is the number of additional ping attempts after the first.
	MaxRetries uint64
	// BaseDelay is the first backoff interval; later ones grow exponentially.
	BaseDelay time.Duration
	// MaxDelay caps a single backoff interval.
	MaxDelay time.Duration
	// MaxConns overrides the pool size when positive.
	MaxConns int32
	Logger   *slog.Logger
}

// DefaultConnectOptions waits roughly half a minute for the database.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		MaxRetries: 6,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   8 * time.Second,
		Logger:     slog.Default(),
	}
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// Connect opens a pool for dsn and pings it, retrying with exponential
// backoff while the database is unreachable.
func Connect(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	if err := waitForPing(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitForPing(ctx context.Context, db pinger, opts ConnectOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := opts.BaseDelay
	if base <= 0 {
		base = 250 * time.Millisecond
	}

	backoff := retry.NewExponential(base)
	if opts.MaxDelay > 0 {
		backoff = retry.WithCappedDuration(opts.MaxDelay, backoff)
	}
	backoff = retry.WithMaxRetries(opts.MaxRetries, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}
	return nil
}
