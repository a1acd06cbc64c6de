// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"context"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/calcuzon/accounts/internal/observability"
	"github.com/calcuzon/accounts/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// DatabaseFactory opens the PostgreSQL pool.
	// Default: store.Connect
	DatabaseFactory func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error)

	// MigratorFactory creates a schema migrator when database.automigrate is set.
	// Default: store.NewMigrator
	MigratorFactory func(dsn string) (Migrator, error)

	// RedisFactory creates the client behind the redis token cache.
	// Default: redis.NewClient
	RedisFactory func(opts *redis.Options) RedisClient

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, checks map[string]observability.ReadinessCheck) ObservabilityServer

	// ListenerFactory creates the API listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)
}

// Database wraps the methods used from *pgxpool.Pool.
type Database interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	Close() error
}

// RedisClient wraps the methods used from *redis.Client.
type RedisClient interface {
	redis.Cmdable
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseFactory == nil {
		out.DatabaseFactory = func(ctx context.Context, dsn string, opts store.ConnectOptions) (Database, error) {
			pool, err := store.Connect(ctx, dsn, opts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(dsn string) (Migrator, error) {
			m, err := store.NewMigrator(dsn)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.RedisFactory == nil {
		out.RedisFactory = func(opts *redis.Options) RedisClient {
			return redis.NewClient(opts)
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, checks map[string]observability.ReadinessCheck) ObservabilityServer {
			return observability.NewServer(addr, checks)
		}
	}
	if out.ListenerFactory == nil {
		out.ListenerFactory = net.Listen
	}
	return &out
}
