// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/calcuzon/accounts/internal/config"
	"github.com/calcuzon/accounts/internal/store"
)

// migratorFactory is replaced in tests.
var migratorFactory = func(dsn string) (Migrator, error) {
	return (&ServeDeps{}).withDefaults().MigratorFactory(dsn)
}

// NewMigrateCmd creates the migrate command and its subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long: `Apply or roll back the embedded PostgreSQL schema migrations.
The database URL is read from the configuration (database.url,
ACCOUNTS_DATABASE_URL) or the DATABASE_URL environment variable.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("No pending migrations")
					return nil
				}
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration(s)\n", len(pending))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration (drops all account data)",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rolled back all migrations")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Println(formatVersion(version, dirty))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Mark VERSION as applied without running it",
			Long:  `Mark VERSION as applied without running it. Use only to recover a dirty database after fixing it by hand.`,
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, args []string) error {
				version, err := parseForceVersion(args[0])
				if err != nil {
					return err
				}
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced schema version to %d\n", version)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				cmd.Println(formatVersion(version, dirty))
				if len(pending) == 0 {
					cmd.Println("No pending migrations")
					return nil
				}
				cmd.Println("Pending:")
				for _, v := range pending {
					name, err := store.MigrationName(v)
					if err != nil {
						return err
					}
					cmd.Printf("  %s\n", name)
				}
				return nil
			}),
		},
	)
	return cmd
}

// withMigrator resolves the database URL and hands run an open Migrator.
func withMigrator(run func(cmd *cobra.Command, m Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		databaseURL, err := getDatabaseURL()
		if err != nil {
			return err
		}
		m, err := migratorFactory(databaseURL)
		if err != nil {
			return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil {
				cmd.PrintErrf("warning: closing migrator: %v\n", closeErr)
			}
		}()
		return run(cmd, m, args)
	}
}

// getDatabaseURL prefers the configured database.url and falls back to
// DATABASE_URL.
func getDatabaseURL() (string, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return "", err
	}
	if cfg.Database.URL != "" {
		return cfg.Database.URL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", oops.Code("CONFIG_INVALID").Errorf("database.url (or DATABASE_URL) is required")
}

// parseForceVersion reads a leading integer from s.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("invalid version %q", s)
	}
	return version, nil
}

func formatVersion(version uint, dirty bool) string {
	if version == 0 {
		return "Schema version: none"
	}
	name, err := store.MigrationName(version)
	if err != nil || name == "" {
		name = fmt.Sprintf("%d", version)
	}
	if dirty {
		return fmt.Sprintf("Schema version: %s (dirty)", name)
	}
	return "Schema version: " + name
}
