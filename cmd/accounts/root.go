// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the accounts CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Accounts - user registration and login service",
		Long: `Accounts registers users, verifies their credentials and issues
signed session tokens, reusing a cached token while it stays fresh.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/accounts/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}
