// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/calcuzon/accounts/internal/config"
	"github.com/calcuzon/accounts/internal/xdg"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	config.RegisterFlags(showCmd.Flags())

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the XDG config directory",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	cmd.AddCommand(
		showCmd,
		&cobra.Command{
			Use:   "schema",
			Short: "Print the JSON Schema for the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				schema, err := config.GenerateSchema()
				if err != nil {
					return err
				}
				cmd.Println(string(schema))
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate [FILE]",
			Short: "Check a config file against the schema and semantic rules",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runConfigValidate,
		},
		initCmd,
	)
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	cmd.Print(string(out))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		path = xdg.ConfigFile()
	}

	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.Printf("%s: ok\n", path)
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return oops.Wrap(err)
	}

	path := configFile
	if path == "" {
		path = xdg.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return oops.Code("CONFIG_EXISTS").With("path", path).Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.Code("CONFIG_INIT_FAILED").With("path", path).Wrap(err)
	}

	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	out, err := yaml.Marshal(config.Default())
	if err != nil {
		return oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return oops.Code("CONFIG_INIT_FAILED").With("path", path).Wrap(err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
