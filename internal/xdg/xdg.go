// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package xdg resolves XDG Base Directory paths for the accounts service.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "accounts"

// ConfigDir returns $XDG_CONFIG_HOME/accounts, falling back to
// ~/.config/accounts.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EnsureDir creates path and its parents with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.Code("DIR_CREATE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
