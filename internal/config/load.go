// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/calcuzon/accounts/internal/xdg"
)

// EnvPrefix prefixes every environment override, e.g. ACCOUNTS_DATABASE_URL.
const EnvPrefix = "ACCOUNTS_"

// FlagKeys maps command-line flag names to config keys. Only flags
// explicitly set on the command line override other sources.
var FlagKeys = map[string]string{
	"addr":          "http.addr",
	"metrics-addr":  "metrics.addr",
	"database-url":  "database.url",
	"cache-backend": "cache.backend",
	"redis-addr":    "redis.addr",
	"log-format":    "log.format",
	"log-level":     "log.level",
}

// Load builds a Config from defaults, the YAML file at path, the
// environment and flags. An empty path falls back to the XDG config
// file when it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}
	if err := loadFile(k, path, explicit); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "decode config")
	}
	return &cfg, nil
}

// loadFile validates and loads the YAML file at path. A missing file is
// only an error when the caller named it explicitly.
func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
	}
	if err := ValidateYAML(data); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

// ACCOUNTS_AUTH_TOKENVALIDITY -> auth.tokenvalidity
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "_", ".")
}

func flagKey(f *pflag.Flag) (string, any) {
	key, ok := FlagKeys[f.Name]
	if !ok || !f.Changed {
		return "", nil
	}
	return key, f.Value.String()
}

// RegisterFlags adds the override flags named in FlagKeys to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", "", "API listen address")
	fs.String("metrics-addr", "", "metrics and health listen address")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("cache-backend", "", "token cache backend (memory or redis)")
	fs.String("redis-addr", "", "Redis address for the redis cache backend")
	fs.String("log-format", "", "log format (json or text)")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
}
