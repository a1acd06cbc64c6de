// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package config loads service configuration from defaults, a YAML file,
// ACCOUNTS_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/auth"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the complete service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http" json:"http" yaml:"http"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database"`
	Auth     AuthConfig     `koanf:"auth" json:"auth" yaml:"auth"`
	Cache    CacheConfig    `koanf:"cache" json:"cache" yaml:"cache"`
	Redis    RedisConfig    `koanf:"redis" json:"redis" yaml:"redis"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr" json:"addr" yaml:"addr" jsonschema:"description=API listen address"`
	AllowedOrigins  []string      `koanf:"allowedorigins" json:"allowedorigins,omitempty" yaml:"allowedorigins,omitempty" jsonschema:"description=CORS origins allowed to call the API"`
	ReadTimeout     time.Duration `koanf:"readtimeout" json:"readtimeout" yaml:"readtimeout"`
	WriteTimeout    time.Duration `koanf:"writetimeout" json:"writetimeout" yaml:"writetimeout"`
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout" json:"shutdowntimeout" yaml:"shutdowntimeout"`
}

// MetricsConfig configures the metrics and health listener.
type MetricsConfig struct {
	Addr string `koanf:"addr" json:"addr" yaml:"addr" jsonschema:"description=metrics and health listen address; empty disables"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL         string `koanf:"url" json:"url" yaml:"url" jsonschema:"description=PostgreSQL connection URL"`
	MaxConns    int32  `koanf:"maxconns" json:"maxconns,omitempty" yaml:"maxconns,omitempty" jsonschema:"minimum=0"`
	AutoMigrate bool   `koanf:"automigrate" json:"automigrate" yaml:"automigrate" jsonschema:"description=apply pending migrations on start"`
}

// AuthConfig configures credential hashing and token issuance.
type AuthConfig struct {
	Secret          string        `koanf:"secret" json:"secret" yaml:"secret" jsonschema:"description=HS256 signing secret of at least 16 bytes"`
	Hasher          string        `koanf:"hasher" json:"hasher" yaml:"hasher" jsonschema:"enum=hmac-sha512,enum=argon2id"`
	TokenValidity   time.Duration `koanf:"tokenvalidity" json:"tokenvalidity" yaml:"tokenvalidity"`
	FreshnessMargin time.Duration `koanf:"freshnessmargin" json:"freshnessmargin" yaml:"freshnessmargin"`
	Leeway          time.Duration `koanf:"leeway" json:"leeway" yaml:"leeway"`
}

// CacheConfig selects and tunes the token cache.
type CacheConfig struct {
	Backend   string        `koanf:"backend" json:"backend" yaml:"backend" jsonschema:"enum=memory,enum=redis"`
	KeyPrefix string        `koanf:"keyprefix" json:"keyprefix" yaml:"keyprefix"`
	Timeout   time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
}

// RedisConfig configures the Redis client used by the redis cache backend.
type RedisConfig struct {
	Addr     string `koanf:"addr" json:"addr" yaml:"addr"`
	Username string `koanf:"username" json:"username,omitempty" yaml:"username,omitempty"`
	Password string `koanf:"password" json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `koanf:"db" json:"db" yaml:"db" jsonschema:"minimum=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format" yaml:"format" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		Auth: AuthConfig{
			Hasher:          auth.HasherHMACSHA512,
			TokenValidity:   auth.DefaultTokenValidity,
			FreshnessMargin: auth.DefaultFreshnessMargin,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			KeyPrefix: "token:",
			Timeout:   500 * time.Millisecond,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   LogConfig{Format: "json", Level: "info"},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.HTTP.Addr == "":
		return invalid("http.addr", "is required")
	case c.Database.URL == "":
		return invalid("database.url", "is required")
	case len(c.Auth.Secret) < auth.MinSecretLength:
		return invalid("auth.secret", "must be at least 16 bytes")
	case !slices.Contains([]string{auth.HasherHMACSHA512, auth.HasherArgon2id}, c.Auth.Hasher):
		return invalid("auth.hasher", "must be hmac-sha512 or argon2id")
	case c.Auth.TokenValidity <= 0:
		return invalid("auth.tokenvalidity", "must be positive")
	case c.Auth.FreshnessMargin < 0 || c.Auth.FreshnessMargin >= c.Auth.TokenValidity:
		return invalid("auth.freshnessmargin", "must be non-negative and shorter than auth.tokenvalidity")
	case c.Cache.Backend != CacheMemory && c.Cache.Backend != CacheRedis:
		return invalid("cache.backend", "must be memory or redis")
	case c.Cache.Backend == CacheRedis && c.Redis.Addr == "":
		return invalid("redis.addr", "is required when cache.backend is redis")
	case c.Log.Format != "json" && c.Log.Format != "text":
		return invalid("log.format", "must be json or text")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return invalid("log.level", "must be debug, info, warn or error")
	}
	if _, err := url.Parse(c.Database.URL); err != nil {
		return invalid("database.url", "is not a valid URL")
	}
	return nil
}

// Redacted returns a copy of c with secrets masked, suitable for display.
func (c Config) Redacted() Config {
	const mask = "********"
	if c.Auth.Secret != "" {
		c.Auth.Secret = mask
	}
	if c.Redis.Password != "" {
		c.Redis.Password = mask
	}
	if u, err := url.Parse(c.Database.URL); err == nil {
		c.Database.URL = u.Redacted()
	}
	c.HTTP.AllowedOrigins = slices.Clone(c.HTTP.AllowedOrigins)
	return c
}

func invalid(field, reason string) error {
	return oops.Code("CONFIG_INVALID").With("field", field).Errorf("%s %s", field, reason)
}
