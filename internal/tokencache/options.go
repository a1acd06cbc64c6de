// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package tokencache

import (
	"log/slog"
	"time"
)

type config struct {
	prefix  string
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a cache.
type Option func(*config)

// WithKeyPrefix sets the prefix prepended to the decimal user ID. Redis only.
func WithKeyPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithTimeout bounds every backend round trip. Zero disables the bound.
// Redis only.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithClock sets the time source used to decide whether a token being
// stored has already expired.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for failures that do not reach the caller.
// Redis only.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		prefix:  DefaultKeyPrefix,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
