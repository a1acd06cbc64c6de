// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/auth"
)

// Redis defaults.
const (
	DefaultKeyPrefix = "token:"
	DefaultTimeout   = 500 * time.Millisecond
)

const payloadVersion = 1

// payload is the stored value. Only the token and its expiry are kept.
type payload struct {
	Version   int       `json:"v"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// deleteIfEqual removes KEYS[1] only while it still holds ARGV[1], so a
// stale read never removes a token written after it.
var deleteIfEqual = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is an auth.TokenCache stored in Redis. Entries expire in Redis at the
// token's own expiry.
type Redis struct {
	client  redis.Cmdable
	prefix  string
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewRedis creates a Redis cache using client.
func NewRedis(client redis.Cmdable, opts ...Option) *Redis {
	cfg := newConfig(opts)
	return &Redis{
		client:  client,
		prefix:  cfg.prefix,
		timeout: cfg.timeout,
		now:     cfg.now,
		logger:  cfg.logger,
	}
}

// Key returns the Redis key holding userID's token.
func (r *Redis) Key(userID int) string {
	return r.prefix + strconv.Itoa(userID)
}

// GetCachedToken returns the token for userID if it expires after threshold.
// Stale and undecodable entries are removed and reported as a miss. A
// failed removal is logged and still reported as a miss; the entry expires
// on its own.
func (r *Redis) GetCachedToken(ctx context.Context, userID int, threshold time.Time) (auth.SessionToken, bool, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	key := r.Key(userID)
	raw, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return auth.SessionToken{}, false, nil
	}
	if err != nil {
		return auth.SessionToken{}, false, backendError("get", userID, err)
	}

	token, ok := decode(raw)
	if ok && token.IsFreshAt(threshold) {
		return token, true, nil
	}

	if err := deleteIfEqual.Run(ctx, r.client, []string{key}, raw).Err(); err != nil {
		r.logger.WarnContext(ctx, "failed to evict stale token",
			"user_id", userID, "error", backendError("evict", userID, err))
	}
	return auth.SessionToken{}, false, nil
}

// CacheToken stores token for userID with a Redis expiry matching the token.
// A token that has already expired removes the entry instead.
func (r *Redis) CacheToken(ctx context.Context, userID int, token auth.SessionToken) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		if err := r.client.Del(ctx, r.Key(userID)).Err(); err != nil {
			return backendError("set", userID, err)
		}
		return nil
	}

	data, err := json.Marshal(payload{
		Version:   payloadVersion,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt.UTC(),
	})
	if err != nil {
		return backendError("set", userID, err)
	}

	if err := r.client.Set(ctx, r.Key(userID), data, ttl).Err(); err != nil {
		return backendError("set", userID, err)
	}
	return nil
}

// InvalidateToken removes the entry for userID.
func (r *Redis) InvalidateToken(ctx context.Context, userID int) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Del(ctx, r.Key(userID)).Err(); err != nil {
		return backendError("invalidate", userID, err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return oops.Code(auth.CodeCacheBackend).With("operation", "ping").Wrap(err)
	}
	return nil
}

func (r *Redis) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func decode(raw string) (auth.SessionToken, bool) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return auth.SessionToken{}, false
	}
	if p.Version != payloadVersion || p.Token == "" || p.ExpiresAt.IsZero() {
		return auth.SessionToken{}, false
	}
	return auth.SessionToken{Token: p.Token, ExpiresAt: p.ExpiresAt}, true
}

func backendError(operation string, userID int, err error) error {
	return oops.Code(auth.CodeCacheBackend).
		With("operation", operation).
		With("user_id", userID).
		Wrap(err)
}
