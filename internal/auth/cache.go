// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import (
	"context"
	"time"
)

// TokenCache stores at most one session token per user.
//
// GetCachedToken reports a hit only when the stored token expires strictly
// after threshold. A stale or unreadable entry is removed and reported as a
// miss. Backend failures are returned as errors with code TOKEN_CACHE_BACKEND
// and are never reported as a miss.
type TokenCache interface {
	GetCachedToken(ctx context.Context, userID int, threshold time.Time) (SessionToken, bool, error)

	// CacheToken stores token for userID, replacing any existing entry.
	CacheToken(ctx context.Context, userID int, token SessionToken) error

	// InvalidateToken removes the entry for userID. Removing a missing entry
	// is not an error.
	InvalidateToken(ctx context.Context, userID int) error
}

// TokenMinter mints signed session tokens for users.
type TokenMinter interface {
	Mint(user *User) (SessionToken, error)
}

// Recorder receives counters for login and token activity.
type Recorder interface {
	LoginAttempt(outcome string)
	TokenIssued(source string)
	CacheError(operation string)
}

// Login outcomes passed to Recorder.LoginAttempt.
const (
	OutcomeSuccess            = "success"
	OutcomeNotFound           = "not_found"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeError              = "error"
)

// Token sources passed to Recorder.TokenIssued.
const (
	SourceCache  = "cache"
	SourceMinted = "minted"
)

type nopRecorder struct{}

func (nopRecorder) LoginAttempt(string) {}
func (nopRecorder) TokenIssued(string)  {}
func (nopRecorder) CacheError(string)   {}
