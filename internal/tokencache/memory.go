// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package tokencache

import (
	"context"
	"sync"
	"time"

	"github.com/calcuzon/accounts/internal/auth"
)

type entry struct {
	token auth.SessionToken
}

// Memory is a process-local auth.TokenCache. It is safe for concurrent use.
type Memory struct {
	entries sync.Map // int -> *entry
	now     func() time.Time
}

// NewMemory creates an empty Memory cache.
func NewMemory(opts ...Option) *Memory {
	return &Memory{now: newConfig(opts).now}
}

// GetCachedToken returns the token for userID if it expires after threshold.
// A stale entry is removed unless it was replaced concurrently.
func (m *Memory) GetCachedToken(_ context.Context, userID int, threshold time.Time) (auth.SessionToken, bool, error) {
	v, ok := m.entries.Load(userID)
	if !ok {
		return auth.SessionToken{}, false, nil
	}

	e, _ := v.(*entry)
	if e.token.IsFreshAt(threshold) {
		return e.token, true, nil
	}

	m.entries.CompareAndDelete(userID, e)
	return auth.SessionToken{}, false, nil
}

// CacheToken stores token for userID. A token that has already expired
// removes the entry instead.
func (m *Memory) CacheToken(_ context.Context, userID int, token auth.SessionToken) error {
	if !token.IsFreshAt(m.now()) {
		m.entries.Delete(userID)
		return nil
	}
	m.entries.Store(userID, &entry{token: token})
	return nil
}

// InvalidateToken removes the entry for userID.
func (m *Memory) InvalidateToken(_ context.Context, userID int) error {
	m.entries.Delete(userID)
	return nil
}

// Len returns the number of entries, stale ones included.
func (m *Memory) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
