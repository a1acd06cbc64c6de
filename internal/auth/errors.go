// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when an entity with the same unique key exists.
var ErrAlreadyExists = errors.New("already exists")

// Error codes attached to oops errors returned by this package. Callers and
// tests match on these rather than on message text.
const (
	CodeValidation         = "AUTH_VALIDATION_FAILED"
	CodeNotFound           = "USER_NOT_FOUND"
	CodeAlreadyExists      = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeDataIntegrity      = "AUTH_DATA_INTEGRITY"
	CodeCacheBackend       = "TOKEN_CACHE_BACKEND"
	CodeInvalidToken       = "TOKEN_INVALID"
)
