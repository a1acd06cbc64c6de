// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package auth provides account registration, credential verification and
// session-token issuance.
//
// # Credentials
//
// Passwords are stored as a salted hash produced by a PasswordHasher. The
// hash and salt are always stored together; ValidateCredential rejects a
// record carrying only one of them.
//
// # Tokens
//
// TokenIssuer signs HS256 tokens with a key fixed at construction. Service
// keeps at most one token per user in a TokenCache and hands it out again
// while it stays valid past the freshness margin. A cache that cannot be
// reached is treated as empty.
//
// # Services
//
// Service is created with NewService, which validates its dependencies.
// Every operation returns a result.Result envelope; the underlying error is
// available through Result.Err.
package auth
