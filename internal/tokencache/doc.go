// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package tokencache provides auth.TokenCache implementations: Memory for a
// single process and Redis for deployments sharing tokens across instances.
package tokencache
