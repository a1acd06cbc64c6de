// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length in bytes of a freshly generated salt.
const SaltSize = 128

// argon2id parameters used by Argon2idHasher.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
)

// PasswordHasher derives and verifies salted password hashes.
type PasswordHasher interface {
	// CreateHash returns a new hash and the random salt used to derive it.
	CreateHash(password string) (hash, salt []byte, err error)

	// VerifyHash reports whether password matches hash under salt.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an
	// AUTH_DATA_INTEGRITY error when hash or salt is malformed.
	VerifyHash(password string, hash, salt []byte) (bool, error)
}

// HMACHasher implements PasswordHasher with HMAC-SHA512 keyed by the salt.
type HMACHasher struct{}

// NewHMACHasher creates a new HMACHasher.
func NewHMACHasher() *HMACHasher {
	return &HMACHasher{}
}

// CreateHash produces a salted HMAC-SHA512 hash of password.
func (h *HMACHasher) CreateHash(password string) ([]byte, []byte, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, nil, err
	}
	return hmacSum(password, salt), salt, nil
}

// VerifyHash recomputes the hash and compares it in constant time.
func (h *HMACHasher) VerifyHash(password string, hash, salt []byte) (bool, error) {
	if err := ValidateCredential(hash, salt); err != nil {
		return false, err
	}
	return hmac.Equal(hmacSum(password, salt), hash), nil
}

func hmacSum(password string, salt []byte) []byte {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// Argon2idHasher implements PasswordHasher using argon2id with a 64-byte key.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// CreateHash produces an argon2id hash of password.
func (h *Argon2idHasher) CreateHash(password string) ([]byte, []byte, error) {
	salt, err := newSalt()
	if err != nil {
		return nil, nil, err
	}
	return argon2Sum(password, salt), salt, nil
}

// VerifyHash recomputes the argon2id hash and compares it in constant time.
func (h *Argon2idHasher) VerifyHash(password string, hash, salt []byte) (bool, error) {
	if err := ValidateCredential(hash, salt); err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(argon2Sum(password, salt), hash) == 1, nil
}

func argon2Sum(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, HashSize)
}

func newSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	return salt, nil
}

// NewPasswordHasher returns the hasher registered under name.
// Known names are "hmac-sha512" and "argon2id".
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", HasherHMACSHA512:
		return NewHMACHasher(), nil
	case HasherArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, oops.Code("AUTH_HASHER_UNKNOWN").
			With("hasher", name).
			Errorf("unknown password hasher")
	}
}

// Hasher names accepted by NewPasswordHasher.
const (
	HasherHMACSHA512 = "hmac-sha512"
	HasherArgon2id   = "argon2id"
)
