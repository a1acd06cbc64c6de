// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import (
	"context"
	"crypto/sha512"
	"strings"
	"time"

	"github.com/samber/oops"
)

// HashSize is the length in bytes of a stored password hash.
const HashSize = sha512.Size

// User is a registered account, including its stored credential.
type User struct {
	// ID is assigned by the store; zero means not yet assigned.
	ID        int
	UserName  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string

	PasswordHash []byte
	PasswordSalt []byte
}

// HasID reports whether the store has assigned an ID to u.
func (u *User) HasID() bool {
	return u != nil && u.ID > 0
}

// HasCredential reports whether u carries a stored password hash and salt.
func (u *User) HasCredential() bool {
	return len(u.PasswordHash) > 0 && len(u.PasswordSalt) > 0
}

// View returns the public projection of u. Password material is never copied.
func (u *User) View() UserView {
	return UserView{
		UserID:    u.ID,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Company:   u.Company,
	}
}

// Normalize trims surrounding whitespace from the user's text fields.
func (u *User) Normalize() {
	u.UserName = strings.TrimSpace(u.UserName)
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.TrimSpace(u.Email)
	u.Phone = strings.TrimSpace(u.Phone)
	u.Company = strings.TrimSpace(u.Company)
}

// ValidateCredential checks that a stored hash and salt are set together and
// that the hash has the expected length.
func ValidateCredential(hash, salt []byte) error {
	switch {
	case len(hash) == 0 && len(salt) == 0:
		return oops.Code(CodeDataIntegrity).Errorf("credential is missing")
	case len(hash) == 0:
		return oops.Code(CodeDataIntegrity).Errorf("password salt present without hash")
	case len(salt) == 0:
		return oops.Code(CodeDataIntegrity).Errorf("password hash present without salt")
	case len(hash) != HashSize:
		return oops.Code(CodeDataIntegrity).
			With("hash_len", len(hash)).
			Errorf("password hash has unexpected length")
	}
	return nil
}

// UserView is the public projection of a User returned to callers.
type UserView struct {
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`

	// Token and TokenExpire are only set by Login.
	Token       string    `json:"token,omitempty"`
	TokenExpire time.Time `json:"tokenExpire,omitzero"`
}

// UserRepository is the persistence boundary for users.
type UserRepository interface {
	// InsertUser stores user with the given credential and returns the
	// assigned ID. Returns an error wrapping ErrAlreadyExists when the email
	// is taken.
	InsertUser(ctx context.Context, user *User, hash, salt []byte) (int, error)

	// GetUserByUserID returns the user with id, or an error wrapping ErrNotFound.
	GetUserByUserID(ctx context.Context, id int) (*User, error)

	// GetUserByEmail returns the user with email, or an error wrapping ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
