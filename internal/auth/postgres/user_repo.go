// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package postgres implements auth repositories on PostgreSQL stored
// procedures.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/auth"
)

// Stored procedures created by the store migrations.
const (
	procInsertUser     = "usp_insert_user"
	procGetUserByID    = "usp_get_user_by_id"
	procGetUserByEmail = "usp_get_user_by_email"
)

const userColumns = `user_id, user_name, first_name, last_name, email, phone, company, password_hash, password_salt`

// poolIface is the subset of *pgxpool.Pool used by UserRepository.
type poolIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository.
type UserRepository struct {
	pool poolIface
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool poolIface) *UserRepository {
	return &UserRepository{pool: pool}
}

// procCall renders a call to name with argc positional parameters.
func procCall(name string, argc int) string {
	params := make([]string, argc)
	for i := range params {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return name + "(" + strings.Join(params, ", ") + ")"
}

// InsertUser stores user with hash and salt and returns the new ID.
func (r *UserRepository) InsertUser(ctx context.Context, user *auth.User, hash, salt []byte) (int, error) {
	if (len(hash) == 0) != (len(salt) == 0) {
		return 0, oops.Code(auth.CodeDataIntegrity).
			With("email", user.Email).
			Errorf("password hash and salt must be stored together")
	}

	var id int
	err := r.pool.QueryRow(ctx, "SELECT "+procCall(procInsertUser, 8),
		user.UserName,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Company,
		hash,
		salt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, oops.Code(auth.CodeAlreadyExists).
				With("email", user.Email).
				With("constraint", pgErr.ConstraintName).
				Wrap(auth.ErrAlreadyExists)
		}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return 0, oops.Code(auth.CodeDataIntegrity).
				With("constraint", pgErr.ConstraintName).
				Wrap(err)
		}
		return 0, oops.Code("USER_INSERT_FAILED").
			With("operation", "insert user").
			With("email", user.Email).
			Wrap(err)
	}
	return id, nil
}

// GetUserByUserID retrieves a user by ID.
func (r *UserRepository) GetUserByUserID(ctx context.Context, id int) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM "+procCall(procGetUserByID, 1), id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(auth.CodeNotFound).With("user_id", id).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").With("user_id", id).Wrap(err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM "+procCall(procGetUserByEmail, 1), email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code(auth.CodeNotFound).With("email", email).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").With("email", email).Wrap(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID,
		&u.UserName,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Company,
		&u.PasswordHash,
		&u.PasswordSalt,
	)
	if err != nil {
		return nil, err
	}
	if (len(u.PasswordHash) == 0) != (len(u.PasswordSalt) == 0) {
		return nil, oops.Code(auth.CodeDataIntegrity).
			With("user_id", u.ID).
			Errorf("stored credential is missing its hash or salt")
	}
	return &u, nil
}
