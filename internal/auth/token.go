// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/result"
)

// Token issuance defaults.
const (
	DefaultTokenValidity = 12 * time.Hour
	MinSecretLength      = 16
)

// SessionToken is a signed bearer token and the instant it stops being valid.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// IsFreshAt reports whether the token is still valid strictly after threshold.
func (t SessionToken) IsFreshAt(threshold time.Time) bool {
	return t.ExpiresAt.After(threshold)
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	NameID string `json:"nameid,omitempty"`
}

// TokenIssuer mints and parses HS256 session tokens. The signing key is fixed
// at construction and safe for concurrent use.
type TokenIssuer struct {
	key      []byte
	validity time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// TokenIssuerOption configures a TokenIssuer.
type TokenIssuerOption func(*TokenIssuer)

// WithTokenValidity overrides the default 12 hour validity window.
func WithTokenValidity(d time.Duration) TokenIssuerOption {
	return func(i *TokenIssuer) {
		if d > 0 {
			i.validity = d
		}
	}
}

// WithTokenClock sets the time source used for issuance and validation.
func WithTokenClock(now func() time.Time) TokenIssuerOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithTokenLeeway allows for clock skew when parsing tokens.
func WithTokenLeeway(d time.Duration) TokenIssuerOption {
	return func(i *TokenIssuer) {
		i.leeway = d
	}
}

// NewTokenIssuer creates a TokenIssuer signing with secret.
func NewTokenIssuer(secret []byte, opts ...TokenIssuerOption) (*TokenIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, oops.Code("TOKEN_SECRET_INVALID").
			With("min_length", MinSecretLength).
			Errorf("signing secret is too short")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	i := &TokenIssuer{
		key:      key,
		validity: DefaultTokenValidity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Validity returns the lifetime of minted tokens.
func (i *TokenIssuer) Validity() time.Duration {
	return i.validity
}

// Mint signs a new token for user. A user without an assigned ID gets a token
// with an empty subject; such tokens are never accepted by Parse.
func (i *TokenIssuer) Mint(user *User) (SessionToken, error) {
	var subject string
	if user.HasID() {
		subject = strconv.Itoa(user.ID)
	}

	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(i.validity)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		NameID: subject,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return SessionToken{}, oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}

	return SessionToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates token and returns the user ID it was minted for.
func (i *TokenIssuer) Parse(token string) (int, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(i.leeway),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, oops.Code(CodeInvalidToken).Public(result.MessageUnauthorized).Wrap(err)
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id <= 0 {
		return 0, oops.Code(CodeInvalidToken).
			Public(result.MessageUnauthorized).
			With("subject", claims.Subject).
			Errorf("token subject is not a user id")
	}
	return id, nil
}
