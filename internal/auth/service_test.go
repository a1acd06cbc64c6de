// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/auth/mocks"
	"github.com/calcuzon/accounts/internal/result"
	"github.com/calcuzon/accounts/pkg/errutil"
)

type serviceMocks struct {
	users  *mocks.MockUserRepository
	hasher *mocks.MockPasswordHasher
	minter *mocks.MockTokenMinter
	cache  *mocks.MockTokenCache
}

var testNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...auth.ServiceOption) (*auth.Service, serviceMocks) {
	t.Helper()
	m := serviceMocks{
		users:  mocks.NewMockUserRepository(t),
		hasher: mocks.NewMockPasswordHasher(t),
		minter: mocks.NewMockTokenMinter(t),
		cache:  mocks.NewMockTokenCache(t),
	}
	opts = append([]auth.ServiceOption{
		auth.WithClock(func() time.Time { return testNow }),
		auth.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}, opts...)
	svc, err := auth.NewService(m.users, m.hasher, m.minter, m.cache, opts...)
	require.NoError(t, err)
	return svc, m
}

// recorder counts metric calls.
type recorder struct {
	logins      map[string]int
	issued      map[string]int
	cacheErrors map[string]int
}

func newRecorder() *recorder {
	return &recorder{logins: map[string]int{}, issued: map[string]int{}, cacheErrors: map[string]int{}}
}

func (r *recorder) LoginAttempt(outcome string) { r.logins[outcome]++ }
func (r *recorder) TokenIssued(source string)   { r.issued[source]++ }
func (r *recorder) CacheError(op string)        { r.cacheErrors[op]++ }

func TestNewService_NilDependencies(t *testing.T) {
	users := mocks.NewMockUserRepository(t)
	hasher := mocks.NewMockPasswordHasher(t)
	minter := mocks.NewMockTokenMinter(t)
	cache := mocks.NewMockTokenCache(t)

	tests := []struct {
		name        string
		users       auth.UserRepository
		hasher      auth.PasswordHasher
		minter      auth.TokenMinter
		cache       auth.TokenCache
		expectError string
	}{
		{"nil users", nil, hasher, minter, cache, "user repository is required"},
		{"nil hasher", users, nil, minter, cache, "password hasher is required"},
		{"nil minter", users, hasher, nil, cache, "token minter is required"},
		{"nil cache", users, hasher, minter, nil, "token cache is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.hasher, tt.minter, tt.cache)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
			errutil.AssertErrorCode(t, err, "AUTH_SERVICE_INVALID")
		})
	}
}

func TestService_AddUser(t *testing.T) {
	ctx := context.Background()
	hash := bytes.Repeat([]byte{1}, auth.HashSize)
	salt := bytes.Repeat([]byte{2}, auth.SaltSize)

	t.Run("stores user and returns id", func(t *testing.T) {
		svc, m := newTestService(t)

		m.hasher.EXPECT().CreateHash("Secret123!").Return(hash, salt, nil)
		m.users.EXPECT().InsertUser(ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == "a@b.com" && u.FirstName == "Ada" && u.ID == 0
		}), hash, salt).Return(17, nil)

		res := svc.AddUser(ctx, &auth.User{Email: " a@b.com ", FirstName: "Ada"}, "Secret123!")
		require.True(t, res.Succeeded)
		assert.Equal(t, 17, res.Data)
		assert.Equal(t, 17, res.ReturnID)
		assert.Equal(t, []string{result.MessageAdded}, res.Messages)
		assert.False(t, res.IsExist)
	})

	t.Run("caller's user is not mutated", func(t *testing.T) {
		svc, m := newTestService(t)

		m.hasher.EXPECT().CreateHash("pw").Return(hash, salt, nil)
		m.users.EXPECT().InsertUser(ctx, mock.Anything, hash, salt).Return(1, nil)

		u := &auth.User{ID: 99, Email: " x@y.com "}
		svc.AddUser(ctx, u, "pw")
		assert.Equal(t, 99, u.ID)
		assert.Equal(t, " x@y.com ", u.Email)
	})

	t.Run("blank email is a validation error", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.AddUser(ctx, &auth.User{Email: "   "}, "pw")
		assert.False(t, res.Succeeded)
		assert.Equal(t, []string{result.MessageEmailRequired}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})

	t.Run("blank password is a validation error", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.AddUser(ctx, &auth.User{Email: "a@b.com"}, "")
		assert.False(t, res.Succeeded)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})

	t.Run("nil user is a validation error", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.AddUser(ctx, nil, "pw")
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})

	t.Run("duplicate email sets IsExist", func(t *testing.T) {
		svc, m := newTestService(t)

		m.hasher.EXPECT().CreateHash("pw").Return(hash, salt, nil)
		m.users.EXPECT().InsertUser(ctx, mock.Anything, hash, salt).Return(0, auth.ErrAlreadyExists)

		res := svc.AddUser(ctx, &auth.User{Email: "a@b.com"}, "pw")
		assert.False(t, res.Succeeded)
		assert.True(t, res.IsExist)
		assert.Equal(t, []string{result.MessageEmailExists}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeAlreadyExists)
	})

	t.Run("store failure is opaque", func(t *testing.T) {
		svc, m := newTestService(t)

		m.hasher.EXPECT().CreateHash("pw").Return(hash, salt, nil)
		m.users.EXPECT().InsertUser(ctx, mock.Anything, hash, salt).Return(0, errors.New("connection reset"))

		res := svc.AddUser(ctx, &auth.User{Email: "a@b.com"}, "pw")
		assert.False(t, res.Succeeded)
		assert.False(t, res.IsExist)
		assert.Equal(t, []string{result.MessageSomethingWrong}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), "USER_CREATE_FAILED")
	})

	t.Run("hash failure is opaque", func(t *testing.T) {
		svc, m := newTestService(t)

		m.hasher.EXPECT().CreateHash("pw").Return(nil, nil, errors.New("entropy exhausted"))

		res := svc.AddUser(ctx, &auth.User{Email: "a@b.com"}, "pw")
		assert.False(t, res.Succeeded)
		errutil.AssertErrorCode(t, res.Err(), "USER_CREATE_FAILED")
	})
}

func TestService_GetUserByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns view without credential", func(t *testing.T) {
		svc, m := newTestService(t)

		m.users.EXPECT().GetUserByUserID(ctx, 3).Return(&auth.User{
			ID:           3,
			Email:        "a@b.com",
			Company:      "Calcuzon",
			PasswordHash: []byte("h"),
			PasswordSalt: []byte("s"),
		}, nil)

		res := svc.GetUserByUserID(ctx, 3)
		require.True(t, res.Succeeded)
		assert.Equal(t, auth.UserView{UserID: 3, Email: "a@b.com", Company: "Calcuzon"}, res.Data)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newTestService(t)

		m.users.EXPECT().GetUserByUserID(ctx, 4).Return(nil, auth.ErrNotFound)

		res := svc.GetUserByUserID(ctx, 4)
		assert.False(t, res.Succeeded)
		assert.Equal(t, []string{result.MessageUserNotFound}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeNotFound)
	})

	t.Run("non-positive id", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.GetUserByUserID(ctx, 0)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, m := newTestService(t)

		m.users.EXPECT().GetUserByUserID(ctx, 5).Return(nil, errors.New("timeout"))

		res := svc.GetUserByUserID(ctx, 5)
		errutil.AssertErrorCode(t, res.Err(), "USER_GET_FAILED")
	})
}

type callerKey struct{}

func TestService_Login(t *testing.T) {
	ctx := context.WithValue(context.Background(), callerKey{}, "login")
	// Login runs inside its own span, so collaborators receive a context
	// derived from the caller's rather than the caller's own.
	fromCaller := mock.MatchedBy(func(c context.Context) bool { return c.Value(callerKey{}) == "login" })
	hash := bytes.Repeat([]byte{1}, auth.HashSize)
	salt := bytes.Repeat([]byte{2}, auth.SaltSize)
	user := &auth.User{ID: 9, Email: "a@b.com", UserName: "ada", PasswordHash: hash, PasswordSalt: salt}
	threshold := testNow.Add(time.Minute)
	minted := auth.SessionToken{Token: "minted", ExpiresAt: testNow.Add(12 * time.Hour)}

	t.Run("cache miss mints and caches", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("Secret123!", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, threshold).Return(auth.SessionToken{}, false, nil)
		m.minter.EXPECT().Mint(user).Return(minted, nil)
		m.cache.EXPECT().CacheToken(fromCaller, 9, minted).Return(nil)

		res := svc.Login(ctx, "a@b.com", "Secret123!")
		require.True(t, res.Succeeded)
		assert.Equal(t, "minted", res.Data.Token)
		assert.Equal(t, minted.ExpiresAt, res.Data.TokenExpire)
		assert.Equal(t, 9, res.Data.UserID)
		assert.Equal(t, 9, res.ReturnID)
		assert.Equal(t, []string{result.MessageSuccess}, res.Messages)
		assert.Equal(t, 1, rec.logins[auth.OutcomeSuccess])
		assert.Equal(t, 1, rec.issued[auth.SourceMinted])
	})

	t.Run("cache hit reuses token without minting", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))
		cached := auth.SessionToken{Token: "cached", ExpiresAt: testNow.Add(6 * time.Hour)}

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("Secret123!", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, threshold).Return(cached, true, nil)

		res := svc.Login(ctx, "a@b.com", "Secret123!")
		require.True(t, res.Succeeded)
		assert.Equal(t, "cached", res.Data.Token)
		assert.Equal(t, cached.ExpiresAt, res.Data.TokenExpire)
		assert.Equal(t, 1, rec.issued[auth.SourceCache])
		m.minter.AssertNotCalled(t, "Mint", mock.Anything)
	})

	t.Run("freshness margin is configurable", func(t *testing.T) {
		svc, m := newTestService(t, auth.WithFreshnessMargin(10*time.Second))
		cached := auth.SessionToken{Token: "cached", ExpiresAt: testNow.Add(30 * time.Second)}

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, testNow.Add(10*time.Second)).Return(cached, true, nil)

		res := svc.Login(ctx, "a@b.com", "pw")
		require.True(t, res.Succeeded)
		assert.Equal(t, "cached", res.Data.Token)
	})

	t.Run("wrong password never mints", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("nope", hash, salt).Return(false, nil)

		res := svc.Login(ctx, "a@b.com", "nope")
		assert.False(t, res.Succeeded)
		assert.Empty(t, res.Data.Token)
		assert.Equal(t, []string{result.MessageCheckPassword}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeInvalidCredentials)
		assert.Equal(t, 1, rec.logins[auth.OutcomeInvalidCredentials])
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))

		m.users.EXPECT().GetUserByEmail(fromCaller, "x@y.com").Return(nil, auth.ErrNotFound)

		res := svc.Login(ctx, "x@y.com", "pw")
		assert.False(t, res.Succeeded)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeNotFound)
		assert.Equal(t, 1, rec.logins[auth.OutcomeNotFound])
	})

	t.Run("blank email", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.Login(ctx, " ", "pw")
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})

	t.Run("corrupt credential is a data integrity failure", func(t *testing.T) {
		svc, m := newTestService(t)
		broken := &auth.User{ID: 9, Email: "a@b.com", PasswordHash: hash}

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(broken, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, []byte(nil)).
			Return(false, auth.ValidateCredential(hash, nil))

		res := svc.Login(ctx, "a@b.com", "pw")
		assert.False(t, res.Succeeded)
		assert.Equal(t, []string{result.MessageSomethingWrong}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeDataIntegrity)
	})

	t.Run("cache read failure degrades to minting", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, threshold).
			Return(auth.SessionToken{}, false, errors.New("redis: connection refused"))
		m.minter.EXPECT().Mint(user).Return(minted, nil)
		m.cache.EXPECT().CacheToken(fromCaller, 9, minted).Return(nil)

		res := svc.Login(ctx, "a@b.com", "pw")
		require.True(t, res.Succeeded)
		assert.Equal(t, "minted", res.Data.Token)
		assert.Equal(t, 1, rec.cacheErrors["get"])
	})

	t.Run("cache write failure still returns token", func(t *testing.T) {
		rec := newRecorder()
		svc, m := newTestService(t, auth.WithRecorder(rec))

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, threshold).Return(auth.SessionToken{}, false, nil)
		m.minter.EXPECT().Mint(user).Return(minted, nil)
		m.cache.EXPECT().CacheToken(fromCaller, 9, minted).Return(errors.New("redis: timeout"))

		res := svc.Login(ctx, "a@b.com", "pw")
		require.True(t, res.Succeeded)
		assert.Equal(t, "minted", res.Data.Token)
		assert.Equal(t, 1, rec.cacheErrors["set"])
	})

	t.Run("user without id bypasses cache", func(t *testing.T) {
		svc, m := newTestService(t)
		anon := &auth.User{Email: "a@b.com", PasswordHash: hash, PasswordSalt: salt}

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(anon, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, salt).Return(true, nil)
		m.minter.EXPECT().Mint(anon).Return(minted, nil)

		res := svc.Login(ctx, "a@b.com", "pw")
		require.True(t, res.Succeeded)
		m.cache.AssertNotCalled(t, "GetCachedToken", mock.Anything, mock.Anything, mock.Anything)
		m.cache.AssertNotCalled(t, "CacheToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mint failure is opaque", func(t *testing.T) {
		svc, m := newTestService(t)

		m.users.EXPECT().GetUserByEmail(fromCaller, "a@b.com").Return(user, nil)
		m.hasher.EXPECT().VerifyHash("pw", hash, salt).Return(true, nil)
		m.cache.EXPECT().GetCachedToken(fromCaller, 9, threshold).Return(auth.SessionToken{}, false, nil)
		m.minter.EXPECT().Mint(user).Return(auth.SessionToken{}, errors.New("sign failed"))

		res := svc.Login(ctx, "a@b.com", "pw")
		assert.False(t, res.Succeeded)
		assert.Equal(t, []string{result.MessageSomethingWrong}, res.Errors)
		errutil.AssertErrorCode(t, res.Err(), "AUTH_LOGIN_FAILED")
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("invalidates cached token", func(t *testing.T) {
		svc, m := newTestService(t)

		m.cache.EXPECT().InvalidateToken(ctx, 9).Return(nil)

		res := svc.Logout(ctx, 9)
		require.True(t, res.Succeeded)
		assert.True(t, res.Data)
	})

	t.Run("cache failure is reported", func(t *testing.T) {
		svc, m := newTestService(t)

		m.cache.EXPECT().InvalidateToken(ctx, 9).Return(errors.New("down"))

		res := svc.Logout(ctx, 9)
		assert.False(t, res.Succeeded)
		errutil.AssertErrorCode(t, res.Err(), "AUTH_LOGOUT_FAILED")
	})

	t.Run("non-positive id", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.Logout(ctx, -1)
		errutil.AssertErrorCode(t, res.Err(), auth.CodeValidation)
	})
}
