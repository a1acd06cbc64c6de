// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/calcuzon/accounts/internal/result"
	"github.com/calcuzon/accounts/pkg/errutil"
)

// DefaultFreshnessMargin is how long a cached token must remain valid to be
// handed out again by Login.
const DefaultFreshnessMargin = time.Minute

var tracer = otel.Tracer("accounts/auth")

// Service coordinates registration, lookup and login.
type Service struct {
	users   UserRepository
	hasher  PasswordHasher
	minter  TokenMinter
	cache   TokenCache
	logger  *slog.Logger
	metrics Recorder
	now     func() time.Time
	margin  time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used for degraded and unexpected failures.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithClock sets the time source used to compute freshness thresholds.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFreshnessMargin overrides DefaultFreshnessMargin.
func WithFreshnessMargin(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d >= 0 {
			s.margin = d
		}
	}
}

// NewService creates a new Service. All dependencies are required.
func NewService(users UserRepository, hasher PasswordHasher, minter TokenMinter, cache TokenCache, opts ...ServiceOption) (*Service, error) {
	switch {
	case users == nil:
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("user repository is required")
	case hasher == nil:
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	case minter == nil:
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token minter is required")
	case cache == nil:
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("token cache is required")
	}

	s := &Service{
		users:   users,
		hasher:  hasher,
		minter:  minter,
		cache:   cache,
		logger:  slog.Default(),
		metrics: nopRecorder{},
		now:     time.Now,
		margin:  DefaultFreshnessMargin,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddUser registers user with password and returns the assigned ID.
func (s *Service) AddUser(ctx context.Context, user *User, password string) result.Result[int] {
	if user == nil {
		return result.Failure[int](validationError(result.MessageInvalidRequest))
	}

	u := *user
	u.Normalize()
	u.ID = 0

	if u.Email == "" {
		return result.Failure[int](validationError(result.MessageEmailRequired))
	}
	if strings.TrimSpace(password) == "" {
		return result.Failure[int](validationError(result.MessagePasswordRequired))
	}

	hash, salt, err := s.hasher.CreateHash(password)
	if err != nil {
		return unexpected[int](ctx, s.logger, "USER_CREATE_FAILED", "hash password", err)
	}

	id, err := s.users.InsertUser(ctx, &u, hash, salt)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return result.Failure[int](oops.Code(CodeAlreadyExists).
				Public(result.MessageEmailExists).
				With("email", u.Email).
				Wrap(err)).WithExists()
		}
		return unexpected[int](ctx, s.logger, "USER_CREATE_FAILED", "insert user", err)
	}

	return result.Success(id, result.MessageAdded).WithReturnID(id)
}

// GetUserByUserID returns the public view of the user with id.
func (s *Service) GetUserByUserID(ctx context.Context, id int) result.Result[UserView] {
	if id <= 0 {
		return result.Failure[UserView](validationError(result.MessageInvalidRequest))
	}

	user, err := s.users.GetUserByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.Failure[UserView](notFoundError(err))
		}
		return unexpected[UserView](ctx, s.logger, "USER_GET_FAILED", "get user by id", err)
	}

	return result.Success(user.View()).WithReturnID(user.ID)
}

// Login verifies the credential for email and returns the user's view with a
// session token. A still-fresh cached token is reused; otherwise a new token
// is minted and cached.
func (s *Service) Login(ctx context.Context, email, password string) (res result.Result[UserView]) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer func() {
		if !res.Succeeded {
			span.SetStatus(codes.Error, strings.Join(res.Errors, "; "))
		}
		span.End()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return result.Failure[UserView](validationError(result.MessageEmailRequired))
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.LoginAttempt(OutcomeNotFound)
			return result.Failure[UserView](notFoundError(err))
		}
		s.metrics.LoginAttempt(OutcomeError)
		return unexpected[UserView](ctx, s.logger, "AUTH_LOGIN_FAILED", "get user by email", err)
	}
	span.SetAttributes(attribute.Int("user.id", user.ID))

	ok, err := s.hasher.VerifyHash(password, user.PasswordHash, user.PasswordSalt)
	if err != nil {
		s.metrics.LoginAttempt(OutcomeError)
		err = oops.Code(CodeDataIntegrity).With("user_id", user.ID).Wrap(err)
		errutil.LogErrorContext(ctx, s.logger, "stored credential is unusable", err)
		return result.Failure[UserView](err)
	}
	if !ok {
		s.metrics.LoginAttempt(OutcomeInvalidCredentials)
		return result.Failure[UserView](oops.Code(CodeInvalidCredentials).
			Public(result.MessageCheckPassword).
			With("user_id", user.ID).
			Errorf("password does not match"))
	}

	token, err := s.obtainToken(ctx, user)
	if err != nil {
		s.metrics.LoginAttempt(OutcomeError)
		return unexpected[UserView](ctx, s.logger, "AUTH_LOGIN_FAILED", "issue token", err)
	}

	s.metrics.LoginAttempt(OutcomeSuccess)
	view := user.View()
	view.Token = token.Token
	view.TokenExpire = token.ExpiresAt.UTC()
	return result.Success(view).WithReturnID(user.ID)
}

// Logout removes any cached session token for userID, so the next Login
// mints a new one. Previously issued tokens remain valid until they expire.
func (s *Service) Logout(ctx context.Context, userID int) result.Result[bool] {
	if userID <= 0 {
		return result.Failure[bool](validationError(result.MessageInvalidRequest))
	}
	if err := s.cache.InvalidateToken(ctx, userID); err != nil {
		s.metrics.CacheError("invalidate")
		return unexpected[bool](ctx, s.logger, "AUTH_LOGOUT_FAILED", "invalidate token", err)
	}
	return result.Success(true, result.MessageLoggedOut).WithReturnID(userID)
}

// obtainToken returns a cached token for user that stays valid past the
// freshness margin, or mints and caches a new one. Cache failures degrade to
// minting. Users without an assigned ID are never cached.
func (s *Service) obtainToken(ctx context.Context, user *User) (SessionToken, error) {
	if !user.HasID() {
		token, err := s.minter.Mint(user)
		if err != nil {
			return SessionToken{}, err
		}
		s.metrics.TokenIssued(SourceMinted)
		return token, nil
	}

	threshold := s.now().Add(s.margin)
	cached, hit, err := s.cache.GetCachedToken(ctx, user.ID, threshold)
	switch {
	case err != nil:
		s.metrics.CacheError("get")
		s.logger.WarnContext(ctx, "token cache lookup failed, minting new token",
			"user_id", user.ID, "error", err)
	case hit:
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("auth.token_source", SourceCache))
		s.metrics.TokenIssued(SourceCache)
		return cached, nil
	}

	token, err := s.minter.Mint(user)
	if err != nil {
		return SessionToken{}, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("auth.token_source", SourceMinted))
	s.metrics.TokenIssued(SourceMinted)

	if err := s.cache.CacheToken(ctx, user.ID, token); err != nil {
		s.metrics.CacheError("set")
		s.logger.WarnContext(ctx, "token cache write failed",
			"user_id", user.ID, "error", err)
	}
	return token, nil
}

// unexpected wraps err with code, logs it and returns an opaque failure.
func unexpected[T any](ctx context.Context, logger *slog.Logger, code, operation string, err error) result.Result[T] {
	err = oops.Code(code).With("operation", operation).Wrap(err)
	errutil.LogErrorContext(ctx, logger, "account operation failed", err)
	return result.Failure[T](err)
}

func validationError(msg string) error {
	return oops.Code(CodeValidation).Public(msg).Errorf("%s", msg)
}

func notFoundError(err error) error {
	return oops.Code(CodeNotFound).Public(result.MessageUserNotFound).Wrap(err)
}
