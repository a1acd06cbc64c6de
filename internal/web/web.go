// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

// Package web exposes the account service over HTTP.
//
// Every response body is a result.Result envelope. Malformed input is
// answered with 400, a missing or rejected bearer token with 401, and
// everything else with 200; callers branch on the envelope's succeeded
// flag.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/result"
)

// AccountService is the subset of auth.Service the API calls.
type AccountService interface {
	AddUser(ctx context.Context, user *auth.User, password string) result.Result[int]
	GetUserByUserID(ctx context.Context, id int) result.Result[auth.UserView]
	Login(ctx context.Context, email, password string) result.Result[auth.UserView]
	Logout(ctx context.Context, userID int) result.Result[bool]
}

// TokenParser validates a bearer token and returns the user id it names.
type TokenParser interface {
	Parse(token string) (int, error)
}

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, int, time.Duration) {}

// Handler serves the account API.
type Handler struct {
	svc            AccountService
	tokens         TokenParser
	logger         *slog.Logger
	observer       RequestObserver
	allowedOrigins map[string]struct{}
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the access and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver sets the request metrics sink.
func WithObserver(o RequestObserver) Option {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithAllowedOrigins enables CORS for the listed origins. "*" allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) {
		for _, o := range origins {
			h.allowedOrigins[o] = struct{}{}
		}
	}
}

// NewHandler creates the API handler.
func NewHandler(svc AccountService, tokens TokenParser, opts ...Option) *Handler {
	h := &Handler{
		svc:            svc,
		tokens:         tokens,
		logger:         slog.Default(),
		observer:       nopObserver{},
		allowedOrigins: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the fully wrapped API handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.handle(mux, "POST /api/User/CreateUser", http.HandlerFunc(h.createUser))
	h.handle(mux, "GET /api/User/GetUserByUserId", h.requireUser(http.HandlerFunc(h.getUserByUserID)))
	h.handle(mux, "GET /api/User/Login", http.HandlerFunc(h.login))
	h.handle(mux, "POST /api/User/Logout", h.requireUser(http.HandlerFunc(h.logout)))

	var handler http.Handler = mux
	handler = h.cors(handler)
	handler = h.recoverPanics(handler)
	handler = h.accessLog(handler)
	handler = requestID(handler)
	return otelhttp.NewHandler(handler, "accounts.api")
}

// handle registers next under pattern, instrumented with the pattern as
// its route label.
func (h *Handler) handle(mux *http.ServeMux, pattern string, next http.Handler) {
	tagged := otelhttp.WithRouteTag(pattern, next)
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info, ok := r.Context().Value(routeKey{}).(*routeInfo); ok {
			info.pattern = pattern
		}
		tagged.ServeHTTP(w, r)
	}))
}
