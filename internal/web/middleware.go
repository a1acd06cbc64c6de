// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/calcuzon/accounts/internal/auth"
	"github.com/calcuzon/accounts/internal/logging"
	"github.com/calcuzon/accounts/internal/result"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

const unmatchedRoute = "unmatched"

type (
	routeKey  struct{}
	userIDKey struct{}
)

// routeInfo is filled in by the mux once a pattern matches.
type routeInfo struct {
	pattern string
}

// requestID propagates an inbound X-Request-Id or assigns a new ULID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// accessLog logs and observes every request once it completes.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &routeInfo{pattern: unmatchedRoute}
		r = r.WithContext(context.WithValue(r.Context(), routeKey{}, info))

		m := httpsnoop.CaptureMetrics(next, w, r)

		h.observer.ObserveRequest(info.pattern, m.Code, m.Duration)
		h.logger.LogAttrs(r.Context(), levelFor(m.Code), "request",
			slog.String("method", r.Method),
			slog.String("route", info.pattern),
			slog.Int("status", m.Code),
			slog.Int64("bytes", m.Written),
			slog.Duration("duration", m.Duration),
		)
	})
}

func levelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// recoverPanics turns a handler panic into a 500 failure envelope.
func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err := oops.Code("HTTP_PANIC").With("panic", rec).Errorf("handler panicked")
			h.logger.ErrorContext(r.Context(), "handler panicked", "error", err)
			writeJSON(w, http.StatusInternalServerError, result.Failure[any](err))
		}()
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and sets Access-Control headers for
// allowed origins. Requests from other origins pass through without them.
func (h *Handler) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !h.originAllowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		hdr := w.Header()
		hdr.Add("Vary", "Origin")
		hdr.Set("Access-Control-Allow-Origin", origin)
		hdr.Set("Access-Control-Allow-Credentials", "true")
		hdr.Set("Access-Control-Expose-Headers", HeaderRequestID)

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			hdr.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+HeaderRequestID)
			hdr.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) originAllowed(origin string) bool {
	if _, ok := h.allowedOrigins["*"]; ok {
		return true
	}
	_, ok := h.allowedOrigins[origin]
	return ok
}

// requireUser rejects requests without a valid bearer token and stores
// the token's user id on the request context.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, result.Failure[any](unauthorized()))
			return
		}
		id, err := h.tokens.Parse(token)
		if err != nil {
			h.logger.DebugContext(r.Context(), "bearer token rejected", "error", err)
			writeJSON(w, http.StatusUnauthorized, result.Failure[any](err))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, id)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserIDFromContext returns the authenticated user id set by requireUser.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey{}).(int)
	return id, ok
}

func unauthorized() error {
	return oops.Code(auth.CodeInvalidToken).Public(result.MessageUnauthorized).Errorf("missing bearer token")
}
