// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Calcuzon Accounts Contributors

package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors. It satisfies
// auth.Recorder so the auth service can report login and token events.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Logins          *prometheus.CounterVec
	TokensIssued    *prometheus.CounterVec
	TokenCacheError *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_http_requests_total",
				Help: "Total number of API requests by route and status code",
			},
			[]string{"route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "accounts_http_request_duration_seconds",
				Help:    "API request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		TokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_tokens_issued_total",
				Help: "Total number of session tokens handed out, by whether they were minted or reused from cache",
			},
			[]string{"source"},
		),
		TokenCacheError: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_token_cache_errors_total",
				Help: "Total number of token cache backend failures by operation",
			},
			[]string{"operation"},
		),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Logins, m.TokensIssued, m.TokenCacheError)
	return m
}

// ObserveRequest records one completed API request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// LoginAttempt counts a login by outcome.
func (m *Metrics) LoginAttempt(outcome string) {
	m.Logins.WithLabelValues(outcome).Inc()
}

// TokenIssued counts a token returned from login by source.
func (m *Metrics) TokenIssued(source string) {
	m.TokensIssued.WithLabelValues(source).Inc()
}

// CacheError counts a failed token cache operation.
func (m *Metrics) CacheError(operation string) {
	m.TokenCacheError.WithLabelValues(operation).Inc()
}
