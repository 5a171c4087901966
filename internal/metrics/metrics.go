// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

// Package metrics provides Prometheus instrumentation for the API client
// and endpoint cache. The CLI itself exposes no metrics endpoint; embedders
// (for example a smart-home platform adapter polling this core) can gather
// these collectors from the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts outbound requests to the Sure Petcare API.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surecache_api_requests_total",
			Help: "Total number of HTTP requests issued to the Sure Petcare API",
		},
		[]string{"method", "status"},
	)

	// APIBytesReceived counts body and header bytes received.
	APIBytesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surecache_api_bytes_received_total",
			Help: "Total bytes received from the Sure Petcare API",
		},
	)

	// CacheHits counts endpoint reads served from the record inside the
	// hard rate-limit window, with no network call.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surecache_endpoint_cache_hits_total",
			Help: "Endpoint reads served from the cached record without a network call",
		},
	)

	// CacheRevalidations counts conditional GETs answered 304 Not Modified.
	CacheRevalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surecache_endpoint_revalidations_total",
			Help: "Conditional GETs answered with 304 Not Modified",
		},
	)

	// CacheFallbacks counts transient failures absorbed by returning the
	// previously cached body.
	CacheFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surecache_endpoint_cache_fallbacks_total",
			Help: "Transient upstream failures served from the cached body",
		},
	)

	// TokenRefreshes counts forced auth-token refreshes after a 401.
	TokenRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "surecache_token_refreshes_total",
			Help: "Forced bearer-token refreshes triggered by a 401 response",
		},
	)

	// BreakerState tracks the circuit breaker state.
	// Values: 0=closed, 1=half-open, 2=open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "surecache_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
