// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/petwatch/surecache/internal/metrics"
	"github.com/petwatch/surecache/internal/models"
)

// HardRateLimit is the minimum interval between network calls for a single
// endpoint, regardless of staleness. This ceiling protects the remote
// service from excessive polling and is independent of server freshness.
const HardRateLimit = 60 * time.Second

// getData returns the most recent known JSON body for an endpoint, fetching
// over the network only when the hard rate limit allows and the server
// reports changed content. Every call mutates the endpoint's cache entry in
// the record, so it is only legal inside a session.
func (c *Client) getData(ctx context.Context, rawURL string, params url.Values) (json.RawMessage, error) {
	if c.readOnly {
		return nil, fmt.Errorf("%w: fetch %s", ErrReadOnly, rawURL)
	}

	key := withQuery(rawURL, params)
	entry := c.rec.Endpoints[key]

	if entry != nil && c.now().Sub(entry.FetchedAt) < HardRateLimit {
		metrics.CacheHits.Inc()
		return entry.LastData, nil
	}

	etag := ""
	if entry != nil {
		etag = entry.ETag
	}

	resp, body, err := c.doWithAuthRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, key, etag, nil)
	})
	if err != nil {
		// A rejected call while the breaker is open is a transient
		// condition; absorb it like a 5xx when a cached body exists.
		if entry != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
			metrics.CacheFallbacks.Inc()
			return entry.LastData, nil
		}
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		entry = &models.CacheEntry{
			LastData:  json.RawMessage(body),
			ETag:      strings.Trim(resp.Header.Get("ETag"), `"`),
			FetchedAt: c.now(),
		}
		c.rec.Endpoints[key] = entry
		return entry.LastData, nil

	case http.StatusNotModified:
		// Only reachable when a conditional fetch was sent, hence a cached
		// entry exists. The timestamp refresh restarts the rate-limit
		// window.
		if entry == nil {
			return nil, fmt.Errorf("unexpected 304 without cached entry for %s", key)
		}
		entry.FetchedAt = c.now()
		metrics.CacheRevalidations.Inc()
		return entry.LastData, nil

	case http.StatusNotFound:
		if entry != nil {
			metrics.CacheFallbacks.Inc()
			return entry.LastData, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)

	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		if entry != nil {
			metrics.CacheFallbacks.Inc()
			return entry.LastData, nil
		}
		return nil, fmt.Errorf("upstream failure %d for %s with no cached data", resp.StatusCode, key)

	default:
		return nil, fmt.Errorf("unexpected status %d for %s: %s", resp.StatusCode, key, trimBody(body))
	}
}
