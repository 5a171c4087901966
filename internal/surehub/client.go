// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/petwatch/surecache/internal/config"
	"github.com/petwatch/surecache/internal/logging"
	"github.com/petwatch/surecache/internal/metrics"
	"github.com/petwatch/surecache/internal/models"
	"github.com/petwatch/surecache/internal/store"
)

// userAgent is the literal user-agent string the official mobile app sends.
// The service has been seen to behave differently for unknown agents.
const userAgent = "Mozilla/5.0 (Linux; Android 7.0; SM-G930F Build/NRD90M; wv) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/64.0.3282.137 Mobile Safari/537.36"

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// Client mirrors Sure Petcare state into a persisted record.
//
// Client is NOT safe for concurrent use. Cross-process exclusion is
// handled by the store guard, not by in-process locking.
type Client struct {
	cfg   *config.Config
	store *store.Store
	rec   *models.Record

	// readOnly is true outside a Begin/End session. Mutating calls check
	// it and fail with ErrReadOnly.
	readOnly bool

	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*http.Response]

	deviceID string

	// now is stubbed in tests to control the rate-limit window.
	now func() time.Time

	// Debug counters, mirrored into log lines when cfg.Debug is set.
	reqCount int
	rxBytes  int64
}

// New loads the record at cfg.CacheFile and returns a read-only client.
// It fails with ErrNoCredentials when the record has no cached auth token
// and the configuration supplies no email/password pair.
func New(cfg *config.Config) (*Client, error) {
	st := store.New(cfg.CacheFile)
	rec, err := st.Load()
	if err != nil {
		return nil, err
	}

	if rec.AuthToken == "" &&
		(cfg.Email == "" || cfg.Password == "") &&
		(rec.Email == "" || rec.Password == "") {
		return nil, ErrNoCredentials
	}

	c := &Client{
		cfg:      cfg,
		store:    st,
		rec:      rec,
		readOnly: true,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(4), 8),
		deviceID: resolveDeviceID(cfg, rec),
		now:      time.Now,
	}
	c.breaker = newBreaker("surehub-api")
	return c, nil
}

// newBreaker builds the transport circuit breaker. Only transport-level
// failures count: HTTP error statuses are handled by the endpoint cache
// and must not trip the breaker.
func newBreaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	metrics.BreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Record exposes the last-loaded record snapshot for read-only callers.
func (c *Client) Record() *models.Record { return c.rec }

// DeviceID returns the client device identifier sent on login.
func (c *Client) DeviceID() string { return c.deviceID }

// endpoint joins the configured API base with a relative path.
func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// headers returns the fixed descriptive header set every request carries,
// plus the bearer token once one is cached and the validator for
// conditional fetches.
func (c *Client) headers(etag string) http.Header {
	h := http.Header{}
	h.Set("Connection", "keep-alive")
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Origin", "https://surepetcare.io")
	h.Set("User-Agent", userAgent)
	h.Set("Referer", "https://surepetcare.io/")
	h.Set("Accept-Encoding", "gzip, deflate")
	h.Set("Accept-Language", "en-US,en-GB;q=0.9")
	h.Set("X-Requested-With", "com.sureflap.surepetcare")
	if c.rec.AuthToken != "" {
		h.Set("Authorization", "Bearer "+c.rec.AuthToken)
	}
	if etag != "" {
		h.Set("If-None-Match", etag)
	}
	return h
}

// roundTrip performs one HTTP exchange through the politeness limiter and
// the circuit breaker, fully reading the response body. The debug request
// trace and the request metrics are emitted here so every call path shares
// them.
func (c *Client) roundTrip(req *http.Request) (*http.Response, []byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}

	body, err := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}
	if closeErr != nil {
		return nil, nil, fmt.Errorf("close response body: %w", closeErr)
	}

	n := int64(len(body)) + headerBytes(resp.Header)
	c.reqCount++
	c.rxBytes += n
	metrics.APIRequests.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.APIBytesReceived.Add(float64(n))

	if c.cfg.Debug {
		logging.Debug().
			Str("method", req.Method).
			Stringer("url", req.URL).
			Int("status", resp.StatusCode).
			Int64("bytes", n).
			Int64("total_bytes", c.rxBytes).
			Int("requests", c.reqCount).
			Msg("request")
	}
	return resp, body, nil
}

func headerBytes(h http.Header) int64 {
	var n int64
	for k, vs := range h {
		for _, v := range vs {
			n += int64(len(k) + len(": ") + len(v) + len("\n"))
		}
	}
	return n
}

// doWithAuthRetry builds and performs a request, and on a 401 forces a
// token refresh and retries exactly once with the new credential. A second
// 401 is ErrAuthRequired. The request is rebuilt for the retry so it picks
// up the fresh Authorization header.
func (c *Client) doWithAuthRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, []byte, error) {
	req, err := build()
	if err != nil {
		return nil, nil, err
	}
	resp, body, err := c.roundTrip(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, body, nil
	}

	metrics.TokenRefreshes.Inc()
	if err := c.EnsureAuthToken(ctx, true); err != nil {
		return nil, nil, err
	}
	req, err = build()
	if err != nil {
		return nil, nil, err
	}
	resp, body, err = c.roundTrip(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrAuthRequired, req.Method, req.URL)
	}
	return resp, body, nil
}

// newRequest builds a request with the fixed header set.
func (c *Client) newRequest(ctx context.Context, method, rawURL, etag string, payload []byte) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers(etag)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// trimBody shortens a response body for inclusion in error messages.
func trimBody(body []byte) string {
	if len(body) > maxErrorBodySize {
		return string(body[:maxErrorBodySize]) + "... (truncated)"
	}
	return string(body)
}

// withQuery appends encoded query parameters to a URL.
func withQuery(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	return rawURL + "?" + params.Encode()
}
