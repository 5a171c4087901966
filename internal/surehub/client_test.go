// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/petwatch/surecache/internal/config"
)

// counting wraps a handler and counts the requests that reach the server,
// which is how the tests observe cache hits avoiding the network.
type counting struct {
	inner http.Handler
	n     int
}

func (c *counting) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.n++
	c.inner.ServeHTTP(w, r)
}

// newTestClient builds a client against a fake API server, with an open
// session and a controllable clock starting at a fixed instant.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *counting) {
	t.Helper()

	counter := &counting{inner: handler}
	srv := httptest.NewServer(counter)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Email:     "user@example.com",
		Password:  "secret",
		CacheFile: filepath.Join(t.TempDir(), "record.json"),
		DeviceID:  "1234567890",
		APIURL:    srv.URL + "/api",
		Timeout:   5 * time.Second,
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	base := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	return c, counter
}

// advance moves the client clock forward.
func advance(c *Client, d time.Duration) {
	at := c.now().Add(d)
	c.now = func() time.Time { return at }
}

func TestNewWithoutCredentials(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		CacheFile: filepath.Join(t.TempDir(), "record.json"),
		APIURL:    "https://example.com/api",
		Timeout:   5 * time.Second,
	}
	if _, err := New(cfg); err != ErrNoCredentials {
		t.Errorf("New() error = %v, want ErrNoCredentials", err)
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.NotFoundHandler())
	c.rec.AuthToken = "tok"

	h := c.headers(`W/"abc"`)
	if got := h.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
	if got := h.Get("If-None-Match"); got != `W/"abc"` {
		t.Errorf("If-None-Match = %q", got)
	}
	if got := h.Get("X-Requested-With"); got != "com.sureflap.surepetcare" {
		t.Errorf("X-Requested-With = %q", got)
	}
	if h.Get("User-Agent") == "" || h.Get("Origin") == "" || h.Get("Referer") == "" {
		t.Error("descriptive headers missing")
	}

	h = c.headers("")
	if _, ok := h["If-None-Match"]; ok {
		t.Error("If-None-Match must be absent without a validator")
	}
}

func TestEndpoint(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.NotFoundHandler())
	c.cfg.APIURL = "https://example.com/api/"
	if got := c.endpoint("/auth/login"); got != "https://example.com/api/auth/login" {
		t.Errorf("endpoint() = %q", got)
	}
}
