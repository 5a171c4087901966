// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestGetDataHardRateLimit(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(`{"data":[1]}`))
	})
	c, counter := newTestClient(t, handler)
	c.rec.AuthToken = "tok"
	ctx := context.Background()
	url := c.endpoint("household")

	first, err := c.getData(ctx, url, nil)
	if err != nil {
		t.Fatalf("getData() error = %v", err)
	}
	second, err := c.getData(ctx, url, nil)
	if err != nil {
		t.Fatalf("getData() error = %v", err)
	}

	if counter.n != 1 {
		t.Errorf("two gets inside the window made %d network calls, want 1", counter.n)
	}
	if string(first) != string(second) {
		t.Errorf("cached body differs: %q vs %q", first, second)
	}
}

func TestGetDataRevalidates(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == "v1" {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(`{"data":[1]}`))
	})
	c, counter := newTestClient(t, handler)
	c.rec.AuthToken = "tok"
	ctx := context.Background()
	url := c.endpoint("household")

	if _, err := c.getData(ctx, url, nil); err != nil {
		t.Fatal(err)
	}

	// Past the window the client revalidates; the 304 restarts the window
	// so a further get inside it stays local.
	advance(c, HardRateLimit+time.Second)
	body, err := c.getData(ctx, url, nil)
	if err != nil {
		t.Fatalf("getData() after window error = %v", err)
	}
	if string(body) != `{"data":[1]}` {
		t.Errorf("304 must return the cached body, got %q", body)
	}
	if _, err := c.getData(ctx, url, nil); err != nil {
		t.Fatal(err)
	}

	if counter.n != 2 {
		t.Errorf("network calls = %d, want 2 (initial fetch + one revalidation)", counter.n)
	}
}

func TestGetDataDistinctQueriesDistinctEntries(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"` + r.URL.RawQuery + `"}`))
	})
	c, counter := newTestClient(t, handler)
	c.rec.AuthToken = "tok"
	ctx := context.Background()
	url := c.endpoint("device")

	if _, err := c.getData(ctx, url, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.getData(ctx, url, map[string][]string{"with[]": {"tags"}}); err != nil {
		t.Fatal(err)
	}
	if counter.n != 2 {
		t.Errorf("distinct query strings must not share an entry; calls = %d", counter.n)
	}
}

func TestGetDataReadOnly(t *testing.T) {
	t.Parallel()

	c, counter := newTestClient(t, http.NotFoundHandler())
	c.rec.AuthToken = "tok"
	if err := c.End(); err != nil {
		t.Fatal(err)
	}

	_, err := c.getData(context.Background(), c.endpoint("household"), nil)
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("getData() outside session error = %v, want ErrReadOnly", err)
	}
	if counter.n != 0 {
		t.Errorf("read-only get made %d network calls, want 0", counter.n)
	}
}

func TestGetData404(t *testing.T) {
	t.Parallel()

	gone := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gone {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":[1]}`))
	})
	c, _ := newTestClient(t, handler)
	c.rec.AuthToken = "tok"
	ctx := context.Background()

	// With a cached body a 404 falls back to it.
	url := c.endpoint("pet/5/position")
	if _, err := c.getData(ctx, url, nil); err != nil {
		t.Fatal(err)
	}
	gone = true
	advance(c, HardRateLimit+time.Second)
	body, err := c.getData(ctx, url, nil)
	if err != nil {
		t.Fatalf("getData() with cached fallback error = %v", err)
	}
	if string(body) != `{"data":[1]}` {
		t.Errorf("fallback body = %q", body)
	}

	// Without one it is fatal.
	_, err = c.getData(ctx, c.endpoint("pet/99/position"), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("getData() without cache error = %v, want ErrNotFound", err)
	}
}

func TestGetDataServerErrorFallback(t *testing.T) {
	t.Parallel()

	broken := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken {
			http.Error(w, "boom", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":[1]}`))
	})
	c, _ := newTestClient(t, handler)
	c.rec.AuthToken = "tok"
	ctx := context.Background()
	url := c.endpoint("household")

	if _, err := c.getData(ctx, url, nil); err != nil {
		t.Fatal(err)
	}
	broken = true
	advance(c, HardRateLimit+time.Second)
	body, err := c.getData(ctx, url, nil)
	if err != nil {
		t.Fatalf("getData() during outage error = %v", err)
	}
	if string(body) != `{"data":[1]}` {
		t.Errorf("outage fallback body = %q", body)
	}

	// A cold cache cannot absorb the outage.
	_, err = c.getData(ctx, c.endpoint("timeline/household/7"), nil)
	if err == nil {
		t.Error("getData() with no cache during outage must fail")
	}
}

func TestGetDataUnexpectedStatus(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "short and stout", http.StatusTeapot)
	})
	c, _ := newTestClient(t, handler)
	c.rec.AuthToken = "tok"

	_, err := c.getData(context.Background(), c.endpoint("household"), nil)
	if err == nil {
		t.Fatal("getData() must surface unexpected statuses")
	}
}
