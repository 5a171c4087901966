// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
)

func loginHandler(t *testing.T, token string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("login method = %s, want POST", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		var req loginRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Fatalf("login body does not decode: %v", err)
		}
		if req.EmailAddress != "user@example.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if req.DeviceID == "" {
			t.Error("login request carries no device ID")
		}
		json.NewEncoder(w).Encode(loginResponse{Data: struct {
			Token string `json:"token"`
		}{Token: token}})
	}
}

func TestEnsureAuthToken(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", loginHandler(t, "fresh-token"))
	c, counter := newTestClient(t, mux)

	ctx := context.Background()
	if err := c.EnsureAuthToken(ctx, false); err != nil {
		t.Fatalf("EnsureAuthToken() error = %v", err)
	}
	if c.rec.AuthToken != "fresh-token" {
		t.Errorf("AuthToken = %q", c.rec.AuthToken)
	}
	if c.rec.Email != "user@example.com" || c.rec.Password != "secret" {
		t.Error("credentials must be persisted into the record on success")
	}

	// Cached token short-circuits.
	if err := c.EnsureAuthToken(ctx, false); err != nil {
		t.Fatal(err)
	}
	if counter.n != 1 {
		t.Errorf("login calls = %d, want 1", counter.n)
	}

	// force re-logs in.
	if err := c.EnsureAuthToken(ctx, true); err != nil {
		t.Fatal(err)
	}
	if counter.n != 2 {
		t.Errorf("login calls = %d, want 2 after force", counter.n)
	}
}

func TestEnsureAuthTokenBadCredentials(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, _ := newTestClient(t, mux)

	err := c.EnsureAuthToken(context.Background(), false)
	if !errors.Is(err, ErrAuth) {
		t.Errorf("EnsureAuthToken() error = %v, want ErrAuth", err)
	}
	if c.rec.AuthToken != "" {
		t.Errorf("AuthToken = %q, want empty after refusal", c.rec.AuthToken)
	}
}

func TestEnsureAuthTokenReadOnly(t *testing.T) {
	t.Parallel()

	c, counter := newTestClient(t, http.NotFoundHandler())
	if err := c.End(); err != nil {
		t.Fatal(err)
	}
	err := c.EnsureAuthToken(context.Background(), false)
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("EnsureAuthToken() error = %v, want ErrReadOnly", err)
	}
	if counter.n != 0 {
		t.Errorf("read-only token update made %d network calls", counter.n)
	}
}

func TestExpiredTokenRetriedOnce(t *testing.T) {
	t.Parallel()

	logins := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
		loginHandler(t, "fresh")(w, r)
	})
	mux.HandleFunc("/api/household", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})
	c, _ := newTestClient(t, mux)
	c.rec.AuthToken = "stale"

	body, err := c.getData(context.Background(), c.endpoint("household"), nil)
	if err != nil {
		t.Fatalf("getData() with expired token error = %v", err)
	}
	if string(body) != `{"data":[]}` {
		t.Errorf("body = %q", body)
	}
	if logins != 1 {
		t.Errorf("login calls = %d, want exactly 1", logins)
	}
	if c.rec.AuthToken != "fresh" {
		t.Errorf("AuthToken = %q, want the refreshed token", c.rec.AuthToken)
	}
}

func TestPersistent401IsAuthRequired(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", loginHandler(t, "fresh"))
	mux.HandleFunc("/api/household", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, _ := newTestClient(t, mux)
	c.rec.AuthToken = "stale"

	_, err := c.getData(context.Background(), c.endpoint("household"), nil)
	if !errors.Is(err, ErrAuthRequired) {
		t.Errorf("getData() under persistent 401 error = %v, want ErrAuthRequired", err)
	}
}
