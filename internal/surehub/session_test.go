// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/petwatch/surecache/internal/store"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, fakeHub(t))
	if !c.InSession() {
		t.Fatal("newTestClient should hand back an open session")
	}
	lockPath := c.store.LockPath()
	if _, err := os.Stat(lockPath); err != nil {
		t.Fatalf("lock marker missing during session: %v", err)
	}

	if err := c.Update(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if c.InSession() {
		t.Error("InSession() = true after End")
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock marker still present after End")
	}

	// End persisted the synced record: a fresh load sees it.
	rec, err := c.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if rec.AuthToken != "tok" || rec.DefaultHousehold != 7 {
		t.Errorf("persisted record = token %q, household %d", rec.AuthToken, rec.DefaultHousehold)
	}
	if rec.DeviceID == "" {
		t.Error("End must persist the device ID")
	}
}

func TestBeginContended(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, fakeHub(t))
	if err := c.Update(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A second client over the same record cannot open a session while the
	// first holds the lock.
	other, err := New(c.cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Begin(); !errors.Is(err, store.ErrCacheLocked) {
		t.Fatalf("Begin() under contention: error = %v, want ErrCacheLocked", err)
	}

	// But once released it can, and it sees the first client's work.
	if err := c.End(); err != nil {
		t.Fatal(err)
	}
	if err := other.Begin(); err != nil {
		t.Fatalf("Begin() after release: error = %v", err)
	}
	defer other.End()
	if other.Record().DefaultHousehold != 7 {
		t.Error("Begin must reload state persisted by the previous writer")
	}
}

func TestEndPersistsPartialWork(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, fakeHub(t))
	ctx := context.Background()
	if err := c.EnsureAuthToken(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateHouseholds(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := c.End(); err != nil {
		t.Fatal(err)
	}

	rec, err := c.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Households) != 2 {
		t.Errorf("households persisted = %d, want the partial sync kept", len(rec.Households))
	}
}
