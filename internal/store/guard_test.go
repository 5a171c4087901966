// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package store

import (
	"errors"
	"os"
	"strconv"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	raw, err := os.ReadFile(s.LockPath())
	if err != nil {
		t.Fatalf("lock marker missing: %v", err)
	}
	if got := string(raw); got != strconv.Itoa(os.Getpid()) {
		t.Errorf("lock marker holds %q, want our pid", got)
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(s.LockPath()); !os.IsNotExist(err) {
		t.Error("lock marker still present after Release")
	}
}

func TestAcquireContended(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	// Another process's marker.
	if err := os.WriteFile(s.LockPath(), []byte("99999"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := s.Acquire()
	if !errors.Is(err, ErrCacheLocked) {
		t.Fatalf("Acquire() error = %v, want ErrCacheLocked", err)
	}

	// The foreign marker must be left untouched.
	raw, err := os.ReadFile(s.LockPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "99999" {
		t.Errorf("contended Acquire overwrote the marker: %q", raw)
	}
}

func TestAcquireReacquireAfterRelease(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Acquire(); err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	if err := s.Acquire(); err != nil {
		t.Errorf("re-Acquire after Release failed: %v", err)
	}
}

func TestReleaseWithoutMarker(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.Release(); err == nil {
		t.Error("Release() without a marker must fail")
	}
}
