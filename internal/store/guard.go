// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrCacheLocked reports that another process holds the record lock.
// Callers should retry later or surface the contention to the user.
var ErrCacheLocked = errors.New("record file is locked by another process")

// Acquire takes the advisory write lock: it fails with ErrCacheLocked if
// the marker exists, otherwise writes this process's PID into the marker
// and reads it back. A mismatched read-back also fails with ErrCacheLocked,
// catching most of the window where two processes create the marker at
// once. The check is hopeful, not atomic.
func (s *Store) Acquire() error {
	lockPath := s.LockPath()

	if _, err := os.Stat(lockPath); err == nil {
		return fmt.Errorf("%w: %s", ErrCacheLocked, lockPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat lock %s: %w", lockPath, err)
	}

	pid := os.Getpid()
	// Writing here also proves the record location is writable before any
	// network traffic is spent.
	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("write lock %s: %w", lockPath, err)
	}

	raw, err := os.ReadFile(lockPath)
	if err != nil {
		return fmt.Errorf("read back lock %s: %w", lockPath, err)
	}
	got, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || got != pid {
		return fmt.Errorf("%w: lock owned by pid %s", ErrCacheLocked, strings.TrimSpace(string(raw)))
	}
	return nil
}

// Release removes the lock marker. Failure to remove it is returned as an
// error and is fatal to the session: a marker left behind blocks every
// future writer until removed by hand.
func (s *Store) Release() error {
	if err := os.Remove(s.LockPath()); err != nil {
		return fmt.Errorf("remove lock %s: %w", s.LockPath(), err)
	}
	return nil
}
