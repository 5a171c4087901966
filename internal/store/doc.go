// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

// Package store persists the models.Record to a single versioned JSON file
// and guards write access to it with an advisory, PID-stamped lock marker
// at <path>.lock.
//
// The guard is single-host and advisory only: it protects concurrent
// writers on one machine and is not crash safe. A process killed while
// holding the lock leaves a stale marker that must be removed by hand.
package store
