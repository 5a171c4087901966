// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

// Package resolve derives human-meaningful state from raw mirrored data:
// the flap lock-mode string (including curfew sub-state recovery from the
// household timeline) and a pet's in/out location from its movement events.
//
// Everything here is a pure function over models values; no I/O, no record
// mutation. Callers may run these concurrently against the last-persisted
// snapshot without holding the store guard.
package resolve
