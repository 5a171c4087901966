// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

// Package models defines the domain and wire types shared across surecache:
// the persisted Record, households, pets, device status snapshots, timeline
// events, and the enumerations used by the Sure Petcare API (event types,
// lock modes, product kinds, movement directions).
//
// Types in this package are plain data. Derivation logic (lock-mode strings,
// pet location) lives in internal/resolve; persistence lives in
// internal/store.
package models
