// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

/*
Package surehub is the Sure Petcare API client and sync engine.

It mirrors the remote service's state (households, flaps, routers, pets,
status snapshots, the event timeline) into the persisted record, minimizing
network traffic with a per-endpoint conditional-GET cache and a hard
60-second rate limit per endpoint.

# Sessions

Any call that can change the record (every sync step and the profile
update) must run inside a session:

	client, err := surehub.New(cfg)
	if err := client.Begin(); err != nil { ... }
	err = client.Update(ctx)
	if cerr := client.End(); cerr != nil { ... }

Begin acquires the store's advisory lock and reloads the record; End
persists the record unconditionally (even after a failed sync step) and
releases the lock. Outside a session the client is read-only: queries work
against the last-loaded snapshot and mutations fail with ErrReadOnly.

The on-disk record is locked for the whole session, so update what you need
and End as soon as possible.

# Caching

Calls are deduplicated per endpoint: within 60 seconds of the last fetch the
cached body is returned with no network call at all; beyond it a conditional
GET with If-None-Match lets the server answer 304 cheaply. Transient
upstream failures (5xx) and 404s are absorbed by returning the cached body
when one exists. This is not optional behaviour: the client must never load
Sure's servers more than the official app would.
*/
package surehub
