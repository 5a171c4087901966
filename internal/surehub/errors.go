// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import "errors"

var (
	// ErrAuth means the service rejected the stored credentials. Fatal; the
	// user must supply working credentials.
	ErrAuth = errors.New("credentials rejected by Sure Petcare")

	// ErrAuthRequired means a request still got 401 after a forced token
	// refresh, signalling a deeper auth or service problem.
	ErrAuthRequired = errors.New("authentication required after token refresh")

	// ErrReadOnly means a mutating call was made outside a session. This is
	// a programming error in the caller, never retried.
	ErrReadOnly = errors.New("record is read-only outside a session")

	// ErrUninitialized means a derived query was made before the relevant
	// data was ever fetched; run Update first.
	ErrUninitialized = errors.New("no cached data for query; run update first")

	// ErrUnknownEntity means a named pet, household, or device is not
	// present in the record.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNotFound means the remote endpoint answered 404 and no cached
	// body exists to fall back to.
	ErrNotFound = errors.New("resource not found")

	// ErrNoCredentials means there is neither a cached auth token nor a
	// configured email/password pair.
	ErrNoCredentials = errors.New("no cached credentials and none provided")
)
