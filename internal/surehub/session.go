// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import "errors"

// Begin opens a mutating session: it acquires the store's advisory lock and
// reloads the record from disc, picking up changes persisted by other
// processes since this client was constructed. Fails with
// store.ErrCacheLocked when another process (or a stale marker) holds the
// lock.
func (c *Client) Begin() error {
	if err := c.store.Acquire(); err != nil {
		return err
	}

	rec, err := c.store.Load()
	if err != nil {
		// The lock must not leak when the session never opened.
		if rerr := c.store.Release(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	c.rec = rec
	c.deviceID = resolveDeviceIDFromRecord(c.cfg, rec, c.deviceID)
	c.readOnly = false
	return nil
}

// End closes the session: the record is persisted unconditionally and the
// lock marker is removed. Persistence happens even when a sync step failed
// partway, so a caller that wants to discard partial work must restore
// state itself.
// A failure to remove the marker is fatal: it blocks all future sessions
// until cleared by hand.
func (c *Client) End() error {
	c.readOnly = true
	c.rec.DeviceID = c.deviceID

	saveErr := c.store.Save(c.rec)
	releaseErr := c.store.Release()
	return errors.Join(saveErr, releaseErr)
}

// InSession reports whether a mutating session is open.
func (c *Client) InSession() bool { return !c.readOnly }
