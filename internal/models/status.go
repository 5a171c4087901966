// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package models

import "time"

// FlapStatus is the per-flap snapshot from the device status endpoint.
// Battery is the summed voltage of the four cells; divide by four for the
// per-cell voltage shown to users.
type FlapStatus struct {
	Battery float64 `json:"battery"`
	Online  bool    `json:"online"`
	Locking Locking `json:"locking"`
}

// Locking is the lock sub-record of a flap status. Curfew is only present
// in newer API revisions and only meaningful when Mode is LockModeCurfew;
// when it is absent the curfew state must be recovered from the household
// timeline (see internal/resolve).
type Locking struct {
	Mode   LockMode    `json:"mode"`
	Curfew *CurfewLock `json:"curfew,omitempty"`
}

// CurfewLock is the nested curfew locked/unlocked state.
type CurfewLock struct {
	Locked bool `json:"locked"`
}

// RouterStatus is the per-hub snapshot. The upstream payload carries much
// more, but online state is the only field anything consults.
type RouterStatus struct {
	Online bool `json:"online"`
}

// PetStatus is the per-pet snapshot from the pet position endpoint, plus
// the containment profile recovered from the flap tag assignments.
type PetStatus struct {
	PetID    int64     `json:"pet_id"`
	TagID    int64     `json:"tag_id"`
	Where    Location  `json:"where"`
	Since    time.Time `json:"since"`
	DeviceID int64     `json:"device_id"`
	Profile  Profile   `json:"profile"`
}
