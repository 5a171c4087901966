// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package models

import "time"

// TimelineEvent is one household- or pet-scoped event. The API returns
// timelines newest-first and surecache preserves that order; nothing here
// re-sorts.
//
// Data carries the event payload of older API revisions as a string of
// separately-encoded JSON. For curfew events it holds the locked/unlocked
// state; internal/resolve parses it on demand and tolerates its absence.
type TimelineEvent struct {
	ID        int64      `json:"id"`
	Type      EventType  `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
	Movements []Movement `json:"movements,omitempty"`
	Data      string     `json:"data,omitempty"`
}

// Movement is a movement sub-record of a movement event: which tag moved
// and in which direction.
type Movement struct {
	TagID     int64     `json:"tag_id"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}
