// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package resolve

import (
	"github.com/goccy/go-json"

	"github.com/petwatch/surecache/internal/models"
)

// LockState is the fully resolved lock mode of a flap. Unlike
// models.LockMode it has no ambiguous curfew value: curfew resolves to one
// of the three curfew states below.
type LockState int

const (
	Unlocked LockState = iota
	KeepPetsIn
	KeepPetsOut
	Locked
	CurfewLocked
	CurfewUnlocked
	CurfewUnknown
)

// String returns the user-facing lock-mode description.
func (s LockState) String() string {
	switch s {
	case Unlocked:
		return "Unlocked"
	case KeepPetsIn:
		return "Keep pets in"
	case KeepPetsOut:
		return "Keep pets out"
	case Locked:
		return "Locked"
	case CurfewLocked:
		return "Locked with curfew"
	case CurfewUnlocked:
		return "Unlocked with curfew"
	case CurfewUnknown:
		return "Curfew enabled but state unknown"
	default:
		return "Unknown"
	}
}

// IsLocked reports whether the flap is closed to pets. CurfewUnknown counts
// as not locked; callers that must act on curfew state should check for it
// explicitly.
func (s LockState) IsLocked() bool {
	switch s {
	case KeepPetsIn, KeepPetsOut, Locked, CurfewLocked:
		return true
	default:
		return false
	}
}

// curfewPayload is the string-encoded JSON body of a curfew timeline event
// in the oldest API data shape.
type curfewPayload struct {
	Locked *bool `json:"locked"`
}

// FlapLockState resolves the lock state of a flap from its status snapshot.
//
// Modes 0-3 map directly. Curfew (mode 4) needs a secondary locked/unlocked
// boolean: newer payloads nest it inside the locking record, older ones
// only expose it through the newest curfew event on the household timeline,
// whose data field is a second, separately-encoded JSON document. If
// neither source yields the boolean the result is CurfewUnknown.
func FlapLockState(st *models.FlapStatus, houseTimeline []models.TimelineEvent) LockState {
	if st == nil {
		return CurfewUnknown
	}
	switch st.Locking.Mode {
	case models.LockModeUnlocked:
		return Unlocked
	case models.LockModeKeepIn:
		return KeepPetsIn
	case models.LockModeKeepOut:
		return KeepPetsOut
	case models.LockModeLocked:
		return Locked
	case models.LockModeCurfew:
		if st.Locking.Curfew != nil {
			if st.Locking.Curfew.Locked {
				return CurfewLocked
			}
			return CurfewUnlocked
		}
		return curfewFromTimeline(houseTimeline)
	default:
		return CurfewUnknown
	}
}

// curfewFromTimeline recovers the curfew locked state from the newest
// curfew event. The timeline is newest-first, so the first curfew event
// wins. A missing event, empty payload, or unparseable payload yields
// CurfewUnknown; the upstream API has shipped all three.
func curfewFromTimeline(events []models.TimelineEvent) LockState {
	for _, ev := range events {
		if ev.Type != models.EventCurfew {
			continue
		}
		if ev.Data == "" {
			return CurfewUnknown
		}
		var payload curfewPayload
		if err := json.Unmarshal([]byte(ev.Data), &payload); err != nil || payload.Locked == nil {
			return CurfewUnknown
		}
		if *payload.Locked {
			return CurfewLocked
		}
		return CurfewUnlocked
	}
	return CurfewUnknown
}
