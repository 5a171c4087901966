// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package models

// EventType identifies the kind of a timeline event as reported by the
// Sure Petcare API. The numeric values are part of the wire protocol.
type EventType int

const (
	// EventMovement is a pet movement through a flap, attributed to a tag.
	EventMovement EventType = 0
	// EventBatteryWarning is a low-battery warning for a device.
	EventBatteryWarning EventType = 1
	// EventLockStatus records a change of the flap lock mode.
	EventLockStatus EventType = 6
	// EventUnknownMovement is a movement by a tag the household does not know.
	EventUnknownMovement EventType = 7
	// EventUserInfo is an informational user event.
	EventUserInfo EventType = 12
	// EventNewUser records a user joining the household.
	EventNewUser EventType = 17
	// EventCurfew records a curfew lock or unlock. Older API revisions embed
	// the locked/unlocked state as a string-encoded JSON payload in the
	// event's data field.
	EventCurfew EventType = 20
)

// LockMode is the raw flap locking mode as reported by the device status
// endpoint. Mode 4 (curfew) needs a secondary locked/unlocked resolution;
// see internal/resolve.
type LockMode int

const (
	LockModeUnlocked LockMode = 0
	LockModeKeepIn   LockMode = 1
	LockModeKeepOut  LockMode = 2
	LockModeLocked   LockMode = 3
	LockModeCurfew   LockMode = 4
)

// ProductID identifies the kind of a device within a household.
type ProductID int

const (
	ProductRouter  ProductID = 1 // hub bridging flaps to the cloud service
	ProductPetFlap ProductID = 3 // Pet Door Connect
	ProductCatFlap ProductID = 6 // Cat Door Connect
)

// IsFlap reports whether the product is a pet-access door of either kind.
func (p ProductID) IsFlap() bool {
	return p == ProductPetFlap || p == ProductCatFlap
}

// Direction is the movement direction code attached to movement sub-records.
type Direction int

const (
	// DirectionThrough means the flap was used but in/out is ambiguous.
	DirectionThrough Direction = 0
	DirectionIn      Direction = 1
	DirectionOut     Direction = 2
)

// String returns the human-readable description used in timeline output.
func (d Direction) String() string {
	switch d {
	case DirectionThrough:
		return "Looked through"
	case DirectionIn:
		return "Entered House"
	case DirectionOut:
		return "Left House"
	default:
		return "Unknown"
	}
}

// Location is a pet's derived in/out state.
type Location int

const (
	LocationUnknown Location = 0
	LocationInside  Location = 1
	LocationOutside Location = 2
)

func (l Location) String() string {
	switch l {
	case LocationInside:
		return "Inside"
	case LocationOutside:
		return "Outside"
	default:
		return "Unknown"
	}
}

// Profile is the per-pet containment flag carried by the tag assignment on
// a flap: outdoor pets are free to leave, indoor pets are kept in.
type Profile int

const (
	ProfileUnknown Profile = 0
	ProfileOutdoor Profile = 2
	ProfileIndoor  Profile = 3
)

// Description returns the human-readable profile text, or the empty string
// for an unknown profile.
func (p Profile) Description() string {
	switch p {
	case ProfileOutdoor:
		return "Free to leave (outdoor pet)"
	case ProfileIndoor:
		return "Locked in (indoor pet)"
	default:
		return ""
	}
}
