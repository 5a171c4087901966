// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package resolve

import "github.com/petwatch/surecache/internal/models"

// PetLocation derives a pet's in/out state from its timeline, which must be
// ordered newest-first. Non-movement events (lock changes, user events,
// curfew, battery warnings) and movements by unknown tags are skipped; the
// first movement with an unambiguous direction decides. With no qualifying
// event the location is unknown.
//
// A chip reader miss can make this lag physical reality (a pet that slipped
// out unread still shows Inside). That is a property of the source data,
// not corrected here.
func PetLocation(events []models.TimelineEvent) models.Location {
	for _, ev := range events {
		if ev.Type != models.EventMovement {
			continue
		}
		if len(ev.Movements) == 0 {
			continue
		}
		switch ev.Movements[0].Direction {
		case models.DirectionIn:
			return models.LocationInside
		case models.DirectionOut:
			return models.LocationOutside
		}
		// DirectionThrough is ambiguous; keep scanning.
	}
	return models.LocationUnknown
}
