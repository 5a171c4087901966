// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petwatch/surecache/internal/models"
	"github.com/petwatch/surecache/internal/resolve"
)

// Households lists the known households, sorted by ID.
func (c *Client) Households() []*models.Household {
	out := make([]*models.Household, 0, len(c.rec.Households))
	for _, hh := range c.rec.Households {
		out = append(out, hh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DefaultHousehold returns the household operations act on when no
// explicit ID is given.
func (c *Client) DefaultHousehold() (int64, error) {
	if c.rec.DefaultHousehold == 0 {
		return 0, fmt.Errorf("%w: no default household", ErrUninitialized)
	}
	return c.rec.DefaultHousehold, nil
}

// SetDefaultHousehold changes the default household. The ID must be one of
// the known households; a session must be open for the change to persist.
func (c *Client) SetDefaultHousehold(householdID int64) error {
	if c.readOnly {
		return fmt.Errorf("%w: set default household", ErrReadOnly)
	}
	if _, err := c.household(householdID); err != nil {
		return err
	}
	c.rec.DefaultHousehold = householdID
	return nil
}

// Pets lists the pets of a household, sorted by ID.
func (c *Client) Pets(householdID int64) ([]*models.Pet, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return nil, err
	}
	if hh.Pets == nil {
		return nil, fmt.Errorf("%w: pets of household %d", ErrUninitialized, hh.ID)
	}
	out := make([]*models.Pet, 0, len(hh.Pets))
	for _, pet := range hh.Pets {
		out = append(out, pet)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PetIDByName resolves a pet name to its ID, case-insensitively.
func (c *Client) PetIDByName(householdID int64, name string) (int64, error) {
	pets, err := c.Pets(householdID)
	if err != nil {
		return 0, err
	}
	for _, pet := range pets {
		if strings.EqualFold(pet.Name, name) {
			return pet.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: pet %q", ErrUnknownEntity, name)
}

// Battery returns the per-cell battery voltage of a flap (default flap when
// flapID is zero). Nominal full charge is about 1.5 V per cell; the flap
// starts complaining below roughly 1.2 V.
func (c *Client) Battery(householdID, flapID int64) (float64, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return 0, err
	}
	flapID, err = c.flapOr(hh, flapID)
	if err != nil {
		return 0, err
	}
	st, ok := c.rec.FlapStatus[hh.ID][flapID]
	if !ok {
		return 0, fmt.Errorf("%w: status of flap %d", ErrUninitialized, flapID)
	}
	return st.Battery / 4.0, nil
}

// LockState resolves the effective lock state of a flap (default flap when
// flapID is zero), consulting the household timeline for flaps whose status
// payload predates the nested curfew record.
func (c *Client) LockState(householdID, flapID int64) (resolve.LockState, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return 0, err
	}
	flapID, err = c.flapOr(hh, flapID)
	if err != nil {
		return 0, err
	}
	st, ok := c.rec.FlapStatus[hh.ID][flapID]
	if !ok {
		return 0, fmt.Errorf("%w: status of flap %d", ErrUninitialized, flapID)
	}
	return resolve.FlapLockState(st, c.rec.HouseTimeline[hh.ID]), nil
}

// Locked reports whether a flap currently blocks pets from leaving.
func (c *Client) Locked(householdID, flapID int64) (bool, error) {
	state, err := c.LockState(householdID, flapID)
	if err != nil {
		return false, err
	}
	return state.IsLocked(), nil
}

// PetLocation derives a pet's current location from its movement timeline.
func (c *Client) PetLocation(householdID, petID int64) (models.Location, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return models.LocationUnknown, err
	}
	if _, ok := hh.Pets[petID]; !ok {
		return models.LocationUnknown, fmt.Errorf("%w: pet %d", ErrUnknownEntity, petID)
	}
	events, ok := c.rec.PetTimeline[hh.ID][petID]
	if !ok {
		return models.LocationUnknown, fmt.Errorf("%w: timeline of pet %d", ErrUninitialized, petID)
	}
	return resolve.PetLocation(events), nil
}

// PetProfile returns a pet's containment profile from the last status sync.
func (c *Client) PetProfile(householdID, petID int64) (models.Profile, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return 0, err
	}
	if _, ok := hh.Pets[petID]; !ok {
		return 0, fmt.Errorf("%w: pet %d", ErrUnknownEntity, petID)
	}
	st, ok := c.rec.PetStatus[hh.ID][petID]
	if !ok {
		return 0, fmt.Errorf("%w: status of pet %d", ErrUninitialized, petID)
	}
	return st.Profile, nil
}

// CurrentStatus renders a one-line human-readable summary of a pet's
// profile and location, e.g. "Free to leave (outdoor pet) and currently
// Outside".
func (c *Client) CurrentStatus(householdID, petID int64) (string, error) {
	loc, err := c.PetLocation(householdID, petID)
	if err != nil {
		return "", err
	}
	profile, err := c.PetProfile(householdID, petID)
	if err != nil {
		return "", err
	}
	if desc := profile.Description(); desc != "" {
		return desc + " and currently " + loc.String(), nil
	}
	return "Currently " + loc.String(), nil
}

// PetMovements extracts a pet's movements from its timeline, newest first,
// optionally restricted to the given directions.
func (c *Client) PetMovements(householdID, petID int64, directions ...models.Direction) ([]models.Movement, error) {
	hh, err := c.household(householdID)
	if err != nil {
		return nil, err
	}
	pet, ok := hh.Pets[petID]
	if !ok {
		return nil, fmt.Errorf("%w: pet %d", ErrUnknownEntity, petID)
	}
	events, ok := c.rec.PetTimeline[hh.ID][petID]
	if !ok {
		return nil, fmt.Errorf("%w: timeline of pet %d", ErrUninitialized, petID)
	}

	var out []models.Movement
	for _, ev := range events {
		if ev.Type != models.EventMovement || len(ev.Movements) == 0 {
			continue
		}
		mv := ev.Movements[0]
		if mv.TagID != pet.TagID {
			continue
		}
		if len(directions) > 0 && !containsDirection(directions, mv.Direction) {
			continue
		}
		out = append(out, mv)
	}
	return out, nil
}

func containsDirection(directions []models.Direction, d models.Direction) bool {
	for _, want := range directions {
		if want == d {
			return true
		}
	}
	return false
}

// flapOr resolves a flap ID (zero meaning the household's default flap)
// and checks it belongs to the household.
func (c *Client) flapOr(hh *models.Household, flapID int64) (int64, error) {
	if flapID == 0 {
		flapID = hh.DefaultFlap
	}
	if flapID == 0 {
		return 0, fmt.Errorf("%w: no default flap in household %d", ErrUninitialized, hh.ID)
	}
	if _, ok := hh.Flaps[flapID]; !ok {
		return 0, fmt.Errorf("%w: flap %d", ErrUnknownEntity, flapID)
	}
	return flapID, nil
}
