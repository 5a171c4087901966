// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/petwatch/surecache/internal/models"
)

// timelineTypes is the server-side event type filter used for the
// household timeline fetch, matching the official app's request.
const timelineTypes = "0,3,6,7,12,13,14,17,19,20"

// Update refreshes everything, in strict order: token, households, devices,
// pets, pet status, flap status, timelines. Each step is idempotent and
// cache-gated, so calling Update more often than the data changes mostly
// costs nothing. Please call it sparingly anyway.
//
// Router status is deliberately not part of Update: it contains little of
// interest and is not worth the API call. Call UpdateRouterStatus
// explicitly if you need it.
func (c *Client) Update(ctx context.Context) error {
	if err := c.EnsureAuthToken(ctx, false); err != nil {
		return err
	}
	if err := c.UpdateHouseholds(ctx, false); err != nil {
		return err
	}
	if err := c.UpdateDevices(ctx, 0, false); err != nil {
		return err
	}
	if err := c.UpdatePets(ctx, 0, false); err != nil {
		return err
	}
	if err := c.UpdatePetStatus(ctx, 0); err != nil {
		return err
	}
	if err := c.UpdateFlapStatus(ctx, 0); err != nil {
		return err
	}
	return c.UpdateTimelines(ctx, 0)
}

// UpdateRequired reports whether a full Update is needed for correct
// function, not whether the cache is merely stale.
func (c *Client) UpdateRequired() bool {
	if c.rec.AuthToken == "" || c.rec.Households == nil {
		return true
	}
	hh, ok := c.rec.Households[c.rec.DefaultHousehold]
	return !ok || hh.Pets == nil
}

type householdWire struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone struct {
		Timezone  string `json:"timezone"`
		UTCOffset int    `json:"utc_offset"`
	} `json:"timezone"`
}

// UpdateHouseholds discovers the households the account can see. Skipped
// when households are already recorded, unless forced. The default
// household is set to the first one returned when none is recorded or the
// recorded ID is no longer present.
func (c *Client) UpdateHouseholds(ctx context.Context, force bool) error {
	if c.readOnly {
		return fmt.Errorf("%w: household update", ErrReadOnly)
	}
	if c.rec.Households != nil && !force {
		return nil
	}

	params := url.Values{"with[]": []string{"household", "timezone"}}
	raw, err := c.getData(ctx, c.endpoint("household"), params)
	if err != nil {
		return err
	}

	var envelope struct {
		Data []householdWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode household list: %w", err)
	}

	households := make(map[int64]*models.Household, len(envelope.Data))
	for _, h := range envelope.Data {
		households[h.ID] = &models.Household{
			ID:        h.ID,
			Name:      h.Name,
			Timezone:  h.Timezone.Timezone,
			UTCOffset: h.Timezone.UTCOffset,
		}
	}
	c.rec.Households = households

	if _, ok := households[c.rec.DefaultHousehold]; !ok && len(envelope.Data) > 0 {
		c.rec.DefaultHousehold = envelope.Data[0].ID
	}
	return nil
}

type deviceWire struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	ProductID models.ProductID `json:"product_id"`
}

// UpdateDevices discovers the flaps and routers of a household (default
// household when householdID is zero). Skipped once both default devices
// are assigned, unless forced. Defaults are set to the first device of each
// kind encountered.
func (c *Client) UpdateDevices(ctx context.Context, householdID int64, force bool) error {
	if c.readOnly {
		return fmt.Errorf("%w: device update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}
	if hh.DefaultFlap != 0 && hh.DefaultRouter != 0 && !force {
		return nil
	}

	params := url.Values{"with[]": []string{"children"}}
	raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("household/%d/device", hh.ID)), params)
	if err != nil {
		return err
	}

	var envelope struct {
		Data []deviceWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode device list: %w", err)
	}

	hh.Flaps = make(map[int64]string)
	hh.Routers = make(map[int64]string)
	hh.DefaultFlap = 0
	hh.DefaultRouter = 0
	for _, dev := range envelope.Data {
		switch {
		case dev.ProductID.IsFlap():
			hh.Flaps[dev.ID] = dev.Name
			if hh.DefaultFlap == 0 {
				hh.DefaultFlap = dev.ID
			}
		case dev.ProductID == models.ProductRouter:
			hh.Routers[dev.ID] = dev.Name
			if hh.DefaultRouter == 0 {
				hh.DefaultRouter = dev.ID
			}
		}
	}
	return nil
}

type petWire struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	TagID int64  `json:"tag_id"`
	Photo struct {
		Location string `json:"location"`
	} `json:"photo"`
}

// UpdatePets discovers the pets of a household. Skipped when the household
// already has pets recorded, unless forced.
func (c *Client) UpdatePets(ctx context.Context, householdID int64, force bool) error {
	if c.readOnly {
		return fmt.Errorf("%w: pet update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}
	if hh.Pets != nil && !force {
		return nil
	}

	params := url.Values{"with[]": []string{"photo", "tag"}}
	raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("household/%d/pet", hh.ID)), params)
	if err != nil {
		return err
	}

	var envelope struct {
		Data []petWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode pet list: %w", err)
	}

	pets := make(map[int64]*models.Pet, len(envelope.Data))
	for _, p := range envelope.Data {
		pets[p.ID] = &models.Pet{
			ID:    p.ID,
			Name:  p.Name,
			TagID: p.TagID,
			Photo: p.Photo.Location,
		}
	}
	hh.Pets = pets
	return nil
}

type taggedDeviceWire struct {
	ID   int64 `json:"id"`
	Tags []struct {
		ID      int64          `json:"id"`
		Profile models.Profile `json:"profile"`
	} `json:"tags"`
}

// UpdatePetStatus refreshes each pet's position snapshot and containment
// profile. The profiles come from the tag assignments on the account's
// devices, fetched once for all pets.
func (c *Client) UpdatePetStatus(ctx context.Context, householdID int64) error {
	if c.readOnly {
		return fmt.Errorf("%w: pet status update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}
	if hh.Pets == nil {
		return fmt.Errorf("%w: pets of household %d", ErrUninitialized, hh.ID)
	}

	params := url.Values{"with[]": []string{"tags"}}
	raw, err := c.getData(ctx, c.endpoint("device"), params)
	if err != nil {
		return err
	}
	var deviceEnvelope struct {
		Data []taggedDeviceWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &deviceEnvelope); err != nil {
		return fmt.Errorf("decode tagged device list: %w", err)
	}
	profiles := make(map[int64]models.Profile)
	for _, dev := range deviceEnvelope.Data {
		for _, tag := range dev.Tags {
			profiles[tag.ID] = tag.Profile
		}
	}

	statuses := make(map[int64]*models.PetStatus, len(hh.Pets))
	for petID := range hh.Pets {
		raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("pet/%d/position", petID)), nil)
		if err != nil {
			return err
		}
		var envelope struct {
			Data models.PetStatus `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("decode position of pet %d: %w", petID, err)
		}
		status := envelope.Data
		status.Profile = profiles[status.TagID]
		statuses[petID] = &status
	}
	c.rec.PetStatus[hh.ID] = statuses
	return nil
}

// UpdateFlapStatus refreshes the status snapshot of every flap in the
// household.
func (c *Client) UpdateFlapStatus(ctx context.Context, householdID int64) error {
	if c.readOnly {
		return fmt.Errorf("%w: flap status update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}

	for flapID := range hh.Flaps {
		raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("device/%d/status", flapID)), nil)
		if err != nil {
			return err
		}
		var envelope struct {
			Data models.FlapStatus `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("decode status of flap %d: %w", flapID, err)
		}
		if c.rec.FlapStatus[hh.ID] == nil {
			c.rec.FlapStatus[hh.ID] = make(map[int64]*models.FlapStatus)
		}
		status := envelope.Data
		c.rec.FlapStatus[hh.ID][flapID] = &status
	}
	return nil
}

// UpdateRouterStatus refreshes the status snapshot of every router in the
// household. Not part of Update; see there.
func (c *Client) UpdateRouterStatus(ctx context.Context, householdID int64) error {
	if c.readOnly {
		return fmt.Errorf("%w: router status update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}

	for routerID := range hh.Routers {
		raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("device/%d/status", routerID)), nil)
		if err != nil {
			return err
		}
		var envelope struct {
			Data models.RouterStatus `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("decode status of router %d: %w", routerID, err)
		}
		if c.rec.RouterStatus[hh.ID] == nil {
			c.rec.RouterStatus[hh.ID] = make(map[int64]*models.RouterStatus)
		}
		status := envelope.Data
		c.rec.RouterStatus[hh.ID][routerID] = &status
	}
	return nil
}

// UpdateTimelines refreshes the household event timeline and rebuilds the
// per-pet timelines from it.
//
// The per-pet timelines are reconstructed locally instead of issuing one
// timeline/pet call per pet, to minimize load on the servers. The trade-off
// is that with several pets each pet's history is a slice of one shared
// 50-record window, so the most active pet can crowd out the least active.
// Non-movement events and movements by unknown tags are necessarily
// filtered out of the per-pet views.
func (c *Client) UpdateTimelines(ctx context.Context, householdID int64) error {
	if c.readOnly {
		return fmt.Errorf("%w: timeline update", ErrReadOnly)
	}
	hh, err := c.household(householdID)
	if err != nil {
		return err
	}
	if hh.Pets == nil {
		return fmt.Errorf("%w: pets of household %d", ErrUninitialized, hh.ID)
	}

	params := url.Values{"type": []string{timelineTypes}}
	raw, err := c.getData(ctx, c.endpoint(fmt.Sprintf("timeline/household/%d", hh.ID)), params)
	if err != nil {
		return err
	}

	var envelope struct {
		Data []models.TimelineEvent `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode timeline: %w", err)
	}
	c.rec.HouseTimeline[hh.ID] = envelope.Data

	tagToPet := make(map[int64]int64, len(hh.Pets))
	for petID, pet := range hh.Pets {
		tagToPet[pet.TagID] = petID
	}

	perPet := make(map[int64][]models.TimelineEvent, len(hh.Pets))
	for petID := range hh.Pets {
		perPet[petID] = []models.TimelineEvent{}
	}
	for _, ev := range envelope.Data {
		if ev.Type != models.EventMovement || len(ev.Movements) == 0 {
			continue
		}
		petID, ok := tagToPet[ev.Movements[0].TagID]
		if !ok {
			continue
		}
		perPet[petID] = append(perPet[petID], ev)
	}
	c.rec.PetTimeline[hh.ID] = perPet
	return nil
}

// household resolves a household ID (zero meaning the default household)
// to its record entry.
func (c *Client) household(householdID int64) (*models.Household, error) {
	if c.rec.Households == nil {
		return nil, fmt.Errorf("%w: households", ErrUninitialized)
	}
	if householdID == 0 {
		householdID = c.rec.DefaultHousehold
	}
	if householdID == 0 {
		return nil, fmt.Errorf("%w: no default household", ErrUninitialized)
	}
	hh, ok := c.rec.Households[householdID]
	if !ok {
		return nil, fmt.Errorf("%w: household %d", ErrUnknownEntity, householdID)
	}
	return hh, nil
}

// SyncedAt returns the fetch time of the endpoint cache entry for the
// household timeline, or the zero time when it was never fetched. Useful
// for collaborators that poll on a timer.
func (c *Client) SyncedAt(householdID int64) time.Time {
	hh, err := c.household(householdID)
	if err != nil {
		return time.Time{}
	}
	key := withQuery(c.endpoint(fmt.Sprintf("timeline/household/%d", hh.ID)),
		url.Values{"type": []string{timelineTypes}})
	if entry, ok := c.rec.Endpoints[key]; ok {
		return entry.FetchedAt
	}
	return time.Time{}
}
