// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/petwatch/surecache/internal/models"
)

type profileRequest struct {
	Profile models.Profile `json:"profile"`
}

type profileResponse struct {
	Data struct {
		Profile models.Profile `json:"profile"`
	} `json:"data"`
}

// SetPetProfile reassigns a pet's containment profile on a flap (default
// flap when flapID is zero). Only ProfileIndoor and ProfileOutdoor are
// settable. The change is written through to the flap immediately; the
// cached status is updated only when the server echoes the new profile
// back, so a refused change leaves the record truthful.
func (c *Client) SetPetProfile(ctx context.Context, householdID, petID, flapID int64, profile models.Profile) error {
	if c.readOnly {
		return fmt.Errorf("%w: set pet profile", ErrReadOnly)
	}
	if profile != models.ProfileIndoor && profile != models.ProfileOutdoor {
		return fmt.Errorf("profile %d is not settable", profile)
	}

	hh, err := c.household(householdID)
	if err != nil {
		return err
	}
	pet, ok := hh.Pets[petID]
	if !ok {
		return fmt.Errorf("%w: pet %d", ErrUnknownEntity, petID)
	}
	flapID, err = c.flapOr(hh, flapID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(profileRequest{Profile: profile})
	if err != nil {
		return fmt.Errorf("encode profile request: %w", err)
	}

	rawURL := c.endpoint(fmt.Sprintf("device/%d/tag/%d", flapID, pet.TagID))
	resp, body, err := c.doWithAuthRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPut, rawURL, "", payload)
	})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile change refused with status %d: %s", resp.StatusCode, trimBody(body))
	}

	var parsed profileResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("decode profile response: %w", err)
	}
	if parsed.Data.Profile != profile {
		return fmt.Errorf("flap reported profile %d after requesting %d", parsed.Data.Profile, profile)
	}

	if st, ok := c.rec.PetStatus[hh.ID][petID]; ok {
		st.Profile = profile
	}
	return nil
}

// LockPetIn confines a pet to the house via the indoor profile.
func (c *Client) LockPetIn(ctx context.Context, householdID, petID int64) error {
	return c.SetPetProfile(ctx, householdID, petID, 0, models.ProfileIndoor)
}

// FreePet lets a pet roam via the outdoor profile.
func (c *Client) FreePet(ctx context.Context, householdID, petID int64) error {
	return c.SetPetProfile(ctx, householdID, petID, 0, models.ProfileOutdoor)
}
