// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/petwatch/surecache/internal/config"
	"github.com/petwatch/surecache/internal/models"
	"github.com/petwatch/surecache/internal/surehub"
)

// openFresh builds a client and, when the cache is missing required data,
// runs a full sync session first. Read commands work from the cache alone
// whenever they can.
func openFresh(ctx context.Context, cfg *config.Config) (*surehub.Client, error) {
	c, err := surehub.New(cfg)
	if err != nil {
		return nil, err
	}
	if !c.UpdateRequired() {
		return c, nil
	}
	if err := c.Begin(); err != nil {
		return nil, err
	}
	updateErr := c.Update(ctx)
	if err := c.End(); err != nil {
		return nil, errors.Join(updateErr, err)
	}
	return c, updateErr
}

// withSession runs fn inside a mutating session, persisting the record and
// releasing the lock whether or not fn succeeded.
func withSession(c *surehub.Client, fn func() error) error {
	if err := c.Begin(); err != nil {
		return err
	}
	fnErr := fn()
	if err := c.End(); err != nil {
		return errors.Join(fnErr, err)
	}
	return fnErr
}

func cmdUpdate(ctx context.Context, cfg *config.Config) error {
	c, err := surehub.New(cfg)
	if err != nil {
		return err
	}
	return withSession(c, func() error { return c.Update(ctx) })
}

func cmdHouseholds(ctx context.Context, cfg *config.Config) error {
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	defaultID, _ := c.DefaultHousehold()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIMEZONE")
	for _, hh := range c.Households() {
		marker := ""
		if hh.ID == defaultID {
			marker = " *"
		}
		fmt.Fprintf(w, "%d%s\t%s\t%s\n", hh.ID, marker, hh.Name, hh.Timezone)
	}
	return w.Flush()
}

func cmdPets(ctx context.Context, cfg *config.Config) error {
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	pets, err := c.Pets(0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	for _, pet := range pets {
		status, err := c.CurrentStatus(0, pet.ID)
		if err != nil {
			status = "unknown"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", pet.ID, pet.Name, status)
	}
	return w.Flush()
}

func cmdFlaps(ctx context.Context, cfg *config.Config) error {
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	hid, err := c.DefaultHousehold()
	if err != nil {
		return err
	}
	hh := c.Record().Households[hid]

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCK STATE\tBATTERY")
	for flapID, name := range hh.Flaps {
		state, err := c.LockState(hid, flapID)
		stateStr := "unknown"
		if err == nil {
			stateStr = state.String()
		}
		battery := "-"
		if v, err := c.Battery(hid, flapID); err == nil {
			battery = fmt.Sprintf("%.2fV", v)
		}
		marker := ""
		if flapID == hh.DefaultFlap {
			marker = " *"
		}
		fmt.Fprintf(w, "%d%s\t%s\t%s\t%s\n", flapID, marker, name, stateStr, battery)
	}
	return w.Flush()
}

func cmdTimeline(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: surecache timeline <pet> [in|out]")
	}
	var directions []models.Direction
	if len(args) == 2 {
		switch args[1] {
		case "in":
			directions = append(directions, models.DirectionIn)
		case "out":
			directions = append(directions, models.DirectionOut)
		default:
			return fmt.Errorf("direction must be in or out, not %q", args[1])
		}
	}
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	petID, err := resolvePet(c, args[0])
	if err != nil {
		return err
	}
	movements, err := c.PetMovements(0, petID, directions...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, mv := range movements {
		fmt.Fprintf(w, "%s\t%s\n", mv.CreatedAt.Local().Format("2006-01-02 15:04:05"), mv.Direction)
	}
	return w.Flush()
}

func cmdSetHousehold(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: surecache set-household <id>")
	}
	hid, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("household ID must be numeric: %q", args[0])
	}
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	return withSession(c, func() error { return c.SetDefaultHousehold(hid) })
}

func cmdPetProfile(ctx context.Context, cfg *config.Config, args []string, lock bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: surecache pet-lock|pet-free <pet>")
	}
	c, err := openFresh(ctx, cfg)
	if err != nil {
		return err
	}
	petID, err := resolvePet(c, args[0])
	if err != nil {
		return err
	}

	profile := models.ProfileOutdoor
	if lock {
		profile = models.ProfileIndoor
	}
	err = withSession(c, func() error {
		if err := c.EnsureAuthToken(ctx, false); err != nil {
			return err
		}
		return c.SetPetProfile(ctx, 0, petID, 0, profile)
	})
	if err != nil {
		return err
	}
	color.Green("%s is now %q", args[0], profile.Description())
	return nil
}

// resolvePet accepts a numeric pet ID or a pet name.
func resolvePet(c *surehub.Client, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}
	return c.PetIDByName(0, arg)
}
