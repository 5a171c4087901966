// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/petwatch/surecache/internal/config"
	"github.com/petwatch/surecache/internal/logging"
)

func main() {
	fs := flag.NewFlagSet("surecache", flag.ExitOnError)
	email := fs.String("e", "", "account email address (first run only)")
	password := fs.String("p", "", "account password (first run only)")
	cacheFile := fs.String("c", "", "cache file path (default ~/.surecache.json)")
	debug := fs.Bool("debug", false, "log every API request")
	fs.Usage = printUsage
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if fs.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	if *email != "" {
		cfg.Email = *email
	}
	if *password != "" {
		cfg.Password = *password
	}
	if *cacheFile != "" {
		cfg.CacheFile = *cacheFile
	}
	if *debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx := context.Background()
	cmd := fs.Arg(0)
	args := fs.Args()[1:]

	switch cmd {
	case "update":
		err = cmdUpdate(ctx, cfg)
	case "households":
		err = cmdHouseholds(ctx, cfg)
	case "pets":
		err = cmdPets(ctx, cfg)
	case "flaps":
		err = cmdFlaps(ctx, cfg)
	case "timeline":
		err = cmdTimeline(ctx, cfg, args)
	case "set-household":
		err = cmdSetHousehold(ctx, cfg, args)
	case "pet-lock":
		err = cmdPetProfile(ctx, cfg, args, true)
	case "pet-free":
		err = cmdPetProfile(ctx, cfg, args, false)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: surecache [flags] <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  update                 Refresh the local cache from the API")
	fmt.Println("  households             List households (default marked with *)")
	fmt.Println("  pets                   List pets with profile and location")
	fmt.Println("  flaps                  List flaps with lock state and battery")
	fmt.Println("  timeline <pet> [in|out]  Show a pet's recent movements")
	fmt.Println("  set-household <id>     Change the default household")
	fmt.Println("  pet-lock <pet>         Keep a pet indoors")
	fmt.Println("  pet-free <pet>         Let a pet roam")
	fmt.Println()
	yellow.Println("Flags:")
	fmt.Println("  -e <email>    Account email (only needed before the first login)")
	fmt.Println("  -p <pass>     Account password (only needed before the first login)")
	fmt.Println("  -c <path>     Cache file (default ~/.surecache.json)")
	fmt.Println("  --debug       Log every API request")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  SURECACHE_EMAIL, SURECACHE_PASSWORD, SURECACHE_CACHE_FILE,")
	fmt.Println("  SURECACHE_API_URL, SURECACHE_DEBUG, SURECACHE_CONFIG")
	fmt.Println()
	fmt.Println("Pets may be named by ID or by name (case-insensitive).")
}
