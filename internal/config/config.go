// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full configuration surface of surecache.
//
// Email and password are only needed until the first successful login; from
// then on the cached bearer token carries authentication and both may be
// omitted.
type Config struct {
	// Email is the Sure Petcare account email address.
	Email string `koanf:"email" validate:"omitempty,email"`

	// Password is the Sure Petcare account password.
	Password string `koanf:"password"`

	// CacheFile is the path of the persisted record. The lock marker lives
	// at CacheFile + ".lock".
	CacheFile string `koanf:"cache_file" validate:"required"`

	// DeviceID identifies this client to the Sure Petcare service. When
	// empty, a stable ID is derived from the machine's MAC address.
	DeviceID string `koanf:"device_id"`

	// APIURL is the base URL of the Sure Petcare API, without trailing
	// slash. Overridable for tests.
	APIURL string `koanf:"api_url" validate:"required,url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout" validate:"required"`

	// Debug enables verbose request logging (method, URL, status, byte
	// counts) and forces the log level to debug.
	Debug bool `koanf:"debug"`

	Logging LoggingConfig `koanf:"logging"`
}

// LoggingConfig mirrors internal/logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// DefaultAPIURL is the production Sure Petcare API base.
const DefaultAPIURL = "https://app.api.surehub.io/api"

// defaultConfig returns a Config with all default values applied. Defaults
// are loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		CacheFile: defaultCachePath(),
		APIURL:    DefaultAPIURL,
		Timeout:   30 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultCachePath places the record in the user's home directory, falling
// back to the working directory when no home is known.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".surecache.json"
	}
	return filepath.Join(home, ".surecache.json")
}

// Validate checks the configuration with struct tags. Credential presence
// is not checked here: a record with a cached token needs neither email nor
// password, which only the client can decide.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
