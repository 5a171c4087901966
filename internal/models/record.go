// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// RecordVersion is the current schema version of the persisted Record.
// A record loaded with a different version is reset to defaults, preserving
// only the auth token.
const RecordVersion = 2

// CacheEntry is the per-endpoint conditional-GET state: the last JSON body,
// the ETag validator returned with it, and the time it was fetched. Entries
// live inside the Record so they survive between program runs, which is how
// the hard rate limit stays effective across short-lived CLI invocations.
type CacheEntry struct {
	LastData  json.RawMessage `json:"last_data"`
	ETag      string          `json:"etag"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Record is the entire persisted store: credentials, the bearer token, all
// mirrored household data, and the per-endpoint cache entries.
//
// A nil Households map means household discovery has never run; the various
// per-household status maps are keyed by household ID and populated lazily.
// The Record is only ever mutated by code holding the store guard.
type Record struct {
	Version   int    `json:"version"`
	AuthToken string `json:"auth_token,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`

	DefaultHousehold int64                `json:"default_household,omitempty"`
	Households       map[int64]*Household `json:"households,omitempty"`

	FlapStatus   map[int64]map[int64]*FlapStatus   `json:"flap_status"`
	RouterStatus map[int64]map[int64]*RouterStatus `json:"router_status"`
	PetStatus    map[int64]map[int64]*PetStatus    `json:"pet_status"`

	HouseTimeline map[int64][]TimelineEvent          `json:"house_timeline"`
	PetTimeline   map[int64]map[int64][]TimelineEvent `json:"pet_timeline"`

	Endpoints map[string]*CacheEntry `json:"endpoints"`
}

// NewRecord returns a Record with the current schema version and all
// per-household maps initialised empty. Households stays nil until the
// first discovery, which is what gates the household sync step.
func NewRecord() *Record {
	return &Record{
		Version:       RecordVersion,
		FlapStatus:    make(map[int64]map[int64]*FlapStatus),
		RouterStatus:  make(map[int64]map[int64]*RouterStatus),
		PetStatus:     make(map[int64]map[int64]*PetStatus),
		HouseTimeline: make(map[int64][]TimelineEvent),
		PetTimeline:   make(map[int64]map[int64][]TimelineEvent),
		Endpoints:     make(map[string]*CacheEntry),
	}
}

// Household is one account/location grouping: its devices by kind, its pets,
// and the default flap and router used when a caller does not name one.
// DefaultFlap and DefaultRouter are zero until device discovery assigns
// them; once set they are IDs present in Flaps and Routers respectively.
type Household struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	UTCOffset int    `json:"utc_offset"`

	DefaultFlap   int64 `json:"default_flap,omitempty"`
	DefaultRouter int64 `json:"default_router,omitempty"`

	Flaps   map[int64]string `json:"flaps,omitempty"`
	Routers map[int64]string `json:"routers,omitempty"`

	// Pets is nil until pet discovery has run for this household.
	Pets map[int64]*Pet `json:"pets,omitempty"`
}

// Pet identifies a pet. TagID is the physical chip identifier, distinct
// from the numeric pet ID used by the API.
type Pet struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	TagID int64  `json:"tag_id"`
	Photo string `json:"photo,omitempty"`
}
