// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/petwatch/surecache/internal/models"
)

// Store reads and writes the persisted Record at Path. The zero value is
// not usable; construct with New.
type Store struct {
	path string
}

// New returns a Store for the record file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the record file path.
func (s *Store) Path() string { return s.path }

// LockPath returns the sibling lock marker path.
func (s *Store) LockPath() string { return s.path + ".lock" }

// Load reads the record file. A missing or unparseable file yields a fresh
// default Record rather than an error: the store is a cache and rebuilding
// it costs only network calls. A record with a stale schema version is
// reset to defaults with only the auth token preserved, so the next sync
// does not have to log in again.
func (s *Store) Load() (*models.Record, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewRecord(), nil
		}
		return nil, fmt.Errorf("read record %s: %w", s.path, err)
	}

	rec := models.NewRecord()
	if err := json.Unmarshal(raw, rec); err != nil {
		return models.NewRecord(), nil
	}

	if rec.Version != models.RecordVersion {
		fresh := models.NewRecord()
		fresh.AuthToken = rec.AuthToken
		return fresh, nil
	}

	// Maps marshalled while empty come back nil; re-initialise so callers
	// can index without checking.
	normalize(rec)
	return rec, nil
}

// Save writes the record atomically (temp file + rename) with mode 0600,
// since the record carries credentials and the bearer token.
func (s *Store) Save(rec *models.Record) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp record: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record %s: %w", s.path, err)
	}
	return nil
}

func normalize(rec *models.Record) {
	if rec.FlapStatus == nil {
		rec.FlapStatus = make(map[int64]map[int64]*models.FlapStatus)
	}
	if rec.RouterStatus == nil {
		rec.RouterStatus = make(map[int64]map[int64]*models.RouterStatus)
	}
	if rec.PetStatus == nil {
		rec.PetStatus = make(map[int64]map[int64]*models.PetStatus)
	}
	if rec.HouseTimeline == nil {
		rec.HouseTimeline = make(map[int64][]models.TimelineEvent)
	}
	if rec.PetTimeline == nil {
		rec.PetTimeline = make(map[int64]map[int64][]models.TimelineEvent)
	}
	if rec.Endpoints == nil {
		rec.Endpoints = make(map[string]*models.CacheEntry)
	}
}
