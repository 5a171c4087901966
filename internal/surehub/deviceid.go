// Surecache - Local cache and CLI for the Sure Petcare API
// Copyright 2026 Surecache Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petwatch/surecache

package surehub

import (
	"math/big"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/petwatch/surecache/internal/config"
	"github.com/petwatch/surecache/internal/models"
)

// resolveDeviceID picks the client device identifier: explicit
// configuration wins, then the identifier persisted in the record, then the
// in-memory one from this process, then a fresh derivation. The chosen
// value is written back into the record at session end so it stays stable
// across runs.
func resolveDeviceID(cfg *config.Config, rec *models.Record) string {
	return resolveDeviceIDFromRecord(cfg, rec, "")
}

func resolveDeviceIDFromRecord(cfg *config.Config, rec *models.Record, current string) string {
	if cfg.DeviceID != "" {
		return cfg.DeviceID
	}
	if rec.DeviceID != "" {
		return rec.DeviceID
	}
	if current != "" {
		return current
	}
	return deriveDeviceID()
}

// deriveDeviceID generates a unique-ish client ID from the first
// non-loopback MAC address: the hex address as a decimal number, keeping
// the low-order ten digits (the upper octets are low entropy). Machines
// with no readable MAC get a UUID-derived value instead; it is persisted,
// so it only needs generating once.
func deriveDeviceID() string {
	if mac := firstMAC(); mac != "" {
		hexStr := strings.NewReplacer(":", "", "-", "").Replace(mac)
		if n, ok := new(big.Int).SetString(hexStr, 16); ok {
			dec := n.String()
			if len(dec) > 10 {
				dec = dec[len(dec)-10:]
			}
			return dec
		}
	}
	id := uuid.New().String()
	return strings.ReplaceAll(id, "-", "")[:10]
}

// firstMAC returns the first non-loopback interface MAC, or "".
func firstMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if mac := iface.HardwareAddr.String(); mac != "" {
			return mac
		}
	}
	return ""
}
