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
)

// loginRequest is the wire body of the authentication endpoint.
type loginRequest struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	DeviceID     string `json:"device_id"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// EnsureAuthToken makes sure the record holds a bearer token. With a cached
// token and force false it is a no-op. Otherwise it logs in with the stored
// credentials and device identifier; a 401 from the login endpoint is
// ErrAuth (bad credentials, fatal, never retried). force is used exactly
// once per failed request by the resource cache's 401 retry path, when the
// cached token has expired.
func (c *Client) EnsureAuthToken(ctx context.Context, force bool) error {
	if c.readOnly {
		return fmt.Errorf("%w: token update", ErrReadOnly)
	}
	if c.rec.AuthToken != "" && !force {
		return nil
	}

	// Configured credentials override the cached ones so a changed
	// password takes effect without clearing the record.
	email := c.cfg.Email
	if email == "" {
		email = c.rec.Email
	}
	password := c.cfg.Password
	if password == "" {
		password = c.rec.Password
	}
	if email == "" || password == "" {
		return ErrNoCredentials
	}

	payload, err := json.Marshal(loginRequest{
		EmailAddress: email,
		Password:     password,
		DeviceID:     c.deviceID,
	})
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}

	// Login must not recurse into the 401 retry path: a 401 here means the
	// credentials themselves are bad.
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("auth/login"), "", payload)
	if err != nil {
		return err
	}
	resp, body, err := c.roundTrip(req)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuth
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, trimBody(body))
	}

	var parsed loginResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if parsed.Data.Token == "" {
		return fmt.Errorf("login response carried no token")
	}

	c.rec.AuthToken = parsed.Data.Token
	c.rec.Email = email
	c.rec.Password = password
	return nil
}
