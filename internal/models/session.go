// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Session is one login's bearer-token row. A token is issued once per
// login, deleted on logout, and valid only while ExpiresAt is in the future.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt int64     `json:"expires_at"` // unix seconds, absolute expiry
}

// Expired reports whether the session is past its absolute expiry.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt <= now.Unix()
}
