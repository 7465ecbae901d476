// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ProfileKey is the key of the singleton profile image row.
const ProfileKey = "profile-image"

// ProfileConfig is the single mutable profile image slot. Version
// increments by exactly one on every successful replacement.
type ProfileConfig struct {
	Key          string    `json:"key"`
	ImageURL     string    `json:"profileImage"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Metadata     string    `json:"metadata,omitempty"` // opaque JSON blob
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
