// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"lexcms/internal/models"
)

// ProfileStore manages the singleton profile image row.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the current profile row, or nil if none has been stored yet.
func (s *ProfileStore) Get() (*models.ProfileConfig, error) {
	p := &models.ProfileConfig{}
	err := s.db.QueryRow(`
		SELECT key, image_url, thumbnail_url, metadata, version, created_at, updated_at
		FROM profile_config WHERE key = ?
	`, models.ProfileKey).Scan(
		&p.Key, &p.ImageURL, &p.ThumbnailURL, &p.Metadata, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Replace upserts the profile row, incrementing version by exactly one.
// Returns the stored row.
func (s *ProfileStore) Replace(imageURL, thumbnailURL, metadata string) (*models.ProfileConfig, error) {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO profile_config (key, image_url, thumbnail_url, metadata, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET image_url = excluded.image_url,
		              thumbnail_url = excluded.thumbnail_url,
		              metadata = excluded.metadata,
		              version = profile_config.version + 1,
		              updated_at = excluded.updated_at
	`, models.ProfileKey, imageURL, thumbnailURL, metadata, now, now)
	if err != nil {
		return nil, fmt.Errorf("replace profile: %w", err)
	}
	return s.Get()
}
