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

// SettingStore manages the typed key-value settings table.
type SettingStore struct {
	db *sql.DB
}

// NewSettingStore returns a new SettingStore backed by the given database.
func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

// All returns every setting ordered by key.
func (s *SettingStore) All() ([]models.Setting, error) {
	rows, err := s.db.Query(`
		SELECT key, value, type, grouping, description, updated_at
		FROM settings ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.Type, &st.Group, &st.Description, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings = append(settings, st)
	}
	return settings, rows.Err()
}

// Get returns a single setting by key, or nil if not found.
func (s *SettingStore) Get(key string) (*models.Setting, error) {
	st := &models.Setting{}
	err := s.db.QueryRow(`
		SELECT key, value, type, grouping, description, updated_at
		FROM settings WHERE key = ?
	`, key).Scan(&st.Key, &st.Value, &st.Type, &st.Group, &st.Description, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return st, nil
}

// Set upserts a single setting by key.
func (s *SettingStore) Set(st *models.Setting) error {
	if st.Type == "" {
		st.Type = models.SettingString
	}
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, type, grouping, description, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, type = excluded.type,
		              grouping = excluded.grouping, description = excluded.description,
		              updated_at = excluded.updated_at
	`, st.Key, st.Value, st.Type, st.Group, st.Description, time.Now())
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
