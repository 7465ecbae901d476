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

// ActivityStore writes and reads the append-only audit log. Entries are
// never updated or deleted.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore creates a new ActivityStore with the given database connection.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Append writes one audit entry.
func (s *ActivityStore) Append(e *models.ActivityEntry) error {
	e.CreatedAt = time.Now()
	_, err := s.db.Exec(`
		INSERT INTO activity_log (user_id, action, entity_type, entity_id, detail, ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.UserID, e.Action, e.EntityType, e.EntityID, e.Detail, e.IP, e.UserAgent, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// List returns audit entries newest first, joined with the acting user's
// email for display, plus the total entry count.
func (s *ActivityStore) List(limit, offset int) ([]models.ActivityEntry, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM activity_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT a.id, a.user_id, COALESCE(u.email, ''), a.action, a.entity_type, a.entity_id,
		       a.detail, a.ip, a.user_agent, a.created_at
		FROM activity_log a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.EntityType, &e.EntityID,
			&e.Detail, &e.IP, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
