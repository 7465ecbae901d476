// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lexcms/internal/models"
)

// contentColumns is the select list shared by every content query.
const contentColumns = `id, type, title, text, category, images, video_url, tags,
	status, media_type, views, likes, shares, featured, priority, created_at, updated_at`

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ContentFilter narrows an active-content listing.
type ContentFilter struct {
	Type     models.ContentType
	Category string
	Featured *bool
	Limit    int
	Offset   int
}

// List returns active content matching the filter, ordered by priority
// descending then creation date descending, plus the total active count
// for the same filter (ignoring pagination).
func (s *ContentStore) List(f ContentFilter) ([]models.Content, int, error) {
	where := []string{"status = ?"}
	args := []any{models.StatusActive}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, *f.Featured)
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM content WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM content
		WHERE %s
		ORDER BY priority DESC, created_at DESC
		LIMIT ? OFFSET ?
	`, contentColumns, clause)
	rows, err := s.db.Query(query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a content item regardless of status. Returns nil if
// not found. Soft-deleted rows remain reachable through this lookup.
func (s *ContentStore) FindByID(id string) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM content WHERE id = ?`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindActiveByID retrieves an active content item by id. Returns nil if
// absent or soft-deleted.
func (s *ContentStore) FindActiveByID(id string) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM content WHERE id = ? AND status = ?`,
		id, models.StatusActive)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active content: %w", err)
	}
	return c, nil
}

// Create inserts a new content item. CreatedAt and UpdatedAt are set to now.
func (s *ContentStore) Create(c *models.Content) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = models.StatusActive
	}

	_, err := s.db.Exec(`
		INSERT INTO content (id, type, title, text, category, images, video_url, tags,
		                     status, media_type, views, likes, shares, featured, priority,
		                     created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Type, c.Title, c.Text, c.Category,
		models.EncodeMediaList(c.Images), c.VideoURL, encodeTags(c.Tags),
		c.Status, c.MediaType, c.Views, c.Likes, c.Shares, c.Featured, c.Priority,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Update overwrites an existing content row. Partial-update semantics are
// the caller's responsibility: handlers merge the request payload into the
// previously stored item before calling Update.
func (s *ContentStore) Update(c *models.Content) error {
	c.UpdatedAt = time.Now()

	_, err := s.db.Exec(`
		UPDATE content SET
			type = ?, title = ?, text = ?, category = ?, images = ?, video_url = ?,
			tags = ?, media_type = ?, featured = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, c.Type, c.Title, c.Text, c.Category,
		models.EncodeMediaList(c.Images), c.VideoURL, encodeTags(c.Tags),
		c.MediaType, c.Featured, c.Priority, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// SoftDelete flips a content item to Inactive, retaining the row.
// Deleting an already-inactive or missing id is a no-op.
func (s *ContentStore) SoftDelete(id string) error {
	_, err := s.db.Exec(`UPDATE content SET status = ?, updated_at = ? WHERE id = ?`,
		models.StatusInactive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete content: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter as an observable side effect of a read.
func (s *ContentStore) IncrementViews(id string) error {
	_, err := s.db.Exec(`UPDATE content SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// CountActiveByType returns the number of active content items of the given type.
func (s *ContentStore) CountActiveByType(t models.ContentType) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content WHERE type = ? AND status = ?`,
		t, models.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count content by type: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*models.Content, error) {
	c := &models.Content{}
	var images, tags string
	err := row.Scan(
		&c.ID, &c.Type, &c.Title, &c.Text, &c.Category, &images, &c.VideoURL, &tags,
		&c.Status, &c.MediaType, &c.Views, &c.Likes, &c.Shares, &c.Featured, &c.Priority,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	c.Images = models.DecodeMediaList(images)
	c.Tags = decodeTags(tags)
	return c, nil
}

// encodeTags serializes a tag set for the tags column. Empty sets are
// stored as the empty string.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		// Legacy comma-separated storage.
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
