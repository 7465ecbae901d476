// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lexcms/internal/models"
)

const treeColumns = `id, tree_name, scientific_name, planted_date, location, coordinates,
	planted_by, maintenance_by, tree_age, tree_height, description, health_status,
	last_maintenance, next_maintenance, watering_schedule, qr_code_url, images, video_url,
	scan_count, download_count, print_count, status, created_at, updated_at`

// TreeStore handles all tree QR record database operations.
type TreeStore struct {
	db *sql.DB
}

// NewTreeStore creates a new TreeStore with the given database connection.
func NewTreeStore(db *sql.DB) *TreeStore {
	return &TreeStore{db: db}
}

// TreeFilter narrows an active tree-record listing.
type TreeFilter struct {
	HealthStatus models.HealthStatus // exact match
	Location     string              // substring match
	Limit        int
	Offset       int
}

// List returns active tree records matching the filter, newest first,
// plus the total active count for the same filter.
func (s *TreeStore) List(f TreeFilter) ([]models.TreeRecord, int, error) {
	where := []string{"status = ?"}
	args := []any{models.StatusActive}

	if f.HealthStatus != "" {
		where = append(where, "health_status = ?")
		args = append(args, f.HealthStatus)
	}
	if f.Location != "" {
		where = append(where, "location LIKE ?")
		args = append(args, "%"+f.Location+"%")
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM qr_records WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count qr records: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM qr_records
		WHERE %s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, treeColumns, clause)
	rows, err := s.db.Query(query, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list qr records: %w", err)
	}
	defer rows.Close()

	var items []models.TreeRecord
	for rows.Next() {
		r, err := scanTree(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *r)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a tree record regardless of status. Returns nil if not found.
func (s *TreeStore) FindByID(id string) (*models.TreeRecord, error) {
	row := s.db.QueryRow(`SELECT `+treeColumns+` FROM qr_records WHERE id = ?`, id)
	r, err := scanTree(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find qr record: %w", err)
	}
	return r, nil
}

// FindActiveByID retrieves an active tree record by id.
func (s *TreeStore) FindActiveByID(id string) (*models.TreeRecord, error) {
	row := s.db.QueryRow(`SELECT `+treeColumns+` FROM qr_records WHERE id = ? AND status = ?`,
		id, models.StatusActive)
	r, err := scanTree(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active qr record: %w", err)
	}
	return r, nil
}

// Create inserts a new tree record. Timestamps are set to now.
func (s *TreeStore) Create(r *models.TreeRecord) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Status == "" {
		r.Status = models.StatusActive
	}
	if r.HealthStatus == "" {
		r.HealthStatus = models.HealthGood
	}

	_, err := s.db.Exec(`
		INSERT INTO qr_records (id, tree_name, scientific_name, planted_date, location,
		                        coordinates, planted_by, maintenance_by, tree_age, tree_height,
		                        description, health_status, last_maintenance, next_maintenance,
		                        watering_schedule, qr_code_url, images, video_url,
		                        scan_count, download_count, print_count, status,
		                        created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.TreeName, r.ScientificName, r.PlantedDate, r.Location,
		r.Coordinates, r.PlantedBy, r.MaintenanceBy, r.TreeAge, r.TreeHeight,
		r.Description, r.HealthStatus, r.LastMaintenance, r.NextMaintenance,
		r.WateringSchedule, r.QRCodeURL, models.EncodeMediaList(r.Images), r.VideoURL,
		r.ScanCount, r.DownloadCount, r.PrintCount, r.Status,
		r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create qr record: %w", err)
	}
	return nil
}

// Update overwrites an existing tree record. Counters are not touched here;
// they move only through the Increment methods.
func (s *TreeStore) Update(r *models.TreeRecord) error {
	r.UpdatedAt = time.Now()

	_, err := s.db.Exec(`
		UPDATE qr_records SET
			tree_name = ?, scientific_name = ?, planted_date = ?, location = ?,
			coordinates = ?, planted_by = ?, maintenance_by = ?, tree_age = ?,
			tree_height = ?, description = ?, health_status = ?, last_maintenance = ?,
			next_maintenance = ?, watering_schedule = ?, qr_code_url = ?, images = ?,
			video_url = ?, updated_at = ?
		WHERE id = ?
	`, r.TreeName, r.ScientificName, r.PlantedDate, r.Location,
		r.Coordinates, r.PlantedBy, r.MaintenanceBy, r.TreeAge,
		r.TreeHeight, r.Description, r.HealthStatus, r.LastMaintenance,
		r.NextMaintenance, r.WateringSchedule, r.QRCodeURL, models.EncodeMediaList(r.Images),
		r.VideoURL, r.UpdatedAt, r.ID)
	if err != nil {
		return fmt.Errorf("update qr record: %w", err)
	}
	return nil
}

// SoftDelete flips a tree record to Inactive. Idempotent.
func (s *TreeStore) SoftDelete(id string) error {
	_, err := s.db.Exec(`UPDATE qr_records SET status = ?, updated_at = ? WHERE id = ?`,
		models.StatusInactive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("soft delete qr record: %w", err)
	}
	return nil
}

// IncrementCounter bumps one of the public telemetry counters. Column
// names are fixed by the callers; never pass user input.
func (s *TreeStore) incrementCounter(column, id string) (bool, error) {
	res, err := s.db.Exec(
		fmt.Sprintf(`UPDATE qr_records SET %s = %s + 1 WHERE id = ?`, column, column), id)
	if err != nil {
		return false, fmt.Errorf("increment %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment %s rows: %w", column, err)
	}
	return n > 0, nil
}

// IncrementScans bumps the scan counter. Returns false if the id is unknown.
func (s *TreeStore) IncrementScans(id string) (bool, error) {
	return s.incrementCounter("scan_count", id)
}

// IncrementDownloads bumps the download counter.
func (s *TreeStore) IncrementDownloads(id string) (bool, error) {
	return s.incrementCounter("download_count", id)
}

// IncrementPrints bumps the print counter.
func (s *TreeStore) IncrementPrints(id string) (bool, error) {
	return s.incrementCounter("print_count", id)
}

// CountActive returns the number of active tree records.
func (s *TreeStore) CountActive() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM qr_records WHERE status = ?`,
		models.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count qr records: %w", err)
	}
	return count, nil
}

func scanTree(row scanner) (*models.TreeRecord, error) {
	r := &models.TreeRecord{}
	var images string
	err := row.Scan(
		&r.ID, &r.TreeName, &r.ScientificName, &r.PlantedDate, &r.Location, &r.Coordinates,
		&r.PlantedBy, &r.MaintenanceBy, &r.TreeAge, &r.TreeHeight, &r.Description,
		&r.HealthStatus, &r.LastMaintenance, &r.NextMaintenance, &r.WateringSchedule,
		&r.QRCodeURL, &images, &r.VideoURL,
		&r.ScanCount, &r.DownloadCount, &r.PrintCount, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan qr record: %w", err)
	}
	r.Images = models.DecodeMediaList(images)
	return r, nil
}
