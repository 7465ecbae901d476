// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// HealthStatus represents the assessed condition of a tracked tree.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "Excellent"
	HealthGood      HealthStatus = "Good"
	HealthFair      HealthStatus = "Fair"
	HealthPoor      HealthStatus = "Poor"
)

// Valid reports whether h is a known health status.
func (h HealthStatus) Valid() bool {
	switch h {
	case HealthExcellent, HealthGood, HealthFair, HealthPoor:
		return true
	}
	return false
}

// TreeRecord holds the metadata printed into one tree QR code, plus the
// generated artifact URL and public scan telemetry counters.
type TreeRecord struct {
	ID               string            `json:"id"` // TREE- + 8 uppercase hex
	TreeName         string            `json:"treeName"`
	ScientificName   string            `json:"scientificName,omitempty"`
	PlantedDate      string            `json:"plantedDate,omitempty"`
	Location         string            `json:"location,omitempty"`
	Coordinates      string            `json:"coordinates,omitempty"`
	PlantedBy        string            `json:"plantedBy,omitempty"`
	MaintenanceBy    string            `json:"maintenanceBy,omitempty"`
	TreeAge          string            `json:"treeAge,omitempty"`
	TreeHeight       string            `json:"treeHeight,omitempty"`
	Description      string            `json:"description,omitempty"`
	HealthStatus     HealthStatus      `json:"healthStatus"`
	LastMaintenance  string            `json:"lastMaintenance,omitempty"`
	NextMaintenance  string            `json:"nextMaintenance,omitempty"`
	WateringSchedule string            `json:"wateringSchedule,omitempty"`
	QRCodeURL        string            `json:"qrCodeUrl,omitempty"`
	Images           []MediaDescriptor `json:"images"`
	VideoURL         string            `json:"videoUrl,omitempty"`
	ScanCount        int               `json:"qr_scan_count"`
	DownloadCount    int               `json:"qr_download_count"`
	PrintCount       int               `json:"qr_print_count"`
	Status           RecordStatus      `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// HasVideo returns true if a tree video is attached.
func (t *TreeRecord) HasVideo() bool {
	return t.VideoURL != ""
}
