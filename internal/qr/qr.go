// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package qr renders tree-record QR artifacts. A record is serialized to
// a JSON payload, encoded as a QR bitmap with high error correction, and
// composited with the tree name as a caption beneath the code. If the
// captioned variant cannot be produced the plain bitmap is written instead.
package qr

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lexcms/internal/models"
)

const (
	// qrSize is the pixel edge of the generated code.
	qrSize = 512

	// captionHeight is the strip added beneath the code for the tree name.
	captionHeight = 40
)

// NewID generates a tree record id: TREE- followed by 8 uppercase hex chars.
func NewID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("qr id: %w", err)
	}
	return "TREE-" + strings.ToUpper(hex.EncodeToString(b)), nil
}

// Payload is the curated subset of record fields encoded into the code.
type Payload struct {
	ID               string `json:"id"`
	TreeName         string `json:"treeName"`
	ScientificName   string `json:"scientificName,omitempty"`
	PlantedDate      string `json:"plantedDate,omitempty"`
	Location         string `json:"location,omitempty"`
	Coordinates      string `json:"coordinates,omitempty"`
	PlantedBy        string `json:"plantedBy,omitempty"`
	MaintenanceBy    string `json:"maintenanceBy,omitempty"`
	TreeAge          string `json:"treeAge,omitempty"`
	TreeHeight       string `json:"treeHeight,omitempty"`
	Description      string `json:"description,omitempty"`
	HealthStatus     string `json:"healthStatus"`
	LastMaintenance  string `json:"lastMaintenance,omitempty"`
	NextMaintenance  string `json:"nextMaintenance,omitempty"`
	WateringSchedule string `json:"wateringSchedule,omitempty"`
	AgeYears         int    `json:"ageYears,omitempty"`
	AgeMonths        int    `json:"ageMonths,omitempty"`
	ImageCount       int    `json:"imageCount"`
	HasVideo         bool   `json:"hasVideo"`
	Generated        string `json:"generated"`
}

// BuildPayload assembles the QR payload for a record, deriving the age
// fields when the planted date parses. Unparseable dates are silently
// skipped, never an error.
func BuildPayload(r *models.TreeRecord, now time.Time) Payload {
	p := Payload{
		ID:               r.ID,
		TreeName:         r.TreeName,
		ScientificName:   r.ScientificName,
		PlantedDate:      r.PlantedDate,
		Location:         r.Location,
		Coordinates:      r.Coordinates,
		PlantedBy:        r.PlantedBy,
		MaintenanceBy:    r.MaintenanceBy,
		TreeAge:          r.TreeAge,
		TreeHeight:       r.TreeHeight,
		Description:      r.Description,
		HealthStatus:     string(r.HealthStatus),
		LastMaintenance:  r.LastMaintenance,
		NextMaintenance:  r.NextMaintenance,
		WateringSchedule: r.WateringSchedule,
		ImageCount:       len(r.Images),
		HasVideo:         r.HasVideo(),
		Generated:        now.Format(time.RFC3339),
	}

	if planted, ok := parseDate(r.PlantedDate); ok {
		years, months := ageSince(planted, now)
		p.AgeYears = years
		p.AgeMonths = months
	}

	return p
}

// parseDate accepts the date layouts seen in submitted records.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ageSince returns whole years and remaining months between two dates.
func ageSince(from, to time.Time) (years, months int) {
	if to.Before(from) {
		return 0, 0
	}
	years = to.Year() - from.Year()
	months = int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		years--
		months += 12
	}
	if years < 0 {
		return 0, 0
	}
	return years, months
}

// Generator writes QR artifacts under the uploads root.
type Generator struct {
	root string // upload root; artifacts land in <root>/qrcodes
}

// NewGenerator creates a Generator rooted at the given upload directory.
func NewGenerator(uploadRoot string) *Generator {
	return &Generator{root: uploadRoot}
}

// Generate renders the QR artifact for a record and writes it to
// qrcodes/qr_<id>.png. Returns the public URL of the artifact.
func (g *Generator) Generate(r *models.TreeRecord, now time.Time) (string, error) {
	payload, err := json.Marshal(BuildPayload(r, now))
	if err != nil {
		return "", fmt.Errorf("qr payload: %w", err)
	}

	plain, err := qrcode.Encode(string(payload), qrcode.High, qrSize)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}

	// Prefer the captioned variant; fall back to the plain code.
	out := plain
	if styled, err := captioned(plain, r.TreeName); err == nil {
		out = styled
	} else {
		slog.Warn("qr caption compositing failed, using plain code", "error", err, "id", r.ID)
	}

	rel := filepath.Join("qrcodes", "qr_"+r.ID+".png")
	if err := os.WriteFile(filepath.Join(g.root, rel), out, 0o644); err != nil {
		return "", fmt.Errorf("write qr artifact: %w", err)
	}

	return "/uploads/" + filepath.ToSlash(rel), nil
}

// captioned composites the tree name beneath the QR bitmap.
func captioned(plainPNG []byte, caption string) ([]byte, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, fmt.Errorf("empty caption")
	}

	src, err := png.Decode(bytes.NewReader(plainPNG))
	if err != nil {
		return nil, fmt.Errorf("decode qr png: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+captionHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	width := font.MeasureString(face, caption).Ceil()
	x := (bounds.Dx() - width) / 2
	if x < 0 {
		x = 0
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(bounds.Dy() + captionHeight/2 + face.Metrics().Ascent.Ceil()/2),
		},
	}
	drawer.DrawString(caption)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode captioned png: %w", err)
	}
	return buf.Bytes(), nil
}
