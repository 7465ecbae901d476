// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MediaDescriptor describes one uploaded file attached to a content or
// tree record: its public URL plus the metadata captured at ingestion.
type MediaDescriptor struct {
	Type         string `json:"type"` // "image" or "video"
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
	Size         int64  `json:"size,omitempty"`
	OriginalSize int64  `json:"originalSize,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// IsImage returns true if the descriptor points at an image.
func (m *MediaDescriptor) IsImage() bool {
	return m.Type == "image"
}

// HumanSize returns a human-readable file size string.
func (m *MediaDescriptor) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.Size)/float64(mb))
	case m.Size >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.Size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.Size)
	}
}

// DecodeMediaList parses the images column. Current rows store a JSON
// array of descriptors; legacy rows store a single bare URL string, which
// is wrapped into a one-element image descriptor list.
func DecodeMediaList(raw string) []MediaDescriptor {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []MediaDescriptor
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}

	// Legacy single-string storage.
	return []MediaDescriptor{{Type: "image", URL: raw, ThumbnailURL: raw}}
}

// EncodeMediaList serializes descriptors for the images column.
// An empty list is stored as the empty string, not "[]" or "null".
func EncodeMediaList(list []MediaDescriptor) string {
	if len(list) == 0 {
		return ""
	}
	b, err := json.Marshal(list)
	if err != nil {
		return ""
	}
	return string(b)
}
