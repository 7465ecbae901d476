// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// ContentType distinguishes the kinds of posts served by the site.
type ContentType string

const (
	ContentTypeCase         ContentType = "case"
	ContentTypePost         ContentType = "post"
	ContentTypeBlog         ContentType = "blog"
	ContentTypeAnnouncement ContentType = "announcement"
)

// ContentTypes lists every valid content type, in stats reporting order.
var ContentTypes = []ContentType{
	ContentTypeCase,
	ContentTypePost,
	ContentTypeBlog,
	ContentTypeAnnouncement,
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeCase, ContentTypePost, ContentTypeBlog, ContentTypeAnnouncement:
		return true
	}
	return false
}

// RecordStatus represents the soft-delete state of a row. Deleting a
// content or QR record flips its status to Inactive; the row is retained.
type RecordStatus string

const (
	StatusActive   RecordStatus = "Active"
	StatusInactive RecordStatus = "Inactive"
)

// MediaKind classifies the attachments carried by a content item.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindMixed MediaKind = "mixed"
)

// Content represents a single site post: a case, post, blog, or announcement.
type Content struct {
	ID        string            `json:"id"`
	Type      ContentType       `json:"type"`
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	Category  string            `json:"category"`
	Images    []MediaDescriptor `json:"images"`
	VideoURL  string            `json:"videoUrl,omitempty"`
	Tags      []string          `json:"tags"`
	Status    RecordStatus      `json:"status"`
	MediaType MediaKind         `json:"mediaType,omitempty"`
	Views     int               `json:"views"`
	Likes     int               `json:"likes"`
	Shares    int               `json:"shares"`
	Featured  bool              `json:"featured"`
	Priority  int               `json:"priority"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Media assembles the item's display media list: every image descriptor
// in stored order, plus a trailing video entry when a video URL is set.
func (c *Content) Media() []MediaDescriptor {
	media := make([]MediaDescriptor, 0, len(c.Images)+1)
	media = append(media, c.Images...)
	if c.VideoURL != "" {
		media = append(media, MediaDescriptor{Type: "video", URL: c.VideoURL})
	}
	return media
}
