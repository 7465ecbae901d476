// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lexcms/internal/models"
	"lexcms/internal/store"
)

// contentPayload is the "data" object of content create/update requests.
// Pointer fields distinguish "absent" from "set to zero", which drives the
// partial-update merge.
type contentPayload struct {
	ID       string    `json:"id"`
	Type     *string   `json:"type"`
	Title    *string   `json:"title"`
	Text     *string   `json:"text"`
	Category *string   `json:"category"`
	VideoURL *string   `json:"videoUrl"`
	Tags     *[]string `json:"tags"`
	Featured *bool     `json:"featured"`
	Priority *int      `json:"priority"`
}

// contentRequest is the envelope shared by POST and PUT.
type contentRequest struct {
	Data  contentPayload `json:"data"`
	Files []filePayload  `json:"files"`
}

// contentView decorates a content row for API responses.
type contentView struct {
	models.Content
	Media       []models.MediaDescriptor `json:"media"`
	DisplayDate string                   `json:"displayDate"`
}

func newContentView(c models.Content, now time.Time) contentView {
	media := c.Media()
	for i := range media {
		media[i].URL = embeddableURL(media[i].URL)
	}
	return contentView{
		Content:     c,
		Media:       media,
		DisplayDate: displayDate(c.CreatedAt, now),
	}
}

// ContentList handles GET /api/content.
func (a *API) ContentList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.ContentFilter{
		Category: q.Get("category"),
		Limit:    intParam(q.Get("limit"), 50),
		Offset:   intParam(q.Get("offset"), 0),
	}
	if t := q.Get("type"); t != "" {
		ct := models.ContentType(t)
		if !ct.Valid() {
			writeValidationError(w, "unknown content type: "+t)
			return
		}
		filter.Type = ct
	}
	if f := q.Get("featured"); f != "" {
		featured := f == "true" || f == "1"
		filter.Featured = &featured
	}

	items, total, err := a.content.List(filter)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	views := make([]contentView, 0, len(items))
	for _, item := range items {
		views = append(views, newContentView(item, now))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"content": views,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// ContentGet handles GET /api/content/{id}. Reading an item increments
// its view counter.
func (a *API) ContentGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := a.content.FindActiveByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeNotFound(w, "content not found")
		return
	}

	if err := a.content.IncrementViews(id); err != nil {
		writeError(w, err)
		return
	}
	item.Views++

	writeJSON(w, http.StatusOK, newContentView(*item, time.Now()))
}

// ContentCreate handles POST /api/content.
func (a *API) ContentCreate(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	item := models.Content{
		ID:       req.Data.ID,
		Type:     models.ContentTypePost,
		Category: "General",
	}
	applyContentPayload(&item, req.Data)

	if !item.Type.Valid() {
		writeValidationError(w, "unknown content type: "+string(item.Type))
		return
	}
	if strings.TrimSpace(item.Title) == "" {
		writeValidationError(w, "title is required")
		return
	}
	if item.ID == "" {
		item.ID = string(item.Type) + "-" + uuid.New().String()[:8]
	}

	imageURLs, err := a.ingestFiles(req.Files, "", &item.Images, &item.VideoURL)
	if err != nil {
		writeError(w, err)
		return
	}
	item.MediaType = deriveMediaKind(item.Images, item.VideoURL)

	if err := a.content.Create(&item); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "content_create", "content", item.ID, map[string]any{"title": item.Title, "type": item.Type})

	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Content saved successfully",
		"contentId":   item.ID,
		"imageUrls":   imageURLs,
		"videoUrl":    embeddableURL(item.VideoURL),
		"timestamp":   item.CreatedAt.Format(time.RFC3339),
		"displayDate": displayDate(item.CreatedAt, now),
	})
}

// ContentUpdate handles PUT /api/content/{id}. Unset payload fields keep
// their stored values; newly uploaded images replace the stored list only
// when at least one file is supplied.
func (a *API) ContentUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := a.content.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeNotFound(w, "content not found")
		return
	}

	var req contentRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	applyContentPayload(item, req.Data)
	if !item.Type.Valid() {
		writeValidationError(w, "unknown content type: "+string(item.Type))
		return
	}

	if len(req.Files) > 0 {
		var newImages []models.MediaDescriptor
		if _, err := a.ingestFiles(req.Files, "", &newImages, &item.VideoURL); err != nil {
			writeError(w, err)
			return
		}
		if len(newImages) > 0 {
			item.Images = newImages
		}
	}
	item.MediaType = deriveMediaKind(item.Images, item.VideoURL)

	if err := a.content.Update(item); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "content_update", "content", item.ID, map[string]any{"title": item.Title})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Content updated successfully",
		"contentId": item.ID,
	})
}

// ContentDelete handles DELETE /api/content/{id} (soft delete, idempotent).
func (a *API) ContentDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.content.SoftDelete(id); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "content_delete", "content", id, nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Content deleted successfully",
		"contentId": id,
	})
}

// applyContentPayload merges set payload fields into the item.
func applyContentPayload(item *models.Content, p contentPayload) {
	if p.Type != nil {
		item.Type = models.ContentType(*p.Type)
	}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Text != nil {
		item.Text = *p.Text
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.VideoURL != nil {
		item.VideoURL = *p.VideoURL
	}
	if p.Tags != nil {
		item.Tags = *p.Tags
	}
	if p.Featured != nil {
		item.Featured = *p.Featured
	}
	if p.Priority != nil {
		item.Priority = *p.Priority
	}
}

// ingestFiles saves each uploaded file, appending images to the image
// list and routing the last video into the video slot. Returns the image
// URLs for the response.
func (a *API) ingestFiles(files []filePayload, hint string, images *[]models.MediaDescriptor, videoURL *string) ([]string, error) {
	var imageURLs []string
	for _, f := range files {
		name := f.Name
		if name == "" {
			name = "file-" + uuid.New().String()
		}
		desc, err := a.saver.Save(f.Data, name, hint)
		if err != nil {
			return nil, err
		}
		if desc.Type == "image" {
			*images = append(*images, *desc)
			imageURLs = append(imageURLs, desc.URL)
		} else if desc.Type == "video" {
			*videoURL = desc.URL
		}
	}
	return imageURLs, nil
}

// deriveMediaKind classifies the attachment mix of an item.
func deriveMediaKind(images []models.MediaDescriptor, videoURL string) models.MediaKind {
	switch {
	case len(images) > 0 && videoURL != "":
		return models.MediaKindMixed
	case videoURL != "":
		return models.MediaKindVideo
	case len(images) > 0:
		return models.MediaKindImage
	default:
		return ""
	}
}

// intParam parses a positive integer query parameter with a fallback.
func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
