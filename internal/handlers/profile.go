// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lexcms/internal/models"
)

// profilePlaceholder is returned when no profile image has been uploaded
// yet, or when the stored file is gone from disk.
const profilePlaceholder = "/uploads/profile/default.jpg"

type profileRequest struct {
	File     *filePayload   `json:"file"`
	Metadata map[string]any `json:"metadata"`
}

// ProfileGet handles GET /api/profile-image.
func (a *API) ProfileGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.profile.Get()
	if err != nil {
		writeError(w, err)
		return
	}

	if cfg == nil || !a.uploadExists(cfg.ImageURL) {
		writeJSON(w, http.StatusOK, map[string]any{
			"profileImage": profilePlaceholder,
			"version":      0,
		})
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// ProfileUpdate handles POST /api/profile-image: saves the new image into
// the profile folder, removes the previous file, and bumps the version.
func (a *API) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if req.File == nil || req.File.Data == "" {
		writeValidationError(w, "file is required")
		return
	}

	name := req.File.Name
	if name == "" {
		name = "profile.jpg"
	}
	desc, err := a.saver.Save(req.File.Data, name, "profile")
	if err != nil {
		writeError(w, err)
		return
	}

	prev, err := a.profile.Get()
	if err != nil {
		writeError(w, err)
		return
	}

	metadata := ""
	if req.Metadata != nil {
		if b, mErr := json.Marshal(req.Metadata); mErr == nil {
			metadata = string(b)
		}
	}

	cfg, err := a.profile.Replace(desc.URL, desc.ThumbnailURL, metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	// Old artifacts are removed only after the new row is in place, and
	// never the shared placeholder.
	if prev != nil && prev.ImageURL != desc.URL && prev.ImageURL != profilePlaceholder {
		a.removeUpload(prev.ImageURL)
		a.removeUpload(prev.ThumbnailURL)
	}

	a.logActivity(r, "profile_update", "profile", models.ProfileKey,
		map[string]any{"version": cfg.Version})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Profile image updated successfully",
		"profileImage": cfg.ImageURL,
		"thumbnailUrl": cfg.ThumbnailURL,
		"version":      cfg.Version,
	})
}

// uploadExists reports whether an /uploads URL still has a backing file.
func (a *API) uploadExists(url string) bool {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok {
		// External URLs are assumed reachable.
		return url != ""
	}
	_, err := os.Stat(filepath.Join(a.saver.Root(), filepath.FromSlash(rel)))
	return err == nil
}

// removeUpload deletes the backing file of an /uploads URL, best effort.
func (a *API) removeUpload(url string) {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok || rel == "" {
		return
	}
	path := filepath.Join(a.saver.Root(), filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("stale upload removal failed", "path", path, "error", err)
	}
}
