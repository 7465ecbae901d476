// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexcms/internal/models"
)

// Ping handles GET /api/ping.
func (a *API) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Stats handles GET /api/stats: active counts per content type, the QR
// record count, and the grand total.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(models.ContentTypes))
	total := 0
	for _, t := range models.ContentTypes {
		n, err := a.content.CountActiveByType(t)
		if err != nil {
			writeError(w, err)
			return
		}
		counts[string(t)+"s"] = n
		total += n
	}

	qrCount, err := a.trees.CountActive()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"cases":         counts["cases"],
		"posts":         counts["posts"],
		"blogs":         counts["blogs"],
		"announcements": counts["announcements"],
		"qr":            qrCount,
		"totalContent":  total,
	})
}

// Uploads serves files below the upload root for GET /uploads/*. The
// wildcard is cleaned and confined to the root; traversal attempts 404.
func (a *API) Uploads(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	cleaned := path.Clean("/" + rel)
	if cleaned == "/" || strings.Contains(rel, "..") {
		writeNotFound(w, "file not found")
		return
	}

	full := filepath.Join(a.saver.Root(), filepath.FromSlash(cleaned))
	if !strings.HasPrefix(full, filepath.Clean(a.saver.Root())+string(filepath.Separator)) {
		writeNotFound(w, "file not found")
		return
	}

	http.ServeFile(w, r, full)
}

// DriveProxy handles GET /api/drive-proxy/{fileId}: redirects to the
// Google Drive direct-download URL for the file.
func (a *API) DriveProxy(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")
	if fileID == "" || !driveFileIDSafe(fileID) {
		writeValidationError(w, "invalid file id")
		return
	}

	http.Redirect(w, r, "https://drive.google.com/uc?export=download&id="+fileID,
		http.StatusFound)
}

// driveFileIDSafe restricts ids to the Drive alphabet.
func driveFileIDSafe(id string) bool {
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
