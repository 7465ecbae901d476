// Package handlers implements the JSON API surface: content and tree QR
// CRUD, auth, profile image, settings, activity, stats, and static upload
// serving.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lexcms/internal/auth"
	"lexcms/internal/config"
	"lexcms/internal/middleware"
	"lexcms/internal/models"
	"lexcms/internal/qr"
	"lexcms/internal/store"
	"lexcms/internal/upload"
)

// Version reported by the ping endpoint.
const Version = "5.0.0"

// API groups every handler's dependencies.
type API struct {
	cfg      *config.Config
	content  *store.ContentStore
	trees    *store.TreeStore
	profile  *store.ProfileStore
	settings *store.SettingStore
	activity *store.ActivityStore
	auth     *auth.Service
	saver    *upload.Saver
	qrgen    *qr.Generator
}

// New creates the API handler group with its dependencies.
func New(cfg *config.Config, content *store.ContentStore, trees *store.TreeStore,
	profile *store.ProfileStore, settings *store.SettingStore, activity *store.ActivityStore,
	authSvc *auth.Service, saver *upload.Saver, qrgen *qr.Generator) *API {
	return &API{
		cfg:      cfg,
		content:  content,
		trees:    trees,
		profile:  profile,
		settings: settings,
		activity: activity,
		auth:     authSvc,
		saver:    saver,
		qrgen:    qrgen,
	}
}

// filePayload is one base64-encoded upload inside a create/update request.
type filePayload struct {
	Name string `json:"name"`
	Type string `json:"type"` // client MIME hint, e.g. "image/png"
	Data string `json:"data"` // base64, optionally with data-URL prefix
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError maps an error to the HTTP taxonomy and writes the standard
// failure envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, upload.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

// writeValidationError reports a 400 with a caller-facing message.
func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": msg})
}

// writeNotFound reports a 404 for an unknown entity id.
func writeNotFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": msg})
}

// decodeBody unmarshals a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// logActivity appends an audit entry for the acting user; failures are
// logged, never surfaced to the client.
func (a *API) logActivity(r *http.Request, action, entityType, entityID string, detail any) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		return
	}

	detailJSON := ""
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			detailJSON = string(b)
		}
	}

	err := a.activity.Append(&models.ActivityEntry{
		UserID:     user.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detailJSON,
		IP:         middleware.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		slog.Error("activity append failed", "error", err, "action", action)
	}
}
