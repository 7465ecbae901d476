// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"lexcms/internal/models"
)

type settingRequest struct {
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Type        string          `json:"type"`
	Group       string          `json:"group"`
	Description string          `json:"description"`
}

// SettingsList handles GET /api/settings. JSON-looking values come back
// decoded into their structured form.
func (a *API) SettingsList(w http.ResponseWriter, r *http.Request) {
	settings, err := a.settings.All()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string]any, len(settings))
	for _, s := range settings {
		out[s.Key] = s.DecodedValue()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"settings": out,
	})
}

// SettingsSet handles POST /api/settings: upserts one key.
func (a *API) SettingsSet(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Key) == "" {
		writeValidationError(w, "key is required")
		return
	}

	setting := &models.Setting{
		Key:         req.Key,
		Value:       settingValue(req.Value),
		Type:        models.SettingType(req.Type),
		Group:       req.Group,
		Description: req.Description,
	}
	if err := a.settings.Set(setting); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "setting_update", "setting", req.Key, nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Setting saved successfully",
		"key":     req.Key,
	})
}

// settingValue stores JSON strings bare and everything else as its JSON
// encoding, so structured values round-trip through DecodedValue.
func settingValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
