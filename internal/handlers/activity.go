// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"lexcms/internal/models"
)

// ActivityList handles GET /api/activity: the bearer-protected audit
// trail, newest first.
func (a *API) ActivityList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 50)
	offset := intParam(q.Get("offset"), 0)

	entries, total, err := a.activity.List(limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"activity": entries,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
