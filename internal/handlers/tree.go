// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexcms/internal/models"
	"lexcms/internal/qr"
	"lexcms/internal/store"
)

// treePayload is the "data" object of QR record create/update requests.
type treePayload struct {
	TreeName         *string `json:"treeName"`
	ScientificName   *string `json:"scientificName"`
	PlantedDate      *string `json:"plantedDate"`
	Location         *string `json:"location"`
	Coordinates      *string `json:"coordinates"`
	PlantedBy        *string `json:"plantedBy"`
	MaintenanceBy    *string `json:"maintenanceBy"`
	TreeAge          *string `json:"treeAge"`
	TreeHeight       *string `json:"treeHeight"`
	Description      *string `json:"description"`
	HealthStatus     *string `json:"healthStatus"`
	LastMaintenance  *string `json:"lastMaintenance"`
	NextMaintenance  *string `json:"nextMaintenance"`
	WateringSchedule *string `json:"wateringSchedule"`
	VideoURL         *string `json:"videoUrl"`
}

type treeRequest struct {
	Data  treePayload   `json:"data"`
	Files []filePayload `json:"files"`
}

// TreeList handles GET /api/qr.
func (a *API) TreeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.TreeFilter{
		Location: q.Get("location"),
		Limit:    intParam(q.Get("limit"), 50),
		Offset:   intParam(q.Get("offset"), 0),
	}
	if h := q.Get("healthStatus"); h != "" {
		hs := models.HealthStatus(h)
		if !hs.Valid() {
			writeValidationError(w, "unknown health status: "+h)
			return
		}
		filter.HealthStatus = hs
	}

	items, total, err := a.trees.List(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.TreeRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": items,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// TreeGet handles GET /api/qr/{id}. Fetching a record counts as a scan.
func (a *API) TreeGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := a.trees.FindActiveByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeNotFound(w, "QR record not found")
		return
	}

	if _, err := a.trees.IncrementScans(id); err != nil {
		writeError(w, err)
		return
	}
	rec.ScanCount++

	writeJSON(w, http.StatusOK, rec)
}

// TreeCreate handles POST /api/qr: persists the record and generates its
// QR artifact.
func (a *API) TreeCreate(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	rec := models.TreeRecord{HealthStatus: models.HealthGood}
	applyTreePayload(&rec, req.Data)

	if strings.TrimSpace(rec.TreeName) == "" {
		writeValidationError(w, "treeName is required")
		return
	}
	if !rec.HealthStatus.Valid() {
		writeValidationError(w, "unknown health status: "+string(rec.HealthStatus))
		return
	}

	id, err := qr.NewID()
	if err != nil {
		writeError(w, err)
		return
	}
	rec.ID = id

	if _, err := a.ingestFiles(req.Files, "", &rec.Images, &rec.VideoURL); err != nil {
		writeError(w, err)
		return
	}

	url, err := a.qrgen.Generate(&rec, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	rec.QRCodeURL = url

	if err := a.trees.Create(&rec); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "qr_create", "qr_record", rec.ID, map[string]any{"treeName": rec.TreeName})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "QR record created successfully",
		"qrId":      rec.ID,
		"qrCodeUrl": rec.QRCodeURL,
		"record":    rec,
	})
}

// TreeUpdate handles PUT /api/qr/{id}. The QR artifact is regenerated
// when any field encoded in the payload changes.
func (a *API) TreeUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := a.trees.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeNotFound(w, "QR record not found")
		return
	}

	var req treeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(w, "invalid request body")
		return
	}

	before := qr.BuildPayload(rec, time.Time{})

	applyTreePayload(rec, req.Data)
	if !rec.HealthStatus.Valid() {
		writeValidationError(w, "unknown health status: "+string(rec.HealthStatus))
		return
	}

	if len(req.Files) > 0 {
		var newImages []models.MediaDescriptor
		if _, err := a.ingestFiles(req.Files, "", &newImages, &rec.VideoURL); err != nil {
			writeError(w, err)
			return
		}
		if len(newImages) > 0 {
			rec.Images = newImages
		}
	}

	after := qr.BuildPayload(rec, time.Time{})
	if before != after {
		url, err := a.qrgen.Generate(rec, time.Now())
		if err != nil {
			writeError(w, err)
			return
		}
		rec.QRCodeURL = url
	}

	if err := a.trees.Update(rec); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "qr_update", "qr_record", rec.ID, map[string]any{"treeName": rec.TreeName})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "QR record updated successfully",
		"qrId":    rec.ID,
		"record":  rec,
	})
}

// TreeDelete handles DELETE /api/qr/{id} (soft delete, idempotent).
func (a *API) TreeDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.trees.SoftDelete(id); err != nil {
		writeError(w, err)
		return
	}

	a.logActivity(r, "qr_delete", "qr_record", id, nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "QR record deleted successfully",
		"qrId":    id,
	})
}

// TreeScan, TreeDownload and TreePrint handle the unauthenticated
// telemetry endpoints POST /api/qr/{action}/{id}.
func (a *API) TreeScan(w http.ResponseWriter, r *http.Request) {
	a.bumpCounter(w, r, "scan", a.trees.IncrementScans)
}

func (a *API) TreeDownload(w http.ResponseWriter, r *http.Request) {
	a.bumpCounter(w, r, "download", a.trees.IncrementDownloads)
}

func (a *API) TreePrint(w http.ResponseWriter, r *http.Request) {
	a.bumpCounter(w, r, "print", a.trees.IncrementPrints)
}

func (a *API) bumpCounter(w http.ResponseWriter, r *http.Request, action string, inc func(string) (bool, error)) {
	id := chi.URLParam(r, "id")

	ok, err := inc(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "QR record not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"action":  action,
		"id":      id,
	})
}

func applyTreePayload(rec *models.TreeRecord, p treePayload) {
	if p.TreeName != nil {
		rec.TreeName = *p.TreeName
	}
	if p.ScientificName != nil {
		rec.ScientificName = *p.ScientificName
	}
	if p.PlantedDate != nil {
		rec.PlantedDate = *p.PlantedDate
	}
	if p.Location != nil {
		rec.Location = *p.Location
	}
	if p.Coordinates != nil {
		rec.Coordinates = *p.Coordinates
	}
	if p.PlantedBy != nil {
		rec.PlantedBy = *p.PlantedBy
	}
	if p.MaintenanceBy != nil {
		rec.MaintenanceBy = *p.MaintenanceBy
	}
	if p.TreeAge != nil {
		rec.TreeAge = *p.TreeAge
	}
	if p.TreeHeight != nil {
		rec.TreeHeight = *p.TreeHeight
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.HealthStatus != nil {
		rec.HealthStatus = models.HealthStatus(*p.HealthStatus)
	}
	if p.LastMaintenance != nil {
		rec.LastMaintenance = *p.LastMaintenance
	}
	if p.NextMaintenance != nil {
		rec.NextMaintenance = *p.NextMaintenance
	}
	if p.WateringSchedule != nil {
		rec.WateringSchedule = *p.WateringSchedule
	}
	if p.VideoURL != nil {
		rec.VideoURL = *p.VideoURL
	}
}
