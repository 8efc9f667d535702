package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/vozicek/internal/imaging"
	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

// EquipmentHandler handles equipment units and their daily check log.
type EquipmentHandler struct {
	DB        *sql.DB
	Snapshots *SnapshotCache
	Now       func() time.Time
}

type equipmentRequest struct {
	Name         string `json:"name"`
	AssetCode    string `json:"asset_code"`
	SerialNumber string `json:"serial_number"`
}

type maintenanceRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

type checkRequest struct {
	CheckDate  string            `json:"check_date"`
	CheckTime  string            `json:"check_time"`
	Status     model.CheckStatus `json:"status"`
	BorrowedTo string            `json:"borrowed_to"`
	Remark     string            `json:"remark"`
	CheckedBy  string            `json:"checked_by"`
}

type unitResponse struct {
	Unit   *model.EquipmentUnit   `json:"unit"`
	Latest readiness.LatestStatus `json:"latest"`
	Checks []model.CheckRecord    `json:"checks"`
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return 0, false
	}
	return id, true
}

// List handles GET /api/equipment and returns the fleet summary.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshots.Get(r.Context())
	if err != nil {
		storeError(w, r, err, "failed to list equipment")
		return
	}
	jsonResponse(w, http.StatusOK, readiness.SummarizeFleet(snap.Equipment, snap.Checks))
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	unit, err := store.CreateEquipment(r.Context(), h.DB, model.EquipmentUnit{
		Name: req.Name, AssetCode: req.AssetCode, SerialNumber: req.SerialNumber,
	})
	if err != nil {
		storeError(w, r, err, "failed to create equipment")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusCreated, unit)
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	unit, err := store.GetEquipment(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, err, "failed to get equipment")
		return
	}
	if unit == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}

	checks, err := store.ListChecks(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, err, "failed to list checks")
		return
	}
	if checks == nil {
		checks = []model.CheckRecord{}
	}

	jsonResponse(w, http.StatusOK, unitResponse{
		Unit:   unit,
		Latest: readiness.ResolveLatestStatus(checks),
		Checks: checks,
	})
}

// Update handles PUT /api/equipment/{id}.
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	err := store.UpdateEquipment(r.Context(), h.DB, model.EquipmentUnit{
		ID: id, Name: req.Name, AssetCode: req.AssetCode, SerialNumber: req.SerialNumber,
	})
	if err != nil {
		storeError(w, r, err, "failed to update equipment")
		return
	}
	h.Snapshots.Invalidate()
	h.Get(w, r)
}

// Delete handles DELETE /api/equipment/{id}.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := store.DeleteEquipment(r.Context(), h.DB, id); err != nil {
		storeError(w, r, err, "failed to delete equipment")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusOK, map[string]string{"message": "equipment deleted"})
}

// SetMaintenance handles PUT /api/equipment/{id}/maintenance.
func (h *EquipmentHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req maintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var date *time.Time
	if strings.TrimSpace(req.Date) != "" {
		t, ok := readiness.ParseDate(req.Date)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = &t
	}

	if err := store.SetMaintenance(r.Context(), h.DB, id, date, req.Note); err != nil {
		storeError(w, r, err, "failed to set maintenance")
		return
	}
	h.Snapshots.Invalidate()
	h.Get(w, r)
}

// UploadImage handles PUT /api/equipment/{id}/image. The body is the raw
// JPEG or PNG file.
func (h *EquipmentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	photo, err := imaging.ProcessPhoto(r.Body)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, "image must be a JPEG or PNG")
		return
	}

	if err := store.SetEquipmentImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, r, err, "failed to save image")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "image uploaded",
		"width":   photo.Width,
		"height":  photo.Height,
	})
}

// GetImage handles GET /api/equipment/{id}/image.
func (h *EquipmentHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, mime, err := store.GetEquipmentImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, err, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// ListChecks handles GET /api/equipment/{id}/checks.
func (h *EquipmentHandler) ListChecks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	checks, err := store.ListChecks(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, r, err, "failed to list checks")
		return
	}
	if checks == nil {
		checks = []model.CheckRecord{}
	}
	jsonResponse(w, http.StatusOK, checks)
}

// AppendCheck handles POST /api/equipment/{id}/checks. Date and time
// default to now; the checker defaults to the logged-in operator.
func (h *EquipmentHandler) AppendCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := h.Now()
	date := readiness.Day(now)
	if req.CheckDate != "" {
		t, ok := readiness.ParseDate(req.CheckDate)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid check_date")
			return
		}
		date = t
	}
	checkTime := strings.TrimSpace(req.CheckTime)
	if checkTime == "" {
		checkTime = now.Format("15:04")
	}
	checkedBy := strings.TrimSpace(req.CheckedBy)
	if claims := GetClaims(r.Context()); checkedBy == "" && claims != nil {
		checkedBy = claims.Operator
	}

	rec, err := store.AppendCheck(r.Context(), h.DB, model.CheckRecord{
		EquipmentID: id,
		CheckDate:   &date,
		CheckTime:   checkTime,
		Status:      model.CheckStatus(strings.ToUpper(strings.TrimSpace(string(req.Status)))),
		BorrowedTo:  strings.TrimSpace(req.BorrowedTo),
		Remark:      strings.TrimSpace(req.Remark),
		CheckedBy:   checkedBy,
	})
	if err != nil {
		storeError(w, r, err, "failed to record check")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusCreated, rec)
}
