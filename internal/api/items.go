package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/vozicek/internal/model"
	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

// ItemsHandler handles cart item endpoints.
type ItemsHandler struct {
	DB        *sql.DB
	Snapshots *SnapshotCache
	Now       func() time.Time
}

type itemRequest struct {
	Name         string `json:"name"`
	Stock        *int   `json:"stock"`
	CurrentStock *int   `json:"current_stock"`
	ExpiryDate   string `json:"expiry_date"`
	Bundle       string `json:"bundle"`
}

// toItem validates the request. Current stock defaults to par.
func (req itemRequest) toItem(name string) (model.InventoryItem, string) {
	item := model.InventoryItem{Name: strings.TrimSpace(name), Bundle: strings.TrimSpace(req.Bundle)}
	if item.Name == "" {
		return item, "name required"
	}
	if req.Stock == nil || *req.Stock < 0 {
		return item, "stock must be zero or more"
	}
	item.Stock = *req.Stock
	item.CurrentStock = item.Stock
	if req.CurrentStock != nil {
		if *req.CurrentStock < 0 {
			return item, "current_stock must be zero or more"
		}
		item.CurrentStock = *req.CurrentStock
	}
	if req.ExpiryDate != "" {
		t, ok := readiness.ParseDate(req.ExpiryDate)
		if !ok {
			return item, "invalid expiry_date"
		}
		item.ExpiryDate = &t
	}
	return item, ""
}

type expiryRequest struct {
	ExpiryDate string `json:"expiry_date"`
}

type consumeRequest struct {
	Quantity int `json:"quantity"`
}

type stockResponse struct {
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
}

func (h *ItemsHandler) today() time.Time {
	return readiness.Day(h.Now())
}

// List handles GET /api/items. Items are classified, sorted by expiry then
// name, and optionally filtered by a case-insensitive name substring.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Snapshots.Get(r.Context())
	if err != nil {
		storeError(w, r, err, "failed to list items")
		return
	}

	items := readiness.SortByExpiry(readiness.ClassifyAll(snap.Items, h.today()))
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := items[:0]
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Name), q) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	if items == nil {
		items = []readiness.ClassifiedItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, msg := req.toItem(req.Name)
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		storeError(w, r, err, "failed to create item")
		return
	}
	h.Snapshots.Invalidate()

	jsonResponse(w, http.StatusCreated, readiness.Classify(*created, h.today()))
}

// Get handles GET /api/items/{name}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("name"))
	if err != nil {
		storeError(w, r, err, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, readiness.Classify(*item, h.today()))
}

// Update handles PUT /api/items/{name}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, msg := req.toItem(r.PathValue("name"))
	if msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, item); err != nil {
		storeError(w, r, err, "failed to update item")
		return
	}
	h.Snapshots.Invalidate()
	h.Get(w, r)
}

// Delete handles DELETE /api/items/{name}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteItem(r.Context(), h.DB, r.PathValue("name")); err != nil {
		storeError(w, r, err, "failed to delete item")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// SetExpiry handles PUT /api/items/{name}/expiry. An empty date clears it.
func (h *ItemsHandler) SetExpiry(w http.ResponseWriter, r *http.Request) {
	var req expiryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var expiry *time.Time
	if strings.TrimSpace(req.ExpiryDate) != "" {
		t, ok := readiness.ParseDate(req.ExpiryDate)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid expiry_date")
			return
		}
		expiry = &t
	}

	if err := store.SetExpiry(r.Context(), h.DB, r.PathValue("name"), expiry); err != nil {
		storeError(w, r, err, "failed to set expiry")
		return
	}
	h.Snapshots.Invalidate()
	h.Get(w, r)
}

// Consume handles POST /api/items/{name}/consume.
func (h *ItemsHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := r.PathValue("name")
	remaining, err := store.ConsumeStock(r.Context(), h.DB, name, req.Quantity)
	if err != nil {
		storeError(w, r, err, "failed to consume stock")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusOK, stockResponse{Name: name, CurrentStock: remaining})
}

// Reset handles POST /api/items/{name}/reset.
func (h *ItemsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	current, err := store.ResetStock(r.Context(), h.DB, name)
	if err != nil {
		storeError(w, r, err, "failed to reset stock")
		return
	}
	h.Snapshots.Invalidate()
	jsonResponse(w, http.StatusOK, stockResponse{Name: name, CurrentStock: current})
}
