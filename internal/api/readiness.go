package api

import (
	"net/http"
	"time"

	"github.com/erazemk/vozicek/internal/readiness"
)

// ReadinessHandler serves the derived views over the current snapshot.
type ReadinessHandler struct {
	Snapshots *SnapshotCache
	Now       func() time.Time
}

// evaluate builds the report for ?date= or today.
func (h *ReadinessHandler) evaluate(w http.ResponseWriter, r *http.Request) (readiness.Report, bool) {
	today := readiness.Day(h.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		t, ok := readiness.ParseDate(raw)
		if !ok {
			jsonError(w, http.StatusBadRequest, "invalid date")
			return readiness.Report{}, false
		}
		today = t
	}

	snap, err := h.Snapshots.Get(r.Context())
	if err != nil {
		storeError(w, r, err, "failed to load records")
		return readiness.Report{}, false
	}
	return readiness.Evaluate(snap, today), true
}

// Bundles handles GET /api/bundles.
func (h *ReadinessHandler) Bundles(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.evaluate(w, r); ok {
		jsonResponse(w, http.StatusOK, report.Bundles)
	}
}

// Alerts handles GET /api/alerts.
func (h *ReadinessHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	report, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"alerts":   report.Alerts,
		"counts":   report.Counts,
		"warnings": report.Warnings,
	})
}

// Report handles GET /api/report.
func (h *ReadinessHandler) Report(w http.ResponseWriter, r *http.Request) {
	if report, ok := h.evaluate(w, r); ok {
		jsonResponse(w, http.StatusOK, report)
	}
}
