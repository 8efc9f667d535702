package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/erazemk/vozicek/internal/auth"
)

// Deps are the collaborators the API needs.
type Deps struct {
	DB             *sql.DB
	JWTSecret      string
	Gate           *auth.PasswordGate
	SnapshotMaxAge time.Duration
	Log            zerolog.Logger

	// Now decides what "today" is for classification and check defaults.
	Now func() time.Time
}

// NewRouter creates the HTTP handler with all endpoints and middleware.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	mux := http.NewServeMux()

	snapshots := NewSnapshotCache(d.DB, d.SnapshotMaxAge, d.Now)
	// Token lifetimes always follow the wall clock.
	authHandler := &AuthHandler{DB: d.DB, JWTSecret: d.JWTSecret, Gate: d.Gate, Now: time.Now}
	itemsHandler := &ItemsHandler{DB: d.DB, Snapshots: snapshots, Now: d.Now}
	readinessHandler := &ReadinessHandler{Snapshots: snapshots, Now: d.Now}
	equipmentHandler := &EquipmentHandler{DB: d.DB, Snapshots: snapshots, Now: d.Now}

	authMW := AuthMiddleware(d.JWTSecret, d.DB)
	protect := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	// Public.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/auth/logout", protect(authHandler.Logout))

	// Cart items.
	mux.Handle("GET /api/items", protect(itemsHandler.List))
	mux.Handle("POST /api/items", protect(itemsHandler.Create))
	mux.Handle("GET /api/items/{name}", protect(itemsHandler.Get))
	mux.Handle("PUT /api/items/{name}", protect(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{name}", protect(itemsHandler.Delete))
	mux.Handle("PUT /api/items/{name}/expiry", protect(itemsHandler.SetExpiry))
	mux.Handle("POST /api/items/{name}/consume", protect(itemsHandler.Consume))
	mux.Handle("POST /api/items/{name}/reset", protect(itemsHandler.Reset))

	// Derived views.
	mux.Handle("GET /api/bundles", protect(readinessHandler.Bundles))
	mux.Handle("GET /api/alerts", protect(readinessHandler.Alerts))
	mux.Handle("GET /api/report", protect(readinessHandler.Report))

	// Equipment.
	mux.Handle("GET /api/equipment", protect(equipmentHandler.List))
	mux.Handle("POST /api/equipment", protect(equipmentHandler.Create))
	mux.Handle("GET /api/equipment/{id}", protect(equipmentHandler.Get))
	mux.Handle("PUT /api/equipment/{id}", protect(equipmentHandler.Update))
	mux.Handle("DELETE /api/equipment/{id}", protect(equipmentHandler.Delete))
	mux.Handle("PUT /api/equipment/{id}/maintenance", protect(equipmentHandler.SetMaintenance))
	mux.Handle("PUT /api/equipment/{id}/image", protect(equipmentHandler.UploadImage))
	mux.Handle("GET /api/equipment/{id}/image", protect(equipmentHandler.GetImage))
	mux.Handle("GET /api/equipment/{id}/checks", protect(equipmentHandler.ListChecks))
	mux.Handle("POST /api/equipment/{id}/checks", protect(equipmentHandler.AppendCheck))

	return RequestMiddleware(d.Log)(mux)
}
