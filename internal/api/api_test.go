package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/erazemk/vozicek/internal/auth"
	"github.com/erazemk/vozicek/internal/db"
)

const (
	testJWTSecret = "test-secret"
	testPassword  = "cart-password"
)

var testNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	return setupCachedTestServer(t, 0)
}

// setupCachedTestServer is setupTestServer with a snapshot cache that only
// reloads after maxAge or a mutation.
func setupCachedTestServer(t *testing.T, maxAge time.Duration) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(Deps{
		DB:             database,
		JWTSecret:      testJWTSecret,
		Gate:           auth.NewPasswordGate(testPassword, ""),
		Log:            zerolog.Nop(),
		Now:            func() time.Time { return testNow },
		SnapshotMaxAge: maxAge,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	body, _ := json.Marshal(map[string]string{"password": testPassword, "operator": "night shift"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]any
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader io.Reader = bytes.NewReader(nil)
	if raw, ok := body.([]byte); ok {
		bodyReader = bytes.NewReader(raw)
	} else if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends an authenticated request, checks the status and decodes the body
// into out when out is not nil.
func do(t *testing.T, method, url, token string, body any, wantStatus int, out any) *http.Response {
	t.Helper()
	req, err := authRequest(method, url, token, body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", method, url, wantStatus, resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, url, err)
		}
	}
	return resp
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"password":"wrong"}`, http.StatusUnauthorized},
		{"missing password", `{}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader([]byte(tt.body)))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestUnauthenticated(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}

	do(t, "GET", server.URL+"/api/items", "garbage", nil, http.StatusUnauthorized, nil)
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	do(t, "GET", server.URL+"/api/items", token, nil, http.StatusOK, nil)
	do(t, "POST", server.URL+"/api/auth/logout", token, nil, http.StatusOK, nil)
	do(t, "GET", server.URL+"/api/items", token, nil, http.StatusUnauthorized, nil)
}

func TestHealthzAndRequestID(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api/items"

	var created map[string]any
	do(t, "POST", base, token, map[string]any{
		"name": "ETT 7.0", "stock": 2, "expiry_date": "2027-03-15", "bundle": "airway",
	}, http.StatusCreated, &created)
	if created["is_tracheal_tube"] != true {
		t.Errorf("expected tracheal tube, got %v", created["is_tracheal_tube"])
	}
	if created["exchange"] != "OVERDUE" {
		t.Errorf("expected overdue exchange, got %v", created["exchange"])
	}
	if created["current_stock"] != float64(2) {
		t.Errorf("expected current stock to default to par, got %v", created["current_stock"])
	}

	do(t, "POST", base, token, map[string]any{"name": "ETT 7.0", "stock": 1}, http.StatusConflict, nil)
	do(t, "POST", base, token, map[string]any{"name": "Gauze", "stock": 1, "expiry_date": "soon"}, http.StatusBadRequest, nil)
	do(t, "POST", base, token, map[string]any{"name": "Gauze"}, http.StatusBadRequest, nil)

	do(t, "POST", base, token, map[string]any{
		"name": "NSS 1000ml", "stock": 20, "current_stock": 18, "expiry_date": "30/09/2026", "bundle": "IV",
	}, http.StatusCreated, nil)

	var items []map[string]any
	do(t, "GET", base, token, nil, http.StatusOK, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["name"] != "NSS 1000ml" || items[0]["status"] != "EXPIRED" {
		t.Errorf("expected expired NSS first, got %v", items[0])
	}

	do(t, "GET", base+"?q=ett", token, nil, http.StatusOK, &items)
	if len(items) != 1 || items[0]["name"] != "ETT 7.0" {
		t.Errorf("unexpected filter result %v", items)
	}

	do(t, "GET", base+"/missing", token, nil, http.StatusNotFound, nil)
	do(t, "DELETE", base+"/missing", token, nil, http.StatusNotFound, nil)

	var updated map[string]any
	do(t, "PUT", base+"/NSS%201000ml/expiry", token, map[string]string{"expiry_date": "2028-05-04"}, http.StatusOK, &updated)
	if updated["status"] != "OK" {
		t.Errorf("expected OK after new expiry, got %v", updated["status"])
	}

	do(t, "DELETE", base+"/ETT%207.0", token, nil, http.StatusOK, nil)
	do(t, "GET", base+"/ETT%207.0", token, nil, http.StatusNotFound, nil)
}

func TestConsumeAndReset(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api/items"

	do(t, "POST", base, token, map[string]any{
		"name": "Gauze", "stock": 3, "expiry_date": "2028-01-01",
	}, http.StatusCreated, nil)

	var stock stockResponse
	do(t, "POST", base+"/Gauze/consume", token, map[string]int{"quantity": 2}, http.StatusOK, &stock)
	if stock.CurrentStock != 1 {
		t.Errorf("expected 1 left, got %d", stock.CurrentStock)
	}

	var item map[string]any
	do(t, "GET", base+"/Gauze", token, nil, http.StatusOK, &item)
	if item["status"] != "LOW_STOCK" {
		t.Errorf("expected LOW_STOCK, got %v", item["status"])
	}

	do(t, "POST", base+"/Gauze/consume", token, map[string]int{"quantity": 5}, http.StatusBadRequest, nil)
	do(t, "POST", base+"/Gauze/consume", token, map[string]int{"quantity": 0}, http.StatusBadRequest, nil)
	do(t, "POST", base+"/Gauze/consume", token, map[string]int{"quantity": 1}, http.StatusOK, nil)
	do(t, "POST", base+"/Gauze/consume", token, map[string]int{"quantity": 1}, http.StatusConflict, nil)
	do(t, "POST", base+"/missing/consume", token, map[string]int{"quantity": 1}, http.StatusNotFound, nil)

	do(t, "POST", base+"/Gauze/reset", token, nil, http.StatusOK, &stock)
	if stock.CurrentStock != 3 {
		t.Errorf("expected reset to par 3, got %d", stock.CurrentStock)
	}
}

func TestBundlesAndAlerts(t *testing.T) {
	server, token := setupTestServer(t)
	items := server.URL + "/api/items"

	for _, body := range []map[string]any{
		{"name": "Ambu bag", "stock": 1, "expiry_date": "2027-12-02", "bundle": "airway"},
		{"name": "Stylet", "stock": 1, "current_stock": 0, "expiry_date": "2027-12-07", "bundle": "airway"},
		{"name": "Defib Gel", "stock": 2, "expiry_date": "2026-11-01", "bundle": "CPR"},
	} {
		do(t, "POST", items, token, body, http.StatusCreated, nil)
	}

	var bundles []map[string]any
	do(t, "GET", server.URL+"/api/bundles", token, nil, http.StatusOK, &bundles)
	if len(bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(bundles))
	}
	verdicts := map[string]any{}
	for _, b := range bundles {
		verdicts[b["bundle"].(string)] = b["verdict"]
	}
	if verdicts["airway"] != "NOT_READY" || verdicts["CPR"] != "READY" {
		t.Errorf("unexpected verdicts %v", verdicts)
	}

	var alerts struct {
		Counts map[string]int `json:"counts"`
	}
	do(t, "GET", server.URL+"/api/alerts", token, nil, http.StatusOK, &alerts)
	if alerts.Counts["out_of_stock"] != 1 || alerts.Counts["expiring_soon"] != 1 {
		t.Errorf("unexpected alert counts %v", alerts.Counts)
	}

	do(t, "GET", server.URL+"/api/alerts?date=2028-01-01", token, nil, http.StatusOK, &alerts)
	if alerts.Counts["expired"] != 3 {
		t.Errorf("expected all expired in 2028, got %v", alerts.Counts)
	}
	do(t, "GET", server.URL+"/api/report?date=nope", token, nil, http.StatusBadRequest, nil)
}

func TestEquipmentAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api/equipment"

	var unit struct {
		ID int64 `json:"id"`
	}
	do(t, "POST", base, token, map[string]string{"name": "Defibrillator", "asset_code": "OR-DEF-01"}, http.StatusCreated, &unit)
	do(t, "POST", base, token, map[string]string{"name": "Suction unit"}, http.StatusCreated, nil)
	do(t, "POST", base, token, map[string]string{"name": "Defibrillator"}, http.StatusConflict, nil)

	unitURL := base + "/" + itoa(unit.ID)
	do(t, "POST", unitURL+"/checks", token, map[string]string{"status": "not_ready", "remark": "pads missing"}, http.StatusCreated, nil)

	var rec map[string]any
	do(t, "POST", unitURL+"/checks", token, map[string]string{"status": "READY"}, http.StatusCreated, &rec)
	if rec["checked_by"] != "night shift" || rec["check_time"] != "09:30" {
		t.Errorf("expected defaults from session and clock, got %v", rec)
	}
	do(t, "POST", unitURL+"/checks", token, map[string]string{"status": "BROKEN"}, http.StatusBadRequest, nil)
	do(t, "POST", base+"/999/checks", token, map[string]string{"status": "READY"}, http.StatusNotFound, nil)

	var detail struct {
		Latest struct {
			Status string `json:"status"`
		} `json:"latest"`
		Checks []any `json:"checks"`
	}
	do(t, "GET", unitURL, token, nil, http.StatusOK, &detail)
	if detail.Latest.Status != "READY" || len(detail.Checks) != 2 {
		t.Errorf("unexpected detail %+v", detail)
	}

	var fleet struct {
		Total     int      `json:"total"`
		Ready     int      `json:"ready"`
		Unchecked int      `json:"unchecked"`
		Verdict   string   `json:"verdict"`
		Blocking  []string `json:"blocking"`
	}
	do(t, "GET", base, token, nil, http.StatusOK, &fleet)
	if fleet.Total != 2 || fleet.Ready != 1 || fleet.Unchecked != 1 || fleet.Verdict != "NOT_READY" {
		t.Errorf("unexpected fleet %+v", fleet)
	}
	if len(fleet.Blocking) != 1 || fleet.Blocking[0] != "Suction unit" {
		t.Errorf("unexpected blocking %v", fleet.Blocking)
	}

	do(t, "PUT", unitURL+"/maintenance", token, map[string]string{"date": "2026-09-01", "note": "serviced"}, http.StatusOK, nil)
	do(t, "PUT", unitURL+"/maintenance", token, map[string]string{"date": "someday"}, http.StatusBadRequest, nil)

	do(t, "GET", base+"/abc", token, nil, http.StatusBadRequest, nil)
	do(t, "DELETE", unitURL, token, nil, http.StatusOK, nil)
	do(t, "GET", unitURL, token, nil, http.StatusNotFound, nil)
}

func TestEquipmentImage(t *testing.T) {
	server, token := setupTestServer(t)
	base := server.URL + "/api/equipment"

	var unit struct {
		ID int64 `json:"id"`
	}
	do(t, "POST", base, token, map[string]string{"name": "Video laryngoscope"}, http.StatusCreated, &unit)
	imageURL := base + "/" + itoa(unit.ID) + "/image"

	do(t, "GET", imageURL, token, nil, http.StatusNotFound, nil)
	do(t, "PUT", imageURL, token, []byte("not an image"), http.StatusBadRequest, nil)

	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	png.Encode(&buf, img)

	do(t, "PUT", imageURL, token, buf.Bytes(), http.StatusOK, nil)
	resp := do(t, "GET", imageURL, token, nil, http.StatusOK, nil)
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
}

func TestEquipmentImageRefreshesFleet(t *testing.T) {
	server, token := setupCachedTestServer(t, time.Hour)
	base := server.URL + "/api/equipment"

	var unit struct {
		ID int64 `json:"id"`
	}
	do(t, "POST", base, token, map[string]string{"name": "Suction unit"}, http.StatusCreated, &unit)

	var fleet struct {
		Units []struct {
			ImageMime string `json:"image_mime"`
		} `json:"units"`
	}
	do(t, "GET", base, token, nil, http.StatusOK, &fleet)
	if len(fleet.Units) != 1 || fleet.Units[0].ImageMime != "" {
		t.Fatalf("expected one unit without an image, got %+v", fleet.Units)
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	do(t, "PUT", base+"/"+itoa(unit.ID)+"/image", token, buf.Bytes(), http.StatusOK, nil)

	do(t, "GET", base, token, nil, http.StatusOK, &fleet)
	if len(fleet.Units) != 1 || fleet.Units[0].ImageMime != "image/jpeg" {
		t.Errorf("expected fleet to show image/jpeg after upload, got %+v", fleet.Units)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
