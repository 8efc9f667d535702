package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		data     any
		wantBody string
	}{
		{"object", http.StatusCreated, map[string]string{"message": "ok"}, `{"message":"ok"}` + "\n"},
		{"nil body", http.StatusNoContent, nil, ""},
		// Unencodable values still send the status without panicking.
		{"unencodable", http.StatusOK, func() {}, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		jsonResponse(rec, tt.status, tt.data)
		if rec.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.status, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: expected application/json, got %q", tt.name, ct)
		}
		if rec.Body.String() != tt.wantBody {
			t.Errorf("%s: expected body %q, got %q", tt.name, tt.wantBody, rec.Body.String())
		}
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	jsonError(rec, http.StatusBadRequest, "name required")

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest || body["error"] != "name required" {
		t.Errorf("unexpected error response %d %v", rec.Code, body)
	}
}
